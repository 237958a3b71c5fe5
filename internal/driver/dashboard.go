// Package driver simulates the driver dashboard: the online toggle, a
// delayed mock ride request, and the accept/decline/complete lifecycle.
package driver

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nisargarh/Cab-booking-sub001/internal/domain"
	"github.com/nisargarh/Cab-booking-sub001/internal/metrics"
	"github.com/nisargarh/Cab-booking-sub001/internal/scheduler"
	"github.com/nisargarh/Cab-booking-sub001/pkg/logger"
	promMetrics "github.com/nisargarh/Cab-booking-sub001/pkg/metrics"
)

type Status string

const (
	StatusOffline        Status = "offline"
	StatusOnline         Status = "online"
	StatusRequestPending Status = "request_pending"
	StatusOnTrip         Status = "on_trip"
)

const (
	DefaultRequestDelay = 5 * time.Second
	publishTimeout      = 2 * time.Second
)

// Snapshot is the dashboard state shown to the driver.
type Snapshot struct {
	Status         Status       `json:"status"`
	Request        *RideRequest `json:"request,omitempty"`
	Trip           *RideRequest `json:"trip,omitempty"`
	TripStarted    bool         `json:"trip_started"`
	TripsCompleted int          `json:"trips_completed"`
}

type Option func(*Dashboard)

func WithRequestDelay(d time.Duration) Option {
	return func(db *Dashboard) {
		if d > 0 {
			db.delay = d
		}
	}
}

func WithRequestSource(src RequestSource) Option {
	return func(db *Dashboard) { db.source = src }
}

func WithNavigator(n domain.Navigator) Option {
	return func(db *Dashboard) { db.navigator = n }
}

func WithPublisher(p domain.EventPublisher) Option {
	return func(db *Dashboard) { db.publisher = p }
}

func WithStats(m *metrics.Metrics) Option {
	return func(db *Dashboard) { db.stats = m }
}

// Dashboard owns the driver status and the pending request timer. Only
// one deferred request is armed at a time; every transition away from
// online cancels it, and going online again arms a new one.
//
// Subscribers are called in transition order, one at a time. They may read
// the Snapshot but must not start another transition.
type Dashboard struct {
	delay     time.Duration
	source    RequestSource
	navigator domain.Navigator
	publisher domain.EventPublisher
	stats     *metrics.Metrics

	// notifyMu is held from a transition until its subscribers return.
	notifyMu       sync.Mutex
	mu             sync.Mutex
	status         Status
	request        *RideRequest
	trip           *RideRequest
	tripStarted    bool
	tripsCompleted int
	pending        *scheduler.Deferred
	armed          uint64
	closed         bool
	listeners      map[uint64]func(Snapshot)
	nextID         uint64
}

func NewDashboard(opts ...Option) *Dashboard {
	d := &Dashboard{
		delay:     DefaultRequestDelay,
		status:    StatusOffline,
		listeners: make(map[uint64]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.source == nil {
		d.source = NewMockRequests()
	}
	if d.stats == nil {
		d.stats = metrics.NewMetrics(logger.GetLogger())
	}
	return d
}

func (d *Dashboard) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

// Subscribe registers listener for every transition. The returned func
// removes it and may be called more than once.
func (d *Dashboard) Subscribe(listener func(Snapshot)) func() {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = listener
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.listeners, id)
			d.mu.Unlock()
		})
	}
}

// GoOnline moves an offline driver online and schedules the next request.
// It is a no-op when already online.
func (d *Dashboard) GoOnline(ctx context.Context) error {
	return d.transition(ctx, func() ([]domain.Event, error) {
		switch d.status {
		case StatusOffline:
		case StatusOnTrip:
			return nil, domain.ErrInvalidTransition
		default:
			return nil, nil
		}
		d.status = StatusOnline
		d.armLocked()
		return []domain.Event{d.statusEvent()}, nil
	})
}

// GoOffline cancels any scheduled request, withdraws a pending one and
// moves the driver offline. It is a no-op when already offline.
func (d *Dashboard) GoOffline(ctx context.Context) error {
	return d.transition(ctx, func() ([]domain.Event, error) {
		switch d.status {
		case StatusOffline:
			return nil, nil
		case StatusOnTrip:
			return nil, domain.ErrInvalidTransition
		}

		d.disarmLocked()
		var events []domain.Event
		if d.request != nil {
			events = append(events, rideEvent(domain.EventRideWithdrawn, d.request))
			promMetrics.RecordRideRequest("withdrawn")
			d.request = nil
		}
		d.status = StatusOffline
		return append(events, d.statusEvent()), nil
	})
}

// Toggle flips between online and offline and returns the new status.
func (d *Dashboard) Toggle(ctx context.Context) (Status, error) {
	var err error
	switch d.Snapshot().Status {
	case StatusOffline:
		err = d.GoOnline(ctx)
	case StatusOnTrip:
		err = domain.ErrInvalidTransition
	default:
		err = d.GoOffline(ctx)
	}
	return d.Snapshot().Status, err
}

// Accept takes the pending request, starts the trip and navigates to the
// trip-start verification screen.
func (d *Dashboard) Accept(ctx context.Context) (RideRequest, error) {
	var ride RideRequest
	err := d.transition(ctx, func() ([]domain.Event, error) {
		if err := d.requirePendingLocked(); err != nil {
			return nil, err
		}
		ride = *d.request
		d.trip = d.request
		d.tripStarted = false
		d.request = nil
		d.status = StatusOnTrip
		d.stats.IncrementRidesAccepted()
		promMetrics.RecordRideRequest("accepted")
		return []domain.Event{rideEvent(domain.EventRideAccepted, &ride), d.statusEvent()}, nil
	})
	if err != nil {
		return RideRequest{}, err
	}

	if d.navigator != nil {
		d.navigator.Navigate(ctx, domain.RouteTripOTP, map[string]string{"ride_id": ride.ID})
	}
	return ride, nil
}

// Decline drops the pending request and schedules a fresh one.
func (d *Dashboard) Decline(ctx context.Context) error {
	return d.transition(ctx, func() ([]domain.Event, error) {
		if err := d.requirePendingLocked(); err != nil {
			return nil, err
		}
		declined := d.request
		d.request = nil
		d.status = StatusOnline
		d.armLocked()
		d.stats.IncrementRidesDeclined()
		promMetrics.RecordRideRequest("declined")
		return []domain.Event{rideEvent(domain.EventRideDeclined, declined), d.statusEvent()}, nil
	})
}

// StartTrip marks the accepted ride as started once its trip-start code has
// been verified. Starting the same ride again is a no-op.
func (d *Dashboard) StartTrip(ctx context.Context, rideID string) error {
	return d.transition(ctx, func() ([]domain.Event, error) {
		if d.status != StatusOnTrip || d.trip == nil || d.trip.ID != rideID {
			return nil, domain.ErrInvalidTransition
		}
		if d.tripStarted {
			return nil, nil
		}
		d.tripStarted = true
		return []domain.Event{rideEvent(domain.EventTripStarted, d.trip)}, nil
	})
}

// CompleteTrip ends a started trip and puts the driver back online. A trip
// whose start code was never verified cannot be completed.
func (d *Dashboard) CompleteTrip(ctx context.Context) error {
	return d.transition(ctx, func() ([]domain.Event, error) {
		if d.status != StatusOnTrip || !d.tripStarted {
			return nil, domain.ErrInvalidTransition
		}
		finished := d.trip
		d.trip = nil
		d.tripStarted = false
		d.tripsCompleted++
		d.status = StatusOnline
		d.armLocked()
		d.stats.IncrementTripsCompleted()
		promMetrics.RecordRideRequest("completed")
		return []domain.Event{rideEvent(domain.EventTripCompleted, finished), d.statusEvent()}, nil
	})
}

// Close cancels the scheduled request. Later transitions fail with
// ErrInvalidTransition.
func (d *Dashboard) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.disarmLocked()
	d.closed = true
}

func (d *Dashboard) requirePendingLocked() error {
	switch d.status {
	case StatusRequestPending:
		return nil
	case StatusOffline:
		return domain.ErrDriverOffline
	default:
		return domain.ErrNoPendingRequest
	}
}

func (d *Dashboard) armLocked() {
	d.disarmLocked()
	gen := d.armed
	d.pending = scheduler.After(d.delay, func() { d.offer(gen) })
}

func (d *Dashboard) disarmLocked() {
	d.pending.Cancel()
	d.pending = nil
	d.armed++
}

// offer runs on the deferred timer. A callback that already fired when it
// was cancelled finds a newer generation and does nothing.
func (d *Dashboard) offer(gen uint64) {
	_ = d.transition(context.Background(), func() ([]domain.Event, error) {
		if d.armed != gen || d.status != StatusOnline {
			return nil, nil
		}
		req := d.source.Next()
		d.request = &req
		d.pending = nil
		d.status = StatusRequestPending
		d.stats.IncrementRideOffers()
		promMetrics.RecordRideRequest("offered")
		return []domain.Event{rideEvent(domain.EventRideOffered, &req), d.statusEvent()}, nil
	})
}

// transition runs fn under the lock, then notifies subscribers and
// publishes the returned events. No events means nothing changed.
func (d *Dashboard) transition(ctx context.Context, fn func() ([]domain.Event, error)) error {
	d.notifyMu.Lock()
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.notifyMu.Unlock()
		return domain.ErrInvalidTransition
	}
	events, err := fn()
	if err != nil || len(events) == 0 {
		d.mu.Unlock()
		d.notifyMu.Unlock()
		return err
	}
	snap := d.snapshotLocked()
	listeners := make([]func(Snapshot), 0, len(d.listeners))
	for _, l := range d.listeners {
		listeners = append(listeners, l)
	}
	d.mu.Unlock()

	logger.WithFields(logrus.Fields{"status": string(snap.Status)}).Debug("Driver dashboard transition")
	for _, l := range listeners {
		l(snap)
	}
	d.notifyMu.Unlock()

	d.publish(ctx, events)
	return nil
}

func (d *Dashboard) publish(ctx context.Context, events []domain.Event) {
	if d.publisher == nil {
		return
	}
	for _, event := range events {
		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		err := d.publisher.Publish(pubCtx, event)
		cancel()
		if err != nil {
			d.stats.IncrementPublishErrors()
			logger.WithFields(logrus.Fields{"event": event.Type}).WithError(err).Warn("Failed to publish driver event")
		}
	}
}

func (d *Dashboard) snapshotLocked() Snapshot {
	snap := Snapshot{Status: d.status, TripStarted: d.tripStarted, TripsCompleted: d.tripsCompleted}
	if d.request != nil {
		r := *d.request
		snap.Request = &r
	}
	if d.trip != nil {
		t := *d.trip
		snap.Trip = &t
	}
	return snap
}

func (d *Dashboard) statusEvent() domain.Event {
	return domain.Event{
		Type:       domain.EventDriverUpdate,
		OccurredAt: time.Now().UTC(),
		Data:       map[string]string{"status": string(d.status)},
	}
}

func rideEvent(eventType string, r *RideRequest) domain.Event {
	return domain.Event{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data: map[string]string{
			"ride_id": r.ID,
			"rider":   r.RiderName,
			"pickup":  r.Pickup,
			"dropoff": r.Dropoff,
		},
	}
}
