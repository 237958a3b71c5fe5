package metrics

import (
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Stats represents a snapshot of current metrics
type Stats struct {
	PreferenceWrites  int64 `json:"preference_writes"`
	SessionsCreated   int64 `json:"otp_sessions_created"`
	OTPVerified       int64 `json:"otp_verified"`
	OTPInvalid        int64 `json:"otp_invalid"`
	OTPResends        int64 `json:"otp_resends"`
	SessionsExpired   int64 `json:"otp_sessions_expired"`
	RideOffers        int64 `json:"ride_offers"`
	RidesAccepted     int64 `json:"rides_accepted"`
	RidesDeclined     int64 `json:"rides_declined"`
	TripsCompleted    int64 `json:"trips_completed"`
	RateLimited       int64 `json:"rate_limited"`
	PublishErrors     int64 `json:"publish_errors"`
	TotalRequests     int64 `json:"total_requests"`
	StartTime         int64 `json:"start_time"`
	UptimeSeconds     int64 `json:"uptime_seconds"`
	ActiveOTPSessions int64 `json:"active_otp_sessions"`
}

// Metrics holds in-process counters served on /stats
type Metrics struct {
	preferenceWrites  int64
	sessionsCreated   int64
	otpVerified       int64
	otpInvalid        int64
	otpResends        int64
	sessionsExpired   int64
	rideOffers        int64
	ridesAccepted     int64
	ridesDeclined     int64
	tripsCompleted    int64
	rateLimited       int64
	publishErrors     int64
	totalRequests     int64
	activeOTPSessions int64
	startTime         int64
	logger            *logrus.Logger
}

// NewMetrics creates a new metrics instance
func NewMetrics(logger *logrus.Logger) *Metrics {
	return &Metrics{
		startTime: time.Now().Unix(),
		logger:    logger,
	}
}

func (m *Metrics) IncrementPreferenceWrites() { atomic.AddInt64(&m.preferenceWrites, 1) }

// IncrementSessionsCreated counts a new verification session and tracks it as active
func (m *Metrics) IncrementSessionsCreated() {
	atomic.AddInt64(&m.sessionsCreated, 1)
	atomic.AddInt64(&m.activeOTPSessions, 1)
}

// SessionClosed marks a verification session as no longer active
func (m *Metrics) SessionClosed() {
	atomic.AddInt64(&m.activeOTPSessions, -1)
}

func (m *Metrics) IncrementOTPVerified()     { atomic.AddInt64(&m.otpVerified, 1) }
func (m *Metrics) IncrementOTPInvalid()      { atomic.AddInt64(&m.otpInvalid, 1) }
func (m *Metrics) IncrementOTPResends()      { atomic.AddInt64(&m.otpResends, 1) }
func (m *Metrics) IncrementSessionsExpired() { atomic.AddInt64(&m.sessionsExpired, 1) }
func (m *Metrics) IncrementRideOffers()      { atomic.AddInt64(&m.rideOffers, 1) }
func (m *Metrics) IncrementRidesAccepted()   { atomic.AddInt64(&m.ridesAccepted, 1) }
func (m *Metrics) IncrementRidesDeclined()   { atomic.AddInt64(&m.ridesDeclined, 1) }
func (m *Metrics) IncrementTripsCompleted()  { atomic.AddInt64(&m.tripsCompleted, 1) }
func (m *Metrics) IncrementRateLimited()     { atomic.AddInt64(&m.rateLimited, 1) }
func (m *Metrics) IncrementPublishErrors()   { atomic.AddInt64(&m.publishErrors, 1) }
func (m *Metrics) IncrementTotalRequests()   { atomic.AddInt64(&m.totalRequests, 1) }

// GetStats returns current metrics as Stats struct
func (m *Metrics) GetStats() Stats {
	return Stats{
		PreferenceWrites:  atomic.LoadInt64(&m.preferenceWrites),
		SessionsCreated:   atomic.LoadInt64(&m.sessionsCreated),
		OTPVerified:       atomic.LoadInt64(&m.otpVerified),
		OTPInvalid:        atomic.LoadInt64(&m.otpInvalid),
		OTPResends:        atomic.LoadInt64(&m.otpResends),
		SessionsExpired:   atomic.LoadInt64(&m.sessionsExpired),
		RideOffers:        atomic.LoadInt64(&m.rideOffers),
		RidesAccepted:     atomic.LoadInt64(&m.ridesAccepted),
		RidesDeclined:     atomic.LoadInt64(&m.ridesDeclined),
		TripsCompleted:    atomic.LoadInt64(&m.tripsCompleted),
		RateLimited:       atomic.LoadInt64(&m.rateLimited),
		PublishErrors:     atomic.LoadInt64(&m.publishErrors),
		TotalRequests:     atomic.LoadInt64(&m.totalRequests),
		ActiveOTPSessions: atomic.LoadInt64(&m.activeOTPSessions),
		StartTime:         m.startTime,
		UptimeSeconds:     time.Now().Unix() - m.startTime,
	}
}

// GetUptime returns the uptime duration
func (m *Metrics) GetUptime() time.Duration {
	return time.Since(time.Unix(m.startTime, 0))
}

// LogMetrics logs current metrics
func (m *Metrics) LogMetrics() {
	s := m.GetStats()
	m.logger.WithFields(logrus.Fields{
		"preference_writes":   s.PreferenceWrites,
		"otp_verified":        s.OTPVerified,
		"otp_invalid":         s.OTPInvalid,
		"otp_resends":         s.OTPResends,
		"active_otp_sessions": s.ActiveOTPSessions,
		"ride_offers":         s.RideOffers,
		"rides_accepted":      s.RidesAccepted,
		"total_requests":      s.TotalRequests,
		"uptime_seconds":      s.UptimeSeconds,
	}).Info("Application metrics")
}
