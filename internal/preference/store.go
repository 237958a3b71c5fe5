// Package preference holds small typed settings with synchronous in-memory
// reads and asynchronous durable persistence.
package preference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nisargarh/Cab-booking-sub001/internal/domain"
	"github.com/nisargarh/Cab-booking-sub001/pkg/logger"
	"github.com/nisargarh/Cab-booking-sub001/pkg/metrics"
)

const (
	defaultLoadTimeout = 2 * time.Second
	defaultSaveTimeout = 2 * time.Second
)

type options struct {
	loadTimeout time.Duration
	saveTimeout time.Duration
}

type Option func(*options)

func WithLoadTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.loadTimeout = d
		}
	}
}

func WithSaveTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.saveTimeout = d
		}
	}
}

// Store holds one value of type T under a stable key.
//
// Reads never block. Writes update memory first and are persisted by a
// single background writer that always saves the latest value. A load
// started at construction is applied only if no Set happened since.
//
// Listeners see changes in the order they were applied. They run one at a
// time and may call Get, but must not mutate the same store.
type Store[T any] struct {
	key     string
	storage domain.PreferenceStorage
	opts    options

	// notifyMu is held from a mutation until its listeners return.
	notifyMu   sync.Mutex
	mu         sync.RWMutex
	value      T
	generation uint64
	pending    *T
	listeners  map[uint64]func(T)
	nextID     uint64

	wake      chan struct{}
	quit      chan struct{}
	done      chan struct{}
	ready     chan struct{}
	closeOnce sync.Once
}

// New creates a store holding def and starts hydration from storage. A nil
// storage gives a memory-only store.
func New[T any](key string, def T, storage domain.PreferenceStorage, opts ...Option) *Store[T] {
	o := options{loadTimeout: defaultLoadTimeout, saveTimeout: defaultSaveTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store[T]{
		key:       key,
		storage:   storage,
		opts:      o,
		value:     def,
		listeners: make(map[uint64]func(T)),
		wake:      make(chan struct{}, 1),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		ready:     make(chan struct{}),
	}

	if storage == nil {
		close(s.ready)
		close(s.done)
		return s
	}

	go s.hydrate(0)
	go s.writer()
	return s
}

func (s *Store[T]) Key() string { return s.key }

// Get returns the current in-memory value.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the value, notifies subscribers and schedules a durable
// write. Persistence failures are logged, never returned.
func (s *Store[T]) Set(v T) {
	s.Update(func(T) T { return v })
}

// Update applies fn to the current value atomically and stores the result.
func (s *Store[T]) Update(fn func(T) T) T {
	s.notifyMu.Lock()
	s.mu.Lock()
	v := fn(s.value)
	s.value = v
	s.generation++
	if s.storage != nil {
		s.pending = &v
	}
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, v)
	s.notifyMu.Unlock()

	if s.storage != nil {
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
	return v
}

// Subscribe registers listener for every value change, including the one
// produced by hydration. The returned func removes it and may be called
// more than once.
func (s *Store[T]) Subscribe(listener func(T)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Ready is closed once hydration has finished, whatever its result.
func (s *Store[T]) Ready() <-chan struct{} {
	return s.ready
}

// Close waits for hydration, flushes the pending write and stops the
// writer. Values set afterwards stay in memory only.
func (s *Store[T]) Close() {
	s.closeOnce.Do(func() {
		if s.storage == nil {
			return
		}
		<-s.ready
		close(s.quit)
		<-s.done
	})
}

func (s *Store[T]) snapshotListeners() []func(T) {
	if len(s.listeners) == 0 {
		return nil
	}
	out := make([]func(T), 0, len(s.listeners))
	for _, l := range s.listeners {
		out = append(out, l)
	}
	return out
}

func notify[T any](listeners []func(T), v T) {
	for _, l := range listeners {
		l(v)
	}
}

func (s *Store[T]) log() *logrus.Entry {
	return logger.WithFields(logrus.Fields{"key": s.key})
}

func (s *Store[T]) hydrate(startGeneration uint64) {
	defer close(s.ready)

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.loadTimeout)
	defer cancel()

	data, err := s.storage.Load(ctx, s.key)
	if errors.Is(err, domain.ErrPreferenceNotFound) {
		metrics.RecordPreferenceLoad(s.key, "not_found")
		s.log().Debug("No stored preference, keeping default")
		return
	}
	if err != nil {
		metrics.RecordPreferenceLoad(s.key, "error")
		s.log().WithError(fmt.Errorf("%w: %v", domain.ErrPersistenceUnavailable, err)).
			Warn("Failed to load preference, keeping default")
		return
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		metrics.RecordPreferenceLoad(s.key, "error")
		s.log().WithError(err).Warn("Stored preference is unreadable, keeping default")
		return
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.mu.Lock()
	if s.generation != startGeneration {
		s.mu.Unlock()
		metrics.RecordPreferenceLoad(s.key, "stale")
		s.log().Debug("Preference changed while loading, discarding stored value")
		return
	}
	s.value = v
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	metrics.RecordPreferenceLoad(s.key, "found")
	s.log().Debug("Preference restored from storage")
	notify(listeners, v)
}

func (s *Store[T]) writer() {
	defer close(s.done)
	for {
		select {
		case <-s.wake:
			s.flush()
		case <-s.quit:
			s.flush()
			return
		}
	}
}

func (s *Store[T]) flush() {
	s.mu.Lock()
	p := s.pending
	s.pending = nil
	s.mu.Unlock()
	if p == nil {
		return
	}

	if err := s.persist(*p); err != nil {
		metrics.RecordPreferenceWrite(s.key, false)
		s.log().WithError(err).Warn("Failed to persist preference")
		return
	}
	metrics.RecordPreferenceWrite(s.key, true)
}

func (s *Store[T]) persist(v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal preference: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.saveTimeout)
	defer cancel()

	if err := s.storage.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceUnavailable, err)
	}
	return nil
}
