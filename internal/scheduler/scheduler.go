// Package scheduler provides the owned timer handles used by the OTP
// countdown and the simulated ride-request delay.
package scheduler

import (
	"sync"
	"time"
)

// Ticker calls fn once per interval from its own goroutine until cancelled.
// The zero value is not usable; use NewTicker.
type Ticker struct {
	interval time.Duration
	fn       func()

	mu      sync.Mutex
	started bool
	stop    chan struct{}
	done    chan struct{}
}

func NewTicker(interval time.Duration, fn func()) *Ticker {
	return &Ticker{
		interval: interval,
		fn:       fn,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins delivery. Calling Start twice, or after Cancel, does nothing.
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return
	}
	t.started = true

	select {
	case <-t.stop:
		close(t.done)
		return
	default:
	}

	go t.run()
}

func (t *Ticker) run() {
	defer close(t.done)
	tk := time.NewTicker(t.interval)
	defer tk.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-tk.C:
			// stop wins over a tick that raced with it
			select {
			case <-t.stop:
				return
			default:
			}
			t.fn()
		}
	}
}

// Cancel stops delivery. It is idempotent and, once it returns, fn is not
// running and will not run again. Must not be called from inside fn.
func (t *Ticker) Cancel() {
	t.mu.Lock()
	select {
	case <-t.stop:
	default:
		close(t.stop)
	}
	started := t.started
	t.mu.Unlock()

	if started {
		<-t.done
	}
}

// Deferred runs fn once after a delay unless cancelled first.
type Deferred struct {
	mu        sync.Mutex
	timer     *time.Timer
	cancelled bool
	fired     bool
}

// After arms a new one-shot callback.
func After(delay time.Duration, fn func()) *Deferred {
	d := &Deferred{}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.timer = time.AfterFunc(delay, func() {
		d.mu.Lock()
		if d.cancelled {
			d.mu.Unlock()
			return
		}
		d.fired = true
		d.mu.Unlock()
		fn()
	})
	return d
}

// Cancel prevents the callback if it has not started yet. It is safe to call
// any number of times, and on a nil receiver. Reports whether this call
// prevented the callback.
func (d *Deferred) Cancel() bool {
	if d == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancelled || d.fired {
		return false
	}
	d.cancelled = true
	d.timer.Stop()
	return true
}

// Fired reports whether the callback has started.
func (d *Deferred) Fired() bool {
	if d == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fired
}
