// internal/middleware/middleware.go

package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/nisargarh/Cab-booking-sub001/internal/config"
	"github.com/nisargarh/Cab-booking-sub001/internal/metrics"
	"github.com/nisargarh/Cab-booking-sub001/internal/scheduler"
)

const limiterResetInterval = time.Hour

type Middleware struct {
	config  *config.Config
	stats   *metrics.Metrics
	limit   rate.Limit
	burst   int
	clients map[string]*rate.Limiter
	mu      sync.Mutex
	cleanup *scheduler.Ticker
}

func NewMiddleware(cfg *config.Config, stats *metrics.Metrics) *Middleware {
	limit := rate.Limit(cfg.RateLimit.RequestsPerSecond)
	if limit <= 0 {
		limit = defaultRateLimit
	}
	burst := cfg.RateLimit.Burst
	if burst <= 0 {
		burst = defaultBurst
	}

	m := &Middleware{
		config:  cfg,
		stats:   stats,
		limit:   limit,
		burst:   burst,
		clients: make(map[string]*rate.Limiter),
	}
	m.cleanup = scheduler.NewTicker(limiterResetInterval, m.resetLimiters)
	return m
}

// CleanupLimiters starts periodic removal of per-client limiters.
func (m *Middleware) CleanupLimiters() {
	m.cleanup.Start()
}

// Stop ends the limiter cleanup.
func (m *Middleware) Stop() {
	m.cleanup.Cancel()
}

func (m *Middleware) resetLimiters() {
	m.mu.Lock()
	m.clients = make(map[string]*rate.Limiter)
	m.mu.Unlock()
}
