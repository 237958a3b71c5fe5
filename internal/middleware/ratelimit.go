// internal/middleware/ratelimit.go

package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/nisargarh/Cab-booking-sub001/internal/domain"
	"github.com/nisargarh/Cab-booking-sub001/pkg/utils"
)

const (
	defaultRateLimit = 10 // requests per second
	defaultBurst     = 20
)

func (m *Middleware) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := m.getLimiter(c.ClientIP())

		if !limiter.Allow() {
			if m.stats != nil {
				m.stats.IncrementRateLimited()
			}
			c.Header("Retry-After", "1")
			utils.RespondWithError(c, domain.ErrRateLimitExceeded)
			return
		}

		c.Next()
	}
}

func (m *Middleware) getLimiter(clientIP string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	limiter, exists := m.clients[clientIP]
	if !exists {
		limiter = rate.NewLimiter(m.limit, m.burst)
		m.clients[clientIP] = limiter
	}

	return limiter
}
