// internal/middleware/metrics.go

package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nisargarh/Cab-booking-sub001/pkg/metrics"
)

// Metrics records request latency by route template, so ids in paths do
// not create new series.
func (m *Middleware) Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RecordRequest(c.Request.Method, endpoint, c.Writer.Status(), start)
		if m.stats != nil {
			m.stats.IncrementTotalRequests()
		}
	}
}
