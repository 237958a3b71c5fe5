// internal/middleware/logger.go

package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nisargarh/Cab-booking-sub001/internal/domain"
	"github.com/nisargarh/Cab-booking-sub001/pkg/logger"
)

func errorClass(err error) string {
	switch {
	case domain.IsValidationError(err):
		return "validation"
	case domain.IsNotFound(err):
		return "not_found"
	case domain.IsBusinessError(err):
		return "business"
	case domain.IsInfrastructureError(err):
		return "infrastructure"
	default:
		return "internal"
	}
}

func (m *Middleware) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		// Skip logging for health checks
		if path == "/health" {
			return
		}

		status := c.Writer.Status()
		if raw != "" {
			path = path + "?" + raw
		}

		entry := logger.WithFields(logrus.Fields{
			"status":    status,
			"latency":   time.Since(start),
			"client_ip": c.ClientIP(),
			"method":    c.Request.Method,
			"path":      path,
		})
		if status >= 400 && len(c.Errors) > 0 {
			entry = entry.WithFields(logrus.Fields{
				"errors":      c.Errors.String(),
				"error_class": errorClass(c.Errors.Last().Err),
			})
		}

		switch {
		case status >= 500:
			entry.Error("Request failed")
		case status >= 400:
			entry.Warn("Request warning")
		default:
			entry.Info("Request processed")
		}
	}
}
