// internal/middleware/security.go

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var permissionsPolicy = strings.Join([]string{
	"camera=()",
	"microphone=()",
	"geolocation=()",
	"payment=()",
	"usb=()",
}, ", ")

// Security adds response headers for a JSON and websocket API.
func (m *Middleware) Security() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Permitted-Cross-Domain-Policies", "none")
		c.Header("Content-Security-Policy", "default-src 'none'; connect-src 'self' ws: wss:; frame-ancestors 'none'")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", permissionsPolicy)
		c.Header("Cross-Origin-Opener-Policy", "same-origin")
		c.Header("Cross-Origin-Resource-Policy", "same-origin")

		// Preferences and codes must not be cached
		c.Header("Cache-Control", "no-store, max-age=0")
		c.Header("Pragma", "no-cache")

		if m.config.Server.TLS.Enabled {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// TLSMiddleware rejects plain HTTP behind a TLS-terminating proxy.
func (m *Middleware) TLSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.config.Server.TLS.Enabled && c.Request.TLS == nil &&
			c.Request.Header.Get("X-Forwarded-Proto") != "https" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"status":  http.StatusBadRequest,
				"message": "HTTPS_REQUIRED",
			})
			return
		}
		c.Next()
	}
}
