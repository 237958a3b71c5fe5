// internal/handler/router.go

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nisargarh/Cab-booking-sub001/internal/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health     *HealthHandler
	Preference *PreferenceHandler
	OTP        *OTPHandler
	Driver     *DriverHandler
	Navigation *NavigationHandler
	Hub        *Hub
}

// NewRouter wires middleware and routes. m may be nil in tests.
func NewRouter(m *middleware.Middleware, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	if m != nil {
		router.Use(m.Logger())
		router.Use(m.TLSMiddleware())
		router.Use(m.Security())
		router.Use(m.Metrics())
	}

	router.GET("/health", h.Health.Check)
	router.GET("/stats", h.Health.Stats)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/")
	if m != nil {
		api.Use(m.RateLimit())
	}

	prefs := api.Group("/preferences")
	{
		prefs.GET("", h.Preference.Get)
		prefs.PUT("/theme", h.Preference.SetTheme)
		prefs.POST("/theme/toggle", h.Preference.ToggleTheme)
		prefs.PUT("/role", h.Preference.SetRole)
	}

	sessions := api.Group("/otp/sessions")
	{
		sessions.POST("", h.OTP.CreateSession)
		sessions.GET("/:id", h.OTP.GetSession)
		sessions.PUT("/:id/digits/:index", h.OTP.EnterDigit)
		sessions.POST("/:id/verify", h.OTP.Verify)
		sessions.POST("/:id/resend", h.OTP.Resend)
		sessions.DELETE("/:id", h.OTP.CloseSession)
	}

	drv := api.Group("/driver")
	{
		drv.GET("", h.Driver.Get)
		drv.POST("/online", h.Driver.GoOnline)
		drv.POST("/offline", h.Driver.GoOffline)
		drv.POST("/toggle", h.Driver.Toggle)
		drv.POST("/request/accept", h.Driver.Accept)
		drv.POST("/request/decline", h.Driver.Decline)
		drv.POST("/trip/complete", h.Driver.CompleteTrip)
	}

	if h.Navigation != nil {
		api.GET("/navigation", h.Navigation.Get)
	}

	if h.Hub != nil {
		router.GET("/ws", h.Hub.Serve)
	}

	return router
}
