// internal/handler/driver.go

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nisargarh/Cab-booking-sub001/internal/driver"
	"github.com/nisargarh/Cab-booking-sub001/internal/service"
	"github.com/nisargarh/Cab-booking-sub001/pkg/utils"
)

// DriverService is the dashboard surface the HTTP layer needs.
type DriverService interface {
	Snapshot(ctx context.Context) driver.Snapshot
	GoOnline(ctx context.Context) (driver.Snapshot, error)
	GoOffline(ctx context.Context) (driver.Snapshot, error)
	Toggle(ctx context.Context) (driver.Snapshot, error)
	Accept(ctx context.Context) (*service.AcceptedRide, error)
	Decline(ctx context.Context) (driver.Snapshot, error)
	CompleteTrip(ctx context.Context) (driver.Snapshot, error)
	Subscribe(listener func(driver.Snapshot)) func()
}

type DriverHandler struct {
	BaseHandler
	service DriverService
}

func NewDriverHandler(service DriverService) *DriverHandler {
	return &DriverHandler{service: service}
}

// Get handles GET /driver
func (h *DriverHandler) Get(c *gin.Context) {
	utils.RespondWithSuccess(c, http.StatusOK, "DRIVER_STATUS", h.service.Snapshot(c.Request.Context()))
}

func (h *DriverHandler) GoOnline(c *gin.Context) {
	h.respond(c, h.service.GoOnline)
}

func (h *DriverHandler) GoOffline(c *gin.Context) {
	h.respond(c, h.service.GoOffline)
}

func (h *DriverHandler) Toggle(c *gin.Context) {
	h.respond(c, h.service.Toggle)
}

func (h *DriverHandler) Decline(c *gin.Context) {
	h.respond(c, h.service.Decline)
}

func (h *DriverHandler) CompleteTrip(c *gin.Context) {
	h.respond(c, h.service.CompleteTrip)
}

// Accept handles POST /driver/request/accept and returns the ride together
// with the verification session the driver must complete.
func (h *DriverHandler) Accept(c *gin.Context) {
	accepted, err := h.service.Accept(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.RespondWithSuccess(c, http.StatusOK, "RIDE_ACCEPTED", accepted)
}

func (h *DriverHandler) respond(c *gin.Context, op func(context.Context) (driver.Snapshot, error)) {
	snap, err := op(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.RespondWithSuccess(c, http.StatusOK, "DRIVER_STATUS", snap)
}
