// internal/handler/otp.go

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nisargarh/Cab-booking-sub001/internal/domain"
	"github.com/nisargarh/Cab-booking-sub001/internal/otp"
	"github.com/nisargarh/Cab-booking-sub001/pkg/utils"
)

type OTPHandler struct {
	BaseHandler
	service domain.OTPService
}

func NewOTPHandler(service domain.OTPService) *OTPHandler {
	return &OTPHandler{
		service: service,
	}
}

type createSessionRequest struct {
	RideID string `json:"ride_id"`
}

type digitRequest struct {
	Digit *string `json:"digit" binding:"required"`
}

// CreateSession handles POST /otp/sessions
func (h *OTPHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.handleError(c, domain.ErrInvalidRequest)
			return
		}
	}

	session, err := h.service.Create(c.Request.Context(), req.RideID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.RespondWithSuccess(c, http.StatusCreated, "OTP_SESSION_CREATED", session)
}

// GetSession handles GET /otp/sessions/:id
func (h *OTPHandler) GetSession(c *gin.Context) {
	session, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.RespondWithSuccess(c, http.StatusOK, "OTP_SESSION", session)
}

// EnterDigit handles PUT /otp/sessions/:id/digits/:index. An empty digit
// clears the slot.
func (h *OTPHandler) EnterDigit(c *gin.Context) {
	index, err := utils.ParseDigitIndex(c.Param("index"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	var req digitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, domain.ErrInvalidRequest)
		return
	}

	session, err := h.service.EnterDigit(c.Request.Context(), c.Param("id"), index, *req.Digit)
	h.respondWithSession(c, session, err)
}

// Verify handles POST /otp/sessions/:id/verify
func (h *OTPHandler) Verify(c *gin.Context) {
	session, err := h.service.Verify(c.Request.Context(), c.Param("id"))
	h.respondWithSession(c, session, err)
}

// Resend handles POST /otp/sessions/:id/resend
func (h *OTPHandler) Resend(c *gin.Context) {
	session, err := h.service.Resend(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.RespondWithSuccess(c, http.StatusOK, "OTP_RESENT", session)
}

// CloseSession handles DELETE /otp/sessions/:id
func (h *OTPHandler) CloseSession(c *gin.Context) {
	if err := h.service.Close(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	utils.RespondWithSuccess(c, http.StatusOK, "OTP_SESSION_CLOSED", nil)
}

// respondWithSession reports a mismatch with the cleared session so the
// client can reset its input without another request.
func (h *OTPHandler) respondWithSession(c *gin.Context, session *domain.OTPSession, err error) {
	switch {
	case errors.Is(err, domain.ErrMismatch):
		_ = c.Error(err)
		utils.RespondWithSuccess(c, http.StatusBadRequest, domain.ErrMismatch.Error(), session)
	case err != nil:
		h.handleError(c, err)
	case session.State == otp.StateVerified.String():
		utils.RespondWithSuccess(c, http.StatusOK, "OTP_VERIFIED", session)
	default:
		utils.RespondWithSuccess(c, http.StatusOK, "OTP_SESSION", session)
	}
}
