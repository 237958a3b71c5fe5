// internal/handler/preference.go

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nisargarh/Cab-booking-sub001/internal/domain"
	"github.com/nisargarh/Cab-booking-sub001/pkg/utils"
)

type PreferenceHandler struct {
	BaseHandler
	service domain.PreferenceService
}

func NewPreferenceHandler(service domain.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{service: service}
}

type themeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

type roleRequest struct {
	Role *string `json:"role" binding:"required"`
}

// Get handles GET /preferences
func (h *PreferenceHandler) Get(c *gin.Context) {
	utils.RespondWithSuccess(c, http.StatusOK, "PREFERENCES", h.service.Get(c.Request.Context()))
}

// SetTheme handles PUT /preferences/theme
func (h *PreferenceHandler) SetTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, domain.ErrInvalidRequest)
		return
	}

	theme, err := domain.ParseTheme(req.Theme)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.RespondWithSuccess(c, http.StatusOK, "THEME_UPDATED", h.service.SetTheme(c.Request.Context(), theme))
}

// ToggleTheme handles POST /preferences/theme/toggle
func (h *PreferenceHandler) ToggleTheme(c *gin.Context) {
	utils.RespondWithSuccess(c, http.StatusOK, "THEME_UPDATED", h.service.ToggleTheme(c.Request.Context()))
}

// SetRole handles PUT /preferences/role. An empty role clears the selection.
func (h *PreferenceHandler) SetRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, domain.ErrInvalidRequest)
		return
	}

	role, err := domain.ParseUserRole(*req.Role)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.RespondWithSuccess(c, http.StatusOK, "ROLE_UPDATED", h.service.SetRole(c.Request.Context(), role))
}
