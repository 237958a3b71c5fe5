// internal/handler/navigation.go

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nisargarh/Cab-booking-sub001/internal/service"
	"github.com/nisargarh/Cab-booking-sub001/pkg/utils"
)

// NavigationSource reports the screen the client should be on.
type NavigationSource interface {
	Last() (service.Navigation, bool)
}

type NavigationHandler struct {
	BaseHandler
	source NavigationSource
}

func NewNavigationHandler(source NavigationSource) *NavigationHandler {
	return &NavigationHandler{source: source}
}

// Get handles GET /navigation. Before the first screen change the info is
// empty.
func (h *NavigationHandler) Get(c *gin.Context) {
	nav, ok := h.source.Last()
	if !ok {
		utils.RespondWithSuccess(c, http.StatusOK, "NO_NAVIGATION", nil)
		return
	}
	utils.RespondWithSuccess(c, http.StatusOK, "NAVIGATION", nav)
}
