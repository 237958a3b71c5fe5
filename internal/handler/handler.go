// internal/handler/handler.go

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nisargarh/Cab-booking-sub001/pkg/utils"
)

// BaseHandler contains common handler functionality
type BaseHandler struct{}

// handleError standardizes error responses
func (h *BaseHandler) handleError(c *gin.Context, err error) {
	_ = c.Error(err)
	utils.RespondWithError(c, err)
}
