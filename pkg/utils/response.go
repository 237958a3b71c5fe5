// pkg/utils/response.go

package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nisargarh/Cab-booking-sub001/internal/domain"
	"github.com/nisargarh/Cab-booking-sub001/pkg/logger"
)

// APIError represents a standard error response
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// StandardResponse represents a standard success response
type StandardResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Info    interface{} `json:"info,omitempty"`
}

func apiError(status int, err error) APIError {
	code := err.Error()
	return APIError{Status: status, Message: domain.ErrorMessages[code], Code: code}
}

// ErrorResponse maps domain error codes to HTTP status codes and messages
var ErrorResponse = map[string]APIError{
	domain.ErrInvalidRequest.Error():         apiError(http.StatusBadRequest, domain.ErrInvalidRequest),
	domain.ErrInvalidInput.Error():           apiError(http.StatusBadRequest, domain.ErrInvalidInput),
	domain.ErrIncompleteInput.Error():        apiError(http.StatusBadRequest, domain.ErrIncompleteInput),
	domain.ErrInvalidTheme.Error():           apiError(http.StatusBadRequest, domain.ErrInvalidTheme),
	domain.ErrInvalidRole.Error():            apiError(http.StatusBadRequest, domain.ErrInvalidRole),
	domain.ErrInvalidCode.Error():            apiError(http.StatusBadRequest, domain.ErrInvalidCode),
	domain.ErrInvalidIndex.Error():           apiError(http.StatusBadRequest, domain.ErrInvalidIndex),
	domain.ErrMissingSessionID.Error():       apiError(http.StatusBadRequest, domain.ErrMissingSessionID),
	domain.ErrMismatch.Error():               apiError(http.StatusBadRequest, domain.ErrMismatch),
	domain.ErrResendCooldown.Error():         apiError(http.StatusTooManyRequests, domain.ErrResendCooldown),
	domain.ErrChallengeClosed.Error():        apiError(http.StatusConflict, domain.ErrChallengeClosed),
	domain.ErrSessionNotFound.Error():        apiError(http.StatusNotFound, domain.ErrSessionNotFound),
	domain.ErrPreferenceNotFound.Error():     apiError(http.StatusNotFound, domain.ErrPreferenceNotFound),
	domain.ErrDriverOffline.Error():          apiError(http.StatusConflict, domain.ErrDriverOffline),
	domain.ErrNoPendingRequest.Error():       apiError(http.StatusConflict, domain.ErrNoPendingRequest),
	domain.ErrInvalidTransition.Error():      apiError(http.StatusConflict, domain.ErrInvalidTransition),
	domain.ErrPersistenceUnavailable.Error(): apiError(http.StatusServiceUnavailable, domain.ErrPersistenceUnavailable),
	domain.ErrRateLimitExceeded.Error():      apiError(http.StatusTooManyRequests, domain.ErrRateLimitExceeded),
}

// lookupError finds the predefined response for err, unwrapping wrapped
// sentinels.
func lookupError(err error) (APIError, bool) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if apiErr, exists := ErrorResponse[e.Error()]; exists {
			return apiErr, true
		}
	}
	return APIError{}, false
}

// RespondWithError sends a JSON error response
func RespondWithError(c *gin.Context, err error) {
	if apiErr, exists := lookupError(err); exists {
		if apiErr.Status >= 500 {
			logger.Error("System error occurred: ", err)
		} else {
			logger.Debug("Request error: ", err)
		}
		c.AbortWithStatusJSON(apiErr.Status, apiErr)
		return
	}

	logger.Error("Unknown error occurred: ", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, APIError{
		Status:  http.StatusInternalServerError,
		Message: "Internal server error",
		Code:    "INTERNAL_SERVER_ERROR",
	})
}

// RespondWithSuccess sends a JSON success response
func RespondWithSuccess(c *gin.Context, status int, message string, info interface{}) {
	c.JSON(status, StandardResponse{
		Status:  status,
		Message: message,
		Info:    info,
	})
}
