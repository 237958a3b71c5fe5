// internal/domain/errors.go

package domain

import "errors"

// Storage errors
var (
	ErrPreferenceNotFound     = errors.New("PREFERENCE_NOT_FOUND")
	ErrPersistenceUnavailable = errors.New("PERSISTENCE_UNAVAILABLE")
)

// Validation errors
var (
	ErrInvalidRequest   = errors.New("REQUEST_BODY_INVALID")
	ErrInvalidInput     = errors.New("INVALID_INPUT")
	ErrIncompleteInput  = errors.New("INCOMPLETE_INPUT")
	ErrInvalidTheme     = errors.New("THEME_INVALID")
	ErrInvalidRole      = errors.New("ROLE_INVALID")
	ErrInvalidCode      = errors.New("CODE_INVALID")
	ErrInvalidIndex     = errors.New("DIGIT_INDEX_INVALID")
	ErrMissingSessionID = errors.New("SESSION_ID_MISSING")
)

// Business logic errors
var (
	ErrMismatch          = errors.New("OTP_INVALID")
	ErrResendCooldown    = errors.New("RESEND_COOLDOWN")
	ErrChallengeClosed   = errors.New("CHALLENGE_CLOSED")
	ErrSessionNotFound   = errors.New("SESSION_NOT_FOUND")
	ErrDriverOffline     = errors.New("DRIVER_OFFLINE")
	ErrNoPendingRequest  = errors.New("NO_PENDING_REQUEST")
	ErrInvalidTransition = errors.New("INVALID_TRANSITION")
)

// Rate limiting errors
var (
	ErrRateLimitExceeded = errors.New("RATE_LIMIT_EXCEEDED")
)

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPreferenceNotFound) || errors.Is(err, ErrSessionNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrIncompleteInput) ||
		errors.Is(err, ErrInvalidTheme) ||
		errors.Is(err, ErrInvalidRole) ||
		errors.Is(err, ErrInvalidCode) ||
		errors.Is(err, ErrInvalidIndex) ||
		errors.Is(err, ErrMissingSessionID)
}

// IsBusinessError checks if the error is a business logic error
func IsBusinessError(err error) bool {
	return errors.Is(err, ErrMismatch) ||
		errors.Is(err, ErrResendCooldown) ||
		errors.Is(err, ErrChallengeClosed) ||
		errors.Is(err, ErrDriverOffline) ||
		errors.Is(err, ErrNoPendingRequest) ||
		errors.Is(err, ErrInvalidTransition)
}

// IsInfrastructureError checks if the error is an infrastructure error
func IsInfrastructureError(err error) bool {
	return errors.Is(err, ErrPersistenceUnavailable)
}

// Error messages for human readable output
var ErrorMessages = map[string]string{
	"PREFERENCE_NOT_FOUND":    "Preference has not been stored yet",
	"PERSISTENCE_UNAVAILABLE": "Preference storage is unavailable",
	"REQUEST_BODY_INVALID":    "Invalid request body",
	"INVALID_INPUT":           "Each slot accepts a single digit",
	"INCOMPLETE_INPUT":        "All four digits are required",
	"THEME_INVALID":           "Theme must be light or dark",
	"ROLE_INVALID":            "Role must be rider, driver or empty",
	"CODE_INVALID":            "Code must be four digits",
	"DIGIT_INDEX_INVALID":     "Digit index must be between 0 and 3",
	"SESSION_ID_MISSING":      "Session id is missing",
	"OTP_INVALID":             "Incorrect code, try again",
	"RESEND_COOLDOWN":         "Wait for the countdown before resending",
	"CHALLENGE_CLOSED":        "Code already verified",
	"SESSION_NOT_FOUND":       "Verification session not found",
	"DRIVER_OFFLINE":          "Driver is offline",
	"NO_PENDING_REQUEST":      "No ride request is pending",
	"INVALID_TRANSITION":      "Action not allowed in the current driver state",
	"RATE_LIMIT_EXCEEDED":     "Rate limit exceeded, please try again later",
}
