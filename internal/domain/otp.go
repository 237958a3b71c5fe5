// internal/domain/otp.go

package domain

import "time"

// OTPSession is the externally visible state of a trip-start verification
type OTPSession struct {
	ID               string    `json:"id"`
	RideID           string    `json:"ride_id,omitempty"`
	Digits           []string  `json:"digits"`
	State            string    `json:"state"`
	SecondsRemaining int       `json:"seconds_remaining"`
	CanResend        bool      `json:"can_resend"`
	FailedAttempts   int       `json:"failed_attempts"`
	CreatedAt        time.Time `json:"created_at"`
	Code             string    `json:"code,omitempty"`
}

// Preferences is the combined view served to the client
type Preferences struct {
	Theme Theme    `json:"theme"`
	Role  UserRole `json:"role"`
}

// Event is published for driver dashboard and preference transitions
type Event struct {
	Type       string            `json:"type"`
	OccurredAt time.Time         `json:"occurred_at"`
	Data       map[string]string `json:"data,omitempty"`
}

// Event types
const (
	EventPreferenceUpdate = "preference_update"
	EventDriverUpdate     = "driver_update"
	EventRideOffered      = "ride.request.offered"
	EventRideAccepted     = "ride.request.accepted"
	EventRideDeclined     = "ride.request.declined"
	EventRideWithdrawn    = "ride.request.withdrawn"
	EventTripStarted      = "ride.trip.started"
	EventTripCompleted    = "ride.trip.completed"
)
