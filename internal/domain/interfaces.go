// internal/domain/interfaces.go

package domain

import "context"

// PreferenceStorage is the durable key-value collaborator behind the
// preference stores. Load returns ErrPreferenceNotFound on a miss.
type PreferenceStorage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

// Feedback receives verification outcomes (haptics, toasts).
type Feedback interface {
	Success()
	Failure()
}

// Navigator moves the client to another screen.
type Navigator interface {
	Navigate(ctx context.Context, route string, params map[string]string)
}

// EventPublisher forwards domain events to an outside bus. Publishing is
// best effort.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Navigation routes
const (
	RouteTripOTP     = "trip_otp"
	RouteTripStarted = "trip_started"
)

// OTPService manages trip-start verification sessions. Each session owns
// one challenge and its countdown.
type OTPService interface {
	Create(ctx context.Context, rideID string) (*OTPSession, error)
	Get(ctx context.Context, id string) (*OTPSession, error)
	EnterDigit(ctx context.Context, id string, index int, digit string) (*OTPSession, error)
	Verify(ctx context.Context, id string) (*OTPSession, error)
	Resend(ctx context.Context, id string) (*OTPSession, error)
	Close(ctx context.Context, id string) error
}

// PreferenceService exposes the theme and role stores.
type PreferenceService interface {
	Get(ctx context.Context) Preferences
	SetTheme(ctx context.Context, theme Theme) Preferences
	ToggleTheme(ctx context.Context) Preferences
	SetRole(ctx context.Context, role UserRole) Preferences
	Subscribe(listener func(Preferences)) func()
}
