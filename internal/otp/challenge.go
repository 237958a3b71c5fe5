// Package otp implements the 4-digit trip-start code entry flow.
//
// A Challenge is not safe for concurrent use; its owner serializes calls.
package otp

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/nisargarh/Cab-booking-sub001/internal/domain"
)

const (
	// CodeLength is the number of digit slots.
	CodeLength = 4
	// DefaultCooldown is the resend cooldown in seconds.
	DefaultCooldown = 30
)

type State int

const (
	StateEditing State = iota
	StateVerifying
	StateVerified
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateVerifying:
		return "verifying"
	case StateVerified:
		return "verified"
	case StateRejected:
		return "rejected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Challenge struct {
	digits           [CodeLength]string
	expected         string
	cooldown         int
	secondsRemaining int
	state            State
	failedAttempts   int
	feedback         domain.Feedback
}

type Option func(*Challenge)

// WithCooldown overrides the resend cooldown (seconds).
func WithCooldown(seconds int) Option {
	return func(c *Challenge) {
		if seconds >= 0 {
			c.cooldown = seconds
		}
	}
}

// WithFeedback sets the success/failure sink.
func WithFeedback(f domain.Feedback) Option {
	return func(c *Challenge) {
		c.feedback = f
	}
}

// NewChallenge starts a challenge in Editing with empty slots and a full
// cooldown. expected must be exactly four ASCII digits.
func NewChallenge(expected string, opts ...Option) (*Challenge, error) {
	if !ValidCode(expected) {
		return nil, fmt.Errorf("%w: expected code must be %d digits", domain.ErrInvalidCode, CodeLength)
	}
	c := &Challenge{
		expected: expected,
		cooldown: DefaultCooldown,
		state:    StateEditing,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.secondsRemaining = c.cooldown
	return c, nil
}

// ValidCode reports whether s is exactly CodeLength ASCII digits.
func ValidCode(s string) bool {
	if len(s) != CodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// EnterDigit writes char into slot index. An empty char clears the slot.
// When the entry completes the code the challenge evaluates it and the
// outcome (nil or ErrMismatch) is returned.
func (c *Challenge) EnterDigit(index int, char string) error {
	if c.state == StateVerified {
		return domain.ErrChallengeClosed
	}
	if index < 0 || index >= CodeLength {
		return fmt.Errorf("%w: index %d out of range", domain.ErrInvalidInput, index)
	}
	if char != "" && (len(char) != 1 || !isDigit(char[0])) {
		return fmt.Errorf("%w: %q is not a single digit", domain.ErrInvalidInput, char)
	}

	c.digits[index] = char
	if !c.complete() {
		return nil
	}
	return c.evaluate()
}

// Verify evaluates the current entry on demand.
func (c *Challenge) Verify() error {
	if c.state == StateVerified {
		return domain.ErrChallengeClosed
	}
	if !c.complete() {
		return domain.ErrIncompleteInput
	}
	return c.evaluate()
}

func (c *Challenge) complete() bool {
	for _, d := range c.digits {
		if d == "" {
			return false
		}
	}
	return true
}

func (c *Challenge) evaluate() error {
	c.state = StateVerifying
	entered := strings.Join(c.digits[:], "")

	if subtle.ConstantTimeCompare([]byte(entered), []byte(c.expected)) == 1 {
		c.state = StateVerified
		if c.feedback != nil {
			c.feedback.Success()
		}
		return nil
	}

	// Rejected is transient: clear and hand control back to the user.
	c.state = StateRejected
	c.failedAttempts++
	c.clear()
	if c.feedback != nil {
		c.feedback.Failure()
	}
	c.state = StateEditing
	return domain.ErrMismatch
}

func (c *Challenge) clear() {
	for i := range c.digits {
		c.digits[i] = ""
	}
}

// Tick advances the resend countdown by one second, floored at zero.
func (c *Challenge) Tick() {
	if c.secondsRemaining > 0 {
		c.secondsRemaining--
	}
}

// Resend restarts the countdown and clears the entry. It fails with
// ErrResendCooldown while the countdown is running.
func (c *Challenge) Resend() error {
	if c.state == StateVerified {
		return domain.ErrChallengeClosed
	}
	if !c.CanResend() {
		return domain.ErrResendCooldown
	}
	c.secondsRemaining = c.cooldown
	c.clear()
	c.state = StateEditing
	return nil
}

func (c *Challenge) Digits() [CodeLength]string { return c.digits }
func (c *Challenge) State() State                { return c.state }
func (c *Challenge) SecondsRemaining() int       { return c.secondsRemaining }
func (c *Challenge) CanResend() bool             { return c.secondsRemaining == 0 }
func (c *Challenge) Verified() bool              { return c.state == StateVerified }

// FailedAttempts counts mismatches. There is no attempt limit.
func (c *Challenge) FailedAttempts() int { return c.failedAttempts }
