package otp

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nisargarh/Cab-booking-sub001/internal/domain"
)

// MockFeedback records verification outcomes
type MockFeedback struct {
	mock.Mock
}

var _ domain.Feedback = (*MockFeedback)(nil)

func (m *MockFeedback) Success() { m.Called() }
func (m *MockFeedback) Failure() { m.Called() }

func enter(t *testing.T, c *Challenge, code string) error {
	t.Helper()
	var err error
	for i := 0; i < len(code); i++ {
		err = c.EnterDigit(i, code[i:i+1])
	}
	return err
}

func TestNewChallenge_InitialState(t *testing.T) {
	c, err := NewChallenge("1234")
	require.NoError(t, err)

	assert.Equal(t, StateEditing, c.State())
	assert.Equal(t, DefaultCooldown, c.SecondsRemaining())
	assert.False(t, c.CanResend())
	assert.Equal(t, [CodeLength]string{"", "", "", ""}, c.Digits())
}

func TestNewChallenge_RejectsBadExpected(t *testing.T) {
	for _, code := range []string{"", "123", "12345", "12a4", "١٢٣٤"} {
		t.Run(code, func(t *testing.T) {
			_, err := NewChallenge(code)
			assert.ErrorIs(t, err, domain.ErrInvalidCode)
		})
	}
}

func TestChallenge_EveryCodeVerifiesAgainstItself(t *testing.T) {
	for n := 0; n < 10000; n++ {
		code := fmt.Sprintf("%04d", n)
		c, err := NewChallenge(code)
		require.NoError(t, err)

		require.NoError(t, enter(t, c, code), code)
		require.Equal(t, StateVerified, c.State(), code)
	}
}

func TestChallenge_WrongCodesClearAndReturnToEditing(t *testing.T) {
	const expected = "4821"
	for n := 0; n < 10000; n += 37 {
		code := fmt.Sprintf("%04d", n)
		if code == expected {
			continue
		}
		c, err := NewChallenge(expected)
		require.NoError(t, err)

		assert.ErrorIs(t, enter(t, c, code), domain.ErrMismatch)
		assert.Equal(t, StateEditing, c.State())
		assert.Equal(t, [CodeLength]string{"", "", "", ""}, c.Digits())
	}
}

func TestChallenge_MismatchThenRetry(t *testing.T) {
	fb := &MockFeedback{}
	fb.On("Failure").Once()
	fb.On("Success").Once()

	c, err := NewChallenge("1234", WithFeedback(fb))
	require.NoError(t, err)

	assert.ErrorIs(t, enter(t, c, "1239"), domain.ErrMismatch)
	assert.Equal(t, StateEditing, c.State())
	assert.Equal(t, [CodeLength]string{"", "", "", ""}, c.Digits())
	assert.Equal(t, 1, c.FailedAttempts())

	assert.NoError(t, enter(t, c, "1234"))
	assert.Equal(t, StateVerified, c.State())

	fb.AssertExpectations(t)
}

func TestChallenge_EnterDigitValidation(t *testing.T) {
	tests := []struct {
		name  string
		index int
		char  string
	}{
		{name: "negative index", index: -1, char: "1"},
		{name: "index too large", index: 4, char: "1"},
		{name: "letter", index: 0, char: "a"},
		{name: "two digits", index: 0, char: "12"},
		{name: "space", index: 0, char: " "},
		{name: "multibyte digit", index: 0, char: "٣"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewChallenge("1234")
			require.NoError(t, err)
			require.NoError(t, c.EnterDigit(1, "7"))

			err = c.EnterDigit(tt.index, tt.char)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Equal(t, [CodeLength]string{"", "7", "", ""}, c.Digits())
			assert.Equal(t, StateEditing, c.State())
		})
	}
}

func TestChallenge_EmptyCharClearsSlot(t *testing.T) {
	c, err := NewChallenge("1234")
	require.NoError(t, err)

	require.NoError(t, c.EnterDigit(2, "3"))
	require.NoError(t, c.EnterDigit(2, ""))
	assert.Equal(t, [CodeLength]string{"", "", "", ""}, c.Digits())
}

func TestChallenge_OverwriteBeforeComplete(t *testing.T) {
	c, err := NewChallenge("1234")
	require.NoError(t, err)

	require.NoError(t, c.EnterDigit(0, "9"))
	require.NoError(t, c.EnterDigit(0, "1"))
	assert.NoError(t, enter(t, c, "1234"))
	assert.True(t, c.Verified())
}

func TestChallenge_VerifyIncomplete(t *testing.T) {
	c, err := NewChallenge("1234")
	require.NoError(t, err)
	require.NoError(t, c.EnterDigit(0, "1"))

	assert.ErrorIs(t, c.Verify(), domain.ErrIncompleteInput)
	assert.Equal(t, StateEditing, c.State())
	assert.Equal(t, [CodeLength]string{"1", "", "", ""}, c.Digits())
}

func TestChallenge_VerifyManual(t *testing.T) {
	c, err := NewChallenge("5678")
	require.NoError(t, err)

	// auto-evaluation already ran on the last digit
	assert.NoError(t, enter(t, c, "5678"))
	assert.ErrorIs(t, c.Verify(), domain.ErrChallengeClosed)
	assert.True(t, c.Verified())
}

func TestChallenge_VerifiedIsTerminal(t *testing.T) {
	c, err := NewChallenge("1234")
	require.NoError(t, err)
	require.NoError(t, enter(t, c, "1234"))

	assert.ErrorIs(t, c.EnterDigit(0, "5"), domain.ErrChallengeClosed)
	for i := 0; i < DefaultCooldown; i++ {
		c.Tick()
	}
	assert.ErrorIs(t, c.Resend(), domain.ErrChallengeClosed)
	assert.Equal(t, StateVerified, c.State())
	assert.Equal(t, [CodeLength]string{"1", "2", "3", "4"}, c.Digits())
}

func TestChallenge_TickFloorsAtZero(t *testing.T) {
	c, err := NewChallenge("1234")
	require.NoError(t, err)

	for i := 0; i < 30; i++ {
		c.Tick()
	}
	assert.Equal(t, 0, c.SecondsRemaining())
	assert.True(t, c.CanResend())

	for i := 0; i < 5; i++ {
		c.Tick()
	}
	assert.Equal(t, 0, c.SecondsRemaining())
	assert.True(t, c.CanResend())
}

func TestChallenge_ResendDuringCooldownIsNoop(t *testing.T) {
	c, err := NewChallenge("1234")
	require.NoError(t, err)
	require.NoError(t, c.EnterDigit(0, "1"))
	c.Tick()

	assert.ErrorIs(t, c.Resend(), domain.ErrResendCooldown)
	assert.Equal(t, 29, c.SecondsRemaining())
	assert.Equal(t, StateEditing, c.State())
	assert.Equal(t, [CodeLength]string{"1", "", "", ""}, c.Digits())
}

func TestChallenge_ResendAfterCooldown(t *testing.T) {
	c, err := NewChallenge("1234")
	require.NoError(t, err)
	require.NoError(t, c.EnterDigit(3, "4"))
	for i := 0; i < 30; i++ {
		c.Tick()
	}

	require.NoError(t, c.Resend())
	assert.Equal(t, 30, c.SecondsRemaining())
	assert.False(t, c.CanResend())
	assert.Equal(t, [CodeLength]string{"", "", "", ""}, c.Digits())
	assert.Equal(t, StateEditing, c.State())
}

func TestChallenge_CustomCooldown(t *testing.T) {
	c, err := NewChallenge("1234", WithCooldown(2))
	require.NoError(t, err)

	c.Tick()
	assert.False(t, c.CanResend())
	c.Tick()
	assert.True(t, c.CanResend())
	require.NoError(t, c.Resend())
	assert.Equal(t, 2, c.SecondsRemaining())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "editing", StateEditing.String())
	assert.Equal(t, "verifying", StateVerifying.String())
	assert.Equal(t, "verified", StateVerified.String())
	assert.Equal(t, "rejected", StateRejected.String())
}

func BenchmarkChallenge_Verify(b *testing.B) {
	for i := 0; i < b.N; i++ {
		c, _ := NewChallenge("1234")
		for j, d := range []string{"1", "2", "3", "4"} {
			_ = c.EnterDigit(j, d)
		}
	}
}
