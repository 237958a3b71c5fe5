// pkg/utils/validator.go

package utils

import (
	"fmt"
	"strconv"

	"github.com/nisargarh/Cab-booking-sub001/internal/domain"
)

const (
	CodeLength = 4
	MinIndex   = 0
	MaxIndex   = CodeLength - 1
)

// ParseDigitIndex validates a slot index taken from a request path.
func ParseDigitIndex(raw string) (int, error) {
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidIndex, raw)
	}
	if index < MinIndex || index > MaxIndex {
		return 0, fmt.Errorf("%w: index must be between %d and %d",
			domain.ErrInvalidIndex, MinIndex, MaxIndex)
	}
	return index, nil
}

// ValidateStaticCode checks a configured code: empty (random codes) or
// exactly four ASCII digits.
func ValidateStaticCode(code string) error {
	if code == "" {
		return nil
	}
	if len(code) != CodeLength {
		return fmt.Errorf("%w: code must have %d digits", domain.ErrInvalidCode, CodeLength)
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return fmt.Errorf("%w: code must contain digits only", domain.ErrInvalidCode)
		}
	}
	return nil
}
