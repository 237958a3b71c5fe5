// pkg/utils/crypto.go

package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const numbers = "0123456789"

// GenerateCode returns a random numeric code of the given length drawn
// from crypto/rand.
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid code length %d", length)
	}

	result := make([]byte, length)
	charsetLength := big.NewInt(int64(len(numbers)))

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, charsetLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		result[i] = numbers[n.Int64()]
	}

	return string(result), nil
}

// MaskCode replaces every digit with '*', keeping only the length.
func MaskCode(code string) string {
	if code == "" {
		return "*"
	}
	return strings.Repeat("*", len(code))
}
