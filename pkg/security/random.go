package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// UpperAlphanumeric is the alphabet used for tracking codes and stub payment refs.
const UpperAlphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomCode returns length characters drawn uniformly from charset using crypto/rand.
func RandomCode(length int, charset string) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	if charset == "" {
		return "", fmt.Errorf("charset is required")
	}

	alphabet := []rune(charset)
	limit := big.NewInt(int64(len(alphabet)))
	result := make([]rune, length)
	for i := range result {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("reading random index: %w", err)
		}
		result[i] = alphabet[idx.Int64()]
	}
	return string(result), nil
}
