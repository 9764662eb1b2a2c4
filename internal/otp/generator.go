package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateCode draws a uniform 6-digit numeric code, zero-padded, in the
// range 000000-999999. Collisions across users are acceptable: uniqueness
// is scoped to (user, purpose) and enforced by the store.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
