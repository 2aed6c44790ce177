package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomToken returns 32 random bytes hex encoded (64 chars), used for
// email verification and password reset links.
func RandomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
