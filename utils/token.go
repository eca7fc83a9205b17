package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateSecureToken returns a 64-character hex token from 32 bytes
// of crypto/rand output. Used for password reset tokens.
func GenerateSecureToken() (string, error) {
	token := make([]byte, 32)
	if _, err := rand.Read(token); err != nil {
		return "", err
	}
	return hex.EncodeToString(token), nil
}
