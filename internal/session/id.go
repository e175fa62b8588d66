package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

const tokenSize = 32 // 256 bits

// ErrMalformedToken is returned for token strings this package could not
// have issued.
var ErrMalformedToken = errors.New("session: malformed token")

// GenerateID generates a cryptographically secure session token.
func GenerateID() (string, error) {
	b := make([]byte, tokenSize)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// CheckToken reports ErrMalformedToken unless token is the raw URL-safe
// base64 form of exactly tokenSize bytes. Store backends call it before
// touching storage, so a token can never name anything but its own record.
func CheckToken(token string) error {
	if len(token) != base64.RawURLEncoding.EncodedLen(tokenSize) {
		return ErrMalformedToken
	}
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(b) != tokenSize {
		return ErrMalformedToken
	}
	return nil
}
