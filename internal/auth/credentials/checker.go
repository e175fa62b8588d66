// Package credentials checks the single shared login secret.
package credentials

import (
	"crypto/sha256"
	"crypto/subtle"
)

// Checker verifies a submitted password against either a bcrypt hash or a
// plaintext secret. A configured hash takes precedence.
type Checker struct {
	plain []byte
	hash  string
}

func NewChecker(password, passwordHash string) *Checker {
	c := &Checker{hash: passwordHash}
	if passwordHash == "" {
		sum := sha256.Sum256([]byte(password))
		c.plain = sum[:]
	}
	return c
}

// Check reports whether attempt is the configured password. Empty attempts
// never match.
func (c *Checker) Check(attempt string) bool {
	if attempt == "" {
		return false
	}
	if c.hash != "" {
		return VerifyPassword(c.hash, attempt) == nil
	}

	// Comparing fixed-size digests keeps the comparison time independent
	// of the secret's length.
	sum := sha256.Sum256([]byte(attempt))
	return subtle.ConstantTimeCompare(sum[:], c.plain) == 1
}
