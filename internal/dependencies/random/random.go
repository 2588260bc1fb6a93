package random

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// TokenBytes is the entropy of a generated session token
const TokenBytes = 32

// Random produces unguessable identifiers and can be mocked for testing
type Random interface {
	// Token returns a new URL-safe session token
	Token() (string, error)
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Token returns TokenBytes of crypto/rand output, base64url-encoded without padding
func (r *CryptoRandom) Token() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
