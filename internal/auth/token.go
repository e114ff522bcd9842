package auth

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// Token represents a temporary authentication token response.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// IssueToken returns an opaque bearer token. Tokens are not yet persisted or
// verified server-side; signed tokens land together with the staff-only
// answer endpoints.
func IssueToken() Token {
	var b [32]byte
	_, _ = rand.Read(b[:])
	return Token{
		AccessToken: base64.RawURLEncoding.EncodeToString(b[:]),
		TokenType:   "bearer",
		ExpiresAt:   time.Now().Add(24 * time.Hour),
	}
}
