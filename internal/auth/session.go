// internal/auth/session.go
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the client's view of the JWT issued by the server on
// sign-in. The client cannot verify the signature (the server keeps the
// key), so claims are parsed unverified and used for observability and
// expiry warnings only. Authorization decisions stay with the server.
type Session struct {
	Token     string
	Subject   string
	ExpiresAt time.Time // zero when the token never expires
}

// NewSession parses the given token into a Session.
func NewSession(token string) (*Session, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("jwt parse error: %w", err)
	}

	s := &Session{Token: token}
	if sub, err := parsed.Claims.GetSubject(); err == nil {
		s.Subject = sub
	}
	if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
		s.ExpiresAt = exp.Time
	}
	return s, nil
}

// Expired reports whether the token's expiry has passed. Tokens without
// an exp claim never expire.
func (s *Session) Expired(now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return now.After(s.ExpiresAt)
}
