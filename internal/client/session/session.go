// Package session holds the signed-in user's identity and the polling task
// that waits for the identity provider to confirm their email address.
//
// A Session is created once at startup and passed explicitly to the
// components that need it; there is no package-level current session.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMalformedToken = errors.New("malformed id token")

// Session is safe for concurrent use.
type Session struct {
	mu        sync.RWMutex
	idToken   string
	email     string
	verified  bool
	expiresAt time.Time
}

// New builds a session from already known values.
func New(idToken, email string, verified bool) *Session {
	return &Session{idToken: idToken, email: email, verified: verified}
}

// FromIDToken reads the email, email_verified and exp claims of an ID token.
// The signature is not checked here: the identity provider and the API
// server own token verification, the client only needs the display claims.
// An empty token yields an anonymous, unverified session.
func FromIDToken(idToken string) (*Session, error) {
	if idToken == "" {
		return &Session{}, nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	s := &Session{idToken: idToken}
	s.email, _ = claims["email"].(string)
	s.verified, _ = claims["email_verified"].(bool)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.expiresAt = exp.Time
	}
	return s, nil
}

func (s *Session) IDToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idToken
}

func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

func (s *Session) Verified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.verified
}

// Expired reports whether the token carried an exp claim that has passed.
func (s *Session) Expired(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.expiresAt.IsZero() && now.After(s.expiresAt)
}

// MarkVerified records that the identity provider confirmed the email.
func (s *Session) MarkVerified() {
	s.mu.Lock()
	s.verified = true
	s.mu.Unlock()
}
