// Package session persists the bearer token between console invocations,
// the way the dashboard keeps it in the browser's local storage.
package session

import (
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

var (
	NowFunc = time.Now // mockable

	errMalformedToken = errors.New("malformed token")
)

type (
	Session struct {
		Token    string    `json:"token"`
		Username string    `json:"username,omitempty"`
		Role     string    `json:"role,omitempty"`
		SavedAt  time.Time `json:"saved_at"`
	}

	// Store keeps at most one Session.
	Store interface {
		Token() (string, error)
		Load() (Session, error)
		Save(Session) error
		Clear() error
	}
)

func (s Session) IsZero() bool { return s.Token == "" }

// Claims are the token claims the console cares about.
// The signature is never verified client-side: the backend stays the authority.
type Claims struct {
	jwt.StandardClaims
	UserID   string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Identity returns the best available user identifier.
func (c Claims) Identity() string {
	switch {
	case c.UserID != "":
		return c.UserID
	case c.Subject != "":
		return c.Subject
	}
	return c.Username
}

// Expired reports whether the token's exp claim is before now.
// Tokens without exp never expire client-side.
func (c Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != 0 && now.Unix() >= c.ExpiresAt
}

// ExpiresIn is the remaining validity; zero when there is no exp claim.
func (c Claims) ExpiresIn(now time.Time) time.Duration {
	if c.ExpiresAt == 0 {
		return 0
	}
	return time.Unix(c.ExpiresAt, 0).Sub(now)
}

// IsJWT reports whether token looks like a JWT (three dot-separated segments).
func IsJWT(token string) bool {
	return strings.Count(token, ".") == 2
}

// ParseClaims reads the token's claims without verifying its signature.
func ParseClaims(token string) (Claims, error) {
	var claims Claims
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if !IsJWT(token) {
		return claims, errMalformedToken
	}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, &claims); err != nil {
		return claims, errors.Wrap(err, "parsing token claims")
	}
	return claims, nil
}

// TokenExpired reports whether token is a JWT past its expiry.
// Opaque tokens are left for the backend to judge.
func TokenExpired(token string) bool {
	claims, err := ParseClaims(token)
	if err != nil {
		return false
	}
	return claims.Expired(NowFunc())
}
