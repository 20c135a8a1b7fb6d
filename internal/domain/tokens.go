package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPair holds the bearer credentials for an authenticated session.
// The zero value means unauthenticated. The refresh token is only ever
// sent to the refresh endpoint, never as a bearer credential.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// IsZero reports whether no access token is held.
func (t TokenPair) IsZero() bool {
	return t.Access == ""
}

// AccessExpiry decodes the exp claim of the access token without
// verifying the signature. Display use only; authorization is always
// decided by the server. Returns the zero time when the token is absent
// or not a parseable JWT.
func (t TokenPair) AccessExpiry() time.Time {
	if t.Access == "" {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(t.Access, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
