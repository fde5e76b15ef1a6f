package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the default token lifetime when the caller doesn't configure
// one. Short-lived for security; typical range is 15m to 1h.
const DefaultTTL = 15 * time.Minute

// Claims are the fields encoded inside a signed token. We keep the shape
// additive so older tokens keep decoding.
type Claims struct {
	jwt.RegisteredClaims

	// Scope carries the permission scopes granted to the subject,
	// e.g. ["USER", "ADMIN"]. Order is preserved.
	Scope []string `json:"scope,omitempty"`
}

// NewClaims builds minimally-correct claims. Timestamps are truncated to
// whole seconds because JWT NumericDate has second resolution; keeping the
// claims and any persisted record in agreement avoids round-trip drift.
func NewClaims(subject, issuer string, scope []string, ttl time.Duration, now time.Time) Claims {
	now = now.UTC().Truncate(time.Second)
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Scope: scope,
	}
}
