// Package token implements the bearer-token lifecycle: issuance, revocation
// and validation of signed tokens, with optional persisted revocation state.
package token

import "time"

// Token is the immutable value object returned by Service.Issue. The only
// field that ever changes after creation is Revoked, flipped exactly once by
// Service.Revoke, and only meaningful when a store is configured.
type Token struct {
	Value     string    // opaque signed string
	Subject   string    // principal identifier
	IssuedAt  time.Time // UTC, second resolution
	ExpiresAt time.Time // UTC, second resolution; always after IssuedAt
	Issuer    string
	Scope     []string // ordered, may be empty on decode
	Revoked   bool
}

// Valid is the validity predicate shared by the in-memory and persisted
// paths. It is evaluated at read time, never cached, so expiry is always
// current.
func (t Token) Valid(now time.Time) bool {
	return !t.Revoked && t.ExpiresAt.After(now)
}

// Record is the persisted form of a token, keyed by the signed value.
// Records are created on issuance, mutated only to set Revoked, and never
// deleted: revocation state is append-only and expiry is computed, not swept.
type Record struct {
	Value     string
	Subject   string
	Issuer    string
	Scope     []string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Revoked   bool
}

// NewRecord converts a token into its persisted form.
func NewRecord(t Token) Record {
	return Record{
		Value:     t.Value,
		Subject:   t.Subject,
		Issuer:    t.Issuer,
		Scope:     t.Scope,
		IssuedAt:  t.IssuedAt,
		ExpiresAt: t.ExpiresAt,
		Revoked:   t.Revoked,
	}
}

// Token converts a persisted record back into a token value object.
func (r Record) Token() Token {
	return Token{
		Value:     r.Value,
		Subject:   r.Subject,
		IssuedAt:  r.IssuedAt,
		ExpiresAt: r.ExpiresAt,
		Issuer:    r.Issuer,
		Scope:     r.Scope,
		Revoked:   r.Revoked,
	}
}

// Valid mirrors Token.Valid for use directly on stored records.
func (r Record) Valid(now time.Time) bool {
	return !r.Revoked && r.ExpiresAt.After(now)
}
