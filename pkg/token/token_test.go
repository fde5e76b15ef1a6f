package token_test

import (
	"testing"
	"time"

	"github.com/lastshield/shield/pkg/token"
	"github.com/stretchr/testify/require"
)

func TestRecordRoundTrip(t *testing.T) {
	issued := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	orig := token.Token{
		Value:     "signed-value",
		Subject:   "alice",
		IssuedAt:  issued,
		ExpiresAt: issued.Add(time.Hour),
		Issuer:    "shield",
		Scope:     []string{"USER", "ADMIN"},
		Revoked:   true,
	}

	require.Equal(t, orig, token.NewRecord(orig).Token())
}

func TestValidPredicate(t *testing.T) {
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	t.Run("live token", func(t *testing.T) {
		tok := token.Token{ExpiresAt: now.Add(time.Minute)}
		require.True(t, tok.Valid(now))
	})

	t.Run("revoked token", func(t *testing.T) {
		tok := token.Token{ExpiresAt: now.Add(time.Minute), Revoked: true}
		require.False(t, tok.Valid(now))
	})

	t.Run("expired token", func(t *testing.T) {
		tok := token.Token{ExpiresAt: now.Add(-time.Second)}
		require.False(t, tok.Valid(now))
	})

	t.Run("expiry boundary is exclusive", func(t *testing.T) {
		tok := token.Token{ExpiresAt: now}
		require.False(t, tok.Valid(now))
	})
}

func TestTrustedIssuers(t *testing.T) {
	issuers := token.NewTrustedIssuers("My-App", "  partner ")

	t.Run("case-insensitive contains", func(t *testing.T) {
		require.True(t, issuers.Contains("my-app"))
		require.True(t, issuers.Contains("MY-APP"))
		require.True(t, issuers.Contains("partner"))
	})

	t.Run("defaults always present", func(t *testing.T) {
		require.True(t, issuers.Contains("shield"))
		require.True(t, issuers.Contains("Shield-Auth"))
	})

	t.Run("unknown issuer", func(t *testing.T) {
		require.False(t, issuers.Contains("stranger"))
		require.False(t, issuers.Contains(""))
	})
}
