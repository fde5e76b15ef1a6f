package token_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lastshield/shield/pkg/jwtx"
	"github.com/lastshield/shield/pkg/token"
	"github.com/stretchr/testify/require"
)

const testSecret = "service-test-secret-key"

func newCodec(t *testing.T) *jwtx.Codec {
	t.Helper()
	codec, err := jwtx.NewCodec(jwtx.HS256, testSecret)
	require.NoError(t, err)
	return codec
}

// countingStore wraps MemoryStore and counts calls, so tests can assert that
// rejected issuance never touches persistence and that re-revocation doesn't
// write twice.
type countingStore struct {
	*token.MemoryStore

	saves int
	finds int
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: token.NewMemoryStore()}
}

func (s *countingStore) Save(ctx context.Context, r token.Record) error {
	s.saves++
	return s.MemoryStore.Save(ctx, r)
}

func (s *countingStore) FindByValue(ctx context.Context, value string) (token.Record, error) {
	s.finds++
	return s.MemoryStore.FindByValue(ctx, value)
}

func TestServiceIssue(t *testing.T) {
	ctx := context.Background()
	issuers := token.NewTrustedIssuers("my-app")

	t.Run("issue then validate round trips", func(t *testing.T) {
		store := newCountingStore()
		svc := token.NewService(newCodec(t), issuers, time.Hour, token.WithStore(store))

		tok, err := svc.Issue(ctx, "alice", "my-app", []string{"USER"})
		require.NoError(t, err)
		require.NotEmpty(t, tok.Value)
		require.Equal(t, "alice", tok.Subject)
		require.Equal(t, "my-app", tok.Issuer)
		require.Equal(t, []string{"USER"}, tok.Scope)
		require.True(t, tok.ExpiresAt.After(tok.IssuedAt))
		require.False(t, tok.Revoked)
		require.Equal(t, 1, store.saves)

		got, ok := svc.Validate(ctx, tok.Value)
		require.True(t, ok)
		require.Equal(t, tok.Subject, got.Subject)
		require.Equal(t, tok.Issuer, got.Issuer)
		require.Equal(t, tok.Scope, got.Scope)
	})

	t.Run("default issuers are trusted out of the box", func(t *testing.T) {
		svc := token.NewService(newCodec(t), token.NewTrustedIssuers(), time.Hour)

		_, err := svc.Issue(ctx, "alice", "shield", []string{"USER"})
		require.NoError(t, err)
	})

	t.Run("input violations never reach the store", func(t *testing.T) {
		store := newCountingStore()
		svc := token.NewService(newCodec(t), issuers, time.Hour, token.WithStore(store))

		_, err := svc.Issue(ctx, "", "my-app", []string{"USER"})
		require.ErrorIs(t, err, token.ErrEmptySubject)

		_, err = svc.Issue(ctx, "alice", "my-app", nil)
		require.ErrorIs(t, err, token.ErrEmptyScope)

		_, err = svc.Issue(ctx, "alice", "evil-issuer", []string{"USER"})
		require.ErrorIs(t, err, token.ErrUntrustedIssuer)

		require.Zero(t, store.saves)
	})
}

func TestServiceRevoke(t *testing.T) {
	ctx := context.Background()
	issuers := token.NewTrustedIssuers("my-app")

	t.Run("requires a configured store", func(t *testing.T) {
		svc := token.NewService(newCodec(t), issuers, time.Hour)
		err := svc.Revoke(ctx, "whatever")
		require.ErrorIs(t, err, token.ErrNoStore)
	})

	t.Run("unknown token", func(t *testing.T) {
		svc := token.NewService(newCodec(t), issuers, time.Hour, token.WithStore(newCountingStore()))
		err := svc.Revoke(ctx, "no-such-token")
		require.ErrorIs(t, err, token.ErrNotFound)
	})

	t.Run("revocation invalidates and is idempotent", func(t *testing.T) {
		store := newCountingStore()
		svc := token.NewService(newCodec(t), issuers, time.Hour, token.WithStore(store))

		tok, err := svc.Issue(ctx, "alice", "my-app", []string{"USER"})
		require.NoError(t, err)
		require.Equal(t, 1, store.saves)

		require.NoError(t, svc.Revoke(ctx, tok.Value))
		require.Equal(t, 2, store.saves)

		_, ok := svc.Validate(ctx, tok.Value)
		require.False(t, ok)

		// Second revoke is a no-op, not an error, and writes nothing.
		require.NoError(t, svc.Revoke(ctx, tok.Value))
		require.Equal(t, 2, store.saves)
	})
}

func TestServiceValidate(t *testing.T) {
	ctx := context.Background()
	issuers := token.NewTrustedIssuers("my-app")

	t.Run("empty value is not valid", func(t *testing.T) {
		store := newCountingStore()
		svc := token.NewService(newCodec(t), issuers, time.Hour, token.WithStore(store))

		_, ok := svc.Validate(ctx, "")
		require.False(t, ok)
		require.Zero(t, store.finds)
	})

	t.Run("expired record is not valid even when never revoked", func(t *testing.T) {
		store := newCountingStore()
		clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		svc := token.NewService(newCodec(t), issuers, time.Minute,
			token.WithStore(store),
			token.WithClock(func() time.Time { return clock }),
		)

		tok, err := svc.Issue(ctx, "alice", "my-app", []string{"USER"})
		require.NoError(t, err)

		clock = clock.Add(2 * time.Minute)
		_, ok := svc.Validate(ctx, tok.Value)
		require.False(t, ok)
	})

	t.Run("without a store validation falls back to the codec", func(t *testing.T) {
		svc := token.NewService(newCodec(t), issuers, time.Hour)

		tok, err := svc.Issue(ctx, "alice", "my-app", []string{"USER", "AUDIT"})
		require.NoError(t, err)

		got, ok := svc.Validate(ctx, tok.Value)
		require.True(t, ok)
		require.Equal(t, "alice", got.Subject)
		require.Equal(t, []string{"USER", "AUDIT"}, got.Scope)

		_, ok = svc.Validate(ctx, "mangled."+tok.Value)
		require.False(t, ok)
	})

	t.Run("codec fallback rejects untrusted issuers even with a valid MAC", func(t *testing.T) {
		codec := newCodec(t)
		claims := jwtx.NewClaims("alice", "rogue-issuer", []string{"USER"}, time.Hour, time.Now())
		raw, err := codec.Sign(claims)
		require.NoError(t, err)

		svc := token.NewService(codec, issuers, time.Hour)
		_, ok := svc.Validate(ctx, raw)
		require.False(t, ok)
	})

	t.Run("codec fallback rejects a signed token with no timestamps", func(t *testing.T) {
		// Correctly MACed with the service's own key but carrying neither
		// iat nor exp. Validation must treat it as not valid, not panic on
		// the absent claims.
		codec := newCodec(t)
		raw, err := codec.Sign(jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject: "alice",
				Issuer:  "my-app",
			},
			Scope: []string{"USER"},
		})
		require.NoError(t, err)

		svc := token.NewService(codec, issuers, time.Hour)
		_, ok := svc.Validate(ctx, raw)
		require.False(t, ok)
	})

	t.Run("store path ignores tokens that were never persisted", func(t *testing.T) {
		codec := newCodec(t)
		claims := jwtx.NewClaims("alice", "my-app", []string{"USER"}, time.Hour, time.Now())
		raw, err := codec.Sign(claims)
		require.NoError(t, err)

		svc := token.NewService(codec, issuers, time.Hour, token.WithStore(newCountingStore()))
		_, ok := svc.Validate(ctx, raw)
		require.False(t, ok)
	})
}
