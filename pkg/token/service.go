package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lastshield/shield/pkg/jwtx"
	"github.com/lastshield/shield/pkg/slogx"
)

// Issuance and revocation errors surfaced to callers. Validation never
// returns an error: at the request boundary it is a predicate, not a parser.
var (
	ErrEmptySubject    = errors.New("token: subject must not be empty")
	ErrEmptyScope      = errors.New("token: scope must not be empty")
	ErrUntrustedIssuer = errors.New("token: issuer is not in the trusted set")
	ErrNoStore         = errors.New("token: store not configured")
)

// Service orchestrates the token lifecycle. Codec and Issuers are immutable
// after construction; Store is optional — without it validity is purely
// cryptographic and time-based, and revocation is unavailable.
type Service struct {
	codec   *jwtx.Codec
	issuers TrustedIssuers
	store   Store
	ttl     time.Duration

	// now is the clock, overridable in tests.
	now func() time.Time
}

// ServiceOption customises a Service at construction.
type ServiceOption func(*Service)

// WithStore enables persisted revocation state. The store becomes the sole
// source of truth for validity.
func WithStore(s Store) ServiceOption {
	return func(svc *Service) { svc.store = s }
}

// WithClock overrides the time source, useful in tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(svc *Service) { svc.now = now }
}

// NewService builds a token service. A non-positive ttl falls back to
// jwtx.DefaultTTL.
func NewService(codec *jwtx.Codec, issuers TrustedIssuers, ttl time.Duration, opts ...ServiceOption) *Service {
	if ttl <= 0 {
		ttl = jwtx.DefaultTTL
	}

	svc := &Service{
		codec:   codec,
		issuers: issuers,
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Issue validates the inputs, signs a token and, when a store is configured,
// persists its record before returning. Every input violation aborts before
// any signing or persistence side effect.
//
// If the process dies after signing but before the record is persisted, the
// signed string is cryptographically valid but administratively unknown: the
// store lookup misses and validation fails. The store is the source of truth.
func (s *Service) Issue(ctx context.Context, subject, issuer string, scope []string) (Token, error) {
	if subject == "" {
		return Token{}, ErrEmptySubject
	}
	if len(scope) == 0 {
		return Token{}, ErrEmptyScope
	}
	if !s.issuers.Contains(issuer) {
		return Token{}, fmt.Errorf("%w: %q", ErrUntrustedIssuer, issuer)
	}

	claims := jwtx.NewClaims(subject, issuer, scope, s.ttl, s.now())

	value, err := s.codec.Sign(claims)
	if err != nil {
		return Token{}, fmt.Errorf("token: sign: %w", err)
	}

	t := Token{
		Value:     value,
		Subject:   subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		Issuer:    issuer,
		Scope:     scope,
	}

	if s.store != nil {
		if err := s.store.Save(ctx, NewRecord(t)); err != nil {
			return Token{}, fmt.Errorf("token: persist: %w", err)
		}
	}

	slogx.FromContext(ctx).Info("token issued", "subject", subject, "issuer", issuer)
	return t, nil
}

// Revoke flips the persisted record's revoked flag. Revoking an unknown
// value is an error; revoking an already-revoked token is a logged no-op.
func (s *Service) Revoke(ctx context.Context, value string) error {
	log := slogx.FromContext(ctx)

	if s.store == nil {
		log.Error("cannot revoke token without a configured store")
		return ErrNoStore
	}

	rec, err := s.store.FindByValue(ctx, value)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Error("cannot revoke non-existent token")
			return ErrNotFound
		}
		return fmt.Errorf("token: revoke lookup: %w", err)
	}

	if rec.Revoked {
		log.Info("token is already revoked", "subject", rec.Subject)
		return nil
	}

	rec.Revoked = true
	if err := s.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("token: revoke persist: %w", err)
	}

	log.Info("token revoked", "subject", rec.Subject)
	return nil
}

// Validate reports whether the value is a currently-valid token, returning
// the decoded token on success. Empty input is simply not valid. With a
// store configured the record is the source of truth; without one the value
// is decoded and verified against the codec and the trusted issuer set.
// Decode failures are logged and converted, never propagated.
func (s *Service) Validate(ctx context.Context, value string) (Token, bool) {
	log := slogx.FromContext(ctx)

	if value == "" {
		return Token{}, false
	}

	if s.store != nil {
		rec, err := s.store.FindByValue(ctx, value)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				log.Error("token lookup failed", "err", err)
			}
			return Token{}, false
		}
		if !rec.Valid(s.now()) {
			return Token{}, false
		}
		return rec.Token(), true
	}

	issuer, err := s.codec.Issuer(value)
	if err != nil {
		log.Warn("token validation failed", "err", err)
		return Token{}, false
	}
	if !s.issuers.Contains(issuer) {
		log.Warn("token validation failed: issuer not trusted", "issuer", issuer)
		return Token{}, false
	}

	claims, err := s.codec.Verify(value, issuer)
	if err != nil {
		log.Warn("token validation failed", "err", err)
		return Token{}, false
	}

	// The codec guarantees exp is present; iat is optional in the wire
	// format, so a missing claim decodes as the zero time rather than
	// dereferencing a nil NumericDate.
	var issuedAt time.Time
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}

	return Token{
		Value:     value,
		Subject:   claims.Subject,
		IssuedAt:  issuedAt,
		ExpiresAt: claims.ExpiresAt.Time,
		Issuer:    claims.Issuer,
		Scope:     claims.Scope,
	}, true
}
