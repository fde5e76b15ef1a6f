package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Algorithm selects the keyed MAC strength used to sign tokens.
type Algorithm string

const (
	HS256 Algorithm = "HS256"
	HS384 Algorithm = "HS384"
	HS512 Algorithm = "HS512"
)

// Construction errors. These are fatal misconfiguration, checked once in
// NewCodec and never on the signing/verification path.
var (
	ErrBadAlgorithm = errors.New("jwtx: unknown signing algorithm")
	ErrEmptyKey     = errors.New("jwtx: secret key must not be empty")
)

// Decode errors. Typed so callers can log precisely without leaking the key.
var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrBadSignature = errors.New("jwtx: invalid signature")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
)

// Codec signs and verifies compact claims with an HMAC family algorithm.
// It is stateless and safe for concurrent use.
type Codec struct {
	method *jwt.SigningMethodHMAC
	key    []byte
}

// NewCodec validates the algorithm/key pair once and returns a ready codec.
func NewCodec(alg Algorithm, secret string) (*Codec, error) {
	if secret == "" {
		return nil, ErrEmptyKey
	}

	var method *jwt.SigningMethodHMAC
	switch alg {
	case HS256:
		method = jwt.SigningMethodHS256
	case HS384:
		method = jwt.SigningMethodHS384
	case HS512:
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadAlgorithm, alg)
	}

	return &Codec{method: method, key: []byte(secret)}, nil
}

// Algorithm reports the configured MAC strength.
func (c *Codec) Algorithm() Algorithm { return Algorithm(c.method.Alg()) }

// Sign encodes the claims and MACs them with the configured key.
func (c *Codec) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(c.method, claims).SignedString(c.key)
}

// Verify re-derives the MAC (constant-time compare inside golang-jwt) and
// enforces the expected issuer and expiry. Returns a typed decode error.
// A token without an exp claim is rejected outright: golang-jwt skips
// absent claims during validation, which would otherwise let such a token
// dodge expiry enforcement forever.
func (c *Codec) Verify(raw, expectedIssuer string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithIssuer(expectedIssuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, mapParseError(err)
	}
	return claims, nil
}

// Issuer extracts the issuer claim without verifying the signature. Callers
// use it to trust-check the issuer before paying for full verification; the
// result must never be treated as authenticated on its own.
func (c *Codec) Issuer(raw string) (string, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return "", ErrMalformed
	}
	return claims.Issuer, nil
}

// mapParseError converts golang-jwt's joined errors into this package's
// sentinels. Signature failures win over claim failures so a forged token
// is never reported as merely expired.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuer
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
