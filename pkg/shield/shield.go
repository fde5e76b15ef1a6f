// Package shield is the request-gating layer: an http middleware that decides
// per request whether the caller may proceed, based on the route-authority
// registry, the token service and a host-supplied user directory.
package shield

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned by UserDirectory implementations when no
// principal record exists for the subject.
var ErrUserNotFound = errors.New("shield: user not found")

// UserRecord is the resolved principal record handed back by the host
// application's directory. The host maps whatever its own user entity looks
// like into this explicit shape; the gate performs no field discovery.
type UserRecord struct {
	Identifier string
	Roles      []string
}

// UserDirectory is the host-side collaborator the gate uses to resolve a
// token subject into an identity with roles. Implementations are registered
// directly at construction; return ErrUserNotFound for unknown subjects.
type UserDirectory interface {
	FindByIdentifier(ctx context.Context, subject string) (UserRecord, error)
}

// UserDirectoryFunc adapts a plain function into a UserDirectory.
type UserDirectoryFunc func(ctx context.Context, subject string) (UserRecord, error)

func (f UserDirectoryFunc) FindByIdentifier(ctx context.Context, subject string) (UserRecord, error) {
	return f(ctx, subject)
}
