package token

import (
	"context"
	"errors"
)

// ErrNotFound reports that no record exists for a token value.
var ErrNotFound = errors.New("token: not found")

// Store is the persistence contract for issued tokens. Implementations may
// be backed by any keyed store; the key is the signed token string.
//
// Implementations must support concurrent FindByValue reads and Save writes
// without caller-side locking. Save has single-row upsert semantics so that
// revocation (a second Save of the same value with Revoked=true) is
// idempotent.
type Store interface {
	Save(ctx context.Context, r Record) error
	FindByValue(ctx context.Context, value string) (Record, error)
}
