package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lastshield/shield/pkg/token"
)

// tokensRepo implements token.Store on the shared sqlite handle, so issued
// tokens survive restarts alongside the users that own them.
type tokensRepo struct {
	db *sql.DB
}

func (r *tokensRepo) Save(ctx context.Context, rec token.Record) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tokens (token, subject, issuer, scope, issued_at, expires_at, revoked)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(token) DO UPDATE SET
		   subject    = excluded.subject,
		   issuer     = excluded.issuer,
		   scope      = excluded.scope,
		   issued_at  = excluded.issued_at,
		   expires_at = excluded.expires_at,
		   revoked    = excluded.revoked`,
		rec.Value, rec.Subject, rec.Issuer, joinList(rec.Scope),
		rec.IssuedAt, rec.ExpiresAt, rec.Revoked)
	return err
}

func (r *tokensRepo) FindByValue(ctx context.Context, value string) (token.Record, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT token, subject, issuer, scope, issued_at, expires_at, revoked
		 FROM tokens WHERE token = ?`, value)

	var rec token.Record
	var scope string
	err := row.Scan(&rec.Value, &rec.Subject, &rec.Issuer, &scope,
		&rec.IssuedAt, &rec.ExpiresAt, &rec.Revoked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return token.Record{}, token.ErrNotFound
		}
		return token.Record{}, err
	}
	rec.Scope = splitList(scope)
	return rec, nil
}
