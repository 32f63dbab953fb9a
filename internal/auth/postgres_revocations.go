package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrStorage marks revocation store failures.
var ErrStorage = errors.New("revocation storage failure")

type PostgresRevocations struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRevocations(db *pgxpool.Pool, timeout time.Duration) *PostgresRevocations {
	return &PostgresRevocations{db: db, timeout: timeout}
}

func (r *PostgresRevocations) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRevocations) Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	const query = `
	INSERT INTO revoked_tokens (jti, user_id, expires_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (jti) DO NOTHING
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.Exec(timeoutCtx, query, jti, userID, expiresAt); err != nil {
		return errors.Join(ErrStorage, err)
	}
	return nil
}

func (r *PostgresRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	const query = `
	SELECT EXISTS(
		SELECT 1 FROM revoked_tokens
		WHERE jti = $1 AND expires_at > now()
	)
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var exists bool
	if err := r.db.QueryRow(timeoutCtx, query, jti).Scan(&exists); err != nil {
		return false, errors.Join(ErrStorage, err)
	}
	return exists, nil
}

func (r *PostgresRevocations) CleanupExpired(ctx context.Context) (int, error) {
	const query = `DELETE FROM revoked_tokens WHERE expires_at <= now()`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, query)
	if err != nil {
		return 0, errors.Join(ErrStorage, err)
	}
	return int(tag.RowsAffected()), nil
}
