package session

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

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

func (r *PostgresRevocations) Revoke(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	const query = `
	INSERT INTO token_revocations (jti, user_id, expires_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (jti) DO NOTHING
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.Exec(timeoutCtx, query, jti, userID, expiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *PostgresRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	const query = `
	SELECT EXISTS(
		SELECT 1 FROM token_revocations
		WHERE jti = $1 AND expires_at > now()
	)
	`
	var revoked bool
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, query, jti).Scan(&revoked); err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return revoked, nil
}

func (r *PostgresRevocations) CleanupExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM token_revocations WHERE expires_at <= now()`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query)
	if err != nil {
		return 0, fmt.Errorf("cleanup revocations: %w", err)
	}
	return tag.RowsAffected(), nil
}
