// Package session keeps the list of access tokens revoked before their expiry.
package session

import (
	"context"
	"log/slog"
	"time"
)

// Revocations records logged-out token ids until the token would have expired anyway.
type Revocations interface {
	Revoke(ctx context.Context, jti string, userID int64, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Cleaner is implemented by backends that do not expire entries on their own.
type Cleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// RunCleanup calls c.CleanupExpired every interval until ctx is done.
func RunCleanup(ctx context.Context, c Cleaner, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := c.CleanupExpired(ctx)
			if err != nil {
				logger.Error("revocation cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("revocation cleanup", "removed", n)
			}
		}
	}
}
