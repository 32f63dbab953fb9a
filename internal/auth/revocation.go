package auth

import (
	"context"
	"log/slog"
	"time"
)

// Revocations remembers tokens that were logged out before they expired.
type Revocations interface {
	Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	CleanupExpired(ctx context.Context) (int, error)
}

// RunCleanup drops expired revocations every interval until ctx is done.
func RunCleanup(ctx context.Context, r Revocations, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.CleanupExpired(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "revocation cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				slog.DebugContext(ctx, "revocation cleanup", "removed", n)
			}
		}
	}
}
