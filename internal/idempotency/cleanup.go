package idempotency

import (
	"context"
	"log/slog"
	"time"
)

// DefaultExpiry is how long a stored key remains replayable. A day
// comfortably covers client retry windows for booking submissions.
const DefaultExpiry = 24 * time.Hour

// DefaultCleanupInterval is how often the background sweep runs.
const DefaultCleanupInterval = time.Hour

// CleanupOldKeys removes idempotency keys older than expiry and reports how
// many were deleted. Without periodic sweeps the key store grows without
// bound, one record per booking attempt.
func CleanupOldKeys(repo Repository, expiry time.Duration) (int64, error) {
	deleted, err := repo.DeleteOlderThan(expiry)
	if err != nil {
		slog.Error("failed to cleanup old idempotency keys", "error", err)
		return 0, err
	}

	if deleted > 0 {
		slog.Info("cleaned up old idempotency keys", "deleted", deleted, "older_than", expiry)
	}

	return deleted, nil
}

// RunPeriodicCleanup sweeps expired keys on a fixed interval until ctx is
// cancelled. It blocks, so run it in its own goroutine. The first sweep
// happens immediately so a restart does not wait a full interval to reclaim
// stale keys.
func RunPeriodicCleanup(ctx context.Context, repo Repository, interval, expiry time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sweep := func() {
		if _, err := CleanupOldKeys(repo, expiry); err != nil {
			slog.Error("idempotency key sweep failed", "error", err)
		}
	}

	sweep()
	for {
		select {
		case <-ticker.C:
			sweep()
		case <-ctx.Done():
			slog.Info("stopping idempotency key cleanup")
			return
		}
	}
}
