package service

import (
	"context"
	"time"
)

// Retry invokes fn until it succeeds, the attempt budget is spent, or the
// context is done. The delay before attempt n is baseDelay*n, so waits grow
// linearly. Nothing in the services calls this automatically; it exists for
// callers who decide a particular operation is worth retrying.
func Retry(ctx context.Context, maxAttempts int, baseDelay time.Duration, fn func(ctx context.Context) error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastError error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastError = fn(ctx)
		if lastError == nil {
			return nil
		}

		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(baseDelay * time.Duration(attempt)):
		}
	}
	return lastError
}
