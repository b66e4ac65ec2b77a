package fetcher

import (
	"context"
	"time"

	"github.com/homemart/bukkenfeed/internal/logger"
)

// WithRetry runs fn up to attempts times, sleeping attempt*baseDelay between
// tries. The backoff sleep is interrupted by context cancellation. After
// exhausting all attempts the last error is returned.
func WithRetry(ctx context.Context, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		delay := time.Duration(attempt) * baseDelay
		logger.Debug("retrying after failure", "attempt", attempt, "delay", delay, "error", lastErr)

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
		timer.Stop()
	}

	return lastErr
}
