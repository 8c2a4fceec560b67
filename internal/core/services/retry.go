package services

import (
	"context"
	"time"

	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/logger"
)

// Backoff bounds for retried calls.
const (
	InitialBackoff = time.Second
	MaxBackoff     = 30 * time.Second
)

// sleepFunc waits for d or until ctx is done. Tests replace it.
var sleepFunc = func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Retry calls fn until it succeeds, returns a non-retryable error,
// or attempts are exhausted. The delay starts at InitialBackoff and doubles
// up to MaxBackoff. The last error is returned.
func Retry(ctx context.Context, attempts int, op string, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	delay := InitialBackoff
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt >= attempts || !domain.IsRetryable(err) || ctx.Err() != nil {
			return err
		}

		logger.Debug("%s: attempt %d/%d failed, retrying in %s: %v", op, attempt, attempts, delay, err)
		if sleepErr := sleepFunc(ctx, delay); sleepErr != nil {
			return err
		}
		delay *= 2
		if delay > MaxBackoff {
			delay = MaxBackoff
		}
	}
}
