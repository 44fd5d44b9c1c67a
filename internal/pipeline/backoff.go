package pipeline

import (
	"context"
	"time"
)

const (
	// MaxRetries bounds automatic retries per load, for both failure paths.
	MaxRetries = 3

	// AttemptTimeout is the deadline of a single fetch attempt.
	AttemptTimeout = 15 * time.Second

	backoffBase      = 1000 * time.Millisecond
	backoffCap       = 5000 * time.Millisecond
	rateLimitBackoff = 2000 * time.Millisecond
)

// BackoffDelay is the wait after a generic failure on the given attempt:
// min(1s * 2^attempt, 5s).
func BackoffDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := backoffBase
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= backoffCap {
			return backoffCap
		}
	}
	return delay
}

// RateLimitDelay is the wait after a rate-limited response on the given
// attempt: 2s * (attempt+1).
func RateLimitDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return rateLimitBackoff * time.Duration(attempt+1)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
