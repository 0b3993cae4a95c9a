package storage

import (
	"context"
	"math/rand/v2"
	"time"
)

// writeRetry retries transient filesystem errors with exponential
// backoff. Local writes fail rarely but not never (ENOSPC races,
// antivirus holds, NFS hiccups); a couple of cheap retries cover the
// transient cases without masking real failures.
type writeRetry struct {
	// attempts is the total number of attempts, including the first.
	attempts int

	// initialDelay is the delay before the first retry; it doubles on
	// each subsequent retry.
	initialDelay time.Duration
}

var defaultWriteRetry = writeRetry{attempts: 3, initialDelay: 10 * time.Millisecond}

// do runs op, retrying on error until the attempts are exhausted or the
// context is done.
func (r writeRetry) do(ctx context.Context, op func() error) error {
	attempts := r.attempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	delay := r.initialDelay
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if attempt >= attempts {
			break
		}

		wait := delay
		if wait > 0 {
			// Up to 25% jitter.
			// #nosec G404 -- jitter is non-cryptographic timing variance.
			wait += time.Duration(rand.Int64N(int64(wait/4) + 1))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		delay *= 2
	}
	return lastErr
}
