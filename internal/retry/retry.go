// Package retry retries idempotent appliance lookups with jittered
// exponential backoff. Report submission and polling never go through it.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"time"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
)

// Predicate determines whether an error should be retried.
type Predicate func(error) bool

// Config controls retry behavior.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultConfig returns the configuration used for metadata lookups.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}
}

// Do calls fn until it succeeds, returns a non-retryable error, or the
// attempts run out. The last error is returned.
func Do(ctx context.Context, config Config, shouldRetry Predicate, fn func() error) error {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}
	if shouldRetry == nil {
		shouldRetry = IsRetryable
	}

	var err error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err = fn(); err == nil {
			return nil
		}
		if attempt == config.MaxAttempts || !shouldRetry(err) {
			return err
		}

		if delay := backoffDelay(config.BaseDelay, config.MaxDelay, attempt); delay > 0 {
			if !sleep(ctx, delay) {
				return ctx.Err()
			}
		}
	}
	return err
}

// IsRetryable reports whether err is likely transient: a throttled
// appliance, a timeout, or a temporary network failure. Authentication and
// not-found errors are never retried.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrNotFound):
		return false
	case errors.Is(err, domain.ErrRateLimited):
		return true
	case errors.Is(err, context.DeadlineExceeded):
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// backoffDelay returns a full-jitter delay in [0, min(base*2^(attempt-1), ceiling)].
func backoffDelay(base, ceiling time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	attempt = max(attempt, 1)

	delay := base << (attempt - 1)
	if ceiling > 0 && delay > ceiling {
		delay = ceiling
	}
	if delay <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(delay) + 1))
}

func sleep(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
