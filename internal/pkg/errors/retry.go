// Package errors provides error types, handling utilities, and retry logic for GitQuill.
package errors

import (
	"context"
	"math/rand"
	"time"
)

// RetryConfig describes a bounded retry policy: how many total attempts to
// make and how the delay between them grows.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       bool // Add random jitter to delays
}

// DefaultRetryConfig returns the delivery retry policy: three total
// attempts with doubling backoff from one second (waits of 1s and 2s
// before the second and third attempts).
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     8 * time.Second,
		Multiplier:   2.0,
		Jitter:       false,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc func(ctx context.Context) error

// Retry executes fn until it succeeds, returns a non-retryable error, or
// the attempt budget is spent. The last error is returned in that case.
func Retry(ctx context.Context, config RetryConfig, fn RetryFunc) error {
	return RetryWithNotify(ctx, config, fn, nil)
}

// RetryCallback is invoked before each wait with the upcoming attempt
// number, the error that triggered the retry, and the wait duration.
type RetryCallback func(attempt int, err error, delay time.Duration)

// RetryWithNotify is Retry with a callback fired before each backoff wait.
func RetryWithNotify(ctx context.Context, config RetryConfig, fn RetryFunc, notify RetryCallback) error {
	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if !IsRetryable(lastErr) {
			return lastErr
		}

		// No wait after the final attempt
		if attempt == config.MaxAttempts-1 {
			break
		}

		delay := backoffDelay(config, attempt, lastErr)

		if notify != nil {
			notify(attempt+1, lastErr, delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}

// backoffDelay computes the wait before the next attempt. A server-supplied
// retry-after takes precedence over the exponential schedule.
func backoffDelay(config RetryConfig, attempt int, err error) time.Duration {
	if retryAfter := GetRetryAfter(err); retryAfter > 0 {
		return retryAfter
	}

	delay := float64(config.InitialDelay)
	for i := 0; i < attempt; i++ {
		delay *= config.Multiplier
	}

	if config.MaxDelay > 0 && delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}

	// ±25% jitter when enabled
	if config.Jitter {
		delay += delay * 0.25 * (rand.Float64()*2 - 1)
	}

	return time.Duration(delay)
}
