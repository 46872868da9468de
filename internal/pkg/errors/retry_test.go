package errors

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     100 * time.Millisecond,
		Multiplier:   2.0,
		Jitter:       false,
	}
}

func TestRetry_Success(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastRetryConfig(), func(ctx context.Context) error {
		attempts++
		return nil
	})

	if err != nil {
		t.Errorf("Retry() error = %v, want nil", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_SuccessAfterRetries(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastRetryConfig(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return NewNetworkError(errors.New("connection failed"))
		}
		return nil
	})

	if err != nil {
		t.Errorf("Retry() error = %v, want nil", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetry_NonRetryableError(t *testing.T) {
	attempts := 0
	expectedErr := NewUnparsableResponseError()
	err := Retry(context.Background(), fastRetryConfig(), func(ctx context.Context) error {
		attempts++
		return expectedErr
	})

	if err != expectedErr {
		t.Errorf("Retry() error = %v, want %v", err, expectedErr)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (should not retry non-retryable errors)", attempts)
	}
}

func TestRetry_MaxAttemptsExceeded(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastRetryConfig(), func(ctx context.Context) error {
		attempts++
		return NewBadResponseShapeError(errors.New("missing candidates"))
	})

	if err == nil {
		t.Error("Retry() should return error after max attempts")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	config := RetryConfig{
		MaxAttempts:  5,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Multiplier:   2.0,
		Jitter:       false,
	}

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := Retry(ctx, config, func(ctx context.Context) error {
		attempts++
		return NewNetworkError(errors.New("connection failed"))
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() error = %v, want context.Canceled", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (cancelled during first backoff)", attempts)
	}
}

func TestRetryWithNotify_CallbackDelays(t *testing.T) {
	var delays []time.Duration
	attempts := 0

	err := RetryWithNotify(context.Background(), fastRetryConfig(), func(ctx context.Context) error {
		attempts++
		return NewNetworkError(errors.New("down"))
	}, func(attempt int, err error, delay time.Duration) {
		delays = append(delays, delay)
	})

	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	// Only two waits occur before the third and final attempt
	if len(delays) != 2 {
		t.Fatalf("delays = %v, want exactly 2 waits", delays)
	}
	if delays[0] != 10*time.Millisecond {
		t.Errorf("first delay = %v, want InitialDelay", delays[0])
	}
	if delays[1] != 20*time.Millisecond {
		t.Errorf("second delay = %v, want doubled InitialDelay", delays[1])
	}
}

func TestBackoffDelay_RespectsRetryAfter(t *testing.T) {
	config := fastRetryConfig()
	err := NewRateLimitError(5 * time.Second)

	if got := backoffDelay(config, 0, err); got != 5*time.Second {
		t.Errorf("backoffDelay() = %v, want server-supplied 5s", got)
	}
}

func TestBackoffDelay_CappedAtMaxDelay(t *testing.T) {
	config := fastRetryConfig()
	plain := NewNetworkError(errors.New("down"))

	if got := backoffDelay(config, 10, plain); got != config.MaxDelay {
		t.Errorf("backoffDelay() = %v, want capped at %v", got, config.MaxDelay)
	}
}
