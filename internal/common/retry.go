package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/spendlog/internal/service"
)

var (
	// ErrRateLimit marks a remote quota error. The next attempt waits MaxDelay.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrMaxRetries wraps the last error once every attempt has failed.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// RetryableError overrides the retry decision for Err.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// Permanent stops WithRetry at the first failure; the unwrapped err is
// returned.
func Permanent(err error) error {
	return &RetryableError{Err: err, Retryable: false}
}

func withDefaults(opts service.RetryOptions) service.RetryOptions {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = 100 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 30 * time.Second
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = 2
	}
	return opts
}

// backoff returns the wait after the given failed attempt (1-based).
func backoff(opts service.RetryOptions, attempt int, err error) time.Duration {
	if errors.Is(err, ErrRateLimit) {
		return opts.MaxDelay
	}
	d := float64(opts.InitialDelay)
	for range attempt - 1 {
		d *= opts.Multiplier
		if d >= float64(opts.MaxDelay) {
			return opts.MaxDelay
		}
	}
	return time.Duration(d)
}

// WithRetry runs operation until it succeeds, returns a Permanent error, or
// runs out of attempts. Waits grow by Multiplier up to MaxDelay.
func WithRetry(ctx context.Context, operation func() error, opts service.RetryOptions) error {
	opts = withDefaults(opts)

	var err error
	for attempt := 1; ; attempt++ {
		if err = operation(); err == nil {
			return nil
		}

		var retryableErr *RetryableError
		if errors.As(err, &retryableErr) && !retryableErr.Retryable {
			return retryableErr.Err
		}
		if attempt == opts.MaxAttempts {
			break
		}

		delay := backoff(opts, attempt, err)
		slog.Warn("Operation failed, retrying",
			"attempt", attempt,
			"max_attempts", opts.MaxAttempts,
			"delay", delay,
			"error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrMaxRetries, opts.MaxAttempts, err)
}
