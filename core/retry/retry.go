// Package retry runs an operation in an explicit bounded loop.
//
// The loop never issues more than MaxRetries+1 attempts. Whether an error is
// worth another attempt, and how long to wait before it, are decided by the
// Policy passed in by the caller.
package retry

import (
	"context"
	"time"
)

// Policy controls a bounded retry loop.
type Policy struct {
	// MaxRetries is the number of additional attempts after the first one.
	MaxRetries int

	// Retryable reports whether err should trigger another attempt.
	// A nil Retryable never retries.
	Retryable func(err error) bool

	// Delay returns the wait before the given retry (attempt starts at 1).
	// A nil Delay retries immediately.
	Delay func(attempt int, err error) time.Duration

	// OnRetry is called before waiting for the next attempt.
	OnRetry func(attempt int, delay time.Duration, err error)

	// Sleep waits for d or until ctx is done. Defaults to Sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Fixed returns a Delay function that always waits d.
func Fixed(d time.Duration) func(int, error) time.Duration {
	return func(int, error) time.Duration { return d }
}

// Exponential returns a Delay function doubling base on every attempt, capped at max.
// Exponential(time.Second, 5*time.Second) yields 1s, 2s, 4s, 5s...
func Exponential(base, max time.Duration) func(int, error) time.Duration {
	return func(attempt int, _ error) time.Duration {
		d := base << (attempt - 1)
		if d <= 0 || d > max {
			return max
		}
		return d
	}
}

// Do runs fn until it succeeds, returns a non-retryable error, or the attempt
// budget is spent. It returns the number of attempts made and the last error.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) error) (int, error) {
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	attempts := 0
	for {
		attempts++
		err := fn(ctx, attempts)
		if err == nil {
			return attempts, nil
		}

		if attempts > p.MaxRetries || p.Retryable == nil || !p.Retryable(err) {
			return attempts, err
		}

		var delay time.Duration
		if p.Delay != nil {
			delay = p.Delay(attempts, err)
		}
		if p.OnRetry != nil {
			p.OnRetry(attempts, delay, err)
		}
		if delay > 0 {
			if serr := sleep(ctx, delay); serr != nil {
				return attempts, err
			}
		}
	}
}

// Sleep blocks for d or until ctx is cancelled.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
