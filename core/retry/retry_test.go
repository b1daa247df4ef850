package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errBusy = errors.New("busy")

func noSleep(context.Context, time.Duration) error { return nil }

func TestDo_StopsAfterMaxRetries(t *testing.T) {
	calls := 0
	attempts, err := Do(context.Background(), Policy{
		MaxRetries: 3,
		Retryable:  func(err error) bool { return errors.Is(err, errBusy) },
		Delay:      Fixed(300 * time.Millisecond),
		Sleep:      noSleep,
	}, func(ctx context.Context, attempt int) error {
		calls++
		return errBusy
	})

	assert.ErrorIs(t, err, errBusy)
	assert.Equal(t, 4, attempts)
	assert.Equal(t, 4, calls)
}

func TestDo_NonRetryableReturnsImmediately(t *testing.T) {
	fatal := errors.New("fatal")
	attempts, err := Do(context.Background(), Policy{
		MaxRetries: 3,
		Retryable:  func(err error) bool { return errors.Is(err, errBusy) },
		Sleep:      noSleep,
	}, func(ctx context.Context, attempt int) error {
		return fatal
	})

	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, attempts)
}

func TestDo_SucceedsAfterRetry(t *testing.T) {
	var delays []time.Duration
	attempts, err := Do(context.Background(), Policy{
		MaxRetries: 3,
		Retryable:  func(error) bool { return true },
		Delay:      Fixed(10 * time.Millisecond),
		Sleep: func(_ context.Context, d time.Duration) error {
			delays = append(delays, d)
			return nil
		},
	}, func(ctx context.Context, attempt int) error {
		if attempt < 3 {
			return errBusy
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 10 * time.Millisecond}, delays)
}

func TestDo_CancelledSleepReturnsLastError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts, err := Do(ctx, Policy{
		MaxRetries: 5,
		Retryable:  func(error) bool { return true },
		Delay:      Fixed(time.Hour),
	}, func(ctx context.Context, attempt int) error {
		return errBusy
	})

	assert.ErrorIs(t, err, errBusy)
	assert.Equal(t, 1, attempts)
}

func TestExponential(t *testing.T) {
	d := Exponential(time.Second, 5*time.Second)
	assert.Equal(t, time.Second, d(1, nil))
	assert.Equal(t, 2*time.Second, d(2, nil))
	assert.Equal(t, 4*time.Second, d(3, nil))
	assert.Equal(t, 5*time.Second, d(4, nil))
}
