package asaas

import (
	"context"
	"errors"
	"time"

	"payment-sync/core/metrics"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// breaker guards logical calls once the provider keeps failing.
// Only retryable failures count against it; a 404 or a rejected request is a
// healthy provider answering.
type breaker struct {
	name string
	cb   *gobreaker.CircuitBreaker[struct{}]
}

func newBreaker(name string, cfg Config, log *zap.Logger) *breaker {
	failures := uint32(cfg.BreakerFailures)
	if failures == 0 {
		failures = 5
	}
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     time.Duration(cfg.BreakerTimeoutSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !Retryable(err)
		},
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
	return &breaker{name: name, cb: cb}
}

func (b *breaker) execute(op string, fn func() error) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &TransportError{Op: op, Err: err}
	}
	return err
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
