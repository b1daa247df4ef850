package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GovernorRemaining is the last observed remaining call budget.
	GovernorRemaining = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ratelimit_remaining_calls",
			Help: "Remaining calls in the current provider rate limit window",
		},
	)

	// GovernorWaits counts how many callers were suspended by the governor.
	GovernorWaits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ratelimit_waits_total",
			Help: "Total number of calls suspended until the rate limit window reset",
		},
	)

	// GovernorWaitSeconds accumulates time spent waiting for window resets.
	GovernorWaitSeconds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ratelimit_wait_seconds_total",
			Help: "Total seconds spent waiting for the rate limit window to reset",
		},
	)

	// RemoteRequests counts provider API attempts by operation and result class.
	RemoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asaas_requests_total",
			Help: "Total provider API attempts by operation and result",
		},
		[]string{"operation", "result"}, // result: ok, throttled, not_found, validation, transport
	)

	// RemoteRetries counts retried provider API attempts.
	RemoteRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asaas_retries_total",
			Help: "Total provider API retries by reason",
		},
		[]string{"reason"},
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// SyncOutcomes counts reconciliation outcomes.
	SyncOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_outcomes_total",
			Help: "Total reconciliation outcomes by entity and kind",
		},
		[]string{"entity", "outcome"},
	)

	// SyncDuration tracks how long a reconciliation of one entity takes.
	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sync_duration_seconds",
			Help:    "Duration of a reconciliation run per entity",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"entity"},
	)
)
