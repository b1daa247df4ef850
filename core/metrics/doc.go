// Package metrics declares the Prometheus instruments shared by the sync engine.
//
// Instruments are registered on the default registry through promauto and are
// exposed by the operator HTTP surface on /metrics.
//
// # Instruments
//
//   - Rate limit governor: remaining budget gauge, wait counter and wait duration
//   - Remote client: request results, retries, circuit breaker state
//   - Reconciliation: outcomes per entity and run duration
package metrics
