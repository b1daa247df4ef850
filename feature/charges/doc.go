// Package charges reconciles provider charges into the cobrancas table.
//
// A charge is written only when its customer can be resolved:
//   - customer stored locally and active: the charge is reconciled
//   - customer stored locally but soft-deleted: the charge is ignored
//   - customer absent locally and missing or deleted upstream: the charge is ignored
//   - customer absent locally but active upstream: the customer is reconciled
//     first, then the charge
//
// Customer resolution is memoized per run, so many charges of one customer
// cost one lookup.
package charges
