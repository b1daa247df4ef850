// Package sync orchestrates sync runs: fetching provider pages, reconciling
// them entity by entity, and reporting the result.
//
// # Runs
//
// A run first checks its setup: the local store must answer a ping and have
// every table migrated, and the provider must accept the credentials on
// GET /myAccount. A setup failure aborts the run and is returned to the
// caller. After that, entities are synchronized in the order customers,
// charges, installments. Each page is reconciled as soon as it is fetched.
// A page that cannot be fetched after the client's retries ends that entity
// only; the report keeps the pages read before it.
//
// # Reporting
//
// LogReport writes the totals, the changed fields of each updated record
// (values cut to DiffValueWidth characters) and the failed records. When
// configured, runs are recorded in the sync_runs table by History and the
// full result is uploaded as JSON by Archive.
//
// # Routes
//
//	POST /sync/:entity           start a run (customers, charges, installments, all)
//	GET  /sync/runs/:id          run status and counts
//	GET  /sync/runs/:id/report   archived result with diffs
//	GET  /ratelimit              governor state
package sync
