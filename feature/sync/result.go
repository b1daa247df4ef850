package sync

import (
	"time"

	"payment-sync/core/reconcile"
)

// Request describes one run.
type Request struct {
	// ID identifies the run. A UUID is generated when empty.
	ID          string
	Entities    []Entity
	DryRun      bool
	RetryFailed bool
}

// EntityResult is the outcome of synchronizing one entity.
type EntityResult struct {
	Report reconcile.Report `json:"report"`
	// Pages is the number of provider pages reconciled.
	Pages int `json:"pages"`
	// Error is set when enumeration stopped early. Report then covers the
	// pages read before the failure.
	Error string `json:"error,omitempty"`
}

// Result is the outcome of a run.
type Result struct {
	ID         string         `json:"id"`
	Account    string         `json:"account"`
	DryRun     bool           `json:"dry_run"`
	Entities   []EntityResult `json:"entities"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	ArchiveKey string         `json:"archive_key,omitempty"`
	// Interrupted is set when the run was cancelled before it finished.
	Interrupted bool `json:"interrupted,omitempty"`
}

// Duration is the wall time of the run.
func (r Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Totals sums the per-entity counts.
func (r Result) Totals() (created, updated, unchanged, ignored, failed int) {
	for _, e := range r.Entities {
		created += e.Report.Created
		updated += e.Report.Updated
		unchanged += e.Report.Unchanged
		ignored += e.Report.Ignored
		failed += e.Report.Failed
	}
	return
}

// Incomplete reports whether the run was interrupted or any entity stopped
// before its last page.
func (r Result) Incomplete() bool {
	if r.Interrupted {
		return true
	}
	for _, e := range r.Entities {
		if e.Error != "" {
			return true
		}
	}
	return false
}

// EntitySummary is the per-entity row stored with the run history.
type EntitySummary struct {
	Entity     string `json:"entity"`
	Pages      int    `json:"pages"`
	Created    int    `json:"created"`
	Updated    int    `json:"updated"`
	Unchanged  int    `json:"unchanged"`
	Ignored    int    `json:"ignored"`
	Failed     int    `json:"failed"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// Summaries returns the per-entity counts without outcomes.
func (r Result) Summaries() []EntitySummary {
	out := make([]EntitySummary, len(r.Entities))
	for i, e := range r.Entities {
		out[i] = EntitySummary{
			Entity:     e.Report.Entity,
			Pages:      e.Pages,
			Created:    e.Report.Created,
			Updated:    e.Report.Updated,
			Unchanged:  e.Report.Unchanged,
			Ignored:    e.Report.Ignored,
			Failed:     e.Report.Failed,
			DurationMs: e.Report.Duration().Milliseconds(),
			Error:      e.Error,
		}
	}
	return out
}
