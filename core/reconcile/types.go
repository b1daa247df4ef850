package reconcile

import (
	"time"

	"payment-sync/core/batch"
)

// Kind is the classification of one reconciled record.
type Kind string

const (
	KindCreated   Kind = "created"
	KindUpdated   Kind = "updated"
	KindUnchanged Kind = "unchanged"
	KindIgnored   Kind = "ignored"
	KindFailed    Kind = "failed"
)

// ErrIgnored is matched by errors returned from Ignore.
var ErrIgnored = batch.ErrIgnored

// Ignore returns an error a Guard uses to skip a record without failing it.
func Ignore(reason string) error {
	return batch.Ignore(reason)
}

// FieldDiff is one tracked field whose normalized value changed.
type FieldDiff struct {
	Field string `json:"field"`
	Old   any    `json:"old"`
	New   any    `json:"new"`
}

// Outcome is the result of reconciling one record.
type Outcome struct {
	ID     string      `json:"id"`
	Kind   Kind        `json:"kind"`
	Diffs  []FieldDiff `json:"diffs,omitempty"`
	Err    error       `json:"-"`
	Reason string      `json:"reason,omitempty"`
}

// RecordDiff lists the changed fields of one updated record.
type RecordDiff struct {
	ID     string      `json:"id"`
	Fields []FieldDiff `json:"fields"`
}

// Report aggregates the outcomes of a run over one entity.
type Report struct {
	Entity     string       `json:"entity"`
	DryRun     bool         `json:"dry_run"`
	Created    int          `json:"created"`
	Updated    int          `json:"updated"`
	Unchanged  int          `json:"unchanged"`
	Ignored    int          `json:"ignored"`
	Failed     int          `json:"failed"`
	Outcomes   []Outcome    `json:"outcomes"`
	Diffs      []RecordDiff `json:"diffs"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
}

// Options controls an engine run.
type Options struct {
	// DryRun computes outcomes and diffs without writing.
	DryRun bool
	// RetryFailed gives failed records one more pass at the end of a run.
	RetryFailed bool
	// Batch controls chunk width and the delay between chunks.
	Batch batch.Options
}

// Total is the number of classified records.
func (r *Report) Total() int {
	return r.Created + r.Updated + r.Unchanged + r.Ignored + r.Failed
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Add folds one outcome into the report.
func (r *Report) Add(o Outcome) {
	switch o.Kind {
	case KindCreated:
		r.Created++
	case KindUpdated:
		r.Updated++
		r.Diffs = append(r.Diffs, RecordDiff{ID: o.ID, Fields: o.Diffs})
	case KindUnchanged:
		r.Unchanged++
	case KindIgnored:
		r.Ignored++
	default:
		r.Failed++
	}
	r.Outcomes = append(r.Outcomes, o)
}

// Merge appends other's outcomes, keeping the earliest start and latest finish.
func (r *Report) Merge(other Report) {
	for _, o := range other.Outcomes {
		r.Add(o)
	}
	if r.StartedAt.IsZero() || (!other.StartedAt.IsZero() && other.StartedAt.Before(r.StartedAt)) {
		r.StartedAt = other.StartedAt
	}
	if other.FinishedAt.After(r.FinishedAt) {
		r.FinishedAt = other.FinishedAt
	}
}

// FailedOutcomes returns the failed outcomes in input order.
func (r *Report) FailedOutcomes() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Kind == KindFailed {
			out = append(out, o)
		}
	}
	return out
}
