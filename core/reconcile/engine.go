package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payment-sync/core/batch"
	"payment-sync/core/metrics"

	"go.uber.org/zap"
)

// Engine reconciles remote records of one entity into the local store.
type Engine[R, L any] struct {
	adapter Adapter[R, L]
	opts    Options
	logger  *zap.Logger
	now     func() time.Time
}

// NewEngine creates an engine for adapter.
func NewEngine[R, L any](adapter Adapter[R, L], opts Options, logger *zap.Logger) *Engine[R, L] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine[R, L]{
		adapter: adapter,
		opts:    opts,
		logger:  logger.With(zap.String("entity", adapter.Name())),
		now:     time.Now,
	}
}

// Name returns the adapter name.
func (e *Engine[R, L]) Name() string {
	return e.adapter.Name()
}

// Reconcile classifies and, unless in dry-run mode, writes a single record.
// It never returns an error; failures are carried in the outcome.
func (e *Engine[R, L]) Reconcile(ctx context.Context, r R) Outcome {
	id := e.adapter.ExternalID(r)
	out := Outcome{ID: id}

	if g, ok := e.adapter.(Guard[R]); ok {
		if err := g.Admit(ctx, r); err != nil {
			if errors.Is(err, ErrIgnored) {
				out.Kind = KindIgnored
				out.Reason = err.Error()
				return out
			}
			return failed(out, fmt.Errorf("admit: %w", err))
		}
	}

	projected, err := e.adapter.Project(r)
	if err != nil {
		return failed(out, fmt.Errorf("project: %w", err))
	}

	stored, found, err := e.adapter.Lookup(ctx, id)
	if err != nil {
		return failed(out, fmt.Errorf("lookup: %w", err))
	}

	if !found {
		if !e.opts.DryRun {
			if err := e.adapter.Upsert(ctx, projected); err != nil {
				return failed(out, fmt.Errorf("insert: %w", err))
			}
		}
		out.Kind = KindCreated
		return out
	}

	diffs := Diff(e.adapter.Fields(), stored, projected)
	if len(diffs) == 0 {
		out.Kind = KindUnchanged
		return out
	}

	if !e.opts.DryRun {
		if err := e.adapter.Upsert(ctx, projected); err != nil {
			out.Diffs = diffs
			return failed(out, fmt.Errorf("update: %w", err))
		}
	}
	out.Kind = KindUpdated
	out.Diffs = diffs
	return out
}

func failed(o Outcome, err error) Outcome {
	o.Kind = KindFailed
	o.Err = err
	o.Reason = err.Error()
	return o
}

// Run reconciles records in chunks and returns the report. Outcomes follow the
// input order. With RetryFailed, failed records get one more pass after the
// first one completes.
func (e *Engine[R, L]) Run(ctx context.Context, records []R) Report {
	report := Report{Entity: e.adapter.Name(), DryRun: e.opts.DryRun, StartedAt: e.now()}

	outcomes := e.runBatch(ctx, records)

	if e.opts.RetryFailed && ctx.Err() == nil {
		var retryIdx []int
		for i, o := range outcomes {
			if o.Kind == KindFailed {
				retryIdx = append(retryIdx, i)
			}
		}
		if len(retryIdx) > 0 {
			e.logger.Info("Retrying failed records", zap.Int("count", len(retryIdx)))

			retry := make([]R, len(retryIdx))
			for j, i := range retryIdx {
				retry[j] = records[i]
			}
			for j, o := range e.runBatch(ctx, retry) {
				outcomes[retryIdx[j]] = o
			}
		}
	}

	for _, o := range outcomes {
		report.Add(o)
		metrics.SyncOutcomes.WithLabelValues(report.Entity, string(o.Kind)).Inc()
		e.logOutcome(o)
	}

	report.FinishedAt = e.now()
	metrics.SyncDuration.WithLabelValues(report.Entity).Observe(report.Duration().Seconds())

	e.logger.Info("Reconciliation finished",
		zap.Bool("dry_run", report.DryRun),
		zap.Int("total", report.Total()),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("unchanged", report.Unchanged),
		zap.Int("ignored", report.Ignored),
		zap.Int("failed", report.Failed),
		zap.Duration("duration", report.Duration()))

	return report
}

func (e *Engine[R, L]) runBatch(ctx context.Context, records []R) []Outcome {
	res := batch.Run(ctx, records, func(ctx context.Context, r R) (Outcome, error) {
		o := e.Reconcile(ctx, r)
		return o, o.Err
	}, e.opts.Batch)

	outcomes := make([]Outcome, len(records))
	for i, bo := range res.Outcomes {
		o := bo.Value
		if o.Kind == "" {
			// Panicked or never started.
			o = failed(Outcome{ID: e.adapter.ExternalID(records[i])}, bo.Err)
		}
		outcomes[i] = o
	}
	return outcomes
}

func (e *Engine[R, L]) logOutcome(o Outcome) {
	switch o.Kind {
	case KindFailed:
		e.logger.Warn("Record failed", zap.String("id", o.ID), zap.Error(o.Err))
	case KindIgnored:
		e.logger.Info("Record ignored", zap.String("id", o.ID), zap.String("reason", o.Reason))
	case KindUpdated:
		e.logger.Debug("Record updated", zap.String("id", o.ID), zap.Int("fields", len(o.Diffs)))
	default:
		e.logger.Debug("Record reconciled", zap.String("id", o.ID), zap.String("kind", string(o.Kind)))
	}
}
