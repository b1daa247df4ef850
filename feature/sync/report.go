package sync

import (
	"payment-sync/core/reconcile"

	"go.uber.org/zap"
)

// DiffValueWidth is the number of characters of a value shown in reports.
const DiffValueWidth = 50

// LogReport writes the report of a run. maxRecords bounds the number of
// changed and failed records listed per entity; zero lists them all.
func LogReport(l *zap.Logger, res Result, maxRecords int) {
	created, updated, unchanged, ignored, failed := res.Totals()
	l.Info("Sync report",
		zap.String("run_id", res.ID),
		zap.Bool("dry_run", res.DryRun),
		zap.Int("created", created),
		zap.Int("updated", updated),
		zap.Int("unchanged", unchanged),
		zap.Int("ignored", ignored),
		zap.Int("failed", failed),
		zap.Duration("duration", res.Duration()),
	)

	for _, e := range res.Entities {
		r := e.Report
		fields := []zap.Field{
			zap.String("entity", r.Entity),
			zap.Int("pages", e.Pages),
			zap.Int("total", r.Total()),
			zap.Int("created", r.Created),
			zap.Int("updated", r.Updated),
			zap.Int("unchanged", r.Unchanged),
			zap.Int("ignored", r.Ignored),
			zap.Int("failed", r.Failed),
			zap.Duration("duration", r.Duration()),
		}
		if e.Error != "" {
			l.Warn("Entity incomplete", append(fields, zap.String("error", e.Error))...)
		} else {
			l.Info("Entity report", fields...)
		}

		shown := 0
		for _, d := range r.Diffs {
			if maxRecords > 0 && shown == maxRecords {
				break
			}
			shown++
			for _, f := range d.Fields {
				l.Info("Field changed",
					zap.String("entity", r.Entity),
					zap.String("id", d.ID),
					zap.String("field", f.Field),
					zap.String("old", reconcile.Truncate(reconcile.FormatValue(f.Old), DiffValueWidth)),
					zap.String("new", reconcile.Truncate(reconcile.FormatValue(f.New), DiffValueWidth)),
				)
			}
		}
		if len(r.Diffs) > shown {
			l.Info("Additional changed records not shown", zap.String("entity", r.Entity), zap.Int("count", len(r.Diffs)-shown))
		}

		failedOutcomes := r.FailedOutcomes()
		for i, o := range failedOutcomes {
			if maxRecords > 0 && i == maxRecords {
				l.Info("Additional failed records not shown", zap.String("entity", r.Entity), zap.Int("count", len(failedOutcomes)-i))
				break
			}
			l.Warn("Record failed",
				zap.String("entity", r.Entity),
				zap.String("id", o.ID),
				zap.String("reason", reconcile.Truncate(o.Reason, 200)),
			)
		}
	}
}
