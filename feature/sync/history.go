package sync

import (
	"context"
	"fmt"
	"time"

	"payment-sync/core/database"
	"payment-sync/feature/sync/models"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// History persists runs in the sync_runs table.
type History struct {
	table *database.Table[models.SyncRun]
}

// NewHistory creates a run history over db.
func NewHistory(db *gorm.DB, cfg database.Config, log *zap.Logger) *History {
	return &History{table: database.NewTable[models.SyncRun](db, cfg, log)}
}

// Begin records a run as running.
func (h *History) Begin(ctx context.Context, req Request, startedAt time.Time) error {
	return h.table.Upsert(ctx, models.SyncRun{
		ID:        req.ID,
		Entities:  JoinEntities(req.Entities),
		DryRun:    req.DryRun,
		Status:    models.StatusRunning,
		StartedAt: startedAt,
	})
}

// Finish records the result of a run. runErr marks the run as failed and a
// cancelled run is recorded as interrupted.
func (h *History) Finish(ctx context.Context, req Request, res Result, runErr error) error {
	summary, err := json.Marshal(res.Summaries())
	if err != nil {
		return fmt.Errorf("encode run summary: %w", err)
	}

	created, updated, unchanged, ignored, failed := res.Totals()
	finished := res.FinishedAt
	row := models.SyncRun{
		ID:         res.ID,
		Entities:   JoinEntities(req.Entities),
		DryRun:     res.DryRun,
		Status:     models.StatusCompleted,
		Account:    res.Account,
		Created:    created,
		Updated:    updated,
		Unchanged:  unchanged,
		Ignored:    ignored,
		Failed:     failed,
		Summary:    datatypes.JSON(summary),
		ArchiveKey: res.ArchiveKey,
		StartedAt:  res.StartedAt,
		FinishedAt: &finished,
	}
	switch {
	case runErr != nil:
		row.Status = models.StatusFailed
		row.Error = runErr.Error()
	case res.Interrupted:
		row.Status = models.StatusInterrupted
		row.Error = "run cancelled before completion"
	}
	return h.table.Upsert(ctx, row)
}

// Get returns a run by ID.
func (h *History) Get(ctx context.Context, id string) (models.SyncRun, bool, error) {
	return h.table.Get(ctx, id)
}
