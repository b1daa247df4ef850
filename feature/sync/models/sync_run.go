package models

import (
	"time"

	"gorm.io/datatypes"
)

// Run statuses.
const (
	StatusRunning     = "running"
	StatusCompleted   = "completed"
	StatusFailed      = "failed"
	StatusInterrupted = "interrupted"
)

// SyncRun is the persisted history of one sync run.
type SyncRun struct {
	ID         string         `gorm:"column:id;primaryKey;size:36" json:"id"`
	Entities   string         `gorm:"column:entities" json:"entities"`
	DryRun     bool           `gorm:"column:dry_run" json:"dry_run"`
	Status     string         `gorm:"column:status;size:16;index" json:"status"`
	Account    string         `gorm:"column:account" json:"account"`
	Created    int            `gorm:"column:created" json:"created"`
	Updated    int            `gorm:"column:updated" json:"updated"`
	Unchanged  int            `gorm:"column:unchanged" json:"unchanged"`
	Ignored    int            `gorm:"column:ignored" json:"ignored"`
	Failed     int            `gorm:"column:failed" json:"failed"`
	Summary    datatypes.JSON `gorm:"column:summary" json:"summary"`
	Error      string         `gorm:"column:error" json:"error,omitempty"`
	ArchiveKey string         `gorm:"column:archive_key" json:"archive_key,omitempty"`
	StartedAt  time.Time      `gorm:"column:started_at" json:"started_at"`
	FinishedAt *time.Time     `gorm:"column:finished_at" json:"finished_at"`
	CriadoEm   time.Time      `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`
}

// TableName overrides the table name.
func (SyncRun) TableName() string {
	return "sync_runs"
}
