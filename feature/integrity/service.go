package integrity

import (
	"context"

	"payment-sync/core/storage"
	"payment-sync/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	db      *gorm.DB
	models  []any
	client  storage.Client
	storage storage.Config
	prober  checks.Prober
	logger  *zap.Logger
}

// NewService creates a new integrity service. client is nil when archiving is
// disabled.
func NewService(db *gorm.DB, models []any, client storage.Client, storageCfg storage.Config, prober checks.Prober, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:      db,
		models:  models,
		client:  client,
		storage: storageCfg,
		prober:  prober,
		logger:  logger,
	}
}

// CheckSchema compares the live tables with the models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, s.models...)
}

// FixSchema creates missing tables and columns.
func (s *Service) FixSchema() error {
	return checks.FixSchema(s.db, s.models...)
}

// CheckArchive reports the state of the archive bucket.
func (s *Service) CheckArchive(ctx context.Context) (*checks.ArchiveReport, error) {
	return checks.CheckArchive(ctx, s.client, s.storage.Bucket)
}

// FixArchive creates the archive bucket.
func (s *Service) FixArchive(ctx context.Context) error {
	return checks.FixArchive(ctx, s.client, s.storage.Bucket, s.storage.Region)
}

// CheckProvider probes the provider credentials.
func (s *Service) CheckProvider(ctx context.Context) (*checks.ProviderReport, error) {
	return checks.CheckProvider(ctx, s.prober)
}
