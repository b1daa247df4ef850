package integrity

import (
	"payment-sync/core/storage"
	"payment-sync/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements loader.Feature for integrity checks.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new integrity feature.
func NewFeature(db *gorm.DB, models []any, client storage.Client, storageCfg storage.Config, prober checks.Prober, logger *zap.Logger) *Feature {
	svc := NewService(db, models, client, storageCfg, prober, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "integrity"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.service.db != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
