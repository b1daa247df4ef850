package installments

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements loader.Feature for installment plans.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the installment feature.
func NewFeature(source Source, pageSize int, logger *zap.Logger) *Feature {
	svc := NewService(source, pageSize, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "installments"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.service.source != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
