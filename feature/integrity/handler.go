package integrity

import (
	"payment-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/archive", h.HandleArchiveCheck)
	group.Get("/provider", h.HandleProviderCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs the schema, archive and provider checks.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.UserContext()
	report := make(map[string]any)

	if schema, err := h.service.CheckSchema(); err != nil {
		report["schema"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schema
	}

	if archive, err := h.service.CheckArchive(ctx); err != nil {
		report["archive"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["archive"] = archive
	}

	if provider, err := h.service.CheckProvider(ctx); err != nil {
		report["provider"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["provider"] = provider
	}

	return c.JSON(report)
}

// HandleSchemaCheck checks and optionally fixes the local tables.
// @Summary Check Schema
// @Description Compares the local tables with the models. Optionally creates missing tables and columns.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create missing tables and columns"
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.QueryBool("fix", false)

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !report.Matched && fix {
		l.Info("Attempting to fix schema")
		if err := h.service.FixSchema(); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to fix schema",
				"details": err.Error(),
			})
		}
		if report, err = h.service.CheckSchema(); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(report)
}

// HandleArchiveCheck checks and optionally creates the archive bucket.
// @Summary Check Archive
// @Description Checks that the run report bucket exists. Optionally creates it.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create the bucket"
// @Success 200 {object} checks.ArchiveReport "Archive Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/archive [get]
func (h *Handler) HandleArchiveCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.QueryBool("fix", false)

	report, err := h.service.CheckArchive(c.UserContext())
	if err != nil {
		l.Error("Archive check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if report.Enabled && !report.Exists && fix {
		l.Info("Creating archive bucket", zap.String("bucket", report.Bucket))
		if err := h.service.FixArchive(c.UserContext()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to create bucket",
				"details": err.Error(),
			})
		}
		report.Exists = true
	}

	return c.JSON(report)
}

// HandleProviderCheck probes the provider credentials.
// @Summary Check Provider
// @Description Calls the provider account endpoint with the configured key.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.ProviderReport "Provider Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/provider [get]
func (h *Handler) HandleProviderCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckProvider(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
