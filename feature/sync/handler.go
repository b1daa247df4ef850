package sync

import (
	"errors"

	"payment-sync/core/logger"
	"payment-sync/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for sync runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Post("/:entity", h.HandleTrigger)
	group.Get("/runs/:id", h.HandleGetRun)
	group.Get("/runs/:id/report", h.HandleGetReport)

	app.Get("/ratelimit", h.HandleGetRateLimit)
}

// HandleTrigger starts a sync run in the background.
// @Summary Trigger Sync
// @Description Start a sync run for one entity or all of them.
// @Tags sync
// @Produce json
// @Param entity path string true "customers, charges, installments or all"
// @Param dry_run query bool false "Compute diffs without writing"
// @Success 202 {object} map[string]string "Run ID"
// @Failure 400 {object} map[string]string "Unknown entity"
// @Failure 409 {object} map[string]string "Run in progress"
// @Router /sync/{entity} [post]
func (h *Handler) HandleTrigger(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	entities, err := ParseEntities(c.Params("entity"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	id, err := h.service.Trigger(c.UserContext(), entities, c.QueryBool("dry_run", false))
	if errors.Is(err, ErrRunInProgress) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":  err.Error(),
			"run_id": id,
		})
	}
	if err != nil {
		l.Error("Failed to trigger sync", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	l.Info("Sync triggered", zap.String("run_id", id), zap.String("entities", JoinEntities(entities)))
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"run_id": id,
	})
}

// HandleGetRun returns the history of a run.
// @Summary Get Sync Run
// @Description Get the status and counts of a sync run.
// @Tags sync
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} models.SyncRun "Run"
// @Failure 404 {object} map[string]string "Not found"
// @Router /sync/runs/{id} [get]
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	run, found, err := h.service.Run(c.UserContext(), c.Params("id"))
	if err != nil {
		l.Error("Failed to load sync run", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "run not found",
		})
	}
	return c.JSON(run)
}

// HandleGetReport returns the archived report of a run, diffs included.
// @Summary Get Sync Report
// @Description Get the archived report of a finished sync run.
// @Tags sync
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} sync.Result "Report"
// @Failure 404 {object} map[string]string "Not archived"
// @Router /sync/runs/{id}/report [get]
func (h *Handler) HandleGetReport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	res, err := h.service.Report(c.UserContext(), c.Params("id"))
	if errors.Is(err, ErrNoArchive) || errors.Is(err, storage.ErrObjectNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "report not archived",
		})
	}
	if err != nil {
		l.Error("Failed to load sync report", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(res)
}

// HandleGetRateLimit returns the governor state.
// @Summary Get Rate Limit
// @Description Get the last observed provider call budget.
// @Tags sync
// @Produce json
// @Success 200 {object} ratelimit.State "Budget"
// @Router /ratelimit [get]
func (h *Handler) HandleGetRateLimit(c *fiber.Ctx) error {
	state, ok := h.service.RateLimit()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "governor not configured",
		})
	}
	return c.JSON(fiber.Map{
		"state":       state,
		"running_run": h.service.Current(),
	})
}
