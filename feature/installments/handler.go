package installments

import (
	"errors"

	"payment-sync/core/asaas"
	"payment-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for installment plans.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the installment routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/installments")
	group.Get("/:id/status", h.HandleGetStatus)
}

// HandleGetStatus classifies the charges of an installment plan.
// @Summary Get Installment Status
// @Description Classify every charge of an installment plan as paid, overdue or open.
// @Tags installments
// @Produce json
// @Param id path string true "Installment ID"
// @Success 200 {object} installments.StatusReport "Installment status"
// @Failure 404 {object} map[string]string "Installment not found"
// @Failure 502 {object} map[string]string "Provider error"
// @Router /installments/{id}/status [get]
func (h *Handler) HandleGetStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.Status(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, asaas.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "installment not found",
			})
		}
		l.Error("Installment status failed", zap.String("installment", id), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}
