package reconcile

import (
	"errors"

	"inventory-guard/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for reconciliation.
type Handler struct {
	runner *Runner
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(runner *Runner, logger *zap.Logger) *Handler {
	return &Handler{runner: runner, logger: logger}
}

// RegisterRoutes registers the reconciliation routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/reconcile")
	group.Post("/run", h.HandleRun)
	group.Get("/last", h.HandleLast)
}

// HandleRun runs a full reconciliation now.
// @Summary Run Reconciliation
// @Description Compare live stock with the ledger for every active product.
// @Tags reconcile
// @Produce json
// @Success 200 {object} Report "Reconciliation Report"
// @Failure 503 {object} map[string]string "Reconciliation could not complete"
// @Router /reconcile/run [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	report, err := h.runner.RunFullReconciliation(c.UserContext())
	if err != nil {
		status := fiber.StatusInternalServerError
		var execErr *ExecutionError
		if errors.As(err, &execErr) {
			status = fiber.StatusServiceUnavailable
		}
		l.Error("On-demand reconciliation failed", zap.Error(err))
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	l.Info("On-demand reconciliation completed",
		zap.String("report_id", report.ID),
		zap.Int("failed_skus", report.FailedSkus))
	return c.JSON(report)
}

// HandleLast returns the most recent report.
// @Summary Last Reconciliation Report
// @Tags reconcile
// @Produce json
// @Success 200 {object} Report "Reconciliation Report"
// @Failure 404 {object} map[string]string "No report yet"
// @Router /reconcile/last [get]
func (h *Handler) HandleLast(c *fiber.Ctx) error {
	report := h.runner.LastReport()
	if report == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no reconciliation has completed yet",
		})
	}
	return c.JSON(report)
}
