package expiry

import (
	"inventory-guard/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the timeout sweep.
type Handler struct {
	runner *Runner
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(runner *Runner, logger *zap.Logger) *Handler {
	return &Handler{runner: runner, logger: logger}
}

// RegisterRoutes registers the expiry routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/expiry")
	group.Post("/sweep", h.HandleSweep)
}

// HandleSweep runs a timeout sweep now and returns its counts.
// @Summary Run Timeout Sweep
// @Description Expire unpaid orders past the grace period and release their stock.
// @Tags expiry
// @Produce json
// @Success 200 {object} SweepResult "Sweep Result"
// @Failure 500 {object} map[string]any "Sweep Failed"
// @Router /expiry/sweep [post]
func (h *Handler) HandleSweep(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	result, err := h.runner.Run(c.UserContext())
	if err != nil {
		l.Error("On-demand timeout sweep failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  err.Error(),
			"result": result,
		})
	}

	l.Info("On-demand timeout sweep completed", zap.Int("expired", result.Expired))
	return c.JSON(result)
}
