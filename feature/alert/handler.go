package alert

import (
	"inventory-guard/core/activity"
	"inventory-guard/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes the activity state.
type Handler struct {
	status activity.StatusReader
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(status activity.StatusReader, logger *zap.Logger) *Handler {
	return &Handler{status: status, logger: logger}
}

// RegisterRoutes registers the activity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/activity", h.HandleStatus)
}

// HandleStatus returns whether the sale is running or paused.
// @Summary Activity State
// @Tags alert
// @Produce json
// @Success 200 {object} activity.Status "Activity State"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /activity [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	status, err := h.status.Status(c.UserContext())
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Failed to read activity state", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(status)
}
