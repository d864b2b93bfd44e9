package handler

import (
	"errors"
	"net/http"
	"time"

	"shipment-reconciler/internal/core/logger"
	"shipment-reconciler/internal/features/reconciliation/ports"
	trackdomain "shipment-reconciler/internal/features/tracking/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ReconciliationHandler handles HTTP requests that trigger and inspect reconciliation passes.
type ReconciliationHandler struct {
	runner ports.PassRunner
	now    func() time.Time
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(runner ports.PassRunner) *ReconciliationHandler {
	return &ReconciliationHandler{
		runner: runner,
		now:    time.Now,
	}
}

// RunPass handles POST /reconciliation/runs.
// @Summary Run a reconciliation pass
// @Description Reconciles every active shipment against its carrier and returns the pass summary.
// @Tags Reconciliation
// @Produce json
// @Success 200 {object} report.Summary
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /reconciliation/runs [post]
func (h *ReconciliationHandler) RunPass(c *fiber.Ctx) error {
	summary, err := h.runner.RunPass(c.UserContext(), h.now())
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrPassInProgress):
			return c.Status(http.StatusConflict).JSON(fiber.Map{
				"error": "A reconciliation pass is already running",
			})
		case errors.Is(err, trackdomain.ErrProviderAuth):
			return c.Status(http.StatusBadGateway).JSON(fiber.Map{
				"error": "Carrier authentication failed",
			})
		}
		logger.Get().Error("Reconciliation pass failed", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(http.StatusOK).JSON(summary)
}

// GetLatest handles GET /reconciliation/runs/latest.
// @Summary Get the latest pass summary
// @Tags Reconciliation
// @Produce json
// @Success 200 {object} report.Summary
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /reconciliation/runs/latest [get]
func (h *ReconciliationHandler) GetLatest(c *fiber.Ctx) error {
	summary, err := h.runner.LatestReport(c.UserContext())
	if err != nil {
		if errors.Is(err, ports.ErrNoReport) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{
				"error": "No reconciliation pass has completed yet",
			})
		}
		logger.Get().Error("Failed to get latest report", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(http.StatusOK).JSON(summary)
}
