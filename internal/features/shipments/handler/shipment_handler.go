package handler

import (
	"errors"
	"net/http"

	"shipment-reconciler/internal/core/logger"
	"shipment-reconciler/internal/features/shipments/domain"
	"shipment-reconciler/internal/features/shipments/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ShipmentHandler handles HTTP requests for shipment ingestion and lookup.
type ShipmentHandler struct {
	service ports.IngestionService
}

// NewShipmentHandler creates a new ShipmentHandler.
func NewShipmentHandler(service ports.IngestionService) *ShipmentHandler {
	return &ShipmentHandler{
		service: service,
	}
}

// IngestBatch handles POST /shipments/batch.
// @Summary Ingest a shipment batch
// @Description Upserts shipments by order number. An entry whose tracking number matches the stored one is left unchanged.
// @Tags Shipments
// @Accept json
// @Produce json
// @Param batch body domain.Batch true "Shipment batch"
// @Success 200 {object} domain.IngestReport
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /shipments/batch [post]
func (h *ShipmentHandler) IngestBatch(c *fiber.Ctx) error {
	var batch domain.Batch
	if err := c.BodyParser(&batch); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	report, err := h.service.IngestBatch(c.UserContext(), batch.DatabaseEntries)
	if err != nil {
		logger.Get().Error("Failed to ingest batch", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(http.StatusOK).JSON(report)
}

// GetShipment handles GET /shipments/:orderNumber.
// @Summary Get a shipment
// @Description Returns a shipment and the record set (active, delivered, problem_orders) holding it.
// @Tags Shipments
// @Produce json
// @Param orderNumber path string true "Order number"
// @Success 200 {object} domain.ShipmentView
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /shipments/{orderNumber} [get]
func (h *ShipmentHandler) GetShipment(c *fiber.Ctx) error {
	view, err := h.service.GetShipment(c.UserContext(), c.Params("orderNumber"))
	if err != nil {
		if errors.Is(err, ports.ErrShipmentNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{
				"error": "Shipment not found",
			})
		}
		logger.Get().Error("Failed to get shipment", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(http.StatusOK).JSON(view)
}
