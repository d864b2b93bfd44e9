package handler

import (
	"context"
	"errors"

	"shipment-reconciler/internal/features/tracking/domain"
	"shipment-reconciler/internal/features/tracking/service"

	"github.com/gofiber/fiber/v2"
)

// SnapshotService is the tracking capability the handler depends on.
type SnapshotService interface {
	Snapshot(ctx context.Context, trackingNumber, carrier string) (*domain.TrackingSnapshot, error)
}

// TrackingHandler handles HTTP requests for tracking operations.
type TrackingHandler struct {
	trackingService SnapshotService
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(trackingService SnapshotService) *TrackingHandler {
	return &TrackingHandler{
		trackingService: trackingService,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// RayID returns the request id set by the requestid middleware.
func RayID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

// GetSnapshot godoc
// @Summary Get the classified tracking snapshot for a shipment
// @Description Fetches the carrier's current tracking state and classifies it with the carrier code tables. Does not touch stored shipments.
// @Tags tracking
// @Produce json
// @Param number path string true "Tracking Number"
// @Param carrier query string true "Carrier name (e.g., UPS, USPS)"
// @Success 200 {object} domain.TrackingSnapshot
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /tracking/{number} [get]
func (h *TrackingHandler) GetSnapshot(c *fiber.Ctx) error {
	trackingNumber := c.Params("number")
	if trackingNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "tracking number is required",
			RayID:   RayID(c),
		})
	}

	carrier := c.Query("carrier")
	if carrier == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "carrier query parameter is required",
			RayID:   RayID(c),
		})
	}

	snapshot, err := h.trackingService.Snapshot(c.UserContext(), trackingNumber, carrier)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCarrierNotSupported):
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Message: "carrier not supported",
				RayID:   RayID(c),
			})
		case errors.Is(err, domain.ErrSnapshotUnavailable):
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Message: "no tracking information available",
				RayID:   RayID(c),
			})
		case errors.Is(err, domain.ErrProviderAuth):
			return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
				Message: "carrier authentication failed",
				RayID:   RayID(c),
			})
		case errors.Is(err, domain.ErrTrackingRejected):
			return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
				Message: "carrier rejected the tracking request",
				RayID:   RayID(c),
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   RayID(c),
		})
	}

	return c.JSON(snapshot)
}
