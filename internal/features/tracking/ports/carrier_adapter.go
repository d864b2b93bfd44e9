package ports

import (
	"context"

	"shipment-reconciler/internal/features/tracking/domain"
)

// CarrierAdapter fetches and normalizes tracking data for one carrier.
type CarrierAdapter interface {
	// Carrier returns the canonical carrier name (e.g., "UPS").
	Carrier() string
	// SupportsCarrier returns true if this adapter handles the given carrier name.
	SupportsCarrier(carrierName string) bool
	// FetchPayload retrieves the raw tracking payload for a tracking number.
	FetchPayload(ctx context.Context, trackingNumber string) ([]byte, error)
	// Normalize maps a raw payload into a classified snapshot, or returns domain.ErrSnapshotUnavailable.
	Normalize(raw []byte) (*domain.TrackingSnapshot, error)
}

// Authenticator is implemented by adapters that must acquire a token before tracking.
type Authenticator interface {
	Authenticate(ctx context.Context) error
}
