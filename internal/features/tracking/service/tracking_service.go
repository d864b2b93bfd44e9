package service

import (
	"context"
	"errors"
	"fmt"

	"shipment-reconciler/internal/features/tracking/domain"
	"shipment-reconciler/internal/features/tracking/ports"
)

var (
	// ErrCarrierNotSupported is returned when no adapter supports the requested carrier.
	ErrCarrierNotSupported = errors.New("carrier not supported")
)

// TrackingService routes snapshot requests to the carrier adapter that claims the carrier.
type TrackingService struct {
	adapters []ports.CarrierAdapter
}

// NewTrackingService creates a new TrackingService with the given adapters.
func NewTrackingService(adapters []ports.CarrierAdapter) *TrackingService {
	return &TrackingService{
		adapters: adapters,
	}
}

// Snapshot fetches and normalizes the current tracking state for a tracking number and carrier.
func (s *TrackingService) Snapshot(ctx context.Context, trackingNumber, carrier string) (*domain.TrackingSnapshot, error) {
	adapter, err := s.adapterFor(carrier)
	if err != nil {
		return nil, err
	}

	raw, err := adapter.FetchPayload(ctx, trackingNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s tracking: %w", adapter.Carrier(), err)
	}

	snapshot, err := adapter.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize %s tracking: %w", adapter.Carrier(), err)
	}
	if snapshot.TrackingNumber == "" {
		snapshot.TrackingNumber = trackingNumber
	}

	return snapshot, nil
}

// Authenticate acquires tokens for every adapter that needs one.
func (s *TrackingService) Authenticate(ctx context.Context) error {
	for _, adapter := range s.adapters {
		auth, ok := adapter.(ports.Authenticator)
		if !ok {
			continue
		}
		if err := auth.Authenticate(ctx); err != nil {
			return fmt.Errorf("%s: %w", adapter.Carrier(), err)
		}
	}
	return nil
}

// Carriers lists the canonical names of the configured carriers.
func (s *TrackingService) Carriers() []string {
	names := make([]string, 0, len(s.adapters))
	for _, adapter := range s.adapters {
		names = append(names, adapter.Carrier())
	}
	return names
}

func (s *TrackingService) adapterFor(carrier string) (ports.CarrierAdapter, error) {
	for _, adapter := range s.adapters {
		if adapter.SupportsCarrier(carrier) {
			return adapter, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrCarrierNotSupported, carrier)
}
