package ports

import (
	"context"
	"errors"

	"shipment-reconciler/internal/features/shipments/domain"
)

var (
	// ErrPersistence wraps any failed statement against the store.
	ErrPersistence = errors.New("persistence failure")
	// ErrShipmentNotFound is returned when no record set holds the order number.
	ErrShipmentNotFound = errors.New("shipment not found")
)

// ShipmentRepository is the relational store holding the active and terminal record sets.
type ShipmentRepository interface {
	// ListActive returns every active record in insertion order.
	ListActive(ctx context.Context) ([]domain.ShipmentRecord, error)
	// Get returns a record and the set holding it.
	Get(ctx context.Context, orderNumber string) (*domain.ShipmentRecord, domain.RecordSet, error)
	// Apply updates an active record and, when target is terminal, moves it there, as one unit of work.
	Apply(ctx context.Context, orderNumber string, updates domain.Updates, target domain.RecordSet) error
	// Upsert inserts a new active record or supersedes the fields of an existing one.
	Upsert(ctx context.Context, record domain.ShipmentRecord) (domain.UpsertResult, error)
}

// IngestionService loads shipment batches.
type IngestionService interface {
	IngestBatch(ctx context.Context, entries []domain.BatchEntry) (*domain.IngestReport, error)
	GetShipment(ctx context.Context, orderNumber string) (*domain.ShipmentView, error)
}
