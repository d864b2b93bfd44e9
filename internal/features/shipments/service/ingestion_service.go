package service

import (
	"context"
	"fmt"

	"shipment-reconciler/internal/core/logger"
	"shipment-reconciler/internal/features/shipments/domain"
	"shipment-reconciler/internal/features/shipments/ports"

	"go.uber.org/zap"
)

// IngestionService loads shipment batches into the store.
type IngestionService struct {
	repo ports.ShipmentRepository
}

// NewIngestionService creates a new IngestionService.
func NewIngestionService(repo ports.ShipmentRepository) *IngestionService {
	return &IngestionService{
		repo: repo,
	}
}

// IngestBatch upserts every entry in order. A bad entry is counted and logged and does not
// stop the batch. An empty batch is a no-op.
func (s *IngestionService) IngestBatch(ctx context.Context, entries []domain.BatchEntry) (*domain.IngestReport, error) {
	l := logger.Get()
	report := &domain.IngestReport{Received: len(entries)}

	if len(entries) == 0 {
		l.Info("Database entries list empty; nothing to ingest")
		return report, nil
	}

	l.Info("Ingesting shipment batch", zap.Int("entries", len(entries)))

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		record, err := entry.ToRecord()
		if err != nil {
			s.fail(report, i, err)
			continue
		}

		result, err := s.repo.Upsert(ctx, record)
		if err != nil {
			s.fail(report, i, err)
			continue
		}

		switch result {
		case domain.UpsertInserted:
			report.Inserted++
		case domain.UpsertUpdated:
			report.Updated++
		case domain.UpsertUnchanged:
			report.Unchanged++
		}

		l.Debug("Batch entry processed",
			zap.Int("position", i+1),
			zap.String("order_number", record.OrderNumber),
			zap.String("result", string(result)),
		)
	}

	l.Info("Shipment batch ingested",
		zap.Int("inserted", report.Inserted),
		zap.Int("updated", report.Updated),
		zap.Int("unchanged", report.Unchanged),
		zap.Int("failed", report.Failed),
	)

	return report, nil
}

// GetShipment returns a record and the set holding it.
func (s *IngestionService) GetShipment(ctx context.Context, orderNumber string) (*domain.ShipmentView, error) {
	rec, set, err := s.repo.Get(ctx, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get shipment: %w", err)
	}
	return &domain.ShipmentView{ShipmentRecord: *rec, RecordSet: set}, nil
}

func (s *IngestionService) fail(report *domain.IngestReport, position int, err error) {
	report.Failed++
	report.Errors = append(report.Errors, fmt.Sprintf("entry %d: %v", position+1, err))
	logger.Get().Warn("Batch entry rejected", zap.Int("position", position+1), zap.Error(err))
}
