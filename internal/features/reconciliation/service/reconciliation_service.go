package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shipment-reconciler/internal/core/calendar"
	"shipment-reconciler/internal/core/logger"
	"shipment-reconciler/internal/features/reconciliation/domain"
	"shipment-reconciler/internal/features/reconciliation/engine"
	"shipment-reconciler/internal/features/reconciliation/ports"
	"shipment-reconciler/internal/features/reconciliation/report"
	shipdomain "shipment-reconciler/internal/features/shipments/domain"
	shipports "shipment-reconciler/internal/features/shipments/ports"
	trackdomain "shipment-reconciler/internal/features/tracking/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SnapshotSource fetches normalized tracking snapshots from the carriers.
type SnapshotSource interface {
	Snapshot(ctx context.Context, trackingNumber, carrier string) (*trackdomain.TrackingSnapshot, error)
	Authenticate(ctx context.Context) error
}

// Dependencies are the collaborators of a reconciliation pass.
type Dependencies struct {
	Repository shipports.ShipmentRepository
	Tracker    SnapshotSource
	Engine     *engine.Engine
	Calendar   *calendar.Calendar
	Sink       ports.NotificationSink
	Lock       ports.PassLock
	Reports    ports.ReportRepository
}

// Options tune a pass.
type Options struct {
	// Workers bounds concurrent record processing. Values below 2 run sequentially.
	Workers int
	// Location is the timezone the processing date is taken in.
	Location *time.Location
}

// ReconciliationService runs reconciliation passes over the active set.
type ReconciliationService struct {
	deps     Dependencies
	workers  int
	location *time.Location
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(deps Dependencies, opts Options) *ReconciliationService {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &ReconciliationService{
		deps:     deps,
		workers:  opts.Workers,
		location: loc,
	}
}

// recordResult is what processing one record contributes to the report.
type recordResult struct {
	outcome domain.Outcome
	skipped bool
	err     error
}

// RunPass reconciles every active shipment once as of now.
//
// Per-record failures are collected into the summary. The pass fails as a whole only when
// the lock is held elsewhere, carrier authentication fails, or the active set cannot be read.
func (s *ReconciliationService) RunPass(ctx context.Context, now time.Time) (*report.Summary, error) {
	runID := uuid.NewString()
	log := logger.ForRun(runID)

	acquired, err := s.deps.Lock.Acquire(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ports.ErrPassInProgress
	}
	defer func() {
		if err := s.deps.Lock.Release(context.WithoutCancel(ctx), runID); err != nil {
			log.Warn("Failed to release pass lock", zap.Error(err))
		}
	}()

	now = now.In(s.location)
	today := calendar.DateOf(now)
	if !s.deps.Calendar.Covers(today.Year()) {
		log.Warn("Holiday calendar does not cover the processing year; only weekends are excluded",
			zap.Int("year", today.Year()))
	}
	if name, ok := s.deps.Calendar.Holiday(today); ok {
		log.Info("Processing on a holiday; today does not count as a business day",
			zap.String("holiday", name))
	}

	if err := s.deps.Tracker.Authenticate(ctx); err != nil {
		log.Error("Carrier authentication failed, aborting pass", zap.Error(err))
		return nil, err
	}

	records, err := s.deps.Repository.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active shipments: %w", err)
	}
	log.Info("Reconciliation pass started",
		zap.Int("records", len(records)),
		zap.String("today", calendar.FormatDate(today)),
		zap.Int("workers", s.workers),
	)

	results, err := s.processAll(ctx, log, records, today)
	if err != nil {
		log.Error("Reconciliation pass aborted", zap.Error(err))
		return nil, err
	}

	agg := report.NewAggregator()
	for i, r := range results {
		switch {
		case r.skipped:
			agg.AddSkipped(records[i])
		case r.err != nil:
			agg.AddError(records[i], r.err)
		default:
			agg.Add(r.outcome)
		}
	}
	summary := agg.Summary(runID, now)

	if err := s.deps.Sink.SendSummary(ctx, summary); err != nil {
		log.Error("Failed to send pass summary", zap.String("sink", s.deps.Sink.Name()), zap.Error(err))
	}
	if err := s.deps.Reports.Save(ctx, summary); err != nil {
		log.Warn("Failed to store pass summary", zap.Error(err))
	}

	log.Info("Reconciliation pass finished",
		zap.Int("processed", summary.Totals.Processed),
		zap.Int("delivered", summary.Totals.Delivered),
		zap.Int("problem", summary.Totals.Problem),
		zap.Int("alerts", summary.Totals.Alerts),
		zap.Int("tracking_errors", summary.Totals.TrackingErrors),
		zap.Int("skipped", summary.Totals.Skipped),
	)
	return summary, nil
}

// LatestReport returns the summary of the most recent pass.
func (s *ReconciliationService) LatestReport(ctx context.Context) (*report.Summary, error) {
	return s.deps.Reports.Latest(ctx)
}

// processAll reconciles records into an index-aligned result slice so the report keeps
// record order regardless of worker count.
func (s *ReconciliationService) processAll(ctx context.Context, log *zap.Logger, records []shipdomain.ShipmentRecord, today time.Time) ([]recordResult, error) {
	results := make([]recordResult, len(records))

	if s.workers < 2 {
		for i, rec := range records {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = s.processRecord(ctx, log, rec, today)
			if fatal(results[i].err) {
				return nil, results[i].err
			}
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, rec := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.processRecord(gctx, log, rec, today)
			if fatal(results[i].err) {
				return results[i].err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// processRecord runs snapshot, engine, persistence and alerting for one record.
func (s *ReconciliationService) processRecord(ctx context.Context, log *zap.Logger, rec shipdomain.ShipmentRecord, today time.Time) (res recordResult) {
	log = log.With(
		zap.String("order_number", rec.OrderNumber),
		zap.String("tracking_number", rec.TrackingNumber),
		zap.String("carrier", rec.CarrierName),
	)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Recovered from panic while reconciling", zap.Any("panic", r))
			res = recordResult{err: fmt.Errorf("panic: %v", r)}
		}
	}()

	snap, err := s.deps.Tracker.Snapshot(ctx, rec.TrackingNumber, rec.CarrierName)
	switch {
	case errors.Is(err, trackdomain.ErrSnapshotUnavailable):
		log.Info("No tracking trail yet, skipping")
		return recordResult{skipped: true}
	case err != nil:
		log.Warn("Failed to get tracking snapshot", zap.Error(err))
		return recordResult{err: err}
	}

	outcome := s.deps.Engine.Reconcile(rec, *snap, today)

	if err := s.deps.Repository.Apply(ctx, rec.OrderNumber, outcome.Updates, outcome.Migration); err != nil {
		log.Error("Failed to apply reconciliation outcome",
			zap.String("classification", string(outcome.Classification)), zap.Error(err))
		return recordResult{err: err}
	}

	log.Debug("Shipment reconciled",
		zap.String("classification", string(outcome.Classification)),
		zap.String("status", outcome.Record.StatusCode),
		zap.Int("days_at_location", outcome.Record.DaysAtLastLocation),
		zap.String("migration", string(outcome.Migration)),
	)

	if outcome.Notify {
		alert := domain.NewAlert(outcome)
		if err := s.deps.Sink.SendAlert(ctx, alert); err != nil {
			log.Error("Failed to send order alert", zap.String("subject", alert.Subject), zap.Error(err))
		}
	}

	return recordResult{outcome: outcome}
}

// fatal reports whether a record error aborts the whole pass.
func fatal(err error) bool {
	return errors.Is(err, trackdomain.ErrProviderAuth)
}
