package adapters

import (
	"context"
	"errors"
	"fmt"

	"shipment-reconciler/internal/features/reconciliation/domain"
	"shipment-reconciler/internal/features/reconciliation/ports"
	"shipment-reconciler/internal/features/reconciliation/report"
)

// MultiSink fans out to every configured sink. A failing sink does not stop the others.
type MultiSink struct {
	sinks []ports.NotificationSink
}

// NewMultiSink creates a MultiSink.
func NewMultiSink(sinks ...ports.NotificationSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Name identifies the sink in logs.
func (m *MultiSink) Name() string {
	return "multi"
}

// SendSummary sends to every sink and joins the failures.
func (m *MultiSink) SendSummary(ctx context.Context, summary *report.Summary) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.SendSummary(ctx, summary); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// SendAlert sends to every sink and joins the failures.
func (m *MultiSink) SendAlert(ctx context.Context, alert domain.Alert) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.SendAlert(ctx, alert); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}
