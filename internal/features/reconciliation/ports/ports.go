package ports

import (
	"context"
	"errors"
	"time"

	"shipment-reconciler/internal/features/reconciliation/domain"
	"shipment-reconciler/internal/features/reconciliation/report"
)

var (
	// ErrPassInProgress is returned when another pass holds the pass lock.
	ErrPassInProgress = errors.New("reconciliation pass already in progress")
	// ErrNoReport is returned when no pass summary has been stored yet.
	ErrNoReport = errors.New("no reconciliation report available")
)

// PassRunner defines the primary port for running reconciliation passes.
type PassRunner interface {
	// RunPass reconciles every active shipment once, as of now.
	RunPass(ctx context.Context, now time.Time) (*report.Summary, error)
	// LatestReport returns the summary of the most recent pass.
	LatestReport(ctx context.Context) (*report.Summary, error)
}

// NotificationSink delivers summaries and per-order alerts. Failures are logged by the
// caller and never abort a pass.
type NotificationSink interface {
	Name() string
	SendSummary(ctx context.Context, summary *report.Summary) error
	SendAlert(ctx context.Context, alert domain.Alert) error
}

// PassLock guarantees at most one in-flight pass.
type PassLock interface {
	// Acquire reports whether the lock was taken.
	Acquire(ctx context.Context, owner string) (bool, error)
	Release(ctx context.Context, owner string) error
}

// ReportRepository stores the most recent pass summary.
type ReportRepository interface {
	Save(ctx context.Context, summary *report.Summary) error
	// Latest returns ErrNoReport when nothing is stored.
	Latest(ctx context.Context) (*report.Summary, error)
}
