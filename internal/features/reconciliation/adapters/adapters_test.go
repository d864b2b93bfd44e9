package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"shipment-reconciler/internal/core/cache"
	"shipment-reconciler/internal/features/reconciliation/domain"
	"shipment-reconciler/internal/features/reconciliation/report"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*cache.RedisAdapter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	c, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return c, mr
}

func testSummary() *report.Summary {
	a := report.NewAggregator()
	a.Add(domain.Outcome{
		Classification: domain.ClassificationProblemImmediate,
		Notify:         true,
		GroupCode:      "017: Returned to sender",
	})
	return a.Summary("run-1", time.Date(2024, 1, 10, 14, 5, 0, 0, time.UTC))
}

func testAlert() domain.Alert {
	return domain.Alert{
		Subject:        "[RETURNED TO SENDER] - Order #1001",
		Classification: domain.ClassificationProblemImmediate,
		OrderNumber:    "1001",
		CustomerName:   "Ada Lovelace",
		CustomerEmail:  "ada@example.com",
		TrackingNumber: "1Z999AA10123456784",
		CarrierName:    "UPS",
		ShippedDate:    "2024-01-02",
		StatusEntry:    "017: Returned to sender",
	}
}

type stubSink struct {
	name      string
	err       error
	summaries int
	alerts    int
}

func (s *stubSink) Name() string { return s.name }

func (s *stubSink) SendSummary(context.Context, *report.Summary) error {
	s.summaries++
	return s.err
}

func (s *stubSink) SendAlert(context.Context, domain.Alert) error {
	s.alerts++
	return s.err
}

var errSinkDown = errors.New("sink down")
