package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"shipment-reconciler/internal/core/calendar"
	"shipment-reconciler/internal/core/database"
	"shipment-reconciler/internal/core/logger"
	"shipment-reconciler/internal/features/reconciliation/adapters"
	"shipment-reconciler/internal/features/reconciliation/domain"
	"shipment-reconciler/internal/features/reconciliation/engine"
	"shipment-reconciler/internal/features/reconciliation/ports"
	"shipment-reconciler/internal/features/reconciliation/report"
	shipadapters "shipment-reconciler/internal/features/shipments/adapters"
	shipdomain "shipment-reconciler/internal/features/shipments/domain"
	shipports "shipment-reconciler/internal/features/shipments/ports"
	trackdomain "shipment-reconciler/internal/features/tracking/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func jan(day, hour int) time.Time {
	return time.Date(2024, time.January, day, hour, 0, 0, 0, time.UTC)
}

// fakeTracker serves canned snapshots keyed by tracking number.
type fakeTracker struct {
	mu        sync.Mutex
	snapshots map[string]trackdomain.TrackingSnapshot
	errs      map[string]error
	panics    map[string]bool
	authErr   error
	calls     map[string]int
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{
		snapshots: map[string]trackdomain.TrackingSnapshot{},
		errs:      map[string]error{},
		panics:    map[string]bool{},
		calls:     map[string]int{},
	}
}

func (f *fakeTracker) Snapshot(_ context.Context, trackingNumber, _ string) (*trackdomain.TrackingSnapshot, error) {
	f.mu.Lock()
	f.calls[trackingNumber]++
	snap, ok := f.snapshots[trackingNumber]
	err := f.errs[trackingNumber]
	panics := f.panics[trackingNumber]
	f.mu.Unlock()

	if panics {
		panic("malformed payload")
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, trackdomain.ErrSnapshotUnavailable
	}
	return &snap, nil
}

func (f *fakeTracker) Authenticate(context.Context) error {
	return f.authErr
}

func (f *fakeTracker) callCount(trackingNumber string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[trackingNumber]
}

// recordingSink captures everything sent to it.
type recordingSink struct {
	mu        sync.Mutex
	err       error
	summaries []*report.Summary
	alerts    []domain.Alert
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) SendSummary(_ context.Context, summary *report.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = append(s.summaries, summary)
	return s.err
}

func (s *recordingSink) SendAlert(_ context.Context, alert domain.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, alert)
	return s.err
}

// MockShipmentRepository is a mock implementation of ports.ShipmentRepository.
type MockShipmentRepository struct {
	mock.Mock
}

func (m *MockShipmentRepository) ListActive(ctx context.Context) ([]shipdomain.ShipmentRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shipdomain.ShipmentRecord), args.Error(1)
}

func (m *MockShipmentRepository) Get(ctx context.Context, orderNumber string) (*shipdomain.ShipmentRecord, shipdomain.RecordSet, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*shipdomain.ShipmentRecord), args.Get(1).(shipdomain.RecordSet), args.Error(2)
}

func (m *MockShipmentRepository) Apply(ctx context.Context, orderNumber string, updates shipdomain.Updates, target shipdomain.RecordSet) error {
	args := m.Called(ctx, orderNumber, updates, target)
	return args.Error(0)
}

func (m *MockShipmentRepository) Upsert(ctx context.Context, record shipdomain.ShipmentRecord) (shipdomain.UpsertResult, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(shipdomain.UpsertResult), args.Error(1)
}

type fixture struct {
	tracker *fakeTracker
	sink    *recordingSink
	lock    *adapters.LocalLock
	reports *adapters.MemoryReportRepository
}

func newFixture() *fixture {
	return &fixture{
		tracker: newFakeTracker(),
		sink:    &recordingSink{},
		lock:    adapters.NewLocalLock(),
		reports: adapters.NewMemoryReportRepository(),
	}
}

func (f *fixture) service(repo shipports.ShipmentRepository, workers int) *ReconciliationService {
	cal := calendar.New(calendar.NewHolidaySet())
	return NewReconciliationService(Dependencies{
		Repository: repo,
		Tracker:    f.tracker,
		Engine:     engine.New(cal, engine.DefaultThresholds()),
		Calendar:   cal,
		Sink:       f.sink,
		Lock:       f.lock,
		Reports:    f.reports,
	}, Options{Workers: workers, Location: time.UTC})
}

func newSQLiteRepo(t *testing.T) *shipadapters.SQLiteShipmentRepository {
	t.Helper()

	db, err := database.Open(context.Background(), filepath.Join(t.TempDir(), "shipments.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := shipadapters.NewSQLiteShipmentRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func seed(t *testing.T, repo *shipadapters.SQLiteShipmentRepository, records ...shipdomain.ShipmentRecord) {
	t.Helper()
	for _, r := range records {
		_, err := repo.Upsert(context.Background(), r)
		require.NoError(t, err)
	}
}

func shipment(order, tracking string) shipdomain.ShipmentRecord {
	return shipdomain.ShipmentRecord{
		OrderNumber:    order,
		CustomerName:   "Customer " + order,
		CustomerEmail:  order + "@example.com",
		TrackingNumber: tracking,
		CarrierName:    "UPS",
		ShippedDate:    jan(2, 0),
	}
}

func TestRunPass_EndToEnd(t *testing.T) {
	repo := newSQLiteRepo(t)
	f := newFixture()
	ctx := context.Background()

	seed(t, repo,
		shipment("1001", "1ZPICKUP"),
		shipment("1002", "1ZDELIVERED"),
		shipment("1003", "1ZNOTRAIL"),
		shipment("1004", "1ZBROKEN"),
		shipment("1005", "1ZMOVING"),
	)
	f.tracker.snapshots["1ZPICKUP"] = trackdomain.TrackingSnapshot{
		StatusCode:       "003",
		Description:      "Shipper created a label",
		IsAwaitingPickup: true,
		Issue:            "NOT PICKED UP BY CARRIER",
	}
	f.tracker.snapshots["1ZDELIVERED"] = trackdomain.TrackingSnapshot{
		StatusCode: "011", Description: "Delivered", Location: "Austin", ActivityDate: jan(4, 0), IsDelivered: true,
	}
	f.tracker.errs["1ZBROKEN"] = errors.New("upstream 502")
	f.tracker.snapshots["1ZMOVING"] = trackdomain.TrackingSnapshot{
		StatusCode: "005", Description: "On the Way", Location: "Louisville", ActivityDate: jan(3, 0),
	}

	summary, err := f.service(repo, 1).RunPass(ctx, jan(4, 10))
	require.NoError(t, err)

	assert.Equal(t, report.Totals{
		Processed:      5,
		Delivered:      1,
		Problem:        1,
		TrackingErrors: 1,
		Skipped:        1,
	}, summary.Totals)
	assert.Equal(t, "[TRACKING EXECUTION REPORT] 01-04-2024 Morning", summary.Subject)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "1004", summary.Errors[0].OrderNumber)

	problem := summary.Section(domain.BucketProblem)
	require.Len(t, problem.Groups, 1)
	assert.Equal(t, "003: Shipper created a label", problem.Groups[0].Code)

	rec, set, err := repo.Get(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, shipdomain.RecordSetProblemOrders, set)
	assert.True(t, rec.NotificationSent)

	rec, set, err = repo.Get(ctx, "1002")
	require.NoError(t, err)
	assert.Equal(t, shipdomain.RecordSetDelivered, set)
	assert.True(t, rec.Delivered)
	assert.Equal(t, "Austin", rec.LastLocation)

	rec, set, err = repo.Get(ctx, "1003")
	require.NoError(t, err)
	assert.Equal(t, shipdomain.RecordSetActive, set)
	assert.Empty(t, rec.StatusCode, "skipped records are not written")

	rec, _, err = repo.Get(ctx, "1005")
	require.NoError(t, err)
	assert.Equal(t, "005: On the Way", rec.StatusCode)
	assert.Equal(t, 2, rec.DaysAtLastLocation)

	require.Len(t, f.sink.alerts, 1)
	assert.Equal(t, "[NOT PICKED UP BY CARRIER] - Order #1001", f.sink.alerts[0].Subject)
	require.Len(t, f.sink.summaries, 1)
	assert.Same(t, summary, f.sink.summaries[0])

	latest, err := f.service(repo, 1).LatestReport(ctx)
	require.NoError(t, err)
	assert.Same(t, summary, latest)
}

func TestRunPass_EscalatedRecordIsNotReprocessed(t *testing.T) {
	repo := newSQLiteRepo(t)
	f := newFixture()
	ctx := context.Background()

	rec := shipment("2001", "1ZSTALLED")
	rec.LastLocation = "Louisville"
	rec.LastLocationDate = jan(8, 0)
	seed(t, repo, rec)
	f.tracker.snapshots["1ZSTALLED"] = trackdomain.TrackingSnapshot{
		StatusCode: "005", Description: "On the Way", Location: "Louisville", ActivityDate: jan(8, 0),
	}
	svc := f.service(repo, 1)

	first, err := svc.RunPass(ctx, jan(12, 15))
	require.NoError(t, err)
	stuck := first.Section(domain.BucketStuck)
	require.Len(t, stuck.Groups, 1)
	assert.Equal(t, "NO MOVEMENT FOR 5+ BUSINESS DAYS", stuck.Groups[0].Code)
	assert.Equal(t, "[NO MOVEMENT FOR 5 BUSINESS DAYS] - Order #2001", f.sink.alerts[0].Subject)

	_, set, err := repo.Get(ctx, "2001")
	require.NoError(t, err)
	assert.Equal(t, shipdomain.RecordSetProblemOrders, set)

	second, err := svc.RunPass(ctx, jan(12, 16))
	require.NoError(t, err)
	assert.Equal(t, 0, second.Totals.Processed)
	assert.Equal(t, 1, f.tracker.callCount("1ZSTALLED"))
	assert.Len(t, f.sink.alerts, 1)
}

func TestRunPass_StuckWarningGateIsPersisted(t *testing.T) {
	repo := newSQLiteRepo(t)
	f := newFixture()
	ctx := context.Background()

	rec := shipment("3001", "1ZWAIT")
	rec.LastLocation = "Louisville"
	rec.LastLocationDate = jan(8, 0)
	seed(t, repo, rec)
	f.tracker.snapshots["1ZWAIT"] = trackdomain.TrackingSnapshot{
		StatusCode: "005", Description: "On the Way", Location: "Louisville", ActivityDate: jan(8, 0),
	}
	svc := f.service(repo, 1)

	_, err := svc.RunPass(ctx, jan(10, 9))
	require.NoError(t, err)
	stored, _, err := repo.Get(ctx, "3001")
	require.NoError(t, err)
	assert.True(t, stored.NotificationSent)
	assert.Len(t, f.sink.alerts, 1)

	// afternoon run on the same day re-arms instead of warning twice
	summary, err := svc.RunPass(ctx, jan(10, 14))
	require.NoError(t, err)
	assert.Empty(t, summary.Section(domain.BucketStuck).Groups)
	stored, set, err := repo.Get(ctx, "3001")
	require.NoError(t, err)
	assert.False(t, stored.NotificationSent)
	assert.Equal(t, shipdomain.RecordSetActive, set)
	assert.Len(t, f.sink.alerts, 1)
}

func TestRunPass_LockHeld(t *testing.T) {
	f := newFixture()
	repo := new(MockShipmentRepository)
	ok, _ := f.lock.Acquire(context.Background(), "other")
	require.True(t, ok)

	_, err := f.service(repo, 1).RunPass(context.Background(), jan(10, 9))
	assert.ErrorIs(t, err, ports.ErrPassInProgress)
	repo.AssertNotCalled(t, "ListActive", mock.Anything)
}

func TestRunPass_WarnsWhenHolidaysDoNotCoverYear(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	defer logger.Replace(zap.New(core))()

	repo := new(MockShipmentRepository)
	repo.On("ListActive", mock.Anything).Return([]shipdomain.ShipmentRecord{}, nil)

	f := newFixture()
	_, err := f.service(repo, 1).RunPass(context.Background(), jan(10, 9))
	require.NoError(t, err)

	warned := logs.FilterMessageSnippet("Holiday calendar does not cover")
	require.Equal(t, 1, warned.Len())
	assert.EqualValues(t, 2024, warned.All()[0].ContextMap()["year"])

	logs.TakeAll()
	cal := calendar.New(calendar.NewHolidaySet(jan(15, 0)))
	svc := NewReconciliationService(Dependencies{
		Repository: repo,
		Tracker:    f.tracker,
		Engine:     engine.New(cal, engine.DefaultThresholds()),
		Calendar:   cal,
		Sink:       f.sink,
		Lock:       f.lock,
		Reports:    f.reports,
	}, Options{Workers: 1, Location: time.UTC})

	_, err = svc.RunPass(context.Background(), jan(10, 9))
	require.NoError(t, err)
	assert.Zero(t, logs.FilterMessageSnippet("Holiday calendar does not cover").Len())
}

func TestRunPass_LogsHoliday(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	defer logger.Replace(zap.New(core))()

	repo := new(MockShipmentRepository)
	repo.On("ListActive", mock.Anything).Return([]shipdomain.ShipmentRecord{}, nil)

	holidays := calendar.HolidaySet{}
	holidays.Add(jan(15, 0), "Martin Luther King Jr. Day")
	cal := calendar.New(holidays)
	f := newFixture()
	svc := NewReconciliationService(Dependencies{
		Repository: repo,
		Tracker:    f.tracker,
		Engine:     engine.New(cal, engine.DefaultThresholds()),
		Calendar:   cal,
		Sink:       f.sink,
		Lock:       f.lock,
		Reports:    f.reports,
	}, Options{Workers: 1, Location: time.UTC})

	_, err := svc.RunPass(context.Background(), jan(15, 9))
	require.NoError(t, err)

	entries := logs.FilterMessageSnippet("Processing on a holiday").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Martin Luther King Jr. Day", entries[0].ContextMap()["holiday"])
}

func TestRunPass_AuthFailureIsFatal(t *testing.T) {
	f := newFixture()
	f.tracker.authErr = fmt.Errorf("UPS: %w", trackdomain.ErrProviderAuth)
	repo := new(MockShipmentRepository)
	svc := f.service(repo, 1)

	_, err := svc.RunPass(context.Background(), jan(10, 9))
	assert.ErrorIs(t, err, trackdomain.ErrProviderAuth)
	repo.AssertNotCalled(t, "ListActive", mock.Anything)
	assert.Empty(t, f.sink.summaries)

	// the lock is released after a failed pass
	ok, err := f.lock.Acquire(context.Background(), "next")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRunPass_AuthFailureMidPassIsFatal(t *testing.T) {
	f := newFixture()
	repo := new(MockShipmentRepository)
	repo.On("ListActive", mock.Anything).Return([]shipdomain.ShipmentRecord{
		shipment("1", "1ZA"), shipment("2", "1ZB"),
	}, nil)
	f.tracker.errs["1ZA"] = fmt.Errorf("fetch: %w", trackdomain.ErrProviderAuth)

	_, err := f.service(repo, 1).RunPass(context.Background(), jan(10, 9))
	assert.ErrorIs(t, err, trackdomain.ErrProviderAuth)
	assert.Equal(t, 0, f.tracker.callCount("1ZB"))
	assert.Empty(t, f.sink.summaries)
}

func TestRunPass_RejectedTrackingRequestIsARecordError(t *testing.T) {
	f := newFixture()
	repo := new(MockShipmentRepository)
	repo.On("ListActive", mock.Anything).Return([]shipdomain.ShipmentRecord{
		shipment("1", "1ZRESTRICTED"), shipment("2", "1ZOK"),
	}, nil)
	f.tracker.errs["1ZRESTRICTED"] = fmt.Errorf("UPS: %w: carrier returned 403", trackdomain.ErrTrackingRejected)
	f.tracker.snapshots["1ZOK"] = trackdomain.TrackingSnapshot{StatusCode: "005", Description: "On the Way", Location: "Reno"}
	repo.On("Apply", mock.Anything, "2", mock.Anything, shipdomain.RecordSet("")).Return(nil)

	summary, err := f.service(repo, 1).RunPass(context.Background(), jan(10, 9))
	require.NoError(t, err)

	assert.Equal(t, 1, f.tracker.callCount("1ZOK"))
	assert.Equal(t, 2, summary.Totals.Processed)
	assert.Equal(t, 1, summary.Totals.TrackingErrors)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "1", summary.Errors[0].OrderNumber)
	require.Len(t, f.sink.summaries, 1)
	repo.AssertExpectations(t)
}

func TestRunPass_PickupAgingAcrossPasses(t *testing.T) {
	repo := newSQLiteRepo(t)
	f := newFixture()
	ctx := context.Background()
	svc := f.service(repo, 1)

	seed(t, repo, shipment("1001", "1ZPICKUP"))
	f.tracker.snapshots["1ZPICKUP"] = trackdomain.TrackingSnapshot{
		StatusCode:       "003",
		Description:      "Shipper created a label",
		IsAwaitingPickup: true,
		Issue:            "NOT PICKED UP BY CARRIER",
	}

	for _, day := range []int{2, 3} {
		summary, err := svc.RunPass(ctx, jan(day, 9))
		require.NoError(t, err)
		assert.Zero(t, summary.Totals.Problem, "Jan %d", day)
		assert.Zero(t, summary.Totals.Alerts, "Jan %d", day)
	}

	summary, err := svc.RunPass(ctx, jan(4, 9))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Totals.Problem)

	_, set, err := repo.Get(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, shipdomain.RecordSetProblemOrders, set)

	require.Len(t, f.sink.alerts, 1)
	assert.Equal(t, "[NOT PICKED UP BY CARRIER] - Order #1001", f.sink.alerts[0].Subject)
}

func TestRunPass_ListFailureIsFatal(t *testing.T) {
	f := newFixture()
	repo := new(MockShipmentRepository)
	repo.On("ListActive", mock.Anything).Return(nil, errors.New("database is locked"))

	_, err := f.service(repo, 1).RunPass(context.Background(), jan(10, 9))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list active shipments")
}

func TestRunPass_PersistenceFailureIsARecordError(t *testing.T) {
	f := newFixture()
	repo := new(MockShipmentRepository)
	repo.On("ListActive", mock.Anything).Return([]shipdomain.ShipmentRecord{
		shipment("1", "1ZA"), shipment("2", "1ZB"),
	}, nil)
	problem := trackdomain.TrackingSnapshot{StatusCode: "017", Description: "Returned", IsProblem: true}
	f.tracker.snapshots["1ZA"] = problem
	f.tracker.snapshots["1ZB"] = problem
	repo.On("Apply", mock.Anything, "1", mock.Anything, shipdomain.RecordSetProblemOrders).
		Return(errors.New("persistence failure: disk I/O error"))
	repo.On("Apply", mock.Anything, "2", mock.Anything, shipdomain.RecordSetProblemOrders).Return(nil)

	summary, err := f.service(repo, 1).RunPass(context.Background(), jan(10, 9))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Totals.TrackingErrors)
	assert.Equal(t, 1, summary.Totals.Problem)
	require.Len(t, f.sink.alerts, 1, "no alert for a record whose outcome was not stored")
	assert.Equal(t, "2", f.sink.alerts[0].OrderNumber)
	repo.AssertExpectations(t)
}

func TestRunPass_SinkFailureDoesNotFailPass(t *testing.T) {
	f := newFixture()
	f.sink.err = errors.New("smtp down")
	repo := new(MockShipmentRepository)
	repo.On("ListActive", mock.Anything).Return([]shipdomain.ShipmentRecord{shipment("1", "1ZA")}, nil)
	f.tracker.snapshots["1ZA"] = trackdomain.TrackingSnapshot{StatusCode: "017", Description: "Returned", IsProblem: true}
	repo.On("Apply", mock.Anything, "1", mock.Anything, shipdomain.RecordSetProblemOrders).Return(nil)

	summary, err := f.service(repo, 1).RunPass(context.Background(), jan(10, 9))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Totals.Problem)

	latest, err := f.reports.Latest(context.Background())
	require.NoError(t, err)
	assert.Same(t, summary, latest)
}

func TestRunPass_RecoversFromPanic(t *testing.T) {
	f := newFixture()
	repo := new(MockShipmentRepository)
	repo.On("ListActive", mock.Anything).Return([]shipdomain.ShipmentRecord{
		shipment("1", "1ZPANIC"), shipment("2", "1ZOK"),
	}, nil)
	f.tracker.panics["1ZPANIC"] = true
	f.tracker.snapshots["1ZOK"] = trackdomain.TrackingSnapshot{StatusCode: "005", Location: "Reno"}
	repo.On("Apply", mock.Anything, "2", mock.Anything, shipdomain.RecordSet("")).Return(nil)

	summary, err := f.service(repo, 1).RunPass(context.Background(), jan(10, 9))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Totals.Processed)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0].Reason, "malformed payload")
}

func TestRunPass_ParallelMatchesSequential(t *testing.T) {
	defer goleak.VerifyNone(t)

	var records []shipdomain.ShipmentRecord
	tracker := newFakeTracker()
	for i := 0; i < 40; i++ {
		order := fmt.Sprintf("%04d", i)
		tn := "1Z" + order
		records = append(records, shipment(order, tn))
		switch i % 4 {
		case 0:
			tracker.snapshots[tn] = trackdomain.TrackingSnapshot{StatusCode: "011", Description: "Delivered", IsDelivered: true}
		case 1:
			tracker.snapshots[tn] = trackdomain.TrackingSnapshot{
				StatusCode: fmt.Sprintf("0%d", i%3), Description: "Exception", IsProblem: true,
			}
		case 2:
			tracker.errs[tn] = errors.New("timeout")
		}
	}

	run := func(workers int) *report.Summary {
		f := newFixture()
		f.tracker = tracker
		repo := new(MockShipmentRepository)
		repo.On("ListActive", mock.Anything).Return(records, nil)
		repo.On("Apply", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		summary, err := f.service(repo, workers).RunPass(context.Background(), jan(10, 9))
		require.NoError(t, err)
		return summary
	}

	sequential := run(1)
	parallel := run(8)

	assert.Equal(t, sequential.Totals, parallel.Totals)
	assert.Equal(t, sequential.Sections, parallel.Sections)
	assert.Equal(t, sequential.Errors, parallel.Errors)
	assert.Equal(t, 40, parallel.Totals.Processed)
	assert.Equal(t, 10, parallel.Totals.Delivered)
	assert.Equal(t, 10, parallel.Totals.TrackingErrors)
	assert.Equal(t, 10, parallel.Totals.Skipped)
}

func TestRunPass_ParallelAbortsOnAuthFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFixture()
	var records []shipdomain.ShipmentRecord
	for i := 0; i < 10; i++ {
		tn := fmt.Sprintf("1Z%02d", i)
		records = append(records, shipment(fmt.Sprint(i), tn))
		f.tracker.errs[tn] = trackdomain.ErrProviderAuth
	}
	repo := new(MockShipmentRepository)
	repo.On("ListActive", mock.Anything).Return(records, nil)

	_, err := f.service(repo, 4).RunPass(context.Background(), jan(10, 9))
	assert.ErrorIs(t, err, trackdomain.ErrProviderAuth)
	assert.Empty(t, f.sink.summaries)
}
