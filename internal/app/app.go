// Package app wires configuration into the reconciler's services and exposes the single
// trigger entry point shared by the CLI, the HTTP server and the scheduler.
package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shipment-reconciler/internal/core/cache"
	"shipment-reconciler/internal/core/calendar"
	"shipment-reconciler/internal/core/config"
	"shipment-reconciler/internal/core/database"
	"shipment-reconciler/internal/core/httpclient"
	"shipment-reconciler/internal/core/logger"
	"shipment-reconciler/internal/core/proxy"
	recadapters "shipment-reconciler/internal/features/reconciliation/adapters"
	"shipment-reconciler/internal/features/reconciliation/engine"
	recports "shipment-reconciler/internal/features/reconciliation/ports"
	"shipment-reconciler/internal/features/reconciliation/report"
	recservice "shipment-reconciler/internal/features/reconciliation/service"
	shipadapters "shipment-reconciler/internal/features/shipments/adapters"
	shipdomain "shipment-reconciler/internal/features/shipments/domain"
	shipservice "shipment-reconciler/internal/features/shipments/service"
	trackadapters "shipment-reconciler/internal/features/tracking/adapters"
	trackports "shipment-reconciler/internal/features/tracking/ports"
	trackservice "shipment-reconciler/internal/features/tracking/service"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// App holds the wired services.
type App struct {
	Config     *config.AppConfig
	Location   *time.Location
	Ingestion  *shipservice.IngestionService
	Tracking   *trackservice.TrackingService
	Reconciler *recservice.ReconciliationService

	db    *sql.DB
	cache cache.Cache
}

// TriggerResult is what one trigger invocation produced. Exactly one field is set.
type TriggerResult struct {
	Ingest  *shipdomain.IngestReport `json:"ingest,omitempty"`
	Summary *report.Summary          `json:"summary,omitempty"`
}

// New opens the store and cache and wires every feature from cfg.
func New(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	l := logger.Get()

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	holidays, err := calendar.LoadHolidays(cfg.Reconcile.HolidaysPath)
	if err != nil {
		return nil, err
	}
	codes, err := trackadapters.LoadCodeTables(cfg.Reconcile.CarrierCodesPath)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(ctx, cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	repo := shipadapters.NewSQLiteShipmentRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Location: loc,
		db:       db,
	}

	var lock recports.PassLock = recadapters.NewLocalLock()
	var reports recports.ReportRepository = recadapters.NewMemoryReportRepository()
	if cfg.Redis.URL != "" {
		rc, err := cache.NewRedisAdapter(cfg.Redis.URL)
		if err != nil {
			db.Close()
			return nil, err
		}
		if err := rc.Ping(ctx); err != nil {
			l.Warn("Redis unreachable, continuing without shared cache", zap.Error(err))
			rc.Close()
		} else {
			a.cache = rc
			lock = recadapters.NewCacheLock(rc, time.Duration(cfg.Reconcile.LockTTLSeconds)*time.Second)
			reports = recadapters.NewRedisReportRepository(rc, time.Duration(cfg.Reporting.ReportTTLHours)*time.Hour)
		}
	}

	client := httpclient.NewClient(time.Duration(cfg.Reconcile.HTTPTimeoutSeconds)*time.Second, proxy.FromConfig(cfg.Proxy))

	carriers := []trackports.CarrierAdapter{
		trackadapters.NewUPSAdapter(cfg.UPS, codes[trackadapters.UPSCarrier], client, a.cache),
	}
	if cfg.USPS.Enabled() {
		carriers = append(carriers, trackadapters.NewUSPSAdapter(cfg.USPS, codes[trackadapters.USPSCarrier], client, a.cache))
	}
	a.Tracking = trackservice.NewTrackingService(carriers)
	a.Ingestion = shipservice.NewIngestionService(repo)

	cal := calendar.New(holidays)
	a.Reconciler = recservice.NewReconciliationService(recservice.Dependencies{
		Repository: repo,
		Tracker:    a.Tracking,
		Engine: engine.New(cal, engine.Thresholds{
			StuckWarningDays:    cfg.Reconcile.StuckWarningDays,
			StuckEscalationDays: cfg.Reconcile.StuckEscalationDays,
			PickupAgingDays:     cfg.Reconcile.PickupAgingDays,
		}),
		Calendar: cal,
		Sink:     newSink(cfg),
		Lock:     lock,
		Reports:  reports,
	}, recservice.Options{
		Workers:  cfg.Reconcile.Workers,
		Location: loc,
	})

	l.Info("Reconciler wired",
		zap.Strings("carriers", a.Tracking.Carriers()),
		zap.Int("holidays", holidays.Len()),
		zap.Bool("shared_cache", a.cache != nil),
	)
	return a, nil
}

func newSink(cfg *config.AppConfig) recports.NotificationSink {
	var sinks []recports.NotificationSink
	if cfg.SMTP.Enabled() {
		sinks = append(sinks, recadapters.NewEmailSink(recadapters.NewSMTPSender(cfg.SMTP), cfg.Reporting.From, cfg.Reporting.RecipientList()))
	}
	if cfg.Slack.Enabled() {
		sinks = append(sinks, recadapters.NewSlackSink(cfg.Slack.BotToken, cfg.Slack.ChannelID, cfg.Slack.APIURL))
	}
	if len(sinks) == 0 {
		logger.Get().Warn("No notification sink configured; summaries and alerts are only logged")
	}
	return recadapters.NewMultiSink(sinks...)
}

// Trigger runs one invocation. A payload carrying database_entries is ingested;
// anything else, including an empty payload, runs a reconciliation pass.
func (a *App) Trigger(ctx context.Context, payload []byte) (*TriggerResult, error) {
	if len(payload) > 0 && !gjson.ValidBytes(payload) {
		return nil, errors.New("payload is not valid JSON")
	}

	if gjson.GetBytes(payload, "database_entries").Exists() {
		var batch shipdomain.Batch
		if err := json.Unmarshal(payload, &batch); err != nil {
			return nil, fmt.Errorf("invalid ingestion payload: %w", err)
		}
		ingest, err := a.Ingestion.IngestBatch(ctx, batch.DatabaseEntries)
		if err != nil {
			return nil, err
		}
		return &TriggerResult{Ingest: ingest}, nil
	}

	summary, err := a.Reconciler.RunPass(ctx, time.Now().In(a.Location))
	if err != nil {
		return nil, err
	}
	return &TriggerResult{Summary: summary}, nil
}

// Close releases the store and cache.
func (a *App) Close() error {
	var errs []error
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	errs = append(errs, a.db.Close())
	return errors.Join(errs...)
}
