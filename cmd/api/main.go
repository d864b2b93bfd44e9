package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shipment-reconciler/internal/app"
	"shipment-reconciler/internal/core/config"
	"shipment-reconciler/internal/core/logger"
	"shipment-reconciler/internal/core/scheduler"
	"shipment-reconciler/internal/core/server"
	rechandler "shipment-reconciler/internal/features/reconciliation/handler"
	recports "shipment-reconciler/internal/features/reconciliation/ports"
	shiphandler "shipment-reconciler/internal/features/shipments/handler"
	trackinghandler "shipment-reconciler/internal/features/tracking/handler"

	"go.uber.org/zap"
)

// @title Shipment Reconciler API
// @version 1.0
// @description Loads shipment batches, reconciles them against carrier tracking and reports the outcome.
// @contact.name Operations
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
		zap.String("timezone", cfg.Timezone),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		l.Fatal("Failed to wire application", zap.Error(err))
	}
	defer a.Close()

	shipmentHdl := shiphandler.NewShipmentHandler(a.Ingestion)
	trackingHdl := trackinghandler.NewTrackingHandler(a.Tracking)
	reconcileHdl := rechandler.NewReconciliationHandler(a.Reconciler)

	srv := server.New(cfg)

	// Register Routes
	srv.App.Post("/shipments/batch", shipmentHdl.IngestBatch)
	srv.App.Get("/shipments/:orderNumber", shipmentHdl.GetShipment)
	srv.App.Get("/tracking/:number", trackingHdl.GetSnapshot)
	srv.App.Post("/reconciliation/runs", reconcileHdl.RunPass)
	srv.App.Get("/reconciliation/runs/latest", reconcileHdl.GetLatest)

	var sched *scheduler.Scheduler
	if cfg.RunSchedule != "" {
		sched, err = scheduler.New(cfg.RunSchedule, a.Location, func(ctx context.Context) {
			if _, err := a.Trigger(ctx, nil); err != nil {
				if errors.Is(err, recports.ErrPassInProgress) {
					l.Warn("Scheduled pass skipped: another pass is running")
					return
				}
				l.Error("Scheduled pass failed", zap.Error(err))
			}
		})
		if err != nil {
			l.Fatal("Invalid run schedule", zap.Error(err))
		}
		sched.Start()
	} else {
		l.Info("Scheduled passes disabled (RUN_SCHEDULE not set)")
	}

	go func() {
		<-ctx.Done()
		l.Info("Shutting down")
		if sched != nil {
			select {
			case <-sched.Stop().Done():
			case <-time.After(30 * time.Second):
				l.Warn("Timed out waiting for the scheduled pass to finish")
			}
		}
		if err := srv.Shutdown(); err != nil {
			l.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
