package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shipment-reconciler/internal/core/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a scheduled unit of work.
type Job func(ctx context.Context)

// Scheduler runs a job on a standard 5-field cron expression.
type Scheduler struct {
	cron *cron.Cron
	spec string
}

// cronLogger routes cron's internal logging to zap.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}

// New parses spec (minute hour day-of-month month day-of-week) and registers job.
// A run that is still in flight when the next tick fires causes that tick to be skipped.
func New(spec string, loc *time.Location, job Job) (*Scheduler, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("empty cron schedule")
	}

	cl := cronLogger{l: logger.Get().Named("scheduler").Sugar()}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	if _, err := c.AddFunc(spec, func() { job(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}

	return &Scheduler{cron: c, spec: spec}, nil
}

// Start begins running the schedule in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()

	entries := s.cron.Entries()
	if len(entries) > 0 {
		logger.Get().Info("Scheduler started",
			zap.String("schedule", s.spec),
			zap.Time("next_run", entries[0].Next),
		)
	}
}

// Stop halts the schedule and returns a context that is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
