package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger atomic.Pointer[zap.Logger]
	nop          = zap.NewNop()
)

// Init builds the process logger from the environment name and level.
// "production" emits JSON; any other environment emits colored console logs.
// An unknown level keeps the environment's default.
func Init(environment string, level string) error {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if environment == "production" {
		config = zap.NewProductionConfig()
	}

	if l, err := zapcore.ParseLevel(level); err == nil {
		config.Level = zap.NewAtomicLevelAt(l)
	}

	built, err := config.Build()
	if err != nil {
		return err
	}

	globalLogger.Store(built.Named("reconciler"))
	return nil
}

// Replace swaps the process logger and returns a func restoring the previous one.
// Tests use it to capture entries with an observer core.
func Replace(l *zap.Logger) func() {
	prev := globalLogger.Swap(l)
	return func() { globalLogger.Store(prev) }
}

// Get returns the process logger, or a no-op logger before Init.
func Get() *zap.Logger {
	if l := globalLogger.Load(); l != nil {
		return l
	}
	return nop
}

// ForRun returns a child logger tagged with a reconciliation run id.
func ForRun(runID string) *zap.Logger {
	return Get().With(zap.String("run_id", runID))
}

// Sync flushes any buffered log entries.
func Sync() {
	if l := globalLogger.Load(); l != nil {
		_ = l.Sync()
	}
}
