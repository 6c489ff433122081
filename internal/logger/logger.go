package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global = zap.NewNop()

// Init builds the process-wide logger. Level is a zap level name,
// format is "json" or "console".
func Init(level, format string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	log, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	global = log
	return nil
}

// Get returns the process-wide logger. Before Init it is a nop logger,
// which keeps tests quiet.
func Get() *zap.Logger {
	return global
}

// Sync flushes buffered log entries; call on shutdown.
func Sync() {
	_ = global.Sync()
}
