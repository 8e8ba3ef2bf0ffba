package config

import (
	"fmt"

	"go.uber.org/zap"
)

// Log is the global structured logger. It defaults to a no-op logger so that
// packages can log before InitLogger runs (and during tests).
var Log *zap.Logger = zap.NewNop()

// InitLogger builds the global logger for the given level and environment.
// Development gets the human-readable console encoder, everything else the
// production JSON encoder.
func InitLogger(level, env string) error {
	logLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level %q: %w", level, err)
	}

	var cfg zap.Config
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = logLevel

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	Log = logger
	return nil
}
