// Package logging provides zap logger helpers.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// L is the process-wide logger. It defaults to a no-op logger so that
// packages may log before InitLogger runs (e.g. during config loading).
var L = zap.NewNop()

// InitLogger replaces the global logger. Call once at startup.
func InitLogger(development bool) {
	logger, err := New(development)
	if err != nil {
		// Fall back to the basic production logger rather than dying
		// before the CLI has even parsed its arguments.
		logger = zap.Must(zap.NewProduction())
	}
	L = logger
	zap.ReplaceGlobals(logger)
}

// New builds a zap.Logger configured for development or production.
func New(development bool) (*zap.Logger, error) {
	if development {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err := cfg.Build()
		if err != nil {
			return nil, fmt.Errorf("build dev logger: %w", err)
		}
		return logger, nil
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = false
	cfg.EncoderConfig.TimeKey = "ts"
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build prod logger: %w", err)
	}
	return logger, nil
}
