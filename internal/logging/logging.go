// Package logging wraps go.uber.org/zap behind a single package-level
// *zap.SugaredLogger: core packages never construct their own logger,
// they call logging.L(). The default, before Initialize is called, is
// a no-op logger so library code is always safe to log through even
// outside a CLI entrypoint (tests, for instance).
//
// Grounded on teranos-QNTX/logger's init()-installs-a-Nop-then-
// Initialize()-upgrades-it pattern, trimmed to what adlc actually
// needs: one human-readable console mode and one verbose mode, no
// JSON/Lambda variants (the teacher carries those for a deployed
// service; adlc is a CLI with no such target).
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop().Sugar()

// Initialize installs the real logger, console-encoded at Info level,
// or Debug level when verbose is set. Call once, from the CLI
// entrypoint, before any other package logs.
func Initialize(verbose bool) error {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = ""
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	zl, err := cfg.Build()
	if err != nil {
		return err
	}
	logger = zl.Sugar()
	return nil
}

// L returns the shared logger. Safe to call before Initialize; it
// returns a no-op logger in that case.
func L() *zap.SugaredLogger {
	return logger
}

// Sync flushes any buffered log entries. Call from the CLI entrypoint
// on exit.
func Sync() {
	_ = logger.Sync()
}
