// Package logger holds the process-wide zap logger used by apigen.
//
// Library packages take a *zap.SugaredLogger through their options and fall
// back to ComponentLogger, so they stay silent until the CLI calls Initialize.
package logger

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger. It is a no-op until Initialize runs.
	Logger = zap.NewNop().Sugar()
	// JSONOutput records whether Initialize chose the JSON encoder.
	JSONOutput bool
	// Verbosity is the -v count Initialize was called with.
	Verbosity int
)

// Initialize replaces the global logger with one writing to w. Generated
// content never goes through the logger, so w is normally stderr.
func Initialize(w io.Writer, jsonOutput bool, verbosity int) error {
	JSONOutput = jsonOutput
	Verbosity = verbosity

	var enc zapcore.Encoder
	if jsonOutput {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		enc = newConsoleEncoder()
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), LevelFor(verbosity))
	Logger = zap.New(core).Sugar()
	return nil
}

// newConsoleEncoder drops timestamps and callers: a run is short and the
// component name already says where a line came from.
func newConsoleEncoder() zapcore.Encoder {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	cfg.CallerKey = ""
	cfg.StacktraceKey = ""
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.ConsoleSeparator = " "
	return zapcore.NewConsoleEncoder(cfg)
}

// ComponentLogger returns the global logger named after a component
// ("codegen", "openapi", "watch", ...).
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// Cleanup flushes buffered entries.
func Cleanup() {
	_ = Logger.Sync()
}

// Warnw logs on the global logger.
func Warnw(msg string, keysAndValues ...any) {
	Logger.Warnw(msg, keysAndValues...)
}

// Debugw logs on the global logger.
func Debugw(msg string, keysAndValues ...any) {
	Logger.Debugw(msg, keysAndValues...)
}
