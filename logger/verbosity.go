package logger

import "go.uber.org/zap/zapcore"

// Verbosity levels, one per -v on the command line.
const (
	Quiet    = 0 // warnings and errors
	Progress = 1 // run and provider progress
	Detail   = 2 // file writes, declarations, timing
	Dump     = 3 // merged output fragments
)

// LevelFor returns the zap level for a -v count. zap has nothing below
// debug, so counts above Detail only switch on extra output.
func LevelFor(verbosity int) zapcore.Level {
	switch {
	case verbosity <= Quiet:
		return zapcore.WarnLevel
	case verbosity == Progress:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// DumpFragments reports whether provider output fragments are logged in full.
func DumpFragments(verbosity int) bool {
	return verbosity >= Dump
}
