package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func resetGlobals(t *testing.T) {
	t.Cleanup(func() {
		Logger = zap.NewNop().Sugar()
		JSONOutput = false
		Verbosity = 0
	})
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name      string
		json      bool
		verbosity int
		wantLevel zapcore.Level
	}{
		{name: "json progress", json: true, verbosity: Progress, wantLevel: zapcore.InfoLevel},
		{name: "console quiet", verbosity: Quiet, wantLevel: zapcore.WarnLevel},
		{name: "console dump", verbosity: Dump, wantLevel: zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGlobals(t)
			var buf bytes.Buffer

			require.NoError(t, Initialize(&buf, tt.json, tt.verbosity))
			assert.Equal(t, tt.json, JSONOutput)
			assert.Equal(t, tt.verbosity, Verbosity)
			core := Logger.Desugar().Core()
			assert.True(t, core.Enabled(tt.wantLevel))
			if tt.wantLevel > zapcore.DebugLevel {
				assert.False(t, core.Enabled(tt.wantLevel-1))
			}
		})
	}
}

func TestInitializeJSON(t *testing.T) {
	resetGlobals(t)
	var buf bytes.Buffer
	require.NoError(t, Initialize(&buf, true, Quiet))

	ComponentLogger("codegen").Warnw("Provider failed", FieldProvider, "typescript-models")
	Cleanup()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Provider failed", entry["msg"])
	assert.Equal(t, "codegen", entry["logger"])
	assert.Equal(t, "typescript-models", entry[FieldProvider])
}

func TestInitializeConsole(t *testing.T) {
	resetGlobals(t)
	var buf bytes.Buffer
	require.NoError(t, Initialize(&buf, false, Progress))

	Debugw("hidden")
	Warnw("Old backup left behind", FieldPath, "apigen.toml.back3")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "Old backup left behind")
	assert.Contains(t, buf.String(), "apigen.toml.back3")
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{Quiet, zapcore.WarnLevel},
		{Progress, zapcore.InfoLevel},
		{Detail, zapcore.DebugLevel},
		{Dump, zapcore.DebugLevel},
		{9, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestDumpFragments(t *testing.T) {
	assert.False(t, DumpFragments(Detail))
	assert.True(t, DumpFragments(Dump))
	assert.True(t, DumpFragments(Dump+2))
}

func TestComponentLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := Logger
	Logger = zap.New(core).Sugar()
	t.Cleanup(func() { Logger = prev })

	ComponentLogger("output").Infow("wrote file", FieldPath, "a.ts")
	Warnw("package-level warning")
	Debugw("filtered out")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "output", logs.All()[0].LoggerName)
	assert.Equal(t, "a.ts", logs.All()[0].ContextMap()[FieldPath])
	assert.Equal(t, "package-level warning", logs.All()[1].Message)
}
