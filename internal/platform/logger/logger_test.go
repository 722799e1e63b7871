package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/flashgen/internal/config"
	"github.com/phrazzld/flashgen/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLevels(t *testing.T) {
	defaultLogger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(defaultLogger) })

	tests := []struct {
		name       string
		level      string
		debugShown bool
		infoShown  bool
		warnShown  bool
	}{
		{name: "debug", level: "debug", debugShown: true, infoShown: true, warnShown: true},
		{name: "info", level: "info", infoShown: true, warnShown: true},
		{name: "upper case warn", level: "WARN", warnShown: true},
		{name: "error", level: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: tt.level}, &buf)
			require.NoError(t, err)
			require.NotNil(t, l)

			l.Debug("debug message")
			l.Info("info message")
			l.Warn("warn message")

			out := buf.String()
			assert.Equal(t, tt.debugShown, strings.Contains(out, "debug message"))
			assert.Equal(t, tt.infoShown, strings.Contains(out, "info message"))
			assert.Equal(t, tt.warnShown, strings.Contains(out, "warn message"))
		})
	}
}

func TestSetupInvalidLevelFallsBackToInfo(t *testing.T) {
	defaultLogger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(defaultLogger) })

	var buf bytes.Buffer
	l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "verbose"}, &buf)
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var warning map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &warning))
	assert.Equal(t, "WARN", warning["level"])
	assert.Equal(t, "verbose", warning["configured_level"])
	assert.Contains(t, lines[1], "shown")
}

func TestSetupInstallsDefault(t *testing.T) {
	defaultLogger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(defaultLogger) })

	var buf bytes.Buffer
	_, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "info"}, &buf)
	require.NoError(t, err)

	slog.Info("through default", "key", "value")
	assert.Contains(t, buf.String(), `"key":"value"`)
}

func TestContextLogger(t *testing.T) {
	l, buf := logger.NewTestLogger(t)
	fallback, fallbackBuf := logger.NewTestLogger(t)

	ctx := logger.WithLogger(context.Background(), l.With("trace_id", "abc"))
	logger.FromContextOrDefault(ctx, fallback).Info("scoped")

	entries := buf.EntriesWithMessage(t, "scoped")
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0]["trace_id"])
	assert.Empty(t, fallbackBuf.String())

	logger.FromContextOrDefault(context.Background(), fallback).Info("unscoped")
	assert.Len(t, fallbackBuf.EntriesWithMessage(t, "unscoped"), 1)
}

func TestParseLevel(t *testing.T) {
	level, ok := logger.ParseLevel("warning")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelWarn, level)

	level, ok = logger.ParseLevel("loud")
	assert.False(t, ok)
	assert.Equal(t, slog.LevelInfo, level)
}
