package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" Info ":  zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"ERROR":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, s)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestContextLogger checks FromContext falls back to the global logger.
func TestContextLogger(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))

	var buf bytes.Buffer
	l := New(zapcore.DebugLevel, &buf)
	ctx := ToContext(context.Background(), l)
	require.Same(t, l, FromContext(ctx))

	Infof(WithName(ctx, "sim"), "speed %dx", 4)
	require.Contains(t, buf.String(), "sim")
	require.Contains(t, buf.String(), "speed 4x")
}

// TestCoreWriter checks tagged core messages are named after their tag.
func TestCoreWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	write := CoreWriter(New(zapcore.DebugLevel, &buf))

	write("[STOPWATCH] started, timer 1000000 / 1 / 1000000")
	write("untagged")

	out := buf.String()
	require.Contains(t, out, "stopwatch")
	require.Contains(t, out, "started, timer 1000000 / 1 / 1000000")
	require.Contains(t, out, "core")
	require.Contains(t, out, "untagged")
}

// TestLevelFiltering checks messages below the level are dropped.
func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(zapcore.WarnLevel, &buf)
	l.Info("hidden")
	l.Warn("shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}
