package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelFromString(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"error":    slog.LevelError,
		" WARN ":   slog.LevelWarn,
		"warning":  slog.LevelWarn,
		"info":     slog.LevelInfo,
		"":         slog.LevelInfo,
		"debug":    slog.LevelDebug,
		"anything": slog.LevelDebug,
	}
	for in, want := range cases {
		require.Equal(t, want, levelFromString(in), in)
	}
}

func TestNewWithFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bot.log")
	logger, closer, err := NewWithFile("info", path)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("no updates", "component", "pipeline")
	require.NoError(t, closer.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), `msg="no updates"`)
	require.Contains(t, string(raw), "component=pipeline")
	require.NotContains(t, string(raw), "hidden")
}

func TestNewWithoutFile(t *testing.T) {
	t.Parallel()

	logger, closer, err := NewWithFile("warn", "")
	require.NoError(t, err)
	require.NoError(t, closer.Close())
	require.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	require.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
}
