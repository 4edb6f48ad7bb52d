package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/engn/internal/config"
)

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FPS", "30")
	t.Setenv("AUTOSTART", "false")
	t.Setenv("ASSET_MANIFEST", "game.yaml")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("TELEMETRY_HZ", "2.5")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30, cfg.FPS)
	assert.False(t, cfg.Autostart)
	assert.Equal(t, "game.yaml", cfg.AssetManifest)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.InDelta(t, 2.5, cfg.TelemetryHz, 1e-9)
}

func TestLoad_RejectsNonPositiveFPS(t *testing.T) {
	t.Setenv("FPS", "0")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_RejectsMalformedValue(t *testing.T) {
	t.Setenv("FPS", "fast")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_MissingEnvFileIgnored(t *testing.T) {
	t.Setenv("FPS", "60")
	_, err := config.Load(t.TempDir() + "/missing.env")
	assert.NoError(t, err)
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, config.Config{LogLevel: in}.SlogLevel(), in)
	}
}
