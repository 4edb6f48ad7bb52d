package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	FPS       int  `env:"FPS" envDefault:"60"`
	Autostart bool `env:"AUTOSTART" envDefault:"true"`

	// Assets come from DATABASE_URL when set, else ASSET_BASE_URL, else ASSET_ROOT on disk.
	AssetManifest string        `env:"ASSET_MANIFEST" envDefault:"assets.yaml"`
	AssetRoot     string        `env:"ASSET_ROOT" envDefault:"."`
	AssetBaseURL  string        `env:"ASSET_BASE_URL"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`

	TelemetryHz float64 `env:"TELEMETRY_HZ" envDefault:"10"`
}

// Load reads the given .env files, if present, then parses the environment.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.FPS <= 0 {
		return Config{}, fmt.Errorf("parse env: FPS must be positive, got %d", cfg.FPS)
	}
	return cfg, nil
}

func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
