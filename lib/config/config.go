// Package config loads host configuration from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Config holds the environment settings shared by prefork hosts.
type Config struct {
	// ModPerl mirrors the mod_perl convention: a non-empty value means
	// the process forks workers and modules should load immediately.
	ModPerl string `env:"MOD_PERL"`

	LogLevel  string `env:"PREFORK_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"PREFORK_LOG_FORMAT" envDefault:"text"`

	// Manifest optionally points at a preload manifest file.
	Manifest string `env:"PREFORK_MANIFEST"`
}

// FromEnv loads configuration from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	return cfg, nil
}

// ForkingSignaled reports whether the environment marked this process
// as a forking host.
func (c Config) ForkingSignaled() bool {
	return c.ModPerl != ""
}

// NewLogger creates a slog.Logger writing to out with the configured
// level and format. It does not set the global logger, allowing for
// isolated logger instances.
func NewLogger(cfg Config, out io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}
