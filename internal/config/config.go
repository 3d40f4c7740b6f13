// Package config loads process configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables.
const (
	EnvDB        = "VETO_DB"         // SQLite database path
	EnvLogLevel  = "VETO_LOG_LEVEL"  // debug | info | warn | error
	EnvLogFormat = "VETO_LOG_FORMAT" // text | json
)

// Defaults.
const (
	DefaultDB        = "veto.db"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds the process-level settings shared by every command.
type Config struct {
	DBPath    string
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first when present; real environment
// variables win over file entries.
func Load() (Config, error) {
	// godotenv.Load never overrides variables already set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		DBPath:    envOr(EnvDB, DefaultDB),
		LogFormat: envOr(EnvLogFormat, DefaultLogFormat),
	}

	level, err := parseLevel(envOr(EnvLogLevel, DefaultLogLevel))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return Config{}, fmt.Errorf("%s: invalid log format %q (text|json)", EnvLogFormat, cfg.LogFormat)
	}

	return cfg, nil
}

// Logger builds the process logger writing to w in the configured
// format and level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%s: invalid log level %q (debug|info|warn|error)", EnvLogLevel, s)
	}
}
