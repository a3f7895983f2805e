// Package config loads process configuration for graphdb hosts from the
// environment, with optional .env support.
package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Config carries the host-level settings shared by the CLI and the C ABI.
type Config struct {
	BoxPath   string
	LogLevel  slog.Level
	LogFormat string // "text" or "json"
}

// Load reads .env from the working directory when present and then the
// process environment. Unset variables fall back to defaults: no box path,
// info-level text logs.
func Load() Config {
	_ = godotenv.Load(".env")
	return Config{
		BoxPath:   os.Getenv("GRAPHDB_BOX_PATH"),
		LogLevel:  parseLevel(os.Getenv("GRAPHDB_LOG_LEVEL")),
		LogFormat: parseFormat(os.Getenv("GRAPHDB_LOG_FORMAT")),
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseFormat(s string) string {
	if s == "json" {
		return "json"
	}
	return "text"
}
