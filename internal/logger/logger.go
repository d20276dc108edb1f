// Package logger configures the application's structured logging.
//
// It uses zerolog: JSON output by default, a human-friendly console
// writer in the local environment. It also provides the adapters used
// to log SQL statements through the pgx tracelog integration.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/bazario/marketplace-api/internal/config"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// New builds the main application logger from config.
//
// Level falls back to info when the configured level does not parse.
func New(cfg *config.Config) *zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Logging.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Logging.Format == "console" || cfg.Primary.Env == "local" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(level).
			With().
			Timestamp().
			Str("service", "marketplace-api").
			Logger()
	} else {
		logger = zerolog.New(os.Stderr).
			Level(level).
			With().
			Timestamp().
			Str("service", "marketplace-api").
			Str("env", cfg.Primary.Env).
			Logger()
	}

	return &logger
}

// NewPgxLogger returns a logger dedicated to SQL statement output.
// Kept separate from the main logger so query noise is easy to filter.
func NewPgxLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Str("component", "pgx").
		Logger()
}

// GetPgxTraceLogLevel maps a zerolog level onto the pgx tracelog level so
// SQL logging verbosity follows the app log level.
func GetPgxTraceLogLevel(level zerolog.Level) tracelog.LogLevel {
	switch {
	case level <= zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	case level == zerolog.InfoLevel:
		return tracelog.LogLevelInfo
	case level == zerolog.WarnLevel:
		return tracelog.LogLevelWarn
	default:
		return tracelog.LogLevelError
	}
}
