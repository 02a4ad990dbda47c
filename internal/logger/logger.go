// Package logger configures the process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"signal-metrics/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger sends log output to stderr so that it never mixes with command
// output on stdout.
func NewLogger(cfg config.LoggerConfig) zerolog.Logger {
	return New(cfg, os.Stderr)
}

// New replaces the global logger with one writing to w. Unknown levels fall
// back to info; LOG_FORMAT=console gives human-readable lines, anything else
// JSON.
func New(cfg config.LoggerConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: !isTerminal(w)}
	}
	log.Logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
	return log.Logger
}

// GetLogger returns the global logger tagged with a component name.
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
