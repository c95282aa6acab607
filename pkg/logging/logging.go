// Package logging configures colored structured logging with tint for the
// ledger binaries.
//
// Usage:
//
//	logging.Setup(cfg.LogLevel)
//	logging.SetupWriter(os.Stdout, slog.LevelDebug)
//
// Colors are disabled when NO_COLOR is set.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs a tint handler on stderr as the default slog logger.
func Setup(level slog.Level) *slog.Logger {
	return SetupWriter(os.Stderr, level)
}

// SetupWriter installs a tint handler writing to w as the default logger and
// returns it.
func SetupWriter(w io.Writer, level slog.Level) *slog.Logger {
	logger := New(w, level)
	slog.SetDefault(logger)
	return logger
}

// New returns a tint logger without touching the default.
func New(w io.Writer, level slog.Level) *slog.Logger {
	_, noColor := os.LookupEnv("NO_COLOR")
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level <= slog.LevelDebug,
		NoColor:    noColor,
	}))
}
