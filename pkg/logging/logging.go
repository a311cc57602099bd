// Package logging configures structured logging using log/slog.
//
// Logs go to stderr so stdout stays reserved for the console report
// (table preview and proximity counts).
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

type runIDKey struct{}

// Setup builds a logger for level and format, installs it as the slog
// default and returns it.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func Setup(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel converts a string log level to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// WithRunID stores the run identifier in ctx.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// FromContext returns the default logger, tagged with run_id when ctx
// carries one.
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if id, ok := ctx.Value(runIDKey{}).(string); ok && id != "" {
		logger = logger.With("run_id", id)
	}
	return logger
}

// WithFields returns a logger with additional structured fields.
//
//	stageLogger := logging.WithFields(ctx, "stage", "workbook")
//	stageLogger.Info("stage started")
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
