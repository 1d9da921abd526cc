package app

import (
	"io"
	"log/slog"
)

// LevelCritical sits one step above slog's ERROR, mapping the CLI's
// CRITICAL verbosity onto slog's numeric scale.
const LevelCritical = slog.LevelError + 4

// newLogger creates and configures a new slog.Logger instance. It does not
// set the global logger, allowing for isolated logger instances.
func newLogger(verbosity, format string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch verbosity {
	case "CRITICAL":
		level = LevelCritical
	case "ERROR":
		level = slog.LevelError
	case "WARNING":
		level = slog.LevelWarn
	case "INFO":
		level = slog.LevelInfo
	case "DEBUG":
		level = slog.LevelDebug
	default:
		level = slog.LevelWarn
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}
	return slog.New(handler)
}
