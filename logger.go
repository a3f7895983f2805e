package graphdb

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with graphdb-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithBox adds the box path to the logger.
func (l *Logger) WithBox(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("box", path),
	}
}

// WithNodeID adds a node id field to the logger.
func (l *Logger) WithNodeID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("node_id", id),
	}
}

// LogSave logs a bulk save operation.
func (l *Logger) LogSave(kind string, count int, err error) {
	if err != nil {
		l.Error("save failed",
			"kind", kind,
			"count", count,
			"error", err,
		)
	} else {
		l.Debug("save completed",
			"kind", kind,
			"count", count,
		)
	}
}

// LogDelete logs a node deletion.
func (l *Logger) LogDelete(id string, err error) {
	if err != nil {
		l.Error("delete failed",
			"node_id", id,
			"error", err,
		)
	} else {
		l.Debug("delete completed",
			"node_id", id,
		)
	}
}

// LogLoad logs a point lookup.
func (l *Logger) LogLoad(kind, id string, err error) {
	if err != nil {
		l.Debug("load failed",
			"kind", kind,
			"id", id,
			"error", err,
		)
	} else {
		l.Debug("load completed",
			"kind", kind,
			"id", id,
		)
	}
}

// LogIndexBuild logs an index rebuild.
func (l *Logger) LogIndexBuild(kind string, entries int, err error) {
	if err != nil {
		l.Error("index build failed",
			"kind", kind,
			"error", err,
		)
	} else {
		l.Info("index built",
			"kind", kind,
			"entries", entries,
		)
	}
}
