// Package observability provides structured logging and lightweight
// operation counters for the CPD log service.
//
// Logger wraps log/slog with a persistent component field so every line
// names the subsystem that emitted it. Counters track store operation
// totals (persists, cache hits, notifications) for diagnostics output.
package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog with a persistent component context.
type Logger struct {
	inner     *slog.Logger
	component string
}

// NewLogger creates a structured logger for a component.
// Output defaults to os.Stderr if w is nil. Format is "json" or "text";
// level is one of debug, info, warn, error (defaults: json, info).
func NewLogger(component string, w io.Writer, format, level string) *Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return &Logger{
		inner:     slog.New(handler),
		component: component,
	}
}

// NewLoggerWithHandler creates a logger with a custom slog handler.
func NewLoggerWithHandler(component string, h slog.Handler) *Logger {
	return &Logger{
		inner:     slog.New(h),
		component: component,
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// Named returns a Logger for a different component sharing the same sink.
func (l *Logger) Named(component string) *Logger {
	return &Logger{inner: l.inner, component: component}
}

// With returns a new Logger with an additional persistent field.
func (l *Logger) With(key string, value any) *Logger {
	return &Logger{
		inner:     l.inner.With(slog.Any(key, value)),
		component: l.component,
	}
}

// attrs prepends the component name to the arguments.
func (l *Logger) attrs(msg string, args []any) (string, []any) {
	return msg, append([]any{slog.String("component", l.component)}, args...)
}

// Debug logs at DEBUG level.
func (l *Logger) Debug(msg string, args ...any) {
	msg, args = l.attrs(msg, args)
	l.inner.Debug(msg, args...)
}

// Info logs at INFO level.
func (l *Logger) Info(msg string, args ...any) {
	msg, args = l.attrs(msg, args)
	l.inner.Info(msg, args...)
}

// Warn logs at WARN level.
func (l *Logger) Warn(msg string, args ...any) {
	msg, args = l.attrs(msg, args)
	l.inner.Warn(msg, args...)
}

// Error logs at ERROR level.
func (l *Logger) Error(msg string, args ...any) {
	msg, args = l.attrs(msg, args)
	l.inner.Error(msg, args...)
}

// StoreEvent logs a log-store mutation with the resulting collection size.
func (l *Logger) StoreEvent(op string, total int, args ...any) {
	allArgs := append([]any{
		slog.String("component", l.component),
		slog.String("op", op),
		slog.Int("total_logs", total),
	}, args...)
	l.inner.Info("store", allArgs...)
}

// ImportError logs the internal diagnostic behind a rejected import.
// The caller sees only the stable user-safe error.
func (l *Logger) ImportError(err error) {
	l.inner.Warn("import rejected",
		slog.String("component", l.component),
		slog.String("cause", err.Error()),
	)
}

// Component returns the component name associated with this logger.
func (l *Logger) Component() string {
	return l.component
}
