// Package logging provides the structured logger used by execution policies.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with policy-specific helpers so that every
// dispatch is logged with the same field names.
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
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithDevice adds the device name to the logger.
func (l *Logger) WithDevice(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("device", name),
	}
}

// WithKernel adds the kernel identity tag to the logger.
func (l *Logger) WithKernel(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("kernel", name),
	}
}

// LogDispatch logs one algorithm call and the variant it was dispatched to.
func (l *Logger) LogDispatch(ctx context.Context, algorithm, variant string, n int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dispatch failed",
			"algorithm", algorithm,
			"variant", variant,
			"n", n,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "dispatch completed",
		"algorithm", algorithm,
		"variant", variant,
		"n", n,
	)
}
