package logging

import (
	"io"
	"log/slog"
	"os"
)

// Logger is a structured logger backed by slog
type Logger struct {
	*slog.Logger
}

// NewLogger writes human readable debug output in development and JSON otherwise
func NewLogger(isDevelopment bool) *Logger {
	return New(os.Stdout, isDevelopment)
}

// New creates a Logger writing to w
func New(w io.Writer, isDevelopment bool) *Logger {
	var handler slog.Handler
	if isDevelopment {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	return &Logger{Logger: slog.New(handler)}
}

// WithFields returns a child logger that always includes the given fields
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{Logger: l.Logger.With(args...)}
}

// Discard returns a Logger that drops everything
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}
