package logging

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// ContextKey is a type for context keys
type ContextKey string

const (
	// LoggerContextKey is the key for the logger in the request context
	LoggerContextKey ContextKey = "logger"
)

// responseWriter is a wrapper around http.ResponseWriter that captures the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
	bytes      int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// RequestLogger is a middleware that logs HTTP requests
func RequestLogger(logger *Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi's RequestID middleware runs first
			requestID := middleware.GetReqID(r.Context())

			reqLogger := logger.WithFields(map[string]any{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
				"remote_ip":  r.RemoteAddr,
			})

			reqLogger.Debug("request started")

			ctx := WithLogger(r.Context(), reqLogger)
			wrapped := newResponseWriter(w)

			next.ServeHTTP(wrapped, r.WithContext(ctx))

			duration := time.Since(start)

			logLevel := slog.LevelInfo
			if wrapped.statusCode >= 500 {
				logLevel = slog.LevelError
			} else if wrapped.statusCode >= 400 {
				logLevel = slog.LevelWarn
			}

			reqLogger.Log(r.Context(), logLevel, "request completed",
				"status", wrapped.statusCode,
				"bytes", wrapped.bytes,
				"duration_ms", duration.Milliseconds(),
			)
		})
	}
}

// WithLogger stores logger in ctx
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// GetLoggerFromContext retrieves the logger from the request context
func GetLoggerFromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return NewLogger(true)
}
