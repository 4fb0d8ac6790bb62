package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redmonkez12/projectshelf-api/internal/logging"
)

// Server wraps the HTTP server with graceful shutdown
type Server struct {
	httpServer *http.Server
	logger     *logging.Logger
}

// NewServer creates a new HTTP server
func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration, logger *logging.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       readTimeout,
			ReadHeaderTimeout: readTimeout,
			WriteTimeout:      writeTimeout,
		},
		logger: logger,
	}
}

// Start begins listening and serving HTTP requests
func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.httpServer.Addr)

	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
