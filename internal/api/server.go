// Package api implements the hellod HTTP server: one greeting route, a
// health probe, a metrics endpoint, and the middleware chain that wraps
// every request (request ID, compression, logging, panic recovery).
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"hellod/internal/apperrors"
	"hellod/internal/config"
	"hellod/internal/logging"
)

// Server represents the hellod HTTP server
type Server struct {
	router    *http.ServeMux
	server    *http.Server
	addr      string
	logger    *logging.Logger
	metrics   *MetricsCollector
	startedAt time.Time
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *config.Config, logger *logging.Logger) *Server {
	s := &Server{
		addr:      cfg.Addr(),
		logger:    logger,
		metrics:   NewMetricsCollector(),
		router:    http.NewServeMux(),
		startedAt: time.Now(),
	}

	s.registerRoutes()

	handler := s.applyMiddleware(s.router)
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// applyMiddleware wraps the handler with middleware in reverse order (the
// last one applied sees the request first). Effective request order:
// request ID -> gzip -> logging -> metrics -> recovery -> router.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	handler = RecoveryMiddleware(s.logger)(handler)
	handler = MetricsMiddleware(s.metrics)(handler)
	handler = LoggingMiddleware(s.logger)(handler)
	handler = GzipMiddleware()(handler)
	handler = RequestIDMiddleware()(handler)
	return handler
}

// Start binds the listen address and serves requests until Shutdown is
// called or the listener fails. Bind failures are classified so startup
// diagnostics name the port and a remediation.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return apperrors.ClassifyBind(s.addr, err)
	}

	s.logger.Info("HTTP server listening", map[string]interface{}{
		"addr": s.addr,
	})

	if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server terminated: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server, letting in-flight requests
// finish within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server", nil)

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Info("Server shut down successfully", nil)
	return nil
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.server.Handler.ServeHTTP(w, r)
}
