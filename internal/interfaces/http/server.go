package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/anhth20011/dockprep/internal/config"
	"github.com/anhth20011/dockprep/internal/infrastructure/monitoring/logging"
)

// Server wraps the stdlib HTTP server with the configured timeouts and a
// graceful shutdown path.
type Server struct {
	srv      *http.Server
	router   http.Handler
	log      logging.Logger
	shutdown time.Duration
}

// NewServer builds a server from cfg serving the given handler.
func NewServer(cfg config.ServerConfig, handler http.Handler, log logging.Logger) *Server {
	return &Server{
		router:   handler,
		log:      log.Named("http"),
		shutdown: cfg.ShutdownTimeout,
		srv: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start blocks serving requests until Stop is called or the listener fails.
func (s *Server) Start() error {
	s.log.Info("http server listening", logging.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests and shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdown)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("http server stopped")
	return nil
}

// Handler exposes the route tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
