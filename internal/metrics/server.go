// Package metrics serves Prometheus metrics and a health probe over HTTP.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aatumaykin/bearobot/internal/logger"
)

// HealthFunc reports whether the bot is healthy. A nil error means healthy.
type HealthFunc func() error

// Server exposes GET /metrics and GET /healthz.
type Server struct {
	listen string
	server *http.Server
	logger *logger.Logger
}

// NewServer creates a metrics server for gatherer. health may be nil.
func NewServer(listen string, gatherer prometheus.Gatherer, health HealthFunc, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	return &Server{
		listen: listen,
		logger: log,
		server: &http.Server{
			Addr:              listen,
			Handler:           NewRouter(gatherer, health),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// NewRouter builds the HTTP routes.
func NewRouter(gatherer prometheus.Gatherer, health HealthFunc) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if health != nil {
			if err := health(); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.listen, err)
	}

	s.logger.Info("metrics server started", logger.Field{Key: "listen", Value: ln.Addr().String()})

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server failed", err)
		}
	}()
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown metrics server: %w", err)
	}
	s.logger.Info("metrics server stopped")
	return nil
}
