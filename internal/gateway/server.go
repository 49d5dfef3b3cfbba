// Package gateway contains the gateway-specific wiring for the HTTP API.
package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/IM-IMPOWER/OSUKA-foresight/internal/gateway/handlers"
	"github.com/IM-IMPOWER/OSUKA-foresight/internal/gateway/middleware"
	"github.com/IM-IMPOWER/OSUKA-foresight/internal/gateway/registry"
	"github.com/IM-IMPOWER/OSUKA-foresight/internal/store"
)

// Server is the HTTP server for the discovery gateway API.
type Server struct {
	httpServer *http.Server
	registry   *registry.Registry
}

// Options configures optional gateway behavior.
type Options struct {
	// Archive persists terminal runs. Nil means memory-only.
	Archive store.RunArchive

	// RateLimit is submissions per second per client. 0 disables limiting.
	RateLimit      float64
	RateLimitBurst int

	// MetricsHandler serves GET /metrics. Nil falls back to the default
	// prometheus registry.
	MetricsHandler http.Handler
}

// New creates a new gateway server.
func New(addr string, pipeline handlers.Pipeline, logger *slog.Logger, opts Options) *Server {
	reg := registry.New()
	h := handlers.New(reg, pipeline, opts.Archive, logger)
	rateMW := middleware.RateLimitMiddleware(opts.RateLimit, opts.RateLimitBurst)

	mux := http.NewServeMux()

	mux.Handle("POST /discovery/run", rateMW(http.HandlerFunc(h.SubmitRun)))
	mux.HandleFunc("GET /discovery/run/{run_id}", h.RunStatus)
	mux.HandleFunc("GET /discovery/runs", h.ListRuns)

	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)

	metricsHandler := opts.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	mux.Handle("GET /metrics", metricsHandler)

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		registry: reg,
	}
}

// Registry exposes the run registry, used for the active-runs gauge.
func (s *Server) Registry() *registry.Registry {
	return s.registry
}

// Run starts the HTTP server. It blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutDownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return s.Shutdown(shutDownCtx)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
