// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

// Package server exposes discovered specs over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/specportal/specportal/internal/access"
	"github.com/specportal/specportal/internal/discovery"
	"github.com/specportal/specportal/internal/logging"
	"github.com/specportal/specportal/internal/navigation"
	"github.com/specportal/specportal/internal/openapi"
)

// Catalog is the spec source the server reads from.
type Catalog interface {
	navigation.Source
	Spec(ctx context.Context, service, lang, version string) (*discovery.APISpec, bool)
}

// Config holds server settings.
type Config struct {
	// Addr is the listen address (e.g., ":8080")
	Addr string

	// DefaultLanguage is used when a request names no lang
	DefaultLanguage string

	// Languages restricts the accepted lang values; empty accepts any
	Languages []string

	// AllowedOrigins lists CORS origins; "*" allows any
	AllowedOrigins []string

	// MaxOperations is how many operations a header entry carries
	MaxOperations int

	// SearchLimit is the default number of search hits
	SearchLimit int

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration
}

// Server serves the spec API.
type Server struct {
	cfg        Config
	catalog    Catalog
	nav        *navigation.Navigator
	authorizer *access.Authorizer
	writer     *openapi.Writer
	logger     *slog.Logger
	registry   *prometheus.Registry
	metrics    *httpMetrics
}

// Option configures a Server.
type Option func(*Server)

// WithAuthorizer enforces visibility rules on /api routes.
func WithAuthorizer(a *access.Authorizer) Option {
	return func(s *Server) { s.authorizer = a }
}

// WithLogger sets the access and error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithRegistry sets the registry HTTP metrics are registered with and
// /metrics is served from.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// New creates a Server over catalog.
func New(cfg Config, catalog Catalog, opts ...Option) (*Server, error) {
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "en"
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}

	s := &Server{
		cfg:     cfg,
		catalog: catalog,
		writer:  openapi.NewWriter(),
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}

	s.nav = navigation.New(catalog,
		navigation.WithMaxOperations(cfg.MaxOperations),
		navigation.WithSearchLimit(cfg.SearchLimit),
	)

	m, err := newHTTPMetrics(s.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register HTTP metrics: %w", err)
	}
	s.metrics = m

	return s, nil
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.accessLog)
	r.Use(s.recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(s.cors)
		r.Use(s.visibility)

		r.Get("/specs", s.handleListSpecs)
		r.Get("/specs/{service}/openapi.json", s.handleSpecJSON)
		r.Get("/specs/{service}/openapi.yaml", s.handleSpecYAML)
		r.Get("/specs/{service}/operations/{operationId}", s.handleOperation)
		r.Get("/header", s.handleHeader)
		r.Get("/versions/{service}", s.handleVersions)
		r.Get("/search", s.handleSearch)
		r.Options("/*", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, r.Method+" is not allowed on "+r.URL.Path)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
