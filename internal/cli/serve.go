// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/specportal/specportal/internal/access"
	"github.com/specportal/specportal/internal/config"
	"github.com/specportal/specportal/internal/discovery"
	"github.com/specportal/specportal/internal/server"
	"github.com/specportal/specportal/internal/watch"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the documentation API",
	Long: `Serve discovered specs over HTTP.

Routes:
  GET /api/specs?lang=&version=                       Spec summaries
  GET /api/specs/{service}/openapi.json|openapi.yaml  Raw document
  GET /api/specs/{service}/operations/{operationId}   Operation examples
  GET /api/header?lang=&version=                      Header navigation
  GET /api/versions/{service}?lang=                   Version list
  GET /api/search?lang=&version=&q=                   Operation search
  GET /healthz, /metrics

With --watch the spec cache is cleared whenever the content tree changes.

Example:
  specportal serve
  specportal serve --addr :9000 --watch
  specportal serve --content ./docs`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "clear the spec cache when content changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveWatch {
		cfg.Watch.Enabled = true
	}

	logger := newLogger(cfg)
	registry := prometheus.NewRegistry()

	metrics, err := discovery.NewMetrics(registry)
	if err != nil {
		return fmt.Errorf("failed to register discovery metrics: %w", err)
	}
	catalog, err := newCatalog(cfg, logger, discovery.WithMetrics(metrics))
	if err != nil {
		return err
	}

	srv, err := newServer(cfg, catalog, logger, registry)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Watch.Enabled {
		if err := startWatcher(ctx, cfg, catalog.Clear, logger); err != nil {
			return err
		}
	}

	printInfo("Serving %s on %s", cfg.Content.Root, cfg.Server.Addr)
	printVerbose("  Cache TTL: %s", catalog.TTL())
	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	printInfo("Server stopped")
	return nil
}

// newServer builds the HTTP server from configuration. Visibility rules are
// enforced only when auth.rules is non-empty.
func newServer(cfg *config.Config, catalog server.Catalog, logger *slog.Logger, registry *prometheus.Registry) (*server.Server, error) {
	opts := []server.Option{
		server.WithLogger(logger),
		server.WithRegistry(registry),
	}

	if len(cfg.Auth.Rules) > 0 {
		rules, err := access.ParseRules(cfg.Auth.Rules)
		if err != nil {
			return nil, fmt.Errorf("invalid auth rules: %w", err)
		}
		opts = append(opts, server.WithAuthorizer(access.NewAuthorizer(rules, []byte(cfg.Auth.Secret), cfg.Auth.Issuer)))
	}

	srv, err := server.New(server.Config{
		Addr:            cfg.Server.Addr,
		DefaultLanguage: cfg.DefaultLanguage,
		Languages:       cfg.Languages,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		MaxOperations:   cfg.Header.MaxOperations,
		SearchLimit:     cfg.Search.Limit,
	}, catalog, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}
	return srv, nil
}

// startWatcher runs a content watcher calling onChange until ctx ends.
func startWatcher(ctx context.Context, cfg *config.Config, onChange func(), logger *slog.Logger) error {
	w, err := watch.New(cfg.Content.Root, onChange,
		watch.WithDebounce(cfg.DebounceDuration()),
		watch.WithLogger(logger),
		watch.WithFilter(contentScanner(cfg).Matches),
	)
	if err != nil {
		return fmt.Errorf("failed to watch content: %w", err)
	}

	go func() {
		if err := w.Run(ctx); err != nil {
			logger.Error("content watcher stopped", "error", err)
		}
	}()
	printVerbose("Watching %s (debounce %s)", cfg.Content.Root, cfg.DebounceDuration())
	return nil
}
