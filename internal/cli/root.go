// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

// Package cli provides the command-line interface for specportal.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/specportal/specportal/internal/config"
	"github.com/specportal/specportal/internal/discovery"
	"github.com/specportal/specportal/internal/logging"
	"github.com/specportal/specportal/internal/scanner"
)

// Global flags
var (
	cfgFile      string
	contentRoot  string
	language     string
	outputFormat string
	verbose      bool
	quiet        bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "specportal",
	Short: "Bilingual versioned OpenAPI documentation portal",
	Long: `specportal discovers OpenAPI specs in a versioned, bilingual content tree
and serves them, with header navigation, version lists, operation examples
and search, over an HTTP API.

Specs live at <language>/apispecs/<service>/<version>/<file>.yaml. A flat
<language>/apispecs/<service>.yaml layout is read when no versioned spec
exists.

Example:
  specportal serve                         # Serve the API on :8080
  specportal list v2 --lang ar             # List Arabic specs of version v2
  specportal check v1 v2                   # Report files that fail to load
  specportal print payment-api -f json     # Print the newest payment-api spec`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code for an Execute error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: specportal.yaml)")
	rootCmd.PersistentFlags().StringVar(&contentRoot, "content", "", "content tree directory (default: content)")
	rootCmd.PersistentFlags().StringVarP(&language, "lang", "l", "", "content language (default: the configured default language)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "text", "output format: text, json, yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(headerCmd)
	rootCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(tokenCmd)
}

// loadConfig loads the configuration and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if contentRoot != "" {
		cfg.Content.Root = contentRoot
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	printVerbose("Configuration:")
	if path := cfgFile; path != "" {
		printVerbose("  Config file: %s", path)
	} else if path := config.ConfigFilePath(); path != "" {
		printVerbose("  Config file: %s", path)
	}
	printVerbose("  Content root: %s", cfg.Content.Root)

	return cfg, nil
}

// newLogger builds the process logger, honouring --verbose and --quiet.
func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.Log.Level
	switch {
	case quiet:
		level = "error"
	case verbose:
		level = "debug"
	}
	return logging.New("specportal", level, cfg.Log.Format)
}

// newCatalog opens the configured content tree.
func newCatalog(cfg *config.Config, logger *slog.Logger, opts ...discovery.Option) (*discovery.Catalog, error) {
	info, err := os.Stat(cfg.Content.Root)
	if err != nil {
		return nil, fmt.Errorf("content root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content root %s is not a directory", cfg.Content.Root)
	}

	base := []discovery.Option{
		discovery.WithTTL(cfg.Cache.TTL),
		discovery.WithLogger(logger),
		discovery.WithScanner(contentScanner(cfg)),
	}
	return discovery.New(os.DirFS(cfg.Content.Root), append(base, opts...)...), nil
}

// contentScanner applies the configured include and exclude globs.
func contentScanner(cfg *config.Config) *scanner.Scanner {
	return scanner.New(scanner.Config{
		IncludePatterns: cfg.Content.Include,
		ExcludePatterns: cfg.Content.Exclude,
	})
}

// setup loads config, logger and catalog for the read-only commands.
func setup() (*config.Config, *discovery.Catalog, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	catalog, err := newCatalog(cfg, newLogger(cfg))
	if err != nil {
		return nil, nil, err
	}
	return cfg, catalog, nil
}

// resolveLanguage returns --lang or the configured default language.
func resolveLanguage(cfg *config.Config) (string, error) {
	if language == "" {
		return cfg.DefaultLanguage, nil
	}
	if !slices.Contains(cfg.Languages, language) {
		return "", fmt.Errorf("unsupported language %q, must be one of: %v", language, cfg.Languages)
	}
	return language, nil
}

// commandContext returns the command's context, falling back to Background.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// GetConfigFile returns the config file path from the flag.
func GetConfigFile() string {
	return cfgFile
}

// IsVerbose returns whether verbose output is enabled.
func IsVerbose() bool {
	return verbose
}

// IsQuiet returns whether quiet mode is enabled.
func IsQuiet() bool {
	return quiet
}

// printInfo prints a message if not in quiet mode.
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format+"\n", args...)
	}
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format+"\n", args...)
	}
}

// printError prints an error message.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
