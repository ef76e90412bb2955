// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchDebounce int

var watchCmd = &cobra.Command{
	Use:   "watch <version>...",
	Short: "Re-check the content tree whenever it changes",
	Long: `Watch the content tree and print a fresh check report for the given
versions every time spec files change. It's useful while authoring specs to
see files that fail to load as soon as they are saved.

Example:
  specportal watch v2                  # All languages
  specportal watch v1 v2 --lang ar     # Arabic only
  specportal watch v2 --debounce 1000  # Wait 1s before re-checking`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchDebounce, "debounce", 0, "debounce duration in milliseconds (default: watch.debounce)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if watchDebounce > 0 {
		cfg.Watch.Debounce = watchDebounce
	}

	languages := cfg.Languages
	if language != "" {
		lang, err := resolveLanguage(cfg)
		if err != nil {
			return err
		}
		languages = []string{lang}
	}

	logger := newLogger(cfg)
	catalog, err := newCatalog(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	report := func() {
		results, err := checkContent(ctx, catalog, languages, args)
		if err != nil {
			printError("%v", err)
			return
		}
		_ = render(out, results, func(w io.Writer) error {
			printCheckResults(w, results)
			return nil
		})
	}

	report()
	if err := startWatcher(ctx, cfg, report, logger); err != nil {
		return err
	}

	printInfo("Watching for changes in: %s", cfg.Content.Root)
	printInfo("Press Ctrl+C to stop")
	<-ctx.Done()
	return nil
}
