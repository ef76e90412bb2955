// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/specportal/specportal/internal/discovery"
	"github.com/specportal/specportal/pkg/types"
)

// Exit codes for check command
const (
	ExitCodeClean      = 0 // Every matched spec file loaded
	ExitCodeSkipped    = 1 // At least one spec file was skipped
	ExitCodeCheckError = 2 // Error during analysis
)

var checkStrict bool

var checkCmd = &cobra.Command{
	Use:   "check <version>...",
	Short: "Report spec files that fail to load",
	Long: `Check scans the content tree for each language and version and reports
every spec file that would be skipped: paths that do not follow the layout,
documents without an info block, duplicate services and unreadable files.

Without --lang every configured language is checked. When a language has no
versioned spec, the legacy flat layout is checked instead.

Exit codes:
  0  Every spec file loaded
  1  At least one spec file was skipped
  2  Error during analysis

Example:
  specportal check v1 v2              # All languages, two versions
  specportal check v2 --lang ar       # Arabic only
  specportal check v2 --strict=false  # Report without failing`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", true, "exit non-zero when any file is skipped")
}

// checkResult is the scan report of one language and version.
type checkResult struct {
	Language string              `json:"language" yaml:"language"`
	Version  string              `json:"version" yaml:"version"`
	Layout   string              `json:"layout" yaml:"layout"`
	Matched  int                 `json:"matched" yaml:"matched"`
	Loaded   []types.SpecSummary `json:"loaded" yaml:"loaded"`
	Skipped  []discovery.Skip    `json:"skipped" yaml:"skipped"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, catalog, err := setup()
	if err != nil {
		return &ExitError{Code: ExitCodeCheckError, Err: err}
	}

	languages := cfg.Languages
	if language != "" {
		lang, err := resolveLanguage(cfg)
		if err != nil {
			return &ExitError{Code: ExitCodeCheckError, Err: err}
		}
		languages = []string{lang}
	}

	printVerbose("Check configuration:")
	printVerbose("  Strict mode: %t", checkStrict)
	printVerbose("  Languages: %v", languages)
	printVerbose("  Versions: %v", args)

	results, err := checkContent(commandContext(cmd), catalog, languages, args)
	if err != nil {
		return &ExitError{Code: ExitCodeCheckError, Err: err}
	}

	if err := render(cmd.OutOrStdout(), results, func(w io.Writer) error {
		printCheckResults(w, results)
		return nil
	}); err != nil {
		return &ExitError{Code: ExitCodeCheckError, Err: err}
	}

	skipped := 0
	for _, r := range results {
		skipped += len(r.Skipped)
	}
	if skipped > 0 && checkStrict {
		return &ExitError{Code: ExitCodeSkipped, Err: fmt.Errorf("%d spec file(s) skipped", skipped)}
	}
	return nil
}

// checkContent scans each language and version, falling back to the legacy
// layout the way the catalog does.
func checkContent(ctx context.Context, catalog *discovery.Catalog, languages, versions []string) ([]checkResult, error) {
	var results []checkResult
	for _, lang := range languages {
		for _, version := range versions {
			report, err := catalog.Scan(ctx, lang, version)
			if err != nil {
				return nil, fmt.Errorf("failed to scan %s/%s: %w", lang, version, err)
			}
			layout := "versioned"
			if report.Matched == 0 {
				legacy, err := catalog.ScanLegacy(ctx, lang)
				if err != nil {
					return nil, fmt.Errorf("failed to scan %s legacy specs: %w", lang, err)
				}
				legacy.Skipped = append(report.Skipped, legacy.Skipped...)
				report = legacy
				layout = "legacy"
			}
			results = append(results, newCheckResult(lang, version, layout, report))
		}
	}
	return results, nil
}

func newCheckResult(lang, version, layout string, report *discovery.ScanReport) checkResult {
	r := checkResult{
		Language: lang,
		Version:  version,
		Layout:   layout,
		Matched:  report.Matched,
		Loaded:   make([]types.SpecSummary, 0, len(report.Loaded)),
		Skipped:  report.Skipped,
	}
	if r.Skipped == nil {
		r.Skipped = []discovery.Skip{}
	}
	for _, s := range report.Loaded {
		r.Loaded = append(r.Loaded, s.Summary())
	}
	return r
}

func printCheckResults(w io.Writer, results []checkResult) {
	for _, r := range results {
		fmt.Fprintf(w, "%s/%s (%s): %d loaded, %d skipped\n", r.Language, r.Version, r.Layout, len(r.Loaded), len(r.Skipped))
		for _, s := range r.Loaded {
			fmt.Fprintf(w, "  + %s  %s\n", s.ID, s.Title)
		}
		for _, s := range r.Skipped {
			if s.Detail != "" {
				fmt.Fprintf(w, "  ! %s: %s (%s)\n", s.Path, s.Reason, s.Detail)
			} else {
				fmt.Fprintf(w, "  ! %s: %s\n", s.Path, s.Reason)
			}
		}
	}
}
