// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"io"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/specportal/specportal/internal/openapi"
)

var (
	diffIgnore         []string
	diffFailOnBreaking bool
)

var diffCmd = &cobra.Command{
	Use:   "diff <old> <new>",
	Short: "Compare two OpenAPI specifications",
	Long: `Compare two OpenAPI spec files and show the operations and component
schemas that were added, removed or modified.

Removed operations and schemas are breaking changes. Ignore patterns are
glob patterns matched against operation paths and schema names.

Example:
  specportal diff v1/openapi.yaml v2/openapi.yaml
  specportal diff old.yaml new.yaml --ignore '/internal/**'
  specportal diff old.yaml new.yaml --fail-on-breaking   # Exit 1 on breaking changes
  specportal diff old.yaml new.yaml -f json`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringSliceVar(&diffIgnore, "ignore", nil, "glob patterns of paths or schema names to ignore")
	diffCmd.Flags().BoolVar(&diffFailOnBreaking, "fail-on-breaking", false, "exit non-zero when breaking changes are found")
}

func runDiff(cmd *cobra.Command, args []string) error {
	lang := language
	if lang == "" {
		lang = "en"
	}

	printVerbose("Diff configuration:")
	printVerbose("  Ignore: %v", diffIgnore)
	printVerbose("  Fail on breaking: %t", diffFailOnBreaking)

	for _, pattern := range diffIgnore {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	before, err := openapi.ReadFile(args[0], lang)
	if err != nil {
		return err
	}
	after, err := openapi.ReadFile(args[1], lang)
	if err != nil {
		return err
	}

	differ := openapi.NewDiffer()
	result := differ.Diff(before, after)
	if len(diffIgnore) > 0 {
		result = differ.Filter(result, func(name string) bool {
			return matchesAnyPattern(name, diffIgnore)
		})
	}

	if err := render(cmd.OutOrStdout(), result, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, openapi.FormatDiff(result))
		return err
	}); err != nil {
		return err
	}

	if diffFailOnBreaking && result.HasBreakingChanges {
		return &ExitError{Code: 1, Err: fmt.Errorf("breaking changes detected")}
	}
	return nil
}

// matchesAnyPattern checks if a path or name matches any glob pattern.
func matchesAnyPattern(s string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, s); matched {
			return true
		}
	}
	return false
}
