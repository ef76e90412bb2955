// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/specportal/specportal/internal/navigation"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <version> <query...>",
	Short: "Search the operations of a version",
	Long: `Search operation ids, summaries, paths and descriptions of every spec in a
version. Matching is a case-insensitive substring match; a match on a spec
title returns all of its operations.

Example:
  specportal search v2 refund
  specportal search v2 create payment --limit 5`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of hits (default: search.limit)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, catalog, err := setup()
	if err != nil {
		return err
	}
	lang, err := resolveLanguage(cfg)
	if err != nil {
		return err
	}
	if searchLimit < 0 {
		return fmt.Errorf("limit must be non-negative")
	}

	version := args[0]
	query := strings.Join(args[1:], " ")
	nav := navigation.New(catalog, navigation.WithSearchLimit(cfg.Search.Limit))
	hits := nav.Search(commandContext(cmd), lang, version, query, searchLimit)

	return render(cmd.OutOrStdout(), hits, func(w io.Writer) error {
		if len(hits) == 0 {
			fmt.Fprintf(w, "No operations match %q\n", query)
			return nil
		}
		rows := make([]string, 0, len(hits))
		for _, h := range hits {
			rows = append(rows, fmt.Sprintf("%s\t%s %s\t%s\t%s", h.SpecID, h.Operation.Method, h.Operation.Path, h.Operation.Summary, h.NavigationPath))
		}
		return table(w, "SPEC\tOPERATION\tSUMMARY\tPATH", rows)
	})
}
