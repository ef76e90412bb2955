// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/specportal/specportal/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list <version>",
	Short: "List the specs of a version",
	Long: `List the API specs discovered for a language and version directory.

When no spec exists in the versioned layout for the language, specs in the
flat legacy layout are listed instead.

Example:
  specportal list v2                  # English specs of v2
  specportal list v1 --lang ar        # Arabic specs of v1
  specportal list v2 -f json          # As JSON`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, catalog, err := setup()
	if err != nil {
		return err
	}
	lang, err := resolveLanguage(cfg)
	if err != nil {
		return err
	}
	version := args[0]

	specs := catalog.ListSpecs(commandContext(cmd), lang, version)
	summaries := make([]types.SpecSummary, 0, len(specs))
	for _, s := range specs {
		summaries = append(summaries, s.Summary())
	}

	return render(cmd.OutOrStdout(), summaries, func(w io.Writer) error {
		if len(summaries) == 0 {
			fmt.Fprintf(w, "No specs found for %s/%s\n", lang, version)
			return nil
		}
		rows := make([]string, 0, len(summaries))
		for _, s := range summaries {
			declared := s.DeclaredVersion
			if s.Legacy {
				declared += " (legacy)"
			}
			rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%d", s.ID, s.Title, declared, s.OperationCount))
		}
		return table(w, "ID\tTITLE\tVERSION\tOPERATIONS", rows)
	})
}
