// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/specportal/specportal/internal/navigation"
)

var headerCmd = &cobra.Command{
	Use:   "header <version>",
	Short: "Show the header navigation of a version",
	Long: `Show the header navigation entries for a language and version: one entry
per spec with its navigation path and its first operations.

Example:
  specportal header v2
  specportal header v2 --lang ar -f json`,
	Args: cobra.ExactArgs(1),
	RunE: runHeader,
}

func runHeader(cmd *cobra.Command, args []string) error {
	cfg, catalog, err := setup()
	if err != nil {
		return err
	}
	lang, err := resolveLanguage(cfg)
	if err != nil {
		return err
	}

	nav := navigation.New(catalog, navigation.WithMaxOperations(cfg.Header.MaxOperations))
	header := nav.Header(commandContext(cmd), lang, args[0])

	return render(cmd.OutOrStdout(), header, func(w io.Writer) error {
		for _, h := range header {
			fmt.Fprintf(w, "%s (%s)\n", h.Title, h.NavigationPath)
			for _, op := range h.Operations {
				fmt.Fprintf(w, "  %-7s %s  %s\n", op.Method, op.Path, op.Summary)
			}
		}
		return nil
	})
}
