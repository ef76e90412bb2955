// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/specportal/specportal/internal/navigation"
)

var versionsCmd = &cobra.Command{
	Use:   "versions <service>",
	Short: "List the versions of a service",
	Long: `List the version directories of a service, newest first, with their
localized label and badge.

Example:
  specportal versions payment-api
  specportal versions payment-api --lang ar`,
	Args: cobra.ExactArgs(1),
	RunE: runVersions,
}

func runVersions(cmd *cobra.Command, args []string) error {
	cfg, catalog, err := setup()
	if err != nil {
		return err
	}
	lang, err := resolveLanguage(cfg)
	if err != nil {
		return err
	}
	service := args[0]

	versions, err := navigation.New(catalog).Versions(commandContext(cmd), service, lang)
	if err != nil {
		return fmt.Errorf("failed to list versions of %s: %w", service, err)
	}

	return render(cmd.OutOrStdout(), versions, func(w io.Writer) error {
		if len(versions) == 0 {
			fmt.Fprintf(w, "No versions found for %s (%s)\n", service, lang)
			return nil
		}
		rows := make([]string, 0, len(versions))
		for _, v := range versions {
			exists := "yes"
			if !v.SpecExists {
				exists = "no"
			}
			rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%s", v.Version, v.Label, v.Badge, exists))
		}
		return table(w, "VERSION\tLABEL\tBADGE\tSPEC", rows)
	})
}
