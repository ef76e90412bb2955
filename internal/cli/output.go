// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/specportal/specportal/internal/openapi"
)

// render writes v in the --format encoding, or calls text for plain output.
func render(w io.Writer, v any, text func(io.Writer) error) error {
	switch outputFormat {
	case "", "text":
		return text(w)
	case "json":
		return openapi.NewWriter().WriteValueJSON(v, w)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q, must be one of: text, json, yaml", outputFormat)
	}
}

// table writes tab-separated rows aligned into columns.
func table(w io.Writer, header string, rows []string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, row := range rows {
		fmt.Fprintln(tw, row)
	}
	return tw.Flush()
}
