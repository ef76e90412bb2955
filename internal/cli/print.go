// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/specportal/specportal/internal/navigation"
	"github.com/specportal/specportal/internal/openapi"
	"github.com/specportal/specportal/pkg/types"
)

var (
	printOperation string
	printOutput    string
)

var printCmd = &cobra.Command{
	Use:   "print <service> [version]",
	Short: "Print an OpenAPI specification to stdout",
	Long: `Print a discovered OpenAPI specification to standard output.

Without a version the newest version directory holding a loadable spec is
used. With --operation the generated parameter, request and response
examples of one operation are printed instead of the document.

This is useful for piping the output to other tools or for quick inspection.

Example:
  specportal print payment-api                   # Newest version as YAML
  specportal print payment-api v1 -f json        # v1 as JSON
  specportal print payment-api --operation createPayment
  specportal print payment-api -f json | jq '.paths'
  specportal print payment-api v2 -o out/payment.json  # Write to a file`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPrint,
}

func init() {
	printCmd.Flags().StringVar(&printOperation, "operation", "", "print examples for one operation id")
	printCmd.Flags().StringVarP(&printOutput, "output", "o", "", "write the document to a file (format from extension unless --format is json or yaml)")
}

func runPrint(cmd *cobra.Command, args []string) error {
	cfg, catalog, err := setup()
	if err != nil {
		return err
	}
	lang, err := resolveLanguage(cfg)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	service := args[0]

	version := ""
	if len(args) > 1 {
		version = args[1]
	} else {
		latest, ok := navigation.New(catalog).LatestVersion(ctx, service, lang)
		if !ok {
			return fmt.Errorf("no versions of %s found for language %s", service, lang)
		}
		version = latest
		printVerbose("Using latest version: %s", version)
	}

	spec, ok := catalog.Spec(ctx, service, lang, version)
	if !ok {
		return fmt.Errorf("spec %s not found for %s/%s", service, lang, version)
	}

	if printOperation != "" {
		detail, ok := spec.Document.OperationDetail(printOperation)
		if !ok {
			return fmt.Errorf("operation %s not found in %s", printOperation, spec.ID)
		}
		return render(cmd.OutOrStdout(), detail, func(w io.Writer) error {
			return printOperationDetail(w, detail)
		})
	}

	format := outputFormat
	if format == "text" {
		format = ""
	}

	writer := openapi.NewWriter()
	if printOutput != "" {
		if err := writer.WriteFile(spec.Document, printOutput, format); err != nil {
			return err
		}
		printInfo("Wrote %s", printOutput)
		return nil
	}
	return writer.Write(spec.Document, cmd.OutOrStdout(), format)
}

func printOperationDetail(w io.Writer, d types.OperationDetail) error {
	fmt.Fprintf(w, "%s %s\n", d.Method, d.Path)
	fmt.Fprintf(w, "  %s\n", d.Summary)

	if len(d.Parameters) > 0 {
		fmt.Fprintln(w, "\nParameters:")
		for _, p := range d.Parameters {
			required := ""
			if p.Required {
				required = " (required)"
			}
			fmt.Fprintf(w, "  %s [%s]%s = %v\n", p.Name, p.In, required, p.Example)
		}
	}

	writer := openapi.NewWriter()
	if d.RequestExample != nil {
		fmt.Fprintf(w, "\nRequest (%s):\n", d.RequestContentType)
		if err := writer.WriteValueJSON(d.RequestExample, w); err != nil {
			return err
		}
	}

	for _, r := range d.Responses {
		fmt.Fprintf(w, "\nResponse %s", r.Status)
		if r.Description != "" {
			fmt.Fprintf(w, " %s", r.Description)
		}
		fmt.Fprintln(w)
		if r.Example != nil {
			if err := writer.WriteValueJSON(r.Example, w); err != nil {
				return err
			}
		}
	}
	return nil
}
