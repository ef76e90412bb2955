// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

// Package main is the entry point for the specportal CLI.
package main

import (
	"fmt"
	"os"

	"github.com/specportal/specportal/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}
