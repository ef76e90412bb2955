// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version information set via ldflags during build.
var (
	// Version is the semantic version of the application.
	Version = "dev"

	// Commit is the git commit hash.
	Commit = "unknown"

	// BuildDate is the date the binary was built.
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long: `Print the version, commit hash, build date, and Go version.

Binaries installed with "go install" report the module version and VCS
revision recorded by the Go toolchain.`,
	Run: func(cmd *cobra.Command, args []string) {
		version, commit, date := buildInfo()
		cmd.Printf("specportal %s\n", version)
		cmd.Printf("  Commit:     %s\n", commit)
		cmd.Printf("  Build Date: %s\n", date)
		cmd.Printf("  Go Version: %s\n", runtime.Version())
		cmd.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

// buildInfo returns the ldflags values, filled from the embedded build info
// where they were not set.
func buildInfo() (version, commit, date string) {
	version, commit, date = Version, Commit, BuildDate

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version, commit, date
	}
	if version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if commit == "unknown" {
				commit = s.Value
			}
		case "vcs.time":
			if date == "unknown" {
				date = s.Value
			}
		}
	}
	return version, commit, date
}

// GetVersionInfo returns formatted version information.
func GetVersionInfo() string {
	version, commit, date := buildInfo()
	return fmt.Sprintf("specportal %s (commit: %s, built: %s)", version, commit, date)
}
