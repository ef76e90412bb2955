// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/specportal/specportal/internal/access"
)

var (
	tokenRoles []string
	tokenTTL   time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token <subject>",
	Short: "Mint a development bearer token",
	Long: `Mint an HS256 bearer token signed with auth.secret for local development.

Tokens carry the subject, the given roles and an expiry. Send them as
"Authorization: Bearer <token>" to read specs protected by auth.rules.

Example:
  specportal token alice
  specportal token partner-bot --role partner --ttl 24h`,
	Args: cobra.ExactArgs(1),
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringSliceVar(&tokenRoles, "role", nil, "role to grant (repeatable)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	token, err := access.NewMinter([]byte(cfg.Auth.Secret), cfg.Auth.Issuer).Mint(args[0], tokenRoles, tokenTTL)
	if err != nil {
		return fmt.Errorf("failed to mint token: %w", err)
	}

	printVerbose("Subject: %s", args[0])
	printVerbose("Roles: %v", tokenRoles)
	printVerbose("Expires in: %s", tokenTTL)

	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
