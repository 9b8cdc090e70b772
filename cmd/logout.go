// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	apperrors "ratatouille/cli/internal/errors"

	"github.com/spf13/cobra"
)

// logoutCmd removes stored credentials from the OS keychain.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved admin user key",
	Long: `The logout command removes the admin user key and any saved cookie string from
the OS keychain. Requests made afterwards carry an empty admin user key unless
RATATOUILLE_COOKIE is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return apperrors.Wrap(apperrors.CredentialStore, "keychain unavailable", err)
		}
		if err := store.ClearAuth(); err != nil {
			return apperrors.Wrap(apperrors.CredentialStore, "clear failed", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Admin user key removed from the OS keychain")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
