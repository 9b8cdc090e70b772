// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"ratatouille/cli/internal/credential"
	apperrors "ratatouille/cli/internal/errors"
	"ratatouille/cli/internal/logging"
	"ratatouille/cli/internal/terminal"

	"github.com/spf13/cobra"
)

var (
	loginCookie bool
)

// loginCmd stores the admin user key in the OS keychain.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Save your admin user key in the OS keychain",
	Long: `The login command stores the admin user key that is attached to every webhook
request. The key is read without echo and saved in the OS keychain, never in the
config file.

With --cookie, paste the whole cookie string from the Ratatouille admin page
(for example "theme=dark; adminUserKey=..."); the adminUserKey entry is looked up
from it on every request.

The RATATOUILLE_COOKIE environment variable, when set, takes precedence over the keychain.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := "Admin user key: "
		if loginCookie {
			prompt = "Cookie string: "
		}
		secret, err := terminal.ReadSecret(prompt)
		if err != nil {
			return err
		}
		if secret == "" {
			return apperrors.New(apperrors.InputMissing, "nothing entered")
		}

		key := secret
		if loginCookie {
			key = credential.Lookup(secret)
			if key == "" {
				return apperrors.New(apperrors.InputMissing, "cookie string has no "+credential.CookieName+" entry")
			}
		}

		store, err := openStore()
		if err != nil {
			fmt.Println("❌ Secure storage is not available on this system.")
			fmt.Println("   Set RATATOUILLE_COOKIE instead, e.g. RATATOUILLE_COOKIE='adminUserKey=...'")
			return apperrors.Wrap(apperrors.CredentialStore, "keychain unavailable", err)
		}

		// Drop previous material so a stored key cannot shadow a new cookie.
		_ = store.ClearAuth()
		if loginCookie {
			err = store.SaveCookie(secret)
		} else {
			err = store.SaveAdminUserKey(key)
		}
		if err != nil {
			fmt.Println("❌ Failed to save the admin user key securely.")
			return apperrors.Wrap(apperrors.CredentialStore, "save failed", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Admin user key %s saved to the OS keychain\n", logging.MaskSecret(key))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().BoolVar(&loginCookie, "cookie", false, "Read a full cookie string instead of the bare key")
}
