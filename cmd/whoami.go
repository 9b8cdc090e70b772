package cmd

import (
	"fmt"
	"io"
	"os"

	"ratatouille/cli/internal/config"
	"ratatouille/cli/internal/credential"
	"ratatouille/cli/internal/logging"

	"github.com/spf13/cobra"
)

// credentialSource describes where the admin user key for the next request comes from.
type credentialSource struct {
	Origin string
	Key    string
}

// resolveCredentialSource mirrors the precedence used by credentialProvider.
func resolveCredentialSource() credentialSource {
	if key := credential.FromEnv(config.EnvCookie)(); key != "" {
		return credentialSource{Origin: config.EnvCookie + " environment variable", Key: key}
	}
	store, err := openStore()
	if err != nil {
		return credentialSource{}
	}
	if key, err := store.LoadAdminUserKey(); err == nil && key != "" {
		return credentialSource{Origin: "OS keychain (admin user key)", Key: key}
	}
	if cookies, err := store.LoadCookie(); err == nil {
		if key := credential.Lookup(cookies); key != "" {
			return credentialSource{Origin: "OS keychain (cookie string)", Key: key}
		}
	}
	return credentialSource{}
}

func printCredentialSource(w io.Writer, src credentialSource) {
	if src.Key == "" {
		fmt.Fprintln(w, "🔒 No admin user key configured.")
		fmt.Fprintln(w, "   Requests will be sent with an empty adminUserKey.")
		fmt.Fprintln(w, "   Run 'ratatouille login' to save one.")
		return
	}
	fmt.Fprintf(w, "👤 Admin user key: %s\n", logging.MaskSecret(src.Key))
	fmt.Fprintf(w, "   Source: %s\n", src.Origin)
}

// whoamiCmd shows which admin user key will be attached to requests.
var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me"},
	Short:   "Show which admin user key will be sent",
	Long: `The whoami command shows the admin user key (masked) that the next request will
carry and where it comes from. It does not contact the webhooks: the server alone
decides whether a key is valid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// .env may provide RATATOUILLE_COOKIE
		if _, err := config.Load(); err != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "[DEBUG] whoami: config.Load() error: %v\n", err)
		}
		printCredentialSource(cmd.OutOrStdout(), resolveCredentialSource())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
