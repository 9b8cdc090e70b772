// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the Ratatouille CLI.
// It implements subcommands for sending SQL-style queries and chat messages to the
// Ratatouille webhooks and for managing the admin user key, using the Cobra CLI
// framework with pterm for terminal output.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"ratatouille/cli/internal/api"
	"ratatouille/cli/internal/config"
	"ratatouille/cli/internal/credential"
	apperrors "ratatouille/cli/internal/errors"
	"ratatouille/cli/internal/keychain"
	"ratatouille/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	showVersion bool
	verbose     bool
)

// credentialStore is the keychain surface the commands use.
type credentialStore interface {
	credential.Store
	SaveAdminUserKey(key string) error
	SaveCookie(cookies string) error
	ClearAuth() error
}

// openStore opens the credential store. Tests replace it to avoid the OS keychain.
var openStore = func() (credentialStore, error) {
	return keychain.GetManager()
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "ratatouille",
	Short:         "Ratatouille CLI for querying and chatting with the Ratatouille webhooks",
	Long:          `Ratatouille is a command-line client that forwards SQL-style queries and chat messages to the Ratatouille automation webhooks, signed with your project key and admin user key.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Enable verbose mode for all modules if --verbose is set
		if verbose {
			os.Setenv(config.EnvVerbose, "1")
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Fprintf(cmd.OutOrStdout(), "ratatouille %s\n", Version)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
// Ctrl+C cancels the in-flight webhook request.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		fmt.Fprintln(os.Stderr, logging.PresentError("error", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version information")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose debug output")
}

// isVerbose reports whether debug output was requested by flag or environment.
func isVerbose() bool {
	return verbose || os.Getenv(config.EnvVerbose) == "1"
}

// newLogger builds the CLI logger for the configured level.
func newLogger(cfg config.Config) *pterm.Logger {
	return logging.NewLogger(os.Stderr, cfg.LogLevel, isVerbose())
}

// credentialProvider resolves the admin user key from RATATOUILLE_COOKIE first,
// then from the OS keychain. Both are read again on every request.
func credentialProvider(logger *pterm.Logger) credential.Provider {
	providers := []credential.Provider{credential.FromEnv(config.EnvCookie)}
	store, err := openStore()
	if err != nil {
		logger.Debug("keychain unavailable", logger.Args("error", err.Error()))
	} else {
		providers = append(providers, credential.FromStore(store))
	}
	return credential.First(providers...)
}

// newClient loads configuration and builds the webhook client.
func newClient() (*api.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ConfigInvalid, "cannot load configuration", err)
	}
	apiCfg, err := cfg.API()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ConfigInvalid, "invalid webhook configuration", err)
	}
	logger := newLogger(cfg)
	client, err := api.New(apiCfg, credentialProvider(logger), api.WithLogger(logger))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ConfigInvalid, "invalid webhook configuration", err)
	}
	return client, nil
}
