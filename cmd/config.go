// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"ratatouille/cli/internal/api"
	"ratatouille/cli/internal/config"
	apperrors "ratatouille/cli/internal/errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// configCmd shows the effective webhook configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective webhook configuration",
	Long: `The config command prints the webhook URLs, project key and log level in effect
after applying the config file, .env and environment overrides.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return apperrors.Wrap(apperrors.ConfigInvalid, "cannot load configuration", err)
		}
		path, _ := config.Path()

		data := [][]string{
			{"Setting", "Value"},
			{string(api.EndpointSQLQuery), cfg.Endpoints.SQLQuery},
			{string(api.EndpointChatMessage), cfg.Endpoints.ChatMessage},
			{"Project key", cfg.ProjectKey},
			{"Log level", cfg.LogLevel},
			{"Config file", path},
		}
		out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)

		if _, err := cfg.API(); err != nil {
			pterm.Warning.Printf("Configuration is not usable: %v\n", err)
		}
		return nil
	},
}

// configInitCmd writes the effective configuration to the config file.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return apperrors.Wrap(apperrors.ConfigInvalid, "cannot load configuration", err)
		}
		if _, err := cfg.API(); err != nil {
			return apperrors.Wrap(apperrors.ConfigInvalid, "refusing to save an unusable configuration", err)
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		path, _ := config.Path()
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Configuration written to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
}
