// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"ratatouille/cli/internal/api"
	"ratatouille/cli/internal/render"
	"ratatouille/cli/internal/terminal"

	"github.com/spf13/cobra"
)

var (
	queryRaw bool
)

// queryCmd sends a SQL-style query to the SQL_QUERY webhook and prints the result.
var queryCmd = &cobra.Command{
	Use:     "query [SQL...]",
	Aliases: []string{"q", "sql"},
	Short:   "Send a SQL query to the Ratatouille query webhook",
	Long: `The query command sends a SQL-style query to the query webhook together with the
project key and your admin user key, then prints the JSON the webhook returns.

The query is taken from the arguments, or read from stdin when no arguments are given.
Lists of rows are printed as a table; use --json to print the raw JSON instead.
The query text is forwarded as-is; the webhook decides what it accepts.`,
	Example: `  ratatouille query "SELECT name FROM recipes LIMIT 5"
  echo "SELECT 1" | ratatouille query --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			query string
			err   error
		)
		if len(args) == 0 && terminal.IsInteractive() {
			fmt.Fprint(cmd.OutOrStdout(), "SQL › ")
			query, err = terminal.ReadLine(cmd.InOrStdin())
			if err != nil {
				return err
			}
			query, err = readInput([]string{query}, nil, "query")
		} else {
			query, err = readInput(args, cmd.InOrStdin(), "query")
		}
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		stop := startSpinner("Running query")
		result, err := client.SubmitQuery(cmd.Context(), query)
		stop()
		if err != nil {
			return presentRequestError(err, "sending the query", client.Config().URL(api.EndpointSQLQuery))
		}
		return render.Query(cmd.OutOrStdout(), result, queryRaw)
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().BoolVar(&queryRaw, "json", false, "Print the raw JSON result")
}
