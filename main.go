// Package main is the entry point for the Ratatouille CLI application.
// It forwards queries and chat messages to the Ratatouille webhooks.
package main

import (
	"ratatouille/cli/cmd"
)

// main is the entry point for the Ratatouille CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
