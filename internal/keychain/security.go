// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package keychain

import (
	"os"
	"strings"

	"ratatouille/cli/internal/logging"

	"github.com/pterm/pterm"
)

// securityOp is one subcommand of the macOS security tool.
type securityOp string

const (
	opAdd    securityOp = "add-generic-password"
	opFind   securityOp = "find-generic-password"
	opDelete securityOp = "delete-generic-password"
)

// securityArgs builds the argument list for one security invocation.
// Items are stored with the service namespace as account and the key as service.
// The value is only passed for opAdd.
func securityArgs(op securityOp, key, value string) []string {
	args := []string{string(op), "-a", ServiceName, "-s", key}
	switch op {
	case opAdd:
		args = append(args, "-w", value, "-U")
	case opFind:
		args = append(args, "-w")
	}
	return args
}

// isItemNotFound reports whether security's stderr says the item does not exist.
func isItemNotFound(stderr string) bool {
	return strings.Contains(stderr, "could not be found")
}

// backendLogger returns the logger for keychain diagnostics. It stays silent
// unless RATATOUILLE_VERBOSE=1, which --verbose sets before commands run.
func backendLogger() *pterm.Logger {
	return logging.NewLogger(os.Stderr, "off", os.Getenv("RATATOUILLE_VERBOSE") == "1")
}
