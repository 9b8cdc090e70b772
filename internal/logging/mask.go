// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides the CLI logger and utilities for secure logging.
// It includes functions for masking credentials in log messages and formatting
// errors for user-friendly display without exposing the admin user key.
package logging

import (
	"regexp"
	"strings"
)

var (
	reAdminKey  = regexp.MustCompile(`(adminUserKey=)([^\s;]+)`)
	reAdminJSON = regexp.MustCompile(`("adminUserKey"\s*:\s*")([^"]+)(")`)
	reToken     = regexp.MustCompile(`(?i)(token=|bearer\s+)([A-Za-z0-9._-]+)`)
	reAPIKey    = regexp.MustCompile(`(?i)(apikey=|api_key=)([^\s;]+)`)
)

// Mask replaces sensitive values in the input string with "***".
func Mask(s string) string {
	out := s
	out = reAdminKey.ReplaceAllString(out, "$1***")
	out = reAdminJSON.ReplaceAllString(out, "$1***$3")
	out = reToken.ReplaceAllString(out, "$1***")
	out = reAPIKey.ReplaceAllString(out, "$1***")
	for _, k := range []string{"RATATOUILLE_COOKIE"} {
		out = strings.ReplaceAll(out, k+"=", k+"=***")
	}
	return out
}

// MaskSecret keeps the first and last two characters of a secret for display.
// Short secrets are hidden completely.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 6 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:2] + strings.Repeat("*", len(secret)-4) + secret[len(secret)-2:]
}
