// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pterm/pterm"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]pterm.LogLevel{
		"debug":   pterm.LogLevelDebug,
		" WARN ":  pterm.LogLevelWarn,
		"error":   pterm.LogLevelError,
		"off":     pterm.LogLevelDisabled,
		"":        pterm.LogLevelInfo,
		"chatty":  pterm.LogLevelInfo,
		"trace":   pterm.LogLevelTrace,
		"warning": pterm.LogLevelWarn,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerVerbose(t *testing.T) {
	var buf bytes.Buffer

	quiet := NewLogger(&buf, "info", false)
	quiet.Debug("hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("debug record printed at info level: %q", buf.String())
	}

	loud := NewLogger(&buf, "info", true)
	loud.Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug record missing in verbose mode: %q", buf.String())
	}
}
