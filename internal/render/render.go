// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package render prints webhook results to the terminal.
// Query results have no fixed schema, so the shape is inspected at runtime:
// arrays of objects become tables, single objects become key/value tables and
// anything else is printed as indented JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"ratatouille/cli/internal/api"

	"github.com/pterm/pterm"
)

// Table converts a query result into table rows with a header row first.
// It reports false when the value has no tabular shape.
func Table(v any) ([][]string, bool) {
	switch val := v.(type) {
	case []any:
		return rowsTable(val)
	case map[string]any:
		if len(val) == 0 {
			return nil, false
		}
		keys := sortedKeys(val)
		data := [][]string{{"Field", "Value"}}
		for _, k := range keys {
			data = append(data, []string{k, cell(val[k])})
		}
		return data, true
	default:
		return nil, false
	}
}

// rowsTable builds a table from a list of objects; columns are the sorted union of keys.
func rowsTable(rows []any) ([][]string, bool) {
	if len(rows) == 0 {
		return nil, false
	}
	seen := make(map[string]struct{})
	objects := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		m, ok := r.(map[string]any)
		if !ok {
			return nil, false
		}
		objects = append(objects, m)
		for k := range m {
			seen[k] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil, false
	}
	columns := make([]string, 0, len(seen))
	for k := range seen {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	data := [][]string{columns}
	for _, m := range objects {
		row := make([]string, len(columns))
		for i, col := range columns {
			if v, ok := m[col]; ok {
				row[i] = cell(v)
			}
		}
		data = append(data, row)
	}
	return data, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// cell formats one value for a table cell.
func cell(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return val
	case json.Number:
		return val.String()
	case float64, bool:
		return fmt.Sprint(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

// Query writes a query result to w. With raw set the value is printed as JSON only.
func Query(w io.Writer, v any, raw bool) error {
	if !raw {
		if data, ok := Table(v); ok {
			out, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, out)
			return err
		}
	}
	return JSON(w, v)
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// ChatMessage writes a chat reply to w. Replies without text fall back to the raw body.
func ChatMessage(w io.Writer, msg api.ChatMessage, raw bool) error {
	if raw || msg.Text == "" {
		if len(msg.Raw) == 0 {
			return JSON(w, msg)
		}
		var v any
		if err := json.Unmarshal(msg.Raw, &v); err != nil {
			return err
		}
		return JSON(w, v)
	}
	title := "🐀 Ratatouille"
	if msg.Timestamp != "" {
		title += " · " + msg.Timestamp
	}
	box := pterm.DefaultBox.
		WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(title)).
		WithTopPadding(1).
		WithBottomPadding(1).
		WithLeftPadding(1).
		WithRightPadding(1).
		Sprint(msg.Text)
	_, err := fmt.Fprintln(w, box)
	return err
}
