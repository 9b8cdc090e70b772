// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package render

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"ratatouille/cli/internal/api"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("decode %s: %v", s, err)
	}
	return v
}

func TestTable(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   [][]string
		wantOK bool
	}{
		{
			name:  "rows with differing keys",
			input: `[{"id":1,"name":"soup"},{"id":2,"spicy":true,"name":null}]`,
			want: [][]string{
				{"id", "name", "spicy"},
				{"1", "soup", ""},
				{"2", "NULL", "true"},
			},
			wantOK: true,
		},
		{
			name:  "single object",
			input: `{"count":3,"tags":["a","b"]}`,
			want: [][]string{
				{"Field", "Value"},
				{"count", "3"},
				{"tags", `["a","b"]`},
			},
			wantOK: true,
		},
		{name: "empty array", input: `[]`},
		{name: "array of scalars", input: `[1,2]`},
		{name: "array of empty objects", input: `[{}]`},
		{name: "scalar", input: `"done"`},
		{name: "empty object", input: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Table(decode(t, tt.input))
			if ok != tt.wantOK {
				t.Fatalf("Table() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Table() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQueryRawPrintsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Query(&buf, decode(t, `[{"id":1}]`), true); err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"id": 1`) {
		t.Errorf("Query(raw) = %q, want indented JSON", buf.String())
	}
}

func TestQueryTableContainsValues(t *testing.T) {
	var buf bytes.Buffer
	if err := Query(&buf, decode(t, `[{"dish":"ratatouille"}]`), false); err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "dish") || !strings.Contains(out, "ratatouille") {
		t.Errorf("Query() = %q, want table with header and value", out)
	}
}

func TestChatMessageFallsBackToRaw(t *testing.T) {
	var buf bytes.Buffer
	msg := api.ChatMessage{Raw: json.RawMessage(`{"error":"unauthorized"}`)}
	if err := ChatMessage(&buf, msg, false); err != nil {
		t.Fatalf("ChatMessage() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"error": "unauthorized"`) {
		t.Errorf("ChatMessage() = %q, want raw body", buf.String())
	}
}

func TestChatMessageText(t *testing.T) {
	var buf bytes.Buffer
	msg := api.ChatMessage{ID: 1, Type: "ai", Text: "Anyone can cook", Timestamp: "2025-01-01T00:00:00Z"}
	if err := ChatMessage(&buf, msg, false); err != nil {
		t.Fatalf("ChatMessage() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Anyone can cook") {
		t.Errorf("ChatMessage() = %q, want reply text", buf.String())
	}
}

func TestTableKeepsExactNumbers(t *testing.T) {
	rows := []any{
		map[string]any{"id": json.Number("12345678901234567890"), "total": json.Number("1e400")},
	}
	got, ok := Table(rows)
	if !ok {
		t.Fatal("Table() ok = false, want true")
	}
	want := [][]string{
		{"id", "total"},
		{"12345678901234567890", "1e400"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Table() = %v, want %v", got, want)
	}

	var buf bytes.Buffer
	if err := Query(&buf, rows, true); err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"id": 12345678901234567890`) {
		t.Errorf("Query(raw) = %q, want the id digits unchanged", buf.String())
	}
}
