// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"

	"ratatouille/cli/internal/credential"

	"github.com/pterm/pterm"
)

// recorder captures every request the webhook server receives.
type recorder struct {
	mu       sync.Mutex
	paths    []string
	methods  []string
	types    []string
	bodies   []map[string]any
	response string
	status   int
}

func (r *recorder) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		r.mu.Lock()
		r.paths = append(r.paths, req.URL.Path)
		r.methods = append(r.methods, req.Method)
		r.types = append(r.types, req.Header.Get("Content-Type"))
		r.bodies = append(r.bodies, body)
		r.mu.Unlock()

		if r.status != 0 {
			w.WriteHeader(r.status)
		}
		_, _ = io.WriteString(w, r.response)
	}
}

func newTestClient(t *testing.T, rec *recorder, provider credential.Provider, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(rec.handler(t))
	t.Cleanup(srv.Close)

	cfg := Config{
		Endpoints: map[Endpoint]string{
			EndpointSQLQuery:    srv.URL + "/webhook/endpoint",
			EndpointChatMessage: srv.URL + "/webhook/ratatouille-chat",
		},
		ProjectKey: DefaultProjectKey,
	}
	c, err := New(cfg, provider, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestSubmitQueryScenario(t *testing.T) {
	rec := &recorder{response: `[{"id":1,"name":"soup"}]`}
	c := newTestClient(t, rec, credential.FromCookieString("theme=dark; adminUserKey=abc123"))

	got, err := c.SubmitQuery(context.Background(), "SELECT 1")
	if err != nil {
		t.Fatalf("SubmitQuery() error = %v", err)
	}

	if len(rec.bodies) != 1 {
		t.Fatalf("server received %d requests, want 1", len(rec.bodies))
	}
	if rec.methods[0] != http.MethodPost {
		t.Errorf("method = %s, want POST", rec.methods[0])
	}
	if rec.paths[0] != "/webhook/endpoint" {
		t.Errorf("path = %s, want /webhook/endpoint", rec.paths[0])
	}
	if rec.types[0] != ContentType {
		t.Errorf("Content-Type = %q, want %q", rec.types[0], ContentType)
	}
	wantBody := map[string]any{
		"query":        "SELECT 1",
		"projectKey":   "0f3f0bb0a0a62250c16fc6aaf2525160",
		"adminUserKey": "abc123",
	}
	if !reflect.DeepEqual(rec.bodies[0], wantBody) {
		t.Errorf("body = %v, want %v", rec.bodies[0], wantBody)
	}

	wantResult := []any{map[string]any{"id": json.Number("1"), "name": "soup"}}
	if !reflect.DeepEqual(got, wantResult) {
		t.Errorf("SubmitQuery() = %v, want %v", got, wantResult)
	}
}

func TestSubmitQueryPassesQueryUnchanged(t *testing.T) {
	queries := []string{
		"",
		"DROP TABLE recipes; --",
		"SELECT '\"quoted\"', 'üñï' FROM x\nWHERE y = 1",
	}
	for _, q := range queries {
		rec := &recorder{response: `{}`}
		c := newTestClient(t, rec, nil)
		if _, err := c.SubmitQuery(context.Background(), q); err != nil {
			t.Fatalf("SubmitQuery(%q) error = %v", q, err)
		}
		if got := rec.bodies[0]["query"]; got != q {
			t.Errorf("query field = %q, want %q", got, q)
		}
		if got := rec.bodies[0]["adminUserKey"]; got != "" {
			t.Errorf("adminUserKey with nil provider = %q, want empty", got)
		}
	}
}

func TestSubmitChatMessage(t *testing.T) {
	rec := &recorder{response: `{"id":7,"type":"ai","text":"Bonjour","timestamp":"2025-01-01T00:00:00Z"}`}
	c := newTestClient(t, rec, credential.FromCookieString("adminUserKey=XYZ"))

	got, err := c.SubmitChatMessage(context.Background(), "hello chef")
	if err != nil {
		t.Fatalf("SubmitChatMessage() error = %v", err)
	}

	if rec.paths[0] != "/webhook/ratatouille-chat" {
		t.Errorf("path = %s, want /webhook/ratatouille-chat", rec.paths[0])
	}
	wantBody := map[string]any{
		"message":      "hello chef",
		"projectKey":   DefaultProjectKey,
		"adminUserKey": "XYZ",
	}
	if !reflect.DeepEqual(rec.bodies[0], wantBody) {
		t.Errorf("body = %v, want %v", rec.bodies[0], wantBody)
	}
	if got.ID != 7 || got.Type != ChatMessageTypeAI || got.Text != "Bonjour" || got.Timestamp != "2025-01-01T00:00:00Z" {
		t.Errorf("SubmitChatMessage() = %+v", got)
	}
}

func TestSubmitChatMessagePassesThroughUnexpectedShapes(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantText string
	}{
		{name: "error object", response: `{"error":"unauthorized"}`},
		{name: "array", response: `[1,2,3]`},
		{name: "id as string", response: `{"id":"x1","text":"still here"}`, wantText: "still here"},
		{name: "null", response: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{response: tt.response}
			c := newTestClient(t, rec, nil)

			got, err := c.SubmitChatMessage(context.Background(), "hi")
			if err != nil {
				t.Fatalf("SubmitChatMessage() error = %v", err)
			}
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if string(got.Raw) != tt.response {
				t.Errorf("Raw = %s, want %s", got.Raw, tt.response)
			}
		})
	}
}

func TestNonSuccessStatusIsNotAnError(t *testing.T) {
	for _, status := range []int{http.StatusForbidden, http.StatusInternalServerError} {
		rec := &recorder{response: `{"message":"forbidden"}`, status: status}
		c := newTestClient(t, rec, nil)

		got, err := c.SubmitQuery(context.Background(), "SELECT 1")
		if err != nil {
			t.Fatalf("SubmitQuery() status %d error = %v", status, err)
		}
		want := map[string]any{"message": "forbidden"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("SubmitQuery() status %d = %v, want %v", status, got, want)
		}

		rec.response = `{"id":9,"type":"ai","text":"kitchen closed","timestamp":"t"}`
		msg, err := c.SubmitChatMessage(context.Background(), "hi")
		if err != nil {
			t.Fatalf("SubmitChatMessage() status %d error = %v", status, err)
		}
		if msg.ID != 9 || msg.Text != "kitchen closed" {
			t.Errorf("SubmitChatMessage() status %d = %+v", status, msg)
		}
		if string(msg.Raw) != rec.response {
			t.Errorf("Raw = %s, want %s", msg.Raw, rec.response)
		}
	}
}

func TestSubmitQueryKeepsNumbersExact(t *testing.T) {
	rec := &recorder{response: `{"total":1e400,"id":12345678901234567890,"ratio":0.1}`}
	c := newTestClient(t, rec, nil)

	got, err := c.SubmitQuery(context.Background(), "SELECT count(*) FROM orders")
	if err != nil {
		t.Fatalf("SubmitQuery() error = %v", err)
	}
	want := map[string]any{
		"total": json.Number("1e400"),
		"id":    json.Number("12345678901234567890"),
		"ratio": json.Number("0.1"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SubmitQuery() = %#v, want %#v", got, want)
	}

	out, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("re-encode result: %v", err)
	}
	if !strings.Contains(string(out), `"id":12345678901234567890`) {
		t.Errorf("re-encoded result = %s, want the id digits unchanged", out)
	}
}

func TestSubmitQueryRejectsTrailingData(t *testing.T) {
	rec := &recorder{response: `{"a":1} {"b":2}`}
	c := newTestClient(t, rec, nil)

	_, err := c.SubmitQuery(context.Background(), "SELECT 1")
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Errorf("SubmitQuery() error = %v, want *json.SyntaxError", err)
	}
}

func TestInvalidUTF8IsNotSent(t *testing.T) {
	doer := &failingDoer{err: errors.New("unreachable")}
	c, err := New(DefaultConfig(), nil, WithHTTPClient(doer))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.SubmitQuery(context.Background(), "SELECT '\xff'"); !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("SubmitQuery() error = %v, want ErrInvalidUTF8", err)
	}
	if _, err := c.SubmitChatMessage(context.Background(), "caf\xe9"); !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("SubmitChatMessage() error = %v, want ErrInvalidUTF8", err)
	}
	if doer.calls != 0 {
		t.Errorf("transport called %d times, want 0", doer.calls)
	}
}

func TestInvalidJSONResponse(t *testing.T) {
	for _, body := range []string{"<html>502</html>", ""} {
		rec := &recorder{response: body}
		c := newTestClient(t, rec, nil)

		if _, err := c.SubmitQuery(context.Background(), "SELECT 1"); err == nil {
			t.Errorf("SubmitQuery() with body %q: expected error", body)
		}
		_, err := c.SubmitChatMessage(context.Background(), "hi")
		if err == nil {
			t.Errorf("SubmitChatMessage() with body %q: expected error", body)
		}
		var syntaxErr *json.SyntaxError
		if body != "" && !errors.As(err, &syntaxErr) {
			t.Errorf("SubmitChatMessage() error = %T, want *json.SyntaxError", err)
		}
	}
}

type failingDoer struct {
	err   error
	calls int
}

func (f *failingDoer) Do(*http.Request) (*http.Response, error) {
	f.calls++
	return nil, f.err
}

func TestTransportErrorPropagatesUnmodified(t *testing.T) {
	errNetwork := errors.New("connection refused")
	doer := &failingDoer{err: errNetwork}
	c, err := New(DefaultConfig(), nil, WithHTTPClient(doer))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := c.SubmitQuery(context.Background(), "SELECT 1"); err != errNetwork {
		t.Errorf("SubmitQuery() error = %v, want %v", err, errNetwork)
	}
	if _, err := c.SubmitChatMessage(context.Background(), "hi"); err != errNetwork {
		t.Errorf("SubmitChatMessage() error = %v, want %v", err, errNetwork)
	}
	if doer.calls != 2 {
		t.Errorf("transport called %d times, want 2 (no retries)", doer.calls)
	}
}

func TestCredentialReadOnEveryRequest(t *testing.T) {
	rec := &recorder{response: `{}`}
	jar := "adminUserKey=first"
	c := newTestClient(t, rec, credential.FromCookieFunc(func() string { return jar }))

	if _, err := c.SubmitQuery(context.Background(), "a"); err != nil {
		t.Fatal(err)
	}
	jar = "theme=dark"
	if _, err := c.SubmitChatMessage(context.Background(), "b"); err != nil {
		t.Fatal(err)
	}

	if got := rec.bodies[0]["adminUserKey"]; got != "first" {
		t.Errorf("first request adminUserKey = %v, want first", got)
	}
	if got := rec.bodies[1]["adminUserKey"]; got != "" {
		t.Errorf("second request adminUserKey = %v, want empty", got)
	}
}

func TestDiagnosticsNeverContainCredential(t *testing.T) {
	var buf bytes.Buffer
	logger := pterm.DefaultLogger.WithLevel(pterm.LogLevelTrace).WithWriter(&buf)

	rec := &recorder{response: `{}`}
	c := newTestClient(t, rec, credential.FromCookieString("adminUserKey=super-secret-value"), WithLogger(logger))

	if _, err := c.SubmitQuery(context.Background(), "SELECT 1"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "admin user key lookup") {
		t.Errorf("expected a lookup diagnostic, got %q", out)
	}
	if strings.Contains(out, "super-secret-value") {
		t.Errorf("diagnostic output leaked the credential: %q", out)
	}
}

func TestConcurrentCallsAreIndependent(t *testing.T) {
	rec := &recorder{response: `{"ok":true}`}
	c := newTestClient(t, rec, credential.FromCookieString("adminUserKey=k"))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.SubmitQuery(context.Background(), "SELECT 1"); err != nil {
				t.Errorf("SubmitQuery() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if len(rec.bodies) != 16 {
		t.Errorf("server received %d requests, want 16", len(rec.bodies))
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "missing chat endpoint", mutate: func(c *Config) { delete(c.Endpoints, EndpointChatMessage) }, wantErr: true},
		{name: "relative query endpoint", mutate: func(c *Config) { c.Endpoints[EndpointSQLQuery] = "/webhook/endpoint" }, wantErr: true},
		{name: "empty project key", mutate: func(c *Config) { c.ProjectKey = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClientCopiesConfig(t *testing.T) {
	cfg := DefaultConfig()
	c, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Endpoints[EndpointSQLQuery] = "https://elsewhere.example/hook"

	if got := c.Config().URL(EndpointSQLQuery); got != DefaultSQLQueryURL {
		t.Errorf("client endpoint = %s, want %s", got, DefaultSQLQueryURL)
	}
}
