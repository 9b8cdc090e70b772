// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"ratatouille/cli/internal/credential"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
)

// Body keys merged into every outbound payload.
const (
	FieldProjectKey   = "projectKey"
	FieldAdminUserKey = "adminUserKey"
)

// ContentType is the Content-Type a browser fetch sets for a string body.
// The webhooks parse the JSON text regardless of the declared type.
const ContentType = "text/plain;charset=UTF-8"

// ErrInvalidUTF8 is returned when a caller field is not valid UTF-8.
// JSON encoding would replace the bad bytes, so the webhook would see different text.
var ErrInvalidUTF8 = errors.New("text is not valid UTF-8")

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client forwards queries and chat messages to the webhook backend.
// It is safe for concurrent use: calls share only immutable configuration.
type Client struct {
	config     Config
	credential credential.Provider
	http       Doer
	log        *pterm.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport used for outbound requests.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.http = d
		}
	}
}

// WithLogger sets the logger used for per-request diagnostics.
func WithLogger(l *pterm.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a client for the given configuration. The provider is consulted
// on every request; a nil provider behaves as an absent credential.
// The default transport has no timeout: cancellation is left to the caller's context.
func New(config Config, provider credential.Provider, opts ...Option) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if provider == nil {
		provider = credential.None
	}
	c := &Client{
		config:     config.clone(),
		credential: provider,
		http:       &http.Client{},
		log:        pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns a copy of the client's configuration.
func (c *Client) Config() Config {
	return c.config.clone()
}

// adminUserKey reads the credential for one request.
// Only presence and length are logged, never the value.
func (c *Client) adminUserKey(requestID string) string {
	key := c.credential()
	c.log.Debug("admin user key lookup", c.log.Args(
		"request_id", requestID,
		"present", key != "",
		"length", len(key),
	))
	return key
}

// dispatch merges the project key and the current credential into body, POSTs it
// as JSON text to the endpoint and returns the raw response body. The status code
// is not inspected. Transport errors are returned as-is.
func (c *Client) dispatch(ctx context.Context, endpoint Endpoint, body map[string]any) ([]byte, error) {
	payload := make(map[string]any, len(body)+2)
	for k, v := range body {
		if s, ok := v.(string); ok && !utf8.ValidString(s) {
			return nil, fmt.Errorf("%s: %w", k, ErrInvalidUTF8)
		}
		payload[k] = v
	}

	requestID := uuid.NewString()
	payload[FieldProjectKey] = c.config.ProjectKey
	payload[FieldAdminUserKey] = c.adminUserKey(requestID)

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	target := c.config.URL(endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", ContentType)

	startTime := time.Now()
	resp, err := c.http.Do(req)
	latency := time.Since(startTime)
	if err != nil {
		c.log.Debug("webhook request failed", c.log.Args(
			"request_id", requestID,
			"endpoint", string(endpoint),
			"latency_ms", latency.Milliseconds(),
			"error", err.Error(),
		))
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	c.log.Debug("webhook responded", c.log.Args(
		"request_id", requestID,
		"endpoint", string(endpoint),
		"status", resp.StatusCode,
		"bytes", len(data),
		"latency_ms", latency.Milliseconds(),
	))
	return data, nil
}
