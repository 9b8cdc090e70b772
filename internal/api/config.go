// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package api provides the client for the Ratatouille webhook backend.
// It forwards SQL-style queries and chat messages to two fixed webhook endpoints,
// attaching the project key and the current admin user key to every request.
// The client holds no state between calls: endpoints and project key are immutable
// configuration, and the credential is read fresh from a provider on each request.
package api

import (
	"fmt"
	"net/url"
)

// Endpoint is a logical name of a webhook in the endpoint registry.
type Endpoint string

const (
	// EndpointSQLQuery receives SQL-style queries.
	EndpointSQLQuery Endpoint = "SQL_QUERY"
	// EndpointChatMessage receives chat messages.
	EndpointChatMessage Endpoint = "CHAT_MESSAGE"
)

// Default webhook URLs and project key.
const (
	DefaultSQLQueryURL    = "https://n8n.ridaflows.com/webhook/endpoint"
	DefaultChatMessageURL = "https://n8n.ridaflows.com/webhook/ratatouille-chat"
	DefaultProjectKey     = "0f3f0bb0a0a62250c16fc6aaf2525160"
)

// Config holds the endpoint registry and the project identifier.
// Build it once at startup and pass it to New; the client copies it.
type Config struct {
	Endpoints  map[Endpoint]string
	ProjectKey string
}

// DefaultConfig returns the production endpoint registry and project key.
func DefaultConfig() Config {
	return Config{
		Endpoints: map[Endpoint]string{
			EndpointSQLQuery:    DefaultSQLQueryURL,
			EndpointChatMessage: DefaultChatMessageURL,
		},
		ProjectKey: DefaultProjectKey,
	}
}

// Validate checks that both endpoints are absolute URLs and the project key is set.
func (c Config) Validate() error {
	for _, name := range []Endpoint{EndpointSQLQuery, EndpointChatMessage} {
		raw, ok := c.Endpoints[name]
		if !ok || raw == "" {
			return fmt.Errorf("endpoint %s required", name)
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("endpoint %s: %w", name, err)
		}
		if !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("endpoint %s must be an absolute URL, got %q", name, raw)
		}
	}
	if c.ProjectKey == "" {
		return fmt.Errorf("project key required")
	}
	return nil
}

// URL returns the configured URL for the endpoint, or "" when unknown.
func (c Config) URL(name Endpoint) string {
	return c.Endpoints[name]
}

// clone copies the registry so later changes by the caller do not leak into a client.
func (c Config) clone() Config {
	out := Config{ProjectKey: c.ProjectKey, Endpoints: make(map[Endpoint]string, len(c.Endpoints))}
	for k, v := range c.Endpoints {
		out.Endpoints[k] = v
	}
	return out
}
