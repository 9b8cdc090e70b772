// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the admin user key goes to the OS keychain.
//
// Settings are resolved in order: built-in defaults, config.json in the XDG config
// dir, then environment variables (a .env file in the working directory is loaded
// first and never overrides variables that are already set).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ratatouille/cli/internal/api"
	"ratatouille/cli/internal/xdg"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvSQLQueryURL = "RATATOUILLE_SQL_QUERY_URL"
	EnvChatURL     = "RATATOUILLE_CHAT_URL"
	EnvProjectKey  = "RATATOUILLE_PROJECT_KEY"
	EnvLogLevel    = "RATATOUILLE_LOG_LEVEL"
	EnvCookie      = "RATATOUILLE_COOKIE"
	EnvVerbose     = "RATATOUILLE_VERBOSE"
)

// DotenvFile is the optional env file read from the working directory.
const DotenvFile = ".env"

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel   string          `json:"log_level"`
	Endpoints  EndpointsConfig `json:"endpoints"`
	ProjectKey string          `json:"project_key"`
}

// EndpointsConfig holds the webhook URLs.
type EndpointsConfig struct {
	SQLQuery    string `json:"sql_query"`
	ChatMessage string `json:"chat_message"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel: "info",
		Endpoints: EndpointsConfig{
			SQLQuery:    api.DefaultSQLQueryURL,
			ChatMessage: api.DefaultChatMessageURL,
		},
		ProjectKey: api.DefaultProjectKey,
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; a missing file or .env yields defaults.
func Load() (Config, error) {
	p, err := Path()
	if err != nil {
		return Config{}, err
	}
	return load(p, DotenvFile)
}

func load(path, dotenv string) (Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return c, err
	}

	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, os.ErrNotExist) {
			return c, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	applyEnv(&c)
	return c, nil
}

// applyEnv overrides settings with non-empty environment variables.
func applyEnv(c *Config) {
	override := func(dst *string, name string) {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			*dst = v
		}
	}
	override(&c.Endpoints.SQLQuery, EnvSQLQueryURL)
	override(&c.Endpoints.ChatMessage, EnvChatURL)
	override(&c.ProjectKey, EnvProjectKey)
	override(&c.LogLevel, EnvLogLevel)
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// API converts the settings into a validated client configuration.
func (c Config) API() (api.Config, error) {
	out := api.Config{
		Endpoints: map[api.Endpoint]string{
			api.EndpointSQLQuery:    c.Endpoints.SQLQuery,
			api.EndpointChatMessage: c.Endpoints.ChatMessage,
		},
		ProjectKey: c.ProjectKey,
	}
	if err := out.Validate(); err != nil {
		return api.Config{}, err
	}
	return out, nil
}
