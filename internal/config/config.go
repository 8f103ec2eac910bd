// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// RelatedTypeInitialFilter names the setting holding the lookup criteria
// for the default relationship type, e.g. {"title": "articles"}.
const RelatedTypeInitialFilter = "RELATED_TYPE_INITIAL_FILTER"

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible session store)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Related content
	InitialFilter map[string]string // criteria for the default related type; nil disables
	InlinesPath   string            // optional YAML file with restricted inline declarations
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode or a setting cannot be parsed.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "relatedcontent"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "relatedcontent"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		InlinesPath: os.Getenv("RELATED_CONTENT_INLINES"),
	}

	filter, err := parseFilter(os.Getenv(RelatedTypeInitialFilter))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", RelatedTypeInitialFilter, err)
	}
	cfg.InitialFilter = filter

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// parseFilter decodes a JSON object of lookup criteria. An empty string or
// an empty object yields nil, which disables the feature.
func parseFilter(raw string) (map[string]string, error) {
	if raw == "" {
		return nil, nil
	}
	var filter map[string]string
	if err := json.Unmarshal([]byte(raw), &filter); err != nil {
		return nil, fmt.Errorf("parse lookup criteria: %w", err)
	}
	if len(filter) == 0 {
		return nil, nil
	}
	return filter, nil
}

// Criteria returns the lookup criteria stored under the named setting, or
// nil when the setting is unknown or unset.
func (c *Config) Criteria(name string) map[string]string {
	if name == RelatedTypeInitialFilter {
		return c.InitialFilter
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
