// Package config defines the product service configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/abgdnv/productapi/pkg/config"
	"github.com/abgdnv/productapi/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

// DefaultAPIKey is the shared secret used when auth.apiKey is not configured.
const DefaultAPIKey = "mysecretkey123"

type Config struct {
	HTTPServer config.HTTPConfig      `koanf:"server"`
	Log        config.LogConfig       `koanf:"log"`
	PProf      config.PProfConfig     `koanf:"pprof"`
	Shutdown   config.ShutdownConfig  `koanf:"shutdown"`
	Metrics    config.MetricsConfig   `koanf:"metrics"`
	Telemetry  config.TelemetryConfig `koanf:"telemetry"`
	Auth       AuthConfig             `koanf:"auth"`
	Seed       SeedConfig             `koanf:"seed"`
}

// AuthConfig controls the x-api-key check. The check is available but not
// attached to any route unless Enabled is set.
type AuthConfig struct {
	Enabled bool   `koanf:"enabled"`
	APIKey  string `koanf:"apikey"`
}

func (c *AuthConfig) Validate() error {
	if c.APIKey == "" {
		c.APIKey = DefaultAPIKey
	}
	return nil
}

// SeedConfig controls the initial catalog loaded at startup.
type SeedConfig struct {
	Disabled bool `koanf:"disabled"`
}

// Defaults returns the built-in configuration, overridden by file and environment.
func Defaults() map[string]any {
	return map[string]any{
		"server.port":               8080,
		"server.maxheaderbytes":     1 << 20,
		"server.timeout.read":       "5s",
		"server.timeout.write":      "10s",
		"server.timeout.idle":       "60s",
		"server.timeout.readheader": "2s",
		"log.level":                 "info",
		"pprof.enabled":             false,
		"pprof.addr":                "localhost:6060",
		"shutdown.timeout":          "15s",
		"metrics.enabled":           true,
		"metrics.path":              "/metrics",
		"telemetry.enabled":         false,
		"auth.enabled":              false,
		"auth.apikey":               DefaultAPIKey,
		"seed.disabled":             false,
	}
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	b.WriteString(c.Metrics.String())
	b.WriteString(c.Telemetry.String())

	b.WriteString("\n--- Application Behavior ---\n")
	b.WriteString(fmt.Sprintf("  auth.enabled: %t\n", c.Auth.Enabled))
	b.WriteString(fmt.Sprintf("  auth.apiKey: %s\n", maskSecret(c.Auth.APIKey)))
	b.WriteString(fmt.Sprintf("  seed.disabled: %t\n", c.Seed.Disabled))

	return b.String()
}

// maskSecret keeps only the first two characters of a secret.
func maskSecret(s string) string {
	if s == "" {
		return "<not configured>"
	}
	if len(s) <= 2 {
		return "****"
	}
	return s[:2] + "****"
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return nil
}
