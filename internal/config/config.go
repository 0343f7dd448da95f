// Package config loads settings for the note client and the development API
// server from the environment and sets up logging.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the note client.
// Environment variables are automatically parsed from the NOTES_ prefix.
type Config struct {
	// APIAddress is the REST root, e.g. http://localhost:8080/api
	APIAddress string `envconfig:"API_ADDRESS" default:"http://localhost:8080/api"`

	// MaxNotes is the per-user note limit enforced before a create is sent.
	MaxNotes int `envconfig:"MAX_NOTES" default:"100"`

	// NotificationDuration is how long a notification stays before it is dismissed.
	NotificationDuration time.Duration `envconfig:"NOTIFICATION_DURATION" default:"4s"`

	HTTPTimeout   time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	RetryAttempts int           `envconfig:"RETRY_ATTEMPTS" default:"1"`
	RetryInterval time.Duration `envconfig:"RETRY_INTERVAL" default:"200ms"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`

	// Credentials for one-shot commands; optional.
	Email    string `envconfig:"EMAIL"`
	Password string `envconfig:"PASSWORD"`
}

// ResolveDefaults validates values and normalises the API address.
func (c *Config) ResolveDefaults() error {
	u, err := url.Parse(c.APIAddress)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API_ADDRESS: %q", c.APIAddress)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported API_ADDRESS scheme: %s", u.Scheme)
	}
	c.APIAddress = strings.TrimRight(c.APIAddress, "/")

	if c.MaxNotes <= 0 {
		return fmt.Errorf("MAX_NOTES must be > 0, got %d", c.MaxNotes)
	}
	if c.NotificationDuration <= 0 {
		return fmt.Errorf("NOTIFICATION_DURATION must be > 0, got %s", c.NotificationDuration)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be > 0, got %s", c.HTTPTimeout)
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("RETRY_ATTEMPTS must be >= 1, got %d", c.RetryAttempts)
	}
	if c.RetryInterval <= 0 {
		return fmt.Errorf("RETRY_INTERVAL must be > 0, got %s", c.RetryInterval)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the parsed log level. Call after ResolveDefaults.
func (c *Config) Level() zerolog.Level {
	lvl, _ := ParseLevel(c.LogLevel)
	return lvl
}

// New creates a Config by parsing environment variables prefixed with NOTES_.
// Example: NOTES_API_ADDRESS, NOTES_MAX_NOTES
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("NOTES", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("api_address", cfg.APIAddress).
		Int("max_notes", cfg.MaxNotes).
		Dur("notification_duration", cfg.NotificationDuration).
		Dur("http_timeout", cfg.HTTPTimeout).
		Int("retry_attempts", cfg.RetryAttempts).
		Bool("credentials_present", cfg.Email != "" && cfg.Password != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting returns a valid configuration pointed at apiAddress.
func NewForTesting(apiAddress string) *Config {
	return &Config{
		APIAddress:           strings.TrimRight(apiAddress, "/"),
		MaxNotes:             100,
		NotificationDuration: 4 * time.Second,
		HTTPTimeout:          5 * time.Second,
		RetryAttempts:        1,
		RetryInterval:        10 * time.Millisecond,
		LogLevel:             "error",
	}
}
