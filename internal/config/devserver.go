package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// DevServerConfig holds the configuration for the development API server.
// Environment variables are parsed from the NOTES_DEVSERVER_ prefix.
type DevServerConfig struct {
	Addr   string `envconfig:"ADDR" default:":8080"`
	DBPath string `envconfig:"DB_PATH" default:"notes-dev.db"`

	MaxNotes    int           `envconfig:"MAX_NOTES" default:"100"`
	AdminEmails []string      `envconfig:"ADMIN_EMAILS"`
	SessionTTL  time.Duration `envconfig:"SESSION_TTL" default:"24h"`

	// Failed logins before the account is locked, and for how long.
	LockMin         int           `envconfig:"LOCK_MIN" default:"3"`
	LockMax         int           `envconfig:"LOCK_MAX" default:"5"`
	LockMinDuration time.Duration `envconfig:"LOCK_MIN_DURATION" default:"1m"`
	LockMaxDuration time.Duration `envconfig:"LOCK_MAX_DURATION" default:"15m"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// ResolveDefaults validates values and normalises admin emails.
func (c *DevServerConfig) ResolveDefaults() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR must not be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH must not be empty")
	}
	if c.MaxNotes <= 0 {
		return fmt.Errorf("MAX_NOTES must be > 0, got %d", c.MaxNotes)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0, got %s", c.SessionTTL)
	}
	if c.LockMin <= 0 || c.LockMax < c.LockMin {
		return fmt.Errorf("LOCK_MIN/LOCK_MAX must satisfy 0 < min <= max, got %d/%d", c.LockMin, c.LockMax)
	}
	admins := c.AdminEmails[:0]
	for _, e := range c.AdminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			admins = append(admins, e)
		}
	}
	c.AdminEmails = admins
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// IsAdmin reports whether email is listed in ADMIN_EMAILS.
func (c *DevServerConfig) IsAdmin(email string) bool {
	email = strings.ToLower(email)
	for _, a := range c.AdminEmails {
		if a == email {
			return true
		}
	}
	return false
}

// NewDevServer parses NOTES_DEVSERVER_ variables.
func NewDevServer() (*DevServerConfig, error) {
	var cfg DevServerConfig

	if err := envconfig.Process("NOTES_DEVSERVER", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("addr", cfg.Addr).
		Str("db_path", cfg.DBPath).
		Int("max_notes", cfg.MaxNotes).
		Int("admins", len(cfg.AdminEmails)).
		Dur("session_ttl", cfg.SessionTTL).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewDevServerForTesting returns an in-memory configuration.
func NewDevServerForTesting() *DevServerConfig {
	return &DevServerConfig{
		Addr:            "127.0.0.1:0",
		DBPath:          ":memory:",
		MaxNotes:        100,
		SessionTTL:      time.Hour,
		LockMin:         3,
		LockMax:         5,
		LockMinDuration: time.Minute,
		LockMaxDuration: 15 * time.Minute,
		LogLevel:        "error",
	}
}
