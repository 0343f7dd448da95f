package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLoad_Defaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", cfg.APIAddress)
	assert.Equal(t, 100, cfg.MaxNotes)
	assert.Equal(t, 4*time.Second, cfg.NotificationDuration)
	assert.Equal(t, 1, cfg.RetryAttempts)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}

func TestConfigLoad_EnvOverride(t *testing.T) {
	t.Setenv("NOTES_API_ADDRESS", "https://notes.example.com/api/")
	t.Setenv("NOTES_MAX_NOTES", "5")
	t.Setenv("NOTES_NOTIFICATION_DURATION", "1500ms")
	t.Setenv("NOTES_LOG_LEVEL", "DEBUG")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "https://notes.example.com/api", cfg.APIAddress)
	assert.Equal(t, 5, cfg.MaxNotes)
	assert.Equal(t, 1500*time.Millisecond, cfg.NotificationDuration)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())
}

func TestConfig_ResolveDefaultsRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"no scheme":      func(c *Config) { c.APIAddress = "localhost:8080" },
		"ftp scheme":     func(c *Config) { c.APIAddress = "ftp://host/api" },
		"zero max notes": func(c *Config) { c.MaxNotes = 0 },
		"zero duration":  func(c *Config) { c.NotificationDuration = 0 },
		"zero attempts":  func(c *Config) { c.RetryAttempts = 0 },
		"bad level":      func(c *Config) { c.LogLevel = "verbose" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := NewForTesting("http://localhost:8080/api")
			mutate(cfg)
			assert.Error(t, cfg.ResolveDefaults())
		})
	}
}

func TestDevServerConfig_Admins(t *testing.T) {
	t.Setenv("NOTES_DEVSERVER_ADMIN_EMAILS", " Admin@Example.com ,,ops@example.com")

	cfg, err := NewDevServer()
	require.NoError(t, err)
	assert.Equal(t, []string{"admin@example.com", "ops@example.com"}, cfg.AdminEmails)
	assert.True(t, cfg.IsAdmin("ADMIN@example.com"))
	assert.False(t, cfg.IsAdmin("user@example.com"))
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
}

func TestDevServerConfig_LockBounds(t *testing.T) {
	cfg := NewDevServerForTesting()
	cfg.LockMax = 1
	assert.Error(t, cfg.ResolveDefaults())
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, lvl)

	_, err = ParseLevel("trace-all")
	assert.Error(t, err)
}

func TestNewServiceLogger_TagsService(t *testing.T) {
	var buf bytes.Buffer
	logger := NewServiceLogger(&buf, "notes-devserver", zerolog.InfoLevel)

	logger.Debug().Msg("hidden")
	logger.Error().Stack().Err(errors.New("boom")).Msg("failed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "notes-devserver", line["service"])
	assert.Equal(t, "boom", line["error"])
	assert.Contains(t, line, "stack")
}
