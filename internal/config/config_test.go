package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DONORTRACK_API_URL", "")
	t.Setenv("DONORTRACK_SESSION_FILE", "")
	t.Setenv("DONORTRACK_HTTP_TIMEOUT", "")
	t.Setenv("DONORTRACK_NO_RETRY", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := Load()

	assert.Empty(t, cfg.APIURL)
	assert.NotEmpty(t, cfg.SessionFile)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Retry)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DONORTRACK_API_URL", "https://donations.example.com/v1")
	t.Setenv("DONORTRACK_SESSION_FILE", "/tmp/session.json")
	t.Setenv("DONORTRACK_HTTP_TIMEOUT", "30s")
	t.Setenv("DONORTRACK_NO_RETRY", "1")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, "https://donations.example.com/v1", cfg.APIURL)
	assert.Equal(t, "/tmp/session.json", cfg.SessionFile)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.Retry)
}

func TestLoadIgnoresBadTimeout(t *testing.T) {
	t.Setenv("DONORTRACK_HTTP_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
}
