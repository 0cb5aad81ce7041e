package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	cfg := Load()

	assert.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.ListenAddr)
	assert.NotEmpty(t, cfg.DBPath)
	assert.NotEmpty(t, cfg.GeminiModel)
	assert.Equal(t, 30*time.Second, cfg.ExtractTimeout)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("DB_PATH", "/custom/db.sqlite")
	t.Setenv("GEMINI_API_KEY", "test-key-123")
	t.Setenv("EXTRACT_TIMEOUT_SECONDS", "5")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/custom/db.sqlite", cfg.DBPath)
	assert.Equal(t, "test-key-123", cfg.GeminiAPIKey)
	assert.Equal(t, 5*time.Second, cfg.ExtractTimeout)
}

func TestLoadBadTimeoutFallsBack(t *testing.T) {
	t.Setenv("EXTRACT_TIMEOUT_SECONDS", "not-a-number")

	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.ExtractTimeout)
}
