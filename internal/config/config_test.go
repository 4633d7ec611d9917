package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Save current env and restore later
	origHost := os.Getenv("DB_HOST")
	defer os.Setenv("DB_HOST", origHost)

	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_MAX_OPEN_CONNS", "20")
	os.Setenv("OLLAMA_MODEL", "mistral")
	os.Setenv("EXPANSION_CACHE_SIZE", "64")
	os.Setenv("SUMMARY_WORKERS", "2")
	defer func() {
		os.Unsetenv("DB_MAX_OPEN_CONNS")
		os.Unsetenv("OLLAMA_MODEL")
		os.Unsetenv("EXPANSION_CACHE_SIZE")
		os.Unsetenv("SUMMARY_WORKERS")
	}()

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.Equal(t, "mistral", cfg.Ollama.Model)
	assert.Equal(t, 64, cfg.Expansion.CacheSize)
	assert.Equal(t, 2, cfg.Summary.Workers)
}

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("OLLAMA_BASE_URL")
	os.Unsetenv("SUMMARY_LOCK_TIMEOUT_SEC")

	cfg := Load()

	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, 20, cfg.Summary.LockTimeoutSec)
	assert.Equal(t, 10, cfg.Expansion.CacheTTLMin)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 7, getEnvInt(key, 7))
}
