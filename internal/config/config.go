package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// OllamaConfig holds settings for the LLM boundary.
type OllamaConfig struct {
	BaseURL    string
	Model      string
	TimeoutSec int
	MaxRetries int
}

// ExpansionConfig bounds the query expansion cache.
type ExpansionConfig struct {
	CacheSize   int
	CacheTTLMin int
}

// SummaryConfig tunes the summary job coordinator.
type SummaryConfig struct {
	LockTimeoutSec int
	Workers        int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost   string
	Port      string
	Database  DatabaseConfig
	Ollama    OllamaConfig
	Expansion ExpansionConfig
	Summary   SummaryConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Ollama: OllamaConfig{
			BaseURL:    getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			Model:      getEnv("OLLAMA_MODEL", "llama3.2"),
			TimeoutSec: getEnvInt("OLLAMA_TIMEOUT_SEC", 60),
			MaxRetries: getEnvInt("OLLAMA_MAX_RETRIES", 2),
		},
		Expansion: ExpansionConfig{
			CacheSize:   getEnvInt("EXPANSION_CACHE_SIZE", 256),
			CacheTTLMin: getEnvInt("EXPANSION_CACHE_TTL_MIN", 10),
		},
		Summary: SummaryConfig{
			LockTimeoutSec: getEnvInt("SUMMARY_LOCK_TIMEOUT_SEC", 20),
			Workers:        getEnvInt("SUMMARY_WORKERS", 1),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
