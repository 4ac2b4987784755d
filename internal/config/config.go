package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultBaseURL is used when neither environment variable names a backend.
const DefaultBaseURL = "http://127.0.0.1:8000"

// Config holds everything resolved once at startup.
type Config struct {
	BaseURL  string
	DebugLog string // path for the debug log file; empty disables logging
}

// New loads an optional .env file and resolves the configuration.
// JOURNAL_API_URL wins over JOURNAL_API_BASE_URL; blank values are
// treated as unset.
func New() *Config {
	_ = godotenv.Load()

	return &Config{
		BaseURL:  firstEnv(DefaultBaseURL, "JOURNAL_API_URL", "JOURNAL_API_BASE_URL"),
		DebugLog: strings.TrimSpace(os.Getenv("JOURNAL_DEBUG")),
	}
}

func firstEnv(defaultVal string, keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return defaultVal
}
