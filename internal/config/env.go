package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file
const (
	EnvEndpoint = "ADVISORCHAT_ENDPOINT"
	EnvTimeout  = "ADVISORCHAT_TIMEOUT"
	EnvLogLevel = "ADVISORCHAT_LOG_LEVEL"
	EnvLogFile  = "ADVISORCHAT_LOG_FILE"
)

// LoadDotEnv loads variables from .env files into the process environment.
// Variables already set are left untouched and missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	return godotenv.Load(existing...)
}

// ApplyEnv returns cfg with environment overrides applied
func ApplyEnv(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv(EnvEndpoint)); v != "" {
		cfg.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTimeout)); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			cfg.RequestTimeoutSeconds = secs
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.LogFile = v
	}
	return cfg
}
