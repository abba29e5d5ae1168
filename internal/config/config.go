// Package config handles configuration for advisorchat.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	apierrors "github.com/diogo/advisorchat/internal/errors"
	"github.com/diogo/advisorchat/internal/models"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // glamour style name or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// Endpoint is the backend chat route that receives {"question": ...}.
	Endpoint string `json:"endpoint"`
	// RequestTimeoutSeconds bounds a single question. Zero means no timeout:
	// an unanswered question keeps its typing placeholder until the program exits.
	RequestTimeoutSeconds int `json:"request_timeout_seconds"`
	// SingleFlight blocks new submissions while a question is outstanding.
	SingleFlight    bool           `json:"single_flight"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	RenderMarkdown  bool           `json:"render_markdown"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
	LogLevel        string         `json:"log_level"`
	LogFile         string         `json:"log_file,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Endpoint:              models.DefaultEndpoint,
		RequestTimeoutSeconds: 0,
		SingleFlight:          false,
		CopyToClipboard:       false,
		TUITheme:              "tokyonight",
		RenderMarkdown:        true,
		Markdown:              DefaultMarkdownConfig(),
		LogLevel:              "info",
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".advisorchat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the log file from config, falling back to the config dir
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "advisorchat.log"), nil
}

// LoadConfig loads the configuration from disk and applies environment overrides
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return ApplyEnv(cfg), nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return ApplyEnv(DefaultConfig()), fmt.Errorf("failed to parse config file: %w", err)
	}

	return ApplyEnv(cfg), nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that would otherwise fail late, at request time
func (c Config) Validate() error {
	if err := ValidateEndpoint(c.Endpoint); err != nil {
		return err
	}
	if c.RequestTimeoutSeconds < 0 {
		return apierrors.NewConfigError("request_timeout_seconds", "must not be negative")
	}
	return nil
}

// ValidateEndpoint checks that endpoint is an absolute http(s) URL
func ValidateEndpoint(endpoint string) error {
	if strings.TrimSpace(endpoint) == "" {
		return apierrors.NewConfigError("endpoint", "must not be empty")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return apierrors.NewConfigError("endpoint", err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return apierrors.NewConfigError("endpoint", "scheme must be http or https")
	}
	if u.Host == "" {
		return apierrors.NewConfigError("endpoint", "host is missing")
	}
	return nil
}

// LogLevels returns the accepted log level names
func LogLevels() []string {
	return []string{"trace", "debug", "info", "warn", "error"}
}
