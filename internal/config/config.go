// Package config contains everything related to configuration
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	// Timeframe for the usage report: "today", "7days" or "30days".
	Timeframe string `json:"default_timeframe"`

	// RefreshInterval between usage report refreshes.
	RefreshInterval time.Duration `json:"-"`

	// SessionPollInterval between session usage polls.
	SessionPollInterval time.Duration `json:"-"`

	// RequestTimeout bounds each Admin API request.
	RequestTimeout time.Duration `json:"-"`

	// AdminAPIKey is the config-file fallback for the Admin API key.
	// Keychain and environment take precedence.
	AdminAPIKey string `json:"admin_api_key,omitempty"`

	// APIBaseURL overrides the Admin API root, mainly for testing.
	APIBaseURL string `json:"api_base_url,omitempty"`

	// Path the config was loaded from.
	Path string `json:"-"`
}

// Default values
const (
	defaultRefreshInterval     = 5 * time.Minute
	defaultSessionPollInterval = 60 * time.Second
	defaultRequestTimeout      = 30 * time.Second
	defaultTimeframe           = "today"
)

// configFile is the persisted subset of Config.
type configFile struct {
	Timeframe              string `json:"default_timeframe,omitempty"`
	RefreshIntervalMinutes int    `json:"refresh_interval_minutes,omitempty"`
	AdminAPIKey            string `json:"admin_api_key,omitempty"`
	APIBaseURL             string `json:"api_base_url,omitempty"`
}

// Load reads configuration from the JSON config file, .env files and
// environment variables. Environment values override file values;
// missing keys keep their defaults.
func Load() (*Config, error) {
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg, err := loadFrom(DefaultPath())
	if err != nil {
		return nil, err
	}

	if err := ensureDir(filepath.Dir(cfg.Path)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFrom builds a config from defaults, the given file and the
// environment, in that precedence order.
func loadFrom(path string) (*Config, error) {
	cfg := &Config{
		Timeframe:           defaultTimeframe,
		RefreshInterval:     defaultRefreshInterval,
		SessionPollInterval: defaultSessionPollInterval,
		RequestTimeout:      defaultRequestTimeout,
		Path:                path,
	}

	if err := cfg.mergeFile(); err != nil {
		return nil, err
	}
	cfg.mergeEnv()
	return cfg, nil
}

// mergeFile overlays values from the JSON config file, if present.
func (c *Config) mergeFile() error {
	data, err := os.ReadFile(c.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var file configFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", c.Path, err)
	}

	if file.Timeframe != "" {
		c.Timeframe = file.Timeframe
	}
	if file.RefreshIntervalMinutes > 0 {
		c.RefreshInterval = time.Duration(file.RefreshIntervalMinutes) * time.Minute
	}
	if file.AdminAPIKey != "" {
		c.AdminAPIKey = file.AdminAPIKey
	}
	if file.APIBaseURL != "" {
		c.APIBaseURL = file.APIBaseURL
	}
	return nil
}

// mergeEnv overlays values from environment variables.
func (c *Config) mergeEnv() {
	c.Timeframe = getEnvString("USAGE_TIMEFRAME", c.Timeframe)
	c.RefreshInterval = getEnvDuration("USAGE_REFRESH_INTERVAL", c.RefreshInterval)
	c.SessionPollInterval = getEnvDuration("SESSION_POLL_INTERVAL", c.SessionPollInterval)
	c.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", c.RequestTimeout)
	c.APIBaseURL = getEnvString("ANTHROPIC_API_BASE_URL", c.APIBaseURL)
}

// Save writes the persisted subset back to the config file.
func (c *Config) Save() error {
	file := configFile{
		Timeframe:              c.Timeframe,
		RefreshIntervalMinutes: int(c.RefreshInterval / time.Minute),
		AdminAPIKey:            c.AdminAPIKey,
		APIBaseURL:             c.APIBaseURL,
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := ensureDir(filepath.Dir(c.Path)); err != nil {
		return err
	}

	// Write to temp file first, then rename
	tmpFile := c.Path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpFile, c.Path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(home, ".config", "claude-usage-tui", "config.json")
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "claude-usage-tui", ".env"))
	}

	return paths
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
