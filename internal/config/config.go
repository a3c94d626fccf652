// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/pulsedash/pulse-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete pulse client configuration.
type Config struct {
	API   APIConfig   `toml:"api"`
	UI    UIConfig    `toml:"ui"`
	Cache CacheConfig `toml:"cache"`
	Log   LogConfig   `toml:"log"`
}

// APIConfig contains backend connection settings.
type APIConfig struct {
	// BaseURL is the backend origin, e.g. "http://localhost:8080"
	BaseURL string `toml:"base_url"`
	// TimeoutSecs is the per-request timeout for REST calls.
	// Streaming requests are never subject to this timeout.
	TimeoutSecs int `toml:"timeout_secs"`
	// MaxRetries is the retry count for idempotent REST calls
	MaxRetries int `toml:"max_retries"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	// Theme is "dark" or "light"
	Theme string `toml:"theme"`
	// Markdown renders assistant messages through glamour when true
	Markdown bool `toml:"markdown"`
	// CompactMode tightens vertical spacing in the transcript
	CompactMode bool `toml:"compact_mode"`
	// DefaultRange is the dashboard chart range: "7d", "30d" or "90d"
	DefaultRange string `toml:"default_range"`
	// ShowSidebar shows the conversation sidebar on launch
	ShowSidebar bool `toml:"show_sidebar"`
}

// CacheConfig contains local conversation cache settings.
type CacheConfig struct {
	// Enabled turns the sqlite cache on or off
	Enabled bool `toml:"enabled"`
	// Path overrides the cache location (empty = ~/.pulse/cache.db)
	Path string `toml:"path"`
	// TTLHours expires cached dashboard metrics after this many hours
	TTLHours int `toml:"ttl_hours"`
}

// TTL returns the snapshot expiry as a duration. Zero disables expiry.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// LogConfig contains diagnostic logging settings.
type LogConfig struct {
	// Enabled turns file logging on or off
	Enabled bool `toml:"enabled"`
	// Path overrides the log location (empty = ~/.pulse/pulse.log)
	Path string `toml:"path"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     "http://localhost:8080",
			TimeoutSecs: 30,
			MaxRetries:  3,
		},
		UI: UIConfig{
			Theme:        "dark",
			Markdown:     true,
			CompactMode:  false,
			DefaultRange: "7d",
			ShowSidebar:  true,
		},
		Cache: CacheConfig{
			Enabled:  true,
			TTLHours: 24,
		},
		Log: LogConfig{
			Enabled: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the pulse configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".pulse"), nil
}

// Path returns the path to the TOML config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from ~/.pulse/config.toml, then applies .env and
// environment overrides. A missing file yields defaults, not an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads configuration from an explicit TOML path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// A .env beside the invocation is developer convenience; already-set
	// variables win, matching godotenv's non-overload behavior.
	_ = godotenv.Load()

	if _, statErr := os.Stat(path); statErr == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - PULSE_API_URL: overrides api.base_url
//   - PULSE_TIMEOUT_SECS: overrides api.timeout_secs
//   - PULSE_THEME: overrides ui.theme
//   - PULSE_RANGE: overrides ui.default_range
//   - PULSE_NO_CACHE: set to "1" or "true" to disable the sqlite cache
//   - PULSE_NO_MARKDOWN: set to "1" or "true" to render plain text
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("PULSE_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("PULSE_TIMEOUT_SECS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.API.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("PULSE_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("PULSE_RANGE"); v != "" {
		c.UI.DefaultRange = v
	}
	if v := os.Getenv("PULSE_NO_CACHE"); v != "" {
		c.Cache.Enabled = !isTruthy(v)
	}
	if v := os.Getenv("PULSE_NO_MARKDOWN"); v != "" {
		c.UI.Markdown = !isTruthy(v)
	}
}

func isTruthy(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

// fillDefaults fills in any missing values with defaults.
func (c *Config) fillDefaults() {
	defaults := Default()

	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.TimeoutSecs <= 0 {
		c.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if c.API.MaxRetries < 0 {
		c.API.MaxRetries = defaults.API.MaxRetries
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.DefaultRange == "" {
		c.UI.DefaultRange = defaults.UI.DefaultRange
	}
	if c.Cache.TTLHours <= 0 {
		c.Cache.TTLHours = defaults.Cache.TTLHours
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url %q is not an absolute URL", c.API.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url scheme %q must be http or https", u.Scheme)
	}

	switch c.UI.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("ui.theme %q must be dark or light", c.UI.Theme)
	}

	switch c.UI.DefaultRange {
	case "7d", "30d", "90d":
	default:
		return fmt.Errorf("ui.default_range %q must be 7d, 30d or 90d", c.UI.DefaultRange)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the configuration to an explicit TOML path. The write is
// atomic and the file is created 0600 since the config directory also holds
// credentials.
func SaveTo(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# pulse configuration file\n")
	buf.WriteString("# Edit by hand or via `pulse config set`\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFilePrivate(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// CachePath resolves the sqlite cache location.
func (c *Config) CachePath() (string, error) {
	if c.Cache.Path != "" {
		return c.Cache.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache.db"), nil
}

// LogPath resolves the diagnostic log location.
func (c *Config) LogPath() (string, error) {
	if c.Log.Path != "" {
		return c.Log.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pulse.log"), nil
}
