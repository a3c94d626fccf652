// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// =============================================================================
// DEFAULT TESTS
// =============================================================================

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.API.BaseURL != "http://localhost:8080" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSecs != 30 {
		t.Errorf("API.TimeoutSecs = %d, want 30", cfg.API.TimeoutSecs)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("UI.Theme = %q, want dark", cfg.UI.Theme)
	}
	if cfg.UI.DefaultRange != "7d" {
		t.Errorf("UI.DefaultRange = %q, want 7d", cfg.UI.DefaultRange)
	}
	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

// =============================================================================
// LOAD TESTS
// =============================================================================

func TestLoadFrom_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.API.BaseURL != Default().API.BaseURL {
		t.Errorf("BaseURL = %q, want default", cfg.API.BaseURL)
	}
}

func TestLoadFrom_PartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
base_url = "https://pulse.example.com"

[ui]
theme = "light"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.API.BaseURL != "https://pulse.example.com" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q, want light", cfg.UI.Theme)
	}
	// Unspecified values come from defaults.
	if cfg.API.TimeoutSecs != 30 {
		t.Errorf("TimeoutSecs = %d, want default 30", cfg.API.TimeoutSecs)
	}
	if cfg.UI.DefaultRange != "7d" {
		t.Errorf("DefaultRange = %q, want default 7d", cfg.UI.DefaultRange)
	}
}

func TestLoadFrom_MalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[api\nbase_url ="), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() with malformed TOML should fail")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PULSE_API_URL", "http://10.0.0.5:9090")
	t.Setenv("PULSE_THEME", "light")
	t.Setenv("PULSE_NO_CACHE", "true")
	t.Setenv("PULSE_TIMEOUT_SECS", "5")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.API.BaseURL != "http://10.0.0.5:9090" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q, want light", cfg.UI.Theme)
	}
	if cfg.Cache.Enabled {
		t.Error("PULSE_NO_CACHE=true should disable the cache")
	}
	if cfg.API.TimeoutSecs != 5 {
		t.Errorf("TimeoutSecs = %d, want 5", cfg.API.TimeoutSecs)
	}
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"https url", func(c *Config) { c.API.BaseURL = "https://api.pulse.dev" }, false},
		{"relative url", func(c *Config) { c.API.BaseURL = "localhost:8080" }, true},
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://x" }, true},
		{"bad theme", func(c *Config) { c.UI.Theme = "solarized" }, true},
		{"bad range", func(c *Config) { c.UI.DefaultRange = "1y" }, true},
		{"90d range", func(c *Config) { c.UI.DefaultRange = "90d" }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

// =============================================================================
// SAVE TESTS
// =============================================================================

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	in := Default()
	in.API.BaseURL = "https://pulse.example.com"
	in.UI.CompactMode = true
	if err := SaveTo(in, path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file perm = %o, want 0600", perm)
	}

	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), "# pulse configuration file") {
		t.Error("saved config should start with the header comment")
	}

	out, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if out.API.BaseURL != in.API.BaseURL {
		t.Errorf("BaseURL = %q, want %q", out.API.BaseURL, in.API.BaseURL)
	}
	if !out.UI.CompactMode {
		t.Error("CompactMode should round-trip")
	}
}
