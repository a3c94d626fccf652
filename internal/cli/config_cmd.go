// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Configuration inspection command.
//
// Commands:
//   pulse config [show]       Print the effective configuration
//   pulse config set K V      Set a value and save (e.g. api.base_url)
//   pulse config path         Print the config file location

package cli

import (
	"fmt"
	"strconv"

	"github.com/pulsedash/pulse-tui/internal/config"
)

// HandleConfig dispatches the config subcommands.
func HandleConfig(cfg *config.Config, args Args) error {
	switch args.Parser.Subcommand() {
	case "", "show":
		return showConfig(cfg)

	case "path":
		path, err := config.Path()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil

	case "set":
		key := args.Parser.Positional(1)
		value := args.Parser.Positional(2)
		if key == "" || value == "" {
			return fmt.Errorf("usage: pulse config set <key> <value>")
		}
		if err := setConfigValue(cfg, key, value); err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		if !args.Quiet {
			fmt.Println(successStyle.Render(fmt.Sprintf("%s = %s", key, value)))
		}
		return nil

	default:
		return fmt.Errorf("unknown subcommand %q\nUsage: pulse config [show|set <key> <value>|path]",
			args.Parser.Subcommand())
	}
}

func showConfig(cfg *config.Config) error {
	line := func(key, value string) {
		fmt.Println(labelStyle.Render(fmt.Sprintf("%-22s", key)) + valueStyle.Render(value))
	}
	line("api.base_url", cfg.API.BaseURL)
	line("api.timeout_secs", strconv.Itoa(cfg.API.TimeoutSecs))
	line("api.max_retries", strconv.Itoa(cfg.API.MaxRetries))
	line("ui.theme", cfg.UI.Theme)
	line("ui.markdown", strconv.FormatBool(cfg.UI.Markdown))
	line("ui.default_range", cfg.UI.DefaultRange)
	line("ui.show_sidebar", strconv.FormatBool(cfg.UI.ShowSidebar))
	line("cache.enabled", strconv.FormatBool(cfg.Cache.Enabled))
	line("cache.ttl_hours", strconv.Itoa(cfg.Cache.TTLHours))
	line("log.enabled", strconv.FormatBool(cfg.Log.Enabled))
	return nil
}

// setConfigValue applies one dotted-key assignment. Only the keys a user
// plausibly edits from the command line are supported; everything else
// means editing the TOML file directly.
func setConfigValue(cfg *config.Config, key, value string) error {
	parseBool := func(v string) (bool, error) {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("%s must be true or false", key)
		}
		return b, nil
	}

	switch key {
	case "api.base_url":
		cfg.API.BaseURL = value
	case "api.timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer", key)
		}
		cfg.API.TimeoutSecs = n
	case "ui.theme":
		cfg.UI.Theme = value
	case "ui.markdown":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		cfg.UI.Markdown = b
	case "ui.default_range":
		cfg.UI.DefaultRange = value
	case "ui.show_sidebar":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		cfg.UI.ShowSidebar = b
	case "cache.enabled":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		cfg.Cache.Enabled = b
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	return cfg.Validate()
}
