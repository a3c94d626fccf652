// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsedash/pulse-tui/internal/config"
)

// =============================================================================
// ARG PARSER
// =============================================================================

func TestArgParserFlagFormats(t *testing.T) {
	p := NewArgParser([]string{"history", "conv_1", "--limit", "20", "--since=2025-01-01", "--json", "-q"})

	assert.Equal(t, "history", p.Subcommand())
	assert.Equal(t, "conv_1", p.Positional(1))
	assert.Equal(t, "20", p.Flag("limit"))
	assert.Equal(t, "2025-01-01", p.Flag("since"))
	assert.True(t, p.BoolFlag("json"))
	assert.True(t, p.BoolFlag("q"))
	assert.Equal(t, 2, p.PositionalCount())
}

func TestArgParserExplicitBoolValues(t *testing.T) {
	p := NewArgParser([]string{"--json=false", "--cache=true"})
	assert.False(t, p.BoolFlag("json"))
	assert.True(t, p.BoolFlag("cache"))
}

func TestArgParserDefaults(t *testing.T) {
	p := NewArgParser([]string{"list"})
	assert.Equal(t, "", p.Flag("missing"))
	assert.Equal(t, "7d", p.FlagOrDefault("range", "7d"))
	assert.Equal(t, 50, p.FlagIntOrDefault("limit", 50))
	assert.False(t, p.BoolFlag("missing"))
	assert.Equal(t, "", p.Positional(5))
}

func TestArgParserFlagIntMalformed(t *testing.T) {
	p := NewArgParser([]string{"--limit", "plenty"})
	assert.Equal(t, 10, p.FlagIntOrDefault("limit", 10))
}

func TestArgParserPositionalFrom(t *testing.T) {
	p := NewArgParser([]string{"what", "changed", "this", "week"})
	assert.Equal(t, []string{"what", "changed", "this", "week"}, p.PositionalFrom(0))
	assert.Equal(t, []string{"week"}, p.PositionalFrom(3))
	assert.Nil(t, p.PositionalFrom(9))
}

// =============================================================================
// COMMAND PARSING
// =============================================================================

func TestParseDefaultsToTUI(t *testing.T) {
	cmd, _ := parse(nil)
	assert.Equal(t, CmdTUI, cmd)
}

func TestParseAskJoinsQuery(t *testing.T) {
	cmd, args := parse([]string{"ask", "what", "changed", "this", "week"})
	assert.Equal(t, CmdAsk, cmd)
	assert.Equal(t, "what changed this week", args.Query)
}

func TestParseAskConversationFlag(t *testing.T) {
	cmd, args := parse([]string{"ask", "--conversation", "conv_42", "and", "last", "month?"})
	assert.Equal(t, CmdAsk, cmd)
	assert.Equal(t, "conv_42", args.ConversationID)
	assert.Equal(t, "and last month?", args.Query)
}

func TestParseGlobalFlags(t *testing.T) {
	cmd, args := parse([]string{"--json", "dashboard", "--range", "30d"})
	assert.Equal(t, CmdDashboard, cmd)
	assert.True(t, args.JSON)
	assert.Equal(t, "30d", args.Parser.Flag("range"))
}

func TestParseAuthCommands(t *testing.T) {
	cmd, args := parse([]string{"login", "--email", "a@b.c"})
	assert.Equal(t, CmdLogin, cmd)
	assert.Equal(t, "a@b.c", args.Email)

	cmd, args = parse([]string{"register", "--email", "a@b.c", "--name", "Ada"})
	assert.Equal(t, CmdRegister, cmd)
	assert.Equal(t, "Ada", args.Name)

	cmd, _ = parse([]string{"logout"})
	assert.Equal(t, CmdLogout, cmd)

	cmd, _ = parse([]string{"whoami"})
	assert.Equal(t, CmdWhoami, cmd)
}

func TestParseAliases(t *testing.T) {
	cmd, _ := parse([]string{"convs"})
	assert.Equal(t, CmdConversations, cmd)
	cmd, _ = parse([]string{"dash"})
	assert.Equal(t, CmdDashboard, cmd)
}

func TestParseUnknownCommandFallsBackToHelp(t *testing.T) {
	cmd, _ := parse([]string{"frobnicate"})
	assert.Equal(t, CmdHelp, cmd)
}

// =============================================================================
// CONFIG COMMAND
// =============================================================================

func TestSetConfigValue(t *testing.T) {
	cfg := config.Default()

	require.NoError(t, setConfigValue(cfg, "api.base_url", "https://api.example.com"))
	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)

	require.NoError(t, setConfigValue(cfg, "ui.markdown", "false"))
	assert.False(t, cfg.UI.Markdown)

	require.NoError(t, setConfigValue(cfg, "ui.default_range", "30d"))
	assert.Equal(t, "30d", cfg.UI.DefaultRange)
}

func TestSetConfigValueRejectsBadInput(t *testing.T) {
	cfg := config.Default()

	assert.Error(t, setConfigValue(cfg, "api.timeout_secs", "soon"))
	assert.Error(t, setConfigValue(cfg, "ui.markdown", "maybe"))
	assert.Error(t, setConfigValue(cfg, "nonsense.key", "1"))
	// Validate catches values that parse but are not allowed.
	assert.Error(t, setConfigValue(cfg, "ui.default_range", "365d"))
	assert.Error(t, setConfigValue(cfg, "api.base_url", "not a url"))
}
