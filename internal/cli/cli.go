// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (overridden at build time via -ldflags).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command is the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdLogin
	CmdRegister
	CmdLogout
	CmdWhoami
	CmdConversations
	CmdDashboard
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds the parsed invocation.
type Args struct {
	// Global flags
	Quiet   bool
	JSON    bool
	NoCache bool

	// Command-specific
	Query          string // ask: the question text
	ConversationID string // ask/conversations: target conversation
	Email          string // login/register
	Name           string // register

	// Parser carries the remaining command arguments for handlers that
	// do their own subcommand parsing.
	Parser *ArgParser
}

const usageText = `pulse %s - terminal dashboard and chat client

Usage:
  pulse                       Start the full-screen TUI (default)
  pulse ask "question"        Ask one question and print the answer
  pulse chat                  Interactive line-mode chat
  pulse login                 Sign in (prompts for credentials)
    --email ADDR              Skip the email prompt
  pulse register              Create an account
    --email ADDR --name NAME  Skip the prompts
  pulse logout                Discard the saved session
  pulse whoami                Show the signed-in user
  pulse conversations         List conversations
  pulse conversations history <id>   Print a conversation transcript
    --limit N                 Most recent N messages (default: all)
  pulse dashboard             Print dashboard metrics and charts
    --range 7d|30d|90d        Chart range (default: from config)
  pulse config [show|set|path]       Inspect or change configuration
  pulse version               Show version information
  pulse help                  Show this help

Global flags:
  --json        Machine-readable output where supported
  --no-cache    Skip the local cache for this invocation
  -q, --quiet   Minimal output

Environment:
  PULSE_API_URL      Backend base URL (default http://localhost:8080)
  PULSE_THEME        dark or light
  PULSE_NO_CACHE     Disable the local cache

Configuration and state live under ~/.pulse/.
`

// PrintUsage prints the top-level help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("pulse version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse reads os.Args and returns the command to run with its arguments.
func Parse() (Command, Args) {
	return parse(os.Args[1:])
}

func parse(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Parser = NewArgParser(remaining)

	switch cmd {
	case "tui":
		return CmdTUI, args

	case "ask":
		args.Query = strings.Join(args.Parser.PositionalFrom(0), " ")
		args.ConversationID = args.Parser.Flag("conversation")
		return CmdAsk, args

	case "chat":
		args.ConversationID = args.Parser.Flag("conversation")
		return CmdChat, args

	case "login":
		args.Email = args.Parser.Flag("email")
		return CmdLogin, args

	case "register":
		args.Email = args.Parser.Flag("email")
		args.Name = args.Parser.Flag("name")
		return CmdRegister, args

	case "logout":
		return CmdLogout, args

	case "whoami":
		return CmdWhoami, args

	case "conversations", "convs":
		return CmdConversations, args

	case "dashboard", "dash":
		return CmdDashboard, args

	case "config":
		return CmdConfig, args

	case "version", "--version":
		return CmdVersion, args

	case "help", "-h", "--help":
		return CmdHelp, args

	default:
		fmt.Fprintf(os.Stderr, "pulse: unknown command %q\n\n", cmd)
		return CmdHelp, args
	}
}

// parseGlobalFlags strips flags that apply to every command.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var args Args
	var remaining []string

	for _, arg := range argv {
		switch arg {
		case "--json":
			args.JSON = true
		case "--no-cache":
			args.NoCache = true
		case "-q", "--quiet":
			args.Quiet = true
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining, args
}
