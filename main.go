// pulse - terminal dashboard and chat client.
//
// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pulsedash/pulse-tui/internal/api"
	"github.com/pulsedash/pulse-tui/internal/cli"
	"github.com/pulsedash/pulse-tui/internal/config"
	"github.com/pulsedash/pulse-tui/internal/model"
	"github.com/pulsedash/pulse-tui/internal/session"
	"github.com/pulsedash/pulse-tui/internal/storage"
	"github.com/pulsedash/pulse-tui/internal/ui"
)

// Version information (set at build time via -ldflags).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	// Help and version need no configuration or network.
	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage()
		return
	case cli.CmdVersion:
		cli.PrintVersion()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	setupLogging(cfg)

	sessions, err := session.NewStore()
	if err != nil {
		fatal(err)
	}

	client := api.NewClient(cfg.API.BaseURL).WithMaxRetries(cfg.API.MaxRetries)
	if sess, err := sessions.Load(); err == nil {
		client.SetToken(sess.Token)
	}

	switch cmd {
	case cli.CmdTUI:
		runTUI(cfg, client, sessions, args)
	case cli.CmdAsk:
		run(cli.HandleAsk(client, args))
	case cli.CmdChat:
		run(cli.HandleChat(client, args))
	case cli.CmdLogin:
		run(cli.HandleLogin(client, sessions, args))
	case cli.CmdRegister:
		run(cli.HandleRegister(client, sessions, args))
	case cli.CmdLogout:
		run(cli.HandleLogout(sessions, args))
	case cli.CmdWhoami:
		run(cli.HandleWhoami(sessions, args))
	case cli.CmdConversations:
		run(cli.HandleConversations(client, args))
	case cli.CmdDashboard:
		run(cli.HandleDashboard(client, model.TimeRange(cfg.UI.DefaultRange), args))
	case cli.CmdConfig:
		run(cli.HandleConfig(cfg, args))
	default:
		cli.PrintUsage()
		os.Exit(1)
	}
}

// runTUI opens the local cache and starts the full-screen client.
func runTUI(cfg *config.Config, client *api.Client, sessions *session.Store, args cli.Args) {
	var cache *storage.Cache
	if cfg.Cache.Enabled && !args.NoCache {
		path, err := cfg.CachePath()
		if err == nil {
			if c, err := storage.Open(path); err == nil {
				cache = c
				defer cache.Close()
			} else {
				log.Printf("cache unavailable, continuing without it: %v", err)
			}
		}
	}

	if err := ui.Run(ui.AppOptions{
		Config:   cfg,
		Client:   client,
		Sessions: sessions,
		Cache:    cache,
	}); err != nil {
		fatal(err)
	}
}

// setupLogging sends the standard logger to the configured file. The
// terminal is owned by the TUI, so stderr logging is only a fallback.
func setupLogging(cfg *config.Config) {
	if !cfg.Log.Enabled {
		log.SetOutput(io.Discard)
		return
	}
	path, err := cfg.LogPath()
	if err != nil {
		log.SetOutput(io.Discard)
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	log.SetPrefix("pulse ")
}

func run(err error) {
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
