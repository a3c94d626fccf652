// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui hosts the root Bubble Tea program for the pulse terminal
// client. The App model owns the shared API client, session store, and
// local cache, and swaps between the login gate, the dashboard, and the
// chat view.
package ui

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pulsedash/pulse-tui/internal/api"
	"github.com/pulsedash/pulse-tui/internal/config"
	"github.com/pulsedash/pulse-tui/internal/model"
	"github.com/pulsedash/pulse-tui/internal/session"
	"github.com/pulsedash/pulse-tui/internal/storage"
	"github.com/pulsedash/pulse-tui/internal/ui/chat"
	"github.com/pulsedash/pulse-tui/internal/ui/components"
	"github.com/pulsedash/pulse-tui/internal/ui/dashboard"
	"github.com/pulsedash/pulse-tui/internal/ui/login"
	"github.com/pulsedash/pulse-tui/internal/ui/styles"
)

// =============================================================================
// APP MODEL
// =============================================================================

// screen identifies the active top-level view.
type screen int

const (
	screenLogin screen = iota
	screenDashboard
	screenChat
)

// App is the root model for the TUI.
type App struct {
	cfg      *config.Config
	client   *api.Client
	sessions *session.Store
	cache    *storage.Cache // nil when the cache is disabled
	theme    *styles.Theme

	active    screen
	login     *login.Model
	dashboard *dashboard.Model
	chat      *chat.Model

	header    *components.Header
	statusBar *components.StatusBar

	userName string

	// sessionLost is set by the 401 handler, which fires on a command
	// goroutine. Update drains it and drops back to the login gate.
	sessionLost atomic.Bool

	width  int
	height int
}

// AppOptions configures the root model.
type AppOptions struct {
	Config   *config.Config
	Client   *api.Client
	Sessions *session.Store
	Cache    *storage.Cache
}

// NewApp wires the root model and its child views. If the session store
// holds a valid token the login gate is skipped.
func NewApp(opts AppOptions) *App {
	theme := styles.NewTheme()

	a := &App{
		cfg:       opts.Config,
		client:    opts.Client,
		sessions:  opts.Sessions,
		cache:     opts.Cache,
		theme:     theme,
		active:    screenLogin,
		login:     login.New(opts.Client, theme),
		header:    components.NewHeader(theme),
		statusBar: components.NewStatusBar(theme),
	}

	a.client.SetUnauthorizedHandler(func() {
		a.sessions.Clear()
		a.sessionLost.Store(true)
	})

	if sess, err := a.sessions.Load(); err == nil {
		a.client.SetToken(sess.Token)
		a.userName = sess.User.Name
		a.buildAuthedViews()
		a.active = screenDashboard
	}

	return a
}

// buildAuthedViews constructs the dashboard and chat models. They are
// created after auth so their Init commands run against a live token.
func (a *App) buildAuthedViews() {
	a.dashboard = dashboard.New(dashboard.Options{
		Client:       a.client,
		Cache:        a.cache,
		Theme:        a.theme,
		DefaultRange: model.TimeRange(a.cfg.UI.DefaultRange),
		CacheTTL:     a.cfg.Cache.TTL(),
	})
	a.chat = chat.New(chat.Options{
		Client:      a.client,
		Cache:       a.cache,
		Theme:       a.theme,
		Markdown:    a.cfg.UI.Markdown,
		ShowSidebar: a.cfg.UI.ShowSidebar,
	})
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	if a.active == screenLogin {
		return a.login.Init()
	}
	return tea.Batch(a.dashboard.Init(), a.chat.Init())
}

// =============================================================================
// UPDATE
// =============================================================================

// Update routes messages to the active view and handles global keys.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.sessionLost.Swap(false) {
		return a.lockOut()
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.header.SetWidth(msg.Width)
		a.statusBar.SetWidth(msg.Width)
		return a.forwardResize(msg)

	case login.AuthSuccessMsg:
		return a.handleAuthSuccess(msg)

	case ConfigReloadedMsg:
		// Settings that only affect new work pick up immediately; view
		// construction options (markdown, sidebar) apply on next login.
		a.cfg = msg.Config
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+q":
			// A stream in flight is torn down by the process exit; the
			// reconciler state is not persisted anyway.
			return a, tea.Quit
		case "ctrl+t":
			if a.active != screenLogin {
				return a.toggleScreen()
			}
		}
	}

	return a.forward(msg)
}

// lockOut drops back to the login gate after session invalidation.
func (a *App) lockOut() (tea.Model, tea.Cmd) {
	a.active = screenLogin
	a.userName = ""
	a.login = login.New(a.client, a.theme)
	a.dashboard = nil
	a.chat = nil
	return a, a.login.Init()
}

// handleAuthSuccess persists the session and enters the dashboard.
func (a *App) handleAuthSuccess(msg login.AuthSuccessMsg) (tea.Model, tea.Cmd) {
	// A save failure is not fatal: the token lives in the client for the
	// rest of the process, the user just logs in again next run.
	a.sessions.Save(&session.Session{Token: msg.Auth.Token, User: msg.Auth.User})
	a.userName = msg.Auth.User.Name

	a.buildAuthedViews()
	a.active = screenDashboard

	cmds := []tea.Cmd{a.dashboard.Init(), a.chat.Init()}
	if a.width > 0 {
		resize := tea.WindowSizeMsg{Width: a.width, Height: a.contentHeight()}
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.Update(resize)
		cmds = append(cmds, cmd)
		a.chat, cmd = a.chat.Update(resize)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

// toggleScreen flips between the dashboard and chat tabs.
func (a *App) toggleScreen() (tea.Model, tea.Cmd) {
	if a.active == screenDashboard {
		a.active = screenChat
	} else {
		a.active = screenDashboard
	}
	return a, nil
}

// contentHeight is the space left for the active view after the header
// and status bar lines.
func (a *App) contentHeight() int {
	h := a.height - 2
	if h < 0 {
		h = 0
	}
	return h
}

// forwardResize propagates a resize to every live view.
func (a *App) forwardResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	child := tea.WindowSizeMsg{Width: msg.Width, Height: a.contentHeight()}
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if a.login != nil {
		a.login, cmd = a.login.Update(child)
		cmds = append(cmds, cmd)
	}
	if a.dashboard != nil {
		a.dashboard, cmd = a.dashboard.Update(child)
		cmds = append(cmds, cmd)
	}
	if a.chat != nil {
		a.chat, cmd = a.chat.Update(child)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

// forward routes a message to the active view. Stream messages always go
// to chat so a turn keeps flowing while the dashboard is on screen.
func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.(type) {
	case chat.StreamOpenedMsg, chat.StreamEventMsg, chat.StreamClosedMsg,
		chat.StreamFailedMsg, chat.StreamTickMsg,
		chat.ConversationsLoadedMsg, chat.HistoryLoadedMsg:
		if a.chat != nil {
			a.chat, cmd = a.chat.Update(msg)
		}
		return a, cmd
	case dashboard.MetricsLoadedMsg, dashboard.ChartsLoadedMsg:
		if a.dashboard != nil {
			a.dashboard, cmd = a.dashboard.Update(msg)
		}
		return a, cmd
	}

	switch a.active {
	case screenLogin:
		a.login, cmd = a.login.Update(msg)
	case screenDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case screenChat:
		a.chat, cmd = a.chat.Update(msg)
	}
	return a, cmd
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the header, the active view, and the status bar.
func (a *App) View() string {
	if a.active == screenLogin {
		return a.login.View()
	}

	a.header.UserName = a.userName
	if a.active == screenChat {
		a.header.Active = components.ScreenChat
	} else {
		a.header.Active = components.ScreenDashboard
	}

	var body string
	switch a.active {
	case screenDashboard:
		body = a.dashboard.View()
		a.statusBar.Status = components.StatusReady
		a.statusBar.Shortcuts = []components.Shortcut{
			{Key: "tab", Desc: "range"},
			{Key: "r", Desc: "refresh"},
			{Key: "ctrl+t", Desc: "chat"},
			{Key: "ctrl+q", Desc: "quit"},
		}
	case screenChat:
		body = a.chat.View()
		if a.chat.Streaming() {
			a.statusBar.Status = components.StatusStreaming
		} else {
			a.statusBar.Status = components.StatusReady
		}
		a.statusBar.Shortcuts = []components.Shortcut{
			{Key: "enter", Desc: "send"},
			{Key: "ctrl+n", Desc: "new"},
			{Key: "ctrl+t", Desc: "dashboard"},
			{Key: "ctrl+q", Desc: "quit"},
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.header.View(),
		body,
		a.statusBar.View(),
	)
}

// ConfigReloadedMsg carries a config freshly reloaded from disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// Run starts the Bubble Tea program in the alternate screen. While it
// runs, edits to the config file are picked up live.
func Run(opts AppOptions) error {
	p := tea.NewProgram(NewApp(opts), tea.WithAltScreen())

	if path, err := config.Path(); err == nil {
		if w, err := config.NewWatcher(path, func(cfg *config.Config) {
			p.Send(ConfigReloadedMsg{Config: cfg})
		}); err == nil {
			if err := w.Watch(); err != nil {
				w.Close()
			} else {
				defer w.Close()
			}
		}
	}

	_, err := p.Run()
	return err
}
