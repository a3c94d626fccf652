// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/pulsedash/pulse-tui/internal/api"
	"github.com/pulsedash/pulse-tui/internal/model"
	"github.com/pulsedash/pulse-tui/internal/storage"
	"github.com/pulsedash/pulse-tui/internal/transcript"
	"github.com/pulsedash/pulse-tui/internal/ui/components"
	"github.com/pulsedash/pulse-tui/internal/ui/styles"
)

// sidebarWidth is the fixed column width of the conversation sidebar.
const sidebarWidth = 28

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// Dependencies
	client *api.Client
	cache  *storage.Cache
	theme  *styles.Theme

	// Transcript state. The reconciler is owned by this model and only
	// touched from Update.
	reconciler *transcript.Reconciler

	// Open stream, nil between turns.
	stream       *api.Stream
	streamCancel context.CancelFunc

	// Render throttle
	buffer *StreamingBuffer

	// Conversation sidebar
	conversations []model.Conversation
	selected      int
	showSidebar   bool

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  components.Spinner
	keyMap   KeyMap

	// Markdown rendering, nil when disabled.
	renderer *glamour.TermRenderer

	// Dimensions
	width  int
	height int
	ready  bool

	// Status line
	status  components.Status
	lastErr error
}

// Options configures the chat view.
type Options struct {
	Client      *api.Client
	Cache       *storage.Cache // nil disables the local cache
	Theme       *styles.Theme
	Markdown    bool
	ShowSidebar bool
}

// New creates the chat view model.
func New(opts Options) *Model {
	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.CharLimit = 4000
	input.Focus()

	var renderer *glamour.TermRenderer
	if opts.Markdown {
		// Word wrap is set on resize; auto style follows the terminal.
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err == nil {
			renderer = r
		}
	}

	return &Model{
		client:      opts.Client,
		cache:       opts.Cache,
		theme:       opts.Theme,
		reconciler:  transcript.New(),
		buffer:      NewStreamingBuffer(),
		showSidebar: opts.ShowSidebar,
		input:       input,
		spinner:     components.NewSpinner(opts.Theme),
		keyMap:      DefaultKeyMap(),
		renderer:    renderer,
		status:      components.StatusReady,
	}
}

// Init loads the conversation list.
func (m *Model) Init() tea.Cmd {
	return loadConversationsCmd(context.Background(), m.client, m.cache)
}

// Streaming reports whether a turn is currently in flight.
func (m *Model) Streaming() bool {
	return m.reconciler.TurnOpen()
}

// ConversationID exposes the active conversation for the app header.
func (m *Model) ConversationID() string {
	return m.reconciler.ConversationID()
}

// closeStream tears down the open stream and its context.
func (m *Model) closeStream() {
	if m.stream != nil {
		m.stream.Close()
		m.stream = nil
	}
	if m.streamCancel != nil {
		m.streamCancel()
		m.streamCancel = nil
	}
}
