// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pulsedash/pulse-tui/internal/model"
	"github.com/pulsedash/pulse-tui/internal/transcript"
	"github.com/pulsedash/pulse-tui/internal/ui/components"
)

// Update handles all chat view messages.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamOpenedMsg:
		m.stream = msg.Stream
		return m, tea.Batch(nextEventCmd(m.stream), streamTickCmd())

	case StreamEventMsg:
		return m.handleStreamEvent(msg.Event)

	case StreamFailedMsg:
		m.lastErr = msg.Err
		m.spinner.Stop()
		m.status = components.StatusError
		m.reconciler.Fail()
		m.closeStream()
		m.renderTranscript()
		return m, nil

	case StreamClosedMsg:
		return m.handleStreamClosed(msg)

	case StreamTickMsg:
		return m.handleStreamTick()

	case ConversationsLoadedMsg:
		if msg.Err == nil {
			m.conversations = msg.Conversations
			if m.selected >= len(m.conversations) {
				m.selected = 0
			}
		}
		return m, nil

	case HistoryLoadedMsg:
		return m.handleHistoryLoaded(msg)
	}

	// Spinner animation and anything else the components consume.
	if cmd := m.spinner.Update(msg); cmd != nil {
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.Cancel):
		if m.reconciler.TurnOpen() {
			m.closeStream()
			m.reconciler.Cancel()
			m.buffer.Reset()
			m.spinner.Stop()
			m.status = components.StatusReady
			m.renderTranscript()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.NewChat):
		if err := m.reconciler.StartNew(); err == nil {
			m.renderTranscript()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.ToggleSidebar):
		m.showSidebar = !m.showSidebar
		m.layoutViewport()
		m.renderTranscript()
		return m, nil

	case key.Matches(msg, m.keyMap.NextConv):
		if m.selected < len(m.conversations)-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(msg, m.keyMap.PrevConv):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(msg, m.keyMap.SelectConv):
		return m.openSelected()

	case key.Matches(msg, m.keyMap.PageUp), key.Matches(msg, m.keyMap.PageDown),
		key.Matches(msg, m.keyMap.Up), key.Matches(msg, m.keyMap.Down):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit validates and sends the typed message.
func (m *Model) submit() (*Model, tea.Cmd) {
	userMsg, err := m.reconciler.Submit(m.input.Value())
	if err != nil {
		// Empty input and turn-in-flight are silently ignored; the input
		// keeps its content so nothing the user typed is lost.
		return m, nil
	}

	m.input.Reset()
	m.lastErr = nil
	m.buffer.Reset()
	m.status = components.StatusStreaming
	m.renderTranscript()

	ctx, cancel := context.WithCancel(context.Background())
	m.streamCancel = cancel

	return m, tea.Batch(
		openStreamCmd(ctx, m.client, userMsg.Content, m.reconciler.ConversationID()),
		m.spinner.Start(),
	)
}

// openSelected loads the highlighted sidebar conversation.
func (m *Model) openSelected() (*Model, tea.Cmd) {
	if m.reconciler.TurnOpen() || m.selected >= len(m.conversations) {
		return m, nil
	}
	conv := m.conversations[m.selected]
	m.status = components.StatusLoading
	return m, loadHistoryCmd(context.Background(), m.client, m.cache, conv.ID)
}

// =============================================================================
// STREAM HANDLING
// =============================================================================

func (m *Model) handleStreamEvent(ev model.StreamEvent) (*Model, tea.Cmd) {
	effect := m.reconciler.Apply(ev)

	var cmds []tea.Cmd
	switch ev.Type {
	case model.EventContent:
		if m.spinner.Active() {
			// First visible content ends the thinking state.
			m.spinner.Stop()
			m.renderTranscript()
		}
		m.buffer.Write(ev.Text)
	case model.EventEnd, model.EventError:
		m.spinner.Stop()
		m.status = components.StatusReady
		m.renderTranscript()
	}

	if effect == transcript.EffectRefreshConversations {
		cmds = append(cmds, loadConversationsCmd(context.Background(), m.client, m.cache))
	}

	if m.stream != nil {
		cmds = append(cmds, nextEventCmd(m.stream))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleStreamClosed(msg StreamClosedMsg) (*Model, tea.Cmd) {
	// A transport failure mid-turn surfaces as transcript content, the same
	// as a backend error event. A close after the turn ended is routine.
	if m.reconciler.TurnOpen() {
		m.reconciler.Fail()
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.lastErr = msg.Err
		}
	}
	m.closeStream()
	m.spinner.Stop()
	m.buffer.Reset()
	m.status = components.StatusReady
	m.renderTranscript()
	return m, nil
}

func (m *Model) handleStreamTick() (*Model, tea.Cmd) {
	if m.stream == nil && !m.reconciler.TurnOpen() {
		// Stream finished; let the tick loop stop.
		if _, ok := m.buffer.ForceFlush(); ok {
			m.renderTranscript()
		}
		return m, nil
	}

	if _, ok := m.buffer.Flush(); ok {
		m.renderTranscript()
	}
	return m, streamTickCmd()
}

// =============================================================================
// CONVERSATION HANDLING
// =============================================================================

func (m *Model) handleHistoryLoaded(msg HistoryLoadedMsg) (*Model, tea.Cmd) {
	m.status = components.StatusReady
	if msg.Err != nil {
		m.lastErr = msg.Err
		return m, nil
	}
	if err := m.reconciler.SwitchConversation(msg.ConversationID, msg.Messages); err != nil {
		return m, nil
	}
	m.renderTranscript()
	m.viewport.GotoBottom()
	return m, nil
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m *Model) handleResize(msg tea.WindowSizeMsg) (*Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.layoutViewport()
	m.input.Width = m.width - 6
	m.ready = true
	m.renderTranscript()
	return m, nil
}

func (m *Model) layoutViewport() {
	contentWidth := m.width
	if m.showSidebar {
		contentWidth -= sidebarWidth
	}
	// Header, input box, and status bar take up the vertical margins.
	contentHeight := m.height - 6
	if contentHeight < 1 {
		contentHeight = 1
	}
	if contentWidth < 4 {
		contentWidth = 4
	}
	m.viewport.Width = contentWidth
	m.viewport.Height = contentHeight
}
