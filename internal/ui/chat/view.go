// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pulsedash/pulse-tui/internal/model"
	"github.com/pulsedash/pulse-tui/internal/util"
)

// View renders the chat screen: sidebar, transcript viewport, input box.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	transcriptPane := m.viewport.View()
	if m.showSidebar {
		transcriptPane = lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderSidebar(),
			transcriptPane,
		)
	}

	sections := []string{transcriptPane}
	if m.spinner.Active() {
		sections = append(sections, m.theme.ThinkingText.Render(m.spinner.View()))
	}
	if m.lastErr != nil {
		sections = append(sections, m.theme.FormError.Render(m.lastErr.Error()))
	}
	sections = append(sections, m.renderInput())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// renderTranscript rebuilds the viewport content from the reconciler state
// and keeps the view pinned to the bottom while streaming.
func (m *Model) renderTranscript() {
	msgs := m.reconciler.Messages()
	if len(msgs) == 0 {
		m.viewport.SetContent(m.theme.ThinkingText.Render(
			"No messages yet. Type below to start a conversation."))
		return
	}

	wasAtBottom := m.viewport.AtBottom()

	var sb strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderMessage(msg))
		sb.WriteString("\n")
	}
	m.viewport.SetContent(sb.String())

	if wasAtBottom || m.reconciler.TurnOpen() {
		m.viewport.GotoBottom()
	}
}

// renderMessage renders a single transcript entry as a labeled bubble.
func (m *Model) renderMessage(msg *model.Message) string {
	bubbleWidth := m.viewport.Width - 8
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	label := m.theme.RoleLabel.Render(msg.Role.DisplayName())

	content := msg.Content
	if msg.Role == model.RoleAssistant && m.renderer != nil && content != "" {
		if rendered, err := m.renderer.Render(content); err == nil {
			content = strings.TrimRight(rendered, "\n")
		}
	}

	var bubble string
	switch msg.Role {
	case model.RoleUser:
		bubble = m.theme.UserBubble.Width(bubbleWidth).Render(content)
	default:
		bubble = m.theme.AssistantBubble.Width(bubbleWidth).Render(content)
	}

	return label + "\n" + bubble
}

// =============================================================================
// SIDEBAR RENDERING
// =============================================================================

func (m *Model) renderSidebar() string {
	var sb strings.Builder
	sb.WriteString(m.theme.SidebarTitle.Render("Conversations"))
	sb.WriteString("\n")

	if len(m.conversations) == 0 {
		sb.WriteString(m.theme.SidebarItem.Render("(none yet)"))
	}

	activeID := m.reconciler.ConversationID()
	for i, conv := range m.conversations {
		title := util.TruncateWidth(conv.GetTitle(), sidebarWidth-4)

		style := m.theme.SidebarItem
		prefix := "  "
		if i == m.selected {
			style = m.theme.SidebarItemSelected
		}
		if conv.ID == activeID {
			prefix = "> "
		}
		sb.WriteString(style.Render(prefix + title))
		sb.WriteString("\n")
		sb.WriteString(m.theme.SidebarItemTimestamp.Render(
			"  " + conv.UpdatedAt.Format("Jan 2 15:04")))
		sb.WriteString("\n")
	}

	return m.theme.Sidebar.
		Width(sidebarWidth).
		Height(m.viewport.Height).
		Render(sb.String())
}

// =============================================================================
// INPUT RENDERING
// =============================================================================

func (m *Model) renderInput() string {
	prompt := m.theme.InputPrompt.Render("> ")
	hint := ""
	if m.reconciler.TurnOpen() {
		hint = m.theme.InputPlaceholder.Render("  (Esc to cancel)")
	}
	return m.theme.InputContainer.Width(m.width - 2).Render(
		fmt.Sprintf("%s%s%s", prompt, m.input.View(), hint))
}
