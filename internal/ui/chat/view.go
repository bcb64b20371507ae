// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cerebrum-tui/internal/model"
	"github.com/jeranaias/cerebrum-tui/internal/ui/styles"
)

// View renders the pane.
func (m Model) View() string {
	status := m.spinner.View()
	if status == "" && m.browsing {
		status = m.theme.Muted.Render("browsing: up/down select, r retry, esc back")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		status,
		m.input.View(),
	)
}

// render rebuilds the viewport content from the transcript snapshot.
func (m *Model) render() {
	if m.width <= 0 {
		return
	}
	if len(m.messages) == 0 {
		m.viewport.SetContent(m.theme.EmptyState.Render("No messages yet. Ask something about your notes."))
		return
	}

	bubbleWidth := max(m.width-4, 10)
	var b strings.Builder
	var cursorLine, line int
	for i, msg := range m.messages {
		if i > 0 {
			b.WriteString("\n")
			line++
		}
		if m.browsing && i == m.cursor {
			cursorLine = line
		}
		block := m.renderMessage(msg, bubbleWidth, m.browsing && i == m.cursor)
		b.WriteString(block)
		b.WriteString("\n")
		line += lipgloss.Height(block)
	}
	m.viewport.SetContent(b.String())

	if m.browsing {
		if cursorLine < m.viewport.YOffset || cursorLine >= m.viewport.YOffset+m.viewport.Height {
			m.viewport.SetYOffset(cursorLine)
		}
		return
	}
	m.viewport.GotoBottom()
}

func (m *Model) renderMessage(msg model.Message, width int, selected bool) string {
	var header, body string
	switch msg.Role {
	case model.RoleUser:
		header = m.theme.UserLabel.Render("You") + statusMark(m.theme, msg.Status)
		body = m.theme.UserBubble.Width(width).Render(msg.Content)
	default:
		header = m.theme.BotLabel.Render("Cerebrum")
		body = m.theme.BotBubble.Width(width).Render(m.md.Render(msg.Content, width-2))
	}
	if selected {
		header = m.theme.CursorMark.Render("> ") + header
	} else {
		header = "  " + header
	}
	return header + "\n" + body
}

func statusMark(theme *styles.Theme, status model.Status) string {
	switch status {
	case model.StatusPending:
		return " " + theme.PendingMark.Render(styles.StatusIndicators.Pending+" sending")
	case model.StatusFailed:
		return " " + theme.FailedMark.Render(styles.StatusIndicators.Error+" failed, C-b then r to retry")
	}
	return ""
}
