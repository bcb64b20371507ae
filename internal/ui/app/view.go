// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cerebrum-tui/internal/ui/components"
	"github.com/jeranaias/cerebrum-tui/internal/ui/styles"
	"github.com/jeranaias/cerebrum-tui/internal/view"
)

// View renders the whole screen.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Starting cerebrum..."
	}

	body := m.viewBody()
	switch {
	case m.alerts.Visible():
		body = m.place(m.alerts.View(m.width))
	case m.notes.Overlay() != "":
		body = m.place(m.notes.Overlay())
	}

	bar := components.RenderStatusBar(m.theme, m.width, m.bindings(), m.status())
	return lipgloss.JoinVertical(lipgloss.Left, body, bar)
}

func (m *Model) viewBody() string {
	navW, centerW, filesW := m.columns()
	h := m.bodyHeight()
	mode := m.nav.State().Mode

	var center string
	switch {
	case m.focus == focusFiles && filesW == 0:
		center = m.pane(m.files.View(), centerW, h, true)
	case mode == view.ModeNotes:
		center = m.pane(m.notes.View(), centerW, h, m.focus == focusMain)
	default:
		center = m.pane(m.chat.View(), centerW, h, m.focus == focusMain)
	}

	cols := make([]string, 0, 3)
	if navW > 0 {
		cols = append(cols, m.viewNav(navW, h, mode))
	}
	cols = append(cols, center)
	if filesW > 0 {
		cols = append(cols, m.pane(m.files.View(), filesW, h, m.focus == focusFiles))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// pane wraps content in a bordered box of the given outer size.
func (m *Model) pane(content string, width, height int, focused bool) string {
	style := m.theme.Pane
	if focused {
		style = m.theme.PaneFocused
	}
	return style.
		Width(max(width-2, 1)).
		Height(max(height-2, 1)).
		MaxHeight(height).
		Render(content)
}

func (m *Model) viewNav(width, height int, mode view.Mode) string {
	item := func(label string, active bool) string {
		if active {
			return m.theme.NavActive.Render(label)
		}
		return m.theme.NavItem.Render(label)
	}

	lines := []string{
		m.theme.Brand.Render(" cerebrum"),
		"",
		item("Chat", mode == view.ModeChat && m.focus == focusMain),
		item("Notes", mode == view.ModeNotes && m.focus == focusMain),
		item("Files", m.focus == focusFiles),
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		MaxHeight(height).
		Render(strings.Join(lines, "\n"))
}

// place centers an overlay in the body area.
func (m *Model) place(overlay string) string {
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, overlay)
}

func (m *Model) bindings() []key.Binding {
	if m.alerts.Visible() {
		return []key.Binding{m.keys.Dismiss}
	}

	var pane []key.Binding
	switch {
	case m.focus == focusFiles:
		pane = m.files.Bindings()
	case m.nav.State().Mode == view.ModeNotes:
		pane = m.notes.Bindings()
	default:
		pane = m.chat.Bindings()
	}
	return append(pane, m.keys.Chat, m.keys.Notes, m.keys.Files)
}

func (m *Model) status() string {
	parts := make([]string, 0, 3)
	if n := m.chat.InFlight(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d sending", n))
	}
	switch {
	case m.online == nil:
		parts = append(parts, m.cfg.Backend.BaseURL)
	case *m.online:
		parts = append(parts, styles.StatusIndicators.Success+" "+m.cfg.Backend.BaseURL)
	default:
		parts = append(parts, styles.StatusIndicators.Error+" offline")
	}
	parts = append(parts, m.uptime().String())
	return strings.Join(parts, "  ")
}
