// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cerebrum-tui/internal/model"
	"github.com/jeranaias/cerebrum-tui/internal/util"
)

// View renders the list or the editor.
func (m Model) View() string {
	if m.state.EditorOpen() {
		return m.viewEditor()
	}
	return m.viewList()
}

func (m Model) viewList() string {
	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render(fmt.Sprintf("Notes (%d)", len(m.notes))))
	b.WriteString("\n")

	if m.loading {
		b.WriteString(m.spinner.View())
		b.WriteString("\n")
	}
	if len(m.notes) == 0 {
		if !m.loading {
			b.WriteString(m.theme.EmptyState.Render("No notes yet. Press n to create one."))
		}
		return b.String()
	}

	// Two lines per note; keep the cursor on screen.
	visible := max((m.height-2)/2, 1)
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(m.notes))

	width := max(m.width-4, 8)
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(m.notes[i], i == m.cursor, width))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderRow(note model.Note, selected bool, width int) string {
	title := note.Title
	if strings.TrimSpace(title) == "" {
		title = note.Filename
	}
	title = util.TruncateWidth(title, width)
	if m.ctrl.Dirty(note.Filename) {
		title += " " + m.theme.DirtyMark.Render("*")
	}

	style := m.theme.ListItem
	if selected {
		style = m.theme.ListSelected
	}
	preview := util.TruncateWidth(note.Preview(), width-2)
	return style.Render(title) + "\n" + m.theme.ListPreview.Render(preview)
}

func (m Model) viewEditor() string {
	header := m.theme.PaneTitle.Render(util.TruncateWidth(m.editing, max(m.width-16, 8)))
	switch {
	case m.saving[m.editing] || m.queued[m.editing] != nil:
		header += " " + m.theme.Muted.Render("saving...")
	case m.ctrl.Dirty(m.editing):
		header += " " + m.theme.DirtyMark.Render("[!] unsaved")
	}

	titleLabel := m.theme.FieldLabel.Render("Title")
	contentLabel := m.theme.FieldLabel.Render("Content")
	if m.field == model.FieldTitle {
		titleLabel = m.theme.CursorMark.Render("> ") + titleLabel
	} else {
		contentLabel = m.theme.CursorMark.Render("> ") + contentLabel
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		titleLabel,
		m.title.View(),
		"",
		contentLabel,
		m.content.View(),
	)
}
