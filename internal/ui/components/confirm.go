// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cerebrum-tui/internal/ui/styles"
)

// =============================================================================
// CONFIRM DIALOG
// =============================================================================

// ConfirmedMsg reports the answer to a Confirm dialog. Tag identifies what
// was being confirmed.
type ConfirmedMsg struct {
	Tag string
	Yes bool
}

// Confirm is a y/n modal dialog.
type Confirm struct {
	theme    *styles.Theme
	question string
	tag      string
	visible  bool
}

// NewConfirm creates a hidden dialog.
func NewConfirm(theme *styles.Theme) *Confirm {
	return &Confirm{theme: theme}
}

// Show asks question; the answer arrives as a ConfirmedMsg carrying tag.
func (c *Confirm) Show(question, tag string) {
	c.question = question
	c.tag = tag
	c.visible = true
}

// IsVisible returns whether the dialog is showing.
func (c *Confirm) IsVisible() bool {
	return c.visible
}

// HandleKey answers the dialog. y confirms; n, esc and ctrl+c decline;
// other keys are ignored and return nil.
func (c *Confirm) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if !c.visible {
		return nil
	}
	var yes bool
	switch msg.String() {
	case "y", "Y":
		yes = true
	case "n", "N", "esc", "ctrl+c":
		yes = false
	default:
		return nil
	}
	c.visible = false
	answer := ConfirmedMsg{Tag: c.tag, Yes: yes}
	return func() tea.Msg { return answer }
}

// View renders the dialog, or nothing when hidden.
func (c *Confirm) View() string {
	if !c.visible {
		return ""
	}
	return c.theme.Dialog.Render(
		c.theme.Danger.Render(c.question) + "\n\n" +
			c.theme.HelpKey.Render("y") + c.theme.Muted.Render(" yes   ") +
			c.theme.HelpKey.Render("n") + c.theme.Muted.Render(" no"))
}
