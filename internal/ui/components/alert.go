// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cerebrum-tui/internal/ui/styles"
)

// =============================================================================
// ALERTS
// =============================================================================

// Alerts is a modal notification queue. While non-empty it shows the oldest
// alert and the owner routes keys to Dismiss.
type Alerts struct {
	theme   *styles.Theme
	pending []string
	max     int
}

// NewAlerts creates a queue that keeps at most max alerts, dropping the
// oldest beyond that.
func NewAlerts(theme *styles.Theme, max int) *Alerts {
	if max <= 0 {
		max = 8
	}
	return &Alerts{theme: theme, max: max}
}

// Push adds an alert.
func (a *Alerts) Push(message string) {
	a.pending = append(a.pending, message)
	if len(a.pending) > a.max {
		a.pending = a.pending[len(a.pending)-a.max:]
	}
}

// Visible reports whether an alert is showing.
func (a *Alerts) Visible() bool {
	return len(a.pending) > 0
}

// Current returns the alert being shown.
func (a *Alerts) Current() string {
	if len(a.pending) == 0 {
		return ""
	}
	return a.pending[0]
}

// Dismiss closes the current alert.
func (a *Alerts) Dismiss() {
	if len(a.pending) > 0 {
		a.pending = a.pending[1:]
	}
}

// View renders the current alert, or nothing.
func (a *Alerts) View(width int) string {
	if !a.Visible() {
		return ""
	}
	footer := "enter to dismiss"
	if n := len(a.pending) - 1; n > 0 {
		footer = fmt.Sprintf("enter to dismiss (%d more)", n)
	}
	body := styles.RenderWarning(a.Current()) + "\n\n" + a.theme.Muted.Render(footer)
	style := a.theme.Toast
	if width > 8 {
		style = style.MaxWidth(width - 4)
	}
	return lipgloss.NewStyle().Render(style.Render(body))
}
