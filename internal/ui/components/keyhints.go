// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cerebrum-tui/internal/ui/styles"
)

// RenderStatusBar renders key binding hints on the left and status on the
// right, truncated to width.
func RenderStatusBar(theme *styles.Theme, width int, bindings []key.Binding, status string) string {
	var parts []string
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, theme.StatusKey.Render(h.Key)+theme.StatusDetail.Render(" "+h.Desc))
	}
	left := strings.Join(parts, theme.StatusDetail.Render("  "))
	right := theme.StatusDetail.Render(status)

	inner := width - 2
	if inner <= 0 {
		return ""
	}
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return theme.StatusBar.Width(width).MaxHeight(1).Render(left)
	}
	return theme.StatusBar.Width(width).Render(left + theme.StatusDetail.Render(strings.Repeat(" ", gap)) + right)
}
