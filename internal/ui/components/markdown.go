// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// Markdown renders markdown for a given wrap width. The underlying glamour
// renderer is rebuilt only when the width changes. A Markdown that failed
// to build a renderer, or was disabled, returns content unchanged.
type Markdown struct {
	style    string
	enabled  bool
	width    int
	renderer *glamour.TermRenderer
}

// NewMarkdown creates a renderer using a glamour standard style name
// ("dark", "light", "notty", "dracula", ...).
func NewMarkdown(style string, enabled bool) *Markdown {
	return &Markdown{style: style, enabled: enabled}
}

// Render renders content wrapped to width.
func (m *Markdown) Render(content string, width int) string {
	if !m.enabled || width <= 0 {
		return content
	}
	if m.renderer == nil || m.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			m.enabled = false
			return content
		}
		m.renderer = r
		m.width = width
	}

	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
