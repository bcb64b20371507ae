// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cerebrum-tui/internal/ui/styles"
)

// =============================================================================
// SPINNER TESTS
// =============================================================================

func TestSpinner_StartStop(t *testing.T) {
	s := NewSpinner("Sending")
	if s.IsActive() {
		t.Fatal("new spinner should be inactive")
	}
	if s.View() != "" {
		t.Error("inactive spinner should render nothing")
	}

	if cmd := s.Start(); cmd == nil {
		t.Error("Start() should return a tick command")
	}
	if cmd := s.Start(); cmd != nil {
		t.Error("second Start() should not schedule another tick")
	}
	if !strings.Contains(s.View(), "Sending") {
		t.Errorf("View() = %q, want message", s.View())
	}

	s.Stop()
	if s.IsActive() || s.View() != "" {
		t.Error("stopped spinner should render nothing")
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{1500 * time.Millisecond, "1.5s"},
		{65 * time.Second, "1m05s"},
	}
	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

// =============================================================================
// ALERT TESTS
// =============================================================================

func TestAlerts_Queue(t *testing.T) {
	a := NewAlerts(styles.NewTheme(), 2)
	if a.Visible() {
		t.Fatal("empty queue should not be visible")
	}

	a.Push("one")
	a.Push("two")
	a.Push("three")
	if got := a.Current(); got != "two" {
		t.Errorf("Current() = %q, want oldest kept alert %q", got, "two")
	}
	if !strings.Contains(a.View(80), "1 more") {
		t.Error("View() should count queued alerts")
	}

	a.Dismiss()
	if got := a.Current(); got != "three" {
		t.Errorf("Current() = %q, want %q", got, "three")
	}
	a.Dismiss()
	a.Dismiss()
	if a.Visible() || a.View(80) != "" {
		t.Error("queue should be empty")
	}
}

// =============================================================================
// CONFIRM TESTS
// =============================================================================

func TestConfirm_Answers(t *testing.T) {
	tests := []struct {
		key     tea.KeyMsg
		wantYes bool
	}{
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}, true},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")}, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, false},
	}
	for _, tt := range tests {
		c := NewConfirm(styles.NewTheme())
		c.Show("Delete?", "note.md")
		if !strings.Contains(c.View(), "Delete?") {
			t.Error("View() should show the question")
		}

		cmd := c.HandleKey(tt.key)
		if cmd == nil {
			t.Fatalf("key %q should answer", tt.key.String())
		}
		msg, ok := cmd().(ConfirmedMsg)
		if !ok {
			t.Fatalf("expected ConfirmedMsg")
		}
		if msg.Yes != tt.wantYes || msg.Tag != "note.md" {
			t.Errorf("key %q: got %+v", tt.key.String(), msg)
		}
		if c.IsVisible() {
			t.Error("dialog should close after an answer")
		}
	}
}

func TestConfirm_IgnoresOtherKeys(t *testing.T) {
	c := NewConfirm(styles.NewTheme())
	if c.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}) != nil {
		t.Error("hidden dialog should ignore keys")
	}
	c.Show("Delete?", "")
	if c.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}) != nil {
		t.Error("unrelated key should be ignored")
	}
	if !c.IsVisible() {
		t.Error("dialog should stay open")
	}
}

// =============================================================================
// MARKDOWN / STATUS BAR TESTS
// =============================================================================

func TestMarkdown_DisabledPassesThrough(t *testing.T) {
	m := NewMarkdown("dark", false)
	if got := m.Render("# Title", 40); got != "# Title" {
		t.Errorf("disabled Render() = %q", got)
	}
}

func TestMarkdown_Renders(t *testing.T) {
	m := NewMarkdown("notty", true)
	got := m.Render("# Title\n\nsome **bold** text", 40)
	if !strings.Contains(got, "Title") || !strings.Contains(got, "bold") {
		t.Errorf("Render() = %q", got)
	}
	if strings.HasPrefix(got, "\n") || strings.HasSuffix(got, "\n") {
		t.Errorf("Render() should trim surrounding newlines: %q", got)
	}
}

func TestRenderStatusBar(t *testing.T) {
	theme := styles.NewTheme()
	bindings := []key.Binding{
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "hidden"), key.WithDisabled()),
	}
	bar := RenderStatusBar(theme, 60, bindings, "ready")
	if !strings.Contains(bar, "quit") || !strings.Contains(bar, "ready") {
		t.Errorf("status bar = %q", bar)
	}
	if strings.Contains(bar, "hidden") {
		t.Error("disabled bindings should be skipped")
	}
	if RenderStatusBar(theme, 0, bindings, "") != "" {
		t.Error("zero width should render nothing")
	}
}
