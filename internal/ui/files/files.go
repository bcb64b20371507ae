// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package files provides the file registry sidebar of the TUI: processing
// badges per uploaded file, an upload path prompt and periodic polling.
package files

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	filesctl "github.com/jeranaias/cerebrum-tui/internal/files"
	"github.com/jeranaias/cerebrum-tui/internal/model"
	"github.com/jeranaias/cerebrum-tui/internal/ui/styles"
	"github.com/jeranaias/cerebrum-tui/internal/util"
)

// =============================================================================
// MESSAGES
// =============================================================================

// RefreshedMsg reports the end of a registry fetch.
type RefreshedMsg struct {
	Err error
}

// UploadedMsg reports the end of an upload attempt.
type UploadedMsg struct {
	Result filesctl.UploadResult
	Err    error
}

// TriggeredMsg reports the end of a conversion or embedding trigger.
type TriggeredMsg struct {
	What string
	Err  error
}

// PollMsg fires on every poll interval.
type PollMsg struct{}

// =============================================================================
// KEYS
// =============================================================================

// KeyMap defines the keyboard bindings of the registry pane.
type KeyMap struct {
	Upload  key.Binding
	Submit  key.Binding
	Cancel  key.Binding
	Convert key.Binding
	Embed   key.Binding
	Refresh key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Upload:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload pdf")),
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "upload")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Convert: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "convert")),
		Embed:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "embed")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the file registry pane.
type Model struct {
	ctx      context.Context
	ctrl     *filesctl.Controller
	theme    *styles.Theme
	keys     KeyMap
	interval time.Duration

	entries   []model.FileEntry
	input     textinput.Model
	prompting bool
	uploading bool

	width   int
	height  int
	focused bool
}

// New creates the pane. A zero interval disables polling.
func New(ctx context.Context, ctrl *filesctl.Controller, theme *styles.Theme, interval time.Duration) Model {
	input := textinput.New()
	input.Placeholder = "path/to/file.pdf"
	input.Prompt = theme.InputPrompt.Render("pdf> ")
	input.CharLimit = 1024

	return Model{
		ctx:      ctx,
		ctrl:     ctrl,
		theme:    theme,
		keys:     DefaultKeyMap(),
		interval: interval,
		input:    input,
	}
}

// Init fetches the registry and starts polling.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.tick())
}

// SetSize lays out the pane.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width-8, 4)
}

// Focus gives the pane keyboard focus.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	if m.prompting {
		return m.input.Focus()
	}
	return nil
}

// Blur removes keyboard focus.
func (m *Model) Blur() {
	m.focused = false
	m.input.Blur()
}

// Capturing reports whether the upload prompt consumes plain keys.
func (m Model) Capturing() bool {
	return m.focused && m.prompting
}

// Bindings returns the bindings relevant in the current state.
func (m Model) Bindings() []key.Binding {
	if m.prompting {
		return []key.Binding{m.keys.Submit, m.keys.Cancel}
	}
	return []key.Binding{m.keys.Upload, m.keys.Convert, m.keys.Embed, m.keys.Refresh}
}

// Refresh re-reads entries from the controller.
func (m *Model) Refresh() {
	m.entries = m.ctrl.Entries()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles keys, polling and request results.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		if m.prompting {
			return m.handlePromptKey(msg)
		}
		return m.handleKey(msg)

	case PollMsg:
		return m, tea.Batch(m.refresh(), m.tick())

	case UploadedMsg:
		m.uploading = false
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Upload):
		m.prompting = true
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Convert):
		return m, m.trigger("conversion", m.ctrl.Convert)
	case key.Matches(msg, m.keys.Embed):
		return m, m.trigger("embedding", m.ctrl.Embed)
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()
	}
	return m, nil
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		path := strings.TrimSpace(m.input.Value())
		// The prompt is cleared after every attempt, successful or not.
		m.input.Reset()
		m.input.Blur()
		m.prompting = false
		if path == "" {
			return m, nil
		}
		m.uploading = true
		ctx, ctrl := m.ctx, m.ctrl
		return m, func() tea.Msg {
			res, err := ctrl.UploadFile(ctx, path)
			return UploadedMsg{Result: res, Err: err}
		}
	case key.Matches(msg, m.keys.Cancel):
		m.input.Reset()
		m.input.Blur()
		m.prompting = false
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) refresh() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return RefreshedMsg{Err: ctrl.Refresh(ctx)}
	}
}

func (m Model) tick() tea.Cmd {
	if m.interval <= 0 {
		return nil
	}
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return PollMsg{} })
}

func (m Model) trigger(what string, start func(context.Context) (string, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		_, err := start(ctx)
		return TriggeredMsg{What: what, Err: err}
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the pane.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render(fmt.Sprintf("Files (%d)", len(m.entries))))
	b.WriteString("\n")

	if len(m.entries) > 0 {
		settled := 0
		for _, e := range m.entries {
			if e.Settled() {
				settled++
			}
		}
		pct := float64(settled) * 100 / float64(len(m.entries))
		bar := styles.RenderProgressBar(max(m.width-10, 4), pct)
		b.WriteString(m.theme.Muted.Render(fmt.Sprintf("%s %d/%d", bar, settled, len(m.entries))))
		b.WriteString("\n\n")
	}

	if len(m.entries) == 0 {
		b.WriteString(m.theme.EmptyState.Render("No files. Press u to upload a PDF."))
		b.WriteString("\n")
	}

	nameWidth := max(m.width-2, 6)
	for _, e := range m.entries {
		b.WriteString(m.theme.FileName.Render(util.TruncateWidth(e.DisplayName(), nameWidth)))
		b.WriteString("\n")
		b.WriteString(m.badge("conv", e.Converted))
		b.WriteString(" ")
		b.WriteString(m.badge("embd", e.Embedded))
		b.WriteString("\n")
	}

	switch {
	case m.prompting:
		b.WriteString("\n")
		b.WriteString(m.input.View())
	case m.uploading:
		b.WriteString("\n")
		b.WriteString(m.theme.Muted.Render("Uploading..."))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) badge(label string, on bool) string {
	if on {
		return m.theme.BadgeOn.Render(label)
	}
	return m.theme.BadgeOff.Render(label)
}
