// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	chatctl "github.com/jeranaias/cerebrum-tui/internal/chat"
	"github.com/jeranaias/cerebrum-tui/internal/model"
	"github.com/jeranaias/cerebrum-tui/internal/ui/components"
	"github.com/jeranaias/cerebrum-tui/internal/ui/styles"
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the chat pane.
type Model struct {
	ctx   context.Context
	ctrl  *chatctl.Controller
	theme *styles.Theme
	keys  KeyMap

	input    textinput.Model
	viewport viewport.Model
	md       *components.Markdown
	spinner  components.Spinner

	messages []model.Message
	inflight map[string]bool

	// browsing moves focus from the input to the transcript; cursor is the
	// selected message index while browsing.
	browsing bool
	cursor   int

	width   int
	height  int
	focused bool
}

// New creates the chat pane. ctx bounds every delivery.
func New(ctx context.Context, ctrl *chatctl.Controller, theme *styles.Theme, md *components.Markdown) Model {
	input := textinput.New()
	input.Placeholder = "Ask Cerebrum..."
	input.Prompt = theme.InputPrompt.Render("> ")
	input.CharLimit = 4000
	input.Focus()

	return Model{
		ctx:      ctx,
		ctrl:     ctrl,
		theme:    theme,
		keys:     DefaultKeyMap(),
		input:    input,
		viewport: viewport.New(0, 0),
		md:       md,
		spinner:  components.NewSpinner("Waiting for reply"),
		inflight: make(map[string]bool),
		focused:  true,
	}
}

// Init returns the cursor blink command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize lays out the pane.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width-4, 1)
	// input line + spinner line
	m.viewport.Width = width
	m.viewport.Height = max(height-2, 1)
	m.render()
}

// Focus gives the pane keyboard focus.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	if !m.browsing {
		return m.input.Focus()
	}
	return nil
}

// Blur removes keyboard focus.
func (m *Model) Blur() {
	m.focused = false
	m.input.Blur()
}

// Capturing reports whether the pane consumes plain character keys.
func (m Model) Capturing() bool {
	return m.focused && !m.browsing
}

// Browsing reports whether the transcript has focus.
func (m Model) Browsing() bool {
	return m.browsing
}

// InFlight returns the number of undelivered messages.
func (m Model) InFlight() int {
	return len(m.inflight)
}

// Bindings returns the bindings relevant in the current mode.
func (m Model) Bindings() []key.Binding {
	if m.browsing {
		retry := m.keys.Retry
		retry.SetEnabled(m.selectedRetryable())
		return []key.Binding{m.keys.Up, m.keys.Down, retry, m.keys.Browse}
	}
	return []key.Binding{m.keys.Submit, m.keys.Browse, m.keys.Clear}
}

// Refresh re-reads the transcript from the controller.
func (m *Model) Refresh() {
	m.messages = m.ctrl.Messages()
	if m.cursor >= len(m.messages) {
		m.cursor = len(m.messages) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.render()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles keys, delivery results and spinner ticks.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		if m.browsing {
			return m.handleBrowseKey(msg)
		}
		return m.handleInputKey(msg)

	case DeliveredMsg:
		delete(m.inflight, msg.ID)
		if len(m.inflight) == 0 {
			m.spinner.Stop()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Browse):
		if len(m.messages) == 0 {
			return m, nil
		}
		m.browsing = true
		m.cursor = len(m.messages) - 1
		m.input.Blur()
		m.render()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.ctrl.Clear()
		return m, nil

	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Browse), msg.Type == tea.KeyEsc:
		m.browsing = false
		m.render()
		m.viewport.GotoBottom()
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.render()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.messages)-1 {
			m.cursor++
		}
		m.render()
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		return m.retrySelected()

	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// submit appends the pending message now and delivers it in the
// background. Blank input is discarded without a message.
func (m Model) submit() (Model, tea.Cmd) {
	text := m.input.Value()
	m.input.Reset()
	p, ok := m.ctrl.Enqueue(text)
	if !ok {
		return m, nil
	}
	cmd := m.startDelivery(p)
	return m, cmd
}

func (m Model) retrySelected() (Model, tea.Cmd) {
	if !m.selectedRetryable() {
		return m, nil
	}
	p, err := m.ctrl.RetryPending(m.messages[m.cursor].ID)
	if err != nil {
		return m, nil
	}
	m.browsing = false
	cmd := tea.Batch(m.input.Focus(), m.startDelivery(p))
	m.render()
	return m, cmd
}

func (m *Model) startDelivery(p *chatctl.Pending) tea.Cmd {
	m.inflight[p.ID] = true
	ctx, ctrl := m.ctx, m.ctrl
	deliver := func() tea.Msg {
		return DeliveredMsg{ID: p.ID, Err: ctrl.Deliver(ctx, p)}
	}
	return tea.Batch(m.spinner.Start(), deliver)
}

func (m Model) selectedRetryable() bool {
	return m.browsing && m.cursor >= 0 && m.cursor < len(m.messages) && m.messages[m.cursor].IsRetryable()
}
