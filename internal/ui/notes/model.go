// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notes

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cerebrum-tui/internal/model"
	notesctl "github.com/jeranaias/cerebrum-tui/internal/notes"
	"github.com/jeranaias/cerebrum-tui/internal/ui/components"
	"github.com/jeranaias/cerebrum-tui/internal/ui/styles"
	"github.com/jeranaias/cerebrum-tui/internal/view"
)

// Model is the notes pane: a list, or the editor when a note is open.
type Model struct {
	ctx     context.Context
	ctrl    *notesctl.Controller
	nav     *view.Navigator
	theme   *styles.Theme
	keys    KeyMap
	confirm *components.Confirm
	spinner components.Spinner

	notes   []model.Note
	cursor  int
	loading bool

	// state is the navigator state as of the last SyncView.
	state   view.State
	title   textinput.Model
	content textarea.Model
	field   model.NoteField
	editing string

	saving map[string]bool
	queued map[string]*notesctl.Write

	width   int
	height  int
	focused bool
}

// New creates the notes pane.
func New(ctx context.Context, ctrl *notesctl.Controller, nav *view.Navigator, theme *styles.Theme) Model {
	title := textinput.New()
	title.Placeholder = "Title"
	title.Prompt = ""
	title.CharLimit = 200

	content := textarea.New()
	content.Placeholder = "Write your note in markdown..."
	content.ShowLineNumbers = false
	content.CharLimit = 0

	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		nav:     nav,
		theme:   theme,
		keys:    DefaultKeyMap(),
		confirm: components.NewConfirm(theme),
		spinner: components.NewSpinner("Loading notes"),
		state:   nav.State(),
		title:   title,
		content: content,
		field:   model.FieldTitle,
		saving:  make(map[string]bool),
		queued:  make(map[string]*notesctl.Write),
	}
}

// SetSize lays out the pane.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.title.Width = max(width-2, 1)
	m.content.SetWidth(max(width, 1))
	// header, blank, title label, title, blank, content label
	m.content.SetHeight(max(height-6, 3))
}

// Focus gives the pane keyboard focus.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	return m.focusField()
}

// Blur removes keyboard focus.
func (m *Model) Blur() {
	m.focused = false
	m.title.Blur()
	m.content.Blur()
}

// Capturing reports whether the pane consumes plain character keys.
func (m Model) Capturing() bool {
	return m.focused && (m.state.EditorOpen() || m.confirm.IsVisible())
}

// Overlay returns the confirmation dialog, or "".
func (m Model) Overlay() string {
	return m.confirm.View()
}

// Saving reports whether a write for filename is in flight.
func (m Model) Saving(filename string) bool {
	return m.saving[filename]
}

// Bindings returns the bindings relevant in the current view.
func (m Model) Bindings() []key.Binding {
	if m.state.EditorOpen() {
		return []key.Binding{m.keys.Switch, m.keys.Back, m.keys.DelOpen}
	}
	return []key.Binding{m.keys.Open, m.keys.New, m.keys.Delete, m.keys.Reload}
}

// Load fetches the note list.
func (m *Model) Load() tea.Cmd {
	m.loading = true
	ctx, ctrl := m.ctx, m.ctrl
	return tea.Batch(m.spinner.Start(), func() tea.Msg {
		return ListedMsg{Err: ctrl.List(ctx)}
	})
}

// Refresh re-reads notes from the controller.
func (m *Model) Refresh() {
	m.notes = m.ctrl.Notes()
	m.loading = m.ctrl.Loading()
	if !m.loading {
		m.spinner.Stop()
	}
	if m.cursor >= len(m.notes) {
		m.cursor = len(m.notes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// SyncView adopts the navigator state. Opening a different note loads it
// into the editor. The open note is reloaded only when no local write is
// pending, so a server-side reconcile never clobbers typing.
func (m *Model) SyncView() tea.Cmd {
	m.state = m.nav.State()
	if !m.state.EditorOpen() {
		m.editing = ""
		m.title.Blur()
		m.content.Blur()
		return nil
	}

	sel := *m.state.Selected
	if sel.Filename != m.editing {
		m.editing = sel.Filename
		m.title.SetValue(sel.Title)
		m.content.SetValue(sel.Content)
		m.field = model.FieldTitle
		if m.focused {
			return m.focusField()
		}
		return nil
	}

	if !m.saving[sel.Filename] && m.queued[sel.Filename] == nil {
		if m.title.Value() != sel.Title {
			m.title.SetValue(sel.Title)
		}
		if m.content.Value() != sel.Content {
			m.content.SetValue(sel.Content)
		}
	}
	return nil
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles keys and request results.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirm.IsVisible() {
			return m, m.confirm.HandleKey(msg)
		}
		if !m.focused {
			return m, nil
		}
		if m.state.EditorOpen() {
			return m.handleEditorKey(msg)
		}
		return m.handleListKey(msg)

	case components.ConfirmedMsg:
		if !msg.Yes || msg.Tag == "" {
			return m, nil
		}
		ctx, ctrl, filename := m.ctx, m.ctrl, msg.Tag
		return m, func() tea.Msg {
			return DeletedMsg{Filename: filename, Err: ctrl.DeleteConfirmed(ctx, filename)}
		}

	case ListedMsg:
		m.Refresh()
		return m, nil

	case PersistedMsg:
		delete(m.saving, msg.Filename)
		if next := m.queued[msg.Filename]; next != nil {
			delete(m.queued, msg.Filename)
			// A reconcile may have moved the selection to the server
			// copy; the editor text is what the user expects saved.
			if !msg.Result.Persisted {
				if msg.Filename == m.editing {
					next.Note.Title = m.title.Value()
					next.Note.Content = m.content.Value()
				}
				m.ctrl.Adopt(next)
				m.state = m.nav.State()
			}
			cmd := m.save(next)
			return m, cmd
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.notes)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		if note, ok := m.selected(); ok {
			m.ctrl.Open(note)
			cmd := m.SyncView()
			return m, cmd
		}
	case key.Matches(msg, m.keys.New):
		ctx, ctrl := m.ctx, m.ctrl
		return m, func() tea.Msg {
			note, err := ctrl.Create(ctx)
			return CreatedMsg{Note: note, Err: err}
		}
	case key.Matches(msg, m.keys.Delete):
		if note, ok := m.selected(); ok {
			m.confirm.Show(notesctl.DeletePrompt, note.Filename)
		}
	case key.Matches(msg, m.keys.Reload):
		cmd := m.Load()
		return m, cmd
	}
	return m, nil
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.ctrl.Back()
		cmd := m.SyncView()
		return m, cmd
	case key.Matches(msg, m.keys.Switch):
		if m.field == model.FieldTitle {
			m.field = model.FieldContent
		} else {
			m.field = model.FieldTitle
		}
		cmd := m.focusField()
		return m, cmd
	case key.Matches(msg, m.keys.DelOpen):
		m.confirm.Show(notesctl.DeletePrompt, m.editing)
		return m, nil
	}

	var cmd tea.Cmd
	var before, after string
	if m.field == model.FieldTitle {
		before = m.title.Value()
		m.title, cmd = m.title.Update(msg)
		after = m.title.Value()
	} else {
		before = m.content.Value()
		m.content, cmd = m.content.Update(msg)
		after = m.content.Value()
	}
	if before == after {
		return m, cmd
	}

	w, ok := m.ctrl.Edit(m.field, after)
	if !ok {
		return m, cmd
	}
	m.state = m.nav.State()
	saveCmd := m.save(w)
	return m, tea.Batch(cmd, saveCmd)
}

// save persists w, or queues it behind the write already in flight for
// the same note. A queued write replaces any older queued one.
func (m *Model) save(w *notesctl.Write) tea.Cmd {
	filename := w.Note.Filename
	if m.saving[filename] {
		m.queued[filename] = w
		return nil
	}
	m.saving[filename] = true
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return PersistedMsg{Filename: filename, Result: ctrl.Persist(ctx, w)}
	}
}

func (m *Model) focusField() tea.Cmd {
	if !m.state.EditorOpen() {
		return nil
	}
	if m.field == model.FieldTitle {
		m.content.Blur()
		return m.title.Focus()
	}
	m.title.Blur()
	return m.content.Focus()
}

func (m Model) selected() (model.Note, bool) {
	if m.cursor < 0 || m.cursor >= len(m.notes) {
		return model.Note{}, false
	}
	return m.notes[m.cursor], true
}
