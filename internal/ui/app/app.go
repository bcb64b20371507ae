// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/cerebrum-tui/internal/config"
	"github.com/jeranaias/cerebrum-tui/internal/prompt"
	"github.com/jeranaias/cerebrum-tui/internal/session"
	"github.com/jeranaias/cerebrum-tui/internal/store"
	chatui "github.com/jeranaias/cerebrum-tui/internal/ui/chat"
	"github.com/jeranaias/cerebrum-tui/internal/ui/components"
	filesui "github.com/jeranaias/cerebrum-tui/internal/ui/files"
	notesui "github.com/jeranaias/cerebrum-tui/internal/ui/notes"
	"github.com/jeranaias/cerebrum-tui/internal/ui/styles"
	"github.com/jeranaias/cerebrum-tui/internal/view"
)

// =============================================================================
// MESSAGES
// =============================================================================

// changeMsg carries one store or navigator notification together with
// the channel it came from, so the listener can be re-armed.
type changeMsg struct {
	change store.Change
	ch     <-chan store.Change
}

// alertMsg carries one alert from the notifier queue.
type alertMsg struct {
	text string
}

// PingMsg reports the result of a backend health check.
type PingMsg struct {
	Err error
}

// Pinger checks backend reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// =============================================================================
// MODEL
// =============================================================================

type focus int

const (
	focusMain focus = iota
	focusFiles
)

// Options configures the root model.
type Options struct {
	Session *session.Session

	// Alerts must be the Notifier the session's controllers were built
	// with; its messages are shown as a modal overlay.
	Alerts *prompt.Queue

	// Pinger is optional. When set the backend is checked at startup.
	Pinger Pinger

	Theme *styles.Theme
}

// Model is the root model of the TUI.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	sess   *session.Session
	cfg    *config.Config
	logger *zap.Logger
	nav    *view.Navigator
	queue  *prompt.Queue
	pinger Pinger

	theme  *styles.Theme
	keys   KeyMap
	alerts *components.Alerts

	chat  chatui.Model
	notes notesui.Model
	files filesui.Model

	subs   []<-chan store.Change
	unsubs []func()
	focus  focus
	online *bool

	width  int
	height int
}

// New creates the root model and subscribes to the session's stores.
// Call Close when the program exits.
func New(ctx context.Context, opts Options) *Model {
	ctx, cancel := context.WithCancel(ctx)
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}
	queue := opts.Alerts
	if queue == nil {
		queue = prompt.NewQueue(16)
	}
	sess := opts.Session
	cfg := sess.Config()

	md := components.NewMarkdown(theme.GlamourStyle(cfg.UI.GlamourStyle), cfg.UI.RenderMarkdown)

	m := &Model{
		ctx:    ctx,
		cancel: cancel,
		sess:   sess,
		cfg:    cfg,
		logger: sess.Logger().Named("tui"),
		nav:    sess.Nav,
		queue:  queue,
		pinger: opts.Pinger,
		theme:  theme,
		keys:   DefaultKeyMap(),
		alerts: components.NewAlerts(theme, 8),
		chat:   chatui.New(ctx, sess.Chat, theme, md),
		notes:  notesui.New(ctx, sess.Notes, sess.Nav, theme),
		files:  filesui.New(ctx, sess.Files, theme, cfg.Files.PollInterval()),
	}

	for _, b := range []interface {
		Subscribe() (<-chan store.Change, func())
	}{sess.Messages, sess.NoteList, sess.Registry, sess.Nav} {
		ch, unsub := b.Subscribe()
		m.subs = append(m.subs, ch)
		m.unsubs = append(m.unsubs, unsub)
	}

	m.applyFocus()
	return m
}

// Close cancels in-flight requests and drops the store subscriptions.
func (m *Model) Close() {
	m.cancel()
	for _, unsub := range m.unsubs {
		unsub()
	}
	m.unsubs = nil
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the listeners, the chat input and the registry poll.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.chat.Init(),
		m.files.Init(),
		listenAlerts(m.ctx, m.queue.C()),
		m.ping(),
	}
	for _, ch := range m.subs {
		cmds = append(cmds, listen(ch))
	}
	return tea.Batch(cmds...)
}

// Update routes messages to the panes.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case changeMsg:
		cmd := m.applyChange(msg.change)
		return m, tea.Batch(cmd, listen(msg.ch))

	case alertMsg:
		m.alerts.Push(msg.text)
		return m, listenAlerts(m.ctx, m.queue.C())

	case PingMsg:
		online := msg.Err == nil
		m.online = &online
		if msg.Err != nil {
			m.logger.Warn("backend unreachable", zap.Error(msg.Err))
		}
		return m, nil

	case chatui.DeliveredMsg:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd

	case notesui.ListedMsg, notesui.CreatedMsg, notesui.PersistedMsg,
		notesui.DeletedMsg, components.ConfirmedMsg:
		var cmd tea.Cmd
		m.notes, cmd = m.notes.Update(msg)
		return m, cmd

	case filesui.RefreshedMsg, filesui.UploadedMsg, filesui.TriggeredMsg, filesui.PollMsg:
		var cmd tea.Cmd
		m.files, cmd = m.files.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		// Each spinner ignores ticks carrying another spinner's id.
		var chatCmd, notesCmd tea.Cmd
		m.chat, chatCmd = m.chat.Update(msg)
		m.notes, notesCmd = m.notes.Update(msg)
		return m, tea.Batch(chatCmd, notesCmd)
	}
	return m, nil
}

// handleKey processes keyboard input. Overlays take keys first.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		m.Close()
		return m, tea.Quit
	}

	if m.alerts.Visible() {
		if key.Matches(msg, m.keys.Dismiss) {
			m.alerts.Dismiss()
		}
		return m, nil
	}

	if m.notes.Overlay() != "" {
		var cmd tea.Cmd
		m.notes, cmd = m.notes.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Chat):
		m.nav.Apply(view.SelectChat{})
		m.focus = focusMain
		cmd := m.syncNav()
		return m, cmd

	case key.Matches(msg, m.keys.Notes):
		entering := m.nav.State().Mode != view.ModeNotes
		m.nav.Apply(view.SelectNotes{})
		m.focus = focusMain
		cmd := m.syncNav()
		if entering {
			cmd = tea.Batch(cmd, m.notes.Load())
		}
		return m, cmd

	case key.Matches(msg, m.keys.Files):
		if m.focus == focusFiles {
			m.focus = focusMain
		} else {
			m.focus = focusFiles
		}
		m.layout()
		cmd := m.applyFocus()
		return m, cmd

	case key.Matches(msg, m.keys.Quit) && !m.capturing():
		m.Close()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	switch {
	case m.focus == focusFiles:
		m.files, cmd = m.files.Update(msg)
	case m.nav.State().Mode == view.ModeNotes:
		m.notes, cmd = m.notes.Update(msg)
	default:
		m.chat, cmd = m.chat.Update(msg)
	}
	return m, cmd
}

// applyChange re-reads whatever a notification says changed.
func (m *Model) applyChange(c store.Change) tea.Cmd {
	switch c.Kind {
	case store.KindMessages:
		m.chat.Refresh()
	case store.KindNotes:
		m.notes.Refresh()
	case store.KindRegistry:
		m.files.Refresh()
	case view.KindView:
		return m.syncNav()
	}
	return nil
}

// syncNav brings the panes in line with the navigator.
func (m *Model) syncNav() tea.Cmd {
	return tea.Batch(m.notes.SyncView(), m.applyFocus())
}

// applyFocus gives keyboard focus to exactly one pane.
func (m *Model) applyFocus() tea.Cmd {
	m.chat.Blur()
	m.notes.Blur()
	m.files.Blur()

	switch {
	case m.focus == focusFiles:
		return m.files.Focus()
	case m.nav.State().Mode == view.ModeNotes:
		return m.notes.Focus()
	default:
		return m.chat.Focus()
	}
}

func (m *Model) capturing() bool {
	switch {
	case m.focus == focusFiles:
		return m.files.Capturing()
	case m.nav.State().Mode == view.ModeNotes:
		return m.notes.Capturing()
	default:
		return m.chat.Capturing()
	}
}

func (m *Model) ping() tea.Cmd {
	if m.pinger == nil {
		return nil
	}
	ctx, pinger := m.ctx, m.pinger
	timeout := m.cfg.Backend.Timeout()
	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return PingMsg{Err: pinger.Ping(ctx)}
	}
}

// listen waits for the next notification on ch. A closed channel ends
// the listener.
func listen(ch <-chan store.Change) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return changeMsg{change: c, ch: ch}
	}
}

func listenAlerts(ctx context.Context, ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		select {
		case text := <-ch:
			return alertMsg{text: text}
		case <-ctx.Done():
			return nil
		}
	}
}

// =============================================================================
// LAYOUT
// =============================================================================

const (
	navWidth   = 14
	filesWidth = 34
	minPane    = 20
)

// columns returns the outer widths of the nav, center and files columns.
// A zero width means the column is hidden.
func (m *Model) columns() (nav, center, files int) {
	switch m.theme.GetLayoutMode() {
	case styles.LayoutWide:
		nav, files = navWidth, filesWidth
	case styles.LayoutMedium:
		nav = navWidth
	}
	center = m.width - nav - files
	if center < minPane {
		center = max(m.width-nav, 1)
		files = 0
	}
	return nav, center, files
}

// bodyHeight is the height left for the panes above the status bar.
func (m *Model) bodyHeight() int {
	return max(m.height-1, 3)
}

func (m *Model) layout() {
	_, center, files := m.columns()
	h := m.bodyHeight() - 2
	inner := max(center-4, 1)

	m.chat.SetSize(inner, h)
	m.notes.SetSize(inner, h)
	if files > 0 {
		m.files.SetSize(max(files-4, 1), h)
	} else {
		m.files.SetSize(inner, h)
	}
}

// uptime is shown in the status bar.
func (m *Model) uptime() time.Duration {
	return m.sess.Duration().Truncate(time.Second)
}
