// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notes

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cerebrum-tui/internal/model"
	notesctl "github.com/jeranaias/cerebrum-tui/internal/notes"
	"github.com/jeranaias/cerebrum-tui/internal/store"
	"github.com/jeranaias/cerebrum-tui/internal/ui/components"
	"github.com/jeranaias/cerebrum-tui/internal/ui/styles"
	"github.com/jeranaias/cerebrum-tui/internal/view"
)

// backend is an in-memory notes transport. When gate is set, UpdateNote
// blocks until a value is received from it. failUpdates makes the next
// UpdateNote calls fail.
type backend struct {
	mu          sync.Mutex
	notes       map[string]model.Note
	updates     []model.NoteDraft
	deletes     []string
	gate        chan struct{}
	failUpdates int
}

func newBackend(notes ...model.Note) *backend {
	b := &backend{notes: make(map[string]model.Note)}
	for _, n := range notes {
		b.notes[n.Filename] = n
	}
	return b
}

func (b *backend) ListNotes(context.Context) ([]model.Note, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []model.Note
	for _, n := range b.notes {
		out = append(out, n)
	}
	return out, nil
}

func (b *backend) GetNote(_ context.Context, filename string) (model.Note, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n, ok := b.notes[filename]
	if !ok {
		return model.Note{}, errors.New("not found")
	}
	return n, nil
}

func (b *backend) CreateNote(_ context.Context, d model.NoteDraft) (model.Note, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := model.Note{Filename: "new.md", Title: d.Title, Content: d.Content}
	b.notes[n.Filename] = n
	return n, nil
}

func (b *backend) UpdateNote(_ context.Context, filename string, d model.NoteDraft) error {
	if b.gate != nil {
		<-b.gate
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failUpdates > 0 {
		b.failUpdates--
		return errors.New("write failed")
	}
	b.updates = append(b.updates, d)
	b.notes[filename] = model.Note{Filename: filename, Title: d.Title, Content: d.Content}
	return nil
}

func (b *backend) DeleteNote(_ context.Context, filename string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deletes = append(b.deletes, filename)
	delete(b.notes, filename)
	return nil
}

func (b *backend) Updates() []model.NoteDraft {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.NoteDraft(nil), b.updates...)
}

type fixture struct {
	m    Model
	ctrl *notesctl.Controller
	nav  *view.Navigator
	be   *backend
}

func newFixture(t *testing.T, notes ...model.Note) *fixture {
	t.Helper()
	return newFixtureWith(t, notesctl.Options{}, notes...)
}

func newFixtureWith(t *testing.T, opts notesctl.Options, notes ...model.Note) *fixture {
	t.Helper()
	be := newBackend(notes...)
	nav := view.NewNavigator()
	nav.Apply(view.SelectNotes{})
	ctrl := notesctl.NewController(store.NewNotes(), nav, be, opts)
	m := New(context.Background(), ctrl, nav, styles.NewTheme())
	m.SetSize(60, 20)
	m.Focus()
	m.SyncView()
	return &fixture{m: m, ctrl: ctrl, nav: nav, be: be}
}

// find runs cmd and batched commands concurrently until a message of type
// T shows up.
func find[T any](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	found := make(chan T, 8)
	var run func(tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, sub := range batch {
				go run(sub)
			}
			return
		}
		if v, ok := msg.(T); ok {
			found <- v
		}
	}
	go run(cmd)
	select {
	case v := <-found:
		return v
	case <-time.After(3 * time.Second):
		var zero T
		t.Fatalf("no %T produced", zero)
		return zero
	}
}

func (f *fixture) key(k tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	f.m, cmd = f.m.Update(k)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func (f *fixture) load(t *testing.T) {
	t.Helper()
	msg := find[ListedMsg](t, f.m.Load())
	f.m, _ = f.m.Update(msg)
}

var alpha = model.Note{Filename: "alpha.md", Title: "Alpha", Content: "# Alpha\nfirst"}

func TestLoadAndRender(t *testing.T) {
	f := newFixture(t, alpha)
	if !strings.Contains(f.m.View(), "No notes yet") {
		t.Error("empty list should show the empty state")
	}

	f.load(t)
	out := f.m.View()
	if !strings.Contains(out, "Alpha") || !strings.Contains(out, "first") {
		t.Errorf("list should show title and preview:\n%s", out)
	}
	if f.m.loading {
		t.Error("loading should be cleared")
	}
}

func TestOpenEditAndPersist(t *testing.T) {
	f := newFixture(t, alpha)
	f.load(t)

	f.key(tea.KeyMsg{Type: tea.KeyEnter})
	if !f.nav.State().EditorOpen() {
		t.Fatal("enter should open the note")
	}
	if f.m.title.Value() != "Alpha" {
		t.Errorf("title input = %q", f.m.title.Value())
	}

	cmd := f.key(runes("!"))
	// Optimistic: store and selection change before the write completes.
	if got := f.nav.State().Selected.Title; got != "Alpha!" {
		t.Errorf("selected title = %q", got)
	}
	if n := f.ctrl.Notes()[0]; n.Title != "Alpha!" {
		t.Errorf("store title = %q", n.Title)
	}

	res := find[PersistedMsg](t, cmd)
	if !res.Result.Persisted {
		t.Fatalf("persist failed: %v", res.Result.Err)
	}
	f.m, _ = f.m.Update(res)
	if f.m.Saving("alpha.md") {
		t.Error("saving flag should clear")
	}

	updates := f.be.Updates()
	if len(updates) != 1 || updates[0].Title != "Alpha!" || updates[0].Content != alpha.Content {
		t.Errorf("updates = %+v", updates)
	}
}

func TestWritesAreCoalesced(t *testing.T) {
	f := newFixture(t, alpha)
	f.load(t)
	f.key(tea.KeyMsg{Type: tea.KeyEnter})

	f.be.gate = make(chan struct{})
	first := f.key(runes("a"))
	f.key(runes("b"))
	f.key(runes("c"))
	if !strings.Contains(f.m.View(), "saving") {
		t.Error("editor should show saving state")
	}

	go func() { f.be.gate <- struct{}{} }()
	res := find[PersistedMsg](t, first)
	var next tea.Cmd
	f.m, next = f.m.Update(res)
	if next == nil {
		t.Fatal("queued write should be sent after the first completes")
	}

	go func() { f.be.gate <- struct{}{} }()
	res = find[PersistedMsg](t, next)
	f.m, _ = f.m.Update(res)

	updates := f.be.Updates()
	if len(updates) != 2 {
		t.Fatalf("expected 2 writes, got %d: %+v", len(updates), updates)
	}
	if updates[0].Title != "Alphaa" || updates[1].Title != "Alphaabc" {
		t.Errorf("writes = %+v", updates)
	}
}

func TestDeleteConfirmation(t *testing.T) {
	f := newFixture(t, alpha)
	f.load(t)

	f.key(runes("d"))
	if !f.m.Capturing() || !strings.Contains(f.m.Overlay(), notesctl.DeletePrompt) {
		t.Fatal("d should ask for confirmation")
	}

	answer := find[components.ConfirmedMsg](t, f.key(runes("n")))
	if f.m.Capturing() {
		t.Error("dialog should be closed")
	}
	f.m, _ = f.m.Update(answer)
	if len(f.be.deletes) != 0 {
		t.Error("declining must not delete")
	}

	f.key(runes("d"))
	answer = find[components.ConfirmedMsg](t, f.key(runes("y")))
	var cmd tea.Cmd
	f.m, cmd = f.m.Update(answer)
	deleted := find[DeletedMsg](t, cmd)
	if deleted.Err != nil || deleted.Filename != "alpha.md" {
		t.Fatalf("deleted = %+v", deleted)
	}
	f.m.Refresh()
	if len(f.ctrl.Notes()) != 0 {
		t.Error("note should be removed from the store")
	}
}

func TestDeleteOpenNoteClosesEditor(t *testing.T) {
	f := newFixture(t, alpha)
	f.load(t)
	f.key(tea.KeyMsg{Type: tea.KeyEnter})

	f.key(tea.KeyMsg{Type: tea.KeyCtrlD})
	answer := find[components.ConfirmedMsg](t, f.key(runes("y")))
	var cmd tea.Cmd
	f.m, cmd = f.m.Update(answer)
	find[DeletedMsg](t, cmd)
	f.m.SyncView()
	f.m.Refresh()

	if f.nav.State().EditorOpen() || f.nav.State().Selected != nil {
		t.Error("deleting the open note should close the editor")
	}
	if !strings.Contains(f.m.View(), "Notes (0)") {
		t.Errorf("should be back on the list:\n%s", f.m.View())
	}
}

func TestBackToList(t *testing.T) {
	f := newFixture(t, alpha)
	f.load(t)
	f.key(tea.KeyMsg{Type: tea.KeyEnter})
	f.key(tea.KeyMsg{Type: tea.KeyEsc})

	if f.nav.State().NotesView != view.NotesList {
		t.Error("esc should return to the list")
	}
	if f.m.Capturing() {
		t.Error("list should not capture plain keys")
	}
}

func TestCreateOpensNote(t *testing.T) {
	f := newFixture(t)
	created := find[CreatedMsg](t, f.key(runes("n")))
	if created.Err != nil {
		t.Fatal(created.Err)
	}
	f.m.SyncView()
	if f.m.editing != "new.md" || f.m.title.Value() != model.DefaultNoteDraft.Title {
		t.Errorf("editor should hold the new note, got %q / %q", f.m.editing, f.m.title.Value())
	}
}

func TestSyncViewReloadsWhenIdle(t *testing.T) {
	f := newFixture(t, alpha)
	f.load(t)
	f.key(tea.KeyMsg{Type: tea.KeyEnter})

	server := alpha
	server.Title = "From server"
	f.nav.Apply(view.ReplaceSelected{Note: server})
	f.m.SyncView()
	if f.m.title.Value() != "From server" {
		t.Errorf("idle editor should adopt server state, got %q", f.m.title.Value())
	}
}

func TestQueuedWriteSurvivesRefetch(t *testing.T) {
	f := newFixtureWith(t, notesctl.Options{Reconcile: notesctl.ReconcileRefetch}, alpha)
	f.load(t)
	f.key(tea.KeyMsg{Type: tea.KeyEnter})

	f.be.gate = make(chan struct{})
	f.be.failUpdates = 1
	first := f.key(runes("!"))
	f.key(tea.KeyMsg{Type: tea.KeyTab})
	f.key(runes("?"))

	go func() { f.be.gate <- struct{}{} }()
	res := find[PersistedMsg](t, first)
	if res.Result.Persisted {
		t.Fatal("first write should fail")
	}
	var next tea.Cmd
	f.m, next = f.m.Update(res)
	if next == nil {
		t.Fatal("queued write should be sent")
	}
	if got := f.nav.State().Selected.Title; got != "Alpha!" {
		t.Errorf("selection should follow the editor, title = %q", got)
	}

	go func() { f.be.gate <- struct{}{} }()
	res = find[PersistedMsg](t, next)
	if !res.Result.Persisted {
		t.Fatalf("queued write failed: %v", res.Result.Err)
	}
	f.m, _ = f.m.Update(res)

	close(f.be.gate)
	res = find[PersistedMsg](t, f.key(runes("!")))
	f.m, _ = f.m.Update(res)

	updates := f.be.Updates()
	last := updates[len(updates)-1]
	if last.Title != "Alpha!" || last.Content != alpha.Content+"?!" {
		t.Errorf("later edit reverted the other field: %+v", last)
	}
	if n := f.ctrl.Notes()[0]; n.Title != "Alpha!" {
		t.Errorf("store title = %q", n.Title)
	}
}
