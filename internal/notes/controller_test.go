// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/cerebrum-tui/internal/backend"
	"github.com/jeranaias/cerebrum-tui/internal/model"
	"github.com/jeranaias/cerebrum-tui/internal/prompt"
	"github.com/jeranaias/cerebrum-tui/internal/store"
	"github.com/jeranaias/cerebrum-tui/internal/view"
)

// fakeBackend is a minimal notes server with switchable failures.
type fakeBackend struct {
	mu      sync.Mutex
	notes   map[string]model.Note
	fail    map[string]bool // "METHOD" -> respond 500
	puts    []model.NoteDraft
	deletes []string
	onPut   func()
	onList  func()
}

func newFakeBackend(notes ...model.Note) *fakeBackend {
	fb := &fakeBackend{notes: make(map[string]model.Note), fail: make(map[string]bool)}
	for _, n := range notes {
		fb.notes[n.Filename] = n
	}
	return fb
}

func (fb *fakeBackend) setFail(method string, fail bool) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.fail[method] = fail
}

func (fb *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	failing := fb.fail[r.Method]
	fb.mu.Unlock()
	if failing {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"boom"}`))
		return
	}

	filename := strings.TrimPrefix(r.URL.Path, "/notes/")
	switch r.Method {
	case http.MethodGet:
		if filename == "" {
			// Snapshot first so onList can change state the response misses.
			fb.mu.Lock()
			list := make([]model.Note, 0, len(fb.notes))
			for _, n := range fb.notes {
				list = append(list, n)
			}
			fb.mu.Unlock()
			if fb.onList != nil {
				fb.onList()
			}
			json.NewEncoder(w).Encode(list)
			return
		}
		fb.mu.Lock()
		n, ok := fb.notes[filename]
		fb.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(n)
	case http.MethodPost:
		var d model.NoteDraft
		json.NewDecoder(r.Body).Decode(&d)
		n := model.Note{Filename: strings.ReplaceAll(d.Title, " ", "_") + ".md", Title: d.Title, Content: d.Content}
		fb.mu.Lock()
		fb.notes[n.Filename] = n
		fb.mu.Unlock()
		json.NewEncoder(w).Encode(n)
	case http.MethodPut:
		if fb.onPut != nil {
			fb.onPut()
		}
		var d model.NoteDraft
		json.NewDecoder(r.Body).Decode(&d)
		fb.mu.Lock()
		fb.puts = append(fb.puts, d)
		fb.notes[filename] = model.Note{Filename: filename, Title: d.Title, Content: d.Content}
		fb.mu.Unlock()
		w.Write([]byte(`{"message":"updated"}`))
	case http.MethodDelete:
		fb.mu.Lock()
		fb.deletes = append(fb.deletes, filename)
		delete(fb.notes, filename)
		fb.mu.Unlock()
		w.Write([]byte(`{"message":"deleted"}`))
	}
}

type fixture struct {
	ctrl     *Controller
	notes    *store.Notes
	nav      *view.Navigator
	backend  *fakeBackend
	alerts   *prompt.Recorder
	confirms []string
	answer   bool
}

func newFixture(t *testing.T, reconcile Reconcile, seed ...model.Note) *fixture {
	t.Helper()
	fb := newFakeBackend(seed...)
	server := httptest.NewServer(fb)
	t.Cleanup(server.Close)

	f := &fixture{
		notes:   store.NewNotes(),
		nav:     view.NewNavigator(),
		backend: fb,
		alerts:  &prompt.Recorder{},
	}
	client := backend.NewClientWithConfig(&backend.ClientConfig{BaseURL: server.URL})
	f.ctrl = NewController(f.notes, f.nav, client, Options{
		Reconcile: reconcile,
		Notifier:  f.alerts,
		Confirmer: prompt.ConfirmerFunc(func(q string) bool {
			f.confirms = append(f.confirms, q)
			return f.answer
		}),
	})
	return f
}

var noteA = model.Note{Filename: "a.md", Title: "A", Content: "# A"}

// =============================================================================
// LIST
// =============================================================================

func TestList_ReplacesStoreAndTogglesLoading(t *testing.T) {
	f := newFixture(t, ReconcileNone, noteA)
	var loadingDuringCall bool
	f.backend.onList = func() { loadingDuringCall = f.ctrl.Loading() }

	require.NoError(t, f.ctrl.List(context.Background()))
	assert.True(t, loadingDuringCall)
	assert.False(t, f.ctrl.Loading())
	assert.Equal(t, []model.Note{noteA}, f.ctrl.Notes())
}

func TestList_StaleResponseKeepsCreatedNote(t *testing.T) {
	f := newFixture(t, ReconcileNone, noteA)
	var created model.Note
	f.backend.onList = func() {
		var err error
		created, err = f.ctrl.Create(context.Background())
		require.NoError(t, err)
	}

	require.NoError(t, f.ctrl.List(context.Background()))

	st := f.nav.State()
	require.True(t, st.EditorOpen())
	assert.Equal(t, created.Filename, st.SelectedFilename())
	all := f.ctrl.Notes()
	require.Len(t, all, 2)
	assert.Equal(t, created, all[0])
	assert.Equal(t, noteA, all[1])

	// Edits reach the store entry, not just the selection.
	f.backend.onList = nil
	res := f.ctrl.Update(context.Background(), model.FieldTitle, "Fresh")
	require.True(t, res.Persisted)
	entry, ok := f.notes.Get(created.Filename)
	require.True(t, ok)
	assert.Equal(t, "Fresh", entry.Title)

	// Once no list is in flight, a full response is taken as is.
	require.NoError(t, f.ctrl.List(context.Background()))
	assert.Len(t, f.ctrl.Notes(), 2)
}

func TestList_KeepsOpenNoteMissingFromResponse(t *testing.T) {
	f := newFixture(t, ReconcileNone)
	f.notes.Replace([]model.Note{noteA})
	f.ctrl.Open(noteA)

	require.NoError(t, f.ctrl.List(context.Background()))
	assert.Equal(t, []model.Note{noteA}, f.ctrl.Notes())
	assert.True(t, f.nav.State().EditorOpen())
}

func TestList_FailureKeepsStore(t *testing.T) {
	f := newFixture(t, ReconcileNone)
	f.notes.Replace([]model.Note{noteA})
	f.backend.setFail(http.MethodGet, true)

	err := f.ctrl.List(context.Background())
	assert.ErrorIs(t, err, backend.ErrServer)
	assert.False(t, f.ctrl.Loading())
	assert.Equal(t, []model.Note{noteA}, f.ctrl.Notes())
	assert.Empty(t, f.alerts.Alerts())
}

// =============================================================================
// CREATE
// =============================================================================

func TestCreate_Success(t *testing.T) {
	f := newFixture(t, ReconcileNone)
	f.notes.Replace([]model.Note{noteA})

	note, err := f.ctrl.Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Untitled_Note.md", note.Filename)
	assert.Equal(t, model.DefaultNoteDraft, note.Draft())

	all := f.ctrl.Notes()
	require.Len(t, all, 2)
	assert.Equal(t, note, all[0])

	st := f.nav.State()
	assert.True(t, st.EditorOpen())
	assert.Equal(t, note.Filename, st.SelectedFilename())
}

func TestCreate_Failure(t *testing.T) {
	f := newFixture(t, ReconcileNone)
	f.notes.Replace([]model.Note{noteA})
	f.backend.setFail(http.MethodPost, true)

	_, err := f.ctrl.Create(context.Background())
	require.Error(t, err)

	assert.Equal(t, []model.Note{noteA}, f.ctrl.Notes())
	assert.Equal(t, view.Initial(), f.nav.State())
	assert.Equal(t, []string{MsgCreateFailed}, f.alerts.Alerts())
}

func TestCreate_CustomDraft(t *testing.T) {
	f := newFixture(t, ReconcileNone)
	f.ctrl.draft = model.NoteDraft{Title: "Lecture", Content: "# Lecture\n"}

	note, err := f.ctrl.Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Lecture.md", note.Filename)
}

// =============================================================================
// UPDATE
// =============================================================================

func TestUpdate_OptimismPrecedesPersistence(t *testing.T) {
	f := newFixture(t, ReconcileNone, noteA)
	require.NoError(t, f.ctrl.List(context.Background()))
	f.ctrl.Open(noteA)

	var selectedTitle, storeTitle string
	f.backend.onPut = func() {
		selectedTitle = f.nav.State().Selected.Title
		entry, _ := f.notes.Get("a.md")
		storeTitle = entry.Title
	}

	res := f.ctrl.Update(context.Background(), model.FieldTitle, "X")
	require.NoError(t, res.Err)
	assert.True(t, res.Persisted)
	assert.Equal(t, "X", selectedTitle)
	assert.Equal(t, "X", storeTitle)

	require.Len(t, f.backend.puts, 1)
	assert.Equal(t, model.NoteDraft{Title: "X", Content: "# A"}, f.backend.puts[0])
}

func TestUpdate_NoOpenNote(t *testing.T) {
	f := newFixture(t, ReconcileNone, noteA)
	res := f.ctrl.Update(context.Background(), model.FieldTitle, "X")

	assert.False(t, res.Persisted)
	assert.NoError(t, res.Err)
	assert.Empty(t, f.backend.puts)
}

func TestUpdate_FailureKeepsOptimisticState(t *testing.T) {
	f := newFixture(t, ReconcileNone, noteA)
	require.NoError(t, f.ctrl.List(context.Background()))
	f.ctrl.Open(noteA)
	f.backend.setFail(http.MethodPut, true)

	res := f.ctrl.Update(context.Background(), model.FieldContent, "local edit")
	assert.False(t, res.Persisted)
	assert.ErrorIs(t, res.Err, backend.ErrServer)

	entry, _ := f.notes.Get("a.md")
	assert.Equal(t, "local edit", entry.Content)
	assert.Equal(t, "local edit", f.nav.State().Selected.Content)
	assert.False(t, f.ctrl.Dirty("a.md"))
	assert.Empty(t, f.alerts.Alerts(), "update failures are not alerted")
}

func TestUpdate_MarkDirtyPolicy(t *testing.T) {
	f := newFixture(t, ReconcileMarkDirty, noteA)
	require.NoError(t, f.ctrl.List(context.Background()))
	f.ctrl.Open(noteA)

	f.backend.setFail(http.MethodPut, true)
	res := f.ctrl.Update(context.Background(), model.FieldTitle, "X")
	require.Error(t, res.Err)
	assert.True(t, f.ctrl.Dirty("a.md"))

	f.backend.setFail(http.MethodPut, false)
	res = f.ctrl.Update(context.Background(), model.FieldTitle, "Y")
	require.NoError(t, res.Err)
	assert.False(t, f.ctrl.Dirty("a.md"))
}

func TestUpdate_RefetchPolicy(t *testing.T) {
	f := newFixture(t, ReconcileRefetch, noteA)
	require.NoError(t, f.ctrl.List(context.Background()))
	f.ctrl.Open(noteA)
	f.backend.setFail(http.MethodPut, true)

	res := f.ctrl.Update(context.Background(), model.FieldTitle, "X")
	require.Error(t, res.Err)
	assert.False(t, res.Persisted)
	assert.Equal(t, "A", res.Note.Title)

	entry, _ := f.notes.Get("a.md")
	assert.Equal(t, "A", entry.Title)
	assert.Equal(t, "A", f.nav.State().Selected.Title)
	assert.False(t, f.ctrl.Dirty("a.md"))
}

func TestAdopt_RestoresLocalStateAfterRefetch(t *testing.T) {
	f := newFixture(t, ReconcileRefetch, noteA)
	require.NoError(t, f.ctrl.List(context.Background()))
	f.ctrl.Open(noteA)

	f.backend.setFail(http.MethodPut, true)
	first, ok := f.ctrl.Edit(model.FieldTitle, "X")
	require.True(t, ok)
	queued, ok := f.ctrl.Edit(model.FieldContent, "body")
	require.True(t, ok)
	f.ctrl.Persist(context.Background(), first)
	require.Equal(t, "A", f.nav.State().Selected.Title)

	f.ctrl.Adopt(queued)
	f.backend.setFail(http.MethodPut, false)
	require.True(t, f.ctrl.Persist(context.Background(), queued).Persisted)

	res := f.ctrl.Update(context.Background(), model.FieldContent, "body2")
	require.True(t, res.Persisted)
	assert.Equal(t, "X", res.Note.Title)
	entry, _ := f.notes.Get("a.md")
	assert.Equal(t, model.Note{Filename: "a.md", Title: "X", Content: "body2"}, entry)
}

func TestUpdate_RefetchFailureMarksDirty(t *testing.T) {
	f := newFixture(t, ReconcileRefetch, noteA)
	require.NoError(t, f.ctrl.List(context.Background()))
	f.ctrl.Open(noteA)
	f.backend.setFail(http.MethodPut, true)
	f.backend.setFail(http.MethodGet, true)

	res := f.ctrl.Update(context.Background(), model.FieldTitle, "X")
	require.Error(t, res.Err)
	assert.Equal(t, "X", res.Note.Title)
	assert.True(t, f.ctrl.Dirty("a.md"))
}

func TestUpdateNote_Headless(t *testing.T) {
	f := newFixture(t, ReconcileNone, noteA)
	require.NoError(t, f.ctrl.List(context.Background()))

	res := f.ctrl.UpdateNote(context.Background(), "a.md", model.FieldContent, "new body")
	require.NoError(t, res.Err)
	assert.True(t, res.Persisted)
	assert.Nil(t, f.nav.State().Selected, "headless update opens nothing")

	res = f.ctrl.UpdateNote(context.Background(), "zzz.md", model.FieldContent, "x")
	assert.ErrorIs(t, res.Err, ErrUnknownNote)
}

// =============================================================================
// DELETE
// =============================================================================

func TestDelete_Declined(t *testing.T) {
	f := newFixture(t, ReconcileNone, noteA)
	require.NoError(t, f.ctrl.List(context.Background()))
	f.answer = false

	deleted, err := f.ctrl.Delete(context.Background(), "a.md")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, []string{DeletePrompt}, f.confirms)
	assert.Empty(t, f.backend.deletes)
	assert.Equal(t, 1, f.notes.Len())
}

func TestDelete_ConfirmedOpenNote(t *testing.T) {
	f := newFixture(t, ReconcileNone, noteA)
	require.NoError(t, f.ctrl.List(context.Background()))
	f.ctrl.Open(noteA)
	f.answer = true

	deleted, err := f.ctrl.Delete(context.Background(), "a.md")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []string{"a.md"}, f.backend.deletes)

	_, ok := f.notes.Get("a.md")
	assert.False(t, ok)
	st := f.nav.State()
	assert.Equal(t, view.NotesList, st.NotesView)
	assert.Nil(t, st.Selected)
}

func TestDelete_OtherNoteKeepsEditor(t *testing.T) {
	noteB := model.Note{Filename: "b.md", Title: "B"}
	f := newFixture(t, ReconcileNone, noteA, noteB)
	require.NoError(t, f.ctrl.List(context.Background()))
	f.ctrl.Open(noteA)

	require.NoError(t, f.ctrl.DeleteConfirmed(context.Background(), "b.md"))
	assert.True(t, f.nav.State().EditorOpen())
	assert.Equal(t, "a.md", f.nav.State().SelectedFilename())
}

func TestDelete_Failure(t *testing.T) {
	f := newFixture(t, ReconcileNone, noteA)
	require.NoError(t, f.ctrl.List(context.Background()))
	f.ctrl.Open(noteA)
	f.answer = true
	f.backend.setFail(http.MethodDelete, true)

	deleted, err := f.ctrl.Delete(context.Background(), "a.md")
	assert.True(t, deleted)
	require.Error(t, err)
	assert.Equal(t, []string{MsgDeleteFailed}, f.alerts.Alerts())
	assert.Equal(t, 1, f.notes.Len())
	assert.True(t, f.nav.State().EditorOpen())
}

// =============================================================================
// POLICY PARSING
// =============================================================================

func TestParseReconcile(t *testing.T) {
	for in, want := range map[string]Reconcile{
		"":        ReconcileNone,
		"none":    ReconcileNone,
		"DIRTY":   ReconcileMarkDirty,
		" refetch": ReconcileRefetch,
	} {
		got, err := ParseReconcile(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseReconcile("versioned")
	assert.Error(t, err)
}
