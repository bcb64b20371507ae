// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notes

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jeranaias/cerebrum-tui/internal/backend"
	"github.com/jeranaias/cerebrum-tui/internal/model"
	"github.com/jeranaias/cerebrum-tui/internal/prompt"
	"github.com/jeranaias/cerebrum-tui/internal/store"
	"github.com/jeranaias/cerebrum-tui/internal/view"
)

// User-facing texts.
const (
	MsgCreateFailed = "Failed to create note"
	MsgDeleteFailed = "Failed to delete note"
	DeletePrompt    = "Are you sure you want to delete this note?"
)

// ErrUnknownNote is returned for edits of a filename the store does not hold.
var ErrUnknownNote = errors.New("note not found")

// Transport is the subset of the backend client used for notes.
type Transport interface {
	ListNotes(ctx context.Context) ([]model.Note, error)
	GetNote(ctx context.Context, filename string) (model.Note, error)
	CreateNote(ctx context.Context, draft model.NoteDraft) (model.Note, error)
	UpdateNote(ctx context.Context, filename string, draft model.NoteDraft) error
	DeleteNote(ctx context.Context, filename string) error
}

// Options configures a Controller. Zero values get defaults.
type Options struct {
	// Draft is the body sent by Create (default: model.DefaultNoteDraft).
	Draft model.NoteDraft

	// Reconcile is the policy for failed writes (default: ReconcileNone).
	Reconcile Reconcile

	Notifier  prompt.Notifier
	Confirmer prompt.Confirmer
	Logger    *zap.Logger
}

// Controller owns the notes store.
type Controller struct {
	notes     *store.Notes
	nav       *view.Navigator
	transport Transport

	draft     model.NoteDraft
	reconcile Reconcile
	notifier  prompt.Notifier
	confirmer prompt.Confirmer
	logger    *zap.Logger

	// mu guards the list bookkeeping and orders Create against the end
	// of a List so a stale response cannot drop a new note.
	mu      sync.Mutex
	listing int
	created map[string]bool
}

// NewController creates a notes controller.
func NewController(notes *store.Notes, nav *view.Navigator, transport Transport, opts Options) *Controller {
	c := &Controller{
		notes:     notes,
		nav:       nav,
		transport: transport,
		draft:     opts.Draft,
		reconcile: opts.Reconcile,
		notifier:  opts.Notifier,
		confirmer: opts.Confirmer,
		logger:    opts.Logger,
		created:   make(map[string]bool),
	}
	if c.draft == (model.NoteDraft{}) {
		c.draft = model.DefaultNoteDraft
	}
	if c.reconcile == "" {
		c.reconcile = ReconcileNone
	}
	if c.notifier == nil {
		c.notifier = prompt.Discard
	}
	if c.confirmer == nil {
		c.confirmer = prompt.NeverConfirm
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.logger = c.logger.Named("notes")
	return c
}

// Notes returns a snapshot of the notes store.
func (c *Controller) Notes() []model.Note {
	return c.notes.All()
}

// Loading reports whether List is in progress.
func (c *Controller) Loading() bool {
	return c.notes.Loading()
}

// Dirty reports whether a note may differ from the server.
func (c *Controller) Dirty(filename string) bool {
	return c.notes.Dirty(filename)
}

// =============================================================================
// LIST / CREATE / OPEN
// =============================================================================

// List fetches all notes and replaces the store. On failure the store is
// left as it was. The loading flag is set for the duration of the call.
// Notes created while the request was in flight, and the note open in the
// editor, are kept even when the response predates them.
func (c *Controller) List(ctx context.Context) error {
	c.notes.SetLoading(true)
	defer c.notes.SetLoading(false)

	c.mu.Lock()
	c.listing++
	c.mu.Unlock()

	notes, err := c.transport.ListNotes(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	created := c.created
	c.listing--
	if c.listing == 0 {
		c.created = make(map[string]bool)
	}
	if err != nil {
		c.logger.Warn("failed to list notes", zap.Error(err))
		return fmt.Errorf("list notes: %w", err)
	}
	c.notes.Replace(c.mergeLocked(notes, created))
	return nil
}

// mergeLocked puts local notes missing from fetched in front of it.
func (c *Controller) mergeLocked(fetched []model.Note, created map[string]bool) []model.Note {
	keep := make(map[string]bool, len(created)+1)
	for filename := range created {
		keep[filename] = true
	}
	var selected *model.Note
	if st := c.nav.State(); st.EditorOpen() {
		selected = st.Selected
		keep[selected.Filename] = true
	}
	for _, n := range fetched {
		delete(keep, n.Filename)
	}
	if len(keep) == 0 {
		return fetched
	}

	var local []model.Note
	for _, n := range c.notes.All() {
		if keep[n.Filename] {
			local = append(local, n)
			delete(keep, n.Filename)
		}
	}
	if selected != nil && keep[selected.Filename] {
		local = append([]model.Note{*selected}, local...)
	}
	c.logger.Debug("kept notes missing from list", zap.Int("count", len(local)))
	return append(local, fetched...)
}

// Create creates a note with the default draft, puts it first in the
// store and opens it. On failure the user is alerted and nothing changes.
func (c *Controller) Create(ctx context.Context) (model.Note, error) {
	note, err := c.transport.CreateNote(ctx, c.draft)
	if err != nil {
		c.logger.Warn("failed to create note", zap.Error(err))
		c.notifier.Alert(MsgCreateFailed)
		return model.Note{}, fmt.Errorf("create note: %w", err)
	}

	c.mu.Lock()
	if c.listing > 0 {
		c.created[note.Filename] = true
	}
	if err := c.notes.Prepend(note); errors.Is(err, store.ErrDuplicateNote) {
		// Server handed back an existing filename; keep one entry.
		c.logger.Warn("created note already in store", zap.String("filename", note.Filename))
		c.notes.Upsert(note)
	}
	c.nav.Apply(view.OpenNote{Note: note})
	c.mu.Unlock()
	return note, nil
}

// Open shows note in the editor.
func (c *Controller) Open(note model.Note) {
	c.nav.Apply(view.OpenNote{Note: note})
}

// Back returns to the notes list, keeping the selection.
func (c *Controller) Back() {
	c.nav.Apply(view.BackToList{})
}

// =============================================================================
// UPDATE
// =============================================================================

// Write is an edit that has been applied locally and awaits persistence.
type Write struct {
	Note model.Note
}

// UpdateResult reports the outcome of a persisted edit.
type UpdateResult struct {
	// Note is the local state after the call. With ReconcileRefetch and a
	// failed write it is the server's copy.
	Note model.Note

	// Persisted is true when the backend accepted the write.
	Persisted bool

	// Err is the write error, if any.
	Err error
}

// Edit applies field=value to the open note and its store entry right
// away. It returns false when no note is open.
func (c *Controller) Edit(field model.NoteField, value string) (*Write, bool) {
	selected := c.nav.State().Selected
	if selected == nil {
		return nil, false
	}
	w, err := c.apply(*selected, field, value)
	if err != nil {
		c.logger.Warn("rejected edit", zap.String("filename", selected.Filename), zap.Error(err))
		return nil, false
	}
	return w, true
}

func (c *Controller) apply(base model.Note, field model.NoteField, value string) (*Write, error) {
	updated, err := base.With(field, value)
	if err != nil {
		return nil, err
	}
	c.nav.Apply(view.ReplaceSelected{Note: updated})
	if entry, ok := c.notes.Get(base.Filename); ok {
		if entry, err = entry.With(field, value); err == nil {
			c.notes.Upsert(entry)
		}
	}
	return &Write{Note: updated}, nil
}

// Persist sends the full title and content of w to the backend. A failed
// write is logged and handled by the reconcile policy; the local edit is
// kept.
func (c *Controller) Persist(ctx context.Context, w *Write) UpdateResult {
	filename := w.Note.Filename
	err := c.transport.UpdateNote(ctx, filename, w.Note.Draft())
	if err == nil {
		c.notes.ClearDirty(filename)
		return UpdateResult{Note: w.Note, Persisted: true}
	}

	c.logger.Warn("failed to save note",
		zap.String("filename", filename),
		zap.Stringer("kind", backend.TypeOf(err)),
		zap.String("reconcile", string(c.reconcile)),
		zap.Error(err))

	result := UpdateResult{Note: w.Note, Err: fmt.Errorf("update note %s: %w", filename, err)}
	switch c.reconcile {
	case ReconcileMarkDirty:
		c.notes.MarkDirty(filename)
	case ReconcileRefetch:
		server, gerr := c.transport.GetNote(ctx, filename)
		if gerr != nil {
			c.logger.Warn("failed to refetch note", zap.String("filename", filename), zap.Error(gerr))
			c.notes.MarkDirty(filename)
			break
		}
		c.notes.Upsert(server)
		c.notes.ClearDirty(filename)
		c.nav.Apply(view.ReplaceSelected{Note: server})
		result.Note = server
	}
	return result
}

// Adopt makes w the local state of its note again. It is used for a
// write that was queued while an earlier one failed and was reconciled
// to the server copy.
func (c *Controller) Adopt(w *Write) {
	c.nav.Apply(view.ReplaceSelected{Note: w.Note})
	c.notes.Upsert(w.Note)
}

// Update edits the open note and persists it. With no open note it
// returns a zero result.
func (c *Controller) Update(ctx context.Context, field model.NoteField, value string) UpdateResult {
	w, ok := c.Edit(field, value)
	if !ok {
		return UpdateResult{}
	}
	return c.Persist(ctx, w)
}

// UpdateNote edits the note with the given filename whether or not it is
// open, then persists it. The note must be in the store.
func (c *Controller) UpdateNote(ctx context.Context, filename string, field model.NoteField, value string) UpdateResult {
	base, ok := c.notes.Get(filename)
	if !ok {
		return UpdateResult{Err: fmt.Errorf("update note %s: %w", filename, ErrUnknownNote)}
	}
	w, err := c.apply(base, field, value)
	if err != nil {
		return UpdateResult{Note: base, Err: err}
	}
	return c.Persist(ctx, w)
}

// =============================================================================
// DELETE
// =============================================================================

// Delete asks for confirmation and deletes the note. It returns false
// without contacting the backend when the user declines.
func (c *Controller) Delete(ctx context.Context, filename string) (bool, error) {
	if !c.confirmer.Confirm(DeletePrompt) {
		return false, nil
	}
	return true, c.DeleteConfirmed(ctx, filename)
}

// DeleteConfirmed deletes the note without asking. On success the entry
// is removed and, if it was open, the editor closes. On failure the user
// is alerted and nothing changes.
func (c *Controller) DeleteConfirmed(ctx context.Context, filename string) error {
	if err := c.transport.DeleteNote(ctx, filename); err != nil {
		c.logger.Warn("failed to delete note", zap.String("filename", filename), zap.Error(err))
		c.notifier.Alert(MsgDeleteFailed)
		return fmt.Errorf("delete note %s: %w", filename, err)
	}

	// Close first so the editor never shows a note the store no longer has.
	c.nav.Apply(view.CloseNote{Filename: filename})
	c.notes.Remove(filename)
	return nil
}
