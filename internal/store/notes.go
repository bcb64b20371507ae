// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"errors"
	"sync"

	"github.com/jeranaias/cerebrum-tui/internal/model"
)

// ErrDuplicateNote is returned by Prepend when the filename already exists.
var ErrDuplicateNote = errors.New("note already exists")

// Notes is the client-side notes collection, keyed by filename.
type Notes struct {
	Broadcaster

	mu      sync.RWMutex
	items   []model.Note
	loading bool
	dirty   map[string]bool
}

// NewNotes creates an empty notes store.
func NewNotes() *Notes {
	return &Notes{dirty: make(map[string]bool)}
}

// Replace swaps the whole collection. Dirty flags for notes that are no
// longer present are dropped.
func (s *Notes) Replace(notes []model.Note) {
	s.mu.Lock()
	s.items = append([]model.Note(nil), notes...)
	for filename := range s.dirty {
		if s.indexLocked(filename) < 0 {
			delete(s.dirty, filename)
		}
	}
	s.mu.Unlock()

	s.Publish(Change{Kind: KindNotes})
}

// Prepend inserts note at the front of the collection.
func (s *Notes) Prepend(note model.Note) error {
	s.mu.Lock()
	if s.indexLocked(note.Filename) >= 0 {
		s.mu.Unlock()
		return ErrDuplicateNote
	}
	s.items = append([]model.Note{note}, s.items...)
	s.mu.Unlock()

	s.Publish(Change{Kind: KindNotes, Key: note.Filename})
	return nil
}

// Upsert replaces the note with the same filename in place. It returns
// false and changes nothing if the filename is not present.
func (s *Notes) Upsert(note model.Note) bool {
	s.mu.Lock()
	i := s.indexLocked(note.Filename)
	if i >= 0 {
		s.items[i] = note
	}
	s.mu.Unlock()

	if i < 0 {
		return false
	}
	s.Publish(Change{Kind: KindNotes, Key: note.Filename})
	return true
}

// Remove deletes the note with the given filename.
func (s *Notes) Remove(filename string) bool {
	s.mu.Lock()
	i := s.indexLocked(filename)
	if i >= 0 {
		s.items = append(s.items[:i:i], s.items[i+1:]...)
		delete(s.dirty, filename)
	}
	s.mu.Unlock()

	if i < 0 {
		return false
	}
	s.Publish(Change{Kind: KindNotes, Key: filename})
	return true
}

// Get returns the note with the given filename.
func (s *Notes) Get(filename string) (model.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(filename)
	if i < 0 {
		return model.Note{}, false
	}
	return s.items[i], true
}

// All returns a copy of the collection in display order.
func (s *Notes) All() []model.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Note, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of notes.
func (s *Notes) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// =============================================================================
// FLAGS
// =============================================================================

// SetLoading sets the list-in-progress flag.
func (s *Notes) SetLoading(loading bool) {
	s.mu.Lock()
	changed := s.loading != loading
	s.loading = loading
	s.mu.Unlock()

	if changed {
		s.Publish(Change{Kind: KindNotes})
	}
}

// Loading reports whether a list fetch is in progress.
func (s *Notes) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// MarkDirty flags a note whose local state may differ from the server.
func (s *Notes) MarkDirty(filename string) {
	s.mu.Lock()
	changed := !s.dirty[filename]
	s.dirty[filename] = true
	s.mu.Unlock()

	if changed {
		s.Publish(Change{Kind: KindNotes, Key: filename})
	}
}

// ClearDirty removes the dirty flag of a note.
func (s *Notes) ClearDirty(filename string) {
	s.mu.Lock()
	changed := s.dirty[filename]
	delete(s.dirty, filename)
	s.mu.Unlock()

	if changed {
		s.Publish(Change{Kind: KindNotes, Key: filename})
	}
}

// Dirty reports whether a note is flagged dirty.
func (s *Notes) Dirty(filename string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty[filename]
}

func (s *Notes) indexLocked(filename string) int {
	for i := range s.items {
		if s.items[i].Filename == filename {
			return i
		}
	}
	return -1
}
