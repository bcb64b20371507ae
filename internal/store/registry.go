// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"sync"

	"github.com/jeranaias/cerebrum-tui/internal/model"
)

// Registry mirrors the backend's file registry. It is only ever replaced
// wholesale.
type Registry struct {
	Broadcaster

	mu      sync.RWMutex
	entries []model.FileEntry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: []model.FileEntry{}}
}

// Replace swaps the whole registry. A nil slice becomes empty.
func (s *Registry) Replace(entries []model.FileEntry) {
	s.mu.Lock()
	s.entries = append([]model.FileEntry{}, entries...)
	s.mu.Unlock()

	s.Publish(Change{Kind: KindRegistry})
}

// All returns a copy of the registry.
func (s *Registry) All() []model.FileEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.FileEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get returns the entry with the given hash id.
func (s *Registry) Get(hashID string) (model.FileEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.HashID == hashID {
			return e, true
		}
	}
	return model.FileEntry{}, false
}

// Len returns the number of entries.
func (s *Registry) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Pending returns the entries that are not yet both converted and embedded.
func (s *Registry) Pending() []model.FileEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.FileEntry
	for _, e := range s.entries {
		if !e.Settled() {
			out = append(out, e)
		}
	}
	return out
}
