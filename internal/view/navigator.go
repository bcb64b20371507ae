// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package view

import (
	"sync"

	"github.com/jeranaias/cerebrum-tui/internal/store"
)

// Navigator holds the live navigation state.
type Navigator struct {
	store.Broadcaster

	mu    sync.RWMutex
	state State
}

// NewNavigator creates a navigator in the initial state.
func NewNavigator() *Navigator {
	return &Navigator{state: Initial()}
}

// State returns a copy of the current state.
func (n *Navigator) State() State {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state.clone()
}

// Apply runs one command and returns the resulting state. Subscribers are
// notified when the state changed.
func (n *Navigator) Apply(cmd Command) State {
	n.mu.Lock()
	prev := n.state
	n.state = Transition(n.state, cmd)
	next := n.state.clone()
	n.mu.Unlock()

	if !prev.equal(next) {
		n.Publish(store.Change{Kind: KindView, Key: next.SelectedFilename()})
	}
	return next
}

// KindView is the change kind published by a Navigator.
const KindView store.Kind = "view"

func (s State) clone() State {
	if s.Selected != nil {
		note := *s.Selected
		s.Selected = &note
	}
	return s
}

func (s State) equal(o State) bool {
	if s.Mode != o.Mode || s.NotesView != o.NotesView {
		return false
	}
	if (s.Selected == nil) != (o.Selected == nil) {
		return false
	}
	return s.Selected == nil || *s.Selected == *o.Selected
}
