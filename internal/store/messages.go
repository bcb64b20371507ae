// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"sync"

	"github.com/jeranaias/cerebrum-tui/internal/model"
)

// Messages is the ordered chat transcript.
type Messages struct {
	Broadcaster

	mu    sync.RWMutex
	items []model.Message
	index map[string]int // message id -> position in items
}

// NewMessages creates an empty transcript.
func NewMessages() *Messages {
	return &Messages{index: make(map[string]int)}
}

// Append adds a message at the end of the transcript.
func (s *Messages) Append(msg model.Message) {
	s.mu.Lock()
	s.appendLocked(msg)
	s.mu.Unlock()

	s.Publish(Change{Kind: KindMessages, Key: msg.ID})
}

func (s *Messages) appendLocked(msg model.Message) {
	if msg.ID != "" {
		s.index[msg.ID] = len(s.items)
	}
	s.items = append(s.items, msg)
}

// SetStatus updates the status of the message with the given id.
// It returns false if no such message exists.
func (s *Messages) SetStatus(id string, status model.Status) bool {
	s.mu.Lock()
	i, ok := s.index[id]
	if ok {
		s.items[i].Status = status
	}
	s.mu.Unlock()

	if ok {
		s.Publish(Change{Kind: KindMessages, Key: id})
	}
	return ok
}

// AppendAfterStatus sets the status of message id and appends reply in one
// step, so no other mutation lands between the two. If id is unknown
// (the transcript was cleared meanwhile) nothing changes and it returns
// false.
func (s *Messages) AppendAfterStatus(id string, status model.Status, reply model.Message) bool {
	s.mu.Lock()
	i, ok := s.index[id]
	if ok {
		s.items[i].Status = status
		s.appendLocked(reply)
	}
	s.mu.Unlock()

	if ok {
		s.Publish(Change{Kind: KindMessages, Key: id})
	}
	return ok
}

// Get returns the message with the given id.
func (s *Messages) Get(id string) (model.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return model.Message{}, false
	}
	return s.items[i], true
}

// All returns a copy of the transcript in order.
func (s *Messages) All() []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Message, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of messages.
func (s *Messages) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Clear removes every message.
func (s *Messages) Clear() {
	s.mu.Lock()
	s.items = nil
	s.index = make(map[string]int)
	s.mu.Unlock()

	s.Publish(Change{Kind: KindMessages})
}
