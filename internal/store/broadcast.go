// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import "sync"

// Kind identifies which collection changed.
type Kind string

const (
	KindMessages Kind = "messages"
	KindNotes    Kind = "notes"
	KindRegistry Kind = "registry"
)

// Change is published after every successful mutation.
type Change struct {
	Kind Kind
	// Key is the id, filename or hash of the affected entry. Empty for
	// whole-collection changes.
	Key string
}

// Broadcaster fans out Change notifications to subscribers.
//
// Each subscriber gets a channel with a one-slot buffer. Publishing never
// blocks: if a subscriber has not drained its previous notification the
// new one is dropped, since readers re-read the whole snapshot anyway.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[int]chan Change
	nextID int
}

// Subscribe registers a new subscriber. The returned cancel func
// unregisters it and closes the channel.
func (b *Broadcaster) Subscribe() (<-chan Change, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs == nil {
		b.subs = make(map[int]chan Change)
	}
	id := b.nextID
	b.nextID++
	ch := make(chan Change, 1)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
}

// Publish delivers c to every subscriber without blocking.
func (b *Broadcaster) Publish(c Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- c:
		default:
		}
	}
}

// Subscribers returns the number of active subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
