// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the client-side entity collections: chat messages,
// notes and the file registry.
//
// Stores are owned by the controllers that mutate them. Readers get
// snapshot copies, so a slice returned by All never changes underneath
// the caller. Every successful mutation publishes a Change to the store's
// subscribers.
//
// # Key Types
//
//   - Messages: ordered chat transcript, addressed by correlation id
//   - Notes: notes keyed by filename, plus the loading and dirty flags
//   - Registry: the backend's file registry
//   - Broadcaster: fan-out of Change notifications
//
// # Usage
//
//	msgs := store.NewMessages()
//	changes, cancel := msgs.Subscribe()
//	defer cancel()
//
//	msgs.Append(model.NewUserMessage("hello"))
//	<-changes // Change{Kind: KindMessages}
package store
