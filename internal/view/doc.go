// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package view holds the navigation state of the client: which panel is
// shown and which note is open.
//
// Transition is a pure function from a State and a Command to the next
// State. Navigator wraps it with a lock and change notifications so the
// UI can subscribe instead of owning the fields.
//
// # Usage
//
//	nav := view.NewNavigator()
//	nav.Apply(view.SelectNotes{})
//	nav.Apply(view.OpenNote{Note: note})
//	st := nav.State() // {notes, editor, note}
package view
