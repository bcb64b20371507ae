// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notes provides the notes list and note editor panes of the TUI.
//
// Edits are applied through the notes controller as the user types. Saves
// are coalesced per note: at most one write is in flight and only the
// latest queued state is sent after it.
package notes
