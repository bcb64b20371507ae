// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat drives the lifecycle of outbound chat messages.
//
// A submitted message is appended as pending, then moves to sent (with the
// bot reply appended right after it) or to failed. A failed message stays
// in the transcript; retrying appends a new attempt.
//
// Submission is split in two so the TUI can show the pending message
// before the network call starts:
//
//	p, ok := ctrl.Enqueue(text) // synchronous, inside Update
//	if ok {
//		return func() tea.Msg { return doneMsg{ctrl.Deliver(ctx, p)} }
//	}
package chat
