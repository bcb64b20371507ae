// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat pane of the TUI.
//
// The pane renders the transcript held by the chat controller, submits
// input through Enqueue (synchronously, so the pending message appears at
// once) and delivers it in a tea.Cmd. Failed messages can be selected in
// browse mode and retried with r.
package chat
