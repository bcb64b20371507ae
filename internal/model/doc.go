// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by the Cerebrum client.
//
// These are the client's views of backend resources plus the local
// bookkeeping needed to track optimistic state.
//
// # Key Types
//
//   - Message: Chat message with role, content, lifecycle status and a
//     locally generated correlation id
//   - Note: Markdown note keyed by its server-assigned filename
//   - NoteDraft: Title/content body sent when creating or updating a note
//   - FileEntry: One row of the backend's file registry
//
// # Usage
//
//	msg := model.NewUserMessage("What is entropy?")
//	// msg.Status == model.StatusPending until the backend answers
//
//	note, err := note.With(model.FieldTitle, "Thermodynamics")
package model
