// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notes implements note create, edit and delete with optimistic
// local updates.
//
// Edits are applied to the open note and the store before the write is
// sent, and are never rolled back. What happens after a failed write is
// decided by the configured Reconcile policy and reported through
// UpdateResult.
//
// # Key Types
//
//   - Controller: owns the notes store and drives the navigator
//   - UpdateResult: outcome of one persisted edit
//   - Reconcile: policy applied when a write fails
package notes
