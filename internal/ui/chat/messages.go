// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

// DeliveredMsg reports that delivery of a user message finished. The store
// already reflects the outcome.
type DeliveredMsg struct {
	ID  string
	Err error
}
