// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import "github.com/jeranaias/cerebrum-tui/internal/model"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ChatRequest is the request body for POST /chat/.
type ChatRequest struct {
	Text string `json:"text"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ChatResponse is the response from POST /chat/.
// Reply is a pointer so a body without the field is a decode failure.
type ChatResponse struct {
	Reply *string `json:"reply"`
}

// RegistryResponse is the response from GET /process/.
type RegistryResponse struct {
	Registry []model.FileEntry `json:"registry"`
}

// MessageResponse is returned by upload and the processing triggers.
type MessageResponse struct {
	Message string `json:"message"`
}

// errorBody covers the error shapes the backend produces.
type errorBody struct {
	Detail  any    `json:"detail"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b errorBody) text() string {
	switch d := b.Detail.(type) {
	case string:
		if d != "" {
			return d
		}
	case nil:
	default:
		return "validation failed"
	}
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}
