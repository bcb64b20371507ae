// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleBot:
		return "Cerebrum"
	default:
		return string(r)
	}
}

// =============================================================================
// STATUS TYPE
// =============================================================================

// Status is the delivery state of an outbound user message.
// Bot replies carry StatusNone.
type Status string

const (
	StatusNone    Status = ""
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// IsTerminal reports whether the status can no longer change.
func (s Status) IsTerminal() bool {
	return s == StatusSent || s == StatusFailed
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single chat message.
//
// ID is a correlation id generated on the client when the message is
// created. It is the only identity used to find a message again; two
// messages with the same text are distinct.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Status    Status    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserMessage creates a pending user message with a fresh correlation id.
func NewUserMessage(content string) Message {
	return Message{
		ID:        NewCorrelationID(),
		Role:      RoleUser,
		Content:   content,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
}

// NewBotMessage creates a bot reply. Replies have no delivery status.
func NewBotMessage(content string) Message {
	return Message{
		ID:        NewCorrelationID(),
		Role:      RoleBot,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// IsRetryable reports whether the message is a failed user message.
func (m Message) IsRetryable() bool {
	return m.Role == RoleUser && m.Status == StatusFailed
}

// NewCorrelationID returns a new client-side correlation id.
func NewCorrelationID() string {
	return uuid.NewString()
}
