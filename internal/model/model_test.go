// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("Hello")

	assert.Equal(t, RoleUser, msg.Role)
	assert.Equal(t, "Hello", msg.Content)
	assert.Equal(t, StatusPending, msg.Status)
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.CreatedAt.IsZero())
}

func TestNewUserMessage_DistinctIDsForSameText(t *testing.T) {
	a := NewUserMessage("same")
	b := NewUserMessage("same")

	assert.NotEqual(t, a.ID, b.ID)
}

func TestNewBotMessage(t *testing.T) {
	msg := NewBotMessage("Hi")

	assert.Equal(t, RoleBot, msg.Role)
	assert.Equal(t, StatusNone, msg.Status)
}

func TestMessage_IsRetryable(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want bool
	}{
		{"failed user", Message{Role: RoleUser, Status: StatusFailed}, true},
		{"pending user", Message{Role: RoleUser, Status: StatusPending}, false},
		{"sent user", Message{Role: RoleUser, Status: StatusSent}, false},
		{"bot", Message{Role: RoleBot}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.msg.IsRetryable())
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusNone.IsTerminal())
	assert.True(t, StatusSent.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
}

func TestRole_DisplayName(t *testing.T) {
	assert.Equal(t, "You", RoleUser.DisplayName())
	assert.Equal(t, "Cerebrum", RoleBot.DisplayName())
	assert.Equal(t, "system", Role("system").DisplayName())
}

// =============================================================================
// NOTE TESTS
// =============================================================================

func TestNote_With(t *testing.T) {
	note := Note{Filename: "a.md", Title: "A", Content: "body"}

	updated, err := note.With(FieldTitle, "B")
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Title)
	assert.Equal(t, "body", updated.Content)
	assert.Equal(t, "A", note.Title, "original must not change")

	updated, err = note.With(FieldContent, "new")
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Content)

	_, err = note.With(NoteField("filename"), "x.md")
	assert.Error(t, err)
}

func TestParseNoteField(t *testing.T) {
	f, err := ParseNoteField(" Title ")
	require.NoError(t, err)
	assert.Equal(t, FieldTitle, f)

	f, err = ParseNoteField("content")
	require.NoError(t, err)
	assert.Equal(t, FieldContent, f)

	_, err = ParseNoteField("body")
	assert.Error(t, err)
}

func TestNote_Preview(t *testing.T) {
	assert.Equal(t, "Untitled Note", Note{Content: DefaultNoteDraft.Content}.Preview())
	assert.Equal(t, "No content", Note{}.Preview())
	assert.Equal(t, "second", Note{Content: "\n\n  second\nthird"}.Preview())
}

func TestDefaultNoteDraft(t *testing.T) {
	assert.Equal(t, "Untitled Note", DefaultNoteDraft.Title)
	assert.Equal(t, "# Untitled Note\n\n", DefaultNoteDraft.Content)
}

// =============================================================================
// FILE ENTRY TESTS
// =============================================================================

func TestFileEntry_DisplayName(t *testing.T) {
	assert.Equal(t, "clean", FileEntry{OriginalName: "raw", SanitizedName: "clean"}.DisplayName())
	assert.Equal(t, "raw", FileEntry{OriginalName: "raw"}.DisplayName())
}

func TestFileEntry_Settled(t *testing.T) {
	assert.False(t, FileEntry{Converted: true}.Settled())
	assert.True(t, FileEntry{Converted: true, Embedded: true}.Settled())
}
