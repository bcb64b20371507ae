// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
)

// Note is a markdown note stored by the backend.
// Filename is assigned by the server on creation and never changes.
type Note struct {
	Filename string `json:"filename"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

// NoteDraft is the body sent when creating or updating a note.
type NoteDraft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// DefaultNoteDraft is what a freshly created note contains.
var DefaultNoteDraft = NoteDraft{
	Title:   "Untitled Note",
	Content: "# Untitled Note\n\n",
}

// Draft returns the writable part of the note.
func (n Note) Draft() NoteDraft {
	return NoteDraft{Title: n.Title, Content: n.Content}
}

// NoteField names an editable note field.
type NoteField string

const (
	FieldTitle   NoteField = "title"
	FieldContent NoteField = "content"
)

// ParseNoteField converts user input into a NoteField.
func ParseNoteField(s string) (NoteField, error) {
	switch NoteField(strings.ToLower(strings.TrimSpace(s))) {
	case FieldTitle:
		return FieldTitle, nil
	case FieldContent:
		return FieldContent, nil
	default:
		return "", fmt.Errorf("unknown note field %q (want title or content)", s)
	}
}

// With returns a copy of the note with field set to value.
func (n Note) With(field NoteField, value string) (Note, error) {
	switch field {
	case FieldTitle:
		n.Title = value
	case FieldContent:
		n.Content = value
	default:
		return n, fmt.Errorf("unknown note field %q", field)
	}
	return n, nil
}

// Preview returns the first non-empty content line, or "No content".
func (n Note) Preview() string {
	for _, line := range strings.Split(n.Content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "# "))
		if line != "" {
			return line
		}
	}
	return "No content"
}
