// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package view

import "github.com/jeranaias/cerebrum-tui/internal/model"

// Mode selects the main panel.
type Mode string

const (
	ModeChat  Mode = "chat"
	ModeNotes Mode = "notes"
)

// NotesView selects the sub-panel of the notes mode.
type NotesView string

const (
	NotesList   NotesView = "list"
	NotesEditor NotesView = "editor"
)

// State is the complete navigation state. Selected is nil when no note
// is open.
type State struct {
	Mode      Mode
	NotesView NotesView
	Selected  *model.Note
}

// Initial returns the state a session starts in.
func Initial() State {
	return State{Mode: ModeChat, NotesView: NotesList}
}

// SelectedFilename returns the filename of the open note, or "".
func (s State) SelectedFilename() string {
	if s.Selected == nil {
		return ""
	}
	return s.Selected.Filename
}

// EditorOpen reports whether the notes editor is showing a note.
func (s State) EditorOpen() bool {
	return s.Mode == ModeNotes && s.NotesView == NotesEditor && s.Selected != nil
}

// =============================================================================
// COMMANDS
// =============================================================================

// Command is a navigation intent.
type Command interface {
	apply(State) State
}

// SelectChat shows the chat panel.
type SelectChat struct{}

// SelectNotes shows the notes panel at the list.
type SelectNotes struct{}

// OpenNote selects a note and shows the editor.
type OpenNote struct{ Note model.Note }

// BackToList shows the notes list. The selection is kept.
type BackToList struct{}

// CloseNote clears the selection and returns to the list, but only if
// Filename is the open note.
type CloseNote struct{ Filename string }

// ReplaceSelected refreshes the open note if it has the same filename.
type ReplaceSelected struct{ Note model.Note }

func (SelectChat) apply(s State) State {
	s.Mode = ModeChat
	return s
}

func (SelectNotes) apply(s State) State {
	s.Mode = ModeNotes
	s.NotesView = NotesList
	return s
}

func (c OpenNote) apply(s State) State {
	note := c.Note
	s.Mode = ModeNotes
	s.NotesView = NotesEditor
	s.Selected = &note
	return s
}

func (BackToList) apply(s State) State {
	s.NotesView = NotesList
	return s
}

func (c CloseNote) apply(s State) State {
	if s.SelectedFilename() != c.Filename || c.Filename == "" {
		return s
	}
	s.Selected = nil
	s.NotesView = NotesList
	return s
}

func (c ReplaceSelected) apply(s State) State {
	if s.SelectedFilename() != c.Note.Filename || c.Note.Filename == "" {
		return s
	}
	note := c.Note
	s.Selected = &note
	return s
}

// Transition returns the state after applying cmd to s. s is not modified.
func Transition(s State, cmd Command) State {
	if cmd == nil {
		return s
	}
	return cmd.apply(s)
}
