// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/cerebrum-tui/internal/model"
)

var noteA = model.Note{Filename: "a.md", Title: "A", Content: "# A"}

func TestInitial(t *testing.T) {
	s := Initial()
	assert.Equal(t, ModeChat, s.Mode)
	assert.Equal(t, NotesList, s.NotesView)
	assert.Nil(t, s.Selected)
	assert.False(t, s.EditorOpen())
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name     string
		from     State
		cmd      Command
		mode     Mode
		sub      NotesView
		selected string
	}{
		{"select notes resets to list", State{ModeChat, NotesEditor, &noteA}, SelectNotes{}, ModeNotes, NotesList, "a.md"},
		{"select chat keeps notes state", State{ModeNotes, NotesEditor, &noteA}, SelectChat{}, ModeChat, NotesEditor, "a.md"},
		{"open note", Initial(), OpenNote{Note: noteA}, ModeNotes, NotesEditor, "a.md"},
		{"back keeps selection", State{ModeNotes, NotesEditor, &noteA}, BackToList{}, ModeNotes, NotesList, "a.md"},
		{"close open note", State{ModeNotes, NotesEditor, &noteA}, CloseNote{Filename: "a.md"}, ModeNotes, NotesList, ""},
		{"close other note", State{ModeNotes, NotesEditor, &noteA}, CloseNote{Filename: "b.md"}, ModeNotes, NotesEditor, "a.md"},
		{"close with nothing open", Initial(), CloseNote{Filename: ""}, ModeChat, NotesList, ""},
		{"nil command", Initial(), nil, ModeChat, NotesList, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transition(tt.from, tt.cmd)
			assert.Equal(t, tt.mode, got.Mode)
			assert.Equal(t, tt.sub, got.NotesView)
			assert.Equal(t, tt.selected, got.SelectedFilename())
		})
	}
}

func TestTransition_DoesNotAliasInput(t *testing.T) {
	note := noteA
	s := Transition(Initial(), OpenNote{Note: note})
	note.Title = "changed"
	assert.Equal(t, "A", s.Selected.Title)
}

func TestReplaceSelected(t *testing.T) {
	s := Transition(Initial(), OpenNote{Note: noteA})

	updated := noteA
	updated.Title = "A2"
	s = Transition(s, ReplaceSelected{Note: updated})
	assert.Equal(t, "A2", s.Selected.Title)

	s = Transition(s, ReplaceSelected{Note: model.Note{Filename: "b.md", Title: "B"}})
	assert.Equal(t, "a.md", s.Selected.Filename)
	assert.Equal(t, "A2", s.Selected.Title)
}

func TestNavigator_NotifiesOnChange(t *testing.T) {
	nav := NewNavigator()
	ch, cancel := nav.Subscribe()
	defer cancel()

	nav.Apply(SelectChat{})
	select {
	case c := <-ch:
		t.Fatalf("no-op command notified: %+v", c)
	default:
	}

	nav.Apply(OpenNote{Note: noteA})
	c := <-ch
	assert.Equal(t, KindView, c.Kind)
	assert.Equal(t, "a.md", c.Key)
}

func TestNavigator_StateIsCopy(t *testing.T) {
	nav := NewNavigator()
	nav.Apply(OpenNote{Note: noteA})

	st := nav.State()
	require.NotNil(t, st.Selected)
	st.Selected.Title = "mutated"

	assert.Equal(t, "A", nav.State().Selected.Title)
	assert.True(t, nav.State().EditorOpen())
}
