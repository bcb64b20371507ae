// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/cerebrum-tui/internal/config"
	"github.com/jeranaias/cerebrum-tui/internal/model"
	"github.com/jeranaias/cerebrum-tui/internal/prompt"
)

type stubTransport struct {
	drafts []model.NoteDraft
}

func (s *stubTransport) Chat(_ context.Context, text string) (string, error) {
	return "echo " + text, nil
}

func (s *stubTransport) ListNotes(context.Context) ([]model.Note, error) { return nil, nil }

func (s *stubTransport) GetNote(_ context.Context, filename string) (model.Note, error) {
	return model.Note{Filename: filename}, nil
}

func (s *stubTransport) CreateNote(_ context.Context, draft model.NoteDraft) (model.Note, error) {
	s.drafts = append(s.drafts, draft)
	return model.Note{Filename: "n.md", Title: draft.Title, Content: draft.Content}, nil
}

func (s *stubTransport) UpdateNote(context.Context, string, model.NoteDraft) error { return nil }
func (s *stubTransport) DeleteNote(context.Context, string) error                { return nil }

func (s *stubTransport) ListRegistry(context.Context) ([]model.FileEntry, error) {
	return []model.FileEntry{{HashID: "h"}}, nil
}

func (s *stubTransport) UploadFile(context.Context, string, io.Reader) (string, error) {
	return "ok", nil
}

func (s *stubTransport) StartConversion(context.Context) (string, error) { return "", nil }
func (s *stubTransport) StartEmbedding(context.Context) (string, error)  { return "", nil }
func (s *stubTransport) ResetRegistry(context.Context, string, string) error {
	return nil
}

func TestNew_WiresStores(t *testing.T) {
	tr := &stubTransport{}
	sess, err := New(tr, Options{})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.NotNil(t, sess.Logger())
	assert.Equal(t, config.Default().Backend.BaseURL, sess.Config().Backend.BaseURL)

	ctx := context.Background()
	_, err = sess.Chat.Submit(ctx, "hi")
	require.NoError(t, err)
	assert.Equal(t, 2, sess.Messages.Len())

	require.NoError(t, sess.Files.Refresh(ctx))
	assert.Equal(t, 1, sess.Registry.Len())
}

func TestNew_UsesConfiguredDraft(t *testing.T) {
	cfg := config.Default()
	cfg.Notes.DefaultTitle = "Scratch"
	cfg.Notes.DefaultContent = "# Scratch\n"
	tr := &stubTransport{}
	rec := &prompt.Recorder{}

	sess, err := New(tr, Options{Config: cfg, Notifier: rec})
	require.NoError(t, err)

	note, err := sess.Notes.Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Scratch", note.Title)
	require.Len(t, tr.drafts, 1)
	assert.Equal(t, "# Scratch\n", tr.drafts[0].Content)
	assert.Equal(t, 1, sess.NoteList.Len())
	assert.Equal(t, "n.md", sess.Nav.State().SelectedFilename())
}

func TestNew_RejectsUnknownReconcile(t *testing.T) {
	cfg := config.Default()
	cfg.Notes.Reconcile = "merge"
	_, err := New(&stubTransport{}, Options{Config: cfg})
	assert.Error(t, err)
}
