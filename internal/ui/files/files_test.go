// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package files

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	filesctl "github.com/jeranaias/cerebrum-tui/internal/files"
	"github.com/jeranaias/cerebrum-tui/internal/model"
	"github.com/jeranaias/cerebrum-tui/internal/prompt"
	"github.com/jeranaias/cerebrum-tui/internal/store"
	"github.com/jeranaias/cerebrum-tui/internal/ui/styles"
)

type transport struct {
	mu       sync.Mutex
	entries  []model.FileEntry
	uploads  []string
	triggers []string
}

func (t *transport) ListRegistry(context.Context) ([]model.FileEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]model.FileEntry(nil), t.entries...), nil
}

func (t *transport) UploadFile(_ context.Context, name string, r io.Reader) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.uploads = append(t.uploads, name)
	t.entries = append(t.entries, model.FileEntry{HashID: name, OriginalName: strings.TrimSuffix(name, ".pdf")})
	return "File '" + name + "' uploaded successfully", nil
}

func (t *transport) StartConversion(context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.triggers = append(t.triggers, "convert")
	return "Conversion started in background", nil
}

func (t *transport) StartEmbedding(context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.triggers = append(t.triggers, "embed")
	return "Embedding started in background", nil
}

func (t *transport) ResetRegistry(context.Context, string, string) error {
	return nil
}

func newPane(t *testing.T, interval time.Duration) (Model, *transport, *prompt.Recorder) {
	t.Helper()
	tr := &transport{}
	alerts := &prompt.Recorder{}
	ctrl := filesctl.NewController(store.NewRegistry(), tr, alerts, nil)
	m := New(context.Background(), ctrl, styles.NewTheme(), interval)
	m.SetSize(40, 20)
	m.Focus()
	return m, tr, alerts
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestRefreshRendersBadges(t *testing.T) {
	m, tr, _ := newPane(t, 0)
	tr.entries = []model.FileEntry{
		{HashID: "a", SanitizedName: "Lecture_1", Converted: true, Embedded: true},
		{HashID: "b", OriginalName: "draft", Converted: true},
	}

	if m.Init() == nil {
		t.Fatal("Init() should fetch the registry")
	}
	msg := m.refresh()()
	if r, ok := msg.(RefreshedMsg); !ok || r.Err != nil {
		t.Fatalf("refresh = %#v", msg)
	}
	m.Refresh()

	out := m.View()
	for _, want := range []string{"Files (2)", "Lecture_1", "draft", "conv", "embd", "1/2"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestUploadPromptResetsAfterAttempt(t *testing.T) {
	m, tr, alerts := newPane(t, 0)

	m, _ = m.Update(runes("u"))
	if !m.Capturing() {
		t.Fatal("u should open the upload prompt")
	}
	m, _ = m.Update(runes("notes.txt"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Capturing() || m.input.Value() != "" {
		t.Error("prompt should be cleared after the attempt")
	}
	up, ok := cmd().(UploadedMsg)
	if !ok {
		t.Fatal("expected UploadedMsg")
	}
	if up.Err == nil {
		t.Error("non-PDF upload should fail")
	}
	m, _ = m.Update(up)
	if len(tr.uploads) != 0 {
		t.Error("non-PDF upload must not reach the backend")
	}
	if got := alerts.Alerts(); len(got) != 1 || got[0] != filesctl.MsgNotPDF {
		t.Errorf("alerts = %v", got)
	}
	if m.input.Value() != "" {
		t.Error("prompt should stay empty")
	}
}

func TestUploadPDF(t *testing.T) {
	m, tr, alerts := newPane(t, 0)
	path := filepath.Join(t.TempDir(), "paper.pdf")
	if err := os.WriteFile(path, []byte("%PDF"), 0644); err != nil {
		t.Fatal(err)
	}

	m, _ = m.Update(runes("u"))
	m, _ = m.Update(runes(path))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.View(), "Uploading") {
		t.Error("view should show the upload in progress")
	}
	up := cmd().(UploadedMsg)
	if up.Err != nil {
		t.Fatal(up.Err)
	}
	m, _ = m.Update(up)
	m.Refresh()

	if len(tr.uploads) != 1 || tr.uploads[0] != "paper.pdf" {
		t.Errorf("uploads = %v", tr.uploads)
	}
	if got := alerts.Alerts(); len(got) != 1 || got[0] != "File 'paper.pdf' uploaded successfully" {
		t.Errorf("alerts = %v", got)
	}
	if !strings.Contains(m.View(), "paper") {
		t.Error("registry should be refreshed after upload")
	}
}

func TestCancelPrompt(t *testing.T) {
	m, _, _ := newPane(t, 0)
	m, _ = m.Update(runes("u"))
	m, _ = m.Update(runes("half"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil || m.Capturing() || m.input.Value() != "" {
		t.Error("esc should close and clear the prompt")
	}
}

func TestTriggers(t *testing.T) {
	m, tr, _ := newPane(t, 0)

	_, cmd := m.Update(runes("c"))
	if msg := cmd().(TriggeredMsg); msg.Err != nil || msg.What != "conversion" {
		t.Errorf("convert = %+v", msg)
	}
	_, cmd = m.Update(runes("e"))
	if msg := cmd().(TriggeredMsg); msg.Err != nil || msg.What != "embedding" {
		t.Errorf("embed = %+v", msg)
	}
	if strings.Join(tr.triggers, ",") != "convert,embed" {
		t.Errorf("triggers = %v", tr.triggers)
	}
}

func TestPolling(t *testing.T) {
	m, _, _ := newPane(t, 0)
	if m.tick() != nil {
		t.Error("zero interval should disable polling")
	}

	m, _, _ = newPane(t, time.Millisecond)
	if _, ok := m.tick()().(PollMsg); !ok {
		t.Error("tick should produce PollMsg")
	}
	if _, cmd := m.Update(PollMsg{}); cmd == nil {
		t.Error("PollMsg should refresh and reschedule")
	}
}

func TestUnfocusedIgnoresKeys(t *testing.T) {
	m, _, _ := newPane(t, 0)
	m.Blur()
	m, cmd := m.Update(runes("u"))
	if cmd != nil || m.Capturing() {
		t.Error("unfocused pane should ignore keys")
	}
}
