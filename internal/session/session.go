// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"time"

	"go.uber.org/zap"

	chatctl "github.com/jeranaias/cerebrum-tui/internal/chat"
	"github.com/jeranaias/cerebrum-tui/internal/config"
	filesctl "github.com/jeranaias/cerebrum-tui/internal/files"
	"github.com/jeranaias/cerebrum-tui/internal/model"
	notesctl "github.com/jeranaias/cerebrum-tui/internal/notes"
	"github.com/jeranaias/cerebrum-tui/internal/prompt"
	"github.com/jeranaias/cerebrum-tui/internal/store"
	"github.com/jeranaias/cerebrum-tui/internal/view"
)

// Transport is everything a session needs from the backend.
// *backend.Client implements it.
type Transport interface {
	chatctl.Transport
	notesctl.Transport
	filesctl.Transport
}

// Options configures a Session. Nil fields get defaults.
type Options struct {
	Config    *config.Config
	Notifier  prompt.Notifier
	Confirmer prompt.Confirmer
	Logger    *zap.Logger
}

// Session holds the shared state of one client run.
type Session struct {
	ID        string
	StartedAt time.Time

	Messages *store.Messages
	NoteList *store.Notes
	Registry *store.Registry
	Nav      *view.Navigator

	Chat  *chatctl.Controller
	Notes *notesctl.Controller
	Files *filesctl.Controller

	config *config.Config
	logger *zap.Logger
}

// New creates a session over transport.
func New(transport Transport, opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	reconcile, err := notesctl.ParseReconcile(cfg.Notes.Reconcile)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:        model.NewCorrelationID(),
		StartedAt: time.Now(),
		Messages:  store.NewMessages(),
		NoteList:  store.NewNotes(),
		Registry:  store.NewRegistry(),
		Nav:       view.NewNavigator(),
		config:    cfg,
	}
	s.logger = logger.With(zap.String("session", s.ID))

	s.Chat = chatctl.NewController(s.Messages, transport, s.logger)
	s.Notes = notesctl.NewController(s.NoteList, s.Nav, transport, notesctl.Options{
		Draft: model.NoteDraft{
			Title:   cfg.Notes.DefaultTitle,
			Content: cfg.Notes.DefaultContent,
		},
		Reconcile: reconcile,
		Notifier:  opts.Notifier,
		Confirmer: opts.Confirmer,
		Logger:    s.logger,
	})
	s.Files = filesctl.NewController(s.Registry, transport, opts.Notifier, s.logger)

	s.logger.Debug("session started", zap.String("reconcile", string(reconcile)))
	return s, nil
}

// Config returns the configuration the session was built with.
func (s *Session) Config() *config.Config {
	return s.config
}

// Logger returns the session logger.
func (s *Session) Logger() *zap.Logger {
	return s.logger
}

// Duration returns how long the session has been running.
func (s *Session) Duration() time.Duration {
	return time.Since(s.StartedAt)
}
