// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/cerebrum-tui/internal/prompt"
	"github.com/jeranaias/cerebrum-tui/internal/ui/app"
)

// errNoTerminal is returned when the TUI is started without a terminal.
var errNoTerminal = errors.New("the interactive UI needs a terminal; see 'cerebrum --help' for scriptable commands")

func runTUI(cmd *cobra.Command, f *rootFlags) error {
	if !IsTTY() || !IsStdoutTTY() {
		return errNoTerminal
	}
	ctx := cmd.Context()

	// The TUI shows alerts itself, so controllers get a queue instead of
	// the terminal notifier.
	queue := prompt.NewQueue(16)
	sess, client, err := f.session(cmd, queue, nil)
	if err != nil {
		return err
	}

	model := app.New(ctx, app.Options{
		Session: sess,
		Alerts:  queue,
		Pinger:  client,
	})
	defer model.Close()

	f.logger.Info("starting tui", zap.String("backend", client.BaseURL()), zap.String("session", sess.ID))

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	f.logger.Info("tui exited", zap.Duration("duration", sess.Duration()))
	return nil
}
