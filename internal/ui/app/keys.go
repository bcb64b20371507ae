// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global bindings. Pane bindings live in each pane.
type KeyMap struct {
	Chat      key.Binding
	Notes     key.Binding
	Files     key.Binding
	Dismiss   key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default global bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Chat:      key.NewBinding(key.WithKeys("f1", "alt+1"), key.WithHelp("F1", "chat")),
		Notes:     key.NewBinding(key.WithKeys("f2", "alt+2"), key.WithHelp("F2", "notes")),
		Files:     key.NewBinding(key.WithKeys("f3", "alt+3"), key.WithHelp("F3", "files")),
		Dismiss:   key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "dismiss")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("C-c", "quit")),
	}
}
