// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session wires one client session together: the three stores,
// the navigator and the chat, notes and files controllers, all talking
// to the same backend transport.
//
// Both the terminal UI and the one-shot CLI commands build a Session;
// they differ only in the Notifier and Confirmer they pass in.
//
//	sess := session.New(client, session.Options{Config: cfg, Logger: logger})
//	err := sess.Notes.List(ctx)
package session
