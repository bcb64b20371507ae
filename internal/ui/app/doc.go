// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root Bubble Tea model of the cerebrum TUI.
//
// It owns the three panes (chat, notes and the file registry sidebar),
// turns store and navigator change notifications into messages for the
// single update loop, and shows queued alerts as a modal overlay.
//
// # Layout
//
//	+--------+----------------------------+--------------+
//	| nav    | chat or notes              | files        |
//	+--------+----------------------------+--------------+
//	| key hints                              status      |
//	+----------------------------------------------------+
//
// The nav column is hidden below 60 columns and the files sidebar below
// 100; when hidden, focusing files shows it in the center instead.
package app
