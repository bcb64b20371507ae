// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the cerebrum command tree.
//
// With no subcommand cerebrum starts the terminal UI. The other commands
// reuse the same session and controllers for one-shot use from scripts:
//
//	cerebrum chat "what is in lecture 3?"
//	cerebrum notes list
//	cerebrum files upload slides.pdf
//	cerebrum files list --watch
//	cerebrum dev-server --auto
//
// Colors are disabled when stdout is not a terminal or NO_COLOR is set.
// Commands that list data accept --json for machine-readable output.
package cli
