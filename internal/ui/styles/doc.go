// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the cerebrum TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection.

# Color System (colors.go)

  - Purple - Primary accent, bot replies, selections
  - Cyan - Brand color, user messages, focused panes
  - Emerald - Success, settled registry entries
  - Amber - Warnings, pending states, unsaved notes
  - Rose - Errors, failed messages, destructive prompts

Every status color has an ASCII shape indicator (StatusIndicators) so state
is never conveyed by color alone.

# Theme (theme.go)

Theme bundles the lipgloss styles for the three-pane layout: the section
sidebar, the center pane (chat, notes list, note editor) and the file
registry sidebar, plus overlays and the status bar. GlamourStyle resolves
the configured markdown style against the detected background.

# Animations (animations.go)

Spinner frame sets for in-flight requests and RenderProgressBar for the
registry's processing progress.
*/
package styles
