// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides small UI building blocks shared by the panes.

# Components

Spinner (spinner.go) - Animated spinner with an elapsed-time suffix.
Markdown (markdown.go) - Glamour renderer cached per width, with a plain-text fallback.
Alerts (alert.go) - Modal alert stack; the oldest alert is shown until dismissed.
Confirm (confirm.go) - Yes/no dialog that reports the answer as a ConfirmedMsg.
RenderStatusBar (keyhints.go) - Key hints plus a status string, fitted to one line.

# Theme Integration

Components take a *styles.Theme:

	theme := styles.NewTheme()
	alerts := components.NewAlerts(theme, 8)
	alerts.Push("Failed to save note")
	view := alerts.View(60)

Components with a tea.Cmd lifecycle (Spinner, Confirm) return commands
instead of running work themselves; the owning pane batches them.
*/
package components
