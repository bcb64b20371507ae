// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// LAYOUT
	// ==========================================================================

	App          lipgloss.Style
	Pane         lipgloss.Style
	PaneFocused  lipgloss.Style
	PaneTitle    lipgloss.Style
	Brand        lipgloss.Style
	NavItem      lipgloss.Style
	NavActive    lipgloss.Style
	StatusBar    lipgloss.Style
	StatusKey    lipgloss.Style
	StatusDetail lipgloss.Style

	// ==========================================================================
	// CHAT
	// ==========================================================================

	UserLabel   lipgloss.Style
	BotLabel    lipgloss.Style
	UserBubble  lipgloss.Style
	BotBubble   lipgloss.Style
	PendingMark lipgloss.Style
	FailedMark  lipgloss.Style
	CursorMark  lipgloss.Style
	InputPrompt lipgloss.Style
	EmptyState  lipgloss.Style

	// ==========================================================================
	// LISTS AND EDITOR
	// ==========================================================================

	ListItem     lipgloss.Style
	ListSelected lipgloss.Style
	ListPreview  lipgloss.Style
	DirtyMark    lipgloss.Style
	FieldLabel   lipgloss.Style

	// ==========================================================================
	// REGISTRY
	// ==========================================================================

	BadgeOn  lipgloss.Style
	BadgeOff lipgloss.Style
	FileName lipgloss.Style

	// ==========================================================================
	// OVERLAYS
	// ==========================================================================

	Toast   lipgloss.Style
	Dialog  lipgloss.Style
	Danger  lipgloss.Style
	Muted   lipgloss.Style
	HelpKey lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()

	t.Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim).
		Padding(0, 1)
	t.PaneFocused = t.Pane.
		BorderForeground(FocusRing)
	t.PaneTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple).
		MarginBottom(1)
	t.Brand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)
	t.NavItem = lipgloss.NewStyle().
		Foreground(TextSecondary).
		PaddingLeft(1)
	t.NavActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Purple).
		PaddingLeft(1).
		PaddingRight(1)
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)
	t.StatusKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim)
	t.StatusDetail = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(SurfaceDim)

	// Chat
	t.UserLabel = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
	t.BotLabel = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(UserBubbleBorder).
		PaddingLeft(1)
	t.BotBubble = lipgloss.NewStyle().
		Foreground(BotBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(BotBubbleBorder).
		PaddingLeft(1)
	t.PendingMark = lipgloss.NewStyle().Foreground(Amber)
	t.FailedMark = lipgloss.NewStyle().Bold(true).Foreground(Rose)
	t.CursorMark = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
	t.InputPrompt = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
	t.EmptyState = lipgloss.NewStyle().Italic(true).Foreground(TextMuted)

	// Lists and editor
	t.ListItem = lipgloss.NewStyle().Foreground(TextPrimary).PaddingLeft(1)
	t.ListSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		Background(SelectionBg).
		PaddingLeft(1)
	t.ListPreview = lipgloss.NewStyle().Foreground(TextMuted).PaddingLeft(3)
	t.DirtyMark = lipgloss.NewStyle().Bold(true).Foreground(Amber)
	t.FieldLabel = lipgloss.NewStyle().Bold(true).Foreground(TextSecondary)

	// Registry
	t.BadgeOn = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Emerald).
		Padding(0, 1)
	t.BadgeOff = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(Overlay).
		Padding(0, 1)
	t.FileName = lipgloss.NewStyle().Foreground(TextPrimary)

	// Overlays
	t.Toast = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(AmberDeep).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Amber).
		Padding(0, 2)
	t.Dialog = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Rose).
		Padding(1, 3).
		Align(lipgloss.Center)
	t.Danger = lipgloss.NewStyle().Bold(true).Foreground(Rose)
	t.Muted = lipgloss.NewStyle().Foreground(TextMuted)
	t.HelpKey = lipgloss.NewStyle().Bold(true).Foreground(TextSecondary)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// GlamourStyle resolves a configured markdown style name. "auto" follows
// the detected background; a terminal without colors gets "notty".
func (t *Theme) GlamourStyle(configured string) string {
	style := strings.ToLower(strings.TrimSpace(configured))
	if style != "" && style != "auto" {
		return style
	}
	if t.ColorProfile == termenv.Ascii {
		return "notty"
	}
	if t.IsDark {
		return "dark"
	}
	return "light"
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns: center pane only
	LayoutMedium                   // 60-100 columns: nav + center
	LayoutWide                     // > 100 columns: nav + center + registry
)
