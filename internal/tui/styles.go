// Package tui provides the interactive terminal interface for aipster.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"aipster/pkg/reconcile"
)

// Palette. The badge colours match the CLI status colours.
var (
	ColorPrimary   = lipgloss.Color("#2563EB")
	ColorSecondary = lipgloss.Color("#06B6D4")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorError     = lipgloss.Color("#EF4444")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorText      = lipgloss.Color("#F3F4F6")
	ColorBar       = lipgloss.Color("#374151")
)

// StatusColors maps reconcile.Entry.Status values to badge colours.
var StatusColors = map[string]lipgloss.Color{
	"installed":  ColorSuccess,
	"upgradable": ColorWarning,
	"available":  ColorMuted,
}

// Styles groups the lipgloss styles of every screen element.
type Styles struct {
	// Bars
	Header       lipgloss.Style
	TabBar       lipgloss.Style
	TabActive    lipgloss.Style
	TabInactive  lipgloss.Style
	TabSeparator lipgloss.Style
	Footer       lipgloss.Style

	// Body text
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Description lipgloss.Style
	Output      lipgloss.Style

	// Package rows
	Row            lipgloss.Style
	Cursor         lipgloss.Style
	PackageName    lipgloss.Style
	PackageVersion lipgloss.Style

	// Feedback
	Success lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Spinner lipgloss.Style

	InputPrompt lipgloss.Style
	HelpKey     lipgloss.Style
	HelpDesc    lipgloss.Style

	Dialog      lipgloss.Style
	DialogTitle lipgloss.Style
}

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// DefaultStyles returns the dark palette styles.
func DefaultStyles() *Styles {
	bar := lipgloss.NewStyle().Background(ColorBar).Padding(0, 1)
	tab := lipgloss.NewStyle().Padding(0, 2)

	return &Styles{
		Header:       bar.Foreground(ColorText).Bold(true),
		TabBar:       bar,
		TabActive:    tab.Foreground(ColorPrimary).Bold(true).Underline(true),
		TabInactive:  tab.Foreground(ColorMuted),
		TabSeparator: fg(ColorMuted).SetString("|"),
		Footer:       bar.Foreground(ColorMuted),

		Title:       fg(ColorText).Bold(true).MarginBottom(1),
		Subtitle:    fg(ColorSecondary).Bold(true),
		Description: fg(ColorMuted),
		Output:      fg(ColorMuted).PaddingLeft(2),

		Row:            fg(ColorText),
		Cursor:         fg(ColorPrimary).Bold(true),
		PackageName:    fg(ColorText).Bold(true),
		PackageVersion: fg(ColorSuccess),

		Success: fg(ColorSuccess).Bold(true),
		Error:   fg(ColorError).Bold(true),
		Info:    fg(ColorSecondary),
		Spinner: fg(ColorPrimary),

		InputPrompt: fg(ColorPrimary).Bold(true),
		HelpKey:     fg(ColorSecondary).Bold(true),
		HelpDesc:    fg(ColorMuted),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2).
			Width(60),
		DialogTitle: fg(ColorText).Bold(true).MarginBottom(1),
	}
}

// Badge renders text as a white-on-colour label.
func Badge(text string, color lipgloss.Color) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(color).
		Padding(0, 1).
		Render(text)
}

// StatusBadge renders the status of e.
func StatusBadge(e reconcile.Entry) string {
	color, ok := StatusColors[e.Status()]
	if !ok {
		color = ColorMuted
	}
	return Badge(e.Status(), color)
}
