// Package tui provides an interactive results browser for search output.
package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains the pre-configured lipgloss styles for the browser.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Score    lipgloss.Style
	Help     lipgloss.Style
	Body     lipgloss.Style
}

// DefaultStyles returns the default colour scheme.
func DefaultStyles() *Styles {
	var (
		primary    = lipgloss.Color("#7C3AED")
		secondary  = lipgloss.Color("#06B6D4")
		foreground = lipgloss.Color("#CDD6F4")
		muted      = lipgloss.Color("#6C7086")
		success    = lipgloss.Color("#A6E3A1")
		border     = lipgloss.Color("#45475A")
	)

	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(secondary),

		Normal: lipgloss.NewStyle().
			Foreground(foreground),

		Muted: lipgloss.NewStyle().
			Foreground(muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(foreground).
			Background(primary),

		Score: lipgloss.NewStyle().
			Foreground(success),

		Help: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),

		Body: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
	}
}
