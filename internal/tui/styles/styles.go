// Package styles turns a configured theme into lipgloss styles.
package styles

import (
	"pdfinbox/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Styles defines the core UI styles
type Styles struct {
	Pane        lipgloss.Style
	PaneFocused lipgloss.Style
	Title       lipgloss.Style
	Selected    lipgloss.Style
	Unselected  lipgloss.Style
	Muted       lipgloss.Style
	Label       lipgloss.Style
	Error       lipgloss.Style
	Success     lipgloss.Style
	Help        lipgloss.Style
	Modal       lipgloss.Style
}

// New builds the styles for theme.
func New(theme config.Theme) Styles {
	p := paletteOf(theme)

	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.border)

	return Styles{
		Pane:        pane,
		PaneFocused: pane.BorderForeground(p.focus),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary),
		Selected: lipgloss.NewStyle().
			Foreground(p.highlightFg).
			Background(p.highlightBg).
			Bold(true),
		Unselected: lipgloss.NewStyle(),
		Muted: lipgloss.NewStyle().
			Foreground(p.muted),
		Label: lipgloss.NewStyle().
			Foreground(p.primary).
			Width(10),
		Error: lipgloss.NewStyle().
			Foreground(p.err),
		Success: lipgloss.NewStyle().
			Foreground(p.success),
		Help: lipgloss.NewStyle().
			Foreground(p.muted),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(p.focus).
			Padding(1, 2),
	}
}

// Default returns the styles of the default theme.
func Default() Styles {
	return New(config.GetTheme("default"))
}
