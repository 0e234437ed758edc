package styles

import (
	"pdfinbox/internal/config"

	"github.com/charmbracelet/lipgloss"
)

type palette struct {
	primary     lipgloss.Color
	focus       lipgloss.Color
	border      lipgloss.Color
	highlightBg lipgloss.Color
	highlightFg lipgloss.Color
	success     lipgloss.Color
	err         lipgloss.Color
	muted       lipgloss.Color
}

// paletteOf resolves theme colors, using the default theme for any color
// left empty.
func paletteOf(t config.Theme) palette {
	d := config.GetTheme("default")
	pick := func(v, fallback string) lipgloss.Color {
		if v == "" {
			return lipgloss.Color(fallback)
		}
		return lipgloss.Color(v)
	}
	return palette{
		primary:     pick(t.Primary, d.Primary),
		focus:       pick(t.Focus, d.Focus),
		border:      pick(t.Border, d.Border),
		highlightBg: pick(t.HighlightBg, d.HighlightBg),
		highlightFg: pick(t.HighlightFg, d.HighlightFg),
		success:     pick(t.Success, d.Success),
		err:         pick(t.Error, d.Error),
		muted:       pick(t.Muted, d.Muted),
	}
}
