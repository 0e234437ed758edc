package views

import (
	"strings"

	"pdfinbox/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// ModalFrame is the content of the import popup.
type ModalFrame struct {
	Title string
	Rows  [][2]string // Label, value
	Error string
	Hint  string
	Width int // Outer width
}

// RenderModal draws the import popup.
func RenderModal(f ModalFrame, st styles.Styles) string {
	// border 2 + padding 4
	inner := f.Width - 6
	if inner < 10 {
		inner = 10
	}

	var b strings.Builder
	b.WriteString(st.Title.Render(truncate(f.Title, inner)))
	b.WriteString("\n\n")
	for _, row := range f.Rows {
		label := st.Label.Render(row[0])
		value := truncate(row[1], inner-lipgloss.Width(label))
		b.WriteString(label + value + "\n")
	}
	if f.Error != "" {
		b.WriteString("\n" + st.Error.Width(inner).Render(f.Error) + "\n")
	}
	if f.Hint != "" {
		b.WriteString("\n" + st.Help.Render(truncate(f.Hint, inner)))
	}

	return st.Modal.Width(inner + 4).Render(strings.TrimRight(b.String(), "\n"))
}
