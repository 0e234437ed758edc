// Package views holds the pure rendering functions of the TUI. Every
// function takes values and returns a string; none of them mutate state.
package views

import (
	"fmt"
	"strings"

	"pdfinbox/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Screen is the rendered pieces of the main layout.
type Screen struct {
	Search    string
	Managed   string
	Unmanaged string
	Detail    string
	Footer    string
	Modal     string // Non-empty while the import popup is open
	Width     int
	BodyH     int
}

// RenderMain stacks the search bar, the two lists beside the detail pane
// and the footer. An open modal is centered over the body.
func RenderMain(s Screen) string {
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, s.Managed, s.Unmanaged),
		s.Detail,
	)
	if s.Modal != "" {
		body = lipgloss.Place(s.Width, s.BodyH, lipgloss.Center, lipgloss.Center, s.Modal)
	}
	return lipgloss.JoinVertical(lipgloss.Left, s.Search, body, s.Footer)
}

// RenderTooSmall explains that the terminal is below the minimum size.
func RenderTooSmall(width, height, minWidth, minHeight int, st styles.Styles) string {
	msg := strings.Join([]string{
		st.Error.Render("Terminal too small"),
		st.Muted.Render(fmt.Sprintf("%dx%d, need at least %dx%d", width, height, minWidth, minHeight)),
	}, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
}

// RenderFooter joins the status line and the help line.
func RenderFooter(status, help string, width int) string {
	if status == "" {
		status = " "
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		truncate(status, width),
		help,
	)
}
