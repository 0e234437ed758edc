package views

import (
	"strings"

	"pdfinbox/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// ListFrame is everything needed to draw one list pane. It is a value
// snapshot, so rendering cannot reach back into pane state.
type ListFrame struct {
	Title         string
	Labels        []string // Rows inside the viewport, top first
	Highlight     int      // Index into Labels of the selected row, -1 for none
	Focused       bool
	Status        string // Right side of the title line
	StatusIsError bool
	Empty         string // Shown when Labels is empty
	Width         int    // Outer width including the border
	Height        int    // Outer height including the border
}

// ListChrome is the number of rows a list pane spends on its border and
// title line.
const ListChrome = 3

// RenderList draws f inside a rounded border.
func RenderList(f ListFrame, st styles.Styles) string {
	innerW := f.Width - 2
	innerH := f.Height - 2
	if innerW <= 0 || innerH <= 0 {
		return ""
	}

	lines := make([]string, 0, innerH)
	lines = append(lines, titleLine(f, innerW, st))

	if len(f.Labels) == 0 && f.Empty != "" {
		lines = append(lines, st.Muted.Render(truncate(f.Empty, innerW)))
	}
	for i, label := range f.Labels {
		if len(lines) == innerH {
			break
		}
		text := pad(truncate(label, innerW), innerW)
		if i == f.Highlight {
			lines = append(lines, st.Selected.Render(text))
		} else {
			lines = append(lines, st.Unselected.Render(text))
		}
	}

	border := st.Pane
	if f.Focused {
		border = st.PaneFocused
	}
	return border.
		Width(innerW).
		Height(innerH).
		MaxHeight(f.Height).
		Render(strings.Join(lines, "\n"))
}

func titleLine(f ListFrame, width int, st styles.Styles) string {
	title := truncate(f.Title, width)
	status := f.Status
	gap := width - lipgloss.Width(title) - lipgloss.Width(status) - 1
	if status == "" || gap < 0 {
		return st.Title.Render(title)
	}

	statusStyle := st.Muted
	if f.StatusIsError {
		statusStyle = st.Error
	}
	return st.Title.Render(title) + strings.Repeat(" ", gap+1) + statusStyle.Render(status)
}

func truncate(s string, width int) string {
	return ansi.Truncate(s, width, "…")
}

func pad(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
