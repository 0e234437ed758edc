package components

import (
	"strings"
	"time"

	"pdfinbox/internal/history"
	"pdfinbox/internal/keys"
	"pdfinbox/internal/tui/styles"
	"pdfinbox/pkg/types"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// DetailPane describes the record selected in the last focused list.
type DetailPane struct {
	keys keys.KeyMap
	vp   viewport.Model

	record  types.FileRecord
	has     bool
	managed bool

	hist      history.Entry
	histFound bool
	histName  string // name the history entry belongs to

	width, height int
	st            styles.Styles
}

func NewDetailPane(km keys.KeyMap, st styles.Styles) *DetailPane {
	return &DetailPane{
		keys: km,
		vp:   viewport.New(0, 0),
		st:   st,
	}
}

// Event scrolls the description.
func (d *DetailPane) Event(msg tea.KeyMsg) (types.EventState, tea.Cmd) {
	switch {
	case key.Matches(msg, d.keys.ScrollUp):
		if d.vp.AtTop() {
			return types.NotConsumed, nil
		}
		d.vp.LineUp(1)
		return types.Consumed, nil
	case key.Matches(msg, d.keys.ScrollDown):
		if d.vp.AtBottom() {
			return types.NotConsumed, nil
		}
		d.vp.LineDown(1)
		return types.Consumed, nil
	}
	return types.NotConsumed, nil
}

// SetRecord shows rec. It reports whether the shown record changed.
func (d *DetailPane) SetRecord(rec types.FileRecord, managed bool) bool {
	if d.has && d.managed == managed && d.record == rec {
		return false
	}
	d.record, d.has, d.managed = rec, true, managed
	if d.histName != rec.Name {
		d.hist, d.histFound, d.histName = history.Entry{}, false, ""
	}
	d.refresh()
	d.vp.GotoTop()
	return true
}

// ClearRecord shows the empty state.
func (d *DetailPane) ClearRecord() {
	if !d.has {
		return
	}
	d.record, d.has = types.FileRecord{}, false
	d.hist, d.histFound, d.histName = history.Entry{}, false, ""
	d.refresh()
}

// Record returns the described record.
func (d *DetailPane) Record() (types.FileRecord, bool) { return d.record, d.has }

// SetHistory attaches the import history of name. It is ignored when the
// selection moved on to another file meanwhile.
func (d *DetailPane) SetHistory(name string, e history.Entry, found bool) {
	if !d.has || d.record.Name != name {
		return
	}
	d.hist, d.histFound, d.histName = e, found, name
	d.refresh()
}

func (d *DetailPane) SetSize(width, height int) {
	d.width, d.height = width, height
	d.vp.Width = max(width-4, 0)
	d.vp.Height = max(height-3, 0)
	d.refresh()
}

func (d *DetailPane) refresh() {
	d.vp.SetContent(d.content())
}

func (d *DetailPane) content() string {
	if !d.has {
		return d.st.Muted.Render("Nothing selected")
	}
	r := d.record

	where := "unmanaged"
	if d.managed {
		where = "managed"
	}
	rows := [][2]string{
		{"Name", r.Label()},
		{"Location", where},
		{"Directory", r.Dir},
		{"Size", humanize.IBytes(uint64(max(r.Size, 0)))},
		{"Modified", formatTime(r.ModTime)},
	}
	if d.managed {
		switch {
		case d.histFound:
			rows = append(rows,
				[2]string{"Imported", formatTime(d.hist.ImportedAt)},
				[2]string{"From", d.hist.Source},
			)
		case d.histName == r.Name:
			rows = append(rows, [2]string{"Imported", "not by pdfinbox"})
		}
	}

	width := max(d.vp.Width, 1)
	var b strings.Builder
	for _, row := range rows {
		label := d.st.Label.Render(row[0])
		value := lipgloss.NewStyle().Width(max(width-lipgloss.Width(label), 1)).Render(row[1])
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label, value))
		b.WriteByte('\n')
	}
	if r.Placeholder {
		b.WriteString("\n" + d.st.Error.Render("The file name is not valid UTF-8 and cannot be opened."))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Format("2006-01-02 15:04") + " (" + humanize.Time(t) + ")"
}

func (d *DetailPane) View(focused bool) string {
	style := d.st.Pane
	if focused {
		style = d.st.PaneFocused
	}
	innerW, innerH := d.width-2, d.height-2
	if innerW <= 0 || innerH <= 0 {
		return ""
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		d.st.Title.Render(" Details"),
		lipgloss.NewStyle().PaddingLeft(1).Render(d.vp.View()),
	)
	return style.Width(innerW).Height(innerH).MaxHeight(d.height).Render(body)
}
