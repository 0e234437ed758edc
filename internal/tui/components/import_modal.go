package components

import (
	"pdfinbox/internal/keys"
	"pdfinbox/internal/tui/messages"
	"pdfinbox/internal/tui/styles"
	"pdfinbox/internal/tui/views"
	"pdfinbox/pkg/types"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
)

// ImportModal is the popup opened with Enter on a list. For an unmanaged
// record it offers to import it into the managed directory.
type ImportModal struct {
	keys keys.KeyMap

	open    bool
	record  types.FileRecord
	managed bool
	dest    string // managed directory
	dryRun  bool

	busy bool
	err  error
}

func NewImportModal(km keys.KeyMap, managedDir string) *ImportModal {
	return &ImportModal{keys: km, dest: managedDir}
}

// Open shows the popup for rec. Opening an open modal does nothing.
func (m *ImportModal) Open(rec types.FileRecord, managed bool) {
	if m.open {
		return
	}
	m.open = true
	m.record = rec
	m.managed = managed
	m.busy = false
	m.err = nil
}

// Close hides the popup. Closing a closed modal does nothing.
func (m *ImportModal) Close() {
	if !m.open {
		return
	}
	m.open = false
	m.busy = false
	m.err = nil
}

func (m *ImportModal) IsOpen() bool { return m.open }

// Record returns the record the popup addresses.
func (m *ImportModal) Record() types.FileRecord { return m.record }

// Busy reports whether an import is running.
func (m *ImportModal) Busy() bool { return m.busy }

// SetDryRun marks imports as simulated in the hint line.
func (m *ImportModal) SetDryRun(dryRun bool) { m.dryRun = dryRun }

// Fail ends a running import with err and keeps the popup open.
func (m *ImportModal) Fail(err error) {
	m.busy = false
	m.err = err
}

// Err returns the error of the last import attempt.
func (m *ImportModal) Err() error { return m.err }

// Event handles a key while the popup is open. The popup swallows every
// key, so the return value only says whether it acted on it.
func (m *ImportModal) Event(msg tea.KeyMsg) (types.EventState, tea.Cmd) {
	if !m.open || !key.Matches(msg, m.keys.Confirm) {
		return types.NotConsumed, nil
	}
	if m.managed || m.busy || m.record.Placeholder {
		return types.NotConsumed, nil
	}

	m.busy = true
	m.err = nil
	rec := m.record
	return types.Consumed, func() tea.Msg {
		return messages.ImportRequestMsg{Record: rec}
	}
}

// Frame describes the popup for the renderer.
func (m *ImportModal) Frame(width int) views.ModalFrame {
	r := m.record
	f := views.ModalFrame{
		Title: r.Label(),
		Rows: [][2]string{
			{"From", r.Dir},
			{"Size", humanize.IBytes(uint64(max(r.Size, 0)))},
			{"Modified", humanize.Time(r.ModTime)},
		},
		Width: width,
	}

	switch {
	case m.managed:
		f.Title = "Managed: " + r.Label()
		f.Hint = "Already managed · esc close"
	case r.Placeholder:
		f.Hint = "Invalid file name, cannot import · esc close"
	case m.busy:
		f.Hint = "Importing…"
	default:
		f.Title = "Import " + r.Label()
		f.Rows = append(f.Rows, [2]string{"To", m.dest})
		f.Hint = m.keys.Confirm.Help().Key + " import · esc cancel"
		if m.dryRun {
			f.Hint = "[dry run] " + f.Hint
		}
	}
	if m.err != nil {
		f.Error = m.err.Error()
	}
	return f
}

func (m *ImportModal) View(width int, st styles.Styles) string {
	if !m.open {
		return ""
	}
	return views.RenderModal(m.Frame(width), st)
}
