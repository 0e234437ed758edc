package components

import (
	"context"
	"fmt"
	"strings"

	"pdfinbox/internal/keys"
	"pdfinbox/internal/loader"
	"pdfinbox/internal/log"
	"pdfinbox/internal/scroll"
	"pdfinbox/internal/tui/messages"
	"pdfinbox/internal/tui/styles"
	"pdfinbox/internal/tui/views"
	"pdfinbox/pkg/types"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gobwas/glob"
)

// ListPane is one scrollable list of PDFs: the managed or the unmanaged
// directory. It owns its records, its selection and its viewport.
type ListPane struct {
	id     types.Focus
	title  string
	dir    string
	keys   keys.KeyMap
	loader loader.FileLoader

	records []types.FileRecord // last successful scan
	shown   []types.FileRecord // records passing the filter
	query   string
	filter  glob.Glob

	selection int
	scroll    scroll.VerticalScroll

	width, height int

	// scan state
	loading bool
	pending bool
	gen     uint64
	scanErr error
	spinner spinner.Model
}

// NewListPane creates a pane listing dir. id identifies the pane in scan
// results and must be FocusManaged or FocusUnmanaged.
func NewListPane(id types.Focus, title, dir string, km keys.KeyMap, l loader.FileLoader) *ListPane {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return &ListPane{
		id:      id,
		title:   title,
		dir:     dir,
		keys:    km,
		loader:  l,
		spinner: s,
	}
}

// ID returns the pane identity.
func (p *ListPane) ID() types.Focus { return p.id }

// Dir returns the scanned directory.
func (p *ListPane) Dir() string { return p.dir }

// Len returns the number of displayed records.
func (p *ListPane) Len() int { return len(p.shown) }

// Records returns the displayed records.
func (p *ListPane) Records() []types.FileRecord { return p.shown }

// Selection returns the selected index. It is meaningless when Len is 0.
func (p *ListPane) Selection() int { return p.selection }

// Top returns the first visible row.
func (p *ListPane) Top() int { return p.scroll.Top() }

// Loading reports whether a scan is in flight.
func (p *ListPane) Loading() bool { return p.loading }

// ScanErr returns the error of the last scan, if it failed.
func (p *ListPane) ScanErr() error { return p.scanErr }

// Selected returns the selected record, or false when the list is empty.
func (p *ListPane) Selected() (types.FileRecord, bool) {
	if len(p.shown) == 0 {
		return types.FileRecord{}, false
	}
	return p.shown[p.selection], true
}

// VisibleHeight is the number of rows available to records.
func (p *ListPane) VisibleHeight() int {
	if h := p.height - views.ListChrome; h > 0 {
		return h
	}
	return 0
}

// SetSize sets the outer size of the pane.
func (p *ListPane) SetSize(width, height int) {
	p.width, p.height = width, height
	p.syncViewport()
}

// Event handles a key while the pane has focus.
func (p *ListPane) Event(msg tea.KeyMsg) (types.EventState, tea.Cmd) {
	switch {
	case key.Matches(msg, p.keys.ScrollUp):
		return types.StateFrom(p.MoveSelection(types.ScrollUp)), nil
	case key.Matches(msg, p.keys.ScrollDown):
		return types.StateFrom(p.MoveSelection(types.ScrollDown)), nil
	}
	return types.NotConsumed, nil
}

// MoveSelection moves the selection one row and reports whether it
// changed. A move past the last row, or any move on an empty list, is
// rejected.
func (p *ListPane) MoveSelection(dir types.ScrollType) bool {
	candidate := p.selection
	switch dir {
	case types.ScrollUp:
		if candidate > 0 {
			candidate--
		}
	case types.ScrollDown:
		candidate++
	}

	if candidate > len(p.shown)-1 {
		return false
	}
	changed := candidate != p.selection
	p.selection = candidate
	p.syncViewport()
	return changed
}

// Scroll pans the viewport without moving the selection. The pan stops
// where the selected row would leave the window.
func (p *ListPane) Scroll(dir types.ScrollType) bool {
	old := p.scroll.Top()
	if !p.scroll.MoveTop(dir) {
		return false
	}
	p.syncViewport()
	return p.scroll.Top() != old
}

func (p *ListPane) syncViewport() {
	p.scroll.Update(p.selection, len(p.shown), p.VisibleHeight())
}

// SetFilter narrows the displayed records to names matching query. A
// query without glob metacharacters matches as a case-insensitive
// substring.
func (p *ListPane) SetFilter(query string) error {
	g, err := compileQuery(query)
	if err != nil {
		return err
	}
	p.query = query
	p.filter = g
	p.applyFilter()
	return nil
}

// Query returns the active filter query.
func (p *ListPane) Query() string { return p.query }

func compileQuery(query string) (glob.Glob, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}
	if !strings.ContainsAny(q, "*?[{") {
		q = "*" + q + "*"
	}
	return glob.Compile(q)
}

func (p *ListPane) applyFilter() {
	if p.filter == nil {
		p.shown = p.records
	} else {
		p.shown = make([]types.FileRecord, 0, len(p.records))
		for _, r := range p.records {
			if p.filter.Match(strings.ToLower(r.Name)) {
				p.shown = append(p.shown, r)
			}
		}
	}

	if p.selection > len(p.shown)-1 {
		p.selection = len(p.shown) - 1
	}
	if p.selection < 0 {
		p.selection = 0
	}
	p.syncViewport()
}

// RequestScan starts a scan of the pane's directory. A request made while
// a scan is running is folded into a single follow-up scan.
func (p *ListPane) RequestScan(ctx context.Context) tea.Cmd {
	if p.loading {
		p.pending = true
		return nil
	}
	p.loading = true
	p.gen++

	id, gen, dir, l := p.id, p.gen, p.dir, p.loader
	scan := func() tea.Msg {
		records, err := l.Load(ctx, dir)
		return messages.ScanResultMsg{Pane: id, Gen: gen, Records: records, Err: err}
	}
	return tea.Batch(scan, p.spinner.Tick)
}

// Apply installs a scan result. It reports whether the result was current
// and returns the follow-up scan when one was requested meanwhile. A
// failed scan keeps the previous records.
func (p *ListPane) Apply(ctx context.Context, msg messages.ScanResultMsg) (bool, tea.Cmd) {
	if msg.Pane != p.id || msg.Gen != p.gen {
		log.LogWithFields(log.F("pane", p.id.String()), log.F("gen", msg.Gen)).Debug("dropping stale scan")
		return false, nil
	}
	p.loading = false

	if msg.Err != nil {
		p.scanErr = msg.Err
	} else {
		p.scanErr = nil
		p.records = msg.Records
		p.selection = 0
		p.applyFilter()
	}

	var next tea.Cmd
	if p.pending {
		p.pending = false
		next = p.RequestScan(ctx)
	}
	return true, next
}

// UpdateSpinner advances the loading indicator.
func (p *ListPane) UpdateSpinner(msg spinner.TickMsg) tea.Cmd {
	if !p.loading {
		return nil
	}
	var cmd tea.Cmd
	p.spinner, cmd = p.spinner.Update(msg)
	return cmd
}

// Frame captures what the renderer needs.
func (p *ListPane) Frame(focused bool) views.ListFrame {
	f := views.ListFrame{
		Title:     p.title,
		Highlight: -1,
		Focused:   focused,
		Width:     p.width,
		Height:    p.height,
		Empty:     "No PDF files",
	}

	top, h := p.scroll.Top(), p.VisibleHeight()
	for i := top; i < len(p.shown) && i < top+h; i++ {
		f.Labels = append(f.Labels, p.shown[i].Label())
		if i == p.selection {
			f.Highlight = i - top
		}
	}

	switch {
	case p.loading:
		f.Status = p.spinner.View()
	case p.scanErr != nil:
		f.Status = "scan failed"
		f.StatusIsError = true
	case len(p.shown) > 0:
		f.Status = fmt.Sprintf("%d/%d", p.selection+1, len(p.shown))
	}
	if p.filter != nil && len(p.records) != len(p.shown) {
		f.Empty = "No match for " + p.query
	}
	return f
}

// View renders the pane.
func (p *ListPane) View(focused bool, st styles.Styles) string {
	return views.RenderList(p.Frame(focused), st)
}
