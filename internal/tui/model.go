package tui

import (
	"context"
	"fmt"
	"path/filepath"

	"pdfinbox/internal/config"
	"pdfinbox/internal/history"
	"pdfinbox/internal/keys"
	"pdfinbox/internal/loader"
	"pdfinbox/internal/log"
	"pdfinbox/internal/organize"
	"pdfinbox/internal/tui/components"
	"pdfinbox/internal/tui/messages"
	"pdfinbox/internal/tui/styles"
	"pdfinbox/internal/tui/views"
	"pdfinbox/internal/watch"
	"pdfinbox/pkg/types"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Minimum terminal size for the full layout.
const (
	MinWidth  = 52
	MinHeight = 28
)

// leftShare is the percentage of the width given to the two lists.
const leftShare = 60

// HistoryLookup finds how a managed file was imported.
type HistoryLookup interface {
	Lookup(ctx context.Context, name string) (history.Entry, bool, error)
}

// ChangeSource delivers directory change notifications.
type ChangeSource interface {
	Changes() <-chan watch.Change
}

// Option configures a Model.
type Option func(*Model)

// WithContext sets the context scans and imports run under.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// WithLoader replaces the directory loader.
func WithLoader(l loader.FileLoader) Option {
	return func(m *Model) { m.loader = l }
}

// WithOrganizer replaces the import engine.
func WithOrganizer(o organize.Organizer) Option {
	return func(m *Model) { m.organizer = o }
}

// WithHistory enables import history in the detail pane.
func WithHistory(h HistoryLookup) Option {
	return func(m *Model) { m.history = h }
}

// WithWatcher reloads a list whenever its directory changes.
func WithWatcher(w ChangeSource) Option {
	return func(m *Model) { m.watcher = w }
}

// Model is the root of the TUI.
type Model struct {
	ctx context.Context
	cfg *config.Config

	keys     keys.KeyMap
	st       styles.Styles
	help     help.Model
	showHelp bool

	router    *Router
	search    *components.SearchBar
	managed   *components.ListPane
	unmanaged *components.ListPane
	detail    *components.DetailPane
	modal     *components.ImportModal
	status    *components.StatusBar

	loader    loader.FileLoader
	organizer organize.Organizer
	history   HistoryLookup
	watcher   ChangeSource

	query         string
	width, height int
	bodyH         int
}

// New builds the TUI for cfg.
func New(cfg *config.Config, opts ...Option) *Model {
	m := &Model{
		ctx:  context.Background(),
		cfg:  cfg,
		keys: keys.New(cfg.Keys),
		st:   styles.New(cfg.Theme),
		help: help.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.loader == nil {
		m.loader = loader.New()
	}
	if m.organizer == nil {
		m.organizer = organize.CurrentOrganizerFactory(cfg)
	}

	m.search = components.NewSearchBar(m.keys)
	m.managed = components.NewListPane(types.FocusManaged, "Managed", cfg.Directories.Managed, m.keys, m.loader)
	m.unmanaged = components.NewListPane(types.FocusUnmanaged, "Unmanaged", cfg.Directories.Unmanaged, m.keys, m.loader)
	m.detail = components.NewDetailPane(m.keys, m.st)
	m.modal = components.NewImportModal(m.keys, cfg.Directories.Managed)
	m.modal.SetDryRun(cfg.Settings.DryRun)
	m.status = components.NewStatusBar()

	m.router = NewRouter(m.keys, m.search, m.managed, m.unmanaged, m.detail, m.modal)
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.managed.RequestScan(m.ctx),
		m.unmanaged.RequestScan(m.ctx),
		m.search.Focus(),
		m.waitForChange(),
	)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case spinner.TickMsg:
		return m, tea.Batch(m.managed.UpdateSpinner(msg), m.unmanaged.UpdateSpinner(msg))

	case messages.ScanResultMsg:
		return m, m.applyScan(msg)

	case messages.ReloadRequestMsg:
		return m, m.reload()

	case messages.ImportRequestMsg:
		return m, m.runImport(msg.Record)

	case messages.ImportDoneMsg:
		return m, m.finishImport(msg)

	case messages.DirChangedMsg:
		var cmd tea.Cmd
		if p := m.paneForDir(msg.Change.Dir); p != nil {
			log.LogWithFields(log.F("dir", msg.Change.Dir), log.F("files", len(msg.Change.Names))).Debug("directory changed")
			cmd = p.RequestScan(m.ctx)
		}
		return m, tea.Batch(cmd, m.waitForChange())

	case messages.WatcherClosedMsg:
		m.watcher = nil
		return m, nil

	case messages.HistoryMsg:
		if msg.Err != nil {
			log.LogWithError(msg.Err).Warn("history lookup failed")
			return m, nil
		}
		m.detail.SetHistory(msg.Name, msg.Entry, msg.Found)
		return m, nil

	case messages.NoticeMsg:
		return m, m.status.Notify(msg.Text, msg.IsError)

	case messages.ClearNoticeMsg:
		m.status.Clear(msg.ID)
		return m, nil

	case messages.ErrorMsg:
		log.LogWithError(msg.Err).Error("tui error")
		return m, m.status.Notify(msg.Err.Error(), true)
	}

	return m, m.search.Update(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state, cmd := m.router.Event(msg)
	if m.router.Terminating() {
		return m, tea.Quit
	}
	if !state.IsConsumed() && key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		m.layout()
	}
	return m, tea.Batch(cmd, m.sync())
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.modal.IsOpen() || msg.Action != tea.MouseActionPress {
		return
	}
	var dir types.ScrollType
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		dir = types.ScrollUp
	case tea.MouseButtonWheelDown:
		dir = types.ScrollDown
	default:
		return
	}
	if p := m.paneAt(msg.X, msg.Y); p != nil {
		p.Scroll(dir)
	}
}

// sync pushes router and search state into the panes after a key.
func (m *Model) sync() tea.Cmd {
	var cmds []tea.Cmd

	if m.router.Focus() == types.FocusSearch {
		if !m.search.Focused() {
			cmds = append(cmds, m.search.Focus())
		}
	} else if m.search.Focused() {
		m.search.Blur()
	}

	if q := m.search.Query(); q != m.query {
		m.query = q
		for _, p := range []*components.ListPane{m.managed, m.unmanaged} {
			if err := p.SetFilter(q); err != nil {
				cmds = append(cmds, m.status.Notify("Invalid pattern: "+err.Error(), true))
				break
			}
		}
	}

	cmds = append(cmds, m.syncDetail())
	return tea.Batch(cmds...)
}

func (m *Model) syncDetail() tea.Cmd {
	list := m.lastList()
	rec, ok := list.Selected()
	if !ok {
		m.detail.ClearRecord()
		return nil
	}
	managed := list.ID() == types.FocusManaged
	if !m.detail.SetRecord(rec, managed) || !managed || m.history == nil {
		return nil
	}

	ctx, h, name := m.ctx, m.history, rec.Name
	return func() tea.Msg {
		e, found, err := h.Lookup(ctx, name)
		return messages.HistoryMsg{Name: name, Entry: e, Found: found, Err: err}
	}
}

func (m *Model) applyScan(msg messages.ScanResultMsg) tea.Cmd {
	p := m.pane(msg.Pane)
	if p == nil {
		return nil
	}
	current, next := p.Apply(m.ctx, msg)
	if !current {
		return nil
	}

	var notice tea.Cmd
	if msg.Err != nil {
		log.LogWithError(msg.Err).With(log.F("pane", msg.Pane.String())).Warn("scan failed")
		notice = m.status.Notify(fmt.Sprintf("%s: %v", msg.Pane, msg.Err), true)
	} else {
		log.LogWithFields(log.F("pane", msg.Pane.String()), log.F("count", len(msg.Records))).Debug("scan applied")
	}
	return tea.Batch(next, notice, m.syncDetail())
}

func (m *Model) reload() tea.Cmd {
	return tea.Batch(m.managed.RequestScan(m.ctx), m.unmanaged.RequestScan(m.ctx))
}

func (m *Model) runImport(rec types.FileRecord) tea.Cmd {
	ctx, org, dest := m.ctx, m.organizer, m.cfg.Directories.Managed
	return func() tea.Msg {
		result, err := org.Import(ctx, rec, dest)
		result.Record = rec
		return messages.ImportDoneMsg{Result: result, Err: err}
	}
}

// finishImport reports an import result. The modal is only touched when it
// is still waiting on that record; a result for a modal the user already
// dismissed only posts a notice.
func (m *Model) finishImport(msg messages.ImportDoneMsg) tea.Cmd {
	name := msg.Result.Record.Label()
	pending := m.awaitingImport(msg.Result.Record)
	if msg.Err != nil {
		log.LogWithError(msg.Err).With(log.F("file", name)).Error("import failed")
		if pending {
			m.modal.Fail(msg.Err)
		}
		return tea.Batch(m.status.Notify(fmt.Sprintf("Import of %s failed: %v", name, msg.Err), true), m.reload())
	}

	if pending {
		m.router.CloseModal()
	}

	var text string
	switch r := msg.Result; {
	case r.Skipped:
		text = fmt.Sprintf("Skipped %s: already managed", name)
	case r.DryRun:
		text = fmt.Sprintf("[dry run] would import %s as %s", name, filepath.Base(r.DestinationPath))
	default:
		text = fmt.Sprintf("Imported %s as %s", name, filepath.Base(r.DestinationPath))
		log.LogWithFields(log.F("source", r.SourcePath), log.F("destination", r.DestinationPath)).Info("imported")
	}
	return tea.Batch(m.status.Notify(text, false), m.reload(), m.sync())
}

func (m *Model) awaitingImport(rec types.FileRecord) bool {
	if !m.modal.IsOpen() || !m.modal.Busy() {
		return false
	}
	open := m.modal.Record()
	return open.Name == rec.Name && open.Dir == rec.Dir
}

func (m *Model) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	ch := m.watcher.Changes()
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return messages.WatcherClosedMsg{}
		}
		return messages.DirChangedMsg{Change: c}
	}
}

func (m *Model) pane(f types.Focus) *components.ListPane {
	switch f {
	case types.FocusManaged:
		return m.managed
	case types.FocusUnmanaged:
		return m.unmanaged
	}
	return nil
}

func (m *Model) lastList() *components.ListPane {
	if m.router.LastList() == types.FocusUnmanaged {
		return m.unmanaged
	}
	return m.managed
}

func (m *Model) paneForDir(dir string) *components.ListPane {
	dir = filepath.Clean(dir)
	for _, p := range []*components.ListPane{m.managed, m.unmanaged} {
		if filepath.Clean(p.Dir()) == dir {
			return p
		}
	}
	return nil
}

func (m *Model) helpView() string {
	m.help.ShowAll = m.showHelp
	return m.help.View(m.keys)
}

// layout sizes every pane for the current window.
func (m *Model) layout() {
	m.help.Width = m.width
	footerH := 1 + lipgloss.Height(m.helpView())

	m.bodyH = max(m.height-components.SearchHeight-footerH, 0)
	leftW := m.width * leftShare / 100
	managedH := m.bodyH / 2

	m.search.SetWidth(m.width)
	m.managed.SetSize(leftW, managedH)
	m.unmanaged.SetSize(leftW, m.bodyH-managedH)
	m.detail.SetSize(m.width-leftW, m.bodyH)
}

func (m *Model) paneAt(x, y int) *components.ListPane {
	y -= components.SearchHeight
	if y < 0 || y >= m.bodyH || x >= m.width*leftShare/100 {
		return nil
	}
	if y < m.bodyH/2 {
		return m.managed
	}
	return m.unmanaged
}

// View implements tea.Model
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}
	if m.width < MinWidth || m.height < MinHeight {
		return views.RenderTooSmall(m.width, m.height, MinWidth, MinHeight, m.st)
	}

	focus := m.router.Focus()
	return views.RenderMain(views.Screen{
		Search:    m.search.View(focus == types.FocusSearch, m.st),
		Managed:   m.managed.View(focus == types.FocusManaged, m.st),
		Unmanaged: m.unmanaged.View(focus == types.FocusUnmanaged, m.st),
		Detail:    m.detail.View(focus == types.FocusDetail),
		Footer:    views.RenderFooter(m.status.View(m.st), m.helpView(), m.width),
		Modal:     m.modal.View(min(m.width-4, 72), m.st),
		Width:     m.width,
		BodyH:     m.bodyH,
	})
}

// Focus returns the focused pane.
func (m *Model) Focus() types.Focus { return m.router.Focus() }

// ShowHelp reports whether the full help is shown.
func (m *Model) ShowHelp() bool { return m.showHelp }

// Managed returns the managed list pane.
func (m *Model) Managed() *components.ListPane { return m.managed }

// Unmanaged returns the unmanaged list pane.
func (m *Model) Unmanaged() *components.ListPane { return m.unmanaged }

// Modal returns the import popup.
func (m *Model) Modal() *components.ImportModal { return m.modal }

// Detail returns the detail pane.
func (m *Model) Detail() *components.DetailPane { return m.detail }

// Search returns the search bar.
func (m *Model) Search() *components.SearchBar { return m.search }

// Status returns the status bar.
func (m *Model) Status() *components.StatusBar { return m.status }
