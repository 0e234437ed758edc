package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pdfinbox/internal/config"
	"pdfinbox/internal/history"
	"pdfinbox/internal/loader"
	"pdfinbox/internal/organize"
	"pdfinbox/internal/tui/messages"
	"pdfinbox/internal/watch"
	"pdfinbox/pkg/testutils"
	"pdfinbox/pkg/types"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	managedDir   = "/inbox/papers"
	unmanagedDir = "/inbox/downloads"
)

type fakeOrganizer struct {
	imported []types.FileRecord
	err      error
}

func (f *fakeOrganizer) SetConfig(*config.Config)      {}
func (f *fakeOrganizer) SetDryRun(bool)                {}
func (f *fakeOrganizer) SetRecorder(organize.Recorder) {}
func (f *fakeOrganizer) MoveFile(string, string) error { return nil }

func (f *fakeOrganizer) Import(_ context.Context, rec types.FileRecord, dir string) (types.ImportResult, error) {
	if f.err != nil {
		return types.ImportResult{Record: rec}, f.err
	}
	f.imported = append(f.imported, rec)
	return types.ImportResult{
		Record:          rec,
		SourcePath:      rec.Path(),
		DestinationPath: filepath.Join(dir, rec.Name),
		Moved:           true,
	}, nil
}

type fakeHistory struct {
	entries map[string]history.Entry
}

func (f fakeHistory) Lookup(_ context.Context, name string) (history.Entry, bool, error) {
	e, ok := f.entries[name]
	return e, ok, nil
}

type fakeChanges chan watch.Change

func (f fakeChanges) Changes() <-chan watch.Change { return f }

func records(dir string, names ...string) []types.FileRecord {
	out := make([]types.FileRecord, 0, len(names))
	for _, n := range names {
		out = append(out, types.FileRecord{Name: n, Dir: dir, Size: 2048, ModTime: time.Now()})
	}
	return out
}

func testConfig() *config.Config {
	cfg := config.New()
	cfg.Directories.Managed = managedDir
	cfg.Directories.Unmanaged = unmanagedDir
	return cfg
}

// newTestModel returns a sized model whose initial scans have completed
// with the given names.
func newTestModel(t *testing.T, managed, unmanaged []string, opts ...Option) *Model {
	t.Helper()

	noLoad := loader.LoadFunc(func(context.Context, string) ([]types.FileRecord, error) {
		t.Fatal("scans are delivered by the test")
		return nil, nil
	})
	opts = append([]Option{WithLoader(noLoad), WithOrganizer(&fakeOrganizer{})}, opts...)

	m := New(testConfig(), opts...)
	m.Status().SetTTL(0)
	require.NotNil(t, m.Init())

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Update(messages.ScanResultMsg{Pane: types.FocusManaged, Gen: 1, Records: records(managedDir, managed...)})
	m.Update(messages.ScanResultMsg{Pane: types.FocusUnmanaged, Gen: 1, Records: records(unmanagedDir, unmanaged...)})
	return m
}

func send(m *Model, keys ...string) tea.Cmd {
	var last tea.Cmd
	for _, k := range keys {
		_, last = m.Update(press(k))
	}
	return last
}

// run executes cmd and every command it batches. It must only be used on
// commands that return at once.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestModelInitialization(t *testing.T) {
	m := newTestModel(t, []string{"a.pdf", "b.pdf"}, []string{"c.pdf"})

	assert.Equal(t, types.FocusSearch, m.Focus())
	assert.True(t, m.Search().Focused())
	assert.Equal(t, 2, m.Managed().Len())
	assert.Equal(t, 1, m.Unmanaged().Len())
	assert.False(t, m.Managed().Loading())

	rec, ok := m.Detail().Record()
	require.True(t, ok)
	assert.Equal(t, "a.pdf", rec.Name)
}

func TestModelNavigation(t *testing.T) {
	m := newTestModel(t, []string{"A.pdf", "B.pdf", "C.pdf"}, []string{"x.pdf", "y.pdf"})

	send(m, "tab")
	assert.Equal(t, types.FocusManaged, m.Focus())
	assert.False(t, m.Search().Focused())

	send(m, "j", "down")
	assert.Equal(t, 2, m.Managed().Selection())
	send(m, "down")
	assert.Equal(t, 2, m.Managed().Selection(), "down at the last row is rejected")

	send(m, "tab", "j")
	assert.Equal(t, types.FocusUnmanaged, m.Focus())
	assert.Equal(t, 1, m.Unmanaged().Selection())

	rec, _ := m.Detail().Record()
	assert.Equal(t, "y.pdf", rec.Name, "detail follows the last focused list")

	send(m, "right")
	assert.Equal(t, types.FocusDetail, m.Focus())
	rec, _ = m.Detail().Record()
	assert.Equal(t, "y.pdf", rec.Name)

	send(m, "tab")
	assert.Equal(t, types.FocusSearch, m.Focus())
	assert.True(t, m.Search().Focused())
}

func TestModelEmptyLists(t *testing.T) {
	m := newTestModel(t, nil, nil)

	assert.NotPanics(t, func() {
		send(m, "tab", "j", "k", "down", "enter")
	})
	assert.Equal(t, types.FocusManaged, m.Focus())
	assert.False(t, m.Modal().IsOpen())

	_, ok := m.Detail().Record()
	assert.False(t, ok)
}

func TestModelModal(t *testing.T) {
	t.Run("enter on unmanaged then esc focuses managed", func(t *testing.T) {
		m := newTestModel(t, []string{"a.pdf"}, []string{"b.pdf"})

		send(m, "tab", "tab", "enter")
		assert.Equal(t, types.FocusModal, m.Focus())
		require.True(t, m.Modal().IsOpen())
		assert.Equal(t, "b.pdf", m.Modal().Record().Name)

		send(m, "esc")
		assert.False(t, m.Modal().IsOpen())
		assert.Equal(t, types.FocusManaged, m.Focus())
	})

	t.Run("lists do not see keys while the modal is open", func(t *testing.T) {
		m := newTestModel(t, []string{"a.pdf", "b.pdf"}, nil)

		send(m, "tab", "enter", "j", "j")
		assert.Equal(t, 0, m.Managed().Selection())
		assert.Equal(t, types.FocusModal, m.Focus())
	})

	t.Run("managed records cannot be imported", func(t *testing.T) {
		m := newTestModel(t, []string{"a.pdf"}, nil)

		send(m, "tab", "enter")
		assert.Empty(t, run(send(m, "y")))
		assert.True(t, m.Modal().IsOpen())
	})
}

func TestModelImport(t *testing.T) {
	org := &fakeOrganizer{}
	m := newTestModel(t, []string{"a.pdf"}, []string{"b.pdf"}, WithOrganizer(org))

	send(m, "tab", "tab", "enter")
	msgs := run(send(m, "y"))
	require.Len(t, msgs, 1)
	req, ok := msgs[0].(messages.ImportRequestMsg)
	require.True(t, ok)
	assert.Equal(t, "b.pdf", req.Record.Name)
	assert.True(t, m.Modal().Busy())

	_, cmd := m.Update(req)
	msgs = run(cmd)
	require.Len(t, msgs, 1)
	done, ok := msgs[0].(messages.ImportDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)

	m.Update(done)
	assert.False(t, m.Modal().IsOpen())
	assert.Equal(t, types.FocusManaged, m.Focus())
	assert.Contains(t, m.Status().Text(), "Imported b.pdf")
	assert.True(t, m.Managed().Loading(), "lists reload after an import")
	assert.True(t, m.Unmanaged().Loading())
	assert.Len(t, org.imported, 1)

	t.Run("failure keeps the modal open", func(t *testing.T) {
		org := &fakeOrganizer{err: errors.New("disk full")}
		m := newTestModel(t, nil, []string{"b.pdf"}, WithOrganizer(org))

		send(m, "tab", "tab", "enter", "y")
		_, cmd := m.Update(messages.ImportRequestMsg{Record: m.Modal().Record()})
		msgs := run(cmd)
		require.Len(t, msgs, 1)
		m.Update(msgs[0])

		assert.True(t, m.Modal().IsOpen())
		assert.Equal(t, types.FocusModal, m.Focus())
		assert.EqualError(t, m.Modal().Err(), "disk full")
		assert.True(t, m.Status().IsError())
	})

	t.Run("late result does not touch another record's modal", func(t *testing.T) {
		for _, tc := range []struct {
			name string
			err  error
		}{
			{"failure", errors.New("disk full")},
			{"success", nil},
		} {
			t.Run(tc.name, func(t *testing.T) {
				org := &fakeOrganizer{err: tc.err}
				m := newTestModel(t, nil, []string{"b.pdf", "c.pdf"}, WithOrganizer(org))

				send(m, "tab", "tab", "enter")
				msgs := run(send(m, "y"))
				require.Len(t, msgs, 1)
				_, cmd := m.Update(msgs[0])
				msgs = run(cmd)
				require.Len(t, msgs, 1)
				done, ok := msgs[0].(messages.ImportDoneMsg)
				require.True(t, ok)
				require.Equal(t, "b.pdf", done.Result.Record.Name)

				send(m, "esc", "tab", "j", "enter")
				require.True(t, m.Modal().IsOpen())
				require.Equal(t, "c.pdf", m.Modal().Record().Name)

				m.Update(done)
				assert.True(t, m.Modal().IsOpen())
				assert.Equal(t, types.FocusModal, m.Focus())
				assert.NoError(t, m.Modal().Err())
				assert.Equal(t, "c.pdf", m.Modal().Record().Name)
				assert.Contains(t, m.Status().Text(), "b.pdf")
				assert.True(t, m.Unmanaged().Loading(), "lists still reload")
			})
		}
	})
}

func TestModelScans(t *testing.T) {
	t.Run("failed scan keeps the previous list", func(t *testing.T) {
		m := newTestModel(t, []string{"a.pdf", "b.pdf"}, nil)

		m.Update(messages.ReloadRequestMsg{})
		require.True(t, m.Managed().Loading())

		m.Update(messages.ScanResultMsg{Pane: types.FocusManaged, Gen: 2, Err: errors.New("gone")})
		assert.Equal(t, 2, m.Managed().Len())
		assert.Error(t, m.Managed().ScanErr())
		assert.True(t, m.Status().IsError())
	})

	t.Run("stale results are dropped", func(t *testing.T) {
		m := newTestModel(t, []string{"a.pdf"}, nil)

		m.Update(messages.ReloadRequestMsg{})
		m.Update(messages.ScanResultMsg{Pane: types.FocusManaged, Gen: 1, Records: records(managedDir, "old.pdf")})
		assert.True(t, m.Managed().Loading())
		assert.Equal(t, "a.pdf", m.Managed().Records()[0].Name)

		m.Update(messages.ScanResultMsg{Pane: types.FocusManaged, Gen: 2, Records: records(managedDir, "new.pdf")})
		assert.False(t, m.Managed().Loading())
		assert.Equal(t, "new.pdf", m.Managed().Records()[0].Name)
	})

	t.Run("directory change rescans the owning pane", func(t *testing.T) {
		changes := make(fakeChanges, 1)
		m := newTestModel(t, nil, nil, WithWatcher(changes))

		_, cmd := m.Update(messages.DirChangedMsg{Change: watch.Change{Dir: unmanagedDir + "/", Names: []string{"n.pdf"}}})
		assert.NotNil(t, cmd)
		assert.True(t, m.Unmanaged().Loading())
		assert.False(t, m.Managed().Loading())
	})
}

func TestModelSearchFilter(t *testing.T) {
	m := newTestModel(t, []string{"Invoice-2024.pdf", "paper.pdf"}, []string{"invoice-copy.pdf", "scan.pdf"})

	send(m, "i", "n", "v")
	assert.Equal(t, "inv", m.Search().Query())
	assert.Equal(t, 1, m.Managed().Len())
	assert.Equal(t, 1, m.Unmanaged().Len())

	rec, _ := m.Detail().Record()
	assert.Equal(t, "Invoice-2024.pdf", rec.Name)

	send(m, "backspace", "backspace", "backspace", "tab")
	assert.Equal(t, 2, m.Managed().Len())

	t.Run("enter in search reloads", func(t *testing.T) {
		send(m, "/")
		msgs := run(send(m, "enter"))
		assert.Contains(t, msgs, tea.Msg(messages.ReloadRequestMsg{}))
	})
}

func TestModelHistory(t *testing.T) {
	imported := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	h := fakeHistory{entries: map[string]history.Entry{
		"b.pdf": {Name: "b.pdf", DestName: "b.pdf", Source: unmanagedDir + "/b.pdf", ImportedAt: imported},
	}}
	m := newTestModel(t, []string{"a.pdf", "b.pdf"}, nil, WithHistory(h))

	send(m, "tab")
	msgs := run(send(m, "j"))
	require.Len(t, msgs, 1)
	hm, ok := msgs[0].(messages.HistoryMsg)
	require.True(t, ok)
	assert.True(t, hm.Found)

	m.Update(hm)
	send(m, "right")
	out := testutils.StripANSI(m.View())
	assert.Contains(t, out, "Imported")
	assert.Contains(t, out, "2024-03-01")
}

func TestModelKeyHandling(t *testing.T) {
	t.Run("quit", func(t *testing.T) {
		m := newTestModel(t, nil, nil)
		cmd := send(m, "q")
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})

	t.Run("help toggles only when unconsumed", func(t *testing.T) {
		m := newTestModel(t, nil, nil)

		send(m, "?")
		assert.False(t, m.ShowHelp(), "the search bar takes ?")
		assert.Equal(t, "?", m.Search().Query())

		send(m, "tab", "?")
		assert.True(t, m.ShowHelp())
		send(m, "?")
		assert.False(t, m.ShowHelp())
	})
}

func TestModel_View(t *testing.T) {
	t.Run("too small", func(t *testing.T) {
		m := newTestModel(t, nil, nil)
		m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
		assert.Contains(t, testutils.StripANSI(m.View()), "Terminal too small")
	})

	t.Run("layout", func(t *testing.T) {
		m := newTestModel(t, []string{"report.pdf"}, []string{"ticket.pdf"})
		out := testutils.StripANSI(m.View())

		for _, want := range []string{"Managed", "Unmanaged", "Details", "report.pdf", "ticket.pdf"} {
			assert.Contains(t, out, want)
		}
		lines := strings.Split(out, "\n")
		assert.LessOrEqual(t, len(lines), 40)
	})

	t.Run("modal", func(t *testing.T) {
		m := newTestModel(t, nil, []string{"ticket.pdf"})
		send(m, "tab", "tab", "enter")
		out := testutils.StripANSI(m.View())
		assert.Contains(t, out, "Import ticket.pdf")
		assert.Contains(t, out, managedDir)
	})
}
