package components

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"pdfinbox/internal/keys"
	"pdfinbox/internal/loader"
	"pdfinbox/internal/tui/messages"
	"pdfinbox/internal/tui/styles"
	"pdfinbox/internal/tui/views"
	"pdfinbox/pkg/testutils"
	"pdfinbox/pkg/types"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(ns ...string) []types.FileRecord {
	out := make([]types.FileRecord, 0, len(ns))
	for _, n := range ns {
		out = append(out, types.FileRecord{Name: n, Dir: "/dir"})
	}
	return out
}

// newPane returns a pane showing recs with room for visible rows.
func newPane(t *testing.T, visible int, recs []types.FileRecord) *ListPane {
	t.Helper()
	l := loader.LoadFunc(func(context.Context, string) ([]types.FileRecord, error) {
		return recs, nil
	})
	p := NewListPane(types.FocusManaged, "Managed", "/dir", keys.Default(), l)
	p.SetSize(40, visible+views.ListChrome)

	require.NotNil(t, p.RequestScan(context.Background()))
	ok, next := p.Apply(context.Background(), messages.ScanResultMsg{Pane: types.FocusManaged, Gen: 1, Records: recs})
	require.True(t, ok)
	require.Nil(t, next)
	return p
}

var (
	keyDown = tea.KeyMsg{Type: tea.KeyDown}
	keyUp   = tea.KeyMsg{Type: tea.KeyUp}
)

func TestListPaneScrollScenario(t *testing.T) {
	p := newPane(t, 3, names("A.pdf", "B.pdf", "C.pdf", "D.pdf", "E.pdf"))
	require.Equal(t, 3, p.VisibleHeight())

	for i := 0; i < 4; i++ {
		state, _ := p.Event(keyDown)
		assert.Equal(t, types.Consumed, state)
		assert.LessOrEqual(t, p.Top(), p.Selection())
		assert.Less(t, p.Selection(), p.Top()+p.VisibleHeight())
	}
	assert.Equal(t, 4, p.Selection())
	assert.Equal(t, 2, p.Top())

	for i := 0; i < 4; i++ {
		p.Event(keyUp)
	}
	assert.Equal(t, 0, p.Selection())
	assert.Equal(t, 0, p.Top())
}

func TestListPaneBounds(t *testing.T) {
	p := newPane(t, 3, names("A.pdf", "B.pdf"))

	state, _ := p.Event(keyUp)
	assert.Equal(t, types.NotConsumed, state, "up at the first row")
	assert.Equal(t, 0, p.Selection())

	p.Event(keyDown)
	state, _ = p.Event(keyDown)
	assert.Equal(t, types.NotConsumed, state, "down at the last row")
	assert.Equal(t, 1, p.Selection())

	state, _ = p.Event(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Equal(t, types.NotConsumed, state)
}

func TestListPaneEmpty(t *testing.T) {
	p := newPane(t, 3, nil)

	assert.NotPanics(t, func() {
		assert.False(t, p.MoveSelection(types.ScrollDown))
		assert.False(t, p.MoveSelection(types.ScrollUp))
		assert.False(t, p.Scroll(types.ScrollDown))
	})
	_, ok := p.Selected()
	assert.False(t, ok)
	assert.Equal(t, 0, p.Top())

	out := testutils.StripANSI(p.View(true, styles.Default()))
	assert.Contains(t, out, "No PDF files")
}

func TestListPaneFilter(t *testing.T) {
	p := newPane(t, 5, names("Invoice-01.pdf", "paper.pdf", "invoice-02.pdf", "notes.pdf"))
	p.MoveSelection(types.ScrollDown)
	p.MoveSelection(types.ScrollDown)
	p.MoveSelection(types.ScrollDown)
	require.Equal(t, 3, p.Selection())

	require.NoError(t, p.SetFilter("INVOICE"))
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, 1, p.Selection(), "selection is clamped into the filtered list")

	require.NoError(t, p.SetFilter("*-0[1]*"))
	require.Equal(t, 1, p.Len())
	rec, _ := p.Selected()
	assert.Equal(t, "Invoice-01.pdf", rec.Name)

	require.NoError(t, p.SetFilter("nothing"))
	assert.Equal(t, 0, p.Len())
	out := testutils.StripANSI(p.View(false, styles.Default()))
	assert.Contains(t, out, "No match for nothing")

	require.NoError(t, p.SetFilter(""))
	assert.Equal(t, 4, p.Len())

	assert.Error(t, p.SetFilter("[unclosed"))
	assert.Equal(t, 4, p.Len(), "a bad pattern leaves the filter alone")
}

func TestListPaneScanLifecycle(t *testing.T) {
	ctx := context.Background()
	calls := 0
	l := loader.LoadFunc(func(context.Context, string) ([]types.FileRecord, error) {
		calls++
		return names(fmt.Sprintf("scan-%d.pdf", calls)), nil
	})
	p := NewListPane(types.FocusUnmanaged, "Unmanaged", "/dir", keys.Default(), l)
	p.SetSize(40, 10)

	t.Run("requests during a scan are coalesced", func(t *testing.T) {
		require.NotNil(t, p.RequestScan(ctx))
		assert.True(t, p.Loading())
		assert.Nil(t, p.RequestScan(ctx))
		assert.Nil(t, p.RequestScan(ctx))

		ok, next := p.Apply(ctx, messages.ScanResultMsg{Pane: types.FocusUnmanaged, Gen: 1, Records: names("a.pdf")})
		assert.True(t, ok)
		assert.NotNil(t, next, "exactly one follow-up scan")
		assert.True(t, p.Loading())

		ok, next = p.Apply(ctx, messages.ScanResultMsg{Pane: types.FocusUnmanaged, Gen: 2, Records: names("a.pdf", "b.pdf")})
		assert.True(t, ok)
		assert.Nil(t, next)
		assert.False(t, p.Loading())
		assert.Equal(t, 2, p.Len())
	})

	t.Run("results for another pane or generation are ignored", func(t *testing.T) {
		ok, _ := p.Apply(ctx, messages.ScanResultMsg{Pane: types.FocusManaged, Gen: 2})
		assert.False(t, ok)
		ok, _ = p.Apply(ctx, messages.ScanResultMsg{Pane: types.FocusUnmanaged, Gen: 1})
		assert.False(t, ok)
		assert.Equal(t, 2, p.Len())
	})

	t.Run("reload resets the selection", func(t *testing.T) {
		p.MoveSelection(types.ScrollDown)
		require.Equal(t, 1, p.Selection())

		p.RequestScan(ctx)
		p.Apply(ctx, messages.ScanResultMsg{Pane: types.FocusUnmanaged, Gen: 3, Records: names("x.pdf", "y.pdf", "z.pdf")})
		assert.Equal(t, 0, p.Selection())
	})

	t.Run("failure keeps the records", func(t *testing.T) {
		p.RequestScan(ctx)
		ok, _ := p.Apply(ctx, messages.ScanResultMsg{Pane: types.FocusUnmanaged, Gen: 4, Err: errors.New("boom")})
		assert.True(t, ok)
		assert.Equal(t, 3, p.Len())
		assert.EqualError(t, p.ScanErr(), "boom")
		assert.True(t, p.Frame(false).StatusIsError)
	})

	t.Run("scan command loads the directory", func(t *testing.T) {
		cmd := p.RequestScan(ctx)
		require.NotNil(t, cmd)
		msg := cmd()
		batch, ok := msg.(tea.BatchMsg)
		if !ok {
			batch = tea.BatchMsg{func() tea.Msg { return msg }}
		}
		var res messages.ScanResultMsg
		for _, c := range batch {
			if r, ok := c().(messages.ScanResultMsg); ok {
				res = r
			}
		}
		assert.Equal(t, uint64(5), res.Gen)
		require.Len(t, res.Records, 1)
		assert.Equal(t, "scan-1.pdf", res.Records[0].Name)
	})
}

func TestListPaneMouseScroll(t *testing.T) {
	p := newPane(t, 2, names("a.pdf", "b.pdf", "c.pdf", "d.pdf"))
	require.True(t, p.MoveSelection(types.ScrollDown))
	require.Equal(t, 0, p.Top())

	assert.True(t, p.Scroll(types.ScrollDown))
	assert.Equal(t, 1, p.Top())
	assert.False(t, p.Scroll(types.ScrollDown), "the selected row stays on screen")
	assert.Equal(t, 1, p.Top())
	assert.Equal(t, 1, p.Selection(), "panning does not move the selection")

	p.SetSize(40, 2+views.ListChrome)
	assert.Equal(t, 1, p.Top(), "a pan that keeps the selection visible survives a resize")

	assert.True(t, p.Scroll(types.ScrollUp))
	assert.False(t, p.Scroll(types.ScrollUp))
	assert.Equal(t, 0, p.Top())

	t.Run("selection_at_top_blocks_pan", func(t *testing.T) {
		p := newPane(t, 2, names("a.pdf", "b.pdf", "c.pdf", "d.pdf"))
		assert.False(t, p.Scroll(types.ScrollDown))
		assert.Equal(t, 0, p.Top())
	})
}

func TestListPaneFrame(t *testing.T) {
	p := newPane(t, 2, names("a.pdf", "b.pdf", "c.pdf"))
	p.MoveSelection(types.ScrollDown)
	p.MoveSelection(types.ScrollDown)

	f := p.Frame(true)
	assert.Equal(t, []string{"b.pdf", "c.pdf"}, f.Labels)
	assert.Equal(t, 1, f.Highlight)
	assert.Equal(t, "3/3", f.Status)
	assert.True(t, f.Focused)

	out := testutils.StripANSI(p.View(true, styles.Default()))
	assert.Contains(t, out, "c.pdf")
	assert.NotContains(t, out, "a.pdf")
}
