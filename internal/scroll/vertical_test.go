package scroll

import (
	"testing"

	"pdfinbox/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcTop(t *testing.T) {
	tests := []struct {
		name                                  string
		currentTop, height, selection, count int
		want                                  int
	}{
		{"no scroll to top when content fits", 1, 10, 4, 4, 0},
		{"zero height", 4, 0, 4, 3, 0},
		{"selection below window", 0, 3, 3, 5, 1},
		{"selection far below window", 0, 3, 9, 20, 7},
		{"selection above window", 5, 3, 2, 20, 2},
		{"selection visible keeps top", 2, 3, 3, 20, 2},
		{"selection on last visible row", 2, 3, 4, 20, 2},
		{"selection on first visible row", 2, 3, 2, 20, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalcTop(tt.currentTop, tt.height, tt.selection, tt.count))
		})
	}
}

func TestCalcTopFitsAlwaysZero(t *testing.T) {
	for height := 1; height <= 6; height++ {
		for count := 0; count <= height; count++ {
			for top := 0; top <= 6; top++ {
				for sel := 0; sel < count; sel++ {
					assert.Equal(t, 0, CalcTop(top, height, sel, count),
						"top=%d height=%d sel=%d count=%d", top, height, sel, count)
				}
			}
		}
	}
}

func TestCalcTopKeepsSelectionVisible(t *testing.T) {
	for height := 1; height <= 5; height++ {
		for count := height + 1; count <= 12; count++ {
			maxTop := count - height
			for top := 0; top <= maxTop; top++ {
				for sel := 0; sel < count; sel++ {
					got := CalcTop(top, height, sel, count)
					assert.LessOrEqual(t, got, sel)
					assert.LessOrEqual(t, sel, got+height-1)
					assert.GreaterOrEqual(t, got, 0)
					assert.LessOrEqual(t, got, maxTop)
				}
			}
		}
	}
}

func TestCalcMaxTop(t *testing.T) {
	assert.Equal(t, 0, CalcMaxTop(3, 5))
	assert.Equal(t, 0, CalcMaxTop(5, 5))
	assert.Equal(t, 2, CalcMaxTop(5, 3))
	assert.Equal(t, 0, CalcMaxTop(5, 0))
	assert.Equal(t, 0, CalcMaxTop(0, 3))
}

func TestVerticalScrollScenario(t *testing.T) {
	var v VerticalScroll
	const height, count = 3, 5

	sel := 0
	v.Update(sel, count, height)
	assert.Equal(t, 0, v.Top())
	assert.Equal(t, 2, v.MaxTop())

	for i := 0; i < 4; i++ {
		sel++
		v.Update(sel, count, height)
	}
	assert.Equal(t, 4, sel)
	assert.Equal(t, 2, v.Top())

	for i := 0; i < 4; i++ {
		sel--
		v.Update(sel, count, height)
	}
	assert.Equal(t, 0, sel)
	assert.Equal(t, 0, v.Top())
}

func TestVerticalScrollMoveTop(t *testing.T) {
	t.Run("clamps_to_range", func(t *testing.T) {
		var v VerticalScroll
		v.Update(0, 5, 3)

		assert.False(t, v.MoveTop(types.ScrollUp))
		assert.Equal(t, 0, v.Top())

		assert.True(t, v.MoveTop(types.ScrollDown))
		assert.True(t, v.MoveTop(types.ScrollDown))
		assert.False(t, v.MoveTop(types.ScrollDown))
		assert.Equal(t, 2, v.Top())
	})

	t.Run("no_pan_when_content_fits", func(t *testing.T) {
		var v VerticalScroll
		v.Update(0, 2, 3)
		assert.False(t, v.MoveTop(types.ScrollDown))
		assert.Equal(t, 0, v.Top())
	})

	t.Run("pan_kept_while_selection_visible", func(t *testing.T) {
		var v VerticalScroll
		v.Update(2, 10, 3)
		require.True(t, v.MoveTop(types.ScrollDown))
		assert.Equal(t, 1, v.Update(2, 10, 3))
		require.True(t, v.MoveTop(types.ScrollDown))
		assert.Equal(t, 2, v.Update(2, 10, 3))
	})

	t.Run("pan_past_selection_snaps_back", func(t *testing.T) {
		var v VerticalScroll
		v.Update(0, 10, 3)
		for i := 0; i < 5; i++ {
			v.MoveTop(types.ScrollDown)
		}
		assert.Equal(t, 5, v.Top())

		top := v.Update(0, 10, 3)
		assert.Equal(t, 0, top)
		assert.LessOrEqual(t, top, 0)
		assert.GreaterOrEqual(t, top+3-1, 0)
	})

	t.Run("selection_move_snaps_back", func(t *testing.T) {
		var v VerticalScroll
		v.Update(0, 10, 3)
		v.MoveTop(types.ScrollDown)
		v.MoveTop(types.ScrollDown)

		v.Update(1, 10, 3)
		assert.Equal(t, 1, v.Top())
	})

	t.Run("shrinking_list_reclamps", func(t *testing.T) {
		var v VerticalScroll
		v.Update(0, 10, 3)
		for v.MoveTop(types.ScrollDown) {
		}
		assert.Equal(t, 7, v.Top())

		v.Update(0, 4, 3)
		assert.Equal(t, 0, v.Top())
		assert.Equal(t, 1, v.MaxTop())
	})
}
