// Package scroll computes the visible window into a list whose length and
// display height change from frame to frame.
package scroll

import "pdfinbox/pkg/types"

// CalcTop returns the first visible row for a list of totalCount rows shown
// in visibleHeight rows, such that selection stays on screen. The current
// top is kept whenever the selection is already visible.
func CalcTop(currentTop, visibleHeight, selection, totalCount int) int {
	if visibleHeight <= 0 {
		return 0
	}
	if totalCount <= visibleHeight {
		return 0
	}

	if currentTop+visibleHeight <= selection {
		return selection - visibleHeight + 1
	} else if currentTop > selection {
		return selection
	}
	return currentTop
}

// CalcMaxTop returns the largest valid top offset.
func CalcMaxTop(totalCount, visibleHeight int) int {
	if visibleHeight <= 0 || totalCount <= visibleHeight {
		return 0
	}
	return totalCount - visibleHeight
}

// VerticalScroll is the viewport state of a single list. It is owned by
// exactly one pane; 0 <= Top() <= MaxTop() holds after every call.
type VerticalScroll struct {
	top    int
	maxTop int
}

// Top returns the first visible row.
func (v *VerticalScroll) Top() int {
	return v.top
}

// MaxTop returns the largest valid Top for the last update.
func (v *VerticalScroll) MaxTop() int {
	return v.maxTop
}

// Update re-derives the window from the selection. A pan made through
// MoveTop is kept only while the selection stays inside it.
func (v *VerticalScroll) Update(selection, totalCount, visibleHeight int) int {
	v.maxTop = CalcMaxTop(totalCount, visibleHeight)
	v.top = clamp(CalcTop(v.top, visibleHeight, selection, totalCount), 0, v.maxTop)
	return v.top
}

// MoveTop pans the window by one row without touching the selection.
// It reports whether the top offset changed.
func (v *VerticalScroll) MoveTop(dir types.ScrollType) bool {
	old := v.top

	next := old
	switch dir {
	case types.ScrollDown:
		next = old + 1
	case types.ScrollUp:
		next = old - 1
	}

	next = clamp(next, 0, v.maxTop)
	if next == old {
		return false
	}
	v.top = next
	return true
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
