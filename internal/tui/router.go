package tui

import (
	"pdfinbox/internal/keys"
	"pdfinbox/internal/log"
	"pdfinbox/pkg/types"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Leaf is a focusable pane.
type Leaf interface {
	Event(msg tea.KeyMsg) (types.EventState, tea.Cmd)
}

// ListLeaf is a pane with a selectable record.
type ListLeaf interface {
	Leaf
	Selected() (types.FileRecord, bool)
}

// ModalLeaf is the import popup.
type ModalLeaf interface {
	Leaf
	Open(rec types.FileRecord, managed bool)
	Close()
	IsOpen() bool
}

// trigger is a structural key the router handles itself.
type trigger int

const (
	trigNone trigger = iota
	trigTab
	trigSearch
	trigFocusLeft
	trigFocusRight
)

// transitions maps a structural key and the current focus to the next
// focus. A missing entry means the key is not structural in that state and
// goes to the focused leaf.
var transitions = map[trigger]map[types.Focus]types.Focus{
	trigTab: {
		types.FocusSearch:    types.FocusManaged,
		types.FocusManaged:   types.FocusUnmanaged,
		types.FocusUnmanaged: types.FocusSearch,
		types.FocusDetail:    types.FocusSearch,
	},
	trigSearch: {
		types.FocusSearch:    types.FocusSearch,
		types.FocusManaged:   types.FocusSearch,
		types.FocusUnmanaged: types.FocusSearch,
		types.FocusDetail:    types.FocusSearch,
	},
	trigFocusRight: {
		types.FocusManaged:   types.FocusDetail,
		types.FocusUnmanaged: types.FocusDetail,
	},
	trigFocusLeft: {
		types.FocusDetail: types.FocusManaged,
	},
}

// focusAfterModal is where focus goes when the modal closes, whichever
// pane opened it.
const focusAfterModal = types.FocusManaged

// Router owns the focus value and decides which pane receives a key.
type Router struct {
	keys keys.KeyMap

	focus       types.Focus
	lastList    types.Focus
	terminating bool

	search    Leaf
	managed   ListLeaf
	unmanaged ListLeaf
	detail    Leaf
	modal     ModalLeaf
}

// NewRouter creates a router focused on the search bar.
func NewRouter(km keys.KeyMap, search Leaf, managed, unmanaged ListLeaf, detail Leaf, modal ModalLeaf) *Router {
	return &Router{
		keys:      km,
		focus:     types.FocusSearch,
		lastList:  types.FocusManaged,
		search:    search,
		managed:   managed,
		unmanaged: unmanaged,
		detail:    detail,
		modal:     modal,
	}
}

// Focus returns the focused pane.
func (r *Router) Focus() types.Focus { return r.focus }

// LastList returns the list that had focus most recently.
func (r *Router) LastList() types.Focus { return r.lastList }

// Terminating reports whether a quit or exit key has been seen.
func (r *Router) Terminating() bool { return r.terminating }

// CloseModal closes the modal if it is open and moves focus to the
// managed list.
func (r *Router) CloseModal() {
	if !r.modal.IsOpen() && r.focus != types.FocusModal {
		return
	}
	r.modal.Close()
	r.setFocus(focusAfterModal)
}

// Event dispatches one key.
func (r *Router) Event(msg tea.KeyMsg) (types.EventState, tea.Cmd) {
	if key.Matches(msg, r.keys.Quit, r.keys.Exit) {
		r.terminating = true
		return types.NotConsumed, nil
	}

	if r.modal.IsOpen() {
		if key.Matches(msg, r.keys.Esc) {
			r.CloseModal()
			return types.Consumed, nil
		}
		_, cmd := r.modal.Event(msg)
		return types.Consumed, cmd
	}

	if next, ok := transitions[r.triggerOf(msg)][r.focus]; ok {
		r.setFocus(next)
		return types.Consumed, nil
	}

	if key.Matches(msg, r.keys.Enter) && r.focus.IsList() {
		return r.openModal(), nil
	}

	if leaf := r.leaf(r.focus); leaf != nil {
		return leaf.Event(msg)
	}
	return types.NotConsumed, nil
}

func (r *Router) triggerOf(msg tea.KeyMsg) trigger {
	switch {
	case key.Matches(msg, r.keys.Tab):
		return trigTab
	case key.Matches(msg, r.keys.Search):
		return trigSearch
	case key.Matches(msg, r.keys.FocusLeft):
		return trigFocusLeft
	case key.Matches(msg, r.keys.FocusRight):
		return trigFocusRight
	}
	return trigNone
}

func (r *Router) openModal() types.EventState {
	list := r.list(r.focus)
	rec, ok := list.Selected()
	if !ok {
		return types.NotConsumed
	}
	r.modal.Open(rec, r.focus == types.FocusManaged)
	r.setFocus(types.FocusModal)
	return types.Consumed
}

func (r *Router) setFocus(f types.Focus) {
	if f == r.focus {
		return
	}
	log.LogWithFields(log.F("from", r.focus.String()), log.F("to", f.String())).Debug("focus")
	r.focus = f
	if f.IsList() {
		r.lastList = f
	}
}

func (r *Router) list(f types.Focus) ListLeaf {
	if f == types.FocusUnmanaged {
		return r.unmanaged
	}
	return r.managed
}

func (r *Router) leaf(f types.Focus) Leaf {
	switch f {
	case types.FocusSearch:
		return r.search
	case types.FocusManaged:
		return r.managed
	case types.FocusUnmanaged:
		return r.unmanaged
	case types.FocusDetail:
		return r.detail
	case types.FocusModal:
		return r.modal
	}
	return nil
}
