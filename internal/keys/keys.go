// Package keys builds the key bindings of the TUI from the key config.
package keys

import (
	"strings"

	"pdfinbox/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds every binding the TUI reacts to. Tab, Esc and Search are
// fixed; the rest come from config.
type KeyMap struct {
	// Configurable actions
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Enter      key.Binding
	Exit       key.Binding
	Quit       key.Binding
	FocusLeft  key.Binding
	FocusRight key.Binding

	// Structural
	Tab    key.Binding
	Esc    key.Binding
	Search key.Binding

	// Modal
	Confirm key.Binding

	Help key.Binding
}

// New builds a KeyMap from cfg. Help text is derived from the configured
// keys so the footer always shows what is actually bound.
func New(cfg config.Keys) KeyMap {
	return KeyMap{
		ScrollUp:   binding(cfg.ScrollUp, "Scroll up"),
		ScrollDown: binding(cfg.ScrollDown, "Scroll down"),
		Enter:      binding(cfg.Enter, "Open"),
		Exit:       binding(cfg.Exit, "Exit"),
		Quit:       binding(cfg.Quit, "Quit"),
		FocusLeft:  binding(cfg.FocusLeft, "Focus list"),
		FocusRight: binding(cfg.FocusRight, "Focus detail"),

		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next pane"),
		),
		Esc: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		Confirm: key.NewBinding(
			key.WithKeys(append(config.SplitKeys(cfg.Enter), "y")...),
			key.WithHelp(helpKeys(append(config.SplitKeys(cfg.Enter), "y")), "Import"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
	}
}

// Default returns the stock bindings.
func Default() KeyMap {
	return New(config.DefaultKeys())
}

func binding(spec, desc string) key.Binding {
	keys := config.SplitKeys(spec)
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(helpKeys(keys), desc),
	)
}

func helpKeys(keys []string) string {
	return strings.Join(keys, "/")
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Search, k.Enter, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view, one column per
// command group.
func (k KeyMap) FullHelp() [][]key.Binding {
	groups := Commands(k)
	columns := make([][]key.Binding, 0, len(groups))
	for _, g := range groups {
		col := make([]key.Binding, 0, len(g.Commands))
		for _, c := range g.Commands {
			col = append(col, c.Binding)
		}
		columns = append(columns, col)
	}
	return columns
}
