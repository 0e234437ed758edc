package keys

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Command group headings.
const (
	GroupGeneral = "-- General --"
	GroupInbox   = "-- Inbox --"
)

// Command is one entry of the help listing.
type Command struct {
	Name    string
	Binding key.Binding
}

// CommandGroup is a titled list of commands.
type CommandGroup struct {
	Title    string
	Commands []Command
}

// Commands lists what the user can do, grouped for the help view.
func Commands(k KeyMap) []CommandGroup {
	return []CommandGroup{
		{
			Title: GroupGeneral,
			Commands: []Command{
				{fmt.Sprintf("Scroll up/down [%s,%s]", keyList(k.ScrollUp), keyList(k.ScrollDown)), merge(k.ScrollUp, k.ScrollDown, "Scroll up/down")},
				{fmt.Sprintf("Quit [%s]", keyList(k.Quit)), k.Quit},
				{fmt.Sprintf("Exit [%s]", keyList(k.Exit)), k.Exit},
				{fmt.Sprintf("Help [%s]", keyList(k.Help)), k.Help},
			},
		},
		{
			Title: GroupInbox,
			Commands: []Command{
				{fmt.Sprintf("Move focus [%s,%s,%s]", keyList(k.Tab), keyList(k.FocusLeft), keyList(k.FocusRight)), merge(k.FocusLeft, k.FocusRight, "Move focus")},
				{fmt.Sprintf("Next pane [%s]", keyList(k.Tab)), k.Tab},
				{fmt.Sprintf("Search [%s]", keyList(k.Search)), k.Search},
				{fmt.Sprintf("Open [%s]", keyList(k.Enter)), k.Enter},
				{fmt.Sprintf("Import [%s]", keyList(k.Confirm)), k.Confirm},
				{fmt.Sprintf("Close popup [%s]", keyList(k.Esc)), k.Esc},
			},
		},
	}
}

func keyList(b key.Binding) string {
	return strings.Join(b.Keys(), ",")
}

// merge combines two bindings into one help entry.
func merge(a, b key.Binding, desc string) key.Binding {
	keys := append(append([]string{}, a.Keys()...), b.Keys()...)
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(a.Help().Key+" "+b.Help().Key, desc),
	)
}
