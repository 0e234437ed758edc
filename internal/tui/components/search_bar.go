package components

import (
	"pdfinbox/internal/keys"
	"pdfinbox/internal/tui/messages"
	"pdfinbox/internal/tui/styles"
	"pdfinbox/pkg/types"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SearchHeight is the outer height of the search bar.
const SearchHeight = 3

// SearchBar is the filter input at the top of the screen.
type SearchBar struct {
	input textinput.Model
	keys  keys.KeyMap
	width int
}

func NewSearchBar(km keys.KeyMap) *SearchBar {
	ti := textinput.New()
	ti.Placeholder = "Filter PDFs (glob or text)"
	ti.Prompt = "/ "
	ti.CharLimit = 256

	return &SearchBar{input: ti, keys: km}
}

// Event handles a key while the search bar has focus. Enter asks for a
// rescan. Every other key edits the query.
func (s *SearchBar) Event(msg tea.KeyMsg) (types.EventState, tea.Cmd) {
	if key.Matches(msg, s.keys.Enter) {
		return types.Consumed, func() tea.Msg { return messages.ReloadRequestMsg{} }
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return types.Consumed, cmd
}

// Update forwards non-key messages such as cursor blinks.
func (s *SearchBar) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

// Query returns the current filter text.
func (s *SearchBar) Query() string { return s.input.Value() }

// Focus gives the input the cursor.
func (s *SearchBar) Focus() tea.Cmd { return s.input.Focus() }

// Blur removes the cursor.
func (s *SearchBar) Blur() { s.input.Blur() }

// Focused reports whether the input has the cursor.
func (s *SearchBar) Focused() bool { return s.input.Focused() }

func (s *SearchBar) SetWidth(width int) {
	s.width = width
	// border 2, prompt 2, cursor 1
	if w := width - 5; w > 0 {
		s.input.Width = w
	}
}

func (s *SearchBar) View(focused bool, st styles.Styles) string {
	style := st.Pane
	if focused {
		style = st.PaneFocused
	}
	w := s.width - 2
	if w < 0 {
		w = 0
	}
	return style.Width(w).Height(SearchHeight - 2).MaxHeight(SearchHeight).Render(
		lipgloss.NewStyle().MaxWidth(w).Render(s.input.View()),
	)
}
