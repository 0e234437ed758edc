package components

import (
	"time"

	"pdfinbox/internal/tui/messages"
	"pdfinbox/internal/tui/styles"

	tea "github.com/charmbracelet/bubbletea"
)

// NoticeTTL is how long a notice stays in the status bar.
const NoticeTTL = 4 * time.Second

// StatusBar shows transient notices above the help line.
type StatusBar struct {
	text    string
	isError bool
	id      int
	ttl     time.Duration
}

func NewStatusBar() *StatusBar {
	return &StatusBar{ttl: NoticeTTL}
}

// SetTTL changes how long notices stay visible. Zero keeps them until
// replaced.
func (s *StatusBar) SetTTL(ttl time.Duration) {
	s.ttl = ttl
}

// Notify shows text and returns the command that clears it later.
func (s *StatusBar) Notify(text string, isError bool) tea.Cmd {
	s.id++
	s.text = text
	s.isError = isError

	if s.ttl <= 0 {
		return nil
	}
	id := s.id
	return tea.Tick(s.ttl, func(time.Time) tea.Msg {
		return messages.ClearNoticeMsg{ID: id}
	})
}

// Clear removes notice id if it is still shown.
func (s *StatusBar) Clear(id int) {
	if id == s.id {
		s.text = ""
		s.isError = false
	}
}

// Text returns the current notice.
func (s *StatusBar) Text() string { return s.text }

// IsError reports whether the current notice is an error.
func (s *StatusBar) IsError() bool { return s.isError }

func (s *StatusBar) View(st styles.Styles) string {
	if s.text == "" {
		return ""
	}
	if s.isError {
		return st.Error.Render(s.text)
	}
	return st.Success.Render(s.text)
}
