package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/abcadventure/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EscapeHandler is implemented by screens that use Esc themselves (to
// cancel an edit) instead of letting the app pop them.
type EscapeHandler interface {
	HandlesEscape() bool
}

// Narrator speaks prompts aloud. Say replaces anything still playing.
type Narrator interface {
	Say(text string, done func()) uint64
	Stop()
}

// ToastMsg asks the app to show a short notice above the footer.
type ToastMsg struct {
	Text string
}

// Toast returns a command that shows text as a notice.
func Toast(text string) tea.Cmd {
	return func() tea.Msg { return ToastMsg{Text: text} }
}

// ProgressChangedMsg tells the app that learning progress was saved, so it
// can check whether a reward session should start.
type ProgressChangedMsg struct{}

// ProgressChanged returns a command emitting ProgressChangedMsg.
func ProgressChanged() tea.Cmd {
	return func() tea.Msg { return ProgressChangedMsg{} }
}
