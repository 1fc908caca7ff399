// Package parent holds the PIN-guarded parent area: reward settings and
// the progress reset.
package parent

import (
	"charm.land/lipgloss/v2"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/abcadventure/internal/progress"
	"github.com/abhisek/abcadventure/internal/reward"
	"github.com/abhisek/abcadventure/internal/router"
	"github.com/abhisek/abcadventure/internal/screen"
	"github.com/abhisek/abcadventure/internal/ui/components"
	"github.com/abhisek/abcadventure/internal/ui/layout"
	"github.com/abhisek/abcadventure/internal/ui/theme"
)

// WrongPINNotice is shown after a failed PIN attempt.
const WrongPINNotice = "Wrong PIN. Please ask a parent to try again."

// PINScreen asks for the parent PIN before opening the settings.
type PINScreen struct {
	progress *progress.Service
	input    components.TextInput
}

var _ screen.Screen = (*PINScreen)(nil)
var _ screen.KeyHintProvider = (*PINScreen)(nil)

// NewPINScreen creates the prompt.
func NewPINScreen(svc *progress.Service) *PINScreen {
	return &PINScreen{progress: svc, input: components.NewPINInput()}
}

func (s *PINScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *PINScreen) Title() string {
	return "Parents"
}

func (s *PINScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *PINScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "enter" {
		if err := reward.VerifyPIN(s.progress.State().Settings, s.input.Value()); err != nil {
			s.input.Submit(false)
			return s, screen.Toast(WrongPINNotice)
		}
		settings := NewSettingsScreen(s.progress)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: settings} }
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *PINScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	content := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("👪 Parent area") +
		"\n\n" + theme.Hint.Render("Enter the parent PIN to continue.") +
		"\n\n" + s.input.View()
	return components.CabinetFrame(components.ArcadeCard(content, cw), width, height)
}
