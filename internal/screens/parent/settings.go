package parent

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/abcadventure/internal/progress"
	"github.com/abhisek/abcadventure/internal/reward"
	"github.com/abhisek/abcadventure/internal/router"
	"github.com/abhisek/abcadventure/internal/screen"
	"github.com/abhisek/abcadventure/internal/ui/components"
	"github.com/abhisek/abcadventure/internal/ui/layout"
	"github.com/abhisek/abcadventure/internal/ui/theme"
)

// Form rows.
const (
	fieldLetters = iota
	fieldSeconds
	fieldVideo
	fieldOrientation
	fieldPIN
	fieldEnabled
	fieldSave
	fieldReset
)

// draft is the form's unsaved copy of the settings. Number fields stay
// text so that what the parent typed reaches UpdateSettings unchanged.
type draft struct {
	letters     string
	seconds     string
	video       string
	orientation reward.Orientation
	newPIN      string
	enabled     bool
}

// SettingsScreen edits the reward settings.
type SettingsScreen struct {
	progress *progress.Service
	draft    draft
	menu     components.Menu

	editing      int
	input        components.TextInput
	confirmReset bool
}

var _ screen.Screen = (*SettingsScreen)(nil)
var _ screen.KeyHintProvider = (*SettingsScreen)(nil)
var _ screen.EscapeHandler = (*SettingsScreen)(nil)

// NewSettingsScreen loads the current settings into a form.
func NewSettingsScreen(svc *progress.Service) *SettingsScreen {
	st := svc.State().Settings
	s := &SettingsScreen{
		progress: svc,
		editing:  -1,
		draft: draft{
			letters:     strconv.Itoa(st.LettersPerReward),
			seconds:     strconv.Itoa(st.RewardSeconds),
			video:       st.YouTubeVideoID,
			orientation: st.RewardOrientation,
			enabled:     st.RewardEnabled,
		},
	}
	s.rebuild()
	return s
}

func (s *SettingsScreen) Init() tea.Cmd {
	return nil
}

func (s *SettingsScreen) Title() string {
	return "Parent Settings"
}

func (s *SettingsScreen) HandlesEscape() bool {
	return s.editing >= 0 || s.confirmReset
}

func (s *SettingsScreen) KeyHints() []layout.KeyHint {
	if s.editing >= 0 {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Keep"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Change"},
		{Key: "Esc", Description: "Close"},
	}
}

func (s *SettingsScreen) rebuild() {
	selected := s.menu.Selected
	pin := "(unchanged)"
	if s.draft.newPIN != "" {
		pin = strings.Repeat("•", len(s.draft.newPIN))
	}
	enabled := "off"
	if s.draft.enabled {
		enabled = "on"
	}
	reset := "RESET PROGRESS"
	if s.confirmReset {
		reset = "PRESS ENTER AGAIN TO RESET"
	}

	s.menu = components.NewMenu([]components.MenuItem{
		fieldLetters:     {Label: "Letters per video", Value: s.draft.letters, Action: s.edit(fieldLetters)},
		fieldSeconds:     {Label: "Video seconds", Value: s.draft.seconds, Action: s.edit(fieldSeconds)},
		fieldVideo:       {Label: "YouTube video", Value: s.draft.video, Action: s.edit(fieldVideo)},
		fieldOrientation: {Label: "Video shape", Value: string(s.draft.orientation), Action: s.toggleOrientation},
		fieldPIN:         {Label: "New PIN", Value: pin, Action: s.edit(fieldPIN)},
		fieldEnabled:     {Label: "Video rewards", Value: enabled, Action: s.toggleEnabled},
		fieldSave:        {Label: "SAVE", Action: s.save},
		fieldReset:       {Label: reset, Action: s.reset},
	})
	s.menu.Selected = selected
}

func (s *SettingsScreen) edit(field int) func() tea.Cmd {
	return func() tea.Cmd {
		s.editing = field
		switch field {
		case fieldLetters:
			s.input = components.NewTextInput("1-26", true, 2)
			s.input.Model.SetValue(s.draft.letters)
		case fieldSeconds:
			s.input = components.NewTextInput("10-600", true, 3)
			s.input.Model.SetValue(s.draft.seconds)
		case fieldVideo:
			s.input = components.NewTextInput("YouTube link or video id", false, 200)
			s.input.Model.SetValue(s.draft.video)
		case fieldPIN:
			s.input = components.NewPINInput()
		}
		return s.input.Init()
	}
}

func (s *SettingsScreen) commitEdit() {
	v := strings.TrimSpace(s.input.Value())
	switch s.editing {
	case fieldLetters:
		s.draft.letters = v
	case fieldSeconds:
		s.draft.seconds = v
	case fieldVideo:
		s.draft.video = v
	case fieldPIN:
		s.draft.newPIN = v
	}
	s.editing = -1
	s.rebuild()
}

func (s *SettingsScreen) toggleOrientation() tea.Cmd {
	if s.draft.orientation == reward.Portrait {
		s.draft.orientation = reward.Landscape
	} else {
		s.draft.orientation = reward.Portrait
	}
	s.rebuild()
	return nil
}

func (s *SettingsScreen) toggleEnabled() tea.Cmd {
	s.draft.enabled = !s.draft.enabled
	s.rebuild()
	return nil
}

// Update builds a full SettingsUpdate from the draft. Unparsable numbers
// become 0, which UpdateSettings maps to its form defaults.
func (s *SettingsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.editing >= 0 {
		if kmsg, ok := msg.(tea.KeyPressMsg); ok {
			switch kmsg.String() {
			case "enter":
				s.commitEdit()
				return s, nil
			case "esc":
				s.editing = -1
				return s, nil
			}
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		if s.confirmReset && kmsg.String() != "enter" {
			s.confirmReset = false
			s.rebuild()
			if kmsg.String() == "esc" {
				return s, nil
			}
		}
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	// Actions edit the draft; redraw the rows from it.
	s.rebuild()
	return s, cmd
}

func (s *SettingsScreen) update() reward.SettingsUpdate {
	letters, _ := strconv.Atoi(s.draft.letters)
	seconds, _ := strconv.Atoi(s.draft.seconds)
	orientation := string(s.draft.orientation)
	return reward.SettingsUpdate{
		LettersPerReward:  &letters,
		RewardSeconds:     &seconds,
		Video:             &s.draft.video,
		RewardOrientation: &orientation,
		NewPIN:            &s.draft.newPIN,
		RewardEnabled:     &s.draft.enabled,
	}
}

func (s *SettingsScreen) save() tea.Cmd {
	err := s.progress.UpdateSettings(context.Background(), s.update())
	switch {
	case errors.Is(err, reward.ErrInvalidVideo):
		return screen.Toast("That YouTube link doesn't look right. Please try again.")
	case errors.Is(err, reward.ErrInvalidPIN):
		return screen.Toast("The PIN must be 4 to 8 digits.")
	case err != nil:
		return screen.Toast("Could not save settings: " + err.Error())
	}
	return tea.Batch(
		screen.Toast("Parent settings saved."),
		func() tea.Msg { return router.PopToRootMsg{} },
	)
}

func (s *SettingsScreen) reset() tea.Cmd {
	if !s.confirmReset {
		s.confirmReset = true
		s.rebuild()
		return nil
	}
	s.confirmReset = false
	if err := s.progress.Reset(context.Background(), reward.ResetOptions{}); err != nil {
		s.rebuild()
		return screen.Toast("Could not reset progress: " + err.Error())
	}
	return tea.Batch(
		screen.Toast("Learning progress was reset."),
		func() tea.Msg { return router.PopToRootMsg{} },
	)
}

func (s *SettingsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	body := s.menu.View()
	if s.editing >= 0 {
		body += "\n" + lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Render(s.menu.Items[s.editing].Label) +
			"\n" + s.input.View()
	}

	content := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("👪 Parent settings") +
		"\n\n" + lipgloss.NewStyle().Align(lipgloss.Left).Render(body)
	return components.CabinetFrame(components.ArcadeCard(content, cw), width, height)
}
