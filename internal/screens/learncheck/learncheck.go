// Package learncheck is the short check a child passes before a letter
// counts as learned: pick the first letter of the picture word.
package learncheck

import (
	"context"
	"fmt"
	"math/rand/v2"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/abcadventure/internal/letters"
	"github.com/abhisek/abcadventure/internal/progress"
	"github.com/abhisek/abcadventure/internal/router"
	"github.com/abhisek/abcadventure/internal/screen"
	"github.com/abhisek/abcadventure/internal/ui/components"
	"github.com/abhisek/abcadventure/internal/ui/layout"
	"github.com/abhisek/abcadventure/internal/ui/theme"
)

// Screen asks which letter the item's word starts with. A wrong answer only
// re-prompts.
type Screen struct {
	item     letters.Item
	progress *progress.Service
	narrator screen.Narrator
	choice   components.MultiChoice
	result   string
	wrong    bool
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New builds a check for item with three shuffled distractors.
func New(item letters.Item, svc *progress.Service, narrator screen.Narrator, rng *rand.Rand) *Screen {
	var shuffle letters.Shuffler
	if rng != nil {
		shuffle = rng.Shuffle
	}
	options, correct := letters.Choices(item.Letter, 3, shuffle)
	return &Screen{
		item:     item,
		progress: svc,
		narrator: narrator,
		choice:   components.NewMultiChoice(Prompt(item.Word), options, correct),
		result:   "Answer right to learn it!",
	}
}

// Prompt is the question shown and spoken for word.
func Prompt(word string) string {
	return fmt.Sprintf("Which letter does %q start with?", word)
}

func (s *Screen) Init() tea.Cmd {
	if s.narrator != nil {
		s.narrator.Say(Prompt(s.item.Word), nil)
	}
	return nil
}

func (s *Screen) Title() string {
	return "Learn " + s.item.Letter
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "←→", Description: "Choose"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	if !s.choice.Submitted {
		return s, cmd
	}

	if !s.choice.IsCorrect() {
		s.wrong = true
		s.result = fmt.Sprintf("Almost! %s does not start with %s. Try again.", s.item.Word, s.choice.Chosen())
		s.choice.Retry()
		return s, cmd
	}

	if _, err := s.progress.LearnLetter(context.Background(), s.item.Letter); err != nil {
		s.choice.Retry()
		return s, screen.Toast("Could not save progress: " + err.Error())
	}
	if s.narrator != nil {
		s.narrator.Stop()
	}
	return s, tea.Batch(
		cmd,
		screen.Toast(fmt.Sprintf("Great job! You learned %s - %s ⭐", s.item.Letter, s.item.Word)),
		func() tea.Msg { return router.PopScreenMsg{} },
		screen.ProgressChanged(),
	)
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	title := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true).
		Render(fmt.Sprintf("%s  %s", s.item.Emoji, s.item.Word))

	resultStyle := theme.Hint
	if s.wrong {
		resultStyle = theme.Incorrect
	}

	content := title + "\n\n" + s.choice.View() + "\n\n" + resultStyle.Render(s.result)
	return components.CabinetFrame(components.ArcadeCard(content, cw), width, height)
}
