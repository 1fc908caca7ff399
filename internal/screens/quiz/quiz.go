// Package quiz is the endless letter quiz: a picture word is shown and the
// child picks its first letter from four.
package quiz

import (
	"context"
	"fmt"
	"math/rand/v2"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/abcadventure/internal/letters"
	"github.com/abhisek/abcadventure/internal/progress"
	"github.com/abhisek/abcadventure/internal/screen"
	"github.com/abhisek/abcadventure/internal/ui/components"
	"github.com/abhisek/abcadventure/internal/ui/layout"
	"github.com/abhisek/abcadventure/internal/ui/theme"
)

// Screen runs one question at a time.
type Screen struct {
	progress *progress.Service
	narrator screen.Narrator
	rng      *rand.Rand

	target  letters.Item
	choice  components.MultiChoice
	result  string
	correct bool
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a quiz with its first question ready.
func New(svc *progress.Service, narrator screen.Narrator, rng *rand.Rand) *Screen {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s := &Screen{progress: svc, narrator: narrator, rng: rng}
	s.nextQuestion()
	return s
}

// Prompt is the question shown and spoken for word.
func Prompt(word string) string {
	return fmt.Sprintf("%q starts with which letter?", word)
}

// Target returns the letter the current question asks for.
func (s *Screen) Target() letters.Item {
	return s.target
}

func (s *Screen) nextQuestion() {
	s.target = letters.All[s.rng.IntN(len(letters.All))]
	options, correct := letters.Choices(s.target.Letter, 3, s.rng.Shuffle)
	s.choice = components.NewMultiChoice(Prompt(s.target.Word), options, correct)
	s.result = "Pick an answer."
	s.correct = false
}

func (s *Screen) speak() {
	if s.narrator != nil {
		s.narrator.Say(Prompt(s.target.Word), nil)
	}
}

func (s *Screen) Init() tea.Cmd {
	s.speak()
	return nil
}

func (s *Screen) Title() string {
	return "Quiz"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.choice.Submitted {
		return []layout.KeyHint{
			{Key: "N", Description: "Next question"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "S", Description: "Hear again"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "s":
			s.speak()
			return s, nil
		case "n":
			if s.choice.Submitted {
				s.nextQuestion()
				s.speak()
			}
			return s, nil
		}
	}

	if s.choice.Submitted {
		return s, nil
	}

	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	if !s.choice.Submitted {
		return s, cmd
	}
	return s, tea.Batch(cmd, s.answer())
}

func (s *Screen) answer() tea.Cmd {
	letter := s.target.Letter
	wasLearned := s.progress.State().IsLearned(letter)

	correct, err := s.progress.AnswerQuiz(context.Background(), letter, s.choice.Chosen())
	if err != nil {
		s.choice.Retry()
		return screen.Toast("Could not save progress: " + err.Error())
	}
	s.correct = correct

	var toast string
	switch {
	case correct && !wasLearned:
		s.result = "Correct! You are amazing!"
		toast = fmt.Sprintf("Quiz correct! You also learned %s - %s", letter, s.target.Word)
	case correct:
		s.result = "Correct! You are amazing!"
		toast = "Quiz correct! +5 points."
	default:
		s.result = fmt.Sprintf("Nice try! The answer is %s.", letter)
		toast = "That's okay, try the next one!"
	}
	return tea.Batch(screen.Toast(toast), screen.ProgressChanged())
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	title := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true).
		Render(s.target.Emoji + "  " + s.target.Word)

	resultStyle := theme.Hint
	if s.choice.Submitted {
		resultStyle = theme.Incorrect
		if s.correct {
			resultStyle = theme.Correct
		}
	}

	content := title + "\n\n" + s.choice.View() + "\n\n" + resultStyle.Render(s.result)
	return components.CabinetFrame(components.ArcadeCard(content, cw), width, height)
}
