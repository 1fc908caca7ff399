package quiz

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/abcadventure/internal/progress"
	"github.com/abhisek/abcadventure/internal/reward"
	"github.com/abhisek/abcadventure/internal/screen"
	"github.com/abhisek/abcadventure/internal/store"
)

func newService(t *testing.T) *progress.Service {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	svc := progress.NewService(st.StateRepo(), st.EventRepo(), nil)
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func toastOf(msgs []tea.Msg) string {
	for _, m := range msgs {
		if tm, ok := m.(screen.ToastMsg); ok {
			return tm.Text
		}
	}
	return ""
}

func newQuiz(t *testing.T) (*Screen, *progress.Service) {
	svc := newService(t)
	return New(svc, nil, rand.New(rand.NewPCG(7, 11))), svc
}

func TestCorrectAnswerLearnsLetter(t *testing.T) {
	s, svc := newQuiz(t)
	target := s.Target().Letter

	_, cmd := s.Update(keyPress(rune('1' + s.choice.CorrectIndex)))
	msgs := drain(cmd)

	assert.True(t, s.correct)
	assert.True(t, svc.State().IsLearned(target))
	assert.Equal(t, reward.LearnPoints+reward.QuizPoints, svc.State().Score)
	assert.Contains(t, toastOf(msgs), "You also learned "+target)
	assert.Contains(t, msgs, tea.Msg(screen.ProgressChangedMsg{}))
}

func TestWrongAnswerResetsStreak(t *testing.T) {
	s, svc := newQuiz(t)
	wrong := (s.choice.CorrectIndex + 1) % len(s.choice.Options)

	_, cmd := s.Update(keyPress(rune('1' + wrong)))
	msgs := drain(cmd)

	assert.False(t, s.correct)
	assert.False(t, svc.State().IsLearned(s.Target().Letter))
	assert.Equal(t, 0, svc.State().Streak)
	assert.Equal(t, "That's okay, try the next one!", toastOf(msgs))

	// Answered questions ignore further answers until the next one.
	_, cmd = s.Update(keyPress(rune('1' + s.choice.CorrectIndex)))
	assert.Nil(t, cmd)
}

func TestNextQuestion(t *testing.T) {
	s, _ := newQuiz(t)

	s.Update(keyPress('n'))
	assert.False(t, s.choice.Submitted, "n does nothing before answering")

	s.Update(keyPress(rune('1' + s.choice.CorrectIndex)))
	require.True(t, s.choice.Submitted)

	s.Update(keyPress('n'))
	assert.False(t, s.choice.Submitted)
	assert.Equal(t, "Pick an answer.", s.result)
	assert.Equal(t, s.Target().Letter, s.choice.Options[s.choice.CorrectIndex])
}
