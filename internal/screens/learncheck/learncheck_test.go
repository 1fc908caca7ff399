package learncheck

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/abcadventure/internal/letters"
	"github.com/abhisek/abcadventure/internal/progress"
	"github.com/abhisek/abcadventure/internal/router"
	"github.com/abhisek/abcadventure/internal/screen"
	"github.com/abhisek/abcadventure/internal/store"
)

type recordingNarrator struct {
	said    []string
	stopped int
}

func (n *recordingNarrator) Say(text string, _ func()) uint64 {
	n.said = append(n.said, text)
	return uint64(len(n.said))
}

func (n *recordingNarrator) Stop() { n.stopped++ }

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

// drain runs cmd and any batched commands, returning every message.
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

func TestInitSpeaksPrompt(t *testing.T) {
	item, _ := letters.Lookup("B")
	narr := &recordingNarrator{}
	s := New(item, newService(t), narr, nil)

	s.Init()
	assert.Equal(t, []string{Prompt(item.Word)}, narr.said)
}

func TestWrongThenRightAnswer(t *testing.T) {
	item, _ := letters.Lookup("B")
	svc := newService(t)
	narr := &recordingNarrator{}
	s := New(item, svc, narr, nil)
	require.Equal(t, 0, s.choice.CorrectIndex, "unshuffled choices put the target first")

	_, cmd := s.Update(keyPress('2'))
	assert.Empty(t, drain(cmd))
	assert.True(t, s.wrong)
	assert.Contains(t, s.result, "Try again")
	assert.False(t, svc.State().IsLearned("B"))
	assert.False(t, s.choice.Submitted, "wrong answer reopens the question")

	_, cmd = s.Update(keyPress('1'))
	msgs := drain(cmd)
	assert.True(t, svc.State().IsLearned("B"))
	assert.Equal(t, 1, narr.stopped)

	var popped, changed bool
	var toast string
	for _, m := range msgs {
		switch m := m.(type) {
		case router.PopScreenMsg:
			popped = true
		case screen.ProgressChangedMsg:
			changed = true
		case screen.ToastMsg:
			toast = m.Text
		}
	}
	assert.True(t, popped)
	assert.True(t, changed)
	assert.Contains(t, toast, "You learned B")
}

func TestPrompt(t *testing.T) {
	assert.Equal(t, `Which letter does "Ball" start with?`, Prompt("Ball"))
}
