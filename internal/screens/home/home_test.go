package home

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/abcadventure/internal/playback"
	"github.com/abhisek/abcadventure/internal/progress"
	"github.com/abhisek/abcadventure/internal/router"
	"github.com/abhisek/abcadventure/internal/screen"
	"github.com/abhisek/abcadventure/internal/screens/learncheck"
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

type fakeRewards struct {
	triggers []playback.Trigger
	err      error
}

func (f *fakeRewards) Start(trigger playback.Trigger) error {
	f.triggers = append(f.triggers, trigger)
	return f.err
}

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

func newHome(t *testing.T) (*HomeScreen, *progress.Service, *recordingNarrator, *fakeRewards) {
	svc := newService(t)
	narr := &recordingNarrator{}
	rewards := &fakeRewards{}
	h := New(Deps{
		Progress: svc,
		Narrator: narr,
		Rewards:  rewards,
		Rand:     rand.New(rand.NewPCG(1, 2)),
	})
	return h, svc, narr, rewards
}

func TestLearnButtonNeedsBothSounds(t *testing.T) {
	h, _, narr, _ := newHome(t)
	require.Equal(t, "A", h.Current().Letter)
	assert.True(t, h.menu.Items[itemLearned].Disabled)

	h.Update(keyPress('s'))
	assert.True(t, h.menu.Items[itemLearned].Disabled)

	h.Update(keyPress('w'))
	assert.False(t, h.menu.Items[itemLearned].Disabled)
	assert.Equal(t, []string{"A", "Apple"}, narr.said)

	h.menu.Selected = itemLearned
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &learncheck.Screen{}, push.Screen)
}

func TestChangingLetterClearsSounds(t *testing.T) {
	h, _, _, _ := newHome(t)
	h.Update(keyPress('s'))
	h.Update(keyPress('w'))

	h.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	assert.Equal(t, "B", h.Current().Letter)
	assert.True(t, h.menu.Items[itemLearned].Disabled)

	h.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	h.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	assert.Equal(t, "Z", h.Current().Letter, "navigation wraps")
}

func TestNextSkipsLearnedLetters(t *testing.T) {
	h, svc, _, _ := newHome(t)
	ctx := context.Background()
	for _, l := range []string{"B", "C"} {
		_, err := svc.LearnLetter(ctx, l)
		require.NoError(t, err)
	}
	h.current = 0

	h.Update(keyPress('n'))
	assert.Equal(t, "D", h.Current().Letter)
}

func TestWatchMapsErrors(t *testing.T) {
	h, _, _, rewards := newHome(t)

	rewards.err = playback.ErrNoSessionAvailable
	_, cmd := h.Update(keyPress('v'))
	require.NotNil(t, cmd)
	toast, ok := cmd().(screen.ToastMsg)
	require.True(t, ok)
	assert.Equal(t, "Learn 3 more letters to unlock a video!", toast.Text)

	rewards.err = playback.ErrRewardsDisabled
	_, cmd = h.Update(keyPress('v'))
	toast = cmd().(screen.ToastMsg)
	assert.Contains(t, toast.Text, "turned off")

	rewards.err = nil
	_, cmd = h.Update(keyPress('v'))
	assert.Nil(t, cmd)
	assert.Equal(t, []playback.Trigger{playback.TriggerManual, playback.TriggerManual, playback.TriggerManual}, rewards.triggers)
}

func TestWatchEnabledOnceUnlocked(t *testing.T) {
	h, svc, _, _ := newHome(t)
	assert.True(t, h.menu.Items[itemWatch].Disabled)

	for _, l := range []string{"A", "B", "C"} {
		_, err := svc.LearnLetter(context.Background(), l)
		require.NoError(t, err)
	}
	h.Update(screen.ProgressChangedMsg{})
	assert.False(t, h.menu.Items[itemWatch].Disabled)
}

func TestRewardStatusText(t *testing.T) {
	svc := newService(t)
	st := svc.State()
	assert.Equal(t, "Learn 3 more letters to watch a 30-second video.", rewardStatusText(st.Settings, st.Status()))
}
