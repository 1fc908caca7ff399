package rewardplay

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/abcadventure/internal/playback"
	"github.com/abhisek/abcadventure/internal/player"
	"github.com/abhisek/abcadventure/internal/progress"
	"github.com/abhisek/abcadventure/internal/reward"
	"github.com/abhisek/abcadventure/internal/store"
)

type manualTimer struct {
	at   time.Duration
	seq  int
	f    func()
	done bool
}

func (t *manualTimer) Stop() bool {
	was := !t.done
	t.done = true
	return was
}

type manualClock struct {
	base   time.Time
	now    time.Duration
	seq    int
	timers []*manualTimer
}

func (c *manualClock) Now() time.Time { return c.base.Add(c.now) }

func (c *manualClock) AfterFunc(d time.Duration, f func()) playback.Timer {
	c.seq++
	t := &manualTimer{at: c.now + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) Advance(d time.Duration) {
	target := c.now + d
	for {
		var due []*manualTimer
		for _, t := range c.timers {
			if !t.done && t.at <= target {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			break
		}
		sort.Slice(due, func(i, j int) bool {
			if due[i].at != due[j].at {
				return due[i].at < due[j].at
			}
			return due[i].seq < due[j].seq
		})
		next := due[0]
		next.done = true
		c.now = next.at
		next.f()
	}
	c.now = target
}

type fixture struct {
	clock   *manualClock
	svc     *progress.Service
	orch    *playback.Orchestrator
	overlay *Overlay
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc := progress.NewService(st.StateRepo(), st.EventRepo(), nil)
	require.NoError(t, svc.Load(ctx))
	for _, l := range []string{"A", "B", "C"} {
		_, err := svc.LearnLetter(ctx, l)
		require.NoError(t, err)
	}

	clock := &manualClock{base: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	orch := playback.New(ctx, playback.Deps{
		Progress:  svc,
		Scheduler: clock,
		NewPlayer: player.NewFactory(clock, player.Options{Clip: time.Minute, Now: clock.Now}),
		Options:   playback.DefaultOptions(),
	})
	f := &fixture{
		clock:   clock,
		svc:     svc,
		orch:    orch,
		overlay: New(orch, func() reward.Settings { return svc.State().Settings }),
	}

	require.NoError(t, orch.Start(playback.TriggerManual))
	clock.Advance(time.Second)
	require.Equal(t, playback.CountingDown, orch.State())
	return f
}

// send delivers msg the way the app does: Update, then Sync.
func (f *fixture) send(msg tea.Msg) {
	f.overlay.Update(msg)
	f.overlay.Sync()
}

func (f *fixture) advance(d time.Duration) {
	f.clock.Advance(d)
	f.overlay.Sync()
}

func (f *fixture) typePIN(pin string) {
	for _, r := range pin {
		f.send(keyPress(r))
	}
	f.send(tea.KeyPressMsg{Code: tea.KeyEnter})
}

// holdLockKey holds the lock key on a terminal without release events: the
// first press, then auto-repeat presses until the hold resolves.
func (f *fixture) holdLockKey() {
	const repeatEvery = 100 * time.Millisecond
	f.send(keyPress('l'))
	for i := 0; i < 50 && f.orch.LockState() == playback.Holding; i++ {
		f.advance(repeatEvery)
		if f.orch.LockState() == playback.Holding {
			f.send(keyPress('l'))
		}
	}
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func keyRelease(r rune) tea.KeyReleaseMsg {
	return tea.KeyReleaseMsg{Code: r, Text: string(r)}
}

func TestHoldAndPINUnlockWithKeyRelease(t *testing.T) {
	f := newFixture(t)
	f.overlay.SetKeyRelease(true)

	f.send(keyPress('l'))
	assert.Equal(t, playback.Holding, f.orch.LockState())

	f.advance(playback.DefaultOptions().LockHold)
	assert.Equal(t, playback.PromptingPIN, f.orch.LockState())
	assert.True(t, f.overlay.pinOpen)

	f.send(keyRelease('l'))
	assert.Equal(t, playback.PromptingPIN, f.orch.LockState())

	f.typePIN("1234")
	assert.Equal(t, playback.Unlocked, f.orch.LockState())
	assert.False(t, f.overlay.pinOpen)

	f.send(keyPress(' '))
	assert.True(t, f.orch.Paused())

	// A tap relocks.
	f.send(keyPress('l'))
	f.send(keyRelease('l'))
	assert.Equal(t, playback.Locked, f.orch.LockState())
}

func TestEarlyReleaseStaysLocked(t *testing.T) {
	f := newFixture(t)
	f.overlay.SetKeyRelease(true)

	f.send(keyPress('l'))
	f.advance(time.Second)
	f.send(keyRelease('l'))
	f.advance(5 * time.Second)

	assert.Equal(t, playback.Locked, f.orch.LockState())
	assert.False(t, f.overlay.pinOpen)
}

func TestWrongPINKeepsPrompt(t *testing.T) {
	f := newFixture(t)
	f.overlay.SetKeyRelease(true)

	f.send(keyPress('l'))
	f.advance(playback.DefaultOptions().LockHold)
	f.send(keyRelease('l'))

	f.typePIN("0000")
	assert.Equal(t, playback.PromptingPIN, f.orch.LockState())
	assert.True(t, f.overlay.pinOpen)
	assert.Empty(t, f.overlay.pin.Value())

	f.send(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Equal(t, playback.Locked, f.orch.LockState())
	assert.False(t, f.overlay.pinOpen)
	assert.True(t, f.orch.Active(), "escape does not leave the video")
}

func TestLockedControlsAreSwallowed(t *testing.T) {
	f := newFixture(t)

	f.send(keyPress(' '))
	f.send(keyPress('x'))
	f.send(tea.KeyPressMsg{Code: tea.KeyEscape})

	assert.False(t, f.orch.Paused())
	assert.True(t, f.orch.Active())
}

func TestFallbackWithoutKeyRelease(t *testing.T) {
	f := newFixture(t)

	f.holdLockKey()
	require.Equal(t, playback.PromptingPIN, f.orch.LockState())

	f.typePIN("1234")
	require.Equal(t, playback.Unlocked, f.orch.LockState())

	f.send(keyPress('x'))
	assert.False(t, f.orch.Active())
	assert.Equal(t, playback.Ended, f.orch.State())
}

func TestFallbackPressRelocks(t *testing.T) {
	f := newFixture(t)

	f.holdLockKey()
	f.typePIN("1234")
	require.Equal(t, playback.Unlocked, f.orch.LockState())

	f.send(keyPress('l'))
	assert.Equal(t, playback.Locked, f.orch.LockState())
}

func TestFallbackRepeatsKeepHoldAlive(t *testing.T) {
	f := newFixture(t)

	f.send(keyPress('l'))
	first := f.overlay.holdSeq
	f.advance(500 * time.Millisecond)
	f.send(keyPress('l'))

	// The check armed by the first press is stale now.
	f.send(HoldCheckMsg{seq: first})
	assert.Equal(t, playback.Holding, f.orch.LockState())

	f.advance(playback.DefaultOptions().LockHold - 500*time.Millisecond)
	assert.Equal(t, playback.PromptingPIN, f.orch.LockState(), "repeats do not restart the hold")
}

func TestFallbackTapDoesNotUnlock(t *testing.T) {
	f := newFixture(t)

	f.send(keyPress('l'))
	require.Equal(t, playback.Holding, f.orch.LockState())

	// No repeat arrived within the gap.
	f.send(HoldCheckMsg{seq: f.overlay.holdSeq})
	assert.Equal(t, playback.Locked, f.orch.LockState())

	f.advance(5 * time.Second)
	assert.Equal(t, playback.Locked, f.orch.LockState())
}

func TestFallbackOtherKeyCancelsHold(t *testing.T) {
	f := newFixture(t)

	f.send(keyPress('l'))
	f.send(keyPress('a'))
	f.advance(5 * time.Second)

	assert.Equal(t, playback.Locked, f.orch.LockState())
}

func TestMouseHold(t *testing.T) {
	f := newFixture(t)

	f.send(tea.MouseClickMsg{Button: tea.MouseLeft})
	assert.Equal(t, playback.Holding, f.orch.LockState())
	f.advance(playback.DefaultOptions().LockHold)
	f.send(tea.MouseReleaseMsg{Button: tea.MouseLeft})

	assert.Equal(t, playback.PromptingPIN, f.orch.LockState())
}

func TestViewShowsCountdown(t *testing.T) {
	f := newFixture(t)
	out := f.overlay.View(100, 40)
	assert.Contains(t, out, "REWARD TIME")
	assert.Contains(t, out, f.orch.CountdownLabel())
}
