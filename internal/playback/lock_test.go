package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/abcadventure/internal/reward"
)

func TestLockHoldOpensPINPrompt(t *testing.T) {
	h := newHarness(t, "ABC")
	h.startPlaying()
	stopsBefore := h.narrator.stops

	h.orch.PressLock(7)
	assert.Equal(t, Holding, h.orch.LockState())

	h.sched.Advance(2 * time.Second)
	assert.Equal(t, PromptingPIN, h.orch.LockState())
	assert.Equal(t, stopsBefore+1, h.narrator.stops, "narration stops for the prompt")
	purpose, ok := h.orch.PINPurpose()
	require.True(t, ok)
	assert.Equal(t, reward.PurposeRewardUnlock, purpose)

	// The click that ends the completed hold is swallowed.
	notices := len(h.notices)
	h.orch.ReleaseLock(7)
	h.orch.ClickLock()
	assert.Equal(t, PromptingPIN, h.orch.LockState())
	assert.Len(t, h.notices, notices)

	assert.ErrorIs(t, h.orch.SubmitPIN("0000"), reward.ErrWrongPIN)
	assert.Equal(t, PromptingPIN, h.orch.LockState(), "wrong PIN re-prompts")

	require.NoError(t, h.orch.SubmitPIN(" 1234 "))
	assert.Equal(t, Unlocked, h.orch.LockState())
	_, ok = h.orch.PINPurpose()
	assert.False(t, ok)

	h.orch.ClickLock()
	assert.Equal(t, Locked, h.orch.LockState(), "a single tap relocks")
	assert.Equal(t, "Playback controls are locked again.", h.orch.Notice())
}

func TestLockEarlyReleaseDoesNotUnlock(t *testing.T) {
	tests := []struct {
		name    string
		release func(o *Orchestrator)
	}{
		{"release", func(o *Orchestrator) { o.ReleaseLock(1) }},
		{"cancel", func(o *Orchestrator) { o.CancelLock(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "ABC")
			h.startPlaying()

			h.orch.PressLock(1)
			h.sched.Advance(1500 * time.Millisecond)
			tt.release(h.orch)
			assert.Equal(t, Locked, h.orch.LockState())

			h.sched.Advance(time.Second)
			assert.Equal(t, Locked, h.orch.LockState())
		})
	}
}

func TestLockIgnoresOtherPointer(t *testing.T) {
	h := newHarness(t, "ABC")
	h.startPlaying()

	h.orch.PressLock(1)
	h.orch.ReleaseLock(2)
	h.orch.CancelLock(3)
	assert.Equal(t, Holding, h.orch.LockState())

	h.sched.Advance(2 * time.Second)
	assert.Equal(t, PromptingPIN, h.orch.LockState())
}

func TestLockClickWhileLocked(t *testing.T) {
	h := newHarness(t, "ABC")
	h.startPlaying()

	h.orch.ClickLock()
	assert.Equal(t, Locked, h.orch.LockState())
	assert.Equal(t, "Press and hold for 2 seconds to unlock.", h.orch.Notice())
}

func TestLockRequiresSession(t *testing.T) {
	h := newHarness(t, "ABC")

	h.orch.PressLock(1)
	h.sched.Advance(3 * time.Second)
	assert.Equal(t, Locked, h.orch.LockState())
	assert.ErrorIs(t, h.orch.SubmitPIN("1234"), ErrNoPINPrompt)
}

func TestDismissPIN(t *testing.T) {
	h := newHarness(t, "ABC")
	h.startPlaying()

	h.orch.PressLock(1)
	h.sched.Advance(2 * time.Second)
	h.orch.DismissPIN()
	assert.Equal(t, Locked, h.orch.LockState())
	assert.ErrorIs(t, h.orch.SubmitPIN("1234"), ErrNoPINPrompt)
}

func unlock(t *testing.T, h *harness) {
	t.Helper()
	h.orch.PressLock(1)
	h.sched.Advance(2 * time.Second)
	require.NoError(t, h.orch.SubmitPIN("1234"))
}

func TestParentControls(t *testing.T) {
	h := newHarness(t, "ABC")
	p := h.startPlaying()

	assert.False(t, h.orch.TogglePause(), "locked")
	assert.False(t, h.orch.SeekBy(10))
	assert.False(t, h.orch.Exit())

	unlock(t, h)
	p.calls = nil
	p.time = 5

	require.True(t, h.orch.TogglePause())
	assert.True(t, h.orch.Paused())
	require.True(t, h.orch.TogglePause())
	assert.False(t, h.orch.Paused())
	require.True(t, h.orch.SeekBy(-10))
	require.True(t, h.orch.SeekBy(30))
	assert.Equal(t, []string{"pause", "play", "seek:0", "seek:30"}, p.calls)

	require.True(t, h.orch.Exit())
	assert.Equal(t, Ended, h.orch.State())
	assert.Equal(t, Locked, h.orch.LockState())
}

func TestNewSessionStartsLocked(t *testing.T) {
	h := newHarness(t, "ABCDEF")
	h.startPlaying()
	unlock(t, h)
	h.orch.End()

	require.NoError(t, h.orch.Start(TriggerManual))
	assert.Equal(t, Locked, h.orch.LockState())
}

func TestQueuedHoldCallbackIgnoredAfterNewPress(t *testing.T) {
	h := newHarness(t, "ABC")
	h.startPlaying()

	h.orch.PressLock(1)
	hold := h.sched.timers[len(h.sched.timers)-1]
	h.sched.Advance(1999 * time.Millisecond)
	h.orch.ReleaseLock(1)
	h.orch.PressLock(1)

	// The first hold's callback was already delivered to the loop.
	hold.f()
	assert.Equal(t, Holding, h.orch.LockState(), "a fresh press needs its own full hold")

	h.sched.Advance(1999 * time.Millisecond)
	assert.Equal(t, Holding, h.orch.LockState())
	h.sched.Advance(time.Millisecond)
	assert.Equal(t, PromptingPIN, h.orch.LockState())
}
