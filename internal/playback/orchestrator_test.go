package playback

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/abcadventure/internal/reward"
	"github.com/abhisek/abcadventure/internal/store"
	"github.com/abhisek/abcadventure/internal/video"
)

const primary = "-yG4mBzGwq8"

func TestStartRejections(t *testing.T) {
	t.Run("nothing unlocked", func(t *testing.T) {
		h := newHarness(t, "AB")
		assert.ErrorIs(t, h.orch.Start(TriggerManual), ErrNoSessionAvailable)
		assert.Equal(t, Idle, h.orch.State())
		assert.Empty(t, h.players)
	})

	t.Run("rewards disabled", func(t *testing.T) {
		h := newHarness(t, "ABC")
		off := false
		require.NoError(t, h.svc.UpdateSettings(h.ctx, reward.SettingsUpdate{RewardEnabled: &off}))
		assert.ErrorIs(t, h.orch.Start(TriggerManual), ErrRewardsDisabled)
		assert.False(t, h.orch.MaybeStart())
	})

	t.Run("already running", func(t *testing.T) {
		h := newHarness(t, "ABCDEF")
		require.NoError(t, h.orch.Start(TriggerAuto))
		assert.ErrorIs(t, h.orch.Start(TriggerManual), ErrSessionActive)
		assert.False(t, h.orch.MaybeStart())
	})
}

func TestFullSession(t *testing.T) {
	h := newHarness(t, "ABC")

	require.True(t, h.orch.MaybeStart())
	assert.Equal(t, Starting, h.orch.State())
	assert.Equal(t, 1, h.narrator.stops)
	assert.Equal(t, "00:30", h.orch.CountdownLabel())
	assert.Equal(t, reward.ActiveReward{InProgress: true, RemainingSeconds: 30}, h.svc.State().ActiveReward)

	p := h.player()
	assert.Empty(t, p.calls, "nothing plays before the player is ready")

	p.emit(EventReady)
	assert.Equal(t, []string{"mute", "load:" + primary + "@0", "play"}, p.calls)
	assert.Equal(t, PlayingCandidate, h.orch.State())
	assert.Equal(t, 0, h.svc.State().WatchedSessions, "consume waits for real playback")

	p.emit(EventPlaying)
	assert.Equal(t, CountingDown, h.orch.State())
	assert.Equal(t, 1, h.svc.State().WatchedSessions)
	assert.True(t, h.orch.Consumed())
	assert.True(t, p.muted)

	h.sched.Advance(300 * time.Millisecond)
	assert.False(t, p.muted)
	assert.Equal(t, 100, p.volume)

	p.time = 17
	h.sched.Advance(700 * time.Millisecond)
	assert.Equal(t, 29, h.orch.Remaining())
	assert.Equal(t, "00:29", h.orch.CountdownLabel())
	assert.Equal(t, video.Position{VideoID: primary, TimeSeconds: 17}, h.svc.State().RewardPlayback)
	assert.Equal(t, reward.ActiveReward{InProgress: true, RemainingSeconds: 29, Consumed: true}, h.svc.State().ActiveReward)

	p.time = 46
	h.sched.Advance(29 * time.Second)
	assert.Equal(t, Ended, h.orch.State())
	assert.False(t, h.orch.Active())
	assert.Equal(t, "stop", p.calls[len(p.calls)-1])
	assert.Equal(t, reward.ActiveReward{}, h.svc.State().ActiveReward)
	assert.Equal(t, video.Position{VideoID: primary, TimeSeconds: 46}, h.svc.State().RewardPlayback)
	assert.Equal(t, noticeFinished, h.orch.Notice())
	assert.Equal(t, 0, h.sched.Pending())

	assert.Equal(t, []string{store.ActionStart, store.ActionConsume, store.ActionEnd}, h.actions())
	events := h.events()
	assert.Equal(t, events[0].SessionID, events[2].SessionID)
}

func TestConsumesOncePerSession(t *testing.T) {
	h := newHarness(t, "ABCDEF")
	p := h.startPlaying()
	require.Equal(t, 1, h.svc.State().WatchedSessions)

	p.emit(EventPlaying)
	p.sink(Event{Kind: EventError, Code: 150})
	p.emit(EventPlaying)
	p.emit(EventEnded)
	p.emit(EventPlaying)

	assert.Equal(t, 1, h.svc.State().WatchedSessions)
	assert.Equal(t, 1, h.svc.Status().AvailableSessions)
}

func TestWatchdogSkipsStalledCandidate(t *testing.T) {
	h := newHarness(t, "ABC")
	require.NoError(t, h.orch.Start(TriggerManual))
	p := h.player()
	p.emit(EventReady)

	h.sched.Advance(4999 * time.Millisecond)
	assert.Len(t, p.loads(), 1)

	h.sched.Advance(time.Millisecond)
	assert.Equal(t, []string{primary + "@0", "diQatYOQLV8@0"}, p.loads())
	assert.Equal(t, noticeNotStarted, h.orch.Notice())
	id, idx := h.orch.CurrentVideo()
	assert.Equal(t, "diQatYOQLV8", id)
	assert.Equal(t, 1, idx)

	// A playing report cancels the new watchdog.
	p.emit(EventPlaying)
	h.sched.Advance(10 * time.Second)
	assert.Len(t, p.loads(), 2)
	assert.Equal(t, 1, h.svc.State().WatchedSessions)
}

func TestStaleWatchdogDoesNotFire(t *testing.T) {
	h := newHarness(t, "ABC")
	require.NoError(t, h.orch.Start(TriggerManual))
	p := h.player()
	p.emit(EventReady)

	h.sched.Advance(4 * time.Second)
	p.sink(Event{Kind: EventError, Code: 100})
	require.Len(t, p.loads(), 2)

	// The first candidate's watchdog would have fired at 5s.
	h.sched.Advance(2 * time.Second)
	assert.Len(t, p.loads(), 2)

	h.sched.Advance(3 * time.Second)
	assert.Len(t, p.loads(), 3, "second candidate's own watchdog fires at 9s")
}

func TestErrorReasonsAndExhaustion(t *testing.T) {
	h := newHarness(t, "ABC")
	require.NoError(t, h.orch.Start(TriggerManual))
	p := h.player()
	p.emit(EventReady)

	codes := []int{150, 100, 2, 5}
	for _, code := range codes {
		p.sink(Event{Kind: EventError, Code: code})
		assert.Equal(t, video.ErrorReason(code), h.orch.Notice())
	}
	require.Len(t, p.loads(), 5)

	p.sink(Event{Kind: EventError, Code: 999})
	assert.Equal(t, Aborted, h.orch.State())
	assert.Equal(t, video.ErrorReason(999)+" "+noticeFixConfig, h.orch.Notice())
	assert.Equal(t, 0, h.svc.State().WatchedSessions, "a session that never played is not spent")
	assert.Equal(t, reward.ActiveReward{}, h.svc.State().ActiveReward)
	assert.Equal(t, 0, h.sched.Pending())

	assert.Equal(t, []string{
		store.ActionStart,
		store.ActionSkip, store.ActionSkip, store.ActionSkip, store.ActionSkip, store.ActionSkip,
		store.ActionAbort,
	}, h.actions())
	skips := h.events()[1:6]
	assert.Equal(t, primary, skips[0].VideoID)
	assert.Equal(t, video.ErrorReason(150), skips[0].Reason)
}

func TestInvalidFallbacksAreDropped(t *testing.T) {
	h := newHarness(t, "ABC")
	h.opts.Fallbacks = []string{"not-an-id", primary, "https://youtu.be/diQatYOQLV8"}
	h.orch = h.build()

	require.NoError(t, h.orch.Start(TriggerManual))
	assert.Equal(t, []string{primary, "diQatYOQLV8"}, h.orch.Candidates())
}

func TestAutoplayBlocked(t *testing.T) {
	h := newHarness(t, "ABC")
	require.NoError(t, h.orch.Start(TriggerManual))
	p := h.player()
	p.emit(EventReady)
	p.calls = nil

	p.emit(EventAutoplayBlocked)
	assert.Equal(t, []string{"mute", "play"}, p.calls, "first block retries muted in place")

	p.emit(EventAutoplayBlocked)
	assert.Equal(t, []string{"diQatYOQLV8@0"}, p.loads())
	assert.Equal(t, noticeAutoplay, h.orch.Notice())

	// The retry allowance resets for the new candidate.
	p.calls = nil
	p.emit(EventAutoplayBlocked)
	assert.Equal(t, []string{"mute", "play"}, p.calls)
}

func TestEndedAdvancesAndLoops(t *testing.T) {
	h := newHarness(t, "ABC")
	h.opts.Fallbacks = []string{"diQatYOQLV8"}
	h.orch = h.build()
	p := h.startPlaying()

	p.emit(EventEnded)
	p.emit(EventPlaying)
	p.emit(EventEnded)
	p.emit(EventPlaying)

	assert.Equal(t, []string{primary + "@0", "diQatYOQLV8@0", primary + "@0"}, p.loads())
	assert.Equal(t, CountingDown, h.orch.State())
	assert.Equal(t, 1, h.svc.State().WatchedSessions)
}

func TestEndedReplaysSingleCandidate(t *testing.T) {
	h := newHarness(t, "ABC")
	h.opts.Fallbacks = nil
	h.orch = h.build()
	p := h.startPlaying()
	p.calls = nil

	p.emit(EventEnded)
	assert.Equal(t, []string{"seek:0", "play"}, p.calls)
}

func TestResumeFromStoredPosition(t *testing.T) {
	h := newHarness(t, "ABC")
	require.NoError(t, h.svc.SaveSnapshot(h.ctx, video.Position{VideoID: "u4Oza3X9Nno", TimeSeconds: 95}, reward.ActiveReward{}))

	p := h.startPlaying()
	assert.Equal(t, []string{"u4Oza3X9Nno@95"}, p.loads())
	_, idx := h.orch.CurrentVideo()
	assert.Equal(t, 2, idx)
	assert.Equal(t, 95, h.orch.Playhead())

	// Stored offsets are used once; the next candidate starts at 0.
	p.sink(Event{Kind: EventError, Code: 101})
	assert.Equal(t, []string{"u4Oza3X9Nno@95", "SJ2rEpCJNQk@0"}, p.loads())
}

func TestResumeAfterReload(t *testing.T) {
	h := newHarness(t, "ABC")
	require.NoError(t, h.svc.SaveSnapshot(h.ctx,
		video.Position{VideoID: "diQatYOQLV8", TimeSeconds: 42},
		reward.ActiveReward{InProgress: true, RemainingSeconds: 12, Consumed: true},
	))
	off := false
	require.NoError(t, h.svc.UpdateSettings(h.ctx, reward.SettingsUpdate{RewardEnabled: &off}))

	require.True(t, h.orch.Resume())
	assert.Equal(t, AwaitingManualResume, h.orch.State())
	assert.Equal(t, "00:12", h.orch.CountdownLabel())
	assert.Equal(t, noticeResumePending, h.orch.Notice())
	assert.Empty(t, h.players, "no player until the user continues")
	assert.False(t, h.orch.Resume(), "one session at a time")

	h.sched.Advance(time.Minute)
	assert.Equal(t, 12, h.orch.Remaining(), "countdown waits for playback")

	require.NoError(t, h.orch.Continue())
	p := h.player()
	p.emit(EventReady)
	assert.Equal(t, []string{"diQatYOQLV8@42"}, p.loads())

	p.emit(EventPlaying)
	assert.Equal(t, 0, h.svc.State().WatchedSessions, "already consumed before the reload")

	h.sched.Advance(12 * time.Second)
	assert.Equal(t, Ended, h.orch.State())
	assert.Equal(t, []string{store.ActionResume, store.ActionEnd}, h.actions())
}

func TestResumeUnconsumedConsumesOnPlay(t *testing.T) {
	h := newHarness(t, "ABC")
	require.NoError(t, h.svc.SaveSnapshot(h.ctx,
		video.Position{VideoID: primary},
		reward.ActiveReward{InProgress: true, RemainingSeconds: 20},
	))

	require.True(t, h.orch.Resume())
	require.NoError(t, h.orch.Continue())
	p := h.player()
	p.emit(EventReady)
	p.emit(EventPlaying)
	assert.Equal(t, 1, h.svc.State().WatchedSessions)
}

func TestAbortWhileAwaitingKeepsBookmark(t *testing.T) {
	h := newHarness(t, "ABC")
	pos := video.Position{VideoID: "diQatYOQLV8", TimeSeconds: 42}
	require.NoError(t, h.svc.SaveSnapshot(h.ctx, pos, reward.ActiveReward{InProgress: true, RemainingSeconds: 12}))

	require.True(t, h.orch.Resume())
	h.orch.Abort("closed")
	assert.Equal(t, pos, h.svc.State().RewardPlayback)
	assert.Equal(t, reward.ActiveReward{}, h.svc.State().ActiveReward)
}

func TestResumeWithoutSnapshot(t *testing.T) {
	h := newHarness(t, "ABC")
	assert.False(t, h.orch.Resume())
	assert.ErrorIs(t, h.orch.Continue(), ErrNothingToResume)
}

func TestPlayerReadyTimeout(t *testing.T) {
	h := newHarness(t, "ABC")
	require.NoError(t, h.orch.Start(TriggerManual))
	stale := h.player()

	h.sched.Advance(8 * time.Second)
	assert.Equal(t, Aborted, h.orch.State())
	assert.Equal(t, noticeRetryLater, h.orch.Notice())
	assert.Equal(t, 0, h.svc.State().WatchedSessions)
	assert.Equal(t, []string{"stop"}, stale.calls, "the timed-out player is stopped")

	// Not memoized: the next attempt builds a fresh player.
	require.NoError(t, h.orch.Start(TriggerManual))
	require.Len(t, h.players, 2)
	fresh := h.player()

	stale.emit(EventReady)
	assert.Empty(t, fresh.calls, "events from a discarded player are ignored")

	fresh.emit(EventReady)
	assert.Len(t, fresh.loads(), 1)
}

func TestPlayerFactoryError(t *testing.T) {
	h := newHarness(t, "ABC")
	h.factoryErr = errors.New("no terminal")
	require.NoError(t, h.orch.Start(TriggerManual))
	assert.Equal(t, Aborted, h.orch.State())
	assert.Equal(t, noticeRetryLater, h.orch.Notice())
}

func TestPlayerIsMemoized(t *testing.T) {
	h := newHarness(t, "ABCDEF")
	h.startPlaying()
	h.orch.End()

	require.NoError(t, h.orch.Start(TriggerManual))
	assert.Len(t, h.players, 1)
	assert.Equal(t, PlayingCandidate, h.orch.State(), "a ready player plays at once")
	assert.Equal(t, "session-2", h.orch.SessionID())
}

func TestReadyDuringConstruction(t *testing.T) {
	h := newHarness(t, "ABC")
	h.readyOnNew = true
	require.NoError(t, h.orch.Start(TriggerManual))
	assert.Len(t, h.player().loads(), 1)
	assert.Equal(t, 1, h.sched.Pending(), "only the watchdog is armed")
}

func TestEndIsIdempotent(t *testing.T) {
	h := newHarness(t, "ABC")
	p := h.startPlaying()
	h.orch.PressLock(1)

	h.orch.End()
	h.orch.End()
	h.orch.Abort("late")

	assert.Equal(t, Ended, h.orch.State())
	assert.Equal(t, Locked, h.orch.LockState())
	assert.Equal(t, 0, h.sched.Pending())
	assert.Equal(t, []string{store.ActionStart, store.ActionConsume, store.ActionEnd}, h.actions())

	// Late player events after the session are ignored.
	p.calls = nil
	p.emit(EventEnded)
	p.sink(Event{Kind: EventError, Code: 150})
	assert.Empty(t, p.calls)
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "00:00"},
		{9, "00:09"},
		{30, "00:30"},
		{61, "01:01"},
		{600, "10:00"},
		{-5, "00:00"},
	}
	for _, tt := range tests {
		if got := FormatCountdown(tt.secs); got != tt.want {
			t.Errorf("FormatCountdown(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestQueuedUnmuteAfterNextCandidateIsIgnored(t *testing.T) {
	h := newHarness(t, "ABC")
	p := h.startPlaying()
	unmute := h.sched.timers[len(h.sched.timers)-1]

	// The clip ends before the unmute delay; the next candidate loads muted.
	p.emit(EventEnded)
	require.Len(t, p.loads(), 2)
	p.calls = nil

	// A callback already delivered to the loop still runs.
	unmute.f()
	assert.Empty(t, p.calls, "the next candidate stays muted until it plays")

	p.emit(EventPlaying)
	h.sched.Advance(h.opts.UnmuteDelay)
	assert.Equal(t, []string{"unmute", "volume:100"}, p.calls)
}
