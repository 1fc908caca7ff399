package playback

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/abhisek/abcadventure/internal/logging"
	"github.com/abhisek/abcadventure/internal/reward"
	"github.com/abhisek/abcadventure/internal/store"
	"github.com/abhisek/abcadventure/internal/video"
)

// Notices shown to the user.
const (
	noticeFinished      = "Reward time is over. Back to learning ABC!"
	noticeResumePending = "There is unfinished reward time. Press continue to finish it."
	noticeNotStarted    = "The video did not start playing, trying the next one."
	noticeAutoplay      = "Autoplay was blocked, trying the next video."
	noticeFixConfig     = "Please choose a different video in the parent area."
	noticeNoCandidates  = "No playable video is configured. " + noticeFixConfig
	noticeRetryLater    = "The video player could not start. Check the network or video settings and try again later."
)

// Deps are the orchestrator's collaborators. Progress, Scheduler and
// NewPlayer are required.
type Deps struct {
	Progress  Progress
	Scheduler Scheduler
	NewPlayer PlayerFactory
	Narrator  Narrator
	Notify    func(string)
	Logger    *slog.Logger
	NewID     func() string
	Options   Options
}

// session is the runtime record of one reward session. Timer callbacks
// compare their captured session (and attempt) against the live one before
// acting.
type session struct {
	id              string
	candidates      []string
	index           int
	startSeconds    int
	loaded          bool
	playbackStarted bool
	consumed        bool
	autoplayRetried bool
	paused          bool
	attempt         int
	watchdog        Timer
	unmute          Timer
}

func (s *session) videoID() string {
	if s.index >= 0 && s.index < len(s.candidates) {
		return s.candidates[s.index]
	}
	return ""
}

// Orchestrator is the reward playback state machine.
type Orchestrator struct {
	ctx       context.Context
	opts      Options
	progress  Progress
	sched     Scheduler
	newPlayer PlayerFactory
	narrator  Narrator
	notifier  func(string)
	logger    *slog.Logger
	newID     func() string

	player      Player
	playerGen   int
	playerReady bool
	readyTimer  Timer
	readyWaiter func(error)

	state     State
	session   *session
	remaining int
	countdown Timer
	lock      lock
	notice    string
}

// New creates an idle Orchestrator.
func New(ctx context.Context, deps Deps) *Orchestrator {
	o := &Orchestrator{
		ctx:       ctx,
		opts:      deps.Options,
		progress:  deps.Progress,
		sched:     deps.Scheduler,
		newPlayer: deps.NewPlayer,
		narrator:  deps.Narrator,
		notifier:  deps.Notify,
		logger:    deps.Logger,
		newID:     deps.NewID,
		lock:      newLock(),
	}
	if o.logger == nil {
		o.logger = logging.Discard()
	}
	if o.newID == nil {
		o.newID = uuid.NewString
	}
	return o
}

// State returns the lifecycle state.
func (o *Orchestrator) State() State {
	return o.state
}

// Active reports whether a session is live.
func (o *Orchestrator) Active() bool {
	return o.session != nil
}

// SessionID returns the live session id, or "".
func (o *Orchestrator) SessionID() string {
	if o.session == nil {
		return ""
	}
	return o.session.id
}

// Remaining returns the seconds left on the countdown.
func (o *Orchestrator) Remaining() int {
	return o.remaining
}

// CountdownLabel returns Remaining as MM:SS.
func (o *Orchestrator) CountdownLabel() string {
	return FormatCountdown(o.remaining)
}

// CurrentVideo returns the candidate being played and its index.
func (o *Orchestrator) CurrentVideo() (string, int) {
	if o.session == nil {
		return "", -1
	}
	return o.session.videoID(), o.session.index
}

// Playhead returns the live video position in whole seconds.
func (o *Orchestrator) Playhead() int {
	if o.session == nil {
		return 0
	}
	return o.position().TimeSeconds
}

// Candidates returns the live session's candidate list.
func (o *Orchestrator) Candidates() []string {
	if o.session == nil {
		return nil
	}
	return append([]string(nil), o.session.candidates...)
}

// Consumed reports whether the live session has spent its unlock.
func (o *Orchestrator) Consumed() bool {
	return o.session != nil && o.session.consumed
}

// Notice returns the most recent user-facing notice.
func (o *Orchestrator) Notice() string {
	return o.notice
}

// Start begins a new session. It is rejected when rewards are disabled, a
// session is already running, or nothing is unlocked.
func (o *Orchestrator) Start(trigger Trigger) error {
	if o.session != nil {
		return ErrSessionActive
	}
	st := o.progress.State()
	if !st.Settings.RewardEnabled {
		return ErrRewardsDisabled
	}
	if st.Status().AvailableSessions <= 0 {
		return ErrNoSessionAvailable
	}

	o.logger.Info("reward session requested", "trigger", trigger.String())
	o.begin(st, st.Settings.RewardSeconds, false, false)
	return nil
}

// MaybeStart starts a session automatically when one is unlocked and
// nothing is running. It reports whether a session started.
func (o *Orchestrator) MaybeStart() bool {
	st := o.progress.State()
	if o.session != nil || !st.Settings.RewardEnabled || st.Status().AvailableSessions <= 0 {
		return false
	}
	return o.Start(TriggerAuto) == nil
}

// Resume restores a session from the persisted active-reward snapshot. The
// session waits in AwaitingManualResume until Continue is called. A stale
// snapshot with no time left is cleared. It reports whether a session was
// restored.
func (o *Orchestrator) Resume() bool {
	if o.session != nil {
		return false
	}
	st := o.progress.State()
	active := st.ActiveReward
	if !active.InProgress {
		return false
	}
	if active.RemainingSeconds <= 0 {
		o.saveSnapshot(st.RewardPlayback, reward.ActiveReward{})
		return false
	}

	o.begin(st, active.RemainingSeconds, active.Consumed, true)
	return o.session != nil
}

// Continue issues the first play command for a resumed session.
func (o *Orchestrator) Continue() error {
	if o.session == nil || o.state != AwaitingManualResume {
		return ErrNothingToResume
	}
	o.setState(Starting)
	o.launch()
	return nil
}

// End finishes the live session normally.
func (o *Orchestrator) End() {
	o.finish(Ended, store.ActionEnd, "", noticeFinished)
}

// Abort stops the live session with a reason shown to the user.
func (o *Orchestrator) Abort(reason string) {
	o.finish(Aborted, store.ActionAbort, reason, reason)
}

func (o *Orchestrator) begin(st reward.State, seconds int, consumed, awaitManual bool) {
	if o.narrator != nil {
		o.narrator.Stop()
	}

	s := &session{
		id:         o.newID(),
		candidates: video.BuildCandidates(st.Settings.YouTubeVideoID, o.opts.Fallbacks),
		consumed:   consumed,
	}
	o.session = s
	o.remaining = clampSeconds(seconds)
	o.lock.reset()
	o.setState(Starting)

	action := store.ActionStart
	if awaitManual {
		action = store.ActionResume
	}
	o.record(action, "")

	if len(s.candidates) == 0 {
		o.Abort(noticeNoCandidates)
		return
	}

	start := video.ResolveStart(&st.RewardPlayback, s.candidates)
	s.index = start.Index
	s.startSeconds = start.TimeSeconds
	o.snapshot()

	if awaitManual {
		o.setState(AwaitingManualResume)
		o.notify(noticeResumePending)
		return
	}
	o.launch()
}

func (o *Orchestrator) launch() {
	s := o.session
	o.ensurePlayer(func(err error) {
		if o.session != s {
			return
		}
		if err != nil {
			o.logger.Warn("reward player unavailable", "session_id", s.id, "error", err)
			o.Abort(noticeRetryLater)
			return
		}
		o.playCurrent()
	})
}

// ensurePlayer calls done once the memoized player is ready, or with
// ErrPlayerNotReady after the readiness timeout.
func (o *Orchestrator) ensurePlayer(done func(error)) {
	if o.player != nil && o.playerReady {
		done(nil)
		return
	}
	o.readyWaiter = done

	if o.player == nil {
		o.playerGen++
		o.playerReady = false
		gen := o.playerGen
		p, err := o.newPlayer(func(e Event) { o.handleEvent(gen, e) })
		if err != nil {
			o.readyWaiter = nil
			done(errors.Join(ErrPlayerNotReady, err))
			return
		}
		o.player = p
	}

	// The player may have reported ready while it was being constructed.
	if o.playerReady {
		o.resolveReady(nil)
		return
	}

	if o.readyTimer == nil {
		gen := o.playerGen
		o.readyTimer = o.sched.AfterFunc(o.opts.ReadyTimeout, func() {
			if gen != o.playerGen || o.playerReady {
				return
			}
			o.readyTimer = nil
			if o.player != nil {
				o.player.Stop()
			}
			o.player = nil
			o.playerGen++
			o.resolveReady(ErrPlayerNotReady)
		})
	}
}

func (o *Orchestrator) resolveReady(err error) {
	stopTimer(&o.readyTimer)
	if w := o.readyWaiter; w != nil {
		o.readyWaiter = nil
		w(err)
	}
}

func (o *Orchestrator) playCurrent() {
	s := o.session
	if s == nil {
		return
	}
	id := s.videoID()
	if id == "" {
		o.Abort(noticeNoCandidates)
		return
	}

	stopTimer(&s.watchdog)
	stopTimer(&s.unmute)
	s.playbackStarted = false
	s.autoplayRetried = false
	s.paused = false
	start := s.startSeconds
	s.startSeconds = 0
	s.loaded = true
	s.attempt++
	attempt := s.attempt

	o.setState(PlayingCandidate)
	o.logger.Debug("loading reward candidate",
		"session_id", s.id,
		"video_id", id,
		"candidate_index", s.index,
		"start_seconds", start,
	)
	o.player.Mute()
	o.player.LoadVideo(id, start)
	o.player.Play()

	s.watchdog = o.sched.AfterFunc(o.opts.Watchdog, func() {
		if o.session != s || s.attempt != attempt || s.playbackStarted {
			return
		}
		s.watchdog = nil
		o.tryNext(noticeNotStarted)
	})
}

func (o *Orchestrator) handleEvent(gen int, e Event) {
	if gen != o.playerGen {
		return
	}
	if e.Kind == EventReady {
		o.playerReady = true
		if o.player != nil {
			o.resolveReady(nil)
		}
		return
	}

	s := o.session
	if s == nil || !s.loaded {
		return
	}

	switch e.Kind {
	case EventPlaying:
		o.onPlaying(s)
	case EventEnded:
		o.onEnded(s)
	case EventError:
		o.tryNext(video.ErrorReason(e.Code))
	case EventAutoplayBlocked:
		if !s.autoplayRetried {
			s.autoplayRetried = true
			o.player.Mute()
			o.player.Play()
			return
		}
		o.tryNext(noticeAutoplay)
	}
}

func (o *Orchestrator) onPlaying(s *session) {
	stopTimer(&s.watchdog)
	if s.playbackStarted {
		return
	}
	s.playbackStarted = true
	o.setState(CountingDown)
	o.consumeIfNeeded(s)
	o.startCountdown(s)

	attempt := s.attempt
	s.unmute = o.sched.AfterFunc(o.opts.UnmuteDelay, func() {
		if o.session != s || s.attempt != attempt {
			return
		}
		s.unmute = nil
		o.player.Unmute()
		o.player.SetVolume(100)
	})
}

// onEnded keeps playing until the countdown runs out: the next candidate
// when there are several, otherwise the same one from the start.
func (o *Orchestrator) onEnded(s *session) {
	if o.remaining <= 0 {
		return
	}
	if len(s.candidates) > 1 {
		s.index = (s.index + 1) % len(s.candidates)
		s.startSeconds = 0
		o.playCurrent()
		return
	}
	o.player.Seek(0)
	o.player.Play()
}

func (o *Orchestrator) tryNext(reason string) {
	s := o.session
	if s == nil {
		return
	}
	o.logger.Info("skipping reward candidate",
		"session_id", s.id,
		"video_id", s.videoID(),
		"candidate_index", s.index,
		"reason", reason,
	)
	o.record(store.ActionSkip, reason)

	s.index++
	s.startSeconds = 0
	if s.index >= len(s.candidates) {
		o.Abort(reason + " " + noticeFixConfig)
		return
	}
	o.notify(reason)
	o.playCurrent()
}

func (o *Orchestrator) consumeIfNeeded(s *session) {
	if s.consumed {
		return
	}
	ok, err := o.progress.Consume(o.ctx)
	if err != nil {
		o.logger.Warn("consume reward session failed", "session_id", s.id, "error", err)
	}
	s.consumed = true
	if ok {
		o.record(store.ActionConsume, "")
	}
	o.snapshot()
}

func (o *Orchestrator) startCountdown(s *session) {
	if o.countdown != nil {
		return
	}
	o.scheduleTick(s)
}

func (o *Orchestrator) scheduleTick(s *session) {
	o.countdown = o.sched.AfterFunc(o.opts.Tick, func() {
		if o.session != s {
			return
		}
		o.countdown = nil
		o.remaining--
		if o.remaining <= 0 {
			o.remaining = 0
			o.End()
			return
		}
		o.snapshot()
		o.scheduleTick(s)
	})
}

// finish is the one cleanup path for every way a session ends. It is a
// no-op without a live session.
func (o *Orchestrator) finish(final State, action, reason, notice string) {
	s := o.session
	if s == nil {
		return
	}

	pos := o.position()
	o.record(action, reason)

	stopTimer(&s.watchdog)
	stopTimer(&s.unmute)
	stopTimer(&o.countdown)
	o.lock.reset()
	o.readyWaiter = nil
	o.session = nil
	o.remaining = 0

	o.saveSnapshot(pos, reward.ActiveReward{})
	if o.player != nil && s.loaded {
		o.player.Stop()
	}

	if final == Aborted {
		o.logger.Warn("reward session aborted", "session_id", s.id, "reason", reason)
	} else {
		o.logger.Info("reward session ended", "session_id", s.id)
	}
	o.setState(final)
	o.notify(notice)
}

// position is where the live session would resume from.
func (o *Orchestrator) position() video.Position {
	s := o.session
	fallback := o.progress.State().Settings.YouTubeVideoID
	id := s.videoID()
	if id == "" {
		return video.NormalizePosition(video.Position{VideoID: fallback}, fallback)
	}
	secs := s.startSeconds
	if s.loaded && o.player != nil && o.playerReady {
		secs = int(o.player.CurrentTime())
	}
	return video.NormalizePosition(video.Position{VideoID: id, TimeSeconds: secs}, fallback)
}

// snapshot persists the bookmark and the in-flight reward so a reload can
// resume.
func (o *Orchestrator) snapshot() {
	s := o.session
	if s == nil {
		return
	}
	o.saveSnapshot(o.position(), reward.ActiveReward{
		InProgress:       true,
		RemainingSeconds: o.remaining,
		Consumed:         s.consumed,
	})
}

func (o *Orchestrator) saveSnapshot(pos video.Position, active reward.ActiveReward) {
	if err := o.progress.SaveSnapshot(o.ctx, pos, active); err != nil {
		o.logger.Warn("save reward snapshot failed", "error", err)
	}
}

func (o *Orchestrator) record(action, reason string) {
	s := o.session
	if s == nil {
		return
	}
	o.progress.RecordEvent(o.ctx, store.RewardEventData{
		SessionID:        s.id,
		Action:           action,
		VideoID:          s.videoID(),
		Reason:           reason,
		RemainingSeconds: o.remaining,
	})
}

func (o *Orchestrator) setState(next State) {
	if o.state == next {
		return
	}
	o.logger.Debug("reward state", "from", o.state.String(), "to", next.String(), "session_id", o.SessionID())
	o.state = next
}

func (o *Orchestrator) notify(msg string) {
	if msg == "" {
		return
	}
	o.notice = msg
	if o.notifier != nil {
		o.notifier(msg)
	}
}

func clampSeconds(v int) int {
	if v < 1 {
		return 1
	}
	if v > reward.MaxActiveSeconds {
		return reward.MaxActiveSeconds
	}
	return v
}
