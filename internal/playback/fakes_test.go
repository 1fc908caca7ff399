package playback

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abhisek/abcadventure/internal/progress"
	"github.com/abhisek/abcadventure/internal/store"
)

type fakeTimer struct {
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fakeScheduler is a manual clock. Advance fires due timers in order.
type fakeScheduler struct {
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.seq++
	t := &fakeTimer{at: s.now + d, seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		next := s.nextDue(target)
		if next == nil {
			break
		}
		s.now = next.at
		next.fired = true
		next.f()
	}
	s.now = target
}

func (s *fakeScheduler) nextDue(target time.Duration) *fakeTimer {
	var due []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}

func (s *fakeScheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type fakePlayer struct {
	sink   EventSink
	calls  []string
	loaded string
	time   float64
	muted  bool
	volume int
}

func (p *fakePlayer) LoadVideo(id string, start int) {
	p.loaded = id
	p.time = float64(start)
	p.calls = append(p.calls, fmt.Sprintf("load:%s@%d", id, start))
}
func (p *fakePlayer) Play()  { p.calls = append(p.calls, "play") }
func (p *fakePlayer) Pause() { p.calls = append(p.calls, "pause") }
func (p *fakePlayer) Stop()  { p.calls = append(p.calls, "stop") }
func (p *fakePlayer) Seek(t int) {
	p.time = float64(t)
	p.calls = append(p.calls, fmt.Sprintf("seek:%d", t))
}
func (p *fakePlayer) Mute() {
	p.muted = true
	p.calls = append(p.calls, "mute")
}
func (p *fakePlayer) Unmute() {
	p.muted = false
	p.calls = append(p.calls, "unmute")
}
func (p *fakePlayer) SetVolume(v int) {
	p.volume = v
	p.calls = append(p.calls, fmt.Sprintf("volume:%d", v))
}
func (p *fakePlayer) CurrentTime() float64 { return p.time }

func (p *fakePlayer) emit(kind EventKind) { p.sink(Event{Kind: kind}) }

func (p *fakePlayer) loads() []string {
	var out []string
	for _, c := range p.calls {
		if strings.HasPrefix(c, "load:") {
			out = append(out, strings.TrimPrefix(c, "load:"))
		}
	}
	return out
}

type fakeNarrator struct{ stops int }

func (n *fakeNarrator) Stop() { n.stops++ }

type harness struct {
	t          *testing.T
	ctx        context.Context
	store      *store.Store
	svc        *progress.Service
	sched      *fakeScheduler
	narrator   *fakeNarrator
	orch       *Orchestrator
	players    []*fakePlayer
	factoryErr error
	readyOnNew bool
	notices    []string
	ids        int
	opts       Options
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// newHarness builds an orchestrator over a real progress service with the
// given letters learned (default threshold 3).
func newHarness(t *testing.T, learned string) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		ctx:      context.Background(),
		store:    openTestStore(t),
		sched:    &fakeScheduler{},
		narrator: &fakeNarrator{},
		opts:     DefaultOptions(),
	}
	h.svc = progress.NewService(h.store.StateRepo(), h.store.EventRepo(), nil)
	require.NoError(t, h.svc.Load(h.ctx))
	for _, l := range learned {
		_, err := h.svc.LearnLetter(h.ctx, string(l))
		require.NoError(t, err)
	}
	h.orch = h.build()
	return h
}

func (h *harness) build() *Orchestrator {
	return New(h.ctx, Deps{
		Progress:  h.svc,
		Scheduler: h.sched,
		NewPlayer: h.newPlayer,
		Narrator:  h.narrator,
		Notify:    func(msg string) { h.notices = append(h.notices, msg) },
		NewID: func() string {
			h.ids++
			return fmt.Sprintf("session-%d", h.ids)
		},
		Options: h.opts,
	})
}

func (h *harness) newPlayer(sink EventSink) (Player, error) {
	if h.factoryErr != nil {
		return nil, h.factoryErr
	}
	p := &fakePlayer{sink: sink}
	h.players = append(h.players, p)
	if h.readyOnNew {
		sink(Event{Kind: EventReady})
	}
	return p, nil
}

func (h *harness) player() *fakePlayer {
	h.t.Helper()
	require.NotEmpty(h.t, h.players, "no player created")
	return h.players[len(h.players)-1]
}

// startPlaying starts a session, readies the player and reports playing.
func (h *harness) startPlaying() *fakePlayer {
	h.t.Helper()
	require.NoError(h.t, h.orch.Start(TriggerManual))
	p := h.player()
	p.emit(EventReady)
	p.emit(EventPlaying)
	return p
}

func (h *harness) events() []store.RewardEventRecord {
	h.t.Helper()
	events, err := h.svc.Events(h.ctx, store.QueryOpts{})
	require.NoError(h.t, err)
	// Oldest first reads better in assertions.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events
}

func (h *harness) actions() []string {
	var out []string
	for _, e := range h.events() {
		out = append(out, e.Action)
	}
	return out
}
