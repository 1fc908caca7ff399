// Package player provides a terminal stand-in for the embedded video
// player. It plays nothing; it keeps a playhead and reports the same
// events a real embed would, on the caller's scheduler.
package player

import (
	"time"

	"github.com/abhisek/abcadventure/internal/config"
	"github.com/abhisek/abcadventure/internal/playback"
	"github.com/abhisek/abcadventure/internal/video"
)

const (
	readyDelay = 250 * time.Millisecond
	startDelay = 400 * time.Millisecond

	// errNotEmbeddable matches the embed API's "owner disallows embedding".
	errNotEmbeddable = 150
)

// Options configures the simulated clips.
type Options struct {
	// Clip is how long each video plays before reporting ended.
	Clip time.Duration
	// Blocked videos fail with an embedding error.
	Blocked []string
	// AutoplayBlocked rejects the first play after every load.
	AutoplayBlocked bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// OptionsFromConfig converts the [player] config section.
func OptionsFromConfig(p config.Player) Options {
	return Options{
		Clip:            time.Duration(p.ClipSeconds) * time.Second,
		Blocked:         p.BlockedVideos,
		AutoplayBlocked: p.AutoplayBlocked,
	}
}

// Sim is a simulated player.
type Sim struct {
	sched   playback.Scheduler
	sink    playback.EventSink
	opts    Options
	blocked map[string]bool

	videoID   string
	offset    float64
	since     time.Time
	played    time.Duration
	playing   bool
	pending   bool
	unblocked bool
	muted     bool
	volume    int
	gen       int
	timer     playback.Timer
}

// NewFactory returns a PlayerFactory that builds Sims on sched. Each Sim
// reports ready shortly after creation.
func NewFactory(sched playback.Scheduler, opts Options) playback.PlayerFactory {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	blocked := make(map[string]bool, len(opts.Blocked))
	for _, raw := range opts.Blocked {
		if id := video.ParseID(raw); id != "" {
			blocked[id] = true
		}
	}
	return func(sink playback.EventSink) (playback.Player, error) {
		s := &Sim{
			sched:   sched,
			sink:    sink,
			opts:    opts,
			blocked: blocked,
			volume:  100,
		}
		sched.AfterFunc(readyDelay, func() {
			sink(playback.Event{Kind: playback.EventReady})
		})
		return s, nil
	}
}

// LoadVideo cues id at startSeconds. Playback begins on Play.
func (s *Sim) LoadVideo(id string, startSeconds int) {
	s.halt()
	s.videoID = id
	s.offset = float64(startSeconds)
	s.played = 0
	s.unblocked = !s.opts.AutoplayBlocked
}

// Play starts or resumes the cued video.
func (s *Sim) Play() {
	if s.videoID == "" || s.playing || s.pending {
		return
	}
	gen := s.gen
	if s.blocked[s.videoID] {
		s.pending = true
		s.after(startDelay, gen, func() {
			s.pending = false
			s.sink(playback.Event{Kind: playback.EventError, Code: errNotEmbeddable})
		})
		return
	}
	if !s.unblocked {
		// A muted retry is allowed through.
		s.unblocked = true
		s.sink(playback.Event{Kind: playback.EventAutoplayBlocked})
		return
	}

	s.pending = true
	s.after(startDelay, gen, func() {
		s.pending = false
		s.playing = true
		s.since = s.opts.Now()
		s.scheduleEnd()
		s.sink(playback.Event{Kind: playback.EventPlaying})
	})
}

// Pause freezes the playhead.
func (s *Sim) Pause() {
	if !s.playing {
		return
	}
	s.offset = s.CurrentTime()
	s.played += s.opts.Now().Sub(s.since)
	s.halt()
}

// Stop halts playback and keeps the playhead.
func (s *Sim) Stop() {
	if s.playing {
		s.offset = s.CurrentTime()
	}
	s.halt()
}

// Seek moves the playhead. Seeking restarts the clip budget.
func (s *Sim) Seek(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	wasPlaying := s.playing
	s.halt()
	s.offset = float64(seconds)
	s.played = 0
	if wasPlaying {
		s.playing = true
		s.since = s.opts.Now()
		s.scheduleEnd()
	}
}

func (s *Sim) Mute()           { s.muted = true }
func (s *Sim) Unmute()         { s.muted = false }
func (s *Sim) SetVolume(v int) { s.volume = v }

// Muted reports the mute state.
func (s *Sim) Muted() bool { return s.muted }

// Volume returns the volume, 0 to 100.
func (s *Sim) Volume() int { return s.volume }

// VideoID returns the cued video.
func (s *Sim) VideoID() string { return s.videoID }

// Playing reports whether the playhead is moving.
func (s *Sim) Playing() bool { return s.playing }

// CurrentTime returns the playhead in seconds.
func (s *Sim) CurrentTime() float64 {
	if !s.playing {
		return s.offset
	}
	return s.offset + s.opts.Now().Sub(s.since).Seconds()
}

func (s *Sim) scheduleEnd() {
	remaining := s.opts.Clip - s.played
	if remaining <= 0 {
		remaining = time.Millisecond
	}
	s.after(remaining, s.gen, func() {
		s.offset = s.CurrentTime()
		s.playing = false
		s.played = s.opts.Clip
		s.sink(playback.Event{Kind: playback.EventEnded})
	})
}

// after runs f unless the player moved on (load, stop, pause, seek) first.
func (s *Sim) after(d time.Duration, gen int, f func()) {
	s.timer = s.sched.AfterFunc(d, func() {
		if gen != s.gen {
			return
		}
		s.timer = nil
		f()
	})
}

func (s *Sim) halt() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.playing = false
	s.pending = false
}
