// Package narration speaks prompts aloud. Utterances are fire-and-forget
// and cancelled as a group: every Say or Stop bumps a playback token, and
// an utterance whose token is stale is cancelled and its completion ignored.
package narration

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/abhisek/abcadventure/internal/config"
	"github.com/abhisek/abcadventure/internal/logging"
)

// Voice selects how text is spoken.
type Voice struct {
	Lang  string
	Rate  float64
	Pitch float64
}

// DefaultVoice is a slightly slow American English voice.
func DefaultVoice() Voice {
	return VoiceFromConfig(config.Default().Narration)
}

// VoiceFromConfig converts the [narration] config section.
func VoiceFromConfig(n config.Narration) Voice {
	return Voice{Lang: n.Lang, Rate: n.Rate, Pitch: n.Pitch}
}

// Speaker produces speech. Speak blocks until the utterance finishes or
// ctx is cancelled.
type Speaker interface {
	Speak(ctx context.Context, text string, voice Voice) error
}

// Silent is a Speaker that says nothing.
type Silent struct{}

func (Silent) Speak(context.Context, string, Voice) error { return nil }

// Narrator serializes narration onto a Speaker.
type Narrator struct {
	speaker Speaker
	voice   Voice
	logger  *slog.Logger

	mu     sync.Mutex
	token  uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Narrator. A nil speaker is Silent.
func New(speaker Speaker, voice Voice, logger *slog.Logger) *Narrator {
	if speaker == nil {
		speaker = Silent{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Narrator{speaker: speaker, voice: voice, logger: logger}
}

// Say cancels anything in flight and speaks text in the background with
// the default voice. done, if not nil, runs only when this utterance
// finishes while still current. It runs on the speech goroutine, so a UI
// caller must only post a message from it (tea.Program.Send), never touch
// model state.
func (n *Narrator) Say(text string, done func()) uint64 {
	return n.SayWith(text, n.voice, done)
}

// SayWith is Say with an explicit voice.
func (n *Narrator) SayWith(text string, voice Voice, done func()) uint64 {
	n.mu.Lock()
	token := n.bumpLocked()
	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel
	n.mu.Unlock()

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer cancel()
		err := n.speaker.Speak(ctx, text, voice)
		if err != nil && !errors.Is(err, context.Canceled) {
			n.logger.Warn("narration failed", "error", err)
		}
		if done != nil && n.Current(token) {
			done()
		}
	}()
	return token
}

// Stop cancels any utterance in flight.
func (n *Narrator) Stop() {
	n.mu.Lock()
	n.bumpLocked()
	n.mu.Unlock()
}

// Token returns the current playback token.
func (n *Narrator) Token() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.token
}

// Current reports whether token is still the latest.
func (n *Narrator) Current(token uint64) bool {
	return n.Token() == token
}

// Wait blocks until every background utterance has returned.
func (n *Narrator) Wait() {
	n.wg.Wait()
}

func (n *Narrator) bumpLocked() uint64 {
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
	n.token++
	return n.token
}
