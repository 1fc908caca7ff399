package playback

// EventKind identifies a player event.
type EventKind int

const (
	EventReady EventKind = iota
	EventPlaying
	EventEnded
	EventError
	EventAutoplayBlocked
)

func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "ready"
	case EventPlaying:
		return "playing"
	case EventEnded:
		return "ended"
	case EventError:
		return "error"
	case EventAutoplayBlocked:
		return "autoplay_blocked"
	default:
		return "unknown"
	}
}

// Event is one notification from the player. Code is set for EventError.
type Event struct {
	Kind EventKind
	Code int
}

// EventSink receives player events. It must be called on the
// orchestrator's goroutine.
type EventSink func(Event)

// Player is the embedded video player capability. Readiness is signalled
// asynchronously with EventReady.
type Player interface {
	LoadVideo(id string, startSeconds int)
	Play()
	Pause()
	Stop()
	Seek(seconds int)
	Mute()
	Unmute()
	SetVolume(v int)
	CurrentTime() float64
}

// PlayerFactory creates the player. It is called at most once per
// successful readiness; a player that never becomes ready is discarded and
// the factory is called again on the next attempt.
type PlayerFactory func(sink EventSink) (Player, error)
