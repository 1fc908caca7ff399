package playback

// Parent controls. Each one is refused (returns false) unless a session
// is playing and the parental lock is open.

func (o *Orchestrator) controlsOpen() bool {
	s := o.session
	return s != nil && s.loaded && o.lock.state == Unlocked && o.player != nil
}

// TogglePause pauses or resumes the video. The countdown keeps running.
func (o *Orchestrator) TogglePause() bool {
	if !o.controlsOpen() {
		return false
	}
	s := o.session
	if s.paused {
		o.player.Play()
	} else {
		o.player.Pause()
	}
	s.paused = !s.paused
	return true
}

// Paused reports whether a parent paused the video.
func (o *Orchestrator) Paused() bool {
	return o.session != nil && o.session.paused
}

// SeekBy moves the playhead by delta seconds, never before 0.
func (o *Orchestrator) SeekBy(delta int) bool {
	if !o.controlsOpen() {
		return false
	}
	t := int(o.player.CurrentTime()) + delta
	if t < 0 {
		t = 0
	}
	o.player.Seek(t)
	return true
}

// Exit ends the session early.
func (o *Orchestrator) Exit() bool {
	if o.session == nil || o.lock.state != Unlocked {
		return false
	}
	o.End()
	return true
}
