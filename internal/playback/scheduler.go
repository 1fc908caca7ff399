package playback

import "time"

// Timer is a cancellable pending callback.
type Timer interface {
	// Stop prevents the callback from running if it has not yet started.
	Stop() bool
}

// Scheduler runs f once after d, on the orchestrator's goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, f func()) Timer

func (fn SchedulerFunc) AfterFunc(d time.Duration, f func()) Timer {
	return fn(d, f)
}

func stopTimer(t *Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}
