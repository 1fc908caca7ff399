package app

import (
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/abcadventure/internal/playback"
)

// callbackMsg carries a timer callback onto the Bubble Tea event loop so
// the orchestrator is only ever touched from Update.
type callbackMsg struct {
	fn func()
}

// loopScheduler implements playback.Scheduler on top of time.AfterFunc.
// Fired timers do not run their callback directly; they post it to the
// program, which runs it in Update.
type loopScheduler struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

var _ playback.Scheduler = (*loopScheduler)(nil)

// bind connects the scheduler to a running program.
func (s *loopScheduler) bind(send func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = send
}

func (s *loopScheduler) AfterFunc(d time.Duration, fn func()) playback.Timer {
	return time.AfterFunc(d, func() {
		s.mu.Lock()
		send := s.send
		s.mu.Unlock()
		if send != nil {
			send(callbackMsg{fn: fn})
		}
	})
}
