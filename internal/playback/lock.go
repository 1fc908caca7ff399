package playback

import (
	"fmt"

	"github.com/abhisek/abcadventure/internal/reward"
)

// LockState is the parental lock over the playback controls.
type LockState int

const (
	// Locked is the default for every session.
	Locked LockState = iota
	// Holding means the lock button is pressed and the hold timer runs.
	Holding
	// PromptingPIN means the hold completed and the PIN prompt is open.
	PromptingPIN
	// Unlocked gives the parent pause, seek and exit.
	Unlocked
)

func (l LockState) String() string {
	switch l {
	case Locked:
		return "locked"
	case Holding:
		return "holding"
	case PromptingPIN:
		return "prompting_pin"
	case Unlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}

// noPointer marks that no pointer is captured.
const noPointer = -1

type lock struct {
	state         LockState
	hold          Timer
	pointer       int
	suppressClick bool
	// gen changes whenever a hold starts or ends. A fired hold callback
	// that was already queued compares it before acting.
	gen int
}

func newLock() lock {
	return lock{pointer: noPointer}
}

// reset cancels any hold and relocks.
func (l *lock) reset() {
	stopTimer(&l.hold)
	gen := l.gen + 1
	*l = newLock()
	l.gen = gen
}

// PressLock starts the hold gesture with the given pointer. It does nothing
// unless a session is active and the controls are locked.
func (o *Orchestrator) PressLock(pointer int) {
	s := o.session
	if s == nil || (o.lock.state != Locked && o.lock.state != Holding) {
		return
	}

	o.cancelHold(noPointer)
	o.lock.gen++
	gen := o.lock.gen
	o.lock.state = Holding
	o.lock.pointer = pointer
	o.lock.hold = o.sched.AfterFunc(o.opts.LockHold, func() {
		if o.session != s || o.lock.gen != gen || o.lock.state != Holding {
			return
		}
		o.lock.hold = nil
		o.lock.pointer = noPointer
		o.lock.state = Locked
		o.lock.suppressClick = true
		o.requestToggleLock()
	})
}

// ReleaseLock ends a press. Released before the hold completes, nothing
// unlocks. A release from a pointer other than the captured one is ignored.
func (o *Orchestrator) ReleaseLock(pointer int) {
	o.cancelHold(pointer)
}

// CancelLock handles a cancelled pointer the same way as an early release.
func (o *Orchestrator) CancelLock(pointer int) {
	o.cancelHold(pointer)
}

// ClickLock handles a tap on the lock button. The tap that ends a completed
// hold is swallowed; a tap while unlocked relocks.
func (o *Orchestrator) ClickLock() {
	if o.session == nil {
		return
	}
	if o.lock.suppressClick {
		o.lock.suppressClick = false
		return
	}
	switch o.lock.state {
	case Unlocked:
		o.requestToggleLock()
		return
	case PromptingPIN:
		return
	}
	o.notify(fmt.Sprintf("Press and hold for %d seconds to unlock.", int(o.opts.LockHold.Seconds())))
}

// SubmitPIN checks the PIN typed into the unlock prompt. A wrong PIN keeps
// the prompt open.
func (o *Orchestrator) SubmitPIN(input string) error {
	if o.session == nil || o.lock.state != PromptingPIN {
		return ErrNoPINPrompt
	}
	if err := reward.VerifyPIN(o.progress.State().Settings, input); err != nil {
		o.notify("Wrong PIN. Please ask a parent to try again.")
		return err
	}
	o.lock.state = Unlocked
	o.logger.Info("reward controls unlocked", "session_id", o.session.id)
	o.notify("A parent unlocked the controls.")
	return nil
}

// DismissPIN closes the unlock prompt and stays locked.
func (o *Orchestrator) DismissPIN() {
	if o.lock.state == PromptingPIN {
		o.lock.state = Locked
	}
}

// LockState returns the current lock state.
func (o *Orchestrator) LockState() LockState {
	return o.lock.state
}

// PINPurpose reports which prompt is open, if any.
func (o *Orchestrator) PINPurpose() (reward.PINPurpose, bool) {
	if o.lock.state == PromptingPIN {
		return reward.PurposeRewardUnlock, true
	}
	return "", false
}

func (o *Orchestrator) requestToggleLock() {
	if o.session == nil {
		return
	}
	if o.lock.state == Unlocked {
		o.lock.state = Locked
		o.notify("Playback controls are locked again.")
		return
	}
	if o.narrator != nil {
		o.narrator.Stop()
	}
	o.lock.state = PromptingPIN
}

func (o *Orchestrator) cancelHold(pointer int) {
	if pointer != noPointer && o.lock.pointer != noPointer && pointer != o.lock.pointer {
		return
	}
	stopTimer(&o.lock.hold)
	o.lock.gen++
	o.lock.pointer = noPointer
	if o.lock.state == Holding {
		o.lock.state = Locked
	}
}
