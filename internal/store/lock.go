package store

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the session lock.
var ErrLocked = errors.New("another reward session is already running")

// SessionLock guards a database against concurrent reward sessions from
// separate processes.
type SessionLock struct {
	fl *flock.Flock
}

// AcquireSessionLock takes an exclusive, non-blocking lock next to dbPath.
func AcquireSessionLock(dbPath string) (*SessionLock, error) {
	fl := flock.New(dbPath + ".lock")
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", fl.Path(), err)
	}
	if !locked {
		return nil, ErrLocked
	}
	return &SessionLock{fl: fl}, nil
}

// Release drops the lock. Safe to call on nil.
func (l *SessionLock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
