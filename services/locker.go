package services

import (
	"sync"
)

// EventLocker serializes mutations per event. Seat allocation reads the
// full invite list and writes the result back, so two concurrent mutations
// of the same event must not interleave; different events share nothing.
// One instance is shared by every service that mutates invites.
type EventLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEventLocker() *EventLocker {
	return &EventLocker{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for one event and returns its unlock func.
func (l *EventLocker) Lock(eventID string) func() {
	l.mu.Lock()
	lock, ok := l.locks[eventID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[eventID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
