package service

import (
	"sync"

	"github.com/google/uuid"
)

// sessionLocks serializes turn processing per session id. Two rapid
// retries on the same session run one after the other instead of
// interleaving their history reads and appends; different sessions never
// contend.
type sessionLocks struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{
		entries: make(map[uuid.UUID]*lockEntry),
	}
}

func (l *sessionLocks) lock(id uuid.UUID) {
	l.mu.Lock()
	entry, ok := l.entries[id]
	if !ok {
		entry = &lockEntry{}
		l.entries[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
}

func (l *sessionLocks) unlock(id uuid.UUID) {
	l.mu.Lock()
	entry := l.entries[id]
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, id)
	}
	l.mu.Unlock()

	entry.mu.Unlock()
}
