package sheet

import (
	"sync"

	"github.com/louisbranch/rollkeeper/internal/sheet/storage"
)

type ownerLock struct {
	// refcount counts holders and waiters; the entry is removed at zero.
	refcount uint
	mu       sync.Mutex
}

// ownerLocks serializes sheet access per owner.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[storage.Owner]*ownerLock
}

// lock blocks until owner's lock is held and returns its release function.
func (l *ownerLocks) lock(owner storage.Owner) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = map[storage.Owner]*ownerLock{}
	}
	entry, ok := l.locks[owner]
	if !ok {
		entry = &ownerLock{}
		l.locks[owner] = entry
	}
	entry.refcount++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		entry.refcount--
		entry.mu.Unlock()
		if entry.refcount == 0 {
			delete(l.locks, owner)
		}
	}
}

func (l *ownerLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
