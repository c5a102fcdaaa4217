package processor

import "sync"

// noteLocks serializes read-modify-write cycles per note. Entries are
// removed when no goroutine holds or waits for them.
type noteLocks struct {
	mu    sync.Mutex
	locks map[string]*noteLock
}

type noteLock struct {
	mu   sync.Mutex
	refs int
}

func newNoteLocks() *noteLocks {
	return &noteLocks{locks: make(map[string]*noteLock)}
}

// lock blocks until relPath is free and returns the matching unlock function.
func (l *noteLocks) lock(relPath string) func() {
	l.mu.Lock()
	nl, ok := l.locks[relPath]
	if !ok {
		nl = &noteLock{}
		l.locks[relPath] = nl
	}
	nl.refs++
	l.mu.Unlock()

	nl.mu.Lock()
	return func() {
		nl.mu.Unlock()
		l.mu.Lock()
		nl.refs--
		if nl.refs == 0 {
			delete(l.locks, relPath)
		}
		l.mu.Unlock()
	}
}

func (l *noteLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
