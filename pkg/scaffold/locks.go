package scaffold

import "sync"

// targetLocks serializes requests that write the same file.
type targetLocks struct {
	mu    sync.Mutex
	locks map[string]*targetLock
}

type targetLock struct {
	sync.Mutex
	waiters int
}

// lock blocks until path is free and returns the matching unlock.
func (t *targetLocks) lock(path string) func() {
	t.mu.Lock()
	if t.locks == nil {
		t.locks = make(map[string]*targetLock)
	}
	l, ok := t.locks[path]
	if !ok {
		l = &targetLock{}
		t.locks[path] = l
	}
	l.waiters++
	t.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		t.mu.Lock()
		l.waiters--
		if l.waiters == 0 {
			delete(t.locks, path)
		}
		t.mu.Unlock()
	}
}
