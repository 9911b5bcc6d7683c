package service

import "sync"

// keyMutex serializes mutating operations per telegram id. A double-tap on
// Claim from one user must not run two claim paths concurrently; updates
// for unrelated users stay independent. Entries are never evicted: one
// mutex per user the process has seen is cheap at this bot's scale.
type keyMutex struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newKeyMutex() *keyMutex {
	return &keyMutex{locks: make(map[int64]*sync.Mutex)}
}

func (k *keyMutex) Lock(id int64) {
	k.mu.Lock()
	l, ok := k.locks[id]
	if !ok {
		l = &sync.Mutex{}
		k.locks[id] = l
	}
	k.mu.Unlock()

	l.Lock()
}

func (k *keyMutex) Unlock(id int64) {
	k.mu.Lock()
	l := k.locks[id]
	k.mu.Unlock()

	l.Unlock()
}
