// Package keyedlock provides a mutex registry keyed by string. It is used to
// serialize tag recalculation per customer so that two concurrent
// recalculations cannot interleave their read-evaluate-write cycles and
// overwrite a newer tag state with an older one.
package keyedlock

import "sync"

// KeyedLock hands out one mutex per key. Entries are reference-counted and
// released once the last holder unlocks, so the registry does not grow with
// the number of distinct keys seen over the process lifetime.
type KeyedLock struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedLock creates an empty lock registry.
func NewKeyedLock() *KeyedLock {
	return &KeyedLock{
		locks: make(map[string]*entry),
	}
}

// Lock acquires the mutex for key, blocking until it is available.
func (k *KeyedLock) Lock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for key. It must be called exactly once per Lock.
func (k *KeyedLock) Unlock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if ok {
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
	}
	k.mu.Unlock()

	if ok {
		e.mu.Unlock()
	}
}
