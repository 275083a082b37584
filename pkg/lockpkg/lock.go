// Package lockpkg provides per-key mutual exclusion with context aware waiting.
package lockpkg

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"
)

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

// KeyedMutex serializes holders of the same key while different keys never contend.
//
// Entries are reference counted and dropped once no goroutine holds or waits
// for them, so the table only grows with the number of keys in use.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New returns an empty KeyedMutex.
func New() *KeyedMutex {
	return &KeyedMutex{entries: make(map[string]*entry)}
}

func (k *KeyedMutex) acquireRef(key string) *entry {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		k.entries[key] = e
	}
	e.refs++

	return e
}

func (k *KeyedMutex) releaseRef(key string, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
}

// Lock blocks until key is free or ctx is done. The returned func releases the key.
func (k *KeyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	e := k.acquireRef(key)

	if err := e.sem.Acquire(ctx, 1); err != nil {
		k.releaseRef(key, e)
		return nil, err
	}

	var once sync.Once

	return func() {
		once.Do(func() {
			e.sem.Release(1)
			k.releaseRef(key, e)
		})
	}, nil
}

// LockAll locks every distinct key in ascending order and returns a func
// releasing them all. Either all keys are held or none.
func (k *KeyedMutex) LockAll(ctx context.Context, keys ...string) (func(), error) {
	ordered := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))

	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		ordered = append(ordered, key)
	}

	// To avoid deadlocks acquire keys in a consistent order
	sort.Strings(ordered)

	unlocks := make([]func(), 0, len(ordered))
	unlockAll := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}

	for _, key := range ordered {
		unlock, err := k.Lock(ctx, key)
		if err != nil {
			unlockAll()
			return nil, err
		}

		unlocks = append(unlocks, unlock)
	}

	return unlockAll, nil
}

// Len returns the number of keys currently held or waited for.
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()

	return len(k.entries)
}
