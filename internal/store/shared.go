// ABOUTME: Process-wide lazily opened store for callers that need global access
// ABOUTME: Double-checked locking: atomic fast path, mutex only while uninitialized

package store

import (
	"sync"
	"sync/atomic"
)

var (
	sharedMu    sync.Mutex
	sharedStore atomic.Pointer[SQLiteStore]
)

// Shared returns the process-wide store, opening it on first use. Every caller,
// concurrent or not, gets the same *SQLiteStore; only the first successful
// caller's opts take effect. If opening fails nothing is cached and the next
// call tries again.
//
// Prefer NewSQLiteStore and passing the store explicitly. Shared exists for
// entry points that have no other way to reach it.
func Shared(opts Options) (*SQLiteStore, error) {
	if s := sharedStore.Load(); s != nil {
		return s, nil
	}

	sharedMu.Lock()
	defer sharedMu.Unlock()

	if s := sharedStore.Load(); s != nil {
		return s, nil
	}

	s, err := NewSQLiteStore(opts)
	if err != nil {
		return nil, err
	}
	sharedStore.Store(s)
	return s, nil
}

// CloseShared closes the shared store, if one was opened, and resets the
// accessor so a later Shared call opens a fresh one.
func CloseShared() error {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	s := sharedStore.Swap(nil)
	if s == nil {
		return nil
	}
	return s.Close()
}
