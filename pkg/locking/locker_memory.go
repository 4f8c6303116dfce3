package locking

import (
	"context"
	"sync"
	"time"
)

// LockerMemory serializes callers per key within a single process. The ttl
// only bounds distributed locks, a local mutex is always released by its
// caller, so it is ignored here.
type LockerMemory struct {
	locks sync.Map
}

// NewLockerMemory builds a new LockerMemory instance
func NewLockerMemory() *LockerMemory {
	return &LockerMemory{}
}

// Acquire blocks until the key's mutex is free and takes it
func (l *LockerMemory) Acquire(_ context.Context, key string, _ time.Duration) (LockInterface, error) {
	lock, _ := l.locks.LoadOrStore(key, &sync.Mutex{})
	mutex := lock.(*sync.Mutex)
	mutex.Lock()

	return &LockMemory{
		key:     key,
		release: mutex.Unlock,
	}, nil
}

// LockMemory is a memory implementation of a LockInterface
type LockMemory struct {
	key     string
	release func()
}

// Key returns a key
func (l *LockMemory) Key() string {
	return l.key
}

// Release releases a LockMemory
func (l *LockMemory) Release(_ context.Context) error {
	l.release()
	return nil
}
