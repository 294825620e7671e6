package service

import (
	"slices"
	"sync"
)

// AccountLocker serializes balance mutations per account within this process.
// Locks are always taken in ascending account id order so two operations
// touching the same pair of accounts cannot deadlock.
type AccountLocker struct {
	mu    sync.Mutex
	locks map[accountKey]*accountLock
}

type accountKey struct {
	workspaceID int32
	accountID   int32
}

type accountLock struct {
	mu   sync.Mutex
	refs int
}

// NewAccountLocker creates a new AccountLocker
func NewAccountLocker() *AccountLocker {
	return &AccountLocker{locks: make(map[accountKey]*accountLock)}
}

// Lock blocks until every listed account is held and returns the function
// that releases them. Duplicate ids are locked once.
func (l *AccountLocker) Lock(workspaceID int32, accountIDs ...int32) (unlock func()) {
	ids := slices.Clone(accountIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	held := make([]*accountLock, 0, len(ids))
	for _, id := range ids {
		lock := l.acquire(accountKey{workspaceID: workspaceID, accountID: id})
		lock.mu.Lock()
		held = append(held, lock)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(held) - 1; i >= 0; i-- {
				held[i].mu.Unlock()
				l.release(accountKey{workspaceID: workspaceID, accountID: ids[i]})
			}
		})
	}
}

func (l *AccountLocker) acquire(key accountKey) *accountLock {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[key]
	if !ok {
		lock = &accountLock{}
		l.locks[key] = lock
	}
	lock.refs++
	return lock
}

func (l *AccountLocker) release(key accountKey) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[key]
	if !ok {
		return
	}
	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, key)
	}
}

// size returns the number of tracked account locks
func (l *AccountLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
