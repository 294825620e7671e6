package domain

import "context"

// Transactor runs fn inside a single storage transaction. Repository calls
// made with the ctx passed to fn take part in that transaction; if fn returns
// an error every write is rolled back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// RowLock is the strength of a storage row lock held until the end of the
// current transaction. Shared locks let entry writers proceed together while
// excluding a concurrent deactivation, which takes the exclusive lock.
type RowLock int

const (
	RowLockShared RowLock = iota
	RowLockExclusive
)
