package domain

import "github.com/shopspring/decimal"

type EntryStatus string

const (
	EntryStatusPending   EntryStatus = "pending"
	EntryStatusConfirmed EntryStatus = "confirmed"
	EntryStatusCancelled EntryStatus = "cancelled"
)

// IsValid reports whether s is a known entry status
func (s EntryStatus) IsValid() bool {
	switch s {
	case EntryStatusPending, EntryStatusConfirmed, EntryStatusCancelled:
		return true
	}
	return false
}

// AffectsBalance reports whether entries in this status move account balances
// and count towards statistics.
func (s EntryStatus) AffectsBalance() bool {
	return s == EntryStatusConfirmed
}

// IsActive reports whether the entry still counts as a live reference for
// deactivation guards.
func (s EntryStatus) IsActive() bool {
	return s == EntryStatusPending || s == EntryStatusConfirmed
}

// BalanceTransition describes what a status change does to balances.
type BalanceTransition int

const (
	TransitionNone    BalanceTransition = iota // no balance effect before or after
	TransitionApply                            // entering confirmed
	TransitionReverse                          // leaving confirmed
	TransitionKeep                             // confirmed before and after
)

// Transition returns the balance transition from s to next. Every pair of
// states is reachable; only crossing the confirmed boundary changes balances.
func (s EntryStatus) Transition(next EntryStatus) BalanceTransition {
	switch {
	case s.AffectsBalance() && next.AffectsBalance():
		return TransitionKeep
	case next.AffectsBalance():
		return TransitionApply
	case s.AffectsBalance():
		return TransitionReverse
	}
	return TransitionNone
}

// BalanceDeltas computes the per-account deltas needed to move from the
// before state of an entry to the after state. A nil before means creation and
// a nil after means deletion. Zero deltas are omitted.
func BalanceDeltas(before, after *Entry) map[int32]decimal.Decimal {
	deltas := make(map[int32]decimal.Decimal)
	if before != nil {
		if effect := before.BalanceEffect(); !effect.IsZero() {
			deltas[before.AccountID] = deltas[before.AccountID].Sub(effect)
		}
	}
	if after != nil {
		if effect := after.BalanceEffect(); !effect.IsZero() {
			deltas[after.AccountID] = deltas[after.AccountID].Add(effect)
		}
	}
	for id, d := range deltas {
		if d.IsZero() {
			delete(deltas, id)
		}
	}
	return deltas
}
