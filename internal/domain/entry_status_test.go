package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestEntryStatusValuesMatchDatabaseConstraints(t *testing.T) {
	// CHECK (status IN ('pending', 'confirmed', 'cancelled'))
	valid := map[EntryStatus]bool{
		EntryStatusPending:   true,
		EntryStatusConfirmed: true,
		EntryStatusCancelled: true,
	}

	for status := range valid {
		if !status.IsValid() {
			t.Errorf("EntryStatus %q should be valid", status)
		}
	}
	if EntryStatus("archived").IsValid() {
		t.Error("unknown status should be invalid")
	}
}

func TestEntryStatusTransition(t *testing.T) {
	tests := []struct {
		from, to EntryStatus
		want     BalanceTransition
	}{
		{EntryStatusPending, EntryStatusConfirmed, TransitionApply},
		{EntryStatusCancelled, EntryStatusConfirmed, TransitionApply},
		{EntryStatusConfirmed, EntryStatusPending, TransitionReverse},
		{EntryStatusConfirmed, EntryStatusCancelled, TransitionReverse},
		{EntryStatusPending, EntryStatusCancelled, TransitionNone},
		{EntryStatusCancelled, EntryStatusPending, TransitionNone},
		{EntryStatusPending, EntryStatusPending, TransitionNone},
		{EntryStatusConfirmed, EntryStatusConfirmed, TransitionKeep},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.Transition(tt.to); got != tt.want {
				t.Errorf("Transition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntryStatusIsActive(t *testing.T) {
	if !EntryStatusPending.IsActive() || !EntryStatusConfirmed.IsActive() {
		t.Error("pending and confirmed entries should be active")
	}
	if EntryStatusCancelled.IsActive() {
		t.Error("cancelled entries should not be active")
	}
}

func testEntry(kind EntryKind, value string, accountID int32, status EntryStatus) *Entry {
	return &Entry{
		Kind:      kind,
		Value:     decimal.RequireFromString(value),
		AccountID: accountID,
		Status:    status,
	}
}

func TestBalanceDeltas(t *testing.T) {
	tests := []struct {
		name   string
		before *Entry
		after  *Entry
		want   map[int32]string
	}{
		{
			name:  "create confirmed income",
			after: testEntry(EntryKindIncome, "500", 1, EntryStatusConfirmed),
			want:  map[int32]string{1: "500"},
		},
		{
			name:  "create pending expense",
			after: testEntry(EntryKindExpense, "200", 1, EntryStatusPending),
			want:  map[int32]string{},
		},
		{
			name:   "delete confirmed expense",
			before: testEntry(EntryKindExpense, "200", 1, EntryStatusConfirmed),
			want:   map[int32]string{1: "200"},
		},
		{
			name:   "confirm pending expense",
			before: testEntry(EntryKindExpense, "80", 1, EntryStatusPending),
			after:  testEntry(EntryKindExpense, "80", 1, EntryStatusConfirmed),
			want:   map[int32]string{1: "-80"},
		},
		{
			name:   "cancel confirmed income",
			before: testEntry(EntryKindIncome, "80", 1, EntryStatusConfirmed),
			after:  testEntry(EntryKindIncome, "80", 1, EntryStatusCancelled),
			want:   map[int32]string{1: "-80"},
		},
		{
			name:   "change value of confirmed income",
			before: testEntry(EntryKindIncome, "100", 1, EntryStatusConfirmed),
			after:  testEntry(EntryKindIncome, "40", 1, EntryStatusConfirmed),
			want:   map[int32]string{1: "-60"},
		},
		{
			name:   "flip confirmed income to expense",
			before: testEntry(EntryKindIncome, "100", 1, EntryStatusConfirmed),
			after:  testEntry(EntryKindExpense, "100", 1, EntryStatusConfirmed),
			want:   map[int32]string{1: "-200"},
		},
		{
			name:   "move confirmed expense between accounts",
			before: testEntry(EntryKindExpense, "50", 1, EntryStatusConfirmed),
			after:  testEntry(EntryKindExpense, "50", 2, EntryStatusConfirmed),
			want:   map[int32]string{1: "50", 2: "-50"},
		},
		{
			name:   "unchanged confirmed entry",
			before: testEntry(EntryKindIncome, "10", 1, EntryStatusConfirmed),
			after:  testEntry(EntryKindIncome, "10", 1, EntryStatusConfirmed),
			want:   map[int32]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BalanceDeltas(tt.before, tt.after)
			if len(got) != len(tt.want) {
				t.Fatalf("BalanceDeltas() = %v, want %v", got, tt.want)
			}
			for id, want := range tt.want {
				if !got[id].Equal(decimal.RequireFromString(want)) {
					t.Errorf("delta for account %d = %s, want %s", id, got[id], want)
				}
			}
		})
	}
}

func TestTransferDeltasConserveTotal(t *testing.T) {
	transfer := &Transfer{SourceAccountID: 1, DestinationAccountID: 2, Value: decimal.RequireFromString("300")}

	deltas := transfer.Deltas()
	if !deltas[1].Equal(decimal.RequireFromString("-300")) {
		t.Errorf("source delta = %s, want -300", deltas[1])
	}
	if !deltas[1].Add(deltas[2]).IsZero() {
		t.Errorf("transfer legs should sum to zero, got %s", deltas[1].Add(deltas[2]))
	}
}

func TestSignedValue(t *testing.T) {
	if got := testEntry(EntryKindExpense, "12.34", 1, EntryStatusPending).SignedValue(); !got.Equal(decimal.RequireFromString("-12.34")) {
		t.Errorf("SignedValue() = %s, want -12.34", got)
	}
	if got := testEntry(EntryKindIncome, "12.34", 1, EntryStatusCancelled).BalanceEffect(); !got.IsZero() {
		t.Errorf("BalanceEffect() of cancelled entry = %s, want 0", got)
	}
}
