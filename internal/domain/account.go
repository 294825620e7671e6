package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type AccountKind string

const (
	AccountKindBank  AccountKind = "bank"
	AccountKindCash  AccountKind = "cash"
	AccountKindPix   AccountKind = "pix"
	AccountKindOther AccountKind = "other"
)

// IsValid reports whether k is a known account kind
func (k AccountKind) IsValid() bool {
	switch k {
	case AccountKindBank, AccountKindCash, AccountKindPix, AccountKindOther:
		return true
	}
	return false
}

// Account is a money-holding ledger. Balance changes only through
// AccountRepository.ApplyDelta once the account exists.
type Account struct {
	ID             int32           `json:"id"`
	WorkspaceID    int32           `json:"workspaceId"`
	Name           string          `json:"name"`
	Kind           AccountKind     `json:"kind"`
	Bank           *string         `json:"bank,omitempty"`
	Branch         *string         `json:"branch,omitempty"`
	AccountNumber  *string         `json:"accountNumber,omitempty"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Balance        decimal.Decimal `json:"balance"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// AccountMetadata holds the user-editable fields of an account
type AccountMetadata struct {
	Name          string
	Kind          AccountKind
	Bank          *string
	Branch        *string
	AccountNumber *string
}

// AccountReferences counts the records pointing at an account
type AccountReferences struct {
	PendingEntries int64
	TotalEntries   int64
	OpenTransfers  int64
	TotalTransfers int64
}

type AccountRepository interface {
	Create(ctx context.Context, account *Account) (*Account, error)
	GetByID(ctx context.Context, workspaceID int32, id int32) (*Account, error)
	GetAllByWorkspace(ctx context.Context, workspaceID int32, includeInactive bool) ([]*Account, error)
	UpdateMetadata(ctx context.Context, workspaceID int32, id int32, data *AccountMetadata) (*Account, error)
	SetActive(ctx context.Context, workspaceID int32, id int32, active bool) (*Account, error)
	Delete(ctx context.Context, workspaceID int32, id int32) error
	CountReferences(ctx context.Context, workspaceID int32, id int32, asOf time.Time) (*AccountReferences, error)
	// LockForUpdate acquires storage-level row locks on the accounts, in
	// ascending id order, for the remainder of the current transaction.
	LockForUpdate(ctx context.Context, workspaceID int32, ids []int32) error
	// ApplyDelta adds a signed amount to the stored balance and returns the
	// updated account. It must only be called inside a transaction that holds
	// the account lock.
	ApplyDelta(ctx context.Context, workspaceID int32, id int32, delta decimal.Decimal) (*Account, error)
}
