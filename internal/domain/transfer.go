package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Transfer moves value between two accounts of the same workspace. Both legs
// exist only together.
type Transfer struct {
	ID                   int32           `json:"id"`
	WorkspaceID          int32           `json:"workspaceId"`
	SourceAccountID      int32           `json:"sourceAccountId"`
	DestinationAccountID int32           `json:"destinationAccountId"`
	Value                decimal.Decimal `json:"value"`
	Date                 time.Time       `json:"date"`
	Description          string          `json:"description"`
	CreatedAt            time.Time       `json:"createdAt"`

	// Populated by list queries
	SourceAccountName      string `json:"sourceAccountName,omitempty"`
	DestinationAccountName string `json:"destinationAccountName,omitempty"`
}

// Deltas returns the balance change of each leg
func (t *Transfer) Deltas() map[int32]decimal.Decimal {
	return map[int32]decimal.Decimal{
		t.SourceAccountID:      t.Value.Neg(),
		t.DestinationAccountID: t.Value,
	}
}

type TransferFilters struct {
	AccountID *int32
	StartDate *time.Time
	EndDate   *time.Time
}

// AccountTransferTotals is the net transfer movement of an account
type AccountTransferTotals struct {
	AccountID int32           `json:"accountId"`
	In        decimal.Decimal `json:"in"`
	Out       decimal.Decimal `json:"out"`
}

type TransferRepository interface {
	Create(ctx context.Context, transfer *Transfer) (*Transfer, error)
	GetByID(ctx context.Context, workspaceID int32, id int32) (*Transfer, error)
	GetByIDForUpdate(ctx context.Context, workspaceID int32, id int32) (*Transfer, error)
	List(ctx context.Context, workspaceID int32, filters *TransferFilters) ([]*Transfer, error)
	Delete(ctx context.Context, workspaceID int32, id int32) error
	SumByAccount(ctx context.Context, workspaceID int32) ([]*AccountTransferTotals, error)
}
