package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type EntryKind string

const (
	EntryKindIncome  EntryKind = "income"
	EntryKindExpense EntryKind = "expense"
)

// IsValid reports whether k is a known entry kind
func (k EntryKind) IsValid() bool {
	return k == EntryKindIncome || k == EntryKindExpense
}

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodPix      PaymentMethod = "pix"
	PaymentMethodBoleto   PaymentMethod = "boleto"
	PaymentMethodCheck    PaymentMethod = "check"
)

// IsValid reports whether m is a known payment method
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCard,
		PaymentMethodPix, PaymentMethodBoleto, PaymentMethodCheck:
		return true
	}
	return false
}

type Entry struct {
	ID            int32           `json:"id"`
	WorkspaceID   int32           `json:"workspaceId"`
	Kind          EntryKind       `json:"kind"`
	Description   string          `json:"description"`
	Value         decimal.Decimal `json:"value"`
	Date          time.Time       `json:"date"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	CategoryID    int32           `json:"categoryId"`
	SubcategoryID *int32          `json:"subcategoryId,omitempty"`
	AccountID     int32           `json:"accountId"`
	Status        EntryStatus     `json:"status"`
	Recurring     bool            `json:"recurring"`
	Notes         *string         `json:"notes,omitempty"`
	ReceiptKey    *string         `json:"receiptKey,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	// Populated by list queries
	CategoryName    string  `json:"categoryName,omitempty"`
	SubcategoryName *string `json:"subcategoryName,omitempty"`
	AccountName     string  `json:"accountName,omitempty"`
}

// SignedValue returns the value with the sign implied by the kind:
// positive for income, negative for expense.
func (e *Entry) SignedValue() decimal.Decimal {
	if e.Kind == EntryKindExpense {
		return e.Value.Neg()
	}
	return e.Value
}

// BalanceEffect returns the delta this entry contributes to its account.
// Only confirmed entries have an effect.
func (e *Entry) BalanceEffect() decimal.Decimal {
	if !e.Status.AffectsBalance() {
		return decimal.Zero
	}
	return e.SignedValue()
}

type EntryFilters struct {
	StartDate     *time.Time
	EndDate       *time.Time
	CategoryID    *int32
	SubcategoryID *int32
	AccountID     *int32
	Kind          *EntryKind
	Status        *EntryStatus
	PaymentMethod *PaymentMethod
	Search        string
	Page          int32
	PageSize      int32
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PaginatedEntries struct {
	Data       []*Entry `json:"data"`
	Page       int32    `json:"page"`
	PageSize   int32    `json:"pageSize"`
	TotalItems int64    `json:"totalItems"`
	TotalPages int32    `json:"totalPages"`
}

// KindTotals holds confirmed income and expense sums for a period
type KindTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// CategoryTotal is the confirmed amount moved through a category
type CategoryTotal struct {
	CategoryID   int32           `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Kind         CategoryKind    `json:"kind"`
	Color        string          `json:"color"`
	Total        decimal.Decimal `json:"total"`
	EntryCount   int64           `json:"entryCount"`
}

// AccountMovement is the confirmed income and expense of an account
type AccountMovement struct {
	AccountID int32           `json:"accountId"`
	Income    decimal.Decimal `json:"income"`
	Expense   decimal.Decimal `json:"expense"`
}

// MonthlyKindTotals holds confirmed totals for one calendar month
type MonthlyKindTotals struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

type EntryRepository interface {
	Create(ctx context.Context, entry *Entry) (*Entry, error)
	GetByID(ctx context.Context, workspaceID int32, id int32) (*Entry, error)
	// GetByIDForUpdate loads the entry and locks its row for the rest of the
	// current transaction.
	GetByIDForUpdate(ctx context.Context, workspaceID int32, id int32) (*Entry, error)
	List(ctx context.Context, workspaceID int32, filters *EntryFilters) (*PaginatedEntries, error)
	ListAll(ctx context.Context, workspaceID int32, filters *EntryFilters) ([]*Entry, error)
	Update(ctx context.Context, entry *Entry) (*Entry, error)
	SetReceiptKey(ctx context.Context, workspaceID int32, id int32, key *string) (*Entry, error)
	Delete(ctx context.Context, workspaceID int32, id int32) error

	// Aggregates over confirmed entries, date range inclusive
	SumByKind(ctx context.Context, workspaceID int32, start, end time.Time) (*KindTotals, error)
	SumByCategory(ctx context.Context, workspaceID int32, start, end time.Time, kind *EntryKind) ([]*CategoryTotal, error)
	SumByAccount(ctx context.Context, workspaceID int32, start, end *time.Time) ([]*AccountMovement, error)
	SumByMonth(ctx context.Context, workspaceID int32, start, end time.Time) ([]*MonthlyKindTotals, error)
}
