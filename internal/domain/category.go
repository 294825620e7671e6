package domain

import (
	"context"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

var colorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type CategoryKind string

const (
	CategoryKindIncome  CategoryKind = "income"
	CategoryKindExpense CategoryKind = "expense"
)

// IsValid reports whether k is a known category kind
func (k CategoryKind) IsValid() bool {
	return k == CategoryKindIncome || k == CategoryKindExpense
}

// IsValidColor reports whether color is a #RRGGBB hex string
func IsValidColor(color string) bool {
	return colorRegex.MatchString(color)
}

type Category struct {
	ID            int32            `json:"id"`
	WorkspaceID   int32            `json:"workspaceId"`
	Name          string           `json:"name"`
	Kind          CategoryKind     `json:"kind"`
	Color         string           `json:"color"`
	MonthlyBudget *decimal.Decimal `json:"monthlyBudget,omitempty"`
	Active        bool             `json:"active"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// HasBudget reports whether a positive monthly budget is configured
func (c *Category) HasBudget() bool {
	return c.MonthlyBudget != nil && c.MonthlyBudget.IsPositive()
}

type Subcategory struct {
	ID          int32     `json:"id"`
	WorkspaceID int32     `json:"workspaceId"`
	CategoryID  int32     `json:"categoryId"`
	Name        string    `json:"name"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CategoryFilters struct {
	Kind   *CategoryKind
	Active *bool
}

// CategoryReferences counts the records pointing at a category
type CategoryReferences struct {
	ActiveEntries       int64
	TotalEntries        int64
	ActiveSubcategories int64
	TotalSubcategories  int64
}

type CategoryRepository interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	GetByID(ctx context.Context, workspaceID int32, id int32) (*Category, error)
	List(ctx context.Context, workspaceID int32, filters *CategoryFilters) ([]*Category, error)
	Update(ctx context.Context, category *Category) (*Category, error)
	SetActive(ctx context.Context, workspaceID int32, id int32, active bool) (*Category, error)
	Delete(ctx context.Context, workspaceID int32, id int32) error
	CountReferences(ctx context.Context, workspaceID int32, id int32) (*CategoryReferences, error)
	// LockCategory and LockSubcategory hold a row lock for the remainder of
	// the current transaction.
	LockCategory(ctx context.Context, workspaceID int32, id int32, lock RowLock) error
	LockSubcategory(ctx context.Context, workspaceID int32, id int32, lock RowLock) error

	CreateSubcategory(ctx context.Context, sub *Subcategory) (*Subcategory, error)
	GetSubcategoryByID(ctx context.Context, workspaceID int32, id int32) (*Subcategory, error)
	ListSubcategories(ctx context.Context, workspaceID int32, categoryID int32, includeInactive bool) ([]*Subcategory, error)
	UpdateSubcategory(ctx context.Context, workspaceID int32, id int32, name string) (*Subcategory, error)
	SetSubcategoryActive(ctx context.Context, workspaceID int32, id int32, active bool) (*Subcategory, error)
	DeactivateSubcategoriesByCategory(ctx context.Context, workspaceID int32, categoryID int32) (int64, error)
	CountActiveSubcategoryEntries(ctx context.Context, workspaceID int32, subcategoryID int32) (int64, error)
}
