package domain

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by the service layer matches exactly
// one of these through errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrReferentialConflict = errors.New("resource is still referenced")
	ErrStorage             = errors.New("storage failure")
)

// Not found errors
var (
	ErrAccountNotFound     = fmt.Errorf("account %w", ErrNotFound)
	ErrCategoryNotFound    = fmt.Errorf("category %w", ErrNotFound)
	ErrSubcategoryNotFound = fmt.Errorf("subcategory %w", ErrNotFound)
	ErrEntryNotFound       = fmt.Errorf("entry %w", ErrNotFound)
	ErrTransferNotFound    = fmt.Errorf("transfer %w", ErrNotFound)
	ErrReceiptNotFound     = fmt.Errorf("receipt %w", ErrNotFound)
)

// Validation errors, usually wrapped in a FieldError
var (
	ErrNameRequired         = errors.New("name is required")
	ErrNameTooLong          = errors.New("name exceeds maximum length")
	ErrDescriptionRequired  = errors.New("description is required")
	ErrDescriptionTooLong   = errors.New("description exceeds maximum length")
	ErrNotesTooLong         = errors.New("notes exceed maximum length")
	ErrInvalidAmount        = errors.New("value must be greater than zero")
	ErrAmountPrecision      = errors.New("amount cannot have more than two decimal places")
	ErrAmountTooLarge       = errors.New("amount exceeds the maximum supported value")
	ErrBalanceOutOfRange    = errors.New("resulting account balance exceeds the maximum supported value")
	ErrInvalidAccountKind   = errors.New("invalid account kind")
	ErrInvalidCategoryKind  = errors.New("invalid category kind")
	ErrInvalidEntryKind     = errors.New("invalid entry kind")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidStatus        = errors.New("invalid entry status")
	ErrInvalidColor         = errors.New("color must be in #RRGGBB format")
	ErrInvalidBudget        = errors.New("monthly budget cannot be negative")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidDateRange     = errors.New("start date must not be after end date")
	ErrBankDetailTooLong    = errors.New("bank detail exceeds maximum length")
	ErrAccountInactive      = errors.New("account is inactive")
	ErrCategoryInactive     = errors.New("category is inactive")
	ErrSubcategoryInactive  = errors.New("subcategory is inactive")
	ErrCategoryKindMismatch = errors.New("category kind does not match entry kind")
	ErrSubcategoryMismatch  = errors.New("subcategory does not belong to category")
	ErrSameAccountTransfer  = errors.New("source and destination accounts must differ")
	ErrInvalidMonth         = errors.New("month must be between 1 and 12")
)

// Validation constants
const (
	MaxAccountNameLength     = 255
	MaxBankDetailLength      = 64
	MaxCategoryNameLength    = 100
	MaxDescriptionLength     = 255
	MaxNotesLength           = 1000
	MaxTransferDescLength    = 255
	DefaultCategoryColor     = "#6B7280"
	DefaultTopCategoryLimit  = 5
	MaxMonthlySeriesLength   = 24
	DefaultMonthlySeriesSize = 6
)

// FieldError ties a validation failure to the request field that caused it.
type FieldError struct {
	Field string
	Err   error
}

// NewFieldError creates a FieldError for the given field
func NewFieldError(field string, err error) *FieldError {
	return &FieldError{Field: field, Err: err}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

// Unwrap exposes both the specific cause and the ErrInvalidInput category.
func (e *FieldError) Unwrap() []error {
	return []error{e.Err, ErrInvalidInput}
}

// ConflictError reports an operation refused because other records still
// reference the target.
type ConflictError struct {
	Resource   string
	ID         int32
	Reason     string
	References int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %d: %s (%d references)", e.Resource, e.ID, e.Reason, e.References)
}

func (e *ConflictError) Unwrap() error {
	return ErrReferentialConflict
}

// StorageError wraps a failure of the underlying persistence layer.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err unless it is nil or already a domain error
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrReferentialConflict) || errors.Is(err, ErrStorage) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{e.Err, ErrStorage}
}
