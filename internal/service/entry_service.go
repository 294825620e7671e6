package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/repository/storage"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const maxStaleEntryRetries = 3

// errStaleEntry means the entry moved to another account between the
// unlocked read and the locked read, so the wrong account locks are held.
var errStaleEntry = errors.New("entry changed concurrently")

// EntryService maintains ledger entries and keeps account balances in step
// with confirmed entries.
type EntryService struct {
	tx             domain.Transactor
	entryRepo      domain.EntryRepository
	accountRepo    domain.AccountRepository
	categoryRepo   domain.CategoryRepository
	locker         *AccountLocker
	receiptStore   storage.ReceiptStore
	eventPublisher websocket.EventPublisher
}

// NewEntryService creates a new EntryService
func NewEntryService(tx domain.Transactor, entryRepo domain.EntryRepository, accountRepo domain.AccountRepository, categoryRepo domain.CategoryRepository, locker *AccountLocker) *EntryService {
	return &EntryService{
		tx:           tx,
		entryRepo:    entryRepo,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		locker:       locker,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *EntryService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// SetReceiptStore enables removal of receipt objects when entries are deleted
func (s *EntryService) SetReceiptStore(store storage.ReceiptStore) {
	s.receiptStore = store
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *EntryService) publishEvent(workspaceID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// CreateEntryInput holds the input for creating an entry
type CreateEntryInput struct {
	Kind          domain.EntryKind
	Description   string
	Value         decimal.Decimal
	Date          time.Time
	PaymentMethod domain.PaymentMethod
	CategoryID    int32
	SubcategoryID *int32
	AccountID     int32
	Status        domain.EntryStatus
	Recurring     bool
	Notes         *string
}

// UpdateEntryInput holds a partial entry update. Nil fields keep their value.
type UpdateEntryInput struct {
	Kind             *domain.EntryKind
	Description      *string
	Value            *decimal.Decimal
	Date             *time.Time
	PaymentMethod    *domain.PaymentMethod
	CategoryID       *int32
	SubcategoryID    *int32
	ClearSubcategory bool
	AccountID        *int32
	Status           *domain.EntryStatus
	Recurring        *bool
	Notes            *string
}

// CreateEntry records a new entry. A confirmed entry moves its account
// balance in the same transaction as the insert.
func (s *EntryService) CreateEntry(ctx context.Context, workspaceID int32, input CreateEntryInput) (*domain.Entry, error) {
	status := input.Status
	if status == "" {
		status = domain.EntryStatusPending
	}

	entry := &domain.Entry{
		WorkspaceID:   workspaceID,
		Kind:          input.Kind,
		Description:   strings.TrimSpace(input.Description),
		Value:         input.Value,
		Date:          input.Date,
		PaymentMethod: input.PaymentMethod,
		CategoryID:    input.CategoryID,
		SubcategoryID: input.SubcategoryID,
		AccountID:     input.AccountID,
		Status:        status,
		Recurring:     input.Recurring,
		Notes:         normalizeNotes(input.Notes),
	}
	if err := validateEntry(entry); err != nil {
		return nil, err
	}
	if err := s.validateReferences(ctx, workspaceID, entry, nil); err != nil {
		return nil, err
	}

	unlock := s.locker.Lock(workspaceID, entry.AccountID)
	defer unlock()

	var (
		created *domain.Entry
		touched []*domain.Account
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.lockReferences(ctx, workspaceID, entry); err != nil {
			return err
		}
		if err := s.validateReferences(ctx, workspaceID, entry, nil); err != nil {
			return err
		}
		var err error
		if touched, err = applyDeltas(ctx, s.accountRepo, workspaceID, domain.BalanceDeltas(nil, entry)); err != nil {
			return err
		}
		if created, err = s.entryRepo.Create(ctx, entry); err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := s.reload(ctx, workspaceID, created)
	s.publishEvent(workspaceID, websocket.EntryCreated(result))
	publishBalanceChanges(s.publishEvent, workspaceID, touched)
	return result, nil
}

// UpdateEntry merges the changes into an entry, revalidates it and moves the
// balance effect from the old account to the new one atomically.
func (s *EntryService) UpdateEntry(ctx context.Context, workspaceID int32, id int32, input UpdateEntryInput) (*domain.Entry, error) {
	updated, changed, err := s.mutate(ctx, workspaceID, id, func(current *domain.Entry) (*domain.Entry, error) {
		return mergeEntryUpdate(current, input)
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.publishEvent(workspaceID, websocket.EntryUpdated(updated))
	}
	return updated, nil
}

// SetEntryStatus moves an entry through its status machine. Setting the
// status it already has changes nothing.
func (s *EntryService) SetEntryStatus(ctx context.Context, workspaceID int32, id int32, status domain.EntryStatus) (*domain.Entry, error) {
	if !status.IsValid() {
		return nil, domain.NewFieldError("status", domain.ErrInvalidStatus)
	}

	updated, changed, err := s.mutate(ctx, workspaceID, id, func(current *domain.Entry) (*domain.Entry, error) {
		if current.Status == status {
			return nil, nil
		}
		next := *current
		next.Status = status
		return &next, nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.publishEvent(workspaceID, websocket.EntryStatusChanged(updated))
	}
	return updated, nil
}

// DeleteEntry removes an entry and reverses its balance effect
func (s *EntryService) DeleteEntry(ctx context.Context, workspaceID int32, id int32) error {
	for attempt := 0; attempt < maxStaleEntryRetries; attempt++ {
		current, err := s.entryRepo.GetByID(ctx, workspaceID, id)
		if err != nil {
			return err
		}

		var (
			deleted *domain.Entry
			touched []*domain.Account
		)
		unlock := s.locker.Lock(workspaceID, current.AccountID)
		err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
			fresh, err := s.entryRepo.GetByIDForUpdate(ctx, workspaceID, id)
			if err != nil {
				return err
			}
			if fresh.AccountID != current.AccountID {
				return errStaleEntry
			}
			if touched, err = lockAndApplyDeltas(ctx, s.accountRepo, workspaceID, domain.BalanceDeltas(fresh, nil)); err != nil {
				return err
			}
			if err := s.entryRepo.Delete(ctx, workspaceID, id); err != nil {
				return fmt.Errorf("delete entry: %w", err)
			}
			deleted = fresh
			return nil
		})
		unlock()

		if errors.Is(err, errStaleEntry) {
			continue
		}
		if err != nil {
			return err
		}

		s.removeReceiptObject(ctx, workspaceID, deleted)
		s.publishEvent(workspaceID, websocket.EntryDeleted(map[string]interface{}{
			"id":        deleted.ID,
			"accountId": deleted.AccountID,
			"status":    deleted.Status,
		}))
		publishBalanceChanges(s.publishEvent, workspaceID, touched)
		return nil
	}
	return domain.NewStorageError("delete entry", errStaleEntry)
}

// GetEntry retrieves an entry by ID
func (s *EntryService) GetEntry(ctx context.Context, workspaceID int32, id int32) (*domain.Entry, error) {
	return s.entryRepo.GetByID(ctx, workspaceID, id)
}

// ListEntries retrieves a page of entries, newest first
func (s *EntryService) ListEntries(ctx context.Context, workspaceID int32, filters *domain.EntryFilters) (*domain.PaginatedEntries, error) {
	if filters == nil {
		filters = &domain.EntryFilters{}
	}
	if err := validateEntryFilters(filters); err != nil {
		return nil, err
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = domain.DefaultPageSize
	}
	if filters.PageSize > domain.MaxPageSize {
		filters.PageSize = domain.MaxPageSize
	}
	return s.entryRepo.List(ctx, workspaceID, filters)
}

// ListAllEntries retrieves every entry matching the filters without paging
func (s *EntryService) ListAllEntries(ctx context.Context, workspaceID int32, filters *domain.EntryFilters) ([]*domain.Entry, error) {
	if filters == nil {
		filters = &domain.EntryFilters{}
	}
	if err := validateEntryFilters(filters); err != nil {
		return nil, err
	}
	return s.entryRepo.ListAll(ctx, workspaceID, filters)
}

// mutate applies change to an entry under account and row locks. change
// returns nil when there is nothing to write. The reported bool is false for
// such no-ops.
func (s *EntryService) mutate(ctx context.Context, workspaceID int32, id int32, change func(current *domain.Entry) (*domain.Entry, error)) (*domain.Entry, bool, error) {
	for attempt := 0; attempt < maxStaleEntryRetries; attempt++ {
		current, err := s.entryRepo.GetByID(ctx, workspaceID, id)
		if err != nil {
			return nil, false, err
		}

		planned, err := change(copyEntry(current))
		if err != nil {
			return nil, false, err
		}
		if planned == nil {
			return current, false, nil
		}
		if err := validateEntry(planned); err != nil {
			return nil, false, err
		}
		if err := s.validateReferences(ctx, workspaceID, planned, current); err != nil {
			return nil, false, err
		}

		var (
			updated *domain.Entry
			touched []*domain.Account
		)
		unlock := s.locker.Lock(workspaceID, current.AccountID, planned.AccountID)
		err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
			fresh, err := s.entryRepo.GetByIDForUpdate(ctx, workspaceID, id)
			if err != nil {
				return err
			}
			if fresh.AccountID != current.AccountID {
				return errStaleEntry
			}

			next, err := change(copyEntry(fresh))
			if err != nil {
				return err
			}
			if next == nil {
				updated = fresh
				return nil
			}
			if next.AccountID != planned.AccountID {
				return errStaleEntry
			}
			if err := validateEntry(next); err != nil {
				return err
			}

			if err := s.lockReferences(ctx, workspaceID, next, fresh.AccountID); err != nil {
				return err
			}
			if err := s.validateReferences(ctx, workspaceID, next, fresh); err != nil {
				return err
			}
			if touched, err = applyDeltas(ctx, s.accountRepo, workspaceID, domain.BalanceDeltas(fresh, next)); err != nil {
				return err
			}
			if updated, err = s.entryRepo.Update(ctx, next); err != nil {
				return fmt.Errorf("update entry: %w", err)
			}
			return nil
		})
		unlock()

		if errors.Is(err, errStaleEntry) {
			log.Debug().Int32("workspace_id", workspaceID).Int32("entry_id", id).Int("attempt", attempt+1).Msg("Entry moved during update, retrying")
			continue
		}
		if err != nil {
			return nil, false, err
		}

		publishBalanceChanges(s.publishEvent, workspaceID, touched)
		return s.reload(ctx, workspaceID, updated), true, nil
	}
	return nil, false, domain.NewStorageError("update entry", errStaleEntry)
}

// lockReferences locks the rows entry points at until the transaction ends:
// its account and any extra accounts for update, then its category and
// subcategory shared. Deactivating any of them waits for the writer.
func (s *EntryService) lockReferences(ctx context.Context, workspaceID int32, entry *domain.Entry, extraAccounts ...int32) error {
	if err := lockAccounts(ctx, s.accountRepo, workspaceID, append(extraAccounts, entry.AccountID)...); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewFieldError("accountId", domain.ErrAccountNotFound)
		}
		return err
	}
	if err := s.categoryRepo.LockCategory(ctx, workspaceID, entry.CategoryID, domain.RowLockShared); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewFieldError("categoryId", domain.ErrCategoryNotFound)
		}
		return err
	}
	if entry.SubcategoryID == nil {
		return nil
	}
	if err := s.categoryRepo.LockSubcategory(ctx, workspaceID, *entry.SubcategoryID, domain.RowLockShared); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewFieldError("subcategoryId", domain.ErrSubcategoryNotFound)
		}
		return err
	}
	return nil
}

// validateReferences checks the account, category and subcategory of entry.
// A reference kept from before may be inactive; a new or changed one must be
// active.
func (s *EntryService) validateReferences(ctx context.Context, workspaceID int32, entry *domain.Entry, before *domain.Entry) error {
	account, err := s.accountRepo.GetByID(ctx, workspaceID, entry.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewFieldError("accountId", domain.ErrAccountNotFound)
		}
		return err
	}
	if !account.Active && (before == nil || before.AccountID != entry.AccountID) {
		return domain.NewFieldError("accountId", domain.ErrAccountInactive)
	}

	category, err := s.categoryRepo.GetByID(ctx, workspaceID, entry.CategoryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewFieldError("categoryId", domain.ErrCategoryNotFound)
		}
		return err
	}
	if !category.Active && (before == nil || before.CategoryID != entry.CategoryID) {
		return domain.NewFieldError("categoryId", domain.ErrCategoryInactive)
	}
	if string(category.Kind) != string(entry.Kind) {
		return domain.NewFieldError("categoryId", domain.ErrCategoryKindMismatch)
	}

	if entry.SubcategoryID == nil {
		return nil
	}
	sub, err := s.categoryRepo.GetSubcategoryByID(ctx, workspaceID, *entry.SubcategoryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewFieldError("subcategoryId", domain.ErrSubcategoryNotFound)
		}
		return err
	}
	if sub.CategoryID != entry.CategoryID {
		return domain.NewFieldError("subcategoryId", domain.ErrSubcategoryMismatch)
	}
	subChanged := before == nil || before.SubcategoryID == nil || *before.SubcategoryID != *entry.SubcategoryID
	if !sub.Active && subChanged {
		return domain.NewFieldError("subcategoryId", domain.ErrSubcategoryInactive)
	}
	return nil
}

// reload fetches the entry with its joined names, falling back to the given
// row when the read fails after a successful commit.
func (s *EntryService) reload(ctx context.Context, workspaceID int32, entry *domain.Entry) *domain.Entry {
	loaded, err := s.entryRepo.GetByID(ctx, workspaceID, entry.ID)
	if err != nil {
		log.Warn().Err(err).Int32("workspace_id", workspaceID).Int32("entry_id", entry.ID).Msg("Failed to reload entry after write")
		return entry
	}
	return loaded
}

func (s *EntryService) removeReceiptObject(ctx context.Context, workspaceID int32, entry *domain.Entry) {
	if s.receiptStore == nil || entry.ReceiptKey == nil {
		return
	}
	if err := s.receiptStore.Delete(ctx, *entry.ReceiptKey); err != nil {
		log.Warn().Err(err).Int32("workspace_id", workspaceID).Int32("entry_id", entry.ID).Str("key", *entry.ReceiptKey).Msg("Failed to delete receipt of removed entry")
	}
}

func mergeEntryUpdate(current *domain.Entry, input UpdateEntryInput) (*domain.Entry, error) {
	next := current
	if input.Kind != nil {
		next.Kind = *input.Kind
	}
	if input.Description != nil {
		next.Description = strings.TrimSpace(*input.Description)
	}
	if input.Value != nil {
		next.Value = *input.Value
	}
	if input.Date != nil {
		next.Date = *input.Date
	}
	if input.PaymentMethod != nil {
		next.PaymentMethod = *input.PaymentMethod
	}
	if input.CategoryID != nil && *input.CategoryID != next.CategoryID {
		next.CategoryID = *input.CategoryID
		// a subcategory never survives a category change unless given again
		next.SubcategoryID = nil
	}
	if input.ClearSubcategory {
		next.SubcategoryID = nil
	}
	if input.SubcategoryID != nil {
		id := *input.SubcategoryID
		next.SubcategoryID = &id
	}
	if input.AccountID != nil {
		next.AccountID = *input.AccountID
	}
	if input.Status != nil {
		next.Status = *input.Status
	}
	if input.Recurring != nil {
		next.Recurring = *input.Recurring
	}
	if input.Notes != nil {
		next.Notes = normalizeNotes(input.Notes)
	}
	return next, nil
}

func validateEntry(e *domain.Entry) error {
	if !e.Kind.IsValid() {
		return domain.NewFieldError("kind", domain.ErrInvalidEntryKind)
	}
	if e.Description == "" {
		return domain.NewFieldError("description", domain.ErrDescriptionRequired)
	}
	if len(e.Description) > domain.MaxDescriptionLength {
		return domain.NewFieldError("description", domain.ErrDescriptionTooLong)
	}
	if err := domain.ValidatePositiveAmount("value", e.Value); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return domain.NewFieldError("date", domain.ErrInvalidDate)
	}
	if !e.PaymentMethod.IsValid() {
		return domain.NewFieldError("paymentMethod", domain.ErrInvalidPaymentMethod)
	}
	if !e.Status.IsValid() {
		return domain.NewFieldError("status", domain.ErrInvalidStatus)
	}
	if e.Notes != nil && len(*e.Notes) > domain.MaxNotesLength {
		return domain.NewFieldError("notes", domain.ErrNotesTooLong)
	}
	if e.CategoryID == 0 {
		return domain.NewFieldError("categoryId", domain.ErrCategoryNotFound)
	}
	if e.AccountID == 0 {
		return domain.NewFieldError("accountId", domain.ErrAccountNotFound)
	}
	return nil
}

func validateEntryFilters(f *domain.EntryFilters) error {
	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		return domain.NewFieldError("startDate", domain.ErrInvalidDateRange)
	}
	if f.Kind != nil && !f.Kind.IsValid() {
		return domain.NewFieldError("kind", domain.ErrInvalidEntryKind)
	}
	if f.Status != nil && !f.Status.IsValid() {
		return domain.NewFieldError("status", domain.ErrInvalidStatus)
	}
	if f.PaymentMethod != nil && !f.PaymentMethod.IsValid() {
		return domain.NewFieldError("paymentMethod", domain.ErrInvalidPaymentMethod)
	}
	f.Search = strings.TrimSpace(f.Search)
	return nil
}

func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func copyEntry(e *domain.Entry) *domain.Entry {
	c := *e
	return &c
}
