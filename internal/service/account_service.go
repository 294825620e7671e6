package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AccountService handles account-related business logic
type AccountService struct {
	tx             domain.Transactor
	accountRepo    domain.AccountRepository
	eventPublisher websocket.EventPublisher
	now            func() time.Time
}

// NewAccountService creates a new AccountService
func NewAccountService(tx domain.Transactor, accountRepo domain.AccountRepository) *AccountService {
	return &AccountService{
		tx:          tx,
		accountRepo: accountRepo,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *AccountService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *AccountService) publishEvent(workspaceID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// CreateAccountInput holds the input for creating an account
type CreateAccountInput struct {
	Name           string
	Kind           domain.AccountKind
	Bank           *string
	Branch         *string
	AccountNumber  *string
	InitialBalance decimal.Decimal
}

// UpdateAccountInput holds the editable account fields. Nil fields are left
// unchanged; an empty bank detail clears it.
type UpdateAccountInput struct {
	Name          *string
	Kind          *domain.AccountKind
	Bank          *string
	Branch        *string
	AccountNumber *string
}

// CreateAccount creates a new account seeded with its initial balance
func (s *AccountService) CreateAccount(ctx context.Context, workspaceID int32, input CreateAccountInput) (*domain.Account, error) {
	name, err := validateAccountName(input.Name)
	if err != nil {
		return nil, err
	}
	if !input.Kind.IsValid() {
		return nil, domain.NewFieldError("kind", domain.ErrInvalidAccountKind)
	}
	if err := domain.ValidateAmount("initialBalance", input.InitialBalance); err != nil {
		return nil, err
	}

	bank, err := normalizeBankDetail("bank", input.Bank)
	if err != nil {
		return nil, err
	}
	branch, err := normalizeBankDetail("branch", input.Branch)
	if err != nil {
		return nil, err
	}
	number, err := normalizeBankDetail("accountNumber", input.AccountNumber)
	if err != nil {
		return nil, err
	}

	account, err := s.accountRepo.Create(ctx, &domain.Account{
		WorkspaceID:    workspaceID,
		Name:           name,
		Kind:           input.Kind,
		Bank:           bank,
		Branch:         branch,
		AccountNumber:  number,
		InitialBalance: input.InitialBalance,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.AccountCreated(account))
	return account, nil
}

// GetAccounts retrieves all accounts for a workspace
func (s *AccountService) GetAccounts(ctx context.Context, workspaceID int32, includeInactive bool) ([]*domain.Account, error) {
	return s.accountRepo.GetAllByWorkspace(ctx, workspaceID, includeInactive)
}

// GetAccountByID retrieves an account by ID within a workspace
func (s *AccountService) GetAccountByID(ctx context.Context, workspaceID int32, id int32) (*domain.Account, error) {
	return s.accountRepo.GetByID(ctx, workspaceID, id)
}

// UpdateAccount updates account metadata. The balance is never editable.
func (s *AccountService) UpdateAccount(ctx context.Context, workspaceID int32, id int32, input UpdateAccountInput) (*domain.Account, error) {
	existing, err := s.accountRepo.GetByID(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}

	data := &domain.AccountMetadata{
		Name:          existing.Name,
		Kind:          existing.Kind,
		Bank:          existing.Bank,
		Branch:        existing.Branch,
		AccountNumber: existing.AccountNumber,
	}

	if input.Name != nil {
		if data.Name, err = validateAccountName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Kind != nil {
		if !input.Kind.IsValid() {
			return nil, domain.NewFieldError("kind", domain.ErrInvalidAccountKind)
		}
		data.Kind = *input.Kind
	}
	if input.Bank != nil {
		if data.Bank, err = normalizeBankDetail("bank", input.Bank); err != nil {
			return nil, err
		}
	}
	if input.Branch != nil {
		if data.Branch, err = normalizeBankDetail("branch", input.Branch); err != nil {
			return nil, err
		}
	}
	if input.AccountNumber != nil {
		if data.AccountNumber, err = normalizeBankDetail("accountNumber", input.AccountNumber); err != nil {
			return nil, err
		}
	}

	account, err := s.accountRepo.UpdateMetadata(ctx, workspaceID, id, data)
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.AccountUpdated(account))
	return account, nil
}

// DeactivateAccount hides an account from new entries and transfers. It is
// refused while pending entries or future-dated transfers still use it.
func (s *AccountService) DeactivateAccount(ctx context.Context, workspaceID int32, id int32) (*domain.Account, error) {
	var (
		account *domain.Account
		changed bool
	)
	// Entry and transfer writers lock their accounts before checking they are
	// active, so holding the row lock makes the count below final.
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := lockAccounts(ctx, s.accountRepo, workspaceID, id); err != nil {
			return err
		}
		var err error
		if account, err = s.accountRepo.GetByID(ctx, workspaceID, id); err != nil {
			return err
		}
		if !account.Active {
			return nil
		}

		refs, err := s.accountRepo.CountReferences(ctx, workspaceID, id, startOfDay(s.now()))
		if err != nil {
			return err
		}
		if open := refs.PendingEntries + refs.OpenTransfers; open > 0 {
			return &domain.ConflictError{
				Resource:   "account",
				ID:         id,
				Reason:     "has pending entries or scheduled transfers",
				References: open,
			}
		}

		if account, err = s.accountRepo.SetActive(ctx, workspaceID, id, false); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return account, nil
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("account_id", id).Msg("Account deactivated")
	s.publishEvent(workspaceID, websocket.AccountDeactivated(account))
	return account, nil
}

// ReactivateAccount makes an inactive account selectable again
func (s *AccountService) ReactivateAccount(ctx context.Context, workspaceID int32, id int32) (*domain.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	if account.Active {
		return account, nil
	}

	account, err = s.accountRepo.SetActive(ctx, workspaceID, id, true)
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.AccountReactivated(account))
	return account, nil
}

// DeleteAccount physically removes an account that nothing references
func (s *AccountService) DeleteAccount(ctx context.Context, workspaceID int32, id int32) error {
	if _, err := s.accountRepo.GetByID(ctx, workspaceID, id); err != nil {
		return err
	}

	refs, err := s.accountRepo.CountReferences(ctx, workspaceID, id, startOfDay(s.now()))
	if err != nil {
		return err
	}
	if total := refs.TotalEntries + refs.TotalTransfers; total > 0 {
		return &domain.ConflictError{
			Resource:   "account",
			ID:         id,
			Reason:     "referenced by entries or transfers",
			References: total,
		}
	}

	if err := s.accountRepo.Delete(ctx, workspaceID, id); err != nil {
		return err
	}

	s.publishEvent(workspaceID, websocket.AccountDeleted(map[string]int32{"id": id}))
	return nil
}

func validateAccountName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.NewFieldError("name", domain.ErrNameRequired)
	}
	if len(name) > domain.MaxAccountNameLength {
		return "", domain.NewFieldError("name", domain.ErrNameTooLong)
	}
	return name, nil
}

func normalizeBankDetail(field string, value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > domain.MaxBankDetailLength {
		return nil, domain.NewFieldError(field, domain.ErrBankDetailTooLong)
	}
	return &trimmed, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// lockAccounts takes row locks on the given accounts in ascending id order.
// It must run inside WithinTx.
func lockAccounts(ctx context.Context, accounts domain.AccountRepository, workspaceID int32, ids ...int32) error {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	if len(sorted) == 0 {
		return nil
	}
	if err := accounts.LockForUpdate(ctx, workspaceID, sorted); err != nil {
		return fmt.Errorf("lock accounts: %w", err)
	}
	return nil
}

// applyDeltas applies deltas in ascending account id order to accounts the
// caller has already locked
func applyDeltas(ctx context.Context, accounts domain.AccountRepository, workspaceID int32, deltas map[int32]decimal.Decimal) ([]*domain.Account, error) {
	ids := make([]int32, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	updated := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		account, err := accounts.ApplyDelta(ctx, workspaceID, id, deltas[id])
		if err != nil {
			return nil, fmt.Errorf("apply delta to account %d: %w", id, err)
		}
		updated = append(updated, account)
	}
	return updated, nil
}

// lockAndApplyDeltas locks every account in deltas and applies them
func lockAndApplyDeltas(ctx context.Context, accounts domain.AccountRepository, workspaceID int32, deltas map[int32]decimal.Decimal) ([]*domain.Account, error) {
	ids := make([]int32, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	if err := lockAccounts(ctx, accounts, workspaceID, ids...); err != nil {
		return nil, err
	}
	return applyDeltas(ctx, accounts, workspaceID, deltas)
}

func publishBalanceChanges(publish func(int32, websocket.Event), workspaceID int32, accounts []*domain.Account) {
	for _, account := range accounts {
		publish(workspaceID, websocket.AccountBalanceChanged(map[string]interface{}{
			"id":      account.ID,
			"name":    account.Name,
			"balance": account.Balance,
		}))
	}
}
