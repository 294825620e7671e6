package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransferService moves value between accounts. The debit, the credit and
// the transfer row are written in one transaction.
type TransferService struct {
	tx             domain.Transactor
	transferRepo   domain.TransferRepository
	accountRepo    domain.AccountRepository
	locker         *AccountLocker
	eventPublisher websocket.EventPublisher
}

// NewTransferService creates a new TransferService
func NewTransferService(tx domain.Transactor, transferRepo domain.TransferRepository, accountRepo domain.AccountRepository, locker *AccountLocker) *TransferService {
	return &TransferService{
		tx:           tx,
		transferRepo: transferRepo,
		accountRepo:  accountRepo,
		locker:       locker,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TransferService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *TransferService) publishEvent(workspaceID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// CreateTransferInput holds the input for creating a transfer
type CreateTransferInput struct {
	SourceAccountID      int32
	DestinationAccountID int32
	Value                decimal.Decimal
	Date                 time.Time
	Description          string
}

// CreateTransfer debits the source and credits the destination atomically.
// Balances may go negative.
func (s *TransferService) CreateTransfer(ctx context.Context, workspaceID int32, input CreateTransferInput) (*domain.Transfer, error) {
	if input.SourceAccountID == input.DestinationAccountID {
		return nil, domain.NewFieldError("destinationAccountId", domain.ErrSameAccountTransfer)
	}
	if err := domain.ValidatePositiveAmount("value", input.Value); err != nil {
		return nil, err
	}
	if input.Date.IsZero() {
		return nil, domain.NewFieldError("date", domain.ErrInvalidDate)
	}
	description := strings.TrimSpace(input.Description)
	if len(description) > domain.MaxTransferDescLength {
		return nil, domain.NewFieldError("description", domain.ErrDescriptionTooLong)
	}

	if err := s.requireActiveAccount(ctx, workspaceID, "sourceAccountId", input.SourceAccountID); err != nil {
		return nil, err
	}
	if err := s.requireActiveAccount(ctx, workspaceID, "destinationAccountId", input.DestinationAccountID); err != nil {
		return nil, err
	}

	transfer := &domain.Transfer{
		WorkspaceID:          workspaceID,
		SourceAccountID:      input.SourceAccountID,
		DestinationAccountID: input.DestinationAccountID,
		Value:                input.Value,
		Date:                 input.Date,
		Description:          description,
	}

	unlock := s.locker.Lock(workspaceID, transfer.SourceAccountID, transfer.DestinationAccountID)
	defer unlock()

	var (
		created *domain.Transfer
		touched []*domain.Account
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := lockAccounts(ctx, s.accountRepo, workspaceID, transfer.SourceAccountID, transfer.DestinationAccountID); err != nil {
			return err
		}
		// either side may have been deactivated while we waited for the locks
		if err := s.requireActiveAccount(ctx, workspaceID, "sourceAccountId", transfer.SourceAccountID); err != nil {
			return err
		}
		if err := s.requireActiveAccount(ctx, workspaceID, "destinationAccountId", transfer.DestinationAccountID); err != nil {
			return err
		}
		var err error
		if touched, err = applyDeltas(ctx, s.accountRepo, workspaceID, transfer.Deltas()); err != nil {
			return err
		}
		if created, err = s.transferRepo.Create(ctx, transfer); err != nil {
			return fmt.Errorf("insert transfer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("transfer_id", created.ID).
		Int32("source_account_id", created.SourceAccountID).
		Int32("destination_account_id", created.DestinationAccountID).
		Str("value", created.Value.StringFixed(2)).
		Msg("Transfer created")

	result := s.reload(ctx, workspaceID, created)
	s.publishEvent(workspaceID, websocket.TransferCreated(result))
	publishBalanceChanges(s.publishEvent, workspaceID, touched)
	return result, nil
}

// DeleteTransfer reverses both legs and removes the transfer as one unit
func (s *TransferService) DeleteTransfer(ctx context.Context, workspaceID int32, id int32) error {
	existing, err := s.transferRepo.GetByID(ctx, workspaceID, id)
	if err != nil {
		return err
	}

	unlock := s.locker.Lock(workspaceID, existing.SourceAccountID, existing.DestinationAccountID)
	defer unlock()

	var touched []*domain.Account
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		transfer, err := s.transferRepo.GetByIDForUpdate(ctx, workspaceID, id)
		if err != nil {
			return err
		}

		reverse := make(map[int32]decimal.Decimal, 2)
		for accountID, delta := range transfer.Deltas() {
			reverse[accountID] = delta.Neg()
		}
		if touched, err = lockAndApplyDeltas(ctx, s.accountRepo, workspaceID, reverse); err != nil {
			return err
		}
		if err := s.transferRepo.Delete(ctx, workspaceID, id); err != nil {
			return fmt.Errorf("delete transfer: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publishEvent(workspaceID, websocket.TransferDeleted(existing))
	publishBalanceChanges(s.publishEvent, workspaceID, touched)
	return nil
}

// GetTransfer retrieves a transfer by ID
func (s *TransferService) GetTransfer(ctx context.Context, workspaceID int32, id int32) (*domain.Transfer, error) {
	return s.transferRepo.GetByID(ctx, workspaceID, id)
}

// ListTransfers retrieves transfers, newest first
func (s *TransferService) ListTransfers(ctx context.Context, workspaceID int32, filters *domain.TransferFilters) ([]*domain.Transfer, error) {
	if filters == nil {
		filters = &domain.TransferFilters{}
	}
	if filters.StartDate != nil && filters.EndDate != nil && filters.StartDate.After(*filters.EndDate) {
		return nil, domain.NewFieldError("startDate", domain.ErrInvalidDateRange)
	}
	return s.transferRepo.List(ctx, workspaceID, filters)
}

func (s *TransferService) requireActiveAccount(ctx context.Context, workspaceID int32, field string, id int32) error {
	account, err := s.accountRepo.GetByID(ctx, workspaceID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewFieldError(field, domain.ErrAccountNotFound)
		}
		return err
	}
	if !account.Active {
		return domain.NewFieldError(field, domain.ErrAccountInactive)
	}
	return nil
}

func (s *TransferService) reload(ctx context.Context, workspaceID int32, transfer *domain.Transfer) *domain.Transfer {
	loaded, err := s.transferRepo.GetByID(ctx, workspaceID, transfer.ID)
	if err != nil {
		log.Warn().Err(err).Int32("workspace_id", workspaceID).Int32("transfer_id", transfer.ID).Msg("Failed to reload transfer after write")
		return transfer
	}
	return loaded
}
