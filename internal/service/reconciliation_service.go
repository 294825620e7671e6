package service

import (
	"context"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ReconciliationService recomputes account balances from their history and
// compares them with the stored balances
type ReconciliationService struct {
	accountRepo  domain.AccountRepository
	entryRepo    domain.EntryRepository
	transferRepo domain.TransferRepository
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(accountRepo domain.AccountRepository, entryRepo domain.EntryRepository, transferRepo domain.TransferRepository) *ReconciliationService {
	return &ReconciliationService{
		accountRepo:  accountRepo,
		entryRepo:    entryRepo,
		transferRepo: transferRepo,
	}
}

// AccountReconciliation compares one account's stored balance with the
// balance derived from its initial balance, confirmed entries and transfers
type AccountReconciliation struct {
	AccountID      int32           `json:"accountId"`
	Name           string          `json:"name"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Income         decimal.Decimal `json:"income"`
	Expense        decimal.Decimal `json:"expense"`
	TransfersIn    decimal.Decimal `json:"transfersIn"`
	TransfersOut   decimal.Decimal `json:"transfersOut"`
	Expected       decimal.Decimal `json:"expected"`
	Actual         decimal.Decimal `json:"actual"`
	Difference     decimal.Decimal `json:"difference"`
	Balanced       bool            `json:"balanced"`
}

// ReconciliationReport is the result of reconciling a workspace
type ReconciliationReport struct {
	Accounts []*AccountReconciliation `json:"accounts"`
	Balanced bool                     `json:"balanced"`
}

// Reconcile checks every account of the workspace, including inactive ones.
// It reads without locks, so writes landing mid-check can show a transient
// difference.
func (s *ReconciliationService) Reconcile(ctx context.Context, workspaceID int32) (*ReconciliationReport, error) {
	accounts, err := s.accountRepo.GetAllByWorkspace(ctx, workspaceID, true)
	if err != nil {
		return nil, err
	}
	movements, err := s.entryRepo.SumByAccount(ctx, workspaceID, nil, nil)
	if err != nil {
		return nil, err
	}
	transfers, err := s.transferRepo.SumByAccount(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	byAccount := make(map[int32]*domain.AccountMovement, len(movements))
	for _, m := range movements {
		byAccount[m.AccountID] = m
	}
	transfersByAccount := make(map[int32]*domain.AccountTransferTotals, len(transfers))
	for _, t := range transfers {
		transfersByAccount[t.AccountID] = t
	}

	report := &ReconciliationReport{
		Accounts: make([]*AccountReconciliation, 0, len(accounts)),
		Balanced: true,
	}
	for _, a := range accounts {
		r := &AccountReconciliation{
			AccountID:      a.ID,
			Name:           a.Name,
			InitialBalance: a.InitialBalance,
			Income:         decimal.Zero,
			Expense:        decimal.Zero,
			TransfersIn:    decimal.Zero,
			TransfersOut:   decimal.Zero,
			Actual:         a.Balance,
		}
		if m, ok := byAccount[a.ID]; ok {
			r.Income = m.Income
			r.Expense = m.Expense
		}
		if t, ok := transfersByAccount[a.ID]; ok {
			r.TransfersIn = t.In
			r.TransfersOut = t.Out
		}
		r.Expected = r.InitialBalance.Add(r.Income).Sub(r.Expense).Add(r.TransfersIn).Sub(r.TransfersOut)
		r.Difference = r.Actual.Sub(r.Expected)
		r.Balanced = r.Difference.IsZero()

		if !r.Balanced {
			report.Balanced = false
			log.Warn().
				Int32("workspace_id", workspaceID).
				Int32("account_id", a.ID).
				Str("expected", r.Expected.StringFixed(2)).
				Str("actual", r.Actual.StringFixed(2)).
				Msg("Account balance does not match its history")
		}
		report.Accounts = append(report.Accounts, r)
	}
	return report, nil
}
