package service

import (
	"context"
	"testing"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_BalancedAfterMixedActivity(t *testing.T) {
	f := newLedgerFixture(t)
	caixa := f.addAccount("Caixa", "500")
	banco := f.addAccount("Banco", "2000")
	ofertas := f.addCategory("Ofertas", domain.CategoryKindIncome)
	energia := f.addCategory("Energia", domain.CategoryKindExpense)
	ctx := context.Background()

	_, err := f.entries.CreateEntry(ctx, testWorkspaceID, entryInput(domain.EntryKindIncome, "320", ofertas.ID, caixa.ID, domain.EntryStatusConfirmed))
	require.NoError(t, err)
	pending, err := f.entries.CreateEntry(ctx, testWorkspaceID, entryInput(domain.EntryKindExpense, "180", energia.ID, banco.ID, domain.EntryStatusPending))
	require.NoError(t, err)
	_, err = f.entries.SetEntryStatus(ctx, testWorkspaceID, pending.ID, domain.EntryStatusConfirmed)
	require.NoError(t, err)
	_, err = f.transfers.CreateTransfer(ctx, testWorkspaceID, transferInput(caixa.ID, banco.ID, "400"))
	require.NoError(t, err)

	report, err := f.reconciliation.Reconcile(ctx, testWorkspaceID)
	require.NoError(t, err)
	assert.True(t, report.Balanced)
	require.Len(t, report.Accounts, 2)

	byID := map[int32]*AccountReconciliation{}
	for _, r := range report.Accounts {
		byID[r.AccountID] = r
	}
	c := byID[caixa.ID]
	assert.True(t, c.Income.Equal(dec("320")))
	assert.True(t, c.TransfersOut.Equal(dec("400")))
	assert.True(t, c.Expected.Equal(dec("420")), "expected = %s", c.Expected)

	b := byID[banco.ID]
	assert.True(t, b.Expense.Equal(dec("180")))
	assert.True(t, b.TransfersIn.Equal(dec("400")))
	assert.True(t, b.Actual.Equal(dec("2220")), "actual = %s", b.Actual)
}

func TestReconcile_DetectsMismatch(t *testing.T) {
	f := newLedgerFixture(t)
	caixa := f.addAccount("Caixa", "100")
	f.addAccount("Banco", "0")
	inactive := f.ledger.Accounts.AddAccount(&domain.Account{
		WorkspaceID:    testWorkspaceID,
		Name:           "Antiga",
		Kind:           domain.AccountKindBank,
		InitialBalance: dec("10"),
		Balance:        dec("15"),
	})

	f.ledger.Accounts.Accounts[caixa.ID].Balance = dec("90")

	report, err := f.reconciliation.Reconcile(context.Background(), testWorkspaceID)
	require.NoError(t, err)
	assert.False(t, report.Balanced)
	require.Len(t, report.Accounts, 3)

	for _, r := range report.Accounts {
		switch r.AccountID {
		case caixa.ID:
			assert.False(t, r.Balanced)
			assert.True(t, r.Difference.Equal(dec("-10")), "difference = %s", r.Difference)
		case inactive.ID:
			assert.False(t, r.Balanced)
			assert.True(t, r.Difference.Equal(dec("5")))
		default:
			assert.True(t, r.Balanced)
		}
	}
}

func TestReconcile_StorageFailure(t *testing.T) {
	f := newLedgerFixture(t)
	f.ledger.Accounts.GetAllFn = func(int32) ([]*domain.Account, error) {
		return nil, testutil.ErrStorageUnavailable
	}

	_, err := f.reconciliation.Reconcile(context.Background(), testWorkspaceID)
	assert.ErrorIs(t, err, domain.ErrStorage)
}
