package service

import (
	"context"
	"testing"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Walks through a typical month of a church treasury and checks balances
// after every step
func TestLedgerScenario_CaixaAndBanco(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	caixa, err := f.accounts.CreateAccount(ctx, testWorkspaceID, CreateAccountInput{
		Name:           "Caixa",
		Kind:           domain.AccountKindCash,
		InitialBalance: dec("1000"),
	})
	require.NoError(t, err)
	bankName := "Banco do Brasil"
	banco, err := f.accounts.CreateAccount(ctx, testWorkspaceID, CreateAccountInput{
		Name: "Banco",
		Kind: domain.AccountKindBank,
		Bank: &bankName,
	})
	require.NoError(t, err)

	ofertas, err := f.categories.CreateCategory(ctx, testWorkspaceID, CreateCategoryInput{Name: "Ofertas", Kind: domain.CategoryKindIncome})
	require.NoError(t, err)
	energia, err := f.categories.CreateCategory(ctx, testWorkspaceID, CreateCategoryInput{Name: "Energia", Kind: domain.CategoryKindExpense})
	require.NoError(t, err)

	assertBalances := func(step string, wantCaixa, wantBanco string) {
		t.Helper()
		assert.True(t, f.balance(caixa.ID).Equal(dec(wantCaixa)), "%s: caixa = %s, want %s", step, f.balance(caixa.ID), wantCaixa)
		assert.True(t, f.balance(banco.ID).Equal(dec(wantBanco)), "%s: banco = %s, want %s", step, f.balance(banco.ID), wantBanco)
	}
	assertBalances("initial", "1000", "0")

	_, err = f.entries.CreateEntry(ctx, testWorkspaceID, entryInput(domain.EntryKindIncome, "500", ofertas.ID, caixa.ID, domain.EntryStatusConfirmed))
	require.NoError(t, err)
	assertBalances("after offering", "1500", "0")

	expense, err := f.entries.CreateEntry(ctx, testWorkspaceID, entryInput(domain.EntryKindExpense, "200", energia.ID, caixa.ID, domain.EntryStatusConfirmed))
	require.NoError(t, err)
	assertBalances("after energy bill", "1300", "0")

	_, err = f.transfers.CreateTransfer(ctx, testWorkspaceID, transferInput(caixa.ID, banco.ID, "300"))
	require.NoError(t, err)
	assertBalances("after deposit", "1000", "300")

	require.NoError(t, f.entries.DeleteEntry(ctx, testWorkspaceID, expense.ID))
	assertBalances("after deleting energy bill", "1200", "300")

	report, err := f.reconciliation.Reconcile(ctx, testWorkspaceID)
	require.NoError(t, err)
	assert.True(t, report.Balanced)
	for _, r := range report.Accounts {
		assert.True(t, r.Difference.IsZero(), "account %s difference %s", r.Name, r.Difference)
	}
}
