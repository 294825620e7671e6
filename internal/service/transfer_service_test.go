package service

import (
	"context"
	"sync"
	"testing"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transferInput(source, destination int32, value string) CreateTransferInput {
	return CreateTransferInput{
		SourceAccountID:      source,
		DestinationAccountID: destination,
		Value:                dec(value),
		Date:                 date(2026, 3, 12),
		Description:          "Depósito do caixa",
	}
}

func TestCreateTransfer_ConservesTotal(t *testing.T) {
	f := newLedgerFixture(t)
	caixa := f.addAccount("Caixa", "1300")
	banco := f.addAccount("Banco", "0")
	ctx := context.Background()

	transfer, err := f.transfers.CreateTransfer(ctx, testWorkspaceID, transferInput(caixa.ID, banco.ID, "300"))
	require.NoError(t, err)

	assert.Equal(t, "Caixa", transfer.SourceAccountName)
	assert.Equal(t, "Banco", transfer.DestinationAccountName)
	assert.True(t, f.balance(caixa.ID).Equal(dec("1000")))
	assert.True(t, f.balance(banco.ID).Equal(dec("300")))
	assert.True(t, f.balance(caixa.ID).Add(f.balance(banco.ID)).Equal(dec("1300")))

	assert.Equal(t, [][]int32{{caixa.ID, banco.ID}}, f.ledger.Accounts.LockCalls)
	assert.Equal(t, 1, f.events.count("transfer.created"))
	assert.Equal(t, 2, f.events.count("account.balance_changed"))
}

func TestCreateTransfer_AllowsNegativeBalance(t *testing.T) {
	f := newLedgerFixture(t)
	caixa := f.addAccount("Caixa", "50")
	banco := f.addAccount("Banco", "0")

	_, err := f.transfers.CreateTransfer(context.Background(), testWorkspaceID, transferInput(caixa.ID, banco.ID, "80"))
	require.NoError(t, err)
	assert.True(t, f.balance(caixa.ID).Equal(dec("-30")))
}

func TestCreateTransfer_Validation(t *testing.T) {
	f := newLedgerFixture(t)
	caixa := f.addAccount("Caixa", "100")
	banco := f.addAccount("Banco", "0")
	closed := f.ledger.Accounts.AddAccount(&domain.Account{WorkspaceID: testWorkspaceID, Name: "Encerrada", Kind: domain.AccountKindBank})

	tests := []struct {
		name      string
		input     CreateTransferInput
		wantField string
		wantErr   error
	}{
		{"same account", transferInput(caixa.ID, caixa.ID, "10"), "destinationAccountId", domain.ErrSameAccountTransfer},
		{"zero value", transferInput(caixa.ID, banco.ID, "0"), "value", domain.ErrInvalidAmount},
		{"negative value", transferInput(caixa.ID, banco.ID, "-1"), "value", domain.ErrInvalidAmount},
		{"sub-cent value", transferInput(caixa.ID, banco.ID, "0.001"), "value", domain.ErrAmountPrecision},
		{"value too large", transferInput(caixa.ID, banco.ID, "99999999999999"), "value", domain.ErrAmountTooLarge},
		{"unknown source", transferInput(99, banco.ID, "10"), "sourceAccountId", domain.ErrAccountNotFound},
		{"inactive destination", transferInput(caixa.ID, closed.ID, "10"), "destinationAccountId", domain.ErrAccountInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.transfers.CreateTransfer(context.Background(), testWorkspaceID, tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.ErrorIs(t, err, tt.wantErr)

			var fieldErr *domain.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.wantField, fieldErr.Field)
		})
	}

	assert.True(t, f.balance(caixa.ID).Equal(dec("100")))
	assert.Equal(t, 0, f.ledger.Transfers.Count())
}

func TestCreateTransfer_BalanceOverflowIsInvalidInput(t *testing.T) {
	f := newLedgerFixture(t)
	caixa := f.addAccount("Caixa", "9999999999999.99")
	banco := f.addAccount("Banco", "9999999999999.99")

	_, err := f.transfers.CreateTransfer(context.Background(), testWorkspaceID, transferInput(caixa.ID, banco.ID, "0.01"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrBalanceOutOfRange)
	assert.NotErrorIs(t, err, domain.ErrStorage)

	assert.True(t, f.balance(caixa.ID).Equal(domain.MaxAmount))
	assert.True(t, f.balance(banco.ID).Equal(domain.MaxAmount))
	assert.Equal(t, 0, f.ledger.Transfers.Count())
}

func TestCreateTransfer_LegFailureRollsBackBothLegs(t *testing.T) {
	f := newLedgerFixture(t)
	caixa := f.addAccount("Caixa", "1000")
	banco := f.addAccount("Banco", "0")

	// credit leg fails after the debit leg was applied
	f.ledger.Accounts.ApplyDeltaFn = func(_ context.Context, _ int32, id int32, _ decimal.Decimal) error {
		if id == banco.ID {
			return testutil.ErrStorageUnavailable
		}
		return nil
	}

	_, err := f.transfers.CreateTransfer(context.Background(), testWorkspaceID, transferInput(caixa.ID, banco.ID, "300"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)

	assert.True(t, f.balance(caixa.ID).Equal(dec("1000")), "caixa = %s", f.balance(caixa.ID))
	assert.True(t, f.balance(banco.ID).IsZero())
	assert.Equal(t, 0, f.ledger.Transfers.Count())
	assert.Empty(t, f.events.types())
}

func TestCreateTransfer_RowInsertFailureRollsBackLegs(t *testing.T) {
	f := newLedgerFixture(t)
	caixa := f.addAccount("Caixa", "1000")
	banco := f.addAccount("Banco", "0")
	f.ledger.Transfers.CreateFn = func(*domain.Transfer) error { return testutil.ErrStorageUnavailable }

	_, err := f.transfers.CreateTransfer(context.Background(), testWorkspaceID, transferInput(caixa.ID, banco.ID, "300"))
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.True(t, f.balance(caixa.ID).Equal(dec("1000")))
	assert.True(t, f.balance(banco.ID).IsZero())
}

func TestDeleteTransfer_ReversesBothLegs(t *testing.T) {
	f := newLedgerFixture(t)
	caixa := f.addAccount("Caixa", "1000")
	banco := f.addAccount("Banco", "200")
	ctx := context.Background()

	transfer, err := f.transfers.CreateTransfer(ctx, testWorkspaceID, transferInput(banco.ID, caixa.ID, "150"))
	require.NoError(t, err)

	require.NoError(t, f.transfers.DeleteTransfer(ctx, testWorkspaceID, transfer.ID))
	assert.True(t, f.balance(caixa.ID).Equal(dec("1000")))
	assert.True(t, f.balance(banco.ID).Equal(dec("200")))
	assert.Equal(t, 0, f.ledger.Transfers.Count())

	err = f.transfers.DeleteTransfer(ctx, testWorkspaceID, transfer.ID)
	assert.ErrorIs(t, err, domain.ErrTransferNotFound)
}

func TestDeleteTransfer_FailureKeepsTransfer(t *testing.T) {
	f := newLedgerFixture(t)
	caixa := f.addAccount("Caixa", "1000")
	banco := f.addAccount("Banco", "0")
	ctx := context.Background()

	transfer, err := f.transfers.CreateTransfer(ctx, testWorkspaceID, transferInput(caixa.ID, banco.ID, "300"))
	require.NoError(t, err)

	f.ledger.Transfers.DeleteFn = func(int32, int32) error { return testutil.ErrStorageUnavailable }
	err = f.transfers.DeleteTransfer(ctx, testWorkspaceID, transfer.ID)
	assert.ErrorIs(t, err, domain.ErrStorage)

	assert.True(t, f.balance(caixa.ID).Equal(dec("700")))
	assert.True(t, f.balance(banco.ID).Equal(dec("300")))
	assert.Equal(t, 1, f.ledger.Transfers.Count())
}

func TestCreateTransfer_OppositeDirectionsConcurrently(t *testing.T) {
	f := newLedgerFixture(t)
	caixa := f.addAccount("Caixa", "1000")
	banco := f.addAccount("Banco", "1000")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.transfers.CreateTransfer(ctx, testWorkspaceID, transferInput(caixa.ID, banco.ID, "7"))
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := f.transfers.CreateTransfer(ctx, testWorkspaceID, transferInput(banco.ID, caixa.ID, "3"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.True(t, f.balance(caixa.ID).Equal(dec("900")), "caixa = %s", f.balance(caixa.ID))
	assert.True(t, f.balance(banco.ID).Equal(dec("1100")), "banco = %s", f.balance(banco.ID))
	for _, call := range f.ledger.Accounts.LockCalls {
		assert.Equal(t, []int32{caixa.ID, banco.ID}, call)
	}
}

func TestListTransfers_FiltersByAccount(t *testing.T) {
	f := newLedgerFixture(t)
	caixa := f.addAccount("Caixa", "1000")
	banco := f.addAccount("Banco", "0")
	pix := f.addAccount("Pix", "0")
	ctx := context.Background()

	_, err := f.transfers.CreateTransfer(ctx, testWorkspaceID, transferInput(caixa.ID, banco.ID, "10"))
	require.NoError(t, err)
	_, err = f.transfers.CreateTransfer(ctx, testWorkspaceID, transferInput(caixa.ID, pix.ID, "20"))
	require.NoError(t, err)

	transfers, err := f.transfers.ListTransfers(ctx, testWorkspaceID, &domain.TransferFilters{AccountID: &pix.ID})
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, pix.ID, transfers[0].DestinationAccountID)

	all, err := f.transfers.ListTransfers(ctx, testWorkspaceID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	start, end := date(2026, 5, 1), date(2026, 4, 1)
	_, err = f.transfers.ListTransfers(ctx, testWorkspaceID, &domain.TransferFilters{StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestCreateTransfer_DestinationDeactivatedWhileLocking(t *testing.T) {
	f := newLedgerFixture(t)
	caixa := f.addAccount("Caixa", "500")
	banco := f.addAccount("Banco", "0")
	f.ledger.Accounts.LockFn = func([]int32) {
		_, _ = f.ledger.Accounts.SetActive(context.Background(), testWorkspaceID, banco.ID, false)
	}

	_, err := f.transfers.CreateTransfer(context.Background(), testWorkspaceID, transferInput(caixa.ID, banco.ID, "100"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAccountInactive)

	var fieldErr *domain.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "destinationAccountId", fieldErr.Field)

	assert.Empty(t, f.ledger.Accounts.DeltaCalls)
	assert.True(t, f.balance(caixa.ID).Equal(dec("500")))
	assert.Equal(t, 0, f.ledger.Transfers.Count())
}
