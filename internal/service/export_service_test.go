package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/Rhymond/go-money"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExportEntriesCSV(t *testing.T) {
	f := newLedgerFixture(t)
	caixa := f.addAccount("Caixa", "0")
	ofertas := f.addCategory("Ofertas", domain.CategoryKindIncome)
	energia := f.addCategory("Energia", domain.CategoryKindExpense)
	luz := f.addSubcategory(energia.ID, "Luz")
	ctx := context.Background()

	income := entryInput(domain.EntryKindIncome, "1234.56", ofertas.ID, caixa.ID, domain.EntryStatusConfirmed)
	income.Description = "Oferta, culto de domingo"
	_, err := f.entries.CreateEntry(ctx, testWorkspaceID, income)
	require.NoError(t, err)

	expense := entryInput(domain.EntryKindExpense, "200", energia.ID, caixa.ID, domain.EntryStatusPending)
	expense.SubcategoryID = &luz.ID
	expense.Date = date(2026, 3, 20)
	_, err = f.entries.CreateEntry(ctx, testWorkspaceID, expense)
	require.NoError(t, err)

	exporter := NewExportService(f.ledger.Entries, f.statistics, "")
	var buf bytes.Buffer
	n, err := exporter.ExportEntriesCSV(ctx, testWorkspaceID, nil, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records := readCSV(t, &buf)
	require.Len(t, records, 3)
	assert.Equal(t, entryCSVHeader, records[0])

	// newest first
	assert.Equal(t, "2026-03-20", records[1][0])
	assert.Equal(t, "Luz", records[1][4])
	assert.Equal(t, "pending", records[1][7])
	assert.Equal(t, "200.00", records[1][8])
	assert.Equal(t, "-200.00", records[1][9])

	assert.Equal(t, "Oferta, culto de domingo", records[2][2])
	assert.Equal(t, "Ofertas", records[2][3])
	assert.Equal(t, "", records[2][4])
	assert.Equal(t, "Caixa", records[2][5])
	assert.Equal(t, "pix", records[2][6])
	assert.Equal(t, "1234.56", records[2][8])
	assert.True(t, strings.HasPrefix(records[2][10], "R$"), "formatted value = %q", records[2][10])
	assert.Contains(t, records[2][10], "1.234,56")
}

func TestExportEntriesCSV_Filters(t *testing.T) {
	f := newLedgerFixture(t)
	caixa := f.addAccount("Caixa", "0")
	ofertas := f.addCategory("Ofertas", domain.CategoryKindIncome)
	ctx := context.Background()

	for _, status := range []domain.EntryStatus{domain.EntryStatusConfirmed, domain.EntryStatusPending, domain.EntryStatusCancelled} {
		_, err := f.entries.CreateEntry(ctx, testWorkspaceID, entryInput(domain.EntryKindIncome, "10", ofertas.ID, caixa.ID, status))
		require.NoError(t, err)
	}

	exporter := NewExportService(f.ledger.Entries, f.statistics, money.BRL)
	confirmed := domain.EntryStatusConfirmed
	var buf bytes.Buffer
	n, err := exporter.ExportEntriesCSV(ctx, testWorkspaceID, &domain.EntryFilters{Status: &confirmed}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, readCSV(t, &buf), 2)

	bad := domain.EntryStatus("archived")
	_, err = exporter.ExportEntriesCSV(ctx, testWorkspaceID, &domain.EntryFilters{Status: &bad}, &bytes.Buffer{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExportEntriesCSV_StorageFailure(t *testing.T) {
	f := newLedgerFixture(t)
	exporter := NewExportService(testutil.NewMockEntryRepository(), f.statistics, money.BRL)
	failing := NewExportService(&failingEntryLister{MockEntryRepository: testutil.NewMockEntryRepository()}, f.statistics, money.BRL)

	var buf bytes.Buffer
	n, err := exporter.ExportEntriesCSV(context.Background(), testWorkspaceID, nil, &buf)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, readCSV(t, &buf), 1)

	_, err = failing.ExportEntriesCSV(context.Background(), testWorkspaceID, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, domain.ErrStorage)
}

type failingEntryLister struct {
	*testutil.MockEntryRepository
}

func (r *failingEntryLister) ListAll(ctx context.Context, workspaceID int32, filters *domain.EntryFilters) ([]*domain.Entry, error) {
	return nil, testutil.ErrStorageUnavailable
}

func TestExportMonthlySummaryCSV(t *testing.T) {
	f := newLedgerFixture(t)
	caixa := f.addAccount("Caixa", "0")
	ofertas := f.addCategory("Ofertas", domain.CategoryKindIncome)
	energia := f.addCategory("Energia", domain.CategoryKindExpense)

	f.addConfirmed(domain.EntryKindIncome, "500", ofertas.ID, caixa.ID, date(2026, 3, 5))
	f.addConfirmed(domain.EntryKindIncome, "250", ofertas.ID, caixa.ID, date(2026, 3, 6))
	f.addConfirmed(domain.EntryKindExpense, "200", energia.ID, caixa.ID, date(2026, 3, 7))
	f.addConfirmed(domain.EntryKindExpense, "999", energia.ID, caixa.ID, date(2026, 4, 7))

	exporter := NewExportService(f.ledger.Entries, f.statistics, money.BRL)
	var buf bytes.Buffer
	require.NoError(t, exporter.ExportMonthlySummaryCSV(context.Background(), testWorkspaceID, 2026, 3, &buf))

	records := readCSV(t, &buf)
	require.Len(t, records, 6)
	assert.Equal(t, summaryCSVHeader, records[0])
	assert.Equal(t, []string{"Ofertas", "income", "2", "750.00"}, records[1][:4])
	assert.Equal(t, []string{"Energia", "expense", "1", "200.00"}, records[2][:4])
	assert.Equal(t, "Total income", records[3][0])
	assert.Equal(t, "750.00", records[3][3])
	assert.Equal(t, "Total expense", records[4][0])
	assert.Equal(t, "Net", records[5][0])
	assert.Equal(t, "550.00", records[5][3])
}

func TestExportMonthlySummaryCSV_InvalidMonth(t *testing.T) {
	f := newLedgerFixture(t)
	exporter := NewExportService(f.ledger.Entries, f.statistics, money.BRL)

	err := exporter.ExportMonthlySummaryCSV(context.Background(), testWorkspaceID, 2026, 0, &bytes.Buffer{})
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "12.50", formatMoney(dec("12.5"), "XXX-unknown"))

	usd := formatMoney(dec("1234.5"), money.USD)
	assert.Contains(t, usd, "1,234.50")
	assert.Contains(t, usd, "$")

	negative := formatMoney(dec("-200"), money.BRL)
	assert.Contains(t, negative, "-")
	assert.Contains(t, negative, "200,00")
}
