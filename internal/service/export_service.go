package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/Rhymond/go-money"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/util"
	"github.com/shopspring/decimal"
)

var entryCSVHeader = []string{
	"date", "kind", "description", "category", "subcategory", "account",
	"payment_method", "status", "value", "signed_value", "formatted_value",
}

var summaryCSVHeader = []string{
	"category", "kind", "entries", "total", "formatted_total",
}

// ExportService writes ledger reports as CSV
type ExportService struct {
	entryRepo  domain.EntryRepository
	statistics *StatisticsService
	currency   string
}

// NewExportService creates a new ExportService. currency is an ISO 4217 code
// used for the formatted columns.
func NewExportService(entryRepo domain.EntryRepository, statistics *StatisticsService, currency string) *ExportService {
	if currency == "" {
		currency = money.BRL
	}
	return &ExportService{
		entryRepo:  entryRepo,
		statistics: statistics,
		currency:   currency,
	}
}

// ExportEntriesCSV writes every entry matching the filters, newest first.
// Paging fields in filters are ignored.
func (s *ExportService) ExportEntriesCSV(ctx context.Context, workspaceID int32, filters *domain.EntryFilters, w io.Writer) (int, error) {
	if filters == nil {
		filters = &domain.EntryFilters{}
	}
	if err := validateEntryFilters(filters); err != nil {
		return 0, err
	}

	entries, err := s.entryRepo.ListAll(ctx, workspaceID, filters)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(entryCSVHeader); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range entries {
		subcategory := ""
		if e.SubcategoryName != nil {
			subcategory = *e.SubcategoryName
		}
		record := []string{
			e.Date.Format("2006-01-02"),
			string(e.Kind),
			e.Description,
			e.CategoryName,
			subcategory,
			e.AccountName,
			string(e.PaymentMethod),
			string(e.Status),
			e.Value.StringFixed(2),
			e.SignedValue().StringFixed(2),
			formatMoney(e.SignedValue(), s.currency),
		}
		if err := cw.Write(record); err != nil {
			return 0, fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}
	return len(entries), nil
}

// ExportMonthlySummaryCSV writes the confirmed total of every category used
// in the month followed by income, expense and net rows.
func (s *ExportService) ExportMonthlySummaryCSV(ctx context.Context, workspaceID int32, year, month int, w io.Writer) error {
	if err := util.ValidateMonth(year, month); err != nil {
		return err
	}

	start, end := util.MonthRange(year, month)
	categories, err := s.statistics.GetTopCategories(ctx, workspaceID, start, end, nil, math.MaxInt)
	if err != nil {
		return err
	}
	totals, err := s.statistics.GetMonthlyTotals(ctx, workspaceID, year, month)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(summaryCSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range categories {
		record := []string{
			c.CategoryName,
			string(c.Kind),
			strconv.FormatInt(c.EntryCount, 10),
			c.Total.StringFixed(2),
			formatMoney(c.Total, s.currency),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	footer := [][]string{
		{"Total income", string(domain.EntryKindIncome), "", totals.Income.StringFixed(2), formatMoney(totals.Income, s.currency)},
		{"Total expense", string(domain.EntryKindExpense), "", totals.Expense.StringFixed(2), formatMoney(totals.Expense, s.currency)},
		{"Net", "", "", totals.Net.StringFixed(2), formatMoney(totals.Net, s.currency)},
	}
	if err := cw.WriteAll(footer); err != nil {
		return fmt.Errorf("write csv footer: %w", err)
	}
	return nil
}

// formatMoney renders amount in the currency's display format, e.g.
// "R$1.234,56" for BRL. Unknown currencies fall back to two decimals.
func formatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, currency).Display()
}
