package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMarch(f *apiFixture) {
	account := f.addAccount("Caixa", "0")
	dizimos := f.addCategory("Dízimos", domain.CategoryKindIncome)
	ofertas := f.addCategory("Ofertas", domain.CategoryKindIncome)
	energia := f.addCategory("Energia", domain.CategoryKindExpense)

	day := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	f.addEntry(domain.EntryKindIncome, "3000", dizimos.ID, account.ID, domain.EntryStatusConfirmed, day)
	f.addEntry(domain.EntryKindIncome, "800", ofertas.ID, account.ID, domain.EntryStatusConfirmed, day)
	f.addEntry(domain.EntryKindIncome, "999", ofertas.ID, account.ID, domain.EntryStatusPending, day)
	f.addEntry(domain.EntryKindExpense, "450", energia.ID, account.ID, domain.EntryStatusConfirmed, day)
	f.addEntry(domain.EntryKindIncome, "1000", dizimos.ID, account.ID, domain.EntryStatusConfirmed, day.AddDate(0, -1, 0))
}

func TestGetMonthlyTotals(t *testing.T) {
	f := newAPIFixture(t)
	seedMarch(f)

	c, rec := f.request(http.MethodGet, "/api/v1/statistics/monthly?year=2026&month=3", "")
	require.NoError(t, f.stats.GetMonthlyTotals(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var totals service.MonthlyTotals
	decodeJSON(t, rec, &totals)
	assert.Equal(t, "3800", totals.Income.String())
	assert.Equal(t, "450", totals.Expense.String())
	assert.Equal(t, "3350", totals.Net.String())
}

func TestGetMonthlyTotals_InvalidPeriod(t *testing.T) {
	tests := []struct {
		query     string
		wantField string
	}{
		{"year=2026&month=13", "month"},
		{"year=2026&month=0", "month"},
		{"year=abc&month=3", "year"},
		{"year=1800&month=3", "year"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			f := newAPIFixture(t)
			c, rec := f.request(http.MethodGet, "/api/v1/statistics/monthly?"+tt.query, "")

			require.NoError(t, f.stats.GetMonthlyTotals(c))
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var problem ProblemDetails
			decodeJSON(t, rec, &problem)
			require.NotEmpty(t, problem.Errors)
			assert.Equal(t, tt.wantField, problem.Errors[0].Field)
		})
	}
}

func TestGetGrowth(t *testing.T) {
	f := newAPIFixture(t)
	seedMarch(f)

	c, rec := f.request(http.MethodGet, "/api/v1/statistics/growth?year=2026&month=3", "")
	require.NoError(t, f.stats.GetGrowth(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var growth service.GrowthResult
	decodeJSON(t, rec, &growth)
	assert.Equal(t, "1000", growth.Previous.Income.String())
	// 3800 against 1000
	assert.Equal(t, "280", growth.IncomeGrowth.String())
	// no expenses in February
	assert.True(t, growth.ExpenseGrowth.IsZero())
}

func TestGetTopCategories_Limit(t *testing.T) {
	f := newAPIFixture(t)
	seedMarch(f)

	c, rec := f.request(http.MethodGet, "/api/v1/statistics/top-categories?startDate=2026-03-01&endDate=2026-03-31&kind=income&limit=1", "")
	require.NoError(t, f.stats.GetTopCategories(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var totals []domain.CategoryTotal
	decodeJSON(t, rec, &totals)
	require.Len(t, totals, 1)
	assert.Equal(t, "Dízimos", totals[0].CategoryName)
	assert.Equal(t, "3000", totals[0].Total.String())
}

func TestGetTopCategories_InvalidParams(t *testing.T) {
	tests := []string{
		"limit=five",
		"startDate=2026-03-31&endDate=2026-03-01",
		"kind=transfer",
	}

	for _, query := range tests {
		t.Run(query, func(t *testing.T) {
			f := newAPIFixture(t)
			c, rec := f.request(http.MethodGet, "/api/v1/statistics/top-categories?"+query, "")

			require.NoError(t, f.stats.GetTopCategories(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetMonthlySeries(t *testing.T) {
	f := newAPIFixture(t)
	seedMarch(f)

	c, rec := f.request(http.MethodGet, "/api/v1/statistics/series?year=2026&month=3&months=3", "")
	require.NoError(t, f.stats.GetMonthlySeries(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var series []service.MonthlyTotals
	decodeJSON(t, rec, &series)
	require.Len(t, series, 3)
	assert.Equal(t, 1, series[0].Month)
	assert.True(t, series[0].Income.IsZero())
	assert.Equal(t, "1000", series[1].Income.String())
	assert.Equal(t, 3, series[2].Month)
	assert.Equal(t, "3350", series[2].Net.String())
}

func TestGetBalances(t *testing.T) {
	f := newAPIFixture(t)
	f.addAccount("Caixa", "150.50")
	f.addAccount("Banco", "849.50")

	c, rec := f.request(http.MethodGet, "/api/v1/statistics/balances", "")
	require.NoError(t, f.stats.GetBalances(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var overview service.BalanceOverview
	decodeJSON(t, rec, &overview)
	assert.Len(t, overview.Accounts, 2)
	assert.Equal(t, "1000", overview.Total.String())
}
