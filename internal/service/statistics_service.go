package service

import (
	"context"
	"sort"
	"time"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/util"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var hundred = decimal.NewFromInt(100)

// StatisticsService derives dashboard figures from confirmed entries and
// stored account balances
type StatisticsService struct {
	entryRepo    domain.EntryRepository
	accountRepo  domain.AccountRepository
	categoryRepo domain.CategoryRepository
}

// NewStatisticsService creates a new StatisticsService
func NewStatisticsService(entryRepo domain.EntryRepository, accountRepo domain.AccountRepository, categoryRepo domain.CategoryRepository) *StatisticsService {
	return &StatisticsService{
		entryRepo:    entryRepo,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
	}
}

// MonthlyTotals holds the confirmed totals of one month
type MonthlyTotals struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// GrowthResult compares a month with the one before it. Percentages are
// zero when the previous month had no movement of that kind.
type GrowthResult struct {
	Current       *MonthlyTotals  `json:"current"`
	Previous      *MonthlyTotals  `json:"previous"`
	IncomeGrowth  decimal.Decimal `json:"incomeGrowth"`
	ExpenseGrowth decimal.Decimal `json:"expenseGrowth"`
}

// AccountBalance is the current balance of a single account
type AccountBalance struct {
	AccountID int32              `json:"accountId"`
	Name      string             `json:"name"`
	Kind      domain.AccountKind `json:"kind"`
	Balance   decimal.Decimal    `json:"balance"`
}

// BalanceOverview lists the balances of every active account
type BalanceOverview struct {
	Accounts []*AccountBalance `json:"accounts"`
	Total    decimal.Decimal   `json:"total"`
}

// BudgetVariance compares a category's budget with its confirmed total
type BudgetVariance struct {
	CategoryID   int32               `json:"categoryId"`
	CategoryName string              `json:"categoryName"`
	Kind         domain.CategoryKind `json:"kind"`
	Color        string              `json:"color"`
	Budget       decimal.Decimal     `json:"budget"`
	Actual       decimal.Decimal     `json:"actual"`
	Percentage   decimal.Decimal     `json:"percentage"`
	Remaining    decimal.Decimal     `json:"remaining"`
	OverBudget   bool                `json:"overBudget"`
}

// AccountRollup is the confirmed movement of an account over a period
type AccountRollup struct {
	AccountID int32           `json:"accountId"`
	Name      string          `json:"name"`
	Active    bool            `json:"active"`
	Income    decimal.Decimal `json:"income"`
	Expense   decimal.Decimal `json:"expense"`
	Net       decimal.Decimal `json:"net"`
}

// Summary bundles the dashboard figures of a month
type Summary struct {
	Growth         *GrowthResult           `json:"growth"`
	Balances       *BalanceOverview        `json:"balances"`
	TopExpenses    []*domain.CategoryTotal `json:"topExpenses"`
	TopIncome      []*domain.CategoryTotal `json:"topIncome"`
	BudgetVariance []*BudgetVariance       `json:"budgetVariance"`
}

// GetMonthlyTotals returns confirmed income, expense and net for a month
func (s *StatisticsService) GetMonthlyTotals(ctx context.Context, workspaceID int32, year, month int) (*MonthlyTotals, error) {
	if err := util.ValidateMonth(year, month); err != nil {
		return nil, err
	}

	start, end := util.MonthRange(year, month)
	totals, err := s.entryRepo.SumByKind(ctx, workspaceID, start, end)
	if err != nil {
		return nil, err
	}

	return &MonthlyTotals{
		Year:    year,
		Month:   month,
		Income:  totals.Income,
		Expense: totals.Expense,
		Net:     totals.Income.Sub(totals.Expense),
	}, nil
}

// GetGrowth compares a month's income and expense with the previous month
func (s *StatisticsService) GetGrowth(ctx context.Context, workspaceID int32, year, month int) (*GrowthResult, error) {
	current, err := s.GetMonthlyTotals(ctx, workspaceID, year, month)
	if err != nil {
		return nil, err
	}

	prevYear, prevMonth := util.PreviousMonth(year, month)
	previous, err := s.GetMonthlyTotals(ctx, workspaceID, prevYear, prevMonth)
	if err != nil {
		return nil, err
	}

	return &GrowthResult{
		Current:       current,
		Previous:      previous,
		IncomeGrowth:  growthPercent(current.Income, previous.Income),
		ExpenseGrowth: growthPercent(current.Expense, previous.Expense),
	}, nil
}

// GetAccountBalances returns the stored balance of every active account
func (s *StatisticsService) GetAccountBalances(ctx context.Context, workspaceID int32) (*BalanceOverview, error) {
	accounts, err := s.accountRepo.GetAllByWorkspace(ctx, workspaceID, false)
	if err != nil {
		return nil, err
	}

	overview := &BalanceOverview{
		Accounts: make([]*AccountBalance, 0, len(accounts)),
		Total:    decimal.Zero,
	}
	for _, a := range accounts {
		overview.Accounts = append(overview.Accounts, &AccountBalance{
			AccountID: a.ID,
			Name:      a.Name,
			Kind:      a.Kind,
			Balance:   a.Balance,
		})
		overview.Total = overview.Total.Add(a.Balance)
	}
	return overview, nil
}

// GetTopCategories ranks categories by confirmed total in the range, largest
// first with ties broken by name. limit <= 0 uses the default of five.
func (s *StatisticsService) GetTopCategories(ctx context.Context, workspaceID int32, start, end time.Time, kind *domain.EntryKind, limit int) ([]*domain.CategoryTotal, error) {
	if start.After(end) {
		return nil, domain.NewFieldError("startDate", domain.ErrInvalidDateRange)
	}
	if kind != nil && !kind.IsValid() {
		return nil, domain.NewFieldError("kind", domain.ErrInvalidEntryKind)
	}
	if limit <= 0 {
		limit = domain.DefaultTopCategoryLimit
	}

	totals, err := s.entryRepo.SumByCategory(ctx, workspaceID, start, end, kind)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(totals, func(i, j int) bool {
		if !totals[i].Total.Equal(totals[j].Total) {
			return totals[i].Total.GreaterThan(totals[j].Total)
		}
		return totals[i].CategoryName < totals[j].CategoryName
	})
	if len(totals) > limit {
		totals = totals[:limit]
	}
	return totals, nil
}

// GetBudgetVariance reports actual/budget*100 for every active category with
// a positive monthly budget
func (s *StatisticsService) GetBudgetVariance(ctx context.Context, workspaceID int32, year, month int) ([]*BudgetVariance, error) {
	if err := util.ValidateMonth(year, month); err != nil {
		return nil, err
	}

	active := true
	categories, err := s.categoryRepo.List(ctx, workspaceID, &domain.CategoryFilters{Active: &active})
	if err != nil {
		return nil, err
	}

	start, end := util.MonthRange(year, month)
	totals, err := s.entryRepo.SumByCategory(ctx, workspaceID, start, end, nil)
	if err != nil {
		return nil, err
	}
	actuals := make(map[int32]decimal.Decimal, len(totals))
	for _, t := range totals {
		actuals[t.CategoryID] = t.Total
	}

	result := []*BudgetVariance{}
	for _, c := range categories {
		if !c.HasBudget() {
			continue
		}
		budget := *c.MonthlyBudget
		actual := actuals[c.ID]
		result = append(result, &BudgetVariance{
			CategoryID:   c.ID,
			CategoryName: c.Name,
			Kind:         c.Kind,
			Color:        c.Color,
			Budget:       budget,
			Actual:       actual,
			Percentage:   actual.Div(budget).Mul(hundred).Round(2),
			Remaining:    budget.Sub(actual),
			OverBudget:   actual.GreaterThan(budget),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CategoryName < result[j].CategoryName
	})
	return result, nil
}

// GetAccountRollup returns confirmed income, expense and net per account for
// an optional period. Accounts without movement are listed with zeros.
func (s *StatisticsService) GetAccountRollup(ctx context.Context, workspaceID int32, start, end *time.Time) ([]*AccountRollup, error) {
	if start != nil && end != nil && start.After(*end) {
		return nil, domain.NewFieldError("startDate", domain.ErrInvalidDateRange)
	}

	accounts, err := s.accountRepo.GetAllByWorkspace(ctx, workspaceID, true)
	if err != nil {
		return nil, err
	}
	movements, err := s.entryRepo.SumByAccount(ctx, workspaceID, start, end)
	if err != nil {
		return nil, err
	}

	byAccount := make(map[int32]*domain.AccountMovement, len(movements))
	for _, m := range movements {
		byAccount[m.AccountID] = m
	}

	result := make([]*AccountRollup, 0, len(accounts))
	for _, a := range accounts {
		rollup := &AccountRollup{
			AccountID: a.ID,
			Name:      a.Name,
			Active:    a.Active,
			Income:    decimal.Zero,
			Expense:   decimal.Zero,
		}
		if m, ok := byAccount[a.ID]; ok {
			rollup.Income = m.Income
			rollup.Expense = m.Expense
		}
		rollup.Net = rollup.Income.Sub(rollup.Expense)
		result = append(result, rollup)
	}
	return result, nil
}

// GetMonthlySeries returns the totals of the months up to and including the
// given one, oldest first. Months without movement are filled with zeros.
func (s *StatisticsService) GetMonthlySeries(ctx context.Context, workspaceID int32, year, month, months int) ([]*MonthlyTotals, error) {
	if err := util.ValidateMonth(year, month); err != nil {
		return nil, err
	}
	if months <= 0 {
		months = domain.DefaultMonthlySeriesSize
	}
	if months > domain.MaxMonthlySeriesLength {
		months = domain.MaxMonthlySeriesLength
	}

	firstYear, firstMonth := util.MonthsBack(year, month, months-1)
	start, _ := util.MonthRange(firstYear, firstMonth)
	_, end := util.MonthRange(year, month)

	rows, err := s.entryRepo.SumByMonth(ctx, workspaceID, start, end)
	if err != nil {
		return nil, err
	}
	type monthKey struct{ year, month int }
	byMonth := make(map[monthKey]*domain.MonthlyKindTotals, len(rows))
	for _, r := range rows {
		byMonth[monthKey{r.Year, r.Month}] = r
	}

	series := make([]*MonthlyTotals, 0, months)
	for i := months - 1; i >= 0; i-- {
		y, m := util.MonthsBack(year, month, i)
		point := &MonthlyTotals{Year: y, Month: m, Income: decimal.Zero, Expense: decimal.Zero}
		if r, ok := byMonth[monthKey{y, m}]; ok {
			point.Income = r.Income
			point.Expense = r.Expense
		}
		point.Net = point.Income.Sub(point.Expense)
		series = append(series, point)
	}
	return series, nil
}

// GetSummary gathers the dashboard figures of a month concurrently. It is a
// best-effort snapshot; the queries do not share a transaction.
func (s *StatisticsService) GetSummary(ctx context.Context, workspaceID int32, year, month int) (*Summary, error) {
	if err := util.ValidateMonth(year, month); err != nil {
		return nil, err
	}

	start, end := util.MonthRange(year, month)
	expense := domain.EntryKindExpense
	income := domain.EntryKindIncome
	summary := &Summary{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary.Growth, err = s.GetGrowth(ctx, workspaceID, year, month)
		return err
	})
	g.Go(func() error {
		var err error
		summary.Balances, err = s.GetAccountBalances(ctx, workspaceID)
		return err
	})
	g.Go(func() error {
		var err error
		summary.TopExpenses, err = s.GetTopCategories(ctx, workspaceID, start, end, &expense, domain.DefaultTopCategoryLimit)
		return err
	})
	g.Go(func() error {
		var err error
		summary.TopIncome, err = s.GetTopCategories(ctx, workspaceID, start, end, &income, domain.DefaultTopCategoryLimit)
		return err
	})
	g.Go(func() error {
		var err error
		summary.BudgetVariance, err = s.GetBudgetVariance(ctx, workspaceID, year, month)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

// growthPercent returns (current-previous)/previous*100 rounded to two
// places, or zero when previous is zero.
func growthPercent(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred).Round(2)
}
