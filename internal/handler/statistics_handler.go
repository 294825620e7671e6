package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/middleware"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/service"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/util"
	"github.com/labstack/echo/v4"
)

// StatisticsHandler serves the dashboard aggregates
type StatisticsHandler struct {
	statisticsService *service.StatisticsService
}

// NewStatisticsHandler creates a new StatisticsHandler
func NewStatisticsHandler(statisticsService *service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

// GetSummary godoc
// @Summary Dashboard summary for a month
// @Description Growth, balances, top categories and budget variance in one call
// @Tags statistics
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param year query int false "Year (defaults to current)"
// @Param month query int false "Month 1-12 (defaults to current)"
// @Success 200 {object} service.Summary
// @Failure 400 {object} ProblemDetails
// @Router /statistics/summary [get]
func (h *StatisticsHandler) GetSummary(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	year, month, errs := parseYearMonth(c)
	if len(errs) > 0 {
		return NewValidationError(c, "Invalid period", errs)
	}

	summary, err := h.statisticsService.GetSummary(c.Request().Context(), workspaceID, year, month)
	if err != nil {
		return respondError(c, err, "get summary")
	}
	return c.JSON(http.StatusOK, summary)
}

// GetMonthlyTotals godoc
// @Summary Confirmed income and expense for a month
// @Tags statistics
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param year query int false "Year"
// @Param month query int false "Month 1-12"
// @Success 200 {object} service.MonthlyTotals
// @Router /statistics/monthly [get]
func (h *StatisticsHandler) GetMonthlyTotals(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	year, month, errs := parseYearMonth(c)
	if len(errs) > 0 {
		return NewValidationError(c, "Invalid period", errs)
	}

	totals, err := h.statisticsService.GetMonthlyTotals(c.Request().Context(), workspaceID, year, month)
	if err != nil {
		return respondError(c, err, "get monthly totals")
	}
	return c.JSON(http.StatusOK, totals)
}

// GetGrowth godoc
// @Summary Month over month growth
// @Description Growth is 0 when the previous month had no movement
// @Tags statistics
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param year query int false "Year"
// @Param month query int false "Month 1-12"
// @Success 200 {object} service.GrowthResult
// @Router /statistics/growth [get]
func (h *StatisticsHandler) GetGrowth(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	year, month, errs := parseYearMonth(c)
	if len(errs) > 0 {
		return NewValidationError(c, "Invalid period", errs)
	}

	growth, err := h.statisticsService.GetGrowth(c.Request().Context(), workspaceID, year, month)
	if err != nil {
		return respondError(c, err, "get growth")
	}
	return c.JSON(http.StatusOK, growth)
}

// GetBalances handles GET /api/v1/statistics/balances
func (h *StatisticsHandler) GetBalances(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	balances, err := h.statisticsService.GetAccountBalances(c.Request().Context(), workspaceID)
	if err != nil {
		return respondError(c, err, "get balances")
	}
	return c.JSON(http.StatusOK, balances)
}

// GetTopCategories godoc
// @Summary Categories ranked by confirmed total
// @Tags statistics
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param startDate query string false "YYYY-MM-DD (defaults to start of current month)"
// @Param endDate query string false "YYYY-MM-DD (defaults to end of current month)"
// @Param kind query string false "income or expense"
// @Param limit query int false "Number of categories (default 5)"
// @Success 200 {array} domain.CategoryTotal
// @Failure 400 {object} ProblemDetails
// @Router /statistics/top-categories [get]
func (h *StatisticsHandler) GetTopCategories(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	now := time.Now().UTC()
	start, end := util.MonthRange(now.Year(), int(now.Month()))

	var errs []ValidationError
	if d, verr := parseDateQuery(c, "startDate"); verr != nil {
		errs = append(errs, *verr)
	} else if d != nil {
		start = *d
	}
	if d, verr := parseDateQuery(c, "endDate"); verr != nil {
		errs = append(errs, *verr)
	} else if d != nil {
		end = *d
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, ValidationError{Field: "limit", Message: "Must be an integer"})
		}
		limit = v
	}
	if len(errs) > 0 {
		return NewValidationError(c, "Invalid parameters", errs)
	}

	var kind *domain.EntryKind
	if raw := c.QueryParam("kind"); raw != "" {
		k := domain.EntryKind(raw)
		kind = &k
	}

	totals, err := h.statisticsService.GetTopCategories(c.Request().Context(), workspaceID, start, end, kind, limit)
	if err != nil {
		return respondError(c, err, "get top categories")
	}
	return c.JSON(http.StatusOK, totals)
}

// GetBudgetVariance godoc
// @Summary Budget vs actual per category
// @Description Percentage is actual / budget * 100 for categories with a monthly budget
// @Tags statistics
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param year query int false "Year"
// @Param month query int false "Month 1-12"
// @Success 200 {array} service.BudgetVariance
// @Router /statistics/budget-variance [get]
func (h *StatisticsHandler) GetBudgetVariance(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	year, month, errs := parseYearMonth(c)
	if len(errs) > 0 {
		return NewValidationError(c, "Invalid period", errs)
	}

	variance, err := h.statisticsService.GetBudgetVariance(c.Request().Context(), workspaceID, year, month)
	if err != nil {
		return respondError(c, err, "get budget variance")
	}
	return c.JSON(http.StatusOK, variance)
}

// GetAccountRollup handles GET /api/v1/statistics/accounts
func (h *StatisticsHandler) GetAccountRollup(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var errs []ValidationError
	start, verr := parseDateQuery(c, "startDate")
	if verr != nil {
		errs = append(errs, *verr)
	}
	end, verr := parseDateQuery(c, "endDate")
	if verr != nil {
		errs = append(errs, *verr)
	}
	if len(errs) > 0 {
		return NewValidationError(c, "Invalid parameters", errs)
	}

	rollup, err := h.statisticsService.GetAccountRollup(c.Request().Context(), workspaceID, start, end)
	if err != nil {
		return respondError(c, err, "get account rollup")
	}
	return c.JSON(http.StatusOK, rollup)
}

// GetMonthlySeries godoc
// @Summary Monthly totals for the trailing months
// @Tags statistics
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param year query int false "Last year of the series"
// @Param month query int false "Last month of the series"
// @Param months query int false "Series length, 1-24 (default 6)"
// @Success 200 {array} service.MonthlyTotals
// @Router /statistics/series [get]
func (h *StatisticsHandler) GetMonthlySeries(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	year, month, errs := parseYearMonth(c)
	months := 0
	if raw := c.QueryParam("months"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, ValidationError{Field: "months", Message: "Must be an integer"})
		}
		months = v
	}
	if len(errs) > 0 {
		return NewValidationError(c, "Invalid period", errs)
	}

	series, err := h.statisticsService.GetMonthlySeries(c.Request().Context(), workspaceID, year, month, months)
	if err != nil {
		return respondError(c, err, "get monthly series")
	}
	return c.JSON(http.StatusOK, series)
}

// parseYearMonth reads year and month query params, defaulting to the
// current UTC month. Range checks are left to the service.
func parseYearMonth(c echo.Context) (int, int, []ValidationError) {
	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())
	var errs []ValidationError

	if raw := c.QueryParam("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, ValidationError{Field: "year", Message: "Must be an integer"})
		}
		year = v
	}
	if raw := c.QueryParam("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, ValidationError{Field: "month", Message: "Must be an integer"})
		}
		month = v
	}
	return year, month, errs
}
