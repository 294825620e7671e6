package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/middleware"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const csvContentType = "text/csv; charset=utf-8"

// ExportHandler serves CSV reports
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportEntries godoc
// @Summary Export entries as CSV
// @Description Accepts the same filters as GET /entries; paging is ignored
// @Tags exports
// @Produce text/csv
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD"
// @Param accountId query int false "Account ID"
// @Param categoryId query int false "Category ID"
// @Param status query string false "Entry status"
// @Success 200 {file} file
// @Failure 400 {object} ProblemDetails
// @Router /exports/entries.csv [get]
func (h *ExportHandler) ExportEntries(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	filters, validationErrors := parseEntryFilters(c)
	if len(validationErrors) > 0 {
		return NewValidationError(c, "Invalid filters", validationErrors)
	}

	// Rendered in memory so a failure can still be reported as JSON
	var buf bytes.Buffer
	count, err := h.exportService.ExportEntriesCSV(c.Request().Context(), workspaceID, filters, &buf)
	if err != nil {
		return respondError(c, err, "export entries")
	}

	log.Info().Int32("workspace_id", workspaceID).Int("rows", count).Msg("Entries exported")
	return sendCSV(c, "entries.csv", buf.Bytes())
}

// ExportMonthlySummary godoc
// @Summary Export a month's category totals as CSV
// @Tags exports
// @Produce text/csv
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param year query int false "Year"
// @Param month query int false "Month 1-12"
// @Success 200 {file} file
// @Failure 400 {object} ProblemDetails
// @Router /exports/monthly-summary.csv [get]
func (h *ExportHandler) ExportMonthlySummary(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	year, month, errs := parseYearMonth(c)
	if len(errs) > 0 {
		return NewValidationError(c, "Invalid period", errs)
	}

	var buf bytes.Buffer
	if err := h.exportService.ExportMonthlySummaryCSV(c.Request().Context(), workspaceID, year, month, &buf); err != nil {
		return respondError(c, err, "export monthly summary")
	}

	return sendCSV(c, fmt.Sprintf("summary-%04d-%02d.csv", year, month), buf.Bytes())
}

func sendCSV(c echo.Context, filename string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().Header().Set(echo.HeaderContentLength, strconv.Itoa(len(data)))
	return c.Blob(http.StatusOK, csvContentType, data)
}
