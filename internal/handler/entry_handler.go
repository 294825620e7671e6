package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/middleware"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// EntryHandler handles ledger entry HTTP requests
type EntryHandler struct {
	entryService *service.EntryService
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(entryService *service.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// CreateEntryRequest represents the create entry request body
type CreateEntryRequest struct {
	Kind          string  `json:"kind"`
	Description   string  `json:"description"`
	Value         string  `json:"value"`
	Date          string  `json:"date"`
	PaymentMethod string  `json:"paymentMethod"`
	CategoryID    int32   `json:"categoryId"`
	SubcategoryID *int32  `json:"subcategoryId,omitempty"`
	AccountID     int32   `json:"accountId"`
	Status        string  `json:"status,omitempty"`
	Recurring     bool    `json:"recurring"`
	Notes         *string `json:"notes,omitempty"`
}

// UpdateEntryRequest represents the update entry request body. Only the
// fields present are changed; clearSubcategory removes the subcategory.
type UpdateEntryRequest struct {
	Kind             *string `json:"kind,omitempty"`
	Description      *string `json:"description,omitempty"`
	Value            *string `json:"value,omitempty"`
	Date             *string `json:"date,omitempty"`
	PaymentMethod    *string `json:"paymentMethod,omitempty"`
	CategoryID       *int32  `json:"categoryId,omitempty"`
	SubcategoryID    *int32  `json:"subcategoryId,omitempty"`
	ClearSubcategory bool    `json:"clearSubcategory,omitempty"`
	AccountID        *int32  `json:"accountId,omitempty"`
	Status           *string `json:"status,omitempty"`
	Recurring        *bool   `json:"recurring,omitempty"`
	Notes            *string `json:"notes,omitempty"`
}

// SetEntryStatusRequest is the body of PATCH /entries/:id/status
type SetEntryStatusRequest struct {
	Status string `json:"status"`
}

// EntryResponse represents a ledger entry in API responses
type EntryResponse struct {
	ID              int32   `json:"id"`
	Kind            string  `json:"kind"`
	Description     string  `json:"description"`
	Value           string  `json:"value"`
	Date            string  `json:"date"`
	PaymentMethod   string  `json:"paymentMethod"`
	CategoryID      int32   `json:"categoryId"`
	CategoryName    string  `json:"categoryName,omitempty"`
	SubcategoryID   *int32  `json:"subcategoryId,omitempty"`
	SubcategoryName *string `json:"subcategoryName,omitempty"`
	AccountID       int32   `json:"accountId"`
	AccountName     string  `json:"accountName,omitempty"`
	Status          string  `json:"status"`
	Recurring       bool    `json:"recurring"`
	Notes           *string `json:"notes,omitempty"`
	HasReceipt      bool    `json:"hasReceipt"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// PaginatedEntriesResponse is a page of entries
type PaginatedEntriesResponse struct {
	Data       []EntryResponse `json:"data"`
	Page       int32           `json:"page"`
	PageSize   int32           `json:"pageSize"`
	TotalItems int64           `json:"totalItems"`
	TotalPages int32           `json:"totalPages"`
}

// CreateEntry godoc
// @Summary Record a ledger entry
// @Description Confirmed entries move the account balance immediately. Status defaults to pending.
// @Tags entries
// @Accept json
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param request body CreateEntryRequest true "Entry"
// @Success 201 {object} EntryResponse
// @Failure 400 {object} ProblemDetails
// @Router /entries [post]
func (h *EntryHandler) CreateEntry(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req CreateEntryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	var validationErrors []ValidationError
	value, verr := parseDecimalField("value", req.Value)
	if verr != nil {
		validationErrors = append(validationErrors, *verr)
	}
	date, verr := parseDateField("date", req.Date)
	if verr != nil {
		validationErrors = append(validationErrors, *verr)
	}
	if len(validationErrors) > 0 {
		return NewValidationError(c, "Validation failed", validationErrors)
	}

	entry, err := h.entryService.CreateEntry(c.Request().Context(), workspaceID, service.CreateEntryInput{
		Kind:          domain.EntryKind(req.Kind),
		Description:   req.Description,
		Value:         value,
		Date:          date,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		AccountID:     req.AccountID,
		Status:        domain.EntryStatus(req.Status),
		Recurring:     req.Recurring,
		Notes:         req.Notes,
	})
	if err != nil {
		return respondError(c, err, "create entry")
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("entry_id", entry.ID).
		Str("kind", string(entry.Kind)).
		Str("status", string(entry.Status)).
		Msg("Entry created")
	return c.JSON(http.StatusCreated, toEntryResponse(entry))
}

// ListEntries godoc
// @Summary List ledger entries
// @Description Newest first. Pass all=true to get every matching entry without paging.
// @Tags entries
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD"
// @Param categoryId query int false "Category ID"
// @Param subcategoryId query int false "Subcategory ID"
// @Param accountId query int false "Account ID"
// @Param kind query string false "income or expense"
// @Param status query string false "pending, confirmed or cancelled"
// @Param paymentMethod query string false "Payment method"
// @Param search query string false "Description or notes contains"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size (max 100)"
// @Param all query bool false "Return every entry"
// @Param format query string false "json returns every entry, like all=true"
// @Success 200 {object} PaginatedEntriesResponse
// @Failure 400 {object} ProblemDetails
// @Router /entries [get]
func (h *EntryHandler) ListEntries(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	filters, validationErrors := parseEntryFilters(c)
	if len(validationErrors) > 0 {
		return NewValidationError(c, "Invalid filters", validationErrors)
	}

	if c.QueryParam("all") == "true" || c.QueryParam("format") == "json" {
		entries, err := h.entryService.ListAllEntries(c.Request().Context(), workspaceID, filters)
		if err != nil {
			return respondError(c, err, "list entries")
		}
		response := make([]EntryResponse, len(entries))
		for i, entry := range entries {
			response[i] = toEntryResponse(entry)
		}
		return c.JSON(http.StatusOK, response)
	}

	page, err := h.entryService.ListEntries(c.Request().Context(), workspaceID, filters)
	if err != nil {
		return respondError(c, err, "list entries")
	}

	response := PaginatedEntriesResponse{
		Data:       make([]EntryResponse, len(page.Data)),
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	}
	for i, entry := range page.Data {
		response.Data[i] = toEntryResponse(entry)
	}
	return c.JSON(http.StatusOK, response)
}

// GetEntry handles GET /api/v1/entries/:id
func (h *EntryHandler) GetEntry(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid entry ID", nil)
	}

	entry, err := h.entryService.GetEntry(c.Request().Context(), workspaceID, id)
	if err != nil {
		return respondError(c, err, "get entry")
	}
	return c.JSON(http.StatusOK, toEntryResponse(entry))
}

// UpdateEntry godoc
// @Summary Update a ledger entry
// @Description Reverses the old balance effect and applies the new one in a single transaction
// @Tags entries
// @Accept json
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param id path int true "Entry ID"
// @Param request body UpdateEntryRequest true "Fields to change"
// @Success 200 {object} EntryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /entries/{id} [put]
func (h *EntryHandler) UpdateEntry(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid entry ID", nil)
	}

	var req UpdateEntryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateEntryInput{
		Description:      req.Description,
		CategoryID:       req.CategoryID,
		SubcategoryID:    req.SubcategoryID,
		ClearSubcategory: req.ClearSubcategory,
		AccountID:        req.AccountID,
		Recurring:        req.Recurring,
		Notes:            req.Notes,
	}

	var validationErrors []ValidationError
	if req.Value != nil {
		value, verr := parseDecimalField("value", *req.Value)
		if verr != nil {
			validationErrors = append(validationErrors, *verr)
		} else {
			input.Value = &value
		}
	}
	if req.Date != nil {
		date, verr := parseDateField("date", *req.Date)
		if verr != nil {
			validationErrors = append(validationErrors, *verr)
		} else {
			input.Date = &date
		}
	}
	if len(validationErrors) > 0 {
		return NewValidationError(c, "Validation failed", validationErrors)
	}

	if req.Kind != nil {
		kind := domain.EntryKind(*req.Kind)
		input.Kind = &kind
	}
	if req.PaymentMethod != nil {
		method := domain.PaymentMethod(*req.PaymentMethod)
		input.PaymentMethod = &method
	}
	if req.Status != nil {
		status := domain.EntryStatus(*req.Status)
		input.Status = &status
	}

	entry, err := h.entryService.UpdateEntry(c.Request().Context(), workspaceID, id, input)
	if err != nil {
		return respondError(c, err, "update entry")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("entry_id", entry.ID).Msg("Entry updated")
	return c.JSON(http.StatusOK, toEntryResponse(entry))
}

// SetEntryStatus godoc
// @Summary Change an entry's status
// @Description Moving into or out of confirmed applies or reverses the balance effect. Setting the current status is a no-op.
// @Tags entries
// @Accept json
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param id path int true "Entry ID"
// @Param request body SetEntryStatusRequest true "New status"
// @Success 200 {object} EntryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /entries/{id}/status [patch]
func (h *EntryHandler) SetEntryStatus(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid entry ID", nil)
	}

	var req SetEntryStatusRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	entry, err := h.entryService.SetEntryStatus(c.Request().Context(), workspaceID, id, domain.EntryStatus(req.Status))
	if err != nil {
		return respondError(c, err, "update entry status")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("entry_id", id).Str("status", string(entry.Status)).Msg("Entry status changed")
	return c.JSON(http.StatusOK, toEntryResponse(entry))
}

// DeleteEntry godoc
// @Summary Delete a ledger entry
// @Description Reverses the balance effect of a confirmed entry
// @Tags entries
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param id path int true "Entry ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /entries/{id} [delete]
func (h *EntryHandler) DeleteEntry(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid entry ID", nil)
	}

	if err := h.entryService.DeleteEntry(c.Request().Context(), workspaceID, id); err != nil {
		return respondError(c, err, "delete entry")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("entry_id", id).Msg("Entry deleted")
	return c.NoContent(http.StatusNoContent)
}

// parseEntryFilters reads the entry list query parameters. Enum values are
// passed through and validated by the service.
func parseEntryFilters(c echo.Context) (*domain.EntryFilters, []ValidationError) {
	filters := &domain.EntryFilters{Search: c.QueryParam("search")}
	var validationErrors []ValidationError

	var verr *ValidationError
	if filters.StartDate, verr = parseDateQuery(c, "startDate"); verr != nil {
		validationErrors = append(validationErrors, *verr)
	}
	if filters.EndDate, verr = parseDateQuery(c, "endDate"); verr != nil {
		validationErrors = append(validationErrors, *verr)
	}

	ids := []struct {
		name string
		dst  **int32
	}{
		{"categoryId", &filters.CategoryID},
		{"subcategoryId", &filters.SubcategoryID},
		{"accountId", &filters.AccountID},
	}
	for _, p := range ids {
		var v int32
		set, err := parseIntParam(c.QueryParam(p.name), &v)
		if err != nil {
			validationErrors = append(validationErrors, ValidationError{Field: p.name, Message: "Must be an integer"})
			continue
		}
		if set {
			*p.dst = &v
		}
	}

	if _, err := parseIntParam(c.QueryParam("page"), &filters.Page); err != nil {
		validationErrors = append(validationErrors, ValidationError{Field: "page", Message: "Must be an integer"})
	}
	if _, err := parseIntParam(c.QueryParam("pageSize"), &filters.PageSize); err != nil {
		validationErrors = append(validationErrors, ValidationError{Field: "pageSize", Message: "Must be an integer"})
	}

	if v := c.QueryParam("kind"); v != "" {
		kind := domain.EntryKind(v)
		filters.Kind = &kind
	}
	if v := c.QueryParam("status"); v != "" {
		status := domain.EntryStatus(v)
		filters.Status = &status
	}
	if v := c.QueryParam("paymentMethod"); v != "" {
		method := domain.PaymentMethod(v)
		filters.PaymentMethod = &method
	}

	return filters, validationErrors
}

func toEntryResponse(entry *domain.Entry) EntryResponse {
	return EntryResponse{
		ID:              entry.ID,
		Kind:            string(entry.Kind),
		Description:     entry.Description,
		Value:           entry.Value.StringFixed(2),
		Date:            entry.Date.Format(dateLayout),
		PaymentMethod:   string(entry.PaymentMethod),
		CategoryID:      entry.CategoryID,
		CategoryName:    entry.CategoryName,
		SubcategoryID:   entry.SubcategoryID,
		SubcategoryName: entry.SubcategoryName,
		AccountID:       entry.AccountID,
		AccountName:     entry.AccountName,
		Status:          string(entry.Status),
		Recurring:       entry.Recurring,
		Notes:           entry.Notes,
		HasReceipt:      entry.ReceiptKey != nil,
		CreatedAt:       entry.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       entry.UpdatedAt.Format(time.RFC3339),
	}
}

