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

// TransferHandler handles transfer HTTP requests
type TransferHandler struct {
	transferService *service.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transferService *service.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

// CreateTransferRequest represents the create transfer request body
type CreateTransferRequest struct {
	SourceAccountID      int32  `json:"sourceAccountId"`
	DestinationAccountID int32  `json:"destinationAccountId"`
	Value                string `json:"value"`
	Date                 string `json:"date"`
	Description          string `json:"description"`
}

// TransferResponse represents a transfer in API responses
type TransferResponse struct {
	ID                     int32  `json:"id"`
	SourceAccountID        int32  `json:"sourceAccountId"`
	SourceAccountName      string `json:"sourceAccountName,omitempty"`
	DestinationAccountID   int32  `json:"destinationAccountId"`
	DestinationAccountName string `json:"destinationAccountName,omitempty"`
	Value                  string `json:"value"`
	Date                   string `json:"date"`
	Description            string `json:"description"`
	CreatedAt              string `json:"createdAt"`
}

// CreateTransfer godoc
// @Summary Move money between two accounts
// @Description Debits the source and credits the destination atomically
// @Tags transfers
// @Accept json
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param request body CreateTransferRequest true "Transfer"
// @Success 201 {object} TransferResponse
// @Failure 400 {object} ProblemDetails
// @Router /transfers [post]
func (h *TransferHandler) CreateTransfer(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req CreateTransferRequest
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

	transfer, err := h.transferService.CreateTransfer(c.Request().Context(), workspaceID, service.CreateTransferInput{
		SourceAccountID:      req.SourceAccountID,
		DestinationAccountID: req.DestinationAccountID,
		Value:                value,
		Date:                 date,
		Description:          req.Description,
	})
	if err != nil {
		return respondError(c, err, "create transfer")
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("transfer_id", transfer.ID).
		Int32("from_account", transfer.SourceAccountID).
		Int32("to_account", transfer.DestinationAccountID).
		Str("value", transfer.Value.StringFixed(2)).
		Msg("Transfer created")
	return c.JSON(http.StatusCreated, toTransferResponse(transfer))
}

// ListTransfers godoc
// @Summary List transfers
// @Tags transfers
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param accountId query int false "Either side of the transfer"
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD"
// @Success 200 {array} TransferResponse
// @Router /transfers [get]
func (h *TransferHandler) ListTransfers(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	filters := &domain.TransferFilters{}
	var validationErrors []ValidationError
	var accountID int32
	if set, err := parseIntParam(c.QueryParam("accountId"), &accountID); err != nil {
		validationErrors = append(validationErrors, ValidationError{Field: "accountId", Message: "Must be an integer"})
	} else if set {
		filters.AccountID = &accountID
	}
	var verr *ValidationError
	if filters.StartDate, verr = parseDateQuery(c, "startDate"); verr != nil {
		validationErrors = append(validationErrors, *verr)
	}
	if filters.EndDate, verr = parseDateQuery(c, "endDate"); verr != nil {
		validationErrors = append(validationErrors, *verr)
	}
	if len(validationErrors) > 0 {
		return NewValidationError(c, "Invalid filters", validationErrors)
	}

	transfers, err := h.transferService.ListTransfers(c.Request().Context(), workspaceID, filters)
	if err != nil {
		return respondError(c, err, "list transfers")
	}

	response := make([]TransferResponse, len(transfers))
	for i, transfer := range transfers {
		response[i] = toTransferResponse(transfer)
	}
	return c.JSON(http.StatusOK, response)
}

// GetTransfer handles GET /api/v1/transfers/:id
func (h *TransferHandler) GetTransfer(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid transfer ID", nil)
	}

	transfer, err := h.transferService.GetTransfer(c.Request().Context(), workspaceID, id)
	if err != nil {
		return respondError(c, err, "get transfer")
	}
	return c.JSON(http.StatusOK, toTransferResponse(transfer))
}

// DeleteTransfer godoc
// @Summary Delete a transfer
// @Description Restores both account balances
// @Tags transfers
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param id path int true "Transfer ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /transfers/{id} [delete]
func (h *TransferHandler) DeleteTransfer(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid transfer ID", nil)
	}

	if err := h.transferService.DeleteTransfer(c.Request().Context(), workspaceID, id); err != nil {
		return respondError(c, err, "delete transfer")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("transfer_id", id).Msg("Transfer deleted")
	return c.NoContent(http.StatusNoContent)
}

func toTransferResponse(transfer *domain.Transfer) TransferResponse {
	return TransferResponse{
		ID:                     transfer.ID,
		SourceAccountID:        transfer.SourceAccountID,
		SourceAccountName:      transfer.SourceAccountName,
		DestinationAccountID:   transfer.DestinationAccountID,
		DestinationAccountName: transfer.DestinationAccountName,
		Value:                  transfer.Value.StringFixed(2),
		Date:                   transfer.Date.Format(dateLayout),
		Description:            transfer.Description,
		CreatedAt:              transfer.CreatedAt.Format(time.RFC3339),
	}
}
