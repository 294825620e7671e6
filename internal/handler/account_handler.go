package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/middleware"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accountService        *service.AccountService
	reconciliationService *service.ReconciliationService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *service.AccountService, reconciliationService *service.ReconciliationService) *AccountHandler {
	return &AccountHandler{
		accountService:        accountService,
		reconciliationService: reconciliationService,
	}
}

// CreateAccountRequest represents the create account request body
type CreateAccountRequest struct {
	Name           string  `json:"name"`
	Kind           string  `json:"kind"`
	Bank           *string `json:"bank,omitempty"`
	Branch         *string `json:"branch,omitempty"`
	AccountNumber  *string `json:"accountNumber,omitempty"`
	InitialBalance string  `json:"initialBalance,omitempty"`
}

// UpdateAccountRequest represents the update account request body. Balances
// cannot be edited.
type UpdateAccountRequest struct {
	Name          *string `json:"name,omitempty"`
	Kind          *string `json:"kind,omitempty"`
	Bank          *string `json:"bank,omitempty"`
	Branch        *string `json:"branch,omitempty"`
	AccountNumber *string `json:"accountNumber,omitempty"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID             int32   `json:"id"`
	WorkspaceID    int32   `json:"workspaceId"`
	Name           string  `json:"name"`
	Kind           string  `json:"kind"`
	Bank           *string `json:"bank,omitempty"`
	Branch         *string `json:"branch,omitempty"`
	AccountNumber  *string `json:"accountNumber,omitempty"`
	InitialBalance string  `json:"initialBalance"`
	Balance        string  `json:"balance"`
	Active         bool    `json:"active"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

// CreateAccount godoc
// @Summary Create an account
// @Description Create a bank, cash, pix or other account. The balance starts at the initial balance.
// @Tags accounts
// @Accept json
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param request body CreateAccountRequest true "Account creation request"
// @Success 201 {object} AccountResponse
// @Failure 400 {object} ProblemDetails
// @Router /accounts [post]
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	// Parse initial balance (default to 0)
	initialBalance := decimal.Zero
	if req.InitialBalance != "" {
		var verr *ValidationError
		if initialBalance, verr = parseDecimalField("initialBalance", req.InitialBalance); verr != nil {
			return NewValidationError(c, "Invalid initial balance", []ValidationError{*verr})
		}
	}

	account, err := h.accountService.CreateAccount(c.Request().Context(), workspaceID, service.CreateAccountInput{
		Name:           req.Name,
		Kind:           domain.AccountKind(req.Kind),
		Bank:           req.Bank,
		Branch:         req.Branch,
		AccountNumber:  req.AccountNumber,
		InitialBalance: initialBalance,
	})
	if err != nil {
		return respondError(c, err, "create account")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("account_id", account.ID).Str("name", account.Name).Msg("Account created")
	return c.JSON(http.StatusCreated, toAccountResponse(account))
}

// GetAccounts godoc
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param includeInactive query bool false "Include deactivated accounts"
// @Success 200 {array} AccountResponse
// @Router /accounts [get]
func (h *AccountHandler) GetAccounts(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	includeInactive := c.QueryParam("includeInactive") == "true"

	accounts, err := h.accountService.GetAccounts(c.Request().Context(), workspaceID, includeInactive)
	if err != nil {
		return respondError(c, err, "get accounts")
	}

	response := make([]AccountResponse, len(accounts))
	for i, account := range accounts {
		response[i] = toAccountResponse(account)
	}
	return c.JSON(http.StatusOK, response)
}

// GetAccount godoc
// @Summary Get an account
// @Tags accounts
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param id path int true "Account ID"
// @Success 200 {object} AccountResponse
// @Failure 404 {object} ProblemDetails
// @Router /accounts/{id} [get]
func (h *AccountHandler) GetAccount(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid account ID", nil)
	}

	account, err := h.accountService.GetAccountByID(c.Request().Context(), workspaceID, id)
	if err != nil {
		return respondError(c, err, "get account")
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// UpdateAccount godoc
// @Summary Update account details
// @Tags accounts
// @Accept json
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param id path int true "Account ID"
// @Param request body UpdateAccountRequest true "Fields to change"
// @Success 200 {object} AccountResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid account ID", nil)
	}

	var req UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateAccountInput{
		Name:          req.Name,
		Bank:          req.Bank,
		Branch:        req.Branch,
		AccountNumber: req.AccountNumber,
	}
	if req.Kind != nil {
		kind := domain.AccountKind(*req.Kind)
		input.Kind = &kind
	}

	account, err := h.accountService.UpdateAccount(c.Request().Context(), workspaceID, id, input)
	if err != nil {
		return respondError(c, err, "update account")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("account_id", account.ID).Str("name", account.Name).Msg("Account updated")
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// DeactivateAccount godoc
// @Summary Deactivate an account
// @Description Refused with 409 while pending entries or future transfers reference the account
// @Tags accounts
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param id path int true "Account ID"
// @Success 200 {object} AccountResponse
// @Failure 409 {object} ProblemDetails
// @Router /accounts/{id}/deactivate [post]
func (h *AccountHandler) DeactivateAccount(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid account ID", nil)
	}

	account, err := h.accountService.DeactivateAccount(c.Request().Context(), workspaceID, id)
	if err != nil {
		return respondError(c, err, "deactivate account")
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// ReactivateAccount handles POST /api/v1/accounts/:id/reactivate
func (h *AccountHandler) ReactivateAccount(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid account ID", nil)
	}

	account, err := h.accountService.ReactivateAccount(c.Request().Context(), workspaceID, id)
	if err != nil {
		return respondError(c, err, "reactivate account")
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// DeleteAccount godoc
// @Summary Delete an account
// @Description Only accounts never referenced by entries or transfers can be deleted
// @Tags accounts
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param id path int true "Account ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid account ID", nil)
	}

	if err := h.accountService.DeleteAccount(c.Request().Context(), workspaceID, id); err != nil {
		return respondError(c, err, "delete account")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("account_id", id).Msg("Account deleted")
	return c.NoContent(http.StatusNoContent)
}

// Reconcile godoc
// @Summary Reconcile account balances
// @Description Compares each stored balance with the balance derived from its entries and transfers
// @Tags accounts
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Success 200 {object} service.ReconciliationReport
// @Router /accounts/reconciliation [get]
func (h *AccountHandler) Reconcile(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	report, err := h.reconciliationService.Reconcile(c.Request().Context(), workspaceID)
	if err != nil {
		return respondError(c, err, "reconcile accounts")
	}
	return c.JSON(http.StatusOK, report)
}

// Helper function to convert domain.Account to AccountResponse
func toAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:             account.ID,
		WorkspaceID:    account.WorkspaceID,
		Name:           account.Name,
		Kind:           string(account.Kind),
		Bank:           account.Bank,
		Branch:         account.Branch,
		AccountNumber:  account.AccountNumber,
		InitialBalance: account.InitialBalance.StringFixed(2),
		Balance:        account.Balance.StringFixed(2),
		Active:         account.Active,
		CreatedAt:      account.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      account.UpdatedAt.Format(time.RFC3339),
	}
}
