package handler

import (
	"io"
	"net/http"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/middleware"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ReceiptHandler handles receipt attachments on ledger entries
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// ReceiptURLResponse carries a short-lived download link
type ReceiptURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expiresIn"`
}

// UploadReceipt godoc
// @Summary Attach a receipt to an entry
// @Description JPEG, PNG, WebP or PDF up to 10MB. Images are downscaled to 1600px wide and stored as JPEG. Replaces any previous receipt.
// @Tags receipts
// @Accept multipart/form-data
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param id path int true "Entry ID"
// @Param file formData file true "Receipt file"
// @Success 201 {object} EntryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /entries/{id}/receipt [post]
func (h *ReceiptHandler) UploadReceipt(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	// Don't read the upload when there is nowhere to put it
	if h.receiptService == nil || !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipt uploads are disabled (storage not configured)")
	}

	entryID, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid entry ID", nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}
	if file.Size > service.MaxReceiptSize {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "file", Message: service.ErrReceiptTooLarge.Error()},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	// One byte over the limit is enough for the service to reject it
	data, err := io.ReadAll(io.LimitReader(src, service.MaxReceiptSize+1))
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	entry, err := h.receiptService.UploadReceipt(c.Request().Context(), workspaceID, entryID, data)
	if err != nil {
		return respondError(c, err, "upload receipt")
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("entry_id", entryID).
		Str("filename", file.Filename).
		Msg("Receipt uploaded successfully")

	return c.JSON(http.StatusCreated, toEntryResponse(entry))
}

// GetReceipt godoc
// @Summary Get a receipt download link
// @Tags receipts
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param id path int true "Entry ID"
// @Success 200 {object} ReceiptURLResponse
// @Failure 404 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /entries/{id}/receipt [get]
func (h *ReceiptHandler) GetReceipt(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	entryID, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid entry ID", nil)
	}

	url, err := h.receiptService.ReceiptURL(c.Request().Context(), workspaceID, entryID)
	if err != nil {
		return respondError(c, err, "get receipt")
	}

	return c.JSON(http.StatusOK, ReceiptURLResponse{
		URL:       url,
		ExpiresIn: int(service.ReceiptURLExpiry.Seconds()),
	})
}

// DeleteReceipt handles DELETE /api/v1/entries/:id/receipt
func (h *ReceiptHandler) DeleteReceipt(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	entryID, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid entry ID", nil)
	}

	if _, err := h.receiptService.RemoveReceipt(c.Request().Context(), workspaceID, entryID); err != nil {
		return respondError(c, err, "delete receipt")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("entry_id", entryID).Msg("Receipt deleted")
	return c.NoContent(http.StatusNoContent)
}
