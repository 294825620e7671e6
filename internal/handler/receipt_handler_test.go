package handler

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for x := 0; x < 40; x++ {
		for y := 0; y < 30; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: uint8(y * 8), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// uploadRequest builds a multipart request carrying data as the "file" field
func uploadRequest(t *testing.T, e *echo.Echo, entryID string, field string, data []byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, "recibo.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/entries/"+entryID+"/receipt", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setWorkspaceInContext(c, testWorkspaceID)
	c.SetParamNames("id")
	c.SetParamValues(entryID)
	return c, rec
}

func receiptFixture(t *testing.T) *apiFixture {
	f := newAPIFixture(t)
	account := f.addAccount("Caixa", "0")
	category := f.addCategory("Energia", domain.CategoryKindExpense)
	f.addEntry(domain.EntryKindExpense, "230", category.ID, account.ID, domain.EntryStatusConfirmed, time.Now().UTC())
	return f
}

func TestUploadReceipt_Success(t *testing.T) {
	f := receiptFixture(t)

	c, rec := uploadRequest(t, f.e, "1", "file", pngBytes(t))
	require.NoError(t, f.receipts.UploadReceipt(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var response EntryResponse
	decodeJSON(t, rec, &response)
	assert.True(t, response.HasReceipt)

	require.Len(t, f.store.Objects, 1)
	for key, contentType := range f.store.ContentTypes {
		assert.True(t, strings.HasPrefix(key, "1/receipts/1/"), key)
		assert.Equal(t, "image/jpeg", contentType)
	}
}

func TestUploadReceipt_Disabled(t *testing.T) {
	f := receiptFixture(t)
	h := NewReceiptHandler(service.NewReceiptService(f.ledger.Entries, nil))

	c, rec := uploadRequest(t, f.e, "1", "file", pngBytes(t))
	require.NoError(t, h.UploadReceipt(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUploadReceipt_Rejected(t *testing.T) {
	tests := []struct {
		name       string
		entryID    string
		field      string
		data       []byte
		wantStatus int
	}{
		{"missing file field", "1", "attachment", []byte("x"), http.StatusBadRequest},
		{"unsupported format", "1", "file", []byte("just some text, not a receipt"), http.StatusBadRequest},
		{"unknown entry", "42", "file", nil, http.StatusNotFound},
		{"invalid entry id", "abc", "file", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := receiptFixture(t)
			data := tt.data
			if data == nil {
				data = pngBytes(t)
			}

			c, rec := uploadRequest(t, f.e, tt.entryID, tt.field, data)
			require.NoError(t, f.receipts.UploadReceipt(c))
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Empty(t, f.store.Objects)
		})
	}
}

func TestGetAndDeleteReceipt(t *testing.T) {
	f := receiptFixture(t)

	c, rec := f.request(http.MethodGet, "/api/v1/entries/1/receipt", "", "id", "1")
	require.NoError(t, f.receipts.GetReceipt(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = uploadRequest(t, f.e, "1", "file", pngBytes(t))
	require.NoError(t, f.receipts.UploadReceipt(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = f.request(http.MethodGet, "/api/v1/entries/1/receipt", "", "id", "1")
	require.NoError(t, f.receipts.GetReceipt(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var url ReceiptURLResponse
	decodeJSON(t, rec, &url)
	assert.Contains(t, url.URL, "https://receipts.test/1/receipts/1/")
	assert.Equal(t, 900, url.ExpiresIn)

	c, rec = f.request(http.MethodDelete, "/api/v1/entries/1/receipt", "", "id", "1")
	require.NoError(t, f.receipts.DeleteReceipt(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, f.store.Objects)
	assert.Len(t, f.store.Deleted, 1)

	c, rec = f.request(http.MethodDelete, "/api/v1/entries/1/receipt", "", "id", "1")
	require.NoError(t, f.receipts.DeleteReceipt(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
