package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/middleware"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/service"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const testWorkspaceID = int32(1)

// apiFixture wires every handler against one in-memory ledger
type apiFixture struct {
	e        *echo.Echo
	ledger   *testutil.MockLedger
	store    *testutil.MockReceiptStore
	accounts *AccountHandler
	category *CategoryHandler
	entries  *EntryHandler
	receipts *ReceiptHandler
	transfer *TransferHandler
	stats    *StatisticsHandler
	exports  *ExportHandler
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	ledger := testutil.NewMockLedger()
	store := testutil.NewMockReceiptStore()
	locker := service.NewAccountLocker()

	accountService := service.NewAccountService(ledger.Tx, ledger.Accounts)
	categoryService := service.NewCategoryService(ledger.Tx, ledger.Categories)
	entryService := service.NewEntryService(ledger.Tx, ledger.Entries, ledger.Accounts, ledger.Categories, locker)
	entryService.SetReceiptStore(store)
	transferService := service.NewTransferService(ledger.Tx, ledger.Transfers, ledger.Accounts, locker)
	statisticsService := service.NewStatisticsService(ledger.Entries, ledger.Accounts, ledger.Categories)
	reconciliationService := service.NewReconciliationService(ledger.Accounts, ledger.Entries, ledger.Transfers)

	return &apiFixture{
		e:        echo.New(),
		ledger:   ledger,
		store:    store,
		accounts: NewAccountHandler(accountService, reconciliationService),
		category: NewCategoryHandler(categoryService),
		entries:  NewEntryHandler(entryService),
		receipts: NewReceiptHandler(service.NewReceiptService(ledger.Entries, store)),
		transfer: NewTransferHandler(transferService),
		stats:    NewStatisticsHandler(statisticsService),
		exports:  NewExportHandler(service.NewExportService(ledger.Entries, statisticsService, "BRL")),
	}
}

// request builds an echo context for a handler call. Path params are given
// as name/value pairs.
func (f *apiFixture) request(method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	setWorkspaceInContext(c, testWorkspaceID)

	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	if len(names) > 0 {
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	return c, rec
}

func (f *apiFixture) addAccount(name, initial string) *domain.Account {
	return f.ledger.Accounts.AddAccount(&domain.Account{
		WorkspaceID:    testWorkspaceID,
		Name:           name,
		Kind:           domain.AccountKindCash,
		InitialBalance: decimal.RequireFromString(initial),
		Active:         true,
	})
}

func (f *apiFixture) addCategory(name string, kind domain.CategoryKind) *domain.Category {
	return f.ledger.Categories.AddCategory(&domain.Category{
		WorkspaceID: testWorkspaceID,
		Name:        name,
		Kind:        kind,
		Active:      true,
	})
}

func (f *apiFixture) addEntry(kind domain.EntryKind, value string, categoryID, accountID int32, status domain.EntryStatus, day time.Time) *domain.Entry {
	return f.ledger.Entries.AddEntry(&domain.Entry{
		WorkspaceID:   testWorkspaceID,
		Kind:          kind,
		Description:   "Lançamento",
		Value:         decimal.RequireFromString(value),
		Date:          day,
		PaymentMethod: domain.PaymentMethodPix,
		CategoryID:    categoryID,
		AccountID:     accountID,
		Status:        status,
	})
}

// setWorkspaceInContext sets the workspace ID in the request context
func setWorkspaceInContext(c echo.Context, workspaceID int32) {
	ctx := context.WithValue(c.Request().Context(), middleware.WorkspaceIDKey, workspaceID)
	c.SetRequest(c.Request().WithContext(ctx))
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to unmarshal response %q: %v", rec.Body.String(), err)
	}
}
