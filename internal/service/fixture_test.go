package service

import (
	"sync"
	"testing"
	"time"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/testutil"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

const testWorkspaceID = int32(1)

// ledgerFixture wires every ledger service against one in-memory ledger
type ledgerFixture struct {
	ledger         *testutil.MockLedger
	accounts       *AccountService
	categories     *CategoryService
	entries        *EntryService
	transfers      *TransferService
	statistics     *StatisticsService
	reconciliation *ReconciliationService
	events         *recordingPublisher
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	ledger := testutil.NewMockLedger()
	locker := NewAccountLocker()
	events := &recordingPublisher{}

	f := &ledgerFixture{
		ledger:         ledger,
		accounts:       NewAccountService(ledger.Tx, ledger.Accounts),
		categories:     NewCategoryService(ledger.Tx, ledger.Categories),
		entries:        NewEntryService(ledger.Tx, ledger.Entries, ledger.Accounts, ledger.Categories, locker),
		transfers:      NewTransferService(ledger.Tx, ledger.Transfers, ledger.Accounts, locker),
		statistics:     NewStatisticsService(ledger.Entries, ledger.Accounts, ledger.Categories),
		reconciliation: NewReconciliationService(ledger.Accounts, ledger.Entries, ledger.Transfers),
		events:         events,
	}
	f.accounts.SetEventPublisher(events)
	f.categories.SetEventPublisher(events)
	f.entries.SetEventPublisher(events)
	f.transfers.SetEventPublisher(events)
	return f
}

func (f *ledgerFixture) addAccount(name string, initial string) *domain.Account {
	return f.ledger.Accounts.AddAccount(&domain.Account{
		WorkspaceID:    testWorkspaceID,
		Name:           name,
		Kind:           domain.AccountKindCash,
		InitialBalance: dec(initial),
		Active:         true,
	})
}

func (f *ledgerFixture) addCategory(name string, kind domain.CategoryKind) *domain.Category {
	return f.ledger.Categories.AddCategory(&domain.Category{
		WorkspaceID: testWorkspaceID,
		Name:        name,
		Kind:        kind,
		Active:      true,
	})
}

func (f *ledgerFixture) addSubcategory(categoryID int32, name string) *domain.Subcategory {
	return f.ledger.Categories.AddSubcategory(&domain.Subcategory{
		WorkspaceID: testWorkspaceID,
		CategoryID:  categoryID,
		Name:        name,
		Active:      true,
	})
}

func (f *ledgerFixture) balance(accountID int32) decimal.Decimal {
	return f.ledger.Accounts.Balance(accountID)
}

func entryInput(kind domain.EntryKind, value string, categoryID, accountID int32, status domain.EntryStatus) CreateEntryInput {
	return CreateEntryInput{
		Kind:          kind,
		Description:   "Lançamento de teste",
		Value:         dec(value),
		Date:          date(2026, 3, 10),
		PaymentMethod: domain.PaymentMethodPix,
		CategoryID:    categoryID,
		AccountID:     accountID,
		Status:        status,
	}
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// recordingPublisher captures published events for assertions
type recordingPublisher struct {
	mu     sync.Mutex
	events []websocket.Event
}

func (p *recordingPublisher) Publish(workspaceID int32, event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

func (p *recordingPublisher) count(eventType string) int {
	n := 0
	for _, t := range p.types() {
		if t == eventType {
			n++
		}
	}
	return n
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}
