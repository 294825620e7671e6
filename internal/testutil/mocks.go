package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrStorageUnavailable simulates a failing database in tests
var ErrStorageUnavailable = domain.NewStorageError("mock", errors.New("connection refused"))

// MockLedger wires the in-memory repositories together so that reference
// counts and joined names behave like the PostgreSQL implementation.
type MockLedger struct {
	Accounts   *MockAccountRepository
	Categories *MockCategoryRepository
	Entries    *MockEntryRepository
	Transfers  *MockTransferRepository
	Tx         *MockTransactor
}

// NewMockLedger creates a full set of linked mock repositories
func NewMockLedger() *MockLedger {
	accounts := NewMockAccountRepository()
	categories := NewMockCategoryRepository()
	entries := NewMockEntryRepository()
	transfers := NewMockTransferRepository()

	accounts.entries = entries
	accounts.transfers = transfers
	categories.entries = entries
	entries.accounts = accounts
	entries.categories = categories
	transfers.accounts = accounts

	return &MockLedger{
		Accounts:   accounts,
		Categories: categories,
		Entries:    entries,
		Transfers:  transfers,
		Tx:         NewMockTransactor(accounts, categories, entries, transfers),
	}
}

// Snapshotter is implemented by mocks that can roll back their state
type Snapshotter interface {
	Snapshot() (restore func())
}

type txMarker struct{}

// MockTransactor runs transactions one at a time and restores every
// participant's state when fn fails.
type MockTransactor struct {
	mu           sync.Mutex
	participants []Snapshotter
	BeginErr     error
	CommitErr    error
	Commits      int
	Rollbacks    int
}

// NewMockTransactor creates a new MockTransactor
func NewMockTransactor(participants ...Snapshotter) *MockTransactor {
	return &MockTransactor{participants: participants}
}

// WithinTx implements domain.Transactor
func (m *MockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txMarker{}) != nil {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.BeginErr != nil {
		return m.BeginErr
	}

	restores := make([]func(), 0, len(m.participants))
	for _, p := range m.participants {
		restores = append(restores, p.Snapshot())
	}

	err := fn(context.WithValue(ctx, txMarker{}, true))
	if err == nil && m.CommitErr != nil {
		err = m.CommitErr
	}
	if err != nil {
		for _, restore := range restores {
			restore()
		}
		m.Rollbacks++
		return err
	}
	m.Commits++
	return nil
}

// InTx reports whether ctx carries a mock transaction
func InTx(ctx context.Context) bool {
	return ctx.Value(txMarker{}) != nil
}

// MockAccountRepository is a mock implementation of domain.AccountRepository
type MockAccountRepository struct {
	mu       sync.Mutex
	Accounts map[int32]*domain.Account
	NextID   int32

	// LockCalls records the id sets passed to LockForUpdate
	LockCalls [][]int32
	// DeltaCalls records every applied delta in call order
	DeltaCalls []AppliedDelta

	ApplyDeltaFn func(ctx context.Context, workspaceID int32, id int32, delta decimal.Decimal) error
	GetAllFn     func(workspaceID int32) ([]*domain.Account, error)
	// LockFn runs before LockForUpdate takes effect, standing in for a
	// writer that commits while the caller waits for the lock.
	LockFn func(ids []int32)
	// CountReferencesFn runs before references are counted
	CountReferencesFn func(ctx context.Context, id int32)

	entries   *MockEntryRepository
	transfers *MockTransferRepository
}

// AppliedDelta is one recorded ApplyDelta call
type AppliedDelta struct {
	AccountID int32
	Delta     decimal.Decimal
	InTx      bool
}

// NewMockAccountRepository creates a new MockAccountRepository
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		Accounts: make(map[int32]*domain.Account),
		NextID:   1,
	}
}

// Create creates a new account seeded with its initial balance
func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := *account
	created.ID = m.NextID
	m.NextID++
	created.Balance = account.InitialBalance
	created.Active = true
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.Accounts[created.ID] = &created

	result := created
	return &result, nil
}

// GetByID retrieves an account by ID
func (m *MockAccountRepository) GetByID(ctx context.Context, workspaceID int32, id int32) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.Accounts[id]
	if !ok || account.WorkspaceID != workspaceID {
		return nil, domain.ErrAccountNotFound
	}
	result := *account
	return &result, nil
}

// GetAllByWorkspace retrieves accounts ordered by name
func (m *MockAccountRepository) GetAllByWorkspace(ctx context.Context, workspaceID int32, includeInactive bool) ([]*domain.Account, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(workspaceID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	result := []*domain.Account{}
	for _, account := range m.Accounts {
		if account.WorkspaceID != workspaceID || (!includeInactive && !account.Active) {
			continue
		}
		a := *account
		result = append(result, &a)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// UpdateMetadata updates the editable fields of an account
func (m *MockAccountRepository) UpdateMetadata(ctx context.Context, workspaceID int32, id int32, data *domain.AccountMetadata) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.Accounts[id]
	if !ok || account.WorkspaceID != workspaceID {
		return nil, domain.ErrAccountNotFound
	}
	account.Name = data.Name
	account.Kind = data.Kind
	account.Bank = data.Bank
	account.Branch = data.Branch
	account.AccountNumber = data.AccountNumber
	account.UpdatedAt = time.Now()

	result := *account
	return &result, nil
}

// SetActive activates or deactivates an account
func (m *MockAccountRepository) SetActive(ctx context.Context, workspaceID int32, id int32, active bool) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.Accounts[id]
	if !ok || account.WorkspaceID != workspaceID {
		return nil, domain.ErrAccountNotFound
	}
	account.Active = active
	account.UpdatedAt = time.Now()

	result := *account
	return &result, nil
}

// Delete removes an account unless entries or transfers reference it
func (m *MockAccountRepository) Delete(ctx context.Context, workspaceID int32, id int32) error {
	if m.entries != nil {
		if _, total := m.entries.countForAccount(workspaceID, id); total > 0 {
			return &domain.ConflictError{Resource: "account", ID: id, Reason: "referenced by entries or transfers", References: total}
		}
	}
	if m.transfers != nil {
		if _, total := m.transfers.countForAccount(workspaceID, id, time.Now()); total > 0 {
			return &domain.ConflictError{Resource: "account", ID: id, Reason: "referenced by entries or transfers", References: total}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.Accounts[id]
	if !ok || account.WorkspaceID != workspaceID {
		return domain.ErrAccountNotFound
	}
	delete(m.Accounts, id)
	return nil
}

// CountReferences counts entries and transfers that point at an account
func (m *MockAccountRepository) CountReferences(ctx context.Context, workspaceID int32, id int32, asOf time.Time) (*domain.AccountReferences, error) {
	if m.CountReferencesFn != nil {
		m.CountReferencesFn(ctx, id)
	}
	refs := &domain.AccountReferences{}
	if m.entries != nil {
		refs.PendingEntries, refs.TotalEntries = m.entries.countForAccount(workspaceID, id)
	}
	if m.transfers != nil {
		refs.OpenTransfers, refs.TotalTransfers = m.transfers.countForAccount(workspaceID, id, asOf)
	}
	return refs, nil
}

// LockForUpdate records the call and checks every account exists
func (m *MockAccountRepository) LockForUpdate(ctx context.Context, workspaceID int32, ids []int32) error {
	if m.LockFn != nil {
		m.LockFn(ids)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sorted := append([]int32(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	m.LockCalls = append(m.LockCalls, sorted)

	for _, id := range sorted {
		account, ok := m.Accounts[id]
		if !ok || account.WorkspaceID != workspaceID {
			return domain.ErrAccountNotFound
		}
	}
	return nil
}

// ApplyDelta adds delta to the stored balance
func (m *MockAccountRepository) ApplyDelta(ctx context.Context, workspaceID int32, id int32, delta decimal.Decimal) (*domain.Account, error) {
	if m.ApplyDeltaFn != nil {
		if err := m.ApplyDeltaFn(ctx, workspaceID, id, delta); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.Accounts[id]
	if !ok || account.WorkspaceID != workspaceID {
		return nil, domain.ErrAccountNotFound
	}
	balance := account.Balance.Add(delta)
	if balance.Abs().GreaterThan(domain.MaxAmount) {
		return nil, domain.NewFieldError("value", domain.ErrBalanceOutOfRange)
	}
	account.Balance = balance
	account.UpdatedAt = time.Now()
	m.DeltaCalls = append(m.DeltaCalls, AppliedDelta{AccountID: id, Delta: delta, InTx: InTx(ctx)})

	result := *account
	return &result, nil
}

// AddAccount adds an account to the mock repository (helper for tests).
// Balance defaults to the initial balance.
func (m *MockAccountRepository) AddAccount(account *domain.Account) *domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()

	a := *account
	if a.ID == 0 {
		a.ID = m.NextID
	}
	if a.ID >= m.NextID {
		m.NextID = a.ID + 1
	}
	if a.Balance.IsZero() {
		a.Balance = a.InitialBalance
	}
	m.Accounts[a.ID] = &a

	result := a
	return &result
}

// Balance returns the stored balance of an account (helper for tests)
func (m *MockAccountRepository) Balance(id int32) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()

	if account, ok := m.Accounts[id]; ok {
		return account.Balance
	}
	return decimal.Zero
}

// Snapshot implements Snapshotter
func (m *MockAccountRepository) Snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := make(map[int32]domain.Account, len(m.Accounts))
	for id, a := range m.Accounts {
		saved[id] = *a
	}
	nextID := m.NextID

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		m.Accounts = make(map[int32]*domain.Account, len(saved))
		for id, a := range saved {
			account := a
			m.Accounts[id] = &account
		}
		m.NextID = nextID
	}
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	mu            sync.Mutex
	Categories    map[int32]*domain.Category
	Subcategories map[int32]*domain.Subcategory
	NextID        int32
	NextSubID     int32

	SetActiveFn func(workspaceID int32, id int32, active bool) error
	// LockFn runs before LockCategory or LockSubcategory takes effect
	LockFn func(table string, id int32, lock domain.RowLock)
	// CountReferencesFn runs before references are counted
	CountReferencesFn func(ctx context.Context, id int32)

	// LockCalls records every category and subcategory lock in call order
	LockCalls []RowLockCall

	entries *MockEntryRepository
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories:    make(map[int32]*domain.Category),
		Subcategories: make(map[int32]*domain.Subcategory),
		NextID:        1,
		NextSubID:     1,
	}
}

// Create creates a new category
func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := cloneCategory(category)
	c.ID = m.NextID
	m.NextID++
	c.Active = true
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.Categories[c.ID] = c
	return cloneCategory(c), nil
}

// RowLockCall is one recorded LockCategory or LockSubcategory call
type RowLockCall struct {
	Table string
	ID    int32
	Lock  domain.RowLock
	InTx  bool
}

// LockCategory records the lock and checks the category exists
func (m *MockCategoryRepository) LockCategory(ctx context.Context, workspaceID int32, id int32, lock domain.RowLock) error {
	if m.LockFn != nil {
		m.LockFn("categories", id, lock)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.LockCalls = append(m.LockCalls, RowLockCall{Table: "categories", ID: id, Lock: lock, InTx: InTx(ctx)})
	if c, ok := m.Categories[id]; !ok || c.WorkspaceID != workspaceID {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// LockSubcategory records the lock and checks the subcategory exists
func (m *MockCategoryRepository) LockSubcategory(ctx context.Context, workspaceID int32, id int32, lock domain.RowLock) error {
	if m.LockFn != nil {
		m.LockFn("subcategories", id, lock)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.LockCalls = append(m.LockCalls, RowLockCall{Table: "subcategories", ID: id, Lock: lock, InTx: InTx(ctx)})
	if s, ok := m.Subcategories[id]; !ok || s.WorkspaceID != workspaceID {
		return domain.ErrSubcategoryNotFound
	}
	return nil
}

// GetByID retrieves a category by ID
func (m *MockCategoryRepository) GetByID(ctx context.Context, workspaceID int32, id int32) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.Categories[id]
	if !ok || c.WorkspaceID != workspaceID {
		return nil, domain.ErrCategoryNotFound
	}
	return cloneCategory(c), nil
}

// List retrieves categories ordered by kind and name
func (m *MockCategoryRepository) List(ctx context.Context, workspaceID int32, filters *domain.CategoryFilters) ([]*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := []*domain.Category{}
	for _, c := range m.Categories {
		if c.WorkspaceID != workspaceID {
			continue
		}
		if filters != nil {
			if filters.Kind != nil && c.Kind != *filters.Kind {
				continue
			}
			if filters.Active != nil && c.Active != *filters.Active {
				continue
			}
		}
		result = append(result, cloneCategory(c))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Kind != result[j].Kind {
			return result[i].Kind < result[j].Kind
		}
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Update writes the editable fields of a category
func (m *MockCategoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.Categories[category.ID]
	if !ok || existing.WorkspaceID != category.WorkspaceID {
		return nil, domain.ErrCategoryNotFound
	}
	c := cloneCategory(category)
	c.Active = existing.Active
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now()
	m.Categories[c.ID] = c
	return cloneCategory(c), nil
}

// SetActive activates or deactivates a category
func (m *MockCategoryRepository) SetActive(ctx context.Context, workspaceID int32, id int32, active bool) (*domain.Category, error) {
	if m.SetActiveFn != nil {
		if err := m.SetActiveFn(workspaceID, id, active); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.Categories[id]
	if !ok || c.WorkspaceID != workspaceID {
		return nil, domain.ErrCategoryNotFound
	}
	c.Active = active
	c.UpdatedAt = time.Now()
	return cloneCategory(c), nil
}

// Delete removes a category and its subcategories unless entries reference them
func (m *MockCategoryRepository) Delete(ctx context.Context, workspaceID int32, id int32) error {
	if m.entries != nil {
		if _, total := m.entries.countForCategory(workspaceID, id); total > 0 {
			return &domain.ConflictError{Resource: "category", ID: id, Reason: "referenced by entries", References: total}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.Categories[id]
	if !ok || c.WorkspaceID != workspaceID {
		return domain.ErrCategoryNotFound
	}
	for subID, s := range m.Subcategories {
		if s.CategoryID == id {
			delete(m.Subcategories, subID)
		}
	}
	delete(m.Categories, id)
	return nil
}

// CountReferences counts entries and subcategories pointing at a category
func (m *MockCategoryRepository) CountReferences(ctx context.Context, workspaceID int32, id int32) (*domain.CategoryReferences, error) {
	if m.CountReferencesFn != nil {
		m.CountReferencesFn(ctx, id)
	}
	refs := &domain.CategoryReferences{}
	if m.entries != nil {
		refs.ActiveEntries, refs.TotalEntries = m.entries.countForCategory(workspaceID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.Subcategories {
		if s.WorkspaceID != workspaceID || s.CategoryID != id {
			continue
		}
		refs.TotalSubcategories++
		if s.Active {
			refs.ActiveSubcategories++
		}
	}
	return refs, nil
}

// CreateSubcategory creates a subcategory
func (m *MockCategoryRepository) CreateSubcategory(ctx context.Context, sub *domain.Subcategory) (*domain.Subcategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Categories[sub.CategoryID]; !ok {
		return nil, domain.ErrCategoryNotFound
	}
	s := *sub
	s.ID = m.NextSubID
	m.NextSubID++
	s.Active = true
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	m.Subcategories[s.ID] = &s

	result := s
	return &result, nil
}

// GetSubcategoryByID retrieves a subcategory by ID
func (m *MockCategoryRepository) GetSubcategoryByID(ctx context.Context, workspaceID int32, id int32) (*domain.Subcategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.Subcategories[id]
	if !ok || s.WorkspaceID != workspaceID {
		return nil, domain.ErrSubcategoryNotFound
	}
	result := *s
	return &result, nil
}

// ListSubcategories retrieves the subcategories of a category ordered by name
func (m *MockCategoryRepository) ListSubcategories(ctx context.Context, workspaceID int32, categoryID int32, includeInactive bool) ([]*domain.Subcategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := []*domain.Subcategory{}
	for _, s := range m.Subcategories {
		if s.WorkspaceID != workspaceID || s.CategoryID != categoryID || (!includeInactive && !s.Active) {
			continue
		}
		sub := *s
		result = append(result, &sub)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// UpdateSubcategory renames a subcategory
func (m *MockCategoryRepository) UpdateSubcategory(ctx context.Context, workspaceID int32, id int32, name string) (*domain.Subcategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.Subcategories[id]
	if !ok || s.WorkspaceID != workspaceID {
		return nil, domain.ErrSubcategoryNotFound
	}
	s.Name = name
	s.UpdatedAt = time.Now()
	result := *s
	return &result, nil
}

// SetSubcategoryActive activates or deactivates a subcategory
func (m *MockCategoryRepository) SetSubcategoryActive(ctx context.Context, workspaceID int32, id int32, active bool) (*domain.Subcategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.Subcategories[id]
	if !ok || s.WorkspaceID != workspaceID {
		return nil, domain.ErrSubcategoryNotFound
	}
	s.Active = active
	s.UpdatedAt = time.Now()
	result := *s
	return &result, nil
}

// DeactivateSubcategoriesByCategory deactivates every active subcategory of a category
func (m *MockCategoryRepository) DeactivateSubcategoriesByCategory(ctx context.Context, workspaceID int32, categoryID int32) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var changed int64
	for _, s := range m.Subcategories {
		if s.WorkspaceID == workspaceID && s.CategoryID == categoryID && s.Active {
			s.Active = false
			changed++
		}
	}
	return changed, nil
}

// CountActiveSubcategoryEntries counts pending and confirmed entries of a subcategory
func (m *MockCategoryRepository) CountActiveSubcategoryEntries(ctx context.Context, workspaceID int32, subcategoryID int32) (int64, error) {
	if m.entries == nil {
		return 0, nil
	}
	return m.entries.countForSubcategory(workspaceID, subcategoryID), nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) *domain.Category {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := cloneCategory(category)
	if c.ID == 0 {
		c.ID = m.NextID
	}
	if c.ID >= m.NextID {
		m.NextID = c.ID + 1
	}
	if c.Color == "" {
		c.Color = domain.DefaultCategoryColor
	}
	m.Categories[c.ID] = c
	return cloneCategory(c)
}

// AddSubcategory adds a subcategory to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddSubcategory(sub *domain.Subcategory) *domain.Subcategory {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := *sub
	if s.ID == 0 {
		s.ID = m.NextSubID
	}
	if s.ID >= m.NextSubID {
		m.NextSubID = s.ID + 1
	}
	m.Subcategories[s.ID] = &s

	result := s
	return &result
}

func (m *MockCategoryRepository) names(categoryID int32, subcategoryID *int32) (string, *string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var categoryName string
	if c, ok := m.Categories[categoryID]; ok {
		categoryName = c.Name
	}
	var subName *string
	if subcategoryID != nil {
		if s, ok := m.Subcategories[*subcategoryID]; ok {
			name := s.Name
			subName = &name
		}
	}
	return categoryName, subName
}

func (m *MockCategoryRepository) category(id int32) (domain.Category, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.Categories[id]
	if !ok {
		return domain.Category{}, false
	}
	return *c, true
}

// Snapshot implements Snapshotter
func (m *MockCategoryRepository) Snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	categories := make(map[int32]*domain.Category, len(m.Categories))
	for id, c := range m.Categories {
		categories[id] = cloneCategory(c)
	}
	subs := make(map[int32]domain.Subcategory, len(m.Subcategories))
	for id, s := range m.Subcategories {
		subs[id] = *s
	}
	nextID, nextSubID := m.NextID, m.NextSubID

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		m.Categories = make(map[int32]*domain.Category, len(categories))
		for id, c := range categories {
			m.Categories[id] = cloneCategory(c)
		}
		m.Subcategories = make(map[int32]*domain.Subcategory, len(subs))
		for id, s := range subs {
			sub := s
			m.Subcategories[id] = &sub
		}
		m.NextID, m.NextSubID = nextID, nextSubID
	}
}

func cloneCategory(c *domain.Category) *domain.Category {
	clone := *c
	if c.MonthlyBudget != nil {
		budget := *c.MonthlyBudget
		clone.MonthlyBudget = &budget
	}
	return &clone
}

// MockEntryRepository is a mock implementation of domain.EntryRepository
type MockEntryRepository struct {
	mu      sync.Mutex
	Entries map[int32]*domain.Entry
	NextID  int32

	CreateFn func(entry *domain.Entry) error
	UpdateFn func(entry *domain.Entry) error
	DeleteFn func(workspaceID int32, id int32) error
	SumFn    func() error

	accounts   *MockAccountRepository
	categories *MockCategoryRepository
}

// NewMockEntryRepository creates a new MockEntryRepository
func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		Entries: make(map[int32]*domain.Entry),
		NextID:  1,
	}
}

// Create inserts an entry
func (m *MockEntryRepository) Create(ctx context.Context, entry *domain.Entry) (*domain.Entry, error) {
	if m.CreateFn != nil {
		if err := m.CreateFn(entry); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e := *entry
	e.ID = m.NextID
	m.NextID++
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	m.Entries[e.ID] = &e

	result := e
	return &result, nil
}

// GetByID retrieves an entry with joined names
func (m *MockEntryRepository) GetByID(ctx context.Context, workspaceID int32, id int32) (*domain.Entry, error) {
	m.mu.Lock()
	e, ok := m.Entries[id]
	if !ok || e.WorkspaceID != workspaceID {
		m.mu.Unlock()
		return nil, domain.ErrEntryNotFound
	}
	result := *e
	m.mu.Unlock()

	m.fillNames(&result)
	return &result, nil
}

// GetByIDForUpdate retrieves an entry
func (m *MockEntryRepository) GetByIDForUpdate(ctx context.Context, workspaceID int32, id int32) (*domain.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.Entries[id]
	if !ok || e.WorkspaceID != workspaceID {
		return nil, domain.ErrEntryNotFound
	}
	result := *e
	return &result, nil
}

// List retrieves a page of entries ordered by date descending then id
func (m *MockEntryRepository) List(ctx context.Context, workspaceID int32, filters *domain.EntryFilters) (*domain.PaginatedEntries, error) {
	all, err := m.ListAll(ctx, workspaceID, filters)
	if err != nil {
		return nil, err
	}

	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
			if pageSize > domain.MaxPageSize {
				pageSize = domain.MaxPageSize
			}
		}
	}

	total := int64(len(all))
	start := int64((page - 1) * pageSize)
	end := start + int64(pageSize)
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	totalPages := int32(total / int64(pageSize))
	if total%int64(pageSize) > 0 {
		totalPages++
	}

	return &domain.PaginatedEntries{
		Data:       all[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// ListAll retrieves every entry matching the filters
func (m *MockEntryRepository) ListAll(ctx context.Context, workspaceID int32, filters *domain.EntryFilters) ([]*domain.Entry, error) {
	m.mu.Lock()
	result := []*domain.Entry{}
	for _, e := range m.Entries {
		if e.WorkspaceID != workspaceID || !matchesEntryFilters(e, filters) {
			continue
		}
		entry := *e
		result = append(result, &entry)
	}
	m.mu.Unlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].ID < result[j].ID
	})
	for _, e := range result {
		m.fillNames(e)
	}
	return result, nil
}

// Update writes every mutable field of an entry
func (m *MockEntryRepository) Update(ctx context.Context, entry *domain.Entry) (*domain.Entry, error) {
	if m.UpdateFn != nil {
		if err := m.UpdateFn(entry); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.Entries[entry.ID]
	if !ok || existing.WorkspaceID != entry.WorkspaceID {
		return nil, domain.ErrEntryNotFound
	}
	e := *entry
	e.ReceiptKey = existing.ReceiptKey
	e.CreatedAt = existing.CreatedAt
	e.UpdatedAt = time.Now()
	e.CategoryName, e.SubcategoryName, e.AccountName = "", nil, ""
	m.Entries[e.ID] = &e

	result := e
	return &result, nil
}

// SetReceiptKey stores or clears the receipt key
func (m *MockEntryRepository) SetReceiptKey(ctx context.Context, workspaceID int32, id int32, key *string) (*domain.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.Entries[id]
	if !ok || e.WorkspaceID != workspaceID {
		return nil, domain.ErrEntryNotFound
	}
	e.ReceiptKey = key
	e.UpdatedAt = time.Now()
	result := *e
	return &result, nil
}

// Delete removes an entry
func (m *MockEntryRepository) Delete(ctx context.Context, workspaceID int32, id int32) error {
	if m.DeleteFn != nil {
		if err := m.DeleteFn(workspaceID, id); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.Entries[id]
	if !ok || e.WorkspaceID != workspaceID {
		return domain.ErrEntryNotFound
	}
	delete(m.Entries, id)
	return nil
}

// SumByKind totals confirmed income and expense in the range
func (m *MockEntryRepository) SumByKind(ctx context.Context, workspaceID int32, start, end time.Time) (*domain.KindTotals, error) {
	if m.SumFn != nil {
		if err := m.SumFn(); err != nil {
			return nil, err
		}
	}

	totals := &domain.KindTotals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, e := range m.confirmedBetween(workspaceID, &start, &end) {
		if e.Kind == domain.EntryKindIncome {
			totals.Income = totals.Income.Add(e.Value)
		} else {
			totals.Expense = totals.Expense.Add(e.Value)
		}
	}
	return totals, nil
}

// SumByCategory totals confirmed entries per category, largest first
func (m *MockEntryRepository) SumByCategory(ctx context.Context, workspaceID int32, start, end time.Time, kind *domain.EntryKind) ([]*domain.CategoryTotal, error) {
	if m.SumFn != nil {
		if err := m.SumFn(); err != nil {
			return nil, err
		}
	}

	byCategory := make(map[int32]*domain.CategoryTotal)
	for _, e := range m.confirmedBetween(workspaceID, &start, &end) {
		if kind != nil && e.Kind != *kind {
			continue
		}
		t, ok := byCategory[e.CategoryID]
		if !ok {
			t = &domain.CategoryTotal{CategoryID: e.CategoryID, Total: decimal.Zero}
			if m.categories != nil {
				if c, found := m.categories.category(e.CategoryID); found {
					t.CategoryName = c.Name
					t.Kind = c.Kind
					t.Color = c.Color
				}
			}
			byCategory[e.CategoryID] = t
		}
		t.Total = t.Total.Add(e.Value)
		t.EntryCount++
	}

	result := make([]*domain.CategoryTotal, 0, len(byCategory))
	for _, t := range byCategory {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Total.Equal(result[j].Total) {
			return result[i].Total.GreaterThan(result[j].Total)
		}
		return result[i].CategoryName < result[j].CategoryName
	})
	return result, nil
}

// SumByAccount totals confirmed income and expense per account
func (m *MockEntryRepository) SumByAccount(ctx context.Context, workspaceID int32, start, end *time.Time) ([]*domain.AccountMovement, error) {
	if m.SumFn != nil {
		if err := m.SumFn(); err != nil {
			return nil, err
		}
	}

	byAccount := make(map[int32]*domain.AccountMovement)
	for _, e := range m.confirmedBetween(workspaceID, start, end) {
		mv, ok := byAccount[e.AccountID]
		if !ok {
			mv = &domain.AccountMovement{AccountID: e.AccountID, Income: decimal.Zero, Expense: decimal.Zero}
			byAccount[e.AccountID] = mv
		}
		if e.Kind == domain.EntryKindIncome {
			mv.Income = mv.Income.Add(e.Value)
		} else {
			mv.Expense = mv.Expense.Add(e.Value)
		}
	}

	result := make([]*domain.AccountMovement, 0, len(byAccount))
	for _, mv := range byAccount {
		result = append(result, mv)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AccountID < result[j].AccountID })
	return result, nil
}

// SumByMonth totals confirmed income and expense per month
func (m *MockEntryRepository) SumByMonth(ctx context.Context, workspaceID int32, start, end time.Time) ([]*domain.MonthlyKindTotals, error) {
	if m.SumFn != nil {
		if err := m.SumFn(); err != nil {
			return nil, err
		}
	}

	type monthKey struct{ year, month int }
	byMonth := make(map[monthKey]*domain.MonthlyKindTotals)
	for _, e := range m.confirmedBetween(workspaceID, &start, &end) {
		key := monthKey{e.Date.Year(), int(e.Date.Month())}
		t, ok := byMonth[key]
		if !ok {
			t = &domain.MonthlyKindTotals{Year: key.year, Month: key.month, Income: decimal.Zero, Expense: decimal.Zero}
			byMonth[key] = t
		}
		if e.Kind == domain.EntryKindIncome {
			t.Income = t.Income.Add(e.Value)
		} else {
			t.Expense = t.Expense.Add(e.Value)
		}
	}

	result := make([]*domain.MonthlyKindTotals, 0, len(byMonth))
	for _, t := range byMonth {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year < result[j].Year
		}
		return result[i].Month < result[j].Month
	})
	return result, nil
}

// AddEntry adds an entry to the mock repository without touching balances
// (helper for tests)
func (m *MockEntryRepository) AddEntry(entry *domain.Entry) *domain.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := *entry
	if e.ID == 0 {
		e.ID = m.NextID
	}
	if e.ID >= m.NextID {
		m.NextID = e.ID + 1
	}
	m.Entries[e.ID] = &e

	result := e
	return &result
}

// Count returns the number of stored entries (helper for tests)
func (m *MockEntryRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Entries)
}

// Snapshot implements Snapshotter
func (m *MockEntryRepository) Snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := make(map[int32]domain.Entry, len(m.Entries))
	for id, e := range m.Entries {
		saved[id] = *e
	}
	nextID := m.NextID

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		m.Entries = make(map[int32]*domain.Entry, len(saved))
		for id, e := range saved {
			entry := e
			m.Entries[id] = &entry
		}
		m.NextID = nextID
	}
}

func (m *MockEntryRepository) confirmedBetween(workspaceID int32, start, end *time.Time) []domain.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []domain.Entry
	for _, e := range m.Entries {
		if e.WorkspaceID != workspaceID || e.Status != domain.EntryStatusConfirmed {
			continue
		}
		if start != nil && e.Date.Before(*start) {
			continue
		}
		if end != nil && e.Date.After(*end) {
			continue
		}
		result = append(result, *e)
	}
	return result
}

func (m *MockEntryRepository) fillNames(e *domain.Entry) {
	if m.categories != nil {
		e.CategoryName, e.SubcategoryName = m.categories.names(e.CategoryID, e.SubcategoryID)
	}
	if m.accounts != nil {
		m.accounts.mu.Lock()
		if a, ok := m.accounts.Accounts[e.AccountID]; ok {
			e.AccountName = a.Name
		}
		m.accounts.mu.Unlock()
	}
}

func (m *MockEntryRepository) countForAccount(workspaceID int32, accountID int32) (pending int64, total int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.Entries {
		if e.WorkspaceID != workspaceID || e.AccountID != accountID {
			continue
		}
		total++
		if e.Status == domain.EntryStatusPending {
			pending++
		}
	}
	return pending, total
}

func (m *MockEntryRepository) countForCategory(workspaceID int32, categoryID int32) (active int64, total int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.Entries {
		if e.WorkspaceID != workspaceID || e.CategoryID != categoryID {
			continue
		}
		total++
		if e.Status.IsActive() {
			active++
		}
	}
	return active, total
}

func (m *MockEntryRepository) countForSubcategory(workspaceID int32, subcategoryID int32) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, e := range m.Entries {
		if e.WorkspaceID == workspaceID && e.SubcategoryID != nil && *e.SubcategoryID == subcategoryID && e.Status.IsActive() {
			count++
		}
	}
	return count
}

func matchesEntryFilters(e *domain.Entry, f *domain.EntryFilters) bool {
	if f == nil {
		return true
	}
	if f.StartDate != nil && e.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && e.Date.After(*f.EndDate) {
		return false
	}
	if f.CategoryID != nil && e.CategoryID != *f.CategoryID {
		return false
	}
	if f.SubcategoryID != nil && (e.SubcategoryID == nil || *e.SubcategoryID != *f.SubcategoryID) {
		return false
	}
	if f.AccountID != nil && e.AccountID != *f.AccountID {
		return false
	}
	if f.Kind != nil && e.Kind != *f.Kind {
		return false
	}
	if f.Status != nil && e.Status != *f.Status {
		return false
	}
	if f.PaymentMethod != nil && e.PaymentMethod != *f.PaymentMethod {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(e.Description), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// MockTransferRepository is a mock implementation of domain.TransferRepository
type MockTransferRepository struct {
	mu        sync.Mutex
	Transfers map[int32]*domain.Transfer
	NextID    int32

	CreateFn func(transfer *domain.Transfer) error
	DeleteFn func(workspaceID int32, id int32) error

	accounts *MockAccountRepository
}

// NewMockTransferRepository creates a new MockTransferRepository
func NewMockTransferRepository() *MockTransferRepository {
	return &MockTransferRepository{
		Transfers: make(map[int32]*domain.Transfer),
		NextID:    1,
	}
}

// Create inserts a transfer row
func (m *MockTransferRepository) Create(ctx context.Context, transfer *domain.Transfer) (*domain.Transfer, error) {
	if m.CreateFn != nil {
		if err := m.CreateFn(transfer); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t := *transfer
	t.ID = m.NextID
	m.NextID++
	t.CreatedAt = time.Now()
	m.Transfers[t.ID] = &t

	result := t
	return &result, nil
}

// GetByID retrieves a transfer with account names
func (m *MockTransferRepository) GetByID(ctx context.Context, workspaceID int32, id int32) (*domain.Transfer, error) {
	m.mu.Lock()
	t, ok := m.Transfers[id]
	if !ok || t.WorkspaceID != workspaceID {
		m.mu.Unlock()
		return nil, domain.ErrTransferNotFound
	}
	result := *t
	m.mu.Unlock()

	m.fillNames(&result)
	return &result, nil
}

// GetByIDForUpdate retrieves a transfer
func (m *MockTransferRepository) GetByIDForUpdate(ctx context.Context, workspaceID int32, id int32) (*domain.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.Transfers[id]
	if !ok || t.WorkspaceID != workspaceID {
		return nil, domain.ErrTransferNotFound
	}
	result := *t
	return &result, nil
}

// List retrieves transfers ordered by date descending
func (m *MockTransferRepository) List(ctx context.Context, workspaceID int32, filters *domain.TransferFilters) ([]*domain.Transfer, error) {
	m.mu.Lock()
	result := []*domain.Transfer{}
	for _, t := range m.Transfers {
		if t.WorkspaceID != workspaceID {
			continue
		}
		if filters != nil {
			if filters.AccountID != nil && t.SourceAccountID != *filters.AccountID && t.DestinationAccountID != *filters.AccountID {
				continue
			}
			if filters.StartDate != nil && t.Date.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && t.Date.After(*filters.EndDate) {
				continue
			}
		}
		transfer := *t
		result = append(result, &transfer)
	}
	m.mu.Unlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].ID < result[j].ID
	})
	for _, t := range result {
		m.fillNames(t)
	}
	return result, nil
}

// Delete removes a transfer row
func (m *MockTransferRepository) Delete(ctx context.Context, workspaceID int32, id int32) error {
	if m.DeleteFn != nil {
		if err := m.DeleteFn(workspaceID, id); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.Transfers[id]
	if !ok || t.WorkspaceID != workspaceID {
		return domain.ErrTransferNotFound
	}
	delete(m.Transfers, id)
	return nil
}

// SumByAccount totals incoming and outgoing transfer value per account
func (m *MockTransferRepository) SumByAccount(ctx context.Context, workspaceID int32) ([]*domain.AccountTransferTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byAccount := make(map[int32]*domain.AccountTransferTotals)
	get := func(id int32) *domain.AccountTransferTotals {
		t, ok := byAccount[id]
		if !ok {
			t = &domain.AccountTransferTotals{AccountID: id, In: decimal.Zero, Out: decimal.Zero}
			byAccount[id] = t
		}
		return t
	}
	for _, t := range m.Transfers {
		if t.WorkspaceID != workspaceID {
			continue
		}
		get(t.SourceAccountID).Out = get(t.SourceAccountID).Out.Add(t.Value)
		get(t.DestinationAccountID).In = get(t.DestinationAccountID).In.Add(t.Value)
	}

	result := make([]*domain.AccountTransferTotals, 0, len(byAccount))
	for _, t := range byAccount {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AccountID < result[j].AccountID })
	return result, nil
}

// Count returns the number of stored transfers (helper for tests)
func (m *MockTransferRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Transfers)
}

// Snapshot implements Snapshotter
func (m *MockTransferRepository) Snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := make(map[int32]domain.Transfer, len(m.Transfers))
	for id, t := range m.Transfers {
		saved[id] = *t
	}
	nextID := m.NextID

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		m.Transfers = make(map[int32]*domain.Transfer, len(saved))
		for id, t := range saved {
			transfer := t
			m.Transfers[id] = &transfer
		}
		m.NextID = nextID
	}
}

func (m *MockTransferRepository) fillNames(t *domain.Transfer) {
	if m.accounts == nil {
		return
	}
	m.accounts.mu.Lock()
	defer m.accounts.mu.Unlock()

	if a, ok := m.accounts.Accounts[t.SourceAccountID]; ok {
		t.SourceAccountName = a.Name
	}
	if a, ok := m.accounts.Accounts[t.DestinationAccountID]; ok {
		t.DestinationAccountName = a.Name
	}
}

func (m *MockTransferRepository) countForAccount(workspaceID int32, accountID int32, asOf time.Time) (open int64, total int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.Transfers {
		if t.WorkspaceID != workspaceID || (t.SourceAccountID != accountID && t.DestinationAccountID != accountID) {
			continue
		}
		total++
		if t.Date.After(asOf) {
			open++
		}
	}
	return open, total
}

// MockReceiptStore is an in-memory implementation of storage.ReceiptStore
type MockReceiptStore struct {
	mu           sync.Mutex
	Objects      map[string][]byte
	ContentTypes map[string]string
	Deleted      []string

	UploadErr error
	DeleteErr error
}

// NewMockReceiptStore creates a new MockReceiptStore
func NewMockReceiptStore() *MockReceiptStore {
	return &MockReceiptStore{
		Objects:      make(map[string][]byte),
		ContentTypes: make(map[string]string),
	}
}

// Upload stores the object in memory
func (m *MockReceiptStore) Upload(ctx context.Context, objectKey string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	body, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[objectKey] = body
	m.ContentTypes[objectKey] = contentType
	return objectKey, nil
}

// Delete removes the object
func (m *MockReceiptStore) Delete(ctx context.Context, objectKey string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, objectKey)
	delete(m.ContentTypes, objectKey)
	m.Deleted = append(m.Deleted, objectKey)
	return nil
}

// GeneratePresignedURL returns a fake URL for an existing object
func (m *MockReceiptStore) GeneratePresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Objects[objectKey]; !ok {
		return "", fmt.Errorf("object %s does not exist", objectKey)
	}
	return fmt.Sprintf("https://receipts.test/%s?expires=%d", objectKey, int(expiry.Seconds())), nil
}
