package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `e.id, e.workspace_id, e.kind, e.description, e.value, e.date, e.payment_method,
	e.category_id, e.subcategory_id, e.account_id, e.status, e.recurring, e.notes, e.receipt_key,
	e.created_at, e.updated_at`

// entryFilterClause matches the parameters produced by entryFilterArgs,
// starting at $2.
const entryFilterClause = `
	e.workspace_id = $1
	AND ($2::date IS NULL OR e.date >= $2)
	AND ($3::date IS NULL OR e.date <= $3)
	AND ($4::integer IS NULL OR e.category_id = $4)
	AND ($5::integer IS NULL OR e.subcategory_id = $5)
	AND ($6::integer IS NULL OR e.account_id = $6)
	AND ($7::text IS NULL OR e.kind = $7)
	AND ($8::text IS NULL OR e.status = $8)
	AND ($9::text IS NULL OR e.payment_method = $9)
	AND ($10::text = '' OR e.description ILIKE '%' || $10 || '%')`

// EntryRepository implements domain.EntryRepository using PostgreSQL
type EntryRepository struct {
	pool    *pgxpool.Pool
	queries *Queries
}

// NewEntryRepository creates a new EntryRepository
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{
		pool:    pool,
		queries: New(pool),
	}
}

// Create inserts a new entry
func (r *EntryRepository) Create(ctx context.Context, entry *domain.Entry) (*domain.Entry, error) {
	value, err := decimalToPgNumeric(entry.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid value: %w", err)
	}

	row := r.queries.conn(ctx).QueryRow(ctx, `
		INSERT INTO entries AS e (workspace_id, kind, description, value, date, payment_method,
			category_id, subcategory_id, account_id, status, recurring, notes, receipt_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+entryColumns,
		entry.WorkspaceID, string(entry.Kind), entry.Description, value, dateToPg(entry.Date),
		string(entry.PaymentMethod), entry.CategoryID, int4ToPg(entry.SubcategoryID), entry.AccountID,
		string(entry.Status), entry.Recurring, textToPg(entry.Notes), textToPg(entry.ReceiptKey),
	)
	created, err := scanEntry(row)
	if err != nil {
		return nil, storageErr("create entry", err)
	}
	return created, nil
}

// GetByID retrieves an entry with its category, subcategory and account names
func (r *EntryRepository) GetByID(ctx context.Context, workspaceID int32, id int32) (*domain.Entry, error) {
	row := r.queries.conn(ctx).QueryRow(ctx, `
		SELECT `+entryColumns+`, c.name, s.name, a.name
		FROM entries e
		JOIN categories c ON c.id = e.category_id
		LEFT JOIN subcategories s ON s.id = e.subcategory_id
		JOIN accounts a ON a.id = e.account_id
		WHERE e.workspace_id = $1 AND e.id = $2`,
		workspaceID, id,
	)
	entry, err := scanEntryWithNames(row)
	if err != nil {
		if errNoRows(err) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, storageErr("get entry", err)
	}
	return entry, nil
}

// GetByIDForUpdate retrieves an entry and locks its row
func (r *EntryRepository) GetByIDForUpdate(ctx context.Context, workspaceID int32, id int32) (*domain.Entry, error) {
	row := r.queries.conn(ctx).QueryRow(ctx, `
		SELECT `+entryColumns+` FROM entries e
		WHERE e.workspace_id = $1 AND e.id = $2
		FOR UPDATE`,
		workspaceID, id,
	)
	entry, err := scanEntry(row)
	if err != nil {
		if errNoRows(err) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, storageErr("lock entry", err)
	}
	return entry, nil
}

// List retrieves a page of entries ordered by date descending, oldest
// record first within a day.
func (r *EntryRepository) List(ctx context.Context, workspaceID int32, filters *domain.EntryFilters) (*domain.PaginatedEntries, error) {
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
	offset := (page - 1) * pageSize

	args := entryFilterArgs(workspaceID, filters)

	var totalItems int64
	if err := r.queries.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM entries e WHERE `+entryFilterClause,
		args...,
	).Scan(&totalItems); err != nil {
		return nil, storageErr("count entries", err)
	}

	entries, err := r.queryEntries(ctx, ` LIMIT $11 OFFSET $12`, append(args, pageSize, offset)...)
	if err != nil {
		return nil, err
	}

	totalPages := int32(totalItems / int64(pageSize))
	if totalItems%int64(pageSize) > 0 {
		totalPages++
	}

	return &domain.PaginatedEntries{
		Data:       entries,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// ListAll retrieves every entry matching the filters, ignoring pagination
func (r *EntryRepository) ListAll(ctx context.Context, workspaceID int32, filters *domain.EntryFilters) ([]*domain.Entry, error) {
	return r.queryEntries(ctx, "", entryFilterArgs(workspaceID, filters)...)
}

func (r *EntryRepository) queryEntries(ctx context.Context, suffix string, args ...any) ([]*domain.Entry, error) {
	rows, err := r.queries.conn(ctx).Query(ctx, `
		SELECT `+entryColumns+`, c.name, s.name, a.name
		FROM entries e
		JOIN categories c ON c.id = e.category_id
		LEFT JOIN subcategories s ON s.id = e.subcategory_id
		JOIN accounts a ON a.id = e.account_id
		WHERE `+entryFilterClause+`
		ORDER BY e.date DESC, e.id ASC`+suffix,
		args...,
	)
	if err != nil {
		return nil, storageErr("list entries", err)
	}
	defer rows.Close()

	result := []*domain.Entry{}
	for rows.Next() {
		entry, err := scanEntryWithNames(rows)
		if err != nil {
			return nil, storageErr("scan entry", err)
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list entries", err)
	}
	return result, nil
}

// Update writes every mutable column of an entry
func (r *EntryRepository) Update(ctx context.Context, entry *domain.Entry) (*domain.Entry, error) {
	value, err := decimalToPgNumeric(entry.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid value: %w", err)
	}

	row := r.queries.conn(ctx).QueryRow(ctx, `
		UPDATE entries AS e
		SET kind = $3, description = $4, value = $5, date = $6, payment_method = $7,
			category_id = $8, subcategory_id = $9, account_id = $10, status = $11,
			recurring = $12, notes = $13, updated_at = NOW()
		WHERE e.workspace_id = $1 AND e.id = $2
		RETURNING `+entryColumns,
		entry.WorkspaceID, entry.ID, string(entry.Kind), entry.Description, value, dateToPg(entry.Date),
		string(entry.PaymentMethod), entry.CategoryID, int4ToPg(entry.SubcategoryID), entry.AccountID,
		string(entry.Status), entry.Recurring, textToPg(entry.Notes),
	)
	updated, err := scanEntry(row)
	if err != nil {
		if errNoRows(err) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, storageErr("update entry", err)
	}
	return updated, nil
}

// SetReceiptKey stores or clears the receipt object key of an entry
func (r *EntryRepository) SetReceiptKey(ctx context.Context, workspaceID int32, id int32, key *string) (*domain.Entry, error) {
	row := r.queries.conn(ctx).QueryRow(ctx, `
		UPDATE entries AS e SET receipt_key = $3, updated_at = NOW()
		WHERE e.workspace_id = $1 AND e.id = $2
		RETURNING `+entryColumns,
		workspaceID, id, textToPg(key),
	)
	entry, err := scanEntry(row)
	if err != nil {
		if errNoRows(err) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, storageErr("set receipt key", err)
	}
	return entry, nil
}

// Delete removes an entry
func (r *EntryRepository) Delete(ctx context.Context, workspaceID int32, id int32) error {
	tag, err := r.queries.conn(ctx).Exec(ctx,
		`DELETE FROM entries WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id,
	)
	if err != nil {
		return storageErr("delete entry", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

// SumByKind totals confirmed income and expense between start and end
func (r *EntryRepository) SumByKind(ctx context.Context, workspaceID int32, start, end time.Time) (*domain.KindTotals, error) {
	var income, expense pgtype.Numeric
	err := r.queries.conn(ctx).QueryRow(ctx, `
		SELECT
			COALESCE(SUM(value) FILTER (WHERE kind = 'income'), 0),
			COALESCE(SUM(value) FILTER (WHERE kind = 'expense'), 0)
		FROM entries
		WHERE workspace_id = $1 AND status = 'confirmed' AND date BETWEEN $2 AND $3`,
		workspaceID, dateToPg(start), dateToPg(end),
	).Scan(&income, &expense)
	if err != nil {
		return nil, storageErr("sum entries by kind", err)
	}
	return &domain.KindTotals{
		Income:  pgNumericToDecimal(income),
		Expense: pgNumericToDecimal(expense),
	}, nil
}

// SumByCategory totals confirmed entries per category, largest first and
// ties by category name.
func (r *EntryRepository) SumByCategory(ctx context.Context, workspaceID int32, start, end time.Time, kind *domain.EntryKind) ([]*domain.CategoryTotal, error) {
	var kindParam pgtype.Text
	if kind != nil {
		kindParam = pgtype.Text{String: string(*kind), Valid: true}
	}

	rows, err := r.queries.conn(ctx).Query(ctx, `
		SELECT c.id, c.name, c.kind, c.color, SUM(e.value), COUNT(*)
		FROM entries e
		JOIN categories c ON c.id = e.category_id
		WHERE e.workspace_id = $1 AND e.status = 'confirmed'
		  AND e.date BETWEEN $2 AND $3
		  AND ($4::text IS NULL OR e.kind = $4)
		GROUP BY c.id, c.name, c.kind, c.color
		ORDER BY SUM(e.value) DESC, c.name ASC`,
		workspaceID, dateToPg(start), dateToPg(end), kindParam,
	)
	if err != nil {
		return nil, storageErr("sum entries by category", err)
	}
	defer rows.Close()

	result := []*domain.CategoryTotal{}
	for rows.Next() {
		var (
			t         domain.CategoryTotal
			totalKind string
			total     pgtype.Numeric
		)
		if err := rows.Scan(&t.CategoryID, &t.CategoryName, &totalKind, &t.Color, &total, &t.EntryCount); err != nil {
			return nil, storageErr("scan category total", err)
		}
		t.Kind = domain.CategoryKind(totalKind)
		t.Total = pgNumericToDecimal(total)
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("sum entries by category", err)
	}
	return result, nil
}

// SumByAccount totals confirmed income and expense per account. Nil bounds
// leave the range open.
func (r *EntryRepository) SumByAccount(ctx context.Context, workspaceID int32, start, end *time.Time) ([]*domain.AccountMovement, error) {
	rows, err := r.queries.conn(ctx).Query(ctx, `
		SELECT account_id,
			COALESCE(SUM(value) FILTER (WHERE kind = 'income'), 0),
			COALESCE(SUM(value) FILTER (WHERE kind = 'expense'), 0)
		FROM entries
		WHERE workspace_id = $1 AND status = 'confirmed'
		  AND ($2::date IS NULL OR date >= $2)
		  AND ($3::date IS NULL OR date <= $3)
		GROUP BY account_id
		ORDER BY account_id`,
		workspaceID, nullableDateToPg(start), nullableDateToPg(end),
	)
	if err != nil {
		return nil, storageErr("sum entries by account", err)
	}
	defer rows.Close()

	result := []*domain.AccountMovement{}
	for rows.Next() {
		var (
			m               domain.AccountMovement
			income, expense pgtype.Numeric
		)
		if err := rows.Scan(&m.AccountID, &income, &expense); err != nil {
			return nil, storageErr("scan account movement", err)
		}
		m.Income = pgNumericToDecimal(income)
		m.Expense = pgNumericToDecimal(expense)
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("sum entries by account", err)
	}
	return result, nil
}

// SumByMonth totals confirmed income and expense per calendar month. Months
// without confirmed entries are omitted.
func (r *EntryRepository) SumByMonth(ctx context.Context, workspaceID int32, start, end time.Time) ([]*domain.MonthlyKindTotals, error) {
	rows, err := r.queries.conn(ctx).Query(ctx, `
		SELECT EXTRACT(YEAR FROM date)::integer, EXTRACT(MONTH FROM date)::integer,
			COALESCE(SUM(value) FILTER (WHERE kind = 'income'), 0),
			COALESCE(SUM(value) FILTER (WHERE kind = 'expense'), 0)
		FROM entries
		WHERE workspace_id = $1 AND status = 'confirmed' AND date BETWEEN $2 AND $3
		GROUP BY 1, 2
		ORDER BY 1, 2`,
		workspaceID, dateToPg(start), dateToPg(end),
	)
	if err != nil {
		return nil, storageErr("sum entries by month", err)
	}
	defer rows.Close()

	result := []*domain.MonthlyKindTotals{}
	for rows.Next() {
		var (
			m               domain.MonthlyKindTotals
			year, month     int32
			income, expense pgtype.Numeric
		)
		if err := rows.Scan(&year, &month, &income, &expense); err != nil {
			return nil, storageErr("scan monthly totals", err)
		}
		m.Year = int(year)
		m.Month = int(month)
		m.Income = pgNumericToDecimal(income)
		m.Expense = pgNumericToDecimal(expense)
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("sum entries by month", err)
	}
	return result, nil
}

// Helper functions

func entryFilterArgs(workspaceID int32, filters *domain.EntryFilters) []any {
	var (
		start, end            pgtype.Date
		categoryID, subID     pgtype.Int4
		accountID             pgtype.Int4
		kind, status, payment pgtype.Text
		search                string
	)
	if filters != nil {
		start = nullableDateToPg(filters.StartDate)
		end = nullableDateToPg(filters.EndDate)
		categoryID = int4ToPg(filters.CategoryID)
		subID = int4ToPg(filters.SubcategoryID)
		accountID = int4ToPg(filters.AccountID)
		if filters.Kind != nil {
			kind = pgtype.Text{String: string(*filters.Kind), Valid: true}
		}
		if filters.Status != nil {
			status = pgtype.Text{String: string(*filters.Status), Valid: true}
		}
		if filters.PaymentMethod != nil {
			payment = pgtype.Text{String: string(*filters.PaymentMethod), Valid: true}
		}
		search = filters.Search
	}
	return []any{workspaceID, start, end, categoryID, subID, accountID, kind, status, payment, search}
}

func entryScanTargets(e *domain.Entry, kind, payment, status *string, value *pgtype.Numeric, date *pgtype.Date,
	subID *pgtype.Int4, notes, receipt *pgtype.Text) []any {
	return []any{
		&e.ID, &e.WorkspaceID, kind, &e.Description, value, date, payment,
		&e.CategoryID, subID, &e.AccountID, status, &e.Recurring, notes, receipt,
		&e.CreatedAt, &e.UpdatedAt,
	}
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	return scanEntryInto(row, false)
}

func scanEntryWithNames(row pgx.Row) (*domain.Entry, error) {
	return scanEntryInto(row, true)
}

func scanEntryInto(row pgx.Row, withNames bool) (*domain.Entry, error) {
	var (
		e                     domain.Entry
		kind, payment, status string
		value                 pgtype.Numeric
		date                  pgtype.Date
		subID                 pgtype.Int4
		notes, receipt        pgtype.Text
		subName               pgtype.Text
	)
	targets := entryScanTargets(&e, &kind, &payment, &status, &value, &date, &subID, &notes, &receipt)
	if withNames {
		targets = append(targets, &e.CategoryName, &subName, &e.AccountName)
	}
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	e.Kind = domain.EntryKind(kind)
	e.PaymentMethod = domain.PaymentMethod(payment)
	e.Status = domain.EntryStatus(status)
	e.Value = pgNumericToDecimal(value)
	e.Date = date.Time
	e.SubcategoryID = pgToInt4(subID)
	e.Notes = pgToText(notes)
	e.ReceiptKey = pgToText(receipt)
	e.SubcategoryName = pgToText(subName)
	return &e, nil
}
