package postgres

import (
	"context"
	"fmt"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transferColumns = `t.id, t.workspace_id, t.source_account_id, t.destination_account_id,
	t.value, t.date, t.description, t.created_at`

// TransferRepository implements domain.TransferRepository using PostgreSQL
type TransferRepository struct {
	pool    *pgxpool.Pool
	queries *Queries
}

// NewTransferRepository creates a new TransferRepository
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{
		pool:    pool,
		queries: New(pool),
	}
}

// Create inserts a transfer row. Balance legs are applied by the caller in
// the same transaction.
func (r *TransferRepository) Create(ctx context.Context, transfer *domain.Transfer) (*domain.Transfer, error) {
	value, err := decimalToPgNumeric(transfer.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid value: %w", err)
	}

	row := r.queries.conn(ctx).QueryRow(ctx, `
		INSERT INTO transfers AS t (workspace_id, source_account_id, destination_account_id, value, date, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+transferColumns,
		transfer.WorkspaceID, transfer.SourceAccountID, transfer.DestinationAccountID,
		value, dateToPg(transfer.Date), transfer.Description,
	)
	created, err := scanTransfer(row, false)
	if err != nil {
		return nil, storageErr("create transfer", err)
	}
	return created, nil
}

// GetByID retrieves a transfer with both account names
func (r *TransferRepository) GetByID(ctx context.Context, workspaceID int32, id int32) (*domain.Transfer, error) {
	row := r.queries.conn(ctx).QueryRow(ctx, `
		SELECT `+transferColumns+`, src.name, dst.name
		FROM transfers t
		JOIN accounts src ON src.id = t.source_account_id
		JOIN accounts dst ON dst.id = t.destination_account_id
		WHERE t.workspace_id = $1 AND t.id = $2`,
		workspaceID, id,
	)
	transfer, err := scanTransfer(row, true)
	if err != nil {
		if errNoRows(err) {
			return nil, domain.ErrTransferNotFound
		}
		return nil, storageErr("get transfer", err)
	}
	return transfer, nil
}

// GetByIDForUpdate retrieves a transfer and locks its row
func (r *TransferRepository) GetByIDForUpdate(ctx context.Context, workspaceID int32, id int32) (*domain.Transfer, error) {
	row := r.queries.conn(ctx).QueryRow(ctx, `
		SELECT `+transferColumns+` FROM transfers t
		WHERE t.workspace_id = $1 AND t.id = $2
		FOR UPDATE`,
		workspaceID, id,
	)
	transfer, err := scanTransfer(row, false)
	if err != nil {
		if errNoRows(err) {
			return nil, domain.ErrTransferNotFound
		}
		return nil, storageErr("lock transfer", err)
	}
	return transfer, nil
}

// List retrieves transfers ordered by date descending
func (r *TransferRepository) List(ctx context.Context, workspaceID int32, filters *domain.TransferFilters) ([]*domain.Transfer, error) {
	var (
		accountID  pgtype.Int4
		start, end pgtype.Date
	)
	if filters != nil {
		accountID = int4ToPg(filters.AccountID)
		start = nullableDateToPg(filters.StartDate)
		end = nullableDateToPg(filters.EndDate)
	}

	rows, err := r.queries.conn(ctx).Query(ctx, `
		SELECT `+transferColumns+`, src.name, dst.name
		FROM transfers t
		JOIN accounts src ON src.id = t.source_account_id
		JOIN accounts dst ON dst.id = t.destination_account_id
		WHERE t.workspace_id = $1
		  AND ($2::integer IS NULL OR t.source_account_id = $2 OR t.destination_account_id = $2)
		  AND ($3::date IS NULL OR t.date >= $3)
		  AND ($4::date IS NULL OR t.date <= $4)
		ORDER BY t.date DESC, t.id ASC`,
		workspaceID, accountID, start, end,
	)
	if err != nil {
		return nil, storageErr("list transfers", err)
	}
	defer rows.Close()

	result := []*domain.Transfer{}
	for rows.Next() {
		transfer, err := scanTransfer(rows, true)
		if err != nil {
			return nil, storageErr("scan transfer", err)
		}
		result = append(result, transfer)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list transfers", err)
	}
	return result, nil
}

// Delete removes a transfer row
func (r *TransferRepository) Delete(ctx context.Context, workspaceID int32, id int32) error {
	tag, err := r.queries.conn(ctx).Exec(ctx,
		`DELETE FROM transfers WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id,
	)
	if err != nil {
		return storageErr("delete transfer", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransferNotFound
	}
	return nil
}

// SumByAccount totals incoming and outgoing transfer value per account
func (r *TransferRepository) SumByAccount(ctx context.Context, workspaceID int32) ([]*domain.AccountTransferTotals, error) {
	rows, err := r.queries.conn(ctx).Query(ctx, `
		SELECT account_id, COALESCE(SUM(amount_in), 0), COALESCE(SUM(amount_out), 0)
		FROM (
			SELECT destination_account_id AS account_id, value AS amount_in, 0 AS amount_out
			FROM transfers WHERE workspace_id = $1
			UNION ALL
			SELECT source_account_id, 0, value
			FROM transfers WHERE workspace_id = $1
		) legs
		GROUP BY account_id
		ORDER BY account_id`,
		workspaceID,
	)
	if err != nil {
		return nil, storageErr("sum transfers by account", err)
	}
	defer rows.Close()

	result := []*domain.AccountTransferTotals{}
	for rows.Next() {
		var (
			t       domain.AccountTransferTotals
			in, out pgtype.Numeric
		)
		if err := rows.Scan(&t.AccountID, &in, &out); err != nil {
			return nil, storageErr("scan transfer totals", err)
		}
		t.In = pgNumericToDecimal(in)
		t.Out = pgNumericToDecimal(out)
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("sum transfers by account", err)
	}
	return result, nil
}

func scanTransfer(row pgx.Row, withNames bool) (*domain.Transfer, error) {
	var (
		t     domain.Transfer
		value pgtype.Numeric
		date  pgtype.Date
	)
	targets := []any{
		&t.ID, &t.WorkspaceID, &t.SourceAccountID, &t.DestinationAccountID,
		&value, &date, &t.Description, &t.CreatedAt,
	}
	if withNames {
		targets = append(targets, &t.SourceAccountName, &t.DestinationAccountName)
	}
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	t.Value = pgNumericToDecimal(value)
	t.Date = date.Time
	return &t, nil
}
