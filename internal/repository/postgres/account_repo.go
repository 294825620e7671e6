package postgres

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, workspace_id, name, kind, bank, branch, account_number,
	initial_balance, balance, active, created_at, updated_at`

// AccountRepository implements domain.AccountRepository using PostgreSQL
type AccountRepository struct {
	pool    *pgxpool.Pool
	queries *Queries
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{
		pool:    pool,
		queries: New(pool),
	}
}

// Create creates a new account seeded with its initial balance
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	initialBalance, err := decimalToPgNumeric(account.InitialBalance)
	if err != nil {
		return nil, fmt.Errorf("invalid initial balance: %w", err)
	}

	row := r.queries.conn(ctx).QueryRow(ctx, `
		INSERT INTO accounts (workspace_id, name, kind, bank, branch, account_number, initial_balance, balance, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7, TRUE)
		RETURNING `+accountColumns,
		account.WorkspaceID, account.Name, string(account.Kind),
		textToPg(account.Bank), textToPg(account.Branch), textToPg(account.AccountNumber),
		initialBalance,
	)
	created, err := scanAccount(row)
	if err != nil {
		return nil, storageErr("create account", err)
	}
	return created, nil
}

// GetByID retrieves an account by its ID within a workspace
func (r *AccountRepository) GetByID(ctx context.Context, workspaceID int32, id int32) (*domain.Account, error) {
	row := r.queries.conn(ctx).QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id,
	)
	account, err := scanAccount(row)
	if err != nil {
		if errNoRows(err) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, storageErr("get account", err)
	}
	return account, nil
}

// GetAllByWorkspace retrieves all accounts for a workspace ordered by name
func (r *AccountRepository) GetAllByWorkspace(ctx context.Context, workspaceID int32, includeInactive bool) ([]*domain.Account, error) {
	rows, err := r.queries.conn(ctx).Query(ctx, `
		SELECT `+accountColumns+` FROM accounts
		WHERE workspace_id = $1 AND ($2 OR active)
		ORDER BY name, id`,
		workspaceID, includeInactive,
	)
	if err != nil {
		return nil, storageErr("list accounts", err)
	}
	defer rows.Close()

	result := []*domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, storageErr("scan account", err)
		}
		result = append(result, account)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list accounts", err)
	}
	return result, nil
}

// UpdateMetadata updates the user-editable fields of an account
func (r *AccountRepository) UpdateMetadata(ctx context.Context, workspaceID int32, id int32, data *domain.AccountMetadata) (*domain.Account, error) {
	row := r.queries.conn(ctx).QueryRow(ctx, `
		UPDATE accounts
		SET name = $3, kind = $4, bank = $5, branch = $6, account_number = $7, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2
		RETURNING `+accountColumns,
		workspaceID, id, data.Name, string(data.Kind),
		textToPg(data.Bank), textToPg(data.Branch), textToPg(data.AccountNumber),
	)
	account, err := scanAccount(row)
	if err != nil {
		if errNoRows(err) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, storageErr("update account", err)
	}
	return account, nil
}

// SetActive activates or deactivates an account
func (r *AccountRepository) SetActive(ctx context.Context, workspaceID int32, id int32, active bool) (*domain.Account, error) {
	row := r.queries.conn(ctx).QueryRow(ctx, `
		UPDATE accounts SET active = $3, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2
		RETURNING `+accountColumns,
		workspaceID, id, active,
	)
	account, err := scanAccount(row)
	if err != nil {
		if errNoRows(err) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, storageErr("set account active", err)
	}
	return account, nil
}

// Delete permanently removes an account. Foreign keys keep referenced
// accounts in place.
func (r *AccountRepository) Delete(ctx context.Context, workspaceID int32, id int32) error {
	tag, err := r.queries.conn(ctx).Exec(ctx,
		`DELETE FROM accounts WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.ConflictError{Resource: "account", ID: id, Reason: "referenced by entries or transfers"}
		}
		return storageErr("delete account", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// CountReferences counts entries and transfers that point at an account.
// Transfers dated after asOf are reported as open.
func (r *AccountRepository) CountReferences(ctx context.Context, workspaceID int32, id int32, asOf time.Time) (*domain.AccountReferences, error) {
	var refs domain.AccountReferences
	err := r.queries.conn(ctx).QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM entries e
			 WHERE e.workspace_id = $1 AND e.account_id = $2 AND e.status = 'pending'),
			(SELECT COUNT(*) FROM entries e
			 WHERE e.workspace_id = $1 AND e.account_id = $2),
			(SELECT COUNT(*) FROM transfers t
			 WHERE t.workspace_id = $1 AND (t.source_account_id = $2 OR t.destination_account_id = $2) AND t.date > $3),
			(SELECT COUNT(*) FROM transfers t
			 WHERE t.workspace_id = $1 AND (t.source_account_id = $2 OR t.destination_account_id = $2))`,
		workspaceID, id, dateToPg(asOf),
	).Scan(&refs.PendingEntries, &refs.TotalEntries, &refs.OpenTransfers, &refs.TotalTransfers)
	if err != nil {
		return nil, storageErr("count account references", err)
	}
	return &refs, nil
}

// LockForUpdate takes row locks on the given accounts in ascending id order
func (r *AccountRepository) LockForUpdate(ctx context.Context, workspaceID int32, ids []int32) error {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	rows, err := r.queries.conn(ctx).Query(ctx, `
		SELECT id FROM accounts
		WHERE workspace_id = $1 AND id = ANY($2)
		ORDER BY id
		FOR UPDATE`,
		workspaceID, sorted,
	)
	if err != nil {
		return storageErr("lock accounts", err)
	}
	defer rows.Close()

	locked := 0
	for rows.Next() {
		locked++
	}
	if err := rows.Err(); err != nil {
		return storageErr("lock accounts", err)
	}
	if locked != len(sorted) {
		return domain.ErrAccountNotFound
	}
	return nil
}

// ApplyDelta adds delta to the stored balance in a single statement
func (r *AccountRepository) ApplyDelta(ctx context.Context, workspaceID int32, id int32, delta decimal.Decimal) (*domain.Account, error) {
	amount, err := decimalToPgNumeric(delta)
	if err != nil {
		return nil, fmt.Errorf("invalid delta: %w", err)
	}

	row := r.queries.conn(ctx).QueryRow(ctx, `
		UPDATE accounts SET balance = balance + $3, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2
		RETURNING `+accountColumns,
		workspaceID, id, amount,
	)
	account, err := scanAccount(row)
	if err != nil {
		if errNoRows(err) {
			return nil, domain.ErrAccountNotFound
		}
		if isNumericOverflow(err) {
			return nil, domain.NewFieldError("value", domain.ErrBalanceOutOfRange)
		}
		return nil, storageErr("apply balance delta", err)
	}
	return account, nil
}

// Helper functions

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		a              domain.Account
		kind           string
		bank           pgtype.Text
		branch         pgtype.Text
		accountNumber  pgtype.Text
		initialBalance pgtype.Numeric
		balance        pgtype.Numeric
	)
	err := row.Scan(
		&a.ID, &a.WorkspaceID, &a.Name, &kind, &bank, &branch, &accountNumber,
		&initialBalance, &balance, &a.Active, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Kind = domain.AccountKind(kind)
	a.Bank = pgToText(bank)
	a.Branch = pgToText(branch)
	a.AccountNumber = pgToText(accountNumber)
	a.InitialBalance = pgNumericToDecimal(initialBalance)
	a.Balance = pgNumericToDecimal(balance)
	return &a, nil
}
