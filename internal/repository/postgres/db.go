package postgres

import (
	"context"
	"errors"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries runs statements against either the pool or the transaction stored
// in the context by Transactor.
type Queries struct {
	db DBTX
}

// New creates Queries bound to db
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// conn returns the transaction carried by ctx, falling back to the bound db
func (q *Queries) conn(ctx context.Context) DBTX {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return q.db
}

type txKey struct{}

// Transactor implements domain.Transactor on a pgx pool
type Transactor struct {
	pool *pgxpool.Pool
}

// NewTransactor creates a new Transactor
func NewTransactor(pool *pgxpool.Pool) *Transactor {
	return &Transactor{pool: pool}
}

// WithinTx runs fn in a database transaction. Nested calls join the outer
// transaction.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return storageErr("begin transaction", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			log.Warn().Err(err).Msg("Failed to roll back transaction")
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr("commit transaction", err)
	}
	return nil
}

// lockRow locks one workspace row of table. table is never user input.
func lockRow(ctx context.Context, db DBTX, table string, workspaceID, id int32, lock domain.RowLock) error {
	clause := "FOR SHARE"
	if lock == domain.RowLockExclusive {
		clause = "FOR UPDATE"
	}
	var locked int32
	return db.QueryRow(ctx,
		`SELECT id FROM `+table+` WHERE workspace_id = $1 AND id = $2 `+clause,
		workspaceID, id,
	).Scan(&locked)
}

// isForeignKeyViolation reports whether err is a PostgreSQL foreign key error
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// isNumericOverflow reports whether err is a PostgreSQL numeric field overflow
func isNumericOverflow(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22003"
}

func errNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
