package postgres

import (
	"context"
	"fmt"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const categoryColumns = `id, workspace_id, name, kind, color, monthly_budget, active, created_at, updated_at`

const subcategoryColumns = `id, workspace_id, category_id, name, active, created_at, updated_at`

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool    *pgxpool.Pool
	queries *Queries
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{
		pool:    pool,
		queries: New(pool),
	}
}

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	budget, err := nullableDecimalToPgNumeric(category.MonthlyBudget)
	if err != nil {
		return nil, fmt.Errorf("invalid monthly budget: %w", err)
	}

	row := r.queries.conn(ctx).QueryRow(ctx, `
		INSERT INTO categories (workspace_id, name, kind, color, monthly_budget, active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING `+categoryColumns,
		category.WorkspaceID, category.Name, string(category.Kind), category.Color, budget,
	)
	created, err := scanCategory(row)
	if err != nil {
		return nil, storageErr("create category", err)
	}
	return created, nil
}

// GetByID retrieves a category by its ID within a workspace
func (r *CategoryRepository) GetByID(ctx context.Context, workspaceID int32, id int32) (*domain.Category, error) {
	row := r.queries.conn(ctx).QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id,
	)
	category, err := scanCategory(row)
	if err != nil {
		if errNoRows(err) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, storageErr("get category", err)
	}
	return category, nil
}

// LockCategory takes a FOR SHARE or FOR UPDATE lock on the category row
func (r *CategoryRepository) LockCategory(ctx context.Context, workspaceID int32, id int32, lock domain.RowLock) error {
	if err := lockRow(ctx, r.queries.conn(ctx), "categories", workspaceID, id, lock); err != nil {
		if errNoRows(err) {
			return domain.ErrCategoryNotFound
		}
		return storageErr("lock category", err)
	}
	return nil
}

// LockSubcategory takes a FOR SHARE or FOR UPDATE lock on the subcategory row
func (r *CategoryRepository) LockSubcategory(ctx context.Context, workspaceID int32, id int32, lock domain.RowLock) error {
	if err := lockRow(ctx, r.queries.conn(ctx), "subcategories", workspaceID, id, lock); err != nil {
		if errNoRows(err) {
			return domain.ErrSubcategoryNotFound
		}
		return storageErr("lock subcategory", err)
	}
	return nil
}

// List retrieves categories matching the filters ordered by kind and name
func (r *CategoryRepository) List(ctx context.Context, workspaceID int32, filters *domain.CategoryFilters) ([]*domain.Category, error) {
	var kind pgtype.Text
	var active pgtype.Bool
	if filters != nil {
		if filters.Kind != nil {
			kind = pgtype.Text{String: string(*filters.Kind), Valid: true}
		}
		if filters.Active != nil {
			active = pgtype.Bool{Bool: *filters.Active, Valid: true}
		}
	}

	rows, err := r.queries.conn(ctx).Query(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE workspace_id = $1
		  AND ($2::text IS NULL OR kind = $2)
		  AND ($3::boolean IS NULL OR active = $3)
		ORDER BY kind, name, id`,
		workspaceID, kind, active,
	)
	if err != nil {
		return nil, storageErr("list categories", err)
	}
	defer rows.Close()

	result := []*domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, storageErr("scan category", err)
		}
		result = append(result, category)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list categories", err)
	}
	return result, nil
}

// Update writes the editable fields of a category
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	budget, err := nullableDecimalToPgNumeric(category.MonthlyBudget)
	if err != nil {
		return nil, fmt.Errorf("invalid monthly budget: %w", err)
	}

	row := r.queries.conn(ctx).QueryRow(ctx, `
		UPDATE categories
		SET name = $3, kind = $4, color = $5, monthly_budget = $6, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2
		RETURNING `+categoryColumns,
		category.WorkspaceID, category.ID, category.Name, string(category.Kind), category.Color, budget,
	)
	updated, err := scanCategory(row)
	if err != nil {
		if errNoRows(err) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, storageErr("update category", err)
	}
	return updated, nil
}

// SetActive activates or deactivates a category
func (r *CategoryRepository) SetActive(ctx context.Context, workspaceID int32, id int32, active bool) (*domain.Category, error) {
	row := r.queries.conn(ctx).QueryRow(ctx, `
		UPDATE categories SET active = $3, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2
		RETURNING `+categoryColumns,
		workspaceID, id, active,
	)
	category, err := scanCategory(row)
	if err != nil {
		if errNoRows(err) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, storageErr("set category active", err)
	}
	return category, nil
}

// Delete removes a category together with its subcategories
func (r *CategoryRepository) Delete(ctx context.Context, workspaceID int32, id int32) error {
	q := r.queries.conn(ctx)
	if _, err := q.Exec(ctx,
		`DELETE FROM subcategories WHERE workspace_id = $1 AND category_id = $2`,
		workspaceID, id,
	); err != nil {
		if isForeignKeyViolation(err) {
			return &domain.ConflictError{Resource: "category", ID: id, Reason: "subcategories referenced by entries"}
		}
		return storageErr("delete subcategories", err)
	}

	tag, err := q.Exec(ctx,
		`DELETE FROM categories WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.ConflictError{Resource: "category", ID: id, Reason: "referenced by entries"}
		}
		return storageErr("delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// CountReferences counts entries and subcategories that point at a category
func (r *CategoryRepository) CountReferences(ctx context.Context, workspaceID int32, id int32) (*domain.CategoryReferences, error) {
	var refs domain.CategoryReferences
	err := r.queries.conn(ctx).QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM entries e
			 WHERE e.workspace_id = $1 AND e.category_id = $2 AND e.status IN ('pending', 'confirmed')),
			(SELECT COUNT(*) FROM entries e
			 WHERE e.workspace_id = $1 AND e.category_id = $2),
			(SELECT COUNT(*) FROM subcategories s
			 WHERE s.workspace_id = $1 AND s.category_id = $2 AND s.active),
			(SELECT COUNT(*) FROM subcategories s
			 WHERE s.workspace_id = $1 AND s.category_id = $2)`,
		workspaceID, id,
	).Scan(&refs.ActiveEntries, &refs.TotalEntries, &refs.ActiveSubcategories, &refs.TotalSubcategories)
	if err != nil {
		return nil, storageErr("count category references", err)
	}
	return &refs, nil
}

// CreateSubcategory creates a subcategory under its parent category
func (r *CategoryRepository) CreateSubcategory(ctx context.Context, sub *domain.Subcategory) (*domain.Subcategory, error) {
	row := r.queries.conn(ctx).QueryRow(ctx, `
		INSERT INTO subcategories (workspace_id, category_id, name, active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING `+subcategoryColumns,
		sub.WorkspaceID, sub.CategoryID, sub.Name,
	)
	created, err := scanSubcategory(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, storageErr("create subcategory", err)
	}
	return created, nil
}

// GetSubcategoryByID retrieves a subcategory within a workspace
func (r *CategoryRepository) GetSubcategoryByID(ctx context.Context, workspaceID int32, id int32) (*domain.Subcategory, error) {
	row := r.queries.conn(ctx).QueryRow(ctx,
		`SELECT `+subcategoryColumns+` FROM subcategories WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id,
	)
	sub, err := scanSubcategory(row)
	if err != nil {
		if errNoRows(err) {
			return nil, domain.ErrSubcategoryNotFound
		}
		return nil, storageErr("get subcategory", err)
	}
	return sub, nil
}

// ListSubcategories retrieves the subcategories of a category ordered by name
func (r *CategoryRepository) ListSubcategories(ctx context.Context, workspaceID int32, categoryID int32, includeInactive bool) ([]*domain.Subcategory, error) {
	rows, err := r.queries.conn(ctx).Query(ctx, `
		SELECT `+subcategoryColumns+` FROM subcategories
		WHERE workspace_id = $1 AND category_id = $2 AND ($3 OR active)
		ORDER BY name, id`,
		workspaceID, categoryID, includeInactive,
	)
	if err != nil {
		return nil, storageErr("list subcategories", err)
	}
	defer rows.Close()

	result := []*domain.Subcategory{}
	for rows.Next() {
		sub, err := scanSubcategory(rows)
		if err != nil {
			return nil, storageErr("scan subcategory", err)
		}
		result = append(result, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list subcategories", err)
	}
	return result, nil
}

// UpdateSubcategory renames a subcategory
func (r *CategoryRepository) UpdateSubcategory(ctx context.Context, workspaceID int32, id int32, name string) (*domain.Subcategory, error) {
	row := r.queries.conn(ctx).QueryRow(ctx, `
		UPDATE subcategories SET name = $3, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2
		RETURNING `+subcategoryColumns,
		workspaceID, id, name,
	)
	sub, err := scanSubcategory(row)
	if err != nil {
		if errNoRows(err) {
			return nil, domain.ErrSubcategoryNotFound
		}
		return nil, storageErr("update subcategory", err)
	}
	return sub, nil
}

// SetSubcategoryActive activates or deactivates a subcategory
func (r *CategoryRepository) SetSubcategoryActive(ctx context.Context, workspaceID int32, id int32, active bool) (*domain.Subcategory, error) {
	row := r.queries.conn(ctx).QueryRow(ctx, `
		UPDATE subcategories SET active = $3, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2
		RETURNING `+subcategoryColumns,
		workspaceID, id, active,
	)
	sub, err := scanSubcategory(row)
	if err != nil {
		if errNoRows(err) {
			return nil, domain.ErrSubcategoryNotFound
		}
		return nil, storageErr("set subcategory active", err)
	}
	return sub, nil
}

// DeactivateSubcategoriesByCategory deactivates every active subcategory of a
// category and returns how many changed.
func (r *CategoryRepository) DeactivateSubcategoriesByCategory(ctx context.Context, workspaceID int32, categoryID int32) (int64, error) {
	tag, err := r.queries.conn(ctx).Exec(ctx, `
		UPDATE subcategories SET active = FALSE, updated_at = NOW()
		WHERE workspace_id = $1 AND category_id = $2 AND active`,
		workspaceID, categoryID,
	)
	if err != nil {
		return 0, storageErr("deactivate subcategories", err)
	}
	return tag.RowsAffected(), nil
}

// CountActiveSubcategoryEntries counts pending and confirmed entries tagged
// with a subcategory.
func (r *CategoryRepository) CountActiveSubcategoryEntries(ctx context.Context, workspaceID int32, subcategoryID int32) (int64, error) {
	var count int64
	err := r.queries.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM entries
		WHERE workspace_id = $1 AND subcategory_id = $2 AND status IN ('pending', 'confirmed')`,
		workspaceID, subcategoryID,
	).Scan(&count)
	if err != nil {
		return 0, storageErr("count subcategory entries", err)
	}
	return count, nil
}

// Helper functions

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var (
		c      domain.Category
		kind   string
		budget pgtype.Numeric
	)
	err := row.Scan(&c.ID, &c.WorkspaceID, &c.Name, &kind, &c.Color, &budget, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Kind = domain.CategoryKind(kind)
	c.MonthlyBudget = pgNumericToNullableDecimal(budget)
	return &c, nil
}

func scanSubcategory(row pgx.Row) (*domain.Subcategory, error) {
	var s domain.Subcategory
	err := row.Scan(&s.ID, &s.WorkspaceID, &s.CategoryID, &s.Name, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
