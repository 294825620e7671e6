package service

import (
	"context"
	"strings"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// CategoryService handles category and subcategory business logic
type CategoryService struct {
	tx             domain.Transactor
	categoryRepo   domain.CategoryRepository
	eventPublisher websocket.EventPublisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(tx domain.Transactor, categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{
		tx:           tx,
		categoryRepo: categoryRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *CategoryService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *CategoryService) publishEvent(workspaceID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// CreateCategoryInput holds the input for creating a category
type CreateCategoryInput struct {
	Name          string
	Kind          domain.CategoryKind
	Color         string
	MonthlyBudget *decimal.Decimal
}

// UpdateCategoryInput holds a partial category update
type UpdateCategoryInput struct {
	Name          *string
	Kind          *domain.CategoryKind
	Color         *string
	MonthlyBudget *decimal.Decimal
	ClearBudget   bool
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(ctx context.Context, workspaceID int32, input CreateCategoryInput) (*domain.Category, error) {
	name, err := validateCategoryName(input.Name)
	if err != nil {
		return nil, err
	}
	if !input.Kind.IsValid() {
		return nil, domain.NewFieldError("kind", domain.ErrInvalidCategoryKind)
	}
	color, err := normalizeColor(input.Color)
	if err != nil {
		return nil, err
	}
	budget, err := validateBudget(input.MonthlyBudget)
	if err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.Create(ctx, &domain.Category{
		WorkspaceID:   workspaceID,
		Name:          name,
		Kind:          input.Kind,
		Color:         color,
		MonthlyBudget: budget,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.CategoryCreated(category))
	return category, nil
}

// GetCategory retrieves a category by ID
func (s *CategoryService) GetCategory(ctx context.Context, workspaceID int32, id int32) (*domain.Category, error) {
	return s.categoryRepo.GetByID(ctx, workspaceID, id)
}

// ListCategories retrieves categories, optionally filtered by kind and active flag
func (s *CategoryService) ListCategories(ctx context.Context, workspaceID int32, filters *domain.CategoryFilters) ([]*domain.Category, error) {
	if filters != nil && filters.Kind != nil && !filters.Kind.IsValid() {
		return nil, domain.NewFieldError("kind", domain.ErrInvalidCategoryKind)
	}
	return s.categoryRepo.List(ctx, workspaceID, filters)
}

// UpdateCategory applies a partial update. The kind cannot change while
// pending or confirmed entries use the category.
func (s *CategoryService) UpdateCategory(ctx context.Context, workspaceID int32, id int32, input UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if category.Name, err = validateCategoryName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Color != nil {
		if category.Color, err = normalizeColor(*input.Color); err != nil {
			return nil, err
		}
	}
	if input.ClearBudget {
		category.MonthlyBudget = nil
	} else if input.MonthlyBudget != nil {
		if category.MonthlyBudget, err = validateBudget(input.MonthlyBudget); err != nil {
			return nil, err
		}
	}
	if input.Kind != nil && *input.Kind != category.Kind {
		if !input.Kind.IsValid() {
			return nil, domain.NewFieldError("kind", domain.ErrInvalidCategoryKind)
		}
		refs, err := s.categoryRepo.CountReferences(ctx, workspaceID, id)
		if err != nil {
			return nil, err
		}
		if refs.ActiveEntries > 0 {
			return nil, &domain.ConflictError{
				Resource:   "category",
				ID:         id,
				Reason:     "kind cannot change while active entries use it",
				References: refs.ActiveEntries,
			}
		}
		category.Kind = *input.Kind
	}

	updated, err := s.categoryRepo.Update(ctx, category)
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.CategoryUpdated(updated))
	return updated, nil
}

// DeactivateCategory hides a category from new entries. Without cascade it
// is refused while active entries or active subcategories reference it; with
// cascade the subcategories are deactivated in the same transaction.
func (s *CategoryService) DeactivateCategory(ctx context.Context, workspaceID int32, id int32, cascade bool) (*domain.Category, error) {
	var (
		category *domain.Category
		changed  bool
		cascaded int64
	)
	// The exclusive row lock waits for entry writers holding the shared lock,
	// so the reference count below sees every committed entry.
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.categoryRepo.LockCategory(ctx, workspaceID, id, domain.RowLockExclusive); err != nil {
			return err
		}
		var err error
		if category, err = s.categoryRepo.GetByID(ctx, workspaceID, id); err != nil {
			return err
		}
		if !category.Active {
			return nil
		}

		refs, err := s.categoryRepo.CountReferences(ctx, workspaceID, id)
		if err != nil {
			return err
		}
		if !cascade && refs.ActiveEntries+refs.ActiveSubcategories > 0 {
			return &domain.ConflictError{
				Resource:   "category",
				ID:         id,
				Reason:     "has active entries or subcategories",
				References: refs.ActiveEntries + refs.ActiveSubcategories,
			}
		}

		if category, err = s.categoryRepo.SetActive(ctx, workspaceID, id, false); err != nil {
			return err
		}
		if cascade {
			if cascaded, err = s.categoryRepo.DeactivateSubcategoriesByCategory(ctx, workspaceID, id); err != nil {
				return err
			}
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return category, nil
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("category_id", id).
		Bool("cascade", cascade).
		Int64("subcategories_deactivated", cascaded).
		Msg("Category deactivated")

	s.publishEvent(workspaceID, websocket.CategoryDeactivated(map[string]interface{}{
		"category":                 category,
		"subcategoriesDeactivated": cascaded,
	}))
	return category, nil
}

// ReactivateCategory makes a category selectable again. Subcategories keep
// their own state.
func (s *CategoryService) ReactivateCategory(ctx context.Context, workspaceID int32, id int32) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	if category.Active {
		return category, nil
	}

	category, err = s.categoryRepo.SetActive(ctx, workspaceID, id, true)
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.CategoryReactivated(category))
	return category, nil
}

// DeleteCategory removes a category and its subcategories when no entry of
// any status references them
func (s *CategoryService) DeleteCategory(ctx context.Context, workspaceID int32, id int32) error {
	if _, err := s.categoryRepo.GetByID(ctx, workspaceID, id); err != nil {
		return err
	}

	refs, err := s.categoryRepo.CountReferences(ctx, workspaceID, id)
	if err != nil {
		return err
	}
	if refs.TotalEntries > 0 {
		return &domain.ConflictError{
			Resource:   "category",
			ID:         id,
			Reason:     "referenced by entries",
			References: refs.TotalEntries,
		}
	}

	if err := s.categoryRepo.Delete(ctx, workspaceID, id); err != nil {
		return err
	}

	s.publishEvent(workspaceID, websocket.CategoryDeleted(map[string]int32{"id": id}))
	return nil
}

// CreateSubcategory adds a subcategory under an active category
func (s *CategoryService) CreateSubcategory(ctx context.Context, workspaceID int32, categoryID int32, name string) (*domain.Subcategory, error) {
	name, err := validateCategoryName(name)
	if err != nil {
		return nil, err
	}

	var sub *domain.Subcategory
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.requireActiveParent(ctx, workspaceID, categoryID); err != nil {
			return err
		}
		sub, err = s.categoryRepo.CreateSubcategory(ctx, &domain.Subcategory{
			WorkspaceID: workspaceID,
			CategoryID:  categoryID,
			Name:        name,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.SubcategoryCreated(sub))
	return sub, nil
}

// ListSubcategories retrieves the subcategories of a category
func (s *CategoryService) ListSubcategories(ctx context.Context, workspaceID int32, categoryID int32, includeInactive bool) ([]*domain.Subcategory, error) {
	if _, err := s.categoryRepo.GetByID(ctx, workspaceID, categoryID); err != nil {
		return nil, err
	}
	return s.categoryRepo.ListSubcategories(ctx, workspaceID, categoryID, includeInactive)
}

// UpdateSubcategory renames a subcategory
func (s *CategoryService) UpdateSubcategory(ctx context.Context, workspaceID int32, id int32, name string) (*domain.Subcategory, error) {
	name, err := validateCategoryName(name)
	if err != nil {
		return nil, err
	}

	sub, err := s.categoryRepo.UpdateSubcategory(ctx, workspaceID, id, name)
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.SubcategoryUpdated(sub))
	return sub, nil
}

// DeactivateSubcategory hides a subcategory unless active entries use it
func (s *CategoryService) DeactivateSubcategory(ctx context.Context, workspaceID int32, id int32) (*domain.Subcategory, error) {
	var (
		sub     *domain.Subcategory
		changed bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.categoryRepo.LockSubcategory(ctx, workspaceID, id, domain.RowLockExclusive); err != nil {
			return err
		}
		var err error
		if sub, err = s.categoryRepo.GetSubcategoryByID(ctx, workspaceID, id); err != nil {
			return err
		}
		if !sub.Active {
			return nil
		}

		active, err := s.categoryRepo.CountActiveSubcategoryEntries(ctx, workspaceID, id)
		if err != nil {
			return err
		}
		if active > 0 {
			return &domain.ConflictError{
				Resource:   "subcategory",
				ID:         id,
				Reason:     "has active entries",
				References: active,
			}
		}

		if sub, err = s.categoryRepo.SetSubcategoryActive(ctx, workspaceID, id, false); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.publishEvent(workspaceID, websocket.SubcategoryDeactivated(sub))
	}
	return sub, nil
}

// ReactivateSubcategory makes a subcategory selectable again. Its category
// must be active.
func (s *CategoryService) ReactivateSubcategory(ctx context.Context, workspaceID int32, id int32) (*domain.Subcategory, error) {
	sub, err := s.categoryRepo.GetSubcategoryByID(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	if sub.Active {
		return sub, nil
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.requireActiveParent(ctx, workspaceID, sub.CategoryID); err != nil {
			return err
		}
		sub, err = s.categoryRepo.SetSubcategoryActive(ctx, workspaceID, id, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.SubcategoryUpdated(sub))
	return sub, nil
}

// requireActiveParent share-locks a category so it cannot be deactivated
// before the caller's transaction commits, then checks it is active
func (s *CategoryService) requireActiveParent(ctx context.Context, workspaceID int32, categoryID int32) error {
	if err := s.categoryRepo.LockCategory(ctx, workspaceID, categoryID, domain.RowLockShared); err != nil {
		return err
	}
	category, err := s.categoryRepo.GetByID(ctx, workspaceID, categoryID)
	if err != nil {
		return err
	}
	if !category.Active {
		return domain.NewFieldError("categoryId", domain.ErrCategoryInactive)
	}
	return nil
}

func validateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.NewFieldError("name", domain.ErrNameRequired)
	}
	if len(name) > domain.MaxCategoryNameLength {
		return "", domain.NewFieldError("name", domain.ErrNameTooLong)
	}
	return name, nil
}

func normalizeColor(color string) (string, error) {
	color = strings.TrimSpace(color)
	if color == "" {
		return domain.DefaultCategoryColor, nil
	}
	if !domain.IsValidColor(color) {
		return "", domain.NewFieldError("color", domain.ErrInvalidColor)
	}
	return strings.ToUpper(color), nil
}

func validateBudget(budget *decimal.Decimal) (*decimal.Decimal, error) {
	if budget == nil {
		return nil, nil
	}
	if budget.IsNegative() {
		return nil, domain.NewFieldError("monthlyBudget", domain.ErrInvalidBudget)
	}
	if err := domain.ValidateAmount("monthlyBudget", *budget); err != nil {
		return nil, err
	}
	b := *budget
	return &b, nil
}
