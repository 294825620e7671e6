package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/middleware"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CategoryHandler handles category and subcategory HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest represents the create category request body
type CreateCategoryRequest struct {
	Name          string  `json:"name"`
	Kind          string  `json:"kind"`
	Color         string  `json:"color,omitempty"`
	MonthlyBudget *string `json:"monthlyBudget,omitempty"`
}

// UpdateCategoryRequest represents the update category request body.
// An empty monthlyBudget string removes the budget.
type UpdateCategoryRequest struct {
	Name          *string `json:"name,omitempty"`
	Kind          *string `json:"kind,omitempty"`
	Color         *string `json:"color,omitempty"`
	MonthlyBudget *string `json:"monthlyBudget,omitempty"`
}

// SubcategoryRequest is the body for creating or renaming a subcategory
type SubcategoryRequest struct {
	Name string `json:"name"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID            int32   `json:"id"`
	Name          string  `json:"name"`
	Kind          string  `json:"kind"`
	Color         string  `json:"color"`
	MonthlyBudget *string `json:"monthlyBudget,omitempty"`
	Active        bool    `json:"active"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// SubcategoryResponse represents a subcategory in API responses
type SubcategoryResponse struct {
	ID         int32  `json:"id"`
	CategoryID int32  `json:"categoryId"`
	Name       string `json:"name"`
	Active     bool   `json:"active"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// CreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param request body CreateCategoryRequest true "Category"
// @Success 201 {object} CategoryResponse
// @Failure 400 {object} ProblemDetails
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.CreateCategoryInput{
		Name:  req.Name,
		Kind:  domain.CategoryKind(req.Kind),
		Color: req.Color,
	}
	if req.MonthlyBudget != nil && *req.MonthlyBudget != "" {
		budget, verr := parseDecimalField("monthlyBudget", *req.MonthlyBudget)
		if verr != nil {
			return NewValidationError(c, "Invalid monthly budget", []ValidationError{*verr})
		}
		input.MonthlyBudget = &budget
	}

	category, err := h.categoryService.CreateCategory(c.Request().Context(), workspaceID, input)
	if err != nil {
		return respondError(c, err, "create category")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("category_id", category.ID).Str("name", category.Name).Msg("Category created")
	return c.JSON(http.StatusCreated, toCategoryResponse(category))
}

// ListCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param kind query string false "income or expense"
// @Param active query bool false "Filter by active flag"
// @Success 200 {array} CategoryResponse
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	filters := &domain.CategoryFilters{}
	if kind := c.QueryParam("kind"); kind != "" {
		k := domain.CategoryKind(kind)
		if !k.IsValid() {
			return NewValidationError(c, "Invalid kind filter", []ValidationError{
				{Field: "kind", Message: "Must be income or expense"},
			})
		}
		filters.Kind = &k
	}
	if active := c.QueryParam("active"); active != "" {
		v, err := strconv.ParseBool(active)
		if err != nil {
			return NewValidationError(c, "Invalid active filter", []ValidationError{
				{Field: "active", Message: "Must be true or false"},
			})
		}
		filters.Active = &v
	}

	categories, err := h.categoryService.ListCategories(c.Request().Context(), workspaceID, filters)
	if err != nil {
		return respondError(c, err, "list categories")
	}

	response := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		response[i] = toCategoryResponse(category)
	}
	return c.JSON(http.StatusOK, response)
}

// GetCategory handles GET /api/v1/categories/:id
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	category, err := h.categoryService.GetCategory(c.Request().Context(), workspaceID, id)
	if err != nil {
		return respondError(c, err, "get category")
	}
	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// UpdateCategory godoc
// @Summary Update a category
// @Description Changing the kind is refused while active entries use the category
// @Tags categories
// @Accept json
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param id path int true "Category ID"
// @Param request body UpdateCategoryRequest true "Fields to change"
// @Success 200 {object} CategoryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	var req UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateCategoryInput{
		Name:  req.Name,
		Color: req.Color,
	}
	if req.Kind != nil {
		kind := domain.CategoryKind(*req.Kind)
		input.Kind = &kind
	}
	if req.MonthlyBudget != nil {
		if *req.MonthlyBudget == "" {
			input.ClearBudget = true
		} else {
			budget, verr := parseDecimalField("monthlyBudget", *req.MonthlyBudget)
			if verr != nil {
				return NewValidationError(c, "Invalid monthly budget", []ValidationError{*verr})
			}
			input.MonthlyBudget = &budget
		}
	}

	category, err := h.categoryService.UpdateCategory(c.Request().Context(), workspaceID, id, input)
	if err != nil {
		return respondError(c, err, "update category")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("category_id", category.ID).Msg("Category updated")
	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// DeactivateCategory godoc
// @Summary Deactivate a category
// @Description Refused with 409 while active entries or subcategories reference it, unless cascade=true deactivates the subcategories too
// @Tags categories
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param id path int true "Category ID"
// @Param cascade query bool false "Also deactivate subcategories"
// @Success 200 {object} CategoryResponse
// @Failure 409 {object} ProblemDetails
// @Router /categories/{id}/deactivate [post]
func (h *CategoryHandler) DeactivateCategory(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid category ID", nil)
	}
	cascade := c.QueryParam("cascade") == "true"

	category, err := h.categoryService.DeactivateCategory(c.Request().Context(), workspaceID, id, cascade)
	if err != nil {
		return respondError(c, err, "deactivate category")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("category_id", id).Bool("cascade", cascade).Msg("Category deactivated")
	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// ReactivateCategory handles POST /api/v1/categories/:id/reactivate
func (h *CategoryHandler) ReactivateCategory(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	category, err := h.categoryService.ReactivateCategory(c.Request().Context(), workspaceID, id)
	if err != nil {
		return respondError(c, err, "reactivate category")
	}
	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Only categories with no entries or subcategories can be deleted
// @Tags categories
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param id path int true "Category ID"
// @Success 204
// @Failure 409 {object} ProblemDetails
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	if err := h.categoryService.DeleteCategory(c.Request().Context(), workspaceID, id); err != nil {
		return respondError(c, err, "delete category")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("category_id", id).Msg("Category deleted")
	return c.NoContent(http.StatusNoContent)
}

// CreateSubcategory godoc
// @Summary Create a subcategory
// @Tags categories
// @Accept json
// @Produce json
// @Param X-Workspace-ID header int true "Workspace ID"
// @Param id path int true "Parent category ID"
// @Param request body SubcategoryRequest true "Subcategory"
// @Success 201 {object} SubcategoryResponse
// @Failure 400 {object} ProblemDetails
// @Router /categories/{id}/subcategories [post]
func (h *CategoryHandler) CreateSubcategory(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	var req SubcategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	sub, err := h.categoryService.CreateSubcategory(c.Request().Context(), workspaceID, categoryID, req.Name)
	if err != nil {
		return respondError(c, err, "create subcategory")
	}
	return c.JSON(http.StatusCreated, toSubcategoryResponse(sub))
}

// ListSubcategories handles GET /api/v1/categories/:id/subcategories
func (h *CategoryHandler) ListSubcategories(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid category ID", nil)
	}
	includeInactive := c.QueryParam("includeInactive") == "true"

	subs, err := h.categoryService.ListSubcategories(c.Request().Context(), workspaceID, categoryID, includeInactive)
	if err != nil {
		return respondError(c, err, "list subcategories")
	}

	response := make([]SubcategoryResponse, len(subs))
	for i, sub := range subs {
		response[i] = toSubcategoryResponse(sub)
	}
	return c.JSON(http.StatusOK, response)
}

// UpdateSubcategory handles PUT /api/v1/subcategories/:id
func (h *CategoryHandler) UpdateSubcategory(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid subcategory ID", nil)
	}

	var req SubcategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	sub, err := h.categoryService.UpdateSubcategory(c.Request().Context(), workspaceID, id, req.Name)
	if err != nil {
		return respondError(c, err, "update subcategory")
	}
	return c.JSON(http.StatusOK, toSubcategoryResponse(sub))
}

// DeactivateSubcategory handles POST /api/v1/subcategories/:id/deactivate
func (h *CategoryHandler) DeactivateSubcategory(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid subcategory ID", nil)
	}

	sub, err := h.categoryService.DeactivateSubcategory(c.Request().Context(), workspaceID, id)
	if err != nil {
		return respondError(c, err, "deactivate subcategory")
	}
	return c.JSON(http.StatusOK, toSubcategoryResponse(sub))
}

// ReactivateSubcategory handles POST /api/v1/subcategories/:id/reactivate
func (h *CategoryHandler) ReactivateSubcategory(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid subcategory ID", nil)
	}

	sub, err := h.categoryService.ReactivateSubcategory(c.Request().Context(), workspaceID, id)
	if err != nil {
		return respondError(c, err, "reactivate subcategory")
	}
	return c.JSON(http.StatusOK, toSubcategoryResponse(sub))
}

func toCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:            category.ID,
		Name:          category.Name,
		Kind:          string(category.Kind),
		Color:         category.Color,
		MonthlyBudget: formatDecimalPtr(category.MonthlyBudget),
		Active:        category.Active,
		CreatedAt:     category.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     category.UpdatedAt.Format(time.RFC3339),
	}
}

func toSubcategoryResponse(sub *domain.Subcategory) SubcategoryResponse {
	return SubcategoryResponse{
		ID:         sub.ID,
		CategoryID: sub.CategoryID,
		Name:       sub.Name,
		Active:     sub.Active,
		CreatedAt:  sub.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  sub.UpdatedAt.Format(time.RFC3339),
	}
}
