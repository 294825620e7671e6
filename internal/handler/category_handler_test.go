package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategory_Success(t *testing.T) {
	f := newAPIFixture(t)
	c, rec := f.request(http.MethodPost, "/api/v1/categories", `{"name":"Manutenção","kind":"expense","color":"#ff8800","monthlyBudget":"1500"}`)

	if err := f.category.CreateCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response CategoryResponse
	decodeJSON(t, rec, &response)
	if response.Color != "#FF8800" {
		t.Errorf("Expected color #FF8800, got %s", response.Color)
	}
	if response.MonthlyBudget == nil || *response.MonthlyBudget != "1500.00" {
		t.Errorf("Expected budget 1500.00, got %v", response.MonthlyBudget)
	}
	if response.Kind != "expense" || !response.Active {
		t.Errorf("Unexpected category %+v", response)
	}
}

func TestCreateCategory_Validation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"missing name", `{"kind":"income"}`, "name"},
		{"invalid kind", `{"name":"Dízimos","kind":"transfer"}`, "kind"},
		{"invalid color", `{"name":"Dízimos","kind":"income","color":"red"}`, "color"},
		{"negative budget", `{"name":"Dízimos","kind":"income","monthlyBudget":"-1"}`, "monthlyBudget"},
		{"unparseable budget", `{"name":"Dízimos","kind":"income","monthlyBudget":"muito"}`, "monthlyBudget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t)
			c, rec := f.request(http.MethodPost, "/api/v1/categories", tt.body)

			if err := f.category.CreateCategory(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d", rec.Code)
			}
			var problem ProblemDetails
			decodeJSON(t, rec, &problem)
			if len(problem.Errors) == 0 || problem.Errors[0].Field != tt.wantField {
				t.Errorf("Expected error on %s, got %+v", tt.wantField, problem.Errors)
			}
		})
	}
}

func TestListCategories_InvalidKind(t *testing.T) {
	f := newAPIFixture(t)
	c, rec := f.request(http.MethodGet, "/api/v1/categories?kind=gift", "")

	require.NoError(t, f.category.ListCategories(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListCategories_FiltersByKind(t *testing.T) {
	f := newAPIFixture(t)
	f.addCategory("Dízimos", domain.CategoryKindIncome)
	f.addCategory("Energia", domain.CategoryKindExpense)
	f.addCategory("Ofertas", domain.CategoryKindIncome)

	c, rec := f.request(http.MethodGet, "/api/v1/categories?kind=income", "")
	require.NoError(t, f.category.ListCategories(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var categories []CategoryResponse
	decodeJSON(t, rec, &categories)
	require.Len(t, categories, 2)
	for _, category := range categories {
		assert.Equal(t, "income", category.Kind)
	}
}

func TestUpdateCategory_ClearsBudget(t *testing.T) {
	f := newAPIFixture(t)
	c, rec := f.request(http.MethodPost, "/api/v1/categories", `{"name":"Energia","kind":"expense","monthlyBudget":"300"}`)
	require.NoError(t, f.category.CreateCategory(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = f.request(http.MethodPut, "/api/v1/categories/1", `{"monthlyBudget":""}`, "id", "1")
	require.NoError(t, f.category.UpdateCategory(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var response CategoryResponse
	decodeJSON(t, rec, &response)
	assert.Nil(t, response.MonthlyBudget)
	assert.Equal(t, "Energia", response.Name)
}

func TestUpdateCategory_KindLockedByEntries(t *testing.T) {
	f := newAPIFixture(t)
	account := f.addAccount("Caixa", "0")
	category := f.addCategory("Ofertas", domain.CategoryKindIncome)
	f.addEntry(domain.EntryKindIncome, "50", category.ID, account.ID, domain.EntryStatusConfirmed, time.Now().UTC())

	c, rec := f.request(http.MethodPut, "/api/v1/categories/1", `{"kind":"expense"}`, "id", "1")
	require.NoError(t, f.category.UpdateCategory(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeactivateCategory_ConflictAndCascade(t *testing.T) {
	f := newAPIFixture(t)
	category := f.addCategory("Missões", domain.CategoryKindExpense)
	f.ledger.Categories.AddSubcategory(&domain.Subcategory{
		WorkspaceID: testWorkspaceID,
		CategoryID:  category.ID,
		Name:        "Missionários",
		Active:      true,
	})

	c, rec := f.request(http.MethodPost, "/api/v1/categories/1/deactivate", "", "id", "1")
	require.NoError(t, f.category.DeactivateCategory(c))
	require.Equal(t, http.StatusConflict, rec.Code)

	var problem ProblemDetails
	decodeJSON(t, rec, &problem)
	assert.Equal(t, ErrorTypeConflict, problem.Type)

	c, rec = f.request(http.MethodPost, "/api/v1/categories/1/deactivate?cascade=true", "", "id", "1")
	require.NoError(t, f.category.DeactivateCategory(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var response CategoryResponse
	decodeJSON(t, rec, &response)
	assert.False(t, response.Active)

	c, rec = f.request(http.MethodGet, "/api/v1/categories/1/subcategories?includeInactive=true", "", "id", "1")
	require.NoError(t, f.category.ListSubcategories(c))
	var subs []SubcategoryResponse
	decodeJSON(t, rec, &subs)
	require.Len(t, subs, 1)
	assert.False(t, subs[0].Active)
}

func TestSubcategoryLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	f.addCategory("Missões", domain.CategoryKindExpense)

	c, rec := f.request(http.MethodPost, "/api/v1/categories/1/subcategories", `{"name":"Viagens"}`, "id", "1")
	if err := f.category.CreateSubcategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var sub SubcategoryResponse
	decodeJSON(t, rec, &sub)
	if sub.CategoryID != 1 || sub.Name != "Viagens" {
		t.Errorf("Unexpected subcategory %+v", sub)
	}

	c, rec = f.request(http.MethodPut, "/api/v1/subcategories/1", `{"name":"Viagens missionárias"}`, "id", "1")
	if err := f.category.UpdateSubcategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	decodeJSON(t, rec, &sub)
	if sub.Name != "Viagens missionárias" {
		t.Errorf("Expected renamed subcategory, got %s", sub.Name)
	}

	c, rec = f.request(http.MethodPost, "/api/v1/subcategories/1/deactivate", "", "id", "1")
	if err := f.category.DeactivateSubcategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	decodeJSON(t, rec, &sub)
	if sub.Active {
		t.Error("Expected subcategory to be inactive")
	}

	c, rec = f.request(http.MethodGet, "/api/v1/categories/1/subcategories", "", "id", "1")
	if err := f.category.ListSubcategories(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var subs []SubcategoryResponse
	decodeJSON(t, rec, &subs)
	if len(subs) != 0 {
		t.Errorf("Expected no active subcategories, got %d", len(subs))
	}
}

func TestCreateSubcategory_UnknownCategory(t *testing.T) {
	f := newAPIFixture(t)
	c, rec := f.request(http.MethodPost, "/api/v1/categories/5/subcategories", `{"name":"Viagens"}`, "id", "5")

	require.NoError(t, f.category.CreateSubcategory(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteCategory_Unused(t *testing.T) {
	f := newAPIFixture(t)
	f.addCategory("Temporária", domain.CategoryKindIncome)

	c, rec := f.request(http.MethodDelete, "/api/v1/categories/1", "", "id", "1")
	require.NoError(t, f.category.DeleteCategory(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = f.request(http.MethodGet, "/api/v1/categories/1", "", "id", "1")
	require.NoError(t, f.category.GetCategory(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
