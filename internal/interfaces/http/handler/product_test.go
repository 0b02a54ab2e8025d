package handler

import (
	"fmt"
	"net/http"
	"testing"

	catalogapp "github.com/erp/catalog/internal/application/catalog"
	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/erp/catalog/internal/interfaces/http/dto"
	"github.com/erp/catalog/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productsPath = "/api/v1/catalog/products"

func TestProductHandler_Create(t *testing.T) {
	env := newTestEnv(t)
	acme := env.repos.SeedCompany(t, "Acme")

	w := env.do(t, http.MethodPost, productsPath, map[string]any{
		"name":       "Hammer",
		"category":   "Tools",
		"price":      9.99,
		"company_id": acme.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	product := testutil.DecodeData[catalogapp.ProductResponse](t, w)
	assert.Equal(t, "Hammer", product.Name)
	assert.Equal(t, "Tools", product.Category)
	assert.Equal(t, "9.99", product.Price.String())
	require.NotNil(t, product.Company)
	assert.Equal(t, "Acme", product.Company.Name)
}

func TestProductHandler_CreateRejections(t *testing.T) {
	env := newTestEnv(t)
	acme := env.repos.SeedCompany(t, "Acme")

	tests := []struct {
		name   string
		body   map[string]any
		status int
		code   string
	}{
		{"missing price", map[string]any{"name": "Hammer", "company_id": acme.ID}, http.StatusBadRequest, dto.ErrCodeValidation},
		{"zero price", map[string]any{"name": "Hammer", "price": "0", "company_id": acme.ID}, http.StatusBadRequest, dto.ErrCodeInvalidPrice},
		{"negative price", map[string]any{"name": "Hammer", "price": -1, "company_id": acme.ID}, http.StatusBadRequest, dto.ErrCodeInvalidPrice},
		{"unknown company", map[string]any{"name": "Hammer", "price": 1, "company_id": 9999}, http.StatusUnprocessableEntity, dto.ErrCodeDanglingReference},
		{"unknown category", map[string]any{"name": "Hammer", "price": 1, "company_id": acme.ID, "category_id": 9999}, http.StatusUnprocessableEntity, dto.ErrCodeDanglingReference},
		{"label and id", map[string]any{"name": "Hammer", "price": 1, "company_id": acme.ID, "category": "Tools", "category_id": 1}, http.StatusBadRequest, dto.ErrCodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, productsPath, tt.body)
			testutil.AssertErrorResponse(t, w, tt.status, tt.code)
		})
	}
}

func TestProductHandler_GetUpdateDelete(t *testing.T) {
	env := newTestEnv(t)
	acme := env.repos.SeedCompany(t, "Acme")
	globex := env.repos.SeedCompany(t, "Globex")
	hammer := env.repos.SeedProduct(t, "Hammer", catalog.CategoryByLabel("Tools"), "9.99", acme.ID)
	path := fmt.Sprintf("%s/%d", productsPath, hammer.ID)

	w := env.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, acme.ID, testutil.DecodeData[catalogapp.ProductResponse](t, w).CompanyID)

	w = env.do(t, http.MethodPatch, path, map[string]any{"price": "12.50", "company_id": globex.ID, "clear_category": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := testutil.DecodeData[catalogapp.ProductResponse](t, w)
	assert.Equal(t, "12.5", updated.Price.String())
	assert.Equal(t, "Globex", updated.Company.Name)
	assert.Empty(t, updated.Category)
	assert.Nil(t, updated.CategoryID)

	w = env.do(t, http.MethodPatch, path, map[string]any{"price": "0"})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeInvalidPrice)

	w = env.do(t, http.MethodPatch, path, map[string]any{"clear_category": true, "category": "Tools"})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeInvalidArgument)

	w = env.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, path, nil)
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
}

func TestProductHandler_SearchDefaults(t *testing.T) {
	env := newTestEnv(t)
	acme := env.repos.SeedCompany(t, "Acme")
	for i := 1; i <= 12; i++ {
		env.repos.SeedProduct(t, fmt.Sprintf("Item %02d", i), catalog.NoCategory(), "1.00", acme.ID)
	}

	for _, path := range []string{productsPath, productsPath + "/search"} {
		w := env.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		envelope := testutil.DecodeEnvelope(t, w)
		require.NotNil(t, envelope.Meta)
		assert.Equal(t, int64(12), envelope.Meta.Total)
		assert.Equal(t, 0, envelope.Meta.Offset)
		assert.Equal(t, 10, envelope.Meta.Limit)

		items := testutil.DecodeData[[]catalogapp.ProductResponse](t, w)
		require.Len(t, items, 10)
		assert.Equal(t, "Item 01", items[0].Name)
	}

	w := env.do(t, http.MethodGet, productsPath+"/search?offset=10&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := testutil.DecodeData[[]catalogapp.ProductResponse](t, w)
	require.Len(t, items, 2)
	assert.Equal(t, "Item 11", items[0].Name)
}

func TestProductHandler_SearchFilters(t *testing.T) {
	env := newTestEnv(t)
	acme := env.repos.SeedCompany(t, "Acme")
	globex := env.repos.SeedCompany(t, "Globex")
	tools := env.repos.SeedCategory(t, "Tools", nil)
	env.repos.SeedProduct(t, "Claw Hammer", catalog.CategoryByID(tools.ID), "15.00", acme.ID)
	env.repos.SeedProduct(t, "Sledge hammer", catalog.NoCategory(), "40.00", globex.ID)
	env.repos.SeedProduct(t, "Wrench", catalog.CategoryByID(tools.ID), "8.00", acme.ID)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"name substring ignores case", "q=HAMMER", []string{"Claw Hammer", "Sledge hammer"}},
		{"company", fmt.Sprintf("company_id=%d", acme.ID), []string{"Claw Hammer", "Wrench"}},
		{"category", fmt.Sprintf("category_id=%d", tools.ID), []string{"Claw Hammer", "Wrench"}},
		{"price range is inclusive", "min_price=8&max_price=15", []string{"Claw Hammer", "Wrench"}},
		{"combined", fmt.Sprintf("q=hammer&company_id=%d&max_price=20", acme.ID), []string{"Claw Hammer"}},
		{"inverted price range", "min_price=50&max_price=10", nil},
		{"unknown company", "company_id=9999", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, productsPath+"/search?"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var names []string
			for _, p := range testutil.DecodeData[[]catalogapp.ProductResponse](t, w) {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.want, names)
			assert.Equal(t, int64(len(tt.want)), testutil.DecodeEnvelope(t, w).Meta.Total)
		})
	}
}

func TestProductHandler_SearchRejections(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		query string
		code  string
	}{
		{"limit=0", dto.ErrCodeInvalidArgument},
		{"limit=101", dto.ErrCodeInvalidArgument},
		{"offset=-1", dto.ErrCodeInvalidArgument},
		{"min_price=-5", dto.ErrCodeInvalidArgument},
		{"company_id=0", dto.ErrCodeInvalidArgument},
		{"limit=ten", dto.ErrCodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := env.do(t, http.MethodGet, productsPath+"/search?"+tt.query, nil)
			testutil.AssertErrorResponse(t, w, http.StatusBadRequest, tt.code)
		})
	}
}
