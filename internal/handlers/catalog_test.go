package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"marketplace-service/internal/mocks"
	"marketplace-service/internal/models"
	"marketplace-service/internal/repositories"
)

func setupCatalogRouter(handler *CatalogHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/products", handler.ListProducts)
	r.GET("/products/:product_id", handler.GetProduct)
	return r
}

func catalogSample() []models.Product {
	return []models.Product{
		{ID: "d1", Type: models.ProductDiamond, Name: "Round Brilliant", Shape: "round", Carat: 1.0, Price: 5200},
		{ID: "d2", Type: models.ProductDiamond, Name: "Oval Cut", Shape: "oval", Carat: 1.5, Price: 7100},
		{ID: "d3", Type: models.ProductDiamond, Name: "Princess Cut", Shape: "princess", Carat: 0.9, Price: 4300},
	}
}

func TestListProductsFiltersByShape(t *testing.T) {
	productRepo := new(mocks.ProductRepositoryMock)
	handler := NewCatalogHandler(productRepo, 12, 0, nil)
	router := setupCatalogRouter(handler)

	productRepo.On("ListByType", mock.Anything, "diamond").Return(catalogSample(), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/products?type=diamond&shapes=round,oval", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Products []models.Product `json:"products"`
		Total    int              `json:"total"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Products, 2)
	assert.Equal(t, 2, resp.Total)

	productRepo.AssertExpectations(t)
}

func TestListProductsPaginates(t *testing.T) {
	productRepo := new(mocks.ProductRepositoryMock)
	handler := NewCatalogHandler(productRepo, 12, 0, nil)
	router := setupCatalogRouter(handler)

	productRepo.On("ListByType", mock.Anything, "diamond").Return(catalogSample(), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/products?page=2&per_page=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Products   []models.Product `json:"products"`
		Page       int              `json:"page"`
		TotalPages int              `json:"total_pages"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Products, 1)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 2, resp.TotalPages)

	productRepo.AssertExpectations(t)
}

func TestListProductsPriceRange(t *testing.T) {
	productRepo := new(mocks.ProductRepositoryMock)
	handler := NewCatalogHandler(productRepo, 12, 0, nil)
	router := setupCatalogRouter(handler)

	productRepo.On("ListByType", mock.Anything, "diamond").Return(catalogSample(), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/products?price_min=5000&price_max=8000", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Products []models.Product `json:"products"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	ids := make([]string, 0, len(resp.Products))
	for _, p := range resp.Products {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{"d1", "d2"}, ids)

	productRepo.AssertExpectations(t)
}

func TestListProductsRepoError(t *testing.T) {
	productRepo := new(mocks.ProductRepositoryMock)
	handler := NewCatalogHandler(productRepo, 12, 0, nil)
	router := setupCatalogRouter(handler)

	productRepo.On("ListByType", mock.Anything, "diamond").Return(([]models.Product)(nil), assert.AnError).Once()

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	productRepo.AssertExpectations(t)
}

func TestGetProductNotFound(t *testing.T) {
	productRepo := new(mocks.ProductRepositoryMock)
	handler := NewCatalogHandler(productRepo, 12, 0, nil)
	router := setupCatalogRouter(handler)

	productRepo.On("GetByID", mock.Anything, "missing").Return(models.Product{}, repositories.ErrProductNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/products/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	productRepo.AssertExpectations(t)
}
