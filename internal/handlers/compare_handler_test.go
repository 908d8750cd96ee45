package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"marketplace-service/internal/compare"
	"marketplace-service/internal/mocks"
	"marketplace-service/internal/models"
)

func setupCompareRouter(handler *CompareHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.POST("/compare", handler.AddToCompare)
	r.DELETE("/compare/:product_id", handler.RemoveFromCompare)
	r.DELETE("/compare", handler.ClearCompare)
	r.GET("/compare", handler.GetCompareTable)
	return r
}

func addCompareItem(t *testing.T, router *gin.Engine, productID string) *httptest.ResponseRecorder {
	t.Helper()
	body := bytes.NewBufferString(fmt.Sprintf(`{"product_id":%q}`, productID))
	req := httptest.NewRequest(http.MethodPost, "/compare", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAddToCompareCapAndDedup(t *testing.T) {
	productRepo := new(mocks.ProductRepositoryMock)
	handler := NewCompareHandler(compare.NewStore(), productRepo)
	router := setupCompareRouter(handler)

	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("d%d", i)
		productRepo.On("GetByID", mock.Anything, id).Return(models.Product{ID: id, Type: models.ProductDiamond, Price: float64(1000 * i)}, nil)
	}

	var resp struct {
		Added bool `json:"added"`
		Count int  `json:"count"`
	}
	for i := 1; i <= 4; i++ {
		rec := addCompareItem(t, router, fmt.Sprintf("d%d", i))
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.True(t, resp.Added)
	}
	assert.Equal(t, 4, resp.Count)

	// Fifth item bounces off the cap.
	rec := addCompareItem(t, router, "d5")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Added)
	assert.Equal(t, 4, resp.Count)

	// Re-adding an existing item is a no-op too.
	rec = addCompareItem(t, router, "d1")
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Added)
	assert.Equal(t, 4, resp.Count)
}

func TestGetCompareTableBestValues(t *testing.T) {
	productRepo := new(mocks.ProductRepositoryMock)
	handler := NewCompareHandler(compare.NewStore(), productRepo)
	router := setupCompareRouter(handler)

	productRepo.On("GetByID", mock.Anything, "d1").Return(models.Product{ID: "d1", Type: models.ProductDiamond, Price: 4000, Carat: 1.2}, nil).Once()
	productRepo.On("GetByID", mock.Anything, "d2").Return(models.Product{ID: "d2", Type: models.ProductDiamond, Price: 6000, Carat: 1.5}, nil).Once()

	require.Equal(t, http.StatusOK, addCompareItem(t, router, "d1").Code)
	require.Equal(t, http.StatusOK, addCompareItem(t, router, "d2").Code)

	req := httptest.NewRequest(http.MethodGet, "/compare", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Items []compare.Product   `json:"items"`
		Best  map[string][]string `json:"best"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, []string{"d1"}, resp.Best["price"])
	assert.Equal(t, []string{"d2"}, resp.Best["carat"])

	productRepo.AssertExpectations(t)
}

func TestClearCompare(t *testing.T) {
	productRepo := new(mocks.ProductRepositoryMock)
	handler := NewCompareHandler(compare.NewStore(), productRepo)
	router := setupCompareRouter(handler)

	productRepo.On("GetByID", mock.Anything, "d1").Return(models.Product{ID: "d1", Type: models.ProductDiamond, Price: 4000}, nil).Once()
	require.Equal(t, http.StatusOK, addCompareItem(t, router, "d1").Code)

	req := httptest.NewRequest(http.MethodDelete, "/compare", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/compare", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var resp struct {
		Items []compare.Product `json:"items"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Items)
}
