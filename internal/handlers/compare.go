package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketplace-service/internal/compare"
	"marketplace-service/internal/models"
	"marketplace-service/internal/repositories"
)

// CompareHandler manages each user's comparison list.
type CompareHandler struct {
	store       *compare.Store
	productRepo repositories.ProductRepository
}

func NewCompareHandler(store *compare.Store, productRepo repositories.ProductRepository) *CompareHandler {
	return &CompareHandler{store: store, productRepo: productRepo}
}

func (h *CompareHandler) ownerKey(c *gin.Context) string {
	return strconv.Itoa(c.GetInt("userID"))
}

// AddToCompare adds a product to the caller's comparison list. Duplicates
// and additions past the cap are reported as not added, never as errors.
func (h *CompareHandler) AddToCompare(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.productRepo.GetByID(c.Request.Context(), req.ProductID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrProductNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "product not found"})
		return
	}

	list := h.store.List(h.ownerKey(c))
	added := list.Add(toCompareProduct(product))
	c.JSON(http.StatusOK, gin.H{
		"added": added,
		"count": len(list.Items()),
	})
}

// RemoveFromCompare drops a product from the caller's comparison list.
func (h *CompareHandler) RemoveFromCompare(c *gin.Context) {
	list := h.store.List(h.ownerKey(c))
	list.Remove(c.Param("product_id"))
	c.JSON(http.StatusOK, gin.H{"count": len(list.Items())})
}

// ClearCompare empties the caller's comparison list.
func (h *CompareHandler) ClearCompare(c *gin.Context) {
	h.store.List(h.ownerKey(c)).Clear()
	c.JSON(http.StatusOK, gin.H{"count": 0})
}

// GetCompareTable returns the comparison items plus the per-attribute best
// values. Every item tied for best is highlighted, including full ties.
func (h *CompareHandler) GetCompareTable(c *gin.Context) {
	list := h.store.List(h.ownerKey(c))

	items := list.Items()
	if productType := c.Query("type"); productType != "" {
		items = list.ByType(productType)
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"best":  compare.BestValues(items, compare.DefaultRules),
	})
}

func toCompareProduct(p models.Product) compare.Product {
	data := map[string]float64{"price": p.Price}
	if p.Carat > 0 {
		data["carat"] = p.Carat
	}
	return compare.Product{
		ID:    p.ID,
		Type:  p.Type,
		Name:  p.Name,
		Price: p.Price,
		Image: p.Image,
		Data:  data,
	}
}
