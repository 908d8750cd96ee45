package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/internal/repositories"
)

// CartHandler manages the caller's shopping cart.
type CartHandler struct {
	cartRepo repositories.CartRepository
}

func NewCartHandler(cartRepo repositories.CartRepository) *CartHandler {
	return &CartHandler{cartRepo: cartRepo}
}

// AddToCart adds a product to the cart, or bumps its quantity if already
// present.
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	item, err := h.cartRepo.AddItem(c.Request.Context(), c.GetInt("userID"), req.ProductID, req.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add to cart"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// RemoveFromCart drops a product from the cart.
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	if err := h.cartRepo.RemoveItem(c.Request.Context(), c.GetInt("userID"), c.Param("product_id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove from cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// GetCart lists the caller's cart items.
func (h *CartHandler) GetCart(c *gin.Context) {
	items, err := h.cartRepo.ListItems(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
