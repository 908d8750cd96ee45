package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/internal/repositories"
)

// WishlistHandler manages the caller's wishlist.
type WishlistHandler struct {
	wishlistRepo repositories.WishlistRepository
}

func NewWishlistHandler(wishlistRepo repositories.WishlistRepository) *WishlistHandler {
	return &WishlistHandler{wishlistRepo: wishlistRepo}
}

// AddToWishlist saves a product. Saving an already saved product is a no-op.
func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.wishlistRepo.Add(c.Request.Context(), c.GetInt("userID"), req.ProductID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add to wishlist"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// RemoveFromWishlist drops a product from the wishlist.
func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	if err := h.wishlistRepo.Remove(c.Request.Context(), c.GetInt("userID"), c.Param("product_id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove from wishlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// GetWishlist lists the caller's saved products.
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	items, err := h.wishlistRepo.List(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load wishlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
