package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/internal/export"
	"marketplace-service/internal/logger"
	"marketplace-service/internal/models"
	"marketplace-service/internal/repositories"
)

// ProductHandler covers the seller dashboard CRUD surface.
type ProductHandler struct {
	productRepo repositories.ProductRepository
	log         *logger.Logger
}

func NewProductHandler(productRepo repositories.ProductRepository, log *logger.Logger) *ProductHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &ProductHandler{productRepo: productRepo, log: log}
}

type productRequest struct {
	Type       string          `json:"type" binding:"required"`
	Name       string          `json:"name" binding:"required"`
	Shape      string          `json:"shape"`
	Carat      float64         `json:"carat"`
	Price      float64         `json:"price" binding:"required"`
	Color      string          `json:"color"`
	Clarity    string          `json:"clarity"`
	Cut        string          `json:"cut"`
	LabGrown   bool            `json:"lab_grown"`
	Image      string          `json:"image"`
	Attributes json.RawMessage `json:"attributes"`
}

func (r productRequest) toModel(sellerID int) (models.Product, error) {
	if !models.ValidProductType(r.Type) {
		return models.Product{}, fmt.Errorf("unknown product type %q", r.Type)
	}
	return models.Product{
		SellerID:   sellerID,
		Type:       r.Type,
		Name:       r.Name,
		Shape:      r.Shape,
		Carat:      r.Carat,
		Price:      r.Price,
		Color:      r.Color,
		Clarity:    r.Clarity,
		Cut:        r.Cut,
		LabGrown:   r.LabGrown,
		Image:      r.Image,
		Attributes: r.Attributes,
	}, nil
}

// CreateProduct adds a new listing for the calling seller.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := req.toModel(c.GetInt("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.productRepo.Create(c.Request.Context(), product)
	if err != nil {
		h.log.Error("product create failed", "seller_id", product.SellerID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateProduct replaces a listing owned by the calling seller.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := req.toModel(c.GetInt("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product.ID = c.Param("product_id")

	updated, err := h.productRepo.Update(c.Request.Context(), product)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteProduct removes a listing owned by the calling seller.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	err := h.productRepo.Delete(c.Request.Context(), c.Param("product_id"), c.GetInt("userID"))
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ListMyProducts returns every listing of the calling seller.
func (h *ProductHandler) ListMyProducts(c *gin.Context) {
	products, err := h.productRepo.ListBySeller(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// ExportMyProducts streams the seller's listings as an xlsx workbook.
func (h *ProductHandler) ExportMyProducts(c *gin.Context) {
	sellerID := c.GetInt("userID")
	products, err := h.productRepo.ListBySeller(c.Request.Context(), sellerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
		return
	}

	workbook, err := export.Listings(products)
	if err != nil {
		h.log.Error("listing export failed", "seller_id", sellerID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build export"})
		return
	}
	defer workbook.Close()

	c.Header("Content-Disposition", `attachment; filename="listings.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := workbook.Write(c.Writer); err != nil {
		h.log.Error("listing export write failed", "seller_id", sellerID, "error", err)
	}
}
