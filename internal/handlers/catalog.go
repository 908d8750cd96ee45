package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace-service/internal/catalog"
	"marketplace-service/internal/logger"
	"marketplace-service/internal/models"
	"marketplace-service/internal/repositories"
)

// CatalogHandler serves the storefront product listing. The stateless
// endpoints filter and paginate per request; the listing-session endpoints
// keep a debounced catalog.Session per caller so rapid filter changes only
// recompute once the input settles.
type CatalogHandler struct {
	productRepo repositories.ProductRepository
	perPage     int
	debounce    time.Duration
	log         *logger.Logger

	mu       sync.Mutex
	sessions map[string]*listingSession
}

type listingSession struct {
	session     *catalog.Session
	productType string
}

func NewCatalogHandler(productRepo repositories.ProductRepository, perPage int, debounce time.Duration, log *logger.Logger) *CatalogHandler {
	if perPage <= 0 {
		perPage = 12
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &CatalogHandler{
		productRepo: productRepo,
		perPage:     perPage,
		debounce:    debounce,
		log:         log,
		sessions:    make(map[string]*listingSession),
	}
}

// ListProducts returns one page of a product category, filtered by the
// query parameters.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	productType := c.DefaultQuery("type", "diamond")

	products, err := h.productRepo.ListByType(c.Request.Context(), productType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
		return
	}

	filters := filtersFromQuery(c)
	filtered := catalog.Apply(products, filters)

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(h.perPage)))
	if err != nil || perPage < 1 {
		perPage = h.perPage
	}
	pageItems, totalPages := catalog.Paginate(filtered, page, perPage)

	c.JSON(http.StatusOK, gin.H{
		"products":    pageItems,
		"page":        page,
		"per_page":    perPage,
		"total":       len(filtered),
		"total_pages": totalPages,
	})
}

// GetProduct returns one product by id.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.productRepo.GetByID(c.Request.Context(), c.Param("product_id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrProductNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func listingOwner(c *gin.Context) string {
	return strconv.Itoa(c.GetInt("userID"))
}

// sessionFor returns the caller's listing session, creating or rebuilding it
// when absent or when the requested category changed.
func (h *CatalogHandler) sessionFor(ctx context.Context, owner, productType string) (*listingSession, error) {
	h.mu.Lock()
	entry, ok := h.sessions[owner]
	h.mu.Unlock()
	if ok && (productType == "" || entry.productType == productType) {
		return entry, nil
	}

	if productType == "" {
		productType = models.ProductDiamond
	}
	products, err := h.productRepo.ListByType(ctx, productType)
	if err != nil {
		return nil, err
	}

	fresh := &listingSession{
		session:     catalog.NewSession(products, h.perPage, h.debounce),
		productType: productType,
	}
	h.mu.Lock()
	if old, ok := h.sessions[owner]; ok {
		old.session.Close()
	}
	h.sessions[owner] = fresh
	h.mu.Unlock()
	return fresh, nil
}

// SetListingFilters replaces the caller's listing criteria. The page resets
// to 1 immediately; the filtered view recomputes only after the debounce
// window, and a newer call within the window supersedes the pending one.
func (h *CatalogHandler) SetListingFilters(c *gin.Context) {
	var req struct {
		Type string `json:"type"`
		catalog.FilterValues
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.sessionFor(c.Request.Context(), listingOwner(c), req.Type)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
		return
	}

	entry.session.SetFilters(req.FilterValues)
	c.JSON(http.StatusAccepted, gin.H{"page": 1})
}

// SetListingPage moves the caller's listing to another page without touching
// the criteria.
func (h *CatalogHandler) SetListingPage(c *gin.Context) {
	var req struct {
		Page int `json:"page" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.sessionFor(c.Request.Context(), listingOwner(c), "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
		return
	}

	entry.session.SetPage(req.Page)
	c.JSON(http.StatusOK, gin.H{"page": entry.session.Page()})
}

// GetListingView returns the caller's current listing page. Until a pending
// debounce fires, the view reflects the previously applied criteria.
func (h *CatalogHandler) GetListingView(c *gin.Context) {
	entry, err := h.sessionFor(c.Request.Context(), listingOwner(c), c.Query("type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
		return
	}

	items, totalPages := entry.session.View()
	c.JSON(http.StatusOK, gin.H{
		"products":    items,
		"page":        entry.session.Page(),
		"per_page":    h.perPage,
		"total_pages": totalPages,
	})
}

// CloseListing discards the caller's listing session and cancels any pending
// recompute.
func (h *CatalogHandler) CloseListing(c *gin.Context) {
	owner := listingOwner(c)
	h.mu.Lock()
	if entry, ok := h.sessions[owner]; ok {
		entry.session.Close()
		delete(h.sessions, owner)
	}
	h.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}

func filtersFromQuery(c *gin.Context) catalog.FilterValues {
	return catalog.FilterValues{
		Shapes:    splitMulti(c.Query("shapes")),
		Carat:     rangeFromQuery(c, "carat_min", "carat_max"),
		Price:     rangeFromQuery(c, "price_min", "price_max"),
		Colors:    splitMulti(c.Query("colors")),
		Clarities: splitMulti(c.Query("clarities")),
		Cuts:      splitMulti(c.Query("cuts")),
		Search:    c.Query("search"),
	}
}

func splitMulti(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func rangeFromQuery(c *gin.Context, minKey, maxKey string) catalog.Range {
	var r catalog.Range
	if v, err := strconv.ParseFloat(c.Query(minKey), 64); err == nil {
		r.Min = v
	}
	if v, err := strconv.ParseFloat(c.Query(maxKey), 64); err == nil {
		r.Max = v
	}
	return r
}
