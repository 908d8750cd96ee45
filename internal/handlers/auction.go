package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/internal/logger"
	"marketplace-service/internal/models"
	"marketplace-service/internal/repositories"
)

// AuctionHandler serves the home page auction strip.
type AuctionHandler struct {
	auctionRepo repositories.AuctionRepository
	log         *logger.Logger
}

func NewAuctionHandler(auctionRepo repositories.AuctionRepository, log *logger.Logger) *AuctionHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &AuctionHandler{auctionRepo: auctionRepo, log: log}
}

// ListActiveAuctions returns the auctions still running. A backend failure
// degrades to an empty strip rather than an error page.
func (h *AuctionHandler) ListActiveAuctions(c *gin.Context) {
	auctions, err := h.auctionRepo.ListActive(c.Request.Context())
	if err != nil {
		h.log.Warn("auction list failed, serving empty strip", "error", err)
		c.JSON(http.StatusOK, gin.H{"auctions": []models.Auction{}})
		return
	}
	if auctions == nil {
		auctions = []models.Auction{}
	}
	c.JSON(http.StatusOK, gin.H{"auctions": auctions})
}
