package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"marketplace-service/internal/models"
)

// AuctionRepository abstracts auction reads.
type AuctionRepository interface {
	ListActive(ctx context.Context) ([]models.Auction, error)
}

// AuctionRepo is a sqlx implementation of AuctionRepository.
type AuctionRepo struct {
	db *sqlx.DB
}

// NewAuctionRepo constructs an AuctionRepo.
func NewAuctionRepo(db *sqlx.DB) *AuctionRepo {
	return &AuctionRepo{db: db}
}

// ListActive returns auctions that have not ended, soonest ending first.
func (r *AuctionRepo) ListActive(ctx context.Context) ([]models.Auction, error) {
	var auctions []models.Auction
	err := r.db.SelectContext(ctx, &auctions,
		`SELECT id, product_id, current_bid, ends_at, created_at FROM auctions
         WHERE ends_at > NOW() ORDER BY ends_at ASC`)
	return auctions, err
}
