package repositories

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"marketplace-service/internal/models"
)

var ErrWishlistItemNotFound = errors.New("wishlist item not found")

// WishlistRepository abstracts wishlist persistence.
type WishlistRepository interface {
	Add(ctx context.Context, userID int, productID string) (models.WishlistItem, error)
	Remove(ctx context.Context, userID int, productID string) error
	List(ctx context.Context, userID int) ([]models.WishlistItem, error)
}

// WishlistRepo is a sqlx implementation of WishlistRepository.
type WishlistRepo struct {
	db *sqlx.DB
}

// NewWishlistRepo constructs a WishlistRepo.
func NewWishlistRepo(db *sqlx.DB) *WishlistRepo {
	return &WishlistRepo{db: db}
}

// Add saves a product to the wishlist. Re-adding is a no-op.
func (r *WishlistRepo) Add(ctx context.Context, userID int, productID string) (models.WishlistItem, error) {
	var item models.WishlistItem
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO wishlist_items (user_id, product_id) VALUES ($1, $2)
         ON CONFLICT (user_id, product_id) DO UPDATE SET product_id = EXCLUDED.product_id
         RETURNING id, user_id, product_id, created_at`,
		userID, productID).StructScan(&item)
	return item, err
}

// Remove drops a product from the wishlist.
func (r *WishlistRepo) Remove(ctx context.Context, userID int, productID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM wishlist_items WHERE user_id=$1 AND product_id=$2`, userID, productID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrWishlistItemNotFound
	}
	return nil
}

// List returns the user's wishlist, oldest first.
func (r *WishlistRepo) List(ctx context.Context, userID int) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := r.db.SelectContext(ctx, &items,
		`SELECT id, user_id, product_id, created_at FROM wishlist_items
         WHERE user_id=$1 ORDER BY created_at ASC`, userID)
	return items, err
}
