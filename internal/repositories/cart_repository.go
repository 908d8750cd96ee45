package repositories

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"marketplace-service/internal/models"
)

var ErrCartItemNotFound = errors.New("cart item not found")

// CartRepository abstracts cart persistence.
type CartRepository interface {
	AddItem(ctx context.Context, userID int, productID string, quantity int) (models.CartItem, error)
	RemoveItem(ctx context.Context, userID int, productID string) error
	ListItems(ctx context.Context, userID int) ([]models.CartItem, error)
}

// CartRepo is a sqlx implementation of CartRepository.
type CartRepo struct {
	db *sqlx.DB
}

// NewCartRepo constructs a CartRepo.
func NewCartRepo(db *sqlx.DB) *CartRepo {
	return &CartRepo{db: db}
}

// AddItem puts a product into the cart; re-adding replaces the quantity.
func (r *CartRepo) AddItem(ctx context.Context, userID int, productID string, quantity int) (models.CartItem, error) {
	if quantity <= 0 {
		quantity = 1
	}
	var item models.CartItem
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO cart_items (user_id, product_id, quantity) VALUES ($1, $2, $3)
         ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity
         RETURNING id, user_id, product_id, quantity, created_at`,
		userID, productID, quantity).StructScan(&item)
	return item, err
}

// RemoveItem drops a product from the cart.
func (r *CartRepo) RemoveItem(ctx context.Context, userID int, productID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id=$1 AND product_id=$2`, userID, productID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// ListItems returns the user's cart, oldest first.
func (r *CartRepo) ListItems(ctx context.Context, userID int) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.SelectContext(ctx, &items,
		`SELECT id, user_id, product_id, quantity, created_at FROM cart_items
         WHERE user_id=$1 ORDER BY created_at ASC`, userID)
	return items, err
}
