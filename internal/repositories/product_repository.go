package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"marketplace-service/internal/models"
)

var ErrProductNotFound = errors.New("product not found")

// ProductRepository abstracts product listing persistence.
type ProductRepository interface {
	Create(ctx context.Context, product models.Product) (models.Product, error)
	Update(ctx context.Context, product models.Product) (models.Product, error)
	Delete(ctx context.Context, productID string, sellerID int) error
	GetByID(ctx context.Context, productID string) (models.Product, error)
	ListByType(ctx context.Context, productType string) ([]models.Product, error)
	ListBySeller(ctx context.Context, sellerID int) ([]models.Product, error)
}

// ProductRepo is a sqlx implementation of ProductRepository.
type ProductRepo struct {
	db *sqlx.DB
}

// NewProductRepo constructs a ProductRepo.
func NewProductRepo(db *sqlx.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

const productColumns = `id, seller_id, type, name, shape, carat, price, color, clarity, cut, lab_grown, image, attributes, created_at, updated_at`

// Create inserts a new listing, assigning it a fresh id.
func (r *ProductRepo) Create(ctx context.Context, product models.Product) (models.Product, error) {
	product.ID = uuid.NewString()
	if len(product.Attributes) == 0 {
		product.Attributes = json.RawMessage(`{}`)
	}

	var created models.Product
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO products (id, seller_id, type, name, shape, carat, price, color, clarity, cut, lab_grown, image, attributes)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
         RETURNING `+productColumns,
		product.ID, product.SellerID, product.Type, product.Name, product.Shape, product.Carat,
		product.Price, product.Color, product.Clarity, product.Cut, product.LabGrown, product.Image,
		product.Attributes).StructScan(&created)
	return created, err
}

// Update rewrites a listing owned by the seller.
func (r *ProductRepo) Update(ctx context.Context, product models.Product) (models.Product, error) {
	if len(product.Attributes) == 0 {
		product.Attributes = json.RawMessage(`{}`)
	}

	var updated models.Product
	err := r.db.QueryRowxContext(ctx,
		`UPDATE products SET name=$1, shape=$2, carat=$3, price=$4, color=$5, clarity=$6, cut=$7,
             lab_grown=$8, image=$9, attributes=$10, updated_at=NOW()
         WHERE id=$11 AND seller_id=$12
         RETURNING `+productColumns,
		product.Name, product.Shape, product.Carat, product.Price, product.Color, product.Clarity,
		product.Cut, product.LabGrown, product.Image, product.Attributes, product.ID, product.SellerID).
		StructScan(&updated)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return updated, err
}

// Delete removes a listing owned by the seller.
func (r *ProductRepo) Delete(ctx context.Context, productID string, sellerID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1 AND seller_id=$2`, productID, sellerID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrProductNotFound
	}
	return nil
}

// GetByID fetches a single listing.
func (r *ProductRepo) GetByID(ctx context.Context, productID string) (models.Product, error) {
	var product models.Product
	err := r.db.GetContext(ctx, &product, `SELECT `+productColumns+` FROM products WHERE id=$1`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return product, err
}

// ListByType returns all listings of one category, newest first. An empty
// type returns everything.
func (r *ProductRepo) ListByType(ctx context.Context, productType string) ([]models.Product, error) {
	var products []models.Product
	if productType == "" {
		err := r.db.SelectContext(ctx, &products, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
		return products, err
	}
	err := r.db.SelectContext(ctx, &products,
		`SELECT `+productColumns+` FROM products WHERE type=$1 ORDER BY created_at DESC`, productType)
	return products, err
}

// ListBySeller returns all of a seller's listings, newest first.
func (r *ProductRepo) ListBySeller(ctx context.Context, sellerID int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.SelectContext(ctx, &products,
		`SELECT `+productColumns+` FROM products WHERE seller_id=$1 ORDER BY created_at DESC`, sellerID)
	return products, err
}
