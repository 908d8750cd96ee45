package models

import (
	"encoding/json"
	"time"
)

// Product categories sold on the marketplace.
const (
	ProductDiamond  = "diamond"
	ProductGemstone = "gemstone"
	ProductJewelry  = "jewelry"
	ProductWatch    = "watch"
	ProductBullion  = "bullion"
)

// ValidProductType reports whether t names a known product category.
func ValidProductType(t string) bool {
	switch t {
	case ProductDiamond, ProductGemstone, ProductJewelry, ProductWatch, ProductBullion:
		return true
	}
	return false
}

// Product is a marketplace listing. Category-specific attributes that do not
// warrant their own column live in the Attributes JSON blob.
type Product struct {
	ID         string          `db:"id" json:"id"`
	SellerID   int             `db:"seller_id" json:"seller_id"`
	Type       string          `db:"type" json:"type"`
	Name       string          `db:"name" json:"name"`
	Shape      string          `db:"shape" json:"shape,omitempty"`
	Carat      float64         `db:"carat" json:"carat,omitempty"`
	Price      float64         `db:"price" json:"price"`
	Color      string          `db:"color" json:"color,omitempty"`
	Clarity    string          `db:"clarity" json:"clarity,omitempty"`
	Cut        string          `db:"cut" json:"cut,omitempty"`
	LabGrown   bool            `db:"lab_grown" json:"lab_grown"`
	Image      string          `db:"image" json:"image,omitempty"`
	Attributes json.RawMessage `db:"attributes" json:"attributes,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// CartItem is one product in a user's cart.
type CartItem struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	ProductID string    `db:"product_id" json:"product_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// WishlistItem is one product saved to a user's wishlist.
type WishlistItem struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	ProductID string    `db:"product_id" json:"product_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Auction is a live auction shown on the home page.
type Auction struct {
	ID         int       `db:"id" json:"id"`
	ProductID  string    `db:"product_id" json:"product_id"`
	CurrentBid float64   `db:"current_bid" json:"current_bid"`
	EndsAt     time.Time `db:"ends_at" json:"ends_at"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
