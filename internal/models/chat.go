package models

import (
	"database/sql"
	"time"
)

// Chat represents a private conversation between a buyer and a seller,
// optionally scoped to a single product.
type Chat struct {
	ID        int            `db:"id" json:"id"`
	UserID    int            `db:"user_id" json:"user_id"`
	SellerID  int            `db:"seller_id" json:"seller_id"`
	ProductID sql.NullString `db:"product_id" json:"product_id,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// Participants returns both member ids of the chat.
func (c Chat) Participants() []int {
	return []int{c.UserID, c.SellerID}
}

// IsParticipant reports whether the given user belongs to the chat.
func (c Chat) IsParticipant(userID int) bool {
	return c.UserID == userID || c.SellerID == userID
}

// ChatSummary provides an API-friendly view of a chat for one participant.
type ChatSummary struct {
	ChatID        int       `json:"chat_id"`
	CounterpartID int       `json:"counterpart_id"`
	ProductID     string    `json:"product_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
