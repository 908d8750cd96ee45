package models

import "time"

// Roles recognised by the marketplace.
const (
	RoleUser   = "user"
	RoleSeller = "seller"
)

// User is a marketplace account, either a buyer or a seller.
type User struct {
	ID        int       `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
