// Package entity defines the records persisted by the shop backend.
package entity

import "time"

const (
	// RoleCustomer is assigned to every user created through signup.
	RoleCustomer = "customer"
	// RoleAdmin grants access to catalog mutations.
	RoleAdmin = "admin"
)

// User represents a registered shopper together with their in-progress cart.
type User struct {
	// ID is a UUID assigned on creation.
	ID string `gorm:"primaryKey;size:36"`

	// Name is optional display text.
	Name *string `gorm:"size:255"`

	// Email is used for login and must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password holds the bcrypt digest, never the plaintext.
	Password string `gorm:"size:255;not null"`

	// Role is either RoleCustomer or RoleAdmin.
	Role string `gorm:"size:32;not null;default:customer"`

	// Cart is ordered by CartLine.Position.
	Cart []CartLine `gorm:"foreignKey:UserID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartLine pairs a product with a quantity inside a user's cart.
// It is owned by its User and is rewritten whenever the user is saved.
type CartLine struct {
	ID       uint   `gorm:"primaryKey"`
	UserID   string `gorm:"size:36;index;not null"`
	Position int    `gorm:"not null"`

	ProductID string `gorm:"size:36;not null"`
	// Product is populated only when the cart is loaded with products resolved.
	// It stays nil for a product that has since been deleted.
	Product *Product `gorm:"foreignKey:ProductID"`

	Quantity int `gorm:"not null"`
}

// IndexOf returns the position of the line referencing productID, or -1.
func (u *User) IndexOf(productID string) int {
	for i, line := range u.Cart {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}
