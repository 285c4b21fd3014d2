package entity

import "time"

// OrderStatusPending is the status every order is created with.
const OrderStatusPending = "pending"

// Order is an immutable snapshot of a cart taken at purchase time.
type Order struct {
	ID     string `gorm:"primaryKey;size:36"`
	UserID string `gorm:"size:36;index;not null"`
	User   *User  `gorm:"foreignKey:UserID"`

	// Items is ordered by OrderLine.Position.
	Items []OrderLine `gorm:"foreignKey:OrderID"`

	// TotalPrice is computed once at creation and never recomputed.
	TotalPrice float64 `gorm:"not null"`
	Status     string  `gorm:"size:32;not null;default:pending"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderLine is a frozen product and quantity pairing inside an order.
// The unit price is folded into Order.TotalPrice and not stored per line.
type OrderLine struct {
	ID       uint   `gorm:"primaryKey"`
	OrderID  string `gorm:"size:36;index;not null"`
	Position int    `gorm:"not null"`

	ProductID string   `gorm:"size:36;not null"`
	Product   *Product `gorm:"foreignKey:ProductID"`

	Quantity int `gorm:"not null"`
}
