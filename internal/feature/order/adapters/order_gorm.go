// Package adapters provides the GORM order repository.
package adapters

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shopgraph/internal/domain/entity"
	"shopgraph/internal/feature/order/usecase"
)

// OrderGorm is a GORM implementation of usecase.OrderRepository.
type OrderGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure OrderGorm implements OrderRepository.
var _ usecase.OrderRepository = (*OrderGorm)(nil)

// NewOrderGorm creates a new instance of OrderGorm.
func NewOrderGorm(db *gorm.DB) *OrderGorm {
	return &OrderGorm{db: db}
}

// Create persists the order and its lines in one transaction.
func (r *OrderGorm) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		if len(order.Items) == 0 {
			return nil
		}
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			order.Items[i].Position = i
		}
		return tx.Omit(clause.Associations).Create(&order.Items).Error
	})
}

// ListByUser returns the user's orders, oldest first, with the owner and each
// line's product resolved. Lines referencing deleted products keep a nil Product.
func (r *OrderGorm) ListByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
