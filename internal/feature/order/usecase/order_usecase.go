// Package usecase は注文確定のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopgraph/internal/domain/entity"
	"shopgraph/internal/shared/identity"
)

var (
	// ErrEmptyCart はカートが空の状態で注文した場合に返されます。
	ErrEmptyCart = errors.New("Cart is empty")

	// ErrProductUnavailable はカート行が削除済みの商品を参照している場合に返されます。
	ErrProductUnavailable = errors.New("Product not found")
)

// UserStore はカート付きユーザーの読み書きを定義します。
type UserStore interface {
	FindByIDWithProducts(ctx context.Context, id string) (*entity.User, error)
	Save(ctx context.Context, user *entity.User) error
}

// OrderRepository は注文の永続化を定義します。
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	ListByUser(ctx context.Context, userID string) ([]entity.Order, error)
}

// EventPublisher は注文確定イベントの発行を定義します。
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, order *entity.Order) error
}

// OrderUsecase はカートのスナップショットから注文を作成します。
type OrderUsecase struct {
	users  UserStore
	orders OrderRepository
	events EventPublisher
}

// NewOrderUsecase はOrderUsecaseを生成します。eventsがnilの場合、イベントは発行しません。
func NewOrderUsecase(users UserStore, orders OrderRepository, events EventPublisher) *OrderUsecase {
	return &OrderUsecase{users: users, orders: orders, events: events}
}

// PlaceOrder はカートを注文に変換し、カートを空にします。
//
// 注文の作成とカートのクリアは別々の書き込みです。両者の間で失敗すると、
// 注文は作成済みのままカートにも同じ商品が残ります。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, caller identity.Identity) (*entity.Order, error) {
	claims, err := identity.RequireAuthenticated(caller)
	if err != nil {
		return nil, err
	}

	// 1. 商品を解決した状態でユーザーを取得
	user, err := u.users.FindByIDWithProducts(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	// 2. 空のカートは拒否
	if len(user.Cart) == 0 {
		return nil, ErrEmptyCart
	}

	// 3. 合計金額と注文行のスナップショット
	total := decimal.Zero
	items := make([]entity.OrderLine, len(user.Cart))
	for i, line := range user.Cart {
		if line.Product == nil {
			return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, line.ProductID)
		}
		total = total.Add(decimal.NewFromFloat(line.Product.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
		items[i] = entity.OrderLine{Position: i, ProductID: line.ProductID, Product: line.Product, Quantity: line.Quantity}
	}

	// 4. 注文を保存
	order := &entity.Order{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		User:       user,
		Items:      items,
		TotalPrice: total.InexactFloat64(),
		Status:     entity.OrderStatusPending,
	}
	if err := u.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	// 5. カートを空にして保存
	user.Cart = []entity.CartLine{}
	if err := u.users.Save(ctx, user); err != nil {
		slog.Error("order created but cart was not cleared", "order_id", order.ID, "user_id", user.ID, "error", err)
		return nil, err
	}

	if u.events != nil {
		if err := u.events.PublishOrderPlaced(ctx, order); err != nil {
			slog.Warn("failed to publish order placed event", "order_id", order.ID, "error", err)
		}
	}

	// 6. 作成した注文を返す
	return order, nil
}

// ListOrders は呼び出し元の注文を作成順に返します。
func (u *OrderUsecase) ListOrders(ctx context.Context, caller identity.Identity) ([]entity.Order, error) {
	claims, err := identity.RequireAuthenticated(caller)
	if err != nil {
		return nil, err
	}
	return u.orders.ListByUser(ctx, claims.UserID)
}
