// Package usecase implements the per-user shopping cart.
package usecase

import (
	"context"

	"shopgraph/internal/domain/entity"
	"shopgraph/internal/shared/identity"
	"shopgraph/internal/shared/validation"
)

// DefaultQuantity is used when addToCart is called without a quantity.
const DefaultQuantity = 1

// UserStore loads and saves users together with their cart.
type UserStore interface {
	// FindByID loads the user and its cart lines without resolving products.
	FindByID(ctx context.Context, id string) (*entity.User, error)
	// FindByIDWithProducts loads the user with each cart line's product resolved.
	FindByIDWithProducts(ctx context.Context, id string) (*entity.User, error)
	// Save writes the whole user record, replacing its cart.
	Save(ctx context.Context, user *entity.User) error
}

// CartUsecase mutates one user's cart at a time. It takes no locks: two concurrent
// mutations of the same cart both read the old state and the later Save wins.
type CartUsecase struct {
	users UserStore
}

// NewCartUsecase creates a CartUsecase.
func NewCartUsecase(users UserStore) *CartUsecase {
	return &CartUsecase{users: users}
}

// AddToCart merges quantity into the caller's line for productID, appending a new
// line when none exists. Neither an upper bound nor stock is checked.
func (u *CartUsecase) AddToCart(ctx context.Context, caller identity.Identity, productID string, quantity int) (*entity.User, error) {
	claims, err := identity.RequireAuthenticated(caller)
	if err != nil {
		return nil, err
	}
	if err := validation.Var("quantity", quantity, "min=1"); err != nil {
		return nil, err
	}

	user, err := u.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	if i := user.IndexOf(productID); i >= 0 {
		user.Cart[i].Quantity += quantity
	} else {
		user.Cart = append(user.Cart, entity.CartLine{ProductID: productID, Quantity: quantity})
	}

	if err := u.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return u.users.FindByIDWithProducts(ctx, user.ID)
}

// RemoveFromCart drops every line for productID. Removing an absent product is a no-op.
func (u *CartUsecase) RemoveFromCart(ctx context.Context, caller identity.Identity, productID string) (*entity.User, error) {
	claims, err := identity.RequireAuthenticated(caller)
	if err != nil {
		return nil, err
	}

	user, err := u.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	kept := user.Cart[:0]
	for _, line := range user.Cart {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	user.Cart = kept

	if err := u.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return u.users.FindByIDWithProducts(ctx, user.ID)
}

// GetCart returns the caller's cart lines with products resolved.
func (u *CartUsecase) GetCart(ctx context.Context, caller identity.Identity) ([]entity.CartLine, error) {
	claims, err := identity.RequireAuthenticated(caller)
	if err != nil {
		return nil, err
	}

	user, err := u.users.FindByIDWithProducts(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return user.Cart, nil
}
