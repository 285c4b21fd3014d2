// Package usecase implements the product catalog.
package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"shopgraph/internal/domain/entity"
	"shopgraph/internal/shared/identity"
	"shopgraph/internal/shared/validation"
)

// ErrProductNotFound is returned when no product has the requested ID.
var ErrProductNotFound = errors.New("Product not found")

// ProductRepository abstracts the persistence layer for products.
type ProductRepository interface {
	List(ctx context.Context) ([]entity.Product, error)
	FindByID(ctx context.Context, id string) (*entity.Product, error)
	Create(ctx context.Context, p *entity.Product) error
	Update(ctx context.Context, id string, patch entity.ProductPatch) (*entity.Product, error)
	Delete(ctx context.Context, id string) (*entity.Product, error)
}

// NewProduct holds the fields accepted by AddProduct.
type NewProduct struct {
	Name        string
	Description *string
	Price       float64
	Stock       int
}

// CatalogUsecase creates, updates, deletes and reads products.
// Every mutation requires the admin role and is checked before the store is touched.
type CatalogUsecase struct {
	products ProductRepository
}

// NewCatalogUsecase creates a CatalogUsecase.
func NewCatalogUsecase(products ProductRepository) *CatalogUsecase {
	return &CatalogUsecase{products: products}
}

// ListProducts returns every product, unpaginated.
func (u *CatalogUsecase) ListProducts(ctx context.Context) ([]entity.Product, error) {
	return u.products.List(ctx)
}

// GetProduct returns one product or ErrProductNotFound.
func (u *CatalogUsecase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return u.products.FindByID(ctx, id)
}

// AddProduct creates a product.
func (u *CatalogUsecase) AddProduct(ctx context.Context, caller identity.Identity, in NewProduct) (*entity.Product, error) {
	if _, err := identity.RequireAdmin(caller); err != nil {
		return nil, err
	}
	if err := validation.Var("name", in.Name, "required"); err != nil {
		return nil, err
	}
	if err := validation.Var("price", in.Price, "gte=0"); err != nil {
		return nil, err
	}

	p := &entity.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
	}
	if err := u.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProduct applies only the provided fields. An omitted field and an explicit
// null are treated the same way: the stored value is kept.
func (u *CatalogUsecase) UpdateProduct(ctx context.Context, caller identity.Identity, id string, patch entity.ProductPatch) (*entity.Product, error) {
	if _, err := identity.RequireAdmin(caller); err != nil {
		return nil, err
	}
	if patch.Price != nil {
		if err := validation.Var("price", *patch.Price, "gte=0"); err != nil {
			return nil, err
		}
	}
	if patch.Name != nil {
		if err := validation.Var("name", *patch.Name, "required"); err != nil {
			return nil, err
		}
	}
	return u.products.Update(ctx, id, patch)
}

// DeleteProduct removes a product and returns the deleted record.
func (u *CatalogUsecase) DeleteProduct(ctx context.Context, caller identity.Identity, id string) (*entity.Product, error) {
	if _, err := identity.RequireAdmin(caller); err != nil {
		return nil, err
	}
	return u.products.Delete(ctx, id)
}
