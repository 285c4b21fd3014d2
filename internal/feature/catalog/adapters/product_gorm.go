// Package adapters provides the GORM product repository.
package adapters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shopgraph/internal/domain/entity"
	"shopgraph/internal/feature/catalog/usecase"
)

// ProductGorm is a GORM implementation of usecase.ProductRepository.
type ProductGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure ProductGorm implements ProductRepository.
var _ usecase.ProductRepository = (*ProductGorm)(nil)

// NewProductGorm creates a new instance of ProductGorm.
func NewProductGorm(db *gorm.DB) *ProductGorm {
	return &ProductGorm{db: db}
}

// List returns every product in creation order.
func (r *ProductGorm) List(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByID retrieves a product by its ID.
func (r *ProductGorm) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	return findProduct(r.db.WithContext(ctx), id)
}

// Create persists a new product, assigning an ID when none is set.
func (r *ProductGorm) Create(ctx context.Context, p *entity.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

// Update applies patch to the product and returns the updated record.
func (r *ProductGorm) Update(ctx context.Context, id string, patch entity.ProductPatch) (*entity.Product, error) {
	var out *entity.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := findProduct(tx, id)
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			out = p
			return nil
		}
		patch.Apply(p)
		// Select limits the update to the named columns and writes zero values too
		if err := tx.Model(p).Select(patchColumns(patch)).Updates(p).Error; err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the product and returns the record as it was before deletion.
func (r *ProductGorm) Delete(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := findProduct(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(&entity.Product{}, "id = ?", id).Error; err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func findProduct(db *gorm.DB, id string) (*entity.Product, error) {
	var p entity.Product
	if err := db.Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func patchColumns(patch entity.ProductPatch) []string {
	var cols []string
	if patch.Name != nil {
		cols = append(cols, "Name")
	}
	if patch.Description != nil {
		cols = append(cols, "Description")
	}
	if patch.Price != nil {
		cols = append(cols, "Price")
	}
	if patch.Stock != nil {
		cols = append(cols, "Stock")
	}
	return cols
}
