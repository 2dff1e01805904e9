package repository

import (
	"context"

	"gorm.io/gorm"

	"marketplace/internal/models"
)

// CreateProduct creates a new listing
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// ListProducts retrieves all listings with their sellers, newest first
func (r *Repository) ListProducts(ctx context.Context) ([]*models.Product, error) {
	var products []*models.Product
	err := r.db.WithContext(ctx).
		Preload("Seller").
		Order("posted_at DESC").
		Order("id DESC").
		Find(&products).Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

// GetProductByID retrieves a listing with its seller
func (r *Repository) GetProductByID(ctx context.Context, productID uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Preload("Seller").First(&product, productID).Error
	if err != nil {
		return nil, notFound(err, "product", productID)
	}
	return &product, nil
}

// IncrementProductViews bumps the view counter of a listing
func (r *Repository) IncrementProductViews(ctx context.Context, productID uint) error {
	return r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}
