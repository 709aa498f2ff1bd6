package repositories

import (
	"context"

	"stockdesk/internal/models"
)

// ProductRepository defines the interface for product data access.
// GetAll returns products newest first.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}
