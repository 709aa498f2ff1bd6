package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stockdesk/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoProductRepository stores products in a MongoDB collection.
type MongoProductRepository struct {
	coll *mongo.Collection
}

// NewMongoProductRepository creates a repository over db.products.
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{coll: db.Collection(ProductsCollection)}
}

// GetAll retrieves all products, newest first.
func (r *MongoProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products, err := findAll[models.Product](ctx, r.coll)
	if err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := findOne[models.Product](ctx, r.coll, bson.M{"_id": id})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return product, nil
}

// Create inserts a new product. The barcode unique index rejects duplicates.
func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("barcode %q: %w", product.Barcode, ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update replaces every mutable field of an existing product.
func (r *MongoProductRepository) Update(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now().UTC()

	err := setByID(ctx, r.coll, product.ID, bson.M{
		"productName":   product.ProductName,
		"barcode":       product.Barcode,
		"price":         product.Price,
		"stockQuantity": product.StockQuantity,
		"category":      product.Category,
		"expiryDate":    product.ExpiryDate,
		"brand":         product.Brand,
		"description":   product.Description,
		"reorderLevel":  product.ReorderLevel,
		"isActive":      product.IsActive,
		"updatedAt":     product.UpdatedAt,
	})
	switch {
	case errors.Is(err, ErrDuplicateKey):
		return fmt.Errorf("barcode %q: %w", product.Barcode, ErrDuplicateKey)
	case errors.Is(err, ErrNotFound):
		return fmt.Errorf("product with ID %s: %w", product.ID, ErrNotFound)
	case err != nil:
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// Delete hard-deletes a product by its ID.
func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	if err := deleteByID(ctx, r.coll, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}
