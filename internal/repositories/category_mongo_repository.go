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

// MongoCategoryRepository stores categories in a MongoDB collection.
type MongoCategoryRepository struct {
	coll *mongo.Collection
}

// NewMongoCategoryRepository creates a repository over db.categories.
func NewMongoCategoryRepository(db *mongo.Database) *MongoCategoryRepository {
	return &MongoCategoryRepository{coll: db.Collection(CategoriesCollection)}
}

// GetAll retrieves all categories, newest first.
func (r *MongoCategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	categories, err := findAll[models.Category](ctx, r.coll)
	if err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", err)
	}
	return categories, nil
}

// GetByID retrieves a single category by its ID.
func (r *MongoCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return r.findOne(ctx, bson.M{"_id": id}, id)
}

// GetByName retrieves the category with exactly the given name.
func (r *MongoCategoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return r.findOne(ctx, bson.M{"name": name}, name)
}

// findOne finds the category matching filter; key names it in errors.
func (r *MongoCategoryRepository) findOne(ctx context.Context, filter bson.M, key string) (*models.Category, error) {
	category, err := findOne[models.Category](ctx, r.coll, filter)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("category %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category %s: %w", key, err)
	}
	return category, nil
}

// Create inserts a new category. The name unique index rejects duplicates.
func (r *MongoCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, category); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("category name %q: %w", category.Name, ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// Update replaces the name and description of an existing category.
func (r *MongoCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	category.UpdatedAt = time.Now().UTC()

	err := setByID(ctx, r.coll, category.ID, bson.M{
		"name":        category.Name,
		"description": category.Description,
		"updatedAt":   category.UpdatedAt,
	})
	switch {
	case errors.Is(err, ErrDuplicateKey):
		return fmt.Errorf("category name %q: %w", category.Name, ErrDuplicateKey)
	case errors.Is(err, ErrNotFound):
		return fmt.Errorf("category %s: %w", category.ID, ErrNotFound)
	case err != nil:
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

// Delete hard-deletes a category by its ID.
func (r *MongoCategoryRepository) Delete(ctx context.Context, id string) error {
	if err := deleteByID(ctx, r.coll, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("category %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
