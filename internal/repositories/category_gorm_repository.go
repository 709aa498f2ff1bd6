package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stockdesk/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

// GetAll retrieves all categories, newest first.
func (r *GORMCategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", err)
	}
	return categories, nil
}

// GetByID retrieves a category by its ID.
func (r *GORMCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByName retrieves a category by exact, case-sensitive name.
func (r *GORMCategoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *GORMCategoryRepository) first(ctx context.Context, query string, arg string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %s: %w", arg, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category %s: %w", arg, err)
	}
	return &category, nil
}

// Create inserts a new category. The name unique index rejects duplicates.
func (r *GORMCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("category name %q: %w", category.Name, ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// Update replaces name and description of an existing category.
func (r *GORMCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	category.UpdatedAt = time.Now().UTC()

	res := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", category.ID).
		Updates(map[string]interface{}{
			"name":        category.Name,
			"description": category.Description,
			"updated_at":  category.UpdatedAt,
		})
	if res.Error != nil {
		if isDuplicateKey(res.Error) {
			return fmt.Errorf("category name %q: %w", category.Name, ErrDuplicateKey)
		}
		return fmt.Errorf("failed to update category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category %s: %w", category.ID, ErrNotFound)
	}
	return nil
}

// Delete hard-deletes a category. Products referencing it by name are untouched.
func (r *GORMCategoryRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	return nil
}
