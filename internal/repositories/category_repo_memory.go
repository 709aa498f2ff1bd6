package repositories

import (
	"context"
	"fmt"
	"time"

	"stockdesk/internal/models"

	"github.com/google/uuid"
)

// MemoryCategoryRepository is an in-memory implementation of CategoryRepository.
type MemoryCategoryRepository struct {
	table *memoryTable[models.Category]
}

// NewMemoryCategoryRepository creates a new instance of MemoryCategoryRepository.
func NewMemoryCategoryRepository() *MemoryCategoryRepository {
	return &MemoryCategoryRepository{
		table: newMemoryTable(map[string]func(models.Category) string{
			"name": func(c models.Category) string { return c.Name },
		}),
	}
}

// GetAll returns all categories, newest first.
func (r *MemoryCategoryRepository) GetAll(_ context.Context) ([]models.Category, error) {
	r.table.mu.RLock()
	defer r.table.mu.RUnlock()

	return r.table.newestFirst(), nil
}

// GetByID returns a category by its ID.
func (r *MemoryCategoryRepository) GetByID(_ context.Context, id string) (*models.Category, error) {
	r.table.mu.RLock()
	defer r.table.mu.RUnlock()

	row, ok := r.table.records[id]
	if !ok {
		return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	category := row.value
	return &category, nil
}

// GetByName returns the category with exactly this name.
func (r *MemoryCategoryRepository) GetByName(_ context.Context, name string) (*models.Category, error) {
	r.table.mu.RLock()
	defer r.table.mu.RUnlock()

	category, ok := r.table.find(func(c models.Category) bool { return c.Name == name })
	if !ok {
		return nil, fmt.Errorf("category %s: %w", name, ErrNotFound)
	}
	return &category, nil
}

// Create adds a new category.
func (r *MemoryCategoryRepository) Create(_ context.Context, category *models.Category) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if _, dup := r.table.conflict(*category, ""); dup {
		return fmt.Errorf("category name %q: %w", category.Name, ErrDuplicateKey)
	}

	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now
	r.table.seq++
	r.table.records[category.ID] = memoryRow[models.Category]{value: *category, seq: r.table.seq}
	return nil
}

// Update replaces name and description of an existing category.
func (r *MemoryCategoryRepository) Update(_ context.Context, category *models.Category) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	row, ok := r.table.records[category.ID]
	if !ok {
		return fmt.Errorf("category %s: %w", category.ID, ErrNotFound)
	}
	if _, dup := r.table.conflict(*category, category.ID); dup {
		return fmt.Errorf("category name %q: %w", category.Name, ErrDuplicateKey)
	}

	category.CreatedAt = row.value.CreatedAt
	category.UpdatedAt = time.Now().UTC()
	row.value = *category
	r.table.records[category.ID] = row
	return nil
}

// Delete removes a category by its ID.
func (r *MemoryCategoryRepository) Delete(_ context.Context, id string) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	if _, ok := r.table.records[id]; !ok {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	delete(r.table.records, id)
	return nil
}
