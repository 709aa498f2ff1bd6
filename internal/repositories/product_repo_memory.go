package repositories

import (
	"context"
	"fmt"
	"time"

	"stockdesk/internal/models"

	"github.com/google/uuid"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	table *memoryTable[models.Product]
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		table: newMemoryTable(map[string]func(models.Product) string{
			"barcode": func(p models.Product) string { return p.Barcode },
		}),
	}
}

// GetAll returns all products, newest first.
func (r *MemoryProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.table.mu.RLock()
	defer r.table.mu.RUnlock()

	return r.table.newestFirst(), nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.table.mu.RLock()
	defer r.table.mu.RUnlock()

	row, ok := r.table.records[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	product := row.value
	return &product, nil
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if _, exists := r.table.records[product.ID]; exists {
		return fmt.Errorf("product ID %s: %w", product.ID, ErrDuplicateKey)
	}
	if _, dup := r.table.conflict(*product, ""); dup {
		return fmt.Errorf("barcode %q: %w", product.Barcode, ErrDuplicateKey)
	}

	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.table.seq++
	r.table.records[product.ID] = memoryRow[models.Product]{value: *product, seq: r.table.seq}
	return nil
}

// Update replaces an existing product, keeping its creation time.
func (r *MemoryProductRepository) Update(_ context.Context, product *models.Product) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	row, ok := r.table.records[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s: %w", product.ID, ErrNotFound)
	}
	if _, dup := r.table.conflict(*product, product.ID); dup {
		return fmt.Errorf("barcode %q: %w", product.Barcode, ErrDuplicateKey)
	}

	product.CreatedAt = row.value.CreatedAt
	product.UpdatedAt = time.Now().UTC()
	row.value = *product
	r.table.records[product.ID] = row
	return nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(_ context.Context, id string) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	if _, ok := r.table.records[id]; !ok {
		return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	delete(r.table.records, id)
	return nil
}
