package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"stockdesk/internal/models"
	"stockdesk/internal/repositories"
)

const productEntity = "product"

// Layouts accepted for expiryDate.
var expiryLayouts = []string{time.RFC3339, "2006-01-02"}

// ProductService handles business logic related to products.
type ProductService struct {
	base
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, opts ...Option) *ProductService {
	return &ProductService{
		base: newBase(opts),
		repo: repo,
	}
}

// GetAllProducts retrieves all products, newest first.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	products, err := cachedList(ctx, &s.base, ProductsCacheKey, s.repo.GetAll)
	if err != nil {
		return nil, &StoreError{Op: "list products", Err: err}
	}
	return products, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	product, err := s.repo.GetByID(sctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, &StoreError{Op: "get product", Err: err}
	}
	return product, nil
}

// CreateProduct creates a new product, filling in defaults for omitted
// stockQuantity, reorderLevel and isActive.
func (s *ProductService) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	product, err := productFromInput(in)
	if err != nil {
		return nil, err
	}

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	if err := s.repo.Create(sctx, product); err != nil {
		return nil, s.writeError("create product", product, err)
	}

	s.invalidate(ctx, ProductsCacheKey)
	s.emit(productEntity, models.EventCreated, product.ID, product.ProductName)
	return product, nil
}

// UpdateProduct replaces every field of an existing product with in.
// Omitted optional fields take the same defaults as on create.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, in models.ProductInput) (*models.Product, error) {
	product, err := productFromInput(in)
	if err != nil {
		return nil, err
	}

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	existing, err := s.repo.GetByID(sctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, &StoreError{Op: "get product", Err: err}
	}
	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(sctx, product); err != nil {
		return nil, s.writeError("update product", product, err)
	}

	s.invalidate(ctx, ProductsCacheKey)
	s.emit(productEntity, models.EventUpdated, product.ID, product.ProductName)
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	if err := s.repo.Delete(sctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return &StoreError{Op: "delete product", Err: err}
	}

	s.invalidate(ctx, ProductsCacheKey)
	s.emit(productEntity, models.EventDeleted, id, "")
	return nil
}

func (s *ProductService) writeError(op string, product *models.Product, err error) error {
	switch {
	case errors.Is(err, repositories.ErrDuplicateKey):
		return validationErrorf("barcode %q already exists", product.Barcode)
	case errors.Is(err, repositories.ErrNotFound):
		return ErrNotFound
	}
	return &StoreError{Op: op, Err: err}
}

// productFromInput builds a validated product from a request payload.
func productFromInput(in models.ProductInput) (*models.Product, error) {
	if !in.Price.Set {
		return nil, validationErrorf("price is required")
	}

	product := &models.Product{
		ProductName:   strings.TrimSpace(in.ProductName),
		Barcode:       strings.TrimSpace(in.Barcode),
		Price:         in.Price.Value,
		StockQuantity: models.DefaultStockQuantity,
		Category:      strings.TrimSpace(in.Category),
		Brand:         strings.TrimSpace(in.Brand),
		Description:   strings.TrimSpace(in.Description),
		ReorderLevel:  models.DefaultReorderLevel,
		IsActive:      models.DefaultIsActive,
	}

	var err error
	if in.StockQuantity.Set {
		if product.StockQuantity, err = wholeNumber("stockQuantity", in.StockQuantity.Value); err != nil {
			return nil, err
		}
	}
	if in.ReorderLevel.Set {
		if product.ReorderLevel, err = wholeNumber("reorderLevel", in.ReorderLevel.Value); err != nil {
			return nil, err
		}
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	if product.ExpiryDate, err = parseExpiry(in.ExpiryDate); err != nil {
		return nil, err
	}

	if err := ValidateProduct(product); err != nil {
		return nil, err
	}
	return product, nil
}

func wholeNumber(field string, v float64) (int, error) {
	if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return 0, validationErrorf("%s must be a whole number", field)
	}
	return int(v), nil
}

func parseExpiry(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, validationErrorf("expiryDate must be a date in YYYY-MM-DD or RFC 3339 format")
}
