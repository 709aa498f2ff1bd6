package services

import (
	"context"
	"errors"
	"strings"

	"stockdesk/internal/models"
	"stockdesk/internal/repositories"
)

const categoryEntity = "category"

// CategoryService handles business logic related to categories.
type CategoryService struct {
	base
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository, opts ...Option) *CategoryService {
	return &CategoryService{
		base: newBase(opts),
		repo: repo,
	}
}

// CreateCategory adds a category whose name is not yet taken.
// Names are compared exactly, after trimming surrounding spaces.
func (s *CategoryService) CreateCategory(ctx context.Context, name, description string) (*models.Category, error) {
	category := &models.Category{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}
	if err := ValidateCategory(category); err != nil {
		return nil, err
	}

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	_, err := s.repo.GetByName(sctx, category.Name)
	switch {
	case err == nil:
		return nil, ErrDuplicateName
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, &StoreError{Op: "look up category", Err: err}
	}

	if err := s.repo.Create(sctx, category); err != nil {
		// Lost a race with a concurrent create of the same name.
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrDuplicateName
		}
		return nil, &StoreError{Op: "create category", Err: err}
	}

	s.invalidate(ctx, CategoriesCacheKey)
	s.emit(categoryEntity, models.EventCreated, category.ID, category.Name)
	return category, nil
}

// GetAllCategories retrieves all categories, newest first.
func (s *CategoryService) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := cachedList(ctx, &s.base, CategoriesCacheKey, s.repo.GetAll)
	if err != nil {
		return nil, &StoreError{Op: "list categories", Err: err}
	}
	return categories, nil
}

// UpdateCategory replaces the name and description of a category.
// Products labelled with the old name are left as they are.
func (s *CategoryService) UpdateCategory(ctx context.Context, id, name, description string) (*models.Category, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	category, err := s.repo.GetByID(sctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, &StoreError{Op: "get category", Err: err}
	}

	category.Name = strings.TrimSpace(name)
	category.Description = strings.TrimSpace(description)
	if err := ValidateCategory(category); err != nil {
		return nil, err
	}

	if err := s.repo.Update(sctx, category); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repositories.ErrDuplicateKey):
			return nil, ErrDuplicateName
		}
		return nil, &StoreError{Op: "update category", Err: err}
	}

	s.invalidate(ctx, CategoriesCacheKey)
	s.emit(categoryEntity, models.EventUpdated, category.ID, category.Name)
	return category, nil
}

// DeleteCategory removes a category. Products are not cascaded.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	if err := s.repo.Delete(sctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return &StoreError{Op: "delete category", Err: err}
	}

	s.invalidate(ctx, CategoriesCacheKey)
	s.emit(categoryEntity, models.EventDeleted, id, "")
	return nil
}
