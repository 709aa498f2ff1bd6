package handlers

import (
	"errors"

	"stockdesk/internal/export"
	"stockdesk/internal/models"
	"stockdesk/internal/query"
	"stockdesk/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CategoryHandler handles HTTP requests for categories.
// Failures are reported as {"error": ...}.
type CategoryHandler struct {
	categoryService *services.CategoryService
	log             *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService *services.CategoryService, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		log:             orNop(log),
	}
}

// RegisterRoutes registers the category routes with the Fiber router.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Post("/", h.CreateCategory)
	categoryRoutes.Get("/", h.GetAllCategories)
	categoryRoutes.Get("/export", h.ExportCategories)
	categoryRoutes.Put("/:id", h.UpdateCategory)
	categoryRoutes.Delete("/:id", h.DeleteCategory)
}

// CreateCategory handles POST /categories.
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var in models.CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	category, err := h.categoryService.CreateCategory(c.UserContext(), in.Name, in.Description)
	if err != nil {
		return h.fail(c, err, "Failed to add category")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Category added successfully",
		"category": category,
	})
}

// GetAllCategories handles GET /categories, optionally narrowed by ?search=.
func (h *CategoryHandler) GetAllCategories(c *fiber.Ctx) error {
	categories, err := h.list(c)
	if err != nil {
		h.log.Error("list categories", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch categories"})
	}
	return c.JSON(categories)
}

// UpdateCategory handles PUT /categories/:id.
func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	var in models.CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	category, err := h.categoryService.UpdateCategory(c.UserContext(), c.Params("id"), in.Name, in.Description)
	if err != nil {
		return h.fail(c, err, "Failed to update category")
	}

	return c.JSON(fiber.Map{
		"message":  "Category updated successfully",
		"category": category,
	})
}

// DeleteCategory handles DELETE /categories/:id.
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.categoryService.DeleteCategory(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err, "Failed to delete category")
	}
	return c.JSON(fiber.Map{"message": "Category deleted successfully"})
}

// ExportCategories handles GET /categories/export.
func (h *CategoryHandler) ExportCategories(c *fiber.Ctx) error {
	categories, err := h.list(c)
	if err != nil {
		h.log.Error("export categories", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch categories"})
	}
	return sendCSV(c, "categories.csv", export.CategoryTable(categories))
}

func (h *CategoryHandler) list(c *fiber.Ctx) ([]models.Category, error) {
	categories, err := h.categoryService.GetAllCategories(c.UserContext())
	if err != nil {
		return nil, err
	}
	return query.FilterCategories(categories, c.Query("search")), nil
}

func (h *CategoryHandler) fail(c *fiber.Ctx, err error, fallback string) error {
	var validationErr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrDuplicateName):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Category already exists"})
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr.Message})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
	}
	h.log.Error(fallback, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
}
