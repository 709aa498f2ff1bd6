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

// ProductHandler handles HTTP requests for products.
// Mutations answer with {"success": bool, "message": ...}.
type ProductHandler struct {
	productService *services.ProductService
	log            *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		log:            orNop(log),
	}
}

// RegisterRoutes registers the product routes with the Fiber router.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/add", h.CreateProduct)
	productRoutes.Post("/", h.CreateProduct)
	productRoutes.Get("/", h.GetAllProducts)
	productRoutes.Get("/export", h.ExportProducts)
	productRoutes.Get("/:id", h.GetProductByID)
	productRoutes.Put("/:id", h.UpdateProduct)
	productRoutes.Delete("/:id", h.DeleteProduct)
}

// CreateProduct handles POST /products/add and POST /products.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var in models.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	product, err := h.productService.CreateProduct(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err, "Failed to add product")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Product added successfully",
		"product": product,
	})
}

// GetAllProducts handles GET /products with optional search, category and
// sort query parameters.
func (h *ProductHandler) GetAllProducts(c *fiber.Ctx) error {
	products, err := h.list(c)
	if err != nil {
		return h.listFailure(c, err)
	}
	return c.JSON(products)
}

// GetProductByID handles GET /products/:id.
func (h *ProductHandler) GetProductByID(c *fiber.Ctx) error {
	product, err := h.productService.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
		}
		h.log.Error("get product", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch product"})
	}
	return c.JSON(product)
}

// UpdateProduct handles PUT /products/:id. The body replaces the product.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	var in models.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	product, err := h.productService.UpdateProduct(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.fail(c, err, "Failed to update product")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product updated successfully",
		"product": product,
	})
}

// DeleteProduct handles DELETE /products/:id.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.productService.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err, "Failed to delete product")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product deleted successfully",
	})
}

// ExportProducts handles GET /products/export. It honours the same query
// parameters as the list endpoint.
func (h *ProductHandler) ExportProducts(c *fiber.Ctx) error {
	products, err := h.list(c)
	if err != nil {
		return h.listFailure(c, err)
	}
	return sendCSV(c, "products.csv", export.ProductTable(products))
}

func (h *ProductHandler) list(c *fiber.Ctx) ([]models.Product, error) {
	mode, err := query.ParseProductSort(c.Query("sort"))
	if err != nil {
		return nil, err
	}
	products, err := h.productService.GetAllProducts(c.UserContext())
	if err != nil {
		return nil, err
	}
	products = query.FilterProducts(products, c.Query("search"), c.Query("category"))
	return query.SortProducts(products, mode), nil
}

func (h *ProductHandler) listFailure(c *fiber.Ctx, err error) error {
	if errors.Is(err, query.ErrUnknownSortMode) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	h.log.Error("list products", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch products"})
}

func (h *ProductHandler) fail(c *fiber.Ctx, err error, fallback string) error {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": validationErr.Message,
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Product not found",
		})
	}
	h.log.Error(fallback, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": fallback,
	})
}
