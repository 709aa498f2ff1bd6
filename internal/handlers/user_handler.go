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

// UserHandler handles HTTP requests for staff members.
type UserHandler struct {
	userService *services.UserService
	log         *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		log:         orNop(log),
	}
}

// RegisterRoutes registers the staff routes with the Fiber router.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Post("/register", h.HandleRegister)
	userRoutes.Get("/", h.GetAllUsers)
	userRoutes.Get("/export", h.ExportUsers)
	userRoutes.Put("/:id", h.UpdateUser)
	userRoutes.Delete("/:id", h.DeleteUser)
}

// HandleRegister handles new staff registration.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var in models.UserInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	user, err := h.userService.RegisterUser(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err, "Could not register user")
	}

	// Password is tagged json:"-" so the hash never leaves the server.
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// GetAllUsers handles GET /users with optional search, role and sort.
func (h *UserHandler) GetAllUsers(c *fiber.Ctx) error {
	users, err := h.list(c)
	if err != nil {
		return h.listFailure(c, err)
	}
	return c.JSON(users)
}

// UpdateUser handles PUT /users/:id.
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	var in models.UserInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	user, err := h.userService.UpdateUser(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.fail(c, err, "Could not update user")
	}

	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"user":    user,
	})
}

// DeleteUser handles DELETE /users/:id.
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.userService.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err, "Could not delete user")
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// ExportUsers handles GET /users/export.
func (h *UserHandler) ExportUsers(c *fiber.Ctx) error {
	users, err := h.list(c)
	if err != nil {
		return h.listFailure(c, err)
	}
	return sendCSV(c, "users.csv", export.UserTable(users))
}

func (h *UserHandler) list(c *fiber.Ctx) ([]models.User, error) {
	mode, err := query.ParseUserSort(c.Query("sort"))
	if err != nil {
		return nil, err
	}
	users, err := h.userService.GetAllUsers(c.UserContext())
	if err != nil {
		return nil, err
	}
	users = query.FilterUsers(users, c.Query("search"), c.Query("role"))
	return query.SortUsers(users, mode), nil
}

func (h *UserHandler) listFailure(c *fiber.Ctx, err error) error {
	if errors.Is(err, query.ErrUnknownSortMode) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	h.log.Error("list users", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch users"})
}

func (h *UserHandler) fail(c *fiber.Ctx, err error, fallback string) error {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": validationErr.Message})
	case errors.Is(err, services.ErrDuplicateEmail):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Email already registered"})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}
	h.log.Error(fallback, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": fallback})
}
