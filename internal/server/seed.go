package server

import (
	"context"
	"errors"

	"stockdesk/internal/models"
	"stockdesk/internal/services"

	"go.uber.org/zap"
)

var demoCategories = []models.CategoryInput{
	{Name: "dairy", Description: "Milk, cheese and yoghurt"},
	{Name: "bakery", Description: "Bread and pastries"},
	{Name: "beverages", Description: "Soft drinks, juice and water"},
}

var demoProducts = []models.ProductInput{
	{ProductName: "Milk", Barcode: "8901000000011", Price: models.NewNumber(50), StockQuantity: models.NewNumber(40), Category: "dairy", Brand: "Amul"},
	{ProductName: "Bread", Barcode: "8901000000028", Price: models.NewNumber(30), StockQuantity: models.NewNumber(25), Category: "bakery"},
	{ProductName: "Orange Juice", Barcode: "8901000000035", Price: models.NewNumber(120), StockQuantity: models.NewNumber(3), Category: "beverages"},
}

// SeedDemoData inserts a small catalog and an admin account. Records that
// already exist are skipped, so seeding twice is harmless.
func SeedDemoData(ctx context.Context, svc Services, log *zap.Logger) error {
	for _, in := range demoCategories {
		_, err := svc.Categories.CreateCategory(ctx, in.Name, in.Description)
		if err != nil && !errors.Is(err, services.ErrDuplicateName) {
			return err
		}
	}

	for _, in := range demoProducts {
		_, err := svc.Products.CreateProduct(ctx, in)
		var validationErr *services.ValidationError
		if err != nil && !errors.As(err, &validationErr) {
			return err
		}
	}

	_, err := svc.Users.RegisterUser(ctx, models.UserInput{
		Name:     "Store Admin",
		Email:    "admin@stockdesk.local",
		Password: "admin123",
		Role:     models.RoleAdmin,
	})
	if err != nil && !errors.Is(err, services.ErrDuplicateEmail) {
		return err
	}

	log.Info("Demo data seeded",
		zap.Int("categories", len(demoCategories)),
		zap.Int("products", len(demoProducts)))
	return nil
}
