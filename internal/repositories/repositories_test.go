package repositories

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"stockdesk/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type repoSet struct {
	categories CategoryRepository
	products   ProductRepository
	users      UserRepository
}

// setupTestDB creates a private in-memory SQLite database for one test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Product{}, &models.User{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// setupMongo connects to MONGO_URI and returns a throwaway database.
func setupMongo(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database("stockdesk_test_" + strings.ReplaceAll(uuid.NewString()[:8], "-", ""))
	require.NoError(t, EnsureMongoIndexes(ctx, db))
	t.Cleanup(func() {
		db.Drop(ctx)
		client.Disconnect(ctx)
	})
	return db
}

func stores(t *testing.T) map[string]func(t *testing.T) repoSet {
	return map[string]func(t *testing.T) repoSet{
		"memory": func(*testing.T) repoSet {
			return repoSet{NewMemoryCategoryRepository(), NewMemoryProductRepository(), NewMemoryUserRepository()}
		},
		"gorm": func(t *testing.T) repoSet {
			db := setupTestDB(t)
			return repoSet{NewGORMCategoryRepository(db), NewGORMProductRepository(db), NewGORMUserRepository(db)}
		},
		"mongo": func(t *testing.T) repoSet {
			db := setupMongo(t)
			return repoSet{NewMongoCategoryRepository(db), NewMongoProductRepository(db), NewMongoUserRepository(db)}
		},
	}
}

func TestCategoryRepository(t *testing.T) {
	for name, open := range stores(t) {
		t.Run(name, func(t *testing.T) {
			repo := open(t).categories
			ctx := context.Background()

			first := &models.Category{Name: "Dairy", Description: "Milk and cheese"}
			require.NoError(t, repo.Create(ctx, first))
			assert.NotEmpty(t, first.ID)
			assert.False(t, first.CreatedAt.IsZero())

			time.Sleep(2 * time.Millisecond)
			second := &models.Category{Name: "Bakery"}
			require.NoError(t, repo.Create(ctx, second))

			// Unique name index.
			err := repo.Create(ctx, &models.Category{Name: "Dairy"})
			assert.ErrorIs(t, err, ErrDuplicateKey)

			all, err := repo.GetAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, "Bakery", all[0].Name, "newest first")
			assert.Equal(t, "Dairy", all[1].Name)

			byName, err := repo.GetByName(ctx, "Dairy")
			require.NoError(t, err)
			assert.Equal(t, first.ID, byName.ID)

			_, err = repo.GetByName(ctx, "dairy")
			assert.ErrorIs(t, err, ErrNotFound, "name lookup is case-sensitive")

			second.Name = "Dairy"
			assert.ErrorIs(t, repo.Update(ctx, second), ErrDuplicateKey)

			second.Name = "Breads"
			second.Description = "Fresh daily"
			require.NoError(t, repo.Update(ctx, second))
			got, err := repo.GetByID(ctx, second.ID)
			require.NoError(t, err)
			assert.Equal(t, "Breads", got.Name)
			assert.Equal(t, "Fresh daily", got.Description)

			assert.ErrorIs(t, repo.Update(ctx, &models.Category{ID: "missing", Name: "X"}), ErrNotFound)

			require.NoError(t, repo.Delete(ctx, first.ID))
			assert.ErrorIs(t, repo.Delete(ctx, first.ID), ErrNotFound)
			_, err = repo.GetByID(ctx, first.ID)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestProductRepository(t *testing.T) {
	for name, open := range stores(t) {
		t.Run(name, func(t *testing.T) {
			repo := open(t).products
			ctx := context.Background()

			milk := &models.Product{ProductName: "Milk", Barcode: "111", Price: 50, Category: "dairy", ReorderLevel: 5, IsActive: true}
			require.NoError(t, repo.Create(ctx, milk))
			assert.NotEmpty(t, milk.ID)

			time.Sleep(2 * time.Millisecond)
			bread := &models.Product{ProductName: "Bread", Barcode: "222", Price: 30, Category: "bakery", ReorderLevel: 5, IsActive: true}
			require.NoError(t, repo.Create(ctx, bread))

			err := repo.Create(ctx, &models.Product{ProductName: "Other milk", Barcode: "111", Price: 1, Category: "dairy"})
			assert.ErrorIs(t, err, ErrDuplicateKey)

			all, err := repo.GetAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, "Bread", all[0].ProductName)

			// Zero values must be written, not skipped.
			expiry := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
			milk.IsActive = false
			milk.StockQuantity = 0
			milk.ReorderLevel = 0
			milk.ExpiryDate = &expiry
			require.NoError(t, repo.Update(ctx, milk))

			got, err := repo.GetByID(ctx, milk.ID)
			require.NoError(t, err)
			assert.False(t, got.IsActive)
			assert.Equal(t, 0, got.ReorderLevel)
			require.NotNil(t, got.ExpiryDate)
			assert.True(t, expiry.Equal(*got.ExpiryDate))
			assert.WithinDuration(t, milk.CreatedAt, got.CreatedAt, time.Millisecond, "creation time preserved")

			bread.Barcode = "111"
			assert.ErrorIs(t, repo.Update(ctx, bread), ErrDuplicateKey)

			assert.ErrorIs(t, repo.Delete(ctx, "nope"), ErrNotFound)
			require.NoError(t, repo.Delete(ctx, milk.ID))
			all, err = repo.GetAll(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 1)
		})
	}
}

func TestUserRepository(t *testing.T) {
	for name, open := range stores(t) {
		t.Run(name, func(t *testing.T) {
			repo := open(t).users
			ctx := context.Background()

			user := &models.User{Name: "Asha", Email: "asha@example.com", Password: "hash", Role: models.RoleAdmin}
			require.NoError(t, repo.Create(ctx, user))

			err := repo.Create(ctx, &models.User{Name: "Other", Email: "asha@example.com", Password: "hash", Role: models.RoleStaff})
			assert.ErrorIs(t, err, ErrDuplicateKey)

			got, err := repo.GetByEmail(ctx, "asha@example.com")
			require.NoError(t, err)
			assert.Equal(t, user.ID, got.ID)

			user.Role = models.RoleStaff
			require.NoError(t, repo.Update(ctx, user))
			got, err = repo.GetByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, models.RoleStaff, got.Role)
			assert.Equal(t, "hash", got.Password)

			all, err := repo.GetAll(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 1)

			require.NoError(t, repo.Delete(ctx, user.ID))
			_, err = repo.GetByID(ctx, user.ID)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}
