package database

import (
	"context"
	"fmt"

	"stockdesk/internal/config"
	"stockdesk/internal/models"
	"stockdesk/internal/repositories"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store bundles the repositories of one backing store together with its
// health check and shutdown hook.
type Store struct {
	Driver     string
	Categories repositories.CategoryRepository
	Products   repositories.ProductRepository
	Users      repositories.UserRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping checks connectivity with the backing store.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the store's connections.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the store selected by cfg.Driver and prepares its schema.
func Open(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (*Store, error) {
	log.Info("Opening entity store", zap.String("driver", cfg.Driver))

	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemoryStore(), nil
	case config.DriverSQLite:
		return openGORM(sqlite.Open(cfg.DSN), cfg.Driver)
	case config.DriverPostgres:
		return openGORM(postgres.Open(cfg.DSN), cfg.Driver)
	case config.DriverMongo:
		return openMongo(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// NewMemoryStore returns a process-local store backed by maps.
func NewMemoryStore() *Store {
	return &Store{
		Driver:     config.DriverMemory,
		Categories: repositories.NewMemoryCategoryRepository(),
		Products:   repositories.NewMemoryProductRepository(),
		Users:      repositories.NewMemoryUserRepository(),
	}
}

// NewGORMStore wraps an open GORM connection, migrating the catalog tables.
func NewGORMStore(db *gorm.DB, driver string) (*Store, error) {
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}, &models.User{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	return &Store{
		Driver:     driver,
		Categories: repositories.NewGORMCategoryRepository(db),
		Products:   repositories.NewGORMProductRepository(db),
		Users:      repositories.NewGORMUserRepository(db),
		ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}, nil
}

func openGORM(dialector gorm.Dialector, driver string) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	return NewGORMStore(db, driver)
}

func openMongo(ctx context.Context, cfg config.StoreConfig) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI).SetTimeout(cfg.Timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(cfg.MongoDatabase)
	if err := repositories.EnsureMongoIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &Store{
		Driver:     config.DriverMongo,
		Categories: repositories.NewMongoCategoryRepository(db),
		Products:   repositories.NewMongoProductRepository(db),
		Users:      repositories.NewMongoUserRepository(db),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		close: client.Disconnect,
	}, nil
}
