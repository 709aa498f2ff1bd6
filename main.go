package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockdesk/internal/cache"
	"stockdesk/internal/config"
	"stockdesk/internal/database"
	"stockdesk/internal/logger"
	"stockdesk/internal/middleware"
	"stockdesk/internal/server"
	"stockdesk/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApplication(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer a.close()

	go func() {
		zlog.Info("Starting server", zap.String("addr", cfg.App.Port), zap.String("store", a.store.Driver))
		if err := a.app.Listen(cfg.App.Port); err != nil {
			zlog.Error("Server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zlog.Info("Shutting down server...")
	if err := a.app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("Error during Fiber shutdown", zap.Error(err))
	}
	zlog.Info("Server gracefully stopped")
}

// application owns every long-lived resource of the process.
type application struct {
	app   *fiber.App
	store *database.Store
	cache *cache.Cache
	mq    *rabbitmq.Client
	log   *zap.Logger
}

// newApplication opens the store and the optional Redis and RabbitMQ
// connections, then builds the HTTP app. Redis and RabbitMQ failures are
// logged and the feature is disabled; a store failure is fatal.
func newApplication(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (*application, error) {
	store, err := database.Open(ctx, cfg.Store, zlog)
	if err != nil {
		return nil, err
	}
	a := &application{store: store, log: zlog}

	deps := server.Deps{
		Store:        store,
		Log:          zlog,
		Metrics:      middleware.NewMetrics(),
		StoreTimeout: cfg.Store.Timeout,
	}

	if cfg.Redis.Addr != "" {
		c, err := cache.Connect(ctx, cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		if err != nil {
			zlog.Warn("List cache disabled", zap.Error(err))
		} else {
			a.cache = c
			deps.Cache = c
		}
	}

	if cfg.RabbitMQ.URL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL}, zlog)
		if err != nil {
			zlog.Warn("Catalog events disabled", zap.Error(err))
		} else {
			a.mq = mq
			deps.Publisher = mq
			if err := mq.ConsumeCatalogEvents(rabbitmq.AuditLogger(zlog.Named("audit"))); err != nil {
				zlog.Warn("Catalog event consumer not started", zap.Error(err))
			}
		}
	}

	svc := server.NewServices(deps)
	if cfg.App.SeedDemo {
		if err := server.SeedDemoData(ctx, svc, zlog); err != nil {
			a.close()
			return nil, err
		}
	}

	a.app = server.New(deps, svc)
	return a, nil
}

func (a *application) close() {
	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			a.log.Warn("Error closing RabbitMQ client", zap.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("Error closing Redis client", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.store.Close(ctx); err != nil && !errors.Is(err, context.Canceled) {
		a.log.Warn("Error closing store", zap.Error(err))
	}
}
