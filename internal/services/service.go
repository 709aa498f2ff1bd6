package services

import (
	"context"
	"encoding/json"
	"time"

	"stockdesk/internal/models"

	"go.uber.org/zap"
)

// EventPublisher sends a serialized catalog event under a routing key.
// *rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// ListCache stores list snapshots. Delete bumps the generation of a key,
// and SetIfGeneration stores only if the generation is unchanged.
// *cache.Cache satisfies it.
type ListCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Generation(ctx context.Context, key string) (int64, error)
	SetIfGeneration(ctx context.Context, key string, gen int64, value any) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}

// Cache keys for the list snapshots.
const (
	CategoriesCacheKey = "categories"
	ProductsCacheKey   = "products"
	UsersCacheKey      = "users"
)

// Option configures the optional collaborators of a service.
type Option func(*base)

// WithLogger sets the logger used for non-fatal failures.
func WithLogger(log *zap.Logger) Option {
	return func(b *base) {
		if log != nil {
			b.log = log
		}
	}
}

// WithPublisher publishes an event after every successful mutation.
func WithPublisher(p EventPublisher) Option {
	return func(b *base) { b.publisher = p }
}

// WithCache serves list calls from c and invalidates it on mutation.
func WithCache(c ListCache) Option {
	return func(b *base) { b.cache = c }
}

// WithStoreTimeout bounds every store call. Zero disables the deadline.
func WithStoreTimeout(d time.Duration) Option {
	return func(b *base) { b.timeout = d }
}

// base holds what every service shares besides its repository.
type base struct {
	log       *zap.Logger
	publisher EventPublisher
	cache     ListCache
	timeout   time.Duration
}

func newBase(opts []Option) base {
	b := base{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *base) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, b.timeout)
}

// emit publishes a change event. Failures are logged and swallowed so a
// committed write is never reported as failed.
func (b *base) emit(entity, eventType, id, name string) {
	if b.publisher == nil {
		return
	}
	event := models.CatalogEvent{
		Type:   eventType,
		Entity: entity,
		ID:     id,
		Name:   name,
		At:     time.Now().UTC(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		b.log.Warn("marshal catalog event", zap.Error(err))
		return
	}
	if err := b.publisher.Publish(event.RoutingKey(), body); err != nil {
		b.log.Warn("publish catalog event",
			zap.String("routing_key", event.RoutingKey()),
			zap.String("id", id),
			zap.Error(err))
	}
}

func (b *base) invalidate(ctx context.Context, key string) {
	if b.cache == nil {
		return
	}
	if err := b.cache.Delete(ctx, key); err != nil {
		b.log.Warn("invalidate list cache", zap.String("key", key), zap.Error(err))
	}
}

// cachedList returns the snapshot stored under key, or loads it and stores it.
// The snapshot is only stored if no mutation invalidated key while it was
// loading. Cache errors fall through to the loader.
func cachedList[T any](ctx context.Context, b *base, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	var (
		gen       int64
		cacheable bool
	)
	if b.cache != nil {
		var items []T
		hit, err := b.cache.Get(ctx, key, &items)
		switch {
		case err != nil:
			b.log.Warn("read list cache", zap.String("key", key), zap.Error(err))
		case hit:
			if items == nil {
				items = []T{}
			}
			return items, nil
		default:
			gen, err = b.cache.Generation(ctx, key)
			if err != nil {
				b.log.Warn("read list cache generation", zap.String("key", key), zap.Error(err))
			} else {
				cacheable = true
			}
		}
	}

	sctx, cancel := b.storeCtx(ctx)
	defer cancel()
	items, err := load(sctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	if cacheable {
		stored, err := b.cache.SetIfGeneration(ctx, key, gen, items)
		switch {
		case err != nil:
			b.log.Warn("write list cache", zap.String("key", key), zap.Error(err))
		case !stored:
			b.log.Debug("list changed while loading, snapshot not cached", zap.String("key", key))
		}
	}
	return items, nil
}
