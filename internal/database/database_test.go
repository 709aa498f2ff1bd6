package database

import (
	"context"
	"testing"

	"stockdesk/internal/config"
	"stockdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpen_Memory(t *testing.T) {
	store, err := Open(context.Background(), config.StoreConfig{Driver: config.DriverMemory}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, config.DriverMemory, store.Driver)
	assert.NoError(t, store.Ping(context.Background()))
	assert.NoError(t, store.Close(context.Background()))
}

func TestOpen_SQLiteMigratesAndServes(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, config.StoreConfig{Driver: config.DriverSQLite, DSN: "file:database_test?mode=memory&cache=shared"}, zap.NewNop())
	require.NoError(t, err)
	defer store.Close(ctx)

	require.NoError(t, store.Ping(ctx))

	category := &models.Category{Name: "Dairy"}
	require.NoError(t, store.Categories.Create(ctx, category))

	got, err := store.Categories.GetByName(ctx, "Dairy")
	require.NoError(t, err)
	assert.Equal(t, category.ID, got.ID)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Driver: "cassandra"}, zap.NewNop())
	assert.ErrorContains(t, err, "unknown store driver")
}
