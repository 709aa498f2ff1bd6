package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"stockdesk/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingPublisher struct{ calls int }

func (p *failingPublisher) Publish(string, []byte) error {
	p.calls++
	return errors.New("broker unavailable")
}

func newTestServer(t *testing.T, publisher *failingPublisher) (*fiber.App, Services) {
	t.Helper()

	d := Deps{Store: database.NewMemoryStore(), Log: zap.NewNop()}
	if publisher != nil {
		d.Publisher = publisher
	}
	svc := NewServices(d)
	return New(d, svc), svc
}

func TestSeedDemoDataIsIdempotent(t *testing.T) {
	_, svc := newTestServer(t, nil)
	ctx := context.Background()

	require.NoError(t, SeedDemoData(ctx, svc, zap.NewNop()))
	require.NoError(t, SeedDemoData(ctx, svc, zap.NewNop()))

	categories, err := svc.Categories.GetAllCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, len(demoCategories))

	products, err := svc.Products.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, len(demoProducts))

	users, err := svc.Users.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestPublishFailureStillSucceeds(t *testing.T) {
	publisher := &failingPublisher{}
	app, _ := newTestServer(t, publisher)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/categories/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 0, publisher.calls)

	_, svc := newTestServer(t, publisher)
	_, err = svc.Categories.CreateCategory(context.Background(), "Dairy", "")
	assert.NoError(t, err)
	assert.Equal(t, 1, publisher.calls)
}

func TestUnknownRouteUsesErrorHandler(t *testing.T) {
	app, _ := newTestServer(t, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/nothing-here", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"Cannot GET /api/nothing-here"}`, string(body))
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}

func TestPanicIsRecovered(t *testing.T) {
	app, _ := newTestServer(t, nil)
	app.Get("/panic", func(c *fiber.Ctx) error { panic("boom") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
