package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"techgo/database"
	"techgo/dto"
	"techgo/routers"
	"techgo/services"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServer(t *testing.T) *Client {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	app := routers.NewApp(services.New(db, nil), routers.Options{CorsOrigins: "*"})
	server := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(server.Close)

	return New(server.URL)
}

func gadget(name, brand string, price int64) dto.GadgetRequest {
	return dto.GadgetRequest{Name: name, Brand: brand, Category: "laptops", Price: decimal.NewFromInt(price)}
}

func TestClientComparisonFlow(t *testing.T) {
	ctx := context.Background()
	c := setupServer(t)

	xps, err := c.CreateGadget(ctx, gadget("XPS 13", "Dell", 1299))
	require.NoError(t, err)
	mac, err := c.CreateGadget(ctx, gadget("MacBook Air", "Apple", 1099))
	require.NoError(t, err)

	list, err := c.CreateComparison(ctx, "Ultrabooks")
	require.NoError(t, err)
	assert.Equal(t, 3, list.RemainingSlots)

	list, created, err := c.AddToComparison(ctx, list.ID, xps.ID)
	require.NoError(t, err)
	assert.True(t, created)

	list, created, err = c.AddToComparison(ctx, list.ID, xps.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1, list.GadgetCount)

	_, _, err = c.AddToComparison(ctx, list.ID, mac.ID)
	require.NoError(t, err)

	compare, err := c.Compare(ctx, list.ID)
	require.NoError(t, err)
	assert.Len(t, compare.Gadgets, 2)

	removed, err := c.RemoveFromComparison(ctx, list.ID, xps.ID)
	require.NoError(t, err)
	assert.True(t, removed.Removed)
	assert.Equal(t, 1, removed.Comparison.GadgetCount)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalGadgets)
}

func TestClientListGadgets(t *testing.T) {
	ctx := context.Background()
	c := setupServer(t)

	for _, g := range []dto.GadgetRequest{gadget("ThinkPad X1", "Lenovo", 1499), gadget("ThinkPad T14", "Lenovo", 1199), gadget("Zenbook", "Asus", 999)} {
		_, err := c.CreateGadget(ctx, g)
		require.NoError(t, err)
	}

	page, err := c.ListGadgets(ctx, ListParams{Search: "thinkpad", SortBy: "price"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalElements)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "ThinkPad T14", page.Content[0].Name)
}

func TestClientReturnsAPIError(t *testing.T) {
	ctx := context.Background()
	c := setupServer(t)

	_, err := c.GetGadget(ctx, 42)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Gadget not found with id: 42", apiErr.Body.Message)

	_, err = c.CreateGadget(ctx, dto.GadgetRequest{Name: "Nameless"})
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body.Errors, "brand")
}
