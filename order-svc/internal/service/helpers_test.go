package service_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"table-ordering/order-svc/internal/domain"
	"table-ordering/order-svc/internal/service"
	"table-ordering/order-svc/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	iskender = domain.MenuItem{ID: "m-iskender", Name: "Iskender", Price: decimal.RequireFromString("240.00"), Category: domain.CategoryFoods}
	kofte    = domain.MenuItem{ID: "m-kofte", Name: "Kofte", Price: decimal.RequireFromString("180.00"), Category: domain.CategoryFoods}
	cola     = domain.MenuItem{ID: "m-cola", Name: "Cola", Price: decimal.RequireFromString("35.00"), Category: domain.CategoryDrinks}
	baklava  = domain.MenuItem{ID: "m-baklava", Name: "Baklava", Price: decimal.RequireFromString("100.00"), Category: domain.CategoryDesserts}
)

var fixedNow = time.Date(2025, 11, 2, 19, 30, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestCache(t *testing.T) (*miniredis.Miniredis, *storage.RedisCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, storage.NewRedisCache(rdb, "test-device")
}

func newTestCatalog(t *testing.T) *service.Catalog {
	t.Helper()
	catalog, err := service.NewCatalog([]domain.MenuItem{iskender, kofte, cola, baklava})
	require.NoError(t, err)
	return catalog
}

func newTestTables(t *testing.T) *domain.TableSet {
	t.Helper()
	tables, err := domain.NewTableSet(domain.TableRange(1, 20))
	require.NoError(t, err)
	return tables
}

func testOrder(id string, createdAt time.Time, status domain.Status) domain.Order {
	return domain.Order{
		ID:        id,
		Lines:     []domain.OrderLine{{ID: "l-" + id, MenuItem: iskender, Quantity: 1, Portion: domain.PortionNormal}},
		Table:     domain.Table{Number: 5},
		Total:     decimal.RequireFromString("240.00"),
		CreatedAt: createdAt,
		Status:    status,
	}
}
