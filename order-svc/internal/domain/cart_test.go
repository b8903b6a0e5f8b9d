package domain_test

import (
	"math/rand"
	"testing"
	"time"

	"table-ordering/order-svc/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	iskender = domain.MenuItem{ID: "iskender", Name: "Iskender", Price: decimal.RequireFromString("240.00"), Category: domain.CategoryFoods}
	kofte    = domain.MenuItem{ID: "kofte", Name: "Kofte", Price: decimal.RequireFromString("180.00"), Category: domain.CategoryFoods}
	cola     = domain.MenuItem{ID: "cola", Name: "Cola", Price: decimal.RequireFromString("35.00"), Category: domain.CategoryDrinks}
	baklava  = domain.MenuItem{ID: "baklava", Name: "Baklava", Price: decimal.RequireFromString("100.10"), Category: domain.CategoryDesserts}
)

func assertReconciles(t *testing.T, cart *domain.Cart) {
	t.Helper()

	want := decimal.Zero
	count := 0
	seen := map[string]bool{}
	for _, l := range cart.Lines() {
		require.GreaterOrEqual(t, l.Quantity, 1, "line %s has quantity %d", l.ID, l.Quantity)
		require.False(t, seen[l.MenuItem.ID], "duplicate line for item %s", l.MenuItem.ID)
		seen[l.MenuItem.ID] = true

		want = want.Add(l.MenuItem.Price.Mul(decimal.NewFromInt(int64(l.Quantity))).Mul(l.Multiplier()))
		count += l.Quantity
	}
	require.True(t, cart.Total().Equal(want), "total %s != %s", cart.Total(), want)
	require.Equal(t, count, cart.ItemCount())
}

func TestCart_AddSameItemTwice(t *testing.T) {
	cart := domain.NewCart()

	first := cart.Add(iskender)
	second := cart.Add(iskender)

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, domain.PortionNormal, lines[0].Portion)
	assertReconciles(t, cart)
}

func TestCart_Remove(t *testing.T) {
	cart := domain.NewCart()
	line := cart.Add(cola)
	cart.Add(cola)

	deleted, err := cart.Remove(line.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
	got, ok := cart.Line(line.ID)
	require.True(t, ok)
	assert.Equal(t, 1, got.Quantity)

	deleted, err = cart.Remove(line.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.True(t, cart.IsEmpty())

	_, err = cart.Remove(line.ID)
	assert.ErrorIs(t, err, domain.ErrLineNotFound)
	assertReconciles(t, cart)
}

func TestCart_DeleteIgnoresQuantity(t *testing.T) {
	cart := domain.NewCart()
	line := cart.Add(kofte)
	cart.Add(kofte)
	cart.Add(kofte)
	cart.Add(cola)

	require.NoError(t, cart.Delete(line.ID))
	assert.Len(t, cart.Lines(), 1)
	assert.ErrorIs(t, cart.Delete(line.ID), domain.ErrLineNotFound)
	assertReconciles(t, cart)
}

func TestCart_ScenarioDoublePortionAndDrink(t *testing.T) {
	cart := domain.NewCart()

	line := cart.Add(iskender)
	require.NoError(t, cart.SetPortion(line.ID, domain.PortionDouble))

	got, _ := cart.Line(line.ID)
	assert.True(t, got.LineTotal().Equal(decimal.RequireFromString("480.00")))

	cart.Add(cola)
	assert.True(t, cart.Total().Equal(decimal.RequireFromString("515.00")), "total %s", cart.Total())
	assert.Equal(t, 2, cart.ItemCount())
	assert.Equal(t, "515.00", domain.FormatPrice(cart.Total()))
}

func TestCart_SetPortion(t *testing.T) {
	cart := domain.NewCart()
	line := cart.Add(cola)

	require.NoError(t, cart.SetPortion(line.ID, domain.PortionDouble))
	got, _ := cart.Line(line.ID)
	assert.Equal(t, domain.PortionDouble, got.Portion)
	assert.True(t, cart.Total().Equal(decimal.RequireFromString("35")), "drinks ignore portions")

	assert.ErrorIs(t, cart.SetPortion(line.ID, domain.PortionSize("Triple")), domain.ErrInvalidPortion)
	assert.ErrorIs(t, cart.SetPortion("missing", domain.PortionDouble), domain.ErrLineNotFound)
}

func TestCart_ClearKeepsTableAndNotes(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(iskender)
	cart.SetTable(domain.Table{Number: 4})
	cart.SetNotes("no onions")

	cart.Clear()

	assert.True(t, cart.IsEmpty())
	table, ok := cart.Table()
	assert.True(t, ok)
	assert.Equal(t, 4, table.Number)
	assert.Equal(t, "no onions", cart.Notes())
	assert.True(t, cart.Total().IsZero())
}

func TestCart_Snapshot(t *testing.T) {
	now := time.Date(2025, 11, 2, 19, 30, 0, 0, time.UTC)

	cart := domain.NewCart()
	_, err := cart.Snapshot(now)
	assert.ErrorIs(t, err, domain.ErrCartEmpty)

	line := cart.Add(iskender)
	_, err = cart.Snapshot(now)
	assert.ErrorIs(t, err, domain.ErrTableUnset)

	cart.SetTable(domain.Table{Number: 7})
	cart.SetNotes("extra bread")
	order, err := cart.Snapshot(now)
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, 7, order.Table.Number)
	assert.Equal(t, "extra bread", order.Notes)
	assert.Equal(t, now, order.CreatedAt)
	assert.True(t, order.Total.Equal(cart.Total()))

	// later cart edits do not reach the snapshot
	cart.Add(iskender)
	require.NoError(t, cart.SetPortion(line.ID, domain.PortionDouble))
	assert.Equal(t, 1, order.Lines[0].Quantity)
	assert.Equal(t, domain.PortionNormal, order.Lines[0].Portion)
}

func TestCart_RandomSequencesReconcile(t *testing.T) {
	items := []domain.MenuItem{iskender, kofte, cola, baklava}
	portions := domain.PortionSizes
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 50; run++ {
		cart := domain.NewCart()
		for step := 0; step < 200; step++ {
			lines := cart.Lines()
			switch op := rng.Intn(5); {
			case op <= 1 || len(lines) == 0:
				cart.Add(items[rng.Intn(len(items))])
			case op == 2:
				_, err := cart.Remove(lines[rng.Intn(len(lines))].ID)
				require.NoError(t, err)
			case op == 3:
				require.NoError(t, cart.Delete(lines[rng.Intn(len(lines))].ID))
			default:
				require.NoError(t, cart.SetPortion(lines[rng.Intn(len(lines))].ID, portions[rng.Intn(len(portions))]))
			}
			assertReconciles(t, cart)
		}
	}
}
