package main

import (
	"testing"

	"table-ordering/config"
	"table-ordering/order-svc/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedMenu(t *testing.T) {
	tests := []struct {
		name    string
		entries []config.MenuEntry
		wantErr bool
	}{
		{
			name: "valid entries",
			entries: []config.MenuEntry{
				{ID: "m-1", Name: "Iskender", Price: decimal.RequireFromString("240"), Category: "Foods", Image: "iskender"},
				{ID: "m-2", Name: "Ayran", Price: decimal.RequireFromString("25"), Category: "Drinks"},
			},
		},
		{
			name:    "unknown category",
			entries: []config.MenuEntry{{ID: "m-1", Name: "Soup", Price: decimal.RequireFromString("50"), Category: "Soups"}},
			wantErr: true,
		},
		{
			name:    "missing id",
			entries: []config.MenuEntry{{Name: "Tea", Price: decimal.RequireFromString("20"), Category: "Drinks"}},
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			items, err := seedMenu(testCase.entries)
			if testCase.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidMenuItem)
				return
			}
			require.NoError(t, err)
			require.Len(t, items, len(testCase.entries))
			assert.Equal(t, domain.CategoryFoods, items[0].Category)
			assert.Equal(t, "iskender", items[0].ImageName)
		})
	}
}

func TestVenueFileIsValid(t *testing.T) {
	venue, err := config.LoadVenue("venue.yaml")
	require.NoError(t, err)

	_, err = domain.NewTableSet(tableNumbers(venue.Tables))
	require.NoError(t, err)
	items, err := seedMenu(venue.Menu)
	require.NoError(t, err)
	assert.NotEmpty(t, items)
	assert.NotEmpty(t, venue.AdminEmail)
}

func TestTableNumbers(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []int
	}{
		{name: "default range", raw: "name: x\n", want: domain.TableRange(1, 20)},
		{name: "explicit range", raw: "tables:\n  first: 3\n  last: 5\n", want: []int{3, 4, 5}},
		{name: "last only starts at one", raw: "tables:\n  last: 12\n", want: domain.TableRange(1, 12)},
		{name: "explicit list wins", raw: "tables:\n  first: 1\n  last: 5\n  numbers: [7, 9]\n", want: []int{7, 9}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			venue, err := config.ParseVenue([]byte(testCase.raw))
			require.NoError(t, err)

			numbers := tableNumbers(venue.Tables)
			assert.Equal(t, testCase.want, numbers)
			_, err = domain.NewTableSet(numbers)
			assert.NoError(t, err)
		})
	}
}
