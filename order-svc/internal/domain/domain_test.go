package domain_test

import (
	"errors"
	"testing"
	"time"

	"table-ordering/order-svc/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableSet_Resolve(t *testing.T) {
	tables, err := domain.NewTableSet(domain.TableRange(1, 20))
	require.NoError(t, err)

	tests := []struct {
		name    string
		code    string
		want    int
		wantErr bool
	}{
		{name: "prefixed", code: "table-5", want: 5},
		{name: "upper case prefix", code: "TABLE-5", want: 5},
		{name: "surrounding whitespace", code: "  table-5  ", want: 5},
		{name: "bare number", code: "5", want: 5},
		{name: "mixed case", code: "Table-20", want: 20},
		{name: "out of range", code: "table-99", wantErr: true},
		{name: "zero", code: "0", wantErr: true},
		{name: "not a number", code: "abc", wantErr: true},
		{name: "empty", code: "", wantErr: true},
		{name: "prefix only", code: "table-", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			table, err := tables.Resolve(testCase.code)
			if testCase.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnknownTable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, table.Number)
		})
	}
}

func TestNewTableSet_Validation(t *testing.T) {
	_, err := domain.NewTableSet(nil)
	assert.Error(t, err)

	_, err = domain.NewTableSet([]int{1, 2, 2})
	assert.Error(t, err)

	_, err = domain.NewTableSet([]int{-1})
	assert.Error(t, err)

	ts, err := domain.NewTableSet([]int{3, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, []domain.Table{{Number: 1}, {Number: 2}, {Number: 3}}, ts.Tables())
}

func TestOrderLine_LineTotal(t *testing.T) {
	iskender := domain.MenuItem{ID: "1", Name: "Iskender", Price: decimal.RequireFromString("240.00"), Category: domain.CategoryFoods}
	cola := domain.MenuItem{ID: "2", Name: "Cola", Price: decimal.RequireFromString("35.00"), Category: domain.CategoryDrinks}

	tests := []struct {
		name string
		line domain.OrderLine
		want string
	}{
		{name: "food normal", line: domain.OrderLine{MenuItem: iskender, Quantity: 1, Portion: domain.PortionNormal}, want: "240"},
		{name: "food one and half", line: domain.OrderLine{MenuItem: iskender, Quantity: 1, Portion: domain.PortionOneAndHalf}, want: "360"},
		{name: "food double", line: domain.OrderLine{MenuItem: iskender, Quantity: 1, Portion: domain.PortionDouble}, want: "480"},
		{name: "food double twice", line: domain.OrderLine{MenuItem: iskender, Quantity: 2, Portion: domain.PortionDouble}, want: "960"},
		{name: "drink ignores portion", line: domain.OrderLine{MenuItem: cola, Quantity: 3, Portion: domain.PortionDouble}, want: "105"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got := testCase.line.LineTotal()
			assert.True(t, got.Equal(decimal.RequireFromString(testCase.want)), "got %s", got)
		})
	}
}

func TestStatus_CheckTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.Status
		to      domain.Status
		actor   domain.Actor
		wantErr error
	}{
		{name: "submit from none", from: domain.StatusNone, to: domain.StatusPending, actor: domain.ActorCustomer},
		{name: "submit after completed", from: domain.StatusCompleted, to: domain.StatusPending, actor: domain.ActorCustomer},
		{name: "admin approves", from: domain.StatusPending, to: domain.StatusPreparing, actor: domain.ActorAdmin},
		{name: "customer approves", from: domain.StatusPending, to: domain.StatusPreparing, actor: domain.ActorCustomer, wantErr: domain.ErrNotAdmin},
		{name: "admin completes", from: domain.StatusPreparing, to: domain.StatusReady, actor: domain.ActorAdmin},
		{name: "complete from pending", from: domain.StatusPending, to: domain.StatusReady, actor: domain.ActorAdmin, wantErr: domain.ErrInvalidTransition},
		{name: "finalize by customer", from: domain.StatusReady, to: domain.StatusCompleted, actor: domain.ActorCustomer},
		{name: "no regression", from: domain.StatusReady, to: domain.StatusPreparing, actor: domain.ActorAdmin, wantErr: domain.ErrInvalidTransition},
		{name: "resubmit while pending", from: domain.StatusPending, to: domain.StatusPending, actor: domain.ActorCustomer, wantErr: domain.ErrInvalidTransition},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			err := testCase.from.CheckTransition(testCase.to, testCase.actor)
			if testCase.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, testCase.wantErr)
		})
	}
}

func TestGuardError(t *testing.T) {
	err := error(domain.NewGuardError("approve", domain.StatusNone, domain.ErrInvalidTransition))

	var guard *domain.GuardError
	require.True(t, errors.As(err, &guard))
	assert.Equal(t, domain.ReasonInvalidTransition, guard.Reason)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, "approve from None: invalid status transition", err.Error())

	err = domain.NewGuardError("submit", domain.StatusNone, domain.ErrTableUnset)
	assert.ErrorIs(t, err, domain.ErrTableUnset)
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC)
	orders := []domain.Order{
		{ID: "a", CreatedAt: base},
		{ID: "b", CreatedAt: base.Add(2 * time.Minute)},
		{ID: "c", CreatedAt: base.Add(time.Minute)},
	}

	domain.SortNewestFirst(orders)

	assert.Equal(t, "b", orders[0].ID)
	assert.Equal(t, "c", orders[1].ID)
	assert.Equal(t, "a", orders[2].ID)
}

func TestUser_GrantsAdmin(t *testing.T) {
	tests := []struct {
		name        string
		user        domain.User
		signInEmail string
		adminEmail  string
		want        bool
	}{
		{name: "admin role", user: domain.User{Role: domain.RoleAdmin}, want: true},
		{name: "configured address", signInEmail: " Admin@Venue.com", adminEmail: "admin@venue.com", want: true},
		{name: "other address", signInEmail: "guest@venue.com", adminEmail: "admin@venue.com"},
		{name: "profile email ignored", user: domain.User{Email: "admin@venue.com"}, signInEmail: "guest@venue.com", adminEmail: "admin@venue.com"},
		{name: "nothing configured", signInEmail: "", adminEmail: ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, testCase.user.GrantsAdmin(testCase.signInEmail, testCase.adminEmail))
		})
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "515.00", domain.FormatPrice(decimal.RequireFromString("515")))
	assert.Equal(t, "0.10", domain.FormatPrice(decimal.RequireFromString("0.1")))
}

func TestStatus_Description(t *testing.T) {
	assert.Empty(t, domain.StatusNone.Description())
	for _, s := range []domain.Status{domain.StatusPending, domain.StatusPreparing, domain.StatusReady, domain.StatusCompleted} {
		assert.NotEmpty(t, s.Description(), string(s))
	}
	assert.Equal(t, "Your order was received and is awaiting approval.", domain.StatusPending.Description())
}
