package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine binds one menu item to a quantity and portion size.
type OrderLine struct {
	ID       string      `json:"id"`
	MenuItem MenuItem    `json:"menu_item"`
	Quantity int         `json:"quantity"`
	Portion  PortionSize `json:"portion"`
}

// Multiplier is the portion factor actually charged. Portions only apply to foods.
func (l OrderLine) Multiplier() decimal.Decimal {
	if !l.MenuItem.Category.HasPortionOption() {
		return PortionNormal.Multiplier()
	}
	return l.Portion.Multiplier()
}

func (l OrderLine) LineTotal() decimal.Decimal {
	return l.MenuItem.Price.
		Mul(decimal.NewFromInt(int64(l.Quantity))).
		Mul(l.Multiplier())
}

// Order is the snapshot taken when a cart is submitted. Only Status changes afterwards.
type Order struct {
	ID        string          `json:"id"`
	Lines     []OrderLine     `json:"lines"`
	Table     Table           `json:"table"`
	Total     decimal.Decimal `json:"total"`
	Notes     string          `json:"notes"`
	CreatedAt time.Time       `json:"created_at"`
	Status    Status          `json:"status"`
}

func (o Order) ItemCount() int {
	n := 0
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}

// WithStatus returns a copy carrying the new status.
func (o Order) WithStatus(s Status) Order {
	c := o
	c.Lines = append([]OrderLine(nil), o.Lines...)
	c.Status = s
	return c
}

// SortNewestFirst orders by creation time, most recent first, ties broken by id.
func SortNewestFirst(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
