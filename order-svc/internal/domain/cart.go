package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart holds the lines a diner is building before submitting an order.
// There is at most one line per menu item and every line has quantity >= 1.
type Cart struct {
	lines []OrderLine
	table *Table
	notes string
	newID func() string
}

func NewCart() *Cart {
	return &Cart{newID: uuid.NewString}
}

// Add increments the line for item, or appends a new Normal line with quantity 1.
func (c *Cart) Add(item MenuItem) OrderLine {
	if i := c.indexOfItem(item.ID); i >= 0 {
		c.lines[i].Quantity++
		return c.lines[i]
	}
	line := OrderLine{
		ID:       c.newID(),
		MenuItem: item,
		Quantity: 1,
		Portion:  PortionNormal,
	}
	c.lines = append(c.lines, line)
	return line
}

// Remove decrements the line, deleting it when its quantity would reach zero.
// It reports whether the line was deleted.
func (c *Cart) Remove(lineID string) (bool, error) {
	i := c.indexOfLine(lineID)
	if i < 0 {
		return false, ErrLineNotFound
	}
	if c.lines[i].Quantity > 1 {
		c.lines[i].Quantity--
		return false, nil
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return true, nil
}

func (c *Cart) Delete(lineID string) error {
	i := c.indexOfLine(lineID)
	if i < 0 {
		return ErrLineNotFound
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return nil
}

// SetPortion replaces the line's portion. Whether the item's category uses
// portions is left to the caller; LineTotal ignores portions for non-foods.
func (c *Cart) SetPortion(lineID string, size PortionSize) error {
	if !size.Valid() {
		return ErrInvalidPortion
	}
	i := c.indexOfLine(lineID)
	if i < 0 {
		return ErrLineNotFound
	}
	c.lines[i].Portion = size
	return nil
}

// Clear empties the lines; table and notes are kept.
func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) SetTable(t Table) {
	c.table = &t
}

func (c *Cart) Table() (Table, bool) {
	if c.table == nil {
		return Table{}, false
	}
	return *c.table, true
}

func (c *Cart) SetNotes(notes string) {
	c.notes = notes
}

func (c *Cart) Notes() string {
	return c.notes
}

func (c *Cart) Lines() []OrderLine {
	return append([]OrderLine(nil), c.lines...)
}

func (c *Cart) Line(lineID string) (OrderLine, bool) {
	if i := c.indexOfLine(lineID); i >= 0 {
		return c.lines[i], true
	}
	return OrderLine{}, false
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Snapshot copies the cart into a new Pending order.
func (c *Cart) Snapshot(now time.Time) (Order, error) {
	if c.IsEmpty() {
		return Order{}, ErrCartEmpty
	}
	table, ok := c.Table()
	if !ok {
		return Order{}, ErrTableUnset
	}
	return Order{
		ID:        c.newID(),
		Lines:     c.Lines(),
		Table:     table,
		Total:     c.Total(),
		Notes:     c.notes,
		CreatedAt: now,
		Status:    StatusPending,
	}, nil
}

func (c *Cart) indexOfItem(itemID string) int {
	for i, l := range c.lines {
		if l.MenuItem.ID == itemID {
			return i
		}
	}
	return -1
}

func (c *Cart) indexOfLine(lineID string) int {
	for i, l := range c.lines {
		if l.ID == lineID {
			return i
		}
	}
	return -1
}
