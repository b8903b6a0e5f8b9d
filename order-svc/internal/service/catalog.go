package service

import (
	"context"
	"fmt"
	"log/slog"

	"table-ordering/order-svc/internal/domain"
)

// Catalog is the read-only menu for a session, in display order.
type Catalog struct {
	items []domain.MenuItem
	byID  map[string]int
}

func NewCatalog(items []domain.MenuItem) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]int, len(items))}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[item.ID]; dup {
			return nil, fmt.Errorf("menu item %s listed twice: %w", item.ID, domain.ErrInvalidMenuItem)
		}
		c.byID[item.ID] = len(c.items)
		c.items = append(c.items, item)
	}
	return c, nil
}

// LoadCatalog prefers the remote menu. When it is unreachable or empty the
// seed is used, and written back if the remote answered.
func LoadCatalog(ctx context.Context, store MenuStore, seed []domain.MenuItem, logger *slog.Logger) (*Catalog, error) {
	items, err := store.ListMenuItems(ctx)
	switch {
	case err != nil:
		logger.Warn("remote menu unavailable, using seed", slog.Any("error", err))
		return NewCatalog(seed)
	case len(items) > 0:
		return NewCatalog(items)
	}

	catalog, err := NewCatalog(seed)
	if err != nil {
		return nil, err
	}
	for _, item := range catalog.items {
		if err := store.SaveMenuItem(ctx, item); err != nil {
			logger.Warn("seed menu item", slog.String("id", item.ID), slog.Any("error", err))
			return catalog, nil
		}
	}
	logger.Info("seeded remote menu", slog.Int("items", len(catalog.items)))
	return catalog, nil
}

func (c *Catalog) Items() []domain.MenuItem {
	return append([]domain.MenuItem(nil), c.items...)
}

func (c *Catalog) Item(id string) (domain.MenuItem, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.MenuItem{}, false
	}
	return c.items[i], true
}

func (c *Catalog) ByCategory(category domain.Category) []domain.MenuItem {
	var out []domain.MenuItem
	for _, item := range c.items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}
