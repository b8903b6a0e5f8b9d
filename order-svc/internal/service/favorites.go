package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"table-ordering/order-svc/internal/domain"
)

// Favorites is an ordered set of menu item ids persisted to the local cache
// after every change.
type Favorites struct {
	mu     sync.Mutex
	cache  LocalCache
	logger *slog.Logger
	ids    []string
}

func NewFavorites(cache LocalCache, logger *slog.Logger) *Favorites {
	return &Favorites{cache: cache, logger: logger}
}

// Load reads the stored ids, dropping any that are not in the catalog.
func (f *Favorites) Load(ctx context.Context, catalog *Catalog) error {
	raw, err := f.cache.Get(ctx, KeyFavorites)
	if errors.Is(err, domain.ErrCacheMiss) {
		return nil
	}
	if err != nil {
		return err
	}

	var stored []string
	if err := json.Unmarshal(raw, &stored); err != nil {
		f.logger.Warn("discarding unreadable favorites", slog.Any("error", err))
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = f.ids[:0]
	for _, id := range stored {
		if _, ok := catalog.Item(id); ok && !contains(f.ids, id) {
			f.ids = append(f.ids, id)
		}
	}
	return nil
}

// Toggle adds or removes the item and reports whether it is now a favorite.
func (f *Favorites) Toggle(ctx context.Context, itemID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	added := true
	if i := indexOf(f.ids, itemID); i >= 0 {
		f.ids = append(f.ids[:i], f.ids[i+1:]...)
		added = false
	} else {
		f.ids = append(f.ids, itemID)
	}

	raw, err := json.Marshal(f.ids)
	if err == nil {
		err = f.cache.Set(ctx, KeyFavorites, raw)
	}
	if err != nil {
		f.logger.Warn("persist favorites", slog.Any("error", err))
	}
	return added
}

func (f *Favorites) Contains(itemID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return contains(f.ids, itemID)
}

func (f *Favorites) IDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ids...)
}

// Items resolves the favorites against the catalog, in the order they were added.
func (f *Favorites) Items(catalog *Catalog) []domain.MenuItem {
	var items []domain.MenuItem
	for _, id := range f.IDs() {
		if item, ok := catalog.Item(id); ok {
			items = append(items, item)
		}
	}
	return items
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func contains(ids []string, id string) bool {
	return indexOf(ids, id) >= 0
}
