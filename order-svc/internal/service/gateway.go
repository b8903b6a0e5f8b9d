package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"table-ordering/order-svc/internal/domain"
)

// WritePath reports where a write landed.
type WritePath string

const (
	WriteRemote WritePath = "remote"
	WriteLocal  WritePath = "local"
	// WriteNone means neither store accepted the write; the order lives in
	// the session only.
	WriteNone WritePath = "none"
)

// ReadSource reports where a list of orders came from.
type ReadSource string

const (
	ReadRemote ReadSource = "remote"
	ReadLocal  ReadSource = "local"
	ReadEmpty  ReadSource = "empty"
)

// Gateway writes to the remote store first and falls back to the local cache.
// Orders saved while the remote is down are kept in a pending buffer and
// replayed on the next successful fetch; once reachable, the remote wins.
type Gateway struct {
	remote    RemoteStore
	local     LocalCache
	publisher ChangePublisher
	feed      ChangeFeed
	logger    *slog.Logger
	now       func() time.Time

	// serializes read-modify-write of the local mirror and pending buffer
	mu sync.Mutex
}

func NewGateway(remote RemoteStore, local LocalCache, logger *slog.Logger) *Gateway {
	return &Gateway{
		remote: remote,
		local:  local,
		logger: logger,
		now:    time.Now,
	}
}

// WithChangeFeed enables publishing of order events and ListenOrders.
func (g *Gateway) WithChangeFeed(publisher ChangePublisher, feed ChangeFeed) *Gateway {
	g.publisher = publisher
	g.feed = feed
	return g
}

func (g *Gateway) SaveOrder(ctx context.Context, order domain.Order) (WritePath, error) {
	remoteErr := g.remote.SaveOrder(ctx, order)
	if remoteErr == nil {
		g.publish(ctx, domain.OrderEventSaved, order)
		return WriteRemote, nil
	}
	g.logger.Warn("remote save failed, writing locally",
		slog.String("order_id", order.ID),
		slog.Any("error", remoteErr))

	g.mu.Lock()
	defer g.mu.Unlock()

	localErr := g.upsertLocal(ctx, KeyOrderHistory, order)
	if localErr == nil {
		localErr = g.upsertLocal(ctx, KeyPendingOrders, order)
	}
	if localErr != nil {
		return "", fmt.Errorf("save order %s: %w", order.ID, errors.Join(remoteErr, localErr))
	}
	return WriteLocal, nil
}

// FetchOrders never fails: it degrades to the local mirror, then to an empty list.
func (g *Gateway) FetchOrders(ctx context.Context) ([]domain.Order, ReadSource) {
	orders, err := g.remote.ListOrders(ctx)
	if err != nil {
		g.logger.Warn("remote fetch failed, reading local mirror", slog.Any("error", err))
		return g.localOrders(ctx)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	remaining, replayed := g.replayPending(ctx)
	if replayed > 0 {
		if refreshed, err := g.remote.ListOrders(ctx); err == nil {
			orders = refreshed
		}
	}
	orders = overlay(orders, remaining)
	if orders == nil {
		orders = []domain.Order{}
	}
	domain.SortNewestFirst(orders)

	if err := g.writeList(ctx, KeyOrderHistory, orders); err != nil {
		g.logger.Warn("update local mirror", slog.Any("error", err))
	}
	return orders, ReadRemote
}

// UpdateOrderStatus persists order.Status for order.ID. When the remote is
// down the whole order is buffered like a failed save, so the next
// successful fetch replays the new status.
func (g *Gateway) UpdateOrderStatus(ctx context.Context, order domain.Order) (WritePath, error) {
	remoteErr := g.remote.UpdateOrderStatus(ctx, order.ID, order.Status)
	if remoteErr == nil {
		g.publish(ctx, domain.OrderEventStatusUpdated, order)
		return WriteRemote, nil
	}
	g.logger.Warn("remote status update failed, buffering locally",
		slog.String("order_id", order.ID),
		slog.String("status", string(order.Status)),
		slog.Any("error", remoteErr))

	g.mu.Lock()
	defer g.mu.Unlock()

	localErr := g.upsertLocal(ctx, KeyOrderHistory, order)
	if localErr == nil {
		localErr = g.upsertLocal(ctx, KeyPendingOrders, order)
	}
	if localErr != nil {
		return "", fmt.Errorf("update order %s: %w", order.ID, errors.Join(remoteErr, localErr))
	}
	return WriteLocal, nil
}

func (g *Gateway) SaveUser(ctx context.Context, user domain.User) error {
	return g.remote.SaveUser(ctx, user)
}

// FetchUser returns nil without error when the user has no stored profile.
func (g *Gateway) FetchUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := g.remote.GetUser(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return user, err
}

func (g *Gateway) ListMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	return g.remote.ListMenuItems(ctx)
}

func (g *Gateway) SaveMenuItem(ctx context.Context, item domain.MenuItem) error {
	return g.remote.SaveMenuItem(ctx, item)
}

// ListenOrders pushes the current list, then a fresh list after every change
// event, until ctx is cancelled.
func (g *Gateway) ListenOrders(ctx context.Context, push func([]domain.Order)) error {
	orders, _ := g.FetchOrders(ctx)
	push(orders)

	if g.feed == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	return g.feed.Listen(ctx, func(event domain.OrderEvent) {
		g.logger.Debug("order change",
			slog.String("type", event.Type),
			slog.String("order_id", event.OrderID))
		orders, _ := g.FetchOrders(ctx)
		if ctx.Err() == nil {
			push(orders)
		}
	})
}

func (g *Gateway) publish(ctx context.Context, eventType string, order domain.Order) {
	if g.publisher == nil {
		return
	}
	event := domain.OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		TableNumber: order.Table.Number,
		Status:      order.Status,
		Timestamp:   g.now().UTC(),
	}
	if err := g.publisher.Publish(ctx, event); err != nil {
		g.logger.Warn("publish order event", slog.Any("error", err))
	}
}

// replayPending pushes buffered orders to the remote and returns those that still failed.
func (g *Gateway) replayPending(ctx context.Context) ([]domain.Order, int) {
	pending, err := g.readList(ctx, KeyPendingOrders)
	if err != nil || len(pending) == 0 {
		return nil, 0
	}

	var remaining []domain.Order
	replayed := 0
	for _, order := range pending {
		if err := g.remote.SaveOrder(ctx, order); err != nil {
			g.logger.Warn("replay pending order", slog.String("order_id", order.ID), slog.Any("error", err))
			remaining = append(remaining, order)
			continue
		}
		g.publish(ctx, domain.OrderEventSaved, order)
		replayed++
	}

	if len(remaining) == 0 {
		err = g.local.Delete(ctx, KeyPendingOrders)
	} else {
		err = g.writeList(ctx, KeyPendingOrders, remaining)
	}
	if err != nil {
		g.logger.Warn("update pending buffer", slog.Any("error", err))
	}
	if replayed > 0 {
		g.logger.Info("replayed pending orders", slog.Int("count", replayed))
	}
	return remaining, replayed
}

func (g *Gateway) localOrders(ctx context.Context) ([]domain.Order, ReadSource) {
	orders, err := g.readList(ctx, KeyOrderHistory)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			g.logger.Warn("read local mirror", slog.Any("error", err))
		}
		return []domain.Order{}, ReadEmpty
	}
	domain.SortNewestFirst(orders)
	return orders, ReadLocal
}

func (g *Gateway) upsertLocal(ctx context.Context, key string, order domain.Order) error {
	orders, err := g.readList(ctx, key)
	if err != nil && !errors.Is(err, domain.ErrCacheMiss) {
		return err
	}
	for i := range orders {
		if orders[i].ID == order.ID {
			orders[i] = order
			return g.writeList(ctx, key, orders)
		}
	}
	return g.writeList(ctx, key, append([]domain.Order{order}, orders...))
}

func (g *Gateway) readList(ctx context.Context, key string) ([]domain.Order, error) {
	raw, err := g.local.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var orders []domain.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return orders, nil
}

func (g *Gateway) writeList(ctx context.Context, key string, orders []domain.Order) error {
	raw, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return g.local.Set(ctx, key, raw)
}

// overlay replaces orders with the buffered copy of the same id and appends
// buffered orders the remote does not have yet.
func overlay(orders, buffered []domain.Order) []domain.Order {
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		index[o.ID] = i
	}
	for _, o := range buffered {
		if i, ok := index[o.ID]; ok {
			orders[i] = o
			continue
		}
		orders = append(orders, o)
	}
	return orders
}
