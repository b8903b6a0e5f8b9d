package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"table-ordering/order-svc/internal/domain"

	"github.com/shopspring/decimal"
)

const eventBuffer = 16

// Lifecycle operation names used in guard errors.
const (
	OpSubmit   = "submit"
	OpApprove  = "approve"
	OpComplete = "complete"
	OpFinalize = "finalize"
)

type SessionConfig struct {
	Gateway   OrderGateway
	Tables    *domain.TableSet
	Catalog   *Catalog
	Favorites *Favorites
	Notifier  Notifier
	Logger    *slog.Logger
	Now       func() time.Time
}

// CartView is a read-only copy of the cart.
type CartView struct {
	Lines     []domain.OrderLine `json:"lines"`
	Table     *domain.Table      `json:"table,omitempty"`
	Notes     string             `json:"notes"`
	Total     decimal.Decimal    `json:"total"`
	ItemCount int                `json:"item_count"`
}

// Session owns the cart, the active order and the in-session history for one
// device. All state changes are serialized by mu; remote I/O runs outside it.
type Session struct {
	mu      sync.Mutex
	cart    *domain.Cart
	status  domain.Status
	active  *domain.Order
	history []domain.Order
	refresh uint64

	gateway   OrderGateway
	tables    *domain.TableSet
	catalog   *Catalog
	favorites *Favorites
	notifier  Notifier
	logger    *slog.Logger
	now       func() time.Time

	subMu   sync.Mutex
	subs    map[int]chan domain.Event
	nextSub int
}

func NewSession(cfg SessionConfig) *Session {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Session{
		cart:      domain.NewCart(),
		status:    domain.StatusNone,
		gateway:   cfg.Gateway,
		tables:    cfg.Tables,
		catalog:   cfg.Catalog,
		favorites: cfg.Favorites,
		notifier:  cfg.Notifier,
		logger:    cfg.Logger,
		now:       now,
		subs:      make(map[int]chan domain.Event),
	}
}

// Subscribe returns a channel of session events and a func that ends the
// subscription. Events are dropped for subscribers that fall behind.
func (s *Session) Subscribe() (<-chan domain.Event, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan domain.Event, eventBuffer)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

// --- cart

func (s *Session) AddItem(menuItemID string) (domain.OrderLine, error) {
	item, ok := s.catalog.Item(menuItemID)
	if !ok {
		return domain.OrderLine{}, fmt.Errorf("menu item %s: %w", menuItemID, domain.ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	line := s.cart.Add(item)
	s.emit(domain.EventCartChanged, "")
	return line, nil
}

// RemoveItem decrements a line and reports whether it was deleted.
func (s *Session) RemoveItem(lineID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted, err := s.cart.Remove(lineID)
	if err != nil {
		return false, err
	}
	s.emit(domain.EventCartChanged, "")
	return deleted, nil
}

func (s *Session) DeleteItem(lineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cart.Delete(lineID); err != nil {
		return err
	}
	s.emit(domain.EventCartChanged, "")
	return nil
}

func (s *Session) SetPortion(lineID string, size domain.PortionSize) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cart.SetPortion(lineID, size); err != nil {
		return err
	}
	s.emit(domain.EventCartChanged, "")
	return nil
}

func (s *Session) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
	s.emit(domain.EventCartChanged, "")
}

// SetTable assigns a table picked by number.
func (s *Session) SetTable(number int) (domain.Table, error) {
	table, ok := s.tables.Lookup(number)
	if !ok {
		return domain.Table{}, fmt.Errorf("table %d: %w", number, domain.ErrUnknownTable)
	}
	s.assignTable(table)
	return table, nil
}

// ScanTable assigns the table encoded in a scanned code. On failure the
// current table is kept.
func (s *Session) ScanTable(code string) (domain.Table, error) {
	table, err := s.tables.Resolve(code)
	if err != nil {
		return domain.Table{}, err
	}
	s.assignTable(table)
	return table, nil
}

func (s *Session) assignTable(table domain.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.SetTable(table)
	s.emit(domain.EventTableChanged, "")
}

func (s *Session) SetNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.SetNotes(notes)
	s.emit(domain.EventCartChanged, "")
}

func (s *Session) CartView() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := CartView{
		Lines:     s.cart.Lines(),
		Notes:     s.cart.Notes(),
		Total:     s.cart.Total(),
		ItemCount: s.cart.ItemCount(),
	}
	if table, ok := s.cart.Table(); ok {
		view.Table = &table
	}
	return view
}

// --- lifecycle

func (s *Session) Status() domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) ActiveOrder() (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return domain.Order{}, false
	}
	return s.active.WithStatus(s.active.Status), true
}

// History returns the session's orders, newest first.
func (s *Session) History() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Order{}, s.history...)
}

// Submit snapshots the cart into a Pending order and persists it. Only guard
// failures are returned as errors: when persistence fails on both paths the
// order stays in the session and the path is WriteNone. The cart lines are
// kept; notes are cleared.
func (s *Session) Submit(ctx context.Context) (domain.Order, WritePath, error) {
	s.mu.Lock()
	if s.status.Active() {
		status := s.status
		s.mu.Unlock()
		return domain.Order{}, "", domain.NewGuardError(OpSubmit, status, domain.ErrOrderInProgress)
	}
	if err := s.status.CheckTransition(domain.StatusPending, domain.ActorCustomer); err != nil {
		status := s.status
		s.mu.Unlock()
		return domain.Order{}, "", domain.NewGuardError(OpSubmit, status, err)
	}
	order, err := s.cart.Snapshot(s.now().UTC())
	if err != nil {
		status := s.status
		s.mu.Unlock()
		return domain.Order{}, "", domain.NewGuardError(OpSubmit, status, err)
	}

	s.status = domain.StatusPending
	s.active = &order
	s.history = append([]domain.Order{order}, s.history...)
	s.cart.SetNotes("")
	s.emit(domain.EventOrderSubmitted, order.ID)
	s.emit(domain.EventHistoryChanged, order.ID)
	s.mu.Unlock()

	path, err := s.gateway.SaveOrder(ctx, order)
	if err != nil {
		s.logger.Error("order not persisted", slog.String("order_id", order.ID), slog.Any("error", err))
		path = WriteNone
	} else {
		s.logger.Info("order submitted",
			slog.String("order_id", order.ID),
			slog.Int("table", order.Table.Number),
			slog.String("path", string(path)))
	}

	s.notify("Order Status Updated",
		fmt.Sprintf("Order #%d - Your order was received and is awaiting approval.", order.Table.Number))
	return order, path, nil
}

// Approve moves the active order from Pending to Preparing. Admin only.
func (s *Session) Approve(ctx context.Context, actor domain.Actor) (domain.Order, error) {
	order, err := s.advance(ctx, OpApprove, domain.StatusPreparing, actor)
	if err != nil {
		return order, err
	}
	s.notify("Order Status Updated",
		fmt.Sprintf("Order #%d - Your order was approved and is being prepared!", order.Table.Number))
	return order, nil
}

// Complete moves the active order from Preparing to Ready. Admin only.
func (s *Session) Complete(ctx context.Context, actor domain.Actor) (domain.Order, error) {
	order, err := s.advance(ctx, OpComplete, domain.StatusReady, actor)
	if err != nil {
		return order, err
	}
	s.notify("Your Order Is Ready!",
		fmt.Sprintf("Table %d - Your order is ready and waiting.", order.Table.Number))
	return order, nil
}

// Finalize closes a Ready order. After it a new order may be submitted.
func (s *Session) Finalize(ctx context.Context, actor domain.Actor) (domain.Order, error) {
	return s.advance(ctx, OpFinalize, domain.StatusCompleted, actor)
}

func (s *Session) advance(ctx context.Context, op string, next domain.Status, actor domain.Actor) (domain.Order, error) {
	s.mu.Lock()
	current := s.status
	if err := current.CheckTransition(next, actor); err != nil || s.active == nil {
		s.mu.Unlock()
		if err == nil {
			err = domain.ErrInvalidTransition
		}
		return domain.Order{}, domain.NewGuardError(op, current, err)
	}

	order := s.active.WithStatus(next)
	s.active = &order
	s.status = next
	s.replaceInHistory(order)
	s.emit(domain.EventStatusChanged, order.ID)
	s.mu.Unlock()

	if _, err := s.gateway.UpdateOrderStatus(ctx, order); err != nil {
		s.logger.Error("status not persisted",
			slog.String("order_id", order.ID),
			slog.String("status", string(next)),
			slog.Any("error", err))
	}
	return order, nil
}

// RefreshHistory reloads orders through the gateway. A result that arrives
// after ctx is cancelled or after a newer refresh started is discarded.
func (s *Session) RefreshHistory(ctx context.Context) (ReadSource, error) {
	s.mu.Lock()
	s.refresh++
	gen := s.refresh
	s.mu.Unlock()

	orders, source := s.gateway.FetchOrders(ctx)
	if err := ctx.Err(); err != nil {
		return source, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.refresh {
		return source, domain.ErrAbandoned
	}
	s.applyOrders(orders)
	return source, nil
}

// WatchOrders applies every list pushed by the gateway until ctx is cancelled.
func (s *Session) WatchOrders(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		err := s.gateway.ListenOrders(ctx, func(orders []domain.Order) {
			s.mu.Lock()
			defer s.mu.Unlock()
			if ctx.Err() == nil {
				s.refresh++
				s.applyOrders(orders)
			}
		})
		if err != nil && ctx.Err() == nil {
			s.logger.Error("order feed stopped", slog.Any("error", err))
		}
		done <- err
	}()
	return done
}

// applyOrders merges a fetched list into the history. Orders known only to
// this session are kept. The active order adopts a later remote status but
// never moves backwards. Caller holds mu.
func (s *Session) applyOrders(orders []domain.Order) {
	fetched := make(map[string]struct{}, len(orders))
	merged := make([]domain.Order, 0, len(orders)+len(s.history))
	for _, o := range orders {
		fetched[o.ID] = struct{}{}
		if s.active != nil && o.ID == s.active.ID && o.Status.Before(s.active.Status) {
			o = o.WithStatus(s.active.Status)
		}
		merged = append(merged, o)
	}
	for _, o := range s.history {
		if _, ok := fetched[o.ID]; !ok {
			merged = append(merged, o)
		}
	}
	domain.SortNewestFirst(merged)
	s.history = merged
	s.emit(domain.EventHistoryChanged, "")

	if s.active == nil {
		return
	}
	for _, o := range merged {
		if o.ID == s.active.ID && s.active.Status.Before(o.Status) {
			updated := s.active.WithStatus(o.Status)
			s.active = &updated
			s.status = o.Status
			s.emit(domain.EventStatusChanged, o.ID)
			break
		}
	}
}

func (s *Session) replaceInHistory(order domain.Order) {
	for i := range s.history {
		if s.history[i].ID == order.ID {
			s.history[i] = order
			s.emit(domain.EventHistoryChanged, order.ID)
			return
		}
	}
}

// --- favorites

// ToggleFavorite reports whether the item is a favorite after the toggle.
func (s *Session) ToggleFavorite(ctx context.Context, menuItemID string) (bool, error) {
	if _, ok := s.catalog.Item(menuItemID); !ok {
		return false, fmt.Errorf("menu item %s: %w", menuItemID, domain.ErrNotFound)
	}
	added := s.favorites.Toggle(ctx, menuItemID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.emit(domain.EventFavoritesChanged, "")
	return added, nil
}

func (s *Session) Favorites() []domain.MenuItem {
	return s.favorites.Items(s.catalog)
}

func (s *Session) IsFavorite(menuItemID string) bool {
	return s.favorites.Contains(menuItemID)
}

// emit publishes to subscribers without blocking. Caller holds mu.
func (s *Session) emit(kind domain.EventKind, orderID string) {
	event := domain.Event{
		Kind:    kind,
		Status:  s.status,
		OrderID: orderID,
		At:      s.now().UTC(),
	}
	if table, ok := s.cart.Table(); ok {
		event.Table = &table
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

func (s *Session) notify(title, body string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(domain.Notification{Title: title, Body: body, Timestamp: s.now().UTC()})
}
