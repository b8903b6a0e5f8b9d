package service

import (
	"context"

	"table-ordering/order-svc/internal/domain"
	"table-ordering/order-svc/internal/storage"
)

// Local cache keys.
const (
	KeyFavorites     = "favoriteItemIds"
	KeyOrderHistory  = "orderHistoryFallback"
	KeyPendingOrders = "orderPendingBuffer"
	KeyLanguage      = "selectedLanguage"
	KeyTheme         = "selectedTheme"
)

type OrderStore interface {
	SaveOrder(ctx context.Context, order domain.Order) error
	ListOrders(ctx context.Context) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.Status) error
}

type UserStore interface {
	SaveUser(ctx context.Context, user domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

type MenuStore interface {
	ListMenuItems(ctx context.Context) ([]domain.MenuItem, error)
	SaveMenuItem(ctx context.Context, item domain.MenuItem) error
}

// RemoteStore is the shared document database.
type RemoteStore interface {
	OrderStore
	UserStore
	MenuStore
}

// LocalCache is device-local storage. Get returns domain.ErrCacheMiss for absent keys.
type LocalCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type ChangePublisher interface {
	Publish(ctx context.Context, event domain.OrderEvent) error
}

type ChangeFeed interface {
	Listen(ctx context.Context, handle func(domain.OrderEvent)) error
}

// Notifier is fire-and-forget; implementations must not block the caller.
type Notifier interface {
	Notify(notification domain.Notification)
}

type Identity interface {
	SignUp(ctx context.Context, email, password string) (string, error)
	SignIn(ctx context.Context, email, password string) (string, error)
}

// OrderGateway is the persistence surface the session depends on.
type OrderGateway interface {
	SaveOrder(ctx context.Context, order domain.Order) (WritePath, error)
	FetchOrders(ctx context.Context) ([]domain.Order, ReadSource)
	UpdateOrderStatus(ctx context.Context, order domain.Order) (WritePath, error)
	ListenOrders(ctx context.Context, push func([]domain.Order)) error
}

type UserDirectory interface {
	SaveUser(ctx context.Context, user domain.User) error
	FetchUser(ctx context.Context, id string) (*domain.User, error)
}

type QRGenerator interface {
	Generate(table domain.Table) ([]byte, error)
}

var (
	_ RemoteStore     = (*storage.PostgresRepository)(nil)
	_ Identity        = (*storage.PostgresIdentity)(nil)
	_ LocalCache      = (*storage.RedisCache)(nil)
	_ ChangePublisher = (*storage.KafkaPublisher)(nil)
	_ ChangeFeed      = (*storage.KafkaFeed)(nil)
	_ Notifier        = (*storage.KafkaNotifier)(nil)
	_ Notifier        = (*storage.LogNotifier)(nil)

	_ OrderGateway  = (*Gateway)(nil)
	_ UserDirectory = (*Gateway)(nil)
	_ MenuStore     = (*Gateway)(nil)
	_ QRGenerator   = TableQRGenerator{}
)
