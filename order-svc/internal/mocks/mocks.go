package mocks

import (
	"context"

	"table-ordering/order-svc/internal/domain"
	"table-ordering/order-svc/internal/service"

	"github.com/stretchr/testify/mock"
)

// RemoteStore is a mock type for the service.RemoteStore type.
type RemoteStore struct {
	mock.Mock
}

func (_m *RemoteStore) SaveOrder(ctx context.Context, order domain.Order) error {
	ret := _m.Called(ctx, order)
	return ret.Error(0)
}

func (_m *RemoteStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	ret := _m.Called(ctx)
	var r0 []domain.Order
	if rf, ok := ret.Get(0).(func(context.Context) []domain.Order); ok {
		r0 = rf(ctx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *RemoteStore) UpdateOrderStatus(ctx context.Context, orderID string, status domain.Status) error {
	ret := _m.Called(ctx, orderID, status)
	return ret.Error(0)
}

func (_m *RemoteStore) SaveUser(ctx context.Context, user domain.User) error {
	ret := _m.Called(ctx, user)
	return ret.Error(0)
}

func (_m *RemoteStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	ret := _m.Called(ctx, id)
	var r0 *domain.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.User)
	}
	return r0, ret.Error(1)
}

func (_m *RemoteStore) ListMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	ret := _m.Called(ctx)
	var r0 []domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *RemoteStore) SaveMenuItem(ctx context.Context, item domain.MenuItem) error {
	ret := _m.Called(ctx, item)
	return ret.Error(0)
}

// NewRemoteStore registers AssertExpectations as a test cleanup.
func NewRemoteStore(t mock.TestingT) *RemoteStore {
	m := &RemoteStore{}
	m.Mock.Test(t)
	if c, ok := t.(interface{ Cleanup(func()) }); ok {
		c.Cleanup(func() { m.AssertExpectations(t) })
	}
	return m
}

// OrderGateway is a mock type for the service.OrderGateway type.
type OrderGateway struct {
	mock.Mock
}

func (_m *OrderGateway) SaveOrder(ctx context.Context, order domain.Order) (service.WritePath, error) {
	ret := _m.Called(ctx, order)
	return ret.Get(0).(service.WritePath), ret.Error(1)
}

func (_m *OrderGateway) FetchOrders(ctx context.Context) ([]domain.Order, service.ReadSource) {
	ret := _m.Called(ctx)
	var r0 []domain.Order
	if rf, ok := ret.Get(0).(func(context.Context) []domain.Order); ok {
		r0 = rf(ctx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Order)
	}
	return r0, ret.Get(1).(service.ReadSource)
}

func (_m *OrderGateway) UpdateOrderStatus(ctx context.Context, order domain.Order) (service.WritePath, error) {
	ret := _m.Called(ctx, order)
	return ret.Get(0).(service.WritePath), ret.Error(1)
}

func (_m *OrderGateway) ListenOrders(ctx context.Context, push func([]domain.Order)) error {
	ret := _m.Called(ctx, push)
	if rf, ok := ret.Get(0).(func(context.Context, func([]domain.Order)) error); ok {
		return rf(ctx, push)
	}
	return ret.Error(0)
}

// Notifier is a mock type for the service.Notifier type.
type Notifier struct {
	mock.Mock
}

func (_m *Notifier) Notify(notification domain.Notification) {
	_m.Called(notification)
}

// Identity is a mock type for the service.Identity type.
type Identity struct {
	mock.Mock
}

func (_m *Identity) SignUp(ctx context.Context, email, password string) (string, error) {
	ret := _m.Called(ctx, email, password)
	return ret.String(0), ret.Error(1)
}

func (_m *Identity) SignIn(ctx context.Context, email, password string) (string, error) {
	ret := _m.Called(ctx, email, password)
	return ret.String(0), ret.Error(1)
}

// UserDirectory is a mock type for the service.UserDirectory type.
type UserDirectory struct {
	mock.Mock
}

func (_m *UserDirectory) SaveUser(ctx context.Context, user domain.User) error {
	ret := _m.Called(ctx, user)
	return ret.Error(0)
}

func (_m *UserDirectory) FetchUser(ctx context.Context, id string) (*domain.User, error) {
	ret := _m.Called(ctx, id)
	var r0 *domain.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.User)
	}
	return r0, ret.Error(1)
}

// ChangePublisher is a mock type for the service.ChangePublisher type.
type ChangePublisher struct {
	mock.Mock
}

func (_m *ChangePublisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	ret := _m.Called(ctx, event)
	return ret.Error(0)
}

// ChangeFeed is a mock type for the service.ChangeFeed type.
type ChangeFeed struct {
	mock.Mock
}

func (_m *ChangeFeed) Listen(ctx context.Context, handle func(domain.OrderEvent)) error {
	ret := _m.Called(ctx, handle)
	if rf, ok := ret.Get(0).(func(context.Context, func(domain.OrderEvent)) error); ok {
		return rf(ctx, handle)
	}
	return ret.Error(0)
}

var (
	_ service.RemoteStore     = (*RemoteStore)(nil)
	_ service.OrderGateway    = (*OrderGateway)(nil)
	_ service.Notifier        = (*Notifier)(nil)
	_ service.Identity        = (*Identity)(nil)
	_ service.UserDirectory   = (*UserDirectory)(nil)
	_ service.ChangePublisher = (*ChangePublisher)(nil)
	_ service.ChangeFeed      = (*ChangeFeed)(nil)
)
