package mocks

import (
	"context"

	"qr-menu/menu-svc/internal/domain"
	"qr-menu/menu-svc/internal/menu"

	"github.com/stretchr/testify/mock"
)

type RestaurantStore struct {
	mock.Mock
}

func (_m *RestaurantStore) Get(ctx context.Context, id string) (*domain.Restaurant, error) {
	ret := _m.Called(ctx, id)
	var r0 *domain.Restaurant
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Restaurant)
	}
	return r0, ret.Error(1)
}

func (_m *RestaurantStore) Create(ctx context.Context, rest *domain.Restaurant) error {
	return _m.Called(ctx, rest).Error(0)
}

func (_m *RestaurantStore) Update(ctx context.Context, id string, fields map[string]any) error {
	return _m.Called(ctx, id, fields).Error(0)
}

func (_m *RestaurantStore) Query(ctx context.Context, filter domain.RestaurantFilter) ([]domain.Restaurant, error) {
	ret := _m.Called(ctx, filter)
	var r0 []domain.Restaurant
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Restaurant)
	}
	return r0, ret.Error(1)
}

func (_m *RestaurantStore) Delete(ctx context.Context, id string) error {
	return _m.Called(ctx, id).Error(0)
}

func NewRestaurantStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *RestaurantStore {
	m := &RestaurantStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type PublicMenuCache struct {
	mock.Mock
}

func (_m *PublicMenuCache) GetPublicMenu(ctx context.Context, restaurantID string) (*menu.PublicMenu, bool, error) {
	ret := _m.Called(ctx, restaurantID)
	var r0 *menu.PublicMenu
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*menu.PublicMenu)
	}
	return r0, ret.Bool(1), ret.Error(2)
}

func (_m *PublicMenuCache) SetPublicMenu(ctx context.Context, restaurantID string, pm *menu.PublicMenu) error {
	return _m.Called(ctx, restaurantID, pm).Error(0)
}

func (_m *PublicMenuCache) Invalidate(ctx context.Context, restaurantID string) error {
	return _m.Called(ctx, restaurantID).Error(0)
}

func NewPublicMenuCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *PublicMenuCache {
	m := &PublicMenuCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type ScanPublisher struct {
	mock.Mock
}

func (_m *ScanPublisher) PublishScan(ctx context.Context, event domain.ScanEvent) error {
	return _m.Called(ctx, event).Error(0)
}

func NewScanPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *ScanPublisher {
	m := &ScanPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type QRGenerator struct {
	mock.Mock
}

func (_m *QRGenerator) Generate(restaurantID string) ([]byte, error) {
	ret := _m.Called(restaurantID)
	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Error(1)
}

func (_m *QRGenerator) MenuURL(restaurantID string) string {
	return _m.Called(restaurantID).String(0)
}
