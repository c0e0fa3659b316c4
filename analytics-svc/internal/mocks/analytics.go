package mocks

import (
	"context"

	"qr-menu/analytics-svc/internal/domain"
	"qr-menu/auth"

	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type AnalyticsInterface struct {
	mock.Mock
}

func (_m *AnalyticsInterface) ScanSeries(ctx context.Context, caller *auth.Identity, restaurantID string, days int) ([]domain.ScanPoint, error) {
	ret := _m.Called(ctx, caller, restaurantID, days)
	var r0 []domain.ScanPoint
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.ScanPoint)
	}
	return r0, ret.Error(1)
}

func (_m *AnalyticsInterface) Summary(ctx context.Context, caller *auth.Identity, restaurantID string) (*domain.Summary, error) {
	ret := _m.Called(ctx, caller, restaurantID)
	var r0 *domain.Summary
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Summary)
	}
	return r0, ret.Error(1)
}

func (_m *AnalyticsInterface) TopScanned(ctx context.Context, limit int) ([]domain.TopRestaurant, error) {
	ret := _m.Called(ctx, limit)
	var r0 []domain.TopRestaurant
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.TopRestaurant)
	}
	return r0, ret.Error(1)
}

func NewAnalyticsInterface(t testingT) *AnalyticsInterface {
	m := &AnalyticsInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type StatsStore struct {
	mock.Mock
}

func (_m *StatsStore) Stats(ctx context.Context, restaurantID string) (*domain.RestaurantStats, error) {
	ret := _m.Called(ctx, restaurantID)
	var r0 *domain.RestaurantStats
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.RestaurantStats)
	}
	return r0, ret.Error(1)
}

func (_m *StatsStore) TopScanned(ctx context.Context, limit int) ([]domain.TopRestaurant, error) {
	ret := _m.Called(ctx, limit)
	var r0 []domain.TopRestaurant
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.TopRestaurant)
	}
	return r0, ret.Error(1)
}

func NewStatsStore(t testingT) *StatsStore {
	m := &StatsStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type CounterStore struct {
	mock.Mock
}

func (_m *CounterStore) DailyCounts(ctx context.Context, restaurantID string, dates []string) (map[string]int, error) {
	ret := _m.Called(ctx, restaurantID, dates)
	var r0 map[string]int
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(map[string]int)
	}
	return r0, ret.Error(1)
}

func NewCounterStore(t testingT) *CounterStore {
	m := &CounterStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
