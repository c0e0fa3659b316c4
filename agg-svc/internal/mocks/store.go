package mocks

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

type StoreInterface struct {
	mock.Mock
}

func (_m *StoreInterface) IncrementDaily(ctx context.Context, restaurantID, date string) (int64, error) {
	ret := _m.Called(ctx, restaurantID, date)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *StoreInterface) RecordScan(ctx context.Context, restaurantID, date string, fromQR bool) error {
	return _m.Called(ctx, restaurantID, date, fromQR).Error(0)
}

func (_m *StoreInterface) RestaurantIDs(ctx context.Context) ([]string, error) {
	ret := _m.Called(ctx)
	var r0 []string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]string)
	}
	return r0, ret.Error(1)
}

func (_m *StoreInterface) TrimDailyScans(ctx context.Context, restaurantID string, today time.Time) (bool, error) {
	ret := _m.Called(ctx, restaurantID, today)
	return ret.Bool(0), ret.Error(1)
}

func NewStoreInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *StoreInterface {
	m := &StoreInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type MessageReader struct {
	mock.Mock
}

func (_m *MessageReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(kafka.Message), ret.Error(1)
}

func NewMessageReader(t interface {
	mock.TestingT
	Cleanup(func())
}) *MessageReader {
	m := &MessageReader{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
