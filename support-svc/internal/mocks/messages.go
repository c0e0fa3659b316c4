package mocks

import (
	"context"

	"qr-menu/auth"
	"qr-menu/support-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MessageStore struct {
	mock.Mock
}

func (_m *MessageStore) Insert(ctx context.Context, msg *domain.Message) error {
	return _m.Called(ctx, msg).Error(0)
}

func (_m *MessageStore) List(ctx context.Context, threadID string) ([]domain.Message, error) {
	ret := _m.Called(ctx, threadID)
	var r0 []domain.Message
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Message)
	}
	return r0, ret.Error(1)
}

func (_m *MessageStore) Threads(ctx context.Context, readerRole auth.Role) ([]domain.ThreadSummary, error) {
	ret := _m.Called(ctx, readerRole)
	var r0 []domain.ThreadSummary
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.ThreadSummary)
	}
	return r0, ret.Error(1)
}

func (_m *MessageStore) MarkRead(ctx context.Context, threadID string, readerRole auth.Role) (int, error) {
	ret := _m.Called(ctx, threadID, readerRole)
	return ret.Int(0), ret.Error(1)
}

func (_m *MessageStore) UnreadCount(ctx context.Context, threadID string, readerRole auth.Role) (int, error) {
	ret := _m.Called(ctx, threadID, readerRole)
	return ret.Int(0), ret.Error(1)
}

func NewMessageStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MessageStore {
	m := &MessageStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type MessageBus struct {
	mock.Mock
}

func (_m *MessageBus) Publish(ctx context.Context, msg domain.Message) error {
	return _m.Called(ctx, msg).Error(0)
}

func (_m *MessageBus) Subscribe(ctx context.Context, threadID string) (<-chan domain.Message, func() error, error) {
	ret := _m.Called(ctx, threadID)
	var r0 <-chan domain.Message
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(<-chan domain.Message)
	}
	var r1 func() error
	if ret.Get(1) != nil {
		r1 = ret.Get(1).(func() error)
	}
	return r0, r1, ret.Error(2)
}

func NewMessageBus(t interface {
	mock.TestingT
	Cleanup(func())
}) *MessageBus {
	m := &MessageBus{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
