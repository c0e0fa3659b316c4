package mocks

import (
	"context"
	"time"

	"qr-menu/auth"
	"qr-menu/identity-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type UserRepository struct {
	mock.Mock
}

func (_m *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return _m.Called(ctx, user).Error(0)
}

func (_m *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ret := _m.Called(ctx, email)
	var r0 *domain.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.User)
	}
	return r0, ret.Error(1)
}

func (_m *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ret := _m.Called(ctx, id)
	var r0 *domain.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.User)
	}
	return r0, ret.Error(1)
}

func (_m *UserRepository) RoleOf(ctx context.Context, userID string) (auth.Role, error) {
	ret := _m.Called(ctx, userID)
	return ret.Get(0).(auth.Role), ret.Error(1)
}

func (_m *UserRepository) SetRole(ctx context.Context, userID string, role auth.Role) error {
	return _m.Called(ctx, userID, role).Error(0)
}

func (_m *UserRepository) ListAssignments(ctx context.Context) ([]domain.RoleAssignment, error) {
	ret := _m.Called(ctx)
	var r0 []domain.RoleAssignment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.RoleAssignment)
	}
	return r0, ret.Error(1)
}

func NewUserRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserRepository {
	m := &UserRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type TokenRevoker struct {
	mock.Mock
}

func (_m *TokenRevoker) Revoke(ctx context.Context, tokenID string, expires time.Time) error {
	return _m.Called(ctx, tokenID, expires).Error(0)
}

func NewTokenRevoker(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenRevoker {
	m := &TokenRevoker{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
