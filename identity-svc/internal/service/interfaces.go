package service

import (
	"context"
	"time"

	"qr-menu/auth"
	"qr-menu/identity-svc/internal/domain"
)

type IdentityServiceInterface interface {
	SignUp(ctx context.Context, creds Credentials) (*Session, error)
	SignIn(ctx context.Context, creds Credentials) (*Session, error)
	SignOut(ctx context.Context, id *auth.Identity) error
	Me(ctx context.Context, id *auth.Identity) (*Profile, error)
	AssignRole(ctx context.Context, userID string, role auth.Role) error
	Assignments(ctx context.Context) ([]domain.RoleAssignment, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	RoleOf(ctx context.Context, userID string) (auth.Role, error)
	SetRole(ctx context.Context, userID string, role auth.Role) error
	ListAssignments(ctx context.Context) ([]domain.RoleAssignment, error)
}

type TokenIssuer interface {
	Issue(identityID, email string, role auth.Role) (string, *auth.Identity, error)
}

type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expires time.Time) error
}

var _ IdentityServiceInterface = (*IdentityService)(nil)
