package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"qr-menu/auth"
	"qr-menu/identity-svc/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("role must be owner or admin")
	ErrUnavailable        = errors.New("the account store is unavailable, please try again")
)

type Credentials struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Session is returned after signing up or in.
type Session struct {
	Token    string         `json:"token"`
	Identity *auth.Identity `json:"user"`
	Landing  string         `json:"redirect"`
}

type Profile struct {
	ID      string    `json:"id"`
	Email   string    `json:"email"`
	Role    auth.Role `json:"role"`
	Landing string    `json:"redirect"`
}

type IdentityService struct {
	users   UserRepository
	tokens  TokenIssuer
	revoker TokenRevoker
	log     *slog.Logger

	// HashCost is the bcrypt cost for new passwords.
	HashCost int
}

func NewIdentityService(users UserRepository, tokens TokenIssuer, revoker TokenRevoker, log *slog.Logger) *IdentityService {
	if log == nil {
		log = slog.Default()
	}
	return &IdentityService{
		users:    users,
		tokens:   tokens,
		revoker:  revoker,
		log:      log,
		HashCost: bcrypt.DefaultCost,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

func validateCredentials(c Credentials) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	msg := fe.Field() + " is invalid"
	switch fe.Tag() {
	case "required":
		msg = fe.Field() + " is required"
	case "email":
		msg = "email must be a valid email address"
	case "min":
		msg = fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		msg = fe.Field() + " must be at most " + fe.Param() + " characters"
	}
	return &domain.ValidationError{Field: fe.Field(), Message: msg}
}

func (s *IdentityService) unavailable(op string, err error) error {
	s.log.Error("account store failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *IdentityService) SignUp(ctx context.Context, creds Credentials) (*Session, error) {
	creds.Email = normalizeEmail(creds.Email)
	if err := validateCredentials(creds); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        creds.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, s.unavailable("sign up", err)
	}

	s.log.Info("user signed up", "user_id", user.ID)
	return s.issue(user, auth.RoleOwner)
}

func (s *IdentityService) SignIn(ctx context.Context, creds Credentials) (*Session, error) {
	creds.Email = normalizeEmail(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, creds.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, s.unavailable("sign in", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	role, err := s.users.RoleOf(ctx, user.ID)
	if err != nil {
		return nil, s.unavailable("sign in", err)
	}
	return s.issue(user, role)
}

func (s *IdentityService) issue(user *domain.User, role auth.Role) (*Session, error) {
	token, id, err := s.tokens.Issue(user.ID, user.Email, role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: token, Identity: id, Landing: auth.LandingPath(role)}, nil
}

// SignOut revokes the caller's token for the rest of its lifetime.
func (s *IdentityService) SignOut(ctx context.Context, id *auth.Identity) error {
	if id.TokenID == "" {
		return nil
	}
	if err := s.revoker.Revoke(ctx, id.TokenID, id.Expires); err != nil {
		return s.unavailable("sign out", err)
	}
	s.log.Info("user signed out", "user_id", id.ID)
	return nil
}

// Me reports the caller with the role currently on record, which may differ
// from the one baked into an older token.
func (s *IdentityService) Me(ctx context.Context, id *auth.Identity) (*Profile, error) {
	user, err := s.users.GetByID(ctx, id.ID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, s.unavailable("me", err)
	}
	role, err := s.users.RoleOf(ctx, user.ID)
	if err != nil {
		return nil, s.unavailable("me", err)
	}
	return &Profile{ID: user.ID, Email: user.Email, Role: role, Landing: auth.LandingPath(role)}, nil
}

func (s *IdentityService) AssignRole(ctx context.Context, userID string, role auth.Role) error {
	if role != auth.RoleOwner && role != auth.RoleAdmin {
		return ErrInvalidRole
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return s.unavailable("assign role", err)
	}
	if err := s.users.SetRole(ctx, userID, role); err != nil {
		return s.unavailable("assign role", err)
	}
	s.log.Info("role assigned", "user_id", userID, "role", role)
	return nil
}

func (s *IdentityService) Assignments(ctx context.Context) ([]domain.RoleAssignment, error) {
	list, err := s.users.ListAssignments(ctx)
	if err != nil {
		return nil, s.unavailable("list roles", err)
	}
	return list, nil
}

// GrantAdminByEmail bootstraps the first administrator from the command line.
func (s *IdentityService) GrantAdminByEmail(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	return s.AssignRole(ctx, user.ID, auth.RoleAdmin)
}
