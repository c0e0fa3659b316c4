package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Role string

const (
	RoleNone  Role = ""
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrTokenRevoked = errors.New("token has been revoked")
	ErrNoSecret     = errors.New("JWT_SECRET not set")
)

// Claims are the JWT claims shared by every service. Subject carries the
// identity id, which is also the key of the owner's restaurant document.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role"`
	jwt.RegisteredClaims
}

// Identity is what downstream code sees once a token has been verified.
type Identity struct {
	ID      string    `json:"id"`
	Email   string    `json:"email,omitempty"`
	Role    Role      `json:"role"`
	TokenID string    `json:"-"`
	Expires time.Time `json:"-"`
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// DenyList reports tokens that were signed out before they expired.
type DenyList interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

type Tokens struct {
	secret []byte
	ttl    time.Duration
	deny   DenyList
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration, deny DenyList) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, deny: deny, now: time.Now}
}

func (t *Tokens) Issue(identityID, email string, role Role) (string, *Identity, error) {
	if len(t.secret) == 0 {
		return "", nil, ErrNoSecret
	}
	now := t.now()
	claims := &Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   identityID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, identityFromClaims(claims), nil
}

func (t *Tokens) Verify(ctx context.Context, token string) (*Identity, error) {
	if len(t.secret) == 0 {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tk *jwt.Token) (interface{}, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	if t.deny != nil && claims.ID != "" {
		revoked, err := t.deny.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	return identityFromClaims(claims), nil
}

func identityFromClaims(c *Claims) *Identity {
	id := &Identity{ID: c.Subject, Email: c.Email, Role: c.Role, TokenID: c.ID}
	if c.ExpiresAt != nil {
		id.Expires = c.ExpiresAt.Time
	}
	return id
}

var _ TokenVerifier = (*Tokens)(nil)
