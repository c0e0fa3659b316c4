package domain

import (
	"errors"
	"time"

	"qr-menu/auth"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// RoleAssignment grants a non-default role. Users without one are owners.
type RoleAssignment struct {
	UserID     string    `json:"user_id"`
	Role       auth.Role `json:"role"`
	AssignedAt time.Time `json:"assigned_at"`
}

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("an account with this email already exists")
)

// ValidationError names the request field that was rejected.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"error"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
