package domain

import (
	"errors"
	"time"

	"qr-menu/auth"
)

// Message is one entry in a support thread. Each restaurant has a single
// thread whose id is the restaurant id.
type Message struct {
	ID         string     `json:"id"`
	ThreadID   string     `json:"thread_id"`
	SenderID   string     `json:"sender_id"`
	SenderRole auth.Role  `json:"sender_role"`
	Body       string     `json:"body"`
	CreatedAt  time.Time  `json:"created_at"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
}

type ThreadSummary struct {
	ThreadID    string  `json:"thread_id"`
	LastMessage Message `json:"last_message"`
	Unread      int     `json:"unread"`
}

var (
	ErrEmptyMessage   = errors.New("message body is required")
	ErrMessageTooLong = errors.New("message body must be at most 2000 characters")
	ErrThreadAccess   = errors.New("you cannot access this support thread")
)
