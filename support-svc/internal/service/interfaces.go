package service

import (
	"context"

	"qr-menu/auth"
	"qr-menu/support-svc/internal/domain"
)

type SupportServiceInterface interface {
	Send(ctx context.Context, threadID string, sender *auth.Identity, body string) (*domain.Message, error)
	List(ctx context.Context, threadID string, viewer *auth.Identity) ([]domain.Message, error)
	Threads(ctx context.Context) ([]domain.ThreadSummary, error)
	MarkRead(ctx context.Context, threadID string, reader *auth.Identity) (int, error)
	UnreadCount(ctx context.Context, threadID string, reader *auth.Identity) (int, error)
	Subscribe(ctx context.Context, threadID string, viewer *auth.Identity) (<-chan domain.Message, func() error, error)
}

type MessageStore interface {
	Insert(ctx context.Context, msg *domain.Message) error
	List(ctx context.Context, threadID string) ([]domain.Message, error)
	Threads(ctx context.Context, readerRole auth.Role) ([]domain.ThreadSummary, error)
	MarkRead(ctx context.Context, threadID string, readerRole auth.Role) (int, error)
	UnreadCount(ctx context.Context, threadID string, readerRole auth.Role) (int, error)
}

type MessageBus interface {
	Publish(ctx context.Context, msg domain.Message) error
	Subscribe(ctx context.Context, threadID string) (<-chan domain.Message, func() error, error)
}

var _ SupportServiceInterface = (*SupportService)(nil)
