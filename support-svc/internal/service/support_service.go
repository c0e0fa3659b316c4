package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"qr-menu/auth"
	"qr-menu/support-svc/internal/domain"

	"github.com/google/uuid"
)

const maxBodyLength = 2000

var ErrUnavailable = errors.New("support messages are unavailable, please try again")

type SupportService struct {
	store MessageStore
	bus   MessageBus
	log   *slog.Logger
}

func NewSupportService(store MessageStore, bus MessageBus, log *slog.Logger) *SupportService {
	if log == nil {
		log = slog.Default()
	}
	return &SupportService{store: store, bus: bus, log: log}
}

// canAccess lets admins into every thread and owners into their own.
func canAccess(threadID string, id *auth.Identity) error {
	if id == nil {
		return domain.ErrThreadAccess
	}
	if id.IsAdmin() || id.ID == threadID {
		return nil
	}
	return domain.ErrThreadAccess
}

func (s *SupportService) unavailable(op string, err error) error {
	s.log.Error("support store failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

func (s *SupportService) Send(ctx context.Context, threadID string, sender *auth.Identity, body string) (*domain.Message, error) {
	if err := canAccess(threadID, sender); err != nil {
		return nil, err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, domain.ErrEmptyMessage
	}
	if utf8.RuneCountInString(body) > maxBodyLength {
		return nil, domain.ErrMessageTooLong
	}

	msg := &domain.Message{
		ID:         uuid.NewString(),
		ThreadID:   threadID,
		SenderID:   sender.ID,
		SenderRole: sender.Role,
		Body:       body,
	}
	if err := s.store.Insert(ctx, msg); err != nil {
		return nil, s.unavailable("send", err)
	}

	if s.bus != nil {
		if err := s.bus.Publish(ctx, *msg); err != nil {
			s.log.Warn("support message not broadcast", "thread_id", threadID, "error", err)
		}
	}
	return msg, nil
}

func (s *SupportService) List(ctx context.Context, threadID string, viewer *auth.Identity) ([]domain.Message, error) {
	if err := canAccess(threadID, viewer); err != nil {
		return nil, err
	}
	list, err := s.store.List(ctx, threadID)
	if err != nil {
		return nil, s.unavailable("list", err)
	}
	return list, nil
}

// Threads is the admin inbox. Unread counts are from the admin side.
func (s *SupportService) Threads(ctx context.Context) ([]domain.ThreadSummary, error) {
	threads, err := s.store.Threads(ctx, auth.RoleAdmin)
	if err != nil {
		return nil, s.unavailable("threads", err)
	}
	return threads, nil
}

func (s *SupportService) MarkRead(ctx context.Context, threadID string, reader *auth.Identity) (int, error) {
	if err := canAccess(threadID, reader); err != nil {
		return 0, err
	}
	n, err := s.store.MarkRead(ctx, threadID, reader.Role)
	if err != nil {
		return 0, s.unavailable("mark read", err)
	}
	return n, nil
}

func (s *SupportService) UnreadCount(ctx context.Context, threadID string, reader *auth.Identity) (int, error) {
	if err := canAccess(threadID, reader); err != nil {
		return 0, err
	}
	n, err := s.store.UnreadCount(ctx, threadID, reader.Role)
	if err != nil {
		return 0, s.unavailable("unread count", err)
	}
	return n, nil
}

func (s *SupportService) Subscribe(ctx context.Context, threadID string, viewer *auth.Identity) (<-chan domain.Message, func() error, error) {
	if err := canAccess(threadID, viewer); err != nil {
		return nil, nil, err
	}
	msgs, closeFn, err := s.bus.Subscribe(ctx, threadID)
	if err != nil {
		return nil, nil, s.unavailable("subscribe", err)
	}
	return msgs, closeFn, nil
}
