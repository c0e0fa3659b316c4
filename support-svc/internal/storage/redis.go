package storage

import (
	"context"
	"encoding/json"
	"log/slog"

	"qr-menu/support-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisBus fans new messages out to every connected client, across service
// instances, through one pub/sub channel per thread.
type RedisBus struct {
	Client *redis.Client
}

func NewRedisBus(client *redis.Client) *RedisBus {
	return &RedisBus{Client: client}
}

func ThreadChannel(threadID string) string {
	return "support:" + threadID
}

func (b *RedisBus) Publish(ctx context.Context, msg domain.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return b.Client.Publish(ctx, ThreadChannel(msg.ThreadID), payload).Err()
}

// Subscribe returns once the subscription is active. The channel is closed
// after the returned close func runs or ctx ends.
func (b *RedisBus) Subscribe(ctx context.Context, threadID string) (<-chan domain.Message, func() error, error) {
	pubsub := b.Client.Subscribe(ctx, ThreadChannel(threadID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, err
	}

	out := make(chan domain.Message)
	go func() {
		defer close(out)
		for m := range pubsub.Channel() {
			var msg domain.Message
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				slog.Warn("dropping malformed support message", "channel", m.Channel, "error", err)
				continue
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, pubsub.Close, nil
}
