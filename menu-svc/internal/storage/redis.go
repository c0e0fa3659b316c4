package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"qr-menu/menu-svc/internal/menu"

	"github.com/redis/go-redis/v9"
)

// RedisCache holds rendered public menus until the owning restaurant changes.
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

func (c *RedisCache) PublicMenuKey(restaurantID string) string {
	return "menu:public:" + restaurantID
}

func (c *RedisCache) GetPublicMenu(ctx context.Context, restaurantID string) (*menu.PublicMenu, bool, error) {
	raw, err := c.Client.Get(ctx, c.PublicMenuKey(restaurantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var pm menu.PublicMenu
	if err := json.Unmarshal(raw, &pm); err != nil {
		return nil, false, err
	}
	return &pm, true, nil
}

func (c *RedisCache) SetPublicMenu(ctx context.Context, restaurantID string, pm *menu.PublicMenu) error {
	raw, err := json.Marshal(pm)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.PublicMenuKey(restaurantID), raw, c.TTL).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, restaurantID string) error {
	return c.Client.Del(ctx, c.PublicMenuKey(restaurantID)).Err()
}

// RedisDraftStore keeps each owner's builder session between requests.
type RedisDraftStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisDraftStore(client *redis.Client, ttl time.Duration) *RedisDraftStore {
	return &RedisDraftStore{Client: client, TTL: ttl}
}

func (s *RedisDraftStore) key(restaurantID string) string {
	return "menu:draft:" + restaurantID
}

// Load returns nil without error when no session is stored.
func (s *RedisDraftStore) Load(ctx context.Context, restaurantID string) (*menu.Builder, error) {
	raw, err := s.Client.Get(ctx, s.key(restaurantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var b menu.Builder
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *RedisDraftStore) Store(ctx context.Context, restaurantID string, b *menu.Builder) error {
	raw, err := json.Marshal(b)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, s.key(restaurantID), raw, s.TTL).Err()
}

func (s *RedisDraftStore) Drop(ctx context.Context, restaurantID string) error {
	return s.Client.Del(ctx, s.key(restaurantID)).Err()
}
