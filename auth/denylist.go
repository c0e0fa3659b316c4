package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDenyList stores signed-out token ids until the token would have
// expired anyway.
type RedisDenyList struct {
	Client *redis.Client
}

func NewRedisDenyList(client *redis.Client) *RedisDenyList {
	return &RedisDenyList{Client: client}
}

func (d *RedisDenyList) key(tokenID string) string {
	return "auth:revoked:" + tokenID
}

func (d *RedisDenyList) Revoke(ctx context.Context, tokenID string, expires time.Time) error {
	ttl := time.Until(expires)
	if ttl <= 0 {
		return nil
	}
	return d.Client.Set(ctx, d.key(tokenID), "1", ttl).Err()
}

func (d *RedisDenyList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.Client.Exists(ctx, d.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

var _ DenyList = (*RedisDenyList)(nil)
