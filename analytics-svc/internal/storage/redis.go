package storage

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisCounters reads the per-day counters written by the aggregation service.
type RedisCounters struct {
	Client *redis.Client
}

func NewRedisCounters(client *redis.Client) *RedisCounters {
	return &RedisCounters{Client: client}
}

func dailyKey(date, restaurantID string) string {
	return "scans:daily:" + date + ":" + restaurantID
}

// DailyCounts returns the counters that exist for the given dates. Dates with
// no counter are absent from the map.
func (c *RedisCounters) DailyCounts(ctx context.Context, restaurantID string, dates []string) (map[string]int, error) {
	if len(dates) == 0 {
		return map[string]int{}, nil
	}
	keys := make([]string, len(dates))
	for i, d := range dates {
		keys[i] = dailyKey(d, restaurantID)
	}

	vals, err := c.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(dates))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			continue
		}
		counts[dates[i]] = n
	}
	return counts, nil
}
