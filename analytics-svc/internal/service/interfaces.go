package service

import (
	"context"

	"qr-menu/analytics-svc/internal/domain"
	"qr-menu/analytics-svc/internal/storage"
	"qr-menu/auth"
)

type StatsStore interface {
	Stats(ctx context.Context, restaurantID string) (*domain.RestaurantStats, error)
	TopScanned(ctx context.Context, limit int) ([]domain.TopRestaurant, error)
}

type CounterStore interface {
	DailyCounts(ctx context.Context, restaurantID string, dates []string) (map[string]int, error)
}

type AnalyticsInterface interface {
	ScanSeries(ctx context.Context, caller *auth.Identity, restaurantID string, days int) ([]domain.ScanPoint, error)
	Summary(ctx context.Context, caller *auth.Identity, restaurantID string) (*domain.Summary, error)
	TopScanned(ctx context.Context, limit int) ([]domain.TopRestaurant, error)
}

var (
	_ StatsStore         = (*storage.PostgresStats)(nil)
	_ CounterStore       = (*storage.RedisCounters)(nil)
	_ AnalyticsInterface = (*AnalyticsService)(nil)
)
