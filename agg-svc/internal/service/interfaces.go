package service

import (
	"context"
	"time"

	"qr-menu/agg-svc/internal/domain"
	"qr-menu/agg-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type StoreInterface interface {
	IncrementDaily(ctx context.Context, restaurantID, date string) (int64, error)
	RecordScan(ctx context.Context, restaurantID, date string, fromQR bool) error
	RestaurantIDs(ctx context.Context) ([]string, error)
	TrimDailyScans(ctx context.Context, restaurantID string, today time.Time) (bool, error)
}

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type ConsumerInterface interface {
	Start(ctx context.Context)
	ProcessScan(ctx context.Context, event domain.ScanEvent)
}

var (
	_ StoreInterface    = (*storage.Store)(nil)
	_ MessageReader     = (*kafka.Reader)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
)
