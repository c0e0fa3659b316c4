package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"qr-menu/agg-svc/internal/domain"
)

type Consumer struct {
	Reader MessageReader
	Store  StoreInterface
	Log    *slog.Logger
	Now    func() time.Time
}

func NewConsumer(reader MessageReader, store StoreInterface, log *slog.Logger) *Consumer {
	if log == nil {
		log = slog.Default()
	}
	return &Consumer{
		Reader: reader,
		Store:  store,
		Log:    log,
		Now:    time.Now,
	}
}

// Start reads scan events until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	c.Log.Info("starting scan consumer")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.Log.Info("scan consumer stopped")
				return
			}
			c.Log.Error("error reading message", "error", err)
			continue
		}

		var event domain.ScanEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			c.Log.Warn("error unmarshaling message", "offset", message.Offset, "error", err)
			continue
		}
		c.ProcessScan(ctx, event)
	}
}

// ProcessScan is best-effort: failures are logged and the event is dropped.
func (c *Consumer) ProcessScan(ctx context.Context, event domain.ScanEvent) {
	if event.Type != domain.ScanEventType || event.RestaurantID == "" {
		return
	}

	at := event.Timestamp
	if at.IsZero() {
		at = c.now()
	}
	date := at.UTC().Format(domain.DateLayout)

	if _, err := c.Store.IncrementDaily(ctx, event.RestaurantID, date); err != nil {
		c.Log.Warn("error updating daily counter", "restaurant_id", event.RestaurantID, "error", err)
	}

	if err := c.Store.RecordScan(ctx, event.RestaurantID, date, event.FromQR()); err != nil {
		c.Log.Error("error recording scan", "restaurant_id", event.RestaurantID, "error", err)
		return
	}

	c.Log.Debug("scan processed", "restaurant_id", event.RestaurantID, "date", date, "source", event.Source)
}

func (c *Consumer) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
