package storage

import (
	"context"
	"encoding/json"
	"log/slog"

	"qr-menu/menu-svc/internal/domain"

	"github.com/segmentio/kafka-go"
)

const ScanTopic = "menu-scans"

type KafkaPublisher struct {
	Writer *kafka.Writer
}

// NewKafkaPublisher wraps writer. An async writer reports delivery failures
// only through its Completion callback, so those are logged here.
func NewKafkaPublisher(writer *kafka.Writer, log *slog.Logger) *KafkaPublisher {
	if log == nil {
		log = slog.Default()
	}
	if writer.Async && writer.Completion == nil {
		writer.Completion = func(messages []kafka.Message, err error) {
			if err != nil {
				log.Debug("scan events dropped", "count", len(messages), "error", err)
			}
		}
	}
	return &KafkaPublisher{Writer: writer}
}

func (p *KafkaPublisher) PublishScan(ctx context.Context, event domain.ScanEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.RestaurantID),
		Value: payload,
	})
}
