package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"qr-menu/agg-svc/internal/domain"
	"qr-menu/agg-svc/internal/service"
	"qr-menu/agg-svc/internal/storage"
	"qr-menu/config"
	"qr-menu/logging"

	"github.com/redis/go-redis/v9"
)

const consumerGroup = "agg-svc-consumer"

type deps struct {
	db     *sql.DB
	redis  *redis.Client
	reader service.MessageReader
	log    *slog.Logger
}

type workers struct {
	consumer *service.Consumer
	trimmer  *service.Trimmer
}

func newWorkers(d deps) workers {
	store := storage.NewStore(d.db, d.redis)
	return workers{
		consumer: service.NewConsumer(d.reader, store, d.log),
		trimmer:  service.NewTrimmer(store, d.log),
	}
}

func main() {
	cfg := config.Load("")

	logger, closeLog, err := logging.New("agg-svc", cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatal("Failed to init logging:", err)
	}
	defer closeLog()

	db := config.MustInitPostgres(cfg)
	defer db.Close()

	rdb := config.MustInitRedis(cfg)
	defer rdb.Close()

	reader := config.NewKafkaReader(cfg, domain.ScanTopic, consumerGroup)
	defer reader.Close()

	w := newWorkers(deps{db: db, redis: rdb, reader: reader, log: logger})

	c, err := w.trimmer.Schedule(cfg.ScanTrimSchedule)
	if err != nil {
		logger.Error("invalid trim schedule", "schedule", cfg.ScanTrimSchedule, "error", err)
		return
	}
	defer c.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w.consumer.Start(ctx)
}
