package main

import (
	"database/sql"
	"log"
	"log/slog"
	"net/http"

	httpapi "qr-menu/analytics-svc/internal/api/http"
	"qr-menu/analytics-svc/internal/service"
	"qr-menu/analytics-svc/internal/storage"
	"qr-menu/auth"
	"qr-menu/config"
	"qr-menu/logging"

	"github.com/redis/go-redis/v9"
)

type deps struct {
	db    *sql.DB
	redis *redis.Client
	cfg   *config.Config
	log   *slog.Logger
}

func newHTTPHandler(d deps) http.Handler {
	svc := service.NewAnalyticsService(storage.NewPostgresStats(d.db), storage.NewRedisCounters(d.redis), d.log)
	tokens := auth.NewTokens(d.cfg.JWTSecret, d.cfg.TokenTTL, auth.NewRedisDenyList(d.redis))
	return httpapi.NewRouter(httpapi.NewHandler(svc, d.log), tokens)
}

func main() {
	cfg := config.Load(":8084")
	cfg.MustJWTSecret()

	logger, closeLog, err := logging.New("analytics-svc", cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatal("Failed to init logging:", err)
	}
	defer closeLog()

	db := config.MustInitPostgres(cfg)
	defer db.Close()

	rdb := config.MustInitRedis(cfg)
	defer rdb.Close()

	httpapi.StartServer(cfg.ListenAddr, newHTTPHandler(deps{db: db, redis: rdb, cfg: cfg, log: logger}))
}
