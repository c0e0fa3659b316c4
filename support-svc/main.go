package main

import (
	"database/sql"
	"log"
	"log/slog"
	"net/http"

	"qr-menu/auth"
	"qr-menu/config"
	"qr-menu/logging"
	httpapi "qr-menu/support-svc/internal/api/http"
	"qr-menu/support-svc/internal/service"
	"qr-menu/support-svc/internal/storage"

	"github.com/redis/go-redis/v9"
)

type deps struct {
	db    *sql.DB
	redis *redis.Client
	cfg   *config.Config
	log   *slog.Logger
}

func newHTTPHandler(d deps) http.Handler {
	svc := service.NewSupportService(storage.NewPostgresRepository(d.db), storage.NewRedisBus(d.redis), d.log)
	tokens := auth.NewTokens(d.cfg.JWTSecret, d.cfg.TokenTTL, auth.NewRedisDenyList(d.redis))
	return httpapi.NewRouter(httpapi.NewHandler(svc, d.log), tokens)
}

func main() {
	cfg := config.Load(":8083")
	cfg.MustJWTSecret()

	logger, closeLog, err := logging.New("support-svc", cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatal("Failed to init logging:", err)
	}
	defer closeLog()

	db := config.MustInitPostgres(cfg)
	defer db.Close()
	config.MustMigrate(db, storage.Migrations, "migrations", "support_schema_migrations")

	rdb := config.MustInitRedis(cfg)
	defer rdb.Close()

	httpapi.StartServer(cfg.ListenAddr, newHTTPHandler(deps{db: db, redis: rdb, cfg: cfg, log: logger}))
}
