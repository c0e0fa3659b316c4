package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"log/slog"
	"net/http"

	"qr-menu/auth"
	"qr-menu/config"
	httpapi "qr-menu/identity-svc/internal/api/http"
	"qr-menu/identity-svc/internal/service"
	"qr-menu/identity-svc/internal/storage"
	"qr-menu/logging"

	"github.com/redis/go-redis/v9"
)

type deps struct {
	db    *sql.DB
	redis *redis.Client
	cfg   *config.Config
	log   *slog.Logger
}

func newIdentityService(d deps) (*service.IdentityService, *auth.Tokens) {
	denyList := auth.NewRedisDenyList(d.redis)
	tokens := auth.NewTokens(d.cfg.JWTSecret, d.cfg.TokenTTL, denyList)
	svc := service.NewIdentityService(storage.NewPostgresRepository(d.db), tokens, denyList, d.log)
	return svc, tokens
}

func newHTTPHandler(d deps) http.Handler {
	svc, tokens := newIdentityService(d)
	return httpapi.NewRouter(httpapi.NewHandler(svc, d.log), tokens)
}

func main() {
	grantAdmin := flag.String("grant-admin", "", "assign the admin role to the account with this email and exit")
	flag.Parse()

	cfg := config.Load(":8082")
	cfg.MustJWTSecret()

	logger, closeLog, err := logging.New("identity-svc", cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatal("Failed to init logging:", err)
	}
	defer closeLog()

	db := config.MustInitPostgres(cfg)
	defer db.Close()
	config.MustMigrate(db, storage.Migrations, "migrations", "identity_schema_migrations")

	rdb := config.MustInitRedis(cfg)
	defer rdb.Close()

	d := deps{db: db, redis: rdb, cfg: cfg, log: logger}

	if *grantAdmin != "" {
		svc, _ := newIdentityService(d)
		if err := svc.GrantAdminByEmail(context.Background(), *grantAdmin); err != nil {
			log.Fatal("Failed to grant admin role:", err)
		}
		logger.Info("admin role granted", "email", *grantAdmin)
		return
	}

	httpapi.StartServer(cfg.ListenAddr, newHTTPHandler(d))
}
