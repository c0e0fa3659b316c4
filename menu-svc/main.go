package main

import (
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"time"

	"qr-menu/auth"
	"qr-menu/config"
	httpapi "qr-menu/menu-svc/internal/api/http"
	"qr-menu/menu-svc/internal/service"
	"qr-menu/menu-svc/internal/storage"
	"qr-menu/logging"

	"github.com/redis/go-redis/v9"
)

const publicMenuTTL = 10 * time.Minute

type deps struct {
	db        *sql.DB
	redis     *redis.Client
	publisher service.ScanPublisher
	cfg       *config.Config
	log       *slog.Logger
}

// newHTTPHandler wires storage, services and routes.
func newHTTPHandler(d deps) http.Handler {
	store := storage.NewPostgresRepository(d.db, d.log)
	cache := storage.NewRedisCache(d.redis, publicMenuTTL)
	drafts := storage.NewRedisDraftStore(d.redis, d.cfg.DraftTTL)
	qr := service.DefaultQRGenerator{BaseURL: d.cfg.PublicBaseURL}

	restSvc := service.NewRestaurantService(store, cache, drafts, d.publisher, qr, d.log)
	builderSvc := service.NewBuilderService(store, drafts, cache, d.log)

	tokens := auth.NewTokens(d.cfg.JWTSecret, d.cfg.TokenTTL, auth.NewRedisDenyList(d.redis))
	return httpapi.NewRouter(httpapi.NewHandler(restSvc, builderSvc, d.log), tokens)
}

func main() {
	cfg := config.Load(":8081")
	cfg.MustJWTSecret()

	logger, closeLog, err := logging.New("menu-svc", cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatal("Failed to init logging:", err)
	}
	defer closeLog()

	db := config.MustInitPostgres(cfg)
	defer db.Close()
	config.MustMigrate(db, storage.Migrations, "migrations", "menu_schema_migrations")

	rdb := config.MustInitRedis(cfg)
	defer rdb.Close()

	writer := config.NewKafkaWriter(cfg, storage.ScanTopic)
	defer writer.Close()

	handler := newHTTPHandler(deps{
		db:        db,
		redis:     rdb,
		publisher: storage.NewKafkaPublisher(writer, logger),
		cfg:       cfg,
		log:       logger,
	})

	httpapi.StartServer(cfg.ListenAddr, handler)
}
