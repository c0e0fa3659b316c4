package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"qr-menu/api-gateway/internal/gateway"
	"qr-menu/config"
	"qr-menu/logging"

	"github.com/rs/cors"
)

func newHTTPHandler(cfg *config.Config, client gateway.HTTPClient, logger *slog.Logger) http.Handler {
	gw := gateway.NewGateway(gateway.Config{
		MenuSvcURL:      cfg.MenuSvcURL,
		IdentitySvcURL:  cfg.IdentitySvcURL,
		SupportSvcURL:   cfg.SupportSvcURL,
		AnalyticsSvcURL: cfg.AnalyticsSvcURL,
	}, client, logger)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(gw.SetupRoutes())
}

func main() {
	cfg := config.Load(":8080")

	logger, closeLog, err := logging.New("api-gateway", cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatal("Failed to init logging:", err)
	}
	defer closeLog()

	handler := newHTTPHandler(cfg, &http.Client{Timeout: 30 * time.Second}, logger)

	logger.Info("api gateway starting", "addr", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		logger.Error("api gateway stopped", "error", err)
		os.Exit(1)
	}
}
