package httpapi

import (
	"log/slog"
	"net/http"
	"os"

	"qr-menu/auth"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func NewRouter(handler *Handler, verifier auth.TokenVerifier) http.Handler {
	r := mux.NewRouter()
	handler.RegisterRoutes(r, verifier)
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)
}

func StartServer(addr string, handler http.Handler) {
	slog.Info("menu service starting", "addr", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("menu service stopped", "error", err)
		os.Exit(1)
	}
}
