package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"qr-menu/analytics-svc/internal/domain"
	"qr-menu/analytics-svc/internal/service"
	"qr-menu/auth"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

type Handler struct {
	Analytics service.AnalyticsInterface
	Log       *slog.Logger
}

func NewHandler(svc service.AnalyticsInterface, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{Analytics: svc, Log: log}
}

func (h *Handler) RegisterRoutes(r *mux.Router, verifier auth.TokenVerifier) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	scans := r.PathPrefix("/api/restaurants/{restaurantId}/scans").Subrouter()
	scans.Use(auth.Required(verifier))
	scans.HandleFunc("", h.getScanSeries).Methods("GET")
	scans.HandleFunc("/summary", h.getSummary).Methods("GET")

	admin := r.PathPrefix("/api/analytics").Subrouter()
	admin.Use(auth.Required(verifier), auth.RequireRole(auth.RoleAdmin))
	admin.HandleFunc("/top-scanned", h.getTopScanned).Methods("GET")
}

func NewRouter(handler *Handler, verifier auth.TokenVerifier) http.Handler {
	r := mux.NewRouter()
	handler.RegisterRoutes(r, verifier)
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)
}

func StartServer(addr string, handler http.Handler) {
	slog.Info("analytics service starting", "addr", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("analytics service stopped", "error", err)
		os.Exit(1)
	}
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "analytics-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrRestaurantNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		role := auth.RoleNone
		if id, ok := auth.FromContext(r.Context()); ok {
			role = id.Role
		}
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error(), "redirect": auth.LandingPath(role)})
	case errors.Is(err, service.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": service.ErrUnavailable.Error(), "retryable": true})
	default:
		h.Log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// intQuery parses an optional positive integer query parameter.
func intQuery(r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func (h *Handler) getScanSeries(w http.ResponseWriter, r *http.Request) {
	days, ok := intQuery(r, "days")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "days must be a positive number", "field": "days"})
		return
	}
	id, _ := auth.FromContext(r.Context())
	points, err := h.Analytics.ScanSeries(r.Context(), id, mux.Vars(r)["restaurantId"], days)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	summary, err := h.Analytics.Summary(r.Context(), id, mux.Vars(r)["restaurantId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) getTopScanned(w http.ResponseWriter, r *http.Request) {
	limit, ok := intQuery(r, "limit")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive number", "field": "limit"})
		return
	}
	top, err := h.Analytics.TopScanned(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, top)
}
