package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"qr-menu/auth"
	"qr-menu/support-svc/internal/domain"
	"qr-menu/support-svc/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

type Handler struct {
	Support service.SupportServiceInterface
	Log     *slog.Logger
}

func NewHandler(support service.SupportServiceInterface, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{Support: support, Log: log}
}

func (h *Handler) RegisterRoutes(r *mux.Router, verifier auth.TokenVerifier) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	inbox := r.PathPrefix("/api/support/threads").Subrouter()
	inbox.Use(auth.Required(verifier), auth.RequireRole(auth.RoleAdmin))
	inbox.HandleFunc("", h.listThreads).Methods("GET")

	thread := r.PathPrefix("/api/support/threads/{threadId}").Subrouter()
	thread.Use(auth.Required(verifier))
	thread.HandleFunc("/messages", h.listMessages).Methods("GET")
	thread.HandleFunc("/messages", h.sendMessage).Methods("POST")
	thread.HandleFunc("/read", h.markRead).Methods("PUT")
	thread.HandleFunc("/unread", h.unreadCount).Methods("GET")

	ws := r.PathPrefix("/ws/support").Subrouter()
	ws.Use(auth.Required(verifier))
	ws.HandleFunc("/{threadId}", h.serveThread).Methods("GET")
}

func NewRouter(handler *Handler, verifier auth.TokenVerifier) http.Handler {
	r := mux.NewRouter()
	handler.RegisterRoutes(r, verifier)
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)
}

func StartServer(addr string, handler http.Handler) {
	slog.Info("support service starting", "addr", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("support service stopped", "error", err)
		os.Exit(1)
	}
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "support-svc",
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
	case errors.Is(err, domain.ErrEmptyMessage), errors.Is(err, domain.ErrMessageTooLong):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error(), "field": "body"})
	case errors.Is(err, domain.ErrThreadAccess):
		id, _ := auth.FromContext(r.Context())
		role := auth.RoleNone
		if id != nil {
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

func caller(r *http.Request) *auth.Identity {
	id, _ := auth.FromContext(r.Context())
	return id
}

func (h *Handler) listThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := h.Support.Threads(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, threads)
}

func (h *Handler) listMessages(w http.ResponseWriter, r *http.Request) {
	list, err := h.Support.List(r.Context(), mux.Vars(r)["threadId"], caller(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	msg, err := h.Support.Send(r.Context(), mux.Vars(r)["threadId"], caller(r), body.Body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.Support.MarkRead(r.Context(), mux.Vars(r)["threadId"], caller(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"marked": n})
}

func (h *Handler) unreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.Support.UnreadCount(r.Context(), mux.Vars(r)["threadId"], caller(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread": n})
}
