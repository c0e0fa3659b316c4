package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"qr-menu/auth"
	"qr-menu/identity-svc/internal/domain"
	"qr-menu/identity-svc/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

type Handler struct {
	Identity service.IdentityServiceInterface
	Log      *slog.Logger
}

func NewHandler(identity service.IdentityServiceInterface, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{Identity: identity, Log: log}
}

func (h *Handler) RegisterRoutes(r *mux.Router, verifier auth.TokenVerifier) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/auth/signup", h.signUp).Methods("POST")
	r.HandleFunc("/api/auth/signin", h.signIn).Methods("POST")

	session := r.PathPrefix("/api/auth").Subrouter()
	session.Use(auth.Required(verifier))
	session.HandleFunc("/signout", h.signOut).Methods("POST")
	session.HandleFunc("/me", h.me).Methods("GET")

	admin := r.PathPrefix("/api/auth/admin").Subrouter()
	admin.Use(auth.Required(verifier), auth.RequireRole(auth.RoleAdmin))
	admin.HandleFunc("/roles", h.listRoles).Methods("GET")
	admin.HandleFunc("/users/{id}/role", h.assignRole).Methods("PUT")
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
	slog.Info("identity service starting", "addr", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("identity service stopped", "error", err)
		os.Exit(1)
	}
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "identity-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, verr)
	case errors.Is(err, service.ErrInvalidRole):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": service.ErrUnavailable.Error(), "retryable": true})
	default:
		h.Log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (h *Handler) decodeCredentials(w http.ResponseWriter, r *http.Request) (service.Credentials, bool) {
	var creds service.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return creds, false
	}
	return creds, true
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}
	session, err := h.Identity.SignUp(r.Context(), creds)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}
	session, err := h.Identity.SignIn(r.Context(), creds)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	if err := h.Identity.SignOut(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	profile, err := h.Identity.Me(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	list, err := h.Identity.Assignments(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) assignRole(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Role auth.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := h.Identity.AssignRole(r.Context(), mux.Vars(r)["id"], body.Role); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
