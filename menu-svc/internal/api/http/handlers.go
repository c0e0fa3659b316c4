package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"qr-menu/auth"
	"qr-menu/menu-svc/internal/domain"
	"qr-menu/menu-svc/internal/menu"
	"qr-menu/menu-svc/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Restaurants service.RestaurantServiceInterface
	Builder     service.BuilderServiceInterface
	Log         *slog.Logger
}

func NewHandler(restSvc service.RestaurantServiceInterface, builderSvc service.BuilderServiceInterface, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		Restaurants: restSvc,
		Builder:     builderSvc,
		Log:         log,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router, verifier auth.TokenVerifier) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	public := r.PathPrefix("/api/menus").Subrouter()
	public.Use(auth.Optional(verifier))
	public.HandleFunc("/{id}", h.publicMenu).Methods("GET")
	public.HandleFunc("/{id}/qrcode", h.qrCode).Methods("GET")

	register := r.PathPrefix("/api/restaurants").Subrouter()
	register.Use(auth.Required(verifier), auth.RequireRole(auth.RoleOwner))
	register.HandleFunc("", h.registerRestaurant).Methods("POST")

	me := r.PathPrefix("/api/me").Subrouter()
	me.Use(auth.Required(verifier), auth.RequireRole(auth.RoleOwner))
	me.HandleFunc("/restaurant", h.getMyRestaurant).Methods("GET")
	me.HandleFunc("/restaurant", h.updateMyRestaurant).Methods("PUT")
	me.HandleFunc("/restaurant/visibility", h.setVisibility).Methods("PUT")
	me.HandleFunc("/restaurant/theme", h.updateTheme).Methods("PUT")

	me.HandleFunc("/menu", h.getMenu).Methods("GET")
	me.HandleFunc("/menu/reload", h.reloadMenu).Methods("POST")
	me.HandleFunc("/menu/save", h.saveMenu).Methods("POST")
	me.HandleFunc("/menu/sections", h.createSection).Methods("POST")
	me.HandleFunc("/menu/sections/{sectionId}", h.renameSection).Methods("PUT")
	me.HandleFunc("/menu/sections/{sectionId}", h.deleteSection).Methods("DELETE")
	me.HandleFunc("/menu/sections/{sectionId}/visibility", h.setSectionVisibility).Methods("PUT")
	me.HandleFunc("/menu/sections/{sectionId}/position", h.moveSection).Methods("PUT")
	me.HandleFunc("/menu/sections/{sectionId}/items", h.createItem).Methods("POST")
	me.HandleFunc("/menu/sections/{sectionId}/items/{itemId}", h.updateItem).Methods("PUT")
	me.HandleFunc("/menu/sections/{sectionId}/items/{itemId}", h.deleteItem).Methods("DELETE")
	me.HandleFunc("/menu/sections/{sectionId}/items/{itemId}/status", h.setItemStatus).Methods("PUT")
	me.HandleFunc("/menu/sections/{sectionId}/items/{itemId}/position", h.moveItem).Methods("PUT")

	me.HandleFunc("/menu/draft", h.openDraft).Methods("POST")
	me.HandleFunc("/menu/draft", h.updateDraft).Methods("PUT")
	me.HandleFunc("/menu/draft", h.closeDraft).Methods("DELETE")
	me.HandleFunc("/menu/draft/commit", h.commitDraft).Methods("POST")
	me.HandleFunc("/menu/draft/variations", h.addVariation).Methods("POST")
	me.HandleFunc("/menu/draft/variations/{index:[0-9]+}", h.updateVariation).Methods("PUT")
	me.HandleFunc("/menu/draft/variations/{index:[0-9]+}", h.removeVariation).Methods("DELETE")

	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(auth.Required(verifier), auth.RequireRole(auth.RoleAdmin))
	admin.HandleFunc("/restaurants", h.listRestaurants).Methods("GET")
	admin.HandleFunc("/restaurants/{id}/block", h.setBlocked).Methods("PUT")
	admin.HandleFunc("/restaurants/{id}", h.deleteRestaurant).Methods("DELETE")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "menu-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

// writeError maps service and builder errors onto HTTP responses.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *menu.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, verr)
	case errors.Is(err, domain.ErrRestaurantNotFound),
		errors.Is(err, menu.ErrSectionNotFound),
		errors.Is(err, menu.ErrItemNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, menu.ErrVariationIndex), errors.Is(err, menu.ErrInvalidStatus):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, menu.ErrLastPriceVariation):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, menu.ErrConfirmationRequired):
		writeJSON(w, http.StatusConflict, map[string]any{"error": err.Error(), "confirm": true})
	case errors.Is(err, menu.ErrSaveInFlight),
		errors.Is(err, menu.ErrNoOpenDraft),
		errors.Is(err, domain.ErrRestaurantExists):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrMenuPrivate), errors.Is(err, service.ErrRestaurantBlocked):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": service.ErrUnavailable.Error(), "retryable": true})
	default:
		h.Log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func callerID(r *http.Request) string {
	if id, ok := auth.FromContext(r.Context()); ok {
		return id.ID
	}
	return ""
}

func confirmed(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return ok
}

func (h *Handler) registerRestaurant(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	var in service.RestaurantInput
	if !decodeJSON(w, r, &in) {
		return
	}
	rest, err := h.Restaurants.Register(r.Context(), id.ID, id.Email, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rest)
}

func (h *Handler) getMyRestaurant(w http.ResponseWriter, r *http.Request) {
	rest, err := h.Restaurants.Get(r.Context(), callerID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) updateMyRestaurant(w http.ResponseWriter, r *http.Request) {
	var in service.RestaurantInput
	if !decodeJSON(w, r, &in) {
		return
	}
	rest, err := h.Restaurants.UpdateProfile(r.Context(), callerID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) setVisibility(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IsPublic bool `json:"isPublic"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	rest, err := h.Restaurants.SetPublic(r.Context(), callerID(r), body.IsPublic)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) updateTheme(w http.ResponseWriter, r *http.Request) {
	var t domain.Theme
	if !decodeJSON(w, r, &t) {
		return
	}
	rest, err := h.Restaurants.UpdateTheme(r.Context(), callerID(r), t)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

// respondSession writes the builder session or the error that stopped it.
func (h *Handler) respondSession(w http.ResponseWriter, r *http.Request, status int, b *menu.Builder, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, status, b)
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	b, err := h.Builder.Session(r.Context(), callerID(r))
	h.respondSession(w, r, http.StatusOK, b, err)
}

func (h *Handler) reloadMenu(w http.ResponseWriter, r *http.Request) {
	b, err := h.Builder.Reload(r.Context(), callerID(r))
	h.respondSession(w, r, http.StatusOK, b, err)
}

func (h *Handler) saveMenu(w http.ResponseWriter, r *http.Request) {
	b, err := h.Builder.SaveMenu(r.Context(), callerID(r))
	h.respondSession(w, r, http.StatusOK, b, err)
}

type nameBody struct {
	Name string `json:"name"`
}

func (h *Handler) createSection(w http.ResponseWriter, r *http.Request) {
	var body nameBody
	if !decodeJSON(w, r, &body) {
		return
	}
	b, err := h.Builder.SaveSection(r.Context(), callerID(r), "", body.Name)
	h.respondSession(w, r, http.StatusCreated, b, err)
}

func (h *Handler) renameSection(w http.ResponseWriter, r *http.Request) {
	var body nameBody
	if !decodeJSON(w, r, &body) {
		return
	}
	b, err := h.Builder.SaveSection(r.Context(), callerID(r), mux.Vars(r)["sectionId"], body.Name)
	h.respondSession(w, r, http.StatusOK, b, err)
}

func (h *Handler) deleteSection(w http.ResponseWriter, r *http.Request) {
	b, err := h.Builder.DeleteSection(r.Context(), callerID(r), mux.Vars(r)["sectionId"], confirmed(r))
	h.respondSession(w, r, http.StatusOK, b, err)
}

func (h *Handler) setSectionVisibility(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Disabled bool `json:"isDisabled"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	b, err := h.Builder.SetSectionDisabled(r.Context(), callerID(r), mux.Vars(r)["sectionId"], body.Disabled)
	h.respondSession(w, r, http.StatusOK, b, err)
}

type positionBody struct {
	Index int `json:"index"`
}

func (h *Handler) moveSection(w http.ResponseWriter, r *http.Request) {
	var body positionBody
	if !decodeJSON(w, r, &body) {
		return
	}
	b, err := h.Builder.ReorderSection(r.Context(), callerID(r), mux.Vars(r)["sectionId"], body.Index)
	h.respondSession(w, r, http.StatusOK, b, err)
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var draft menu.ItemDraft
	if !decodeJSON(w, r, &draft) {
		return
	}
	draft.SectionID = mux.Vars(r)["sectionId"]
	draft.ItemID = ""
	b, err := h.Builder.SaveItem(r.Context(), callerID(r), draft)
	h.respondSession(w, r, http.StatusCreated, b, err)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var draft menu.ItemDraft
	if !decodeJSON(w, r, &draft) {
		return
	}
	vars := mux.Vars(r)
	draft.SectionID = vars["sectionId"]
	draft.ItemID = vars["itemId"]
	b, err := h.Builder.SaveItem(r.Context(), callerID(r), draft)
	h.respondSession(w, r, http.StatusOK, b, err)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	b, err := h.Builder.DeleteItem(r.Context(), callerID(r), vars["sectionId"], vars["itemId"], confirmed(r))
	h.respondSession(w, r, http.StatusOK, b, err)
}

func (h *Handler) setItemStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status domain.ItemStatus `json:"status"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	vars := mux.Vars(r)
	b, err := h.Builder.ChangeItemStatus(r.Context(), callerID(r), vars["sectionId"], vars["itemId"], body.Status)
	h.respondSession(w, r, http.StatusOK, b, err)
}

func (h *Handler) moveItem(w http.ResponseWriter, r *http.Request) {
	var body positionBody
	if !decodeJSON(w, r, &body) {
		return
	}
	vars := mux.Vars(r)
	b, err := h.Builder.ReorderItem(r.Context(), callerID(r), vars["sectionId"], vars["itemId"], body.Index)
	h.respondSession(w, r, http.StatusOK, b, err)
}

func (h *Handler) openDraft(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SectionID string `json:"sectionId"`
		ItemID    string `json:"itemId"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	b, err := h.Builder.OpenItemDialog(r.Context(), callerID(r), body.SectionID, body.ItemID)
	h.respondSession(w, r, http.StatusOK, b, err)
}

func (h *Handler) updateDraft(w http.ResponseWriter, r *http.Request) {
	var fields menu.ItemDraft
	if !decodeJSON(w, r, &fields) {
		return
	}
	b, err := h.Builder.UpdateDraft(r.Context(), callerID(r), fields)
	h.respondSession(w, r, http.StatusOK, b, err)
}

func (h *Handler) closeDraft(w http.ResponseWriter, r *http.Request) {
	b, err := h.Builder.CloseDialog(r.Context(), callerID(r))
	h.respondSession(w, r, http.StatusOK, b, err)
}

func (h *Handler) commitDraft(w http.ResponseWriter, r *http.Request) {
	b, err := h.Builder.CommitDraft(r.Context(), callerID(r))
	h.respondSession(w, r, http.StatusOK, b, err)
}

func (h *Handler) addVariation(w http.ResponseWriter, r *http.Request) {
	b, err := h.Builder.AddVariation(r.Context(), callerID(r))
	h.respondSession(w, r, http.StatusOK, b, err)
}

func (h *Handler) updateVariation(w http.ResponseWriter, r *http.Request) {
	index, _ := strconv.Atoi(mux.Vars(r)["index"])
	var body struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	b, err := h.Builder.UpdateVariation(r.Context(), callerID(r), index, body.Field, body.Value)
	h.respondSession(w, r, http.StatusOK, b, err)
}

func (h *Handler) removeVariation(w http.ResponseWriter, r *http.Request) {
	index, _ := strconv.Atoi(mux.Vars(r)["index"])
	b, err := h.Builder.RemoveVariation(r.Context(), callerID(r), index)
	h.respondSession(w, r, http.StatusOK, b, err)
}

func (h *Handler) publicMenu(w http.ResponseWriter, r *http.Request) {
	preview, _ := strconv.ParseBool(r.URL.Query().Get("preview"))
	pm, err := h.Restaurants.PublicMenu(r.Context(), mux.Vars(r)["id"], service.PublicMenuRequest{
		ViewerID: callerID(r),
		Preview:  preview,
		Source:   r.URL.Query().Get("src"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pm)
}

func (h *Handler) qrCode(w http.ResponseWriter, r *http.Request) {
	png, err := h.Restaurants.QRCode(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) listRestaurants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.RestaurantFilter{Search: q.Get("q")}
	if v, err := strconv.ParseBool(q.Get("public")); err == nil {
		filter.Public = &v
	}
	if v, err := strconv.ParseBool(q.Get("blocked")); err == nil {
		filter.Blocked = &v
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	list, err := h.Restaurants.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) setBlocked(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Blocked bool `json:"isBlocked"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	rest, err := h.Restaurants.SetBlocked(r.Context(), mux.Vars(r)["id"], body.Blocked)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) deleteRestaurant(w http.ResponseWriter, r *http.Request) {
	if err := h.Restaurants.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
