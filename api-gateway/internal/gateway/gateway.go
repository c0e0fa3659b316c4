package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	MenuSvcURL      string
	IdentitySvcURL  string
	SupportSvcURL   string
	AnalyticsSvcURL string
}

type Gateway struct {
	config Config
	client HTTPClient
	log    *slog.Logger
}

func NewGateway(config Config, client HTTPClient, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{
		config: config,
		client: client,
		log:    log,
	}
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "healthy",
		"service":   "api-gateway",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	g.log.Debug("proxy", "method", r.Method, "path", r.URL.Path, "target", targetURL)

	target := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
	if err != nil {
		g.log.Error("failed to create upstream request", "target", target, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build upstream request")
		return
	}
	req.Header = r.Header.Clone()

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Error("upstream unavailable", "target", targetURL, "error", err)
		writeError(w, http.StatusBadGateway, "upstream unavailable")
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		g.log.Warn("failed to copy upstream response", "error", err)
	}
}

// ProxyUpgrade forwards a websocket handshake and then the raw connection.
func (g *Gateway) ProxyUpgrade(w http.ResponseWriter, r *http.Request, targetURL string) {
	u, err := url.Parse(targetURL)
	if err != nil {
		g.log.Error("bad upstream url", "target", targetURL, "error", err)
		writeError(w, http.StatusInternalServerError, "bad upstream url")
		return
	}
	proxy := httputil.NewSingleHostReverseProxy(u)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		g.log.Error("websocket upstream unavailable", "target", targetURL, "error", err)
		writeError(w, http.StatusBadGateway, "upstream unavailable")
	}
	proxy.ServeHTTP(w, r)
}

// Target picks the upstream for a request path. It returns "" when no
// service owns the path.
func (g *Gateway) Target(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/auth/"):
		return g.config.IdentitySvcURL
	case strings.HasPrefix(path, "/api/support/"), strings.HasPrefix(path, "/ws/support/"):
		return g.config.SupportSvcURL
	case strings.HasPrefix(path, "/api/analytics/"), isScanPath(path):
		return g.config.AnalyticsSvcURL
	case strings.HasPrefix(path, "/api/"):
		return g.config.MenuSvcURL
	}
	return ""
}

// isScanPath matches /api/restaurants/{id}/scans and anything below it.
func isScanPath(path string) bool {
	rest, ok := strings.CutPrefix(path, "/api/restaurants/")
	if !ok {
		return false
	}
	parts := strings.Split(rest, "/")
	return len(parts) >= 2 && parts[0] != "" && parts[1] == "scans"
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	target := g.Target(r.URL.Path)
	if target == "" {
		g.log.Debug("unmatched route", "path", r.URL.Path)
		writeError(w, http.StatusNotFound, "route not found")
		return
	}
	if strings.HasPrefix(r.URL.Path, "/ws/") {
		g.ProxyUpgrade(w, r, target)
		return
	}
	g.ProxyRequest(w, r, target)
}

func (g *Gateway) SetupRoutes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.PathPrefix("/api/").HandlerFunc(g.RouteHandler)
	r.PathPrefix("/ws/").HandlerFunc(g.RouteHandler)
	r.PathPrefix("/").HandlerFunc(g.RouteHandler)
	return r
}
