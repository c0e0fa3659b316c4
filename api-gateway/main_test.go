package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"qr-menu/config"
	"qr-menu/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	app := newHTTPHandler(&config.Config{}, http.DefaultClient, logging.Discard())

	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "api-gateway", body["service"])
}

func TestPublicMenuReachesMenuService(t *testing.T) {
	var gotPath, gotQuery string
	menu := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Cafe"}`))
	}))
	defer menu.Close()

	app := newHTTPHandler(&config.Config{MenuSvcURL: menu.URL}, menu.Client(), logging.Discard())

	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/menus/r1?source=qr", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "/api/menus/r1", gotPath)
	assert.Equal(t, "source=qr", gotQuery)
	assert.Contains(t, rr.Body.String(), "Cafe")
}

func TestPreflightIsAnswered(t *testing.T) {
	app := newHTTPHandler(&config.Config{}, http.DefaultClient, logging.Discard())

	req := httptest.NewRequest(http.MethodOptions, "/api/me/menu", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "PUT")
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
