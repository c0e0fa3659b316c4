package tests

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"qr-menu/api-gateway/internal/gateway"
	"qr-menu/api-gateway/internal/mocks"
	"qr-menu/logging"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var upstreams = gateway.Config{
	MenuSvcURL:      "http://menu-svc",
	IdentitySvcURL:  "http://identity-svc",
	SupportSvcURL:   "http://support-svc",
	AnalyticsSvcURL: "http://analytics-svc",
}

func okResponse(body string) *http.Response {
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp
}

func TestGateway_HealthCheck(t *testing.T) {
	gw := gateway.NewGateway(gateway.Config{}, nil, logging.Discard())

	rr := httptest.NewRecorder()
	gw.HealthCheck(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "api-gateway", body["service"])
}

func TestGateway_RouteHandler(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		path    string
		wantURL string
	}{
		{name: "sign in", method: "POST", path: "/api/auth/signin", wantURL: "http://identity-svc/api/auth/signin"},
		{name: "admin roles", method: "GET", path: "/api/auth/admin/roles", wantURL: "http://identity-svc/api/auth/admin/roles"},
		{name: "support thread", method: "POST", path: "/api/support/threads/u1/messages", wantURL: "http://support-svc/api/support/threads/u1/messages"},
		{name: "scan series", method: "GET", path: "/api/restaurants/r1/scans?days=7", wantURL: "http://analytics-svc/api/restaurants/r1/scans?days=7"},
		{name: "scan summary", method: "GET", path: "/api/restaurants/r1/scans/summary", wantURL: "http://analytics-svc/api/restaurants/r1/scans/summary"},
		{name: "top scanned", method: "GET", path: "/api/analytics/top-scanned", wantURL: "http://analytics-svc/api/analytics/top-scanned"},
		{name: "register restaurant", method: "POST", path: "/api/restaurants", wantURL: "http://menu-svc/api/restaurants"},
		{name: "public menu", method: "GET", path: "/api/menus/r1?preview=true", wantURL: "http://menu-svc/api/menus/r1?preview=true"},
		{name: "menu builder", method: "PUT", path: "/api/me/menu/sections/s1", wantURL: "http://menu-svc/api/me/menu/sections/s1"},
		{name: "admin restaurants", method: "GET", path: "/api/admin/restaurants", wantURL: "http://menu-svc/api/admin/restaurants"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockClient := mocks.NewHTTPClient(t)
			gw := gateway.NewGateway(upstreams, mockClient, logging.Discard())

			mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
				return req.Method == testCase.method &&
					req.URL.String() == testCase.wantURL &&
					req.Header.Get("Authorization") == "Bearer tok"
			})).Return(okResponse(`{"ok":true}`), nil).Once()

			req := httptest.NewRequest(testCase.method, testCase.path, strings.NewReader(`{}`))
			req.Header.Set("Authorization", "Bearer tok")
			rr := httptest.NewRecorder()

			gw.RouteHandler(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		})
	}
}

func TestGateway_RouteHandler_UnknownRoute(t *testing.T) {
	gw := gateway.NewGateway(upstreams, nil, logging.Discard())

	rr := httptest.NewRecorder()
	gw.RouteHandler(rr, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGateway_RouteHandler_ProxyError(t *testing.T) {
	mockClient := mocks.NewHTTPClient(t)
	gw := gateway.NewGateway(upstreams, mockClient, logging.Discard())

	mockClient.On("Do", mock.Anything).Return(nil, errors.New("connection failed")).Once()

	rr := httptest.NewRecorder()
	gw.RouteHandler(rr, httptest.NewRequest(http.MethodGet, "/api/menus/r1", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestGateway_UpstreamStatusIsPassedThrough(t *testing.T) {
	mockClient := mocks.NewHTTPClient(t)
	gw := gateway.NewGateway(upstreams, mockClient, logging.Discard())

	resp := okResponse(`{"error":"private menu"}`)
	resp.StatusCode = http.StatusForbidden
	mockClient.On("Do", mock.Anything).Return(resp, nil).Once()

	rr := httptest.NewRecorder()
	gw.RouteHandler(rr, httptest.NewRequest(http.MethodGet, "/api/menus/r1", nil))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "private menu")
}

func TestGateway_SupportWebsocket(t *testing.T) {
	upgrader := websocket.Upgrader{}
	support := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws/support/u1" || r.URL.Query().Get("token") != "tok" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		conn.WriteMessage(mt, msg)
	}))
	defer support.Close()

	cfg := upstreams
	cfg.SupportSvcURL = support.URL
	gw := gateway.NewGateway(cfg, nil, logging.Discard())
	front := httptest.NewServer(gw.SetupRoutes())
	defer front.Close()

	url := "ws" + strings.TrimPrefix(front.URL, "http") + "/ws/support/u1?token=tok"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"body":"hello"}`)))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, got, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"body":"hello"}`, string(got))
}
