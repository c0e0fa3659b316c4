package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpapi "qr-menu/analytics-svc/internal/api/http"
	"qr-menu/analytics-svc/internal/domain"
	"qr-menu/analytics-svc/internal/mocks"
	"qr-menu/analytics-svc/internal/service"
	"qr-menu/auth"
	"qr-menu/logging"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router    *mux.Router
	analytics *mocks.AnalyticsInterface
	tokens    *auth.Tokens
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	analytics := mocks.NewAnalyticsInterface(t)
	tokens := auth.NewTokens("test-secret", time.Hour, nil)
	r := mux.NewRouter()
	httpapi.NewHandler(analytics, logging.Discard()).RegisterRoutes(r, tokens)
	return &testServer{router: r, analytics: analytics, tokens: tokens}
}

func (s *testServer) get(t *testing.T, path string, id *auth.Identity) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if id != nil {
		tok, _, err := s.tokens.Issue(id.ID, "", id.Role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestScanSeriesHandler(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		caller    *auth.Identity
		setupMock func(*mocks.AnalyticsInterface)
		wantCode  int
	}{
		{
			name:   "default window",
			path:   "/api/restaurants/r1/scans",
			caller: owner,
			setupMock: func(m *mocks.AnalyticsInterface) {
				m.On("ScanSeries", mock.Anything, mock.Anything, "r1", 0).
					Return([]domain.ScanPoint{{Date: "2026-10-15", Count: 2}}, nil).Once()
			},
			wantCode: http.StatusOK,
		},
		{
			name:   "explicit days",
			path:   "/api/restaurants/r1/scans?days=14",
			caller: owner,
			setupMock: func(m *mocks.AnalyticsInterface) {
				m.On("ScanSeries", mock.Anything, mock.Anything, "r1", 14).Return([]domain.ScanPoint{}, nil).Once()
			},
			wantCode: http.StatusOK,
		},
		{
			name:      "bad days",
			path:      "/api/restaurants/r1/scans?days=week",
			caller:    owner,
			setupMock: func(m *mocks.AnalyticsInterface) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "no token",
			path:      "/api/restaurants/r1/scans",
			setupMock: func(m *mocks.AnalyticsInterface) {},
			wantCode:  http.StatusUnauthorized,
		},
		{
			name:   "not the owner",
			path:   "/api/restaurants/r1/scans",
			caller: stranger,
			setupMock: func(m *mocks.AnalyticsInterface) {
				m.On("ScanSeries", mock.Anything, mock.Anything, "r1", 0).Return(nil, domain.ErrForbidden).Once()
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:   "unknown restaurant",
			path:   "/api/restaurants/r9/scans",
			caller: owner,
			setupMock: func(m *mocks.AnalyticsInterface) {
				m.On("ScanSeries", mock.Anything, mock.Anything, "r9", 0).Return(nil, domain.ErrRestaurantNotFound).Once()
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:   "store down",
			path:   "/api/restaurants/r1/scans",
			caller: owner,
			setupMock: func(m *mocks.AnalyticsInterface) {
				m.On("ScanSeries", mock.Anything, mock.Anything, "r1", 0).Return(nil, service.ErrUnavailable).Once()
			},
			wantCode: http.StatusServiceUnavailable,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			s := newTestServer(t)
			testCase.setupMock(s.analytics)

			w := s.get(t, testCase.path, testCase.caller)
			assert.Equal(t, testCase.wantCode, w.Code)
		})
	}
}

func TestSummaryHandler(t *testing.T) {
	s := newTestServer(t)
	s.analytics.On("Summary", mock.Anything, mock.MatchedBy(func(id *auth.Identity) bool {
		return id.ID == "owner-1"
	}), "r1").Return(&domain.Summary{RestaurantID: "r1", Today: 3, Last7Days: 12}, nil).Once()

	w := s.get(t, "/api/restaurants/r1/scans/summary", owner)
	require.Equal(t, http.StatusOK, w.Code)

	var got domain.Summary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, 12, got.Last7Days)
}

func TestTopScannedHandler(t *testing.T) {
	s := newTestServer(t)

	w := s.get(t, "/api/analytics/top-scanned", owner)
	assert.Equal(t, http.StatusForbidden, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "/dashboard", body["redirect"])

	s.analytics.On("TopScanned", mock.Anything, 5).Return([]domain.TopRestaurant{{ID: "r1", QRScans: 40}}, nil).Once()
	w = s.get(t, "/api/analytics/top-scanned?limit=5", admin)
	require.Equal(t, http.StatusOK, w.Code)
	var top []domain.TopRestaurant
	require.NoError(t, json.NewDecoder(w.Body).Decode(&top))
	assert.Equal(t, 40, top[0].QRScans)

	w = s.get(t, "/api/analytics/top-scanned?limit=-1", admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.get(t, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
