package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/darkkaiser/market-watcher/internal/pkg/errors"
	"github.com/darkkaiser/market-watcher/internal/service/api"
	"github.com/darkkaiser/market-watcher/internal/service/api/handler"
	"github.com/darkkaiser/market-watcher/internal/service/market"
	"github.com/darkkaiser/market-watcher/internal/service/notification"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCatalog serves a fixed snapshot for handler tests.
type stubCatalog struct {
	snapshot market.Snapshot
	seeded   bool
}

func (s *stubCatalog) Current() (market.Snapshot, bool) {
	return s.snapshot, s.seeded
}

// stubDestinations is an in-memory destination controller.
type stubDestinations struct {
	views   []notification.DestinationView
	enabled map[string]bool
}

func (s *stubDestinations) Destinations() []notification.DestinationView {
	return s.views
}

func (s *stubDestinations) SetDestinationEnabled(id string, enabled bool) error {
	if _, exists := s.enabled[id]; !exists {
		return apperrors.New(apperrors.NotFound, "발송 대상을 찾을 수 없습니다")
	}
	s.enabled[id] = enabled
	return nil
}

func newTestServer(catalog handler.CatalogReader, destinations handler.DestinationController) *echo.Echo {
	e := api.NewHTTPServer(api.HTTPServerConfig{})
	api.RegisterRoutes(e, handler.NewHandler(catalog, destinations, "zh-CN"))
	return e
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func seededCatalog() *stubCatalog {
	return &stubCatalog{
		seeded: true,
		snapshot: market.Snapshot{
			"forward": {
				Name:        "forward",
				Version:     "1.2.3",
				Publisher:   "shigma",
				Description: market.NewLocalizedDescription(map[string]string{"zh": "消息转发", "en": "message forwarding"}),
			},
			"echo": {
				Name:    "echo",
				Version: "0.1.0",
			},
		},
	}
}

// TestHealthCheck verifies the liveness endpoint.
func TestHealthCheck(t *testing.T) {
	e := newTestServer(seededCatalog(), &stubDestinations{})

	rec := doRequest(e, http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "build")
}

// TestCatalogList verifies the sorted snapshot listing with resolved descriptions.
func TestCatalogList(t *testing.T) {
	e := newTestServer(seededCatalog(), &stubDestinations{})

	rec := doRequest(e, http.MethodGet, "/api/v1/catalog", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count   int `json:"count"`
		Entries []struct {
			Name        string `json:"name"`
			Version     string `json:"version"`
			Description string `json:"description"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	require.Equal(t, 2, body.Count)
	assert.Equal(t, "echo", body.Entries[0].Name)
	assert.Equal(t, "forward", body.Entries[1].Name)
	assert.Equal(t, "消息转发", body.Entries[1].Description)
}

// TestCatalogList_NotSeeded verifies the 503 response before the first
// successful poll.
func TestCatalogList_NotSeeded(t *testing.T) {
	e := newTestServer(&stubCatalog{}, &stubDestinations{})

	rec := doRequest(e, http.MethodGet, "/api/v1/catalog", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

// TestCatalogEntry verifies single-plugin lookup and the locale query parameter.
func TestCatalogEntry(t *testing.T) {
	e := newTestServer(seededCatalog(), &stubDestinations{})

	t.Run("존재하는 플러그인", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/api/v1/catalog/forward?locale=en", "")

		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "forward", body["name"])
		assert.Equal(t, "message forwarding", body["description"])
	})

	t.Run("존재하지 않는 플러그인", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/api/v1/catalog/ghost", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

// TestDestinationUpdate verifies the opt-out toggle endpoint.
func TestDestinationUpdate(t *testing.T) {
	destinations := &stubDestinations{
		views:   []notification.DestinationView{{ID: "d1", Platform: "telegram", Enabled: true}},
		enabled: map[string]bool{"d1": true},
	}
	e := newTestServer(seededCatalog(), destinations)

	t.Run("수신 거부로 변경", func(t *testing.T) {
		rec := doRequest(e, http.MethodPut, "/api/v1/destinations/d1", `{"enabled": false}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, destinations.enabled["d1"])
	})

	t.Run("enabled 항목 누락", func(t *testing.T) {
		rec := doRequest(e, http.MethodPut, "/api/v1/destinations/d1", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("존재하지 않는 대상", func(t *testing.T) {
		rec := doRequest(e, http.MethodPut, "/api/v1/destinations/ghost", `{"enabled": true}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

// TestDestinationList verifies the destination state listing.
func TestDestinationList(t *testing.T) {
	destinations := &stubDestinations{
		views: []notification.DestinationView{
			{ID: "d1", Platform: "telegram", ChannelID: "100", Enabled: true},
			{ID: "d2", Platform: "telegram", ChannelID: "200", Enabled: false},
		},
	}
	e := newTestServer(seededCatalog(), destinations)

	rec := doRequest(e, http.MethodGet, "/api/v1/destinations", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var body []notification.DestinationView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "d1", body[0].ID)
	assert.True(t, body[0].Enabled)
	assert.False(t, body[1].Enabled)
}
