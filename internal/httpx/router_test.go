package httpx

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/voyage-analytics/internal/models"
)

type stubAnalytics struct {
	metric models.Metric
	days   int
}

func (s *stubAnalytics) Summary(context.Context) models.Summary {
	return models.Summary{TotalBookings: 2, ActiveVoyages: 1, TotalRevenue: 200, TotalConversations: 3}
}

func (s *stubAnalytics) Series(_ context.Context, metric models.Metric, days int) models.Series {
	s.metric, s.days = metric, days
	return models.Series{Metric: metric, Points: make([]models.Point, days), AllZero: true}
}

func (s *stubAnalytics) Dashboard(_ context.Context, days int) models.Dashboard {
	s.days = days
	return models.Dashboard{Summary: s.Summary(context.Background())}
}

func newTestRouter() (http.Handler, *stubAnalytics) {
	stub := &stubAnalytics{}
	return NewRouter(slog.New(slog.NewTextHandler(io.Discard, nil)), stub), stub
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestSummaryEndpoint(t *testing.T) {
	h, _ := newTestRouter()
	rec := get(t, h, "/analytics/summary")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"total_bookings":2,"active_voyages":1,"total_revenue":200,"total_conversations":3}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestSeriesEndpointDefaults(t *testing.T) {
	h, stub := newTestRouter()
	rec := get(t, h, "/analytics/series")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.MetricCount, stub.metric)
	assert.Equal(t, 7, stub.days)

	var s models.Series
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Len(t, s.Points, 7)
	assert.True(t, s.AllZero)
}

func TestSeriesEndpointParams(t *testing.T) {
	h, stub := newTestRouter()
	rec := get(t, h, "/analytics/series?metric=Revenue&days=30")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.MetricRevenue, stub.metric)
	assert.Equal(t, 30, stub.days)
}

func TestSeriesEndpointRejectsBadInput(t *testing.T) {
	h, _ := newTestRouter()
	for _, target := range []string{
		"/analytics/series?metric=profit",
		"/analytics/series?days=0",
		"/analytics/series?days=91",
		"/analytics/series?days=week",
		"/analytics/dashboard?days=-1",
	} {
		rec := get(t, h, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Contains(t, rec.Body.String(), `"error"`, target)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	h, stub := newTestRouter()
	rec := get(t, h, "/analytics/dashboard?days=14")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 14, stub.days)
	assert.Contains(t, rec.Body.String(), `"summary"`)
}

func TestRequestIDIsEchoed(t *testing.T) {
	h, _ := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestRouter()
	get(t, h, "/analytics/summary")
	rec := get(t, h, "/metrics")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "voyage_analytics_http_requests_total"))
}
