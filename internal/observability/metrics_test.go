package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsMiddlewareRecordsRequests(t *testing.T) {
	m := NewMetrics()

	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	req := httptest.NewRequest(http.MethodGet, "/dashboard/learn", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	res := httptest.NewRecorder()
	m.Handler().ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, res.Code)

	body := res.Body.String()
	assert.True(t, strings.Contains(body, "skillforge_http_requests_total"), "counter missing from exposition")
	assert.True(t, strings.Contains(body, `code="418"`), "status label missing")
}

func TestNilMetricsHandlerDegrades(t *testing.T) {
	var m *Metrics
	res := httptest.NewRecorder()
	m.Handler().ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
}
