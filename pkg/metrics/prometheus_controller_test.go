package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, r *mux.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestPrometheusController_ServesMetrics(t *testing.T) {
	c := NewPrometheusController("")
	require.Equal(t, DefaultPath, c.Key())

	r := mux.NewRouter()
	c.Register(r)

	rec := scrape(t, r, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "go_goroutines")

	rec = scrape(t, r, http.MethodPost, "/metrics")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPrometheusController_CustomGatherer(t *testing.T) {
	reg := prometheus.NewRegistry()
	writes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "plantops_test_writes_total",
		Help: "Writes seen by the test.",
	})
	reg.MustRegister(writes)
	writes.Add(3)

	c := NewPrometheusController("/internal/metrics", WithGatherer(reg))
	require.Equal(t, "/internal/metrics", c.Key())

	r := mux.NewRouter()
	c.Register(r)

	rec := scrape(t, r, http.MethodGet, "/internal/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "plantops_test_writes_total 3")
	require.NotContains(t, rec.Body.String(), "go_goroutines")
}
