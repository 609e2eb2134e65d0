package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit"
	"github.com/dmitrymomot/formkit/pkg/metrics"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Post("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPost, "/users/1", nil),
		httptest.NewRequest(http.MethodPost, "/users/2", nil),
		httptest.NewRequest(http.MethodGet, "/ok", nil),
		httptest.NewRequest(http.MethodGet, "/missing", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("POST", "/users/{id}", "201")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/ok", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.RequestsInFlight))
	assert.Equal(t, 3, testutil.CollectAndCount(m.RequestDuration))
}

func TestObserveIssues(t *testing.T) {
	t.Parallel()
	m := metrics.New(prometheus.NewRegistry())

	req := httptest.NewRequest(http.MethodPost, "/users", nil)
	m.ObserveIssues(req, []formkit.ValidationError{
		{Field: formkit.NewPath("password"), Message: "too short"},
		{Field: formkit.NewPath("tags", 0), Message: "too short"},
		{Field: formkit.NewPath("tags", 1), Message: "too short"},
		{Message: "form level"},
	})

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ValidationFailures.WithLabelValues("unmatched")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ValidationIssues.WithLabelValues("password")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ValidationIssues.WithLabelValues("tags")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ValidationIssues.WithLabelValues("_root")))
}

func TestHandler(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.ValidationIssues.WithLabelValues("email").Inc()

	srv := httptest.NewServer(metrics.Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `formkit_validation_issues_total{field="email"} 1`))
}
