package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/vango-dev/vitrio/pkg/server"
)

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetricsConfig(t *testing.T) {
	config := defaultMetricsConfig()
	if config.Namespace != "vitrio" {
		t.Errorf("Namespace = %q, want vitrio", config.Namespace)
	}
	if len(config.Buckets) != len(prometheus.DefBuckets) {
		t.Error("default buckets should be prometheus.DefBuckets")
	}

	reg := prometheus.NewRegistry()
	for _, opt := range []MetricsOption{
		WithNamespace("shop"),
		WithSubsystem("web"),
		WithConstLabels(prometheus.Labels{"env": "test"}),
		WithBuckets([]float64{0.1, 1}),
		WithRegistry(reg),
	} {
		opt(&config)
	}
	if config.Namespace != "shop" || config.Subsystem != "web" || config.ConstLabels["env"] != "test" {
		t.Errorf("config = %+v", config)
	}
	if len(config.Buckets) != 2 || config.Registry != reg {
		t.Errorf("buckets/registry not applied")
	}
}

func TestMetricsObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))

	m.ObserveRequest(server.RequestEvent{Label: server.LabelRender, Status: 200, Duration: 10 * time.Millisecond})
	m.ObserveRequest(server.RequestEvent{Label: server.LabelRender, Status: 200, Duration: 20 * time.Millisecond})
	m.ObserveRequest(server.RequestEvent{Label: server.LabelNotFound, Status: 404})
	m.ObserveRequest(server.RequestEvent{Status: 500})

	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("render", "200")); got != 2 {
		t.Errorf("render/200 = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("not_found", "404")); got != 1 {
		t.Errorf("not_found/404 = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("unknown", "500")); got != 1 {
		t.Errorf("unknown/500 = %v, want 1", got)
	}
	if got := metricHistogramCount(t, m.requestDuration.WithLabelValues("render")); got != 2 {
		t.Errorf("render duration samples = %d, want 2", got)
	}
}

func TestMetricsObserveHook(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))

	m.ObserveHook(server.HookEvent{Kind: server.HookLoader, Outcome: server.OutcomeOK})
	m.ObserveHook(server.HookEvent{Kind: server.HookLoader, Outcome: server.OutcomePanic})
	m.ObserveHook(server.HookEvent{Kind: server.HookAction, Outcome: server.OutcomeError})

	if got := testutil.ToFloat64(m.hooksTotal.WithLabelValues("loader", "ok")); got != 1 {
		t.Errorf("loader/ok = %v", got)
	}
	if got := testutil.ToFloat64(m.hooksTotal.WithLabelValues("loader", "panic")); got != 1 {
		t.Errorf("loader/panic = %v", got)
	}
	if got := metricHistogramCount(t, m.hookDuration.WithLabelValues("loader")); got != 2 {
		t.Errorf("loader duration samples = %d, want 2", got)
	}
	if got := testutil.CollectAndCount(m.hooksTotal); got != 3 {
		t.Errorf("hook series = %d, want 3", got)
	}
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))

	var inFlight float64
	h := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inFlight = testutil.ToFloat64(m.inFlight)
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("PROPFIND", "/", nil))

	if inFlight != 1 {
		t.Errorf("in-flight during request = %v, want 1", inFlight)
	}
	if got := testutil.ToFloat64(m.inFlight); got != 0 {
		t.Errorf("in-flight after requests = %v, want 0", got)
	}

	expected := `
# HELP test_http_responses_total Total HTTP responses by method and status code
# TYPE test_http_responses_total counter
test_http_responses_total{code="200",method="GET"} 1
test_http_responses_total{code="200",method="OTHER"} 1
test_http_responses_total{code="404",method="GET"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_http_responses_total"); err != nil {
		t.Error(err)
	}
}

func TestMetricsAsServerObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))

	var obs server.Observer = server.Observers{m}
	obs.ObserveRequest(server.RequestEvent{Label: server.LabelActionOK, Status: 303})

	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("action_ok", "303")); got != 1 {
		t.Errorf("action_ok/303 = %v, want 1", got)
	}
}
