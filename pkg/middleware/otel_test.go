package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newRecorderProvider(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return sr, tp
}

func attrValue(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestOpenTelemetryConfig(t *testing.T) {
	config := defaultOTelConfig()
	if config.TracerName != defaultTracerName {
		t.Errorf("TracerName = %q", config.TracerName)
	}
	if config.Filter != nil || config.AttributeExtractor != nil || config.TracerProvider != nil {
		t.Error("optional hooks should default to nil")
	}

	WithTracerName("shop")(&config)
	if config.TracerName != "shop" {
		t.Errorf("TracerName = %q, want shop", config.TracerName)
	}
}

func TestOpenTelemetryServerSpan(t *testing.T) {
	sr, tp := newRecorderProvider(t)

	var inner trace.SpanContext
	h := OpenTelemetry(
		WithTracerProvider(tp),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = SpanFromRequest(r).SpanContext()
		w.WriteHeader(http.StatusNotFound)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/1?tab=a", nil))

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	span := spans[0]
	if span.Name() != "GET /users/1" {
		t.Errorf("span name = %q", span.Name())
	}
	if span.SpanKind() != trace.SpanKindServer {
		t.Errorf("span kind = %v", span.SpanKind())
	}
	if !inner.IsValid() || inner.SpanID() != span.SpanContext().SpanID() {
		t.Error("handler did not see the server span in its context")
	}
	if v, ok := attrValue(span, "http.status_code"); !ok || v.AsInt64() != 404 {
		t.Errorf("http.status_code = %v", v.Emit())
	}
	if v, ok := attrValue(span, "http.target"); !ok || v.AsString() != "/users/1?tab=a" {
		t.Errorf("http.target = %v", v.Emit())
	}
	if v, ok := attrValue(span, "test.attr"); !ok || v.AsString() != "ok" {
		t.Error("custom attribute missing")
	}
	if span.Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", span.Status().Code)
	}
}

func TestOpenTelemetryServerError(t *testing.T) {
	sr, tp := newRecorderProvider(t)
	h := OpenTelemetry(WithTracerProvider(tp))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))

	if got := sr.Ended()[0].Status().Code; got != codes.Error {
		t.Errorf("status = %v, want Error", got)
	}
}

func TestOpenTelemetryFilterSkipsTracing(t *testing.T) {
	sr, tp := newRecorderProvider(t)

	called := false
	h := OpenTelemetry(
		WithTracerProvider(tp),
		WithFilter(func(r *http.Request) bool { return r.URL.Path != "/healthz" }),
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if SpanFromRequest(r).SpanContext().IsValid() {
			t.Error("filtered request should not carry a span")
		}
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if !called {
		t.Fatal("next handler not called")
	}
	if n := len(sr.Ended()); n != 0 {
		t.Errorf("got %d spans, want 0", n)
	}
}

func TestOpenTelemetryRequestID(t *testing.T) {
	sr, tp := newRecorderProvider(t)
	h := chimw.RequestID(OpenTelemetry(WithTracerProvider(tp))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if v, ok := attrValue(sr.Ended()[0], "vitrio.request_id"); !ok || v.AsString() == "" {
		t.Error("request id attribute missing")
	}
}

func TestFormatSpanName(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.URL.Path = ""
	if got := formatSpanName(r); got != "GET /" {
		t.Errorf("formatSpanName = %q, want %q", got, "GET /")
	}
}
