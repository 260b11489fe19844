package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/vango-dev/vitrio/pkg/router"
)

func TestObserverReceivesEvents(t *testing.T) {
	obs := &recordingObserver{}
	s := newTestServer(t, userRoutes(nil), &Config{Observer: obs})

	get(s, "/users/7")

	if len(obs.requests) != 1 {
		t.Fatalf("got %d request events, want 1", len(obs.requests))
	}
	ev := obs.requests[0]
	if ev.Method != http.MethodGet || ev.Path != "/users/7" || ev.Route != "/users/:id" {
		t.Errorf("request event = %+v", ev)
	}
	if ev.Label != LabelRender || ev.Status != http.StatusOK {
		t.Errorf("label/status = %s/%d", ev.Label, ev.Status)
	}

	want := []HookEvent{
		{Kind: HookLoader, Route: "/users/:id", Outcome: OutcomeOK},
		{Kind: HookRender, Route: "/users/:id", Outcome: OutcomeOK},
	}
	if len(obs.hooks) != len(want) {
		t.Fatalf("got %d hook events, want %d", len(obs.hooks), len(want))
	}
	for i, w := range want {
		got := obs.hooks[i]
		if got.Kind != w.Kind || got.Route != w.Route || got.Outcome != w.Outcome {
			t.Errorf("hook[%d] = %+v, want %+v", i, got, w)
		}
	}
}

func TestObserverLabels(t *testing.T) {
	routes := []router.Route{
		{
			Path:   "/",
			Render: view("home"),
			Action: func(context.Context, router.Ctx, url.Values) (router.Result, error) {
				return nil, errors.New("boom")
			},
		},
		{
			Path: "/old",
			Loader: func(context.Context, router.Ctx) (router.Result, error) {
				return router.RedirectTo("/new"), nil
			},
			Render: view("old"),
		},
	}

	tests := []struct {
		name   string
		do     func(h http.Handler, token *http.Cookie)
		label  Label
		status int
	}{
		{"render", func(h http.Handler, _ *http.Cookie) { get(h, "/") }, LabelRender, 200},
		{"not found", func(h http.Handler, _ *http.Cookie) { get(h, "/missing") }, LabelNotFound, 404},
		{"normalize", func(h http.Handler, _ *http.Cookie) { get(h, "/old/") }, LabelNormalize, 301},
		{"redirect", func(h http.Handler, _ *http.Cookie) { get(h, "/old") }, LabelRedirect, 302},
		{"method", func(h http.Handler, _ *http.Cookie) {
			serve(h, newRequest(http.MethodDelete, "/"))
		}, LabelMethodNotAllowed, 405},
		{"csrf", func(h http.Handler, _ *http.Cookie) { post(h, "/", url.Values{}) }, LabelCSRFFailed, 303},
		{"action failed", func(h http.Handler, c *http.Cookie) {
			post(h, "/", url.Values{CSRFFieldName: {c.Value}}, c)
		}, LabelActionFailed, 303},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := &recordingObserver{}
			s := newTestServer(t, routes, &Config{Observer: obs})
			c := csrfCookie(t, s)
			obs.requests = nil

			tt.do(s, c)

			if len(obs.requests) != 1 {
				t.Fatalf("got %d request events, want 1", len(obs.requests))
			}
			if ev := obs.requests[0]; ev.Label != tt.label || ev.Status != tt.status {
				t.Errorf("event = %s/%d, want %s/%d", ev.Label, ev.Status, tt.label, tt.status)
			}
		})
	}
}

func TestObserverFanOut(t *testing.T) {
	a, b := &recordingObserver{}, &recordingObserver{}
	s := newTestServer(t, userRoutes(nil), &Config{Observer: Observers{a, nil, b}})

	get(s, "/users/1")

	if len(a.requests) != 1 || len(b.requests) != 1 {
		t.Errorf("fan-out delivered %d and %d events", len(a.requests), len(b.requests))
	}
}

func TestTracingSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	routes := append(userRoutes(nil), router.Route{
		Path:   "/",
		Render: view("home"),
		Action: func(context.Context, router.Ctx, url.Values) (router.Result, error) {
			return router.Data(nil), nil
		},
	})
	s := newTestServer(t, routes, &Config{Tracer: tp.Tracer("test")})

	get(s, "/users/3")

	names := spanNames(sr.Ended())
	want := []string{"vitrio.loader", "vitrio.render", "vitrio.document"}
	if !equalStrings(names, want) {
		t.Errorf("GET spans = %v, want %v", names, want)
	}

	c := csrfCookie(t, s)
	before := len(sr.Ended())
	post(s, "/", url.Values{CSRFFieldName: {c.Value}}, c)

	names = spanNames(sr.Ended()[before:])
	if !equalStrings(names, []string{"vitrio.action"}) {
		t.Errorf("POST spans = %v", names)
	}
}

func TestTracingRecordsLoaderError(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	s := newTestServer(t, []router.Route{{
		Path: "/",
		Loader: func(context.Context, router.Ctx) (router.Result, error) {
			return nil, errors.New("db down")
		},
		Render: view("home"),
	}}, &Config{Tracer: tp.Tracer("test")})

	get(s, "/")

	for _, span := range sr.Ended() {
		if span.Name() != "vitrio.loader" {
			continue
		}
		if len(span.Events()) == 0 {
			t.Error("loader span has no error event")
		}
		if span.Status().Description == "" {
			t.Error("loader span status has no description")
		}
		return
	}
	t.Fatal("no loader span recorded")
}

func spanNames(spans []sdktrace.ReadOnlySpan) []string {
	names := make([]string, len(spans))
	for i, s := range spans {
		names[i] = s.Name()
	}
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
