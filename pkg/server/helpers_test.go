package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/vitrio/pkg/render"
	"github.com/vango-dev/vitrio/pkg/router"
)

// fixedNow is the clock used by test servers.
var fixedNow = time.UnixMilli(1700000000000)

func newTestServer(t *testing.T, routes []router.Route, cfg *Config) *Server {
	t.Helper()
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return fixedNow }
	}
	rt, err := router.New(routes)
	if err != nil {
		t.Fatalf("router.New: %v", err)
	}
	return New(rt, cfg)
}

// view renders "<name>" followed by the data, when there is any.
func view(name string) router.RenderFunc {
	return func(p router.Props) render.Component {
		if p.Data == nil {
			return render.Text(name)
		}
		return render.Text(fmt.Sprintf("%s:%v", name, p.Data))
	}
}

func get(h http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func post(h http.Handler, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// csrfCookie performs a GET and returns the minted CSRF cookie.
func csrfCookie(t *testing.T, h http.Handler) *http.Cookie {
	t.Helper()
	c := responseCookie(get(h, "/"), CSRFCookieName)
	if c == nil {
		t.Fatal("GET did not mint a CSRF cookie")
	}
	return &http.Cookie{Name: c.Name, Value: c.Value}
}

func flashState(body string) string {
	const prefix = "window.__VITRIO_FLASH__ = "
	i := strings.Index(body, prefix)
	if i < 0 {
		return ""
	}
	rest := body[i+len(prefix):]
	return rest[:strings.Index(rest, ";</script>")]
}

type recordingObserver struct {
	requests []RequestEvent
	hooks    []HookEvent
}

func (o *recordingObserver) ObserveRequest(ev RequestEvent) { o.requests = append(o.requests, ev) }
func (o *recordingObserver) ObserveHook(ev HookEvent)       { o.hooks = append(o.hooks, ev) }

func loaderReturning(v any) router.LoaderFunc {
	return func(context.Context, router.Ctx) (router.Result, error) {
		return router.Data(v), nil
	}
}

func newPost(target string, form url.Values, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func newRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}
