package server

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	verrors "github.com/vango-dev/vitrio/internal/errors"
	"github.com/vango-dev/vitrio/pkg/loadercache"
	"github.com/vango-dev/vitrio/pkg/render"
	"github.com/vango-dev/vitrio/pkg/router"
)

// notFoundBody is rendered when nothing matched and there is no catch-all.
const notFoundBody = "<h1>Not Found</h1>"

// serveDocument runs the GET pipeline and writes the rendered document.
func (s *Server) serveDocument(w http.ResponseWriter, r *http.Request, rs *requestState, jar CookieJar, token string) {
	ctx, span := s.tracer.Start(r.Context(), "vitrio.document",
		trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("vitrio.path", rs.path),
		),
	)
	defer span.End()

	res := s.router.Resolve(rs.path)
	search := r.URL.Query()
	loc := router.Location{Path: rs.path, Query: r.URL.RawQuery, Hash: r.URL.Fragment}
	cache := loadercache.New()

	out := s.runLoaders(ctx, res, search, loc, cache)
	switch {
	case out.redirect != nil:
		rs.route = out.route
		s.redirect(w, rs, s.location(out.redirect.To), out.redirect.StatusOr(http.StatusFound), LabelRedirect)
		return
	case out.err != nil:
		rs.route = out.route
		span.RecordError(out.err)
		span.SetStatus(codes.Error, out.err.Error())
		s.serveError(w, r, rs, out.err)
		return
	}

	best, matched := res.Best()
	status := http.StatusOK
	label := LabelRender
	if !matched || out.notFound {
		status = http.StatusNotFound
		label = LabelNotFound
	}

	route, props := s.selectView(res, best, matched, status, search, loc, cache)
	props.CSRFToken = token
	props.Action = router.UnavailableAction{}

	body := notFoundBody
	title := s.config.Title
	if route != nil {
		rs.route = route.Path
		if route.Title != "" {
			title = route.Title
		}
		var err error
		body, err = s.renderRoute(ctx, route, props)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.serveError(w, r, rs, err)
			return
		}
	}

	// HEAD carries no body, so it leaves the one-shot flash for the next GET.
	var flash *Flash
	if r.Method == http.MethodGet {
		flash = s.takeFlash(r, jar)
	}
	page := render.PageData{
		Title:       title,
		Lang:        s.config.Lang,
		StyleSheets: make([]string, 0, len(s.config.StyleSheets)),
		Banner:      flashBanner(flash),
		Body:        body,
		DevScript:   s.config.DevScript,
	}
	if flash != nil {
		page.Flash = flash
	}
	for _, href := range s.config.StyleSheets {
		page.StyleSheets = append(page.StyleSheets, s.location(href))
	}
	if matched && best.Route.Client {
		page.ClientScript = s.location(s.config.ClientScript)
	}

	var buf bytes.Buffer
	if err := render.RenderPage(&buf, page); err != nil {
		s.serveError(w, r, rs, verrors.Wrap("V103", err).WithDetail("document %s", rs.path))
		return
	}

	span.SetAttributes(attribute.Int("http.status_code", status))
	rs.status = status
	rs.label = label
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(buf.Bytes())
	}
}

// selectView picks the route to render and its props. A 200 renders the best
// match with its primed data. A 404 renders the catch-all when the table has
// one, otherwise the best match (if any) without data.
func (s *Server) selectView(res router.Resolution, best router.Match, matched bool, status int, search url.Values, loc router.Location, cache *loadercache.Cache) (*router.Route, router.Props) {
	if status == http.StatusOK {
		data, _ := cache.Value(loadercache.Key(best.Route.Path, best.Merged, search))
		return best.Route, router.Props{Data: data, Ctx: best.Ctx(search, loc)}
	}

	if catchAll := s.router.CatchAll(); catchAll != nil {
		return catchAll, router.Props{Ctx: router.Ctx{Params: res.Params(), Search: search, Location: loc}}
	}
	if matched {
		return best.Route, router.Props{Ctx: best.Ctx(search, loc)}
	}
	return nil, router.Props{}
}

// renderRoute renders route with props through the configured renderer.
func (s *Server) renderRoute(ctx context.Context, route *router.Route, props router.Props) (body string, err error) {
	ctx, span := s.tracer.Start(ctx, "vitrio.render",
		trace.WithAttributes(attribute.String("vitrio.route", route.Path)),
	)
	defer span.End()

	start := time.Now()
	outcome := OutcomeOK
	defer func() {
		if rec := recover(); rec != nil {
			err = verrors.Panic("V104", rec).WithDetail("render %s", route.Path)
			body = ""
			outcome = OutcomePanic
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		s.observer.ObserveHook(HookEvent{
			Kind:     HookRender,
			Route:    route.Path,
			Outcome:  outcome,
			Duration: time.Since(start),
		})
	}()

	body, err = s.renderer.RenderToString(ctx, route.Render(props))
	if err != nil {
		outcome = OutcomeError
		return "", verrors.Wrap("V103", err).WithDetail("render %s", route.Path)
	}
	return body, nil
}

// serveError writes the 500 page. The diagnostic report is included only
// outside production.
func (s *Server) serveError(w http.ResponseWriter, r *http.Request, rs *requestState, err error) {
	s.logger.Error("request failed", "method", rs.method, "path", rs.path, "route", rs.route, "error", err)

	detail := ""
	if !s.config.Production {
		detail = verrors.Wrap("V101", err).Text()
	}
	var buf bytes.Buffer
	_ = render.RenderErrorPage(&buf, render.ErrorPageData{
		Title:  s.config.Title,
		Status: http.StatusInternalServerError,
		Detail: detail,
	})

	rs.status = http.StatusInternalServerError
	rs.label = LabelError
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusInternalServerError)
	if r.Method != http.MethodHead {
		_, _ = w.Write(buf.Bytes())
	}
}
