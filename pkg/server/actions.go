package server

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	verrors "github.com/vango-dev/vitrio/internal/errors"
	"github.com/vango-dev/vitrio/pkg/router"
)

// serveAction runs the POST pipeline. Every outcome is a redirect: the
// action's own redirect, or a 303 back to the same path with a flash.
func (s *Server) serveAction(w http.ResponseWriter, r *http.Request, rs *requestState, jar CookieJar) {
	ctx, span := s.tracer.Start(r.Context(), "vitrio.action",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("vitrio.path", rs.path)),
	)
	defer span.End()

	back := func(ok bool, data any, label Label) {
		s.setFlash(r, jar, s.newFlash(ok, data))
		s.redirect(w, rs, s.appLocation(rs.path), http.StatusSeeOther, label)
		span.SetAttributes(attribute.String("vitrio.label", string(label)))
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxFormBytes)
	if err := s.parseForm(r); err != nil {
		s.logger.Warn("form parse failed", "path", rs.path, "error", err)
		back(false, nil, LabelActionFailed)
		return
	}

	if !s.originAllowed(r) {
		s.logger.Warn("csrf verification failed",
			"path", rs.path,
			"origin", r.Header.Get("Origin"),
			"error", verrors.Wrap("V105", ErrOriginMismatch),
		)
		back(false, nil, LabelCSRFFailed)
		return
	}
	cookieToken, _ := jar.Get(CSRFCookieName)
	if !s.verifyCSRF(cookieToken, r.PostForm.Get(CSRFFieldName)) {
		s.logger.Warn("csrf verification failed",
			"path", rs.path,
			"error", verrors.Wrap("V105", ErrInvalidCSRF),
		)
		back(false, nil, LabelCSRFFailed)
		return
	}

	res := s.router.Resolve(rs.path)
	m, ok := res.Action()
	if !ok {
		s.logger.Warn("action failed", "path", rs.path, "error", ErrNoAction)
		back(false, nil, LabelActionFailed)
		return
	}
	rs.route = m.Route.Path

	form := make(url.Values, len(r.PostForm))
	for k, v := range r.PostForm {
		if k != CSRFFieldName {
			form[k] = v
		}
	}
	c := m.Ctx(r.URL.Query(), router.Location{Path: rs.path, Query: r.URL.RawQuery, Hash: r.URL.Fragment})

	result, err := s.callAction(ctx, m, c, form)
	if err != nil {
		s.logger.Error("action failed", "path", rs.path, "route", m.Route.Path, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		back(false, nil, LabelActionFailed)
		return
	}

	switch out := result.(type) {
	case router.Redirect:
		s.redirect(w, rs, s.location(out.To), out.StatusOr(http.StatusSeeOther), LabelActionRedirect)
	case router.NotFound:
		back(false, nil, LabelActionFailed)
	case router.Value:
		back(true, out.Data, LabelActionOK)
	}
}

// parseForm reads an urlencoded or multipart body into r.PostForm. For
// multipart bodies net/http copies the text fields into r.PostForm; uploaded
// files are discarded.
func (s *Server) parseForm(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.ParseForm()
	}
	err := r.ParseMultipartForm(s.config.MaxFormBytes)
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
	if errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	return err
}

// callAction invokes the action of m, normalizing its result and turning
// panics into coded errors.
func (s *Server) callAction(ctx context.Context, m router.Match, c router.Ctx, form url.Values) (result router.Result, err error) {
	start := time.Now()
	outcome := OutcomeOK
	defer func() {
		if rec := recover(); rec != nil {
			err = verrors.Panic("V104", rec).WithDetail("action %s", m.Route.Path)
			result = nil
			outcome = OutcomePanic
		}
		s.observer.ObserveHook(HookEvent{
			Kind:     HookAction,
			Route:    m.Route.Path,
			Outcome:  outcome,
			Duration: time.Since(start),
		})
	}()

	result, err = router.Outcome(m.Route.Action(ctx, c, form))
	if err != nil {
		outcome = OutcomeError
		return nil, verrors.Wrap("V102", err).WithDetail("action %s", m.Route.Path)
	}
	switch res := result.(type) {
	case router.Redirect:
		outcome = OutcomeRedirect
	case router.NotFound:
		outcome = OutcomeNotFound
	case router.Value:
	default:
		outcome = OutcomeError
		return nil, verrors.Newf(verrors.CategoryHook, "action %s returned unknown result %T", m.Route.Path, res)
	}
	return result, nil
}
