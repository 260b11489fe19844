package server

import (
	"context"
	"errors"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	verrors "github.com/vango-dev/vitrio/internal/errors"
	"github.com/vango-dev/vitrio/pkg/loadercache"
	"github.com/vango-dev/vitrio/pkg/router"
)

// loadOutcome is how the loader pipeline ended. The zero value means every
// loader produced data.
type loadOutcome struct {
	redirect *router.Redirect
	notFound bool
	err      error
	// route is the pattern of the loader that ended the pipeline.
	route string
}

// runLoaders runs the loaders of res parent-first and primes cache with
// their data. The first redirect, not-found or failure stops the pipeline.
func (s *Server) runLoaders(ctx context.Context, res router.Resolution, search url.Values, loc router.Location, cache *loadercache.Cache) loadOutcome {
	for _, m := range res.Matches {
		if m.Route.Loader == nil {
			continue
		}
		c := m.Ctx(search, loc)
		key := loadercache.Key(m.Route.Path, m.Merged, search)
		_, err := cache.Load(ctx, key, func(ctx context.Context) (any, error) {
			return s.callLoader(ctx, m, c)
		})
		if err == nil {
			continue
		}

		var redirect router.Redirect
		if errors.As(err, &redirect) {
			return loadOutcome{redirect: &redirect, route: m.Route.Path}
		}
		var notFound router.NotFound
		if errors.As(err, &notFound) {
			return loadOutcome{notFound: true, route: m.Route.Path}
		}
		return loadOutcome{err: err, route: m.Route.Path}
	}
	return loadOutcome{}
}

// callLoader invokes one loader. Redirect and NotFound results come back as
// errors so the cache records them as rejected; panics become coded errors.
func (s *Server) callLoader(ctx context.Context, m router.Match, c router.Ctx) (data any, err error) {
	ctx, span := s.tracer.Start(ctx, "vitrio.loader",
		trace.WithAttributes(attribute.String("vitrio.route", m.Route.Path)),
	)
	defer span.End()

	start := time.Now()
	outcome := OutcomeOK
	defer func() {
		if rec := recover(); rec != nil {
			err = verrors.Panic("V104", rec).WithDetail("loader %s", m.Route.Path)
			data = nil
			outcome = OutcomePanic
		}
		if outcome == OutcomeError || outcome == OutcomePanic {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.String("vitrio.outcome", outcome))
		s.observer.ObserveHook(HookEvent{
			Kind:     HookLoader,
			Route:    m.Route.Path,
			Outcome:  outcome,
			Duration: time.Since(start),
		})
	}()

	res, err := router.Outcome(m.Route.Loader(ctx, c))
	if err != nil {
		outcome = OutcomeError
		return nil, verrors.Wrap("V101", err).WithDetail("loader %s", m.Route.Path)
	}

	switch r := res.(type) {
	case router.Redirect:
		outcome = OutcomeRedirect
		return nil, r
	case router.NotFound:
		outcome = OutcomeNotFound
		return nil, r
	case router.Value:
		return r.Data, nil
	default:
		outcome = OutcomeError
		return nil, verrors.Newf(verrors.CategoryHook, "loader %s returned unknown result %T", m.Route.Path, res)
	}
}
