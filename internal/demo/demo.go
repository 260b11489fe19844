// Package demo is the example application served by "vitrio serve": a
// counter with a PRG form, a client-enhanced reference page, moved pages,
// parameterized and nested routes, and the not-found and failure paths.
package demo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/vango-dev/vitrio/pkg/render"
	"github.com/vango-dev/vitrio/pkg/router"
)

// ErrUnknownIntent is returned by the counter action for an unrecognized
// "intent" field.
var ErrUnknownIntent = errors.New("demo: unknown intent")

// App holds the demo application's state.
type App struct {
	count atomic.Int64
	now   func() time.Time
}

// New creates a demo application with the counter at zero.
func New() *App {
	return &App{now: time.Now}
}

// Routes returns the route table of a fresh demo application.
func Routes() []router.Route {
	return New().Routes()
}

// Count returns the current counter value.
func (a *App) Count() int64 {
	return a.count.Load()
}

// HomeData is the loader data of the home page.
type HomeData struct {
	Now   int64 `json:"now"`
	Count int64 `json:"count"`
}

// CounterResult is returned by the counter action.
type CounterResult struct {
	OK       bool  `json:"ok"`
	NewCount int64 `json:"newCount"`
}

// Routes returns the route table. Order matters only among routes of equal
// depth.
func (a *App) Routes() []router.Route {
	return []router.Route{
		{
			Path:   "/",
			Title:  "Vitrio",
			Loader: a.loadHome,
			Action: a.counterAction,
			Render: page("home"),
		},
		{
			Path:   "/reference",
			Title:  "Reference | Vitrio",
			Client: true,
			Loader: func(context.Context, router.Ctx) (router.Result, error) {
				return router.Data(map[string]string{"version": "v1"}), nil
			},
			Render: func(p router.Props) render.Component {
				return render.Fragment(
					page("reference")(p),
					render.Island("copy", map[string]string{"text": "go get github.com/vango-dev/vitrio"},
						render.HTML(`<code>go get github.com/vango-dev/vitrio</code>`)),
				)
			},
		},
		moved("/docs", "/#quickstart"),
		moved("/docs/getting-started", "/#quickstart"),
		moved("/docs/why", "/reference"),
		{
			Path:   "/users/:id",
			Loader: loadUser,
			Render: page("user"),
		},
		{
			Path: "/org/:org/*",
			Loader: func(_ context.Context, c router.Ctx) (router.Result, error) {
				return router.Data(map[string]string{"org": c.Param("org")}), nil
			},
			Render: page("org"),
		},
		{
			Path: "/org/:org/repo/:repo",
			Loader: func(_ context.Context, c router.Ctx) (router.Result, error) {
				return router.Data(map[string]string{
					"org":  c.Param("org"),
					"repo": c.Param("repo"),
				}), nil
			},
			Render: page("repo"),
		},
		{
			Path: "/missing",
			Loader: func(context.Context, router.Ctx) (router.Result, error) {
				return router.NotFoundResult(), nil
			},
			Render: page("notfound"),
		},
		{
			Path: "/boom",
			Loader: func(context.Context, router.Ctx) (router.Result, error) {
				return nil, errors.New("demo: the /boom loader always fails")
			},
			Render: page("home"),
		},
		{
			Path:   "*",
			Title:  "Not Found | Vitrio",
			Render: page("notfound"),
		},
	}
}

func (a *App) loadHome(context.Context, router.Ctx) (router.Result, error) {
	return router.Data(HomeData{Now: a.now().UnixMilli(), Count: a.Count()}), nil
}

func (a *App) counterAction(_ context.Context, _ router.Ctx, form url.Values) (router.Result, error) {
	switch intent := form.Get("intent"); intent {
	case "inc":
		return router.Data(CounterResult{OK: true, NewCount: a.count.Add(1)}), nil
	case "reset":
		a.count.Store(0)
		return router.Data(CounterResult{OK: true}), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownIntent, intent)
	}
}

type userParams struct {
	ID int `param:"id"`
}

func loadUser(_ context.Context, c router.Ctx) (router.Result, error) {
	var p userParams
	if err := c.Bind(&p); err != nil || p.ID <= 0 {
		return router.NotFoundResult(), nil
	}
	return router.Data(map[string]int{"id": p.ID}), nil
}

// moved is a page that now lives elsewhere.
func moved(path, to string) router.Route {
	return router.Route{
		Path: path,
		Loader: func(context.Context, router.Ctx) (router.Result, error) {
			return router.RedirectTo(to, 301), nil
		},
		Render: page("notfound"),
	}
}
