package router

import (
	"context"
	"errors"
	"net/url"

	"github.com/vango-dev/vitrio/pkg/render"
	"github.com/vango-dev/vitrio/pkg/routepath"
)

// LoaderFunc fetches data for a GET request.
type LoaderFunc func(ctx context.Context, c Ctx) (Result, error)

// ActionFunc performs the side effect of a form POST.
type ActionFunc func(ctx context.Context, c Ctx, form url.Values) (Result, error)

// RenderFunc builds the view of a route.
type RenderFunc func(p Props) render.Component

// Route is one entry of the application's route table.
type Route struct {
	// Path is the route pattern, e.g. "/users/:id", "/docs/*" or "*".
	Path string

	// Loader runs on GET before rendering. Optional.
	Loader LoaderFunc

	// Action runs on POST. Optional.
	Action ActionFunc

	// Render builds the view. Required.
	Render RenderFunc

	// Client opts the route into client-side enhancement: the document
	// references the client entry script only when the rendered route sets it.
	Client bool

	// Title overrides the document title. Optional.
	Title string
}

// Location is the path, raw query and fragment of the request URL.
type Location struct {
	Path  string
	Query string
	Hash  string
}

// Ctx is the request context handed to hooks. It is built once per matched
// route and passed by value; hooks must not mutate its maps.
type Ctx struct {
	// Params holds the parameters merged from the outermost route down to
	// the route the context was built for.
	Params routepath.Params

	// Search holds the parsed query parameters.
	Search url.Values

	// Location is the request location.
	Location Location
}

// Param returns the named parameter, or "" if it is absent.
func (c Ctx) Param(name string) string {
	return c.Params[name]
}

// Props is what a RenderFunc receives.
type Props struct {
	// Data is the primed loader result of the rendered route, or nil when
	// the route has no loader.
	Data any

	// CSRFToken must be embedded in every form as the "_csrf" field.
	CSRFToken string

	// Action is a placeholder for programmatic action calls. Actions are only
	// reachable through real form submission, so Run always fails.
	Action ActionAPI

	// Ctx is the request context of the rendered route.
	Ctx Ctx
}

// ActionAPI is the programmatic action handle given to views.
type ActionAPI interface {
	Run(ctx context.Context, form url.Values) (any, error)
	Pending() bool
	Err() error
	Data() any
}

// ErrActionUnavailable is returned by the render-time action handle.
var ErrActionUnavailable = errors.New("router: actions are not available while rendering; submit the form with POST instead")

// UnavailableAction is the ActionAPI passed to every render.
type UnavailableAction struct{}

// Run always fails with ErrActionUnavailable.
func (UnavailableAction) Run(context.Context, url.Values) (any, error) {
	return nil, ErrActionUnavailable
}

// Pending reports false.
func (UnavailableAction) Pending() bool { return false }

// Err returns nil.
func (UnavailableAction) Err() error { return nil }

// Data returns nil.
func (UnavailableAction) Data() any { return nil }
