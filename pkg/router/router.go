package router

import (
	"errors"
	"fmt"
	"net/url"
	"sort"

	"github.com/vango-dev/vitrio/pkg/routepath"
)

// ErrNoRender is returned by New for a route without a Render function.
var ErrNoRender = errors.New("router: route has no Render function")

// compiledRoute pairs a route with its compiled pattern and table position.
type compiledRoute struct {
	route   *Route
	pattern routepath.Pattern
	index   int
}

// Router is a compiled, read-only route table. It is safe for concurrent use.
type Router struct {
	routes   []compiledRoute
	catchAll *Route
}

// New compiles the route table. Patterns are compiled once here and never
// again; routes are copied so later changes to the slice have no effect.
func New(routes []Route) (*Router, error) {
	r := &Router{routes: make([]compiledRoute, 0, len(routes))}
	for i := range routes {
		route := routes[i]
		if route.Render == nil {
			return nil, fmt.Errorf("%w: %q", ErrNoRender, route.Path)
		}
		pattern := routepath.Compile(route.Path)
		if pattern.IsCatchAll() {
			if r.catchAll == nil {
				r.catchAll = &route
			}
			continue
		}
		r.routes = append(r.routes, compiledRoute{route: &route, pattern: pattern, index: i})
	}

	// Parent first. The stable sort keeps table order among equal lengths.
	sort.SliceStable(r.routes, func(a, b int) bool {
		return r.routes[a].pattern.Len() < r.routes[b].pattern.Len()
	})
	return r, nil
}

// MustNew is New that panics on error. Intended for static route tables.
func MustNew(routes []Route) *Router {
	r, err := New(routes)
	if err != nil {
		panic(err)
	}
	return r
}

// CatchAll returns the "*" route, or nil when the table has none.
func (r *Router) CatchAll() *Route {
	return r.catchAll
}

// Len returns the number of routes excluding the catch-all.
func (r *Router) Len() int {
	return len(r.routes)
}

// RouteInfo describes a compiled route for introspection.
type RouteInfo struct {
	Route   *Route
	Pattern routepath.Pattern
}

// Routes lists the compiled routes in parent-first order, followed by the
// catch-all if present.
func (r *Router) Routes() []RouteInfo {
	out := make([]RouteInfo, 0, len(r.routes)+1)
	for _, cr := range r.routes {
		out = append(out, RouteInfo{Route: cr.route, Pattern: cr.pattern})
	}
	if r.catchAll != nil {
		out = append(out, RouteInfo{Route: r.catchAll, Pattern: routepath.Compile(routepath.CatchAll)})
	}
	return out
}

// Match is one route that applies to a request path.
type Match struct {
	// Route is the matched route.
	Route *Route

	// Pattern is the compiled pattern of Route.
	Pattern routepath.Pattern

	// Params are the parameters captured by this route alone.
	Params routepath.Params

	// Merged are the parameters merged from the outermost match down to and
	// including this one.
	Merged routepath.Params

	// index is the table position, used to break ties for Best.
	index int
}

// Ctx builds the request context for this match.
func (m Match) Ctx(search url.Values, loc Location) Ctx {
	return Ctx{Params: m.Merged, Search: search, Location: loc}
}

// Resolution is the set of routes applying to one request path.
type Resolution struct {
	// Path is the escaped request path that was resolved.
	Path string

	// Matches are the matching routes, parent first. The catch-all is
	// never included.
	Matches []Match

	// CatchAll is the table's "*" route, if any.
	CatchAll *Route
}

// Resolve finds every route matching the escaped request path.
func (r *Router) Resolve(path string) Resolution {
	segments := routepath.Split(path)
	res := Resolution{Path: path, CatchAll: r.catchAll}

	merged := routepath.Params{}
	for _, cr := range r.routes {
		params, ok := cr.pattern.MatchSegments(segments)
		if !ok {
			continue
		}
		next := make(routepath.Params, len(merged)+len(params))
		for k, v := range merged {
			next[k] = v
		}
		for k, v := range params {
			next[k] = v
		}
		merged = next
		res.Matches = append(res.Matches, Match{
			Route:   cr.route,
			Pattern: cr.pattern,
			Params:  params,
			Merged:  merged,
			index:   cr.index,
		})
	}
	return res
}

// Matched reports whether any non-catch-all route matched.
func (res Resolution) Matched() bool {
	return len(res.Matches) > 0
}

// Params returns the parameters merged across all matches.
func (res Resolution) Params() routepath.Params {
	if len(res.Matches) == 0 {
		return routepath.Params{}
	}
	return res.Matches[len(res.Matches)-1].Merged
}

// Best returns the most specific match: the one with the most segments,
// the earliest in the route table among equals.
func (res Resolution) Best() (Match, bool) {
	if len(res.Matches) == 0 {
		return Match{}, false
	}
	best := res.Matches[0]
	for _, m := range res.Matches[1:] {
		if m.Pattern.Len() > best.Pattern.Len() ||
			(m.Pattern.Len() == best.Pattern.Len() && m.index < best.index) {
			best = m
		}
	}
	return best, true
}

// Action returns the route whose action handles a POST: the first match in
// parent-first order that defines one.
func (res Resolution) Action() (Match, bool) {
	for _, m := range res.Matches {
		if m.Route.Action != nil {
			return m, true
		}
	}
	return Match{}, false
}
