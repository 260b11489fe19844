// Package router holds the route table of a vitrio application and resolves
// request paths against it.
//
// A route is plain data: a path pattern plus optional hooks.
//
//	routes := []router.Route{
//	    {Path: "/org/:org/*", Loader: orgLoader, Render: orgLayout},
//	    {Path: "/org/:org/repo/:repo", Loader: repoLoader, Action: repoAction, Render: repoPage},
//	    {Path: "*", Render: notFoundPage},
//	}
//	r, err := router.New(routes)
//
// # Resolution
//
// Resolve returns every route whose pattern matches, excluding the
// universal "*" catch-all, ordered parent first: fewer compiled segments
// sort earlier and ties keep table order. Parameters are merged in that order
// so a more specific route overwrites a same-named parameter of its parent.
//
// The resolution answers three questions:
//
//   - Matches: all applicable routes, parent first (loader execution order)
//   - Best: the single most specific route to render (most segments)
//   - Action: the first route in parent-first order that defines an Action;
//     at most one action runs per request
//
// # Hook results
//
// Loaders and actions return a Result, a closed sum of Redirect, NotFound and
// Value. Redirect and NotFound also satisfy error, so a hook deep in a call
// chain may return them as errors and they are honoured the same way.
package router
