// Package server is the request lifecycle controller of Vitrio.
//
// A Server owns a compiled route table and answers every request with a
// rendered document or a redirect. It normalizes the URL, applies the
// security headers, makes sure the browser holds a CSRF token and then
// branches on the method:
//
//   - GET and HEAD run the loaders of all matched routes parent-first,
//     priming a request-scoped cache, and render the most specific route.
//   - POST verifies the CSRF token, runs the first action found parent-first
//     and always answers with a redirect (Post/Redirect/Get). The outcome
//     travels to the next GET in a one-shot flash cookie.
//
// # Status Codes
//
//	200  rendered, matched
//	404  rendered, unmatched or a loader returned NotFound
//	500  a loader or the render failed
//	301  trailing-slash normalization
//	302  loader redirect (default)
//	303  every redirect after a POST (default)
//	405  any other method
//
// # Errors
//
// Hook errors and panics never reach the transport. Loader failures become
// the 500 page, which shows the full diagnostic only outside production.
// Action failures are logged and downgraded to a failure flash.
//
// # Usage
//
//	rt := router.MustNew(routes)
//	srv := server.New(rt, &server.Config{Title: "Counter", Origin: "https://counter.example.com"})
//	http.ListenAndServe(":8787", srv)
package server
