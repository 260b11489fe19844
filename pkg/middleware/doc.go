// Package middleware provides the observability layer for Vitrio
// applications.
//
// # Prometheus Metrics
//
// Metrics implements server.Observer, so the request controller reports
// every finished request and every loader, action and render call to it:
//
//	m := middleware.NewMetrics(middleware.WithNamespace("shop"))
//	srv := server.New(rt, &server.Config{Observer: m})
//	handler := m.Handler(srv)
//
// Collected series:
//   - vitrio_requests_total: requests by outcome label and status code
//   - vitrio_request_duration_seconds: request latency by outcome label
//   - vitrio_hooks_total: loader, action and render calls by outcome
//   - vitrio_hook_duration_seconds: hook latency by kind
//   - vitrio_http_in_flight_requests: requests currently being served
//   - vitrio_http_responses_total: responses by method and status code
//
// Expose them with promhttp:
//
//	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// # OpenTelemetry
//
// OpenTelemetry wraps an http.Handler in a server span and puts the span in
// the request context, so the controller's loader, action and render spans
// become its children:
//
//	handler = middleware.OpenTelemetry(
//	    middleware.WithTracerName("shop"),
//	    middleware.WithFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	)(handler)
//
// The tracer comes from the global provider unless WithTracerProvider is
// given. Incoming W3C trace context is extracted with the global propagator.
package middleware
