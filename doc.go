// Package vitrio assembles the request controller, static assets, metrics,
// tracing and development live reload into one http.Handler.
//
// A minimal application:
//
//	cfg, err := vitrio.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	app, err := vitrio.New(cfg, []router.Route{
//	    {Path: "/", Render: func(p router.Props) render.Component {
//	        return render.Text("hello")
//	    }},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(app.Run(ctx))
//
// The handler serves:
//
//	/metrics               Prometheus metrics (outside the base path)
//	/healthz               liveness probe (outside the base path)
//	{base}/assets/*        static files from the configured store
//	{base}/_vitrio/reload  live-reload socket, development only
//	{base}/*               pages: GET and HEAD run loaders, POST runs actions
package vitrio
