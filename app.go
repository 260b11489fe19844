package vitrio

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vitrio/internal/dev"
	verrors "github.com/vango-dev/vitrio/internal/errors"
	"github.com/vango-dev/vitrio/pkg/assets"
	"github.com/vango-dev/vitrio/pkg/middleware"
	"github.com/vango-dev/vitrio/pkg/router"
	"github.com/vango-dev/vitrio/pkg/server"
)

const (
	// AssetsPath is where static assets are served, relative to the base path.
	AssetsPath = "/assets/"

	// MetricsPath serves Prometheus metrics.
	MetricsPath = "/metrics"

	// HealthPath answers liveness probes.
	HealthPath = "/healthz"

	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// App is a Vitrio application: the request controller plus everything
// around it. It implements http.Handler.
type App struct {
	config   *Config
	server   *server.Server
	handler  http.Handler
	metrics  *middleware.Metrics
	registry *prometheus.Registry
	store    assets.Store
	reload   *dev.ReloadServer
	watcher  *dev.Watcher
	logger   *slog.Logger
}

// New builds an application from cfg and the route table. The route table
// is compiled once; an invalid table or asset configuration is an error.
func New(cfg *Config, routes []router.Route, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}
	reg := o.registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	tp := o.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	rt, err := router.New(routes)
	if err != nil {
		return nil, verrors.Wrap("V100", err)
	}

	a := &App{
		config:   cfg,
		registry: reg,
		logger:   logger.With("component", "app"),
	}

	a.store, err = openStore(cfg, o.store, a.logger)
	if err != nil {
		return nil, err
	}
	resolver := a.resolver(context.Background())

	a.metrics = middleware.NewMetrics(middleware.WithRegistry(reg))

	serverCfg := server.DefaultConfig()
	serverCfg.Title = cfg.Name
	serverCfg.BasePath = cfg.BasePath
	serverCfg.Origin = cfg.NormalizedOrigin()
	serverCfg.Production = cfg.IsProduction()
	if cfg.CSRFSecret != "" {
		serverCfg.CSRFSecret = []byte(cfg.CSRFSecret)
	}
	serverCfg.ClientScript = resolver.Asset(cfg.Assets.ClientScript)
	for _, name := range cfg.Assets.StyleSheets {
		serverCfg.StyleSheets = append(serverCfg.StyleSheets, resolver.Asset(name))
	}
	serverCfg.TrustedProxies = o.trustedProxies
	serverCfg.Logger = logger
	serverCfg.Tracer = tp.Tracer("github.com/vango-dev/vitrio/pkg/server")
	serverCfg.Observer = a.metrics

	if !cfg.IsProduction() && !cfg.Dev.DisableReload {
		a.reload = dev.NewReloadServer()
		serverCfg.DevScript = dev.Script(cfg.BasePath)
		if len(cfg.Dev.Watch) > 0 {
			a.watcher = dev.NewWatcher(dev.WatcherConfig{
				Paths:    cfg.Dev.Watch,
				Interval: cfg.PollInterval(),
			})
			dev.ReloadOn(a.watcher, a.reload)
		}
	}

	a.server = server.New(rt, serverCfg)
	a.handler = a.routes(tp)
	return a, nil
}

// openStore returns the configured asset store, or nil when the default
// directory does not exist.
func openStore(cfg *Config, override assets.Store, logger *slog.Logger) (assets.Store, error) {
	if override != nil {
		return override, nil
	}
	if cfg.Assets.Bucket != "" {
		return nil, verrors.New("V301").WithDetail("bucket %q is configured but no S3 store was provided", cfg.Assets.Bucket)
	}
	if cfg.Assets.Dir == "" {
		return nil, nil
	}
	store, err := assets.NewDirStore(cfg.Assets.Dir)
	if err != nil {
		logger.Warn("static assets disabled", "dir", cfg.Assets.Dir, "error", err)
		return nil, nil
	}
	return store, nil
}

// resolver loads the fingerprint manifest when one is configured.
func (a *App) resolver(ctx context.Context) assets.Resolver {
	prefix := a.config.BasePath + AssetsPath
	name := a.config.Assets.Manifest
	if a.store == nil || name == "" {
		return assets.NewPassthroughResolver(prefix)
	}
	m, err := assets.LoadFromStore(ctx, a.store, name)
	if err != nil {
		a.logger.Warn("asset manifest not loaded", "manifest", name, "error", err)
		return assets.NewPassthroughResolver(prefix)
	}
	return assets.NewResolver(m, prefix)
}

// routes builds the chi handler tree.
func (a *App) routes(tp trace.TracerProvider) http.Handler {
	cacheMode := assets.CacheNone
	if a.config.IsProduction() {
		cacheMode = assets.CacheProduction
	}

	site := chi.NewRouter()
	if a.store != nil {
		site.Handle(AssetsPath+"*", assets.Handler(a.store, assets.HandlerOptions{
			Prefix:    AssetsPath,
			CacheMode: cacheMode,
			Logger:    a.logger,
		}))
	}
	if a.reload != nil {
		site.HandleFunc(dev.ReloadPath, a.reload.HandleWebSocket)
	}
	site.Handle("/*", a.server)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Heartbeat(HealthPath))
	r.Use(middleware.OpenTelemetry(
		middleware.WithTracerProvider(tp),
		middleware.WithFilter(func(req *http.Request) bool {
			return req.URL.Path != MetricsPath
		}),
	))
	r.Use(a.metrics.Handler)
	r.Handle(MetricsPath, promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	base := a.config.BasePath
	if base == "" {
		r.Mount("/", site)
	} else {
		r.Mount(base, http.StripPrefix(base, site))
	}
	return r
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// Handler returns the App as an http.Handler.
func (a *App) Handler() http.Handler {
	return a
}

// Server returns the request controller.
func (a *App) Server() *server.Server {
	return a.server
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Registry returns the Prometheus registry backing /metrics.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}

// Run listens on the configured address and serves until ctx is done, then
// shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.config.Address())
	if err != nil {
		return err
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully. It
// closes ln.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if a.watcher != nil {
		go func() {
			if err := a.watcher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn("file watcher stopped", "error", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting",
			"address", ln.Addr().String(),
			"basePath", a.config.BasePath,
			"env", a.config.Env,
		)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down...")
	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	if a.reload != nil {
		a.reload.Close()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("shutdown error", "error", err)
		return err
	}
	a.logger.Info("server shutdown complete")
	return nil
}
