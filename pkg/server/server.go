package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vitrio/pkg/render"
	"github.com/vango-dev/vitrio/pkg/router"
	"github.com/vango-dev/vitrio/pkg/routepath"
)

// tracerName is the instrumentation scope of the server spans.
const tracerName = "github.com/vango-dev/vitrio/pkg/server"

// Server answers requests against a compiled route table. It keeps no
// per-request state between calls and is safe for concurrent use.
type Server struct {
	router *router.Router

	// Configuration
	config *Config

	renderer render.Renderer
	logger   *slog.Logger
	tracer   trace.Tracer
	observer Observer

	trustedProxies proxySet
}

// New creates a Server for rt. A nil config uses DefaultConfig; unset fields
// of a non-nil config are filled with defaults. The config is copied.
func New(rt *router.Router, config *Config) *Server {
	cfg := config.withDefaults()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "server")

	renderer := cfg.Renderer
	if renderer == nil {
		renderer = render.NewRenderer(render.RendererConfig{})
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	var observer Observer = nopObserver{}
	if cfg.Observer != nil {
		observer = cfg.Observer
	}

	if cfg.Production && cfg.CSRFSecret == nil {
		logger.Warn("CSRF secret not configured; tokens are unsigned")
	}

	return &Server{
		router:         rt,
		config:         cfg,
		renderer:       renderer,
		logger:         logger,
		tracer:         tracer,
		observer:       observer,
		trustedProxies: parseProxies(cfg.TrustedProxies, logger),
	}
}

// Config returns a copy of the effective configuration.
func (s *Server) Config() *Config {
	return s.config.Clone()
}

// Router returns the route table.
func (s *Server) Router() *router.Router {
	return s.router
}

// requestState collects what the request log and observer need.
type requestState struct {
	method string
	path   string
	route  string
	label  Label
	status int
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	path := routepath.CollapseLeadingSlashes(r.URL.EscapedPath())
	rs := &requestState{method: r.Method, path: path}
	defer s.finish(rs, start)

	if target, ok := routepath.NormalizeLocation(path, r.URL.RawQuery); ok {
		s.redirect(w, rs, s.appLocation(target), http.StatusMovedPermanently, LabelNormalize)
		return
	}

	setSecurityHeaders(w.Header())
	jar := httpCookieJar{r: r, w: w}
	token := s.ensureCSRF(r, jar)

	switch {
	case isReadMethod(r.Method):
		s.serveDocument(w, r, rs, jar, token)
	case r.Method == http.MethodPost:
		s.serveAction(w, r, rs, jar)
	default:
		w.Header().Set("Allow", allowedMethods)
		rs.label = LabelMethodNotAllowed
		rs.status = http.StatusMethodNotAllowed
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

// location maps an application path to a client-visible URL by adding the
// base path. Absolute and protocol-relative URLs pass through.
func (s *Server) location(to string) string {
	if strings.HasPrefix(to, "/") && !strings.HasPrefix(to, "//") {
		return routepath.JoinBase(s.config.BasePath, to)
	}
	return to
}

// appLocation is location for targets built from the request path. They are
// always application paths, never protocol-relative URLs.
func (s *Server) appLocation(path string) string {
	return routepath.JoinBase(s.config.BasePath, routepath.CollapseLeadingSlashes(path))
}

// redirect writes a redirect to an already mapped location with an empty
// body.
func (s *Server) redirect(w http.ResponseWriter, rs *requestState, location string, status int, label Label) {
	w.Header().Set("Location", location)
	w.WriteHeader(status)
	rs.status = status
	rs.label = label
}

func (s *Server) finish(rs *requestState, start time.Time) {
	d := time.Since(start)
	s.observer.ObserveRequest(RequestEvent{
		Method:   rs.method,
		Path:     rs.path,
		Route:    rs.route,
		Label:    rs.label,
		Status:   rs.status,
		Duration: d,
	})
	if !s.config.Production {
		s.logger.Info("request",
			"method", rs.method,
			"path", rs.path,
			"label", string(rs.label),
			"status", rs.status,
			"duration", d,
		)
	}
}
