package vitrio

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vitrio/pkg/assets"
)

// Option customizes New.
type Option func(*options)

type options struct {
	logger         *slog.Logger
	registry       *prometheus.Registry
	tracerProvider trace.TracerProvider
	store          assets.Store
	trustedProxies []string
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegistry sets the Prometheus registry that receives the metrics and
// backs /metrics. Default: a fresh registry with the Go and process
// collectors.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithTracerProvider sets the tracer provider. Default: the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithAssetStore replaces the store built from the assets configuration.
// It is required when the configuration names an S3 bucket.
func WithAssetStore(store assets.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithTrustedProxies lists the proxy IPs or CIDRs whose X-Forwarded-Proto
// and Forwarded headers are honored for the Secure cookie flag.
func WithTrustedProxies(proxies ...string) Option {
	return func(o *options) {
		o.trustedProxies = proxies
	}
}
