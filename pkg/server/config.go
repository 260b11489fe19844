package server

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vitrio/pkg/render"
)

const (
	// CSRFCookieName is the name of the CSRF cookie.
	CSRFCookieName = "vitrio_csrf"

	// CSRFFieldName is the form field every mutation must carry.
	CSRFFieldName = "_csrf"

	// FlashCookieName is the name of the one-shot flash cookie.
	FlashCookieName = "vitrio_flash"

	// DefaultMaxFormBytes is the default limit for POST bodies.
	DefaultMaxFormBytes = 1 << 20
)

// Config holds configuration for the request controller.
type Config struct {
	// Title is the default document title. Route.Title overrides it.
	// Default: "Vitrio".
	Title string

	// Lang is the document language. Default: "en".
	Lang string

	// BasePath is the prefix the application is mounted under, e.g. "/app".
	// Requests reach the Server with the prefix already stripped; redirects
	// and script URLs get it added back.
	BasePath string

	// Origin is the public origin, e.g. "https://example.com". When set, a
	// POST whose Origin header names another origin fails CSRF verification.
	Origin string

	// Production hides diagnostics from the 500 page and disables the
	// per-request log line.
	Production bool

	// CSRFSecret HMAC-signs CSRF tokens. When nil tokens are random UUIDs.
	CSRFSecret []byte

	// ClientScript is the URL of the client enhancement entry point,
	// relative to BasePath. Default: "/assets/client.js".
	ClientScript string

	// StyleSheets are linked from every document, relative to BasePath.
	StyleSheets []string

	// DevScript is an inline script appended to every document (live reload).
	DevScript string

	// MaxFormBytes limits POST bodies. Default: 1MB.
	MaxFormBytes int64

	// SecureCookies forces the Secure attribute. Without it the attribute is
	// set only when the request arrived over TLS directly or through a
	// trusted proxy.
	SecureCookies bool

	// TrustedProxies lists proxy IPs or CIDRs whose forwarded protocol
	// headers are believed.
	TrustedProxies []string

	// Renderer turns components into markup. Default: render.NewRenderer.
	Renderer render.Renderer

	// Logger receives request and hook logs. Default: slog.Default().
	Logger *slog.Logger

	// Tracer creates loader, action and render spans. Default: a no-op tracer.
	Tracer trace.Tracer

	// Observer receives request and hook events (metrics). Optional.
	Observer Observer

	// Now returns the current time; flash timestamps use it. Default: time.Now.
	Now func() time.Time
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Title:        "Vitrio",
		Lang:         "en",
		ClientScript: "/assets/client.js",
		MaxFormBytes: DefaultMaxFormBytes,
		Now:          time.Now,
	}
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	if c.CSRFSecret != nil {
		clone.CSRFSecret = make([]byte, len(c.CSRFSecret))
		copy(clone.CSRFSecret, c.CSRFSecret)
	}
	if c.StyleSheets != nil {
		clone.StyleSheets = append([]string(nil), c.StyleSheets...)
	}
	if c.TrustedProxies != nil {
		clone.TrustedProxies = append([]string(nil), c.TrustedProxies...)
	}
	return &clone
}

// withDefaults returns a copy of c with unset fields filled in.
func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	if c == nil {
		return defaults
	}
	cfg := c.Clone()
	if cfg.Title == "" {
		cfg.Title = defaults.Title
	}
	if cfg.Lang == "" {
		cfg.Lang = defaults.Lang
	}
	if cfg.ClientScript == "" {
		cfg.ClientScript = defaults.ClientScript
	}
	if cfg.MaxFormBytes <= 0 {
		cfg.MaxFormBytes = defaults.MaxFormBytes
	}
	if cfg.Now == nil {
		cfg.Now = defaults.Now
	}
	return cfg
}
