package assets

import "strings"

// Resolver maps a source asset name to the URL path it is served at.
type Resolver interface {
	// Asset resolves a source name, e.g. "client.js", to a URL path such as
	// "/assets/client.a1b2c3d4.js".
	Asset(source string) string
}

type manifestResolver struct {
	manifest *Manifest
	prefix   string
}

// NewResolver creates a Resolver that looks names up in m and prepends
// prefix, e.g. "/assets/".
func NewResolver(m *Manifest, prefix string) Resolver {
	return &manifestResolver{
		manifest: m,
		prefix:   prefix,
	}
}

func (r *manifestResolver) Asset(source string) string {
	return join(r.prefix, r.manifest.Resolve(trimSource(source)))
}

type passthrough struct {
	prefix string
}

// NewPassthroughResolver creates a resolver that only prepends prefix. It is
// used when no manifest exists, so development and production URLs keep the
// same shape.
func NewPassthroughResolver(prefix string) Resolver {
	return &passthrough{prefix: prefix}
}

func (p *passthrough) Asset(source string) string {
	return join(p.prefix, trimSource(source))
}

func trimSource(source string) string {
	return strings.TrimPrefix(source, "/")
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + name
}
