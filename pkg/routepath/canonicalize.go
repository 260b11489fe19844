package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidPercentEscape is returned when a segment holds a malformed
// percent-escape such as "%GG" or a trailing "%2".
var ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")

// Split splits a path on "/" and discards empty segments, so "/a//b/" and
// "a/b" both yield ["a", "b"].
func Split(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DecodeSegment percent-decodes a single path segment.
func DecodeSegment(segment string) (string, error) {
	if !strings.Contains(segment, "%") {
		return segment, nil
	}
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return "", ErrInvalidPercentEscape
	}
	return decoded, nil
}

// TrimTrailingSlash strips a single trailing slash from a non-root path.
// The second result reports whether the path changed; "/" is never changed.
func TrimTrailingSlash(path string) (string, bool) {
	if path == "/" || !strings.HasSuffix(path, "/") {
		return path, false
	}
	return strings.TrimSuffix(path, "/"), true
}

// CollapseLeadingSlashes rewrites a run of leading slashes to one, so a
// request path such as "//host/x" can never be read back as a
// protocol-relative URL. The empty path becomes "/".
func CollapseLeadingSlashes(path string) string {
	if len(path) > 1 && path[0] == '/' && path[1] != '/' {
		return path
	}
	return "/" + strings.TrimLeft(path, "/")
}

// NormalizeLocation returns the redirect target for a request whose path
// ends in a trailing slash, preserving the raw query string. Leading slashes
// are collapsed first. ok is false when no redirect is needed.
func NormalizeLocation(path, rawQuery string) (target string, ok bool) {
	path = CollapseLeadingSlashes(path)
	trimmed, changed := TrimTrailingSlash(path)
	if !changed {
		return "", false
	}
	if rawQuery != "" {
		return trimmed + "?" + rawQuery, true
	}
	return trimmed, true
}

// JoinBase prefixes an absolute path with a mount prefix such as "/app".
// An empty or "/" base leaves the path unchanged.
func JoinBase(base, path string) string {
	base = strings.TrimSuffix(base, "/")
	if base == "" {
		return path
	}
	if path == "" || path == "/" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
