package assets

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"
)

// ErrNotFound is returned by a Store when the named object does not exist.
var ErrNotFound = errors.New("assets: not found")

// Object is an open asset. The caller must close Body.
type Object struct {
	// Body is the content. DirStore bodies also implement io.ReadSeeker,
	// which enables range requests.
	Body io.ReadCloser

	// Size is the content length, -1 if unknown.
	Size int64

	ModTime time.Time

	// ContentType is the stored media type, "" to detect from the name.
	ContentType string

	// ETag is the stored entity tag including quotes, "" if unknown.
	ETag string
}

// Store is a read-only source of static assets.
type Store interface {
	// Open returns the object called name, a slash-separated relative
	// path such as "css/app.css". It returns ErrNotFound when there is no
	// such object.
	Open(ctx context.Context, name string) (*Object, error)
}

// CleanName validates a request path relative to the assets root and
// returns its cleaned form. Traversal, absolute paths, backslashes and NUL
// bytes are rejected.
func CleanName(name string) (string, bool) {
	if name == "" || strings.IndexByte(name, 0) != -1 || strings.Contains(name, "\\") {
		return "", false
	}
	// "/assets//etc/passwd" leaves a leading slash after prefix stripping.
	if strings.HasPrefix(name, "/") {
		return "", false
	}
	// Dot segments are rejected before cleaning so Clean cannot hide them.
	for _, seg := range strings.Split(name, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}
	clean := path.Clean(name)
	if clean == "." || clean == "/" || strings.HasPrefix(clean, "../") {
		return "", false
	}
	return clean, true
}
