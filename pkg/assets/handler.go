package assets

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"
)

// CacheMode selects the Cache-Control policy of the asset handler.
type CacheMode int

const (
	// CacheNone disables caching (development).
	CacheNone CacheMode = iota

	// CacheProduction caches fingerprinted files for a year and everything
	// else for an hour with revalidation.
	CacheProduction
)

// HandlerOptions configures Handler.
type HandlerOptions struct {
	// Prefix is stripped from the request path before the store lookup,
	// e.g. "/assets/".
	Prefix string

	CacheMode CacheMode

	// Headers are added to every successful response.
	Headers map[string]string

	Logger *slog.Logger
}

// Handler serves GET and HEAD requests from store.
func Handler(store Store, opts HandlerOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "assets")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		name := stripPrefix(r.URL.Path, opts.Prefix)
		obj, err := store.Open(r.Context(), name)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				logger.Error("asset open failed", "name", name, "error", err)
				http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
				return
			}
			http.NotFound(w, r)
			return
		}
		defer obj.Body.Close()

		h := w.Header()
		setCacheHeaders(h, opts.CacheMode, name)
		for key, value := range opts.Headers {
			h.Set(key, value)
		}
		if obj.ContentType != "" {
			h.Set("Content-Type", obj.ContentType)
		}
		if obj.ETag != "" {
			h.Set("ETag", obj.ETag)
		}

		if rs, ok := obj.Body.(io.ReadSeeker); ok {
			http.ServeContent(w, r, name, obj.ModTime, rs)
			return
		}
		serveStream(w, r, name, obj)
	})
}

// serveStream writes a non-seekable object, answering conditional requests
// from the stored ETag.
func serveStream(w http.ResponseWriter, r *http.Request, name string, obj *Object) {
	h := w.Header()
	if obj.ETag != "" && r.Header.Get("If-None-Match") == obj.ETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if h.Get("Content-Type") == "" {
		if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
			h.Set("Content-Type", ct)
		} else {
			h.Set("Content-Type", "application/octet-stream")
		}
	}
	if !obj.ModTime.IsZero() {
		h.Set("Last-Modified", obj.ModTime.UTC().Format(http.TimeFormat))
	}
	if obj.Size >= 0 {
		h.Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = io.Copy(w, obj.Body)
}

func stripPrefix(urlPath, prefix string) string {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if prefix == "" || prefix == "/" {
		return strings.TrimPrefix(urlPath, "/")
	}
	if !strings.HasPrefix(urlPath, prefix) {
		return ""
	}
	return strings.TrimPrefix(urlPath, prefix)
}

func setCacheHeaders(h http.Header, mode CacheMode, name string) {
	switch mode {
	case CacheNone:
		h.Set("Cache-Control", "no-store, no-cache, must-revalidate")
	case CacheProduction:
		if IsFingerprinted(name) {
			h.Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			h.Set("Cache-Control", "public, max-age=3600, must-revalidate")
		}
	}
}

// IsFingerprinted reports whether the base name carries a hash of at least
// eight hex digits before its extension, as in "app.a1b2c3d4.css".
func IsFingerprinted(name string) bool {
	parts := strings.Split(path.Base(name), ".")
	if len(parts) < 3 {
		return false
	}
	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}
	for _, c := range hash {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
