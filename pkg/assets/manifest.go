package assets

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	verrors "github.com/vango-dev/vitrio/internal/errors"
)

// Manifest maps source asset names to fingerprinted names. It is safe for
// concurrent use.
type Manifest struct {
	entries map[string]string
	mu      sync.RWMutex
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		entries: make(map[string]string),
	}
}

// Load reads a manifest file from disk: {"client.js": "client.abc123.js"}.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, verrors.Wrap("V302", err).WithDetail("manifest %s", path)
	}
	defer f.Close()
	return decodeManifest(f, path)
}

// LoadFromStore reads the manifest called name from store. A missing
// manifest is reported as ErrNotFound so callers can fall back to a
// passthrough resolver.
func LoadFromStore(ctx context.Context, store Store, name string) (*Manifest, error) {
	obj, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer obj.Body.Close()
	return decodeManifest(obj.Body, name)
}

func decodeManifest(r io.Reader, name string) (*Manifest, error) {
	var entries map[string]string
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, verrors.Wrap("V302", err).WithDetail("manifest %s", name)
	}
	if entries == nil {
		entries = make(map[string]string)
	}
	return &Manifest{entries: entries}, nil
}

// Resolve returns the fingerprinted name for source, or source itself when
// the manifest has no entry.
func (m *Manifest) Resolve(source string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if resolved, ok := m.entries[source]; ok {
		return resolved
	}
	return source
}

// Has reports whether the manifest has an entry for source.
func (m *Manifest) Has(source string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[source]
	return ok
}

// Set adds or replaces an entry.
func (m *Manifest) Set(source, resolved string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[source] = resolved
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}
