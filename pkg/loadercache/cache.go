// Package loadercache is the request-scoped memo table for loader results.
//
// A Cache is created empty when a GET request starts, filled while loaders
// run parent-first, read when the page renders and then dropped. It is never
// shared between requests; the mutex only guards loaders that fan out into
// goroutines of their own.
package loadercache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/vango-dev/vitrio/pkg/routepath"
)

// State is the lifecycle state of an Entry.
type State int

const (
	// Pending means a load for the key is in flight.
	Pending State = iota
	// Fulfilled means the load produced a value.
	Fulfilled
	// Rejected means the load failed.
	Rejected
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Entry is one cached loader outcome.
type Entry struct {
	State State
	Value any
	Err   error
}

// LoadFunc produces the value for a key.
type LoadFunc func(ctx context.Context) (any, error)

// Cache memoizes loader outcomes by key. The zero value is not usable; call New.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Entry
	group   singleflight.Group
	calls   int
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]*Entry)}
}

// Prime stores a fulfilled value under key, replacing any previous entry.
func (c *Cache) Prime(key string, value any) {
	c.mu.Lock()
	c.entries[key] = &Entry{State: Fulfilled, Value: value}
	c.mu.Unlock()
}

// Get returns a copy of the entry for key.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Value returns the fulfilled value for key. Missing, pending and rejected
// entries report false.
func (c *Cache) Value(key string) (any, bool) {
	e, ok := c.Get(key)
	if !ok || e.State != Fulfilled {
		return nil, false
	}
	return e.Value, true
}

// Load returns the outcome for key, invoking fn at most once per key for the
// lifetime of the cache. Settled entries are returned without calling fn,
// including rejected ones. Concurrent callers for the same key share the
// in-flight call.
func (c *Cache) Load(ctx context.Context, key string, fn LoadFunc) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && e.State != Pending {
		c.mu.Unlock()
		return e.Value, e.Err
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.Lock()
		if e, ok := c.entries[key]; ok && e.State != Pending {
			c.mu.Unlock()
			return e.Value, e.Err
		}
		c.entries[key] = &Entry{State: Pending}
		c.calls++
		c.mu.Unlock()

		value, err := fn(ctx)

		c.mu.Lock()
		if err != nil {
			c.entries[key] = &Entry{State: Rejected, Err: err}
		} else {
			c.entries[key] = &Entry{State: Fulfilled, Value: value}
		}
		c.mu.Unlock()
		return value, err
	})
	return v, err
}

// Calls reports how many times Load invoked a LoadFunc.
func (c *Cache) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Len returns the number of entries in any state.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Key derives the cache key for a route and its request context. Parameter
// and query names are sorted so equal inputs always produce the same key;
// every component is escaped so distinct inputs never collide.
func Key(routePath string, params routepath.Params, query map[string][]string) string {
	var b strings.Builder
	b.WriteString(escape(routePath))

	b.WriteByte('|')
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escape(name))
		b.WriteByte('=')
		b.WriteString(escape(params[name]))
	}

	b.WriteByte('|')
	names = names[:0]
	for name := range query {
		names = append(names, name)
	}
	sort.Strings(names)
	first := true
	for _, name := range names {
		for _, v := range query[name] {
			if !first {
				b.WriteByte('&')
			}
			first = false
			b.WriteString(escape(name))
			b.WriteByte('=')
			b.WriteString(escape(v))
		}
	}
	return b.String()
}

var keyEscaper = strings.NewReplacer(
	`%`, `%25`,
	`|`, `%7C`,
	`&`, `%26`,
	`=`, `%3D`,
)

func escape(s string) string {
	return keyEscaper.Replace(s)
}
