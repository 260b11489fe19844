package dev

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ChangeType classifies a changed file by what the browser must do about it.
type ChangeType int

const (
	ChangeCSS ChangeType = iota
	ChangeScript
	ChangeView
	ChangeAsset
)

func (t ChangeType) String() string {
	switch t {
	case ChangeCSS:
		return "css"
	case ChangeScript:
		return "script"
	case ChangeView:
		return "view"
	default:
		return "asset"
	}
}

// Change is one modified, created or deleted file.
type Change struct {
	Path string
	Type ChangeType
}

// WatcherConfig lists what a Watcher polls and how often.
type WatcherConfig struct {
	// Paths are the directories to watch.
	Paths []string

	// Ignore lists base-name globs and path segments to skip.
	Ignore []string

	// Interval is the polling period. Default: 500ms.
	Interval time.Duration
}

// DefaultIgnore is used when WatcherConfig.Ignore is nil.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"*.tmp",
	"*.swp",
	"*~",
}

// Watcher polls directories for modified, new and deleted files.
type Watcher struct {
	config WatcherConfig

	mu       sync.Mutex
	onChange func(Change)
	stopCh   chan struct{}
	snapshot map[string]time.Time
}

// NewWatcher returns a stopped watcher. Call Start to begin polling.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Interval <= 0 {
		config.Interval = 500 * time.Millisecond
	}
	if config.Ignore == nil {
		config.Ignore = DefaultIgnore
	}

	return &Watcher{
		config:   config,
		snapshot: make(map[string]time.Time),
	}
}

// OnChange registers fn, replacing any earlier callback. fn runs on the
// polling goroutine.
func (w *Watcher) OnChange(fn func(Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start takes a baseline snapshot of the watched paths and then polls until
// ctx is done or Stop is called. It blocks. Calling Start on a running
// watcher returns immediately.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.stopCh != nil {
		w.mu.Unlock()
		return nil
	}
	stop := make(chan struct{})
	w.stopCh = stop
	w.snapshot = w.scan()
	w.mu.Unlock()

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return ctx.Err()
		case <-stop:
			return nil
		case <-ticker.C:
			w.poll()
		}
	}
}

// Stop ends a running Start. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopCh != nil {
		close(w.stopCh)
		w.stopCh = nil
	}
}

// IsRunning reports whether Start is polling.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stopCh != nil
}

// scan returns the modification time of every watched file.
func (w *Watcher) scan() map[string]time.Time {
	seen := make(map[string]time.Time)
	for _, root := range w.config.Paths {
		_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if w.shouldIgnore(p) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			seen[p] = info.ModTime()
			return nil
		})
	}
	return seen
}

// poll compares a fresh scan with the previous one and reports the first
// change of each type.
func (w *Watcher) poll() {
	current := w.scan()

	w.mu.Lock()
	previous := w.snapshot
	w.snapshot = current
	callback := w.onChange
	w.mu.Unlock()

	if callback == nil {
		return
	}

	var changes []Change
	for p, mod := range current {
		if last, ok := previous[p]; !ok || !mod.Equal(last) {
			changes = append(changes, Change{Path: p, Type: classifyChange(p)})
		}
	}
	for p := range previous {
		if _, ok := current[p]; !ok {
			changes = append(changes, Change{Path: p, Type: classifyChange(p)})
		}
	}

	reported := make(map[ChangeType]bool)
	for _, change := range changes {
		if !reported[change.Type] {
			reported[change.Type] = true
			callback(change)
		}
	}
}

// shouldIgnore matches patterns against the base name (globs) or any path
// segment (plain names).
func (w *Watcher) shouldIgnore(fullPath string) bool {
	name := filepath.Base(fullPath)
	for _, pattern := range w.config.Ignore {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if strings.ContainsAny(pattern, "*?[") {
			if matched, _ := filepath.Match(pattern, name); matched {
				return true
			}
			continue
		}
		for _, seg := range strings.Split(filepath.ToSlash(fullPath), "/") {
			if seg == pattern {
				return true
			}
		}
	}
	return false
}

// classifyChange maps a file extension to a ChangeType.
func classifyChange(path string) ChangeType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".css", ".scss", ".sass", ".less":
		return ChangeCSS
	case ".js", ".mjs", ".ts":
		return ChangeScript
	case ".html", ".gohtml", ".tmpl":
		return ChangeView
	default:
		return ChangeAsset
	}
}
