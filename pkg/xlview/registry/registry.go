package registry

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
)

// Registry is the ordered, de-duplicated list of registered folders.
// The in-memory list is authoritative for the running session: a failed save
// is logged and never rolls the list back.
type Registry struct {
	mu     sync.Mutex
	store  Store
	logger *slog.Logger
	paths  []string
	subs   map[int]func([]string)
	nextID int
}

// New loads the folder list from store. A missing or unreadable record yields
// an empty list.
func New(ctx context.Context, store Store, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Registry{
		store:  store,
		logger: logger,
		subs:   make(map[int]func([]string)),
	}

	s, err := store.Load(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		logger.Debug("no saved settings, starting empty")
	case err != nil:
		logger.Error("failed to load settings", "error", NewSettingsIOError("load", err))
	default:
		r.paths = dedupe(s.FolderPaths)
		logger.Debug("settings loaded", "folders", len(r.paths))
	}
	return r
}

// Paths returns a copy of the folder list in insertion order.
func (r *Registry) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.paths)
}

// Contains reports whether path is registered.
func (r *Registry) Contains(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Contains(r.paths, path)
}

// Add appends path unless it is already present. It reports whether the list changed.
func (r *Registry) Add(ctx context.Context, path string) bool {
	r.mu.Lock()
	if path == "" || slices.Contains(r.paths, path) {
		r.mu.Unlock()
		return false
	}
	r.paths = append(slices.Clone(r.paths), path)
	snapshot, subs := r.commit(ctx)
	r.mu.Unlock()

	r.logger.Info("folder added", "path", path)
	notify(subs, snapshot)
	return true
}

// Remove deletes every entry equal to path. It reports whether the list changed.
func (r *Registry) Remove(ctx context.Context, path string) bool {
	r.mu.Lock()
	next := slices.DeleteFunc(slices.Clone(r.paths), func(p string) bool { return p == path })
	if len(next) == len(r.paths) {
		r.mu.Unlock()
		return false
	}
	r.paths = next
	snapshot, subs := r.commit(ctx)
	r.mu.Unlock()

	r.logger.Info("folder removed", "path", path)
	notify(subs, snapshot)
	return true
}

// Subscribe registers fn to receive the folder list after every change.
// The returned function removes the subscription.
func (r *Registry) Subscribe(fn func([]string)) (unsubscribe func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, id)
	}
}

// commit saves the current list and returns what subscribers should see.
// Must be called with r.mu held.
func (r *Registry) commit(ctx context.Context) ([]string, []func([]string)) {
	if err := r.store.Save(ctx, Settings{FolderPaths: r.paths}); err != nil {
		r.logger.Error("failed to save settings", "error", NewSettingsIOError("save", err))
	}

	ids := make([]int, 0, len(r.subs))
	for id := range r.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	subs := make([]func([]string), len(ids))
	for i, id := range ids {
		subs[i] = r.subs[id]
	}
	return slices.Clone(r.paths), subs
}

func notify(subs []func([]string), paths []string) {
	for _, fn := range subs {
		fn(slices.Clone(paths))
	}
}

func dedupe(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p != "" && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}
