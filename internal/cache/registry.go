// Package cache implements the cache registry (C6): one typed corpus index
// per record type, each guarded by its own lock, so a rebuild of one corpus
// never blocks a search against another.
package cache

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/marmitar/busca-fuzzy/internal/searchcache"
)

// ErrNotBuilt is returned by Search when no index has been stored yet for
// the given key.
var ErrNotBuilt = fmt.Errorf("cache: no index built for this key")

// slot owns one record type's lock and its current index. index is stored
// as any because Go has no heterogeneous generic map; Search/Overwrite
// recover the concrete type via a type assertion the caller's own type
// parameter makes safe.
type slot struct {
	mu    sync.RWMutex
	index any
}

// Registry maps record-type keys to typed indices. Keys are arbitrary
// strings chosen by the caller (e.g. "disciplina", "curso"); insertion
// order is irrelevant.
type Registry struct {
	mu    sync.Mutex
	slots map[string]*slot
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{slots: make(map[string]*slot)}
}

func (r *Registry) slotFor(key string) *slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[key]
	if !ok {
		s = &slot{}
		r.slots[key] = s
	}
	return s
}

// Overwrite replaces the index stored under key with idx, which is the
// result of a searchcache.Build call passed straight through. When buildErr
// is non-nil (a schema failed validation), the previous slot is left
// untouched, the failure is logged at info level, and buildErr is returned
// unchanged so the caller can propagate it; no index is ever mutated in
// place, only swapped wholesale.
func Overwrite[T any](r *Registry, key string, idx *searchcache.Index[T], buildErr error) error {
	if buildErr != nil {
		slog.Info("keeping previous index after schema error", "key", key, "error", buildErr)
		return buildErr
	}
	s := r.slotFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = idx
	return nil
}

// Search runs a query against the index stored under key. It returns
// ErrNotBuilt if no index has been stored yet; the search orchestrator
// treats that like any other corpus error and merges no results for it.
func Search[T any](r *Registry, key string, query string, cutoff float64, sendHidden bool) ([]searchcache.Result, error) {
	s := r.slotFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index == nil {
		return nil, ErrNotBuilt
	}
	idx, ok := s.index.(*searchcache.Index[T])
	if !ok {
		return nil, fmt.Errorf("cache: index for key %q has unexpected type %T", key, s.index)
	}
	return idx.Search(query, cutoff, sendHidden), nil
}

// Get returns the index stored under key, if any.
func Get[T any](r *Registry, key string) (*searchcache.Index[T], bool) {
	s := r.slotFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index == nil {
		return nil, false
	}
	idx, ok := s.index.(*searchcache.Index[T])
	return idx, ok
}
