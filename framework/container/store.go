package container

import (
	"sort"
	"sync"
)

// store is the plain identifier → entry map. Entries are kept verbatim.
type store struct {
	mu      sync.RWMutex
	entries map[string]any
}

func newStore() *store {
	return &store{entries: make(map[string]any)}
}

func (s *store) set(id string, entry any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = entry
}

func (s *store) unset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

func (s *store) has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[id]
	return ok
}

func (s *store) get(id string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return entry, nil
}

func (s *store) ids() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.entries))
	for k := range s.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// resolvedCache memoizes Resolve results. Values are never evicted.
type resolvedCache struct {
	mu     sync.RWMutex
	values map[string]any
}

func newResolvedCache() *resolvedCache {
	return &resolvedCache{values: make(map[string]any)}
}

func (r *resolvedCache) load(id string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[id]
	return v, ok
}

// loadOrStore keeps the first value stored for id, so concurrent resolutions
// of the same identifier all observe one instance.
func (r *resolvedCache) loadOrStore(id string, v any) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.values[id]; ok {
		return existing, true
	}
	r.values[id] = v
	return v, false
}

func (r *resolvedCache) ids() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.values))
	for k := range r.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
