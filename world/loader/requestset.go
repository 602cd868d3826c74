package loader

import (
	"sync"

	"github.com/brentp/intintmap"
)

// requestSet tracks which packed slab keys currently have an outstanding
// request in flight, for spec.md §4.5's "outstanding requests for the same
// slab are deduplicated" rule. Backed by intintmap's open-addressing
// int64->int64 map (a teacher dependency) rather than a
// map[int64]struct{}, since this set is consulted on every coalesced
// request across a potentially large preload range.
type requestSet struct {
	mu sync.Mutex
	m  *intintmap.Map
}

func newRequestSet() *requestSet {
	return &requestSet{m: intintmap.New(1024, 0.75)}
}

// addIfAbsent returns true and marks key outstanding if it wasn't already;
// returns false if key was already outstanding.
func (s *requestSet) addIfAbsent(key int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.m.Get(key); ok && v != 0 {
		return false
	}
	s.m.Put(key, 1)
	return true
}

// remove clears key's outstanding flag once its request completes.
func (s *requestSet) remove(key int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// intintmap has no delete; overwrite with a tombstone value and treat
	// 0 as "not present" in addIfAbsent's check instead of Get's ok flag
	// so removed keys are immediately reusable.
	s.m.Put(key, 0)
}

// contains reports whether key is currently outstanding.
func (s *requestSet) contains(key int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m.Get(key)
	return ok && v != 0
}
