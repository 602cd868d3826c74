package sim

import (
	"sync"

	"github.com/nn-sim/core/sim/entity"
)

// Storage is a component storage for one component type T, one map per
// entity with its own lock, so a storage can be used safely from more than
// one goroutine. The scheduler itself runs systems one at a time, in
// registration order. Grounded on the teacher's per-chunk
// `sync.RWMutex` granularity in world.Chunk, generalised from "one lock per
// chunk" to "one lock per component type".
type Storage[T any] struct {
	mu   sync.RWMutex
	data map[entity.ID]T
}

// NewStorage returns an empty Storage for T.
func NewStorage[T any]() *Storage[T] {
	return &Storage[T]{data: make(map[entity.ID]T)}
}

// Get reads id's component, per spec.md §3's at-most-one-per-type
// invariant: ok is false if id has no T.
func (s *Storage[T]) Get(id entity.ID) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[id]
	return v, ok
}

// Set installs or replaces id's T component.
func (s *Storage[T]) Set(id entity.ID, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = v
}

// Remove deletes id's T component, if any.
func (s *Storage[T]) Remove(id entity.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
}

// Has reports whether id currently has a T component.
func (s *Storage[T]) Has(id entity.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[id]
	return ok
}

// Each calls f for every (entity, component) pair. f must not call back
// into this Storage: Each holds the read lock for its whole iteration,
// matching systems' "read a subset of component storages" access pattern
// from spec.md §4.6.
func (s *Storage[T]) Each(f func(entity.ID, T)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, v := range s.data {
		f(id, v)
	}
}

// Len returns the number of entities currently holding T.
func (s *Storage[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// World is the set of component storages a Scheduler dispatches systems
// over, per spec.md §3's component list. Feature components beyond these
// (e.g. Herd) are expected to be added as further Storage[T] fields by
// embedding World in a domain-specific struct. The scheduler reads none of
// these storages itself: it hands World to queued updates and systems, and
// calls World.Kill to reap dead entities.
type World struct {
	Transforms  *Storage[entity.Transform]
	Physics     *Storage[entity.Physics]
	FollowPaths *Storage[entity.FollowPath]
	Steering    *Storage[entity.Steering]
	Hunger      *Storage[entity.Hunger]
	Inventory   *Storage[entity.Inventory]
	Status      *Storage[entity.Status]
	Herd        *Storage[entity.Herd]

	Entities *entity.Allocator
}

// NewWorld constructs a World with all storages initialised empty.
func NewWorld() *World {
	return &World{
		Transforms:  NewStorage[entity.Transform](),
		Physics:     NewStorage[entity.Physics](),
		FollowPaths: NewStorage[entity.FollowPath](),
		Steering:    NewStorage[entity.Steering](),
		Hunger:      NewStorage[entity.Hunger](),
		Inventory:   NewStorage[entity.Inventory](),
		Status:      NewStorage[entity.Status](),
		Herd:        NewStorage[entity.Herd](),
		Entities:    entity.NewAllocator(),
	}
}

// Kill removes every component of id and frees its allocator slot. Called
// by the scheduler's garbage-collection step (§4.6 step 5).
func (w *World) Kill(id entity.ID) {
	w.Transforms.Remove(id)
	w.Physics.Remove(id)
	w.FollowPaths.Remove(id)
	w.Steering.Remove(id)
	w.Hunger.Remove(id)
	w.Inventory.Remove(id)
	w.Status.Remove(id)
	w.Herd.Remove(id)
	w.Entities.Free(id)
}
