// Package entity implements the entity allocator, component set, and
// per-entity cooperative task runtime of spec.md §3/§4.7. Entity identity is
// deliberately a generation+index struct rather than a uuid.UUID (see
// DESIGN.md's IDs decision): a freed slot is reused, and a stale EntityID
// from before the reuse compares unequal to the new occupant.
package entity

import "fmt"

// ID is an opaque entity identifier: a dense index into the allocator's
// slot table, paired with a generation counter that is bumped every time the
// slot is freed and reused. Equality between two IDs with the same Index but
// different Generation is false, so a handle held past an entity's death
// never silently refers to its slot's next occupant.
type ID struct {
	Index      uint32
	Generation uint32
}

// Nil is the zero ID, never assigned to a live entity.
var Nil ID

// String implements fmt.Stringer.
func (id ID) String() string {
	return fmt.Sprintf("entity#%d.%d", id.Index, id.Generation)
}

// IsNil reports whether id is the zero value.
func (id ID) IsNil() bool { return id == Nil }

// Allocator hands out and recycles entity IDs from a dense slot table, in
// the shape of the teacher's world.EntityHandle bookkeeping generalised with
// an explicit generation counter so freed slots are safely reusable.
type Allocator struct {
	generations []uint32
	alive       []bool
	free        []uint32
}

// NewAllocator returns an empty Allocator.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Alloc reserves and returns a fresh ID, reusing a freed slot when one is
// available.
func (a *Allocator) Alloc() ID {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		a.alive[idx] = true
		return ID{Index: idx, Generation: a.generations[idx]}
	}
	idx := uint32(len(a.generations))
	a.generations = append(a.generations, 0)
	a.alive = append(a.alive, true)
	return ID{Index: idx, Generation: 0}
}

// Free releases id's slot, bumping its generation so any retained copy of id
// is recognised as stale by IsAlive. Freeing an already-dead or unknown ID
// is a no-op.
func (a *Allocator) Free(id ID) {
	if !a.IsAlive(id) {
		return
	}
	a.alive[id.Index] = false
	a.generations[id.Index]++
	a.free = append(a.free, id.Index)
}

// IsAlive reports whether id refers to a currently-allocated slot at the
// generation it was issued with.
func (a *Allocator) IsAlive(id ID) bool {
	if int(id.Index) >= len(a.generations) {
		return false
	}
	return a.alive[id.Index] && a.generations[id.Index] == id.Generation
}
