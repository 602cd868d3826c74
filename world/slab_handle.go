package world

import "sync/atomic"

// SlabHandle is a shared, copy-on-write reference to a Slab. Readers hold
// cheap copies of the handle; a writer must obtain exclusive access via
// CowMut, which clones the backing Slab if other handles still share it.
//
// Grounded on original_source/game/world/src/chunk/slab_pointer.rs's
// SlabPointer(Arc<Slab>). Go has no Arc::make_mut or Arc::strong_count, so
// the refcount is tracked explicitly: refs is a *int32 shared by every
// handle copy derived from the same allocation, incremented by Clone and
// decremented by Release.
type SlabHandle struct {
	slab *Slab
	refs *int32
}

// NewSlabHandle wraps a freshly-allocated slab in a handle with a single
// owner.
func NewSlabHandle(s *Slab) SlabHandle {
	one := int32(1)
	return SlabHandle{slab: s, refs: &one}
}

// Clone returns a new handle sharing the same backing Slab, incrementing
// the shared refcount. The original Rust used Arc::clone for this.
func (h SlabHandle) Clone() SlabHandle {
	atomic.AddInt32(h.refs, 1)
	return SlabHandle{slab: h.slab, refs: h.refs}
}

// Release drops this handle's share of the backing allocation. Call exactly
// once per handle obtained via NewSlabHandle or Clone when it goes out of
// scope; failing to do so leaks refcount and can force spurious clones.
func (h SlabHandle) Release() {
	atomic.AddInt32(h.refs, -1)
}

// IsExclusive reports whether this handle is the only live reference to its
// backing Slab.
func (h SlabHandle) IsExclusive() bool {
	return atomic.LoadInt32(h.refs) == 1
}

// Read returns the backing slab for read-only access. The returned pointer
// must not be mutated; use CowMut for writes.
func (h SlabHandle) Read() *Slab {
	return h.slab
}

// CowMut returns a handle guaranteed to be the sole owner of its backing
// Slab, cloning the payload first if other handles still share it. This is
// the Go analogue of Arc::make_mut: the returned handle may be a different
// value than h (a fresh allocation with refs==1), and the caller should
// keep using the returned handle, discarding h.
func (h SlabHandle) CowMut() SlabHandle {
	if h.IsExclusive() {
		return h
	}
	h.Release()
	return NewSlabHandle(h.slab.clone())
}
