package world

import (
	"sync"
	"sync/atomic"

	"github.com/nn-sim/core/block"
	"github.com/nn-sim/core/coord"
)

// placeholders caches one shared, uniform Slab allocation per (index, type)
// pair so that freshly generated all-air or all-stone slabs can share a
// single backing payload until the first write promotes a copy, per
// spec.md: "Placeholder slabs (all-air / all-stone) point to a shared
// global payload; writing promotes them to an owned copy."
var placeholders struct {
	mu    sync.Mutex
	slabs map[coord.SlabIndex]map[block.Type]*sharedSlab
}

type sharedSlab struct {
	slab *Slab
	refs int32
}

func init() {
	placeholders.slabs = make(map[coord.SlabIndex]map[block.Type]*sharedSlab)
}

// PlaceholderHandle returns a SlabHandle referencing the shared uniform
// allocation for (index, t), allocating it on first use. The returned
// handle shares its refcount with every other placeholder handle for the
// same (index, t) pair, so the first CowMut on any of them clones off a
// private copy rather than mutating the shared payload.
func PlaceholderHandle(index coord.SlabIndex, t block.Type) SlabHandle {
	placeholders.mu.Lock()
	defer placeholders.mu.Unlock()

	byType, ok := placeholders.slabs[index]
	if !ok {
		byType = make(map[block.Type]*sharedSlab)
		placeholders.slabs[index] = byType
	}
	shared, ok := byType[t]
	if !ok {
		// refs starts at 1 for the cache's own reference, so no handed-out
		// handle is ever exclusive and CowMut always clones.
		shared = &sharedSlab{slab: NewUniformSlab(index, t), refs: 1}
		byType[t] = shared
	}
	atomic.AddInt32(&shared.refs, 1)
	return SlabHandle{slab: shared.slab, refs: &shared.refs}
}
