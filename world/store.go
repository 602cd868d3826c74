package world

import (
	"errors"
	"sort"
	"sync"

	"github.com/nn-sim/core/block"
	"github.com/nn-sim/core/coord"
)

// ErrNotLoaded is returned when an operation needs a slab that is not
// Navigable. Callers should defer the operation, per spec.md's recovery
// rule for NotLoaded.
var ErrNotLoaded = errors.New("world: slab not loaded")

// Store is the authoritative map of (chunk, slab) -> SlabHandle, guarded by
// a world-level lock for the chunk map itself and a per-chunk lock (via
// Chunk) for slab installation, mirroring the teacher's World.chunks map
// plus Column-level synchronisation (server/world/world.go).
type Store struct {
	mu     sync.RWMutex
	chunks map[coord.ChunkPos]*Chunk
}

// NewStore returns an empty world store.
func NewStore() *Store {
	return &Store{chunks: make(map[coord.ChunkPos]*Chunk)}
}

// chunk returns the Chunk at pos, creating it if absent.
func (s *Store) chunk(pos coord.ChunkPos) *Chunk {
	s.mu.RLock()
	c, ok := s.chunks[pos]
	s.mu.RUnlock()
	if ok {
		return c
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok = s.chunks[pos]; ok {
		return c
	}
	c = NewChunk(pos)
	s.chunks[pos] = c
	return c
}

// ChunkIfPresent returns the Chunk at pos without creating one.
func (s *Store) ChunkIfPresent(pos coord.ChunkPos) (*Chunk, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chunks[pos]
	return c, ok
}

// InstallSlab installs a loaded slab's handle into the store, for use by
// the terrain loader once a slab has progressed past TerrainInFlight. It
// always goes through chunk(), creating the chunk entry on first slab.
func (s *Store) InstallSlab(loc coord.SlabLocation, h SlabHandle) {
	s.chunk(loc.Chunk).SetSlab(loc.Slab, h)
}

// Get looks up the block at p. It returns ErrNotLoaded if the owning slab
// has not been installed yet; it does not itself enforce Navigable-only
// reads (slab progress is tracked by the loader, e.g. loader.Pipeline's
// Progress, not by Store).
func (s *Store) Get(p coord.BlockPos) (block.Block, error) {
	loc := p.Slab()
	c, ok := s.ChunkIfPresent(loc.Chunk)
	if !ok {
		return block.Block{}, ErrNotLoaded
	}
	h, ok := c.Slab(loc.Slab)
	if !ok {
		return block.Block{}, ErrNotLoaded
	}
	return h.Read().At(p.SlabPos()), nil
}

// Edit is one (position, block) pair for SetMany.
type Edit struct {
	Pos   coord.BlockPos
	Block block.Block
}

// SetMany groups writes by slab, acquires unique (copy-on-write) access per
// affected slab exactly once, applies all edits, and returns the set of
// slab locations touched so callers can mark them dirty for discovery.
func (s *Store) SetMany(edits []Edit) ([]coord.SlabLocation, error) {
	bySlab := make(map[coord.SlabLocation][]Edit)
	for _, e := range edits {
		loc := e.Pos.Slab()
		bySlab[loc] = append(bySlab[loc], e)
	}

	touched := make([]coord.SlabLocation, 0, len(bySlab))
	for loc, group := range bySlab {
		c, ok := s.ChunkIfPresent(loc.Chunk)
		if !ok {
			return nil, ErrNotLoaded
		}
		h, ok := c.Slab(loc.Slab)
		if !ok {
			return nil, ErrNotLoaded
		}
		h = h.CowMut()
		for _, e := range group {
			h.Read().Set(e.Pos.SlabPos(), e.Block)
		}
		c.SetSlab(loc.Slab, h)
		touched = append(touched, loc)
	}
	sort.Slice(touched, func(i, j int) bool {
		if touched[i].Chunk != touched[j].Chunk {
			return touched[i].Chunk.X < touched[j].Chunk.X ||
				(touched[i].Chunk.X == touched[j].Chunk.X && touched[i].Chunk.Y < touched[j].Chunk.Y)
		}
		return touched[i].Slab < touched[j].Slab
	})
	return touched, nil
}

// DamageResult reports the outcome of a Damage call, for fan-out to
// interested systems (e.g. a "block destroyed" event).
type DamageResult struct {
	Pos       coord.BlockPos
	Before    block.Block
	After     block.Block
	Destroyed bool
}

// Damage subtracts amount from the durability of the block at p. If
// durability reaches zero in this call, the block becomes Air in the same
// call (spec.md's same-tick destruction invariant) and Destroyed is true.
func (s *Store) Damage(p coord.BlockPos, amount block.Durability) (DamageResult, error) {
	loc := p.Slab()
	c, ok := s.ChunkIfPresent(loc.Chunk)
	if !ok {
		return DamageResult{}, ErrNotLoaded
	}
	h, ok := c.Slab(loc.Slab)
	if !ok {
		return DamageResult{}, ErrNotLoaded
	}
	before := h.Read().At(p.SlabPos())
	after, destroyed := before.Damage(amount)

	h = h.CowMut()
	h.Read().Set(p.SlabPos(), after)
	c.SetSlab(loc.Slab, h)

	return DamageResult{Pos: p, Before: before, After: after, Destroyed: destroyed}, nil
}
