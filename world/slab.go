package world

import (
	"github.com/nn-sim/core/block"
	"github.com/nn-sim/core/coord"
)

// Slab is a 16x16x32 grid of blocks, stored contiguously in x-fastest then y
// then z order so that each horizontal slice is contiguous. Grounded on
// original_source/game/world/src/chunk/slab.rs's SlabGrid layout.
type Slab struct {
	blocks [coord.BlockCountSlab]block.Block
	index  coord.SlabIndex
}

// NewEmptySlab returns a slab filled with Air.
func NewEmptySlab(index coord.SlabIndex) *Slab {
	return &Slab{index: index}
}

// NewUniformSlab returns a slab entirely filled with one block type, used
// for the all-air and all-stone placeholder allocations.
func NewUniformSlab(index coord.SlabIndex, t block.Type) *Slab {
	s := &Slab{index: index}
	filled := block.NewBlock(t)
	for i := range s.blocks {
		s.blocks[i] = filled
	}
	return s
}

// Index returns the slab's vertical index.
func (s *Slab) Index() coord.SlabIndex { return s.index }

// At returns the block at the given slab-local position.
func (s *Slab) At(p coord.SlabPos) block.Block {
	return s.blocks[p.Index()]
}

// Set writes the block at the given slab-local position. Callers must hold
// a unique (post-copy-on-write) handle before calling Set; Slab itself does
// not enforce exclusivity.
func (s *Slab) Set(p coord.SlabPos, b block.Block) {
	s.blocks[p.Index()] = b
}

// Uniform reports whether every block in the slab is identical, along with
// that block's type if so. Used to detect all-air/all-stone slabs worth
// sharing as placeholders.
func (s *Slab) Uniform() (block.Type, bool) {
	first := s.blocks[0].Type
	for i := 1; i < len(s.blocks); i++ {
		if s.blocks[i].Type != first {
			return 0, false
		}
	}
	return first, true
}

// clone returns a deep copy of s, used by SlabHandle.CowMut when the
// backing allocation is shared.
func (s *Slab) clone() *Slab {
	cp := *s
	return &cp
}

// EachSlice calls f once per horizontal slice, from bottom to top, with the
// slice's local index and the blocks it holds.
func (s *Slab) EachSlice(f func(z coord.LocalSliceIndex, blocks []block.Block)) {
	const sliceLen = coord.BlockCountSlice
	for z := 0; z < coord.SlabSize; z++ {
		from := z * sliceLen
		f(coord.LocalSliceIndex(z), s.blocks[from:from+sliceLen])
	}
}
