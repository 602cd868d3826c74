package coord

import "fmt"

// SlabIndex is the signed, unbounded vertical index of a slab within a
// chunk. Slab 0 spans global slice [0, SlabSize); slab 1 spans
// [SlabSize, 2*SlabSize); slab -1 spans [-SlabSize, 0), and so on.
type SlabIndex int32

// Below returns the slab index directly beneath this one.
func (s SlabIndex) Below() SlabIndex { return s - 1 }

// Above returns the slab index directly above this one.
func (s SlabIndex) Above() SlabIndex { return s + 1 }

// BaseSlice returns the lowest global slice index covered by this slab.
func (s SlabIndex) BaseSlice() GlobalSliceIndex {
	return GlobalSliceIndex(int32(s) * SlabSize)
}

// SlabLocation identifies a single slab in the world.
type SlabLocation struct {
	Chunk ChunkPos
	Slab  SlabIndex
}

// String implements fmt.Stringer.
func (s SlabLocation) String() string {
	return fmt.Sprintf("[%d, %d, %d]", s.Chunk.X, s.Chunk.Y, s.Slab)
}

// Below returns the SlabLocation directly beneath s.
func (s SlabLocation) Below() SlabLocation {
	return SlabLocation{Chunk: s.Chunk, Slab: s.Slab.Below()}
}

// Above returns the SlabLocation directly above s.
func (s SlabLocation) Above() SlabLocation {
	return SlabLocation{Chunk: s.Chunk, Slab: s.Slab.Above()}
}

// AllSlabsInRange returns every SlabLocation in the inclusive range between
// from and to, ordered by chunk then slab. Panics if from > to on any axis.
func AllSlabsInRange(from, to SlabLocation) []SlabLocation {
	if from.Chunk.X > to.Chunk.X || from.Chunk.Y > to.Chunk.Y || from.Slab > to.Slab {
		panic("coord: invalid slab range")
	}
	out := make([]SlabLocation, 0)
	for x := from.Chunk.X; x <= to.Chunk.X; x++ {
		for y := from.Chunk.Y; y <= to.Chunk.Y; y++ {
			chunk := ChunkPos{x, y}
			for s := from.Slab; s <= to.Slab; s++ {
				out = append(out, SlabLocation{Chunk: chunk, Slab: s})
			}
		}
	}
	return out
}
