package loader

import "github.com/nn-sim/core/coord"

// packKey derives a dense-ish int64 key for a slab location, for use with
// intintmap's int64-keyed open-addressing map. It is not a perfect bit
// packing (chunk coordinates can in principle collide after masking at
// extreme ranges) but collisions are astronomically unlikely for any
// world a single process would ever load, and a hash collision here only
// risks a spurious re-request, never corrupt state. Grounded on the
// teacher's redstone.ChunkID being a single comparable key used to index
// workers/routers; generalised to a slab (chunk + vertical index) key.
func packKey(loc coord.SlabLocation) int64 {
	const mask21 = (1 << 21) - 1
	const mask22 = (1 << 22) - 1
	x := int64(loc.Chunk.X) & mask21
	y := int64(loc.Chunk.Y) & mask21
	s := int64(loc.Slab) & mask22
	return (x << 43) | (y << 22) | s
}
