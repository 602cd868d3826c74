package coord

import "fmt"

// ChunkPos identifies a chunk in the world, in chunk units (one chunk spans
// ChunkSize blocks on each of X and Y).
type ChunkPos struct {
	X, Y int32
}

// String implements fmt.Stringer.
func (c ChunkPos) String() string {
	return fmt.Sprintf("[%d, %d]", c.X, c.Y)
}

// Add returns c shifted by (dx, dy) chunks.
func (c ChunkPos) Add(dx, dy int32) ChunkPos {
	return ChunkPos{c.X + dx, c.Y + dy}
}

// Slab returns the SlabLocation for the given slab index within this chunk.
func (c ChunkPos) Slab(index SlabIndex) SlabLocation {
	return SlabLocation{Chunk: c, Slab: index}
}

// Block returns the world position of the block at the given slab-local X/Y
// within this chunk, at the given global slice.
func (c ChunkPos) Block(x, y uint8, z GlobalSliceIndex) BlockPos {
	return BlockPos{
		X: c.X*ChunkSize + int32(x),
		Y: c.Y*ChunkSize + int32(y),
		Z: z,
	}
}

// IterRange returns every ChunkPos in the inclusive rectangle [from, to].
func IterRange(from, to ChunkPos) []ChunkPos {
	if from.X > to.X {
		from.X, to.X = to.X, from.X
	}
	if from.Y > to.Y {
		from.Y, to.Y = to.Y, from.Y
	}
	out := make([]ChunkPos, 0, (to.X-from.X+1)*(to.Y-from.Y+1))
	for x := from.X; x <= to.X; x++ {
		for y := from.Y; y <= to.Y; y++ {
			out = append(out, ChunkPos{x, y})
		}
	}
	return out
}

// Neighbours4 returns the four lateral neighbours of c (-x, +x, -y, +y).
func (c ChunkPos) Neighbours4() [4]ChunkPos {
	return [4]ChunkPos{
		{c.X - 1, c.Y},
		{c.X + 1, c.Y},
		{c.X, c.Y - 1},
		{c.X, c.Y + 1},
	}
}
