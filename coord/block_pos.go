package coord

import "fmt"

// BlockPos is a block position anywhere in the world. All int32/GlobalSliceIndex
// values are valid.
type BlockPos struct {
	X, Y int32
	Z    GlobalSliceIndex
}

// String implements fmt.Stringer.
func (p BlockPos) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, int32(p.Z))
}

// Chunk returns the chunk that contains p.
func (p BlockPos) Chunk() ChunkPos {
	return ChunkPos{
		X: divFloor(p.X, ChunkSize),
		Y: divFloor(p.Y, ChunkSize),
	}
}

// Slab returns the SlabLocation that contains p.
func (p BlockPos) Slab() SlabLocation {
	return SlabLocation{Chunk: p.Chunk(), Slab: p.Z.SlabIndex()}
}

// SlabPos decomposes p into its slab-local coordinates.
func (p BlockPos) SlabPos() SlabPos {
	return SlabPos{
		X: uint8(modFloor(p.X, ChunkSize)),
		Y: uint8(modFloor(p.Y, ChunkSize)),
		Z: p.Z.Local(),
	}
}

// SliceBlock returns the X/Y coordinate of p local to its slice.
func (p BlockPos) SliceBlock() SliceBlock {
	sp := p.SlabPos()
	return SliceBlock{X: sp.X, Y: sp.Y}
}

// Decompose is a convenience that returns chunk, slab index and slab-local
// position together, matching spec.md's "a block position decomposes
// uniquely into (chunk, slab, slab-local (x, y, z))".
func (p BlockPos) Decompose() (ChunkPos, SlabIndex, SlabPos) {
	chunk := p.Chunk()
	return chunk, p.Z.SlabIndex(), p.SlabPos()
}

// Above returns the block directly above p.
func (p BlockPos) Above() BlockPos {
	return BlockPos{p.X, p.Y, p.Z + 1}
}

// Below returns the block directly below p.
func (p BlockPos) Below() BlockPos {
	return BlockPos{p.X, p.Y, p.Z - 1}
}

// Add returns p shifted by the given block deltas.
func (p BlockPos) Add(dx, dy int32, dz GlobalSliceIndex) BlockPos {
	return BlockPos{p.X + dx, p.Y + dy, p.Z + dz}
}

// Neighbours4 returns the four lateral block neighbours of p (-x, +x, -y, +y).
func (p BlockPos) Neighbours4() [4]BlockPos {
	return [4]BlockPos{
		{p.X - 1, p.Y, p.Z},
		{p.X + 1, p.Y, p.Z},
		{p.X, p.Y - 1, p.Z},
		{p.X, p.Y + 1, p.Z},
	}
}

// DistanceSquared returns the squared Euclidean distance between p and o,
// measured in blocks.
func (p BlockPos) DistanceSquared(o BlockPos) int64 {
	dx := int64(p.X - o.X)
	dy := int64(p.Y - o.Y)
	dz := int64(int32(p.Z) - int32(o.Z))
	return dx*dx + dy*dy + dz*dz
}

// FromSlabPos composes a BlockPos from a slab location and a slab-local
// position.
func FromSlabPos(slab SlabLocation, local SlabPos) BlockPos {
	return BlockPos{
		X: slab.Chunk.X*ChunkSize + int32(local.X),
		Y: slab.Chunk.Y*ChunkSize + int32(local.Y),
		Z: local.Z.ToGlobal(slab.Slab),
	}
}
