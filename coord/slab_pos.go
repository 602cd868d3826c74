package coord

import "fmt"

// SliceBlock is an X/Y coordinate local to one slice (and therefore to one
// slab and chunk), each in [0, ChunkSize).
type SliceBlock struct {
	X, Y uint8
}

// Valid reports whether b's coordinates lie within a chunk.
func (b SliceBlock) Valid() bool {
	return b.X < ChunkSize && b.Y < ChunkSize
}

// ToSlabPos attaches a local slice index to b.
func (b SliceBlock) ToSlabPos(z LocalSliceIndex) SlabPos {
	return SlabPos{X: b.X, Y: b.Y, Z: z}
}

// Index returns the flattened index of b within one 16x16 slice, x-fastest.
func (b SliceBlock) Index() int {
	return int(b.Y)*ChunkSize + int(b.X)
}

// SliceBlockFromIndex inverts SliceBlock.Index.
func SliceBlockFromIndex(i int) SliceBlock {
	return SliceBlock{X: uint8(i % ChunkSize), Y: uint8(i / ChunkSize)}
}

// SlabPos is a block position local to one slab: X and Y in [0, ChunkSize),
// Z in [0, SlabSize).
type SlabPos struct {
	X, Y uint8
	Z    LocalSliceIndex
}

// String implements fmt.Stringer.
func (p SlabPos) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}

// Valid reports whether p's coordinates lie within a slab.
func (p SlabPos) Valid() bool {
	return p.X < ChunkSize && p.Y < ChunkSize && p.Z < SlabSize
}

// SliceBlock returns the X/Y part of p.
func (p SlabPos) SliceBlock() SliceBlock {
	return SliceBlock{X: p.X, Y: p.Y}
}

// Index returns the flattened index of p within a 16x16x32 slab, with blocks
// stored x-fastest then y then z (so each horizontal slice is contiguous),
// per spec.md's Slab data layout.
func (p SlabPos) Index() int {
	return int(p.Z)*ChunkSize*ChunkSize + int(p.Y)*ChunkSize + int(p.X)
}

// SlabPosFromIndex inverts SlabPos.Index.
func SlabPosFromIndex(i int) SlabPos {
	const sliceArea = ChunkSize * ChunkSize
	z := i / sliceArea
	rem := i % sliceArea
	return SlabPos{X: uint8(rem % ChunkSize), Y: uint8(rem / ChunkSize), Z: LocalSliceIndex(z)}
}

// BlockCountSlab is the number of blocks in a single slab.
const BlockCountSlab = ChunkSize * ChunkSize * SlabSize

// BlockCountSlice is the number of blocks in a single horizontal slice.
const BlockCountSlice = ChunkSize * ChunkSize
