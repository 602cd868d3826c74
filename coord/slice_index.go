package coord

// GlobalSliceIndex is the Z coordinate of a block anywhere in the world.
type GlobalSliceIndex int32

// SlabIndex returns the index of the slab that contains this slice.
func (z GlobalSliceIndex) SlabIndex() SlabIndex {
	return SlabIndex(divFloor(int32(z), SlabSize))
}

// Local returns the slab-local slice index of this global slice.
func (z GlobalSliceIndex) Local() LocalSliceIndex {
	return LocalSliceIndex(modFloor(int32(z), SlabSize))
}

// LocalSliceIndex is the slice index local to one slab, in [0, SlabSize).
type LocalSliceIndex uint8

// ToGlobal converts a local slice index back to a global one, given the
// slab it belongs to.
func (z LocalSliceIndex) ToGlobal(slab SlabIndex) GlobalSliceIndex {
	return GlobalSliceIndex(int32(slab)*SlabSize + int32(z))
}
