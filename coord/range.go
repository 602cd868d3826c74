package coord

// WorldPositionRange is an inclusive axis-aligned range of block positions,
// matching spec.md §6's "Terrain update record" range field.
type WorldPositionRange struct {
	Min, Max BlockPos
}

// NewWorldPositionRange builds a range from two corners, normalising min/max
// per axis.
func NewWorldPositionRange(a, b BlockPos) WorldPositionRange {
	min, max := a, b
	if min.X > max.X {
		min.X, max.X = max.X, min.X
	}
	if min.Y > max.Y {
		min.Y, max.Y = max.Y, min.Y
	}
	if min.Z > max.Z {
		min.Z, max.Z = max.Z, min.Z
	}
	return WorldPositionRange{Min: min, Max: max}
}

// Contains reports whether p lies within the inclusive range.
func (r WorldPositionRange) Contains(p BlockPos) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y &&
		p.Z >= r.Min.Z && p.Z <= r.Max.Z
}

// Each calls f for every block position in the inclusive range, in
// z-then-y-then-x order (matching slab storage order).
func (r WorldPositionRange) Each(f func(BlockPos)) {
	for z := r.Min.Z; z <= r.Max.Z; z++ {
		for y := r.Min.Y; y <= r.Max.Y; y++ {
			for x := r.Min.X; x <= r.Max.X; x++ {
				f(BlockPos{X: x, Y: y, Z: z})
			}
		}
	}
}
