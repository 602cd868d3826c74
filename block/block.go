package block

// AreaIndex identifies the walkable area a block's top face belongs to,
// within its containing slab. Zero means "no area" (the block is not a
// walkable surface). world/nav assigns these during discovery; block only
// stores and validates them to avoid importing world/nav.
type AreaIndex uint16

// NoArea is the reserved AreaIndex meaning "not part of any walkable area".
const NoArea AreaIndex = 0

// Occlusion records, per face, whether a block's neighbour in that direction
// is itself opaque. Bit layout: 0 = -X, 1 = +X, 2 = -Y, 3 = +Y, 4 = -Z (below), 5 = +Z (above).
type Occlusion uint8

const (
	OccludedNegX Occlusion = 1 << iota
	OccludedPosX
	OccludedNegY
	OccludedPosY
	OccludedNegZ
	OccludedPosZ
)

// Face returns whether the given bit is set in o.
func (o Occlusion) Face(bit Occlusion) bool { return o&bit != 0 }

// FullyOccluded reports whether every one of the six faces is occluded.
func (o Occlusion) FullyOccluded() bool { return o&0x3F == 0x3F }

// Block is the value stored at every position in a slab.
type Block struct {
	Type       Type
	Durability Durability
	Area       AreaIndex
	Occlusion  Occlusion
}

// NewBlock constructs a freshly-placed block of the given type at full
// durability. Air always has zero durability and no area.
func NewBlock(t Type) Block {
	if t == Air {
		return Block{Type: Air}
	}
	return Block{Type: t, Durability: t.MaxDurability()}
}

// Walkable reports whether this block can be stood on top of: it must be a
// walkable-surface type and have been assigned a non-zero area by discovery.
func (b Block) Walkable() bool {
	if b.Type.IsAir() {
		return false
	}
	return b.Type.WalkableSurface() && b.Area != NoArea
}

// Opaque reports whether this block occludes light and movement through it.
func (b Block) Opaque() bool {
	return b.Type.Opacity().Solid()
}

// Damage reduces b's durability by amount, promoting it to Air in the same
// call if durability reaches zero (spec.md's same-tick destruction
// invariant: there is no intermediate "destroyed but still Stone" state).
// It returns the updated block and whether it was destroyed.
func (b Block) Damage(amount Durability) (Block, bool) {
	if b.Type.IsAir() {
		return b, false
	}
	if amount >= b.Durability {
		return Block{Type: Air}, true
	}
	b.Durability -= amount
	return b, false
}

// Repair restores b's durability, clamped to the type's maximum.
func (b Block) Repair(amount Durability) Block {
	if b.Type.IsAir() {
		return b
	}
	max := b.Type.MaxDurability()
	if b.Durability > max-amount || amount > max {
		b.Durability = max
		return b
	}
	b.Durability += amount
	return b
}

// WithArea returns a copy of b with its area index replaced. Setting an area
// on Air, or on a non-walkable-surface type, is rejected (area stays
// NoArea), matching the invariant "Air always has area index = 0" and its
// generalisation that only walkable-surface types may carry an area.
func (b Block) WithArea(area AreaIndex) Block {
	if b.Type.IsAir() || !b.Type.WalkableSurface() {
		b.Area = NoArea
		return b
	}
	b.Area = area
	return b
}
