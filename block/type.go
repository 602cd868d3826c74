// Package block defines the closed block type set (spec.md §6), the Block
// value stored in every slab, and the opacity/walkability rules derived from
// a block's type.
package block

// Type is a closed, build-time enumeration of block types. The zero value
// is Air.
type Type uint8

const (
	Air Type = iota
	Dirt
	Grass
	LightGrass
	Leaves
	TreeTrunk
	Stone
	Sand
	SolidWater
	StoneBrickWall
	Chest

	typeCount
)

// AIR is the distinguished constant for the Air type, named per spec.md's
// "enum including Air and one AIR constant".
const AIR = Air

// Opacity describes how a block type occludes light and renders.
type Opacity uint8

const (
	Transparent Opacity = iota
	Solid
)

// Solid reports whether o is the solid variant.
func (o Opacity) Solid() bool { return o == Solid }

// Transparent reports whether o is the transparent variant.
func (o Opacity) Transparent() bool { return o == Transparent }

// Durability is the type backing a block's hit points.
type Durability uint8

// Color is a simple RGB render colour.
type Color struct {
	R, G, B uint8
}

// descriptor holds the static, build-time properties of one block Type.
type descriptor struct {
	name          string
	opacity       Opacity
	maxDurability Durability
	walkable      bool
	color         Color
}

// registry is the closed, build-time table of block descriptors, indexed by
// Type. It mirrors the minimum set required by spec.md §6.
var registry = [typeCount]descriptor{
	Air:            {name: "air", opacity: Transparent, maxDurability: 0, walkable: false, color: Color{0, 0, 0}},
	Dirt:           {name: "dirt", opacity: Solid, maxDurability: 40, walkable: true, color: Color{134, 96, 67}},
	Grass:          {name: "grass", opacity: Solid, maxDurability: 30, walkable: true, color: Color{86, 140, 62}},
	LightGrass:     {name: "light_grass", opacity: Solid, maxDurability: 25, walkable: true, color: Color{130, 180, 96}},
	Leaves:         {name: "leaves", opacity: Transparent, maxDurability: 10, walkable: false, color: Color{60, 110, 50}},
	TreeTrunk:      {name: "tree_trunk", opacity: Solid, maxDurability: 120, walkable: true, color: Color{92, 64, 38}},
	Stone:          {name: "stone", opacity: Solid, maxDurability: 200, walkable: true, color: Color{120, 120, 120}},
	Sand:           {name: "sand", opacity: Solid, maxDurability: 20, walkable: true, color: Color{218, 202, 144}},
	SolidWater:     {name: "solid_water", opacity: Solid, maxDurability: 15, walkable: true, color: Color{60, 110, 200}},
	StoneBrickWall: {name: "stone_brick_wall", opacity: Solid, maxDurability: 250, walkable: false, color: Color{100, 95, 90}},
	Chest:          {name: "chest", opacity: Solid, maxDurability: 60, walkable: false, color: Color{150, 110, 40}},
}

// Name returns the block type's build-time name.
func (t Type) Name() string {
	if int(t) >= len(registry) {
		return "unknown"
	}
	return registry[t].name
}

// Opacity returns the block type's opacity.
func (t Type) Opacity() Opacity {
	if int(t) >= len(registry) {
		return Solid
	}
	return registry[t].opacity
}

// MaxDurability returns the block type's maximum durability.
func (t Type) MaxDurability() Durability {
	if int(t) >= len(registry) {
		return 0
	}
	return registry[t].maxDurability
}

// WalkableSurface reports whether a block of this type, with a transparent
// block above, can host a walker on top of it. This is distinct from
// Block.Walkable, which also depends on area-index assignment by discovery.
func (t Type) WalkableSurface() bool {
	if int(t) >= len(registry) {
		return false
	}
	return registry[t].walkable
}

// RenderColor returns the block type's render colour.
func (t Type) RenderColor() Color {
	if int(t) >= len(registry) {
		return Color{}
	}
	return registry[t].color
}

// IsAir reports whether t is the Air type.
func (t Type) IsAir() bool { return t == Air }
