package nav

import (
	"fmt"

	"github.com/nn-sim/core/block"
	"github.com/nn-sim/core/coord"
)

// SlabAreaIndex identifies a walkable area within one slab. Zero means
// uninitialised/no area, matching block.NoArea. Re-exported here (rather
// than duplicated) so nav and block agree on one underlying type.
type SlabAreaIndex = block.AreaIndex

// FirstArea is the first area index a slab's discovery pass assigns;
// indices increment from there.
const FirstArea SlabAreaIndex = 1

// SlabArea names an area local to one slab (chunk-independent), grounded on
// original_source/world/src/area/mod.rs's SlabArea.
type SlabArea struct {
	Slab coord.SlabIndex
	Area SlabAreaIndex
}

// WorldArea is the fully-qualified identity of one walkable area anywhere
// in loaded chunks: the node type of the chunk-area graph and area graph.
// Grounded on original_source/world/src/area/mod.rs's Area.
type WorldArea struct {
	Chunk coord.ChunkPos
	Slab  coord.SlabIndex
	Area  SlabAreaIndex
}

// String implements fmt.Stringer.
func (a WorldArea) String() string {
	return fmt.Sprintf("WorldArea{%s, slab=%d, area=%d}", a.Chunk, a.Slab, a.Area)
}

// In reports whether a belongs to the given slab location.
func (a WorldArea) In(loc coord.SlabLocation) bool {
	return a.Chunk == loc.Chunk && a.Slab == loc.Slab
}

// Of attaches a chunk position to a SlabArea, producing a WorldArea.
func (sa SlabArea) Of(chunk coord.ChunkPos) WorldArea {
	return WorldArea{Chunk: chunk, Slab: sa.Slab, Area: sa.Area}
}
