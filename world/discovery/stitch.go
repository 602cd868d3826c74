package discovery

import (
	"github.com/nn-sim/core/coord"
	"github.com/nn-sim/core/world/nav"
)

// Stitched is one directed area-graph edge produced by Phase B, paired with
// the WorldArea it originates from (AreaGraph.AddEdge needs both).
type Stitched struct {
	From WorldArea
	Edge nav.AreaEdge
}

// WorldArea is re-exported for callers that only import discovery.
type WorldArea = nav.WorldArea

// Stitch computes Phase B for slab loc: the area-graph edges created by
// matching loc's boundary exits against each face neighbour's boundary
// exits on the shared plane, using the along-seam coordinates identical on
// both sides (spec.md §4.2). Neighbours not yet discovered are simply
// skipped; the invariant that a slab's discovery can't finalise until its
// six neighbours reach TerrainReady is enforced by the loader, not here.
func Stitch(loc coord.SlabLocation, mine *SlabDiscovery, neighbours map[Face]*SlabDiscovery) []Stitched {
	var out []Stitched
	for _, face := range Faces {
		other, ok := neighbours[face]
		if !ok || other == nil {
			continue
		}
		out = append(out, stitchFace(loc, mine, face, other)...)
	}
	return out
}

// stitchFace matches exit points on loc's face against the opposite face of
// the neighbouring slab, pairing up positions that share the same
// along-seam coordinate on the shared plane.
func stitchFace(loc coord.SlabLocation, mine *SlabDiscovery, face Face, other *SlabDiscovery) []Stitched {
	opp := face.Opposite()
	otherLoc := face.NeighbourSlab(loc)

	mineExits := exitsOnFace(mine, face)
	otherExits := exitsOnFace(other, opp)

	var out []Stitched
	for key, mineExit := range mineExits {
		otherExit, ok := otherExits[key]
		if !ok {
			continue
		}
		cost, ok := planeCost(face, mineExit.Pos, otherExit.Pos)
		if !ok {
			continue
		}
		fromArea := nav.SlabArea{Slab: loc.Slab, Area: mineExit.Area}.Of(loc.Chunk)
		toArea := nav.SlabArea{Slab: otherLoc.Slab, Area: otherExit.Area}.Of(otherLoc.Chunk)
		out = append(out, Stitched{
			From: fromArea,
			Edge: nav.AreaEdge{
				To:      toArea,
				Cost:    cost,
				ViaFrom: coord.FromSlabPos(loc, mineExit.Pos),
				ViaTo:   coord.FromSlabPos(otherLoc, otherExit.Pos),
			},
		})
	}
	return out
}

// planeKey is the coordinate shared by two block tops facing each other
// across a slab boundary: one-dimensional for a lateral face (b unused),
// two-dimensional for a vertical face.
type planeKey struct {
	a, b uint8
}

func exitsOnFace(d *SlabDiscovery, face Face) map[planeKey]BoundaryExit {
	out := make(map[planeKey]BoundaryExit)
	for _, exit := range d.Boundary {
		if exit.Face != face {
			continue
		}
		out[planeKeyOf(face, exit.Pos)] = exit
	}
	return out
}

// planeKeyOf projects a slab-local position onto the coordinate system of
// the shared plane for face, so that a block on one slab's face and its
// counterpart on the neighbour's opposite face produce the same key. A
// lateral (chunk-crossing) face's shared plane is one-dimensional: the
// along-seam axis not being crossed. The two chunks it joins can still
// differ in height at that seam (spec.md §8 scenario S2's one-block step),
// so Z must not be part of the match key — it's compared separately by
// planeCost to classify the edge once a pair is matched. A vertical
// (Below/Above) face's shared plane is the full (X, Y) column, since its
// two sides are always exactly one block apart in world Z by construction.
func planeKeyOf(face Face, p coord.SlabPos) planeKey {
	switch face {
	case NegX, PosX:
		return planeKey{a: p.Y}
	case NegY, PosY:
		return planeKey{a: p.X}
	default: // Below, Above
		return planeKey{a: p.X, b: p.Y}
	}
}

// planeCost derives the traversal cost of a stitched edge from mine to
// other. Vertical (Below/Above) stitches join a slab to the one directly
// atop it at a fixed single-block vertical offset, so they are always a
// flat walk. Lateral (chunk-crossing) stitches join two columns at the
// same slab index but possibly different in-slab heights, so their cost
// is classified from the Z difference between the matched boundary
// blocks, the same way intra-slab edges are classified by
// nearestSurfaceNeighbour in discovery.go. ok is false if the matched
// blocks differ in height by more than one block can traverse, in which
// case no edge should be stitched.
func planeCost(face Face, mine, other coord.SlabPos) (nav.EdgeCost, bool) {
	if !face.Lateral() {
		return nav.EdgeCost{Kind: nav.Walk}, true
	}
	diff := float32(other.Z) - float32(mine.Z)
	return nav.FromHeightDiff(diff)
}
