package discovery

import (
	"github.com/nn-sim/core/coord"
	"github.com/nn-sim/core/world"
	"github.com/nn-sim/core/world/nav"
)

// BoundaryExit is one block top on a slab's face, annotated with the area
// it belongs to, emitted by Phase A for later stitching by Phase B.
// Grounded on spec.md §4.2's "a set of boundary exit points (block tops on
// the slab's six faces annotated with their label)".
type BoundaryExit struct {
	Face Face
	Pos  coord.SlabPos
	Area nav.SlabAreaIndex
}

// SlabDiscovery is the full result of Phase A for one slab: per-block area
// labels, the per-area block graphs, and the boundary exits later consumed
// by Phase B.
type SlabDiscovery struct {
	Loc coord.SlabLocation

	AreaOf   map[coord.SlabPos]nav.SlabAreaIndex
	Graphs   map[nav.SlabAreaIndex]*nav.BlockGraph
	Boundary []BoundaryExit
	NextArea nav.SlabAreaIndex
}

// isSurface reports whether the block at p is a walkable top: a
// walkable-surface type with a non-opaque block directly above. aboveOpaque
// supplies the opacity of the block one slice above p when p is the slab's
// topmost slice (the caller passes the neighbour slab's bottom slice, or
// assumes transparent/air if that neighbour isn't loaded yet).
func isSurface(s *world.Slab, p coord.SlabPos, aboveOpaque func(coord.SlabPos) bool) bool {
	b := s.At(p)
	if !b.Type.WalkableSurface() {
		return false
	}
	if int(p.Z) == coord.SlabSize-1 {
		return !aboveOpaque(p)
	}
	above := s.At(coord.SlabPos{X: p.X, Y: p.Y, Z: p.Z + 1})
	return !above.Opaque()
}

// DiscoverSlab runs Phase A: a 4-neighbour flood fill over every walkable
// block top in the slab, assigning each a SlabAreaIndex and building the
// per-area block graph of internal edges. aboveOpaque reports, for a
// top-slice position, whether the block directly above (in the
// not-yet-necessarily-loaded slab above) is opaque; pass a function
// returning false if that neighbour is unavailable, and re-run discovery
// once it becomes TerrainReady.
func DiscoverSlab(loc coord.SlabLocation, s *world.Slab, aboveOpaque func(coord.SlabPos) bool) *SlabDiscovery {
	d := &SlabDiscovery{
		Loc:      loc,
		AreaOf:   make(map[coord.SlabPos]nav.SlabAreaIndex),
		Graphs:   make(map[nav.SlabAreaIndex]*nav.BlockGraph),
		NextArea: nav.FirstArea,
	}

	surfaces := make(map[coord.SlabPos]bool)
	for z := 0; z < coord.SlabSize; z++ {
		for y := uint8(0); y < coord.ChunkSize; y++ {
			for x := uint8(0); x < coord.ChunkSize; x++ {
				p := coord.SlabPos{X: x, Y: y, Z: coord.LocalSliceIndex(z)}
				if isSurface(s, p, aboveOpaque) {
					surfaces[p] = true
				}
			}
		}
	}

	for p := range surfaces {
		if _, done := d.AreaOf[p]; done {
			continue
		}
		area := d.NextArea
		d.NextArea++
		graph := nav.NewBlockGraph()
		d.floodFill(s, surfaces, p, area, graph)
		d.Graphs[area] = graph
	}

	for p, area := range d.AreaOf {
		abs := coord.FromSlabPos(loc, p)
		graph := d.Graphs[area]
		if !graph.HasNode(abs) {
			graph.AddEdge(abs, abs, nav.EdgeCost{Kind: nav.Walk})
		}
	}

	for _, f := range Faces {
		BlocksOnFace(f, func(p coord.SlabPos) {
			if area, ok := d.AreaOf[p]; ok {
				d.Boundary = append(d.Boundary, BoundaryExit{Face: f, Pos: p, Area: area})
			}
		})
	}

	return d
}

// floodFill assigns area to p and every position transitively reachable
// from it through the four lateral surface neighbours within the jump
// envelope, adding the traversed edges to graph.
func (d *SlabDiscovery) floodFill(s *world.Slab, surfaces map[coord.SlabPos]bool, start coord.SlabPos, area nav.SlabAreaIndex, graph *nav.BlockGraph) {
	queue := []coord.SlabPos{start}
	d.AreaOf[start] = area

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		for _, n := range lateralCandidates(p) {
			np, cost, ok := nearestSurfaceNeighbour(s, surfaces, n)
			if !ok {
				continue
			}
			if existing, done := d.AreaOf[np]; done {
				if existing != area {
					// Already claimed by a different flood (shouldn't
					// happen for a connected surface, but keep Phase A
					// idempotent rather than panicking).
					continue
				}
			} else {
				d.AreaOf[np] = area
				queue = append(queue, np)
			}
			fromAbs := coord.FromSlabPos(d.Loc, p)
			toAbs := coord.FromSlabPos(d.Loc, np)
			graph.AddEdge(fromAbs, toAbs, cost)
		}
	}
}

// lateralCandidates returns the four (x, y) neighbour columns of p.
func lateralCandidates(p coord.SlabPos) []coord.SlabPos {
	out := make([]coord.SlabPos, 0, 4)
	if p.X > 0 {
		out = append(out, coord.SlabPos{X: p.X - 1, Y: p.Y, Z: p.Z})
	}
	if p.X < coord.ChunkSize-1 {
		out = append(out, coord.SlabPos{X: p.X + 1, Y: p.Y, Z: p.Z})
	}
	if p.Y > 0 {
		out = append(out, coord.SlabPos{X: p.X, Y: p.Y - 1, Z: p.Z})
	}
	if p.Y < coord.ChunkSize-1 {
		out = append(out, coord.SlabPos{X: p.X, Y: p.Y + 1, Z: p.Z})
	}
	return out
}

// nearestSurfaceNeighbour looks for a surface block in the neighbour column
// described by n (same x/y, n.Z is the baseline height), scanning a small
// vertical window so steps, jumps and falls of up to one block are found,
// and classifies the edge cost via the height difference.
func nearestSurfaceNeighbour(s *world.Slab, surfaces map[coord.SlabPos]bool, n coord.SlabPos) (coord.SlabPos, nav.EdgeCost, bool) {
	for _, dz := range [3]int{0, 1, -1} {
		z := int(n.Z) + dz
		if z < 0 || z >= coord.SlabSize {
			continue
		}
		cand := coord.SlabPos{X: n.X, Y: n.Y, Z: coord.LocalSliceIndex(z)}
		if !surfaces[cand] {
			continue
		}
		cost, ok := nav.FromHeightDiff(float32(dz))
		if !ok {
			continue
		}
		return cand, cost, true
	}
	return coord.SlabPos{}, nav.EdgeCost{}, false
}
