// Package discovery computes the walkable-area labelling and inter-slab
// stitching described in spec.md §4.2: Phase A (slab-local flood fill) and
// Phase B (six-face boundary stitching). Grounded on
// original_source/world/src/area/boundary.rs's ChunkBoundary, generalised
// from its four lateral faces to all six.
package discovery

import "github.com/nn-sim/core/coord"

// Face identifies one of the six faces of a slab. NegX/PosX/NegY/PosY are
// the four lateral (chunk) faces; Below/Above are the vertical (slab)
// faces. Grounded on boundary.rs's ChunkBoundary{Up,Down,Left,Right},
// generalised per spec.md's "Phase B... uses the same edge-cost table" for
// all six faces rather than just the four lateral ones.
type Face uint8

const (
	NegX Face = iota
	PosX
	NegY
	PosY
	Below
	Above
)

// Faces lists all six faces in a fixed order.
var Faces = [6]Face{NegX, PosX, NegY, PosY, Below, Above}

// Opposite returns the face on the other side of the shared plane.
func (f Face) Opposite() Face {
	switch f {
	case NegX:
		return PosX
	case PosX:
		return NegX
	case NegY:
		return PosY
	case PosY:
		return NegY
	case Below:
		return Above
	case Above:
		return Below
	default:
		return f
	}
}

// NeighbourSlab returns the SlabLocation adjacent to loc across f.
func (f Face) NeighbourSlab(loc coord.SlabLocation) coord.SlabLocation {
	switch f {
	case NegX:
		return coord.SlabLocation{Chunk: loc.Chunk.Add(-1, 0), Slab: loc.Slab}
	case PosX:
		return coord.SlabLocation{Chunk: loc.Chunk.Add(1, 0), Slab: loc.Slab}
	case NegY:
		return coord.SlabLocation{Chunk: loc.Chunk.Add(0, -1), Slab: loc.Slab}
	case PosY:
		return coord.SlabLocation{Chunk: loc.Chunk.Add(0, 1), Slab: loc.Slab}
	case Below:
		return loc.Below()
	case Above:
		return loc.Above()
	default:
		return loc
	}
}

// Lateral reports whether f is one of the four chunk-crossing faces, as
// opposed to the two vertical (same-chunk) faces.
func (f Face) Lateral() bool {
	return f == NegX || f == PosX || f == NegY || f == PosY
}

// BlocksOnFace calls visit once per slab-local position lying on face f,
// for every horizontal slice of the slab (for lateral faces) or just the
// single boundary slice (for vertical faces).
func BlocksOnFace(f Face, visit func(coord.SlabPos)) {
	const last = coord.ChunkSize - 1
	switch f {
	case NegX:
		forEachSlice(func(y uint8, z coord.LocalSliceIndex) { visit(coord.SlabPos{X: 0, Y: y, Z: z}) })
	case PosX:
		forEachSlice(func(y uint8, z coord.LocalSliceIndex) { visit(coord.SlabPos{X: last, Y: y, Z: z}) })
	case NegY:
		forEachSlice(func(x uint8, z coord.LocalSliceIndex) { visit(coord.SlabPos{X: x, Y: 0, Z: z}) })
	case PosY:
		forEachSlice(func(x uint8, z coord.LocalSliceIndex) { visit(coord.SlabPos{X: x, Y: last, Z: z}) })
	case Below:
		forEachColumn(func(x, y uint8) { visit(coord.SlabPos{X: x, Y: y, Z: 0}) })
	case Above:
		forEachColumn(func(x, y uint8) { visit(coord.SlabPos{X: x, Y: y, Z: coord.SlabSize - 1}) })
	}
}

func forEachSlice(visit func(lateral uint8, z coord.LocalSliceIndex)) {
	for z := 0; z < coord.SlabSize; z++ {
		for lateral := uint8(0); lateral < coord.ChunkSize; lateral++ {
			visit(lateral, coord.LocalSliceIndex(z))
		}
	}
}

func forEachColumn(visit func(x, y uint8)) {
	for y := uint8(0); y < coord.ChunkSize; y++ {
		for x := uint8(0); x < coord.ChunkSize; x++ {
			visit(x, y)
		}
	}
}
