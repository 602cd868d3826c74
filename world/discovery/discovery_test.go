package discovery

import (
	"testing"

	"github.com/nn-sim/core/block"
	"github.com/nn-sim/core/coord"
	"github.com/nn-sim/core/world"
	"github.com/nn-sim/core/world/nav"
)

func flatSlab() *world.Slab {
	s := world.NewEmptySlab(0)
	for y := uint8(0); y < coord.ChunkSize; y++ {
		for x := uint8(0); x < coord.ChunkSize; x++ {
			s.Set(coord.SlabPos{X: x, Y: y, Z: 0}, block.NewBlock(block.Stone))
		}
	}
	return s
}

func TestDiscoverFlatSlabSingleArea(t *testing.T) {
	s := flatSlab()
	loc := coord.SlabLocation{Chunk: coord.ChunkPos{}, Slab: 0}
	d := DiscoverSlab(loc, s, func(coord.SlabPos) bool { return false })

	if len(d.Graphs) != 1 {
		t.Fatalf("expected a single connected area over a flat floor, got %d", len(d.Graphs))
	}
	if len(d.AreaOf) != coord.ChunkSize*coord.ChunkSize {
		t.Fatalf("expected every column labelled, got %d", len(d.AreaOf))
	}
}

func TestDiscoverSplitByWall(t *testing.T) {
	s := flatSlab()
	// Build a 2-block-high wall (too tall to jump) splitting the floor in
	// two down the middle; no walkable surface exists anywhere in the wall
	// column, so the two sides cannot flood-fill into each other.
	for y := uint8(0); y < coord.ChunkSize; y++ {
		s.Set(coord.SlabPos{X: 8, Y: y, Z: 0}, block.NewBlock(block.StoneBrickWall))
		s.Set(coord.SlabPos{X: 8, Y: y, Z: 1}, block.NewBlock(block.StoneBrickWall))
	}
	loc := coord.SlabLocation{Chunk: coord.ChunkPos{}, Slab: 0}
	d := DiscoverSlab(loc, s, func(coord.SlabPos) bool { return false })

	west := d.AreaOf[coord.SlabPos{X: 0, Y: 0, Z: 0}]
	east := d.AreaOf[coord.SlabPos{X: 15, Y: 0, Z: 0}]
	if west == 0 || east == 0 {
		t.Fatalf("expected both sides of the wall to be labelled, got west=%d east=%d", west, east)
	}
	if west == east {
		t.Fatalf("expected the wall to split the floor into two areas, got the same area %d on both sides", west)
	}
}

func TestDiscoverJumpUpStep(t *testing.T) {
	s := world.NewEmptySlab(0)
	for y := uint8(0); y < coord.ChunkSize; y++ {
		for x := uint8(0); x < coord.ChunkSize; x++ {
			z := coord.LocalSliceIndex(0)
			if x >= 8 {
				z = 1
			}
			s.Set(coord.SlabPos{X: x, Y: y, Z: z}, block.NewBlock(block.Stone))
		}
	}
	loc := coord.SlabLocation{Chunk: coord.ChunkPos{}, Slab: 0}
	d := DiscoverSlab(loc, s, func(coord.SlabPos) bool { return false })

	low := d.AreaOf[coord.SlabPos{X: 7, Y: 0, Z: 0}]
	high := d.AreaOf[coord.SlabPos{X: 8, Y: 0, Z: 1}]
	if low == 0 || high == 0 {
		t.Fatal("expected both step levels to be labelled")
	}
	if low != high {
		t.Fatalf("a 1-block step should stay within the same area, got %d vs %d", low, high)
	}
}

func TestStitchLateralFace(t *testing.T) {
	s := flatSlab()
	locA := coord.SlabLocation{Chunk: coord.ChunkPos{X: 0, Y: 0}, Slab: 0}
	locB := coord.SlabLocation{Chunk: coord.ChunkPos{X: 1, Y: 0}, Slab: 0}

	dA := DiscoverSlab(locA, s, func(coord.SlabPos) bool { return false })
	dB := DiscoverSlab(locB, s, func(coord.SlabPos) bool { return false })

	edges := Stitch(locA, dA, map[Face]*SlabDiscovery{PosX: dB})
	if len(edges) == 0 {
		t.Fatal("expected stitched edges across the +X face between two flat slabs")
	}
	for _, e := range edges {
		if e.From.Chunk != locA.Chunk {
			t.Fatalf("stitched edge should originate from slab A's area, got %v", e.From)
		}
		if e.Edge.To.Chunk != locB.Chunk {
			t.Fatalf("stitched edge should land in slab B's area, got %v", e.Edge.To)
		}
		if e.Edge.Cost.Kind != nav.Walk {
			t.Fatalf("expected a flat walk between two same-height flat slabs, got %v", e.Edge.Cost.Kind)
		}
	}
}

// TestStitchLateralFaceStep covers spec.md §8 scenario S2: two adjacent
// chunks with a 1-block step between their shared edge must stitch only
// JumpUp edges from the low side (and, read from the other side, only
// JumpDown edges), one per matched seam column, never a flat Walk.
func TestStitchLateralFaceStep(t *testing.T) {
	sLow := flatSlab() // floor at Z = 0 across the whole slab

	sHigh := world.NewEmptySlab(0)
	for y := uint8(0); y < coord.ChunkSize; y++ {
		for x := uint8(0); x < coord.ChunkSize; x++ {
			sHigh.Set(coord.SlabPos{X: x, Y: y, Z: 1}, block.NewBlock(block.Stone))
		}
	}

	locLow := coord.SlabLocation{Chunk: coord.ChunkPos{X: 0, Y: 0}, Slab: 0}
	locHigh := coord.SlabLocation{Chunk: coord.ChunkPos{X: 1, Y: 0}, Slab: 0}

	dLow := DiscoverSlab(locLow, sLow, func(coord.SlabPos) bool { return false })
	dHigh := DiscoverSlab(locHigh, sHigh, func(coord.SlabPos) bool { return false })

	lowToHigh := Stitch(locLow, dLow, map[Face]*SlabDiscovery{PosX: dHigh})
	if len(lowToHigh) == 0 {
		t.Fatal("expected stitched edges across the stepped +X face")
	}
	for _, e := range lowToHigh {
		if e.Edge.Cost.Kind != nav.JumpUp {
			t.Fatalf("expected a JumpUp edge from the low side to the high side, got %v", e.Edge.Cost.Kind)
		}
	}

	highToLow := Stitch(locHigh, dHigh, map[Face]*SlabDiscovery{NegX: dLow})
	if len(highToLow) == 0 {
		t.Fatal("expected stitched edges across the stepped -X face")
	}
	for _, e := range highToLow {
		if e.Edge.Cost.Kind != nav.JumpDown {
			t.Fatalf("expected a JumpDown edge from the high side to the low side, got %v", e.Edge.Cost.Kind)
		}
	}
}
