package nav

import (
	"testing"

	"github.com/nn-sim/core/coord"
)

func TestBlockGraphFindPathStraightLine(t *testing.T) {
	g := NewBlockGraph()
	a := coord.BlockPos{X: 0, Y: 0, Z: 0}
	b := coord.BlockPos{X: 1, Y: 0, Z: 0}
	c := coord.BlockPos{X: 2, Y: 0, Z: 0}
	g.AddEdge(a, b, EdgeCost{Kind: Walk})
	g.AddEdge(b, c, EdgeCost{Kind: Walk})

	path, ok := g.FindPath(a, c)
	if !ok {
		t.Fatal("expected a path")
	}
	if len(path) != 3 || path[0].Pos != a || path[2].Pos != c {
		t.Fatalf("unexpected path: %v", path)
	}
}

func TestBlockGraphNoPathAcrossDisconnectedAreas(t *testing.T) {
	g := NewBlockGraph()
	a := coord.BlockPos{X: 0, Y: 0, Z: 0}
	g.AddEdge(a, a, EdgeCost{Kind: Walk})
	unknown := coord.BlockPos{X: 99, Y: 99, Z: 0}
	if _, ok := g.FindPath(a, unknown); ok {
		t.Fatal("expected no path to an unknown node")
	}
}

func TestEdgeCostOppositeReversesJumps(t *testing.T) {
	up := EdgeCost{Kind: JumpUp}
	if up.Opposite().Kind != JumpDown {
		t.Fatalf("expected JumpUp to reverse to JumpDown, got %v", up.Opposite().Kind)
	}
	down := EdgeCost{Kind: JumpDown}
	if down.Opposite().Kind != JumpUp {
		t.Fatalf("expected JumpDown to reverse to JumpUp, got %v", down.Opposite().Kind)
	}
	walk := EdgeCost{Kind: Walk}
	if walk.Opposite().Kind != Walk {
		t.Fatal("expected Walk to be its own opposite")
	}
}

func TestFromHeightDiffClassification(t *testing.T) {
	if c, ok := FromHeightDiff(0); !ok || c.Kind != Walk {
		t.Fatalf("expected Walk for zero diff, got %v ok=%v", c, ok)
	}
	if c, ok := FromHeightDiff(1); !ok || c.Kind != JumpUp {
		t.Fatalf("expected JumpUp for +1 diff, got %v ok=%v", c, ok)
	}
	if c, ok := FromHeightDiff(-1); !ok || c.Kind != JumpDown {
		t.Fatalf("expected JumpDown for -1 diff, got %v ok=%v", c, ok)
	}
	if _, ok := FromHeightDiff(3); ok {
		t.Fatal("expected a 3-block diff to be untraversable")
	}
}

func TestAreaGraphFindPath(t *testing.T) {
	g := NewAreaGraph()
	a1 := WorldArea{Chunk: coord.ChunkPos{X: 0}, Slab: 0, Area: 1}
	a2 := WorldArea{Chunk: coord.ChunkPos{X: 1}, Slab: 0, Area: 1}
	a3 := WorldArea{Chunk: coord.ChunkPos{X: 2}, Slab: 0, Area: 1}
	g.AddEdge(a1, AreaEdge{To: a2, Cost: EdgeCost{Kind: Walk}})
	g.AddEdge(a2, AreaEdge{To: a3, Cost: EdgeCost{Kind: Walk}})

	path, ok := g.FindPath(a1, a3)
	if !ok {
		t.Fatal("expected an area path")
	}
	if len(path) != 3 || path[0].Area != a1 || path[2].Area != a3 {
		t.Fatalf("unexpected area path: %v", path)
	}
}

func TestAreaGraphRemoveArea(t *testing.T) {
	g := NewAreaGraph()
	a1 := WorldArea{Chunk: coord.ChunkPos{}, Slab: 0, Area: 1}
	a2 := WorldArea{Chunk: coord.ChunkPos{X: 1}, Slab: 0, Area: 1}
	g.AddEdge(a1, AreaEdge{To: a2, Cost: EdgeCost{Kind: Walk}})

	g.RemoveArea(a2)
	if len(g.Neighbours(a1)) != 0 {
		t.Fatal("expected edges into a removed area to be dropped")
	}
}
