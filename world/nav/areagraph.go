package nav

import (
	"container/heap"
	"math"

	"github.com/nn-sim/core/coord"
)

// AreaEdge is one directed stitch between two WorldAreas, produced by
// discovery's Phase B, carrying the block tops the stitch actually crosses
// at (so a path can splice back into each area's block graph).
type AreaEdge struct {
	To      WorldArea
	Cost    EdgeCost
	ViaFrom coord.BlockPos
	ViaTo   coord.BlockPos
}

// ChunkAreaGraph connects the WorldAreas present in a single chunk (across
// its loaded slabs), used for vertical routing within one chunk. Grounded
// on spec.md §4.3's "Chunk-area graph" layer.
type ChunkAreaGraph struct {
	chunk coord.ChunkPos
	edges map[WorldArea][]AreaEdge
}

// NewChunkAreaGraph returns an empty chunk-area graph for chunk.
func NewChunkAreaGraph(chunk coord.ChunkPos) *ChunkAreaGraph {
	return &ChunkAreaGraph{chunk: chunk, edges: make(map[WorldArea][]AreaEdge)}
}

// AddEdge records a vertical stitch between two areas of the same chunk.
func (g *ChunkAreaGraph) AddEdge(from WorldArea, edge AreaEdge) {
	g.edges[from] = append(g.edges[from], edge)
	if _, ok := g.edges[edge.To]; !ok {
		g.edges[edge.To] = []AreaEdge{}
	}
}

// Neighbours returns the outgoing stitches from area.
func (g *ChunkAreaGraph) Neighbours(area WorldArea) []AreaEdge { return g.edges[area] }

// AreaGraph is the world-wide graph of all loaded WorldAreas, used for
// long-distance routing. It holds every stitch, not only those that cross a
// chunk boundary: loader.Pipeline also adds same-chunk vertical stitches
// here (as well as to the chunk's ChunkAreaGraph), and Pathfinder searches
// this graph alone.
type AreaGraph struct {
	edges map[WorldArea][]AreaEdge
}

// NewAreaGraph returns an empty area graph.
func NewAreaGraph() *AreaGraph {
	return &AreaGraph{edges: make(map[WorldArea][]AreaEdge)}
}

// AddEdge records a stitch between two areas.
func (g *AreaGraph) AddEdge(from WorldArea, edge AreaEdge) {
	g.edges[from] = append(g.edges[from], edge)
	if _, ok := g.edges[edge.To]; !ok {
		g.edges[edge.To] = []AreaEdge{}
	}
}

// RemoveArea drops every edge touching area, used when re-discovery
// invalidates a slab's areas.
func (g *AreaGraph) RemoveArea(area WorldArea) {
	delete(g.edges, area)
	for from, edges := range g.edges {
		kept := edges[:0]
		for _, e := range edges {
			if e.To != area {
				kept = append(kept, e)
			}
		}
		g.edges[from] = kept
	}
}

// Neighbours returns the outgoing stitches from area.
func (g *AreaGraph) Neighbours(area WorldArea) []AreaEdge { return g.edges[area] }

// HasArea reports whether area has been registered as a node (even with no
// edges).
func (g *AreaGraph) HasArea(area WorldArea) bool {
	_, ok := g.edges[area]
	return ok
}

// areaQueueItem is the binary-heap entry used by AreaGraph's Dijkstra pass.
type areaQueueItem struct {
	area     WorldArea
	priority int64
	heur     int64
	index    int
}

type areaQueue []*areaQueueItem

func (q areaQueue) Len() int { return len(q) }
func (q areaQueue) Less(i, j int) bool {
	fi, fj := q[i].priority+q[i].heur, q[j].priority+q[j].heur
	if fi != fj {
		return fi < fj
	}
	// Deterministic tie-break per spec.md §4.4: lower chunk coordinate, then
	// lower slab index.
	return lessArea(q[i].area, q[j].area)
}
func (q areaQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index, q[j].index = i, j
}
func (q *areaQueue) Push(x interface{}) {
	item := x.(*areaQueueItem)
	item.index = len(*q)
	*q = append(*q, item)
}
func (q *areaQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// AreaPath is an ordered sequence of area-graph hops from source to goal,
// each carrying the edge used to reach it.
type AreaPath []struct {
	Area WorldArea
	Via  AreaEdge
}

// AreaHeuristic estimates travel cost between two areas, in the same units
// as EdgeCost.Weight, as the Euclidean distance (rounded down) between
// their (chunk X, chunk Y, slab) coordinates; area centroids are not used.
// It is admissible: every area edge moves one chunk or one slab and weighs
// at least one Walk.
func AreaHeuristic(from, to WorldArea) int64 {
	dx := float64(from.Chunk.X - to.Chunk.X)
	dy := float64(from.Chunk.Y - to.Chunk.Y)
	dz := float64(from.Slab - to.Slab)
	return int64(math.Sqrt(dx*dx + dy*dy + dz*dz))
}

// FindPath runs Dijkstra/A* over the area graph from -> to, tie-breaking
// ties in the frontier by lower chunk coordinate then lower slab index
// (spec.md §4.4's deterministic tie-break), using AreaHeuristic for
// guidance.
func (g *AreaGraph) FindPath(from, to WorldArea) (AreaPath, bool) {
	path, found, _ := g.FindPathCancellable(from, to, nil)
	return path, found
}

// FindPathCancellable is FindPath with a cancellation channel checked at
// most every cancelCheckEvery expanded areas; aborted is true if cancel was
// closed before the search completed. A nil cancel never aborts.
func (g *AreaGraph) FindPathCancellable(from, to WorldArea, cancel <-chan struct{}) (path AreaPath, found, aborted bool) {
	if !g.HasArea(from) || !g.HasArea(to) {
		return nil, false, false
	}
	if from == to {
		return AreaPath{{Area: from}}, true, false
	}

	open := &areaQueue{}
	heap.Init(open)
	heap.Push(open, &areaQueueItem{area: from, priority: 0, heur: AreaHeuristic(from, to)})

	best := map[WorldArea]int64{from: 0}
	cameFrom := map[WorldArea]WorldArea{}
	cameVia := map[WorldArea]AreaEdge{}
	visited := map[WorldArea]bool{}

	var expanded int
	for open.Len() > 0 {
		cur := heap.Pop(open).(*areaQueueItem)
		if visited[cur.area] {
			continue
		}
		visited[cur.area] = true
		expanded++
		if cancel != nil && expanded%cancelCheckEvery == 0 && isCancelled(cancel) {
			return nil, false, true
		}
		if cur.area == to {
			return reconstructAreaPath(cameFrom, cameVia, from, to), true, false
		}
		for _, e := range g.edges[cur.area] {
			tentative := best[cur.area] + int64(e.Cost.Weight())
			if b, ok := best[e.To]; !ok || tentative < b {
				best[e.To] = tentative
				cameFrom[e.To] = cur.area
				cameVia[e.To] = e
				heap.Push(open, &areaQueueItem{area: e.To, priority: tentative, heur: AreaHeuristic(e.To, to)})
			}
		}
	}
	return nil, false, false
}

func lessArea(a, b WorldArea) bool {
	if a.Chunk.X != b.Chunk.X {
		return a.Chunk.X < b.Chunk.X
	}
	if a.Chunk.Y != b.Chunk.Y {
		return a.Chunk.Y < b.Chunk.Y
	}
	return a.Slab < b.Slab
}

func reconstructAreaPath(cameFrom map[WorldArea]WorldArea, cameVia map[WorldArea]AreaEdge, from, to WorldArea) AreaPath {
	type hop = struct {
		Area WorldArea
		Via  AreaEdge
	}
	var reversed []hop
	cur := to
	for cur != from {
		reversed = append(reversed, hop{Area: cur, Via: cameVia[cur]})
		cur = cameFrom[cur]
	}
	reversed = append(reversed, hop{Area: from})
	path := make(AreaPath, len(reversed))
	for i, h := range reversed {
		path[len(reversed)-1-i] = h
	}
	return path
}
