package nav

import (
	"container/heap"

	"github.com/nn-sim/core/coord"
)

// blockEdge is one directed edge in a BlockGraph.
type blockEdge struct {
	to   coord.BlockPos
	cost EdgeCost
}

// BlockGraph is the final-mile routing graph for a single walkable area:
// nodes are walkable block tops, edges are the ones Phase A discovery
// emits. Grounded on
// original_source/world/src/area/block_navigation.rs's BlockGraph
// (petgraph DiGraph + node_lookup map), reimplemented with a plain
// adjacency map since Go has no petgraph equivalent in the example corpus.
type BlockGraph struct {
	adjacency map[coord.BlockPos][]blockEdge
}

// NewBlockGraph returns an empty block graph.
func NewBlockGraph() *BlockGraph {
	return &BlockGraph{adjacency: make(map[coord.BlockPos][]blockEdge)}
}

// AddEdge adds a directed edge from -> to with the given cost, plus the
// reverse edge to -> from with the opposite cost (spec.md: "All three
// graphs are directed (the reverse edge has the reversed jump cost)").
func (g *BlockGraph) AddEdge(from, to coord.BlockPos, cost EdgeCost) {
	g.addDirected(from, to, cost)
	g.addDirected(to, from, cost.Opposite())
}

func (g *BlockGraph) addDirected(from, to coord.BlockPos, cost EdgeCost) {
	for i, e := range g.adjacency[from] {
		if e.to == to {
			g.adjacency[from][i].cost = cost
			return
		}
	}
	g.adjacency[from] = append(g.adjacency[from], blockEdge{to: to, cost: cost})
	if _, ok := g.adjacency[to]; !ok {
		g.adjacency[to] = []blockEdge{}
	}
}

// HasNode reports whether pos has ever been added to the graph (as either
// edge endpoint).
func (g *BlockGraph) HasNode(pos coord.BlockPos) bool {
	_, ok := g.adjacency[pos]
	return ok
}

// EdgeBetween returns the cost of the edge from -> to, if any.
func (g *BlockGraph) EdgeBetween(from, to coord.BlockPos) (EdgeCost, bool) {
	for _, e := range g.adjacency[from] {
		if e.to == to {
			return e.cost, true
		}
	}
	return EdgeCost{}, false
}

// Neighbours returns the outgoing edges of pos.
func (g *BlockGraph) Neighbours(pos coord.BlockPos) []blockEdge {
	return g.adjacency[pos]
}

// NodeCount returns the number of distinct block positions in the graph.
func (g *BlockGraph) NodeCount() int { return len(g.adjacency) }

// BlockStep is one hop of a found BlockPath.
type BlockStep struct {
	Pos  coord.BlockPos
	Cost EdgeCost // the cost of the edge leading into Pos; zero-value for the first step
}

// BlockPath is an ordered sequence of block tops from source to goal.
type BlockPath []BlockStep

// FindPath runs A* from -> to within this single area's block graph, using
// squared Euclidean distance to to as the heuristic. The heuristic is not
// admissible (it exceeds the remaining Walk cost beyond one block), so the
// path found is not guaranteed to be the cheapest. Grounded on block_navigation.rs's use of petgraph::algo::astar with a
// squared-distance heuristic.
func (g *BlockGraph) FindPath(from, to coord.BlockPos) (BlockPath, bool) {
	path, found, _ := g.FindPathCancellable(from, to, nil)
	return path, found
}

// cancelCheckEvery bounds how often a search polls its cancellation channel,
// per spec.md §4.4 ("check it at most every N expanded nodes").
const cancelCheckEvery = 64

// FindPathCancellable is FindPath with a cancellation channel checked at
// most every cancelCheckEvery expanded nodes; aborted is true if cancel was
// closed before the search completed. A nil cancel never aborts.
func (g *BlockGraph) FindPathCancellable(from, to coord.BlockPos, cancel <-chan struct{}) (path BlockPath, found, aborted bool) {
	if !g.HasNode(from) || !g.HasNode(to) {
		return nil, false, false
	}
	if from == to {
		return BlockPath{{Pos: from}}, true, false
	}

	open := &pqueue{}
	heap.Init(open)
	heap.Push(open, &pqItem{pos: from, priority: heuristic(from, to)})

	gScore := map[coord.BlockPos]int64{from: 0}
	cameFrom := map[coord.BlockPos]coord.BlockPos{}
	cameCost := map[coord.BlockPos]EdgeCost{}
	visited := map[coord.BlockPos]bool{}

	var expanded int
	for open.Len() > 0 {
		cur := heap.Pop(open).(*pqItem)
		if visited[cur.pos] {
			continue
		}
		visited[cur.pos] = true
		expanded++
		if cancel != nil && expanded%cancelCheckEvery == 0 && isCancelled(cancel) {
			return nil, false, true
		}
		if cur.pos == to {
			return reconstruct(cameFrom, cameCost, from, to), true, false
		}
		for _, e := range g.adjacency[cur.pos] {
			tentative := gScore[cur.pos] + int64(e.cost.Weight())
			if best, ok := gScore[e.to]; !ok || tentative < best {
				gScore[e.to] = tentative
				cameFrom[e.to] = cur.pos
				cameCost[e.to] = e.cost
				heap.Push(open, &pqItem{pos: e.to, priority: tentative + heuristic(e.to, to)})
			}
		}
	}
	return nil, false, false
}

func isCancelled(cancel <-chan struct{}) bool {
	select {
	case <-cancel:
		return true
	default:
		return false
	}
}

func reconstruct(cameFrom map[coord.BlockPos]coord.BlockPos, cameCost map[coord.BlockPos]EdgeCost, from, to coord.BlockPos) BlockPath {
	var reversed BlockPath
	cur := to
	for cur != from {
		reversed = append(reversed, BlockStep{Pos: cur, Cost: cameCost[cur]})
		cur = cameFrom[cur]
	}
	reversed = append(reversed, BlockStep{Pos: from})
	path := make(BlockPath, len(reversed))
	for i, s := range reversed {
		path[len(reversed)-1-i] = s
	}
	return path
}

// heuristic is the squared Euclidean block distance. It can overestimate
// the remaining edge-weight cost, so it is not admissible.
func heuristic(a, b coord.BlockPos) int64 {
	return a.DistanceSquared(b)
}

// pqItem/pqueue implement a small binary min-heap priority queue for A*.
type pqItem struct {
	pos      coord.BlockPos
	priority int64
	index    int
}

type pqueue []*pqItem

func (q pqueue) Len() int            { return len(q) }
func (q pqueue) Less(i, j int) bool  { return q[i].priority < q[j].priority }
func (q pqueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i]; q[i].index, q[j].index = i, j }
func (q *pqueue) Push(x interface{}) {
	item := x.(*pqItem)
	item.index = len(*q)
	*q = append(*q, item)
}
func (q *pqueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}
