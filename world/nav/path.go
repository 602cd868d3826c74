package nav

import (
	"errors"
	"sync"

	"github.com/nn-sim/core/coord"
)

// GoalKind is the closed set of path-request destination shapes from
// spec.md §4.4.
type GoalKind uint8

const (
	// Arrive requires standing exactly on Goal.Pos.
	Arrive GoalKind = iota
	// Adjacent requires standing on a walkable block 4-neighbouring
	// Goal.Pos, without entering it (e.g. to interact with whatever
	// occupies Goal.Pos itself).
	Adjacent
	// Nearby requires standing within Goal.Radius (Manhattan, same slice)
	// of Goal.Pos.
	Nearby
)

// Goal is the destination of a PathRequest.
type Goal struct {
	Kind   GoalKind
	Pos    coord.BlockPos
	Radius int32 // Nearby only
}

// PathRequest is one hierarchical path search, per spec.md §4.4.
type PathRequest struct {
	Source coord.BlockPos
	Goal   Goal
	Speed  float32
	Cancel <-chan struct{}
}

// Error kinds from spec.md §7, covering the path-search subset.
var (
	ErrSourceNotWalkable = errors.New("nav: source block is not walkable")
	ErrTargetNotWalkable = errors.New("nav: no walkable block satisfies the goal")
	ErrNoSuchArea        = errors.New("nav: stale area handle, caller must re-resolve")
	ErrAreaPath          = errors.New("nav: no area-graph path exists between source and goal")
	ErrBlockPath         = errors.New("nav: no block-graph path exists for a path leg")
	ErrAborted           = errors.New("nav: path search was cancelled")
)

// AreaResolver supplies the per-area data a Pathfinder needs without owning
// it: which area a block belongs to, and that area's block graph. Satisfied
// by loader.Pipeline against its live discovery state.
type AreaResolver interface {
	AreaOf(pos coord.BlockPos) (WorldArea, bool)
	BlockGraph(area WorldArea) (*BlockGraph, bool)
}

// areaPairKey is the memoisation key from spec.md §4.4's cache paragraph.
type areaPairKey struct {
	from, to WorldArea
	kind     GoalKind
}

// Pathfinder implements spec.md §4.4's full hierarchical path search: area
// resolution, same-area vs. cross-area routing, and per-leg block-graph
// splicing, over a shared AreaGraph and an AreaResolver for per-area block
// graphs.
type Pathfinder struct {
	areas    *AreaGraph
	resolver AreaResolver

	mu    sync.Mutex
	cache map[areaPairKey]AreaPath
}

// NewPathfinder returns a Pathfinder routing over areas (the world-wide area
// graph) using resolver for per-block area lookups and per-area block
// graphs.
func NewPathfinder(areas *AreaGraph, resolver AreaResolver) *Pathfinder {
	return &Pathfinder{areas: areas, resolver: resolver, cache: make(map[areaPairKey]AreaPath)}
}

// InvalidateArea drops every cached area-pair route touching area, per
// spec.md §4.4's "invalidation on any discovery change touching either
// area". Callers that mutate discovery state (re-running Phase A/B on a
// changed slab) are responsible for calling this for every area they
// touched.
func (pf *Pathfinder) InvalidateArea(area WorldArea) {
	pf.mu.Lock()
	defer pf.mu.Unlock()
	for k := range pf.cache {
		if k.from == area || k.to == area {
			delete(pf.cache, k)
		}
	}
}

// FindPath runs the full algorithm for req and returns the spliced block
// path from req.Source to a block satisfying req.Goal.
func (pf *Pathfinder) FindPath(req PathRequest) (BlockPath, error) {
	sourceArea, ok := pf.resolver.AreaOf(req.Source)
	if !ok {
		return nil, ErrSourceNotWalkable
	}

	goalPos, goalArea, ok := pf.resolveGoal(req.Goal)
	if !ok {
		return nil, ErrTargetNotWalkable
	}

	if sourceArea == goalArea {
		bg, ok := pf.resolver.BlockGraph(sourceArea)
		if !ok {
			return nil, ErrNoSuchArea
		}
		path, found, aborted := bg.FindPathCancellable(req.Source, goalPos, req.Cancel)
		if aborted {
			return nil, ErrAborted
		}
		if !found {
			return nil, ErrBlockPath
		}
		return path, nil
	}

	areaPath, aborted, err := pf.areaPathCached(sourceArea, goalArea, req.Goal.Kind, req.Cancel)
	if err != nil {
		return nil, err
	}
	if aborted {
		return nil, ErrAborted
	}

	return pf.splice(areaPath, req.Source, goalPos, req.Cancel)
}

// areaPathCached returns the area-graph route from -> to, memoised per
// spec.md §4.4's cache paragraph. Cache hits/misses are independent of any
// cancellation passed by the caller that populated the entry; a later
// caller that cancels mid-search still pays for that search (the cache
// stores completed results only).
func (pf *Pathfinder) areaPathCached(from, to WorldArea, kind GoalKind, cancel <-chan struct{}) (AreaPath, bool, error) {
	key := areaPairKey{from: from, to: to, kind: kind}

	pf.mu.Lock()
	if cached, ok := pf.cache[key]; ok {
		pf.mu.Unlock()
		return cached, false, nil
	}
	pf.mu.Unlock()

	path, found, aborted := pf.areas.FindPathCancellable(from, to, cancel)
	if aborted {
		return nil, true, nil
	}
	if !found {
		return nil, false, ErrAreaPath
	}

	pf.mu.Lock()
	pf.cache[key] = path
	pf.mu.Unlock()
	return path, false, nil
}

// splice runs step 4 of spec.md §4.4: a block-graph A* within each area of
// areaPath in turn, joining consecutive legs at the stitched crossing point
// each AreaEdge carries.
func (pf *Pathfinder) splice(areaPath AreaPath, source, goal coord.BlockPos, cancel <-chan struct{}) (BlockPath, error) {
	var full BlockPath
	cursor := source

	for i := 0; i < len(areaPath); i++ {
		area := areaPath[i].Area
		bg, ok := pf.resolver.BlockGraph(area)
		if !ok {
			return nil, ErrNoSuchArea
		}

		target := goal
		if i < len(areaPath)-1 {
			target = areaPath[i+1].Via.ViaFrom
		}

		seg, found, aborted := bg.FindPathCancellable(cursor, target, cancel)
		if aborted {
			return nil, ErrAborted
		}
		if !found {
			return nil, ErrBlockPath
		}
		full = appendSegment(full, seg)

		if i < len(areaPath)-1 {
			via := areaPath[i+1].Via
			full = append(full, BlockStep{Pos: via.ViaTo, Cost: via.Cost})
			cursor = via.ViaTo
		}
	}
	return full, nil
}

// appendSegment appends seg to full, dropping seg's first step if it merely
// repeats full's current last position (every leg after the first starts
// exactly where the previous one's crossing step left off).
func appendSegment(full, seg BlockPath) BlockPath {
	if len(full) == 0 {
		return append(full, seg...)
	}
	if len(seg) > 0 && seg[0].Pos == full[len(full)-1].Pos {
		seg = seg[1:]
	}
	return append(full, seg...)
}

// resolveGoal turns a Goal into a concrete block position and its owning
// area, per its Kind.
func (pf *Pathfinder) resolveGoal(goal Goal) (coord.BlockPos, WorldArea, bool) {
	switch goal.Kind {
	case Adjacent:
		for _, n := range goal.Pos.Neighbours4() {
			if area, ok := pf.resolver.AreaOf(n); ok {
				return n, area, true
			}
		}
		return coord.BlockPos{}, WorldArea{}, false
	case Nearby:
		return pf.resolveNearby(goal.Pos, goal.Radius)
	default: // Arrive
		area, ok := pf.resolver.AreaOf(goal.Pos)
		return goal.Pos, area, ok
	}
}

// resolveNearby finds the walkable block closest (Manhattan, same slice) to
// centre within radius, scanning outward ring by ring in a fixed coordinate
// order so the result is deterministic (spec.md §8 invariant 9).
func (pf *Pathfinder) resolveNearby(centre coord.BlockPos, radius int32) (coord.BlockPos, WorldArea, bool) {
	if area, ok := pf.resolver.AreaOf(centre); ok {
		return centre, area, true
	}
	for d := int32(1); d <= radius; d++ {
		for dx := -d; dx <= d; dx++ {
			dy := d - abs32(dx)
			for _, cand := range candidatesAt(centre, dx, dy) {
				if area, ok := pf.resolver.AreaOf(cand); ok {
					return cand, area, true
				}
			}
		}
	}
	return coord.BlockPos{}, WorldArea{}, false
}

// candidatesAt returns the one or two positions offset by (dx, ±dy) from
// centre on the same slice, in a fixed order.
func candidatesAt(centre coord.BlockPos, dx, dy int32) []coord.BlockPos {
	if dy == 0 {
		return []coord.BlockPos{centre.Add(dx, 0, 0)}
	}
	return []coord.BlockPos{centre.Add(dx, dy, 0), centre.Add(dx, -dy, 0)}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
