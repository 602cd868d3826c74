// Package spatial implements the proximity index of spec.md §9's design
// notes: an R-tree over live entities' horizontal positions, rebuilt once
// per tick and queried by herding/sensing/item-search systems. Grounded on
// the teacher's use of tidwall's ecosystem for spatial queries (geoindex
// sits on top of tidwall/rtree the same way this package does) and
// generalised from "2D geographic index" to "2D ground-plane entity
// index": only the X and Z components of Transform's Vec3 are indexed, and
// proximity queries ignore Y entirely (there is no vertical post-filter).
package spatial

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tidwall/rtree"

	"github.com/nn-sim/core/sim"
	"github.com/nn-sim/core/sim/entity"
)

// Index is a rebuildable R-tree of entity positions.
type Index struct {
	tree rtree.RTree[entity.ID]
	pos  map[entity.ID]mgl32.Vec3
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{pos: make(map[entity.ID]mgl32.Vec3)}
}

// Rebuild clears and repopulates the index from every entity currently
// holding a Transform component. cmd/simcore calls it once per tick from
// rebuildIndexSystem, the first registered system.
func (idx *Index) Rebuild(w *sim.World) {
	for id, p := range idx.pos {
		pt := point(p)
		idx.tree.Delete(pt, pt, id)
		delete(idx.pos, id)
	}
	w.Transforms.Each(func(id entity.ID, t entity.Transform) {
		pt := point(t.Pos)
		idx.tree.Insert(pt, pt, id)
		idx.pos[id] = t.Pos
	})
}

// Within returns every indexed entity within radius (ground-plane distance,
// X/Z only) of center, excluding the optional self id.
func (idx *Index) Within(center mgl32.Vec3, radius float32, self entity.ID) []entity.ID {
	min := [2]float64{float64(center.X() - radius), float64(center.Z() - radius)}
	max := [2]float64{float64(center.X() + radius), float64(center.Z() + radius)}

	radiusSq := float64(radius * radius)
	var found []entity.ID
	idx.tree.Search(min, max, func(_, _ [2]float64, id entity.ID) bool {
		if id == self {
			return true
		}
		p, ok := idx.pos[id]
		if !ok {
			return true
		}
		dx := float64(p.X() - center.X())
		dz := float64(p.Z() - center.Z())
		if dx*dx+dz*dz <= radiusSq {
			found = append(found, id)
		}
		return true
	})
	return found
}

// Len returns the number of entities currently indexed.
func (idx *Index) Len() int { return idx.tree.Len() }

func point(p mgl32.Vec3) [2]float64 {
	return [2]float64{float64(p.X()), float64(p.Z())}
}
