package spatial

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/nn-sim/core/sim"
	"github.com/nn-sim/core/sim/entity"
)

func TestIndexWithinFindsNearbyExcludesFar(t *testing.T) {
	w := sim.NewWorld()
	near := w.Entities.Alloc()
	far := w.Entities.Alloc()
	self := w.Entities.Alloc()

	w.Transforms.Set(self, entity.Transform{Pos: mgl32.Vec3{0, 0, 0}})
	w.Transforms.Set(near, entity.Transform{Pos: mgl32.Vec3{2, 0, 2}})
	w.Transforms.Set(far, entity.Transform{Pos: mgl32.Vec3{100, 0, 100}})

	idx := NewIndex()
	idx.Rebuild(w)

	found := idx.Within(mgl32.Vec3{0, 0, 0}, 10, self)
	if len(found) != 1 || found[0] != near {
		t.Fatalf("expected only `near` within radius, got %v", found)
	}
}

func TestIndexRebuildDropsStaleEntries(t *testing.T) {
	w := sim.NewWorld()
	id := w.Entities.Alloc()
	w.Transforms.Set(id, entity.Transform{Pos: mgl32.Vec3{0, 0, 0}})

	idx := NewIndex()
	idx.Rebuild(w)
	if idx.Len() != 1 {
		t.Fatalf("expected 1 indexed entity, got %d", idx.Len())
	}

	w.Transforms.Remove(id)
	idx.Rebuild(w)
	if idx.Len() != 0 {
		t.Fatalf("expected 0 indexed entities after removal, got %d", idx.Len())
	}
}
