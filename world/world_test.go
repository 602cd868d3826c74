package world

import (
	"testing"

	"github.com/nn-sim/core/block"
	"github.com/nn-sim/core/coord"
)

func TestCowMutClonesOnSharedHandle(t *testing.T) {
	slab := NewEmptySlab(0)
	h1 := NewSlabHandle(slab)
	h2 := h1.Clone()
	defer h2.Release()

	if h1.IsExclusive() {
		t.Fatal("handle should not be exclusive while a clone is live")
	}

	mutated := h1.CowMut()
	if !mutated.IsExclusive() {
		t.Fatal("CowMut result must be exclusive")
	}
	mutated.Read().Set(coord.SlabPos{X: 1, Y: 1, Z: 1}, block.NewBlock(block.Stone))

	// The original clone's payload must be untouched by the mutation.
	if h2.Read().At(coord.SlabPos{X: 1, Y: 1, Z: 1}).Type != block.Air {
		t.Fatal("mutation through CowMut leaked into a shared clone")
	}
}

func TestCowMutSkipsCloneWhenExclusive(t *testing.T) {
	slab := NewEmptySlab(0)
	h := NewSlabHandle(slab)
	mutated := h.CowMut()
	if mutated.Read() != h.Read() {
		t.Fatal("CowMut on an exclusive handle should mutate in place, not clone")
	}
}

func TestPlaceholderSharedUntilWrite(t *testing.T) {
	a := PlaceholderHandle(0, block.Stone)
	b := PlaceholderHandle(0, block.Stone)
	defer b.Release()

	if a.Read() != b.Read() {
		t.Fatal("two placeholder handles for the same (index, type) must share one allocation")
	}
	mutated := a.CowMut()
	if mutated.Read() == b.Read() {
		t.Fatal("CowMut must promote a placeholder to a private copy")
	}
	if got := b.Read().At(coord.SlabPos{}); got.Type != block.Stone {
		t.Fatal("other placeholder handles must be unaffected by a promoted copy's future writes")
	}
}

func TestStoreGetNotLoaded(t *testing.T) {
	s := NewStore()
	_, err := s.Get(coord.BlockPos{})
	if err != ErrNotLoaded {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}

func TestStoreSetManyAndGet(t *testing.T) {
	s := NewStore()
	s.InstallSlab(coord.SlabLocation{Chunk: coord.ChunkPos{}, Slab: 0}, NewSlabHandle(NewEmptySlab(0)))

	pos := coord.BlockPos{X: 3, Y: 4, Z: 5}
	touched, err := s.SetMany([]Edit{{Pos: pos, Block: block.NewBlock(block.Dirt)}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(touched) != 1 {
		t.Fatalf("expected 1 touched slab, got %d", len(touched))
	}
	got, err := s.Get(pos)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type != block.Dirt {
		t.Fatalf("expected Dirt, got %v", got.Type)
	}
}

func TestStoreDamageDestroysSameCall(t *testing.T) {
	s := NewStore()
	s.InstallSlab(coord.SlabLocation{Chunk: coord.ChunkPos{}, Slab: 0}, NewSlabHandle(NewEmptySlab(0)))
	pos := coord.BlockPos{X: 1, Y: 1, Z: 1}
	if _, err := s.SetMany([]Edit{{Pos: pos, Block: block.NewBlock(block.Dirt)}}); err != nil {
		t.Fatal(err)
	}
	res, err := s.Damage(pos, block.Dirt.MaxDurability())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Destroyed || res.After.Type != block.Air {
		t.Fatalf("expected destroyed block to become Air, got %+v", res)
	}
	got, _ := s.Get(pos)
	if got.Type != block.Air {
		t.Fatalf("store read after damage should reflect Air, got %v", got.Type)
	}
}

func TestChunkLoadedRange(t *testing.T) {
	c := NewChunk(coord.ChunkPos{})
	if _, _, ok := c.LoadedRange(); ok {
		t.Fatal("fresh chunk should report no loaded range")
	}
	c.SetSlab(2, NewSlabHandle(NewEmptySlab(2)))
	c.SetSlab(-1, NewSlabHandle(NewEmptySlab(-1)))
	min, max, ok := c.LoadedRange()
	if !ok || min != -1 || max != 2 {
		t.Fatalf("expected range [-1, 2], got [%d, %d] ok=%v", min, max, ok)
	}
}
