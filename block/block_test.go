package block

import "testing"

func TestDamageDestroysToAirSameCall(t *testing.T) {
	b := NewBlock(Dirt)
	b, destroyed := b.Damage(Dirt.MaxDurability())
	if !destroyed {
		t.Fatal("expected block to be destroyed")
	}
	if b.Type != Air {
		t.Fatalf("expected Air after destruction, got %v", b.Type)
	}
	if b.Durability != 0 {
		t.Fatalf("expected zero durability for Air, got %d", b.Durability)
	}
}

func TestDamageOverkillStillAir(t *testing.T) {
	b := NewBlock(Sand)
	b, destroyed := b.Damage(Sand.MaxDurability() * 10)
	if !destroyed || b.Type != Air {
		t.Fatalf("overkill damage should still promote to Air, got %v destroyed=%v", b.Type, destroyed)
	}
}

func TestDamagePartialKeepsType(t *testing.T) {
	b := NewBlock(Stone)
	b, destroyed := b.Damage(1)
	if destroyed {
		t.Fatal("partial damage should not destroy the block")
	}
	if b.Type != Stone {
		t.Fatalf("expected Stone to remain Stone, got %v", b.Type)
	}
	if b.Durability != Stone.MaxDurability()-1 {
		t.Fatalf("expected durability %d, got %d", Stone.MaxDurability()-1, b.Durability)
	}
}

func TestAirAlwaysNoArea(t *testing.T) {
	b := NewBlock(Air)
	b = b.WithArea(42)
	if b.Area != NoArea {
		t.Fatalf("Air must always have NoArea, got %d", b.Area)
	}
}

func TestZeroAreaNotWalkable(t *testing.T) {
	b := NewBlock(Grass)
	if b.Walkable() {
		t.Fatal("block with NoArea must not be walkable even if the surface type is walkable")
	}
	b = b.WithArea(1)
	if !b.Walkable() {
		t.Fatal("block with a walkable surface type and non-zero area must be walkable")
	}
}

func TestNonWalkableSurfaceRejectsArea(t *testing.T) {
	b := NewBlock(StoneBrickWall)
	b = b.WithArea(7)
	if b.Area != NoArea {
		t.Fatalf("non-walkable-surface type must not accept an area, got %d", b.Area)
	}
}

func TestOpacity(t *testing.T) {
	if NewBlock(Leaves).Opaque() {
		t.Fatal("leaves should be transparent")
	}
	if !NewBlock(Stone).Opaque() {
		t.Fatal("stone should be opaque")
	}
	if NewBlock(Air).Opaque() {
		t.Fatal("air should be transparent")
	}
}

func TestRepairClampsToMax(t *testing.T) {
	b := NewBlock(Dirt)
	b, _ = b.Damage(39)
	b = b.Repair(100)
	if b.Durability != Dirt.MaxDurability() {
		t.Fatalf("expected repair to clamp to max %d, got %d", Dirt.MaxDurability(), b.Durability)
	}
}
