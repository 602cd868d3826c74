package entity

import "testing"

func TestAllocatorReusesFreedSlotWithBumpedGeneration(t *testing.T) {
	a := NewAllocator()
	id1 := a.Alloc()
	if !a.IsAlive(id1) {
		t.Fatal("freshly allocated id should be alive")
	}
	a.Free(id1)
	if a.IsAlive(id1) {
		t.Fatal("freed id should no longer be alive")
	}
	id2 := a.Alloc()
	if id2.Index != id1.Index {
		t.Fatalf("expected slot reuse: got index %d, want %d", id2.Index, id1.Index)
	}
	if id2.Generation == id1.Generation {
		t.Fatal("reused slot must have a bumped generation")
	}
	if a.IsAlive(id1) {
		t.Fatal("the stale id1 must not be considered alive after reuse")
	}
	if !a.IsAlive(id2) {
		t.Fatal("the fresh id2 must be alive")
	}
}

func TestAllocatorFreeUnknownIsNoop(t *testing.T) {
	a := NewAllocator()
	a.Free(ID{Index: 5, Generation: 2}) // never allocated; must not panic
	if len(a.free) != 0 {
		t.Fatal("freeing an unknown id must not add to the free list")
	}
}

func TestInventoryAddStacksThenFills(t *testing.T) {
	inv := Inventory{Slots: make([]ItemStack, 2)}
	if !inv.Add("wood", 3) {
		t.Fatal("add into empty slot should succeed")
	}
	if !inv.Add("wood", 2) {
		t.Fatal("add into existing stack should succeed")
	}
	if inv.Slots[0].Count != 5 {
		t.Fatalf("expected stacked count 5, got %d", inv.Slots[0].Count)
	}
	if !inv.Add("stone", 1) {
		t.Fatal("add into second free slot should succeed")
	}
	if inv.Add("iron", 1) {
		t.Fatal("inventory is full; add should fail")
	}
}

func TestEventBusDeliversOnlyAfterDispatch(t *testing.T) {
	bus := NewEventBus()
	subject := ID{Index: 1, Generation: 0}
	sub := bus.Subscribe(EventArrived, subject)

	bus.Post(Event{Subject: subject, Kind: EventArrived, Payload: ArrivedPayload{Ok: true}})

	select {
	case <-sub.Resume():
		t.Fatal("event must not be visible before Dispatch")
	default:
	}

	bus.Dispatch()

	select {
	case e := <-sub.Resume():
		if p, ok := e.Payload.(ArrivedPayload); !ok || !p.Ok {
			t.Fatalf("unexpected payload: %+v", e.Payload)
		}
	default:
		t.Fatal("event should be delivered after Dispatch")
	}
}

func TestEventBusSubjectScoping(t *testing.T) {
	bus := NewEventBus()
	mine := ID{Index: 1}
	other := ID{Index: 2}
	sub := bus.Subscribe(EventPickedUp, mine)

	bus.Post(Event{Subject: other, Kind: EventPickedUp})
	bus.Dispatch()
	select {
	case <-sub.Resume():
		t.Fatal("subscription scoped to `mine` must not fire for `other`'s event")
	default:
	}

	bus.Post(Event{Subject: mine, Kind: EventPickedUp})
	bus.Dispatch()
	select {
	case <-sub.Resume():
	default:
		t.Fatal("subscription should fire for its own subject")
	}
}
