package state

import "testing"

func TestRegistry_AddRemove(t *testing.T) {
	reg := newRegistry[int, int, Attributes]()
	a := &subscription[int, int, Attributes]{fn: func(View[int, int]) {}}
	b := &subscription[int, int, Attributes]{fn: func(View[int, int]) {}}
	reg.add(a)
	reg.add(b)

	if a.id == b.id {
		t.Fatalf("expected distinct subscription ids")
	}
	if a.id.String() >= b.id.String() {
		t.Fatalf("expected ids to sort in creation order, got %s then %s", a.id, b.id)
	}
	if reg.len() != 2 {
		t.Fatalf("expected 2 entries, got %d", reg.len())
	}

	if !reg.remove(a.id) {
		t.Fatalf("expected first remove to report removal")
	}
	if reg.remove(a.id) {
		t.Fatalf("expected second remove to be a no-op")
	}
	if a.live.Load() {
		t.Fatalf("expected removed entry to be marked dead")
	}
	if snap := reg.snapshot(); len(snap) != 1 || snap[0] != b {
		t.Fatalf("unexpected snapshot after remove: %v", snap)
	}
}

func TestRegistry_SnapshotIsStable(t *testing.T) {
	reg := newRegistry[int, int, Attributes]()
	for i := 0; i < 3; i++ {
		reg.add(&subscription[int, int, Attributes]{fn: func(View[int, int]) {}})
	}

	snap := reg.snapshot()
	if n := reg.removeAll(); n != 3 {
		t.Fatalf("expected removeAll to report 3, got %d", n)
	}
	if len(snap) != 3 {
		t.Fatalf("expected snapshot to survive removeAll, got %d", len(snap))
	}
	for _, sub := range snap {
		if sub.live.Load() {
			t.Fatalf("expected removeAll to mark entries dead")
		}
	}
	if reg.snapshot() != nil {
		t.Fatalf("expected empty snapshot")
	}
}
