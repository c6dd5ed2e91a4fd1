package tui

import "testing"

func TestSelectionToggleRespectsLimit(t *testing.T) {
	t.Parallel()

	sel := newSelectionSet(2)
	if !sel.Toggle(1) || !sel.Toggle(3) {
		t.Fatal("first two toggles should succeed")
	}
	if sel.Toggle(0) {
		t.Fatal("toggle past the limit must be a no-op")
	}
	if sel.Len() != 2 {
		t.Fatalf("set size %d exceeds limit 2", sel.Len())
	}
	if !sel.Complete() {
		t.Fatal("set holding exactly the limit should report complete")
	}
}

func TestSelectionToggleIsItsOwnInverse(t *testing.T) {
	t.Parallel()

	sel := newSelectionSet(4)
	sel.Toggle(2)
	sel.Toggle(5)

	before := append([]int(nil), sel.Indices()...)
	sel.Toggle(7)
	sel.Toggle(7)
	after := sel.Indices()

	if len(before) != len(after) {
		t.Fatalf("double toggle changed the set: %v vs %v", before, after)
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("double toggle reordered the set: %v vs %v", before, after)
		}
	}
}

func TestSelectionPreservesPickOrder(t *testing.T) {
	t.Parallel()

	sel := newSelectionSet(3)
	sel.Toggle(4)
	sel.Toggle(0)
	sel.Toggle(2)

	got := sel.Indices()
	want := []int{4, 0, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pick order lost: got %v, want %v", got, want)
		}
	}
	if sel.Rank(0) != 2 {
		t.Fatalf("expected index 0 to rank 2nd, got %d", sel.Rank(0))
	}

	// Removing the middle pick keeps the remaining order.
	sel.Toggle(0)
	got = sel.Indices()
	if len(got) != 2 || got[0] != 4 || got[1] != 2 {
		t.Fatalf("removal disturbed the remaining picks: %v", got)
	}
	if sel.Rank(2) != 2 {
		t.Fatalf("ranks must follow the surviving order, got %d", sel.Rank(2))
	}
}

func TestSelectionClear(t *testing.T) {
	t.Parallel()

	sel := newSelectionSet(2)
	sel.Toggle(1)
	sel.Clear()
	if sel.Len() != 0 {
		t.Fatalf("clear left %d picks behind", sel.Len())
	}
}
