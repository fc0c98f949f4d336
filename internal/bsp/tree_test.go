package bsp

import (
	"testing"

	"github.com/1broseidon/bsptile/internal/platform"
)

// checkInvariants walks the arena from the root and fails the test if any
// reachable node is neither a proper leaf nor a proper internal node, or
// if a child's parent link disagrees with its actual parent.
func checkInvariants(t *testing.T, tree *Tree) {
	t.Helper()

	var walk func(idx, parent int)
	walk = func(idx, parent int) {
		n := tree.nodes[idx]
		if n.parent != parent {
			t.Fatalf("node %d has parent %d, expected %d", idx, n.parent, parent)
		}

		isLeaf := n.hasWindow && n.left == none && n.right == none
		isInternal := !n.hasWindow && n.left != none && n.right != none
		isEmptyRoot := idx == tree.root && !n.hasWindow && n.left == none && n.right == none

		if !isLeaf && !isInternal && !isEmptyRoot {
			t.Fatalf("node %d violates leaf/internal invariant: hasWindow=%v left=%d right=%d",
				idx, n.hasWindow, n.left, n.right)
		}
		if isInternal {
			walk(n.left, idx)
			walk(n.right, idx)
		}
	}
	walk(tree.root, none)
}

func idsEqual(a []platform.WindowID, b []platform.WindowID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestInsertTailPreservesInsertionOrder(t *testing.T) {
	tree := NewTree()
	want := []platform.WindowID{10, 20, 30, 40, 50}

	for _, id := range want {
		tree.InsertTail(id)
		checkInvariants(t, tree)
	}

	if got := tree.OrderedWindows(); !idsEqual(got, want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
	if tree.Len() != len(want) {
		t.Fatalf("expected Len %d, got %d", len(want), tree.Len())
	}
}

func TestInsertThenFind(t *testing.T) {
	tree := NewTree()
	tree.InsertTail(1)
	tree.InsertTail(2)
	tree.InsertTail(3)

	for _, id := range []platform.WindowID{1, 2, 3} {
		if _, ok := tree.Find(id); !ok {
			t.Fatalf("expected to find window %d", id)
		}
	}
	if _, ok := tree.Find(99); ok {
		t.Fatalf("found window 99 that was never inserted")
	}
}

func TestInsertAtPlacesSuccessorAfterAnchor(t *testing.T) {
	tree := NewTree()
	tree.InsertTail(1)
	tree.InsertTail(2)
	tree.InsertTail(3)

	if !tree.InsertAt(4, 2) {
		t.Fatalf("InsertAt with present anchor returned false")
	}
	checkInvariants(t, tree)

	want := []platform.WindowID{1, 2, 4, 3}
	if got := tree.OrderedWindows(); !idsEqual(got, want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
}

func TestInsertAtMissingAnchorIsNoOp(t *testing.T) {
	tree := NewTree()
	tree.InsertTail(1)
	tree.InsertTail(2)
	before := tree.OrderedWindows()

	if tree.InsertAt(3, 99) {
		t.Fatalf("InsertAt with missing anchor returned true")
	}
	if got := tree.OrderedWindows(); !idsEqual(got, before) {
		t.Fatalf("tree changed after no-op insert: %v -> %v", before, got)
	}
}

func TestInsertAtEmptyTreeIgnoresAnchor(t *testing.T) {
	tree := NewTree()
	if !tree.InsertAt(7, 99) {
		t.Fatalf("insert into empty tree should succeed regardless of anchor")
	}
	checkInvariants(t, tree)
	if got := tree.OrderedWindows(); !idsEqual(got, []platform.WindowID{7}) {
		t.Fatalf("expected [7], got %v", got)
	}
}

func TestRemoveThenFindFails(t *testing.T) {
	tree := NewTree()
	for _, id := range []platform.WindowID{1, 2, 3, 4} {
		tree.InsertTail(id)
	}

	if !tree.Remove(2) {
		t.Fatalf("remove of present window returned false")
	}
	checkInvariants(t, tree)
	if _, ok := tree.Find(2); ok {
		t.Fatalf("found window 2 after removal")
	}

	want := []platform.WindowID{1, 3, 4}
	if got := tree.OrderedWindows(); !idsEqual(got, want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
}

func TestRemoveCollapsesRootLevel(t *testing.T) {
	tree := NewTree()
	tree.InsertTail(1)
	tree.InsertTail(2)

	// Removing a direct child of the root collapses to a single leaf.
	if !tree.Remove(1) {
		t.Fatalf("remove returned false")
	}
	checkInvariants(t, tree)
	if got := tree.OrderedWindows(); !idsEqual(got, []platform.WindowID{2}) {
		t.Fatalf("expected [2], got %v", got)
	}
}

func TestRemoveCollapsesInternalSiblingIntoRoot(t *testing.T) {
	tree := NewTree()
	tree.InsertTail(1)
	tree.InsertTail(2)
	tree.InsertTail(3)
	// Shape: root(1, (2, 3)). Removing 1 must promote the internal
	// sibling's children into the root.
	if !tree.Remove(1) {
		t.Fatalf("remove returned false")
	}
	checkInvariants(t, tree)
	if got := tree.OrderedWindows(); !idsEqual(got, []platform.WindowID{2, 3}) {
		t.Fatalf("expected [2 3], got %v", got)
	}
}

func TestRemoveRedirectsGrandparentLink(t *testing.T) {
	tree := NewTree()
	for _, id := range []platform.WindowID{1, 2, 3, 4} {
		tree.InsertTail(id)
	}
	// Shape: root(1, (2, (3, 4))). Removing 3 collapses the deepest
	// internal node; its parent's link must now point at 4 directly.
	if !tree.Remove(3) {
		t.Fatalf("remove returned false")
	}
	checkInvariants(t, tree)
	if got := tree.OrderedWindows(); !idsEqual(got, []platform.WindowID{1, 2, 4}) {
		t.Fatalf("expected [1 2 4], got %v", got)
	}
}

func TestRemoveMissingLeavesTreeUnchanged(t *testing.T) {
	tree := NewTree()
	tree.InsertTail(1)
	tree.InsertTail(2)
	before := tree.OrderedWindows()

	if tree.Remove(99) {
		t.Fatalf("remove of absent window returned true")
	}
	if got := tree.OrderedWindows(); !idsEqual(got, before) {
		t.Fatalf("tree changed after failed remove: %v -> %v", before, got)
	}
}

func TestRemoveLastWindowEmptiesTree(t *testing.T) {
	tree := NewTree()
	tree.InsertTail(1)

	if !tree.Remove(1) {
		t.Fatalf("remove of last window returned false")
	}
	checkInvariants(t, tree)
	if !tree.Empty() {
		t.Fatalf("tree not empty after removing last window")
	}

	// The root slot is reusable for a later insertion.
	tree.InsertTail(2)
	checkInvariants(t, tree)
	if got := tree.OrderedWindows(); !idsEqual(got, []platform.WindowID{2}) {
		t.Fatalf("expected [2] after reinsert, got %v", got)
	}
}

func TestSwapExchangesPositionsOnly(t *testing.T) {
	tree := NewTree()
	for _, id := range []platform.WindowID{1, 2, 3, 4} {
		tree.InsertTail(id)
	}

	if !tree.Swap(1, 4) {
		t.Fatalf("swap returned false")
	}
	checkInvariants(t, tree)

	want := []platform.WindowID{4, 2, 3, 1}
	if got := tree.OrderedWindows(); !idsEqual(got, want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
	if tree.Len() != 4 {
		t.Fatalf("swap changed window count to %d", tree.Len())
	}
}

func TestSwapWithMissingWindowIsFullyAborted(t *testing.T) {
	tree := NewTree()
	tree.InsertTail(1)
	tree.InsertTail(2)
	before := tree.OrderedWindows()

	if tree.Swap(1, 99) {
		t.Fatalf("swap with missing window returned true")
	}
	if tree.Swap(99, 2) {
		t.Fatalf("swap with missing window returned true")
	}
	if got := tree.OrderedWindows(); !idsEqual(got, before) {
		t.Fatalf("partial swap applied: %v -> %v", before, got)
	}
}

func TestInvariantHoldsAcrossMixedMutations(t *testing.T) {
	tree := NewTree()

	// Deterministic churn: grow, shrink, anchor-insert, swap, repeat.
	next := platform.WindowID(1)
	var live []platform.WindowID

	for round := 0; round < 20; round++ {
		for i := 0; i < 3; i++ {
			tree.InsertTail(next)
			live = append(live, next)
			next++
			checkInvariants(t, tree)
		}

		anchor := live[len(live)/2]
		if tree.InsertAt(next, anchor) {
			live = append(live, next)
			next++
		}
		checkInvariants(t, tree)

		victim := live[round%len(live)]
		if !tree.Remove(victim) {
			t.Fatalf("round %d: remove of live window %d failed", round, victim)
		}
		for i, id := range live {
			if id == victim {
				live = append(live[:i], live[i+1:]...)
				break
			}
		}
		checkInvariants(t, tree)

		if len(live) >= 2 {
			if !tree.Swap(live[0], live[len(live)-1]) {
				t.Fatalf("round %d: swap of live windows failed", round)
			}
			checkInvariants(t, tree)
		}

		if tree.Len() != len(live) {
			t.Fatalf("round %d: expected %d windows, got %d", round, len(live), tree.Len())
		}
	}
}
