package bsp

import "github.com/1broseidon/bsptile/internal/platform"

// none marks an absent arena link.
const none = -1

// node is one arena slot. A node is either a leaf holding a window or an
// internal node holding exactly two children. The root is additionally
// allowed to be an uninitialized leaf (no window, no children) before the
// first insertion and after the last removal.
type node struct {
	parent int
	left   int
	right  int

	window    platform.WindowID
	hasWindow bool
}

// Tree is an ordered binary spatial-partitioning tree over window
// identifiers. Nodes live in an arena addressed by integer indexes; parent
// and child fields are arena indexes, never owning references, so the
// parent back-links form no reference cycles. All methods mutate in place
// and run to completion; the caller must serialize access.
type Tree struct {
	nodes []node
	free  []int
	root  int
}

// NewTree creates an empty tree whose root is an uninitialized leaf.
func NewTree() *Tree {
	t := &Tree{}
	t.root = t.alloc()
	return t
}

func (t *Tree) alloc() int {
	if n := len(t.free); n > 0 {
		idx := t.free[n-1]
		t.free = t.free[:n-1]
		t.nodes[idx] = node{parent: none, left: none, right: none}
		return idx
	}
	t.nodes = append(t.nodes, node{parent: none, left: none, right: none})
	return len(t.nodes) - 1
}

func (t *Tree) release(idx int) {
	t.nodes[idx] = node{parent: none, left: none, right: none}
	t.free = append(t.free, idx)
}

// Empty reports whether the tree holds no windows.
func (t *Tree) Empty() bool {
	root := &t.nodes[t.root]
	return !root.hasWindow && root.left == none
}

// Len returns the number of windows in the tree.
func (t *Tree) Len() int {
	count := 0
	t.countLeaves(t.root, &count)
	return count
}

func (t *Tree) countLeaves(idx int, count *int) {
	if idx == none {
		return
	}
	n := &t.nodes[idx]
	if n.hasWindow {
		*count++
		return
	}
	t.countLeaves(n.left, count)
	t.countLeaves(n.right, count)
}

// Find returns the arena index of the first leaf holding id, searching
// depth-first with left subtrees before right.
func (t *Tree) Find(id platform.WindowID) (int, bool) {
	return t.findFrom(t.root, id)
}

func (t *Tree) findFrom(idx int, id platform.WindowID) (int, bool) {
	if idx == none {
		return none, false
	}
	n := &t.nodes[idx]
	if n.hasWindow {
		if n.window == id {
			return idx, true
		}
		return none, false
	}
	if found, ok := t.findFrom(n.left, id); ok {
		return found, true
	}
	return t.findFrom(n.right, id)
}

// OrderedWindows returns all windows in left-to-right traversal order.
// This ordering defines window order for circular navigation.
func (t *Tree) OrderedWindows() []platform.WindowID {
	var order []platform.WindowID
	t.appendLeaves(t.root, &order)
	return order
}

func (t *Tree) appendLeaves(idx int, out *[]platform.WindowID) {
	if idx == none {
		return
	}
	n := &t.nodes[idx]
	if n.hasWindow {
		*out = append(*out, n.window)
		return
	}
	t.appendLeaves(n.left, out)
	t.appendLeaves(n.right, out)
}

// InsertTail inserts id as the rightmost leaf in traversal order by
// descending the right spine to a leaf and splitting it there.
func (t *Tree) InsertTail(id platform.WindowID) {
	idx := t.root
	for t.nodes[idx].left != none {
		idx = t.nodes[idx].right
	}
	t.splitLeaf(idx, id)
}

// InsertAt inserts id as the immediate in-order successor of anchor. An
// insert into the empty tree always succeeds regardless of anchor. A
// missing anchor in a non-empty tree leaves the tree untouched and reports
// false; the anchor may have been removed while the caller's reference was
// in flight, so this is benign.
func (t *Tree) InsertAt(id, anchor platform.WindowID) bool {
	if t.Empty() {
		t.splitLeaf(t.root, id)
		return true
	}
	idx, ok := t.Find(anchor)
	if !ok {
		return false
	}
	t.splitLeaf(idx, id)
	return true
}

// splitLeaf converts the leaf at idx into an internal node whose left
// child is a new leaf keeping the old window and whose right child is a
// new leaf holding id. The uninitialized empty root is filled in place
// instead. The arena index of idx is stable across the split, so any
// parent link to it stays valid without rewriting.
func (t *Tree) splitLeaf(idx int, id platform.WindowID) {
	if !t.nodes[idx].hasWindow {
		t.nodes[idx].window = id
		t.nodes[idx].hasWindow = true
		return
	}

	existing := t.nodes[idx].window
	left := t.alloc()
	right := t.alloc()
	t.nodes[left] = node{parent: idx, left: none, right: none, window: existing, hasWindow: true}
	t.nodes[right] = node{parent: idx, left: none, right: none, window: id, hasWindow: true}

	n := &t.nodes[idx]
	n.window = 0
	n.hasWindow = false
	n.left = left
	n.right = right
}

// Remove deletes the leaf holding id and collapses the now-redundant
// internal node above it so that internal nodes always keep exactly two
// children. Removing the last window returns the tree to its explicitly
// empty state. Reports false when id is not present.
func (t *Tree) Remove(id platform.WindowID) bool {
	idx, ok := t.Find(id)
	if !ok {
		return false
	}

	leaf := t.nodes[idx]
	if leaf.parent == none {
		// Single-window tree: back to the uninitialized root so a later
		// insertion can reuse the slot.
		t.nodes[idx].window = 0
		t.nodes[idx].hasWindow = false
		return true
	}

	parentIdx := leaf.parent
	parent := t.nodes[parentIdx]
	siblingIdx := parent.left
	if siblingIdx == idx {
		siblingIdx = parent.right
	}

	if parent.parent == none {
		// Parent is the root: absorb the sibling's content in place.
		sibling := t.nodes[siblingIdx]
		if sibling.hasWindow {
			t.nodes[parentIdx] = node{parent: none, left: none, right: none, window: sibling.window, hasWindow: true}
		} else {
			t.nodes[parentIdx] = node{parent: none, left: sibling.left, right: sibling.right}
			t.nodes[sibling.left].parent = parentIdx
			t.nodes[sibling.right].parent = parentIdx
		}
		t.release(idx)
		t.release(siblingIdx)
		return true
	}

	// Grandparent adopts the sibling directly, skipping the parent.
	grandIdx := parent.parent
	if t.nodes[grandIdx].left == parentIdx {
		t.nodes[grandIdx].left = siblingIdx
	} else {
		t.nodes[grandIdx].right = siblingIdx
	}
	t.nodes[siblingIdx].parent = grandIdx
	t.release(idx)
	t.release(parentIdx)
	return true
}

// Swap exchanges the windows held by the leaves for a and b. Tree shape
// and every other relationship are unchanged. Reports false and mutates
// nothing when either window is missing.
func (t *Tree) Swap(a, b platform.WindowID) bool {
	ai, aok := t.Find(a)
	bi, bok := t.Find(b)
	if !aok || !bok {
		return false
	}
	t.nodes[ai].window, t.nodes[bi].window = t.nodes[bi].window, t.nodes[ai].window
	return true
}
