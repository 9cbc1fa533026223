// Package seltree provides a balanced binary tree of weighted items that
// supports uniform-by-weight random selection, in-place weight updates, and
// in-place removal. Items are opaque 64-bit ids; the tree hands out integer
// slot handles which the owning entity stores as a back-pointer.
package seltree

// node is a node in a selection tree. Removal does not restructure the
// tree: it only clears the node's item and queues the slot for reuse by a
// later insertion.
type node struct {
	item     int64
	occupied bool

	// weight is the item's own weight. The aggregated fields cache the
	// totals of the two subtrees.
	weight      float64
	leftWeight  float64
	rightWeight float64
	leftCount   int
	rightCount  int

	parent int
	left   int
	right  int
}

// Tree is a weighted selection tree. The zero value is not usable; use New.
type Tree struct {
	nodes []node // 1-indexed, allowing 0 to represent "nil"
	root  int
	free  []int // cleared slots awaiting reuse

	// weighted selects between by-weight and by-count sampling.
	weighted bool
}

// New creates an empty selection tree. When weighted is false every
// occupied node contributes weight 1 regardless of the weight passed to
// Insert and Update.
func New(weighted bool) *Tree {
	return &Tree{
		nodes:    make([]node, 1),
		weighted: weighted,
	}
}

func (t *Tree) node(idx int) *node {
	return &t.nodes[idx]
}

func (t *Tree) effectiveWeight(n *node) float64 {
	if !n.occupied {
		return 0
	}
	if t.weighted {
		return n.weight
	}
	return 1
}

// Count returns the number of occupied nodes.
func (t *Tree) Count() int {
	if t.root == 0 {
		return 0
	}
	n := t.node(t.root)
	c := n.leftCount + n.rightCount
	if n.occupied {
		c++
	}
	return c
}

// TotalWeight returns the sum of all occupied node weights (or the
// occupied-node count for an unweighted tree).
func (t *Tree) TotalWeight() float64 {
	if t.root == 0 {
		return 0
	}
	n := t.node(t.root)
	return n.leftWeight + n.rightWeight + t.effectiveWeight(n)
}

// Insert adds an item with the given weight and returns its slot handle.
// Slots freed by earlier removals are reused before the tree grows; new
// leaves are attached under the child with the smaller element count, which
// keeps the counts balanced to within one at every node.
func (t *Tree) Insert(item int64, weight float64) int {
	if len(t.free) > 0 {
		slot := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		n := t.node(slot)
		n.item = item
		n.occupied = true
		n.weight = weight
		t.propagate(slot)
		return slot
	}

	t.nodes = append(t.nodes, node{item: item, occupied: true, weight: weight})
	slot := len(t.nodes) - 1

	if t.root == 0 {
		t.root = slot
		return slot
	}

	// Descend toward the lighter subtree until a free child link is found.
	at := t.root
	for {
		n := t.node(at)
		if n.leftCount <= n.rightCount {
			if n.left == 0 {
				n.left = slot
				break
			}
			at = n.left
		} else {
			if n.right == 0 {
				n.right = slot
				break
			}
			at = n.right
		}
	}
	t.node(slot).parent = at
	t.propagate(slot)
	return slot
}

// Remove clears the slot's item and queues the slot for reuse.
func (t *Tree) Remove(slot int) {
	n := t.node(slot)
	n.occupied = false
	n.item = 0
	n.weight = 0
	t.free = append(t.free, slot)
	t.propagate(slot)
}

// Update replaces the slot's weight with the given value.
func (t *Tree) Update(slot int, weight float64) {
	t.node(slot).weight = weight
	t.propagate(slot)
}

// Item returns the item stored at the slot.
func (t *Tree) Item(slot int) (int64, bool) {
	n := t.node(slot)
	return n.item, n.occupied
}

// propagate refreshes cached subtree totals on the path from slot to the root.
func (t *Tree) propagate(slot int) {
	for at := slot; ; {
		n := t.node(at)
		p := n.parent
		if p == 0 {
			return
		}
		count := n.leftCount + n.rightCount
		if n.occupied {
			count++
		}
		weight := n.leftWeight + n.rightWeight + t.effectiveWeight(n)

		parent := t.node(p)
		if parent.left == at {
			parent.leftCount = count
			parent.leftWeight = weight
		} else {
			parent.rightCount = count
			parent.rightWeight = weight
		}
		at = p
	}
}

// Sample selects an item uniformly by weight. u must be drawn from
// [0, TotalWeight()). The second return is false when the tree holds no
// occupied node.
func (t *Tree) Sample(u float64) (int64, bool) {
	if t.root == 0 {
		return 0, false
	}
	at := t.root
	for at != 0 {
		n := t.node(at)
		if u < n.leftWeight {
			at = n.left
			continue
		}
		u -= n.leftWeight
		if w := t.effectiveWeight(n); n.occupied {
			if u < w {
				return n.item, true
			}
			u -= w
		}
		at = n.right
	}

	// Accumulated rounding pushed u past the last occupied node; fall
	// back to the rightmost occupied item.
	return t.rightmost(t.root)
}

func (t *Tree) rightmost(at int) (int64, bool) {
	for at != 0 {
		n := t.node(at)
		switch {
		case n.rightCount > 0:
			at = n.right
		case n.occupied:
			return n.item, true
		default:
			at = n.left
		}
	}
	return 0, false
}
