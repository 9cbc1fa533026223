// Package rtree implements a small insert-only R-tree over bounding boxes.
// Records are identified by plain ints; the caller keeps the records
// themselves. The simplicity check indexes the edges of a large ring with it
// so that each edge is only tested against edges whose boxes overlap.
package rtree

import "errors"

const (
	minEntries = 2
	maxEntries = 4
)

// entry points either at a record (in a leaf) or at a child node.
type entry struct {
	box  Box
	data int
}

// node is addressed by a 1-based index into the tree's node arena, with 0
// meaning "no node". An overfull node holds maxEntries+1 entries for the
// moment between insertion and split.
type node struct {
	entries [maxEntries + 1]entry
	count   int
	parent  int
	leaf    bool
}

// RTree is an insert-only R-tree. The zero value is an empty tree.
type RTree struct {
	nodes []node
	root  int
}

func (t *RTree) node(i int) *node { return &t.nodes[i-1] }

func (t *RTree) newNode(leaf bool) int {
	t.nodes = append(t.nodes, node{leaf: leaf})
	return len(t.nodes)
}

// bound gives the smallest box containing all entries of n.
func (t *RTree) bound(n *node) Box {
	b := n.entries[0].box
	for i := 1; i < n.count; i++ {
		b = union(b, n.entries[i].box)
	}
	return b
}

// Stop terminates a RangeSearch early without reporting an error.
var Stop = errors.New("stop")

// RangeSearch calls the callback with the record id of every stored box that
// overlaps the query box. An error returned by the callback aborts the
// search and is passed through, except for Stop which aborts silently.
func (t *RTree) RangeSearch(box Box, callback func(recordID int) error) error {
	if t.root == 0 {
		return nil
	}
	var walk func(i int) error
	walk = func(i int) error {
		n := t.node(i)
		for j := 0; j < n.count; j++ {
			e := n.entries[j]
			if !overlaps(e.box, box) {
				continue
			}
			if !n.leaf {
				if err := walk(e.data); err != nil {
					return err
				}
				continue
			}
			if err := callback(e.data); err != nil {
				if err == Stop {
					return Stop
				}
				return err
			}
		}
		return nil
	}
	if err := walk(t.root); err != nil && err != Stop {
		return err
	}
	return nil
}
