package rtree

// Insert stores the box under the given record id.
func (t *RTree) Insert(box Box, recordID int) {
	if t.root == 0 {
		t.root = t.newNode(true)
	}

	leafIdx := t.chooseLeaf(box)
	leaf := t.node(leafIdx)
	leaf.entries[leaf.count] = entry{box: box, data: recordID}
	leaf.count++

	t.growUpwards(leafIdx, box)

	for i := leafIdx; i != 0 && t.node(i).count > maxEntries; i = t.node(i).parent {
		t.split(i)
	}
}

// chooseLeaf descends to the leaf whose box needs the least enlargement to
// take the new box, breaking ties by smaller area.
func (t *RTree) chooseLeaf(box Box) int {
	i := t.root
	for {
		n := t.node(i)
		if n.leaf {
			return i
		}
		best := 0
		bestGrow := enlargement(n.entries[0].box, box)
		for j := 1; j < n.count; j++ {
			grow := enlargement(n.entries[j].box, box)
			if grow < bestGrow ||
				(grow == bestGrow && area(n.entries[j].box) < area(n.entries[best].box)) {
				best, bestGrow = j, grow
			}
		}
		i = n.entries[best].data
	}
}

// growUpwards widens the parent entries on the path from node i to the root
// so they keep covering the new box.
func (t *RTree) growUpwards(i int, box Box) {
	for i != t.root {
		parent := t.node(t.node(i).parent)
		for j := 0; j < parent.count; j++ {
			if parent.entries[j].data == i {
				parent.entries[j].box = union(parent.entries[j].box, box)
				break
			}
		}
		i = t.node(i).parent
	}
}

// split divides the overfull node i into two using Guttman's quadratic
// seeds, registers the new sibling with the parent, and grows a new root
// when i was the root. The parent may become overfull; the caller walks on
// upwards.
func (t *RTree) split(i int) {
	n := t.node(i)

	// Seed with the pair wasting the most area when joined.
	seedA, seedB := 0, 1
	worst := -1.0
	for a := 0; a < n.count; a++ {
		for b := a + 1; b < n.count; b++ {
			waste := area(union(n.entries[a].box, n.entries[b].box)) -
				area(n.entries[a].box) - area(n.entries[b].box)
			if waste > worst {
				worst = waste
				seedA, seedB = a, b
			}
		}
	}

	total := n.count
	pending := make([]entry, 0, total)
	for j := 0; j < total; j++ {
		if j != seedA && j != seedB {
			pending = append(pending, n.entries[j])
		}
	}

	siblingIdx := t.newNode(n.leaf)
	sibling := t.node(siblingIdx)
	n = t.node(i)

	groupA := []entry{n.entries[seedA]}
	groupB := []entry{n.entries[seedB]}
	boxA := groupA[0].box
	boxB := groupB[0].box
	for idx, e := range pending {
		// Once a group needs every remaining entry to reach minEntries,
		// assignment is forced.
		remaining := len(pending) - idx
		switch {
		case len(groupA)+remaining <= minEntries:
			groupA = append(groupA, e)
			boxA = union(boxA, e.box)
		case len(groupB)+remaining <= minEntries:
			groupB = append(groupB, e)
			boxB = union(boxB, e.box)
		case enlargement(boxA, e.box) <= enlargement(boxB, e.box):
			groupA = append(groupA, e)
			boxA = union(boxA, e.box)
		default:
			groupB = append(groupB, e)
			boxB = union(boxB, e.box)
		}
	}

	n.count = 0
	for _, e := range groupA {
		n.entries[n.count] = e
		n.count++
	}
	for j := n.count; j < len(n.entries); j++ {
		n.entries[j] = entry{}
	}
	for _, e := range groupB {
		sibling.entries[sibling.count] = e
		sibling.count++
	}
	if !n.leaf {
		for j := 0; j < sibling.count; j++ {
			t.node(sibling.entries[j].data).parent = siblingIdx
		}
	}

	if i == t.root {
		rootIdx := t.newNode(false)
		root := t.node(rootIdx)
		n = t.node(i)
		sibling = t.node(siblingIdx)
		root.entries[0] = entry{box: t.bound(n), data: i}
		root.entries[1] = entry{box: t.bound(sibling), data: siblingIdx}
		root.count = 2
		n.parent = rootIdx
		sibling.parent = rootIdx
		t.root = rootIdx
		return
	}

	sibling.parent = n.parent
	parent := t.node(n.parent)
	for j := 0; j < parent.count; j++ {
		if parent.entries[j].data == i {
			parent.entries[j].box = t.bound(n)
			break
		}
	}
	parent.entries[parent.count] = entry{box: t.bound(sibling), data: siblingIdx}
	parent.count++
}
