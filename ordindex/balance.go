package ordindex

// This file contains the rebalancing machinery: rotations, the insertion
// and deletion fixups, and the pointer plumbing for unlinking a node.
// The algorithms follow CLRS chapter 13, with nil used in place of the
// sentinel leaf; the deletion fixup therefore tracks the parent of the
// fixup node explicitly, since a nil node cannot reach its parent.

// isRed checks if a node is red. Nil nodes are considered black
// (following red-black tree convention).
func isRed[V any](n *node[V]) bool {
	if n == nil {
		return false
	}

	return n.color == red
}

// minimum finds the node with the smallest key in the subtree rooted at x.
// This is always the leftmost node in the subtree.
func minimum[V any](x *node[V]) *node[V] {
	for x.left != nil {
		x = x.left
	}

	return x
}

// maximum finds the node with the largest key in the subtree rooted at x.
func maximum[V any](x *node[V]) *node[V] {
	for x.right != nil {
		x = x.right
	}

	return x
}

// successor returns the in-order successor of x, or nil if x is the
// maximum of the tree.
func successor[V any](x *node[V]) *node[V] {
	if x.right != nil {
		return minimum(x.right)
	}

	parent := x.parent
	for parent != nil && x == parent.right {
		x = parent
		parent = parent.parent
	}

	return parent
}

// predecessor returns the in-order predecessor of x, or nil if x is the
// minimum of the tree.
func predecessor[V any](x *node[V]) *node[V] {
	if x.left != nil {
		return maximum(x.left)
	}

	parent := x.parent
	for parent != nil && x == parent.left {
		x = parent
		parent = parent.parent
	}

	return parent
}

// rotateLeft performs a left rotation around node x.
//
//	  x                y
//	 / \              / \
//	a   y      =>    x   c
//	   / \          / \
//	  b   c        a   b
//
// This operation maintains the binary search tree property while
// restructuring the tree for rebalancing.
//
// nolint:varnamelen // Standard red-black tree variable names from CLRS
func (t *Index[V]) rotateLeft(x *node[V]) {
	y := x.right
	x.right = y.left

	if y.left != nil {
		y.left.parent = x
	}

	y.parent = x.parent

	switch {
	case x.parent == nil:
		t.root = y
	case x == x.parent.left:
		x.parent.left = y
	default:
		x.parent.right = y
	}

	y.left = x
	x.parent = y
}

// rotateRight performs a right rotation around node y.
//
//	    y              x
//	   / \            / \
//	  x   c    =>    a   y
//	 / \                / \
//	a   b              b   c
//
// nolint:varnamelen // Standard red-black tree variable names from CLRS
func (t *Index[V]) rotateRight(y *node[V]) {
	x := y.left
	y.left = x.right

	if x.right != nil {
		x.right.parent = y
	}

	x.parent = y.parent

	switch {
	case y.parent == nil:
		t.root = x
	case y == y.parent.left:
		y.parent.left = x
	default:
		y.parent.right = x
	}

	x.right = y
	y.parent = x
}

// transplant replaces the subtree rooted at u with the subtree rooted at v.
// The parent pointers are updated, but v's children are not modified.
func (t *Index[V]) transplant(u *node[V], v *node[V]) {
	switch {
	case u.parent == nil:
		t.root = v
	case u == u.parent.left:
		u.parent.left = v
	default:
		u.parent.right = v
	}

	if v != nil {
		v.parent = u.parent
	}
}

// fixupPut restores red-black tree properties after insertion.
//
// New nodes are inserted red, which may violate property #4 (no two
// consecutive red nodes). The loop handles three cases based on the color
// of the uncle node:
//
//	Case 1: Uncle is red -> recolor parent, uncle, and grandparent
//	Case 2: Uncle is black and z is a "middle child" -> rotate into case 3
//	Case 3: Uncle is black and z is an "outer child" -> rotate and recolor
//
// The loop terminates when z's parent is black or z becomes the root.
// Finally, the root is always colored black to maintain property #2.
//
// nolint:varnamelen // Standard red-black tree variable names from CLRS
func (t *Index[V]) fixupPut(z *node[V]) {
	for z.parent != nil && z.parent.color == red {
		grandparent := z.parent.parent

		if z.parent == grandparent.left { //nolint:nestif // Red-black tree algorithm complexity
			y := grandparent.right
			if isRed(y) {
				z.parent.color = black
				y.color = black
				grandparent.color = red
				z = grandparent
			} else {
				if z == z.parent.right {
					z = z.parent
					t.rotateLeft(z)
				}

				z.parent.color = black
				grandparent.color = red
				t.rotateRight(grandparent)
			}
		} else {
			y := grandparent.left
			if isRed(y) {
				z.parent.color = black
				y.color = black
				grandparent.color = red
				z = grandparent
			} else {
				if z == z.parent.left {
					z = z.parent
					t.rotateRight(z)
				}

				z.parent.color = black
				grandparent.color = red
				t.rotateLeft(grandparent)
			}
		}
	}

	t.root.color = black
}

// unlink removes node z from the tree, rebalances, and marks the node
// removed so outstanding handles to it turn stale. The cached minimum and
// maximum pointers are updated before any structural change, while the
// tree is still intact.
//
// nolint:varnamelen // Standard red-black tree variable names from CLRS
func (t *Index[V]) unlink(z *node[V]) {
	if z == t.min {
		t.min = successor(z)
	}

	if z == t.max {
		t.max = predecessor(z)
	}

	y := z
	yOriginalColor := y.color

	var x *node[V]

	var xParent *node[V]

	switch {
	case z.left == nil:
		x = z.right
		xParent = z.parent
		t.transplant(z, z.right)
	case z.right == nil:
		x = z.left
		xParent = z.parent
		t.transplant(z, z.left)
	default:
		y = minimum(z.right)
		yOriginalColor = y.color
		x = y.right

		if y.parent == z {
			xParent = y
		} else {
			xParent = y.parent
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}

		t.transplant(z, y)

		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	if yOriginalColor == black {
		t.fixupDelete(x, xParent)
	}

	z.parent = nil
	z.left = nil
	z.right = nil
	z.removed = true

	t.size--
	t.gen.Inc()
}

// fixupDelete restores red-black tree properties after deletion.
//
// If a black node was removed, some path is now one black node short,
// modeled as an "extra black" carried by x. The loop pushes the extra
// black up the tree until x is the root or x is red, handling four cases
// per side based on x's sibling w:
//
//	Case 1: w is red -> rotate and recolor to obtain a black sibling
//	Case 2: w is black with two black children -> recolor w, move up
//	Case 3: w is black, near child red, far child black -> rotate into case 4
//	Case 4: w is black with a red far child -> rotate, recolor, terminate
//
// x may be nil (deleting a black leaf), so the parent is tracked
// explicitly rather than read from x.
//
// nolint:varnamelen,dupl,nestif // Standard red-black tree variable names; symmetric cases
func (t *Index[V]) fixupDelete(x *node[V], parent *node[V]) {
	for x != t.root && !isRed(x) {
		if parent == nil {
			break
		}

		if x == parent.left {
			w := parent.right
			if isRed(w) {
				w.color = black
				parent.color = red
				t.rotateLeft(parent)
				w = parent.right
			}

			if !isRed(w.left) && !isRed(w.right) {
				w.color = red
				x = parent
				parent = x.parent
			} else {
				if !isRed(w.right) {
					w.left.color = black
					w.color = red
					t.rotateRight(w)
					w = parent.right
				}

				w.color = parent.color
				parent.color = black
				w.right.color = black
				t.rotateLeft(parent)
				x = t.root
				parent = nil
			}
		} else {
			w := parent.left
			if isRed(w) {
				w.color = black
				parent.color = red
				t.rotateRight(parent)
				w = parent.left
			}

			if !isRed(w.left) && !isRed(w.right) {
				w.color = red
				x = parent
				parent = x.parent
			} else {
				if !isRed(w.left) {
					w.right.color = black
					w.color = red
					t.rotateLeft(w)
					w = parent.left
				}

				w.color = parent.color
				parent.color = black
				w.left.color = black
				t.rotateRight(parent)
				x = t.root
				parent = nil
			}
		}
	}

	if x != nil {
		x.color = black
	}
}
