// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maxima

// The point store is a treap. See:
// https://en.wikipedia.org/wiki/Treap
// https://faculty.washington.edu/aragon/pubs/rst89.pdf

import (
	"bytes"
	"fmt"
	"iter"
	"math/rand/v2"
)

// A treap holds points ordered by argument.
//
// Unlike a map, a treap may hold more than one node with the same argument:
// insert places the new node after any equivalent ones, and every node stays
// addressable until it is passed to delete. Set relies on this while it
// replaces a point.
//
// Only find, after and insert call less. Deleting a node never does,
// so delete cannot panic.
type treap[A, V any] struct {
	root *tnode[A, V]
	less func(A, A) bool
	len  int
}

type tnode[A, V any] struct {
	parent *tnode[A, V]
	left   *tnode[A, V]
	right  *tnode[A, V]
	pt     Point[A, V]
	pri    uint64
	mx     *anode[A, V] // entry in the maxima index, if any
}

func (t *treap[A, V]) find(a A) *tnode[A, V] {
	x := t.root
	for x != nil {
		switch {
		case t.less(a, x.pt.arg):
			x = x.left
		case t.less(x.pt.arg, a):
			x = x.right
		default:
			return x
		}
	}
	return nil
}

// after returns the first node with argument greater than a.
func (t *treap[A, V]) after(a A) *tnode[A, V] {
	var succ *tnode[A, V]
	x := t.root
	for x != nil {
		if t.less(a, x.pt.arg) {
			succ, x = x, x.left
		} else {
			x = x.right
		}
	}
	return succ
}

// before returns the last node with argument less than a.
func (t *treap[A, V]) before(a A) *tnode[A, V] {
	var pred *tnode[A, V]
	x := t.root
	for x != nil {
		if t.less(x.pt.arg, a) {
			pred, x = x, x.right
		} else {
			x = x.left
		}
	}
	return pred
}

// insert adds a node for pt and returns it.
// If less panics, the treap is left unmodified.
func (t *treap[A, V]) insert(pt Point[A, V]) *tnode[A, V] {
	var parent *tnode[A, V]
	pos := &t.root
	for x := t.root; x != nil; x = *pos {
		parent = x
		if t.less(pt.arg, x.pt.arg) {
			pos = &x.left
		} else {
			pos = &x.right
		}
	}
	x := &tnode[A, V]{pt: pt, parent: parent, pri: rand.Uint64() | 1}
	*pos = x
	t.rotateUp(x)
	t.len++
	return x
}

// delete removes x from the treap.
func (t *treap[A, V]) delete(x *tnode[A, V]) {
	if x == nil || x.pri == 0 {
		return
	}

	// Rotate x down to be leaf of tree for removal, respecting priorities.
	for x.right != nil || x.left != nil {
		if x.right == nil || x.left != nil && x.left.pri < x.right.pri {
			t.rotateRight(x)
		} else {
			t.rotateLeft(x)
		}
	}

	// Remove x, now a leaf.
	switch p := x.parent; {
	case p == nil:
		t.root = nil
	case p.left == x:
		p.left = nil
	default:
		p.right = nil
	}
	x.pri = 0 // mark deleted
	t.len--
}

// rotateUp rotates x upward in the tree to correct any priority inversions.
func (t *treap[A, V]) rotateUp(x *tnode[A, V]) {
	for x.parent != nil && x.parent.pri > x.pri {
		if x.parent.left == x {
			t.rotateRight(x.parent)
		} else {
			t.rotateLeft(x.parent)
		}
	}
}

// rotateLeft rotates the subtree rooted at node x.
// turning (x a (y b c)) into (y (x a b) c).
func (t *treap[A, V]) rotateLeft(x *tnode[A, V]) {
	// p -> (x a (y b c))
	p := x.parent
	y := x.right
	b := y.left

	y.left = x
	x.parent = y
	x.right = b
	if b != nil {
		b.parent = x
	}

	y.parent = p
	switch {
	case p == nil:
		t.root = y
	case p.left == x:
		p.left = y
	case p.right == x:
		p.right = y
	default:
		// unreachable
		panic("corrupt treap")
	}
}

// rotateRight rotates the subtree rooted at node y.
// turning (y (x a b) c) into (x a (y b c)).
func (t *treap[A, V]) rotateRight(y *tnode[A, V]) {
	// p -> (y (x a b) c)
	p := y.parent
	x := y.left
	b := x.right

	x.right = y
	y.parent = x
	y.left = b
	if b != nil {
		b.parent = y
	}

	x.parent = p
	switch {
	case p == nil:
		t.root = x
	case p.left == y:
		p.left = x
	case p.right == y:
		p.right = x
	default:
		// unreachable
		panic("corrupt treap")
	}
}

func (t *treap[A, V]) min() *tnode[A, V] {
	x := t.root
	for x != nil && x.left != nil {
		x = x.left
	}
	return x
}

func (t *treap[A, V]) max() *tnode[A, V] {
	x := t.root
	for x != nil && x.right != nil {
		x = x.right
	}
	return x
}

func (x *tnode[A, V]) next() *tnode[A, V] {
	if x.right == nil {
		for x.parent != nil && x.parent.right == x {
			x = x.parent
		}
		return x.parent
	}
	x = x.right
	for x.left != nil {
		x = x.left
	}
	return x
}

func (x *tnode[A, V]) prev() *tnode[A, V] {
	if x.left == nil {
		for x.parent != nil && x.parent.left == x {
			x = x.parent
		}
		return x.parent
	}
	x = x.left
	for x.right != nil {
		x = x.right
	}
	return x
}

// nextSkip returns the node after x, treating skip as already deleted.
func (x *tnode[A, V]) nextSkip(skip *tnode[A, V]) *tnode[A, V] {
	y := x.next()
	if y != nil && y == skip {
		y = y.next()
	}
	return y
}

// prevSkip returns the node before x, treating skip as already deleted.
func (x *tnode[A, V]) prevSkip(skip *tnode[A, V]) *tnode[A, V] {
	y := x.prev()
	if y != nil && y == skip {
		y = y.prev()
	}
	return y
}

// all returns an iterator over the points in ascending argument order.
// If the treap is modified during the iteration, some points may not be
// visited. No argument is visited multiple times.
func (t *treap[A, V]) all() iter.Seq2[A, V] {
	return func(yield func(A, V) bool) {
		x := t.min()
		for x != nil && yield(x.pt.arg, x.pt.val) {
			if x.pri != 0 {
				// still in tree
				x = x.next()
			} else {
				// deleted
				x = t.after(x.pt.arg)
			}
		}
	}
}

// backward is like all but in descending argument order.
func (t *treap[A, V]) backward() iter.Seq2[A, V] {
	return func(yield func(A, V) bool) {
		x := t.max()
		for x != nil && yield(x.pt.arg, x.pt.val) {
			if x.pri != 0 {
				x = x.prev()
			} else {
				x = t.before(x.pt.arg)
			}
		}
	}
}

// clone returns a copy of the subtree rooted at x with the given parent.
// The maxima links of the copy are translated through mx.
func (x *tnode[A, V]) clone(parent *tnode[A, V], mx map[*anode[A, V]]*anode[A, V]) *tnode[A, V] {
	if x == nil {
		return nil
	}
	y := &tnode[A, V]{parent: parent, pt: x.pt, pri: x.pri}
	if x.mx != nil {
		y.mx = mx[x.mx]
	}
	y.left = x.left.clone(y, mx)
	y.right = x.right.clone(y, mx)
	return y
}

func (x *tnode[A, V]) depth() int {
	if x == nil {
		return 0
	}
	return 1 + max(x.left.depth(), x.right.depth())
}

// check panics if the subtree rooted at x has a bad parent link or
// violates the heap order on priorities. It returns the subtree size.
func (x *tnode[A, V]) check(parent *tnode[A, V]) int {
	if x == nil {
		return 0
	}
	if x.parent != parent {
		panic("corrupt treap: bad parent")
	}
	if x.pri == 0 || parent != nil && parent.pri > x.pri {
		panic("corrupt treap: bad priority")
	}
	return 1 + x.left.check(x) + x.right.check(x)
}

func (t *treap[A, V]) dump() string {
	var buf bytes.Buffer
	var walk func(*tnode[A, V])
	walk = func(x *tnode[A, V]) {
		if x == nil {
			fmt.Fprintf(&buf, "nil")
			return
		}
		fmt.Fprintf(&buf, "(%v:%v ", x.pt.arg, x.pt.val)
		if x.mx != nil {
			fmt.Fprintf(&buf, "max ")
		}
		walk(x.left)
		fmt.Fprintf(&buf, " ")
		walk(x.right)
		fmt.Fprintf(&buf, ")")
	}
	walk(t.root)
	return buf.String()
}
