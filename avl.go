// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maxima

import (
	"bytes"
	"fmt"
	"iter"
)

// The maxima index is a self-balancing AVL tree.
// See Lewis & Denenberg, Data Structures and Their Algorithms.

// An avl holds the local maxima of a function ordered by
// value descending, then argument ascending.
//
// Only insert and after call the ordering. Deleting a node restructures
// the tree by pointer alone, so delete cannot panic.
type avl[A, V any] struct {
	root *anode[A, V]
	less func(p, q Point[A, V]) bool // p comes before q
	len  int
}

// An anode is a node in the AVL tree.
type anode[A, V any] struct {
	parent *anode[A, V]
	left   *anode[A, V]
	right  *anode[A, V]
	bal    int
	height int
	pt     Point[A, V]
}

// maximaOrder returns the maxima index ordering built from
// the argument and value orderings.
func maximaOrder[A, V any](argLess func(A, A) bool, valLess func(V, V) bool) func(p, q Point[A, V]) bool {
	return func(p, q Point[A, V]) bool {
		if valLess(q.val, p.val) {
			return true
		}
		if valLess(p.val, q.val) {
			return false
		}
		return argLess(p.arg, q.arg)
	}
}

func (t *avl[A, V]) setRoot(x *anode[A, V]) {
	t.root = x
	if x != nil {
		x.parent = nil
	}
}

func (x *anode[A, V]) setLeft(y *anode[A, V]) {
	x.left = y
	if y != nil {
		y.parent = x
	}
}

func (x *anode[A, V]) setRight(y *anode[A, V]) {
	x.right = y
	if y != nil {
		y.parent = x
	}
}

func (n *anode[A, V]) safeHeight() int {
	if n == nil {
		return -1
	}
	return n.height
}

func (n *anode[A, V]) checkbal() {
	b := n.right.safeHeight() - n.left.safeHeight()
	if b != n.bal {
		panic("corrupt avl: bad balance")
	}
}

func (n *anode[A, V]) setHeight() {
	n.height = 1 + max(n.left.safeHeight(), n.right.safeHeight())
}

func (n *anode[A, V]) setbal() {
	n.bal = n.right.safeHeight() - n.left.safeHeight()
}

func (t *avl[A, V]) replaceChild(p, old, x *anode[A, V]) {
	switch {
	case p == nil:
		if t.root != old {
			panic("corrupt avl")
		}
		t.setRoot(x)
	case p.left == old:
		p.setLeft(x)
	case p.right == old:
		p.setRight(x)
	default:
		panic("corrupt avl")
	}
}

func (t *avl[A, V]) rebalanceUp(x *anode[A, V]) {
	for x != nil {
		h := x.height
		x.setHeight()
		x.setbal()
		switch x.bal {
		case -2:
			if x.left.bal == 1 {
				t.rotateLeft(x.left)
			}
			x = t.rotateRight(x)

		case +2:
			if x.right.bal == -1 {
				t.rotateRight(x.right)
			}
			x = t.rotateLeft(x)
		}
		if x.height == h {
			return
		}
		x = x.parent
	}
}

// rotateRight rotates the subtree rooted at node y.
// turning (y (x a b) c) into (x a (y b c)).
func (t *avl[A, V]) rotateRight(y *anode[A, V]) *anode[A, V] {
	// p -> (y (x a b) c)
	p := y.parent
	x := y.left
	b := x.right

	x.checkbal()
	y.checkbal()

	x.setRight(y)
	y.setLeft(b)
	t.replaceChild(p, y, x)

	y.setHeight()
	y.setbal()
	x.setHeight()
	x.setbal()
	return x
}

// rotateLeft rotates the subtree rooted at node x.
// turning (x a (y b c)) into (y (x a b) c).
func (t *avl[A, V]) rotateLeft(x *anode[A, V]) *anode[A, V] {
	// p -> (x a (y b c))
	p := x.parent
	y := x.right
	b := y.left

	x.checkbal()
	y.checkbal()

	y.setLeft(x)
	x.setRight(b)
	t.replaceChild(p, x, y)

	x.setHeight()
	x.setbal()
	y.setHeight()
	y.setbal()
	return y
}

// insert adds pt to the index and returns its node.
// If the ordering panics, the index is left unmodified.
func (t *avl[A, V]) insert(pt Point[A, V]) *anode[A, V] {
	var parent *anode[A, V]
	pos := &t.root
	for x := t.root; x != nil; x = *pos {
		parent = x
		if t.less(pt, x.pt) {
			pos = &x.left
		} else {
			pos = &x.right
		}
	}
	x := &anode[A, V]{pt: pt, parent: parent, height: -1}
	*pos = x
	t.rebalanceUp(x)
	t.len++
	return x
}

// pos returns the link in the tree that points at x.
func (t *avl[A, V]) pos(x *anode[A, V]) **anode[A, V] {
	switch p := x.parent; {
	case p == nil:
		if t.root != x {
			panic("corrupt avl")
		}
		return &t.root
	case p.left == x:
		return &p.left
	case p.right == x:
		return &p.right
	default:
		panic("corrupt avl")
	}
}

// delete removes x from the index.
func (t *avl[A, V]) delete(x *anode[A, V]) {
	if x == nil || x.height < 0 {
		return
	}

	pos := t.pos(x)
	switch {
	case x.left == nil:
		if *pos = x.right; *pos != nil {
			(*pos).parent = x.parent
		}
		t.rebalanceUp(x.parent)

	case x.right == nil:
		*pos = x.left
		x.left.parent = x.parent
		t.rebalanceUp(x.parent)

	default:
		t.deleteSwap(pos)
	}

	x.bal = -100
	x.parent = nil
	x.left = nil
	x.right = nil
	x.height = -1
	t.len--
}

func (t *avl[A, V]) deleteMin(zpos **anode[A, V]) (z, zparent *anode[A, V]) {
	for (*zpos).left != nil {
		zpos = &(*zpos).left
	}
	z = *zpos
	zparent = z.parent
	*zpos = z.right
	if *zpos != nil {
		(*zpos).parent = zparent
	}
	return z, zparent
}

// deleteSwap removes *pos, which has two children,
// by moving its successor into its place.
func (t *avl[A, V]) deleteSwap(pos **anode[A, V]) {
	x := *pos
	z, zparent := t.deleteMin(&x.right)

	*pos = z
	if zparent == x {
		zparent = z
	}
	z.parent = x.parent
	z.height = x.height
	z.bal = x.bal
	z.setLeft(x.left)
	z.setRight(x.right)

	t.rebalanceUp(zparent)
}

// after returns the first node ordered after pt.
func (t *avl[A, V]) after(pt Point[A, V]) *anode[A, V] {
	var succ *anode[A, V]
	x := t.root
	for x != nil {
		if t.less(pt, x.pt) {
			succ, x = x, x.left
		} else {
			x = x.right
		}
	}
	return succ
}

func (t *avl[A, V]) first() *anode[A, V] {
	x := t.root
	for x != nil && x.left != nil {
		x = x.left
	}
	return x
}

func (x *anode[A, V]) next() *anode[A, V] {
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

// all returns an iterator over the index in order.
// If the index is modified during the iteration, some points may not be
// visited. No point is visited multiple times.
func (t *avl[A, V]) all() iter.Seq2[A, V] {
	return func(yield func(A, V) bool) {
		x := t.first()
		for x != nil && yield(x.pt.arg, x.pt.val) {
			if x.height >= 0 {
				// still in tree
				x = x.next()
			} else {
				// deleted
				x = t.after(x.pt)
			}
		}
	}
}

// clone returns a copy of the subtree rooted at x with the given parent,
// recording in m the copy of each node.
func (x *anode[A, V]) clone(parent *anode[A, V], m map[*anode[A, V]]*anode[A, V]) *anode[A, V] {
	if x == nil {
		return nil
	}
	y := &anode[A, V]{parent: parent, bal: x.bal, height: x.height, pt: x.pt}
	m[x] = y
	y.left = x.left.clone(y, m)
	y.right = x.right.clone(y, m)
	return y
}

// check panics if the subtree rooted at x has a bad parent link,
// height or balance. It returns the subtree size.
func (x *anode[A, V]) check(parent *anode[A, V]) int {
	if x == nil {
		return 0
	}
	if x.parent != parent {
		panic("corrupt avl: bad parent")
	}
	if x.height != 1+max(x.left.safeHeight(), x.right.safeHeight()) {
		panic("corrupt avl: bad height")
	}
	x.checkbal()
	if x.bal < -1 || x.bal > 1 {
		panic("corrupt avl: unbalanced")
	}
	return 1 + x.left.check(x) + x.right.check(x)
}

func (t *avl[A, V]) dump() string {
	var buf bytes.Buffer
	var walk func(*anode[A, V])
	walk = func(x *anode[A, V]) {
		if x == nil {
			fmt.Fprintf(&buf, "nil")
			return
		}
		fmt.Fprintf(&buf, "(h%d/b%+d %v:%v ", x.height, x.bal, x.pt.arg, x.pt.val)
		walk(x.left)
		fmt.Fprintf(&buf, " ")
		walk(x.right)
		fmt.Fprintf(&buf, ")")
	}
	walk(t.root)
	return buf.String()
}
