// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package maxima implements functions over ordered arguments
// that keep track of their local maxima.
//
// A [Function][A, V] maps arguments to values like an ordered map.
// In addition it maintains the set of its local maxima: the points whose
// value is not less than the value of either neighbor in argument order.
// A point at either end of the function has only one neighbor to compare
// against. The maxima are ordered by value descending, then by argument
// ascending, and are updated incrementally by every [Function.Set] and
// [Function.Delete] in O(log n) time.
//
// Arguments and values are compared only through a strict weak ordering.
// Two values are equivalent when neither is less than the other;
// no equality operation is ever used.
//
// If an ordering function panics during Set or Delete, the Function is
// restored to its state before the call and the panic continues unchanged.
package maxima

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
)

// ErrNotFound is returned by [Function.ValueAt] for an unmapped argument.
var ErrNotFound = errors.New("maxima: argument not found")

// A Point is an argument of a function together with its value.
type Point[A, V any] struct {
	arg A
	val V
}

// Arg returns the argument of p.
func (p Point[A, V]) Arg() A { return p.arg }

// Value returns the value of p.
func (p Point[A, V]) Value() V { return p.val }

// A Function is a function from A to V that tracks its local maxima.
// Use [New] or [NewFunc] to create a Function.
//
// A Function is not safe for concurrent use.
// Distinct Functions, including a Function and its [Function.Clone],
// share no state.
type Function[A, V any] struct {
	points treap[A, V]
	maxima avl[A, V]
	less   func(V, V) bool
}

// New returns an empty Function ordered by the standard Go ordering
// of A and V.
func New[A, V cmp.Ordered]() *Function[A, V] {
	return NewFunc[A, V](cmp.Less[A], cmp.Less[V])
}

// NewFunc returns an empty Function whose arguments are ordered by argLess
// and whose values are ordered by valLess.
// Both must be strict weak orderings.
func NewFunc[A, V any](argLess func(A, A) bool, valLess func(V, V) bool) *Function[A, V] {
	f := new(Function[A, V])
	f.points.less = argLess
	f.maxima.less = maximaOrder(argLess, valLess)
	f.less = valLess
	return f
}

func (f *Function[A, V]) equiv(v, w V) bool {
	return !f.less(v, w) && !f.less(w, v)
}

// isMax reports whether x is a local maximum, treating skip as deleted.
func (f *Function[A, V]) isMax(x, skip *tnode[A, V]) bool {
	if l := x.prevSkip(skip); l != nil && f.less(x.pt.val, l.pt.val) {
		return false
	}
	if r := x.nextSkip(skip); r != nil && f.less(x.pt.val, r.pt.val) {
		return false
	}
	return true
}

// Set sets f(a) = v.
// If a is already mapped to a value equivalent to v, Set does nothing.
func (f *Function[A, V]) Set(a A, v V) {
	old := f.points.find(a)
	if old != nil && f.equiv(old.pt.val, v) {
		return
	}

	// The new point coexists with old until commit.
	// Neighbors are computed as if old were already gone.
	x := f.points.insert(Point[A, V]{a, v})
	s := stage[A, V]{f: f}
	done := false
	defer func() {
		if !done {
			s.rollback()
			f.points.delete(x)
		}
	}()

	s.recheck(x, old)
	s.recheck(x.nextSkip(old), old)
	s.recheck(x.prevSkip(old), old)
	if old != nil {
		s.remove(old)
	}
	done = true

	s.commit()
	if old != nil {
		f.points.delete(old)
	}
}

// Delete deletes f(a), if it exists.
func (f *Function[A, V]) Delete(a A) {
	x := f.points.find(a)
	if x == nil {
		return
	}

	s := stage[A, V]{f: f}
	done := false
	defer func() {
		if !done {
			s.rollback()
		}
	}()

	s.remove(x)
	s.recheck(x.next(), x)
	s.recheck(x.prev(), x)
	done = true

	s.commit()
	f.points.delete(x)
}

// Len returns the number of arguments mapped by f.
func (f *Function[A, V]) Len() int {
	if f == nil {
		return 0
	}
	return f.points.len
}

// Find returns the point at a and reports whether it exists.
func (f *Function[A, V]) Find(a A) (Point[A, V], bool) {
	if f == nil {
		return Point[A, V]{}, false
	}
	x := f.points.find(a)
	if x == nil {
		return Point[A, V]{}, false
	}
	return x.pt, true
}

// ValueAt returns f(a).
// If a is not mapped, ValueAt returns an error wrapping [ErrNotFound].
func (f *Function[A, V]) ValueAt(a A) (V, error) {
	p, ok := f.Find(a)
	if !ok {
		var zero V
		return zero, fmt.Errorf("value at %v: %w", a, ErrNotFound)
	}
	return p.val, nil
}

// IsMaximum reports whether a is mapped and f(a) is a local maximum.
func (f *Function[A, V]) IsMaximum(a A) bool {
	if f == nil {
		return false
	}
	x := f.points.find(a)
	return x != nil && x.mx != nil
}

// Peak returns the first point in maxima order: a point with the
// greatest value, and among those the one with the smallest argument.
// If f is empty, Peak returns false.
func (f *Function[A, V]) Peak() (Point[A, V], bool) {
	if f == nil || f.maxima.root == nil {
		return Point[A, V]{}, false
	}
	return f.maxima.first().pt, true
}

// All returns an iterator over the points of f in ascending argument order.
// If f is modified during the iteration, some points may not be visited.
// No argument will be visited multiple times.
func (f *Function[A, V]) All() iter.Seq2[A, V] {
	if f == nil {
		return func(func(A, V) bool) {}
	}
	return f.points.all()
}

// Backward returns an iterator over the points of f in descending
// argument order, with the same guarantees as [Function.All].
func (f *Function[A, V]) Backward() iter.Seq2[A, V] {
	if f == nil {
		return func(func(A, V) bool) {}
	}
	return f.points.backward()
}

// Maxima returns an iterator over the local maxima of f,
// ordered by value descending and then by argument ascending.
// If f is modified during the iteration, some maxima may not be visited.
// No point will be visited multiple times.
func (f *Function[A, V]) Maxima() iter.Seq2[A, V] {
	if f == nil {
		return func(func(A, V) bool) {}
	}
	return f.maxima.all()
}

// Clone returns a copy of f that shares no state with f.
// Clone does not call the ordering functions.
func (f *Function[A, V]) Clone() *Function[A, V] {
	g := &Function[A, V]{
		points: treap[A, V]{less: f.points.less, len: f.points.len},
		maxima: avl[A, V]{less: f.maxima.less, len: f.maxima.len},
		less:   f.less,
	}
	m := make(map[*anode[A, V]]*anode[A, V], f.maxima.len)
	g.maxima.root = f.maxima.root.clone(nil, m)
	g.points.root = f.points.root.clone(nil, m)
	return g
}

// Swap exchanges the contents of f and g, including their orderings.
func (f *Function[A, V]) Swap(g *Function[A, V]) {
	*f, *g = *g, *f
}

// Assign replaces the contents of f with a copy of src.
func (f *Function[A, V]) Assign(src *Function[A, V]) {
	if f == src {
		return
	}
	f.Swap(src.Clone())
}
