// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maxima

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"testing"

	"github.com/google/btree"
)

type pt struct {
	a, v int
}

func (p pt) String() string { return fmt.Sprintf("(%d,%d)", p.a, p.v) }

// A model is a straightforward function representation used to
// check Function. Its maxima are recomputed from scratch on demand.
type model struct {
	t *btree.BTreeG[pt]
}

func newModel() *model {
	return &model{btree.NewG(32, func(x, y pt) bool { return x.a < y.a })}
}

func (m *model) set(a, v int) { m.t.ReplaceOrInsert(pt{a, v}) }
func (m *model) delete(a int) { m.t.Delete(pt{a: a}) }

func (m *model) points() []pt {
	var list []pt
	m.t.Ascend(func(p pt) bool {
		list = append(list, p)
		return true
	})
	return list
}

func (m *model) maxima() []pt {
	points := m.points()
	var list []pt
	for i, p := range points {
		if i > 0 && p.v < points[i-1].v {
			continue
		}
		if i+1 < len(points) && p.v < points[i+1].v {
			continue
		}
		list = append(list, p)
	}
	slices.SortFunc(list, func(x, y pt) int {
		if c := cmp.Compare(y.v, x.v); c != 0 {
			return c
		}
		return cmp.Compare(x.a, y.a)
	})
	return list
}

func collect[A, V any](seq iter.Seq2[A, V], conv func(A, V) pt) []pt {
	var list []pt
	for a, v := range seq {
		list = append(list, conv(a, v))
	}
	return list
}

func intPoints(f *Function[int, int]) []pt {
	return collect(f.All(), func(a, v int) pt { return pt{a, v} })
}

func intMaxima(f *Function[int, int]) []pt {
	return collect(f.Maxima(), func(a, v int) pt { return pt{a, v} })
}

// checkTrees verifies the internal structure of f:
// tree shape, sizes and the links from points to the maxima index.
func checkTrees[A, V any](t *testing.T, f *Function[A, V]) {
	t.Helper()
	if n := f.points.root.check(nil); n != f.points.len {
		t.Fatalf("treap has %d nodes, len %d", n, f.points.len)
	}
	if n := f.maxima.root.check(nil); n != f.maxima.len {
		t.Fatalf("avl has %d nodes, len %d", n, f.maxima.len)
	}
	linked := 0
	for x := f.points.min(); x != nil; x = x.next() {
		if x.mx == nil {
			continue
		}
		linked++
		if x.mx.height < 0 {
			t.Fatalf("point %v linked to deleted maxima node", x.pt)
		}
		if f.points.less(x.pt.arg, x.mx.pt.arg) || f.points.less(x.mx.pt.arg, x.pt.arg) {
			t.Fatalf("point %v linked to maxima node %v", x.pt, x.mx.pt)
		}
	}
	if linked != f.maxima.len {
		t.Fatalf("%d points linked to maxima, index holds %d", linked, f.maxima.len)
	}
}

// check verifies that f matches m.
func check(t *testing.T, f *Function[int, int], m *model) {
	t.Helper()
	checkTrees(t, f)
	if got, want := intPoints(f), m.points(); !slices.Equal(got, want) {
		t.Fatalf("All() = %v, want %v\ntreap: %s", got, want, f.points.dump())
	}
	if got, want := intMaxima(f), m.maxima(); !slices.Equal(got, want) {
		t.Fatalf("Maxima() = %v, want %v\npoints: %v\navl: %s", got, want, m.points(), f.maxima.dump())
	}
	if got, want := f.Len(), m.t.Len(); got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
}
