// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maxima

// maxStaged bounds the maxima index changes of one update:
// the updated point, its two neighbors, and the point it replaces.
const maxStaged = 4

// A stage records the maxima index changes made by a single Set or Delete.
//
// Insertions into the index are applied immediately, because inserting
// calls the ordering and may panic; rollback undoes them.
// Removals are only recorded and applied by commit, after the last
// comparison of the update has returned.
// Neither rollback nor commit calls the ordering.
type stage[A, V any] struct {
	f        *Function[A, V]
	added    [maxStaged]*tnode[A, V]
	nadded   int
	removed  [maxStaged]*tnode[A, V]
	nremoved int
}

// recheck recomputes whether x is a local maximum, treating skip as
// already deleted, and stages the index change if its status flipped.
func (s *stage[A, V]) recheck(x, skip *tnode[A, V]) {
	if x == nil || x == skip {
		return
	}
	isMax := s.f.isMax(x, skip)
	switch {
	case isMax && x.mx == nil:
		x.mx = s.f.maxima.insert(x.pt)
		s.added[s.nadded] = x
		s.nadded++
	case !isMax && x.mx != nil:
		s.remove(x)
	}
}

// remove stages the removal of x from the maxima index.
func (s *stage[A, V]) remove(x *tnode[A, V]) {
	if x.mx == nil {
		return
	}
	s.removed[s.nremoved] = x
	s.nremoved++
}

func (s *stage[A, V]) rollback() {
	for _, x := range s.added[:s.nadded] {
		s.f.maxima.delete(x.mx)
		x.mx = nil
	}
	s.nadded, s.nremoved = 0, 0
}

func (s *stage[A, V]) commit() {
	for _, x := range s.removed[:s.nremoved] {
		s.f.maxima.delete(x.mx)
		x.mx = nil
	}
	s.nadded, s.nremoved = 0, 0
}
