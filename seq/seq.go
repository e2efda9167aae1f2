// Package seq provides small adapters over iter.Seq used by the copy-order checks.
package seq

import "iter"

// Pairs returns a sequence of adjacent (previous, current) items of s.
//
// The source is consumed in a single forward pass and only the previous item
// is retained, so s may be unbounded or expensive to recompute. Nothing is
// yielded until two items have been seen; a source with fewer than two items
// yields nothing.
func Pairs[T any](s iter.Seq[T]) iter.Seq2[T, T] {
	return func(yield func(T, T) bool) {
		var prev T
		primed := false
		for curr := range s {
			if primed && !yield(prev, curr) {
				return
			}
			prev, primed = curr, true
		}
	}
}

// Apply calls f with v and returns the result. It lets a value be fed
// through a predicate inline without naming an intermediate.
func Apply[T, R any](v T, f func(T) R) R {
	return f(v)
}
