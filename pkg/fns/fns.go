// Package fns provides generic helpers for slices, maps and closers.
package fns

import "io"

// Map applies fn on all elements in src, producing a new slice
// with the results, in order.
func Map[A, B any](src []A, fn func(A) B) []B {
	dst := make([]B, len(src))
	for i, v := range src {
		dst[i] = fn(v)
	}
	return dst
}

// MapKeys returns the keys of the map m.
// The keys will be in an indeterminate order.
func MapKeys[M ~map[K]V, K comparable, V any](m M) []K {
	r := make([]K, 0, len(m))
	for k := range m {
		r = append(r, k)
	}
	return r
}

// CloseIgnore closes c, ignoring any error.
// Useful for defer statements where the error is irrelevant.
func CloseIgnore(c io.Closer) {
	_ = c.Close()
}
