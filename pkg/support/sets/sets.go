// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package sets implements a generic set as a map[T]struct{}.
//
// The scheduler uses it to check that the tasks of a step don't write objects other tasks of the same
// step read or write.
package sets

// Set of elements of type T.
type Set[T comparable] map[T]struct{}

// Make returns an empty Set, optionally reserving space for size elements.
func Make[T comparable](size ...int) Set[T] {
	if len(size) == 0 {
		return make(Set[T])
	}
	return make(Set[T], size[0])
}

// Has returns whether key is in the set.
func (s Set[T]) Has(key T) bool {
	_, found := s[key]
	return found
}

// Insert keys into the set.
func (s Set[T]) Insert(keys ...T) {
	for _, key := range keys {
		s[key] = struct{}{}
	}
}
