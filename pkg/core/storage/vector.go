// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package storage

import (
	"fmt"
	"slices"

	"github.com/Parzival-05/spla/pkg/core/dtypes"
)

// Vector is a dense vector.
type Vector[T dtypes.Supported] struct {
	base[T]
	values []T
}

var _ Object = (*Vector[int32])(nil)

// NewVector returns a zero-filled vector of the given size.
func NewVector[T dtypes.Supported](size int) *Vector[T] {
	return &Vector[T]{base: newBase[T](), values: make([]T, max(size, 0))}
}

// VectorFromSlice returns a vector with a copy of values.
func VectorFromSlice[T dtypes.Supported](values []T) *Vector[T] {
	return &Vector[T]{base: newBase[T](), values: slices.Clone(values)}
}

// Size returns the number of elements.
func (v *Vector[T]) Size() int { return len(v.values) }

// Shape implements Object.
func (v *Vector[T]) Shape() []int { return []int{len(v.values)} }

// Bytes implements Object.
func (v *Vector[T]) Bytes() int { return len(v.values) * v.DType().Size() }

// Values returns the underlying values, which can be modified in place.
func (v *Vector[T]) Values() []T { return v.values }

// Get returns the i-th element.
func (v *Vector[T]) Get(i int) T { return v.values[i] }

// Set the i-th element.
func (v *Vector[T]) Set(i int, value T) { v.values[i] = value }

// Fill sets every element to value.
func (v *Vector[T]) Fill(value T) {
	for i := range v.values {
		v.values[i] = value
	}
}

// String implements fmt.Stringer.
func (v *Vector[T]) String() string {
	return describe("Vector", v, fmt.Sprintf(" %d", len(v.values)))
}

// Scalar holds a single value, e.g. the result of a reduction.
type Scalar[T dtypes.Supported] struct {
	base[T]
	value []T // Always one element, so it can be bound as a buffer.
}

var _ Object = (*Scalar[int32])(nil)

// NewScalar returns a scalar with the given value.
func NewScalar[T dtypes.Supported](value T) *Scalar[T] {
	return &Scalar[T]{base: newBase[T](), value: []T{value}}
}

// Get returns the value.
func (s *Scalar[T]) Get() T { return s.value[0] }

// Set the value.
func (s *Scalar[T]) Set(value T) { s.value[0] = value }

// Values returns the value as a one element slice, which can be modified in place.
func (s *Scalar[T]) Values() []T { return s.value }

// Shape implements Object.
func (s *Scalar[T]) Shape() []int { return nil }

// Bytes implements Object.
func (s *Scalar[T]) Bytes() int { return s.DType().Size() }

// String implements fmt.Stringer.
func (s *Scalar[T]) String() string {
	return describe("Scalar", s, fmt.Sprintf(" %v", s.value[0]))
}
