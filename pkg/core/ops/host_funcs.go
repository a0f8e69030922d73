// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ops

import (
	"math"

	"github.com/Parzival-05/spla/pkg/core/dtypes"
	"golang.org/x/exp/constraints"
)

// Host functions of the built-in operators. They follow the device semantics of the fragments:
// integer arithmetic wraps around, integer division by zero panics, and min/max return the
// first argument unless the second is strictly smaller/larger.

func identity[T dtypes.Supported](a T) T { return a }
func ainv[T dtypes.Supported](a T) T     { return -a }
func minv[T dtypes.Supported](a T) T     { return 1 / a }
func uone[T dtypes.Supported](T) T       { return 1 }

func lnot[T dtypes.Supported](a T) T {
	if a != 0 {
		return 0
	}
	return 1
}

func absInt(a int32) int32 {
	if a < 0 {
		return -a
	}
	return a
}

func bnot[T constraints.Integer](a T) T { return ^a }

// mathUnary adapts a float64 math function to float32, rounding the result.
func mathUnary(fn func(float64) float64) func(float32) float32 {
	return func(a float32) float32 { return float32(fn(float64(a))) }
}

func plus[T dtypes.Supported](a, b T) T   { return a + b }
func minus[T dtypes.Supported](a, b T) T  { return a - b }
func mult[T dtypes.Supported](a, b T) T   { return a * b }
func div[T dtypes.Supported](a, b T) T    { return a / b }
func first[T dtypes.Supported](a, _ T) T  { return a }
func second[T dtypes.Supported](_, b T) T { return b }
func bone[T dtypes.Supported](_, _ T) T   { return 1 }

func minusPow2[T dtypes.Supported](a, b T) T {
	return (a - b) * (a - b)
}

func minOf[T dtypes.Supported](a, b T) T {
	if b < a {
		return b
	}
	return a
}

func maxOf[T dtypes.Supported](a, b T) T {
	if a < b {
		return b
	}
	return a
}

func lor[T dtypes.Supported](a, b T) T {
	if a != 0 || b != 0 {
		return 1
	}
	return 0
}

func land[T dtypes.Supported](a, b T) T {
	if a != 0 && b != 0 {
		return 1
	}
	return 0
}

func bor[T constraints.Integer](a, b T) T  { return a | b }
func band[T constraints.Integer](a, b T) T { return a & b }
func bxor[T constraints.Integer](a, b T) T { return a ^ b }

// Operators on int values using INT_MAX as "absent" (infinite distance, no parent, ...).

func firstNonMax(a, b int32) int32 {
	if a == dtypes.MaxInt || b == dtypes.MaxInt {
		return dtypes.MaxInt
	}
	return a
}

func minNonMax(a, b int32) int32 {
	if a == dtypes.MaxInt || b == dtypes.MaxInt {
		return dtypes.MaxInt
	}
	return minOf(a, b)
}

func constMax(_, _ int32) int32 { return dtypes.MaxInt }

func secondMax(a, b int32) int32 {
	if a == dtypes.MaxInt {
		return b
	}
	return a
}

func minNonZero(a, b int32) int32 {
	if a == 0 {
		return b
	}
	return minOf(a, b)
}

func firstIfSecondMax(a, b int32) int32 {
	if b == dtypes.MaxInt {
		return a
	}
	return dtypes.MaxInt
}

func firstMinusOne(a, b int32) int32 {
	if a == dtypes.MaxInt && b == dtypes.MaxInt {
		return dtypes.MaxInt
	}
	return a - 1
}

// Operators on packed uint pairs: the upper PairWeightBits bits hold a weight, the lower
// PairValueBits bits hold a value.
const (
	PairValueBits  = 21
	PairWeightBits = 32 - PairValueBits
	pairValueMask  = 1<<PairValueBits - 1
)

// MakePair packs weight and value into a uint, as used by SELECT_MIN_WEIGHT and CONSTRUCT_PAIR.
func MakePair(weight, value uint32) uint32 {
	return weight<<PairValueBits + value&pairValueMask
}

// SplitPair is the inverse of MakePair.
func SplitPair(pair uint32) (weight, value uint32) {
	return pair >> PairValueBits, pair & pairValueMask
}

func selectMinWeight(a, b uint32) uint32 {
	weightA, valueA := SplitPair(a)
	weightB, valueB := SplitPair(b)
	if weightA <= weightB {
		return weightA<<PairValueBits + valueA
	}
	return weightB<<PairValueBits + valueB
}

func constructPair(a, b uint32) uint32 {
	_, valueA := SplitPair(a)
	weightB, _ := SplitPair(b)
	return weightB<<PairValueBits + valueA
}

func eqZero[T dtypes.Supported](a T) bool { return a == 0 }
func nqZero[T dtypes.Supported](a T) bool { return a != 0 }
func gtZero[T dtypes.Supported](a T) bool { return a > 0 }
func geZero[T dtypes.Supported](a T) bool { return a >= 0 }
func ltZero[T dtypes.Supported](a T) bool { return a < 0 }
func leZero[T dtypes.Supported](a T) bool { return a <= 0 }
func always[T dtypes.Supported](T) bool   { return true }
func never[T dtypes.Supported](T) bool    { return false }

func equalsMinf(a float32) bool    { return a == float32(math.Inf(-1)) }
func equalsMaxInt(a int32) bool    { return a == dtypes.MaxInt }
func equalsMaxUint(a uint32) bool  { return a == dtypes.MaxUint }
func nequalsMaxInt(a int32) bool   { return a != dtypes.MaxInt }
func nequalsMaxUint(a uint32) bool { return a != dtypes.MaxUint }
