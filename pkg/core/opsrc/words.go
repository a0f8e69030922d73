// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package opsrc

import (
	"math"

	"github.com/Parzival-05/spla/pkg/core/dtypes"
)

// Every scalar domain fits in 32 bits: values are carried around the interpreter as "words" holding
// the bit pattern of an int32, a uint32, a float32 or a bool (0 or 1). The static type of each
// expression tells how to interpret its word.

// ToWord converts a Go value to its word representation.
func ToWord[T dtypes.Number](value T) uint32 {
	switch v := any(value).(type) {
	case int32:
		return uint32(v)
	case uint32:
		return v
	case float32:
		return math.Float32bits(v)
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

// FromWord converts a word back to a Go value.
func FromWord[T dtypes.Number](word uint32) T {
	var value T
	switch p := any(&value).(type) {
	case *int32:
		*p = int32(word)
	case *uint32:
		*p = word
	case *float32:
		*p = math.Float32frombits(word)
	case *bool:
		*p = word != 0
	}
	return value
}

func boolWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func f32(word uint32) float32 { return math.Float32frombits(word) }

func f32Word(f float32) uint32 { return math.Float32bits(f) }

// convertWord converts word from one static type to another, following C conversion rules.
func convertWord(word uint32, from, to dtypes.DType) uint32 {
	if from == to {
		return word
	}
	switch to {
	case dtypes.Bool:
		if from == dtypes.Float32 {
			return boolWord(f32(word) != 0)
		}
		return boolWord(word != 0)
	case dtypes.Float32:
		switch from {
		case dtypes.Int32:
			return f32Word(float32(int32(word)))
		default: // Uint32, Bool
			return f32Word(float32(word))
		}
	case dtypes.Int32:
		if from == dtypes.Float32 {
			return uint32(int32(f32(word)))
		}
		return word
	case dtypes.Uint32:
		if from == dtypes.Float32 {
			return uint32(f32(word))
		}
		return word
	}
	return word
}
