// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package dtypes

// DType is an enum representing the scalar domain of an operator argument, an operator result or
// the values of a storage object.
//
// The numeric values are kept aligned with the XLA/PJRT primitive type enum, so a DType can be
// passed along to backends using the same numbering.
type DType int32

//go:generate go tool enumer -type=DType -output=gen_dtype_enumer.go dtype_enum.go

const (
	// InvalidDType is the zero value, used for "not set".
	InvalidDType DType = 0

	// Bool is the result domain of select (predicate) operators.
	Bool DType = 1

	// Int32 is the signed integer domain, the "int" scalar type of the device language.
	Int32 DType = 4

	// Uint32 is the unsigned integer domain, the "uint" scalar type of the device language.
	Uint32 DType = 8

	// Float32 is the floating point domain, the "float" scalar type of the device language.
	Float32 DType = 11
)

// Aliases for the three numeric domains every operator of the catalog is instantiated for.
const (
	Int   = Int32
	Uint  = Uint32
	Float = Float32
)
