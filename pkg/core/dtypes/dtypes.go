// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package dtypes includes the DType enum for the scalar domains supported by the engine, and
// the "type descriptor" information attached to each of them: the short code used to build
// operator and kernel identity keys, and the scalar type keyword of the device kernel language.
//
// It also includes the generic constraints used by operators, storage objects and kernels
// (Supported, Number).
package dtypes

import (
	"math"
	"reflect"

	"github.com/pkg/errors"
)

// panicf panics with the formatted description.
//
// It is only used for "bugs in the code" -- when parameters don't follow the documentation.
func panicf(format string, args ...any) {
	panic(errors.Errorf(format, args...))
}

// Supported lists the Go types that can hold values of the numeric domains.
// Used as traits for generics.
type Supported interface {
	int32 | uint32 | float32
}

// Number is Supported plus bool, all the Go types a DType can map to.
type Number interface {
	Supported | bool
}

// MaxInt is the sentinel used by graph operators to represent "absent" or "infinity" in the
// signed integer domain. It matches INT_MAX of the device language.
const MaxInt = int32(math.MaxInt32)

// MaxUint is the largest value of the unsigned integer domain, UINT_MAX in the device language.
const MaxUint = uint32(math.MaxUint32)

// FromGenericsType returns the DType enum for the given type that this package knows about.
func FromGenericsType[T Number]() DType {
	var t T
	switch (any(t)).(type) {
	case int32:
		return Int32
	case uint32:
		return Uint32
	case float32:
		return Float32
	case bool:
		return Bool
	}
	return InvalidDType
}

// FromGoType returns the DType for the given "reflect.Type", or InvalidDType if not supported.
func FromGoType(t reflect.Type) DType {
	if t == nil {
		return InvalidDType
	}
	switch t.Kind() {
	case reflect.Int32:
		return Int32
	case reflect.Uint32:
		return Uint32
	case reflect.Float32:
		return Float32
	case reflect.Bool:
		return Bool
	default:
		return InvalidDType
	}
}

// FromAny introspects the underlying type of any and returns the corresponding DType.
// Non-scalar types, or unsupported types return an InvalidDType.
func FromAny(value any) DType {
	return FromGoType(reflect.TypeOf(value))
}

// Code returns the short code of the dtype used in identity keys: e.g. "i32" for Int32.
//
// Codes of different dtypes are never prefixes of one another, so a concatenation of codes
// (as used in operator keys) is unambiguous.
func (dtype DType) Code() string {
	switch dtype {
	case Bool:
		return "b"
	case Int32:
		return "i32"
	case Uint32:
		return "u32"
	case Float32:
		return "f32"
	default:
		panicf("dtype %s has no code", dtype)
		panic(nil)
	}
}

// DeviceName returns the scalar type keyword of the device kernel language (OpenCL C) for the dtype.
func (dtype DType) DeviceName() string {
	switch dtype {
	case Bool:
		return "bool"
	case Int32:
		return "int"
	case Uint32:
		return "uint"
	case Float32:
		return "float"
	default:
		panicf("dtype %s has no device type", dtype)
		panic(nil)
	}
}

// Size returns the number of bytes for the given DType.
func (dtype DType) Size() int {
	return int(dtype.GoType().Size())
}

// Bits returns the number of bits for the given DType.
func (dtype DType) Bits() int {
	return dtype.Size() * 8
}

// GoType returns the Go `reflect.Type` corresponding to the DType.
func (dtype DType) GoType() reflect.Type {
	switch dtype {
	case Int32:
		return reflect.TypeOf(int32(0))
	case Uint32:
		return reflect.TypeOf(uint32(0))
	case Float32:
		return reflect.TypeOf(float32(0))
	case Bool:
		return reflect.TypeOf(true)
	default:
		panicf("unknown dtype %q (%d) in DType.GoType", dtype, dtype)
		panic(nil)
	}
}

// GoStr converts dtype to the corresponding Go type and convert that to string.
func (dtype DType) GoStr() string {
	return dtype.GoType().Name()
}

// LowestValue for dtype converted to the corresponding Go type.
// For float values it will return negative infinite.
func (dtype DType) LowestValue() any {
	switch dtype {
	case Int32:
		return int32(math.MinInt32)
	case Uint32:
		return uint32(0)
	case Float32:
		return float32(math.Inf(-1))
	case Bool:
		return false
	default:
		return nil
	}
}

// HighestValue for dtype converted to the corresponding Go type.
// For float values it will return infinite.
func (dtype DType) HighestValue() any {
	switch dtype {
	case Int32:
		return MaxInt
	case Uint32:
		return MaxUint
	case Float32:
		return float32(math.Inf(1))
	case Bool:
		return true
	default:
		return nil
	}
}

// IsFloat returns whether dtype is the floating point domain.
func (dtype DType) IsFloat() bool {
	return dtype == Float32
}

// IsInt returns whether dtype is an integer domain, signed or unsigned.
func (dtype DType) IsInt() bool {
	return dtype == Int32 || dtype == Uint32
}

// IsUnsigned returns whether dtype is the unsigned integer domain.
func (dtype DType) IsUnsigned() bool {
	return dtype == Uint32
}

// IsNumeric returns whether dtype is one of the numeric domains operators are instantiated for.
func (dtype DType) IsNumeric() bool {
	return dtype == Int32 || dtype == Uint32 || dtype == Float32
}

// IsSupported returns whether dtype is a valid, known DType (other than InvalidDType).
func (dtype DType) IsSupported() bool {
	return dtype == Bool || dtype.IsNumeric()
}
