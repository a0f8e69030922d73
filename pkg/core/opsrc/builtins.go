// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package opsrc

import (
	"math"

	"github.com/Parzival-05/spla/pkg/core/dtypes"
)

type constant struct {
	dtype dtypes.DType
	word  uint32
}

// constants predefined by the device language and available to fragments.
var constants = map[string]constant{
	"INT_MAX":  {dtypes.Int32, uint32(math.MaxInt32)},
	"INT_MIN":  {dtypes.Int32, uint32(1) << 31},
	"UINT_MAX": {dtypes.Uint32, math.MaxUint32},
	"INFINITY": {dtypes.Float32, math.Float32bits(float32(math.Inf(1)))},
	"NAN":      {dtypes.Float32, math.Float32bits(float32(math.NaN()))},
	"FLT_MAX":  {dtypes.Float32, math.Float32bits(math.MaxFloat32)},
	"MAXFLOAT": {dtypes.Float32, math.Float32bits(math.MaxFloat32)},
	"FLT_MIN":  {dtypes.Float32, math.Float32bits(0x1p-126)},
	"M_PI_F":   {dtypes.Float32, math.Float32bits(math.Pi)},
	"M_E_F":    {dtypes.Float32, math.Float32bits(math.E)},
}

// FloatFuncs1 are the single argument float built-in functions of the device language.
// They are evaluated in float64 and rounded to float32, which is also how host functions of
// operators using them are expected to compute.
var FloatFuncs1 = map[string]func(float64) float64{
	"fabs":  math.Abs,
	"sqrt":  math.Sqrt,
	"rsqrt": func(x float64) float64 { return 1 / math.Sqrt(x) },
	"log":   math.Log,
	"log2":  math.Log2,
	"log10": math.Log10,
	"exp":   math.Exp,
	"exp2":  math.Exp2,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"ceil":  math.Ceil,
	"floor": math.Floor,
	"round": math.Round,
	"trunc": math.Trunc,
}

// FloatFuncs2 are the two arguments float built-in functions of the device language.
var FloatFuncs2 = map[string]func(float64, float64) float64{
	"fmin":  fmin,
	"fmax":  fmax,
	"pow":   math.Pow,
	"fmod":  math.Mod,
	"atan2": math.Atan2,
}

// fmin follows C: if one argument is NaN, the other is returned.
func fmin(x, y float64) float64 {
	switch {
	case math.IsNaN(x):
		return y
	case math.IsNaN(y):
		return x
	case y < x:
		return y
	}
	return x
}

// fmax follows C: if one argument is NaN, the other is returned.
func fmax(x, y float64) float64 {
	switch {
	case math.IsNaN(x):
		return y
	case math.IsNaN(y):
		return x
	case x < y:
		return y
	}
	return x
}
