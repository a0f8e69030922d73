// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package opsrc

import (
	"math"
	"testing"

	"github.com/Parzival-05/spla/pkg/core/dtypes"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sigIntBinary   = Signature{Args: []dtypes.DType{dtypes.Int32, dtypes.Int32}, Result: dtypes.Int32}
	sigUintBinary  = Signature{Args: []dtypes.DType{dtypes.Uint32, dtypes.Uint32}, Result: dtypes.Uint32}
	sigFloatBinary = Signature{Args: []dtypes.DType{dtypes.Float32, dtypes.Float32}, Result: dtypes.Float32}
	sigFloatUnary  = Signature{Args: []dtypes.DType{dtypes.Float32}, Result: dtypes.Float32}
	sigIntUnary    = Signature{Args: []dtypes.DType{dtypes.Int32}, Result: dtypes.Int32}
	sigIntSelect   = Signature{Args: []dtypes.DType{dtypes.Int32}, Result: dtypes.Bool}
	sigFloatSelect = Signature{Args: []dtypes.DType{dtypes.Float32}, Result: dtypes.Bool}
)

func compileBinary[T dtypes.Supported](t *testing.T, source string, sig Signature) func(T, T) T {
	program, err := Parse(source)
	require.NoError(t, err)
	fn, err := program.Compile(sig)
	require.NoError(t, err)
	return Binary[T](fn)
}

func TestParse(t *testing.T) {
	for _, source := range []string{
		"{ return a + b; }",
		"a + b",
		"a + b;",
		"{ if (a == INT_MAX || b == INT_MAX) { return INT_MAX; } return min(a, b); }",
		`{
			// 11 bits for weight == 2048 values
			uint weight_a = a >> 21;
			uint weight_b = b >> 21;
			uint value_a = a & 0x1FFFFF;
			uint value_b = b & 0x1FFFFF;
			if (weight_a <= weight_b) {
				return (weight_a << 21) + value_a;
			}
			return (weight_b << 21) + value_b;
		}`,
		"{ return a == -INFINITY; }",
		"{ return 1.0f / a; }",
		"{ int x; if (a > 0) x = 1; else x = 2; return x; }",
		"{ float x = 0.5f; x *= a; return (int)x > 0 ? x : -x; }",
		"{ /* block comment */ return !(a != 0); }",
	} {
		_, err := Parse(source)
		assert.NoErrorf(t, err, "source: %s", source)
	}

	for _, source := range []string{
		"",
		"{ return a + ; }",
		"{ return a }",
		"{ return a; ",
		"{ a++; return a; }",
		"{ for (;;) {} }",
		"{ if (a) { return 1; } }",
		"{ int x = 1; }",
		"a + b extra",
		"{ return 'c'; }",
		"{ return 99999999999; }",
	} {
		_, err := Parse(source)
		assert.Errorf(t, err, "source should fail: %q", source)
	}
}

func TestFunctionBody(t *testing.T) {
	assert.Equal(t, "{ return (a + b); }", must.M1(Parse(" a + b; ")).FunctionBody())
	assert.Equal(t, "{ return a; }", must.M1(Parse("{ return a; }")).FunctionBody())
	assert.True(t, must.M1(Parse("a")).IsExpression())
}

func TestCompileTypeErrors(t *testing.T) {
	for _, tc := range []struct {
		source string
		sig    Signature
	}{
		{"{ return a & b; }", sigFloatBinary},
		{"{ return a % b; }", sigFloatBinary},
		{"{ return a << 1; }", sigFloatBinary},
		{"{ return ~a; }", sigFloatUnary},
		{"{ return abs(a); }", sigFloatUnary},
		{"{ return sqrt(a); }", sigIntUnary},
		{"{ return b; }", sigIntUnary},
		{"{ return c; }", sigIntBinary},
		{"{ a = 1; return a; }", sigIntUnary},
		{"{ int a = 1; return a; }", sigIntUnary},
		{"{ int x = 1; int x = 2; return x; }", sigIntUnary},
		{"{ return foo(a); }", sigIntUnary},
		{"{ return min(a); }", sigIntUnary},
	} {
		program, err := Parse(tc.source)
		require.NoErrorf(t, err, "source: %s", tc.source)
		_, err = program.Compile(tc.sig)
		assert.Errorf(t, err, "source %q should fail to compile as %s", tc.source, tc.sig)
	}

	// Same fragment is fine for integer types.
	_, err := must.M1(Parse("{ return a & b; }")).Compile(sigUintBinary)
	require.NoError(t, err)
}

func TestIntSemantics(t *testing.T) {
	plus := compileBinary[int32](t, "a + b", sigIntBinary)
	assert.Equal(t, int32(math.MinInt32), plus(math.MaxInt32, 1), "two's complement wraparound")

	div := compileBinary[int32](t, "{ return a / b; }", sigIntBinary)
	assert.Equal(t, int32(-2), div(-7, 3), "division truncates toward zero")
	assert.Panics(t, func() { div(1, 0) })

	mod := compileBinary[int32](t, "{ return a % b; }", sigIntBinary)
	assert.Equal(t, int32(-1), mod(-7, 3))

	shift := compileBinary[int32](t, "{ return a >> b; }", sigIntBinary)
	assert.Equal(t, int32(-4), shift(-8, 1), "arithmetic shift for int")
	assert.Equal(t, int32(-4), shift(-8, 33), "shift count modulo 32")

	minNonMax := compileBinary[int32](t,
		"{ if (a == INT_MAX || b == INT_MAX) { return INT_MAX; } return min(a, b); }", sigIntBinary)
	assert.Equal(t, dtypes.MaxInt, minNonMax(dtypes.MaxInt, 5))
	assert.Equal(t, int32(3), minNonMax(3, 5))

	logical := compileBinary[int32](t, "a || b", sigIntBinary)
	assert.Equal(t, int32(1), logical(0, 7))
	assert.Equal(t, int32(0), logical(0, 0))

	ternary := compileBinary[int32](t, "{ return a > b ? a - b : b - a; }", sigIntBinary)
	assert.Equal(t, int32(4), ternary(1, 5))

	compound := compileBinary[int32](t, "{ int x = a; x <<= 2; x |= b; return x; }", sigIntBinary)
	assert.Equal(t, int32(13), compound(3, 1))

	abs := Unary[int32](must.M1(must.M1(Parse("{ return abs(a); }")).Compile(sigIntUnary)))
	assert.Equal(t, int32(5), abs(-5))
	assert.Equal(t, int32(math.MinInt32), abs(math.MinInt32))
}

func TestUintSemantics(t *testing.T) {
	pair := compileBinary[uint32](t, `{
		uint weight_a = a >> 21;
		uint weight_b = b >> 21;
		uint value_a = a & 0x1FFFFF;
		uint value_b = b & 0x1FFFFF;
		if (weight_a <= weight_b) {
			return (weight_a << 21) + value_a;
		}
		return (weight_b << 21) + value_b;
	}`, sigUintBinary)
	lo := uint32(3<<21 | 17)
	hi := uint32(5<<21 | 4)
	assert.Equal(t, lo, pair(lo, hi))
	assert.Equal(t, lo, pair(hi, lo))

	minus := compileBinary[uint32](t, "a - b", sigUintBinary)
	assert.Equal(t, uint32(math.MaxUint32), minus(0, 1))

	// Mixed int/uint comparisons are done in uint.
	lt := Select[uint32](must.M1(must.M1(Parse("{ return a < 0; }")).Compile(
		Signature{Args: []dtypes.DType{dtypes.Uint32}, Result: dtypes.Bool})))
	assert.False(t, lt(0))
	assert.False(t, lt(math.MaxUint32))
}

func TestFloatSemantics(t *testing.T) {
	minv := Unary[float32](must.M1(must.M1(Parse("{ return 1.0f / a; }")).Compile(sigFloatUnary)))
	assert.Equal(t, float32(0.25), minv(4))
	assert.True(t, math.IsInf(float64(minv(0)), 1))

	sqrt := Unary[float32](must.M1(must.M1(Parse("sqrt(a)")).Compile(sigFloatUnary)))
	assert.Equal(t, float32(math.Sqrt(2)), sqrt(2))

	minf := Select[float32](must.M1(must.M1(Parse("{ return a == -INFINITY; }")).Compile(sigFloatSelect)))
	assert.True(t, minf(float32(math.Inf(-1))))
	assert.False(t, minf(0))

	// LNOT returns an int, converted to the float result.
	lnot := Unary[float32](must.M1(must.M1(Parse("{ return !(a != 0); }")).Compile(sigFloatUnary)))
	assert.Equal(t, float32(1), lnot(0))
	assert.Equal(t, float32(0), lnot(-2.5))

	fminFn := compileBinary[float32](t, "fmin(a, b)", sigFloatBinary)
	assert.Equal(t, float32(2), fminFn(float32(math.NaN()), 2))

	// Select converts the int result of "return 1" to true.
	always := Select[int32](must.M1(must.M1(Parse("{ return 1; }")).Compile(sigIntSelect)))
	assert.True(t, always(0))
}

func TestSignatureMismatchPanics(t *testing.T) {
	fn := must.M1(must.M1(Parse("a + b")).Compile(sigIntBinary))
	assert.Panics(t, func() { Binary[float32](fn) })
	assert.Panics(t, func() { Unary[int32](fn) })
	assert.Equal(t, "int(int, int)", fn.Signature().String())
}
