// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ops

import (
	"fmt"
	"testing"

	"github.com/Parzival-05/spla/pkg/core/dtypes"
	"github.com/Parzival-05/spla/pkg/core/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

func init() {
	klog.InitFlags(nil)
}

func TestKeys(t *testing.T) {
	plus, err := MakeBinaryInt("PLUS", "{ return a + b; }", func(a, b int32) int32 { return a + b })
	require.NoError(t, err)
	assert.Equal(t, "PLUS_i32i32i32", plus.Key())
	assert.Equal(t, KindBinary, plus.Kind())
	assert.Equal(t, dtypes.Int32, plus.ResultType())
	assert.Equal(t, dtypes.Int32, plus.ArgType(1))
	assert.Equal(t, 2, plus.NumArgs())
	assert.Panics(t, func() { plus.ArgType(2) })

	always, err := MakeSelectInt("ALWAYS", "{ return 1; }", func(int32) bool { return true })
	require.NoError(t, err)
	assert.Equal(t, "ALWAYS_i32b", always.Key())
	assert.Equal(t, dtypes.Bool, always.ResultType())

	id, err := MakeUnaryFloat("IDENTITY", "a", func(a float32) float32 { return a })
	require.NoError(t, err)
	assert.Equal(t, "IDENTITY_f32f32", id.Key())
	assert.Equal(t, "IDENTITY_f32f32", fmt.Sprint(id))
	assert.Equal(t, "IDENTITY_f32f32 a", fmt.Sprintf("%+v", id))

	// Same name, argument types and result type: same key.
	plus2, err := MakeBinaryInt("PLUS", "a + b", func(a, b int32) int32 { return b + a })
	require.NoError(t, err)
	assert.Equal(t, plus.Key(), plus2.Key())

	// Different types: different keys.
	plusUint, err := MakeBinaryUint("PLUS", "a + b", func(a, b uint32) uint32 { return a + b })
	require.NoError(t, err)
	assert.NotEqual(t, plus.Key(), plusUint.Key())
	assert.Equal(t, "PLUS_u32u32u32", plusUint.Key())
}

func TestMakeErrors(t *testing.T) {
	_, err := MakeBinaryInt("PLUS", "{ return a + ; }", func(a, b int32) int32 { return a + b })
	require.Error(t, err)
	assert.Equal(t, status.CompilationError, status.Of(err))

	_, err = MakeBinaryInt("bad name", "a + b", func(a, b int32) int32 { return a + b })
	assert.Equal(t, status.InvalidArgument, status.Of(err))

	_, err = MakeUnaryUint("IDENTITY", "a", nil)
	assert.Equal(t, status.InvalidArgument, status.Of(err))

	// Type errors are only detected at compilation.
	op, err := MakeBinaryFloat("BAD_BAND", "{ return a & b; }", func(a, b float32) float32 { return a })
	require.NoError(t, err)
	_, err = op.Compile()
	require.Error(t, err)
	assert.Equal(t, status.CompilationError, status.Of(err))

	assert.Panics(t, func() { MustUnary[int32]("X", "{", func(a int32) int32 { return a }) })
}

func TestTypedFuncs(t *testing.T) {
	inverse := MustUnary[float32]("MINV", "{ return 1.0f / a; }", minv[float32])
	fn, err := UnaryFunc[float32](inverse)
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), fn(2))

	_, err = UnaryFunc[int32](inverse)
	assert.Equal(t, status.InvalidArgument, status.Of(err))
	_, err = BinaryFunc[float32](inverse)
	assert.Equal(t, status.InvalidArgument, status.Of(err))

	interpreted, err := InterpretedUnaryFunc[float32](inverse)
	require.NoError(t, err)
	assert.Equal(t, float32(0.25), interpreted(4))

	gt := MustSelect[uint32]("GTZERO", "a > 0", gtZero[uint32])
	selectFn, err := SelectFunc[uint32](gt)
	require.NoError(t, err)
	assert.True(t, selectFn(3))
	interpretedSelect, err := InterpretedSelectFunc[uint32](gt)
	require.NoError(t, err)
	assert.False(t, interpretedSelect(0))
}

func TestPairs(t *testing.T) {
	pair := MakePair(7, 12345)
	weight, value := SplitPair(pair)
	assert.Equal(t, uint32(7), weight)
	assert.Equal(t, uint32(12345), value)

	light, heavy := MakePair(2, 100), MakePair(9, 5)
	assert.Equal(t, light, selectMinWeight(heavy, light))
	assert.Equal(t, light, selectMinWeight(light, heavy))
	assert.Equal(t, MakePair(9, 100), constructPair(light, heavy))
}
