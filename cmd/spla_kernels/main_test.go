// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"strings"
	"testing"

	"github.com/Parzival-05/spla/pkg/core/dtypes"
	"github.com/Parzival-05/spla/pkg/core/kernels"
	"github.com/Parzival-05/spla/pkg/core/ops"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestParseDType(t *testing.T) {
	for code, want := range map[string]dtypes.DType{"i32": dtypes.Int32, "u32": dtypes.Uint32, "f32": dtypes.Float32} {
		got, err := parseDType(code)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := parseDType("f64")
	require.ErrorContains(t, err, "unknown scalar type code")
}

func TestParseBindings(t *testing.T) {
	template, found := kernels.Lookup(kernels.MxMTMasked)
	require.True(t, found)
	c := ops.Builtins()

	bound, err := parseBindings(template, dtypes.Int32, " OP_BINARY1=MULT, OP_BINARY2=PLUS,OP_SELECT=ALWAYS,")
	require.NoError(t, err)
	assert.Equal(t, map[string]*ops.Op{
		kernels.OpBinary1: c.MultInt,
		kernels.OpBinary2: c.PlusInt,
		kernels.OpSelect:  c.AlwaysInt,
	}, bound)

	_, err = parseBindings(template, dtypes.Int32, "OP_BINARY1")
	require.ErrorContains(t, err, "invalid binding")
	_, err = parseBindings(template, dtypes.Int32, "OP_UNARY=ABS")
	require.ErrorContains(t, err, "has no placeholder OP_UNARY")
	_, err = parseBindings(template, dtypes.Int32, "OP_SELECT=PLUS")
	require.ErrorContains(t, err, "no built-in")
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"STRUCT_ONLY", "REPLACE"}, splitList(" STRUCT_ONLY,,REPLACE "))
}

func TestListOps(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, listOps(&sb, "^ABS_"))
	out := sb.String()
	assert.Contains(t, out, "ABS_i32i32")
	assert.Contains(t, out, "ABS_u32u32")
	assert.Contains(t, out, "fabs(a)")
	assert.NotContains(t, out, "PLUS_")
	assert.Contains(t, out, "3 operators")

	require.Error(t, listOps(&sb, "("))
}

func TestListTemplates(t *testing.T) {
	var sb strings.Builder
	listTemplates(&sb)
	out := sb.String()
	for _, name := range kernels.Names() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "OP_ACCUM (binary)?")
	assert.Contains(t, out, "STRUCT_ONLY")
	assert.NotContains(t, out, "float")
}

func TestSpecialize(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, specialize(&sb, kernels.VMap, "i32", "OP_UNARY=ABS", "", false, ""))
	out := sb.String()
	assert.Contains(t, out, "// v_map_i32(ABS_i32i32)")
	assert.Contains(t, out, "__kernel void v_map(__global const int* vx")
	assert.NotContains(t, out, "Compiled")

	sb.Reset()
	require.NoError(t, specialize(&sb, kernels.VMap, "f32", "OP_UNARY=SQRT,OP_ACCUM=PLUS", "", true, "go:queues=1"))
	out = sb.String()
	assert.Contains(t, out, "#define ACCUM")
	assert.Contains(t, out, "Compiled")
	assert.Contains(t, out, "Portable Go host backend")

	require.ErrorContains(t, specialize(&sb, "spmv", "i32", "", "", false, ""), "unknown template")
	require.Error(t, specialize(&sb, kernels.VMap, "i64", "OP_UNARY=ABS", "", false, ""))
	require.Error(t, specialize(&sb, kernels.VMap, "i32", "", "", false, ""))
	require.Error(t, specialize(&sb, kernels.VMap, "i32", "OP_UNARY=ABS", "REPLACE", false, ""))
}

func TestWarmup(t *testing.T) {
	requests := warmupRequests()
	var unary, binary int
	for _, req := range requests {
		switch req.Template {
		case kernels.VMap:
			unary++
		case kernels.VEAdd:
			binary++
		}
	}
	assert.Equal(t, len(requests), unary+binary)
	assert.Positive(t, unary)
	assert.Positive(t, binary)

	var sb strings.Builder
	require.NoError(t, warmup(&sb, "go:queues=1"))
	out := sb.String()
	assert.Contains(t, out, "Kernel cache")
	assert.Contains(t, out, "compiled")
	assert.Contains(t, out, "cached")
}
