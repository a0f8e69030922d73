// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package kernels

import (
	"regexp"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Parzival-05/spla/backends"
	"github.com/Parzival-05/spla/pkg/core/dtypes"
	"github.com/Parzival-05/spla/pkg/core/ops"
	"github.com/Parzival-05/spla/pkg/core/status"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

func init() {
	klog.InitFlags(nil)
}

// fakeKernel is the compiled program of fakeBackend.
type fakeKernel struct{ program *backends.Program }

func (k *fakeKernel) Program() *backends.Program { return k.program }

// fakeBackend only compiles, counting the compilations.
type fakeBackend struct {
	compilations atomic.Int32
	failTemplate string
}

func (b *fakeBackend) Name() string        { return "fake" }
func (b *fakeBackend) Description() string { return "compile-only backend" }
func (b *fakeBackend) Compile(program *backends.Program) (backends.Kernel, error) {
	time.Sleep(10 * time.Millisecond)
	if program.Template == b.failTemplate {
		return nil, errors.Errorf("template %s rejected", program.Template)
	}
	b.compilations.Add(1)
	return &fakeKernel{program: program}, nil
}
func (b *fakeBackend) Launch(backends.Kernel, []any, backends.WorkSize) (backends.Future, error) {
	return nil, status.Errorf(status.NotImplemented, "fake backend can't launch")
}
func (b *fakeBackend) BufferFromFlatData(flat any) (backends.Buffer, error) { return flat, nil }
func (b *fakeBackend) BufferToFlatData(backends.Buffer, any) error        { return nil }
func (b *fakeBackend) BufferFinalize(backends.Buffer) error               { return nil }
func (b *fakeBackend) HasSharedBuffers() bool                             { return true }
func (b *fakeBackend) Finalize()                                          {}

func masked(dtype dtypes.DType) map[string]*ops.Op {
	c := ops.Builtins()
	switch dtype {
	case dtypes.Float32:
		return map[string]*ops.Op{OpBinary1: c.MultFloat, OpBinary2: c.PlusFloat, OpSelect: c.AlwaysFloat}
	default:
		return map[string]*ops.Op{OpBinary1: c.MultInt, OpBinary2: c.PlusInt, OpSelect: c.AlwaysInt}
	}
}

func TestKey(t *testing.T) {
	c := ops.Builtins()
	assert.Equal(t, "mxmT_masked_i32(MULT_i32i32i32,PLUS_i32i32i32,ALWAYS_i32b)", Key(MxMTMasked, dtypes.Int32, masked(dtypes.Int32), nil))
	assert.Equal(t, "mxmT_masked_i32(MULT_i32i32i32,PLUS_i32i32i32,ALWAYS_i32b)[STRUCT_ONLY]",
		Key(MxMTMasked, dtypes.Int32, masked(dtypes.Int32), []string{FlagStructOnly, FlagStructOnly}))

	// Flags are sorted, and ACCUM follows OP_ACCUM.
	bound := map[string]*ops.Op{OpBinary1: c.MultFloat, OpBinary2: c.PlusFloat, OpSelect: c.NqZeroFloat, OpAccum: c.MaxFloat}
	assert.Equal(t, "mxv_masked_f32(MULT_f32f32f32,PLUS_f32f32f32,NQZERO_f32b,MAX_f32f32f32)[ACCUM,REPLACE,STRUCT_ONLY]",
		Key(MxVMasked, dtypes.Float32, bound, []string{FlagStructOnly, FlagReplace}))

	// Deterministic: operators constructed independently give the same key.
	mult := ops.MustBinary[int32]("MULT", "a * b", func(a, b int32) int32 { return a * b })
	other := map[string]*ops.Op{OpBinary1: mult, OpBinary2: c.PlusInt, OpSelect: c.AlwaysInt}
	assert.Equal(t, Key(MxMTMasked, dtypes.Int32, masked(dtypes.Int32), nil), Key(MxMTMasked, dtypes.Int32, other, nil))

	// Different operators, different keys.
	other[OpSelect] = c.NeverInt
	assert.NotEqual(t, Key(MxMTMasked, dtypes.Int32, masked(dtypes.Int32), nil), Key(MxMTMasked, dtypes.Int32, other, nil))
}

var leftoverType = regexp.MustCompile(`\bTYPE\b`)

func TestSpecialize(t *testing.T) {
	program, err := Specialize(MxMTMasked, dtypes.Int32, masked(dtypes.Int32), nil)
	require.NoError(t, err)
	assert.Equal(t, "mxmT_masked_i32(MULT_i32i32i32,PLUS_i32i32i32,ALWAYS_i32b)", program.Name)
	assert.Equal(t, "mxmT_masked", program.EntryPoint)
	assert.Equal(t, dtypes.Int32, program.DType)
	assert.Contains(t, program.Source, "inline int OP_BINARY1(int a, int b) { return a * b; }\n")
	assert.Contains(t, program.Source, "inline int OP_BINARY2(int a, int b) { return a + b; }\n")
	assert.Contains(t, program.Source, "inline bool OP_SELECT(int a) { return 1; }\n")
	assert.Contains(t, program.Source, "__kernel void mxmT_masked(")
	assert.Contains(t, program.Source, "__global const int* Ax,")
	assert.NotContains(t, program.Source, "#define")
	assert.False(t, leftoverType.MatchString(program.Source))
	require.Len(t, program.Params, 12)
	assert.Equal(t, backends.Param{Name: "Ap", Kind: backends.ParamBuffer, DType: dtypes.Uint32}, program.Params[0])
	assert.Equal(t, dtypes.Int32, program.Params[2].DType)
	assert.True(t, program.Params[9].Output)
	assert.Equal(t, backends.ParamScalar, program.Params[10].Kind)
	assert.Equal(t, "int init", program.Params[10].String())

	// Bare expressions are wrapped, flags defined.
	c := ops.Builtins()
	double, err := ops.MakeUnaryFloat("DOUBLE", "a * 2.0f", func(a float32) float32 { return a * 2 })
	require.NoError(t, err)
	program, err = Specialize(VMap, dtypes.Float32, map[string]*ops.Op{OpUnary: double, OpAccum: c.PlusFloat}, nil)
	require.NoError(t, err)
	assert.Contains(t, program.Source, "inline float OP_UNARY(float a) { return (a * 2.0f); }\n")
	assert.Contains(t, program.Source, "#define ACCUM\n")
	assert.True(t, program.HasDefine(FlagAccum))
	assert.Equal(t, "v_map_f32(DOUBLE_f32f32,PLUS_f32f32f32)[ACCUM]", program.Name)
	assert.Contains(t, program.Source, "__global const float* vx,")
}

func TestSpecializeErrors(t *testing.T) {
	c := ops.Builtins()
	_, err := Specialize("spmspm", dtypes.Int32, masked(dtypes.Int32), nil)
	assert.Equal(t, status.NotImplemented, status.Of(err))

	_, err = Specialize(MxMTMasked, dtypes.Bool, masked(dtypes.Int32), nil)
	assert.Equal(t, status.InvalidArgument, status.Of(err))

	missing := masked(dtypes.Int32)
	delete(missing, OpSelect)
	_, err = Specialize(MxMTMasked, dtypes.Int32, missing, nil)
	assert.Equal(t, status.InvalidArgument, status.Of(err))

	wrongKind := masked(dtypes.Int32)
	wrongKind[OpSelect] = c.IdentityInt
	_, err = Specialize(MxMTMasked, dtypes.Int32, wrongKind, nil)
	assert.Equal(t, status.InvalidArgument, status.Of(err))

	_, err = Specialize(MxMTMasked, dtypes.Float32, masked(dtypes.Int32), nil)
	assert.Equal(t, status.InvalidArgument, status.Of(err), "operators on int in a float kernel")

	_, err = Specialize(MxMTMasked, dtypes.Int32, masked(dtypes.Int32), []string{FlagReplace})
	assert.Equal(t, status.InvalidArgument, status.Of(err))

	extra := masked(dtypes.Int32)
	extra[OpUnary] = c.IdentityInt
	_, err = Specialize(MxMTMasked, dtypes.Int32, extra, nil)
	assert.Equal(t, status.InvalidArgument, status.Of(err))

	_, err = Specialize(VReduce, dtypes.Int32, map[string]*ops.Op{OpBinary: c.PlusInt}, []string{FlagAccum})
	assert.Equal(t, status.InvalidArgument, status.Of(err), "ACCUM without OP_ACCUM")
}

func TestTemplates(t *testing.T) {
	assert.Equal(t, []string{"mxmT_masked", "mxv_masked", "v_assign_masked", "v_eadd", "v_map", "v_reduce"}, Names())
	for _, name := range Names() {
		tmpl, found := Lookup(name)
		require.True(t, found)
		assert.Contains(t, tmpl.Source(), "__kernel void "+tmpl.EntryPoint()+"(")
		for _, p := range tmpl.Placeholders {
			assert.Containsf(t, tmpl.Source(), p.Token+"(", "template %s doesn't use %s", name, p.Token)
		}
		for _, p := range tmpl.Params(dtypes.Float32) {
			assert.Regexpf(t, `\b`+p.Name+`\b`, tmpl.Source(), "template %s", name)
		}
	}
}

func TestCache(t *testing.T) {
	backend := &fakeBackend{failTemplate: VReduce}
	cache := CacheFor(backend)
	assert.Same(t, cache, CacheFor(backend))
	assert.NotSame(t, cache, CacheFor(&fakeBackend{}))

	req := Request{Template: MxMTMasked, DType: dtypes.Int32, Ops: masked(dtypes.Int32)}
	const numRequests = 16
	results := make([]backends.Kernel, numRequests)
	var wg sync.WaitGroup
	for ii := range numRequests {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[ii] = must.M1(cache.Get(req))
		}()
	}
	wg.Wait()
	for _, kernel := range results {
		assert.Same(t, results[0], kernel)
	}
	assert.Equal(t, int32(1), backend.compilations.Load())
	assert.Equal(t, 1, cache.Compilations())
	assert.Equal(t, numRequests-1, cache.Hits())
	kernel, found := cache.Lookup(req.Key())
	require.True(t, found)
	assert.Same(t, results[0], kernel)

	// A different combination compiles again.
	floatReq := Request{Template: MxMTMasked, DType: dtypes.Float32, Ops: masked(dtypes.Float32)}
	_ = must.M1(cache.Get(floatReq))
	assert.Equal(t, 2, cache.Compilations())
	assert.Equal(t, 2, cache.Len())

	// Compilation failures are reported, and not cached.
	c := ops.Builtins()
	failReq := Request{Template: VReduce, DType: dtypes.Int32, Ops: map[string]*ops.Op{OpBinary: c.PlusInt}}
	for range 2 {
		_, err := cache.Get(failReq)
		require.Error(t, err)
		assert.Equal(t, status.CompilationError, status.Of(err))
	}
	assert.Equal(t, 2, cache.Compilations())

	// Specialization errors surface unchanged.
	_, err := cache.Get(Request{Template: "unknown", DType: dtypes.Int32})
	assert.Equal(t, status.NotImplemented, status.Of(err))
}

func TestCacheRejectsCollidingOperatorKeys(t *testing.T) {
	cache := NewCache(&fakeBackend{})
	c := ops.Builtins()
	_ = must.M1(cache.Get(Request{Template: VEAdd, DType: dtypes.Int32, Ops: map[string]*ops.Op{OpBinary: c.PlusInt}}))

	// Same key as PLUS_i32i32i32, different behavior.
	fakePlus := ops.MustBinary[int32]("PLUS", "a - b", func(a, b int32) int32 { return a - b })
	_, err := cache.Get(Request{Template: VEAdd, DType: dtypes.Int32, Ops: map[string]*ops.Op{OpBinary: fakePlus}})
	require.Error(t, err)
	assert.Equal(t, status.CompilationError, status.Of(err))
	assert.Equal(t, 1, cache.Compilations())

	// Same key and source: fine, even if it is another object.
	samePlus := ops.MustBinary[int32]("PLUS", c.PlusInt.Source(), func(a, b int32) int32 { return a + b })
	_ = must.M1(cache.Get(Request{Template: VEAdd, DType: dtypes.Int32, Ops: map[string]*ops.Op{OpBinary: samePlus}}))
	assert.Equal(t, 1, cache.Compilations())
}
