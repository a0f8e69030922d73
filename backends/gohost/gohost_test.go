// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package gohost

import (
	"strings"
	"sync"
	"testing"

	"github.com/Parzival-05/spla/backends"
	"github.com/Parzival-05/spla/pkg/core/dtypes"
	"github.com/Parzival-05/spla/pkg/core/kernels"
	"github.com/Parzival-05/spla/pkg/core/ops"
	"github.com/Parzival-05/spla/pkg/core/status"
	"github.com/Parzival-05/spla/pkg/core/storage"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

func init() {
	klog.InitFlags(nil)
}

// run specializes req, compiles it and launches it with args: slices are converted to buffers, other
// values are passed as scalars.
func run(t *testing.T, b *Backend, req kernels.Request, args ...any) error {
	t.Helper()
	program := must.M1(req.Specialize())
	kernel, err := b.Compile(program)
	require.NoError(t, err)
	bound := make([]any, len(args))
	for ii, arg := range args {
		if program.Params[ii].Kind == backends.ParamBuffer {
			bound[ii] = must.M1(b.BufferFromFlatData(arg))
		} else {
			bound[ii] = arg
		}
	}
	future, err := b.Launch(kernel, bound, backends.WorkSizeFor(64, 64))
	require.NoError(t, err)
	return future.Wait()
}

func TestNew(t *testing.T) {
	b, err := NewBackend("")
	require.NoError(t, err)
	assert.Equal(t, BackendName, b.Name())
	assert.Equal(t, ModeHost, b.Mode())
	assert.Equal(t, DefaultQueues, b.numQueues)

	b, err = NewBackend("parallelism=3, queues=1, mode=interpret")
	require.NoError(t, err)
	assert.Equal(t, ModeInterpret, b.Mode())
	assert.Equal(t, 3, b.workers.MaxParallelism())
	assert.Equal(t, "Portable Go host backend (parallelism=3, queues=1, mode=interpret)", b.Description())

	for _, config := range []string{"queues=0", "mode=gpu", "parallelism=many", "threads=2", "queues=1,queues=2"} {
		_, err = NewBackend(config)
		assert.Errorf(t, err, "config %q", config)
	}
}

func TestRegistry(t *testing.T) {
	assert.Contains(t, backends.List(), BackendName)

	backend, err := backends.NewWithConfig("go:queues=1,mode=interpret")
	require.NoError(t, err)
	require.IsType(t, &Backend{}, backend)
	assert.Equal(t, ModeInterpret, backend.(*Backend).Mode())

	_, err = backends.NewWithConfig("go:bogus=1")
	assert.Equal(t, status.InvalidArgument, status.Of(err))
	_, err = backends.NewWithConfig("opencl")
	assert.Equal(t, status.PlatformNotFound, status.Of(err))

	t.Setenv(backends.SPLA_BACKEND, "go:parallelism=0")
	backend, err = backends.New()
	require.NoError(t, err)
	assert.Contains(t, backend.Description(), "parallelism=0")
}

func TestMxMTMasked(t *testing.T) {
	builtins := ops.Builtins()
	for _, config := range []string{"", "parallelism=0", "mode=interpret"} {
		t.Run(config, func(t *testing.T) {
			b := must.M1(NewBackend(config))
			defer b.Finalize()
			a := storage.MustMatrixFromDense([][]int32{{1, 2}, {0, 3}})
			bT := storage.MustMatrixFromDense([][]int32{{1, 2}, {0, 3}})
			mask := storage.MustMatrixFromDense([][]int32{{1, 0}, {0, 1}})
			rx := make([]int32, mask.NNZ())
			req := kernels.Request{
				Template: kernels.MxMTMasked,
				DType:    dtypes.Int32,
				Ops: map[string]*ops.Op{
					kernels.OpBinary1: builtins.MultInt,
					kernels.OpBinary2: builtins.PlusInt,
					kernels.OpSelect:  builtins.AlwaysInt,
				},
			}
			err := run(t, b, req, a.RowPtr(), a.ColIdx(), a.Values(), bT.RowPtr(), bT.ColIdx(), bT.Values(),
				mask.RowPtr(), mask.ColIdx(), mask.Values(), rx, int32(0), uint32(2))
			require.NoError(t, err)
			assert.Equal(t, []int32{5, 9}, rx)

			// Nothing selected: every output is init.
			req.Ops[kernels.OpSelect] = builtins.NeverInt
			err = run(t, b, req, a.RowPtr(), a.ColIdx(), a.Values(), bT.RowPtr(), bT.ColIdx(), bT.Values(),
				mask.RowPtr(), mask.ColIdx(), mask.Values(), rx, int32(-1), uint32(2))
			require.NoError(t, err)
			assert.Equal(t, []int32{-1, -1}, rx)

			// Unless only the mask structure matters.
			req.Defines = []string{kernels.FlagStructOnly}
			err = run(t, b, req, a.RowPtr(), a.ColIdx(), a.Values(), bT.RowPtr(), bT.ColIdx(), bT.Values(),
				mask.RowPtr(), mask.ColIdx(), mask.Values(), rx, int32(0), uint32(2))
			require.NoError(t, err)
			assert.Equal(t, []int32{5, 9}, rx)
		})
	}
}

func TestMxVMasked(t *testing.T) {
	builtins := ops.Builtins()
	b := must.M1(NewBackend("parallelism=2"))
	defer b.Finalize()
	m := storage.MustMatrixFromDense([][]float32{{1, 2, 0}, {0, 0, 3}, {4, 0, 0}})
	v := []float32{1, 10, 100}
	mask := []float32{1, 0, 1}
	req := kernels.Request{
		Template: kernels.MxVMasked,
		DType:    dtypes.Float32,
		Ops: map[string]*ops.Op{
			kernels.OpBinary1: builtins.MultFloat,
			kernels.OpBinary2: builtins.PlusFloat,
			kernels.OpSelect:  builtins.NqZeroFloat,
		},
	}
	rx := []float32{-1, -1, -1}
	require.NoError(t, run(t, b, req, m.RowPtr(), m.ColIdx(), m.Values(), v, mask, rx, float32(0), uint32(3)))
	assert.Equal(t, []float32{21, -1, 4}, rx, "unselected rows keep their value")

	req.Defines = []string{kernels.FlagReplace}
	require.NoError(t, run(t, b, req, m.RowPtr(), m.ColIdx(), m.Values(), v, mask, rx, float32(0), uint32(3)))
	assert.Equal(t, []float32{21, 0, 4}, rx, "unselected rows are reset")

	req.Defines = nil
	req.Ops[kernels.OpAccum] = builtins.PlusFloat
	require.NoError(t, run(t, b, req, m.RowPtr(), m.ColIdx(), m.Values(), v, mask, rx, float32(0), uint32(3)))
	assert.Equal(t, []float32{42, 0, 8}, rx, "accumulated")
}

func TestVectorKernels(t *testing.T) {
	builtins := ops.Builtins()
	b := must.M1(NewBackend(""))
	defer b.Finalize()

	rx := make([]int32, 4)
	require.NoError(t, run(t, b, kernels.Request{
		Template: kernels.VMap, DType: dtypes.Int32,
		Ops: map[string]*ops.Op{kernels.OpUnary: builtins.AInvInt},
	}, []int32{1, -2, 3, 0}, rx, uint32(4)))
	assert.Equal(t, []int32{-1, 2, -3, 0}, rx)

	maxInt := dtypes.MaxInt
	require.NoError(t, run(t, b, kernels.Request{
		Template: kernels.VEAdd, DType: dtypes.Int32,
		Ops: map[string]*ops.Op{kernels.OpBinary: builtins.MinNonMaxInt},
	}, []int32{3, maxInt, 7, 2}, []int32{5, 1, maxInt, 1}, rx, uint32(4)))
	assert.Equal(t, []int32{3, maxInt, maxInt, 1}, rx)

	sum := []uint32{100}
	require.NoError(t, run(t, b, kernels.Request{
		Template: kernels.VReduce, DType: dtypes.Uint32,
		Ops: map[string]*ops.Op{kernels.OpBinary: builtins.PlusUint, kernels.OpAccum: builtins.PlusUint},
	}, []uint32{1, 2, 3, 4}, sum, uint32(10), uint32(4)))
	assert.Equal(t, []uint32{120}, sum)

	values := []uint32{1, 1, 1, 1}
	require.NoError(t, run(t, b, kernels.Request{
		Template: kernels.VAssignMasked, DType: dtypes.Uint32,
		Ops: map[string]*ops.Op{kernels.OpBinary: builtins.SecondUint, kernels.OpSelect: builtins.GtZeroUint},
	}, values, []uint32{0, 5, 0, 2}, uint32(9), uint32(4)))
	assert.Equal(t, []uint32{1, 9, 1, 9}, values)
}

// TestInterpretMatchesHost runs the same kernels evaluating operators with their host functions and their fragments.
func TestInterpretMatchesHost(t *testing.T) {
	builtins := ops.Builtins()
	host := must.M1(NewBackend("mode=host"))
	interpreted := must.M1(NewBackend("mode=interpret"))
	defer host.Finalize()
	defer interpreted.Finalize()

	u := []int32{3, dtypes.MaxInt, -7, 0, 12, 5}
	v := []int32{1, 4, dtypes.MaxInt, 0, -12, 5}
	for _, op := range []*ops.Op{builtins.PlusInt, builtins.MinNonMaxInt, builtins.SecondMaxInt, builtins.MinusPow2Int,
		builtins.BXorInt, builtins.LAndInt, builtins.FirstMinusOneInt} {
		req := kernels.Request{Template: kernels.VEAdd, DType: dtypes.Int32, Ops: map[string]*ops.Op{kernels.OpBinary: op}}
		want, got := make([]int32, len(u)), make([]int32, len(u))
		require.NoError(t, run(t, host, req, u, v, want, uint32(len(u))))
		require.NoError(t, run(t, interpreted, req, u, v, got, uint32(len(u))))
		assert.Equal(t, want, got, "operator %s", op)
	}
}

func TestActiveSource(t *testing.T) {
	source := `#define ACCUM
#ifdef ACCUM
accumulate();
#ifndef STRUCT_ONLY
check_mask();
#else
skip_mask();
#endif
#else
assign();
#endif
#ifdef REPLACE
replace();
#endif
done();`
	active, err := activeSource(source)
	require.NoError(t, err)
	assert.Contains(t, active, "accumulate();")
	assert.Contains(t, active, "check_mask();")
	assert.Contains(t, active, "done();")
	for _, inactive := range []string{"skip_mask", "assign", "replace", "#ifdef", "#endif"} {
		assert.NotContains(t, active, inactive)
	}

	for _, malformed := range []string{"#ifdef A\nx\n", "#endif\n", "#else\n", "#ifdef\n#endif\n"} {
		_, err = activeSource(malformed)
		assert.Error(t, err, "source %q", malformed)
	}
}

// TestCompileWithoutAccumulator compiles every template with only its required placeholders bound,
// so OP_ACCUM only appears in disabled conditional blocks.
func TestCompileWithoutAccumulator(t *testing.T) {
	builtins := ops.Builtins()
	names := map[ops.Kind]string{ops.KindUnary: "ABS", ops.KindBinary: "PLUS", ops.KindSelect: "ALWAYS"}
	b := must.M1(NewBackend(""))
	defer b.Finalize()
	for _, dtype := range []dtypes.DType{dtypes.Int32, dtypes.Uint32, dtypes.Float32} {
		for _, name := range kernels.Names() {
			template, _ := kernels.Lookup(name)
			bound := make(map[string]*ops.Op)
			for _, p := range template.Placeholders {
				if p.Optional {
					continue
				}
				op, found := builtins.Find(p.Kind, names[p.Kind], dtype)
				require.True(t, found, "%s %s for %s", p.Kind, names[p.Kind], dtype)
				bound[p.Token] = op
			}
			program, err := kernels.Specialize(name, dtype, bound, nil)
			require.NoError(t, err)
			_, err = b.Compile(program)
			require.NoErrorf(t, err, "compiling %s", program)
		}
	}

	// With ACCUM defined, OP_ACCUM must be bound.
	program := must.M1(kernels.Specialize(kernels.VMap, dtypes.Int32,
		map[string]*ops.Op{kernels.OpUnary: builtins.AbsInt, kernels.OpAccum: builtins.PlusInt}, nil))
	delete(program.Ops, kernels.OpAccum)
	_, err := b.Compile(program)
	assert.Equal(t, status.CompilationError, status.Of(err))
	assert.Contains(t, err.Error(), kernels.OpAccum)
}

func TestCompileErrors(t *testing.T) {
	builtins := ops.Builtins()
	b := must.M1(NewBackend(""))
	defer b.Finalize()
	valid := func() *backends.Program {
		return must.M1(kernels.Specialize(kernels.VEAdd, dtypes.Int32,
			map[string]*ops.Op{kernels.OpBinary: builtins.PlusInt}, nil))
	}

	program := valid()
	program.Template = "spmspv"
	_, err := b.Compile(program)
	assert.Equal(t, status.NotImplemented, status.Of(err))

	program = valid()
	program.Source = strings.Replace(program.Source, "__kernel void v_eadd(", "__kernel void v_add(", 1)
	_, err = b.Compile(program)
	assert.Equal(t, status.CompilationError, status.Of(err), "missing entry point")

	program = valid()
	program.Source += "\nTYPE leftover;\n"
	_, err = b.Compile(program)
	assert.Equal(t, status.CompilationError, status.Of(err), "TYPE not replaced")

	program = valid()
	delete(program.Ops, kernels.OpBinary)
	_, err = b.Compile(program)
	assert.Equal(t, status.CompilationError, status.Of(err), "unbound placeholder")

	program = valid()
	program.Params = program.Params[:2]
	_, err = b.Compile(program)
	assert.Equal(t, status.CompilationError, status.Of(err), "wrong parameters")

	// Fragments only type-check for the program's scalar type when compiled.
	badBand := must.M1(ops.MakeBinaryFloat("BAD_BAND", "{ return a & b; }", func(a, _ float32) float32 { return a }))
	program = must.M1(kernels.Specialize(kernels.VEAdd, dtypes.Float32, map[string]*ops.Op{kernels.OpBinary: badBand}, nil))
	_, err = b.Compile(program)
	assert.Equal(t, status.CompilationError, status.Of(err))
	assert.Contains(t, err.Error(), "BAD_BAND")

	_, err = b.Compile(nil)
	assert.Equal(t, status.InvalidArgument, status.Of(err))
}

func TestLaunchErrors(t *testing.T) {
	builtins := ops.Builtins()
	b := must.M1(NewBackend(""))
	other := must.M1(NewBackend(""))
	defer other.Finalize()

	program := must.M1(kernels.Specialize(kernels.VEAdd, dtypes.Int32,
		map[string]*ops.Op{kernels.OpBinary: builtins.DivInt}, nil))
	kernel := must.M1(b.Compile(program))
	u := must.M1(b.BufferFromFlatData([]int32{4, 9}))
	v := must.M1(b.BufferFromFlatData([]int32{2, 0}))
	r := must.M1(b.BufferFromFlatData(make([]int32, 2)))

	// Integer division by zero fails while running.
	future, err := b.Launch(kernel, []any{u, v, r, uint32(2)}, backends.WorkSizeFor(2, 64))
	require.NoError(t, err)
	err = future.Wait()
	require.Error(t, err)
	assert.Equal(t, status.DispatchError, status.Of(err))
	<-future.Done()

	_, err = b.Launch(kernel, []any{u, v, r}, backends.WorkSizeFor(2, 64))
	assert.Equal(t, status.InvalidArgument, status.Of(err), "missing argument")
	_, err = b.Launch(kernel, []any{u, v, r, 2}, backends.WorkSizeFor(2, 64))
	assert.Equal(t, status.InvalidArgument, status.Of(err), "int instead of uint32")
	floats := must.M1(b.BufferFromFlatData([]float32{1, 2}))
	_, err = b.Launch(kernel, []any{u, floats, r, uint32(2)}, backends.WorkSizeFor(2, 64))
	assert.Equal(t, status.InvalidArgument, status.Of(err), "buffer of the wrong dtype")
	_, err = other.Launch(kernel, []any{u, v, r, uint32(2)}, backends.WorkSizeFor(2, 64))
	assert.Equal(t, status.InvalidArgument, status.Of(err), "kernel compiled by another backend")

	require.NoError(t, b.BufferFinalize(v))
	_, err = b.Launch(kernel, []any{u, v, r, uint32(2)}, backends.WorkSizeFor(2, 64))
	assert.Equal(t, status.InvalidArgument, status.Of(err), "finalized buffer")

	b.Finalize()
	_, err = b.Compile(program)
	assert.Equal(t, status.InvalidState, status.Of(err))
	_, err = b.Launch(kernel, []any{u, v, r, uint32(2)}, backends.WorkSizeFor(2, 64))
	assert.Equal(t, status.InvalidState, status.Of(err))
}

func TestBuffers(t *testing.T) {
	b := must.M1(NewBackend(""))
	defer b.Finalize()
	assert.True(t, b.HasSharedBuffers())

	flat := []float32{1, 2, 3}
	buffer, err := b.BufferFromFlatData(flat)
	require.NoError(t, err)
	assert.Equal(t, dtypes.Float32, buffer.(*Buffer).DType())
	assert.Equal(t, 3, buffer.(*Buffer).Size())

	flat[1] = 20
	out := make([]float32, 3)
	require.NoError(t, b.BufferToFlatData(buffer, out))
	assert.Equal(t, []float32{1, 20, 3}, out, "buffers share the host memory")

	assert.Error(t, b.BufferToFlatData(buffer, make([]float32, 2)))
	assert.Error(t, b.BufferToFlatData(buffer, make([]int32, 3)))
	_, err = b.BufferFromFlatData([]float64{1})
	assert.Equal(t, status.InvalidArgument, status.Of(err))
	_, err = b.BufferFromFlatData(int32(1))
	assert.Equal(t, status.InvalidArgument, status.Of(err))

	require.NoError(t, b.BufferFinalize(buffer))
	assert.Error(t, b.BufferFinalize(buffer))
	assert.Error(t, b.BufferToFlatData(buffer, out))
}

// TestConcurrentLaunches launches more kernels than queues, from several goroutines.
func TestConcurrentLaunches(t *testing.T) {
	builtins := ops.Builtins()
	b := must.M1(NewBackend("queues=1,parallelism=2"))
	program := must.M1(kernels.Specialize(kernels.VMap, dtypes.Float32,
		map[string]*ops.Op{kernels.OpUnary: builtins.SqrtFloat}, nil))
	kernel := must.M1(b.Compile(program))

	const numLaunches = 16
	results := make([][]float32, numLaunches)
	var wg sync.WaitGroup
	for ii := range numLaunches {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[ii] = make([]float32, 1000)
			v := make([]float32, 1000)
			for jj := range v {
				v[jj] = float32(ii * ii)
			}
			future, err := b.Launch(kernel, []any{must.M1(b.BufferFromFlatData(v)),
				must.M1(b.BufferFromFlatData(results[ii])), uint32(1000)}, backends.WorkSizeFor(1000, 64))
			assert.NoError(t, err)
			assert.NoError(t, future.Wait())
		}()
	}
	wg.Wait()
	b.Finalize()
	for ii, result := range results {
		assert.Equal(t, float32(ii), result[999])
	}
}
