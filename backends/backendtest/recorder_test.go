// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package backendtest

import (
	"testing"
	"time"

	"github.com/Parzival-05/spla/backends"
	_ "github.com/Parzival-05/spla/backends/gohost"
	"github.com/Parzival-05/spla/pkg/core/dtypes"
	"github.com/Parzival-05/spla/pkg/core/kernels"
	"github.com/Parzival-05/spla/pkg/core/ops"
	"github.com/Parzival-05/spla/pkg/core/status"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecorder(t *testing.T, options ...Option) *Recorder {
	inner, err := backends.NewWithConfig("go:parallelism=2")
	require.NoError(t, err)
	r := New(inner, options...)
	t.Cleanup(r.Finalize)
	return r
}

func plusProgram() *backends.Program {
	return must.M1(kernels.Specialize(kernels.VEAdd, dtypes.Int32,
		map[string]*ops.Op{kernels.OpBinary: ops.Builtins().PlusInt}, nil))
}

func launchPlus(t *testing.T, r *Recorder, kernel backends.Kernel, u, v, out []int32) error {
	args := []any{must.M1(r.BufferFromFlatData(u)), must.M1(r.BufferFromFlatData(v)),
		must.M1(r.BufferFromFlatData(out)), uint32(len(out))}
	future, err := r.Launch(kernel, args, backends.WorkSizeFor(len(out), 64))
	require.NoError(t, err)
	err = future.Wait()
	if err == nil && !r.HasSharedBuffers() {
		require.NoError(t, r.BufferToFlatData(args[2], out))
	}
	for _, arg := range args[:3] {
		require.NoError(t, r.BufferFinalize(arg))
	}
	return err
}

func TestRecorder(t *testing.T) {
	r := newRecorder(t, WithLaunchDelay(time.Millisecond))
	assert.Equal(t, BackendName, r.Name())
	assert.Contains(t, r.Description(), "Portable Go host backend")
	assert.True(t, r.HasSharedBuffers())

	program := plusProgram()
	kernel, err := r.Compile(program)
	require.NoError(t, err)
	_, err = r.Compile(program)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Compilations(program.Name))
	assert.Equal(t, 2, r.TotalCompilations())

	out := make([]int32, 3)
	require.NoError(t, launchPlus(t, r, kernel, []int32{1, 2, 3}, []int32{10, 20, 30}, out))
	assert.Equal(t, []int32{11, 22, 33}, out)
	launches := r.Launches()
	require.Len(t, launches, 1)
	assert.Equal(t, program.Name, launches[0].Kernel)
	assert.NoError(t, launches[0].Err)
	assert.GreaterOrEqual(t, launches[0].End.Sub(launches[0].Start), time.Millisecond)

	r.Reset()
	assert.Empty(t, r.Launches())
	assert.Zero(t, r.TotalCompilations())
}

func TestRecorderFailures(t *testing.T) {
	r := newRecorder(t)
	program := plusProgram()

	r.FailCompile("v_eadd", errors.New("out of registers"))
	_, err := r.Compile(program)
	assert.Equal(t, status.CompilationError, status.Of(err))
	assert.ErrorContains(t, err, "out of registers")
	r.FailCompile("v_eadd", status.Errorf(status.NotImplemented, "no v_eadd here"))
	_, err = r.Compile(program)
	assert.Equal(t, status.NotImplemented, status.Of(err))
	assert.Equal(t, 2, r.Compilations(program.Name))

	r.Reset()
	kernel := must.M1(r.Compile(program))
	r.FailLaunch("PLUS", status.Errorf(status.DispatchError, "device lost"))
	out := make([]int32, 2)
	err = launchPlus(t, r, kernel, []int32{1, 2}, []int32{3, 4}, out)
	assert.Equal(t, status.DispatchError, status.Of(err))
	assert.Equal(t, []int32{0, 0}, out)
	launches := r.Launches()
	require.Len(t, launches, 1)
	assert.Error(t, launches[0].Err)
}

func TestRecorderCopiedBuffers(t *testing.T) {
	r := newRecorder(t, WithCopiedBuffers())
	assert.False(t, r.HasSharedBuffers())

	flat := []float32{1, 2}
	buffer := must.M1(r.BufferFromFlatData(flat))
	flat[0] = 100
	out := make([]float32, 2)
	require.NoError(t, r.BufferToFlatData(buffer, out))
	assert.Equal(t, []float32{1, 2}, out, "the buffer holds a copy")
	require.NoError(t, r.BufferFinalize(buffer))
	assert.Error(t, r.BufferFinalize("not a buffer"))

	kernel := must.M1(r.Compile(plusProgram()))
	result := make([]int32, 2)
	require.NoError(t, launchPlus(t, r, kernel, []int32{1, 2}, []int32{3, 4}, result))
	assert.Equal(t, []int32{4, 6}, result)
}

func TestRegistered(t *testing.T) {
	backend, err := backends.NewWithConfig("recorder:go:queues=1")
	require.NoError(t, err)
	defer backend.Finalize()
	require.IsType(t, &Recorder{}, backend)
	assert.Equal(t, "go", backend.(*Recorder).Inner().Name())
	assert.Contains(t, backend.Description(), "queues=1")
}
