// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"slices"

	"github.com/Parzival-05/spla/backends"
	"github.com/Parzival-05/spla/pkg/core/dtypes"
	"github.com/Parzival-05/spla/pkg/core/kernels"
	"github.com/Parzival-05/spla/pkg/core/ops"
	"github.com/Parzival-05/spla/pkg/core/status"
	"github.com/Parzival-05/spla/pkg/core/storage"
)

// Launch geometry of the kernels.
const (
	// rowGroupSize is the number of work-items cooperating on one row of the masked multiplies.
	rowGroupSize = 32

	vectorGroupSize = 64

	// reduceBlockSize must match BLOCK_SIZE in v_reduce.cl: the reduction runs in a single work-group.
	reduceBlockSize = 256
)

func newTask[T dtypes.Supported](kind TaskKind, template string, desc *Descriptor, bound map[string]*ops.Op,
	defines []string, opsInOrder ...*ops.Op) *Task {
	if desc != nil && desc.Accum != nil {
		bound[kernels.OpAccum] = desc.Accum
		opsInOrder = append(opsInOrder, desc.Accum)
	}
	return &Task{
		kind: kind,
		request: kernels.Request{
			Template: template,
			DType:    dtypes.FromGenericsType[T](),
			Ops:      bound,
			Defines:  defines,
		},
		ops:  opsInOrder,
		desc: desc,
	}
}

// noAccum returns an InvalidArgument error if the task has an accumulator, for tasks that don't support it.
func (t *Task) noAccum() error {
	if t.desc != nil && t.desc.Accum != nil {
		return status.Errorf(status.InvalidArgument, "%s doesn't support accumulation (Descriptor.Accum=%s)", t, t.desc.Accum)
	}
	return nil
}

func sameSize(t *Task, what string, sizes ...int) error {
	for _, size := range sizes[1:] {
		if size != sizes[0] {
			return status.Errorf(status.InvalidArgument, "%s: %s have different sizes %v", t, what, sizes)
		}
	}
	return nil
}

// MxMTMasked returns the task r<mask> = a * bᵀ: for every explicit entry (row, col) of mask selected by sel,
// r[row, col] is the fold with add, from init, of mult(a[row, k], b[col, k]) over the columns k present in both
// a[row] and b[col]. Entries not selected are set to init.
//
// r gets the structure of mask. With Descriptor.StructOnly, every explicit mask entry is selected.
func MxMTMasked[T dtypes.Supported](r, mask, a, b *storage.Matrix[T], mult, add, sel *ops.Op, init T,
	desc *Descriptor) *Task {
	t := newTask[T](TaskMxMTMasked, kernels.MxMTMasked, desc,
		map[string]*ops.Op{kernels.OpBinary1: mult, kernels.OpBinary2: add, kernels.OpSelect: sel},
		desc.defines(true, false), mult, add, sel)
	t.args = []storage.Object{r, mask, a, b}
	t.argNames = []string{"r", "mask", "a", "b"}
	t.numOutputs = 1
	t.scalars = []any{init}
	t.validate = func() error {
		if err := t.noAccum(); err != nil {
			return err
		}
		if mask.NumRows() != r.NumRows() || a.NumRows() != r.NumRows() || mask.NumCols() != r.NumCols() ||
			b.NumRows() != r.NumCols() || a.NumCols() != b.NumCols() {
			return status.Errorf(status.InvalidArgument, "%s: incompatible shapes r=%v, mask=%v, a=%v, b=%v",
				t, r.Shape(), mask.Shape(), a.Shape(), b.Shape())
		}
		return nil
	}
	t.bind = func() ([]any, backends.WorkSize, error) {
		numRows := r.NumRows()
		args := []any{
			a.RowPtr(), a.ColIdx(), a.Values(),
			b.RowPtr(), b.ColIdx(), b.Values(),
			mask.RowPtr(), mask.ColIdx(), mask.Values(),
			nil, init, uint32(numRows),
		}
		values := make([]T, mask.NNZ())
		if err := r.SetCSR(slices.Clone(mask.RowPtr()), slices.Clone(mask.ColIdx()), values); err != nil {
			return nil, backends.WorkSize{}, err
		}
		args[9] = values
		return args, backends.WorkSizeFor(numRows*rowGroupSize, rowGroupSize), nil
	}
	return t
}

// MxVMasked returns the task r<mask> = m * v: for every row selected by sel(mask[row]), r[row] is the fold with
// add, from init, of mult(m[row, k], v[k]) over the explicit entries of the row.
//
// Rows not selected keep their value, or are set to init with Descriptor.Replace. With Descriptor.Accum, the
// computed value is merged with the previous r[row].
func MxVMasked[T dtypes.Supported](r, mask *storage.Vector[T], m *storage.Matrix[T], v *storage.Vector[T],
	mult, add, sel *ops.Op, init T, desc *Descriptor) *Task {
	t := newTask[T](TaskMxVMasked, kernels.MxVMasked, desc,
		map[string]*ops.Op{kernels.OpBinary1: mult, kernels.OpBinary2: add, kernels.OpSelect: sel},
		desc.defines(true, true), mult, add, sel)
	t.args = []storage.Object{r, mask, m, v}
	t.argNames = []string{"r", "mask", "m", "v"}
	t.numOutputs = 1
	t.scalars = []any{init}
	t.validate = func() error {
		if r == v {
			return status.Errorf(status.InvalidArgument, "%s: r and v can't be the same vector", t)
		}
		if m.NumRows() != r.Size() || mask.Size() != r.Size() || m.NumCols() != v.Size() {
			return status.Errorf(status.InvalidArgument, "%s: incompatible shapes r=%v, mask=%v, m=%v, v=%v",
				t, r.Shape(), mask.Shape(), m.Shape(), v.Shape())
		}
		return nil
	}
	t.bind = func() ([]any, backends.WorkSize, error) {
		numRows := r.Size()
		return []any{m.RowPtr(), m.ColIdx(), m.Values(), v.Values(), mask.Values(), r.Values(), init, uint32(numRows)},
			backends.WorkSizeFor(numRows*rowGroupSize, rowGroupSize), nil
	}
	return t
}

// VMap returns the task r[i] = op(v[i]).
func VMap[T dtypes.Supported](r, v *storage.Vector[T], op *ops.Op, desc *Descriptor) *Task {
	t := newTask[T](TaskVMap, kernels.VMap, desc, map[string]*ops.Op{kernels.OpUnary: op}, nil, op)
	t.args = []storage.Object{r, v}
	t.argNames = []string{"r", "v"}
	t.numOutputs = 1
	t.validate = func() error { return sameSize(t, "r and v", r.Size(), v.Size()) }
	t.bind = func() ([]any, backends.WorkSize, error) {
		n := r.Size()
		return []any{v.Values(), r.Values(), uint32(n)}, backends.WorkSizeFor(n, vectorGroupSize), nil
	}
	return t
}

// VEAdd returns the task r[i] = op(u[i], v[i]).
func VEAdd[T dtypes.Supported](r, u, v *storage.Vector[T], op *ops.Op, desc *Descriptor) *Task {
	t := newTask[T](TaskVEAdd, kernels.VEAdd, desc, map[string]*ops.Op{kernels.OpBinary: op}, nil, op)
	t.args = []storage.Object{r, u, v}
	t.argNames = []string{"r", "u", "v"}
	t.numOutputs = 1
	t.validate = func() error { return sameSize(t, "r, u and v", r.Size(), u.Size(), v.Size()) }
	t.bind = func() ([]any, backends.WorkSize, error) {
		n := r.Size()
		return []any{u.Values(), v.Values(), r.Values(), uint32(n)}, backends.WorkSizeFor(n, vectorGroupSize), nil
	}
	return t
}

// VReduce returns the task r = fold of v with op, starting from init.
//
// op should be associative: devices may combine the elements in any order.
func VReduce[T dtypes.Supported](r *storage.Scalar[T], init T, v *storage.Vector[T], op *ops.Op, desc *Descriptor) *Task {
	t := newTask[T](TaskVReduce, kernels.VReduce, desc, map[string]*ops.Op{kernels.OpBinary: op}, nil, op)
	t.args = []storage.Object{r, v}
	t.argNames = []string{"r", "v"}
	t.numOutputs = 1
	t.scalars = []any{init}
	t.validate = func() error { return nil }
	t.bind = func() ([]any, backends.WorkSize, error) {
		return []any{v.Values(), r.Values(), init, uint32(v.Size())},
			backends.WorkSize{Global: reduceBlockSize, Local: reduceBlockSize}, nil
	}
	return t
}

// VAssignMasked returns the task r[i] = op(r[i], value) for every i selected by sel(mask[i]).
// With Descriptor.StructOnly every element is selected.
func VAssignMasked[T dtypes.Supported](r, mask *storage.Vector[T], value T, op, sel *ops.Op, desc *Descriptor) *Task {
	t := newTask[T](TaskVAssignMasked, kernels.VAssignMasked, desc,
		map[string]*ops.Op{kernels.OpBinary: op, kernels.OpSelect: sel}, desc.defines(true, false), op, sel)
	t.args = []storage.Object{r, mask}
	t.argNames = []string{"r", "mask"}
	t.numOutputs = 1
	t.scalars = []any{value}
	t.validate = func() error {
		if err := t.noAccum(); err != nil {
			return err
		}
		return sameSize(t, "r and mask", r.Size(), mask.Size())
	}
	t.bind = func() ([]any, backends.WorkSize, error) {
		n := r.Size()
		return []any{r.Values(), mask.Values(), value, uint32(n)}, backends.WorkSizeFor(n, vectorGroupSize), nil
	}
	return t
}
