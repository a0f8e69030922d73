// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/Parzival-05/spla/backends"
	"github.com/Parzival-05/spla/pkg/core/kernels"
	"github.com/Parzival-05/spla/pkg/core/ops"
	"github.com/Parzival-05/spla/pkg/core/status"
	"github.com/Parzival-05/spla/pkg/core/storage"
)

// TaskKind is the primitive computed by a Task.
type TaskKind int

//go:generate go tool enumer -type=TaskKind -trimprefix=Task -output=gen_taskkind_enumer.go task.go

const (
	TaskInvalid TaskKind = iota
	TaskMxMTMasked
	TaskMxVMasked
	TaskVMap
	TaskVEAdd
	TaskVReduce
	TaskVAssignMasked
)

// Task is one primitive call with fixed arguments, created by one of the task constructors (MxMTMasked,
// MxVMasked, VMap, VEAdd, VReduce, VAssignMasked) and executed by a Schedule.
//
// Constructors never fail: the arguments are checked when the schedule is submitted.
type Task struct {
	kind    TaskKind
	request kernels.Request

	// ops in placeholder order, for Name.
	ops []*ops.Op

	// args in constructor order, outputs first.
	args       []storage.Object
	argNames   []string
	numOutputs int
	scalars    []any
	desc       *Descriptor

	// validate checks the arguments, before anything is bound.
	validate func() error

	// bind returns the kernel arguments, in template parameter order: a flat slice for buffer parameters, a Go
	// scalar for the others. It may set up the structure of the outputs.
	bind func() ([]any, backends.WorkSize, error)
}

// Kind of the task.
func (t *Task) Kind() TaskKind { return t.kind }

// Name returns the template name and the names of the operators, e.g. "mxmT_masked(MULT,PLUS,ALWAYS)".
func (t *Task) Name() string {
	names := make([]string, len(t.ops))
	for ii, op := range t.ops {
		if op == nil {
			names[ii] = "<nil>"
		} else {
			names[ii] = op.Name()
		}
	}
	return fmt.Sprintf("%s(%s)", t.request.Template, strings.Join(names, ","))
}

// String implements fmt.Stringer.
func (t *Task) String() string { return t.Name() }

// Key returns the specialization key of the kernel the task runs: tasks with the same key share the
// compiled kernel.
func (t *Task) Key() string { return t.request.Key() }

// KeyFull returns Key extended with the identities and shapes of the arguments, the scalar arguments and the
// descriptor: tasks with the same KeyFull compute exactly the same thing.
func (t *Task) KeyFull() string {
	var sb strings.Builder
	sb.WriteString(t.Key())
	for _, obj := range t.args {
		if isNil(obj) {
			sb.WriteString("|nil")
			continue
		}
		_, _ = fmt.Fprintf(&sb, "|%s%v", obj.ID(), obj.Shape())
	}
	for _, value := range t.scalars {
		_, _ = fmt.Fprintf(&sb, "|%T(%v)", value, value)
	}
	sb.WriteString("|")
	sb.WriteString(t.desc.String())
	return sb.String()
}

// Args returns the storage arguments, outputs first.
func (t *Task) Args() []storage.Object { return t.args }

// Desc returns the descriptor given to the constructor, possibly nil.
func (t *Task) Desc() *Descriptor { return t.desc }

// DescOrDefault returns the descriptor, or the default descriptor if none was given. It never returns nil.
func (t *Task) DescOrDefault() *Descriptor {
	if t.desc == nil {
		return &Descriptor{}
	}
	return t.desc
}

// outputs returns the arguments written by the task.
func (t *Task) outputs() []storage.Object { return t.args[:t.numOutputs] }

// bytes returns the memory used by the arguments.
func (t *Task) bytes() (total int) {
	for _, obj := range t.args {
		if !isNil(obj) {
			total += obj.Bytes()
		}
	}
	return
}

// checkArgs returns an InvalidArgument error for the first nil argument.
func (t *Task) checkArgs() error {
	if t.kind == TaskInvalid || t.validate == nil {
		return status.Errorf(status.InvalidArgument, "task not created by a task constructor")
	}
	for ii, obj := range t.args {
		if isNil(obj) {
			return status.Errorf(status.InvalidArgument, "%s: argument %s is nil", t, t.argNames[ii])
		}
	}
	return t.validate()
}

// isNil returns whether obj is nil or a nil pointer.
func isNil(obj storage.Object) bool {
	if obj == nil {
		return true
	}
	value := reflect.ValueOf(obj)
	return value.Kind() == reflect.Pointer && value.IsNil()
}
