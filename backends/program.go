// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package backends

import (
	"fmt"
	"strings"

	"github.com/Parzival-05/spla/pkg/core/dtypes"
	"github.com/Parzival-05/spla/pkg/core/ops"
)

// ParamKind is the kind of a kernel parameter.
type ParamKind int

const (
	// ParamBuffer is a global memory array, passed to Launch as a Buffer.
	ParamBuffer ParamKind = iota

	// ParamScalar is a value passed to Launch as a Go scalar (int32, uint32 or float32).
	ParamScalar
)

// Param describes one parameter of a kernel entry point.
type Param struct {
	Name  string
	Kind  ParamKind
	DType dtypes.DType

	// Output is set for buffers written by the kernel (they may also be read).
	Output bool
}

func (p Param) String() string {
	var sb strings.Builder
	if p.Kind == ParamBuffer {
		if !p.Output {
			sb.WriteString("const ")
		}
		_, _ = fmt.Fprintf(&sb, "%s* %s", p.DType.DeviceName(), p.Name)
	} else {
		_, _ = fmt.Fprintf(&sb, "%s %s", p.DType.DeviceName(), p.Name)
	}
	return sb.String()
}

// Program is a kernel template specialized for a scalar type and a set of operators, ready to be compiled.
type Program struct {
	// Name is the specialization key: programs with the same name are interchangeable.
	Name string

	// EntryPoint is the name of the kernel function in Source.
	EntryPoint string

	// Source is the full device source: the preamble with the operator functions and the defines,
	// followed by the template with TYPE replaced.
	Source string

	// Template is the name of the kernel template the program was specialized from.
	Template string

	// DType is the scalar type the template was specialized for.
	DType dtypes.DType

	// Ops maps each placeholder of the template (e.g. "OP_BINARY1") to the operator bound to it.
	Ops map[string]*ops.Op

	// Defines are the flags (e.g. "STRUCT_ONLY") defined in the preamble, sorted.
	Defines []string

	// Params is the parameter layout of the entry point.
	Params []Param
}

// HasDefine returns whether the flag is defined for the program.
func (p *Program) HasDefine(flag string) bool {
	for _, d := range p.Defines {
		if d == flag {
			return true
		}
	}
	return false
}

// String returns the program name.
func (p *Program) String() string { return p.Name }

// Kernel is a compiled Program, ready to be launched.
type Kernel interface {
	// Program returns the program the kernel was compiled from.
	Program() *Program
}

// WorkSize is the launch geometry: Global work-items split in work-groups of Local work-items.
type WorkSize struct {
	Global, Local int
}

// NumGroups returns the number of work-groups.
func (ws WorkSize) NumGroups() int {
	if ws.Local <= 0 {
		return 0
	}
	return (ws.Global + ws.Local - 1) / ws.Local
}

// WorkSizeFor returns a WorkSize with at least n work-items, rounded up to a multiple of local.
func WorkSizeFor(n, local int) WorkSize {
	if local <= 0 {
		local = 1
	}
	groups := max((n+local-1)/local, 1)
	return WorkSize{Global: groups * local, Local: local}
}
