// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package gohost

import (
	"regexp"
	"strings"

	"github.com/Parzival-05/spla/backends"
	"github.com/Parzival-05/spla/pkg/core/dtypes"
	"github.com/Parzival-05/spla/pkg/core/kernels"
	"github.com/Parzival-05/spla/pkg/core/ops"
	"github.com/Parzival-05/spla/pkg/core/opsrc"
	"github.com/Parzival-05/spla/pkg/core/status"
	"github.com/pkg/errors"
)

// Kernel is a program compiled by the host backend.
type Kernel struct {
	backend *Backend
	program *backends.Program
	run     func(args []any) error
}

// Program implements backends.Kernel.
func (k *Kernel) Program() *backends.Program { return k.program }

// String returns the program name.
func (k *Kernel) String() string { return k.program.Name }

var (
	leftoverTypeRegexp = regexp.MustCompile(`\b` + kernels.TypeToken + `\b`)
	placeholderRegexp  = regexp.MustCompile(`\bOP_[A-Z0-9_]+\b`)
)

// Compile implements backends.Backend.
//
// It validates the program the way a device compiler would: the entry point must be defined, TYPE replaced,
// every placeholder used bound to an operator, and every operator fragment must type-check for the program's
// scalar type. Then it binds the native implementation of the template.
func (b *Backend) Compile(program *backends.Program) (backends.Kernel, error) {
	if b.finalized.Load() {
		return nil, status.Errorf(status.InvalidState, "backend %q already finalized", BackendName)
	}
	if program == nil {
		return nil, status.Errorf(status.InvalidArgument, "nil program")
	}
	template, found := kernels.Lookup(program.Template)
	if !found {
		return nil, status.Errorf(status.NotImplemented, "backend %q has no implementation of kernel template %q",
			BackendName, program.Template)
	}
	if !program.DType.IsNumeric() {
		return nil, status.Errorf(status.CompilationError, "%s: invalid scalar type %s", program, program.DType)
	}
	if program.EntryPoint == "" || !strings.Contains(program.Source, "__kernel void "+program.EntryPoint+"(") {
		return nil, status.Errorf(status.CompilationError, "%s: entry point %q not found in source", program, program.EntryPoint)
	}
	if loc := leftoverTypeRegexp.FindStringIndex(program.Source); loc != nil {
		return nil, status.Errorf(status.CompilationError, "%s: unreplaced %s at offset %d", program, kernels.TypeToken, loc[0])
	}
	active, err := activeSource(program.Source)
	if err != nil {
		return nil, status.Wrapf(err, status.CompilationError, "%s", program)
	}
	for _, token := range placeholderRegexp.FindAllString(active, -1) {
		if program.Ops[token] == nil {
			return nil, status.Errorf(status.CompilationError, "%s: placeholder %s is not bound to an operator", program, token)
		}
	}
	if want := template.Params(program.DType); len(program.Params) != len(want) {
		return nil, status.Errorf(status.CompilationError, "%s: entry point %s has %d parameters, expected %d",
			program, program.EntryPoint, len(program.Params), len(want))
	}

	compiled := make(map[string]*opsrc.Func, len(program.Ops))
	for token, op := range program.Ops {
		if op == nil {
			continue
		}
		fn, err := op.Program().Compile(op.Kind().Signature(program.DType))
		if err != nil {
			return nil, status.Wrapf(err, status.CompilationError, "%s: operator %s bound to %s", program, op, token)
		}
		compiled[token] = fn
	}

	var run func(args []any) error
	switch program.DType {
	case dtypes.Int32:
		run, err = bind[int32](b, program, compiled)
	case dtypes.Uint32:
		run, err = bind[uint32](b, program, compiled)
	case dtypes.Float32:
		run, err = bind[float32](b, program, compiled)
	}
	if err != nil {
		return nil, err
	}
	return &Kernel{backend: b, program: program, run: run}, nil
}

// activeSource returns the lines of source kept by the preprocessor: the conditional blocks
// (#ifdef, #ifndef, #else, #endif) are resolved against the macros defined so far with #define.
func activeSource(source string) (string, error) {
	type frame struct{ parentActive, active bool }
	defined := make(map[string]bool)
	var stack []frame
	active := true
	var sb strings.Builder
	for lineNum, line := range strings.Split(source, "\n") {
		fields := strings.Fields(line)
		directive := ""
		if len(fields) > 0 && strings.HasPrefix(fields[0], "#") {
			directive = fields[0]
		}
		switch directive {
		case "#ifdef", "#ifndef":
			if len(fields) < 2 {
				return "", errors.Errorf("line %d: %s without a macro name", lineNum+1, directive)
			}
			stack = append(stack, frame{parentActive: active})
			active = active && defined[fields[1]] == (directive == "#ifdef")
			stack[len(stack)-1].active = active
		case "#else":
			if len(stack) == 0 {
				return "", errors.Errorf("line %d: #else without #ifdef", lineNum+1)
			}
			top := stack[len(stack)-1]
			active = top.parentActive && !top.active
		case "#endif":
			if len(stack) == 0 {
				return "", errors.Errorf("line %d: #endif without #ifdef", lineNum+1)
			}
			active = stack[len(stack)-1].parentActive
			stack = stack[:len(stack)-1]
		case "#define":
			if active && len(fields) >= 2 {
				defined[fields[1]] = true
				sb.WriteString(line)
				sb.WriteString("\n")
			}
		default:
			if active {
				sb.WriteString(line)
				sb.WriteString("\n")
			}
		}
	}
	if len(stack) > 0 {
		return "", errors.Errorf("%d unterminated #ifdef blocks", len(stack))
	}
	return sb.String(), nil
}

// opFuncs are the operators bound to the placeholders of a program, and its flags.
type opFuncs[T dtypes.Supported] struct {
	unary                    func(T) T
	binary, binary1, binary2 func(T, T) T
	accum                    func(T, T) T // nil if not accumulating.
	sel                      func(T) bool

	structOnly, replace bool
}

// bindOp returns the Go function evaluating op, either its host function or its compiled fragment.
func bindOp[F any](b *Backend, op *ops.Op, compiled *opsrc.Func,
	hostFn func(*ops.Op) (F, error), interpretFn func(*opsrc.Func) F) (F, error) {
	if b.mode == ModeInterpret {
		return interpretFn(compiled), nil
	}
	fn, err := hostFn(op)
	if err != nil {
		return fn, status.Wrapf(err, status.CompilationError, "can't bind host function of %s", op)
	}
	return fn, nil
}

func bind[T dtypes.Supported](b *Backend, program *backends.Program, compiled map[string]*opsrc.Func) (func(args []any) error, error) {
	f := &opFuncs[T]{
		structOnly: program.HasDefine(kernels.FlagStructOnly),
		replace:    program.HasDefine(kernels.FlagReplace),
	}
	for token, op := range program.Ops {
		if op == nil {
			continue
		}
		var err error
		switch token {
		case kernels.OpUnary:
			f.unary, err = bindOp(b, op, compiled[token], ops.UnaryFunc[T], opsrc.Unary[T])
		case kernels.OpBinary:
			f.binary, err = bindOp(b, op, compiled[token], ops.BinaryFunc[T], opsrc.Binary[T])
		case kernels.OpBinary1:
			f.binary1, err = bindOp(b, op, compiled[token], ops.BinaryFunc[T], opsrc.Binary[T])
		case kernels.OpBinary2:
			f.binary2, err = bindOp(b, op, compiled[token], ops.BinaryFunc[T], opsrc.Binary[T])
		case kernels.OpAccum:
			f.accum, err = bindOp(b, op, compiled[token], ops.BinaryFunc[T], opsrc.Binary[T])
		case kernels.OpSelect:
			f.sel, err = bindOp(b, op, compiled[token], ops.SelectFunc[T], opsrc.Select[T])
		default:
			err = status.Errorf(status.CompilationError, "%s: unknown placeholder %s", program, token)
		}
		if err != nil {
			return nil, err
		}
	}
	if program.HasDefine(kernels.FlagAccum) && f.accum == nil {
		return nil, status.Errorf(status.CompilationError, "%s: %s defined but %s not bound", program, kernels.FlagAccum, kernels.OpAccum)
	}

	var run func(b *Backend, f *opFuncs[T], args []any) error
	switch program.Template {
	case kernels.MxMTMasked:
		run = mxmTMasked[T]
	case kernels.MxVMasked:
		run = mxvMasked[T]
	case kernels.VMap:
		run = vMap[T]
	case kernels.VEAdd:
		run = vEAdd[T]
	case kernels.VReduce:
		run = vReduce[T]
	case kernels.VAssignMasked:
		run = vAssignMasked[T]
	default:
		return nil, status.Errorf(status.NotImplemented, "%s: no native kernel for template %q", program, program.Template)
	}
	if err := f.check(program.Template); err != nil {
		return nil, status.Wrapf(err, status.CompilationError, "%s", program)
	}
	return func(args []any) error { return run(b, f, args) }, nil
}

// check that the operators used by template are bound.
func (f *opFuncs[T]) check(template string) error {
	var missing []string
	need := func(bound bool, token string) {
		if !bound {
			missing = append(missing, token)
		}
	}
	switch template {
	case kernels.MxMTMasked, kernels.MxVMasked:
		need(f.binary1 != nil, kernels.OpBinary1)
		need(f.binary2 != nil, kernels.OpBinary2)
		need(f.sel != nil || f.structOnly, kernels.OpSelect)
	case kernels.VMap:
		need(f.unary != nil, kernels.OpUnary)
	case kernels.VEAdd, kernels.VReduce:
		need(f.binary != nil, kernels.OpBinary)
	case kernels.VAssignMasked:
		need(f.binary != nil, kernels.OpBinary)
		need(f.sel != nil || f.structOnly, kernels.OpSelect)
	}
	if len(missing) > 0 {
		return errors.Errorf("operators not bound: %s", strings.Join(missing, ", "))
	}
	return nil
}
