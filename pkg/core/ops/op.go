// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package ops defines the operators used to parametrize the engine primitives: unary, binary and
// select (predicate) scalar functions.
//
// Each operator carries a name, a canonical identity key, its source fragment in the device kernel
// language (see package opsrc) and an equivalent host function. Operators are immutable once
// created and shared by pointer.
//
// The built-in operators are available from Builtins.
package ops

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/Parzival-05/spla/pkg/core/dtypes"
	"github.com/Parzival-05/spla/pkg/core/opsrc"
	"github.com/Parzival-05/spla/pkg/core/status"
	"github.com/gomlx/exceptions"
)

// Kind of operator.
type Kind int

//go:generate go tool enumer -type=Kind -trimprefix=Kind -output=gen_kind_enumer.go op.go

const (
	KindInvalid Kind = iota

	// KindUnary operators map a value to a value of the same type: T(T).
	KindUnary

	// KindBinary operators combine two values of the same type: T(T, T).
	KindBinary

	// KindSelect operators are predicates on a value: bool(T).
	KindSelect
)

// NumArgs returns the number of arguments taken by operators of this kind.
func (k Kind) NumArgs() int {
	if k == KindBinary {
		return 2
	}
	return 1
}

// Signature returns the signature of an operator of this kind instantiated for dtype.
func (k Kind) Signature(dtype dtypes.DType) opsrc.Signature {
	switch k {
	case KindUnary:
		return opsrc.Signature{Args: []dtypes.DType{dtype}, Result: dtype}
	case KindBinary:
		return opsrc.Signature{Args: []dtypes.DType{dtype, dtype}, Result: dtype}
	case KindSelect:
		return opsrc.Signature{Args: []dtypes.DType{dtype}, Result: dtypes.Bool}
	}
	exceptions.Panicf("invalid operator kind %s", k)
	panic(nil)
}

// Op is a scalar operator. See Kind for the variants.
type Op struct {
	kind     Kind
	name     string
	key      string
	program  *opsrc.Program
	argTypes []dtypes.DType
	resType  dtypes.DType

	// fn is a func(T) T, func(T, T) T or func(T) bool, according to kind.
	fn any

	compile func() (*opsrc.Func, error)
}

// Key returns the canonical identity of an operator: its name, "_", then the codes of its argument
// types and of its result type.
//
// E.g.: KeyFor("PLUS", {Int32, Int32}, Int32) = "PLUS_i32i32i32", KeyFor("ALWAYS", {Int32}, Bool) = "ALWAYS_i32b".
func KeyFor(name string, args []dtypes.DType, result dtypes.DType) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('_')
	for _, arg := range args {
		sb.WriteString(arg.Code())
	}
	sb.WriteString(result.Code())
	return sb.String()
}

var validName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

func newOp[T dtypes.Supported](kind Kind, name, source string, fn any) (*Op, error) {
	if !validName.MatchString(name) {
		return nil, status.Errorf(status.InvalidArgument, "invalid operator name %q: it must be an identifier", name)
	}
	program, err := opsrc.Parse(source)
	if err != nil {
		return nil, status.Wrapf(err, status.CompilationError, "operator %s", name)
	}
	dtype := dtypes.FromGenericsType[T]()
	sig := kind.Signature(dtype)
	op := &Op{
		kind:     kind,
		name:     name,
		program:  program,
		argTypes: sig.Args,
		resType:  sig.Result,
		fn:       fn,
	}
	op.key = KeyFor(name, op.argTypes, op.resType)
	op.compile = sync.OnceValues(func() (*opsrc.Func, error) {
		compiled, err := op.program.Compile(op.Signature())
		if err != nil {
			return nil, status.Wrapf(err, status.CompilationError, "operator %s", op.key)
		}
		return compiled, nil
	})
	return op, nil
}

// MakeUnary creates a unary operator T(T) with the given name, source fragment and host function.
//
// The fragment syntax is checked, and a CompilationError is returned if it is malformed.
// Type errors are only detected when the fragment is compiled for a kernel (or with Op.Compile).
func MakeUnary[T dtypes.Supported](name, source string, fn func(T) T) (*Op, error) {
	if fn == nil {
		return nil, status.Errorf(status.InvalidArgument, "unary operator %s: nil host function", name)
	}
	return newOp[T](KindUnary, name, source, fn)
}

// MakeBinary creates a binary operator T(T, T). See MakeUnary.
func MakeBinary[T dtypes.Supported](name, source string, fn func(T, T) T) (*Op, error) {
	if fn == nil {
		return nil, status.Errorf(status.InvalidArgument, "binary operator %s: nil host function", name)
	}
	return newOp[T](KindBinary, name, source, fn)
}

// MakeSelect creates a select operator bool(T). See MakeUnary.
func MakeSelect[T dtypes.Supported](name, source string, fn func(T) bool) (*Op, error) {
	if fn == nil {
		return nil, status.Errorf(status.InvalidArgument, "select operator %s: nil host function", name)
	}
	return newOp[T](KindSelect, name, source, fn)
}

// MakeUnaryInt creates a unary operator on int values.
func MakeUnaryInt(name, source string, fn func(int32) int32) (*Op, error) {
	return MakeUnary(name, source, fn)
}

// MakeUnaryUint creates a unary operator on uint values.
func MakeUnaryUint(name, source string, fn func(uint32) uint32) (*Op, error) {
	return MakeUnary(name, source, fn)
}

// MakeUnaryFloat creates a unary operator on float values.
func MakeUnaryFloat(name, source string, fn func(float32) float32) (*Op, error) {
	return MakeUnary(name, source, fn)
}

// MakeBinaryInt creates a binary operator on int values.
func MakeBinaryInt(name, source string, fn func(int32, int32) int32) (*Op, error) {
	return MakeBinary(name, source, fn)
}

// MakeBinaryUint creates a binary operator on uint values.
func MakeBinaryUint(name, source string, fn func(uint32, uint32) uint32) (*Op, error) {
	return MakeBinary(name, source, fn)
}

// MakeBinaryFloat creates a binary operator on float values.
func MakeBinaryFloat(name, source string, fn func(float32, float32) float32) (*Op, error) {
	return MakeBinary(name, source, fn)
}

// MakeSelectInt creates a select operator on int values.
func MakeSelectInt(name, source string, fn func(int32) bool) (*Op, error) {
	return MakeSelect(name, source, fn)
}

// MakeSelectUint creates a select operator on uint values.
func MakeSelectUint(name, source string, fn func(uint32) bool) (*Op, error) {
	return MakeSelect(name, source, fn)
}

// MakeSelectFloat creates a select operator on float values.
func MakeSelectFloat(name, source string, fn func(float32) bool) (*Op, error) {
	return MakeSelect(name, source, fn)
}

func mustOp(op *Op, err error) *Op {
	if err != nil {
		panic(err)
	}
	return op
}

// MustUnary is like MakeUnary, but panics on error.
func MustUnary[T dtypes.Supported](name, source string, fn func(T) T) *Op {
	return mustOp(MakeUnary(name, source, fn))
}

// MustBinary is like MakeBinary, but panics on error.
func MustBinary[T dtypes.Supported](name, source string, fn func(T, T) T) *Op {
	return mustOp(MakeBinary(name, source, fn))
}

// MustSelect is like MakeSelect, but panics on error.
func MustSelect[T dtypes.Supported](name, source string, fn func(T) bool) *Op {
	return mustOp(MakeSelect(name, source, fn))
}

// Kind of the operator.
func (op *Op) Kind() Kind { return op.kind }

// Name of the operator, e.g. "PLUS". Different instantiations of an operator share the name.
func (op *Op) Name() string { return op.name }

// Key is the canonical identity of the operator, e.g. "PLUS_i32i32i32". See KeyFor.
func (op *Op) Key() string { return op.key }

// String implements fmt.Stringer.
func (op *Op) String() string { return op.key }

// Source returns the source fragment of the operator in the device language.
func (op *Op) Source() string { return op.program.Source() }

// Program returns the parsed source fragment.
func (op *Op) Program() *opsrc.Program { return op.program }

// ResultType returns the dtype of the operator result: the argument type, or Bool for select operators.
func (op *Op) ResultType() dtypes.DType { return op.resType }

// NumArgs returns the number of arguments of the operator: 1 or 2.
func (op *Op) NumArgs() int { return len(op.argTypes) }

// ArgType returns the dtype of the i-th argument.
func (op *Op) ArgType(i int) dtypes.DType {
	if i < 0 || i >= len(op.argTypes) {
		exceptions.Panicf("operator %s has %d arguments, can't get type of argument #%d", op.key, len(op.argTypes), i)
	}
	return op.argTypes[i]
}

// DType returns the domain the operator is instantiated for, its first argument type.
func (op *Op) DType() dtypes.DType { return op.argTypes[0] }

// Signature of the operator's function.
func (op *Op) Signature() opsrc.Signature {
	return opsrc.Signature{Args: op.argTypes, Result: op.resType}
}

// HostFunc returns the host function as given at construction: a func(T) T, func(T, T) T or func(T) bool.
func (op *Op) HostFunc() any { return op.fn }

// Compile type-checks the operator's fragment for its own signature, and returns the corresponding
// function evaluated by the fragment interpreter. The result is cached.
func (op *Op) Compile() (*opsrc.Func, error) {
	return op.compile()
}

func typeMismatch[T dtypes.Supported](op *Op, kind Kind) error {
	return status.Errorf(status.InvalidArgument, "operator %s (%s) can't be used as a %s operator on %s",
		op.key, op.kind, kind, dtypes.FromGenericsType[T]())
}

// UnaryFunc returns the host function of a unary operator on T.
func UnaryFunc[T dtypes.Supported](op *Op) (func(T) T, error) {
	fn, ok := op.fn.(func(T) T)
	if !ok || op.kind != KindUnary {
		return nil, typeMismatch[T](op, KindUnary)
	}
	return fn, nil
}

// BinaryFunc returns the host function of a binary operator on T.
func BinaryFunc[T dtypes.Supported](op *Op) (func(T, T) T, error) {
	fn, ok := op.fn.(func(T, T) T)
	if !ok || op.kind != KindBinary {
		return nil, typeMismatch[T](op, KindBinary)
	}
	return fn, nil
}

// SelectFunc returns the host function of a select operator on T.
func SelectFunc[T dtypes.Supported](op *Op) (func(T) bool, error) {
	fn, ok := op.fn.(func(T) bool)
	if !ok || op.kind != KindSelect {
		return nil, typeMismatch[T](op, KindSelect)
	}
	return fn, nil
}

// InterpretedUnaryFunc returns the unary operator on T evaluated from its source fragment.
func InterpretedUnaryFunc[T dtypes.Supported](op *Op) (func(T) T, error) {
	if _, err := UnaryFunc[T](op); err != nil {
		return nil, err
	}
	compiled, err := op.Compile()
	if err != nil {
		return nil, err
	}
	return opsrc.Unary[T](compiled), nil
}

// InterpretedBinaryFunc returns the binary operator on T evaluated from its source fragment.
func InterpretedBinaryFunc[T dtypes.Supported](op *Op) (func(T, T) T, error) {
	if _, err := BinaryFunc[T](op); err != nil {
		return nil, err
	}
	compiled, err := op.Compile()
	if err != nil {
		return nil, err
	}
	return opsrc.Binary[T](compiled), nil
}

// InterpretedSelectFunc returns the select operator on T evaluated from its source fragment.
func InterpretedSelectFunc[T dtypes.Supported](op *Op) (func(T) bool, error) {
	if _, err := SelectFunc[T](op); err != nil {
		return nil, err
	}
	compiled, err := op.Compile()
	if err != nil {
		return nil, err
	}
	return opsrc.Select[T](compiled), nil
}

// Format implements fmt.Formatter: "%+v" also prints the source fragment.
func (op *Op) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		_, _ = fmt.Fprintf(s, "%s %s", op.key, op.program.Source())
		return
	}
	_, _ = fmt.Fprint(s, op.key)
}
