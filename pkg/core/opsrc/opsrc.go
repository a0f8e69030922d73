// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package opsrc handles the source fragments of operators: small pieces of OpenCL C code that
// define the body of a scalar function of the parameters "a" (and "b" for binary operators).
//
// A fragment is either a statement block, as in
//
//	{ if (a == INT_MAX || b == INT_MAX) { return INT_MAX; } return min(a, b); }
//
// or a bare expression, as in "a + b".
//
// Parse checks the syntax of a fragment, independent of the scalar types it will be used with.
// Program.Compile type-checks it for a concrete Signature, and returns a Func that evaluates it on the
// host with the semantics of the device: 32-bit two's complement integers, float32 arithmetic, C
// conversion rules and the device built-in functions and constants.
//
// The supported subset covers what operator fragments need: declarations of scalar variables,
// assignments (parameters are const), if/else and return statements, the C operators (except
// increment, decrement and comma), casts, and calls to built-in functions.
package opsrc

import (
	"fmt"
	"strings"

	"github.com/Parzival-05/spla/pkg/core/dtypes"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// ParamNames are the names of the parameters of a fragment, in order.
var ParamNames = []string{"a", "b"}

// Program is a parsed fragment.
type Program struct {
	source string
	body   *blockStmt
	bare   bool
}

// Parse checks the syntax of the fragment source and returns the corresponding Program.
func Parse(source string) (*Program, error) {
	body, bare, err := parseFragment(source)
	if err != nil {
		return nil, errors.WithMessagef(err, "parsing operator fragment %q", source)
	}
	if !terminates(body) {
		return nil, errors.Errorf("parsing operator fragment %q: missing return statement", source)
	}
	return &Program{source: source, body: body, bare: bare}, nil
}

// Source returns the fragment exactly as given to Parse.
func (p *Program) Source() string { return p.source }

// IsExpression returns whether the fragment is a bare expression, as opposed to a statement block.
func (p *Program) IsExpression() bool { return p.bare }

// FunctionBody returns the fragment as a C function body: statement blocks are returned as is, and bare
// expressions are wrapped as "{ return (expr); }".
func (p *Program) FunctionBody() string {
	source := strings.TrimSpace(p.source)
	if !p.bare {
		return source
	}
	source = strings.TrimSpace(strings.TrimSuffix(source, ";"))
	return "{ return (" + source + "); }"
}

// Signature of a compiled fragment: the types of its parameters (one or two) and of its result.
type Signature struct {
	Args   []dtypes.DType
	Result dtypes.DType
}

// String returns the signature in C notation, e.g. "int(int, int)".
func (sig Signature) String() string {
	parts := make([]string, len(sig.Args))
	for ii, arg := range sig.Args {
		parts[ii] = arg.DeviceName()
	}
	return fmt.Sprintf("%s(%s)", sig.Result.DeviceName(), strings.Join(parts, ", "))
}

// Equal returns whether both signatures are the same.
func (sig Signature) Equal(other Signature) bool {
	if sig.Result != other.Result || len(sig.Args) != len(other.Args) {
		return false
	}
	for ii := range sig.Args {
		if sig.Args[ii] != other.Args[ii] {
			return false
		}
	}
	return true
}

// Compile type-checks the program for the given signature and returns the host-callable Func.
//
// Errors include the position of the offending token in the fragment.
func (p *Program) Compile(sig Signature) (*Func, error) {
	if len(sig.Args) == 0 || len(sig.Args) > len(ParamNames) {
		return nil, errors.Errorf("fragments take 1 or 2 parameters, signature %v has %d", sig.Args, len(sig.Args))
	}
	for _, dtype := range sig.Args {
		if !dtype.IsSupported() {
			return nil, errors.Errorf("unsupported parameter dtype %s in fragment signature", dtype)
		}
	}
	if !sig.Result.IsSupported() {
		return nil, errors.Errorf("unsupported result dtype %s in fragment signature", sig.Result)
	}
	params := newScope(nil)
	for ii, dtype := range sig.Args {
		params.vars[ParamNames[ii]] = &variable{slot: ii, dtype: dtype, param: true}
	}
	c := &compiler{sig: sig, numSlots: len(sig.Args)}
	// The outermost block shares the scope of the parameters, as a C function body does.
	body, err := c.compileBlock(p.body, params)
	if err != nil {
		return nil, errors.WithMessagef(err, "compiling operator fragment %q as %s", p.source, sig)
	}
	return &Func{sig: sig, numSlots: c.numSlots, body: body}, nil
}

// Func is a fragment compiled for a concrete Signature. It is safe for concurrent use.
type Func struct {
	sig      Signature
	numSlots int
	body     execFn
}

// Signature of the compiled function.
func (fn *Func) Signature() Signature { return fn.sig }

// Call evaluates the function on words holding the arguments (see ToWord) and returns the result word.
//
// Integer division by zero panics.
func (fn *Func) Call(args ...uint32) uint32 {
	f := &frame{vars: make([]uint32, fn.numSlots)}
	copy(f.vars, args)
	result, _ := fn.body(f)
	return result
}

func checkSignature(fn *Func, want Signature) {
	if !fn.sig.Equal(want) {
		exceptions.Panicf("compiled fragment has signature %s, wanted %s", fn.sig, want)
	}
}

// Unary returns fn as a typed unary function. It panics if fn's signature is not T(T).
func Unary[T dtypes.Supported](fn *Func) func(T) T {
	dtype := dtypes.FromGenericsType[T]()
	checkSignature(fn, Signature{Args: []dtypes.DType{dtype}, Result: dtype})
	return func(a T) T {
		return FromWord[T](fn.Call(ToWord(a)))
	}
}

// Binary returns fn as a typed binary function. It panics if fn's signature is not T(T, T).
func Binary[T dtypes.Supported](fn *Func) func(T, T) T {
	dtype := dtypes.FromGenericsType[T]()
	checkSignature(fn, Signature{Args: []dtypes.DType{dtype, dtype}, Result: dtype})
	return func(a, b T) T {
		return FromWord[T](fn.Call(ToWord(a), ToWord(b)))
	}
}

// Select returns fn as a typed predicate. It panics if fn's signature is not bool(T).
func Select[T dtypes.Supported](fn *Func) func(T) bool {
	dtype := dtypes.FromGenericsType[T]()
	checkSignature(fn, Signature{Args: []dtypes.DType{dtype}, Result: dtypes.Bool})
	return func(a T) bool {
		return fn.Call(ToWord(a)) != 0
	}
}
