// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package opsrc

import (
	"math"
	"strings"

	"github.com/Parzival-05/spla/pkg/core/dtypes"
)

// frame holds the variable slots of one call: parameters first, then locals.
type frame struct {
	vars []uint32
}

type (
	evalFn func(f *frame) uint32
	execFn func(f *frame) (result uint32, returned bool)
)

type variable struct {
	slot  int
	dtype dtypes.DType
	param bool
}

type scope struct {
	parent *scope
	vars   map[string]*variable
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: make(map[string]*variable)}
}

func (s *scope) lookup(name string) *variable {
	for ; s != nil; s = s.parent {
		if v, found := s.vars[name]; found {
			return v
		}
	}
	return nil
}

type compiler struct {
	sig      Signature
	numSlots int
}

// promote applies integer promotion: bool operands take part in arithmetic as int.
func promote(dtype dtypes.DType) dtypes.DType {
	if dtype == dtypes.Bool {
		return dtypes.Int32
	}
	return dtype
}

// arithmeticType implements the usual arithmetic conversions for two operands.
func arithmeticType(t1, t2 dtypes.DType) dtypes.DType {
	t1, t2 = promote(t1), promote(t2)
	switch {
	case t1 == dtypes.Float32 || t2 == dtypes.Float32:
		return dtypes.Float32
	case t1 == dtypes.Uint32 || t2 == dtypes.Uint32:
		return dtypes.Uint32
	}
	return dtypes.Int32
}

func convert(fn evalFn, from, to dtypes.DType) evalFn {
	if from == to {
		return fn
	}
	if (from == dtypes.Int32 && to == dtypes.Uint32) || (from == dtypes.Uint32 && to == dtypes.Int32) ||
		(from == dtypes.Bool && to != dtypes.Float32) {
		// Same bit pattern.
		return fn
	}
	return func(f *frame) uint32 { return convertWord(fn(f), from, to) }
}

func (c *compiler) compileBlock(block *blockStmt, sc *scope) (execFn, error) {
	var fns []execFn
	for _, s := range block.stmts {
		fn, err := c.compileStmt(s, sc)
		if err != nil {
			return nil, err
		}
		if fn != nil {
			fns = append(fns, fn)
		}
	}
	return func(f *frame) (uint32, bool) {
		for _, fn := range fns {
			if result, returned := fn(f); returned {
				return result, true
			}
		}
		return 0, false
	}, nil
}

func (c *compiler) compileStmt(s stmt, sc *scope) (execFn, error) {
	switch s := s.(type) {
	case *emptyStmt:
		return nil, nil

	case *blockStmt:
		return c.compileBlock(s, newScope(sc))

	case *returnStmt:
		x, xType, err := c.compileExpr(s.x, sc)
		if err != nil {
			return nil, err
		}
		x = convert(x, xType, c.sig.Result)
		return func(f *frame) (uint32, bool) { return x(f), true }, nil

	case *ifStmt:
		cond, condType, err := c.compileExpr(s.cond, sc)
		if err != nil {
			return nil, err
		}
		cond = convert(cond, condType, dtypes.Bool)
		then, err := c.compileStmt(s.then, newScope(sc))
		if err != nil {
			return nil, err
		}
		var els execFn
		if s.els != nil {
			if els, err = c.compileStmt(s.els, newScope(sc)); err != nil {
				return nil, err
			}
		}
		return func(f *frame) (uint32, bool) {
			if cond(f) != 0 {
				if then != nil {
					return then(f)
				}
			} else if els != nil {
				return els(f)
			}
			return 0, false
		}, nil

	case *declStmt:
		slots := make([]int, len(s.names))
		inits := make([]evalFn, len(s.names))
		for ii, name := range s.names {
			if _, found := sc.vars[name]; found {
				return nil, errorAt(s.pos, "%q redeclared in this block", name)
			}
			if s.inits[ii] != nil {
				x, xType, err := c.compileExpr(s.inits[ii], sc)
				if err != nil {
					return nil, err
				}
				inits[ii] = convert(x, xType, s.dtype)
			}
			slots[ii] = c.numSlots
			c.numSlots++
			sc.vars[name] = &variable{slot: slots[ii], dtype: s.dtype}
		}
		return func(f *frame) (uint32, bool) {
			for ii, slot := range slots {
				if inits[ii] != nil {
					f.vars[slot] = inits[ii](f)
				} else {
					f.vars[slot] = 0
				}
			}
			return 0, false
		}, nil

	case *assignStmt:
		v := sc.lookup(s.name)
		if v == nil {
			return nil, errorAt(s.pos, "undefined: %s", s.name)
		}
		if v.param {
			return nil, errorAt(s.pos, "cannot assign to parameter %q, parameters are const", s.name)
		}
		rhs := s.x
		if s.op != "=" {
			rhs = &binaryExpr{pos: s.pos, op: strings.TrimSuffix(s.op, "="), x: &identExpr{pos: s.pos, name: s.name}, y: s.x}
		}
		x, xType, err := c.compileExpr(rhs, sc)
		if err != nil {
			return nil, err
		}
		x = convert(x, xType, v.dtype)
		slot := v.slot
		return func(f *frame) (uint32, bool) {
			f.vars[slot] = x(f)
			return 0, false
		}, nil
	}
	return nil, errorAt(s.position(), "unsupported statement %T", s)
}

func (c *compiler) compileExpr(e expr, sc *scope) (evalFn, dtypes.DType, error) {
	switch e := e.(type) {
	case *literalExpr:
		word := e.word
		return func(*frame) uint32 { return word }, e.dtype, nil

	case *identExpr:
		if v := sc.lookup(e.name); v != nil {
			slot := v.slot
			return func(f *frame) uint32 { return f.vars[slot] }, v.dtype, nil
		}
		if k, found := constants[e.name]; found {
			word := k.word
			return func(*frame) uint32 { return word }, k.dtype, nil
		}
		return nil, dtypes.InvalidDType, errorAt(e.pos, "undefined: %s", e.name)

	case *castExpr:
		x, xType, err := c.compileExpr(e.x, sc)
		if err != nil {
			return nil, dtypes.InvalidDType, err
		}
		return convert(x, xType, e.dtype), e.dtype, nil

	case *unaryExpr:
		return c.compileUnary(e, sc)

	case *binaryExpr:
		return c.compileBinary(e, sc)

	case *ternaryExpr:
		cond, condType, err := c.compileExpr(e.cond, sc)
		if err != nil {
			return nil, dtypes.InvalidDType, err
		}
		cond = convert(cond, condType, dtypes.Bool)
		x, xType, err := c.compileExpr(e.x, sc)
		if err != nil {
			return nil, dtypes.InvalidDType, err
		}
		y, yType, err := c.compileExpr(e.y, sc)
		if err != nil {
			return nil, dtypes.InvalidDType, err
		}
		dtype := xType
		if xType != yType {
			dtype = arithmeticType(xType, yType)
		}
		x, y = convert(x, xType, dtype), convert(y, yType, dtype)
		return func(f *frame) uint32 {
			if cond(f) != 0 {
				return x(f)
			}
			return y(f)
		}, dtype, nil

	case *callExpr:
		return c.compileCall(e, sc)
	}
	return nil, dtypes.InvalidDType, errorAt(e.position(), "unsupported expression %T", e)
}

func (c *compiler) compileUnary(e *unaryExpr, sc *scope) (evalFn, dtypes.DType, error) {
	x, xType, err := c.compileExpr(e.x, sc)
	if err != nil {
		return nil, dtypes.InvalidDType, err
	}
	if e.op == "!" {
		x = convert(x, xType, dtypes.Bool)
		return func(f *frame) uint32 { return x(f) ^ 1 }, dtypes.Int32, nil
	}
	dtype := promote(xType)
	x = convert(x, xType, dtype)
	switch e.op {
	case "+":
		return x, dtype, nil
	case "-":
		if dtype == dtypes.Float32 {
			return func(f *frame) uint32 { return f32Word(-f32(x(f))) }, dtype, nil
		}
		// Two's complement negation is the same for int and uint.
		return func(f *frame) uint32 { return -x(f) }, dtype, nil
	case "~":
		if dtype == dtypes.Float32 {
			return nil, dtypes.InvalidDType, errorAt(e.pos, "invalid operand to ~: %s", dtype.DeviceName())
		}
		return func(f *frame) uint32 { return ^x(f) }, dtype, nil
	}
	return nil, dtypes.InvalidDType, errorAt(e.pos, "unsupported unary operator %q", e.op)
}

func (c *compiler) compileBinary(e *binaryExpr, sc *scope) (evalFn, dtypes.DType, error) {
	x, xType, err := c.compileExpr(e.x, sc)
	if err != nil {
		return nil, dtypes.InvalidDType, err
	}
	y, yType, err := c.compileExpr(e.y, sc)
	if err != nil {
		return nil, dtypes.InvalidDType, err
	}

	switch e.op {
	case "&&", "||":
		x, y = convert(x, xType, dtypes.Bool), convert(y, yType, dtypes.Bool)
		if e.op == "&&" {
			return func(f *frame) uint32 {
				if x(f) == 0 {
					return 0
				}
				return y(f)
			}, dtypes.Int32, nil
		}
		return func(f *frame) uint32 {
			if x(f) != 0 {
				return 1
			}
			return y(f)
		}, dtypes.Int32, nil

	case "<<", ">>":
		lhsType := promote(xType)
		if lhsType == dtypes.Float32 || promote(yType) == dtypes.Float32 {
			return nil, dtypes.InvalidDType, errorAt(e.pos, "invalid operands to %s: %s and %s",
				e.op, xType.DeviceName(), yType.DeviceName())
		}
		x = convert(x, xType, lhsType)
		y = convert(y, yType, dtypes.Uint32)
		// Shift counts are taken modulo the bit width.
		switch {
		case e.op == "<<":
			return func(f *frame) uint32 { return x(f) << (y(f) & 31) }, lhsType, nil
		case lhsType == dtypes.Int32:
			return func(f *frame) uint32 { return uint32(int32(x(f)) >> (y(f) & 31)) }, lhsType, nil
		default:
			return func(f *frame) uint32 { return x(f) >> (y(f) & 31) }, lhsType, nil
		}
	}

	dtype := arithmeticType(xType, yType)
	x, y = convert(x, xType, dtype), convert(y, yType, dtype)
	if compare := comparison(e.op, dtype); compare != nil {
		return func(f *frame) uint32 { return boolWord(compare(x(f), y(f))) }, dtypes.Int32, nil
	}
	op := arithmetic(e.op, dtype)
	if op == nil {
		return nil, dtypes.InvalidDType, errorAt(e.pos, "invalid operands to %s: %s and %s",
			e.op, xType.DeviceName(), yType.DeviceName())
	}
	return func(f *frame) uint32 { return op(x(f), y(f)) }, dtype, nil
}

// comparison returns the comparison function for op in the given domain, or nil if op is not a comparison.
func comparison(op string, dtype dtypes.DType) func(x, y uint32) bool {
	switch dtype {
	case dtypes.Int32:
		switch op {
		case "<":
			return func(x, y uint32) bool { return int32(x) < int32(y) }
		case "<=":
			return func(x, y uint32) bool { return int32(x) <= int32(y) }
		case ">":
			return func(x, y uint32) bool { return int32(x) > int32(y) }
		case ">=":
			return func(x, y uint32) bool { return int32(x) >= int32(y) }
		}
	case dtypes.Uint32:
		switch op {
		case "<":
			return func(x, y uint32) bool { return x < y }
		case "<=":
			return func(x, y uint32) bool { return x <= y }
		case ">":
			return func(x, y uint32) bool { return x > y }
		case ">=":
			return func(x, y uint32) bool { return x >= y }
		}
	case dtypes.Float32:
		switch op {
		case "==":
			return func(x, y uint32) bool { return f32(x) == f32(y) }
		case "!=":
			return func(x, y uint32) bool { return f32(x) != f32(y) }
		case "<":
			return func(x, y uint32) bool { return f32(x) < f32(y) }
		case "<=":
			return func(x, y uint32) bool { return f32(x) <= f32(y) }
		case ">":
			return func(x, y uint32) bool { return f32(x) > f32(y) }
		case ">=":
			return func(x, y uint32) bool { return f32(x) >= f32(y) }
		}
		return nil
	}
	switch op {
	case "==":
		return func(x, y uint32) bool { return x == y }
	case "!=":
		return func(x, y uint32) bool { return x != y }
	}
	return nil
}

// arithmetic returns the arithmetic or bitwise function for op in the given domain, or nil if op is not
// defined for the domain.
//
// Integer division by zero panics, as the corresponding host functions do.
func arithmetic(op string, dtype dtypes.DType) func(x, y uint32) uint32 {
	switch op {
	case "+":
		if dtype == dtypes.Float32 {
			return func(x, y uint32) uint32 { return f32Word(f32(x) + f32(y)) }
		}
		return func(x, y uint32) uint32 { return x + y }
	case "-":
		if dtype == dtypes.Float32 {
			return func(x, y uint32) uint32 { return f32Word(f32(x) - f32(y)) }
		}
		return func(x, y uint32) uint32 { return x - y }
	case "*":
		if dtype == dtypes.Float32 {
			return func(x, y uint32) uint32 { return f32Word(f32(x) * f32(y)) }
		}
		return func(x, y uint32) uint32 { return x * y }
	case "/":
		switch dtype {
		case dtypes.Float32:
			return func(x, y uint32) uint32 { return f32Word(f32(x) / f32(y)) }
		case dtypes.Int32:
			return func(x, y uint32) uint32 { return uint32(int32(x) / int32(y)) }
		default:
			return func(x, y uint32) uint32 { return x / y }
		}
	case "%":
		switch dtype {
		case dtypes.Int32:
			return func(x, y uint32) uint32 { return uint32(int32(x) % int32(y)) }
		case dtypes.Uint32:
			return func(x, y uint32) uint32 { return x % y }
		}
	case "&":
		if dtype != dtypes.Float32 {
			return func(x, y uint32) uint32 { return x & y }
		}
	case "|":
		if dtype != dtypes.Float32 {
			return func(x, y uint32) uint32 { return x | y }
		}
	case "^":
		if dtype != dtypes.Float32 {
			return func(x, y uint32) uint32 { return x ^ y }
		}
	}
	return nil
}

func (c *compiler) compileCall(e *callExpr, sc *scope) (evalFn, dtypes.DType, error) {
	args := make([]evalFn, len(e.args))
	argTypes := make([]dtypes.DType, len(e.args))
	for ii, arg := range e.args {
		var err error
		if args[ii], argTypes[ii], err = c.compileExpr(arg, sc); err != nil {
			return nil, dtypes.InvalidDType, err
		}
	}
	checkArity := func(n int) error {
		if len(args) != n {
			return errorAt(e.pos, "%s() takes %d argument(s), got %d", e.name, n, len(args))
		}
		return nil
	}

	switch e.name {
	case "min", "max":
		if err := checkArity(2); err != nil {
			return nil, dtypes.InvalidDType, err
		}
		dtype := arithmeticType(argTypes[0], argTypes[1])
		x, y := convert(args[0], argTypes[0], dtype), convert(args[1], argTypes[1], dtype)
		less := comparison("<", dtype)
		if e.name == "min" {
			// min(x, y) is y if y < x, otherwise x.
			return func(f *frame) uint32 {
				xw, yw := x(f), y(f)
				if less(yw, xw) {
					return yw
				}
				return xw
			}, dtype, nil
		}
		// max(x, y) is y if x < y, otherwise x.
		return func(f *frame) uint32 {
			xw, yw := x(f), y(f)
			if less(xw, yw) {
				return yw
			}
			return xw
		}, dtype, nil

	case "abs":
		if err := checkArity(1); err != nil {
			return nil, dtypes.InvalidDType, err
		}
		dtype := promote(argTypes[0])
		switch dtype {
		case dtypes.Float32:
			return nil, dtypes.InvalidDType, errorAt(e.pos, "abs() takes an integer argument, use fabs() for float")
		case dtypes.Uint32:
			return args[0], dtypes.Uint32, nil
		}
		x := convert(args[0], argTypes[0], dtype)
		return func(f *frame) uint32 {
			v := int32(x(f))
			if v < 0 {
				return uint32(-v)
			}
			return uint32(v)
		}, dtypes.Uint32, nil
	}

	if fn, found := FloatFuncs1[e.name]; found {
		if err := checkArity(1); err != nil {
			return nil, dtypes.InvalidDType, err
		}
		if argTypes[0] != dtypes.Float32 {
			return nil, dtypes.InvalidDType, errorAt(e.pos, "%s() takes a float argument, got %s", e.name, argTypes[0].DeviceName())
		}
		x := args[0]
		return func(f *frame) uint32 {
			return math.Float32bits(float32(fn(float64(f32(x(f))))))
		}, dtypes.Float32, nil
	}
	if fn, found := FloatFuncs2[e.name]; found {
		if err := checkArity(2); err != nil {
			return nil, dtypes.InvalidDType, err
		}
		if argTypes[0] != dtypes.Float32 || argTypes[1] != dtypes.Float32 {
			return nil, dtypes.InvalidDType, errorAt(e.pos, "%s() takes float arguments, got %s and %s",
				e.name, argTypes[0].DeviceName(), argTypes[1].DeviceName())
		}
		x, y := args[0], args[1]
		return func(f *frame) uint32 {
			return math.Float32bits(float32(fn(float64(f32(x(f))), float64(f32(y(f))))))
		}, dtypes.Float32, nil
	}
	return nil, dtypes.InvalidDType, errorAt(e.pos, "undefined function %s()", e.name)
}
