// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package opsrc

import (
	"text/scanner"

	"github.com/Parzival-05/spla/pkg/core/dtypes"
)

// expr is an expression node of a fragment.
type expr interface {
	position() scanner.Position
}

// stmt is a statement node of a fragment.
type stmt interface {
	position() scanner.Position
}

type (
	literalExpr struct {
		pos   scanner.Position
		dtype dtypes.DType
		word  uint32
	}

	identExpr struct {
		pos  scanner.Position
		name string
	}

	unaryExpr struct {
		pos scanner.Position
		op  string
		x   expr
	}

	binaryExpr struct {
		pos  scanner.Position
		op   string
		x, y expr
	}

	ternaryExpr struct {
		pos        scanner.Position
		cond, x, y expr
	}

	castExpr struct {
		pos   scanner.Position
		dtype dtypes.DType
		x     expr
	}

	callExpr struct {
		pos  scanner.Position
		name string
		args []expr
	}
)

type (
	blockStmt struct {
		pos   scanner.Position
		stmts []stmt
	}

	returnStmt struct {
		pos scanner.Position
		x   expr
	}

	ifStmt struct {
		pos       scanner.Position
		cond      expr
		then, els stmt // els may be nil.
	}

	// declStmt declares one or more variables of the same type: "uint w = a >> 21, v;".
	declStmt struct {
		pos   scanner.Position
		dtype dtypes.DType
		names []string
		inits []expr // nil entries for variables without initializer.
	}

	// assignStmt is a plain ("=") or compound ("+=", "<<=", ...) assignment.
	assignStmt struct {
		pos  scanner.Position
		name string
		op   string
		x    expr
	}

	emptyStmt struct {
		pos scanner.Position
	}
)

func (e *literalExpr) position() scanner.Position { return e.pos }
func (e *identExpr) position() scanner.Position   { return e.pos }
func (e *unaryExpr) position() scanner.Position   { return e.pos }
func (e *binaryExpr) position() scanner.Position  { return e.pos }
func (e *ternaryExpr) position() scanner.Position { return e.pos }
func (e *castExpr) position() scanner.Position    { return e.pos }
func (e *callExpr) position() scanner.Position    { return e.pos }
func (s *blockStmt) position() scanner.Position   { return s.pos }
func (s *returnStmt) position() scanner.Position  { return s.pos }
func (s *ifStmt) position() scanner.Position      { return s.pos }
func (s *declStmt) position() scanner.Position    { return s.pos }
func (s *assignStmt) position() scanner.Position  { return s.pos }
func (s *emptyStmt) position() scanner.Position   { return s.pos }

// typeKeywords maps the scalar type keywords of the device language to DTypes.
var typeKeywords = map[string]dtypes.DType{
	"bool":  dtypes.Bool,
	"int":   dtypes.Int32,
	"uint":  dtypes.Uint32,
	"float": dtypes.Float32,
}

// terminates reports whether every execution path through s ends in a return statement.
func terminates(s stmt) bool {
	switch s := s.(type) {
	case *returnStmt:
		return true
	case *blockStmt:
		for _, inner := range s.stmts {
			if terminates(inner) {
				return true
			}
		}
		return false
	case *ifStmt:
		return s.els != nil && terminates(s.then) && terminates(s.els)
	default:
		return false
	}
}
