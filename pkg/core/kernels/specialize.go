// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package kernels

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/Parzival-05/spla/backends"
	"github.com/Parzival-05/spla/pkg/core/dtypes"
	"github.com/Parzival-05/spla/pkg/core/ops"
	"github.com/Parzival-05/spla/pkg/core/status"
)

// Request identifies a specialization: a template, a scalar type, the operators bound to the template
// placeholders and the flags.
type Request struct {
	Template string
	DType    dtypes.DType
	Ops      map[string]*ops.Op
	Defines  []string
}

// Key returns the specialization key of the request.
func (r Request) Key() string {
	return Key(r.Template, r.DType, r.Ops, r.Defines)
}

// Specialize the request into a program.
func (r Request) Specialize() (*backends.Program, error) {
	return Specialize(r.Template, r.DType, r.Ops, r.Defines)
}

// placeholderOrder returns the tokens of bound in the order of the template placeholders.
// For unknown templates, tokens are sorted.
func placeholderOrder(template string, bound map[string]*ops.Op) []string {
	tokens := make([]string, 0, len(bound))
	if t, found := templates[template]; found {
		for _, p := range t.Placeholders {
			if bound[p.Token] != nil {
				tokens = append(tokens, p.Token)
			}
		}
		return tokens
	}
	for token, op := range bound {
		if op != nil {
			tokens = append(tokens, token)
		}
	}
	slices.Sort(tokens)
	return tokens
}

// normalizeDefines returns the sorted unique flags, adding FlagAccum if OP_ACCUM is bound.
func normalizeDefines(bound map[string]*ops.Op, defines []string) []string {
	normalized := slices.Clone(defines)
	if bound[OpAccum] != nil {
		normalized = append(normalized, FlagAccum)
	}
	slices.Sort(normalized)
	return slices.Compact(normalized)
}

// Key returns the specialization key: the template name, the scalar type code, the keys of the operators
// in placeholder order and the flags, e.g.:
//
//	mxmT_masked_i32(MULT_i32i32i32,PLUS_i32i32i32,ALWAYS_i32b)
//	mxv_masked_f32(MULT_f32f32f32,PLUS_f32f32f32,NQZERO_f32b)[REPLACE,STRUCT_ONLY]
//
// Requests with equal keys specialize to the same program.
func Key(template string, dtype dtypes.DType, bound map[string]*ops.Op, defines []string) string {
	var sb strings.Builder
	sb.WriteString(template)
	sb.WriteString("_")
	if dtype.IsNumeric() {
		sb.WriteString(dtype.Code())
	} else {
		sb.WriteString(dtype.String())
	}
	sb.WriteString("(")
	for ii, token := range placeholderOrder(template, bound) {
		if ii > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(bound[token].Key())
	}
	sb.WriteString(")")
	if flags := normalizeDefines(bound, defines); len(flags) > 0 {
		sb.WriteString("[")
		sb.WriteString(strings.Join(flags, ","))
		sb.WriteString("]")
	}
	return sb.String()
}

var typeTokenRegexp = regexp.MustCompile(`\b` + TypeToken + `\b`)

// Specialize the template for dtype and the operators bound to its placeholders.
//
// The program source is a preamble, with one inline function per placeholder whose body is the operator
// fragment and one #define per flag, followed by the template with TYPE replaced by the device type name.
//
// It returns a NotImplemented error for unknown templates, and InvalidArgument errors for placeholders
// missing or bound to operators of the wrong kind or type, and for flags not accepted by the template.
// Fragments are not compiled here: that is done by the backend.
func Specialize(template string, dtype dtypes.DType, bound map[string]*ops.Op, defines []string) (*backends.Program, error) {
	t, found := templates[template]
	if !found {
		return nil, status.Errorf(status.NotImplemented, "unknown kernel template %q, known templates: %q", template, Names())
	}
	if !dtype.IsNumeric() {
		return nil, status.Errorf(status.InvalidArgument, "kernel %s can't be specialized for dtype %s", template, dtype)
	}
	for token, op := range bound {
		if _, found := t.Placeholder(token); !found && op != nil {
			return nil, status.Errorf(status.InvalidArgument, "kernel %s has no placeholder %s (bound to %s)", template, token, op)
		}
	}
	for _, p := range t.Placeholders {
		op := bound[p.Token]
		if op == nil {
			if p.Optional {
				continue
			}
			return nil, status.Errorf(status.InvalidArgument, "kernel %s: placeholder %s is not bound", template, p.Token)
		}
		if op.Kind() != p.Kind {
			return nil, status.Errorf(status.InvalidArgument, "kernel %s: placeholder %s requires a %s operator, got %s (%s)",
				template, p.Token, p.Kind, op, op.Kind())
		}
		if op.DType() != dtype {
			return nil, status.Errorf(status.InvalidArgument, "kernel %s specialized for %s: placeholder %s bound to %s, an operator on %s",
				template, dtype, p.Token, op, op.DType())
		}
	}
	flags := normalizeDefines(bound, defines)
	for _, flag := range flags {
		if !slices.Contains(t.Flags, flag) {
			return nil, status.Errorf(status.InvalidArgument, "kernel %s doesn't accept flag %s", template, flag)
		}
	}
	if slices.Contains(flags, FlagAccum) && bound[OpAccum] == nil {
		return nil, status.Errorf(status.InvalidArgument, "kernel %s: flag %s requires %s to be bound", template, FlagAccum, OpAccum)
	}

	key := Key(template, dtype, bound, flags)
	program := &backends.Program{
		Name:       key,
		EntryPoint: t.EntryPoint(),
		Template:   template,
		DType:      dtype,
		Ops:        make(map[string]*ops.Op, len(bound)),
		Defines:    flags,
		Params:     t.Params(dtype),
	}
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "// %s\n\n", key)
	for _, flag := range flags {
		_, _ = fmt.Fprintf(&sb, "#define %s\n", flag)
	}
	if len(flags) > 0 {
		sb.WriteString("\n")
	}
	typeName := dtype.DeviceName()
	for _, token := range placeholderOrder(template, bound) {
		op := bound[token]
		program.Ops[token] = op
		sb.WriteString(operatorFunction(token, op, typeName))
	}
	sb.WriteString("\n")
	sb.WriteString(typeTokenRegexp.ReplaceAllLiteralString(t.source, typeName))
	program.Source = sb.String()
	return program, nil
}

// operatorFunction returns the definition of the inline function implementing op for placeholder token.
func operatorFunction(token string, op *ops.Op, typeName string) string {
	resultType := op.ResultType().DeviceName()
	params := typeName + " a"
	if op.NumArgs() == 2 {
		params += ", " + typeName + " b"
	}
	return fmt.Sprintf("inline %s %s(%s) %s\n", resultType, token, params, op.Program().FunctionBody())
}
