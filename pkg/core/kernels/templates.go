// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package kernels

import (
	"embed"
	"path"
	"slices"

	"github.com/Parzival-05/spla/backends"
	"github.com/Parzival-05/spla/pkg/core/dtypes"
	"github.com/Parzival-05/spla/pkg/core/ops"
	"github.com/janpfeifer/must"
)

//go:embed templates/*.cl
var templatesFS embed.FS

// Names of the kernel templates.
const (
	MxMTMasked    = "mxmT_masked"
	MxVMasked     = "mxv_masked"
	VMap          = "v_map"
	VEAdd         = "v_eadd"
	VReduce       = "v_reduce"
	VAssignMasked = "v_assign_masked"
)

// Placeholder tokens substituted by operator functions.
const (
	OpUnary   = "OP_UNARY"
	OpBinary  = "OP_BINARY"
	OpBinary1 = "OP_BINARY1"
	OpBinary2 = "OP_BINARY2"
	OpSelect  = "OP_SELECT"
	OpAccum   = "OP_ACCUM"
)

// Flags changing the generated code, defined in the preamble.
const (
	// FlagStructOnly ignores the mask values: every explicit mask entry is selected.
	FlagStructOnly = "STRUCT_ONLY"

	// FlagReplace resets the outputs not selected by the mask to init, instead of keeping them.
	FlagReplace = "REPLACE"

	// FlagAccum merges the computed value with the previous output using OP_ACCUM.
	// It is defined automatically when OP_ACCUM is bound.
	FlagAccum = "ACCUM"
)

// TypeToken is replaced by the device name of the scalar type.
const TypeToken = "TYPE"

// Placeholder of a template, bound to an operator of the given kind.
type Placeholder struct {
	Token    string
	Kind     ops.Kind
	Optional bool
}

// paramSpec describes a kernel parameter; typed parameters have the TYPE scalar type, the others are uint.
type paramSpec struct {
	name   string
	kind   backends.ParamKind
	typed  bool
	output bool
}

func (p paramSpec) resolve(dtype dtypes.DType) backends.Param {
	param := backends.Param{Name: p.name, Kind: p.kind, DType: dtypes.Uint32, Output: p.output}
	if p.typed {
		param.DType = dtype
	}
	return param
}

func indices(name string) paramSpec { return paramSpec{name: name, kind: backends.ParamBuffer} }
func values(name string) paramSpec  { return paramSpec{name: name, kind: backends.ParamBuffer, typed: true} }
func outputs(name string) paramSpec {
	return paramSpec{name: name, kind: backends.ParamBuffer, typed: true, output: true}
}
func scalar(name string) paramSpec { return paramSpec{name: name, kind: backends.ParamScalar, typed: true} }
func count(name string) paramSpec  { return paramSpec{name: name, kind: backends.ParamScalar} }

// Template is a generic kernel, parametrized by a scalar type and operators.
type Template struct {
	Name string

	// Placeholders in specialization key order.
	Placeholders []Placeholder

	// Flags accepted by the template.
	Flags []string

	params []paramSpec
	source string
}

// EntryPoint returns the name of the kernel function, the same as the template name.
func (t *Template) EntryPoint() string { return t.Name }

// Source returns the unspecialized source of the template.
func (t *Template) Source() string { return t.source }

// Params returns the parameter layout of the kernel specialized for dtype.
func (t *Template) Params(dtype dtypes.DType) []backends.Param {
	params := make([]backends.Param, len(t.params))
	for ii, spec := range t.params {
		params[ii] = spec.resolve(dtype)
	}
	return params
}

// Placeholder returns the placeholder with the given token.
func (t *Template) Placeholder(token string) (Placeholder, bool) {
	idx := slices.IndexFunc(t.Placeholders, func(p Placeholder) bool { return p.Token == token })
	if idx < 0 {
		return Placeholder{}, false
	}
	return t.Placeholders[idx], true
}

var (
	binary1 = Placeholder{Token: OpBinary1, Kind: ops.KindBinary}
	binary2 = Placeholder{Token: OpBinary2, Kind: ops.KindBinary}
	unary   = Placeholder{Token: OpUnary, Kind: ops.KindUnary}
	binary  = Placeholder{Token: OpBinary, Kind: ops.KindBinary}
	sel     = Placeholder{Token: OpSelect, Kind: ops.KindSelect}
	accum   = Placeholder{Token: OpAccum, Kind: ops.KindBinary, Optional: true}
)

var templates = map[string]*Template{
	MxMTMasked: {
		Placeholders: []Placeholder{binary1, binary2, sel},
		Flags:        []string{FlagStructOnly},
		params: []paramSpec{
			indices("Ap"), indices("Aj"), values("Ax"),
			indices("Bp"), indices("Bj"), values("Bx"),
			indices("Mp"), indices("Mj"), values("Mx"),
			outputs("Rx"), scalar("init"), count("n_rows"),
		},
	},
	MxVMasked: {
		Placeholders: []Placeholder{binary1, binary2, sel, accum},
		Flags:        []string{FlagStructOnly, FlagReplace, FlagAccum},
		params: []paramSpec{
			indices("Ap"), indices("Aj"), values("Ax"),
			values("vx"), values("mask"), outputs("rx"), scalar("init"), count("n_rows"),
		},
	},
	VMap: {
		Placeholders: []Placeholder{unary, accum},
		Flags:        []string{FlagAccum},
		params:       []paramSpec{values("vx"), outputs("rx"), count("n")},
	},
	VEAdd: {
		Placeholders: []Placeholder{binary, accum},
		Flags:        []string{FlagAccum},
		params:       []paramSpec{values("ux"), values("vx"), outputs("rx"), count("n")},
	},
	VReduce: {
		Placeholders: []Placeholder{binary, accum},
		Flags:        []string{FlagAccum},
		params:       []paramSpec{values("vx"), outputs("rx"), scalar("init"), count("n")},
	},
	VAssignMasked: {
		Placeholders: []Placeholder{binary, sel},
		Flags:        []string{FlagStructOnly},
		params:       []paramSpec{outputs("rx"), values("mask"), scalar("value"), count("n")},
	},
}

func init() {
	for name, t := range templates {
		t.Name = name
		t.source = string(must.M1(templatesFS.ReadFile(path.Join("templates", name+".cl"))))
	}
}

// Lookup returns the template with the given name.
func Lookup(name string) (*Template, bool) {
	t, found := templates[name]
	return t, found
}

// Names returns the names of all templates, sorted.
func Names() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
