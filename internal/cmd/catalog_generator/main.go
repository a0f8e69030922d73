// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// catalog_generator generates pkg/core/ops/gen_catalog.go, the table of built-in operators.
//
// Each operator is listed once, with its default fragment and generic host function, and per-domain
// overrides where the fragment or the host function differ.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path"
	"slices"
	"text/template"

	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

// Domain of an operator instance.
type Domain struct {
	Name, GoType string
}

var (
	ints   = Domain{"Int", "int32"}
	uints  = Domain{"Uint", "uint32"}
	floats = Domain{"Float", "float32"}

	allDomains = []Domain{ints, uints, floats}
	intDomains = []Domain{ints, uints}
)

// InstanceInfo is one operator instantiated for one domain.
type InstanceInfo struct {
	Domain                Domain
	Field, Source, GoFunc string
}

// OpInfo describes an operator and its instances.
type OpInfo struct {
	Name, Field, Kind string
	Instances         []InstanceInfo
}

const (
	unary  = "Unary"
	binary = "Binary"
	sel    = "Select"
)

// op creates an operator instantiated for the given domains with the same source fragment, and
// the generic host function instantiated for each domain.
func op(name, field, kind, source, genericFunc string, domains ...Domain) OpInfo {
	info := OpInfo{Name: name, Field: field, Kind: kind}
	for _, domain := range domains {
		info.Instances = append(info.Instances, InstanceInfo{
			Domain: domain,
			Field:  field + domain.Name,
			Source: source,
			GoFunc: fmt.Sprintf("%s[%s]", genericFunc, domain.GoType),
		})
	}
	return info
}

// with overrides (or adds) the instance for domain. An empty source keeps the default fragment.
func (info OpInfo) with(domain Domain, source, goFunc string) OpInfo {
	info.Instances = slices.Clone(info.Instances)
	for ii := range info.Instances {
		if info.Instances[ii].Domain == domain {
			if source != "" {
				info.Instances[ii].Source = source
			}
			info.Instances[ii].GoFunc = goFunc
			return info
		}
	}
	info.Instances = append(info.Instances, InstanceInfo{
		Domain: domain,
		Field:  info.Field + domain.Name,
		Source: source,
		GoFunc: goFunc,
	})
	slices.SortStableFunc(info.Instances, func(a, b InstanceInfo) int {
		return slices.Index(allDomains, a.Domain) - slices.Index(allDomains, b.Domain)
	})
	return info
}

// mathOp is a float-only unary operator calling the device built-in function fn.
func mathOp(name, field, fn string) OpInfo {
	return op(name, field, unary, "", "").with(floats, fmt.Sprintf("{ return %s(a); }", fn), "mathUnary(math."+field+")")
}

func zeroTest(name, field, condition, genericFunc string) OpInfo {
	return op(name, field, sel, "{ return "+condition+"; }", genericFunc, allDomains...)
}

// catalog lists the built-in operators, in registration order.
var catalog = []OpInfo{
	op("IDENTITY", "Identity", unary, "{ return a; }", "identity", allDomains...),
	op("AINV", "AInv", unary, "{ return -a; }", "ainv", allDomains...),
	op("MINV", "MInv", unary, "{ return 1 / a; }", "minv", allDomains...).
		with(floats, "{ return 1.0f / a; }", "minv[float32]"),
	op("LNOT", "LNot", unary, "{ return !(a != 0); }", "lnot", allDomains...),
	op("UONE", "UOne", unary, "{ return 1; }", "uone", allDomains...),
	op("ABS", "Abs", unary, "", "").
		with(ints, "{ return abs(a); }", "absInt").
		with(uints, "{ return a; }", "identity[uint32]").
		with(floats, "{ return fabs(a); }", "mathUnary(math.Abs)"),
	op("BNOT", "BNot", unary, "{ return ~a; }", "bnot", intDomains...),
	mathOp("SQRT", "Sqrt", "sqrt"),
	mathOp("LOG", "Log", "log"),
	mathOp("EXP", "Exp", "exp"),
	mathOp("SIN", "Sin", "sin"),
	mathOp("COS", "Cos", "cos"),
	mathOp("TAN", "Tan", "tan"),
	mathOp("ASIN", "Asin", "asin"),
	mathOp("ACOS", "Acos", "acos"),
	mathOp("ATAN", "Atan", "atan"),
	mathOp("CEIL", "Ceil", "ceil"),
	mathOp("FLOOR", "Floor", "floor"),
	mathOp("ROUND", "Round", "round"),
	mathOp("TRUNC", "Trunc", "trunc"),

	op("PLUS", "Plus", binary, "{ return a + b; }", "plus", allDomains...),
	op("MINUS", "Minus", binary, "{ return a - b; }", "minus", allDomains...),
	op("MULT", "Mult", binary, "{ return a * b; }", "mult", allDomains...),
	op("DIV", "Div", binary, "{ return a / b; }", "div", allDomains...),
	op("MINUS_POW2", "MinusPow2", binary, "{ return (a - b) * (a - b); }", "minusPow2", allDomains...),
	op("FIRST", "First", binary, "{ return a; }", "first", allDomains...),
	op("SECOND", "Second", binary, "{ return b; }", "second", allDomains...),
	op("BONE", "BOne", binary, "{ return 1; }", "bone", allDomains...),
	op("MIN", "Min", binary, "{ return min(a, b); }", "minOf", allDomains...),
	op("MAX", "Max", binary, "{ return max(a, b); }", "maxOf", allDomains...),
	op("LOR", "LOr", binary, "{ return a || b; }", "lor", allDomains...),
	op("LAND", "LAnd", binary, "{ return a && b; }", "land", allDomains...),
	op("BOR", "BOr", binary, "{ return a | b; }", "bor", intDomains...),
	op("BAND", "BAnd", binary, "{ return a & b; }", "band", intDomains...),
	op("BXOR", "BXor", binary, "{ return a ^ b; }", "bxor", intDomains...),

	// INT_MAX used as "absent" value.
	op("FIRST_NON_MAX", "FirstNonMax", binary, "", "").
		with(ints, "{ if (a == INT_MAX || b == INT_MAX) { return INT_MAX; } return a; }", "firstNonMax"),
	op("MIN_NON_MAX", "MinNonMax", binary, "", "").
		with(ints, "{ if (a == INT_MAX || b == INT_MAX) { return INT_MAX; } return min(a, b); }", "minNonMax"),
	op("CONST_MAX", "ConstMax", binary, "", "").
		with(ints, "{ return INT_MAX; }", "constMax"),
	op("SECOND_MAX", "SecondMax", binary, "", "").
		with(ints, "{ if (a == INT_MAX) { return b; } return a; }", "secondMax"),
	op("MIN_NON_ZERO", "MinNonZero", binary, "", "").
		with(ints, "{ if (a == 0) { return b; } return min(a, b); }", "minNonZero"),
	op("S1ST_IF_SND_MAX", "FirstIfSecondMax", binary, "", "").
		with(ints, "{ if (b == INT_MAX) { return a; } return INT_MAX; }", "firstIfSecondMax"),
	op("FST_MINUS_ONE", "FirstMinusOne", binary, "", "").
		with(ints, "{ if (a == INT_MAX && b == INT_MAX) { return INT_MAX; } return a - 1; }", "firstMinusOne"),

	// Packed (weight, value) pairs.
	op("SELECT_MIN_WEIGHT", "SelectMinWeight", binary, "", "").
		with(uints, "{ uint weight_a = a >> 21; uint weight_b = b >> 21; uint value_a = a & 0x1FFFFF; "+
			"uint value_b = b & 0x1FFFFF; if (weight_a <= weight_b) { return (weight_a << 21) + value_a; } "+
			"return (weight_b << 21) + value_b; }", "selectMinWeight"),
	op("CONSTRUCT_PAIR", "ConstructPair", binary, "", "").
		with(uints, "{ uint value_a = a & 0x1FFFFF; uint weight_b = b >> 21; return (weight_b << 21) + value_a; }",
			"constructPair"),

	zeroTest("EQZERO", "EqZero", "a == 0", "eqZero"),
	zeroTest("NQZERO", "NqZero", "a != 0", "nqZero"),
	zeroTest("GTZERO", "GtZero", "a > 0", "gtZero"),
	zeroTest("GEZERO", "GeZero", "a >= 0", "geZero"),
	zeroTest("LTZERO", "LtZero", "a < 0", "ltZero"),
	zeroTest("LEZERO", "LeZero", "a <= 0", "leZero"),
	zeroTest("ALWAYS", "Always", "1", "always"),
	zeroTest("NEVER", "Never", "0", "never"),
	op("EQUALS_MINF", "EqualsMinf", sel, "", "").
		with(floats, "{ return a == -INFINITY; }", "equalsMinf"),
	op("EQUALS_MAX", "EqualsMax", sel, "", "").
		with(ints, "{ return a == INT_MAX; }", "equalsMaxInt").
		with(uints, "{ return a == UINT_MAX; }", "equalsMaxUint"),
	op("NEQUALS_MAX", "NEqualsMax", sel, "", "").
		with(ints, "{ return a != INT_MAX; }", "nequalsMaxInt").
		with(uints, "{ return a != UINT_MAX; }", "nequalsMaxUint"),
}

const fileName = "gen_catalog.go"

func numInstances() (n int) {
	for _, info := range catalog {
		n += len(info.Instances)
	}
	return
}

var catalogTemplate = template.Must(template.New(fileName).Parse(
	`/***** File generated by ./internal/cmd/catalog_generator. Don't edit it directly. *****/

package ops

import "math"

// BuiltinCatalog is the Catalog of built-in operators, with one field per operator instance.
type BuiltinCatalog struct {
	*Catalog
{{- range .Ops}}

	// {{.Name}}
{{- range .Instances}}
	{{.Field}} *Op
{{- end}}
{{- end}}
}

// numBuiltinOps is the number of operators in BuiltinCatalog.
const numBuiltinOps = {{.NumInstances}}

func newBuiltinCatalog() *BuiltinCatalog {
	c := &BuiltinCatalog{Catalog: NewCatalog()}
{{- range .Ops}}
{{- $op := .}}

	// {{.Name}}
{{- range .Instances}}
	c.{{.Field}} = c.mustRegister(Must{{$op.Kind}}[{{.Domain.GoType}}]({{printf "%q" $op.Name}}, {{printf "%q" .Source}}, {{.GoFunc}}))
{{- end}}
{{- end}}
	return c
}
`))

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	data := struct {
		Ops          []OpInfo
		NumInstances int
	}{catalog, numInstances()}
	fullPath := path.Join(must.M1(os.Getwd()), fileName)
	f := must.M1(os.Create(fullPath))
	must.M(catalogTemplate.Execute(f, data))
	must.M(f.Close())

	cmd := exec.Command("gofmt", "-w", fullPath)
	klog.V(1).Infof("\t%s\n", cmd)
	must.M(cmd.Run())
	fmt.Printf("✅ catalog_generator:  \tsuccessfully generated %s (%d operators)\n", fullPath, data.NumInstances)
}
