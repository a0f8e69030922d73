// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// spla_kernels lists the built-in operators and the kernel templates, prints specialized kernel sources and
// compiles them with a backend.
//
// Examples:
//
//	spla_kernels -ops -filter='_f32'
//	spla_kernels -templates
//	spla_kernels -specialize=mxmT_masked -dtype=i32 -bind=OP_BINARY1=MULT,OP_BINARY2=PLUS,OP_SELECT=ALWAYS -compile
//	spla_kernels -warmup -backend=go:mode=interpret
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/Parzival-05/spla/backends"
	_ "github.com/Parzival-05/spla/backends/gohost"
	"github.com/Parzival-05/spla/pkg/core/dtypes"
	"github.com/Parzival-05/spla/pkg/core/kernels"
	"github.com/Parzival-05/spla/pkg/core/ops"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/janpfeifer/must"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagOps    = flag.Bool("ops", false, "Lists the built-in operators.")
	flagFilter = flag.String("filter", "", "Regular expression selecting the operator keys listed by -ops.")

	flagTemplates = flag.Bool("templates", false, "Lists the kernel templates and their parameters.")

	flagSpecialize = flag.String("specialize", "", "Template to specialize: the program source is printed.")
	flagDType      = flag.String("dtype", "i32", "Scalar type code for -specialize: i32, u32 or f32.")
	flagBind       = flag.String("bind", "",
		"Comma-separated <placeholder>=<operator name> for -specialize, e.g. \"OP_UNARY=ABS,OP_ACCUM=PLUS\".")
	flagDefines = flag.String("defines", "", "Comma-separated flags for -specialize, e.g. \"STRUCT_ONLY,REPLACE\".")
	flagCompile = flag.Bool("compile", false, "Compiles the -specialize program with the backend.")

	flagWarmup = flag.Bool("warmup", false,
		"Compiles every built-in unary operator into v_map and every binary one into v_eadd, and reports the kernel cache.")
	flagBackend = flag.String("backend", "",
		fmt.Sprintf("Backend configuration, e.g. \"go:mode=interpret\". Defaults to $%s.", backends.SPLA_BACKEND))
	flagPlain = flag.Bool("plain", false, "Disables colors and styles.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if !*flagOps && !*flagTemplates && *flagSpecialize == "" && !*flagWarmup {
		klog.Errorf("Nothing to do. See 'spla_kernels -help'.")
		os.Exit(1)
	}
	if *flagPlain || termenv.NewOutput(os.Stdout).Profile == termenv.Ascii {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	if *flagOps {
		must.M(listOps(os.Stdout, *flagFilter))
	}
	if *flagTemplates {
		listTemplates(os.Stdout)
	}
	if *flagSpecialize != "" {
		if err := specialize(os.Stdout, *flagSpecialize, *flagDType, *flagBind, *flagDefines, *flagCompile, *flagBackend); err != nil {
			klog.Errorf("%+v", err)
			os.Exit(1)
		}
	}
	if *flagWarmup {
		if err := warmup(os.Stdout, *flagBackend); err != nil {
			klog.Errorf("%+v", err)
			os.Exit(1)
		}
	}
}

func newBackend(config string) (backends.Backend, error) {
	if config == "" {
		return backends.New()
	}
	return backends.NewWithConfig(config)
}

// parseDType converts a scalar type code ("i32", "u32" or "f32") to its DType.
func parseDType(code string) (dtypes.DType, error) {
	for _, dtype := range []dtypes.DType{dtypes.Int32, dtypes.Uint32, dtypes.Float32} {
		if dtype.Code() == code {
			return dtype, nil
		}
	}
	return dtypes.InvalidDType, errors.Errorf("unknown scalar type code %q, valid codes are \"i32\", \"u32\" and \"f32\"", code)
}

// parseBindings resolves "<placeholder>=<operator name>" pairs to built-in operators of the kind required by
// the placeholders of template.
func parseBindings(template *kernels.Template, dtype dtypes.DType, list string) (map[string]*ops.Op, error) {
	bound := make(map[string]*ops.Op)
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		token, name, found := strings.Cut(part, "=")
		if !found {
			return nil, errors.Errorf("invalid binding %q, expected <placeholder>=<operator name>", part)
		}
		placeholder, found := template.Placeholder(token)
		if !found {
			return nil, errors.Errorf("template %s has no placeholder %s", template.Name, token)
		}
		op, found := ops.Builtins().Find(placeholder.Kind, name, dtype)
		if !found {
			return nil, errors.Errorf("no built-in %s operator %s for %s", placeholder.Kind, name, dtype)
		}
		bound[token] = op
	}
	return bound, nil
}

func splitList(list string) []string {
	var parts []string
	for _, part := range strings.Split(list, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func listOps(w io.Writer, filter string) error {
	var re *regexp.Regexp
	if filter != "" {
		var err error
		if re, err = regexp.Compile(filter); err != nil {
			return errors.Wrapf(err, "invalid -filter")
		}
	}
	_, _ = fmt.Fprintln(w, titleStyle.Render("Built-in operators"))
	table := newTable([]string{"Key", "Kind", "Source"}, lipgloss.Left)
	var count int
	for _, op := range ops.Builtins().All() {
		if re != nil && !re.MatchString(op.Key()) {
			continue
		}
		table.Row(false, op.Key(), op.Kind().String(), op.Source())
		count++
	}
	_, _ = fmt.Fprintln(w, table.Table.Render())
	_, _ = fmt.Fprintf(w, "%s operators\n", humanize.Comma(int64(count)))
	return nil
}

func listTemplates(w io.Writer) {
	_, _ = fmt.Fprintln(w, titleStyle.Render("Kernel templates"))
	table := newTable([]string{"Template", "Placeholders", "Flags", "Parameters"}, lipgloss.Left)
	for _, name := range kernels.Names() {
		template, _ := kernels.Lookup(name)
		placeholders := make([]string, len(template.Placeholders))
		for ii, p := range template.Placeholders {
			placeholders[ii] = fmt.Sprintf("%s (%s)", p.Token, strings.ToLower(p.Kind.String()))
			if p.Optional {
				placeholders[ii] += "?"
			}
		}
		params := template.Params(dtypes.Float32)
		paramNames := make([]string, len(params))
		for ii, param := range params {
			paramNames[ii] = param.String()
		}
		table.Row(false, name, strings.Join(placeholders, "\n"), strings.Join(template.Flags, "\n"),
			strings.ReplaceAll(strings.Join(paramNames, "\n"), dtypes.Float32.DeviceName(), kernels.TypeToken))
	}
	_, _ = fmt.Fprintln(w, table.Table.Render())
}

// specialize prints the source of the specialized template and, if compile is set, compiles it with the
// backend configured by backendConfig.
func specialize(w io.Writer, templateName, dtypeCode, bindings, defines string, compile bool, backendConfig string) error {
	template, found := kernels.Lookup(templateName)
	if !found {
		return errors.Errorf("unknown template %q, known templates: %q", templateName, kernels.Names())
	}
	dtype, err := parseDType(dtypeCode)
	if err != nil {
		return err
	}
	bound, err := parseBindings(template, dtype, bindings)
	if err != nil {
		return err
	}
	req := kernels.Request{Template: templateName, DType: dtype, Ops: bound, Defines: splitList(defines)}
	program, err := req.Specialize()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w, program.Source)
	if !compile {
		return nil
	}

	backend, err := newBackend(backendConfig)
	if err != nil {
		return err
	}
	defer backend.Finalize()
	kernel, err := kernels.CacheFor(backend).Get(req)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w, titleStyle.Render("Compiled"))
	table := newTable(nil, lipgloss.Right, lipgloss.Left)
	table.Row(false, "kernel", kernel.Program().Name)
	table.Row(false, "backend", backend.Description())
	table.Row(false, "source", humanize.Bytes(uint64(len(program.Source))))
	for ii, param := range kernel.Program().Params {
		table.Row(false, fmt.Sprintf("param #%d", ii), param.String())
	}
	_, _ = fmt.Fprintln(w, table.Table.Render())
	return nil
}
