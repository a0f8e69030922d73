// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/Parzival-05/spla/pkg/core/kernels"
	"github.com/Parzival-05/spla/pkg/core/ops"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// warmupRequests returns one request per built-in unary (v_map) and binary (v_eadd) operator.
func warmupRequests() []kernels.Request {
	var requests []kernels.Request
	for _, op := range ops.Builtins().All() {
		switch op.Kind() {
		case ops.KindUnary:
			requests = append(requests, kernels.Request{Template: kernels.VMap, DType: op.DType(),
				Ops: map[string]*ops.Op{kernels.OpUnary: op}})
		case ops.KindBinary:
			requests = append(requests, kernels.Request{Template: kernels.VEAdd, DType: op.DType(),
				Ops: map[string]*ops.Op{kernels.OpBinary: op}})
		}
	}
	return requests
}

// warmup compiles the warmup requests concurrently, showing progress on the standard error, and prints a
// report of the kernel cache.
func warmup(w io.Writer, backendConfig string) error {
	backend, err := newBackend(backendConfig)
	if err != nil {
		return err
	}
	defer backend.Finalize()
	cache := kernels.CacheFor(backend)
	requests := warmupRequests()

	bar := progressbar.NewOptions(len(requests),
		progressbar.OptionSetDescription("compiling"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("kernels"),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
	)
	start := time.Now()
	var mu sync.Mutex
	failures := make(map[string]error)
	var sourceBytes int
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, req := range requests {
		g.Go(func() error {
			kernel, err := cache.Get(req)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[req.Key()] = err
			} else {
				sourceBytes += len(kernel.Program().Source)
			}
			return bar.Add(1)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	_ = bar.Finish()
	elapsed := time.Since(start)

	_, _ = fmt.Fprintln(w, titleStyle.Render("Kernel cache"))
	table := newTable(nil, lipgloss.Right, lipgloss.Left)
	table.Row(false, "backend", backend.Description())
	table.Row(false, "requests", humanize.Comma(int64(len(requests))))
	table.Row(false, "compiled", humanize.Comma(int64(cache.Compilations())))
	table.Row(false, "hits", humanize.Comma(int64(cache.Hits())))
	table.Row(false, "cached", humanize.Comma(int64(cache.Len())))
	table.Row(false, "sources", humanize.Bytes(uint64(sourceBytes)))
	table.Row(false, "elapsed", elapsed.Round(time.Millisecond).String())
	for key, err := range failures {
		table.Row(true, key, err.Error())
	}
	_, _ = fmt.Fprintln(w, table.Table.Render())
	if len(failures) > 0 {
		return fmt.Errorf("%d of %d kernels failed to compile", len(failures), len(requests))
	}
	return nil
}
