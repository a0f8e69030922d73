// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package gohost implements a portable backend that runs the kernels on the host, in pure Go.
//
// Compiling a program checks the specialized source and type-checks every operator fragment for the
// program's scalar type, then binds a native Go implementation of the template. Launches run
// asynchronously, at most `queues` at a time, each one splitting its rows over a pool of workers.
//
// Configuration options (comma-separated, e.g. "go:parallelism=4,queues=2,mode=interpret"):
//
//   - parallelism=N: number of workers used within a launch. 0 runs rows sequentially, -1 is unlimited.
//     Defaults to runtime.NumCPU().
//   - queues=N: maximum number of concurrent launches. Defaults to 2.
//   - mode=host|interpret: run operators through their Go host functions (default), or through their
//     fragments, compiled by opsrc.
package gohost

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/Parzival-05/spla/backends"
	"github.com/Parzival-05/spla/internal/workerspool"
	"github.com/Parzival-05/spla/pkg/support/xsync"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

// BackendName to be used in SPLA_BACKEND to specify this backend.
const BackendName = "go"

// Mode selects how operators are evaluated.
type Mode string

const (
	// ModeHost calls the Go host function of each operator.
	ModeHost Mode = "host"

	// ModeInterpret evaluates the source fragment of each operator, compiled by opsrc.
	ModeInterpret Mode = "interpret"
)

// DefaultQueues is the default maximum number of concurrent launches.
const DefaultQueues = 2

func init() {
	backends.Register(BackendName, New)
}

// Backend implements backends.Backend.
type Backend struct {
	workers   *workerspool.Pool
	numQueues int
	queues    *semaphore.Weighted
	mode      Mode

	inFlight  *xsync.DynamicWaitGroup
	finalized atomic.Bool
}

// Compile-time check that gohost.Backend implements backends.Backend.
var _ backends.Backend = &Backend{}

// New constructs a new host Backend. See the package documentation for the configuration options.
func New(config string) (backends.Backend, error) {
	return NewBackend(config)
}

// NewBackend is like New, but returns the concrete type.
func NewBackend(config string) (*Backend, error) {
	opts, err := backends.ParseOptions(BackendName, config, "parallelism", "queues", "mode")
	if err != nil {
		return nil, err
	}
	parallelism, err := opts.Int("parallelism", runtime.NumCPU())
	if err != nil {
		return nil, err
	}
	numQueues, err := opts.Int("queues", DefaultQueues)
	if err != nil {
		return nil, err
	}
	if numQueues < 1 {
		return nil, errors.Errorf("backend %q requires queues >= 1, got %d", BackendName, numQueues)
	}
	mode := Mode(opts.String("mode", string(ModeHost)))
	if mode != ModeHost && mode != ModeInterpret {
		return nil, errors.Errorf("backend %q: unknown mode %q, valid modes are %q and %q", BackendName, mode, ModeHost, ModeInterpret)
	}
	b := &Backend{
		workers:   workerspool.New(),
		numQueues: numQueues,
		queues:    semaphore.NewWeighted(int64(numQueues)),
		mode:      mode,
		inFlight:  xsync.NewDynamicWaitGroup(),
	}
	b.workers.SetMaxParallelism(parallelism)
	return b, nil
}

// Name returns the short name of the backend.
func (b *Backend) Name() string { return BackendName }

// String implements fmt.Stringer.
func (b *Backend) String() string { return BackendName }

// Description is a longer description of the Backend that can be used to pretty-print.
func (b *Backend) Description() string {
	return fmt.Sprintf("Portable Go host backend (parallelism=%d, queues=%d, mode=%s)",
		b.workers.MaxParallelism(), b.numQueues, b.mode)
}

// Mode returns how operators are evaluated.
func (b *Backend) Mode() Mode { return b.mode }

// Finalize waits for the pending launches. The backend must not be used afterwards.
func (b *Backend) Finalize() {
	b.finalized.Store(true)
	b.inFlight.Wait()
}
