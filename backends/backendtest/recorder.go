// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package backendtest provides a Backend wrapper for tests: it records compilations and launches, injects
// failures and can emulate a device with separate memory.
//
// It registers itself as the "recorder" backend, wrapping another backend given by the rest of the configuration,
// e.g. "recorder:go:parallelism=2".
package backendtest

import (
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Parzival-05/spla/backends"
	"github.com/Parzival-05/spla/pkg/core/status"
	"github.com/pkg/errors"
)

// BackendName of the recorder in the backends registry.
const BackendName = "recorder"

func init() {
	backends.Register(BackendName, func(config string) (backends.Backend, error) {
		inner, err := backends.NewWithConfig(config)
		if err != nil {
			return nil, err
		}
		return New(inner), nil
	})
}

// Launch records one kernel launch.
type Launch struct {
	// Kernel is the name of the launched program, its specialization key.
	Kernel string

	// Start is when Launch was called, End when the launch completed.
	Start, End time.Time

	// Err returned by the launch future.
	Err error
}

// Option configures a Recorder.
type Option func(r *Recorder)

// WithCopiedBuffers makes the Recorder emulate a device with separate memory: buffers are copies of the host data,
// and HasSharedBuffers returns false.
func WithCopiedBuffers() Option {
	return func(r *Recorder) { r.copyBuffers = true }
}

// WithLaunchDelay delays the completion of every launch by d.
func WithLaunchDelay(d time.Duration) Option {
	return func(r *Recorder) { r.launchDelay = d }
}

// Recorder wraps a Backend, recording its compilations and launches.
type Recorder struct {
	backends.Backend

	copyBuffers bool
	launchDelay time.Duration

	mu           sync.Mutex
	compilations map[string]int
	launches     []Launch
	failCompile  map[string]error
	failLaunch   map[string]error
}

var _ backends.Backend = &Recorder{}

// New wraps inner into a Recorder.
func New(inner backends.Backend, options ...Option) *Recorder {
	r := &Recorder{
		Backend:      inner,
		compilations: make(map[string]int),
		failCompile:  make(map[string]error),
		failLaunch:   make(map[string]error),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Inner returns the wrapped backend.
func (r *Recorder) Inner() backends.Backend { return r.Backend }

// Name returns "recorder".
func (r *Recorder) Name() string { return BackendName }

// Description includes the description of the wrapped backend.
func (r *Recorder) Description() string {
	return "Recorder wrapping " + r.Backend.Description()
}

// FailCompile makes the compilation of programs whose name contains match fail with err.
// The error is given a CompilationError status if it doesn't have one.
func (r *Recorder) FailCompile(match string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failCompile[match] = err
}

// FailLaunch makes the launches of kernels whose program name contains match fail with err.
func (r *Recorder) FailLaunch(match string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failLaunch[match] = err
}

func matchFailure(failures map[string]error, name string) error {
	for match, err := range failures {
		if strings.Contains(name, match) {
			return err
		}
	}
	return nil
}

// Compile implements backends.Backend, counting the compilations of each program.
func (r *Recorder) Compile(program *backends.Program) (backends.Kernel, error) {
	if program == nil {
		return r.Backend.Compile(program)
	}
	r.mu.Lock()
	r.compilations[program.Name]++
	injected := matchFailure(r.failCompile, program.Name)
	r.mu.Unlock()
	if injected != nil {
		if status.Of(injected) == status.Error {
			injected = status.Wrapf(injected, status.CompilationError, "compiling %s", program)
		}
		return nil, injected
	}
	return r.Backend.Compile(program)
}

// Compilations returns the number of times the program with the given name was compiled.
func (r *Recorder) Compilations(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.compilations[name]
}

// TotalCompilations returns the number of compilations of all programs.
func (r *Recorder) TotalCompilations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int
	for _, n := range r.compilations {
		total += n
	}
	return total
}

// Launch implements backends.Backend, recording the launch once it completes.
func (r *Recorder) Launch(kernel backends.Kernel, args []any, workSize backends.WorkSize) (backends.Future, error) {
	record := Launch{Kernel: kernel.Program().Name, Start: time.Now()}
	r.mu.Lock()
	injected := matchFailure(r.failLaunch, record.Kernel)
	r.mu.Unlock()
	if injected != nil {
		record.End, record.Err = time.Now(), injected
		r.record(record)
		return backends.Resolved(injected), nil
	}

	args = slices.Clone(args)
	for ii, arg := range args {
		if buf, ok := arg.(*copiedBuffer); ok {
			args[ii] = buf.inner
		}
	}
	future, err := r.Backend.Launch(kernel, args, workSize)
	if err != nil {
		return nil, err
	}
	promise := backends.NewPromise()
	go func() {
		err := future.Wait()
		if r.launchDelay > 0 {
			time.Sleep(r.launchDelay)
		}
		record.End, record.Err = time.Now(), err
		r.record(record)
		promise.Resolve(err)
	}()
	return promise, nil
}

func (r *Recorder) record(launch Launch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.launches = append(r.launches, launch)
}

// Launches returns the completed launches, in order of completion.
func (r *Recorder) Launches() []Launch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.launches)
}

// Reset forgets the recorded compilations and launches, and the injected failures.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.compilations)
	clear(r.failCompile)
	clear(r.failLaunch)
	r.launches = nil
}

// copiedBuffer is a buffer of the wrapped backend created from a private copy of the host data.
type copiedBuffer struct {
	inner backends.Buffer
}

// BufferFromFlatData implements backends.DataInterface.
func (r *Recorder) BufferFromFlatData(flat any) (backends.Buffer, error) {
	if !r.copyBuffers {
		return r.Backend.BufferFromFlatData(flat)
	}
	value := reflect.ValueOf(flat)
	if value.Kind() != reflect.Slice {
		return nil, status.Errorf(status.InvalidArgument, "can't create a buffer from %T", flat)
	}
	private := reflect.MakeSlice(value.Type(), value.Len(), value.Len())
	reflect.Copy(private, value)
	inner, err := r.Backend.BufferFromFlatData(private.Interface())
	if err != nil {
		return nil, err
	}
	return &copiedBuffer{inner: inner}, nil
}

func (r *Recorder) unwrap(buffer backends.Buffer) (backends.Buffer, error) {
	if !r.copyBuffers {
		return buffer, nil
	}
	buf, ok := buffer.(*copiedBuffer)
	if !ok {
		return nil, errors.Errorf("buffer %T was not created by the recorder", buffer)
	}
	return buf.inner, nil
}

// BufferToFlatData implements backends.DataInterface.
func (r *Recorder) BufferToFlatData(buffer backends.Buffer, flat any) error {
	inner, err := r.unwrap(buffer)
	if err != nil {
		return err
	}
	return r.Backend.BufferToFlatData(inner, flat)
}

// BufferFinalize implements backends.DataInterface.
func (r *Recorder) BufferFinalize(buffer backends.Buffer) error {
	inner, err := r.unwrap(buffer)
	if err != nil {
		return err
	}
	return r.Backend.BufferFinalize(inner)
}

// HasSharedBuffers implements backends.DataInterface.
func (r *Recorder) HasSharedBuffers() bool {
	return !r.copyBuffers && r.Backend.HasSharedBuffers()
}
