// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package gohost

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/Parzival-05/spla/backends"
	"github.com/Parzival-05/spla/pkg/core/dtypes"
	"github.com/Parzival-05/spla/pkg/core/status"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Launch implements backends.Backend.
//
// The kernel runs asynchronously, once one of the backend queues is free. Panics while running it, e.g. an
// integer division by zero in an operator, are reported by the Future as a DispatchError.
func (b *Backend) Launch(kernel backends.Kernel, args []any, workSize backends.WorkSize) (backends.Future, error) {
	if b.finalized.Load() {
		return nil, status.Errorf(status.InvalidState, "backend %q already finalized", BackendName)
	}
	k, ok := kernel.(*Kernel)
	if !ok || k == nil || k.backend != b {
		return nil, status.Errorf(status.InvalidArgument, "kernel %v was not compiled by this backend", kernel)
	}
	if err := checkArgs(k.program, args); err != nil {
		return nil, err
	}

	promise := backends.NewPromise()
	b.inFlight.Add(1)
	go func() {
		defer b.inFlight.Done()
		if err := b.queues.Acquire(context.Background(), 1); err != nil {
			promise.Resolve(status.Wrapf(err, status.DispatchError, "launching %s", k))
			return
		}
		defer b.queues.Release(1)
		start := time.Now()
		err := runProtected(func() error { return k.run(args) })
		if err != nil {
			err = status.Wrapf(err, status.DispatchError, "kernel %s failed", k)
		}
		klog.V(2).Infof("launched %s (%d work-items in %d groups): %s", k, workSize.Global, workSize.NumGroups(), time.Since(start))
		promise.Resolve(err)
	}()
	return promise, nil
}

// checkArgs validates args against the parameter layout of program.
func checkArgs(program *backends.Program, args []any) error {
	if len(args) != len(program.Params) {
		return status.Errorf(status.InvalidArgument, "%s takes %d arguments, %d given", program, len(program.Params), len(args))
	}
	for ii, param := range program.Params {
		switch param.Kind {
		case backends.ParamBuffer:
			buf, err := checkBuffer(args[ii])
			if err != nil {
				return errors.WithMessagef(err, "%s argument #%d (%s)", program, ii, param.Name)
			}
			if buf.dtype != param.DType {
				return status.Errorf(status.InvalidArgument, "%s argument #%d (%s): buffer of %s, expected %s",
					program, ii, param.Name, buf.dtype, param.DType)
			}
		case backends.ParamScalar:
			if dtype := dtypes.FromAny(args[ii]); dtype != param.DType {
				return status.Errorf(status.InvalidArgument, "%s argument #%d (%s): scalar %v (%T), expected %s",
					program, ii, param.Name, args[ii], args[ii], param.DType)
			}
		}
	}
	return nil
}

// panicToError converts a recovered panic to an error.
func panicToError(exception any) error {
	if err, ok := exception.(error); ok {
		return errors.WithStack(err)
	}
	return errors.Errorf("%v", exception)
}

// runProtected runs fn, converting panics to errors.
func runProtected(fn func() error) (err error) {
	if exception := exceptions.Try(func() { err = fn() }); exception != nil {
		return panicToError(exception)
	}
	return err
}

// chunksPerWorker controls the granularity of parallelFor.
const chunksPerWorker = 4

// parallelFor calls fn on consecutive ranges [start, end) covering [0, n), using the workers pool.
// It returns the first panic raised by fn as an error.
func (b *Backend) parallelFor(n int, fn func(start, end int)) error {
	if n <= 0 {
		return nil
	}
	numWorkers := b.workers.MaxParallelism()
	if numWorkers < 0 {
		numWorkers = runtime.NumCPU()
	}
	chunkSize := max(n/(max(numWorkers, 1)*chunksPerWorker), 1)
	if !b.workers.IsEnabled() {
		chunkSize = n
	}
	work := make(chan [2]int, (n+chunkSize-1)/chunkSize)
	for start := 0; start < n; start += chunkSize {
		work <- [2]int{start, min(start+chunkSize, n)}
	}
	close(work)

	var once sync.Once
	var firstErr error
	b.workers.Saturate(func() {
		for chunk := range work {
			if exception := exceptions.Try(func() { fn(chunk[0], chunk[1]) }); exception != nil {
				once.Do(func() { firstErr = panicToError(exception) })
			}
		}
	})
	return firstErr
}

// Native implementations of the kernel templates. The arguments follow the template parameters and were
// validated by Launch.

func mxmTMasked[T dtypes.Supported](b *Backend, f *opFuncs[T], args []any) error {
	ap, aj, ax := flatOf[uint32](args[0]), flatOf[uint32](args[1]), flatOf[T](args[2])
	bp, bj, bx := flatOf[uint32](args[3]), flatOf[uint32](args[4]), flatOf[T](args[5])
	mp, mj, mx := flatOf[uint32](args[6]), flatOf[uint32](args[7]), flatOf[T](args[8])
	rx := flatOf[T](args[9])
	init, numRows := args[10].(T), int(args[11].(uint32))
	if len(mp) < numRows+1 || len(ap) < numRows+1 || len(rx) < int(mp[numRows]) {
		return status.Errorf(status.InvalidArgument, "mxmT_masked: buffers too small for %d rows", numRows)
	}
	return b.parallelFor(numRows, func(start, end int) {
		for row := start; row < end; row++ {
			aEnd := ap[row+1]
			for k := mp[row]; k < mp[row+1]; k++ {
				if !f.structOnly && !f.sel(mx[k]) {
					rx[k] = init
					continue
				}
				col := mj[k]
				i, j, bEnd := ap[row], bp[col], bp[col+1]
				acc := init
				for i < aEnd && j < bEnd {
					switch aCol, bCol := aj[i], bj[j]; {
					case aCol == bCol:
						acc = f.binary2(acc, f.binary1(ax[i], bx[j]))
						i++
						j++
					case aCol < bCol:
						i++
					default:
						j++
					}
				}
				rx[k] = acc
			}
		}
	})
}

func mxvMasked[T dtypes.Supported](b *Backend, f *opFuncs[T], args []any) error {
	ap, aj, ax := flatOf[uint32](args[0]), flatOf[uint32](args[1]), flatOf[T](args[2])
	vx, mask, rx := flatOf[T](args[3]), flatOf[T](args[4]), flatOf[T](args[5])
	init, numRows := args[6].(T), int(args[7].(uint32))
	if len(ap) < numRows+1 || len(mask) < numRows || len(rx) < numRows {
		return status.Errorf(status.InvalidArgument, "mxv_masked: buffers too small for %d rows", numRows)
	}
	return b.parallelFor(numRows, func(start, end int) {
		for row := start; row < end; row++ {
			if !f.structOnly && !f.sel(mask[row]) {
				if f.replace {
					rx[row] = init
				}
				continue
			}
			acc := init
			for k := ap[row]; k < ap[row+1]; k++ {
				acc = f.binary2(acc, f.binary1(ax[k], vx[aj[k]]))
			}
			if f.accum != nil {
				acc = f.accum(rx[row], acc)
			}
			rx[row] = acc
		}
	})
}

func vMap[T dtypes.Supported](b *Backend, f *opFuncs[T], args []any) error {
	vx, rx, n := flatOf[T](args[0]), flatOf[T](args[1]), int(args[2].(uint32))
	if len(vx) < n || len(rx) < n {
		return status.Errorf(status.InvalidArgument, "v_map: buffers too small for %d elements", n)
	}
	return b.parallelFor(n, func(start, end int) {
		for i := start; i < end; i++ {
			value := f.unary(vx[i])
			if f.accum != nil {
				value = f.accum(rx[i], value)
			}
			rx[i] = value
		}
	})
}

func vEAdd[T dtypes.Supported](b *Backend, f *opFuncs[T], args []any) error {
	ux, vx, rx, n := flatOf[T](args[0]), flatOf[T](args[1]), flatOf[T](args[2]), int(args[3].(uint32))
	if len(ux) < n || len(vx) < n || len(rx) < n {
		return status.Errorf(status.InvalidArgument, "v_eadd: buffers too small for %d elements", n)
	}
	return b.parallelFor(n, func(start, end int) {
		for i := start; i < end; i++ {
			value := f.binary(ux[i], vx[i])
			if f.accum != nil {
				value = f.accum(rx[i], value)
			}
			rx[i] = value
		}
	})
}

// vReduce folds v sequentially, from init.
func vReduce[T dtypes.Supported](_ *Backend, f *opFuncs[T], args []any) error {
	vx, rx := flatOf[T](args[0]), flatOf[T](args[1])
	init, n := args[2].(T), int(args[3].(uint32))
	if len(vx) < n || len(rx) < 1 {
		return status.Errorf(status.InvalidArgument, "v_reduce: buffers too small for %d elements", n)
	}
	acc := init
	for _, value := range vx[:n] {
		acc = f.binary(acc, value)
	}
	if f.accum != nil {
		acc = f.accum(rx[0], acc)
	}
	rx[0] = acc
	return nil
}

func vAssignMasked[T dtypes.Supported](b *Backend, f *opFuncs[T], args []any) error {
	rx, mask := flatOf[T](args[0]), flatOf[T](args[1])
	value, n := args[2].(T), int(args[3].(uint32))
	if len(rx) < n || len(mask) < n {
		return status.Errorf(status.InvalidArgument, "v_assign_masked: buffers too small for %d elements", n)
	}
	return b.parallelFor(n, func(start, end int) {
		for i := start; i < end; i++ {
			if f.structOnly || f.sel(mask[i]) {
				rx[i] = f.binary(rx[i], value)
			}
		}
	})
}
