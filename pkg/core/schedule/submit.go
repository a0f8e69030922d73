// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"github.com/Parzival-05/spla/backends"
	"github.com/Parzival-05/spla/pkg/core/status"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// protect runs fn, converting a panic into a DispatchError.
func protect(task *Task, fn func() error) (err error) {
	exception := exceptions.Try(func() { err = fn() })
	if exception == nil {
		return err
	}
	if panicErr, ok := exception.(error); ok {
		return status.Wrapf(panicErr, status.DispatchError, "%s panicked", task)
	}
	return status.Errorf(status.DispatchError, "%s panicked: %v", task, exception)
}

// dispatchError gives errors without a status the DispatchError status.
func dispatchError(err error, task *Task, what string) error {
	if status.Of(err) == status.Error {
		return status.Wrapf(err, status.DispatchError, "%s: %s", task, what)
	}
	return errors.WithMessagef(err, "%s: %s", task, what)
}

// resolve validates the tasks and returns their kernels, compiling them if needed.
func (s *Schedule) resolve(step []*Task) ([]backends.Kernel, error) {
	kernelsOf := make([]backends.Kernel, len(step))
	var g errgroup.Group
	for ii, task := range step {
		g.Go(func() error {
			return protect(task, func() error {
				if err := task.checkArgs(); err != nil {
					return err
				}
				kernel, err := s.cache.Get(task.request)
				if err != nil {
					return errors.WithMessagef(err, "kernel for %s", task)
				}
				kernelsOf[ii] = kernel
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return kernelsOf, nil
}

// dispatch launches the tasks concurrently and waits for all of them.
func (s *Schedule) dispatch(step []*Task, kernelsOf []backends.Kernel) error {
	var g errgroup.Group
	for ii, task := range step {
		g.Go(func() error {
			return protect(task, func() error { return s.launch(task, kernelsOf[ii]) })
		})
	}
	return g.Wait()
}

// launch binds the arguments of task, launches its kernel and waits for its completion. If the backend
// doesn't share the host memory, the outputs are copied back.
func (s *Schedule) launch(task *Task, kernel backends.Kernel) error {
	params := kernel.Program().Params
	hostArgs, workSize, err := task.bind()
	if err != nil {
		return errors.WithMessagef(err, "binding arguments of %s", task)
	}
	if len(hostArgs) != len(params) {
		return status.Errorf(status.InvalidArgument, "%s: %d arguments bound for kernel %s with %d parameters",
			task, len(hostArgs), kernel.Program(), len(params))
	}

	args := make([]any, len(hostArgs))
	var buffers []backends.Buffer
	defer func() {
		for _, buffer := range buffers {
			if err := s.backend.BufferFinalize(buffer); err != nil {
				klog.Warningf("%s: failed to finalize buffer: %+v", task, err)
			}
		}
	}()
	for ii, param := range params {
		if param.Kind != backends.ParamBuffer {
			args[ii] = hostArgs[ii]
			continue
		}
		buffer, err := s.backend.BufferFromFlatData(hostArgs[ii])
		if err != nil {
			return dispatchError(err, task, "transferring argument "+param.Name)
		}
		buffers = append(buffers, buffer)
		args[ii] = buffer
	}

	future, err := s.backend.Launch(kernel, args, workSize)
	if err != nil {
		return dispatchError(err, task, "launch")
	}
	if err := future.Wait(); err != nil {
		return dispatchError(err, task, "execution")
	}
	if s.backend.HasSharedBuffers() {
		return nil
	}
	for ii, param := range params {
		if param.Kind == backends.ParamBuffer && param.Output {
			if err := s.backend.BufferToFlatData(args[ii], hostArgs[ii]); err != nil {
				return dispatchError(err, task, "transferring back output "+param.Name)
			}
		}
	}
	return nil
}
